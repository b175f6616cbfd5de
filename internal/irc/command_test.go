package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalnet/ircengine/internal/chat"
)

func TestPingPong(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t, "PING :irc.example.net")
	assert.Equal(t, []string{"PONG irc.example.net"}, o.sent)
	assert.Empty(t, o.rec.Events())
}

func TestJoinPartKick(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	id := o.identity

	o.feed(t,
		":me!u@h JOIN #go",
		":joe!j@host JOIN #go",
	)
	c := id.Channel("#go")
	require.NotNil(t, c)
	joe := id.User("joe")
	require.NotNil(t, joe)
	assert.True(t, c.Joined())
	assert.True(t, c.HasMember(joe))
	assert.Equal(t, "j@host", joe.UserHost())

	o.feed(t, ":joe!j@host PART #go :bye")
	assert.False(t, c.HasMember(joe))

	o.feed(t, ":op!o@host KICK #go me :behave")
	assert.False(t, c.Joined())
	assert.Empty(t, c.Members())

	assert.Equal(t, []string{
		"me has joined #go",
		"joe has joined #go",
		"joe has left #go (bye)",
		"me was kicked from #go by op (behave)",
	}, textsFor(o.rec.Events(), "#go"))
}

func TestNickChangeReportedInEachChannel(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t,
		":joe!j@h JOIN #a",
		":joe!j@h JOIN #b",
	)
	o.rec.Reset()

	o.feed(t, ":joe!j@h NICK :joeAway")
	events := o.rec.Events()
	assert.Equal(t, []string{"joe is now known as joeAway"}, textsFor(events, "#a"))
	assert.Equal(t, []string{"joe is now known as joeAway"}, textsFor(events, "#b"))

	u := o.identity.User("joeAway")
	require.NotNil(t, u)
	assert.Equal(t, "Away", u.ExtraNick())
}

func TestOwnNickChange(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t, ":me!u@h NICK meToo")

	assert.Equal(t, "meToo", o.identity.Name())
	assert.Same(t, o.identity.Self(), o.identity.User("meToo"))
	assert.Equal(t, []string{"me is now known as meToo"}, textsFor(o.rec.Events(), "meToo"))
}

func TestQuitForgetsUser(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t,
		":joe!j@h JOIN #go",
		":joe!j@h QUIT :Client exited",
	)
	assert.Nil(t, o.identity.User("joe"))
	assert.Contains(t, textsFor(o.rec.Events(), "#go"), "joe has quit (Client exited)")
}

func TestTopicCommand(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t, ":joe!j@h TOPIC #go :all about gophers")

	c := o.identity.Channel("#go")
	require.NotNil(t, c)
	assert.Equal(t, "all about gophers", c.Topic())
	assert.Equal(t, "joe", c.TopicAuthor())
	assert.Equal(t, testTime, c.TopicTime())
}

func TestPrivmsgSpeech(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t,
		":joe!j@h PRIVMSG #go :hello all",
		":joe!j@h PRIVMSG me :psst",
		":joe!j@h NOTICE me :noted",
	)

	events := o.rec.Events()
	require.Len(t, events, 3)

	assert.Equal(t, chat.EventSpeech, events[0].Kind)
	assert.Equal(t, "#go", events[0].Target)
	assert.Equal(t, "joe", events[0].Sender)
	assert.Equal(t, chat.Say, events[0].Speech)
	assert.False(t, events[0].Private)

	assert.Equal(t, "joe", events[1].Target, "private speech lands on the sender")
	assert.True(t, events[1].Private)
	assert.Equal(t, "psst", events[1].Text)

	assert.Equal(t, chat.Notice, events[2].Speech)
}

func TestServerNoticeIsSystemMessage(t *testing.T) {
	o := newOffline(t, nil)
	o.feed(t, ":irc.example.net NOTICE * :*** Looking up your hostname")

	events := o.rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, chat.EventSystem, events[0].Kind)
	assert.Equal(t, "*** Looking up your hostname", events[0].Text)
	assert.Empty(t, o.identity.Users(), "server sources are not users")
}

func TestUnknownAndMisshapenCommands(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t,
		":joe!j@h WALLOPS :hello",
		":irc.example.net PRIVMSG #go :no user",
		":joe!j@h JOIN joe",
	)
	assert.Equal(t, []string{
		"Received unknown command: :joe!j@h WALLOPS :hello",
		"Received unknown command: :irc.example.net PRIVMSG #go :no user",
		"Received unknown command: :joe!j@h JOIN joe",
	}, textsFor(o.rec.Events(), "me"))
}

func TestInviteModeError(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	o.feed(t,
		":joe!j@h INVITE me #secret",
		":joe!j@h MODE #go +o me",
		"ERROR :Closing Link: me (Quit)",
	)
	events := o.rec.Events()
	assert.Contains(t, textsFor(events, "me"), "joe invites you to join #secret")
	assert.Contains(t, textsFor(events, "#go"), "joe sets mode +o me on #go")
	assert.Contains(t, textsFor(events, "me"), "Server error: Closing Link: me (Quit)")
}

func TestNickChangeOntoLocalNickIsAnError(t *testing.T) {
	o := newOffline(t, nil).loggedIn()
	msg, err := o.decode(":joe!j@h NICK :me")
	require.NoError(t, err)

	assert.Error(t, o.dispatch(msg))
	assert.Same(t, o.identity.Self(), o.identity.User("me"))
	assert.NotNil(t, o.identity.User("joe"))
}
