package irc

import (
	"sort"

	"github.com/dalnet/ircengine/internal/chat"
)

// User is a nickname on the network as seen by the local identity.
//
// The display name and the wire nickname can diverge: the engine follows
// nickname changes without forcing a rename in the domain model. Nick is
// what gets sent on the wire; ExtraNick is the part of the nickname a UI
// should show next to the display name.
type User struct {
	id *Identity

	name     string
	nick     string
	extra    string
	userHost string
	realName string
	away     string

	channels map[*Channel]struct{}
}

func newUser(id *Identity, nick string) *User {
	return &User{
		id:       id,
		name:     nick,
		nick:     nick,
		channels: make(map[*Channel]struct{}),
	}
}

func (u *User) Kind() chat.LocusKind { return chat.KindUser }

// Name is the display name.
func (u *User) Name() string { return u.name }

// Nick is the wire userid used when sending to this user.
func (u *User) Nick() string { return u.nick }

// ExtraNick is the nickname delta shown alongside the display name.
func (u *User) ExtraNick() string { return u.extra }

// Away is the last away message reported for the user, if any.
func (u *User) Away() string { return u.away }

// UserHost is the user@host part of the user's last seen source.
func (u *User) UserHost() string { return u.userHost }

// RealName is the real name from the last WHO reply.
func (u *User) RealName() string { return u.realName }

// IsSelf reports whether this is the local user.
func (u *User) IsSelf() bool { return u.id != nil && u.id.self == u }

// Channels returns the channels the user is known to be in, by name.
func (u *User) Channels() []*Channel {
	out := make([]*Channel, 0, len(u.channels))
	for c := range u.channels {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// InChannel reports membership in c.
func (u *User) InChannel(c *Channel) bool {
	_, ok := u.channels[c]
	return ok
}

// clearChannels drops the user from every channel it is in.
func (u *User) clearChannels() {
	for c := range u.channels {
		c.removeMember(u)
	}
}

// lastKnownNick records nick as the user's wire userid and reconciles the
// display fields. When the nickname extends the display name ("joe" then
// "joeAway"), only the suffix is kept as the extra nickname. When the
// nickname is a prefix of the display name ("joeAway" then "joe"), the
// display name shrinks to the nickname and the extra becomes empty. It
// returns the previous display name when it changed.
func (u *User) lastKnownNick(nick string) (oldName string, renamed bool) {
	u.nick = nick
	cname, cnick := foldCase(u.name), foldCase(nick)

	switch {
	case len(cnick) >= len(cname) && cnick[:len(cname)] == cname:
		u.extra = nick[len(u.name):]
	case len(cname) > len(cnick) && cname[:len(cnick)] == cnick:
		oldName = u.name
		u.name = nick
		u.extra = ""
		return oldName, true
	default:
		u.extra = nick
	}
	return "", false
}
