package irc

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dalnet/ircengine/internal/chat"
)

// errShape marks a command whose locus or user could not be resolved; it
// is then reported like an unknown command.
var errShape = errors.New("unexpected message shape")

type commandHandler func(s *System, m *CommandMessage) error

var commandHandlers = map[string]commandHandler{
	"ERROR":   (*System).onError,
	"INVITE":  (*System).onInvite,
	"JOIN":    (*System).onJoin,
	"KICK":    (*System).onKick,
	"MODE":    (*System).onMode,
	"NICK":    (*System).onNick,
	"NOTICE":  (*System).onNotice,
	"PART":    (*System).onPart,
	"PING":    (*System).onPing,
	"PRIVMSG": (*System).onPrivmsg,
	"QUIT":    (*System).onQuit,
	"TOPIC":   (*System).onTopic,
}

func (s *System) handleCommand(m *CommandMessage) error {
	h, ok := commandHandlers[m.Verb]
	if !ok {
		commandsHandled.WithLabelValues("unknown").Inc()
		s.unknownCommand(m)
		return nil
	}
	commandsHandled.WithLabelValues(strings.ToLower(m.Verb)).Inc()

	err := h(s, m)
	if errors.Is(err, errShape) {
		s.unknownCommand(m)
		return nil
	}
	return err
}

func (s *System) unknownCommand(m *CommandMessage) {
	s.log.Warn("unknown command", zap.String("line", m.Line))
	s.systemMessage(s.identity, "Received unknown command: "+m.Line)
}

func (m *CommandMessage) arg(i int) string {
	if i < len(m.Args) {
		return m.Args[i]
	}
	return ""
}

// channelAndUser returns the channel locus and source user, or errShape.
func (m *CommandMessage) channelAndUser() (*Channel, *User, error) {
	c, ok := m.Locus.(*Channel)
	if !ok || m.User == nil {
		return nil, nil, errShape
	}
	return c, m.User, nil
}

func withReason(text, reason string) string {
	if reason == "" {
		return text
	}
	return fmt.Sprintf("%s (%s)", text, reason)
}

func (s *System) onError(m *CommandMessage) error {
	s.systemMessage(s.identity, "Server error: "+strings.Join(m.Args, " "))
	return nil
}

func (s *System) onInvite(m *CommandMessage) error {
	channel := m.arg(1)
	if m.User == nil || !IsChannelName(channel) {
		return errShape
	}
	s.broadcast(chat.Event{
		Kind:  chat.EventSystem,
		Locus: s.identity,
		From:  m.User,
		Text:  fmt.Sprintf("%s invites you to join %s", m.User.nick, channel),
	})
	return nil
}

func (s *System) onJoin(m *CommandMessage) error {
	c, u, err := m.channelAndUser()
	if err != nil {
		return err
	}
	if u.IsSelf() {
		c.setJoined(true)
	} else {
		c.addMember(u)
	}
	s.systemMessage(c, fmt.Sprintf("%s has joined %s", u.nick, c.name))
	return nil
}

func (s *System) onKick(m *CommandMessage) error {
	c, ok := m.Locus.(*Channel)
	victim := s.identity.userFor(m.arg(1))
	if !ok || victim == nil {
		return errShape
	}
	by := "the server"
	if m.User != nil {
		by = m.User.nick
	}
	text := withReason(fmt.Sprintf("%s was kicked from %s by %s", victim.nick, c.name, by), m.arg(2))
	s.systemMessage(c, text)

	if victim.IsSelf() {
		c.setJoined(false)
	} else {
		c.removeMember(victim)
	}
	return nil
}

func (s *System) onMode(m *CommandMessage) error {
	if len(m.Args) < 2 {
		return errShape
	}
	change := strings.Join(m.Args[1:], " ")
	if m.User != nil {
		s.systemMessage(m.Locus, fmt.Sprintf("%s sets mode %s on %s", m.User.nick, change, m.Args[0]))
	} else {
		s.systemMessage(m.Locus, fmt.Sprintf("Mode %s on %s", change, m.Args[0]))
	}
	return nil
}

func (s *System) onNick(m *CommandMessage) error {
	u := m.User
	nick := m.arg(0)
	if u == nil || !IsUserName(nick) {
		return errShape
	}
	old := u.nick
	if !s.identity.renameUser(u, nick) {
		return fmt.Errorf("%s cannot take the nickname %s of the local user", old, nick)
	}

	text := fmt.Sprintf("%s is now known as %s", old, nick)
	channels := u.Channels()
	for _, c := range channels {
		s.systemMessage(c, text)
	}
	if u.IsSelf() {
		s.systemMessage(s.identity, text)
	} else if len(channels) == 0 {
		s.systemMessage(u, text)
	}
	return nil
}

func (s *System) onNotice(m *CommandMessage) error {
	text := m.arg(len(m.Args) - 1)
	if m.User == nil {
		s.systemMessage(s.identity, text)
		return nil
	}
	s.speech(m.Locus, m.User, chat.Notice, text)
	return nil
}

func (s *System) onPart(m *CommandMessage) error {
	c, u, err := m.channelAndUser()
	if err != nil {
		return err
	}
	s.systemMessage(c, withReason(fmt.Sprintf("%s has left %s", u.nick, c.name), m.arg(1)))
	if u.IsSelf() {
		c.setJoined(false)
	} else {
		c.removeMember(u)
	}
	return nil
}

func (s *System) onPing(m *CommandMessage) error {
	if len(m.Args) == 0 {
		return errShape
	}
	return s.send("PONG", m.Args...)
}

func (s *System) onPrivmsg(m *CommandMessage) error {
	if m.User == nil || len(m.Args) < 2 {
		return errShape
	}
	s.speech(m.Locus, m.User, chat.Say, m.Args[1])
	return nil
}

func (s *System) onQuit(m *CommandMessage) error {
	u := m.User
	if u == nil {
		return errShape
	}
	text := withReason(fmt.Sprintf("%s has quit", u.nick), m.arg(0))
	for _, c := range u.Channels() {
		s.systemMessage(c, text)
	}
	s.identity.removeUser(u)
	return nil
}

func (s *System) onTopic(m *CommandMessage) error {
	c, u, err := m.channelAndUser()
	if err != nil {
		return err
	}
	topic := m.arg(1)
	c.topicAuthor = u.nick
	c.topicTime = s.now()
	c.setTopic(topic)
	s.systemMessage(c, fmt.Sprintf("%s sets the topic of %s to: %s", u.nick, c.name, topic))
	return nil
}
