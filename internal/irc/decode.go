package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/dalnet/ircengine/internal/chat"
)

// Message is a decoded line: a *ServerReply, *CommandMessage or *CtcpMessage.
type Message interface {
	isMessage()
}

// CommandMessage is a named command bound to the entities it concerns.
type CommandMessage struct {
	Verb   string
	Args   []string
	Locus  chat.Locus
	User   *User
	Source string
	Line   string
}

// CtcpMessage is a CTCP payload carried in a PRIVMSG (request) or NOTICE
// (reply).
type CtcpMessage struct {
	Verb   string
	Text   string
	Notice bool
	Target string
	Locus  chat.Locus
	User   *User
	Source string
}

func (*ServerReply) isMessage()    {}
func (*CommandMessage) isMessage() {}
func (*CtcpMessage) isMessage()    {}

// decode parses one line and binds its source and target to entities. It
// must run on the interactor goroutine because it may create users and
// channels.
func (s *System) decode(line string) (Message, error) {
	line = strings.TrimRight(line, "\r\n")
	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", line, err)
	}

	verb := strings.ToUpper(msg.Command)
	if verb == "" {
		return nil, fmt.Errorf("parse %q: no command", line)
	}
	if verb[0] >= '0' && verb[0] <= '9' {
		code, ok := ParseReplyCode(verb)
		if !ok {
			return nil, fmt.Errorf("parse %q: malformed numeric %q", line, verb)
		}
		return &ServerReply{Code: code, Source: msg.Source, Args: msg.Params}, nil
	}

	user := s.sourceUser(&msg)
	locus := s.resolveLocus(msg.Params, user)

	if (verb == "PRIVMSG" || verb == "NOTICE") && len(msg.Params) == 2 {
		if cverb, text, ok := splitCtcp(msg.Params[1]); ok {
			return &CtcpMessage{
				Verb:   cverb,
				Text:   text,
				Notice: verb == "NOTICE",
				Target: msg.Params[0],
				Locus:  locus,
				User:   user,
				Source: msg.Source,
			}, nil
		}
	}

	return &CommandMessage{
		Verb:   verb,
		Args:   msg.Params,
		Locus:  locus,
		User:   user,
		Source: msg.Source,
		Line:   line,
	}, nil
}

// sourceUser resolves the message prefix to a user, creating it if needed.
// Server prefixes and messages without a prefix have no user.
func (s *System) sourceUser(msg *ircmsg.Message) *User {
	if msg.Source == "" {
		return nil
	}
	nick := msg.Nick()
	if !strings.ContainsRune(msg.Source, '!') && strings.ContainsRune(nick, '.') {
		return nil
	}
	u := s.identity.userFor(nick)
	if u == nil {
		return nil
	}
	if nuh, err := msg.NUH(); err == nil && nuh.User != "" {
		u.userHost = nuh.User + "@" + nuh.Host
	}
	return u
}

// resolveLocus picks where a command happens: the channel named by the
// first argument, else the source user, else the identity.
func (s *System) resolveLocus(args []string, user *User) chat.Locus {
	if len(args) > 0 && IsChannelName(args[0]) {
		if c := s.identity.channelFor(args[0]); c != nil {
			return c
		}
	}
	if user != nil {
		return user
	}
	return s.identity
}

// splitCtcp unwraps a CTCP-framed argument into its verb and text.
func splitCtcp(arg string) (verb, text string, ok bool) {
	if len(arg) < 2 || arg[0] != '\x01' || arg[len(arg)-1] != '\x01' {
		return "", "", false
	}
	payload := arg[1 : len(arg)-1]
	verb, text, _ = strings.Cut(payload, " ")
	if verb == "" {
		return "", "", false
	}
	return strings.ToUpper(verb), text, true
}

// dispatch routes a decoded message to its handler.
func (s *System) dispatch(msg Message) error {
	switch m := msg.(type) {
	case *ServerReply:
		return s.handleReply(m)
	case *CommandMessage:
		return s.handleCommand(m)
	case *CtcpMessage:
		return s.handleCtcp(m)
	}
	return bugf("dispatch of %T", msg)
}
