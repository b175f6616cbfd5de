package irc

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dalnet/ircengine/internal/chat"
)

// ctcpQuery produces the reply verb and text for a CTCP request.
type ctcpQuery func(s *System, m *CtcpMessage) (verb, text string)

var ctcpQueries map[string]ctcpQuery

func init() {
	ctcpQueries = map[string]ctcpQuery{
		"CLIENTINFO": func(*System, *CtcpMessage) (string, string) {
			return "CLIENTINFO", strings.Join(ctcpVerbs(), " ")
		},
		"DCC": func(_ *System, m *CtcpMessage) (string, string) {
			return "ERRMSG", strings.TrimSpace("DCC "+m.Text) + " :DCC is not supported"
		},
		"ECHO": func(_ *System, m *CtcpMessage) (string, string) {
			return "ECHO", m.Text
		},
		"ERRMSG": func(_ *System, m *CtcpMessage) (string, string) {
			return "ERRMSG", strings.TrimSpace(m.Text+" :No error")
		},
		"FINGER": func(s *System, _ *CtcpMessage) (string, string) {
			return "FINGER", fmt.Sprintf("%s (%s)", s.cfg.RealName, s.cfg.Username)
		},
		"PING": func(_ *System, m *CtcpMessage) (string, string) {
			return "PING", m.Text
		},
		"SED": func(*System, *CtcpMessage) (string, string) {
			return "ERRMSG", "SED :encryption is not supported"
		},
		"TIME": func(s *System, _ *CtcpMessage) (string, string) {
			return "TIME", s.now().Format(time.RFC1123)
		},
		"USERINFO": func(s *System, _ *CtcpMessage) (string, string) {
			if s.cfg.UserInfo != "" {
				return "USERINFO", s.cfg.UserInfo
			}
			return "USERINFO", s.cfg.RealName
		},
		"UTC": func(_ *System, m *CtcpMessage) (string, string) {
			return "ERRMSG", strings.TrimSpace("UTC "+m.Text) + " :UTC is not supported"
		},
		"VERSION": func(*System, *CtcpMessage) (string, string) {
			return "VERSION", VersionString()
		},
	}
}

// ctcpVerbs lists every recognized verb, ACTION included.
func ctcpVerbs() []string {
	verbs := []string{"ACTION"}
	for v := range ctcpQueries {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)
	return verbs
}

func (s *System) handleCtcp(m *CtcpMessage) error {
	if m.User == nil {
		s.systemMessage(s.identity, fmt.Sprintf("Received CTCP %s from the server: %s", m.Verb, m.Text))
		return nil
	}

	if m.Verb == "ACTION" {
		kind, text := parseAction(m.Text)
		s.speech(m.Locus, m.User, kind, text)
		return nil
	}

	// Replies answer our own queries and are never answered again.
	if m.Notice {
		s.systemMessage(m.User, strings.TrimSpace(fmt.Sprintf("CTCP %s reply from %s: %s", m.Verb, m.User.nick, m.Text)))
		return nil
	}

	if s.cfg.VerboseCTCP {
		s.systemMessage(m.User, strings.TrimSpace(fmt.Sprintf("CTCP %s from %s %s", m.Verb, m.User.nick, m.Text)))
	}

	verb, text := "ERRMSG", strings.TrimSpace(m.Verb+" "+m.Text)+" :unknown query"
	if q, ok := ctcpQueries[m.Verb]; ok {
		verb, text = q(s, m)
	}
	line, err := EncodeCtcp(m.User.nick, verb, text, true)
	if err != nil {
		return fmt.Errorf("CTCP %s reply to %s: %w", m.Verb, m.User.nick, err)
	}
	return s.sink(line)
}

// parseAction splits an ACTION into a speech kind and text: a leading
// "'s " is possessive, a leading "verb: " names the kind, anything else is
// a plain emote.
func parseAction(text string) (chat.SpeechKind, string) {
	if strings.HasPrefix(text, "'s ") {
		return chat.Possessive, text[3:]
	}
	if word, rest, ok := strings.Cut(text, " "); ok && len(word) > 1 && word[len(word)-1] == ':' {
		verb := word[:len(word)-1]
		if isVerb(verb) {
			return chat.SpeechKind(strings.ToLower(verb)), rest
		}
	}
	return chat.Emote, text
}

// actionText is the ACTION payload for a speech kind.
func actionText(kind chat.SpeechKind, text string) string {
	switch kind {
	case chat.Emote:
		return text
	case chat.Possessive:
		return "'s " + text
	}
	return string(kind) + ": " + text
}

func isVerb(w string) bool {
	for _, r := range w {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return w != ""
}
