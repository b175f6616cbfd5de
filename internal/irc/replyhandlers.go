package irc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dalnet/ircengine/internal/chat"
)

type replyHandler func(s *System, r *ServerReply) error

var replyHandlers = map[HandlerKind]replyHandler{
	AwayHandler:         (*System).onAway,
	ListHandler:         (*System).onList,
	NamesHandler:        (*System).onNames,
	EndOfNamesHandler:   (*System).onEndOfNames,
	WhoHandler:          (*System).onWho,
	TopicHandler:        (*System).onTopicReply,
	TopicWhoTimeHandler: (*System).onTopicWhoTime,
	JoinErrorHandler:    (*System).onJoinError,
}

// handleReply routes a numeric reply according to the reply table.
func (s *System) handleReply(r *ServerReply) error {
	a := Classify(r.Code)
	repliesRouted.WithLabelValues(a.Kind.String()).Inc()

	switch a.Kind {
	case Ignore:
		return nil
	case ToIdentity:
		if text := r.rest(1); text != "" {
			s.systemMessage(s.identity, text)
		}
		return nil
	case ToChannel:
		s.routeToChannel(r, r.rest(1))
		return nil
	case ToLocus:
		s.routeToLocus(r)
		return nil
	case Handled:
		h, ok := replyHandlers[a.Handler]
		if !ok {
			return bugf("reply %s has no handler %d", r.Code, a.Handler)
		}
		return h(s, r)
	case Unknown:
		s.log.Warn("unknown reply", zap.Stringer("code", r.Code))
		s.routeToChannel(r, strings.TrimSpace(r.Code.String()+" "+r.rest(1)))
		return nil
	}
	return bugf("reply %s classified as %v", r.Code, a.Kind)
}

// routeToChannel sends text to the first known channel named in the
// arguments, or to the identity.
func (s *System) routeToChannel(r *ServerReply, text string) {
	var locus chat.Locus = s.identity
	if name, _ := r.channelArg(); name != "" {
		if c := s.identity.Channel(name); c != nil {
			locus = c
		}
	}
	s.systemMessage(locus, text)
}

// routeToLocus sends the reply to the channel or user named by Args[1],
// falling back to the identity with the name kept in the text.
func (s *System) routeToLocus(r *ServerReply) {
	name, text := r.arg(1), r.rest(2)
	if c := s.identity.Channel(name); c != nil {
		s.systemMessage(c, text)
		return
	}
	if u := s.identity.User(name); u != nil {
		s.systemMessage(u, text)
		return
	}
	s.systemMessage(s.identity, strings.TrimSpace(name+" "+text))
}

// 301 <me> <nick> :<away message>
func (s *System) onAway(r *ServerReply) error {
	u := s.identity.userFor(r.arg(1))
	if u == nil {
		s.routeToLocus(r)
		return nil
	}
	u.away = r.rest(2)
	s.systemMessage(u, fmt.Sprintf("%s is away: %s", u.nick, u.away))
	return nil
}

// 322 <me> <channel> <visible> :<topic>
func (s *System) onList(r *ServerReply) error {
	listing, ok := s.recordListing(r)
	if !ok {
		s.routeToChannel(r, r.rest(1))
		return nil
	}
	s.systemMessage(s.identity, fmt.Sprintf("%s (%d): %s", listing.Name, listing.Users, listing.Topic))
	return nil
}

// recordListing stores a 322 line on its channel.
func (s *System) recordListing(r *ServerReply) (ChannelListing, bool) {
	c := s.identity.channelFor(r.arg(1))
	if c == nil {
		return ChannelListing{}, false
	}
	users, _ := strconv.Atoi(r.arg(2))
	c.listed = users
	if topic := r.rest(3); topic != c.topic {
		c.setTopic(topic)
	}
	return ChannelListing{Name: c.name, Users: users, Topic: c.topic}, true
}

// 353 <me> [<symbol>] <channel> :<nicks>
func (s *System) onNames(r *ServerReply) error {
	if len(r.Args) < 2 {
		return bugf("names reply without nicks: %s", r)
	}
	channel := ""
	for _, a := range r.Args[1 : len(r.Args)-1] {
		if IsChannelName(a) {
			channel = a
			break
		}
	}
	s.names.add(s.identity, channel, r.Args[len(r.Args)-1])
	return nil
}

// 366 <me> <channel> :End of NAMES list
func (s *System) onEndOfNames(r *ServerReply) error {
	s.names.finish(s.identity, r.arg(1))
	return nil
}

// 352 <me> <channel> <user> <host> <server> <nick> <flags> :<hops> <real name>
func (s *System) onWho(r *ServerReply) error {
	u := s.identity.userFor(r.arg(5))
	if u == nil {
		s.routeToChannel(r, r.rest(1))
		return nil
	}
	u.userHost = r.arg(2) + "@" + r.arg(3)
	if _, real, ok := strings.Cut(r.rest(7), " "); ok {
		u.realName = real
	}
	switch flags := r.arg(6); {
	case strings.HasPrefix(flags, "G"):
		if u.away == "" {
			u.away = "away"
		}
	case strings.HasPrefix(flags, "H"):
		u.away = ""
	}

	where := ""
	if c := s.identity.channelFor(r.arg(1)); c != nil {
		c.addMember(u)
		where = " on " + c.name
	}
	s.systemMessage(s.identity, fmt.Sprintf("%s (%s)%s: %s", u.nick, u.userHost, where, u.realName))
	return nil
}

// 332 <me> <channel> :<topic>
func (s *System) onTopicReply(r *ServerReply) error {
	c := s.identity.channelFor(r.arg(1))
	if c == nil {
		s.routeToLocus(r)
		return nil
	}
	c.setTopic(r.rest(2))
	s.systemMessage(c, fmt.Sprintf("Topic for %s: %s", c.name, c.topic))
	return nil
}

// 333 <me> <channel> <author> <unix time>
func (s *System) onTopicWhoTime(r *ServerReply) error {
	c := s.identity.channelFor(r.arg(1))
	if c == nil {
		s.routeToLocus(r)
		return nil
	}
	author, _, _ := strings.Cut(r.arg(2), "!")
	c.topicAuthor = author
	text := fmt.Sprintf("Topic for %s set by %s", c.name, author)
	if secs, err := strconv.ParseInt(r.arg(3), 10, 64); err == nil {
		c.topicTime = time.Unix(secs, 0)
		text += " on " + c.topicTime.UTC().Format(time.RFC1123)
	}
	s.systemMessage(c, text)
	return nil
}

// 405, 471, 473, 474, 475 <me> <channel> :<reason>
func (s *System) onJoinError(r *ServerReply) error {
	c := s.identity.channelFor(r.arg(1))
	if c == nil {
		s.routeToChannel(r, r.rest(1))
		return nil
	}
	s.systemMessage(c, fmt.Sprintf("Cannot join %s: %s", c.name, r.rest(2)))
	if c.joined {
		c.setJoined(false)
	} else {
		s.notify(chat.Change{Kind: chat.Left, Locus: c, Name: c.name})
	}
	return nil
}
