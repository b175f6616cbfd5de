// Package chat is the protocol-agnostic surface a protocol engine drives: loci
// (identities, channels, users), broadcast events, and lifecycle changes.
package chat

import "time"

// LocusKind identifies what kind of destination a Locus is.
type LocusKind int

const (
	KindIdentity LocusKind = iota
	KindChannel
	KindUser
)

func (k LocusKind) String() string {
	switch k {
	case KindIdentity:
		return "identity"
	case KindChannel:
		return "channel"
	case KindUser:
		return "user"
	}
	return "unknown"
}

// Locus is any addressable destination for chat traffic.
type Locus interface {
	Kind() LocusKind
	Name() string
}

// SpeechKind tags how a piece of user speech was delivered. Besides the
// constants below, any single-word verb ("thinks", "asks") is a valid kind.
type SpeechKind string

const (
	Say        SpeechKind = "say"
	Notice     SpeechKind = "notice"
	Emote      SpeechKind = "emote"
	Possessive SpeechKind = "possessive"
)

// EventKind classifies a broadcast.
type EventKind int

const (
	// EventSystem is an informational message not attributed to a user.
	EventSystem EventKind = iota
	// EventSpeech is something a user said.
	EventSpeech
	// EventError reports a transport or login failure.
	EventError
	// EventBug reports an internal invariant violation.
	EventBug
)

func (k EventKind) String() string {
	switch k {
	case EventSystem:
		return "system"
	case EventSpeech:
		return "speech"
	case EventError:
		return "error"
	case EventBug:
		return "bug"
	}
	return "unknown"
}

// Event is a broadcast to a locus. Target and Sender are snapshots of the
// locus names at the time of the broadcast.
type Event struct {
	Kind    EventKind
	Locus   Locus
	Target  string
	From    Locus
	Sender  string
	Speech  SpeechKind
	Text    string
	Private bool
	Time    time.Time
}

// ChangeKind enumerates lifecycle notifications.
type ChangeKind int

const (
	IdentityRegistered ChangeKind = iota
	IdentityUnregistered
	ChannelAdded
	ChannelRemoved
	UserAdded
	UserRemoved
	UserRenamed
	Joined
	Left
	MemberAdded
	MemberRemoved
	TopicChanged
)

var changeNames = map[ChangeKind]string{
	IdentityRegistered:   "identity-registered",
	IdentityUnregistered: "identity-unregistered",
	ChannelAdded:         "channel-added",
	ChannelRemoved:       "channel-removed",
	UserAdded:            "user-added",
	UserRemoved:          "user-removed",
	UserRenamed:          "user-renamed",
	Joined:               "joined",
	Left:                 "left",
	MemberAdded:          "member-added",
	MemberRemoved:        "member-removed",
	TopicChanged:         "topic-changed",
}

func (k ChangeKind) String() string {
	if s, ok := changeNames[k]; ok {
		return s
	}
	return "unknown"
}

// Change is a lifecycle notification. Subject is the entity the change is
// about (a member for MemberAdded, for instance); Name is a snapshot of its
// name and Detail carries change-specific text such as an old name or topic.
type Change struct {
	Kind    ChangeKind
	Locus   Locus
	Subject Locus
	Name    string
	Detail  string
}

// Model receives everything the engine reports. Implementations are called
// from the engine's interactor goroutine only, one call at a time.
type Model interface {
	Broadcast(ev Event)
	Notify(ch Change)
}

// Tee fans every call out to each model in order.
type Tee []Model

func (t Tee) Broadcast(ev Event) {
	for _, m := range t {
		m.Broadcast(ev)
	}
}

func (t Tee) Notify(ch Change) {
	for _, m := range t {
		m.Notify(ch)
	}
}

// Funcs adapts plain functions to a Model. Nil fields are skipped.
type Funcs struct {
	OnBroadcast func(Event)
	OnNotify    func(Change)
}

func (f Funcs) Broadcast(ev Event) {
	if f.OnBroadcast != nil {
		f.OnBroadcast(ev)
	}
}

func (f Funcs) Notify(ch Change) {
	if f.OnNotify != nil {
		f.OnNotify(ch)
	}
}
