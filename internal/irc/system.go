package irc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalnet/ircengine/internal/chat"
	"github.com/dalnet/ircengine/internal/config"
	"github.com/dalnet/ircengine/internal/routing"
)

// Dialer opens the transport for a session. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *System) { s.log = l }
}

// WithDialer replaces the TCP dialer.
func WithDialer(d Dialer) Option {
	return func(s *System) { s.dialer = d }
}

// WithClock replaces time.Now for topic and CTCP TIME stamps.
func WithClock(now func() time.Time) Option {
	return func(s *System) { s.now = now }
}

// ReplyTap receives the numeric replies correlated with one command. It
// returns true once the exchange is complete. If the session ends first it
// is called a final time with nil. Taps run on the interactor goroutine.
type ReplyTap func(r *ServerReply) bool

// System is one IRC session: it connects, logs in, and turns the protocol
// into chat model events. All protocol state lives on the interactor
// goroutine; the exported methods only queue work for it.
type System struct {
	cfg    *config.Config
	model  chat.Model
	log    *zap.Logger
	dialer Dialer
	now    func() time.Time

	mu sync.Mutex
	ix *interactor

	// Owned by the interactor goroutine.
	identity *Identity
	names    *namesBatch
	sink     func(line string) error
}

// New creates a disconnected session from a connection template.
func New(cfg *config.Config, model chat.Model, opts ...Option) *System {
	s := &System{
		cfg:    cfg,
		model:  model,
		log:    zap.NewNop(),
		dialer: &net.Dialer{Timeout: 30 * time.Second},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.identity = newIdentity(s)
	s.names = newNamesBatch()
	s.sink = func(string) error { return ErrNotConnected }
	return s
}

// Identity is the session's identity locus. Its state must only be read
// from model callbacks or taps, which run on the interactor goroutine.
func (s *System) Identity() *Identity {
	return s.identity
}

func (s *System) current() *interactor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ix
}

// Connect starts a session in the background and returns immediately.
// Progress and failures are reported through the model.
func (s *System) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ix != nil && !s.ix.exitedNow() {
		return ErrAlreadyConnected
	}

	session := uuid.NewString()
	ix := newInteractor(s, s.log.With(zap.String("session", session)))
	s.ix = ix
	go ix.start(ctx)
	return nil
}

// Disconnect ends the session. It is safe to call at any time, any number
// of times.
func (s *System) Disconnect() error {
	if ix := s.current(); ix != nil {
		_ = ix.shutdown()
	}
	return nil
}

// Done is closed once the current session has fully stopped. It is nil
// before the first Connect.
func (s *System) Done() <-chan struct{} {
	if ix := s.current(); ix != nil {
		return ix.exited
	}
	return nil
}

// Quit sends QUIT with reason and treats the server closing the connection
// as a clean shutdown.
func (s *System) Quit(reason string) error {
	if reason == "" {
		reason = s.cfg.QuitMessage
	}
	line, err := EncodeCommand("QUIT", reason)
	if err != nil {
		return err
	}
	return s.queue(func(ix *interactor) error {
		ix.eofExpected = true
		return ix.write(line)
	}, nil)
}

// ExpectEOF marks the end of the stream as expected from now on.
func (s *System) ExpectEOF() error {
	return s.queue(func(ix *interactor) error {
		ix.eofExpected = true
		return nil
	}, nil)
}

// SendCommand queues a command. Encoding errors are returned before
// anything is queued.
func (s *System) SendCommand(name string, params ...string) error {
	line, err := EncodeCommand(name, params...)
	if err != nil {
		return err
	}
	return s.queueLine(line)
}

// RawSend queues a pre-formatted line.
func (s *System) RawSend(line string) error {
	line, err := EncodeRaw(line)
	if err != nil {
		return err
	}
	return s.queueLine(line)
}

// SendCtcp queues a CTCP request (PRIVMSG) or reply (NOTICE) to dest.
func (s *System) SendCtcp(dest, verb, text string, notice bool) error {
	line, err := EncodeCtcp(dest, verb, text, notice)
	if err != nil {
		return err
	}
	return s.queueLine(line)
}

// Join queues a JOIN, with an optional key.
func (s *System) Join(channel, key string) error {
	if !IsChannelName(channel) {
		return fmt.Errorf("%w: %q is not a channel", ErrBadParam, channel)
	}
	if key == "" {
		return s.SendCommand("JOIN", channel)
	}
	return s.SendCommand("JOIN", channel, key)
}

// Part queues a PART with an optional reason.
func (s *System) Part(channel, reason string) error {
	if !IsChannelName(channel) {
		return fmt.Errorf("%w: %q is not a channel", ErrBadParam, channel)
	}
	if reason == "" {
		return s.SendCommand("PART", channel)
	}
	return s.SendCommand("PART", channel, reason)
}

// CommandTap sends a command and feeds every reply whose code is in codes
// to tap until it reports completion. While the exchange is outstanding no
// other queued request runs; replies with other codes are handled normally.
func (s *System) CommandTap(name string, params []string, codes []ReplyCode, tap ReplyTap) error {
	line, err := EncodeCommand(name, params...)
	if err != nil {
		return err
	}
	set := make(map[ReplyCode]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return s.queue(func(ix *interactor) error {
		ix.runTap(line, set, tap)
		return nil
	}, func() { tap(nil) })
}

// Speak says text to a channel or user. Say and Notice map to PRIVMSG and
// NOTICE; every other kind is sent as a CTCP ACTION. Illegal text fails
// here; a line that ends up over the length limit once the target is
// resolved is reported as an error event on the locus.
func (s *System) Speak(locus chat.Locus, kind chat.SpeechKind, text string) error {
	switch locus.(type) {
	case *Channel, *User:
	default:
		return ErrNotSpeakable
	}
	if text == "" {
		return fmt.Errorf("%w: empty text", ErrBadParam)
	}
	if _, err := speechLine("x", kind, text); err != nil {
		return err
	}
	return s.queue(func(ix *interactor) error {
		return s.speakOn(ix, locus, kind, text)
	}, nil)
}

// SpeakTo is Speak addressed by name: a channel name or a nickname,
// resolved to its locus on the interactor goroutine.
func (s *System) SpeakTo(target string, kind chat.SpeechKind, text string) error {
	if CanonicalChannel(target) == "" && CanonicalUser(target) == "" {
		return fmt.Errorf("%w: bad target %q", ErrBadParam, target)
	}
	if text == "" {
		return fmt.Errorf("%w: empty text", ErrBadParam)
	}
	if _, err := speechLine(target, kind, text); err != nil {
		return err
	}
	return s.queue(func(ix *interactor) error {
		var locus chat.Locus
		if c := s.identity.channelFor(target); c != nil {
			locus = c
		} else if u := s.identity.userFor(target); u != nil {
			locus = u
		}
		if locus == nil {
			return fmt.Errorf("%w: bad target %q", ErrBadParam, target)
		}
		return s.speakOn(ix, locus, kind, text)
	}, nil)
}

func (s *System) speakOn(ix *interactor, locus chat.Locus, kind chat.SpeechKind, text string) error {
	target := ""
	switch l := locus.(type) {
	case *Channel:
		target = l.name
	case *User:
		target = l.nick
	}
	line, err := speechLine(target, kind, text)
	if err != nil {
		s.broadcast(chat.Event{Kind: chat.EventError, Locus: locus, Text: fmt.Sprintf("Could not send: %v", err)})
		return nil
	}
	if err := ix.write(line); err != nil {
		return err
	}
	if self := s.identity.self; self != nil {
		s.speech(locus, self, kind, text)
	}
	return nil
}

// speechLine encodes speech of the given kind to target.
func speechLine(target string, kind chat.SpeechKind, text string) (string, error) {
	switch kind {
	case chat.Say, "":
		return EncodeCommand("PRIVMSG", target, text)
	case chat.Notice:
		return EncodeCommand("NOTICE", target, text)
	case chat.Emote, chat.Possessive:
	default:
		if !isVerb(string(kind)) {
			return "", fmt.Errorf("%w: speech kind %q", ErrBadParam, kind)
		}
	}
	return EncodeCtcp(target, "ACTION", actionText(kind, text), false)
}

// List requests the channel list. Listings arrive in batches of at most
// batchSize; the last call has last set.
func (s *System) List(batchSize int, fn func(batch []ChannelListing, last bool)) error {
	c := newListCollector(s, batchSize, fn)
	return s.CommandTap("LIST", nil, []ReplyCode{RplListStart, RplList, RplListEnd}, c.handle)
}

// Links requests the server links and delivers them as a rendered tree.
func (s *System) Links(fn func(lines []string, err error)) error {
	tree := routing.NewLinkTree()
	return s.CommandTap("LINKS", nil, []ReplyCode{RplLinks, RplEndOfLinks}, func(r *ServerReply) bool {
		if r == nil {
			fn(nil, ErrNotConnected)
			return true
		}
		if r.Code == RplEndOfLinks {
			fn(tree.Build(), nil)
			return true
		}
		tree.AddLine(r.arg(1), r.arg(2), r.rest(3))
		return false
	})
}

func (s *System) queueLine(line string) error {
	return s.queue(func(ix *interactor) error { return ix.write(line) }, nil)
}

// queue hands fn to the interactor. abandon runs instead if the session
// ends before fn does.
func (s *System) queue(fn func(ix *interactor) error, abandon func()) error {
	ix := s.current()
	if ix == nil {
		return ErrNotConnected
	}
	return ix.enqueue(item{kind: itemCall, call: func() error { return fn(ix) }, abandon: abandon})
}

// send writes a command from the interactor goroutine.
func (s *System) send(name string, params ...string) error {
	line, err := EncodeCommand(name, params...)
	if err != nil {
		return err
	}
	return s.sink(line)
}

func (s *System) notify(ch chat.Change) {
	if s.model != nil {
		s.model.Notify(ch)
	}
}

func (s *System) broadcast(ev chat.Event) {
	if ev.Locus == nil {
		ev.Locus = s.identity
	}
	ev.Target = ev.Locus.Name()
	ev.Private = ev.Locus.Kind() != chat.KindChannel
	if ev.From != nil {
		ev.Sender = ev.From.Name()
	}
	if ev.Time.IsZero() {
		ev.Time = s.now()
	}
	if s.model != nil {
		s.model.Broadcast(ev)
	}
}

// systemMessage broadcasts informational text to locus.
func (s *System) systemMessage(locus chat.Locus, text string) {
	s.broadcast(chat.Event{Kind: chat.EventSystem, Locus: locus, Text: text})
}

// speech broadcasts something from said to locus.
func (s *System) speech(locus chat.Locus, from *User, kind chat.SpeechKind, text string) {
	ev := chat.Event{Kind: chat.EventSpeech, Locus: locus, Speech: kind, Text: text}
	if from != nil {
		ev.From = from
	}
	s.broadcast(ev)
}

func (s *System) errorMessage(text string) {
	s.log.Warn("session error", zap.String("text", text))
	s.broadcast(chat.Event{Kind: chat.EventError, Locus: s.identity, Text: text})
}

func (s *System) bugReport(err error) {
	bugReports.Inc()
	s.log.Error("internal error", zap.Error(err))
	s.broadcast(chat.Event{Kind: chat.EventBug, Locus: s.identity, Text: err.Error()})
}
