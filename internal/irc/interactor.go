package irc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"
)

type itemKind int

const (
	itemLine itemKind = iota
	itemEOF
	itemError
	itemCall
	itemShutdown
)

// item is one mailbox entry: a line from the server, the end of the
// stream, a queued request, or the shutdown sentinel.
type item struct {
	kind    itemKind
	line    string
	err     error
	call    func() error
	abandon func()
}

// mailbox is an unbounded FIFO with a single consumer. put never blocks,
// so models and taps running on the interactor may queue requests.
type mailbox struct {
	mu    sync.Mutex
	items []item
	ready chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

func (m *mailbox) put(it item) {
	m.mu.Lock()
	m.items = append(m.items, it)
	m.mu.Unlock()
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// take blocks until an item is available.
func (m *mailbox) take() item {
	for {
		m.mu.Lock()
		if len(m.items) > 0 {
			it := m.items[0]
			m.items[0] = item{}
			m.items = m.items[1:]
			m.mu.Unlock()
			return it
		}
		m.mu.Unlock()
		<-m.ready
	}
}

// drain removes and returns everything queued.
func (m *mailbox) drain() []item {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.items
	m.items = nil
	return items
}

type ixState int

const (
	running ixState = iota
	disconnected
)

// interactor is the single goroutine that owns a session's protocol state.
// Everything that touches the identity graph runs here, in mailbox order.
type interactor struct {
	sys *System
	log *zap.Logger

	mailbox *mailbox
	done    chan struct{}
	exited  chan struct{}

	// closeMu orders enqueue against the final mailbox drain.
	closeMu sync.RWMutex
	closed  bool

	// Owned by the interactor goroutine.
	conn        net.Conn
	w           *bufio.Writer
	state       ixState
	deferred    []item
	eofExpected bool
	loggedIn    bool
	readerDone  chan struct{}
}

func newInteractor(sys *System, log *zap.Logger) *interactor {
	return &interactor{
		sys:     sys,
		log:     log,
		mailbox: newMailbox(),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

func (ix *interactor) exitedNow() bool {
	select {
	case <-ix.exited:
		return true
	default:
		return false
	}
}

// enqueue adds a request from any goroutine.
func (ix *interactor) enqueue(it item) error {
	ix.closeMu.RLock()
	defer ix.closeMu.RUnlock()
	if ix.closed {
		return ErrNotConnected
	}
	ix.mailbox.put(it)
	return nil
}

// deliver adds a value from the reader goroutine.
func (ix *interactor) deliver(it item) bool {
	select {
	case <-ix.done:
		return false
	default:
	}
	ix.mailbox.put(it)
	return true
}

func (ix *interactor) shutdown() error {
	return ix.enqueue(item{kind: itemShutdown})
}

// start dials and then runs the session until it ends.
func (ix *interactor) start(ctx context.Context) {
	s := ix.sys
	addr := s.cfg.Address()
	ix.log.Info("connecting", zap.String("addr", addr))

	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		ix.state = disconnected
		s.errorMessage(fmt.Sprintf("Could not connect to %s: %v", addr, err))
		ix.finish()
		return
	}
	ix.run(conn, ix.login)
}

// run drives the session over conn; startup runs first on the interactor
// goroutine.
func (ix *interactor) run(conn net.Conn, startup func() error) {
	ix.conn = conn
	ix.w = bufio.NewWriter(conn)
	ix.readerDone = make(chan struct{})
	ix.sys.sink = ix.write
	go ix.readLoop(conn)

	defer ix.finish()

	ix.guard(startup)
	for ix.state == running {
		ix.drainDeferred()
		if ix.state != running {
			break
		}
		ix.handle(ix.mailbox.take())
	}
}

// drainDeferred runs requests held back while a tap was outstanding.
func (ix *interactor) drainDeferred() {
	for len(ix.deferred) > 0 && ix.state == running {
		it := ix.deferred[0]
		ix.deferred = ix.deferred[1:]
		ix.handle(it)
	}
}

func (ix *interactor) handle(it item) {
	switch it.kind {
	case itemLine:
		ix.guard(func() error { return ix.dispatchLine(it.line) })
	case itemCall:
		ix.guard(it.call)
	case itemShutdown:
		ix.terminate(nil)
	case itemEOF:
		ix.terminate(io.EOF)
	case itemError:
		ix.terminate(it.err)
	}
}

// guard runs fn, turning panics and internal errors into bug reports so one
// bad message cannot end the session.
func (ix *interactor) guard(fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			ix.sys.bugReport(bugf("panic: %v", r))
		}
	}()
	err := fn()
	if err == nil {
		return
	}
	var bug *BugError
	if errors.As(err, &bug) {
		ix.sys.bugReport(err)
		return
	}
	ix.sys.errorMessage(err.Error())
}

func (ix *interactor) dispatchLine(line string) error {
	msg, err := ix.sys.decode(line)
	if err != nil {
		ix.log.Warn("undecodable line", zap.String("line", line), zap.Error(err))
		ix.sys.systemMessage(ix.sys.identity, "Received unparseable line: "+line)
		return nil
	}
	return ix.sys.dispatch(msg)
}

// runTap sends line and consumes the mailbox until tap completes or the
// session ends. Queued requests wait in deferred meanwhile, so exchanges
// never interleave.
func (ix *interactor) runTap(line string, codes map[ReplyCode]bool, tap ReplyTap) {
	tapsStarted.Inc()
	if ix.state == running {
		if err := ix.write(line); err != nil {
			ix.terminate(err)
		}
	}
	for ix.state == running {
		it := ix.mailbox.take()
		switch it.kind {
		case itemCall:
			ix.deferred = append(ix.deferred, it)
		case itemLine:
			if ix.tapLine(it.line, codes, tap) {
				return
			}
		default:
			ix.handle(it)
		}
	}
	tapsAbandoned.Inc()
	ix.callTap(tap, nil)
}

// tapLine offers one line to tap, reporting whether the tap retired.
func (ix *interactor) tapLine(line string, codes map[ReplyCode]bool, tap ReplyTap) bool {
	msg, err := ix.sys.decode(line)
	if err != nil {
		ix.guard(func() error { return ix.dispatchLine(line) })
		return false
	}
	if r, ok := msg.(*ServerReply); ok && codes[r.Code] {
		return ix.callTap(tap, r)
	}
	ix.guard(func() error { return ix.sys.dispatch(msg) })
	return false
}

// callTap runs tap; a tap that panics is retired.
func (ix *interactor) callTap(tap ReplyTap, r *ServerReply) (done bool) {
	defer func() {
		if p := recover(); p != nil {
			ix.sys.bugReport(bugf("reply tap panic: %v", p))
			done = true
		}
	}()
	return tap(r)
}

// write sends one encoded line.
func (ix *interactor) write(line string) error {
	if ix.state != running || ix.w == nil {
		return ErrNotConnected
	}
	ix.log.Debug("send", zap.String("line", line))
	if _, err := ix.w.WriteString(line + "\r\n"); err != nil {
		ix.terminate(err)
		return nil
	}
	if err := ix.w.Flush(); err != nil {
		ix.terminate(err)
		return nil
	}
	linesSent.Inc()
	return nil
}

// terminate moves to the disconnected state. err is nil for a requested
// shutdown; io.EOF is an error unless it was expected.
func (ix *interactor) terminate(err error) {
	if ix.state == disconnected {
		return
	}
	ix.state = disconnected

	switch {
	case err == nil:
		ix.log.Info("disconnecting")
	case errors.Is(err, io.EOF) && ix.eofExpected:
		ix.log.Info("connection closed")
	case errors.Is(err, io.EOF):
		ix.sys.errorMessage("Connection closed by the server.")
	default:
		ix.sys.errorMessage(fmt.Sprintf("Connection error: %v", err))
	}
}

// finish releases the connection, retires pending requests and resets the
// identity. It runs once, on the interactor goroutine.
func (ix *interactor) finish() {
	close(ix.done)
	if ix.conn != nil {
		ix.conn.Close()
		<-ix.readerDone
	}

	ix.closeMu.Lock()
	ix.closed = true
	ix.closeMu.Unlock()

	pending := append(ix.deferred, ix.mailbox.drain()...)
	ix.deferred = nil
	for _, it := range pending {
		if it.abandon != nil {
			tapsAbandoned.Inc()
			it.abandon()
		}
	}

	s := ix.sys
	s.sink = func(string) error { return ErrNotConnected }
	s.names.reset()
	s.systemMessage(s.identity, "Disconnected.")
	s.identity.reset()
	ix.log.Info("session ended")
	close(ix.exited)
}

// readLoop frames lines off the connection and feeds them to the mailbox,
// ending with an EOF or error value.
func (ix *interactor) readLoop(conn net.Conn) {
	defer close(ix.readerDone)
	reader := newLineReader(conn)
	for {
		line, err := reader.next()
		if err != nil {
			it := item{kind: itemError, err: err}
			if errors.Is(err, io.EOF) {
				it.kind = itemEOF
			}
			ix.deliver(it)
			return
		}
		ix.log.Debug("recv", zap.String("line", line))
		if !ix.deliver(item{kind: itemLine, line: line}) {
			return
		}
	}
}
