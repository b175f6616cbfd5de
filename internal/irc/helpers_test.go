package irc

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dalnet/ircengine/internal/chat"
	"github.com/dalnet/ircengine/internal/config"
)

var testTime = time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := &config.Config{Server: "irc.example.net", Nick: "me"}
	cfg.SetDefaults()
	return cfg
}

// offline is a System driven directly from the test goroutine, standing in
// for the interactor. Lines written to the server are collected in sent.
type offline struct {
	*System
	rec  *chat.Recorder
	sent []string
}

func newOffline(t *testing.T, cfg *config.Config) *offline {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	rec := chat.NewRecorder()
	o := &offline{rec: rec}
	o.System = New(cfg, rec, WithClock(func() time.Time { return testTime }))
	o.sink = func(line string) error {
		o.sent = append(o.sent, line)
		return nil
	}
	return o
}

// loggedIn seeds the local user as if the welcome reply had arrived.
func (o *offline) loggedIn() *offline {
	o.identity.seed(o.cfg.Nick)
	o.identity.register()
	o.rec.Reset()
	return o
}

func (o *offline) feed(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		msg, err := o.decode(line)
		require.NoError(t, err, line)
		require.NoError(t, o.dispatch(msg), line)
	}
}

func textsFor(events []chat.Event, target string) []string {
	var out []string
	for _, ev := range events {
		if ev.Target == target {
			out = append(out, ev.Text)
		}
	}
	return out
}

func changeKinds(changes []chat.Change) []chat.ChangeKind {
	var out []chat.ChangeKind
	for _, ch := range changes {
		out = append(out, ch.Kind)
	}
	return out
}

// fakeServer is the far end of a net.Pipe handed to the System by its dialer.
type fakeServer struct {
	t    *testing.T
	conn net.Conn

	lines chan string
	done  chan struct{}

	writeMu sync.Mutex
}

type pipeDialer struct {
	conn net.Conn
}

func (d *pipeDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	return d.conn, nil
}

// newConnected starts a System against a fake server.
func newConnected(t *testing.T, cfg *config.Config) (*System, *fakeServer, *chat.Recorder) {
	t.Helper()
	return newConnectedWith(t, cfg, nil)
}

// newConnectedWith is newConnected with extra receiving every event after
// the recorder.
func newConnectedWith(t *testing.T, cfg *config.Config, extra chat.Model) (*System, *fakeServer, *chat.Recorder) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	client, server := net.Pipe()
	fs := &fakeServer{
		t:     t,
		conn:  server,
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}
	go fs.read()

	rec := chat.NewRecorder()
	var model chat.Model = rec
	if extra != nil {
		model = chat.Tee{rec, extra}
	}
	s := New(cfg, model, WithDialer(&pipeDialer{conn: client}), WithClock(func() time.Time { return testTime }))
	require.NoError(t, s.Connect(context.Background()))
	t.Cleanup(func() {
		_ = s.Disconnect()
		waitDone(t, s)
		fs.close()
	})
	return s, fs, rec
}

func (fs *fakeServer) read() {
	defer close(fs.done)
	defer close(fs.lines)
	scanner := bufio.NewScanner(fs.conn)
	for scanner.Scan() {
		fs.lines <- strings.TrimRight(scanner.Text(), "\r")
	}
}

// expect returns the next line the client sent.
func (fs *fakeServer) expect(prefix string) string {
	fs.t.Helper()
	select {
	case line, ok := <-fs.lines:
		require.True(fs.t, ok, "connection closed while waiting for %q", prefix)
		require.True(fs.t, strings.HasPrefix(line, prefix), "got %q, want prefix %q", line, prefix)
		return line
	case <-time.After(5 * time.Second):
		fs.t.Fatalf("timed out waiting for %q", prefix)
	}
	return ""
}

// quiet asserts nothing arrives for a moment.
func (fs *fakeServer) quiet(d time.Duration) {
	fs.t.Helper()
	select {
	case line, ok := <-fs.lines:
		if ok {
			fs.t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(d):
	}
}

func (fs *fakeServer) send(lines ...string) {
	fs.t.Helper()
	fs.writeMu.Lock()
	defer fs.writeMu.Unlock()
	for _, line := range lines {
		_, err := fs.conn.Write([]byte(line + "\r\n"))
		require.NoError(fs.t, err)
	}
}

// login answers the registration handshake with a welcome.
func (fs *fakeServer) login(nick string) {
	fs.t.Helper()
	fs.expect("USER ")
	fs.expect("NICK " + nick)
	fs.send(":irc.example.net 001 " + nick + " :Welcome to the network " + nick)
}

func (fs *fakeServer) close() {
	fs.conn.Close()
	<-fs.done
}

func waitDone(t *testing.T, s *System) {
	t.Helper()
	done := s.Done()
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop")
	}
}

func waitFor(t *testing.T, rec *chat.Recorder, cond func([]chat.Event, []chat.Change) bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rec.WaitFor(ctx, cond))
}

func hasText(target, text string) func([]chat.Event, []chat.Change) bool {
	return func(events []chat.Event, _ []chat.Change) bool {
		for _, ev := range events {
			if ev.Target == target && ev.Text == text {
				return true
			}
		}
		return false
	}
}
