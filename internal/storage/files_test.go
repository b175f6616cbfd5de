package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalnet/ircengine/internal/chat"
)

func TestTranscriptRoundTrip(t *testing.T) {
	dir := t.TempDir()

	// Newest first in memory.
	entries := []string{
		"[Thu, 20 Feb 2025 12:00:00 UTC] [#go] <joe> hello",
		"[Thu, 20 Feb 2025 11:00:00 UTC] [#go] joe has joined #go",
	}
	require.NoError(t, SaveTranscript(dir, entries))

	data, err := os.ReadFile(filepath.Join(dir, "transcript.txt"))
	require.NoError(t, err)
	assert.Equal(t, entries[1]+"\n"+entries[0]+"\n", string(data), "file is oldest first")

	loaded, err := LoadTranscript(dir)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()

	transcript, err := LoadTranscript(dir)
	require.NoError(t, err)
	assert.Empty(t, transcript)

	history, err := LoadHistory(dir)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAddEntry(t *testing.T) {
	entries := AddEntry([]string{"old1", "old2"}, "new")
	assert.Equal(t, []string{"new", "old1", "old2"}, entries)
}

func TestAddEntryMaxEntries(t *testing.T) {
	entries := make([]string, maxEntries)
	for i := range entries {
		entries[i] = "entry"
	}

	entries = AddEntry(entries, "new")
	assert.Len(t, entries, maxEntries)
	assert.Equal(t, "new", entries[0])
}

func TestHistoryKeepsNewest(t *testing.T) {
	dir := t.TempDir()

	var history []string
	for i := 0; i < maxEntries+10; i++ {
		history = AddHistory(history, "line")
	}
	history = AddHistory(history, "/quit")
	require.Len(t, history, maxEntries)
	require.NoError(t, SaveHistory(dir, history))

	loaded, err := LoadHistory(dir)
	require.NoError(t, err)
	require.Len(t, loaded, maxEntries)
	assert.Equal(t, "/quit", loaded[len(loaded)-1])
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)
	stamp := "[Thu, 20 Feb 2025 12:00:00 UTC]"

	tests := []struct {
		name string
		ev   chat.Event
		want string
	}{
		{"say", chat.Event{Kind: chat.EventSpeech, Speech: chat.Say, Target: "#go", Sender: "joe", Text: "hi"}, stamp + " [#go] <joe> hi"},
		{"notice", chat.Event{Kind: chat.EventSpeech, Speech: chat.Notice, Target: "me", Sender: "joe", Text: "psst"}, stamp + " [me] -joe- psst"},
		{"emote", chat.Event{Kind: chat.EventSpeech, Speech: chat.Emote, Target: "#go", Sender: "joe", Text: "waves"}, stamp + " [#go] * joe waves"},
		{"possessive", chat.Event{Kind: chat.EventSpeech, Speech: chat.Possessive, Target: "#go", Sender: "joe", Text: "hat"}, stamp + " [#go] * joe's hat"},
		{"verb", chat.Event{Kind: chat.EventSpeech, Speech: "thinks", Target: "#go", Sender: "joe", Text: "hmm"}, stamp + " [#go] * joe thinks: hmm"},
		{"system", chat.Event{Kind: chat.EventSystem, Target: "#go", Text: "joe has joined #go"}, stamp + " [#go] joe has joined #go"},
		{"error", chat.Event{Kind: chat.EventError, Target: "me", Text: "line\nbreak"}, stamp + " [me] error: line break"},
		{"bug", chat.Event{Kind: chat.EventBug, Target: "me", Text: "oops"}, stamp + " [me] bug: oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ev.Time = at
			assert.Equal(t, tt.want, FormatEvent(tt.ev))
		})
	}
}

func TestTranscriptModel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	tr, err := OpenTranscript(dir)
	require.NoError(t, err)

	at := time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)
	tr.Broadcast(chat.Event{Kind: chat.EventSystem, Target: "me", Text: "first", Time: at})
	tr.Broadcast(chat.Event{Kind: chat.EventSystem, Target: "me", Text: "second", Time: at})
	tr.Notify(chat.Change{Kind: chat.UserAdded})
	require.NoError(t, tr.Save())

	reopened, err := OpenTranscript(dir)
	require.NoError(t, err)
	entries := reopened.Entries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0], "second")
	assert.Contains(t, entries[1], "first")
}
