// Package storage keeps the client's bounded text files in the data dir:
// the event transcript and the input history.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dalnet/ircengine/internal/chat"
)

const maxEntries = 500

const (
	transcriptFile = "transcript.txt"
	historyFile    = "history.txt"
)

// LoadTranscript reads the transcript, newest entry first.
func LoadTranscript(dataDir string) ([]string, error) {
	lines, err := readLines(filepath.Join(dataDir, transcriptFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	// The file stores oldest first.
	return reverse(lines), nil
}

// SaveTranscript writes entries given newest first.
func SaveTranscript(dataDir string, entries []string) error {
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	return writeLines(filepath.Join(dataDir, transcriptFile), reverse(entries))
}

// LoadHistory reads the input history, oldest entry first.
func LoadHistory(dataDir string) ([]string, error) {
	lines, err := readLines(filepath.Join(dataDir, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return lines, nil
}

// SaveHistory writes the input history (max 500 entries, newest kept).
func SaveHistory(dataDir string, history []string) error {
	if len(history) > maxEntries {
		history = history[len(history)-maxEntries:]
	}
	return writeLines(filepath.Join(dataDir, historyFile), history)
}

// AddEntry prepends an entry, keeping newest first.
func AddEntry(entries []string, entry string) []string {
	entries = append([]string{entry}, entries...)
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	return entries
}

// AddHistory appends an input line.
func AddHistory(history []string, line string) []string {
	history = append(history, line)
	if len(history) > maxEntries {
		history = history[1:]
	}
	return history
}

// FormatEvent renders an event as one transcript line.
func FormatEvent(ev chat.Event) string {
	stamp := ev.Time.UTC().Format(time.RFC1123)
	text := oneLine(ev.Text)
	switch ev.Kind {
	case chat.EventSpeech:
		switch ev.Speech {
		case chat.Say, "":
			return fmt.Sprintf("[%s] [%s] <%s> %s", stamp, ev.Target, ev.Sender, text)
		case chat.Notice:
			return fmt.Sprintf("[%s] [%s] -%s- %s", stamp, ev.Target, ev.Sender, text)
		case chat.Emote:
			return fmt.Sprintf("[%s] [%s] * %s %s", stamp, ev.Target, ev.Sender, text)
		case chat.Possessive:
			return fmt.Sprintf("[%s] [%s] * %s's %s", stamp, ev.Target, ev.Sender, text)
		}
		return fmt.Sprintf("[%s] [%s] * %s %s: %s", stamp, ev.Target, ev.Sender, ev.Speech, text)
	case chat.EventError:
		return fmt.Sprintf("[%s] [%s] error: %s", stamp, ev.Target, text)
	case chat.EventBug:
		return fmt.Sprintf("[%s] [%s] bug: %s", stamp, ev.Target, text)
	}
	return fmt.Sprintf("[%s] [%s] %s", stamp, ev.Target, text)
}

// Transcript is a chat.Model that records every broadcast event.
type Transcript struct {
	dir string

	mu      sync.Mutex
	entries []string
}

// OpenTranscript loads the transcript kept in dataDir, creating the
// directory if needed.
func OpenTranscript(dataDir string) (*Transcript, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	entries, err := LoadTranscript(dataDir)
	if err != nil {
		return nil, err
	}
	return &Transcript{dir: dataDir, entries: entries}, nil
}

// Broadcast records ev.
func (t *Transcript) Broadcast(ev chat.Event) {
	line := FormatEvent(ev)
	t.mu.Lock()
	t.entries = AddEntry(t.entries, line)
	t.mu.Unlock()
}

// Notify ignores entity changes.
func (t *Transcript) Notify(chat.Change) {}

// Entries returns the recorded lines, newest first.
func (t *Transcript) Entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.entries...)
}

// Save writes the transcript back to the data dir.
func (t *Transcript) Save() error {
	return SaveTranscript(t.dir, t.Entries())
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			file.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func reverse(s []string) []string {
	result := make([]string, len(s))
	for i, v := range s {
		result[len(s)-1-i] = v
	}
	return result
}
