package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/dalnet/ircengine/internal/chat"
	"github.com/dalnet/ircengine/internal/storage"
)

// console prints events to the terminal and remembers the channel input
// goes to by default.
type console struct {
	mu      sync.Mutex
	out     io.Writer
	current string
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) Broadcast(ev chat.Event) {
	c.println(storage.FormatEvent(ev))
}

func (c *console) Notify(ch chat.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch ch.Kind {
	case chat.Joined:
		c.current = ch.Name
	case chat.Left:
		if c.current == ch.Name {
			c.current = ""
		}
	case chat.IdentityUnregistered:
		c.current = ""
	}
}

// Current is the last joined channel still joined, or "".
func (c *console) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *console) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

func (c *console) printf(format string, args ...any) {
	c.println(fmt.Sprintf(format, args...))
}
