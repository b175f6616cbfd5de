package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalnet/ircengine/internal/chat"
	"github.com/dalnet/ircengine/internal/irc"
	"github.com/dalnet/ircengine/internal/storage"
)

// session is the part of *irc.System the terminal drives.
type session interface {
	Join(channel, key string) error
	Part(channel, reason string) error
	SpeakTo(target string, kind chat.SpeechKind, text string) error
	SendCtcp(dest, verb, text string, notice bool) error
	RawSend(line string) error
	Quit(reason string) error
	List(batchSize int, fn func(batch []irc.ChannelListing, last bool)) error
	Links(fn func(lines []string, err error)) error
}

var errNoChannel = errors.New("no current channel; /join one or use /msg")

// commander turns terminal input into session requests.
type commander struct {
	sess    session
	out     *console
	history []string
}

func newCommander(sess session, out *console) *commander {
	return &commander{sess: sess, out: out}
}

// run reads lines until input ends, the session ends, or ctx is done.
func (c *commander) run(ctx context.Context, in io.Reader, sessionDone <-chan struct{}) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-sessionDone:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sessionDone:
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := c.exec(line); err != nil {
				c.out.printf("error: %v", err)
			}
		}
	}
}

// exec runs one input line.
func (c *commander) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	c.history = storage.AddHistory(c.history, line)
	if !strings.HasPrefix(line, "/") || strings.HasPrefix(line, "//") {
		return c.say(strings.TrimPrefix(line, "/"))
	}

	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(name) {
	case "join":
		channel, key, _ := strings.Cut(rest, " ")
		return c.sess.Join(channel, strings.TrimSpace(key))
	case "part":
		channel, reason, _ := strings.Cut(rest, " ")
		if channel == "" {
			channel = c.out.Current()
		}
		return c.sess.Part(channel, strings.TrimSpace(reason))
	case "me":
		target := c.out.Current()
		if target == "" {
			return errNoChannel
		}
		return c.sess.SpeakTo(target, chat.Emote, rest)
	case "msg":
		target, text, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("usage: /msg target text")
		}
		return c.sess.SpeakTo(target, chat.Say, text)
	case "notice":
		target, text, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("usage: /notice target text")
		}
		return c.sess.SpeakTo(target, chat.Notice, text)
	case "ctcp":
		fields := strings.SplitN(rest, " ", 3)
		if len(fields) < 2 {
			return fmt.Errorf("usage: /ctcp target VERB [text]")
		}
		text := ""
		if len(fields) == 3 {
			text = fields[2]
		}
		return c.sess.SendCtcp(fields[0], strings.ToUpper(fields[1]), text, false)
	case "list":
		return c.sess.List(irc.DefaultListBatch, c.printListing)
	case "links":
		return c.sess.Links(c.printLinks)
	case "raw", "quote":
		return c.sess.RawSend(rest)
	case "quit":
		return c.sess.Quit(rest)
	}
	return fmt.Errorf("unknown command /%s", name)
}

func (c *commander) say(text string) error {
	target := c.out.Current()
	if target == "" {
		return errNoChannel
	}
	return c.sess.SpeakTo(target, chat.Say, text)
}

func (c *commander) printListing(batch []irc.ChannelListing, last bool) {
	for _, l := range batch {
		c.out.printf("%-20s %5d  %s", l.Name, l.Users, l.Topic)
	}
	if last {
		c.out.println("End of channel list")
	}
}

func (c *commander) printLinks(lines []string, err error) {
	if err != nil {
		c.out.printf("links: %v", err)
		return
	}
	for _, line := range lines {
		c.out.println(line)
	}
}
