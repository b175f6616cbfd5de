package irc

import (
	"fmt"
	"strings"
)

// MaxLineLength is the protocol limit for one line, CRLF included.
const MaxLineLength = 512

// ctcpDelim frames a CTCP payload inside a PRIVMSG or NOTICE.
const ctcpDelim = "\x01"

// EncodeCommand renders a command line (without CRLF). It fails rather than
// mis-encode: every parameter but the last must be non-empty, free of spaces
// and not start with ':'; no parameter may contain CR, LF or NUL; the whole
// line with CRLF must fit in MaxLineLength.
func EncodeCommand(name string, params ...string) (string, error) {
	return encodeLine(name, params, false)
}

// encodeLine renders a line; forceTrailing puts a ':' before the last
// parameter even when it does not need one.
func encodeLine(name string, params []string, forceTrailing bool) (string, error) {
	if name == "" || strings.ContainsAny(name, " :\r\n\x00") {
		return "", fmt.Errorf("%w: %q", ErrBadCommand, name)
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(name))
	for i, p := range params {
		if strings.ContainsAny(p, "\r\n\x00") {
			return "", fmt.Errorf("%w: %q contains a line break or NUL", ErrBadParam, p)
		}
		last := i == len(params)-1
		trailing := p == "" || strings.IndexByte(p, ' ') >= 0 || p[0] == ':'
		b.WriteByte(' ')
		if trailing || (forceTrailing && last) {
			if !last {
				return "", fmt.Errorf("%w: %q at position %d", ErrBadParam, p, i)
			}
			b.WriteByte(':')
		}
		b.WriteString(p)
	}

	line := b.String()
	if len(line)+2 > MaxLineLength {
		return "", fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line)+2)
	}
	return line, nil
}

// EncodeRaw checks a caller-supplied line for legality.
func EncodeRaw(line string) (string, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" || strings.ContainsAny(line, "\r\n\x00") {
		return "", fmt.Errorf("%w: %q", ErrBadParam, line)
	}
	if len(line)+2 > MaxLineLength {
		return "", fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line)+2)
	}
	return line, nil
}

// FrameCtcp wraps a verb and text in CTCP delimiters.
func FrameCtcp(verb, text string) (string, error) {
	if verb == "" || strings.ContainsAny(verb, " \x01\r\n\x00") {
		return "", fmt.Errorf("%w: verb %q", ErrBadCtcp, verb)
	}
	if strings.ContainsAny(text, "\x01\r\n\x00") {
		return "", fmt.Errorf("%w: text %q", ErrBadCtcp, text)
	}
	payload := strings.ToUpper(verb)
	if text != "" {
		payload += " " + text
	}
	return ctcpDelim + payload + ctcpDelim, nil
}

// EncodeCtcp renders a CTCP request (PRIVMSG) or reply (NOTICE) to dest.
// An over-long result fails with ErrLineTooLong; nothing is truncated.
func EncodeCtcp(dest, verb, text string, notice bool) (string, error) {
	framed, err := FrameCtcp(verb, text)
	if err != nil {
		return "", err
	}
	cmd := "PRIVMSG"
	if notice {
		cmd = "NOTICE"
	}
	return encodeLine(cmd, []string{dest, framed}, true)
}
