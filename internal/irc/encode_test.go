package irc

import (
	"strings"
	"testing"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		name   string
		cmd    string
		params []string
		want   string
	}{
		{"no params", "quit", nil, "QUIT"},
		{"middle only", "join", []string{"#go"}, "JOIN #go"},
		{"trailing with space", "privmsg", []string{"#go", "hello world"}, "PRIVMSG #go :hello world"},
		{"trailing with colon", "privmsg", []string{"#go", ":)"}, "PRIVMSG #go ::)"},
		{"empty trailing", "topic", []string{"#go", ""}, "TOPIC #go :"},
		{"plain last", "nick", []string{"joe"}, "NICK joe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeCommand(tt.cmd, tt.params...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeCommandRejects(t *testing.T) {
	_, err := EncodeCommand("PRIVMSG", "#go channel", "hi")
	assert.ErrorIs(t, err, ErrBadParam, "space in a middle parameter")

	_, err = EncodeCommand("PRIVMSG", ":go", "hi")
	assert.ErrorIs(t, err, ErrBadParam, "colon-led middle parameter")

	_, err = EncodeCommand("PRIVMSG", "", "hi")
	assert.ErrorIs(t, err, ErrBadParam, "empty middle parameter")

	_, err = EncodeCommand("PRIVMSG", "#go", "hi\r\nQUIT")
	assert.ErrorIs(t, err, ErrBadParam, "line break")

	_, err = EncodeCommand("PRIV MSG", "#go")
	assert.ErrorIs(t, err, ErrBadCommand)

	_, err = EncodeCommand("")
	assert.ErrorIs(t, err, ErrBadCommand)
}

func TestEncodeCommandLength(t *testing.T) {
	overhead := len("PRIVMSG #go :") + 2
	fits := strings.Repeat("a", MaxLineLength-overhead)

	line, err := EncodeCommand("PRIVMSG", "#go", fits)
	require.NoError(t, err)
	assert.Equal(t, MaxLineLength, len(line)+2)

	_, err = EncodeCommand("PRIVMSG", "#go", fits+"a")
	assert.ErrorIs(t, err, ErrLineTooLong)
}

func TestEncodeCtcpActionBoundary(t *testing.T) {
	overhead := len("PRIVMSG #go :\x01ACTION \x01") + 2
	fits := strings.Repeat("x", MaxLineLength-overhead)

	line, err := EncodeCtcp("#go", "ACTION", fits, false)
	require.NoError(t, err)
	assert.Equal(t, MaxLineLength, len(line)+2, "exactly at the limit")

	_, err = EncodeCtcp("#go", "ACTION", fits+"x", false)
	assert.ErrorIs(t, err, ErrLineTooLong, "one byte over fails instead of truncating")
}

func TestEncodeCtcp(t *testing.T) {
	line, err := EncodeCtcp("joe", "version", "", true)
	require.NoError(t, err)
	assert.Equal(t, "NOTICE joe :\x01VERSION\x01", line)

	line, err = EncodeCtcp("#go", "ACTION", "waves", false)
	require.NoError(t, err)
	assert.Equal(t, "PRIVMSG #go :\x01ACTION waves\x01", line)

	_, err = EncodeCtcp("joe", "BAD VERB", "", false)
	assert.ErrorIs(t, err, ErrBadCtcp)

	_, err = EncodeCtcp("joe", "PING", "a\x01b", false)
	assert.ErrorIs(t, err, ErrBadCtcp)
}

func TestEncodedLinesParse(t *testing.T) {
	lines := []struct {
		params []string
	}{
		{[]string{"#go", "hello world"}},
		{[]string{"#go", ":starts with colon"}},
		{[]string{"joe", ""}},
		{[]string{"joe", "word"}},
	}
	for _, tt := range lines {
		line, err := EncodeCommand("PRIVMSG", tt.params...)
		require.NoError(t, err)

		msg, err := ircmsg.ParseLine(line)
		require.NoError(t, err, line)
		assert.Equal(t, "PRIVMSG", msg.Command)
		assert.Equal(t, tt.params, msg.Params, line)
	}

	line, err := EncodeCtcp("joe", "PING", "12345", false)
	require.NoError(t, err)
	msg, err := ircmsg.ParseLine(line)
	require.NoError(t, err)
	verb, text, ok := splitCtcp(msg.Params[1])
	require.True(t, ok)
	assert.Equal(t, "PING", verb)
	assert.Equal(t, "12345", text)
}

func TestEncodeRaw(t *testing.T) {
	line, err := EncodeRaw("WHOIS joe\r\n")
	require.NoError(t, err)
	assert.Equal(t, "WHOIS joe", line)

	_, err = EncodeRaw("")
	assert.ErrorIs(t, err, ErrBadParam)

	_, err = EncodeRaw("WHOIS joe\r\nQUIT")
	assert.ErrorIs(t, err, ErrBadParam)

	_, err = EncodeRaw(strings.Repeat("a", MaxLineLength-1))
	assert.ErrorIs(t, err, ErrLineTooLong)
}
