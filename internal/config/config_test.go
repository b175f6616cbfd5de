package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadYAMLDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server: irc.example.net
nick: joe
channels: ["#go", "#irc"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "irc.example.net", cfg.Server)
	assert.Equal(t, 6667, cfg.Port)
	assert.Equal(t, "joe", cfg.Username)
	assert.Equal(t, "joe", cfg.RealName)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, []string{"#go", "#irc"}, cfg.Channels)
	assert.Equal(t, "irc.example.net:6667", cfg.Address())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
server = "irc.example.net"
port = 6697
nick = "ann"
username = "annie"
verbose_ctcp = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6697, cfg.Port)
	assert.Equal(t, "annie", cfg.Username)
	assert.Equal(t, "ann", cfg.RealName)
	assert.True(t, cfg.VerboseCTCP)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing nick":   "server: irc.example.net\n",
		"missing server": "nick: joe\n",
		"bad port":       "server: a\nnick: joe\nport: 70000\n",
		"channel nick":   "server: a\nnick: \"#joe\"\n",
		"bare channel":   "server: a\nnick: joe\nchannels: [\"#ok\", go]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"IRCENGINE_NICK":         "override",
		"IRCENGINE_PORT":         "7000",
		"IRCENGINE_VERBOSE_CTCP": "true",
		"IRCENGINE_CHANNELS":     "#a,#b",
	}
	cfg := Config{Server: "irc.example.net", Nick: "joe"}
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "override", cfg.Nick)
	assert.Equal(t, 7000, cfg.Port)
	assert.True(t, cfg.VerboseCTCP)
	assert.Equal(t, []string{"#a", "#b"}, cfg.Channels)
}
