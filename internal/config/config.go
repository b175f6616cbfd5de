package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the connection template a session is built from
type Config struct {
	Server      string   `yaml:"server" toml:"server" validate:"required"`
	Port        int      `yaml:"port" toml:"port" validate:"min=1,max=65535"`
	Password    string   `yaml:"password" toml:"password"`
	Nick        string   `yaml:"nick" toml:"nick" validate:"required,max=64,excludesall=:#&!@"`
	Username    string   `yaml:"username" toml:"username" validate:"excludesall=@"`
	RealName    string   `yaml:"real_name" toml:"real_name"`
	UserInfo    string   `yaml:"user_info" toml:"user_info"`
	QuitMessage string   `yaml:"quit_message" toml:"quit_message"`
	VerboseCTCP bool     `yaml:"verbose_ctcp" toml:"verbose_ctcp"`
	Channels    []string `yaml:"channels" toml:"channels" validate:"dive,min=2,startswith=#|startswith=&|startswith=+|startswith=!"`
	DataDir     string   `yaml:"data_dir" toml:"data_dir"`
	MetricsAddr string   `yaml:"metrics_addr" toml:"metrics_addr"`
}

// envPrefix prefixes every environment override
const envPrefix = "IRCENGINE_"

var validate = validator.New()

// Load reads a YAML or TOML configuration file (chosen by extension),
// applies defaults and environment overrides, and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills in blank fields. Username and real name default to the
// nickname, which is the configured userid.
func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = 6667
	}
	if c.Username == "" {
		c.Username = c.Nick
	}
	if c.RealName == "" {
		c.RealName = c.Nick
	}
	if c.QuitMessage == "" {
		c.QuitMessage = "Leaving"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
}

// Validate checks the struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Address is the host:port to dial
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

// ApplyEnv overrides fields from IRCENGINE_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	strs := map[string]*string{
		"SERVER":       &c.Server,
		"PASSWORD":     &c.Password,
		"NICK":         &c.Nick,
		"USERNAME":     &c.Username,
		"REAL_NAME":    &c.RealName,
		"DATA_DIR":     &c.DataDir,
		"METRICS_ADDR": &c.MetricsAddr,
	}
	for key, field := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*field = v
		}
	}

	if v, ok := lookup(envPrefix + "PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v, ok := lookup(envPrefix + "VERBOSE_CTCP"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.VerboseCTCP = b
		}
	}
	if v, ok := lookup(envPrefix + "CHANNELS"); ok {
		c.Channels = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
}
