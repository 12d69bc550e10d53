package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/biztositok/biztositok-go/api"
)

// EnvPrefix prefixes every environment variable, e.g. BIZTOSITOK_API_ENDPOINT.
const EnvPrefix = "BIZTOSITOK"

// Config holds the CLI configuration merged from defaults, a config file, the
// environment and command line flags, in increasing order of precedence.
type Config struct {
	APIEndpoint string `mapstructure:"api_endpoint" yaml:"api_endpoint" json:"api_endpoint"`
	Username    string `mapstructure:"username" yaml:"username" json:"username"`
	Password    string `mapstructure:"password" yaml:"password" json:"password"`

	ConnectTimeout  time.Duration     `mapstructure:"connect_timeout" yaml:"connect_timeout" json:"connect_timeout"`
	Timeout         time.Duration     `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	UserAgent       string            `mapstructure:"user_agent" yaml:"user_agent" json:"user_agent"`
	FollowRedirects bool              `mapstructure:"follow_redirects" yaml:"follow_redirects" json:"follow_redirects"`
	MaxRedirects    int               `mapstructure:"max_redirects" yaml:"max_redirects" json:"max_redirects"`
	Headers         map[string]string `mapstructure:"headers" yaml:"headers,omitempty" json:"headers,omitempty"`

	// Transport selects the engine: "http" (net/http) or "resty"
	Transport string `mapstructure:"transport" yaml:"transport" json:"transport"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
	Output    string `mapstructure:"output" yaml:"output" json:"output"`
}

// LoadOptions tells Load where to look besides the defaults and environment.
type LoadOptions struct {
	// File is an optional YAML or JSON config file
	File string

	// EnvFile is a dotenv file loaded into the environment if it exists
	EnvFile string

	// Flags are bound by name, see FlagKeys
	Flags *pflag.FlagSet
}

// FlagKeys maps command line flag names to configuration keys.
var FlagKeys = map[string]string{
	"endpoint":         "api_endpoint",
	"username":         "username",
	"password":         "password",
	"connect-timeout":  "connect_timeout",
	"timeout":          "timeout",
	"user-agent":       "user_agent",
	"follow-redirects": "follow_redirects",
	"max-redirects":    "max_redirects",
	"transport":        "transport",
	"log-level":        "log_level",
	"log-format":       "log_format",
	"output":           "output",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_endpoint", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("connect_timeout", api.DefaultConnectTimeout)
	v.SetDefault("timeout", api.DefaultTimeout)
	v.SetDefault("user_agent", api.DefaultUserAgent)
	v.SetDefault("follow_redirects", true)
	v.SetDefault("max_redirects", api.DefaultMaxRedirects)
	v.SetDefault("headers", map[string]string{})
	v.SetDefault("transport", "http")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("output", "text")
}

// Load builds the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ClientConfig returns the connection settings for api.New.
func (c *Config) ClientConfig() api.Config {
	return api.Config{
		APIEndpoint: c.APIEndpoint,
		Username:    c.Username,
		Password:    c.Password,
	}
}

// TransportOptions returns the transport settings, FollowRedirects included.
func (c *Config) TransportOptions() api.TransportOptions {
	return api.TransportOptions{
		ConnectTimeout:  c.ConnectTimeout,
		Timeout:         c.Timeout,
		UserAgent:       c.UserAgent,
		FollowRedirects: c.FollowRedirects,
		MaxRedirects:    c.MaxRedirects,
		Headers:         c.Headers,
	}
}

// Masked returns a copy that is safe to print.
func (c Config) Masked() Config {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}
