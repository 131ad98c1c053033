package coinbase

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"candlesync/pkg/confkit"
)

// Config describes the exchange client settings loaded from etc/exchange.yaml.
type Config struct {
	BaseURL string `yaml:"base_url"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`

	MaxRetries int    `yaml:"max_retries"`
	UserAgent  string `yaml:"user_agent"`
}

// LoadConfig reads exchange configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exchange config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read exchange config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal exchange config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.BaseURL = strings.TrimSpace(os.ExpandEnv(c.BaseURL))
	c.UserAgent = strings.TrimSpace(os.ExpandEnv(c.UserAgent))
	c.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(c.TimeoutRaw))
	if c.TimeoutRaw != "" {
		d, err := time.ParseDuration(c.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("exchange config: invalid timeout %q: %w", c.TimeoutRaw, err)
		}
		if d <= 0 {
			return fmt.Errorf("exchange config: timeout must be positive, got %s", d)
		}
		c.Timeout = d
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("exchange config: max_retries must be non-negative")
	}
	return nil
}

// NewClient builds a Client from the configuration. A nil receiver yields
// a client with library defaults.
func (c *Config) NewClient(opts ...Option) *Client {
	if c == nil {
		return NewClient(opts...)
	}
	all := make([]Option, 0, len(opts)+4)
	if c.BaseURL != "" {
		all = append(all, WithBaseURL(c.BaseURL))
	}
	if c.Timeout > 0 {
		all = append(all, WithHTTPClient(&http.Client{Timeout: c.Timeout}))
	}
	if c.MaxRetries > 0 {
		all = append(all, WithMaxRetries(c.MaxRetries))
	}
	if c.UserAgent != "" {
		all = append(all, WithUserAgent(c.UserAgent))
	}
	all = append(all, opts...)
	return NewClient(all...)
}
