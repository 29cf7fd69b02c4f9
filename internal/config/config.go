package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thanhnp/web3relay/pkg/logger"
)

//go:embed config.example.yaml
var defaultConfig []byte

// DefaultTraceFromBlock is used when node.trace_from_block is empty.
const DefaultTraceFromBlock uint64 = 0x1d4c00

// Cache drivers
const (
	DriverPebble = "pebble"
	DriverMongo  = "mongo"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Node     NodeConfig     `yaml:"node"`
	Cache    CacheConfig    `yaml:"cache"`
	Settings SettingsConfig `yaml:"settings"`
	Log      logger.Config  `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`

	// Source is the file the configuration was read from, or "embedded".
	Source string `yaml:"-"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// NodeConfig describes the node's websocket endpoint
type NodeConfig struct {
	Host              string        `yaml:"host"`
	WSPort            int           `yaml:"ws_port"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
	ReconnectAttempts int           `yaml:"reconnect_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	TraceFromBlock    string        `yaml:"trace_from_block"`
}

// CacheConfig selects and locates the explorer cache
type CacheConfig struct {
	Driver        string `yaml:"driver"`
	Path          string `yaml:"path"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

// SettingsConfig holds explorer feature flags
type SettingsConfig struct {
	UseFiat bool `yaml:"use_fiat"`
}

// MetricsConfig toggles the /metrics route
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads the YAML file at path and applies environment overrides. A
// missing file falls back to the bundled example configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultConfig, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse embedded config: %w", err)
	}
	cfg.Source = "embedded"

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			cfg.Source = path
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Node.Host == "" || c.Node.WSPort <= 0 {
		return fmt.Errorf("node host and ws_port are required")
	}
	if _, err := c.TraceFromBlock(); err != nil {
		return err
	}
	switch c.Cache.Driver {
	case DriverPebble:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache path is required for the %s driver", DriverPebble)
		}
	case DriverMongo:
		if c.Cache.MongoURI == "" || c.Cache.MongoDatabase == "" {
			return fmt.Errorf("mongo_uri and mongo_database are required for the %s driver", DriverMongo)
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	return nil
}

// NodeURL returns the node's websocket URL.
func (c *Config) NodeURL() string {
	return fmt.Sprintf("ws://%s:%d", c.Node.Host, c.Node.WSPort)
}

// TraceFromBlock parses node.trace_from_block (decimal or 0x hex). An empty
// value selects DefaultTraceFromBlock; "0" scans from genesis.
func (c *Config) TraceFromBlock() (uint64, error) {
	if c.Node.TraceFromBlock == "" {
		return DefaultTraceFromBlock, nil
	}
	n, err := strconv.ParseUint(c.Node.TraceFromBlock, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid trace_from_block %q: %w", c.Node.TraceFromBlock, err)
	}
	return n, nil
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("RELAY_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("RELAY_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Node config
	if host := os.Getenv("RELAY_NODE_HOST"); host != "" {
		c.Node.Host = host
	}
	if port := os.Getenv("RELAY_NODE_WS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Node.WSPort = p
		}
	}

	// Cache config
	if driver := os.Getenv("RELAY_CACHE_DRIVER"); driver != "" {
		c.Cache.Driver = driver
	}
	if path := os.Getenv("RELAY_CACHE_PATH"); path != "" {
		c.Cache.Path = path
	}
	if uri := os.Getenv("RELAY_MONGO_URI"); uri != "" {
		c.Cache.MongoURI = uri
	}

	if useFiat := os.Getenv("RELAY_USE_FIAT"); useFiat != "" {
		c.Settings.UseFiat = useFiat == "true" || useFiat == "1"
	}
	if level := os.Getenv("RELAY_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}
