package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr string `yaml:"addr"`

	DataDir   string `yaml:"data_dir"`
	DBPath    string `yaml:"db_path"`
	StaticDir string `yaml:"static_dir"`

	// CanteenID is the single tenant every row is written under.
	CanteenID int64 `yaml:"canteen_id"`
	SkipSeed  bool  `yaml:"skip_seed"`

	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	VAPIDSubscriber string `yaml:"vapid_subscriber"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LoadConfigFile reads a YAML config. An empty path returns a zero Config.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields with any non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Addr, "ADDR")
	set(&c.DataDir, "DATA_DIR")
	set(&c.DBPath, "DB_PATH")
	set(&c.StaticDir, "STATIC_DIR")
	set(&c.VAPIDPublicKey, "VAPID_PUBLIC_KEY")
	set(&c.VAPIDPrivateKey, "VAPID_PRIVATE_KEY")
	set(&c.VAPIDSubscriber, "VAPID_SUBSCRIBER")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.LogFormat, "LOG_FORMAT")

	if v := strings.TrimSpace(getenv("CANTEEN_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.CanteenID = n
		}
	}
	if v := strings.TrimSpace(getenv("SKIP_SEED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SkipSeed = b
		}
	}
}

func (c *Config) withDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "foodiq.db")
	}
	if c.CanteenID <= 0 {
		c.CanteenID = 1
	}
	if c.VAPIDSubscriber == "" {
		c.VAPIDSubscriber = "mailto:admin@foodiq.local"
	}
}

func (c Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}
