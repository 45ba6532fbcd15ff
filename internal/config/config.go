// Package config loads eio.yaml.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/eio/pkg/mesher"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "eio.yaml"

// Backend selects the repository implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Config is the decoded eio.yaml.
type Config struct {
	Backend       Backend     `yaml:"backend"`
	Dir           string      `yaml:"dir"`
	Redis         RedisConfig `yaml:"redis"`
	LogLevel      string      `yaml:"log_level"`
	Listen        string      `yaml:"listen"`
	EncryptionKey string      `yaml:"encryption_key"`

	// Mesh is decoded into mesher.Control by MeshControl.
	Mesh    map[string]any         `yaml:"mesh"`
	Meshers []mesher.ProcessConfig `yaml:"meshers"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:  BackendFile,
		Dir:      ".eio/models",
		Redis:    RedisConfig{Addr: "localhost:6379"},
		LogLevel: "info",
		Listen:   ":8080",
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that can be checked without connecting anywhere.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := c.Key(); err != nil {
		return err
	}
	if _, err := c.MeshControl(); err != nil {
		return err
	}
	for i, m := range c.Meshers {
		if m.Name == "" || m.Command == "" {
			return fmt.Errorf("mesher %d needs a name and a command", i)
		}
	}
	return nil
}

// Key decodes the hex encryption key. Nil means encryption is off.
func (c Config) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// MeshControl overlays the mesh section on mesher.DefaultControl.
func (c Config) MeshControl() (mesher.Control, error) {
	ctl := mesher.DefaultControl()
	if len(c.Mesh) == 0 {
		return ctl, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &ctl,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return ctl, err
	}
	if err := dec.Decode(c.Mesh); err != nil {
		return ctl, fmt.Errorf("mesh section: %w", err)
	}
	return ctl, nil
}
