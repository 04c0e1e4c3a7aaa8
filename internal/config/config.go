// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/StartiOne/snort3/internal/log"
)

// Config is the top-level configuration.
type Config struct {
	Decoder DecoderConfig `mapstructure:"decoder"`
	Log     log.Config    `mapstructure:"log"`
}

// DecoderConfig controls decode-time policy shared by the protocol
// codecs. Per-codec overrides live under `codecs.<name>` and are handed
// to the codec constructor as an opaque map.
type DecoderConfig struct {
	// VerifyChecksums enables header/transport checksum verification.
	// Failures are flagged, never fatal.
	VerifyChecksums bool `mapstructure:"verify_checksums"`

	// MinTTL is the threshold below which an IP TTL is flagged as
	// anomalous.
	MinTTL uint8 `mapstructure:"min_ttl"`

	// EnableTeredo lets the UDP codec probe port 3544 payloads as
	// tunneled IPv6 (with backtracking on failure).
	EnableTeredo bool `mapstructure:"enable_teredo"`

	// MaxLayers bounds the decode walk against encapsulation bombs.
	MaxLayers int `mapstructure:"max_layers"`

	Codecs map[string]map[string]any `mapstructure:"codecs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Decoder: DecoderConfig{
			VerifyChecksums: true,
			MinTTL:          1,
			EnableTeredo:    true,
			MaxLayers:       32,
		},
		Log: log.Config{Level: "info"},
	}
}

// Load reads the YAML config at path. A missing path yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("decoder.verify_checksums", true)
	v.SetDefault("decoder.min_ttl", 1)
	v.SetDefault("decoder.enable_teredo", true)
	v.SetDefault("decoder.max_layers", 32)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// CodecOptions builds the option map handed to a codec constructor:
// the shared decoder policy, overridden by any `codecs.<name>` keys.
func (c *Config) CodecOptions(name string) map[string]any {
	opts := map[string]any{
		"verify_checksums": c.Decoder.VerifyChecksums,
		"min_ttl":          c.Decoder.MinTTL,
		"enable_teredo":    c.Decoder.EnableTeredo,
	}
	for k, v := range c.Decoder.Codecs[name] {
		opts[k] = v
	}
	return opts
}
