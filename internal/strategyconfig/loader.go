package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in thresholds
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// default tags are static; a failure here is a programming error
		panic(fmt.Sprintf("strategyconfig defaults: %v", err))
	}
	return cfg
}

// Load reads a YAML override file on top of the defaults.
// ⭐ SSOT: KnownFields(true) rejects typos and unused keys
func Load(path string) (*Config, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, data, err
	}
	return cfg, data, nil
}

// Parse decodes YAML bytes, applies defaults and validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode strategy config: %w", err)
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("apply strategy defaults: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault returns the defaults when path is empty
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, _, err := Load(path)
	return cfg, err
}

// Hash generates a SHA256 hash of the canonical JSON form
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewRunSnapshot ties a scan of strategy to the thresholds it used
func NewRunSnapshot(cfg *Config, strategy string) (*RunSnapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &RunSnapshot{
		ConfigHash: hash,
		ConfigID:   cfg.Meta.ConfigID,
		Version:    cfg.Meta.Version,
		Strategy:   strategy,
		CreatedAt:  time.Now(),
	}, nil
}
