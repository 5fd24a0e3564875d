package strategy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a strategy file, layers it over Default() and validates
// the result. The raw bytes come back alongside the config so callers
// can archive exactly what was loaded. Unknown YAML keys are an error:
// a typo must fail the run, not silently fall back to a default.
func Load(path string) (*Config, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read strategy file: %w", err)
	}

	cfg, err := Parse(raw)
	if err != nil {
		return nil, nil, err
	}
	return cfg, raw, nil
}

// Parse decodes and validates strategy YAML. An empty document yields
// the defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse strategy yaml: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("strategy validation failed: %w", err)
	}
	return cfg, nil
}

// Hash fingerprints a config as 64 hex chars of SHA-256 over its
// canonical JSON form. The weekly report carries this so two runs can
// be compared knowing whether the strategy changed between them.
// Hashing the struct rather than the file makes the fingerprint
// insensitive to YAML formatting and key order.
func Hash(cfg *Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal strategy config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
