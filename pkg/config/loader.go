package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FromFile loads the configuration file on top of the defaults.
func FromFile(path string) (Configuration, error) {
	cfg := Default()

	err := LoadFile(path, &cfg)

	return cfg, err
}

// LoadFile applies the settings the configuration file specifies to cfg.
// Settings the file does not specify keep their current value.
// cfg is left unchanged when the file cannot be loaded.
func LoadFile(path string, cfg *Configuration) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	m := map[string]any{}

	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return fmt.Errorf("read config at %s: %w", path, err)
	}

	b, err = json.Marshal(m)
	if err != nil {
		return fmt.Errorf("load config: marshal config: %w", err)
	}

	d := json.NewDecoder(bytes.NewReader(b))
	d.DisallowUnknownFields()

	loaded := *cfg

	err = d.Decode(&loaded)
	if err != nil {
		return fmt.Errorf("read config at %s: %w", path, err)
	}

	*cfg = loaded

	return nil
}
