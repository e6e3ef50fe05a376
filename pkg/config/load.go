package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads a TOML settings document and applies every key it contains
// through Set, so observers fire as if the values were changed in game.
// All keys are validated first; if any key is bad nothing is applied.
func (s *Store) Load(r io.Reader) error {
	raw := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}

	pending := make(map[Field]any, len(raw))
	for key, value := range raw {
		name := Field(key)
		if err := checkField(name); err != nil {
			return err
		}
		normalized, err := normalize(name, value)
		if err != nil {
			return err
		}
		pending[name] = normalized
	}

	// Apply in declaration order so observers run deterministically
	for _, name := range Fields {
		value, ok := pending[name]
		if !ok {
			continue
		}
		current, _ := s.Get(name)
		if current == value {
			continue
		}
		s.assign(name, value)
		s.notify(name, value)
	}
	return nil
}

// LoadFile opens path and calls Load on it
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()

	if err := s.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
