// Package settings persists the budget alert threshold: a single plain-text
// file holding one integer percentage.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultThreshold is used when no settings file exists.
const DefaultThreshold = 90

var ErrThresholdRange = errors.New("threshold must be between 0 and 100")

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Threshold returns the saved percentage. A missing or unparsable file
// yields the default; the stored value is not range-checked on read.
func (s *Store) Threshold() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DefaultThreshold
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return DefaultThreshold
	}
	return v
}

// Save validates the percentage and rewrites the settings file.
func (s *Store) Save(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return ErrThresholdRange
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(strconv.Itoa(threshold)), 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
