package config

import (
	"fmt"
	"os"
	"time"
)

// Source is a configuration file on disk.
//
// Source loads fresh [Config] snapshots and exposes the file's modification
// time so callers can detect changes made after a snapshot was loaded.
type Source struct {
	path string
}

// NewSource returns a [Source] reading from path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the file path of the source.
func (s *Source) Path() string {
	return s.path
}

// Load reads, parses and validates the file. The modification time is
// taken before reading and kept in [Config.FileModTime].
func (s *Source) Load() (*Config, error) {
	mtime, err := s.ModTime()
	if err != nil {
		return nil, err
	}
	cfg, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	cfg.FileModTime = mtime
	return cfg, nil
}

// ModTime returns the last modification time of the file.
func (s *Source) ModTime() (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	return info.ModTime(), nil
}

// Changed reports whether the file was modified since cfg was loaded.
//
// Snapshots loaded through the Source are compared with the modification
// time observed at load, others with LoadedAt.
func (s *Source) Changed(cfg *Config) (bool, error) {
	mtime, err := s.ModTime()
	if err != nil {
		return false, err
	}
	if !cfg.FileModTime.IsZero() {
		return !mtime.Equal(cfg.FileModTime), nil
	}
	return mtime.After(cfg.LoadedAt), nil
}
