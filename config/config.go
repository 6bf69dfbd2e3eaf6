// Package config provides YAML configuration parsing for the slot checker.
//
// Example configuration:
//
//	to_date: 2025-06-01
//	from_time: "08:00"
//	to_time: "19:30"
//	person_number: 2
//	days: [1, 2, 3, 4, 5]
//	refresh: 60
//	send:
//	  telegram:
//	    token: ${TELEGRAM_TOKEN}
//	    chat_id: "123456789"
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultFromTime     = "06:00"
	defaultToTime       = "21:00"
	defaultPersonNumber = 1
	defaultRefresh      = 30

	timeOfDayLayout = "15:04"
)

// dateLayouts lists the accepted layouts for from_date and to_date.
// The first layout that parses to_date is reused to format the from_date default.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ChannelKind identifies a notification transport.
type ChannelKind string

// ChannelTelegram is the Telegram bot channel, keyed by "token" and "chat_id".
const ChannelTelegram ChannelKind = "telegram"

// channelOptions maps each supported channel kind to its credential keys.
var channelOptions = map[ChannelKind][]string{
	ChannelTelegram: {"chat_id", "token"},
}

// SupportedChannels returns the supported channel kinds in sorted order.
func SupportedChannels() []ChannelKind {
	kinds := make([]ChannelKind, 0, len(channelOptions))
	for k := range channelOptions {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Config is an immutable snapshot of the operator settings.
//
// It maps directly to the YAML configuration file structure.
// Use [Load], [Parse] or a [Source] to create one; a reload produces a
// new Config rather than mutating the current one.
type Config struct {
	// FromDate is the start of the availability window. Defaults to today.
	FromDate string `yaml:"from_date"`

	// ToDate is the end of the availability window. Required.
	ToDate string `yaml:"to_date"`

	// FromTime is the earliest time of day, "HH:MM". Defaults to "06:00".
	FromTime string `yaml:"from_time"`

	// ToTime is the latest time of day, "HH:MM". Defaults to "21:00".
	ToTime string `yaml:"to_time"`

	// PersonNumber is the number of consecutive slots to book. Defaults to 1.
	PersonNumber int `yaml:"person_number"`

	// Days are the ISO weekdays to search (1 = Monday ... 7 = Sunday).
	// Defaults to the whole week.
	Days []int `yaml:"days"`

	// Send maps a single channel kind to its credentials.
	Send map[string]map[string]string `yaml:"send"`

	// Refresh is the number of seconds to sleep between two polls. Defaults to 30.
	Refresh int `yaml:"refresh"`

	// LoadedAt is when this snapshot was produced.
	LoadedAt time.Time `yaml:"-"`

	// FileModTime is the file's modification time as seen by [Source.Load]
	// before reading it. Zero when the config was not read through a Source.
	FileModTime time.Time `yaml:"-"`
}

// NotificationTarget is the configured channel and its credentials.
type NotificationTarget struct {
	Kind        ChannelKind
	Credentials map[string]string
}

// Equal reports whether both targets describe the same channel and credentials.
func (t NotificationTarget) Equal(other NotificationTarget) bool {
	if t.Kind != other.Kind || len(t.Credentials) != len(other.Credentials) {
		return false
	}
	for k, v := range t.Credentials {
		if ov, ok := other.Credentials[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Target returns the configured notification target.
// The boolean is false when no channel is configured.
func (c *Config) Target() (NotificationTarget, bool) {
	for kind, creds := range c.Send {
		cp := make(map[string]string, len(creds))
		for k, v := range creds {
			cp[k] = v
		}
		return NotificationTarget{Kind: ChannelKind(kind), Credentials: cp}, true
	}
	return NotificationTarget{}, false
}

// RefreshInterval returns the sleep between two polls.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh) * time.Second
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err, or any error it wraps, is a [ValidationError].
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in credential values are expanded before validation.
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, applies defaults and validates the result.
// LoadedAt is set to the current time.
func Parse(data []byte) (*Config, error) {
	return parseAt(data, time.Now())
}

func parseAt(data []byte, now time.Time) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// an explicit 0 must reach validation instead of taking the default
	var present struct {
		PersonNumber *int `yaml:"person_number"`
		Refresh      *int `yaml:"refresh"`
	}
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.FromTime == "" {
		cfg.FromTime = defaultFromTime
	}
	if cfg.ToTime == "" {
		cfg.ToTime = defaultToTime
	}
	if present.PersonNumber == nil {
		cfg.PersonNumber = defaultPersonNumber
	}
	if cfg.Days == nil {
		cfg.Days = []int{1, 2, 3, 4, 5, 6, 7}
	}
	if present.Refresh == nil {
		cfg.Refresh = defaultRefresh
	}

	if err := cfg.expandAndValidate(now); err != nil {
		return nil, err
	}

	cfg.LoadedAt = now
	return &cfg, nil
}

// expandAndValidate expands environment variables, fills the from_date
// default and validates the config.
func (c *Config) expandAndValidate(now time.Time) error {
	if c.ToDate == "" {
		return invalid("to_date", "is required")
	}
	layout, ok := detectDateLayout(c.ToDate)
	if !ok {
		return invalid("to_date", "invalid date %q (expected YYYY-MM-DD or DD/MM/YYYY)", c.ToDate)
	}

	if c.FromDate == "" {
		c.FromDate = now.Format(layout)
	}
	fromLayout, ok := detectDateLayout(c.FromDate)
	if !ok {
		return invalid("from_date", "invalid date %q (expected YYYY-MM-DD or DD/MM/YYYY)", c.FromDate)
	}
	fromDate, _ := time.Parse(fromLayout, c.FromDate)
	toDate, _ := time.Parse(layout, c.ToDate)
	if fromDate.After(toDate) {
		return invalid("from_date", "%s is after to_date %s", c.FromDate, c.ToDate)
	}

	from, err := time.Parse(timeOfDayLayout, c.FromTime)
	if err != nil {
		return invalid("from_time", "invalid time of day %q (expected HH:MM)", c.FromTime)
	}
	to, err := time.Parse(timeOfDayLayout, c.ToTime)
	if err != nil {
		return invalid("to_time", "invalid time of day %q (expected HH:MM)", c.ToTime)
	}
	if from.After(to) {
		return invalid("from_time", "%s is after to_time %s", c.FromTime, c.ToTime)
	}

	if c.PersonNumber < 1 {
		return invalid("person_number", "must be positive, got %d", c.PersonNumber)
	}

	if len(c.Days) == 0 {
		return invalid("days", "at least one day is required")
	}
	seen := make(map[int]struct{}, len(c.Days))
	for i, d := range c.Days {
		if d < 1 || d > 7 {
			return invalid(fmt.Sprintf("days[%d]", i), "must be between 1 and 7, got %d", d)
		}
		if _, exists := seen[d]; exists {
			return invalid(fmt.Sprintf("days[%d]", i), "duplicate day %d", d)
		}
		seen[d] = struct{}{}
	}

	if c.Refresh < 1 {
		return invalid("refresh", "must be at least 1 second, got %d", c.Refresh)
	}

	return c.validateSend()
}

func (c *Config) validateSend() error {
	if c.Send == nil {
		return nil
	}
	if len(c.Send) != 1 {
		return invalid("send", "exactly one channel must be configured, got %d", len(c.Send))
	}

	for kind, creds := range c.Send {
		options, ok := channelOptions[ChannelKind(kind)]
		if !ok {
			return invalid("send", "unsupported channel %q (supported: %v)", kind, SupportedChannels())
		}

		allowed := make(map[string]struct{}, len(options))
		for _, o := range options {
			allowed[o] = struct{}{}
		}
		for k, v := range creds {
			field := fmt.Sprintf("send.%s.%s", kind, k)
			if _, ok := allowed[k]; !ok {
				return invalid(field, "unknown option (expected one of %v)", options)
			}
			expanded, err := expandEnvVars(v)
			if err != nil {
				return invalid(field, "%v", err)
			}
			creds[k] = expanded
		}
		for _, o := range options {
			if creds[o] == "" {
				return invalid(fmt.Sprintf("send.%s.%s", kind, o), "is required")
			}
		}
	}
	return nil
}

func detectDateLayout(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return layout, true
		}
	}
	return "", false
}
