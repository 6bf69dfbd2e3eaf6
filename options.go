package slotchecker

import (
	"errors"
	"log/slog"
	"net/url"
	"time"
)

// checkerConfig holds mutable state during Checker construction.
type checkerConfig struct {
	logger            *slog.Logger
	heartbeatInterval time.Duration
	siteURL           string
	bookingURL        string
	telegramEndpoint  string
}

// Option is a function that configures a [Checker] during construction.
//
// Options return an error if validation fails.
type Option func(*checkerConfig) error

// WithLogger sets a custom [slog.Logger] for the checker and its components.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *checkerConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithHeartbeatInterval sets the time between two liveness log records.
// Defaults to 60 seconds.
//
// Returns an error if the duration is zero or negative.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(cfg *checkerConfig) error {
		if d <= 0 {
			return errors.New("heartbeat interval must be positive")
		}
		cfg.heartbeatInterval = d
		return nil
	}
}

// WithSiteURL overrides the search endpoint of the booking service.
//
// Returns an error if the URL is not an absolute http(s) URL.
func WithSiteURL(rawURL string) Option {
	return func(cfg *checkerConfig) error {
		if err := validateHTTPURL(rawURL); err != nil {
			return err
		}
		cfg.siteURL = rawURL
		return nil
	}
}

// WithBookingURL sets the link appended to every notification.
// Defaults to [DefaultBookingURL].
//
// Returns an error if the URL is not an absolute http(s) URL.
func WithBookingURL(rawURL string) Option {
	return func(cfg *checkerConfig) error {
		if err := validateHTTPURL(rawURL); err != nil {
			return err
		}
		cfg.bookingURL = rawURL
		return nil
	}
}

// WithTelegramEndpoint overrides the Telegram Bot API endpoint, for example
// to use a self-hosted Bot API server. The value is a format string taking
// the bot token and the method name, like "https://host/bot%s/%s".
func WithTelegramEndpoint(endpoint string) Option {
	return func(cfg *checkerConfig) error {
		if endpoint == "" {
			return errors.New("telegram endpoint cannot be empty")
		}
		cfg.telegramEndpoint = endpoint
		return nil
	}
}

func validateHTTPURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url: " + err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}
	return nil
}
