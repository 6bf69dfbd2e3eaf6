// Package notify delivers slot alerts to the operator's messaging channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jpalmerr/slotchecker/config"
)

// ErrUnsupportedChannel is returned by [New] for a channel kind it cannot build.
var ErrUnsupportedChannel = errors.New("unsupported notification channel")

// Channel delivers a text message. The text may contain simple HTML styling.
type Channel interface {
	Send(ctx context.Context, text string) error
}

// Sender sends messages through the channel selected by a [config.NotificationTarget].
type Sender struct {
	kind    config.ChannelKind
	channel Channel
}

type options struct {
	apiEndpoint string
	httpClient  *http.Client
}

// Option configures channel construction.
type Option func(*options)

// WithAPIEndpoint overrides the bot API endpoint, a format string taking the
// token and the method name (see tgbotapi.APIEndpoint).
func WithAPIEndpoint(endpoint string) Option {
	return func(o *options) { o.apiEndpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used by the channel.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New builds the channel for target. Building may contact the remote service
// to check the credentials.
func New(target config.NotificationTarget, opts ...Option) (*Sender, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var (
		channel Channel
		err     error
	)
	switch target.Kind {
	case config.ChannelTelegram:
		channel, err = newTelegram(target.Credentials, o)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChannel, target.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set up %s channel: %w", target.Kind, err)
	}

	return &Sender{kind: target.Kind, channel: channel}, nil
}

// Kind returns the channel kind this sender delivers to.
func (s *Sender) Kind() config.ChannelKind {
	return s.kind
}

// Send delivers message. Delivery errors are returned to the caller.
func (s *Sender) Send(ctx context.Context, message string) error {
	if err := s.channel.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send %s message: %w", s.kind, err)
	}
	return nil
}
