package slotchecker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/slotchecker/config"
	"github.com/jpalmerr/slotchecker/internal/heartbeat"
	"github.com/jpalmerr/slotchecker/internal/notify"
	"github.com/jpalmerr/slotchecker/internal/site"
)

// ConfigSource supplies config snapshots and detects changes to them.
// [config.Source] is the file-backed implementation.
type ConfigSource interface {
	// Load returns a fresh, validated snapshot.
	Load() (*config.Config, error)

	// Changed reports whether the source was modified after cfg was loaded.
	Changed(cfg *config.Config) (bool, error)
}

// slotSearcher is the booking service client.
type slotSearcher interface {
	Search(ctx context.Context, q site.Query) ([]site.Slot, error)
	Close()
}

// messageSender delivers one notification.
type messageSender interface {
	Send(ctx context.Context, message string) error
}

// Checker polls the booking service and notifies the operator of open slots.
//
// Checker is created with [New] and driven by [Checker.Run]. It owns the
// current config snapshot, the site client and the notification sender;
// all of them are confined to the goroutine calling Run.
type Checker struct {
	source     ConfigSource
	cfg        *config.Config
	logger     *slog.Logger
	bookingURL string

	heartbeatInterval time.Duration

	site slotSearcher

	// sender is built on first use and dropped when the target changes
	sender    messageSender
	newSender func(config.NotificationTarget) (messageSender, error)

	// pause blocks for the refresh interval
	pause func(ctx context.Context, d time.Duration) error

	state atomic.Int32
}

// New creates a [Checker] and loads the initial config from source.
//
// Options have sensible defaults:
//   - Logger: [slog.Default]
//   - Heartbeat interval: 60 seconds
//   - Site URL: the Paris passport appointment service
//   - Booking URL: [DefaultBookingURL]
//
// A config that cannot be loaded is returned as a [FatalError]. New does
// not start the heartbeat; [Checker.Run] does, so a Checker that is never
// run logs nothing in the background.
func New(source ConfigSource, opts ...Option) (*Checker, error) {
	if source == nil {
		return nil, errors.New("config source is required")
	}

	cc := &checkerConfig{
		heartbeatInterval: heartbeat.DefaultInterval,
		siteURL:           site.DefaultURL,
		bookingURL:        DefaultBookingURL,
	}
	for _, opt := range opts {
		if err := opt(cc); err != nil {
			return nil, err
		}
	}

	logger := cc.logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("initializing the checker")
	cfg, err := source.Load()
	if err != nil {
		return nil, escalate(logger, err, "there seems to be a problem with your configuration file")
	}

	var notifyOpts []notify.Option
	if cc.telegramEndpoint != "" {
		notifyOpts = append(notifyOpts, notify.WithAPIEndpoint(cc.telegramEndpoint))
	}

	return &Checker{
		source:            source,
		cfg:               cfg,
		logger:            logger,
		bookingURL:        cc.bookingURL,
		heartbeatInterval: cc.heartbeatInterval,
		site:              site.NewClient(site.WithURL(cc.siteURL), site.WithLogger(logger)),
		newSender: func(target config.NotificationTarget) (messageSender, error) {
			sender, err := notify.New(target, notifyOpts...)
			if err != nil {
				return nil, err
			}
			return sender, nil
		},
		pause: sleep,
	}, nil
}

// Config returns the config snapshot currently in use.
func (c *Checker) Config() *config.Config {
	return c.cfg
}

// State returns the current phase of the polling loop. Safe for concurrent use.
func (c *Checker) State() State {
	return State(c.state.Load())
}

func (c *Checker) setState(s State) {
	c.state.Store(int32(s))
}

// Run starts the heartbeat and polls until ctx is cancelled or a fatal error
// occurs.
//
// Each cycle checks the config file for changes, searches for slots, sends
// one notification per slot found and sleeps for the refresh interval. A
// changed config file is reloaded and the cycle restarts with it.
//
// Returns nil when ctx is cancelled, or a [FatalError]. The site connection
// is released before Run returns.
func (c *Checker) Run(ctx context.Context) error {
	c.logger.Info("check for available slots",
		"from_date", c.cfg.FromDate,
		"to_date", c.cfg.ToDate,
		"refresh", c.cfg.RefreshInterval().String(),
	)

	// not joined, it stops with ctx
	heartbeat.New(c.heartbeatInterval, c.logger).Start(ctx)

	defer c.site.Close()

	for {
		if ctx.Err() != nil {
			c.logger.Info("slot checker stopped")
			return nil
		}

		c.setState(StateCheckingConfig)
		changed, err := c.source.Changed(c.cfg)
		if err != nil {
			return escalate(c.logger, err, "unable to check the configuration file")
		}
		if changed {
			c.logger.Info("config file has changed since it was loaded")
			if err := c.reload(); err != nil {
				return err
			}
			continue
		}

		if err := c.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("slot checker stopped")
				return nil
			}
			return err
		}
	}
}

// reload replaces the config snapshot, dropping the sender if the
// notification target changed.
func (c *Checker) reload() error {
	c.setState(StateReloading)

	cfg, err := c.source.Load()
	if err != nil {
		return escalate(c.logger, err, "there seems to be a problem with your configuration file")
	}

	oldTarget, _ := c.cfg.Target()
	newTarget, _ := cfg.Target()
	if c.sender != nil && !oldTarget.Equal(newTarget) {
		c.logger.Info("notification channel changed", "channel", string(newTarget.Kind))
		c.sender = nil
	}

	c.cfg = cfg
	c.logger.Info("configuration reloaded",
		"from_date", cfg.FromDate,
		"to_date", cfg.ToDate,
		"refresh", cfg.RefreshInterval().String(),
	)
	return nil
}

// cycle runs one query, notify and sleep pass.
func (c *Checker) cycle(ctx context.Context) error {
	logger := c.logger.With("cycle_id", uuid.NewString())

	c.setState(StateQuerying)
	slots, err := c.site.Search(ctx, site.NewQuery(c.cfg))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return escalate(logger, err, "unable to get appointments")
	}
	logger.Debug("search completed", "slots", len(slots))

	c.setState(StateNotifying)
	for _, slot := range slots {
		if err := c.notify(ctx, logger, slot); err != nil {
			return err
		}
	}

	c.setState(StateSleeping)
	return c.pause(ctx, c.cfg.RefreshInterval())
}

// notify logs slot and delivers it to the configured channel, if any.
func (c *Checker) notify(ctx context.Context, logger *slog.Logger, slot site.Slot) error {
	logger.Info("found slot",
		"location", slot.Location,
		"address", slot.Address,
		"date", formatSlotDate(slot),
	)

	target, ok := c.cfg.Target()
	if !ok {
		return nil
	}

	if c.sender == nil {
		sender, err := c.newSender(target)
		if err != nil {
			return escalate(logger, err, "unable to set up the notification channel")
		}
		c.sender = sender
	}

	logger.Info("sending notification", "channel", string(target.Kind))
	if err := c.sender.Send(ctx, formatMessage(slot, c.bookingURL)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return escalate(logger, err, "unable to send notification")
	}
	return nil
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
