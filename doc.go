// Package slotchecker watches an appointment booking service for open slots
// and notifies the operator as soon as some are found.
//
// A [Checker] owns the polling loop. It is built from a [ConfigSource],
// usually a [config.Source] reading a YAML file, and runs until its context
// is cancelled or a fatal error occurs:
//
//	checker, err := slotchecker.New(config.NewSource("config.yml"),
//	    slotchecker.WithLogger(logger),
//	)
//	if err != nil {
//	    os.Exit(slotchecker.Report(os.Stderr, logger, err, false))
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	if err := checker.Run(ctx); err != nil {
//	    os.Exit(slotchecker.Report(os.Stderr, logger, err, false))
//	}
//
// # Polling cycle
//
// Every cycle walks through the same phases (see [State]):
//
//  1. The config file is compared with the loaded snapshot. A newer file is
//     reloaded and the cycle restarts with it.
//  2. The booking service is searched for slots in the configured window.
//     Network failures are retried a bounded number of times.
//  3. Every slot found is logged and, when a channel is configured, sent to
//     the operator. Slots are not deduplicated across cycles.
//  4. The checker sleeps for the configured refresh interval.
//
// A heartbeat goroutine logs a liveness record every minute, independently
// of the loop.
//
// # Errors
//
// The checker fails fast: any error it cannot handle locally stops [Checker.Run]
// with a [FatalError], and [Report] turns it into the process exit status.
// Recovery is left to an external supervisor.
//
// # Architecture
//
//   - config: YAML configuration snapshots and change detection
//   - internal/site: booking service client and results page extraction
//   - internal/notify: notification channels (Telegram)
//   - internal/heartbeat: liveness logging
package slotchecker
