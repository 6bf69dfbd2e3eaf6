package slotchecker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
)

// ExitCodeFatal is the process exit status after a fatal error.
const ExitCodeFatal = 1

// FatalError is an error the checker cannot recover from.
//
// Every failure that stops [Checker.Run] is returned as a FatalError. It
// carries a correlation ID shared with the log records written when the
// error was raised, and the stack captured at that point.
type FatalError struct {
	// Msg describes what the checker was doing.
	Msg string

	// Err is the underlying cause.
	Err error

	// ID correlates the error with its log records.
	ID string

	// Stack is the goroutine stack at the time the error was raised.
	Stack []byte
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status the process should terminate with.
func (e *FatalError) ExitCode() int {
	return ExitCodeFatal
}

// escalate logs msg and the originating error, then wraps err in a [FatalError].
func escalate(logger *slog.Logger, err error, msg string) *FatalError {
	id := uuid.NewString()
	logger.Error(msg, "error_id", id)
	logger.Error("error originating from", "error", err.Error(), "error_id", id)
	return &FatalError{Msg: msg, Err: err, ID: id, Stack: debug.Stack()}
}

// Report is the top-level error boundary of the slot checker.
//
// It logs that the checker is aborting and returns the exit status to use.
// The stack of the failure is written to w in verbose mode only; otherwise
// a warning says it was suppressed. Errors that were not raised as a
// [FatalError] are escalated first. A nil error returns 0.
func Report(w io.Writer, logger *slog.Logger, err error, verbose bool) int {
	if err == nil {
		return 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	var fe *FatalError
	if !errors.As(err, &fe) {
		fe = escalate(logger, err, "unexpected error")
	}

	if verbose {
		_, _ = fmt.Fprintf(w, "%s (error_id: %s)\n\n%s\n", fe.Error(), fe.ID, fe.Stack)
	} else {
		logger.Warn("traceback may be suppressed, activate debug logs to see it")
	}

	logger.Error("aborting following an error while running the slot checker", "error_id", fe.ID)
	return fe.ExitCode()
}
