package slotchecker

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestEscalate(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	cause := errors.New("connection refused")

	fe := escalate(logger, cause, "unable to get appointments")

	if !errors.Is(fe, cause) {
		t.Errorf("escalated error should wrap its cause")
	}
	if fe.ID == "" {
		t.Error("escalated error should carry a correlation id")
	}
	if len(fe.Stack) == 0 {
		t.Error("escalated error should carry a stack")
	}
	if got := fe.Error(); got != "unable to get appointments: connection refused" {
		t.Errorf("Error() = %q", got)
	}

	out := logs.String()
	for _, want := range []string{"unable to get appointments", "error originating from", "connection refused", fe.ID} {
		if !strings.Contains(out, want) {
			t.Errorf("logs missing %q\nGot: %s", want, out)
		}
	}
}

func TestFatalError_NoCause(t *testing.T) {
	fe := &FatalError{Msg: "stopped"}
	if fe.Error() != "stopped" {
		t.Errorf("Error() = %q, want %q", fe.Error(), "stopped")
	}
	if fe.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", fe.ExitCode())
	}
}

func TestReport_NilError(t *testing.T) {
	if code := Report(&bytes.Buffer{}, discardLogger(), nil, true); code != 0 {
		t.Errorf("Report(nil) = %d, want 0", code)
	}
}

func TestReport_Quiet(t *testing.T) {
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	fe := escalate(logger, errors.New("boom"), "unable to send notification")

	code := Report(&out, logger, fe, false)

	if code != ExitCodeFatal {
		t.Errorf("Report() = %d, want %d", code, ExitCodeFatal)
	}
	if out.Len() != 0 {
		t.Errorf("stack printed outside verbose mode:\n%s", out.String())
	}
	if !strings.Contains(logs.String(), "traceback may be suppressed") {
		t.Errorf("logs missing suppression warning\nGot: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "aborting following an error") {
		t.Errorf("logs missing abort record\nGot: %s", logs.String())
	}
}

func TestReport_VerbosePrintsStack(t *testing.T) {
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	fe := escalate(logger, errors.New("boom"), "unable to send notification")

	code := Report(&out, logger, fe, true)

	if code != ExitCodeFatal {
		t.Errorf("Report() = %d, want %d", code, ExitCodeFatal)
	}
	if !strings.Contains(out.String(), "goroutine") {
		t.Errorf("verbose output should contain the stack\nGot: %s", out.String())
	}
	if !strings.Contains(out.String(), fe.ID) {
		t.Errorf("verbose output should contain the error id")
	}
	if strings.Contains(logs.String(), "traceback may be suppressed") {
		t.Error("suppression warning logged in verbose mode")
	}
}

func TestReport_PlainErrorIsEscalated(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	code := Report(&bytes.Buffer{}, logger, errors.New("unknown flag: --foo"), false)

	if code != ExitCodeFatal {
		t.Errorf("Report() = %d, want %d", code, ExitCodeFatal)
	}
	if !strings.Contains(logs.String(), "unknown flag: --foo") {
		t.Errorf("logs missing the original error\nGot: %s", logs.String())
	}
}
