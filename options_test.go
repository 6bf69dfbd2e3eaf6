package slotchecker

import (
	"strings"
	"testing"
	"time"

	"github.com/jpalmerr/slotchecker/config"
	"github.com/jpalmerr/slotchecker/internal/heartbeat"
	"github.com/jpalmerr/slotchecker/internal/site"
)

func newTestSource(t *testing.T) *fakeSource {
	t.Helper()
	return &fakeSource{configs: []*config.Config{mustParse(t, "to_date: 2099-06-01")}}
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(newTestSource(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if c.heartbeatInterval != heartbeat.DefaultInterval {
		t.Errorf("heartbeatInterval = %v, want %v", c.heartbeatInterval, heartbeat.DefaultInterval)
	}
	if c.bookingURL != DefaultBookingURL {
		t.Errorf("bookingURL = %q, want %q", c.bookingURL, DefaultBookingURL)
	}
	if c.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
	if _, ok := c.site.(*site.Client); !ok {
		t.Errorf("site = %T, want *site.Client", c.site)
	}
}

func TestOptions_Valid(t *testing.T) {
	c, err := New(newTestSource(t),
		WithLogger(discardLogger()),
		WithHeartbeatInterval(5*time.Second),
		WithSiteURL("http://localhost:8080/search"),
		WithBookingURL("https://example.com/book"),
		WithTelegramEndpoint("http://localhost:8081/bot%s/%s"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if c.heartbeatInterval != 5*time.Second {
		t.Errorf("heartbeatInterval = %v, want 5s", c.heartbeatInterval)
	}
	if c.bookingURL != "https://example.com/book" {
		t.Errorf("bookingURL = %q", c.bookingURL)
	}
}

func TestOptions_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr string
	}{
		{"nil logger", WithLogger(nil), "logger cannot be nil"},
		{"zero heartbeat", WithHeartbeatInterval(0), "heartbeat interval must be positive"},
		{"negative heartbeat", WithHeartbeatInterval(-time.Second), "heartbeat interval must be positive"},
		{"site url scheme", WithSiteURL("ftp://example.com"), "scheme must be http or https"},
		{"site url host", WithSiteURL("http://"), "must have a host"},
		{"booking url", WithBookingURL("not a url"), "scheme must be http or https"},
		{"empty telegram endpoint", WithTelegramEndpoint(""), "telegram endpoint cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(newTestSource(t), tt.opt)
			if err == nil {
				t.Fatal("New() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateIdle:           "idle",
		StateCheckingConfig: "checking_config",
		StateReloading:      "reloading",
		StateQuerying:       "querying",
		StateNotifying:      "notifying",
		StateSleeping:       "sleeping",
		State(42):           "state(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int32(s), got, want)
		}
	}
}

func TestFormatMessage(t *testing.T) {
	slot := site.Slot{
		Location: "Mairie X",
		Address:  "1 Rue Y & Co",
		Date:     time.Date(2025, time.June, 3, 9, 30, 0, 0, time.Local),
	}

	got := formatMessage(slot, "https://example.com/book?a=1&b=2")
	want := "Rendez-vous ! <b>03 June 2025 09:30</b>\n<b>Mairie X</b>\n1 Rue Y &amp; Co\nhttps://example.com/book?a=1&amp;b=2"
	if got != want {
		t.Errorf("formatMessage() =\n%q\nwant\n%q", got, want)
	}
}
