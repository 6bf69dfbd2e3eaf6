package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/slotchecker/config"
)

const testToken = "123456:test-token"

// fakeBotAPI mimics the subset of the Telegram Bot API used by the channel.
type fakeBotAPI struct {
	mu        sync.Mutex
	sent      []map[string]string
	rejectGet bool
	rejectMsg bool
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case !strings.HasPrefix(r.URL.Path, "/bot"+testToken+"/"):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))

	case strings.HasSuffix(r.URL.Path, "/getMe"):
		if f.rejectGet {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Slots","username":"slots_bot"}}`))

	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if f.rejectMsg {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		f.mu.Lock()
		f.sent = append(f.sent, map[string]string{
			"chat_id":    r.PostForm.Get("chat_id"),
			"text":       r.PostForm.Get("text"),
			"parse_mode": r.PostForm.Get("parse_mode"),
		})
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":1700000000,"chat":{"id":42,"type":"private"},"text":"ok"}}`))

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func (f *fakeBotAPI) messages() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.sent...)
}

func newFakeBotAPI(t *testing.T) (*fakeBotAPI, string) {
	t.Helper()
	api := &fakeBotAPI{}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return api, server.URL + "/bot%s/%s"
}

func telegramTarget(chatID string) config.NotificationTarget {
	return config.NotificationTarget{
		Kind:        config.ChannelTelegram,
		Credentials: map[string]string{"token": testToken, "chat_id": chatID},
	}
}

func TestSender_Telegram(t *testing.T) {
	api, endpoint := newFakeBotAPI(t)

	sender, err := New(telegramTarget("42"), WithAPIEndpoint(endpoint))
	require.NoError(t, err)
	assert.Equal(t, config.ChannelTelegram, sender.Kind())

	require.NoError(t, sender.Send(context.Background(), "Rendez-vous ! <b>03 June 2025 09:30</b>"))
	require.NoError(t, sender.Send(context.Background(), "second"))

	msgs := api.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "42", msgs[0]["chat_id"])
	assert.Equal(t, "Rendez-vous ! <b>03 June 2025 09:30</b>", msgs[0]["text"])
	assert.Equal(t, "HTML", msgs[0]["parse_mode"])
	assert.Equal(t, "second", msgs[1]["text"])
}

func TestSender_TelegramChannelUsername(t *testing.T) {
	api, endpoint := newFakeBotAPI(t)

	sender, err := New(telegramTarget("@slots_paris"), WithAPIEndpoint(endpoint))
	require.NoError(t, err)
	require.NoError(t, sender.Send(context.Background(), "hello"))

	msgs := api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "@slots_paris", msgs[0]["chat_id"])
}

func TestSender_TelegramRejectedMessage(t *testing.T) {
	api, endpoint := newFakeBotAPI(t)
	api.rejectMsg = true

	sender, err := New(telegramTarget("42"), WithAPIEndpoint(endpoint))
	require.NoError(t, err)

	err = sender.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	assert.Contains(t, err.Error(), "failed to send telegram message")
}

func TestSender_TelegramBadToken(t *testing.T) {
	api, endpoint := newFakeBotAPI(t)
	api.rejectGet = true

	_, err := New(telegramTarget("42"), WithAPIEndpoint(endpoint))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set up telegram channel")
}

func TestSender_TelegramInvalidCredentials(t *testing.T) {
	_, endpoint := newFakeBotAPI(t)

	tests := map[string]map[string]string{
		"missing token":   {"chat_id": "42"},
		"missing chat id": {"token": testToken},
		"bad chat id":     {"token": testToken, "chat_id": "not-a-number"},
	}
	for name, creds := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(config.NotificationTarget{Kind: config.ChannelTelegram, Credentials: creds}, WithAPIEndpoint(endpoint))
			assert.Error(t, err)
		})
	}
}

func TestSender_CancelledContext(t *testing.T) {
	api, endpoint := newFakeBotAPI(t)

	sender, err := New(telegramTarget("42"), WithAPIEndpoint(endpoint))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sender.Send(ctx, "hello"), context.Canceled)
	assert.Empty(t, api.messages())
}

func TestNew_UnsupportedChannel(t *testing.T) {
	_, err := New(config.NotificationTarget{Kind: "pigeon"})
	assert.ErrorIs(t, err, ErrUnsupportedChannel)
}
