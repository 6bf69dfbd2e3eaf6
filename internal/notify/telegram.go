package notify

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramTimeout = 10 * time.Second

// telegram posts messages to a chat through the Bot API.
type telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	// channel is set instead of chatID for "@name" destinations
	channel string
}

func newTelegram(creds map[string]string, o *options) (*telegram, error) {
	token := creds["token"]
	if token == "" {
		return nil, errors.New("missing bot token")
	}
	chat := strings.TrimSpace(creds["chat_id"])
	if chat == "" {
		return nil, errors.New("missing chat_id")
	}

	t := &telegram{}
	if strings.HasPrefix(chat, "@") {
		t.channel = chat
	} else {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, errors.New("chat_id must be a numeric id or an @channel name")
		}
		t.chatID = id
	}

	endpoint := o.apiEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: telegramTimeout}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, hc)
	if err != nil {
		return nil, err
	}
	t.bot = bot
	return t, nil
}

// Send posts text with HTML parse mode.
func (t *telegram) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := t.bot.Send(msg)
	return err
}
