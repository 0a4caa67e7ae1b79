package notify

import (
	"context"
	"time"

	"mimi-order/lang"
	"mimi-order/models"
	"mimi-order/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a card for every new order to the staff chat.
type Telegram struct {
	api    Sender
	chatID int64
	loc    *time.Location
	lang   string
}

// NewTelegram posts to chatID with times shown in loc.
func NewTelegram(api Sender, chatID int64, loc *time.Location) *Telegram {
	return &Telegram{api: api, chatID: chatID, loc: loc, lang: lang.Ko}
}

func (n *Telegram) OrderSubmitted(ctx context.Context, o models.Order) error {
	msg := tgbotapi.NewMessage(n.chatID, "🆕 "+services.BuildOrderCard(o, n.loc, n.lang))
	_, err := n.api.Send(msg)
	return err
}
