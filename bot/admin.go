package bot

import (
	"bytes"
	"context"
	"strings"
	"time"

	"mimi-order/lang"
	"mimi-order/models"
	"mimi-order/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects messages over 4096 characters.
const maxMessageLen = 4000

func (b *Bot) isAdmin(userID int64) bool {
	return b.admin != 0 && userID == b.admin
}

// parseAdminArgs reads "[day] [query...]". A first argument that is not a
// date is part of the query and the day defaults to today.
func parseAdminArgs(args []string, today string) (day, q string) {
	if len(args) > 0 {
		if _, err := time.Parse(services.DayKeyLayout, args[0]); err == nil {
			return args[0], strings.Join(args[1:], " ")
		}
	}
	return today, strings.Join(args, " ")
}

// chunkMessages joins parts with blank lines, starting a new message
// whenever the next part would push it over limit.
func chunkMessages(header string, parts []string, limit int) []string {
	var out []string
	cur := header
	for _, p := range parts {
		if cur != "" && len([]rune(cur))+len([]rune(p))+2 > limit {
			out = append(out, cur)
			cur = ""
		}
		if cur != "" {
			cur += "\n\n"
		}
		cur += p
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func (b *Bot) handleAdminOrders(ctx context.Context, chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.send(chatID, b.t(chatID, "unauthorized"))
		return
	}
	l := b.getLang(chatID)
	day, q := parseAdminArgs(args, b.orders.Today())
	orders, err := b.orders.AdminOrders(ctx, day, q)
	if err != nil {
		b.logger.Error("admin orders", "action", "admin_orders", "day", day, "error", err)
		b.send(chatID, lang.T(l, "order_failed"))
		return
	}
	if len(orders) == 0 {
		b.send(chatID, lang.T(l, "admin_no_orders"))
		return
	}
	cards := make([]string, len(orders))
	for i, o := range orders {
		cards[i] = services.BuildOrderCard(o, b.orders.Location(), l)
	}
	for _, text := range chunkMessages(lang.T(l, "admin_orders", day, len(orders)), cards, maxMessageLen) {
		b.send(chatID, text)
	}
}

func (b *Bot) handleAdminExport(ctx context.Context, chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.send(chatID, b.t(chatID, "unauthorized"))
		return
	}
	l := b.getLang(chatID)
	day, q := parseAdminArgs(args, b.orders.Today())
	orders, err := b.orders.AdminOrders(ctx, day, q)
	if err != nil {
		b.logger.Error("admin export", "action", "admin_export", "day", day, "error", err)
		b.send(chatID, lang.T(l, "order_failed"))
		return
	}

	var buf bytes.Buffer
	if err := services.ExportCSV(&buf, orders); err != nil {
		b.logger.Error("admin export", "action", "admin_export", "day", day, "error", err)
		b.send(chatID, lang.T(l, "order_failed"))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  services.ExportFileName(day),
		Bytes: buf.Bytes(),
	})
	doc.Caption = lang.T(l, "export_caption", day, len(orders))
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("send export", "action", "admin_export", "day", day, "error", err)
		return
	}
	b.logger.Info("orders exported", "action", "admin_export", "day", day, "count", len(orders))
}

func (b *Bot) handleAdminStats(ctx context.Context, chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.send(chatID, b.t(chatID, "unauthorized"))
		return
	}
	l := b.getLang(chatID)
	day, _ := parseAdminArgs(args, b.orders.Today())
	st, err := b.orders.Stats(ctx, day)
	if err != nil {
		b.logger.Error("admin stats", "action", "admin_stats", "day", day, "error", err)
		b.send(chatID, lang.T(l, "order_failed"))
		return
	}
	b.send(chatID, lang.T(l, "stats", st.Day, st.OrdersCount, st.ItemsCount, services.FormatWon(st.Revenue),
		st.ByType[models.OrderTypeDineIn], st.ByType[models.OrderTypeTakeout]))
}
