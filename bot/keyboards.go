package bot

import (
	"fmt"
	"strings"

	"mimi-order/lang"
	"mimi-order/models"
	"mimi-order/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data is "<action>" or "<action>:<arg>".
const (
	cbMenu      = "menu"
	cbItem      = "item"
	cbSelection = "sel"
	cbCart      = "cart"
	cbLine      = "line"
	cbCheckout  = "checkout"
	cbType      = "type"
	cbConfirm   = "co"
	cbNoop      = "noop"
)

func parseCallback(data string) (action, arg string) {
	if i := strings.Index(data, ":"); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}

func callback(action string, args ...string) string {
	if len(args) == 0 {
		return action
	}
	return action + ":" + strings.Join(args, ":")
}

func menuText(store models.StoreInfo, items []models.MenuItem, langCode string) string {
	if len(items) == 0 {
		return lang.T(langCode, "menu_empty")
	}
	var b strings.Builder
	title := lang.T(langCode, "menu_title")
	if store.Name != "" {
		title = store.Name + " · " + title
	}
	b.WriteString("📋 " + title + "\n")
	for _, it := range items {
		name := it.Name
		if it.Spicy {
			name += " 🌶"
		}
		fmt.Fprintf(&b, "\n%s — %s", name, services.FormatWon(it.Price))
		if it.Description != "" {
			b.WriteString("\n  " + it.Description)
		}
	}
	return b.String()
}

func menuKeyboard(items []models.MenuItem, cartLen int, langCode string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		label := fmt.Sprintf("%s · %s", it.Name, services.FormatWon(it.Price))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callback(cbItem, it.ID)),
		))
	}
	if cartLen > 0 {
		label := fmt.Sprintf("%s (%d)", lang.T(langCode, "view_cart"), cartLen)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbCart),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "view_menu"), cbMenu),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func selectionText(sel *services.Selection, cat *services.Catalog, langCode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s", sel.Item.Name, services.FormatWon(sel.Item.Price))
	if sel.Item.Description != "" {
		b.WriteString("\n" + sel.Item.Description)
	}
	fmt.Fprintf(&b, "\n\n%s: %d", lang.T(langCode, "qty"), sel.Qty)
	fmt.Fprintf(&b, "\n%s: %s", lang.T(langCode, "spice"), sel.Spice.Label())
	if extras := sel.Extras(cat); len(extras) > 0 {
		names := make([]string, len(extras))
		for i, e := range extras {
			names[i] = e.Name
		}
		fmt.Fprintf(&b, "\n%s: %s", lang.T(langCode, "extras"), strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "\n\n%s: %s", lang.T(langCode, "subtotal"), services.FormatWon(sel.Subtotal(cat)))
	return b.String()
}

func selectionKeyboard(sel *services.Selection, cat *services.Catalog, langCode string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", callback(cbSelection, "dec")),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d", sel.Qty), cbNoop),
			tgbotapi.NewInlineKeyboardButtonData("➕", callback(cbSelection, "inc")),
		),
	}

	var spice []tgbotapi.InlineKeyboardButton
	for _, level := range sel.Item.AllowedSpice() {
		label := level.Label()
		if level == sel.Spice {
			label = "✓ " + label
		}
		spice = append(spice, tgbotapi.NewInlineKeyboardButtonData(label, callback(cbSelection, "spice", string(level))))
	}
	rows = append(rows, spice)

	var row []tgbotapi.InlineKeyboardButton
	for _, ex := range cat.Extras() {
		label := fmt.Sprintf("%s +%s", ex.Name, services.FormatWon(ex.Price))
		if sel.HasExtra(ex.ID) {
			label = "✓ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, callback(cbSelection, "extra", ex.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "add_to_cart"), callback(cbSelection, "add")),
		tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "back"), cbMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cartText(lines []models.CartLine, total int64, langCode string) string {
	if len(lines) == 0 {
		return lang.T(langCode, "cart_empty")
	}
	var b strings.Builder
	b.WriteString("🛒 " + lang.T(langCode, "cart_title") + "\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "\n%d. %s", i+1, services.LineText(l, langCode))
	}
	fmt.Fprintf(&b, "\n\n%s: %s", lang.T(langCode, "cart_total"), services.FormatWon(total))
	return b.String()
}

func cartKeyboard(lines []models.CartLine, langCode string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, l := range lines {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", callback(cbLine, "dec", l.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d. ×%d", i+1, l.Qty), cbNoop),
			tgbotapi.NewInlineKeyboardButtonData("➕", callback(cbLine, "inc", l.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", callback(cbLine, "rm", l.ID)),
		))
	}
	last := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "view_menu"), cbMenu),
	}
	if len(lines) > 0 {
		last = append(last, tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "checkout"), cbCheckout))
	}
	rows = append(rows, last)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func orderTypeKeyboard(langCode string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "type_dine_in"), callback(cbType, string(models.OrderTypeDineIn))),
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "type_takeout"), callback(cbType, string(models.OrderTypeTakeout))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "type_delivery"), callback(cbType, string(models.OrderTypeDelivery))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "cancel"), callback(cbConfirm, "cancel")),
		),
	)
}

func confirmText(lines []models.CartLine, total int64, in services.CheckoutInput, langCode string) string {
	var b strings.Builder
	b.WriteString(lang.T(langCode, "confirm_title") + "\n\n")
	for _, l := range lines {
		b.WriteString(services.LineText(l, langCode) + "\n")
	}
	fmt.Fprintf(&b, "\n%s", in.Type.Label())
	switch in.Type {
	case models.OrderTypeDineIn:
		if in.TableNo != "" {
			fmt.Fprintf(&b, " · %s %s", lang.T(langCode, "table"), in.TableNo)
		}
	case models.OrderTypeTakeout:
		if in.PickupAt != "" {
			fmt.Fprintf(&b, " · %s %s", lang.T(langCode, "pickup"), in.PickupAt)
		}
	}
	if in.Name != "" || in.Phone != "" {
		fmt.Fprintf(&b, "\n%s · %s", in.Name, in.Phone)
	}
	if in.Memo != "" {
		fmt.Fprintf(&b, "\n%s: %s", lang.T(langCode, "memo"), in.Memo)
	}
	fmt.Fprintf(&b, "\n\n%s: %s\n%s", lang.T(langCode, "total"), services.FormatWon(total), lang.T(langCode, "payment_note"))
	return b.String()
}

func confirmKeyboard(langCode string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "confirm_submit"), callback(cbConfirm, "submit")),
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "cancel"), callback(cbConfirm, "cancel")),
		),
	)
}

func phoneKeyboard(langCode string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(lang.T(langCode, "share_phone"))),
	)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}

func startKeyboard(langCode string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "view_menu"), cbMenu),
			tgbotapi.NewInlineKeyboardButtonData(lang.T(langCode, "view_cart"), cbCart),
		),
	)
}
