package bot

import (
	"context"
	"strings"

	"mimi-order/lang"
	"mimi-order/models"
	"mimi-order/services"
)

func (b *Bot) handleStart(ctx context.Context, chatID int64, args []string) {
	l := b.getLang(chatID)
	text := lang.T(l, "welcome", b.catalog.Store.Name)
	if len(args) > 0 {
		table := strings.TrimSpace(args[0])
		if b.hints != nil {
			if err := b.hints.SetTableHint(ctx, table); err != nil {
				b.logger.Error("save table hint", "action", "start", "chat_id", chatID, "error", err)
			}
		}
		text += "\n" + lang.T(l, "welcome_table", table)
	}
	b.sendWithMarkup(chatID, text, startKeyboard(l))
}

func (b *Bot) sendMenu(chatID int64, search string) {
	l := b.getLang(chatID)
	items := b.catalog.Search(search)
	cartLen := b.carts.Get(chatID).Len()
	b.sendWithMarkup(chatID, menuText(b.catalog.Store, items, l), menuKeyboard(items, cartLen, l))
}

func (b *Bot) sendInfo(chatID int64) {
	s := b.catalog.Store
	b.send(chatID, b.t(chatID, "info", s.Name, s.Phone, s.Address, s.Hours, s.Notice))
}

func (b *Bot) openItem(chatID int64, itemID string) {
	item, ok := b.catalog.Item(itemID)
	if !ok {
		b.send(chatID, b.t(chatID, "item_unavailable"))
		return
	}
	sel := services.NewSelection(item)
	b.mu.Lock()
	b.selections[chatID] = sel
	b.mu.Unlock()

	l := b.getLang(chatID)
	b.sendWithMarkup(chatID, selectionText(sel, b.catalog, l), selectionKeyboard(sel, b.catalog, l))
}

func (b *Bot) handleSelection(chatID int64, msgID int, arg string) {
	b.mu.Lock()
	sel := b.selections[chatID]
	b.mu.Unlock()
	if sel == nil {
		b.sendMenu(chatID, "")
		return
	}
	l := b.getLang(chatID)

	op, value := parseCallback(arg)
	switch op {
	case "inc":
		sel.Inc()
	case "dec":
		sel.Dec()
	case "spice":
		if err := sel.SetSpice(models.SpiceLevel(value)); err != nil {
			b.logger.Warn("spice rejected", "action", "select", "chat_id", chatID, "error", err)
			return
		}
	case "extra":
		if _, ok := b.catalog.Extra(value); !ok {
			return
		}
		sel.ToggleExtra(value)
	case "add":
		line, err := sel.AddTo(b.carts.Get(chatID), b.catalog)
		if err != nil {
			b.logger.Error("add to cart", "action", "select", "chat_id", chatID, "error", err)
			b.send(chatID, lang.T(l, "item_unavailable"))
			return
		}
		b.mu.Lock()
		delete(b.selections, chatID)
		b.mu.Unlock()
		b.logger.Info("line added", "action", "add_to_cart", "chat_id", chatID, "item_id", line.ItemID, "qty", line.Qty)
		b.sendWithMarkup(chatID, lang.T(l, "added", line.Name), startKeyboard(l))
		return
	default:
		return
	}
	b.edit(chatID, msgID, selectionText(sel, b.catalog, l), selectionKeyboard(sel, b.catalog, l))
}

// sendCart shows the cart; a non-zero msgID edits that message in place.
func (b *Bot) sendCart(chatID int64, msgID int) {
	l := b.getLang(chatID)
	cart := b.carts.Get(chatID)
	lines := cart.Lines()
	b.edit(chatID, msgID, cartText(lines, cart.Total(), l), cartKeyboard(lines, l))
}

func (b *Bot) handleLine(chatID int64, msgID int, arg string) {
	op, lineID := parseCallback(arg)
	cart := b.carts.Get(chatID)
	var changed bool
	switch op {
	// at the qty bounds the text would not change and Telegram rejects the edit
	case "inc":
		if l, ok := cart.Line(lineID); ok && l.Qty < services.MaxLineQty {
			changed = cart.Increment(lineID)
		}
	case "dec":
		if l, ok := cart.Line(lineID); ok && l.Qty > 1 {
			changed = cart.Decrement(lineID)
		}
	case "rm":
		changed = cart.Remove(lineID)
	}
	if !changed {
		return
	}
	b.sendCart(chatID, msgID)
}
