package bot

import (
	"context"
	"errors"
	"strings"

	"mimi-order/lang"
	"mimi-order/models"
	"mimi-order/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type checkoutStep int

const (
	stepType checkoutStep = iota + 1
	stepName
	stepPhone
	stepTable
	stepPickup
	stepMemo
	stepConfirm
)

// skipAnswer leaves an optional field empty.
const skipAnswer = "-"

type checkoutState struct {
	step checkoutStep
	in   services.CheckoutInput
}

func newCheckoutState() *checkoutState {
	return &checkoutState{step: stepType}
}

func (c *checkoutState) chooseType(t models.OrderType) error {
	switch t {
	case models.OrderTypeDineIn, models.OrderTypeTakeout:
	case models.OrderTypeDelivery:
		return services.ErrDeliveryUnavailable
	default:
		return services.ErrInvalidOrderType
	}
	c.in.Type = t
	c.step = stepName
	return nil
}

// answer records a text reply for the current step and moves to the next
// one. It reports false when the current step does not take text.
func (c *checkoutState) answer(text string) bool {
	v := strings.TrimSpace(text)
	if v == skipAnswer {
		v = ""
	}
	switch c.step {
	case stepName:
		c.in.Name = v
		c.step = stepPhone
	case stepPhone:
		c.in.Phone = v
		if c.in.Type == models.OrderTypeDineIn {
			c.step = stepTable
		} else {
			c.step = stepPickup
		}
	case stepTable:
		c.in.TableNo = v
		c.step = stepMemo
	case stepPickup:
		c.in.PickupAt = v
		c.step = stepMemo
	case stepMemo:
		c.in.Memo = v
		c.step = stepConfirm
	default:
		return false
	}
	return true
}

func (c *checkoutState) promptKey() string {
	switch c.step {
	case stepType:
		return "choose_type"
	case stepName:
		return "ask_name"
	case stepPhone:
		return "ask_phone"
	case stepTable:
		return "ask_table"
	case stepPickup:
		return "ask_pickup"
	case stepMemo:
		return "ask_memo"
	}
	return ""
}

func (b *Bot) checkoutFor(chatID int64) *checkoutState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checkouts[chatID]
}

func (b *Bot) startCheckout(chatID int64) {
	l := b.getLang(chatID)
	if b.carts.Get(chatID).Len() == 0 {
		b.sendWithMarkup(chatID, lang.T(l, "cart_empty"), startKeyboard(l))
		return
	}
	b.mu.Lock()
	b.checkouts[chatID] = newCheckoutState()
	b.mu.Unlock()
	b.sendWithMarkup(chatID, lang.T(l, "choose_type"), orderTypeKeyboard(l))
}

func (b *Bot) chooseOrderType(chatID int64, arg string) {
	st := b.checkoutFor(chatID)
	if st == nil || st.step != stepType {
		return
	}
	l := b.getLang(chatID)
	if err := st.chooseType(models.OrderType(arg)); err != nil {
		b.sendWithMarkup(chatID, lang.T(l, "delivery_soon"), orderTypeKeyboard(l))
		return
	}
	b.prompt(chatID, st)
}

func (b *Bot) handleCheckoutText(ctx context.Context, chatID int64, text string) {
	st := b.checkoutFor(chatID)
	if st == nil || !st.answer(text) {
		b.send(chatID, b.t(chatID, "unknown"))
		return
	}
	b.prompt(chatID, st)
}

// handleContact takes a shared contact as the phone answer. At any other
// step it is ignored so the number cannot land in another field.
func (b *Bot) handleContact(ctx context.Context, chatID int64, phone string) {
	st := b.checkoutFor(chatID)
	if st == nil || st.step != stepPhone {
		b.send(chatID, b.t(chatID, "unknown"))
		return
	}
	b.handleCheckoutText(ctx, chatID, phone)
}

// prompt asks for whatever the current step needs.
func (b *Bot) prompt(chatID int64, st *checkoutState) {
	l := b.getLang(chatID)
	switch st.step {
	case stepPhone:
		b.sendWithMarkup(chatID, lang.T(l, "ask_phone"), phoneKeyboard(l))
	case stepTable, stepPickup:
		// the phone keyboard is still up after a contact share
		b.sendWithMarkup(chatID, lang.T(l, st.promptKey()), tgbotapi.NewRemoveKeyboard(true))
	case stepConfirm:
		cart := b.carts.Get(chatID)
		b.sendWithMarkup(chatID, confirmText(cart.Lines(), cart.Total(), st.in, l), confirmKeyboard(l))
	default:
		b.send(chatID, lang.T(l, st.promptKey()))
	}
}

func (b *Bot) cancelCheckout(chatID int64) {
	b.mu.Lock()
	delete(b.checkouts, chatID)
	b.mu.Unlock()
	l := b.getLang(chatID)
	b.sendWithMarkup(chatID, lang.T(l, "cancelled"), startKeyboard(l))
}

func (b *Bot) submitOrder(ctx context.Context, chatID int64) {
	st := b.checkoutFor(chatID)
	if st == nil || st.step != stepConfirm {
		return
	}
	l := b.getLang(chatID)

	order, err := b.orders.Checkout(ctx, b.carts.Get(chatID), st.in)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			b.mu.Lock()
			delete(b.checkouts, chatID)
			b.mu.Unlock()
			b.sendWithMarkup(chatID, lang.T(l, "cart_empty"), startKeyboard(l))
			return
		}
		b.logger.Error("checkout", "action", "checkout", "chat_id", chatID, "error", err)
		b.send(chatID, lang.T(l, "order_failed"))
		return
	}

	b.mu.Lock()
	delete(b.checkouts, chatID)
	b.mu.Unlock()
	b.sendWithMarkup(chatID, services.BuildReceipt(order, b.catalog.Store, l), startKeyboard(l))
}
