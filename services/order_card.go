package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mimi-order/lang"
	"mimi-order/models"
)

// FormatWon renders an amount as "12,900원".
func FormatWon(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString("원")
	return b.String()
}

// LineText is the two-or-three line description of a cart line used in the
// cart, confirmation and order cards.
func LineText(l models.CartLine, langCode string) string {
	text := fmt.Sprintf("%s × %d — %s\n  %s: %s", l.Name, l.Qty, FormatWon(l.Subtotal()), lang.T(langCode, "spice"), l.Spice.Label())
	if len(l.Extras) > 0 {
		names := make([]string, len(l.Extras))
		for i, e := range l.Extras {
			names[i] = e.Name
		}
		text += fmt.Sprintf("\n  %s: %s", lang.T(langCode, "extras"), strings.Join(names, ", "))
	}
	return text
}

// BuildOrderCard is the staff view of one order, timestamped in the store's
// time zone (UTC when loc is nil).
func BuildOrderCard(o models.Order, loc *time.Location, langCode string) string {
	if loc == nil {
		loc = time.UTC
	}
	var b strings.Builder
	fmt.Fprintf(&b, "#%s  %s  %s\n", o.ShortID(), o.CreatedAt.In(loc).Format("2006-01-02 15:04"), FormatWon(o.Total))
	b.WriteString(o.Type.Label())
	if o.TableNo != "" {
		fmt.Fprintf(&b, " · %s %s", lang.T(langCode, "table"), o.TableNo)
	}
	if o.PickupAt != "" {
		fmt.Fprintf(&b, " · %s %s", lang.T(langCode, "pickup"), o.PickupAt)
	}
	b.WriteString("\n" + ItemSummary(o.Items))
	if o.Memo != "" {
		fmt.Fprintf(&b, "\n%s: %s", lang.T(langCode, "memo"), o.Memo)
	}
	if o.Name != "" || o.Phone != "" {
		fmt.Fprintf(&b, "\n%s · %s", o.Name, o.Phone)
	}
	return b.String()
}

// BuildReceipt is what the customer sees after placing an order.
func BuildReceipt(o models.Order, store models.StoreInfo, langCode string) string {
	var b strings.Builder
	if store.Name != "" {
		b.WriteString(store.Name + "\n\n")
	}
	b.WriteString(lang.T(langCode, "order_done", o.ShortID()))
	b.WriteString("\n\n")
	for _, l := range o.Items {
		b.WriteString(LineText(l, langCode) + "\n")
	}
	fmt.Fprintf(&b, "\n%s: %s\n%s", lang.T(langCode, "total"), FormatWon(o.Total), lang.T(langCode, "payment_note"))
	return b.String()
}
