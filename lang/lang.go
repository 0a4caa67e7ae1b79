// Package lang holds the bot's user-facing strings.
package lang

import "fmt"

const (
	Ko = "ko"
	En = "en"
)

var texts = map[string]map[string]string{
	Ko: {
		"welcome":          "%s에 오신 것을 환영합니다! 🍲\n메뉴를 골라 나만의 국밥을 주문해 보세요.",
		"welcome_table":    "테이블 %s에서 주문을 시작합니다.",
		"view_menu":        "📋 메뉴 보기",
		"view_cart":        "🛒 장바구니",
		"menu_title":       "메뉴",
		"menu_empty":       "검색 결과가 없습니다.",
		"qty":              "수량",
		"spice":            "맵기",
		"extras":           "추가",
		"subtotal":         "소계",
		"add_to_cart":      "➕ 담기",
		"added":            "장바구니에 담았습니다: %s",
		"back":             "⬅️ 뒤로",
		"cart_title":       "장바구니",
		"cart_empty":       "담긴 메뉴가 없습니다.",
		"cart_total":       "총 결제 예상",
		"remove":           "🗑 삭제",
		"checkout":         "📝 주문서 작성",
		"choose_type":      "주문 유형을 선택해 주세요.",
		"type_dine_in":     "🏠 매장",
		"type_takeout":     "🛍 포장",
		"type_delivery":    "🛵 배달(준비중)",
		"delivery_soon":    "배달은 준비중입니다. 매장 또는 포장을 선택해 주세요.",
		"ask_name":         "성함을 입력해 주세요. (건너뛰려면 -)",
		"ask_phone":        "연락처를 입력하거나 아래 버튼으로 공유해 주세요. (건너뛰려면 -)",
		"share_phone":      "📞 연락처 공유",
		"ask_table":        "테이블 번호를 입력해 주세요. 예: A5 (건너뛰려면 -)",
		"ask_pickup":       "픽업 예정 시간을 입력해 주세요. 예: 12:20 (건너뛰려면 -)",
		"ask_memo":         "요청사항을 입력해 주세요. 예: 덜 맵게, 국물 넉넉히 (건너뛰려면 -)",
		"confirm_title":    "주문 내역을 확인해 주세요.",
		"confirm_submit":   "✅ 주문 접수",
		"cancel":           "❌ 취소",
		"cancelled":        "주문서 작성을 취소했습니다. 장바구니는 그대로입니다.",
		"order_done":       "주문이 접수되었습니다!\n주문번호 #%s — 카운터에서 결제해 주세요.",
		"order_failed":     "주문 접수에 실패했습니다. 잠시 후 다시 시도해 주세요.",
		"payment_note":     "현장결제(현금/카드/QR)",
		"unauthorized":     "권한이 없습니다.",
		"admin_no_orders":  "해당 날짜의 주문이 없습니다.",
		"admin_orders":     "📦 %s 주문 %d건",
		"export_caption":   "%s 주문 %d건",
		"stats":            "📊 %s\n주문: %d건\n메뉴 수량: %d\n매출: %s\n매장: %d · 포장: %d",
		"table":            "테이블",
		"pickup":           "픽업",
		"memo":             "요청",
		"total":            "총합",
		"info":             "🏪 %s\n📞 %s\n📍 %s\n🕒 %s\n\n%s",
		"unknown":          "메뉴에서 선택해 주세요. /menu",
		"item_unavailable": "메뉴를 찾을 수 없습니다.",
	},
	En: {
		"welcome":          "Welcome to %s! 🍲\nPick from the menu and build your own bowl.",
		"welcome_table":    "Ordering for table %s.",
		"view_menu":        "📋 Menu",
		"view_cart":        "🛒 Cart",
		"menu_title":       "Menu",
		"menu_empty":       "Nothing matches.",
		"qty":              "Qty",
		"spice":            "Spice",
		"extras":           "Extras",
		"subtotal":         "Subtotal",
		"add_to_cart":      "➕ Add",
		"added":            "Added to cart: %s",
		"back":             "⬅️ Back",
		"cart_title":       "Cart",
		"cart_empty":       "Your cart is empty.",
		"cart_total":       "Estimated total",
		"remove":           "🗑 Remove",
		"checkout":         "📝 Checkout",
		"choose_type":      "How would you like your order?",
		"type_dine_in":     "🏠 Dine in",
		"type_takeout":     "🛍 Takeout",
		"type_delivery":    "🛵 Delivery (soon)",
		"delivery_soon":    "Delivery is not available yet. Please pick dine in or takeout.",
		"ask_name":         "Your name? (send - to skip)",
		"ask_phone":        "Your phone number, or share it with the button. (send - to skip)",
		"share_phone":      "📞 Share phone",
		"ask_table":        "Table number, e.g. A5 (send - to skip)",
		"ask_pickup":       "Pickup time, e.g. 12:20 (send - to skip)",
		"ask_memo":         "Any requests? (send - to skip)",
		"confirm_title":    "Please check your order.",
		"confirm_submit":   "✅ Place order",
		"cancel":           "❌ Cancel",
		"cancelled":        "Checkout cancelled. Your cart is unchanged.",
		"order_done":       "Order received!\nOrder #%s. Please pay at the counter.",
		"order_failed":     "Could not place the order. Please try again shortly.",
		"payment_note":     "Pay at the counter (cash/card/QR)",
		"unauthorized":     "Unauthorized.",
		"admin_no_orders":  "No orders for that day.",
		"admin_orders":     "📦 %s: %d orders",
		"export_caption":   "%s: %d orders",
		"stats":            "📊 %s\nOrders: %d\nItems: %d\nRevenue: %s\nDine in: %d · Takeout: %d",
		"table":            "Table",
		"pickup":           "Pickup",
		"memo":             "Note",
		"total":            "Total",
		"info":             "🏪 %s\n📞 %s\n📍 %s\n🕒 %s\n\n%s",
		"unknown":          "Please choose from the menu. /menu",
		"item_unavailable": "Menu item not found.",
	},
}

// T returns the text for key in the given language, falling back to Korean
// and then to the key itself. args are applied with fmt.Sprintf.
func T(code, key string, args ...interface{}) string {
	s, ok := texts[code][key]
	if !ok {
		s, ok = texts[Ko][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// FromTelegram maps a Telegram language_code to a supported language.
func FromTelegram(code string) string {
	if len(code) >= 2 && code[:2] == En {
		return En
	}
	return Ko
}
