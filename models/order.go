package models

import "time"

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery" // shown but not accepted yet
)

// Label returns the Korean label used in exports and messages.
func (t OrderType) Label() string {
	switch t {
	case OrderTypeDineIn:
		return "매장"
	case OrderTypeTakeout:
		return "포장"
	case OrderTypeDelivery:
		return "배달"
	default:
		return string(t)
	}
}

// OrderStatusPending is the only status an order ever has.
const OrderStatusPending = "pending"

// CartLine is one configured menu selection. Name and Price are copied from
// the menu when the line is created so later menu edits don't change it.
type CartLine struct {
	ID     string        `json:"_id"`
	ItemID string        `json:"id"`
	Name   string        `json:"name"`
	Price  int64         `json:"price"`
	Qty    int           `json:"qty"`
	Spice  SpiceLevel    `json:"spice"`
	Extras []ExtraOption `json:"extras"`
}

// ExtrasPrice is the sum of the chosen extras for a single unit.
func (l CartLine) ExtrasPrice() int64 {
	var sum int64
	for _, e := range l.Extras {
		sum += e.Price
	}
	return sum
}

// Subtotal is (base price + extras) × qty.
func (l CartLine) Subtotal() int64 {
	return (l.Price + l.ExtrasPrice()) * int64(l.Qty)
}

// Order is an immutable record of a submitted cart.
type Order struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"date"`
	Day       string     `json:"day"`
	Type      OrderType  `json:"type"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	TableNo   string     `json:"tableNo,omitempty"`
	PickupAt  string     `json:"pickupAt,omitempty"`
	Memo      string     `json:"memo"`
	Items     []CartLine `json:"items"`
	Total     int64      `json:"total"`
	Status    string     `json:"status"`
}

// LinesTotal recomputes the total from the stored lines.
func (o Order) LinesTotal() int64 {
	var sum int64
	for _, l := range o.Items {
		sum += l.Subtotal()
	}
	return sum
}

// ShortID is the number customers see on the confirmation screen.
func (o Order) ShortID() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[len(o.ID)-6:]
}

// DailyStats is a per-day summary of the order log.
type DailyStats struct {
	Day         string
	OrdersCount int
	Revenue     int64
	ItemsCount  int
	ByType      map[OrderType]int
}
