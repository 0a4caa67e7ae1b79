package services

import (
	"errors"
	"fmt"
	"sync"

	"mimi-order/models"

	"github.com/google/uuid"
)

var (
	ErrSpiceNotAllowed = errors.New("spice level not offered for this item")
	ErrInvalidQty      = errors.New("quantity out of range")
)

// MaxLineQty caps a single cart line.
const MaxLineQty = 99

// Cart is the in-progress, unsubmitted list of lines for one customer.
type Cart struct {
	mu    sync.Mutex
	lines []models.CartLine
	newID func() string
}

func NewCart() *Cart {
	return &Cart{newID: uuid.NewString}
}

// Add appends a configured line. qty below 1 is raised to 1, qty above
// MaxLineQty is rejected and an empty spice level means the item's default.
func (c *Cart) Add(item models.MenuItem, qty int, spice models.SpiceLevel, extras []models.ExtraOption) (models.CartLine, error) {
	if qty < 1 {
		qty = 1
	}
	if qty > MaxLineQty {
		return models.CartLine{}, fmt.Errorf("%w: %d > %d", ErrInvalidQty, qty, MaxLineQty)
	}
	if spice == "" {
		spice = item.DefaultSpice()
	}
	if !item.AllowsSpice(spice) {
		return models.CartLine{}, fmt.Errorf("%w: %s %s", ErrSpiceNotAllowed, item.ID, spice)
	}
	line := models.CartLine{
		ItemID: item.ID,
		Name:   item.Name,
		Price:  item.Price,
		Qty:    qty,
		Spice:  spice,
		Extras: append([]models.ExtraOption(nil), extras...),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	line.ID = c.newID()
	c.lines = append(c.lines, line)
	return line, nil
}

// Increment adds one to the line's quantity; at MaxLineQty it does nothing.
// Reports whether the line exists.
func (c *Cart) Increment(lineID string) bool {
	return c.adjust(lineID, +1)
}

// Decrement removes one from the line's quantity; at 1 it does nothing.
func (c *Cart) Decrement(lineID string) bool {
	return c.adjust(lineID, -1)
}

func (c *Cart) adjust(lineID string, d int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			if q := c.lines[i].Qty + d; q >= 1 && q <= MaxLineQty {
				c.lines[i].Qty = q
			}
			return true
		}
	}
	return false
}

func (c *Cart) Remove(lineID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, len(c.lines))
	for i, l := range c.lines {
		l.Extras = append([]models.ExtraOption(nil), l.Extras...)
		out[i] = l
	}
	return out
}

func (c *Cart) Line(lineID string) (models.CartLine, bool) {
	for _, l := range c.Lines() {
		if l.ID == lineID {
			return l, true
		}
	}
	return models.CartLine{}, false
}

func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum int64
	for _, l := range c.lines {
		sum += l.Subtotal()
	}
	return sum
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// CartBook holds one cart per chat.
type CartBook struct {
	mu    sync.Mutex
	carts map[int64]*Cart
}

func NewCartBook() *CartBook {
	return &CartBook{carts: make(map[int64]*Cart)}
}

// Get returns the chat's cart, creating an empty one on first use.
func (b *CartBook) Get(chatID int64) *Cart {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.carts[chatID]
	if !ok {
		c = NewCart()
		b.carts[chatID] = c
	}
	return c
}

func (b *CartBook) Drop(chatID int64) {
	b.mu.Lock()
	delete(b.carts, chatID)
	b.mu.Unlock()
}

// Selection is the item configurator: quantity, spice and extras chosen for
// one menu item before it goes into the cart.
type Selection struct {
	Item     models.MenuItem
	Qty      int
	Spice    models.SpiceLevel
	extraIDs map[string]bool
}

func NewSelection(item models.MenuItem) *Selection {
	return &Selection{
		Item:     item,
		Qty:      1,
		Spice:    item.DefaultSpice(),
		extraIDs: make(map[string]bool),
	}
}

func (s *Selection) Inc() {
	if s.Qty < MaxLineQty {
		s.Qty++
	}
}

func (s *Selection) Dec() {
	if s.Qty > 1 {
		s.Qty--
	}
}

func (s *Selection) SetSpice(level models.SpiceLevel) error {
	if !s.Item.AllowsSpice(level) {
		return fmt.Errorf("%w: %s %s", ErrSpiceNotAllowed, s.Item.ID, level)
	}
	s.Spice = level
	return nil
}

func (s *Selection) ToggleExtra(id string) {
	if s.extraIDs[id] {
		delete(s.extraIDs, id)
		return
	}
	s.extraIDs[id] = true
}

func (s *Selection) HasExtra(id string) bool { return s.extraIDs[id] }

// Extras returns the toggled options in catalog order.
func (s *Selection) Extras(cat *Catalog) []models.ExtraOption {
	var out []models.ExtraOption
	for _, ex := range cat.Extras() {
		if s.extraIDs[ex.ID] {
			out = append(out, ex)
		}
	}
	return out
}

func (s *Selection) Subtotal(cat *Catalog) int64 {
	line := models.CartLine{Price: s.Item.Price, Qty: s.Qty, Extras: s.Extras(cat)}
	return line.Subtotal()
}

// AddTo commits the selection as a new cart line.
func (s *Selection) AddTo(cart *Cart, cat *Catalog) (models.CartLine, error) {
	return cart.Add(s.Item, s.Qty, s.Spice, s.Extras(cat))
}

// LineInput is a cart line described by catalog ids, as submitted over HTTP.
type LineInput struct {
	ItemID   string
	Qty      int
	Spice    models.SpiceLevel
	ExtraIDs []string
}

// BuildCart resolves inputs against the catalog into a fresh cart.
func BuildCart(cat *Catalog, in []LineInput) (*Cart, error) {
	cart := NewCart()
	for _, li := range in {
		item, ok := cat.Item(li.ItemID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, li.ItemID)
		}
		extras, err := cat.ResolveExtras(li.ExtraIDs)
		if err != nil {
			return nil, err
		}
		if _, err := cart.Add(item, li.Qty, li.Spice, extras); err != nil {
			return nil, err
		}
	}
	return cart, nil
}
