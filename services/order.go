package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"mimi-order/models"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidOrderType    = errors.New("invalid order type")
	ErrDeliveryUnavailable = errors.New("delivery orders are not accepted yet")
)

// DayKeyLayout is the date-only key orders are grouped by.
const DayKeyLayout = "2006-01-02"

// OrderLog is the append-only list of submitted orders. Orders returns them
// in insertion order.
type OrderLog interface {
	Orders(ctx context.Context) ([]models.Order, error)
	Append(ctx context.Context, o models.Order) error
}

// TableHintStore keeps the last table code a customer arrived with.
type TableHintStore interface {
	SetTableHint(ctx context.Context, table string) error
	TableHint(ctx context.Context) (string, error)
}

// Notifier is told about every order after it has been appended to the log.
type Notifier interface {
	OrderSubmitted(ctx context.Context, o models.Order) error
}

type CheckoutInput struct {
	Type     models.OrderType
	Name     string
	Phone    string
	TableNo  string
	PickupAt string
	Memo     string
}

type OrderService struct {
	log       OrderLog
	notifiers []Notifier
	logger    *slog.Logger
	now       func() time.Time
	loc       *time.Location
	newID     func(time.Time) (string, error)
}

type Option func(*OrderService)

func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

// WithLocation sets the time zone day keys are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *OrderService) { s.loc = loc }
}

func WithNotifier(n Notifier) Option {
	return func(s *OrderService) { s.notifiers = append(s.notifiers, n) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *OrderService) { s.logger = l }
}

func NewOrderService(log OrderLog, opts ...Option) *OrderService {
	s := &OrderService{
		log:    log,
		logger: slog.Default(),
		now:    time.Now,
		loc:    time.UTC,
		newID:  NewOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DayKey returns the grouping key for t in the service's time zone.
func (s *OrderService) DayKey(t time.Time) string {
	return t.In(s.loc).Format(DayKeyLayout)
}

// Location is the time zone day keys and staff cards use.
func (s *OrderService) Location() *time.Location {
	return s.loc
}

// Today is the day key for the current time.
func (s *OrderService) Today() string {
	return s.DayKey(s.now())
}

// Checkout turns the cart into an order, appends it to the log and empties
// the cart. The cart is left untouched when anything fails.
func (s *OrderService) Checkout(ctx context.Context, cart *Cart, in CheckoutInput) (models.Order, error) {
	if cart == nil || cart.Len() == 0 {
		return models.Order{}, ErrEmptyCart
	}
	switch in.Type {
	case models.OrderTypeDineIn, models.OrderTypeTakeout:
	case models.OrderTypeDelivery:
		return models.Order{}, ErrDeliveryUnavailable
	default:
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidOrderType, in.Type)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	id, err := s.newID(now)
	if err != nil {
		return models.Order{}, fmt.Errorf("generate order id: %w", err)
	}
	lines := cart.Lines()
	o := models.Order{
		ID:        id,
		CreatedAt: now,
		Day:       s.DayKey(now),
		Type:      in.Type,
		Name:      in.Name,
		Phone:     in.Phone,
		Memo:      in.Memo,
		Items:     lines,
		Status:    models.OrderStatusPending,
	}
	for _, l := range lines {
		o.Total += l.Subtotal()
	}
	switch in.Type {
	case models.OrderTypeDineIn:
		o.TableNo = in.TableNo
	case models.OrderTypeTakeout:
		o.PickupAt = in.PickupAt
	}

	if err := s.log.Append(ctx, o); err != nil {
		return models.Order{}, fmt.Errorf("append order: %w", err)
	}
	cart.Clear()

	s.logger.Info("order submitted", "action", "checkout", "order_id", o.ID, "type", string(o.Type), "total", o.Total, "lines", len(o.Items))
	for _, n := range s.notifiers {
		if err := n.OrderSubmitted(ctx, o); err != nil {
			s.logger.Error("notify order", "action", "checkout", "order_id", o.ID, "error", err)
		}
	}
	return o, nil
}

func (s *OrderService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.log.Orders(ctx)
}

// Find returns the order whose id (or short id) matches.
func (s *OrderService) Find(ctx context.Context, id string) (models.Order, bool, error) {
	orders, err := s.log.Orders(ctx)
	if err != nil {
		return models.Order{}, false, err
	}
	for _, o := range orders {
		if o.ID == id || (len(id) == 6 && strings.HasSuffix(o.ID, id)) {
			return o, true, nil
		}
	}
	return models.Order{}, false, nil
}

// AdminOrders loads the log and applies Query.
func (s *OrderService) AdminOrders(ctx context.Context, day, q string) ([]models.Order, error) {
	orders, err := s.log.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return Query(orders, day, q), nil
}

func (s *OrderService) Stats(ctx context.Context, day string) (models.DailyStats, error) {
	orders, err := s.log.Orders(ctx)
	if err != nil {
		return models.DailyStats{}, fmt.Errorf("load orders: %w", err)
	}
	return Summarize(orders, day), nil
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewOrderID returns "<unix millis>-<6 random base36 chars>".
func NewOrderID(t time.Time) (string, error) {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idAlphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = idAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%d-%s", t.UnixMilli(), suffix), nil
}
