package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"mimi-order/models"
)

type memLog struct {
	orders    []models.Order
	appendErr error
}

func (m *memLog) Orders(ctx context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), m.orders...), nil
}

func (m *memLog) Append(ctx context.Context, o models.Order) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.orders = append(m.orders, o)
	return nil
}

type recordingNotifier struct {
	got []models.Order
	err error
}

func (r *recordingNotifier) OrderSubmitted(ctx context.Context, o models.Order) error {
	r.got = append(r.got, o)
	return r.err
}

var fixedNow = time.Date(2025, 3, 1, 23, 30, 0, 123456789, time.UTC)

func newTestService(log OrderLog, opts ...Option) *OrderService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewOrderService(log, opts...)
}

func TestCheckout(t *testing.T) {
	log := &memLog{}
	notifier := &recordingNotifier{}
	svc := newTestService(log, WithNotifier(notifier))

	cart := seqCart()
	cart.Add(plainItem, 2, "", []models.ExtraOption{rice, noodle})
	cart.Add(spicyItem, 1, models.SpiceHot, nil)

	o, err := svc.Checkout(context.Background(), cart, CheckoutInput{
		Type:     models.OrderTypeDineIn,
		Name:     "김철수",
		Phone:    "010-1234-5678",
		TableNo:  "A5",
		PickupAt: "12:20",
		Memo:     "덜 맵게",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if o.Total != 24800+10900 {
		t.Errorf("Total = %d, want %d", o.Total, 24800+10900)
	}
	if o.Total != o.LinesTotal() {
		t.Errorf("Total %d != LinesTotal %d", o.Total, o.LinesTotal())
	}
	if o.Status != models.OrderStatusPending {
		t.Errorf("Status = %q", o.Status)
	}
	if o.Day != "2025-03-01" {
		t.Errorf("Day = %q", o.Day)
	}
	if !o.CreatedAt.Equal(fixedNow.Truncate(time.Millisecond)) {
		t.Errorf("CreatedAt = %v", o.CreatedAt)
	}
	if o.TableNo != "A5" || o.PickupAt != "" {
		t.Errorf("dine-in keeps table only: table %q pickup %q", o.TableNo, o.PickupAt)
	}
	if !regexp.MustCompile(`^\d+-[0-9a-z]{6}$`).MatchString(o.ID) {
		t.Errorf("ID = %q", o.ID)
	}
	if len(log.orders) != 1 || log.orders[0].ID != o.ID {
		t.Errorf("log = %+v", log.orders)
	}
	if cart.Len() != 0 {
		t.Error("cart should be cleared after checkout")
	}
	if len(notifier.got) != 1 || notifier.got[0].ID != o.ID {
		t.Errorf("notifier got %+v", notifier.got)
	}
}

func TestCheckoutTakeoutKeepsPickupOnly(t *testing.T) {
	svc := newTestService(&memLog{})
	cart := seqCart()
	cart.Add(plainItem, 1, "", nil)
	o, err := svc.Checkout(context.Background(), cart, CheckoutInput{
		Type: models.OrderTypeTakeout, TableNo: "A5", PickupAt: "12:20",
	})
	if err != nil {
		t.Fatal(err)
	}
	if o.TableNo != "" || o.PickupAt != "12:20" {
		t.Errorf("takeout: table %q pickup %q", o.TableNo, o.PickupAt)
	}
}

func TestCheckoutRejects(t *testing.T) {
	tests := []struct {
		name    string
		fill    bool
		typ     models.OrderType
		wantErr error
	}{
		{"empty cart", false, models.OrderTypeDineIn, ErrEmptyCart},
		{"delivery", true, models.OrderTypeDelivery, ErrDeliveryUnavailable},
		{"unknown type", true, "drone", ErrInvalidOrderType},
		{"missing type", true, "", ErrInvalidOrderType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &memLog{}
			svc := newTestService(log)
			cart := seqCart()
			if tt.fill {
				cart.Add(plainItem, 1, "", nil)
			}
			_, err := svc.Checkout(context.Background(), cart, CheckoutInput{Type: tt.typ})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(log.orders) != 0 {
				t.Error("rejected checkout appended an order")
			}
			if tt.fill && cart.Len() != 1 {
				t.Error("rejected checkout changed the cart")
			}
		})
	}

	if _, err := newTestService(&memLog{}).Checkout(context.Background(), nil, CheckoutInput{Type: models.OrderTypeDineIn}); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("nil cart: %v", err)
	}
}

func TestCheckoutAppendFailureKeepsCart(t *testing.T) {
	boom := errors.New("disk full")
	notifier := &recordingNotifier{}
	svc := newTestService(&memLog{appendErr: boom}, WithNotifier(notifier))
	cart := seqCart()
	cart.Add(plainItem, 1, "", nil)
	if _, err := svc.Checkout(context.Background(), cart, CheckoutInput{Type: models.OrderTypeDineIn}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if cart.Len() != 1 {
		t.Error("cart cleared despite failed append")
	}
	if len(notifier.got) != 0 {
		t.Error("notifier called for an order that was not stored")
	}
}

func TestCheckoutNotifierErrorIgnored(t *testing.T) {
	log := &memLog{}
	svc := newTestService(log, WithNotifier(&recordingNotifier{err: errors.New("telegram down")}))
	cart := seqCart()
	cart.Add(plainItem, 1, "", nil)
	if _, err := svc.Checkout(context.Background(), cart, CheckoutInput{Type: models.OrderTypeTakeout}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if len(log.orders) != 1 {
		t.Error("order not stored")
	}
}

func TestTotalNotRecomputed(t *testing.T) {
	log := &memLog{}
	svc := newTestService(log)
	item := plainItem
	cart := seqCart()
	cart.Add(item, 1, "", nil)
	o, _ := svc.Checkout(context.Background(), cart, CheckoutInput{Type: models.OrderTypeDineIn})

	item.Price = 20000 // menu price changes later
	stored, _ := log.Orders(context.Background())
	if stored[0].Total != 9900 || stored[0].Items[0].Price != 9900 {
		t.Errorf("stored order changed with the menu: %+v", stored[0])
	}
	if o.Total != 9900 {
		t.Errorf("Total = %d", o.Total)
	}
}

func TestDayKeyUsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	svc := newTestService(&memLog{}, WithLocation(seoul))
	if got := svc.Today(); got != "2025-03-02" {
		t.Errorf("Today() in KST = %q, want 2025-03-02", got)
	}
	if got := newTestService(&memLog{}).Today(); got != "2025-03-01" {
		t.Errorf("Today() in UTC = %q, want 2025-03-01", got)
	}
}

func TestFind(t *testing.T) {
	log := &memLog{orders: []models.Order{{ID: "1700000000000-abc123"}, {ID: "1700000000001-zzz999"}}}
	svc := newTestService(log)
	ctx := context.Background()
	if o, ok, _ := svc.Find(ctx, "zzz999"); !ok || o.ID != "1700000000001-zzz999" {
		t.Errorf("Find by short id = %+v, %v", o, ok)
	}
	if _, ok, _ := svc.Find(ctx, "1700000000000-abc123"); !ok {
		t.Error("Find by full id failed")
	}
	if _, ok, _ := svc.Find(ctx, "nope"); ok {
		t.Error("Find matched a missing id")
	}
}

func TestNewOrderID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := NewOrderID(fixedNow)
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	o := models.Order{ID: "1740871800123-k3j9xa"}
	if o.ShortID() != "k3j9xa" {
		t.Errorf("ShortID = %q", o.ShortID())
	}
}
