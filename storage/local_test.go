package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mimi-order/models"
)

func testOrder(n int) models.Order {
	created := time.Date(2025, 3, 1, 12, 0, n, 0, time.UTC)
	return models.Order{
		ID:        fmt.Sprintf("%d-abc%03d", created.UnixMilli(), n),
		CreatedAt: created,
		Day:       "2025-03-01",
		Type:      models.OrderTypeDineIn,
		Name:      fmt.Sprintf("손님%d", n),
		Items: []models.CartLine{
			{ID: "l1", ItemID: "sal-01", Name: "살코기국밥", Price: 9900, Qty: 1, Spice: models.SpiceMild},
		},
		Total:  9900,
		Status: models.OrderStatusPending,
	}
}

func TestLocalAppendKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name string
		path string
	}{
		{"memory", ""},
		{"file", filepath.Join(t.TempDir(), "storage.json")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLocal(tc.path)
			orders, err := l.Orders(ctx)
			if err != nil {
				t.Fatalf("Orders on empty store: %v", err)
			}
			if len(orders) != 0 {
				t.Fatalf("empty store returned %d orders", len(orders))
			}
			const n = 5
			for i := 0; i < n; i++ {
				if err := l.Append(ctx, testOrder(i)); err != nil {
					t.Fatalf("Append(%d): %v", i, err)
				}
			}
			orders, err = l.Orders(ctx)
			if err != nil {
				t.Fatalf("Orders: %v", err)
			}
			if len(orders) != n {
				t.Fatalf("len(orders) = %d, want %d", len(orders), n)
			}
			for i, o := range orders {
				if want := testOrder(i).ID; o.ID != want {
					t.Errorf("orders[%d].ID = %q, want %q", i, o.ID, want)
				}
			}
		})
	}
}

func TestLocalSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")

	first := NewLocal(path)
	if err := first.Append(ctx, testOrder(1)); err != nil {
		t.Fatal(err)
	}
	if err := first.SetTableHint(ctx, "A5"); err != nil {
		t.Fatal(err)
	}

	second := NewLocal(path)
	if err := second.Append(ctx, testOrder(2)); err != nil {
		t.Fatal(err)
	}
	orders, err := second.Orders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Fatalf("len(orders) = %d, want 2", len(orders))
	}
	if orders[0].Total != 9900 || orders[0].Items[0].Name != "살코기국밥" {
		t.Errorf("order did not round-trip: %+v", orders[0])
	}
	if !orders[0].CreatedAt.Equal(testOrder(1).CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", orders[0].CreatedAt, testOrder(1).CreatedAt)
	}
	hint, err := second.TableHint(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if hint != "A5" {
		t.Errorf("TableHint = %q, want A5", hint)
	}
}

func TestLocalToleratesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	data := `{
  // set by the kiosk
  "mimi_table_hint": "B2",
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	hint, err := NewLocal(path).TableHint(context.Background())
	if err != nil {
		t.Fatalf("TableHint: %v", err)
	}
	if hint != "B2" {
		t.Errorf("TableHint = %q, want B2", hint)
	}
}

func TestLocalCorruptOrders(t *testing.T) {
	l := NewLocal("")
	if err := l.SetItem(OrdersKey, "not json"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Orders(context.Background()); err == nil {
		t.Error("expected error decoding corrupt order list")
	}
	if err := l.Append(context.Background(), testOrder(1)); err == nil {
		t.Error("Append should fail rather than overwrite a corrupt list")
	}
}
