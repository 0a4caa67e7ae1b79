package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"mimi-order/models"

	"github.com/tidwall/jsonc"
)

// Entry names inside the storage file.
const (
	OrdersKey    = "mimi_orders"
	TableHintKey = "mimi_table_hint"
)

// Local is a small key/value file in the spirit of browser local storage:
// every value is a string and every write rewrites the whole file. With an
// empty path the entries live in memory only.
type Local struct {
	mu   sync.Mutex
	path string
	mem  map[string]string
}

func NewLocal(path string) *Local {
	return &Local{path: path, mem: make(map[string]string)}
}

func (l *Local) GetItem(key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items, err := l.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (l *Local) SetItem(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set(key, value)
}

func (l *Local) set(key, value string) error {
	items, err := l.load()
	if err != nil {
		return err
	}
	items[key] = value
	return l.save(items)
}

func (l *Local) load() (map[string]string, error) {
	if l.path == "" {
		out := make(map[string]string, len(l.mem))
		for k, v := range l.mem {
			out[k] = v
		}
		return out, nil
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	items := make(map[string]string)
	if len(data) == 0 {
		return items, nil
	}
	// Hand-edited files may carry comments or trailing commas.
	if err := json.Unmarshal(jsonc.ToJSON(data), &items); err != nil {
		return nil, fmt.Errorf("parse storage %s: %w", l.path, err)
	}
	return items, nil
}

func (l *Local) save(items map[string]string) error {
	if l.path == "" {
		l.mem = items
		return nil
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".mimi-storage-*")
	if err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write storage: %w", err)
	}
	return nil
}

func (l *Local) Orders(ctx context.Context) ([]models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orders()
}

func (l *Local) orders() ([]models.Order, error) {
	items, err := l.load()
	if err != nil {
		return nil, err
	}
	raw, ok := items[OrdersKey]
	if !ok || raw == "" {
		return []models.Order{}, nil
	}
	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, fmt.Errorf("decode %s: %w", OrdersKey, err)
	}
	return orders, nil
}

// Append reads the whole order list, adds o and writes the list back.
func (l *Local) Append(ctx context.Context, o models.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	orders, err := l.orders()
	if err != nil {
		return err
	}
	orders = append(orders, o)
	raw, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("encode %s: %w", OrdersKey, err)
	}
	return l.set(OrdersKey, string(raw))
}

func (l *Local) SetTableHint(ctx context.Context, table string) error {
	return l.SetItem(TableHintKey, table)
}

func (l *Local) TableHint(ctx context.Context) (string, error) {
	v, _, err := l.GetItem(TableHintKey)
	return v, err
}
