package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mimi-order/models"
	"mimi-order/services"
	"mimi-order/storage"

	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC)

type fixture struct {
	handler http.Handler
	store   *storage.Local
	orders  *services.OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat, err := services.LoadCatalog("")
	if err != nil {
		t.Fatal(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("gukbap"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewLocal("")
	orders := services.NewOrderService(store, services.WithClock(func() time.Time { return testNow }))
	srv := New(Deps{
		Catalog:           cat,
		Orders:            orders,
		Hints:             store,
		AdminUser:         "admin",
		AdminPasswordHash: string(hash),
	})
	return &fixture{handler: srv.Routes(), store: store, orders: orders}
}

func (f *fixture) do(t *testing.T, method, target string, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if admin {
		r.SetBasicAuth("admin", "gukbap")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	return rec
}

func TestMenu(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "GET", "/api/menu?search=%EA%B5%AD%EB%B0%A5&table=A5", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp menuResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 3 || len(resp.Extras) != 4 {
		t.Errorf("items %d extras %d", len(resp.Items), len(resp.Extras))
	}
	hint, _ := f.store.TableHint(context.Background())
	if hint != "A5" {
		t.Errorf("table hint = %q, want A5", hint)
	}
}

const validOrder = `{
	"type": "dine_in",
	"name": "김철수",
	"phone": "010-1234-5678",
	"table_no": "A5",
	"memo": "덜 맵게",
	"lines": [
		{"item_id": "sal-01", "qty": 2, "extras": ["rice", "noodle"]},
		{"item_id": "dae-03", "qty": 1, "spice": "hot"}
	]
}`

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "POST", "/api/orders", validOrder, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var o models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatal(err)
	}
	if o.Total != 24800+10900 || o.Day != "2025-03-01" || o.Status != models.OrderStatusPending {
		t.Errorf("order = %+v", o)
	}
	stored, _ := f.store.Orders(context.Background())
	if len(stored) != 1 || stored[0].ID != o.ID {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCreateOrderRejects(t *testing.T) {
	tests := map[string]string{
		"empty cart":    `{"type":"dine_in","lines":[]}`,
		"delivery":      `{"type":"delivery","lines":[{"item_id":"sal-01"}]}`,
		"unknown item":  `{"type":"dine_in","lines":[{"item_id":"pizza"}]}`,
		"bad spice":     `{"type":"dine_in","lines":[{"item_id":"sal-01","spice":"hot"}]}`,
		"unknown extra": `{"type":"takeout","lines":[{"item_id":"sal-01","extras":["cheese"]}]}`,
		"huge qty":      `{"type":"takeout","lines":[{"item_id":"sal-01","qty":1152921504606846976}]}`,
		"bad json":      `{"type":`,
		"unknown field": `{"type":"dine_in","coupon":"X","lines":[{"item_id":"sal-01"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, "POST", "/api/orders", body, false)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d: %s", rec.Code, rec.Body)
			}
			stored, _ := f.store.Orders(context.Background())
			if len(stored) != 0 {
				t.Errorf("rejected order stored")
			}
		})
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/admin/orders", "/admin/orders/export", "/admin/stats"} {
		rec := f.do(t, "GET", path, "", false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without auth: %d", path, rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Errorf("%s: missing WWW-Authenticate", path)
		}
	}
	r := httptest.NewRequest("GET", "/admin/orders", nil)
	r.SetBasicAuth("admin", "wrong")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: %d", rec.Code)
	}
}

func TestAdminDisabledWithoutHash(t *testing.T) {
	cat, _ := services.LoadCatalog("")
	store := storage.NewLocal("")
	srv := New(Deps{Catalog: cat, Orders: services.NewOrderService(store), AdminUser: "admin"})
	r := httptest.NewRequest("GET", "/admin/orders", nil)
	r.SetBasicAuth("admin", "")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status %d, want 401", rec.Code)
	}
}

func TestAdminOrdersAndExport(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, "POST", "/api/orders", validOrder, false); rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}

	rec := f.do(t, "GET", "/admin/orders?q=%EA%B9%80", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("orders: %d %s", rec.Code, rec.Body)
	}
	var list []models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}

	rec = f.do(t, "GET", "/admin/orders?day=2025-02-28", "", true)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("other day body = %s", rec.Body)
	}

	rec = f.do(t, "GET", "/admin/orders/export?day=2025-03-01", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "mimi-orders-2025-03-01.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := rec.Body.Bytes()
	if !bytes.HasPrefix(body, []byte("\xef\xbb\xbf")) {
		t.Error("export missing BOM")
	}
	if lines := strings.Split(string(body), "\n"); len(lines) != 2 || !strings.Contains(lines[1], "살코기국밥×2(+공기밥 추가+사리 추가) / 얼큰다데기국밥×1") {
		t.Errorf("export body:\n%s", body)
	}

	rec = f.do(t, "GET", "/admin/orders/export?day=2025-02-28", "", true)
	if lines := strings.Split(rec.Body.String(), "\n"); len(lines) != 1 {
		t.Errorf("empty export should be header only, got %d lines", len(lines))
	}
}

func TestAdminStats(t *testing.T) {
	f := newFixture(t)
	f.do(t, "POST", "/api/orders", validOrder, false)
	f.do(t, "POST", "/api/orders", `{"type":"takeout","pickup_at":"12:20","lines":[{"item_id":"gal-04"}]}`, false)

	rec := f.do(t, "GET", "/admin/stats", "", true)
	var st statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Orders != 2 || st.Revenue != 24800+10900+12900 || st.ByType["takeout"] != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestBadDay(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, "GET", "/admin/orders?day=yesterday", "", true); rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, "GET", "/healthz", "", false)
	rec := f.do(t, "GET", "/metrics", "", false)
	if !strings.Contains(rec.Body.String(), `mimi_http_requests_total{handler="/healthz",status="200"} 1`) {
		t.Errorf("metrics missing healthz counter:\n%s", rec.Body)
	}
}

func TestFindOrder(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, "POST", "/api/orders", validOrder, false)
	var created models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{created.ID, created.ShortID()} {
		rec := f.do(t, "GET", "/admin/orders/"+id, "", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("find %s: %d", id, rec.Code)
		}
		var got models.Order
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.ID != created.ID {
			t.Errorf("find %s returned %s", id, got.ID)
		}
	}

	if rec := f.do(t, "GET", "/admin/orders/zzzzzz", "", true); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status %d, want 404", rec.Code)
	}
}
