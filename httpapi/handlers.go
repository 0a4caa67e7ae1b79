package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"mimi-order/models"
	"mimi-order/services"

	"github.com/go-chi/chi/v5"
)

type menuResponse struct {
	Store  models.StoreInfo     `json:"store"`
	Items  []models.MenuItem    `json:"items"`
	Extras []models.ExtraOption `json:"extras"`
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	if table := r.URL.Query().Get("table"); table != "" && s.hints != nil {
		if err := s.hints.SetTableHint(r.Context(), table); err != nil {
			s.logger.Error("save table hint", "action", "menu", "table", table, "error", err)
		}
	}
	items := s.catalog.Search(r.URL.Query().Get("search"))
	if items == nil {
		items = []models.MenuItem{}
	}
	writeJSON(w, http.StatusOK, menuResponse{
		Store:  s.catalog.Store,
		Items:  items,
		Extras: s.catalog.Extras(),
	})
}

type orderLineRequest struct {
	ItemID string            `json:"item_id"`
	Qty    int               `json:"qty"`
	Spice  models.SpiceLevel `json:"spice"`
	Extras []string          `json:"extras"`
}

type createOrderRequest struct {
	Type     models.OrderType   `json:"type"`
	Name     string             `json:"name"`
	Phone    string             `json:"phone"`
	TableNo  string             `json:"table_no"`
	PickupAt string             `json:"pickup_at"`
	Memo     string             `json:"memo"`
	Lines    []orderLineRequest `json:"lines"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	in := make([]services.LineInput, len(req.Lines))
	for i, l := range req.Lines {
		in[i] = services.LineInput{ItemID: l.ItemID, Qty: l.Qty, Spice: l.Spice, ExtraIDs: l.Extras}
	}
	cart, err := services.BuildCart(s.catalog, in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	order, err := s.orders.Checkout(r.Context(), cart, services.CheckoutInput{
		Type:     req.Type,
		Name:     req.Name,
		Phone:    req.Phone,
		TableNo:  req.TableNo,
		PickupAt: req.PickupAt,
		Memo:     req.Memo,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	day, ok := s.dayParam(w, r)
	if !ok {
		return
	}
	orders, err := s.orders.AdminOrders(r.Context(), day, r.URL.Query().Get("q"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// handleFindOrder looks an order up by full id or the short number printed
// on the customer's confirmation.
func (s *Server) handleFindOrder(w http.ResponseWriter, r *http.Request) {
	o, ok, err := s.orders.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	day, ok := s.dayParam(w, r)
	if !ok {
		return
	}
	orders, err := s.orders.AdminOrders(r.Context(), day, r.URL.Query().Get("q"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFileName(day)))
	if err := services.ExportCSV(w, orders); err != nil {
		s.logger.Error("write export", "action", "export", "day", day, "error", err)
		return
	}
	s.metrics.Exports.Inc()
	s.logger.Info("orders exported", "action", "export", "day", day, "rows", len(orders))
}

type statsResponse struct {
	Day     string         `json:"day"`
	Orders  int            `json:"orders"`
	Items   int            `json:"items"`
	Revenue int64          `json:"revenue"`
	ByType  map[string]int `json:"by_type"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	day, ok := s.dayParam(w, r)
	if !ok {
		return
	}
	st, err := s.orders.Stats(r.Context(), day)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	byType := make(map[string]int, len(st.ByType))
	for k, v := range st.ByType {
		byType[string(k)] = v
	}
	writeJSON(w, http.StatusOK, statsResponse{Day: st.Day, Orders: st.OrdersCount, Items: st.ItemsCount, Revenue: st.Revenue, ByType: byType})
}

// dayParam reads ?day=YYYY-MM-DD, defaulting to today.
func (s *Server) dayParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	day := r.URL.Query().Get("day")
	if day == "" {
		return s.orders.Today(), true
	}
	if _, err := time.Parse(services.DayKeyLayout, day); err != nil {
		writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return "", false
	}
	return day, true
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidOrderType),
		errors.Is(err, services.ErrDeliveryUnavailable),
		errors.Is(err, services.ErrUnknownItem),
		errors.Is(err, services.ErrUnknownExtra),
		errors.Is(err, services.ErrSpiceNotAllowed),
		errors.Is(err, services.ErrInvalidQty):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "action", "http", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
