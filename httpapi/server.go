package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mimi-order/metrics"
	"mimi-order/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
)

type Deps struct {
	Catalog *services.Catalog
	Orders  *services.OrderService
	Hints   services.TableHintStore
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	AdminUser         string
	AdminPasswordHash string // bcrypt; admin routes refuse everyone when empty
}

type Server struct {
	catalog *services.Catalog
	orders  *services.OrderService
	hints   services.TableHintStore
	metrics *metrics.Metrics
	logger  *slog.Logger

	adminUser string
	adminHash []byte
}

func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		catalog:   d.Catalog,
		orders:    d.Orders,
		hints:     d.Hints,
		metrics:   m,
		logger:    logger,
		adminUser: d.AdminUser,
		adminHash: []byte(d.AdminPasswordHash),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/menu", s.handleMenu)
	r.Post("/api/orders", s.handleCreateOrder)
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/orders", s.handleAdminOrders)
		r.Get("/orders/export", s.handleExport)
		r.Get("/orders/{id}", s.handleFindOrder)
		r.Get("/stats", s.handleStats)
	})
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

// Run serves until ctx is cancelled, then shuts down with a 5s grace period.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Routes(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("http listening", "action", "http_start", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || len(s.adminHash) == 0 ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.adminUser)) != 1 ||
			bcrypt.CompareHashAndPassword(s.adminHash, []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="mimi-admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
