// Package webapp serves the souvenir Web App and its order lookup endpoint.
package webapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/m3rciful/tourbot/core/logger"
	"github.com/m3rciful/tourbot/internal/order"
)

// OrderReader is the part of the order store the server needs.
type OrderReader interface {
	Get(ctx context.Context, userID int64) (order.Order, error)
}

// Options configure the server.
type Options struct {
	Addr           string
	StaticDir      string
	AllowedOrigins []string
	Orders         OrderReader
}

// Server is the HTTP server behind the Web App button.
type Server struct {
	srv *http.Server
}

// NewServer builds the server; call Start to begin serving.
func NewServer(opts Options) *Server {
	return &Server{srv: &http.Server{
		Addr:              opts.Addr,
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// NewRouter wires routes and middleware.
func NewRouter(opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/get_order", getOrder(opts.Orders))
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}
	return r
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("webapp: listen %s: %w", s.srv.Addr, err)
	}
	logger.WebApp.LogAttrs(ctx, slog.LevelInfo, "webapp.listen",
		slog.String("addr", ln.Addr().String()),
	)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WebApp.LogAttrs(context.Background(), slog.LevelError, "webapp.serve_failed",
				slog.String("err", err.Error()),
			)
		}
	}()
	return nil
}

// Shutdown stops the server, waiting at most five seconds for open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

type orderItem struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
	Qty  int    `json:"qty"`
}

type orderResponse struct {
	Items     []orderItem `json:"items"`
	FIO       string      `json:"fio"`
	Packaging string      `json:"packaging"`
}

// getOrder lets the Web App prefill its cart from the stored order.
func getOrder(orders OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		if err != nil || userID == 0 {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}
		o, err := orders.Get(r.Context(), userID)
		if errors.Is(err, order.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			logger.WebApp.LogAttrs(r.Context(), slog.LevelError, "webapp.get_order_failed",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		resp := orderResponse{FIO: o.FullName, Packaging: o.Packaging, Items: make([]orderItem, 0, len(o.Items))}
		for _, it := range o.Items {
			var id any = it.ID
			if n, err := strconv.Atoi(it.ID); err == nil {
				id = n
			}
			resp.Items = append(resp.Items, orderItem{ID: id, Name: it.Name, Unit: it.Unit, Qty: it.Qty})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.WebApp.LogAttrs(r.Context(), slog.LevelWarn, "webapp.encode_failed",
				slog.String("err", err.Error()),
			)
		}
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.WebApp.LogAttrs(r.Context(), slog.LevelDebug, "webapp.request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("http_status", ww.Status()),
			slog.String("rid", middleware.GetReqID(r.Context())),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
	})
}
