package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/crmlabs/order/internal/metrics"
	"github.com/crmlabs/order/internal/service/models/order"
	createorder "github.com/crmlabs/order/internal/transport/http/create_order"
	getorder "github.com/crmlabs/order/internal/transport/http/get_order"
	listorders "github.com/crmlabs/order/internal/transport/http/list_orders"
	updatestatus "github.com/crmlabs/order/internal/transport/http/update_status"
	"github.com/crmlabs/order/pkg/http/middleware/trace"
	"github.com/crmlabs/order/pkg/logger"
)

type service interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
	GetOrders(ctx context.Context, model order.ListOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id string) (order.Order, error)
	UpdateStatus(ctx context.Context, id string, newStatus order.Status) error
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
	metrics *metrics.Metrics
}

func NewHTTPTransport(service service, m *metrics.Metrics) *HTTPTransport {
	router := newRouter(m)
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
		metrics: m,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Get("/health", h.health)
	h.router.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	h.router.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Put("/orders/{id}/status", h.updateStatus)
	})
}

func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
		slog.Error("Error sending health response", "error", err)
	}
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.service)
}

func newRouter(m *metrics.Metrics) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware("order-svc"))
	router.Use(m.Middleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
