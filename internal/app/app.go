package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crmlabs/order/internal/clients/customer"
	"github.com/crmlabs/order/internal/dal/mongo"
	"github.com/crmlabs/order/internal/dal/rabbitmq"
	orderrepo "github.com/crmlabs/order/internal/dal/repositories/order/mongo"
	outboxrepo "github.com/crmlabs/order/internal/dal/repositories/outbox/mongo"
	"github.com/crmlabs/order/internal/metrics"
	"github.com/crmlabs/order/internal/otel"
	"github.com/crmlabs/order/internal/service/services/ordersvc"
	httptransport "github.com/crmlabs/order/internal/transport/http"
	outboxworker "github.com/crmlabs/order/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc     *ordersvc.OrderService
	transport    *httptransport.HTTPTransport
	worker       *outboxworker.Worker
	mongoClient  *mongo.Client
	rabbitClient *rabbitmq.Client
	otelCtl      *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelCtl := otel.MustInitOtel()
	m := metrics.NewMetrics()

	mongoClient := mongo.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	orderRepository := orderrepo.NewMongoOrderRepository(mongoClient)
	outboxRepository := outboxrepo.NewMongoOutboxRepository(mongoClient)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepository),
		ordersvc.WithOutboxRepository(outboxRepository),
		ordersvc.WithCustomerValidator(customer.NewClient()),
		ordersvc.WithMetrics(m),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, m)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(outboxRepository, rabbitClient)

	return &App{
		orderSvc:     orderSvc,
		transport:    transport,
		worker:       worker,
		mongoClient:  mongoClient,
		rabbitClient: rabbitClient,
		otelCtl:      otelCtl,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.worker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	cancelWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.mongoClient.Close(ctx); err != nil {
		slog.Error("Database connection close error", "error", err)
	} else {
		slog.Info("Database connection closed gracefully")
	}

	if err := a.otelCtl.Shutdown(); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
