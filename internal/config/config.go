package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/crmlabs/order/pkg/logger"
)

func MustInit() {
	if err := godotenv.Load("./.env"); err != nil {
		panic("error while loading .env file: " + err.Error())
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/order-svc")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	setDefaults()
	SetupLogger()
}

func setDefaults() {
	viper.SetDefault("server.http.port", "8087")
	viper.SetDefault("mongo.uri", "mongodb://mongo:27017")
	viper.SetDefault("mongo.database", "crm-project")
	viper.SetDefault("mongo.connect_timeout", 10*time.Second)
	viper.SetDefault("mongo.operation_timeout", 5*time.Second)
	viper.SetDefault("customer_service.base_url", "http://customer-service:8085")
	viper.SetDefault("customer_service.timeout", 5*time.Second)
	viper.SetDefault("rabbitmq.host", "rabbitmq")
	viper.SetDefault("rabbitmq.port", "5672")
	viper.SetDefault("rabbitmq.queues.order_created", "oms.order.created")
	viper.SetDefault("rabbitmq.queues.status_changed", "oms.order.status_changed")
	viper.SetDefault("rabbitmq.outbox.poll_interval", 10*time.Second)
	viper.SetDefault("rabbitmq.outbox.batch_size", 100)
	viper.SetDefault("rabbitmq.outbox.max_retries", 10)
	viper.SetDefault("jaeger.endpoint", "http://jaeger:14268/api/traces")
}

func SetupLogger() {
	handler := logger.NewHandler(nil)
	log := slog.New(handler)
	slog.SetDefault(log)
}
