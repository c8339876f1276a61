package jaeger

import (
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/jaeger"
)

// MustNewJaeger creates a jaeger exporter pointed at the configured collector.
func MustNewJaeger() *jaeger.Exporter {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(viper.GetString("jaeger.endpoint")),
	))
	if err != nil {
		panic(err)
	}

	return exp
}
