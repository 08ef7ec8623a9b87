package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type MetricsExporterType string

const (
	ConsoleExporter    MetricsExporterType = "stdout"
	PrometheusExporter MetricsExporterType = "prometheus"
)

var ErrUnknownMetricsExporter = errors.New("[observability] unknown metrics exporter")

// ShutdownFunc flushes and stops the meter provider installed by an exporter.
type ShutdownFunc func(ctx context.Context) error

// NewConsoleMetricsExporter serves for test/dev environment. The metrics
// are printed on every interval and once more on shutdown.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownFunc, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter serves for the product environment and the
// stats metrics are fetched by HTTP from the returned handler.
// A nil registry is replaced by a new one.
func NewPrometheusMetricsExporter(registry *prom.Registry) (ShutdownFunc, http.Handler, error) {
	if registry == nil {
		registry = prom.NewRegistry()
	}
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		Registry: registry,
	})
	return mp.Shutdown, handler, nil
}

// NewMetricsExporter installs the exporter by type. The handler is nil
// unless the exporter is served by HTTP.
func NewMetricsExporter(typ MetricsExporterType, interval time.Duration) (ShutdownFunc, http.Handler, error) {
	switch typ {
	case ConsoleExporter:
		shutdown, err := NewConsoleMetricsExporter(interval, interval, stdoutmetric.WithPrettyPrint())
		return shutdown, nil, err
	case PrometheusExporter:
		return NewPrometheusMetricsExporter(nil)
	default:
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownMetricsExporter, typ)
}
