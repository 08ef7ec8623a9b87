package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const ProcessStatsName = "xtree/process"

var (
	processStatsOnce sync.Once
	processStatsErr  error
	appStats         *processStats
)

type processStats struct {
	goroutines metric.Int64ObservableUpDownCounter
	procs      metric.Int64ObservableUpDownCounter
}

// InitProcessStats registers the goroutine and GOMAXPROCS gauges and the go
// runtime instrumentation on the global meter provider. Only the first call
// takes effect, so the exporter has to be installed before.
func InitProcessStats(name string) error {
	processStatsOnce.Do(func() {
		builder := &strings.Builder{}
		builder.WriteString(ProcessStatsName)
		builder.WriteString("/")
		if name = strings.TrimSpace(name); len(name) > 0 {
			builder.WriteString(name)
		} else {
			builder.WriteString("default")
		}
		meter := otel.Meter(
			builder.String(),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		appStats = &processStats{
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"process.goroutines",
				metric.WithDescription(`The number of goroutines of the process.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.NumGoroutine()))
					return nil
				}),
			)),
			procs: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"process.gomaxprocs",
				metric.WithDescription(`The GOMAXPROCS of the process.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.GOMAXPROCS(0)))
					return nil
				}),
			)),
		}
		processStatsErr = otelruntime.Start(
			otelruntime.WithMinimumReadMemStatsInterval(time.Second),
		)
	})
	return processStatsErr
}
