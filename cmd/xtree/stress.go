package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

const noneExporter = "none"

var (
	errStressConfig   = errors.New("[xtree] invalid stress config")
	errStressMismatch = errors.New("[xtree] stress result mismatch")

	traversalOrders = map[string]tree.TraversalOrder{
		"in":   tree.InOrder,
		"pre":  tree.PreOrder,
		"post": tree.PostOrder,
	}
	logLevels = []xlog.LogLevel{
		xlog.LogLevelDebug,
		xlog.LogLevelInfo,
		xlog.LogLevelWarn,
		xlog.LogLevelError,
	}
)

type stressConfig struct {
	n               int
	workers         int
	order           string
	removeRatio     float64
	metricsInterval time.Duration
	logLevel        string
	exporter        string
	listen          string
}

func (cfg *stressConfig) validate() error {
	if cfg.n <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", errStressConfig, cfg.n)
	}
	if cfg.workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", errStressConfig, cfg.workers)
	}
	if _, ok := traversalOrders[cfg.order]; !ok {
		return fmt.Errorf("%w: unknown order %q", errStressConfig, cfg.order)
	}
	if cfg.removeRatio < 0 || cfg.removeRatio > 1 {
		return fmt.Errorf("%w: remove ratio %v out of [0, 1]", errStressConfig, cfg.removeRatio)
	}
	if cfg.metricsInterval <= 0 {
		return fmt.Errorf("%w: metrics interval must be positive", errStressConfig)
	}
	if !lo.Contains(logLevels, xlog.LogLevel(strings.ToUpper(cfg.logLevel))) {
		return fmt.Errorf("%w: unknown log level %q", errStressConfig, cfg.logLevel)
	}
	switch cfg.exporter {
	case noneExporter, string(observability.ConsoleExporter), string(observability.PrometheusExporter):
	default:
		return fmt.Errorf("%w: unknown exporter %q", errStressConfig, cfg.exporter)
	}
	return nil
}

func newStressCmd() *cobra.Command {
	cfg := &stressConfig{}
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Insert and remove a shuffled range concurrently, then validate the avl tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runStress(cmd.Context(), cfg)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&cfg.n, "n", 100_000, "number of distinct values to insert")
	flags.IntVar(&cfg.workers, "workers", 8, "size of the worker pool")
	flags.StringVar(&cfg.order, "order", "in", "traversal order of the final enumeration: in, pre or post")
	flags.Float64Var(&cfg.removeRatio, "remove-ratio", 0.3, "fraction of the inserted values to remove")
	flags.DurationVar(&cfg.metricsInterval, "metrics-interval", time.Second, "interval of the console metrics exporter")
	flags.StringVar(&cfg.logLevel, "log-level", "INFO", "DEBUG, INFO, WARN or ERROR")
	flags.StringVar(&cfg.exporter, "exporter", "stdout", "metrics exporter: stdout, prometheus or none")
	flags.StringVar(&cfg.listen, "listen", "", "address to serve /metrics on for the prometheus exporter")
	return cmd
}

func newStressLogger(cfg *stressConfig, lc fx.Lifecycle) xlog.XLogger {
	logger := xlog.NewXLogger(
		xlog.WithXLoggerWriter(xlog.StdOut),
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerLevel(xlog.LogLevel(strings.ToUpper(cfg.logLevel))),
		xlog.WithXLoggerName("xtree"),
	)
	lc.Append(fx.StopHook(logger.Close))
	return logger
}

type metricsExporter struct {
	typ      string
	handler  http.Handler
	listener net.Listener
}

func newMetricsExporter(cfg *stressConfig, lc fx.Lifecycle, logger xlog.XLogger) (*metricsExporter, error) {
	me := &metricsExporter{typ: cfg.exporter}
	if cfg.exporter == noneExporter {
		return me, nil
	}

	shutdown, handler, err := observability.NewMetricsExporter(
		observability.MetricsExporterType(cfg.exporter),
		cfg.metricsInterval,
	)
	if err != nil {
		return nil, err
	}
	me.handler = handler
	if err = observability.InitProcessStats("stress"); err != nil {
		return nil, multierr.Append(err, shutdown(context.Background()))
	}

	var srv *http.Server
	if me.handler != nil && len(cfg.listen) > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", me.handler)
		srv = &http.Server{
			Addr:              cfg.listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if srv == nil {
				return nil
			}
			ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", srv.Addr)
			if err != nil {
				return err
			}
			me.listener = ln
			logger.Info("metrics served", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error(err, "metrics server stopped")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var merr error
			if srv != nil {
				merr = srv.Shutdown(ctx)
			}
			return multierr.Append(merr, shutdown(ctx))
		},
	})
	return me, nil
}

// The exporter has to be installed before the tree registers its instruments.
func newStressTree(_ *metricsExporter, logger xlog.XLogger) (tree.AVLTree[int], error) {
	avl, err := tree.NewOrderedAVLTree[int](
		tree.WithTreeStats[int]("stress"),
		tree.WithTreeLogger[int](logger),
	)
	if err != nil {
		return nil, err
	}
	return tree.NewSyncAVLTree[int](avl), nil
}

func newWorkerPool(cfg *stressConfig, lc fx.Lifecycle, logger xlog.XLogger) (*ants.Pool, error) {
	pool, err := ants.NewPool(
		cfg.workers,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		return pool.ReleaseTimeout(5 * time.Second)
	}))
	return pool, nil
}

func newStressApp(cfg *stressConfig, populates ...any) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newStressLogger,
			newMetricsExporter,
			newStressTree,
			newWorkerPool,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Populate(populates...),
	)
}

func runStress(ctx context.Context, cfg *stressConfig) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		avl    tree.AVLTree[int]
		pool   *ants.Pool
		logger xlog.XLogger
	)
	app := newStressApp(cfg, &avl, &pool, &logger)
	if err = app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		err = multierr.Append(err, app.Stop(stopCtx))
	}()

	res, err := stress(ctx, cfg, avl, pool)
	if err != nil {
		return err
	}
	logger.Info("stress finished",
		zap.Int64("inserted", res.inserted),
		zap.Int64("removed", res.removed),
		zap.Int64("len", avl.Len()),
		zap.Int("height", avl.Height()),
		zap.String("order", cfg.order),
		zap.Int64("enumerated", res.enumerated),
		zap.Duration("elapsed", res.elapsed),
	)
	return nil
}

type stressResult struct {
	inserted   int64
	removed    int64
	enumerated int64
	elapsed    time.Duration
}

func stress(ctx context.Context, cfg *stressConfig, avl tree.AVLTree[int], pool *ants.Pool) (stressResult, error) {
	begin := time.Now()
	res := stressResult{}
	keys := lo.Shuffle(lo.Range(cfg.n))

	var err error
	if res.inserted, err = runBatch(ctx, pool, keys, avl.Insert); err != nil {
		return res, err
	}

	removals := keys[:int(float64(len(keys))*cfg.removeRatio)]
	if res.removed, err = runBatch(ctx, pool, removals, avl.Remove); err != nil {
		return res, err
	}

	if err = tree.Validate[int](avl); err != nil {
		return res, err
	}
	if err = avl.SetTraversalOrder(traversalOrders[cfg.order]); err != nil {
		return res, err
	}
	e := avl.Enumerator()
	for e.Next() {
		res.enumerated++
	}
	e.Close()

	expected := int64(len(keys) - len(removals))
	if res.inserted != int64(len(keys)) || res.removed != int64(len(removals)) ||
		avl.Len() != expected || res.enumerated != expected {
		return res, fmt.Errorf("%w: inserted %d removed %d len %d enumerated %d, expected len %d",
			errStressMismatch, res.inserted, res.removed, avl.Len(), res.enumerated, expected)
	}
	res.elapsed = time.Since(begin)
	return res, nil
}

// runBatch splits keys into one chunk per worker and counts the
// successful operations.
func runBatch(ctx context.Context, pool *ants.Pool, keys []int, op func(int) bool) (int64, error) {
	var (
		wg   sync.WaitGroup
		hits atomic.Int64
	)
	defer wg.Wait()
	for _, chunk := range lo.Chunk(keys, max(1, len(keys)/pool.Cap())) {
		if err := ctx.Err(); err != nil {
			return hits.Load(), err
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			for _, k := range chunk {
				if op(k) {
					hits.Add(1)
				}
			}
		}); err != nil {
			wg.Done()
			return hits.Load(), err
		}
	}
	wg.Wait()
	return hits.Load(), nil
}
