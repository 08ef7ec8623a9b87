package tree

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	TreeStatsName = "xtree/tree"
)

var (
	rotationLeftAttrs  = metric.WithAttributeSet(attribute.NewSet(attribute.String("xtree.rotation.direction", "left")))
	rotationRightAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("xtree.rotation.direction", "right")))
)

// treeStats is nil safe, a tree without stats holds a nil pointer.
type treeStats struct {
	kind          attribute.Set
	length        atomic.Int64
	height        atomic.Int64
	insertCount   metric.Int64Counter
	removeCount   metric.Int64Counter
	rotationCount metric.Int64Counter
	clearCount    metric.Int64Counter
	lengthGauge   metric.Int64ObservableGauge
	heightGauge   metric.Int64ObservableGauge
}

func (stats *treeStats) RecordInsert(length int64, height int) {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1, metric.WithAttributeSet(stats.kind))
	stats.length.Store(length)
	stats.height.Store(int64(height))
}

func (stats *treeStats) RecordRemove(c removalCase, length int64, height int) {
	if stats == nil {
		return
	}
	stats.removeCount.Add(context.Background(), 1, metric.WithAttributes(
		append(stats.kind.ToSlice(), attribute.String("xtree.remove.case", c.String()))...,
	))
	stats.length.Store(length)
	stats.height.Store(int64(height))
}

func (stats *treeStats) RecordRotation(dir Direction) {
	if stats == nil {
		return
	}
	switch dir {
	case Left:
		stats.rotationCount.Add(context.Background(), 1, rotationLeftAttrs)
	case Right:
		stats.rotationCount.Add(context.Background(), 1, rotationRightAttrs)
	default:
	}
}

func (stats *treeStats) RecordClear() {
	if stats == nil {
		return
	}
	stats.clearCount.Add(context.Background(), 1, metric.WithAttributeSet(stats.kind))
	stats.length.Store(0)
	stats.height.Store(0)
}

func newTreeStats(kind, name string) *treeStats {
	meterName := fmt.Sprintf("%s/%s", TreeStatsName, name)
	meter := otel.Meter(meterName)
	stats := &treeStats{
		kind: attribute.NewSet(attribute.String("xtree.kind", kind)),
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.insert.count",
			metric.WithDescription("The number of values inserted into the tree."),
		)),
		removeCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.remove.count",
			metric.WithDescription("The number of values removed from the tree."),
		)),
		rotationCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.rotation.count",
			metric.WithDescription("The number of single rotations made to rebalance the tree."),
		)),
		clearCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.clear.count",
			metric.WithDescription("The number of times the tree was cleared."),
		)),
	}
	stats.lengthGauge = lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		"xtree.len",
		metric.WithDescription("The number of values in the tree."),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(stats.length.Load(), metric.WithAttributeSet(stats.kind))
			return nil
		}),
	))
	stats.heightGauge = lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		"xtree.height",
		metric.WithDescription("The height of the tree."),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(stats.height.Load(), metric.WithAttributeSet(stats.kind))
			return nil
		}),
	))
	return stats
}
