package tree

import (
	"strings"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

type treeOptions[T any] struct {
	cmp       infra.Comparator[T]
	order     TraversalOrder
	logger    xlog.XLogger
	statsName string
	isDesc    bool
}

type TreeOption[T any] func(*treeOptions[T]) error

// WithTreeComparator replaces the comparator given to the constructor.
func WithTreeComparator[T any](cmp infra.Comparator[T]) TreeOption[T] {
	return func(opts *treeOptions[T]) error {
		if cmp == nil {
			return ErrTreeNilComparator
		}
		opts.cmp = cmp
		return nil
	}
}

// WithTreeDesc sorts the values from the greatest to the least.
func WithTreeDesc[T any]() TreeOption[T] {
	return func(opts *treeOptions[T]) error {
		opts.isDesc = true
		return nil
	}
}

func WithTreeTraversalOrder[T any](order TraversalOrder) TreeOption[T] {
	return func(opts *treeOptions[T]) error {
		if order >= _orderMax {
			return ErrTreeUnknownTraversalOrder
		}
		opts.order = order
		return nil
	}
}

// WithTreeLogger prints the rotations and removals at debug level.
func WithTreeLogger[T any](logger xlog.XLogger) TreeOption[T] {
	return func(opts *treeOptions[T]) error {
		opts.logger = logger
		return nil
	}
}

// WithTreeStats records the tree operations by the otel global meter provider.
func WithTreeStats[T any](name string) TreeOption[T] {
	return func(opts *treeOptions[T]) error {
		if name = strings.TrimSpace(name); len(name) == 0 {
			return ErrTreeStatsName
		}
		opts.statsName = name
		return nil
	}
}

func applyTreeOptions[T any](cmp infra.Comparator[T], opts ...TreeOption[T]) (*treeOptions[T], error) {
	o := &treeOptions[T]{
		cmp:   cmp,
		order: InOrder,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.cmp == nil {
		return nil, ErrTreeNilComparator
	}
	if o.isDesc {
		o.cmp = infra.ReverseComparator(o.cmp)
	}
	return o, nil
}
