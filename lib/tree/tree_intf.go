package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

type TraversalOrder uint8

const (
	InOrder TraversalOrder = iota
	PreOrder
	PostOrder
	_orderMax
)

func (o TraversalOrder) String() string {
	switch o {
	case InOrder:
		return "InOrder"
	case PreOrder:
		return "PreOrder"
	case PostOrder:
		return "PostOrder"
	default:
	}
	return "Unknown"
}

type Direction int8

const (
	Left Direction = -1 + iota
	Root
	Right
)

var (
	ErrTreeNilComparator         = errors.New("[xtree] nil comparator")
	ErrTreeUnknownTraversalOrder = errors.New("[xtree] unknown traversal order")
	ErrTreeStatsName             = errors.New("[xtree] empty stats name")
	ErrTreeUnsupported           = errors.New("[xtree] tree implementation is not supported")
	ErrTreeBSTViolation          = errors.New("[xtree] binary search order violation")
	ErrTreeAVLViolation          = errors.New("[xtree] avl balance violation")
	ErrTreeParentViolation       = errors.New("[xtree] parent link violation")
	ErrTreeHeightViolation       = errors.New("[xtree] cached height violation")
	ErrTreeLenViolation          = errors.New("[xtree] cached length violation")
)

// Enumerator replays a snapshot of the tree values which is
// built at creation. Later mutations of the tree are invisible to it.
type Enumerator[T any] interface {
	// Next advances to the next value, returns false once exhausted or closed.
	Next() bool
	// Value returns the current value. It is the zero value before the
	// first Next, after Next has returned false and after Close.
	Value() T
	// Reset rewinds to the beginning of the snapshot.
	Reset()
	// Close releases the snapshot and any lock held for it. Idempotent.
	Close()
}

// BSTree is an ordered binary search tree. Values which compare
// equal are all kept, a new value is routed to the left of an equal one.
// Not thread safe, see NewSyncAVLTree.
type BSTree[T any] interface {
	Len() int64
	// Height of the whole tree, 0 for empty and 1 for a single node.
	Height() int
	// HeightOf returns the height of the subtree rooted at the first node
	// equal to item, 0 if absent.
	HeightOf(item T) int
	// Root returns the value stored at the root.
	Root() (T, bool)
	Min() (T, bool)
	Max() (T, bool)

	// Insert returns false only if item is a nil pointer, interface, map,
	// slice, chan or func.
	Insert(item T) bool
	// InsertRange returns true if any item was inserted.
	InsertRange(items ...T) bool
	Remove(item T) bool
	Find(item T) (T, bool)
	Contains(item T) bool
	Clear()
	// CopyTo copies the values in the default traversal order into dst
	// starting at dst[start], it stops silently at the end of dst.
	CopyTo(dst []T, start int) int

	TraversalOrder() TraversalOrder
	// SetTraversalOrder only affects the enumerators created afterwards.
	SetTraversalOrder(order TraversalOrder) error
	Enumerator() Enumerator[T]
	InOrderEnumerator() Enumerator[T]
	PreOrderEnumerator() Enumerator[T]
	PostOrderEnumerator() Enumerator[T]
	Values(order TraversalOrder) []T
	// Foreach walks in order lazily until action returns false.
	// The tree must not be mutated inside action.
	Foreach(action func(idx int64, val T) bool)
}

// AVLTree keeps |height(right) - height(left)| <= 1 for every node.
type AVLTree[T any] interface {
	BSTree[T]
	// BalanceFactor returns height(right) - height(left) of the first
	// node equal to item.
	BalanceFactor(item T) (int, bool)
}

// nodeVisitor exposes the node graph to the validators.
type nodeVisitor[T any] interface {
	visitRoot(fn func(root *node[T], cmp infra.Comparator[T], count int64) error) error
}
