package tree

import (
	"sync"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	_ BSTree[uint8]  = (*syncTree[uint8])(nil)
	_ AVLTree[uint8] = (*syncAVLTree[uint8])(nil)
)

// syncTree guards every call of impl by one reader-writer lock.
// Writes hold the lock through the whole rebalancing.
type syncTree[T any] struct {
	rwmu *sync.RWMutex
	impl BSTree[T]
}

func (t *syncTree[T]) Len() int64 {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Len()
}

func (t *syncTree[T]) Height() int {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Height()
}

func (t *syncTree[T]) HeightOf(item T) int {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.HeightOf(item)
}

func (t *syncTree[T]) Root() (T, bool) {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Root()
}

func (t *syncTree[T]) Min() (T, bool) {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Min()
}

func (t *syncTree[T]) Max() (T, bool) {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Max()
}

func (t *syncTree[T]) Insert(item T) bool {
	t.rwmu.Lock()
	defer t.rwmu.Unlock()
	return t.impl.Insert(item)
}

func (t *syncTree[T]) InsertRange(items ...T) bool {
	t.rwmu.Lock()
	defer t.rwmu.Unlock()
	return t.impl.InsertRange(items...)
}

func (t *syncTree[T]) Remove(item T) bool {
	t.rwmu.Lock()
	defer t.rwmu.Unlock()
	return t.impl.Remove(item)
}

func (t *syncTree[T]) Find(item T) (T, bool) {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Find(item)
}

func (t *syncTree[T]) Contains(item T) bool {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Contains(item)
}

func (t *syncTree[T]) Clear() {
	t.rwmu.Lock()
	defer t.rwmu.Unlock()
	t.impl.Clear()
}

func (t *syncTree[T]) CopyTo(dst []T, start int) int {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.CopyTo(dst, start)
}

func (t *syncTree[T]) TraversalOrder() TraversalOrder {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.TraversalOrder()
}

func (t *syncTree[T]) SetTraversalOrder(order TraversalOrder) error {
	t.rwmu.Lock()
	defer t.rwmu.Unlock()
	return t.impl.SetTraversalOrder(order)
}

// lockedEnumerator keeps the read lock until it is closed. Writers
// in the same goroutine block forever while it is open.
func (t *syncTree[T]) lockedEnumerator(fn func() Enumerator[T]) Enumerator[T] {
	t.rwmu.RLock()
	inner := fn()
	return newSnapshotEnumerator[T](drain(inner), t.rwmu.RUnlock)
}

func drain[T any](e Enumerator[T]) []T {
	defer e.Close()
	if se, ok := e.(*snapshotEnumerator[T]); ok {
		values := se.values
		se.values = nil
		return values
	}
	values := make([]T, 0, 16)
	for e.Next() {
		values = append(values, e.Value())
	}
	return values
}

func (t *syncTree[T]) Enumerator() Enumerator[T] {
	return t.lockedEnumerator(t.impl.Enumerator)
}

func (t *syncTree[T]) InOrderEnumerator() Enumerator[T] {
	return t.lockedEnumerator(t.impl.InOrderEnumerator)
}

func (t *syncTree[T]) PreOrderEnumerator() Enumerator[T] {
	return t.lockedEnumerator(t.impl.PreOrderEnumerator)
}

func (t *syncTree[T]) PostOrderEnumerator() Enumerator[T] {
	return t.lockedEnumerator(t.impl.PostOrderEnumerator)
}

func (t *syncTree[T]) Values(order TraversalOrder) []T {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.impl.Values(order)
}

func (t *syncTree[T]) Foreach(action func(idx int64, val T) bool) {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	t.impl.Foreach(action)
}

func (t *syncTree[T]) visitRoot(fn func(root *node[T], cmp infra.Comparator[T], count int64) error) error {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	v, ok := t.impl.(nodeVisitor[T])
	if !ok {
		return ErrTreeUnsupported
	}
	return v.visitRoot(fn)
}

type syncAVLTree[T any] struct {
	*syncTree[T]
	avl AVLTree[T]
}

func (t *syncAVLTree[T]) BalanceFactor(item T) (int, bool) {
	t.rwmu.RLock()
	defer t.rwmu.RUnlock()
	return t.avl.BalanceFactor(item)
}

// NewSyncBSTree wraps tree by a reader-writer lock.
func NewSyncBSTree[T any](tree BSTree[T]) BSTree[T] {
	if tree == nil {
		return nil
	}
	switch st := tree.(type) {
	case *syncTree[T]:
		return st
	case *syncAVLTree[T]:
		return st
	default:
	}
	return &syncTree[T]{
		rwmu: &sync.RWMutex{},
		impl: tree,
	}
}

// NewSyncAVLTree wraps tree by a reader-writer lock.
func NewSyncAVLTree[T any](tree AVLTree[T]) AVLTree[T] {
	if tree == nil {
		return nil
	}
	if st, ok := tree.(*syncAVLTree[T]); ok {
		return st
	}
	return &syncAVLTree[T]{
		syncTree: &syncTree[T]{
			rwmu: &sync.RWMutex{},
			impl: tree,
		},
		avl: tree,
	}
}
