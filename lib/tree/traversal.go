package tree

import "sync"

var _ Enumerator[int] = (*snapshotEnumerator[int])(nil)

// snapshotEnumerator replays the values captured at creation.
type snapshotEnumerator[T any] struct {
	values  []T
	cursor  int
	closed  bool
	once    sync.Once
	onClose func()
}

func newSnapshotEnumerator[T any](values []T, onClose func()) *snapshotEnumerator[T] {
	return &snapshotEnumerator[T]{
		values:  values,
		onClose: onClose,
	}
}

// Next moves the cursor past the end once exhausted, so Value
// returns the zero value afterwards.
func (e *snapshotEnumerator[T]) Next() bool {
	if e.closed || e.cursor >= len(e.values) {
		e.cursor = len(e.values) + 1
		return false
	}
	e.cursor++
	return true
}

func (e *snapshotEnumerator[T]) Value() (val T) {
	if e.closed || e.cursor <= 0 || e.cursor > len(e.values) {
		return val
	}
	return e.values[e.cursor-1]
}

func (e *snapshotEnumerator[T]) Reset() {
	e.cursor = 0
}

func (e *snapshotEnumerator[T]) Close() {
	e.once.Do(func() {
		e.closed = true
		clear(e.values)
		e.values = nil
		if e.onClose != nil {
			e.onClose()
		}
	})
}

func (t *bsTree[T]) Enumerator() Enumerator[T] {
	return newSnapshotEnumerator[T](t.Values(t.order), nil)
}

func (t *bsTree[T]) InOrderEnumerator() Enumerator[T] {
	return newSnapshotEnumerator[T](t.Values(InOrder), nil)
}

func (t *bsTree[T]) PreOrderEnumerator() Enumerator[T] {
	return newSnapshotEnumerator[T](t.Values(PreOrder), nil)
}

func (t *bsTree[T]) PostOrderEnumerator() Enumerator[T] {
	return newSnapshotEnumerator[T](t.Values(PostOrder), nil)
}

// Values returns a copy of all values in the given order.
// An unknown order falls back to in-order.
func (t *bsTree[T]) Values(order TraversalOrder) []T {
	values := make([]T, 0, t.count)
	switch order {
	case PreOrder:
		preOrder(t.root, func(x *node[T]) { values = append(values, x.value) })
	case PostOrder:
		postOrder(t.root, func(x *node[T]) { values = append(values, x.value) })
	default:
		inOrder(t.root, func(x *node[T]) bool {
			values = append(values, x.value)
			return true
		})
	}
	return values
}

// Inorder traversal to implement the DFS.
func (t *bsTree[T]) Foreach(action func(idx int64, val T) bool) {
	if action == nil {
		return
	}
	idx := int64(0)
	inOrder(t.root, func(x *node[T]) bool {
		if !action(idx, x.value) {
			return false
		}
		idx++
		return true
	})
}

// left, self, right
func inOrder[T any](root *node[T], visit func(x *node[T]) bool) {
	if root == nil {
		return
	}
	stack := make([]*node[T], 0, root.height)
	defer func() {
		clear(stack)
	}()

	aux := root
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		if !visit(aux) {
			return
		}
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

// self, left, right
func preOrder[T any](root *node[T], visit func(x *node[T])) {
	if root == nil {
		return
	}
	stack := make([]*node[T], 0, root.height)
	defer func() {
		clear(stack)
	}()

	stack = append(stack, root)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		visit(aux)
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
}

// left, right, self
func postOrder[T any](root *node[T], visit func(x *node[T])) {
	if root == nil {
		return
	}
	stack := make([]*node[T], 0, root.height)
	defer func() {
		clear(stack)
	}()

	var prev *node[T]
	aux := root
	for aux != nil || len(stack) > 0 {
		for ; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != prev {
			aux = top.right
			continue
		}
		visit(top)
		prev = top
		stack = stack[:len(stack)-1]
	}
}
