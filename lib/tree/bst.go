package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

type removalCase uint8

const (
	removeLeaf removalCase = iota
	removeLeftOnly
	removeRightOnly
	removeRightAdopt
	removePredecessor
)

func (c removalCase) String() string {
	switch c {
	case removeLeaf:
		return "leaf"
	case removeLeftOnly:
		return "left-only"
	case removeRightOnly:
		return "right-only"
	case removeRightAdopt:
		return "right-adopt"
	case removePredecessor:
		return "predecessor"
	default:
	}
	return "unknown"
}

// unlinked describes where the structure changed after a removal.
type unlinked[T any] struct {
	// start is the deepest node whose subtree changed, nil if the tree
	// became empty or the removed root had no parent to retrace.
	start *node[T]
	// anchor is the replacement node when it lies on the path from start
	// to the root. Its cached height is stale until the retrace passes it.
	anchor *node[T]
	// height of the removed node's subtree before unlinking.
	height int32
	kind   removalCase
}

var _ BSTree[int] = (*bsTree[int])(nil)

// bsTree is the unbalanced base. The avl tree reuses the placement
// and unlinking and replaces the retrace.
type bsTree[T any] struct {
	root     *node[T]
	cmp      infra.Comparator[T]
	count    int64
	order    TraversalOrder
	nullable bool
	logger   xlog.XLogger
	stats    *treeStats
}

func newBSTree[T any](kind string, o *treeOptions[T]) *bsTree[T] {
	t := &bsTree[T]{
		cmp:      o.cmp,
		order:    o.order,
		nullable: infra.IsNullable[T](),
	}
	if o.logger != nil {
		t.logger = o.logger.Named(kind)
	}
	if len(o.statsName) > 0 {
		t.stats = newTreeStats(kind, o.statsName)
	}
	return t
}

// NewBSTree creates an unbalanced binary search tree ordered by cmp.
func NewBSTree[T any](cmp infra.Comparator[T], opts ...TreeOption[T]) (BSTree[T], error) {
	o, err := applyTreeOptions(cmp, opts...)
	if err != nil {
		return nil, err
	}
	return newBSTree[T]("bst", o), nil
}

// NewOrderedBSTree creates an unbalanced binary search tree with the
// natural ordering of K.
func NewOrderedBSTree[K infra.OrderedKey](opts ...TreeOption[K]) (BSTree[K], error) {
	return NewBSTree[K](infra.OrderedComparator[K](), opts...)
}

func (t *bsTree[T]) Len() int64 {
	return t.count
}

func (t *bsTree[T]) Height() int {
	return int(heightOf(t.root))
}

func (t *bsTree[T]) HeightOf(item T) int {
	return int(heightOf(t.search(item)))
}

func (t *bsTree[T]) Root() (val T, ok bool) {
	if t.root == nil {
		return val, false
	}
	return t.root.value, true
}

func (t *bsTree[T]) Min() (val T, ok bool) {
	if t.root == nil {
		return val, false
	}
	return t.root.minimum().value, true
}

func (t *bsTree[T]) Max() (val T, ok bool) {
	if t.root == nil {
		return val, false
	}
	return t.root.maximum().value, true
}

// place links a new leaf for item. A tie goes to the left.
func (t *bsTree[T]) place(item T) (*node[T], bool) {
	if t.nullable && infra.IsNil(item) {
		return nil, false
	}
	if t.root == nil {
		t.root = newNode[T](item, nil)
		t.count++
		return t.root, true
	}

	x := t.root
	for {
		if /* tie or less */ t.cmp(x.value, item) >= 0 {
			if x.left == nil {
				x.left = newNode[T](item, x)
				t.count++
				return x.left, true
			}
			x = x.left
		} else /* greater */ {
			if x.right == nil {
				x.right = newNode[T](item, x)
				t.count++
				return x.right, true
			}
			x = x.right
		}
	}
}

func (t *bsTree[T]) search(item T) *node[T] {
	for aux := t.root; aux != nil; {
		res := t.cmp(aux.value, item)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (t *bsTree[T]) replaceChild(parent, old, replacement *node[T]) {
	switch {
	case parent == nil:
		t.root = replacement
	case parent.left == old:
		parent.left = replacement
	case parent.right == old:
		parent.right = replacement
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] replace a node which is not a child of its parent")
	}
	if replacement != nil {
		replacement.parent = parent
	}
}

/*
u1: Z has no children, detach it.

u2: Z has only the left child L, L replaces Z.

u3: Z has only the right child R, R replaces Z.

u4: Z has both children and R has no left child.
R adopts L and replaces Z.

	    |                  |
	    Z                  R
	   / \     ======>    / \
	  L   R              L   Rr
	       \
	        Rr

u5: Otherwise, the in-order predecessor X (rightmost of L) is
detached, its left subtree Xl takes its place. X adopts L and R
and replaces Z.

	    |                   |
	    Z                   X
	   / \     ======>     / \
	  L   R               L   R
	   \                   \
	    P                   P
	     \                   \
	      X                   Xl
	     /
	   Xl
*/
func (t *bsTree[T]) unlink(z *node[T]) unlinked[T] {
	res := unlinked[T]{
		height: z.height,
	}
	p := z.parent
	var replacement *node[T]
	switch {
	case /* u1 */ z.isLeaf():
		res.kind, res.start = removeLeaf, p
	case /* u2 */ z.right == nil:
		replacement = z.left
		res.kind, res.start = removeLeftOnly, p
	case /* u3 */ z.left == nil:
		replacement = z.right
		res.kind, res.start = removeRightOnly, p
	case /* u4 */ z.right.left == nil:
		replacement = z.right
		replacement.left = z.left
		replacement.fixLink()
		res.kind, res.start, res.anchor = removeRightAdopt, replacement, replacement
	default /* u5 */ :
		replacement = z.left.maximum()
		if pp := replacement.parent; pp != z {
			pp.right = replacement.left
			pp.fixLink()
			replacement.left = z.left
			res.start = pp
		} else {
			res.start = replacement
		}
		replacement.right = z.right
		replacement.fixLink()
		res.kind, res.anchor = removePredecessor, replacement
	}
	t.replaceChild(p, z, replacement)
	t.count--

	if t.logger != nil {
		t.logger.Debug("unlink",
			zap.Any("value", z.value),
			zap.Stringer("case", res.kind),
		)
	}
	z.release()
	return res
}

// retrace refreshes the cached heights from x up to the root.
func (t *bsTree[T]) retrace(x *node[T]) {
	for ; x != nil; x = x.parent {
		x.refreshHeight()
	}
}

func (t *bsTree[T]) Insert(item T) bool {
	z, ok := t.place(item)
	if !ok {
		return false
	}
	t.retrace(z.parent)
	t.stats.RecordInsert(t.count, t.Height())
	return true
}

func (t *bsTree[T]) InsertRange(items ...T) bool {
	inserted := false
	for _, item := range items {
		if t.Insert(item) {
			inserted = true
		}
	}
	return inserted
}

func (t *bsTree[T]) Remove(item T) bool {
	z := t.search(item)
	if z == nil {
		return false
	}
	u := t.unlink(z)
	t.retrace(u.start)
	t.stats.RecordRemove(u.kind, t.count, t.Height())
	return true
}

func (t *bsTree[T]) Find(item T) (val T, ok bool) {
	if x := t.search(item); x != nil {
		return x.value, true
	}
	return val, false
}

func (t *bsTree[T]) Contains(item T) bool {
	return t.search(item) != nil
}

func (t *bsTree[T]) Clear() {
	aux := t.root
	t.root = nil
	t.count = 0
	t.stats.RecordClear()
	if aux == nil {
		return
	}

	stack := make([]*node[T], 0, heightOf(aux))
	defer func() {
		clear(stack)
	}()
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		r := aux.right
		aux.release()
		for ; r != nil; r = r.left {
			stack = append(stack, r)
		}
	}
}

func (t *bsTree[T]) CopyTo(dst []T, start int) int {
	if start < 0 || start >= len(dst) {
		return 0
	}
	enum := t.Enumerator()
	defer enum.Close()

	n := 0
	for i := start; i < len(dst) && enum.Next(); i++ {
		dst[i] = enum.Value()
		n++
	}
	return n
}

func (t *bsTree[T]) TraversalOrder() TraversalOrder {
	return t.order
}

func (t *bsTree[T]) SetTraversalOrder(order TraversalOrder) error {
	if order >= _orderMax {
		return ErrTreeUnknownTraversalOrder
	}
	t.order = order
	return nil
}

func (t *bsTree[T]) visitRoot(fn func(root *node[T], cmp infra.Comparator[T], count int64) error) error {
	return fn(t.root, t.cmp, t.count)
}
