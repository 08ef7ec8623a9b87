package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
)

// References:
// https://en.wikipedia.org/wiki/AVL_tree
// https://github.com/torvalds/linux/blob/master/lib/rbtree.c (rotation links)
//
// avl properties:
// p1. For every node N, |height(N.right) - height(N.left)| <= 1.
// p2. height(nil) = 0, height(leaf) = 1.
// (Conclusion) The height of a tree with n nodes is less than 1.44 * log2(n + 2).

var _ AVLTree[int] = (*avlTree[int])(nil)

type avlTree[T any] struct {
	*bsTree[T]
}

// NewAVLTree creates an avl tree ordered by cmp.
func NewAVLTree[T any](cmp infra.Comparator[T], opts ...TreeOption[T]) (AVLTree[T], error) {
	o, err := applyTreeOptions(cmp, opts...)
	if err != nil {
		return nil, err
	}
	return &avlTree[T]{
		bsTree: newBSTree[T]("avl", o),
	}, nil
}

// NewOrderedAVLTree creates an avl tree with the natural ordering of K.
func NewOrderedAVLTree[K infra.OrderedKey](opts ...TreeOption[K]) (AVLTree[K], error) {
	return NewAVLTree[K](infra.OrderedComparator[K](), opts...)
}

func (t *avlTree[T]) BalanceFactor(item T) (int, bool) {
	x := t.search(item)
	if x == nil {
		return 0, false
	}
	return int(x.balance()), true
}

/*
	 |                         |
	 X                         S
	/ \     rotateLeft(X)     / \
   L   S    ============>    X   Sd
	  / \                   / \
	Sc   Sd                L   Sc
*/
func (t *avlTree[T]) rotateLeft(x *node[T]) *node[T] {
	y := x.right
	if y == nil {
		return x
	}

	p := x.parent
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		t.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avl] unknown node direction to left-rotate")
	}
	y.parent = p

	x.refreshHeight()
	y.refreshHeight()
	t.stats.RecordRotation(Left)
	if t.logger != nil {
		t.logger.Debug("rotate left", zap.Any("node", x.value), zap.Any("pivot", y.value))
	}
	return y
}

/*
		 |                         |
		 X                         S
		/ \     rotateRight(X)    / \
	   S   R    ============>   Sd   X
	  / \                           / \
	Sd   Sc                       Sc   R
*/
func (t *avlTree[T]) rotateRight(x *node[T]) *node[T] {
	y := x.left
	if y == nil {
		return x
	}

	p := x.parent
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		t.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[avl] unknown node direction to right-rotate")
	}
	y.parent = p

	x.refreshHeight()
	y.refreshHeight()
	t.stats.RecordRotation(Right)
	if t.logger != nil {
		t.logger.Debug("rotate right", zap.Any("node", x.value), zap.Any("pivot", y.value))
	}
	return y
}

/*
b1: balance is +2 and the right child S is right heavy or even.

	  X                    S
	   \    rotateLeft    / \
	    S   =========>   X   Sd
	     \
	      Sd

b2: balance is +2 and S is left heavy (right-left).

	  X                   X                    Sc
	   \   rotateRight     \    rotateLeft    /  \
	    S  ==========>      Sc  =========>   X    S
	   /                      \
	 Sc                        S

b3: balance is -2 and the left child S is right heavy (left-right),
mirror of b2.

b4: balance is -2 and S is left heavy or even, mirror of b1.

Returns the new root of the rebalanced subtree.
*/
func (t *avlTree[T]) balanceAt(x *node[T], balance int32) *node[T] {
	switch balance {
	case 2:
		if /* b2 */ x.right.balance() < 0 {
			t.rotateRight(x.right)
		}
		return t.rotateLeft(x) // b1
	case -2:
		if /* b3 */ x.left.balance() > 0 {
			t.rotateLeft(x.left)
		}
		return t.rotateRight(x) // b4
	default:
	}
	return x
}

// Every ancestor is checked, the walk never stops before the root.
func (t *avlTree[T]) insertRebalance(x *node[T]) {
	for x != nil {
		x.refreshHeight()
		if b := x.balance(); b == 2 || b == -2 {
			x = t.balanceAt(x, b)
		}
		x = x.parent
	}
}

// The walk stops once a node keeps its height with |balance| == 1,
// the ancestors above it are unaffected.
func (t *avlTree[T]) removeRebalance(u unlinked[T]) {
	for x := u.start; x != nil; x = x.parent {
		prevHeight := x.height
		if x == u.anchor {
			// The anchor replaced the removed node, compare to it.
			prevHeight, u.anchor = u.height, nil
		}
		x.refreshHeight()
		b := x.balance()
		if b == 2 || b == -2 {
			x = t.balanceAt(x, b)
			continue
		}
		if (b == 1 || b == -1) && prevHeight == x.height && u.anchor == nil {
			return
		}
	}
}

func (t *avlTree[T]) Insert(item T) bool {
	z, ok := t.place(item)
	if !ok {
		return false
	}
	t.insertRebalance(z.parent)
	t.stats.RecordInsert(t.count, t.Height())
	return true
}

// InsertRange rebalances after every single insertion, so the avl
// property holds at any point of the batch.
func (t *avlTree[T]) InsertRange(items ...T) bool {
	inserted := 0
	for _, item := range items {
		if t.Insert(item) {
			inserted++
		}
	}
	if t.logger != nil && len(items) > 0 {
		t.logger.Debug("insert range",
			zap.Int("items", len(items)),
			zap.Int("inserted", inserted),
			zap.Int("height", t.Height()),
		)
	}
	return inserted > 0
}

func (t *avlTree[T]) Remove(item T) bool {
	z := t.search(item)
	if z == nil {
		return false
	}
	u := t.unlink(z)
	t.removeRebalance(u)
	t.stats.RecordRemove(u.kind, t.count, t.Height())
	return true
}
