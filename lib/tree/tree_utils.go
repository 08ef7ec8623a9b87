package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

// Tree rule validation utilities. They walk the whole tree and
// are meant for tests and diagnostics.

func visit[T any](tree BSTree[T], fn func(root *node[T], cmp infra.Comparator[T], count int64) error) error {
	if tree == nil {
		return nil
	}
	v, ok := tree.(nodeVisitor[T])
	if !ok {
		return ErrTreeUnsupported
	}
	return v.visitRoot(fn)
}

// BSTViolationValidate checks that the inorder sequence never decreases.
// Rotations may lift a value above an equal one from its left, so only
// left <= node <= right holds for ties.
func BSTViolationValidate[T any](tree BSTree[T]) error {
	return visit[T](tree, func(root *node[T], cmp infra.Comparator[T], _ int64) error {
		var prev *node[T]
		var err error
		inOrder(root, func(x *node[T]) bool {
			if prev != nil && cmp(prev.value, x.value) > 0 {
				err = fmt.Errorf("%w: %v is placed before %v", ErrTreeBSTViolation, prev.value, x.value)
				return false
			}
			prev = x
			return true
		})
		return err
	})
}

// ParentViolationValidate checks that every child links back to its parent.
func ParentViolationValidate[T any](tree BSTree[T]) error {
	return visit[T](tree, func(root *node[T], _ infra.Comparator[T], _ int64) error {
		if root == nil {
			return nil
		}
		if root.parent != nil {
			return fmt.Errorf("%w: root %v has a parent", ErrTreeParentViolation, root.value)
		}
		var merr error
		preOrder(root, func(x *node[T]) {
			if x.left != nil && x.left.parent != x {
				merr = multierr.Append(merr, fmt.Errorf("%w: left child of %v", ErrTreeParentViolation, x.value))
			}
			if x.right != nil && x.right.parent != x {
				merr = multierr.Append(merr, fmt.Errorf("%w: right child of %v", ErrTreeParentViolation, x.value))
			}
		})
		return merr
	})
}

// recomputeHeights returns the heights by a full post order walk,
// the cached heights are not trusted.
func recomputeHeights[T any](root *node[T]) map[*node[T]]int32 {
	heights := make(map[*node[T]]int32, 64)
	postOrder(root, func(x *node[T]) {
		heights[x] = max(heights[x.left], heights[x.right]) + 1
	})
	return heights
}

// HeightViolationValidate compares the cached heights to recomputed ones.
func HeightViolationValidate[T any](tree BSTree[T]) error {
	return visit[T](tree, func(root *node[T], _ infra.Comparator[T], _ int64) error {
		var merr error
		for x, h := range recomputeHeights(root) {
			if x.height != h {
				merr = multierr.Append(merr,
					fmt.Errorf("%w: %v caches %d but is %d", ErrTreeHeightViolation, x.value, x.height, h),
				)
			}
		}
		return merr
	})
}

// AVLViolationValidate checks |height(right) - height(left)| <= 1 for
// every node by recomputed heights.
func AVLViolationValidate[T any](tree BSTree[T]) error {
	return visit[T](tree, func(root *node[T], _ infra.Comparator[T], _ int64) error {
		heights := recomputeHeights(root)
		var err error
		inOrder(root, func(x *node[T]) bool {
			if b := heights[x.right] - heights[x.left]; b > 1 || b < -1 {
				err = fmt.Errorf("%w: %v has balance %d", ErrTreeAVLViolation, x.value, b)
				return false
			}
			return true
		})
		return err
	})
}

// LenViolationValidate checks the cached length against the node count.
func LenViolationValidate[T any](tree BSTree[T]) error {
	return visit[T](tree, func(root *node[T], _ infra.Comparator[T], count int64) error {
		n := int64(0)
		inOrder(root, func(*node[T]) bool {
			n++
			return true
		})
		if n != count {
			return fmt.Errorf("%w: cached %d but counted %d", ErrTreeLenViolation, count, n)
		}
		return nil
	})
}

// Validate runs every validation for the tree kind and combines the violations.
func Validate[T any](tree BSTree[T]) error {
	merr := multierr.Combine(
		BSTViolationValidate[T](tree),
		ParentViolationValidate[T](tree),
		HeightViolationValidate[T](tree),
		LenViolationValidate[T](tree),
	)
	if _, ok := tree.(AVLTree[T]); ok {
		merr = multierr.Append(merr, AVLViolationValidate[T](tree))
	}
	return merr
}
