package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](e Enumerator[T]) []T {
	values := make([]T, 0, 8)
	for e.Next() {
		values = append(values, e.Value())
	}
	return values
}

func TestTraversal_Orders(t *testing.T) {
	//      4
	//    /   \
	//   2     6
	//  / \   / \
	// 1   3 5   7
	avl := newIntAVLTree(t, 4, 2, 6, 1, 3, 5, 7)

	e := avl.InOrderEnumerator()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, collect(e))
	e.Close()

	e = avl.PreOrderEnumerator()
	assert.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, collect(e))
	e.Close()

	e = avl.PostOrderEnumerator()
	assert.Equal(t, []int{1, 3, 2, 5, 7, 6, 4}, collect(e))
	e.Close()

	require.Equal(t, InOrder, avl.TraversalOrder())
	e = avl.Enumerator()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, collect(e))
	e.Close()

	require.NoError(t, avl.SetTraversalOrder(PostOrder))
	require.Equal(t, PostOrder, avl.TraversalOrder())
	e = avl.Enumerator()
	assert.Equal(t, []int{1, 3, 2, 5, 7, 6, 4}, collect(e))
	e.Close()

	require.ErrorIs(t, avl.SetTraversalOrder(_orderMax), ErrTreeUnknownTraversalOrder)
	require.Equal(t, PostOrder, avl.TraversalOrder())
}

func TestTraversal_OrderString(t *testing.T) {
	assert.Equal(t, "InOrder", InOrder.String())
	assert.Equal(t, "PreOrder", PreOrder.String())
	assert.Equal(t, "PostOrder", PostOrder.String())
	assert.Equal(t, "Unknown", _orderMax.String())
}

func TestTraversal_DefaultOrderOption(t *testing.T) {
	tree, err := NewOrderedAVLTree[int](WithTreeTraversalOrder[int](PreOrder))
	require.NoError(t, err)
	tree.InsertRange(1, 2, 3)
	e := tree.Enumerator()
	defer e.Close()
	require.Equal(t, []int{2, 1, 3}, collect(e))
}

func TestTraversal_SnapshotIsStable(t *testing.T) {
	avl := newIntAVLTree(t, 1, 2, 3, 4, 5)
	e := avl.InOrderEnumerator()
	defer e.Close()

	require.True(t, e.Next())
	require.Equal(t, 1, e.Value())

	require.True(t, avl.Remove(3))
	require.True(t, avl.Insert(100))
	require.NoError(t, avl.SetTraversalOrder(PreOrder))

	require.Equal(t, []int{2, 3, 4, 5}, collect(e))
	require.False(t, e.Next())
	require.Equal(t, []int{1, 2, 4, 5, 100}, avl.Values(InOrder))
}

func TestTraversal_ResetAndClose(t *testing.T) {
	avl := newIntAVLTree(t, 3, 1, 2)
	e := avl.InOrderEnumerator()

	// Value before the first Next is the zero value.
	require.Equal(t, 0, e.Value())
	require.Equal(t, []int{1, 2, 3}, collect(e))
	require.Equal(t, 0, e.Value())

	e.Reset()
	require.Equal(t, []int{1, 2, 3}, collect(e))

	e.Reset()
	require.True(t, e.Next())
	e.Close()
	require.False(t, e.Next())
	require.Equal(t, 0, e.Value())
	e.Reset()
	require.False(t, e.Next())
	require.NotPanics(t, e.Close)
}

func TestTraversal_EmptyTree(t *testing.T) {
	avl := newIntAVLTree(t)
	for _, e := range []Enumerator[int]{
		avl.Enumerator(),
		avl.InOrderEnumerator(),
		avl.PreOrderEnumerator(),
		avl.PostOrderEnumerator(),
	} {
		require.False(t, e.Next())
		e.Close()
	}
	called := false
	avl.Foreach(func(int64, int) bool {
		called = true
		return true
	})
	require.False(t, called)
}

func TestTraversal_Foreach(t *testing.T) {
	avl := newIntAVLTree(t, 5, 3, 8, 1, 4)

	indices := make([]int64, 0, 5)
	values := make([]int, 0, 5)
	avl.Foreach(func(idx int64, val int) bool {
		indices = append(indices, idx)
		values = append(values, val)
		return true
	})
	require.Equal(t, []int64{0, 1, 2, 3, 4}, indices)
	require.Equal(t, []int{1, 3, 4, 5, 8}, values)

	values = values[:0]
	avl.Foreach(func(idx int64, val int) bool {
		values = append(values, val)
		return idx < 1
	})
	require.Equal(t, []int{1, 3}, values)

	require.NotPanics(t, func() { avl.Foreach(nil) })
}

func TestTraversal_DeepTree(t *testing.T) {
	vals := make([]int, 0, 2048)
	for i := 2047; i >= 0; i-- {
		vals = append(vals, i)
	}
	bst := newIntBSTree(t, vals...)
	require.Equal(t, 2048, bst.Height())

	in := bst.Values(InOrder)
	pre := bst.Values(PreOrder)
	post := bst.Values(PostOrder)
	require.Len(t, in, 2048)
	for i := 0; i < 2048; i++ {
		require.Equal(t, i, in[i])
		require.Equal(t, 2047-i, pre[i])
		require.Equal(t, i, post[i])
	}
}

func TestTraversal_ValueAfterExhaustion(t *testing.T) {
	avl := newIntAVLTree(t, 7)
	for _, e := range []Enumerator[int]{
		avl.InOrderEnumerator(),
		NewSyncAVLTree[int](avl).PreOrderEnumerator(),
	} {
		require.True(t, e.Next())
		require.Equal(t, 7, e.Value())
		require.False(t, e.Next())
		require.Equal(t, 0, e.Value())
		require.False(t, e.Next())
		require.Equal(t, 0, e.Value())

		e.Reset()
		require.True(t, e.Next())
		require.Equal(t, 7, e.Value())
		e.Close()
	}
}
