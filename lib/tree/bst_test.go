package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newIntBSTree(t *testing.T, vals ...int) *bsTree[int] {
	t.Helper()
	tree, err := NewOrderedBSTree[int]()
	require.NoError(t, err)
	bst := tree.(*bsTree[int])
	for _, v := range vals {
		require.True(t, bst.Insert(v))
	}
	require.NoError(t, Validate[int](bst))
	return bst
}

func requireParentOf[T any](t *testing.T, parent, child *node[T]) {
	t.Helper()
	require.NotNil(t, child)
	require.Same(t, parent, child.parent)
}

func TestBSTree_NilComparator(t *testing.T) {
	tree, err := NewBSTree[int](nil)
	require.ErrorIs(t, err, ErrTreeNilComparator)
	require.Nil(t, tree)

	_, err = NewOrderedBSTree[int](WithTreeComparator[int](nil))
	require.ErrorIs(t, err, ErrTreeNilComparator)

	_, err = NewOrderedBSTree[int](WithTreeTraversalOrder[int](_orderMax))
	require.ErrorIs(t, err, ErrTreeUnknownTraversalOrder)

	_, err = NewOrderedBSTree[int](WithTreeStats[int]("  "))
	require.ErrorIs(t, err, ErrTreeStatsName)
}

func TestBSTree_EmptyTree(t *testing.T) {
	bst := newIntBSTree(t)
	require.Equal(t, int64(0), bst.Len())
	require.Equal(t, 0, bst.Height())
	require.False(t, bst.Remove(1))
	require.False(t, bst.Contains(1))
	val, ok := bst.Find(1)
	require.False(t, ok)
	require.Equal(t, 0, val)
	_, ok = bst.Root()
	require.False(t, ok)
	_, ok = bst.Min()
	require.False(t, ok)
	_, ok = bst.Max()
	require.False(t, ok)
	require.Empty(t, bst.Values(InOrder))
}

func TestBSTree_InsertTieGoesLeft(t *testing.T) {
	bst := newIntBSTree(t, 50, 30, 70)
	require.True(t, bst.Insert(50))
	require.True(t, bst.Insert(70))
	require.Equal(t, int64(5), bst.Len())

	// The tie of the root is the rightmost node of the left subtree.
	require.Equal(t, 50, bst.root.left.right.value)
	requireParentOf(t, bst.root.left, bst.root.left.right)
	require.Equal(t, 70, bst.root.right.left.value)
	require.Equal(t, []int{30, 50, 50, 70, 70}, bst.Values(InOrder))
	require.Equal(t, 3, bst.Height())
	require.Equal(t, 2, bst.HeightOf(30))
	require.Equal(t, 0, bst.HeightOf(31))
}

func TestBSTree_InsertNil(t *testing.T) {
	tree, err := NewBSTree[*int](func(i, j *int) int64 {
		return int64(*i - *j)
	})
	require.NoError(t, err)
	require.False(t, tree.Insert(nil))
	require.Equal(t, int64(0), tree.Len())

	one, two := 1, 2
	require.True(t, tree.InsertRange(nil, &two, nil, &one))
	require.Equal(t, int64(2), tree.Len())
	require.False(t, tree.InsertRange(nil, nil))
	found, ok := tree.Find(&one)
	require.True(t, ok)
	require.Same(t, &one, found)
}

func TestBSTree_FindMinMax(t *testing.T) {
	bst := newIntBSTree(t, 50, 30, 70, 20, 40, 60, 80)
	for _, v := range []int{20, 30, 40, 50, 60, 70, 80} {
		val, ok := bst.Find(v)
		require.True(t, ok)
		require.Equal(t, v, val)
		require.True(t, bst.Contains(v))
	}
	_, ok := bst.Find(65)
	require.False(t, ok)

	minVal, ok := bst.Min()
	require.True(t, ok)
	require.Equal(t, 20, minVal)
	maxVal, ok := bst.Max()
	require.True(t, ok)
	require.Equal(t, 80, maxVal)
	rootVal, ok := bst.Root()
	require.True(t, ok)
	require.Equal(t, 50, rootVal)
}

func TestBSTree_RemoveCases(t *testing.T) {
	testcases := []struct {
		name     string
		inserts  []int
		remove   int
		inorder  []int
		preorder []int
		height   int
	}{
		{
			name:     "root leaf",
			inserts:  []int{50},
			remove:   50,
			inorder:  []int{},
			preorder: []int{},
			height:   0,
		},
		{
			name:     "leaf",
			inserts:  []int{50, 30, 70},
			remove:   70,
			inorder:  []int{30, 50},
			preorder: []int{50, 30},
			height:   2,
		},
		{
			name:     "left only",
			inserts:  []int{50, 30, 70, 20},
			remove:   30,
			inorder:  []int{20, 50, 70},
			preorder: []int{50, 20, 70},
			height:   2,
		},
		{
			name:     "root left only",
			inserts:  []int{50, 30, 20},
			remove:   50,
			inorder:  []int{20, 30},
			preorder: []int{30, 20},
			height:   2,
		},
		{
			name:     "right only",
			inserts:  []int{50, 30, 70, 80},
			remove:   70,
			inorder:  []int{30, 50, 80},
			preorder: []int{50, 30, 80},
			height:   2,
		},
		{
			name:     "root right adopts left",
			inserts:  []int{50, 30, 70, 80},
			remove:   50,
			inorder:  []int{30, 70, 80},
			preorder: []int{70, 30, 80},
			height:   2,
		},
		{
			name:     "right adopts left",
			inserts:  []int{50, 30, 70, 60, 80, 90},
			remove:   70,
			inorder:  []int{30, 50, 60, 80, 90},
			preorder: []int{50, 30, 80, 60, 90},
			height:   3,
		},
		{
			name:     "root predecessor",
			inserts:  []int{50, 30, 70, 20, 40, 60, 80, 65},
			remove:   50,
			inorder:  []int{20, 30, 40, 60, 65, 70, 80},
			preorder: []int{40, 30, 20, 70, 60, 65, 80},
			height:   4,
		},
		{
			name:     "predecessor with left child",
			inserts:  []int{50, 30, 70, 20, 40, 35, 60},
			remove:   50,
			inorder:  []int{20, 30, 35, 40, 60, 70},
			preorder: []int{40, 30, 20, 35, 70, 60},
			height:   3,
		},
		{
			name:     "predecessor is left child",
			inserts:  []int{50, 30, 70, 20, 60},
			remove:   50,
			inorder:  []int{20, 30, 60, 70},
			preorder: []int{30, 20, 70, 60},
			height:   3,
		},
		{
			name:     "non-root predecessor",
			inserts:  []int{10, 50, 30, 70, 20, 40, 60},
			remove:   50,
			inorder:  []int{10, 20, 30, 40, 60, 70},
			preorder: []int{10, 40, 30, 20, 70, 60},
			height:   4,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			bst := newIntBSTree(tt, tc.inserts...)
			require.True(tt, bst.Remove(tc.remove))
			require.NoError(tt, Validate[int](bst))
			require.Equal(tt, tc.inorder, bst.Values(InOrder))
			require.Equal(tt, tc.preorder, bst.Values(PreOrder))
			require.Equal(tt, tc.height, bst.Height())
			require.Equal(tt, int64(len(tc.inorder)), bst.Len())
			require.False(tt, bst.Contains(tc.remove))
			require.False(tt, bst.Remove(tc.remove))
		})
	}
}

func TestBSTree_UnlinkCaseKinds(t *testing.T) {
	testcases := []struct {
		inserts []int
		remove  int
		kind    removalCase
	}{
		{[]int{50, 30}, 30, removeLeaf},
		{[]int{50, 30, 20}, 30, removeLeftOnly},
		{[]int{50, 30, 40}, 30, removeRightOnly},
		{[]int{50, 30, 70, 80}, 50, removeRightAdopt},
		{[]int{50, 30, 70, 60}, 50, removePredecessor},
	}
	for _, tc := range testcases {
		t.Run(tc.kind.String(), func(tt *testing.T) {
			bst := newIntBSTree(tt, tc.inserts...)
			u := bst.unlink(bst.search(tc.remove))
			bst.retrace(u.start)
			require.Equal(tt, tc.kind, u.kind)
			require.NoError(tt, Validate[int](bst))
		})
	}
}

func TestBSTree_RemoveDuplicates(t *testing.T) {
	bst := newIntBSTree(t, 5, 3, 5, 8, 5)
	require.Equal(t, int64(5), bst.Len())
	require.Equal(t, []int{3, 5, 5, 5, 8}, bst.Values(InOrder))

	for i := 3; i > 0; i-- {
		require.True(t, bst.Remove(5))
		require.NoError(t, Validate[int](bst))
		require.Equal(t, i-1 > 0, bst.Contains(5))
	}
	require.False(t, bst.Remove(5))
	require.Equal(t, []int{3, 8}, bst.Values(InOrder))
}

func TestBSTree_Clear(t *testing.T) {
	bst := newIntBSTree(t, 50, 30, 70, 20, 40)
	bst.Clear()
	require.Equal(t, int64(0), bst.Len())
	require.Equal(t, 0, bst.Height())
	for _, v := range []int{50, 30, 70, 20, 40} {
		require.False(t, bst.Contains(v))
	}
	bst.Clear()
	require.Equal(t, int64(0), bst.Len())

	require.True(t, bst.Insert(1))
	require.Equal(t, []int{1}, bst.Values(InOrder))
}

func TestBSTree_CopyTo(t *testing.T) {
	bst := newIntBSTree(t, 3, 1, 4, 5, 2)

	dst := make([]int, 7)
	require.Equal(t, 5, bst.CopyTo(dst, 1))
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 0}, dst)

	short := make([]int, 3)
	require.Equal(t, 3, bst.CopyTo(short, 0))
	require.Equal(t, []int{1, 2, 3}, short)

	require.Equal(t, 1, bst.CopyTo(short, 2))
	require.Equal(t, []int{1, 2, 1}, short)

	require.Equal(t, 0, bst.CopyTo(short, 3))
	require.Equal(t, 0, bst.CopyTo(short, -1))
	require.Equal(t, 0, bst.CopyTo(nil, 0))

	require.NoError(t, bst.SetTraversalOrder(PreOrder))
	pre := make([]int, 5)
	require.Equal(t, 5, bst.CopyTo(pre, 0))
	require.Equal(t, bst.Values(PreOrder), pre)
}

func TestBSTree_Desc(t *testing.T) {
	tree, err := NewOrderedBSTree[string](WithTreeDesc[string]())
	require.NoError(t, err)
	tree.InsertRange("b", "d", "a", "c")
	require.Equal(t, []string{"d", "c", "b", "a"}, tree.Values(InOrder))
	minVal, _ := tree.Min()
	require.Equal(t, "d", minVal)
	require.NoError(t, Validate[string](tree))
}

func TestBSTree_HeightsAfterDegenerateInserts(t *testing.T) {
	vals := make([]int, 0, 64)
	for i := 0; i < 64; i++ {
		vals = append(vals, i)
	}
	bst := newIntBSTree(t, vals...)
	require.Equal(t, 64, bst.Height())
	require.Equal(t, 1, bst.HeightOf(63))
	for i := 0; i < 64; i += 2 {
		require.True(t, bst.Remove(i))
	}
	require.NoError(t, Validate[int](bst))
	require.Equal(t, 32, bst.Height())
}
