package tree

// node is shared by the plain and the avl tree. The height is the
// balance metadata, nil is 0 and a leaf is 1.
// parent is a back reference only, it never owns the node.
type node[T any] struct {
	parent *node[T]
	left   *node[T]
	right  *node[T]
	value  T
	height int32
}

func newNode[T any](val T, parent *node[T]) *node[T] {
	return &node[T]{
		parent: parent,
		value:  val,
		height: 1,
	}
}

func heightOf[T any](n *node[T]) int32 {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node[T]) isRoot() bool {
	return n != nil && n.parent == nil
}

func (n *node[T]) isLeaf() bool {
	return n != nil && n.left == nil && n.right == nil
}

func (n *node[T]) Direction() Direction {
	if n == nil {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] nil node without direction")
	}

	if n.isRoot() {
		return Root
	}
	if n == n.parent.left {
		return Left
	}
	return Right
}

func (n *node[T]) fixLink() {
	if n.left != nil {
		n.left.parent = n
	}
	if n.right != nil {
		n.right.parent = n
	}
}

// balance is height(right) - height(left).
func (n *node[T]) balance() int32 {
	if n == nil {
		return 0
	}
	return heightOf(n.right) - heightOf(n.left)
}

// refreshHeight recomputes the height from the children and
// reports whether it changed.
func (n *node[T]) refreshHeight() bool {
	h := max(heightOf(n.left), heightOf(n.right)) + 1
	if h == n.height {
		return false
	}
	n.height = h
	return true
}

func (n *node[T]) minimum() *node[T] {
	aux := n
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (n *node[T]) maximum() *node[T] {
	aux := n
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// release unlinks the node and drops its value.
func (n *node[T]) release() {
	var zero T
	n.parent, n.left, n.right = nil, nil, nil
	n.value = zero
	n.height = 0
}
