package avl

// InOrder returns every node in ascending order. The slice is a snapshot;
// later mutations do not show through it.
func (t *Tree[K, V]) InOrder() []*Node[K, V] {
	if t.root == nil {
		return nil
	}

	out := make([]*Node[K, V], 0, t.size)

	return appendAll(out, t.root)
}

// Ascend calls fn for each node in ascending order until fn returns false.
func (t *Tree[K, V]) Ascend(fn func(*Node[K, V]) bool) {
	ascend(t.root, fn)
}

// Descend calls fn for each node in descending order until fn returns false.
func (t *Tree[K, V]) Descend(fn func(*Node[K, V]) bool) {
	descend(t.root, fn)
}

// GreaterThan returns the nodes with key > x in ascending order. Subtrees
// whose keys are all <= x are skipped without being visited.
func (t *Tree[K, V]) GreaterThan(x K) []*Node[K, V] {
	return t.above(t.root, x, false, nil)
}

// GreaterOrEqual returns the nodes with key >= x in ascending order.
func (t *Tree[K, V]) GreaterOrEqual(x K) []*Node[K, V] {
	return t.above(t.root, x, true, nil)
}

// LessThan returns the nodes with key < x in ascending order. Subtrees whose
// keys are all >= x are skipped without being visited.
func (t *Tree[K, V]) LessThan(x K) []*Node[K, V] {
	return t.below(t.root, x, false, nil)
}

// LessOrEqual returns the nodes with key <= x in ascending order.
func (t *Tree[K, V]) LessOrEqual(x K) []*Node[K, V] {
	return t.below(t.root, x, true, nil)
}

// above appends, in order, the nodes under n with key > x (>= when inclusive).
func (t *Tree[K, V]) above(n *Node[K, V], x K, inclusive bool, out []*Node[K, V]) []*Node[K, V] {
	if n == nil {
		return out
	}

	c := t.keyCmp(n.key, x)
	if c < 0 || (c == 0 && !inclusive) {
		// Everything on the left is <= n.key, so only the right can qualify.
		// Equal keys may still sit on the right.
		return t.above(n.right, x, inclusive, out)
	}

	out = t.above(n.left, x, inclusive, out)
	out = append(out, n)

	return appendAll(out, n.right)
}

// below appends, in order, the nodes under n with key < x (<= when inclusive).
func (t *Tree[K, V]) below(n *Node[K, V], x K, inclusive bool, out []*Node[K, V]) []*Node[K, V] {
	if n == nil {
		return out
	}

	c := t.keyCmp(n.key, x)
	if c > 0 || (c == 0 && !inclusive) {
		return t.below(n.left, x, inclusive, out)
	}

	out = appendAll(out, n.left)
	out = append(out, n)

	return t.below(n.right, x, inclusive, out)
}

// appendAll appends the whole subtree at n in order.
func appendAll[K, V any](out []*Node[K, V], n *Node[K, V]) []*Node[K, V] {
	if n == nil {
		return out
	}

	out = appendAll(out, n.left)
	out = append(out, n)

	return appendAll(out, n.right)
}

// ascend visits n in order until fn returns false.
func ascend[K, V any](n *Node[K, V], fn func(*Node[K, V]) bool) bool {
	if n == nil {
		return true
	}

	return ascend(n.left, fn) && fn(n) && ascend(n.right, fn)
}

// descend visits n in reverse order until fn returns false.
func descend[K, V any](n *Node[K, V], fn func(*Node[K, V]) bool) bool {
	if n == nil {
		return true
	}

	return descend(n.right, fn) && fn(n) && descend(n.left, fn)
}
