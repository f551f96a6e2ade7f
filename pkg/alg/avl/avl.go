// Package avl provides a generic height-balanced binary search tree.
//
// Keys are ordered by a caller-supplied comparator. Duplicate keys are
// allowed and ordered among themselves by an optional value comparator, so
// the tree behaves as an ordered multiset of (key, value) pairs. An optional
// augmentation hook lets callers maintain per-node summaries that are
// recomputed whenever the subtree below a node changes, including rotations.
package avl

import "cmp"

// Cmp compares two values and returns a negative number when a < b, zero when
// a == b and a positive number when a > b.
type Cmp[T any] func(a, b T) int

// Tree is an AVL tree of (key, value) pairs.
// The zero value is not usable; construct trees with New or NewOrdered.
type Tree[K, V any] struct {
	root     *Node[K, V]
	keyCmp   Cmp[K]
	valueCmp Cmp[V]
	augment  func(*Node[K, V])
	size     int
}

// Node is a single tree node. Nodes returned by queries stay owned by the
// tree and must not be retained across mutations.
type Node[K, V any] struct {
	key         K
	value       V
	left, right *Node[K, V]

	// height counts nodes (not edges); a leaf has height 1.
	height int
}

// Key returns the node key.
func (n *Node[K, V]) Key() K { return n.key }

// Value returns the node payload.
func (n *Node[K, V]) Value() V { return n.value }

// Left returns the left child or nil.
func (n *Node[K, V]) Left() *Node[K, V] { return n.left }

// Right returns the right child or nil.
func (n *Node[K, V]) Right() *Node[K, V] { return n.right }

// Height returns the height of the subtree rooted at n; zero for nil.
func (n *Node[K, V]) Height() int {
	if n == nil {
		return 0
	}

	return n.height
}

// New creates an empty tree ordered by keyCmp. valueCmp breaks ties between
// equal keys and may be nil, in which case equal keys keep insertion order.
func New[K, V any](keyCmp Cmp[K], valueCmp Cmp[V]) *Tree[K, V] {
	return &Tree[K, V]{keyCmp: keyCmp, valueCmp: valueCmp}
}

// NewOrdered creates an empty tree over a naturally ordered key type
// without a value tie-break.
func NewOrdered[K cmp.Ordered, V any]() *Tree[K, V] {
	return New[K, V](cmp.Compare[K], nil)
}

// WithAugment installs fn as the augmentation hook and returns the tree.
// fn is called on a node after its children and height are final, children
// before parents, for every node whose subtree changed. It must only read
// the node's own value and its children.
func (t *Tree[K, V]) WithAugment(fn func(*Node[K, V])) *Tree[K, V] {
	t.augment = fn

	return t
}

// Len returns the number of nodes in the tree.
func (t *Tree[K, V]) Len() int {
	return t.size
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.size == 0
}

// Height returns the height of the tree; zero when empty.
func (t *Tree[K, V]) Height() int {
	return t.root.Height()
}

// Root returns the root node or nil when the tree is empty.
func (t *Tree[K, V]) Root() *Node[K, V] {
	return t.root
}

// Clear removes all nodes.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

// Insert adds a (key, value) pair. Equal keys descend by the value
// comparator: smaller values go left, everything else goes right.
func (t *Tree[K, V]) Insert(key K, value V) {
	t.root = t.insert(t.root, key, value)
	t.size++
}

// Delete removes one node whose key equals key: the first one met on the
// search path from the root. It reports whether a node was removed.
func (t *Tree[K, V]) Delete(key K) bool {
	var removed bool

	t.root, removed = t.remove(t.root, key, nil)
	if removed {
		t.size--
	}

	return removed
}

// DeleteValue removes one node matching both key and value under the value
// comparator. Without a value comparator it behaves like Delete.
func (t *Tree[K, V]) DeleteValue(key K, value V) bool {
	if t.valueCmp == nil {
		return t.Delete(key)
	}

	var removed bool

	t.root, removed = t.remove(t.root, key, &value)
	if removed {
		t.size--
	}

	return removed
}

// Search returns the first node with an equal key on the search path, or nil.
func (t *Tree[K, V]) Search(key K) *Node[K, V] {
	n := t.root

	for n != nil {
		c := t.keyCmp(key, n.key)

		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n
		}
	}

	return nil
}

// Refresh recomputes height and augmentation for every node on the search
// path to key, bottom-up. Call it after mutating a node value in place in a
// way that affects the augmentation.
func (t *Tree[K, V]) Refresh(key K) {
	t.refresh(t.root, key)
}

// MinKey returns the smallest key, or false when the tree is empty.
func (t *Tree[K, V]) MinKey() (K, bool) {
	if t.root == nil {
		var zero K

		return zero, false
	}

	return leftmost(t.root).key, true
}

// MaxKey returns the largest key, or false when the tree is empty.
func (t *Tree[K, V]) MaxKey() (K, bool) {
	if t.root == nil {
		var zero K

		return zero, false
	}

	n := t.root
	for n.right != nil {
		n = n.right
	}

	return n.key, true
}

// compare orders key, then value when given, against n.
func (t *Tree[K, V]) compare(key K, value *V, n *Node[K, V]) int {
	c := t.keyCmp(key, n.key)
	if c != 0 || value == nil || t.valueCmp == nil {
		return c
	}

	return t.valueCmp(*value, n.value)
}

// insert adds key under n and returns the new subtree root.
func (t *Tree[K, V]) insert(n *Node[K, V], key K, value V) *Node[K, V] {
	if n == nil {
		leaf := &Node[K, V]{key: key, value: value, height: 1}
		t.fix(leaf)

		return leaf
	}

	if t.compare(key, &value, n) < 0 {
		n.left = t.insert(n.left, key, value)
	} else {
		n.right = t.insert(n.right, key, value)
	}

	return t.rebalance(n)
}

// remove deletes the node matching key (and *value when non-nil) from the
// subtree at n and returns the new subtree root.
func (t *Tree[K, V]) remove(n *Node[K, V], key K, value *V) (*Node[K, V], bool) {
	if n == nil {
		return nil, false
	}

	var removed bool

	c := t.compare(key, value, n)

	switch {
	case c < 0:
		n.left, removed = t.remove(n.left, key, value)
	case c > 0:
		n.right, removed = t.remove(n.right, key, value)
	default:
		return t.unlink(n), true
	}

	if !removed {
		return n, false
	}

	return t.rebalance(n), true
}

// unlink removes n itself and returns the subtree that replaces it.
func (t *Tree[K, V]) unlink(n *Node[K, V]) *Node[K, V] {
	switch {
	case n.left == nil:
		return n.right
	case n.right == nil:
		return n.left
	}

	// Two children: splice in the in-order successor.
	succ := leftmost(n.right)
	n.key, n.value = succ.key, succ.value
	n.right = t.removeMin(n.right)

	return t.rebalance(n)
}

// removeMin detaches the leftmost node of n.
func (t *Tree[K, V]) removeMin(n *Node[K, V]) *Node[K, V] {
	if n.left == nil {
		return n.right
	}

	n.left = t.removeMin(n.left)

	return t.rebalance(n)
}

// refresh re-augments the nodes on the search path to key, bottom up.
func (t *Tree[K, V]) refresh(n *Node[K, V], key K) {
	if n == nil {
		return
	}

	c := t.keyCmp(key, n.key)

	switch {
	case c < 0:
		t.refresh(n.left, key)
	case c > 0:
		t.refresh(n.right, key)
	}

	t.fix(n)
}

// fix recomputes the height of n and runs the augmentation hook.
func (t *Tree[K, V]) fix(n *Node[K, V]) {
	n.height = 1 + max(n.left.Height(), n.right.Height())

	if t.augment != nil {
		t.augment(n)
	}
}

// rebalance restores the AVL invariant at n and returns the subtree root.
func (t *Tree[K, V]) rebalance(n *Node[K, V]) *Node[K, V] {
	t.fix(n)

	switch balance := n.left.Height() - n.right.Height(); {
	case balance > 1:
		if n.left.right.Height() > n.left.left.Height() {
			n.left = t.rotateLeft(n.left)
		}

		return t.rotateRight(n)
	case balance < -1:
		if n.right.left.Height() > n.right.right.Height() {
			n.right = t.rotateRight(n.right)
		}

		return t.rotateLeft(n)
	}

	return n
}

// rotateLeft lifts the right child of n.
func (t *Tree[K, V]) rotateLeft(n *Node[K, V]) *Node[K, V] {
	pivot := n.right
	n.right = pivot.left
	pivot.left = n

	t.fix(n)
	t.fix(pivot)

	return pivot
}

// rotateRight lifts the left child of n.
func (t *Tree[K, V]) rotateRight(n *Node[K, V]) *Node[K, V] {
	pivot := n.left
	n.left = pivot.right
	pivot.right = n

	t.fix(n)
	t.fix(pivot)

	return pivot
}

// leftmost returns the minimum node under n.
func leftmost[K, V any](n *Node[K, V]) *Node[K, V] {
	for n.left != nil {
		n = n.left
	}

	return n
}
