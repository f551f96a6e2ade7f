package avl

import (
	"errors"
	"fmt"
)

// Structural invariant violations reported by Verify.
var (
	ErrHeightMismatch = errors.New("avl: stored height does not match subtree")
	ErrUnbalanced     = errors.New("avl: balance factor out of range")
	ErrOutOfOrder     = errors.New("avl: in-order sequence not sorted")
	ErrSizeMismatch   = errors.New("avl: node count does not match size")
)

// maxBalance is the largest allowed height difference between siblings.
const maxBalance = 1

// Verify checks stored heights, the AVL balance invariant, in-order key
// ordering (values for equal keys when a value comparator is set) and the
// node count. It walks the whole tree.
func (t *Tree[K, V]) Verify() error {
	count, _, err := t.verify(t.root)
	if err != nil {
		return err
	}

	if count != t.size {
		return fmt.Errorf("%w: counted %d, size %d", ErrSizeMismatch, count, t.size)
	}

	var prev *Node[K, V]

	for _, n := range t.InOrder() {
		if prev != nil && t.outOfOrder(prev, n) {
			return fmt.Errorf("%w: %v before %v", ErrOutOfOrder, prev.key, n.key)
		}

		prev = n
	}

	return nil
}

// outOfOrder reports whether n sorts before its in-order predecessor prev.
func (t *Tree[K, V]) outOfOrder(prev, n *Node[K, V]) bool {
	c := t.keyCmp(prev.key, n.key)
	if c != 0 || t.valueCmp == nil {
		return c > 0
	}

	return t.valueCmp(prev.value, n.value) > 0
}

// verify returns the node count and recomputed height of the subtree at n.
func (t *Tree[K, V]) verify(n *Node[K, V]) (count, height int, err error) {
	if n == nil {
		return 0, 0, nil
	}

	lc, lh, err := t.verify(n.left)
	if err != nil {
		return 0, 0, err
	}

	rc, rh, err := t.verify(n.right)
	if err != nil {
		return 0, 0, err
	}

	height = 1 + max(lh, rh)
	if height != n.height {
		return 0, 0, fmt.Errorf("%w: key %v stored %d, actual %d", ErrHeightMismatch, n.key, n.height, height)
	}

	if diff := lh - rh; diff > maxBalance || diff < -maxBalance {
		return 0, 0, fmt.Errorf("%w: key %v balance %d", ErrUnbalanced, n.key, diff)
	}

	return lc + rc + 1, height, nil
}
