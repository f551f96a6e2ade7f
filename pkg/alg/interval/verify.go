package interval

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/avl"
)

// Invariant violations reported by Verify.
var (
	ErrAugmentMismatch = errors.New("interval: maxEnd does not match subtree")
	ErrCountMismatch   = errors.New("interval: entry count does not match contents")
	ErrEmptyBucket     = errors.New("interval: low endpoint without intervals")
)

// Verify checks both tree levels for AVL balance and ordering, compares
// every maxEnd with an independent recomputation and checks that Len equals
// the number of stored intervals. It walks the whole index.
func (ix *Index[K, V]) Verify() error {
	err := ix.low.Verify()
	if err != nil {
		return fmt.Errorf("low tree: %w", err)
	}

	var total int

	if root := ix.low.Root(); root != nil {
		total, _, err = verifyNode(root)
		if err != nil {
			return err
		}
	}

	if total != ix.size {
		return fmt.Errorf("%w: stored %d, counted %d", ErrCountMismatch, ix.size, total)
	}

	return nil
}

// verifyNode returns the interval count and true maximum high endpoint of
// the subtree at n.
func verifyNode[K cmp.Ordered, V any](n *avl.Node[K, *bucket[K, V]]) (count int, maxEnd K, err error) {
	b := n.Value()

	if b.high.IsEmpty() {
		return 0, maxEnd, fmt.Errorf("%w: %v", ErrEmptyBucket, n.Key())
	}

	err = b.high.Verify()
	if err != nil {
		return 0, maxEnd, fmt.Errorf("high tree at %v: %w", n.Key(), err)
	}

	count = b.high.Len()
	maxEnd, _ = b.high.MaxKey()

	for _, child := range []*avl.Node[K, *bucket[K, V]]{n.Left(), n.Right()} {
		if child == nil {
			continue
		}

		c, m, childErr := verifyNode(child)
		if childErr != nil {
			return 0, maxEnd, childErr
		}

		count += c
		maxEnd = max(maxEnd, m)
	}

	if b.maxEnd != maxEnd {
		return 0, maxEnd, fmt.Errorf("%w: %v stored %v, actual %v", ErrAugmentMismatch, n.Key(), b.maxEnd, maxEnd)
	}

	return count, maxEnd, nil
}
