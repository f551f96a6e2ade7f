// Package interval provides a two-level augmented interval index.
//
// Closed intervals [low, high] carrying a payload are grouped by low
// endpoint. A low tree (AVL, keyed by low) holds one bucket per distinct low
// endpoint; each bucket owns a high tree (AVL, keyed by high) with every
// interval sharing that low endpoint. Low-tree nodes are augmented with
// maxEnd, the largest high endpoint in the node's bucket and both subtrees,
// which lets overlap and containment queries skip whole subtrees.
//
// An Index is not safe for concurrent use.
package interval

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/avl"
)

// Sentinel errors.
var (
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrNoEntries         = errors.New("no entries available for requested percentile")
	ErrInvalidPercentile = errors.New("percentile must be a finite non-negative number")
)

// Augmentation selects how maxEnd is maintained after a mutation.
type Augmentation int

const (
	// AugmentIncremental recomputes maxEnd only on the mutated search path
	// and on rotated nodes.
	AugmentIncremental Augmentation = iota
	// AugmentFull recomputes maxEnd with a post-order walk of the whole low
	// tree after every mutation.
	AugmentFull
)

// String returns the configuration name of the strategy.
func (a Augmentation) String() string {
	switch a {
	case AugmentIncremental:
		return "incremental"
	case AugmentFull:
		return "full"
	default:
		return fmt.Sprintf("augmentation(%d)", int(a))
	}
}

// Options tunes an Index.
type Options[V any] struct {
	// CompareValues orders payloads of intervals with identical endpoints.
	// When nil such intervals keep insertion order and DeleteValue falls
	// back to Delete.
	CompareValues avl.Cmp[V]

	// Augment selects the maxEnd maintenance strategy.
	Augment Augmentation

	// LegacyCounter makes Delete decrement Len whenever the low endpoint
	// exists, even if no interval with the given high endpoint was removed.
	LegacyCounter bool

	// RejectInverted makes Insert fail for low > high. Otherwise inverted
	// intervals are stored as given and every query applies its endpoint
	// comparison to them unchanged.
	RejectInverted bool
}

// Entry is a stored interval and its payload.
type Entry[K cmp.Ordered, V any] struct {
	Low   K
	High  K
	Value V
}

// String formats the entry as "[low, high] value".
func (e Entry[K, V]) String() string {
	return fmt.Sprintf("[%v, %v] %v", e.Low, e.High, e.Value)
}

// Index is the two-level interval index.
type Index[K cmp.Ordered, V any] struct {
	low  *avl.Tree[K, *bucket[K, V]]
	opts Options[V]
	size int
}

// bucket is the payload of a low-tree node.
type bucket[K cmp.Ordered, V any] struct {
	maxEnd K
	high   *avl.Tree[K, V]
}

// New creates an empty index with incremental augmentation.
func New[K cmp.Ordered, V any]() *Index[K, V] {
	return NewWithOptions[K](Options[V]{})
}

// NewWithOptions creates an empty index configured by opts.
func NewWithOptions[K cmp.Ordered, V any](opts Options[V]) *Index[K, V] {
	low := avl.NewOrdered[K, *bucket[K, V]]()
	if opts.Augment == AugmentIncremental {
		low.WithAugment(updateMaxEnd[K, V])
	}

	return &Index[K, V]{low: low, opts: opts}
}

// Len returns the number of stored intervals.
func (ix *Index[K, V]) Len() int {
	return ix.size
}

// LowCount returns the number of distinct low endpoints.
func (ix *Index[K, V]) LowCount() int {
	return ix.low.Len()
}

// IsEmpty reports whether the index holds no intervals.
func (ix *Index[K, V]) IsEmpty() bool {
	return ix.low.IsEmpty()
}

// CountAt returns the number of intervals whose low endpoint equals low.
func (ix *Index[K, V]) CountAt(low K) int {
	n := ix.low.Search(low)
	if n == nil {
		return 0
	}

	return n.Value().high.Len()
}

// Clear removes all intervals.
func (ix *Index[K, V]) Clear() {
	ix.low.Clear()
	ix.size = 0
}

// Insert stores [low, high] with value. It fails with ErrInvalidInterval
// when either endpoint is NaN, and for low > high when RejectInverted is set.
func (ix *Index[K, V]) Insert(low, high K, value V) error {
	if isNaN(low) || isNaN(high) {
		return fmt.Errorf("%w: NaN endpoint in [%v, %v]", ErrInvalidInterval, low, high)
	}

	if ix.opts.RejectInverted && cmp.Less(high, low) {
		return fmt.Errorf("%w: low > high in [%v, %v]", ErrInvalidInterval, low, high)
	}

	if n := ix.low.Search(low); n != nil {
		n.Value().high.Insert(high, value)
		ix.touch(low)
	} else {
		b := &bucket[K, V]{
			maxEnd: high,
			high:   avl.New[K, V](cmp.Compare[K], ix.opts.CompareValues),
		}
		b.high.Insert(high, value)
		ix.low.Insert(low, b)
		ix.afterStructural()
	}

	ix.size++

	return nil
}

// Delete removes one interval [low, high]. Among intervals with identical
// endpoints the first one found is removed. It reports whether an interval
// was removed; a missing low endpoint or high endpoint is a no-op.
func (ix *Index[K, V]) Delete(low, high K) bool {
	return ix.delete(low, func(t *avl.Tree[K, V]) bool { return t.Delete(high) })
}

// DeleteValue removes the interval [low, high] whose payload equals value
// under Options.CompareValues.
func (ix *Index[K, V]) DeleteValue(low, high K, value V) bool {
	return ix.delete(low, func(t *avl.Tree[K, V]) bool { return t.DeleteValue(high, value) })
}

// delete runs removeHigh on the bucket at low and drops the bucket once empty.
func (ix *Index[K, V]) delete(low K, removeHigh func(*avl.Tree[K, V]) bool) bool {
	n := ix.low.Search(low)
	if n == nil {
		return false
	}

	b := n.Value()
	removed := removeHigh(b.high)

	switch {
	case b.high.IsEmpty():
		ix.low.Delete(low)
		ix.afterStructural()
	case removed:
		ix.touch(low)
	}

	if removed || ix.opts.LegacyCounter {
		ix.size--
	}

	return removed
}

// Recompute rebuilds maxEnd for every low-tree node with a post-order walk.
func (ix *Index[K, V]) Recompute() {
	recompute(ix.low.Root())
}

// touch refreshes maxEnd after the bucket at low changed in place.
func (ix *Index[K, V]) touch(low K) {
	if ix.opts.Augment == AugmentFull {
		ix.Recompute()

		return
	}

	ix.low.Refresh(low)
}

// afterStructural runs after a low-tree insert or delete. The incremental
// hook has already run inside the tree.
func (ix *Index[K, V]) afterStructural() {
	if ix.opts.Augment == AugmentFull {
		ix.Recompute()
	}
}

// recompute refreshes maxEnd for the subtree at n in post-order.
func recompute[K cmp.Ordered, V any](n *avl.Node[K, *bucket[K, V]]) {
	if n == nil {
		return
	}

	recompute(n.Left())
	recompute(n.Right())
	updateMaxEnd(n)
}

// updateMaxEnd sets maxEnd from the node's bucket and its children. It is
// also the low tree's augmentation hook.
func updateMaxEnd[K cmp.Ordered, V any](n *avl.Node[K, *bucket[K, V]]) {
	b := n.Value()
	m, _ := b.high.MaxKey()

	if l := n.Left(); l != nil {
		m = max(m, l.Value().maxEnd)
	}

	if r := n.Right(); r != nil {
		m = max(m, r.Value().maxEnd)
	}

	b.maxEnd = m
}

// isNaN reports whether x is a floating-point NaN.
func isNaN[K cmp.Ordered](x K) bool {
	return x != x //nolint:gocritic // NaN is the only value not equal to itself.
}
