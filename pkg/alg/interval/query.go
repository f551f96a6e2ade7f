package interval

import (
	"cmp"
	"math"

	"github.com/Sumatoshi-tech/ivindex/pkg/alg/avl"
)

// All returns every interval ordered by low, then high.
func (ix *Index[K, V]) All() []Entry[K, V] {
	if ix.IsEmpty() {
		return nil
	}

	out := make([]Entry[K, V], 0, max(ix.size, 0))

	for _, ln := range ix.low.InOrder() {
		out = appendEntries(out, ln.Key(), ln.Value().high.InOrder())
	}

	return out
}

// LowestLows returns up to n intervals with the smallest low endpoints.
// Intervals sharing a low endpoint are ordered by ascending high.
func (ix *Index[K, V]) LowestLows(n int) []Entry[K, V] {
	if n <= 0 || ix.IsEmpty() {
		return nil
	}

	out := make([]Entry[K, V], 0, min(n, max(ix.size, 0)))

	ix.low.Ascend(func(ln *avl.Node[K, *bucket[K, V]]) bool {
		ln.Value().high.Ascend(func(hn *avl.Node[K, V]) bool {
			out = append(out, Entry[K, V]{Low: ln.Key(), High: hn.Key(), Value: hn.Value()})

			return len(out) < n
		})

		return len(out) < n
	})

	return out
}

// HighestLows returns up to n intervals with the largest low endpoints.
// Intervals sharing a low endpoint are ordered by descending high.
func (ix *Index[K, V]) HighestLows(n int) []Entry[K, V] {
	if n <= 0 || ix.IsEmpty() {
		return nil
	}

	out := make([]Entry[K, V], 0, min(n, max(ix.size, 0)))

	ix.low.Descend(func(ln *avl.Node[K, *bucket[K, V]]) bool {
		ln.Value().high.Descend(func(hn *avl.Node[K, V]) bool {
			out = append(out, Entry[K, V]{Low: ln.Key(), High: hn.Key(), Value: hn.Value()})

			return len(out) < n
		})

		return len(out) < n
	})

	return out
}

// Between returns the intervals inside the closed window:
// entry.Low >= low and entry.High <= high.
func (ix *Index[K, V]) Between(low, high K) []Entry[K, V] {
	var out []Entry[K, V]

	for _, ln := range ix.low.GreaterOrEqual(low) {
		out = appendEntries(out, ln.Key(), ln.Value().high.LessOrEqual(high))
	}

	return out
}

// StrictlyBetween returns the intervals strictly inside the window:
// entry.Low > low and entry.High < high.
func (ix *Index[K, V]) StrictlyBetween(low, high K) []Entry[K, V] {
	var out []Entry[K, V]

	for _, ln := range ix.low.GreaterThan(low) {
		out = appendEntries(out, ln.Key(), ln.Value().high.LessThan(high))
	}

	return out
}

// Overlapping returns the intervals with entry.Low < high and
// entry.High >= low. Low-tree subtrees whose maxEnd is below low are pruned.
func (ix *Index[K, V]) Overlapping(low, high K) []Entry[K, V] {
	return overlap(ix.low.Root(), low, high, nil)
}

// ContainingPoint returns the intervals with entry.Low < point < entry.High.
// Both boundaries are excluded.
func (ix *Index[K, V]) ContainingPoint(point K) []Entry[K, V] {
	return contain(ix.low.Root(), point, nil)
}

// GlobalMax returns the largest high endpoint, or false when empty.
func (ix *Index[K, V]) GlobalMax() (K, bool) {
	root := ix.low.Root()
	if root == nil {
		var zero K

		return zero, false
	}

	return root.Value().maxEnd, true
}

// RankLows walks low endpoints in ascending order, appending each visited
// key and adding its interval count to a running total, and stops as soon
// as the total reaches n. The last key returned is the smallest low L such
// that at least n intervals have a low endpoint <= L. For n <= 0 the result
// is empty.
func (ix *Index[K, V]) RankLows(n int) []K {
	var (
		out   []K
		count int
	)

	ix.low.Ascend(func(ln *avl.Node[K, *bucket[K, V]]) bool {
		if count >= n {
			return false
		}

		out = append(out, ln.Key())
		count += ln.Value().high.Len()

		return count < n
	})

	return out
}

// Percentile returns the low endpoint at which floor(Len()*p) intervals are
// first covered. A p above 1 selects the largest low endpoint. It fails with
// ErrInvalidPercentile when p is negative, NaN or infinite and with
// ErrNoEntries when no low endpoint is selected (empty index or a target of
// zero).
func (ix *Index[K, V]) Percentile(p float64) (K, error) {
	var zero K

	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return zero, ErrInvalidPercentile
	}

	// floor(Len()*p) >= Len() for p >= 1; clamping keeps the conversion in range.
	target := ix.size
	if p < 1 {
		target = int(math.Floor(float64(ix.size) * p))
	}

	ids := ix.RankLows(target)
	if len(ids) == 0 {
		return zero, ErrNoEntries
	}

	return ids[len(ids)-1], nil
}

// overlap collects entries under n that start before high and end at or after low.
func overlap[K cmp.Ordered, V any](n *avl.Node[K, *bucket[K, V]], low, high K, out []Entry[K, V]) []Entry[K, V] {
	if n == nil || cmp.Less(n.Value().maxEnd, low) {
		return out
	}

	out = overlap(n.Left(), low, high, out)

	// Keys on the right are larger still.
	if !cmp.Less(n.Key(), high) {
		return out
	}

	out = appendEntries(out, n.Key(), n.Value().high.GreaterOrEqual(low))

	return overlap(n.Right(), low, high, out)
}

// contain collects entries under n whose endpoints strictly enclose point.
func contain[K cmp.Ordered, V any](n *avl.Node[K, *bucket[K, V]], point K, out []Entry[K, V]) []Entry[K, V] {
	if n == nil || !cmp.Less(point, n.Value().maxEnd) {
		return out
	}

	out = contain(n.Left(), point, out)

	if !cmp.Less(n.Key(), point) {
		return out
	}

	out = appendEntries(out, n.Key(), n.Value().high.GreaterThan(point))

	return contain(n.Right(), point, out)
}

// appendEntries converts high-tree nodes sharing low into entries.
func appendEntries[K cmp.Ordered, V any](out []Entry[K, V], low K, nodes []*avl.Node[K, V]) []Entry[K, V] {
	for _, hn := range nodes {
		out = append(out, Entry[K, V]{Low: low, High: hn.Key(), Value: hn.Value()})
	}

	return out
}
