package indexing

import "fmt"

// Indexer maps index tuples onto linear ordinals.
type Indexer struct {
	lengths  []int
	incOrder []int
	spans    []int
	length   int
}

// NewIndexer creates an indexer for the given dimension lengths.
//
// incOrder lists the dimensions from the fastest incrementing to the slowest,
// and must be a permutation of [0, len(lengths)).
func NewIndexer(lengths []int, incOrder []int) (*Indexer, error) {
	n := len(lengths)
	if n == 0 {
		return nil, ErrNoDimensions
	}
	if len(incOrder) != n {
		return nil, fmt.Errorf("%w: got %d entries for %d dimensions", ErrBadIncrementOrder, len(incOrder), n)
	}
	seen := make([]bool, n)
	for _, d := range incOrder {
		if d < 0 || d >= n || seen[d] {
			return nil, fmt.Errorf("%w: %v", ErrBadIncrementOrder, incOrder)
		}
		seen[d] = true
	}
	for i, l := range lengths {
		if l < 0 {
			return nil, fmt.Errorf("%w: dimension %d has negative length %d", ErrIndexOutOfRange, i, l)
		}
	}

	ix := &Indexer{
		lengths:  append([]int(nil), lengths...),
		incOrder: append([]int(nil), incOrder...),
		spans:    make([]int, n),
	}

	ix.spans[incOrder[0]] = 1
	for i := 1; i < n; i++ {
		prev, cur := incOrder[i-1], incOrder[i]
		ix.spans[cur] = ix.spans[prev] * lengths[prev]
	}
	last := incOrder[n-1]
	ix.length = ix.spans[last] * lengths[last]
	return ix, nil
}

// NewCArrayIndexer returns an indexer for a C-style (row-major) array: the
// last dimension increments fastest.
func NewCArrayIndexer(dimensions ...int) (*Indexer, error) {
	n := len(dimensions)
	order := make([]int, n)
	for i := range order {
		order[i] = n - 1 - i
	}
	return NewIndexer(dimensions, order)
}

// NumDims returns the number of dimensions.
func (ix *Indexer) NumDims() int { return len(ix.lengths) }

// Len returns the total number of indexable elements.
func (ix *Indexer) Len() int { return ix.length }

// Dims returns a copy of the dimension lengths.
func (ix *Indexer) Dims() []int { return append([]int(nil), ix.lengths...) }

// IncOrder returns a copy of the increment order, fastest first.
func (ix *Indexer) IncOrder() []int { return append([]int(nil), ix.incOrder...) }

// Spans returns a copy of the per-dimension spans.
func (ix *Indexer) Spans() []int { return append([]int(nil), ix.spans...) }

// ToOrdinal reduces a full index tuple to its ordinal. Negative components are
// rejected; only key selectors rebase negative values.
func (ix *Indexer) ToOrdinal(index ...int) (int, error) {
	if len(index) != len(ix.lengths) {
		return 0, fmt.Errorf("%w: index %v has %d fields, expected %d",
			ErrDimensionMismatch, index, len(index), len(ix.lengths))
	}
	ordinal := 0
	for i, idx := range index {
		if idx < 0 || idx >= ix.lengths[i] {
			return 0, fmt.Errorf("%w: index %v, field %d not in [0,%d)",
				ErrIndexOutOfRange, index, i, ix.lengths[i])
		}
		ordinal += ix.spans[i] * idx
	}
	return ordinal, nil
}

// FromOrdinal expands an ordinal into its index tuple.
func (ix *Indexer) FromOrdinal(ordinal int) ([]int, error) {
	if ordinal < 0 || ordinal >= ix.length {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrOrdinalOutOfRange, ordinal, ix.length)
	}
	index := make([]int, len(ix.lengths))
	rem := ordinal
	for i := len(ix.incOrder) - 1; i >= 0; i-- {
		d := ix.incOrder[i]
		index[d] = rem / ix.spans[d]
		rem %= ix.spans[d]
	}
	return index, nil
}

// NewKey creates a possibly partial key from the leading selectors.
func (ix *Indexer) NewKey(selectors ...Selector) (*Key, error) {
	return newKey(ix, selectors)
}

// Select creates a complete key, selecting the entire range of every
// dimension not covered by the given selectors.
func (ix *Indexer) Select(selectors ...Selector) (*Key, error) {
	k, err := newKey(ix, selectors)
	if err != nil {
		return nil, err
	}
	return k.Complete(), nil
}

// Iter iterates every index tuple in increment order.
func (ix *Indexer) Iter() *KeyIterator {
	k, _ := ix.Select()
	it, _ := k.Iter()
	return it
}

// IterReverse iterates every index tuple in reverse increment order.
func (ix *Indexer) IterReverse() *KeyIterator {
	k, _ := ix.Select()
	it, _ := k.IterReverse()
	return it
}
