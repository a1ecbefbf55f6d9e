package indexing

import "fmt"

// Key is an immutable, possibly partial, selection over the dimensions of an
// Indexer. Keys are extended one or more dimensions at a time until they
// cover every dimension.
type Key struct {
	indexer   *Indexer
	selectors []Selector
	spans     []span
}

func newKey(ix *Indexer, selectors []Selector) (*Key, error) {
	if len(selectors) > ix.NumDims() {
		return nil, fmt.Errorf("%w: got %d, expected at most %d", ErrKeyTooLong, len(selectors), ix.NumDims())
	}
	k := &Key{
		indexer:   ix,
		selectors: append([]Selector(nil), selectors...),
		spans:     make([]span, len(selectors)),
	}
	for i, s := range selectors {
		r, err := s.resolve(ix.lengths[i])
		if err != nil {
			return nil, fmt.Errorf("key field %d: %w", i, err)
		}
		k.spans[i] = r
	}
	return k, nil
}

// Extend returns a new key with additional trailing selectors.
func (k *Key) Extend(selectors ...Selector) (*Key, error) {
	all := make([]Selector, 0, len(k.selectors)+len(selectors))
	all = append(all, k.selectors...)
	all = append(all, selectors...)
	return newKey(k.indexer, all)
}

// Complete returns the key with every missing trailing dimension selecting
// its entire range.
func (k *Key) Complete() *Key {
	if k.IsComplete() {
		return k
	}
	all := append([]Selector(nil), k.selectors...)
	for len(all) < k.indexer.NumDims() {
		all = append(all, All())
	}
	// All() never fails to resolve.
	c, _ := newKey(k.indexer, all)
	return c
}

// Indexer returns the indexer the key selects from.
func (k *Key) Indexer() *Indexer { return k.indexer }

// NumFields returns the number of dimensions the key has selectors for.
func (k *Key) NumFields() int { return len(k.selectors) }

// IsComplete reports whether the key covers every dimension.
func (k *Key) IsComplete() bool { return len(k.selectors) == k.indexer.NumDims() }

func (k *Key) checkComplete() error {
	if !k.IsComplete() {
		return fmt.Errorf("%w: %d of %d fields", ErrIncompleteKey, len(k.selectors), k.indexer.NumDims())
	}
	return nil
}

// Len returns the number of elements selected.
func (k *Key) Len() (int, error) {
	if err := k.checkComplete(); err != nil {
		return 0, err
	}
	n := 1
	for _, r := range k.spans {
		n *= r.count
	}
	return n, nil
}

// IsSingle reports whether the key denotes exactly one element by index
// selectors only. A slice that happens to select one element still denotes a
// group.
func (k *Key) IsSingle() bool {
	if !k.IsComplete() {
		return false
	}
	for _, s := range k.selectors {
		if !s.isIndex {
			return false
		}
	}
	return true
}

// Start returns the first index tuple of each range, regardless of whether
// the ranges are empty.
func (k *Key) Start() ([]int, error) {
	if err := k.checkComplete(); err != nil {
		return nil, err
	}
	start := make([]int, len(k.spans))
	for i, r := range k.spans {
		start[i] = r.start
	}
	return start, nil
}

// Ordinal returns the ordinal of a single element key.
func (k *Key) Ordinal() (int, error) {
	if err := k.checkComplete(); err != nil {
		return 0, err
	}
	if !k.IsSingle() {
		return 0, ErrNotSingle
	}
	start, _ := k.Start()
	return k.indexer.ToOrdinal(start...)
}

// Iter iterates the selected index tuples in increment order.
func (k *Key) Iter() (*KeyIterator, error) {
	if err := k.checkComplete(); err != nil {
		return nil, err
	}
	return newKeyIterator(k, false), nil
}

// IterReverse iterates the selected index tuples in reverse increment order.
func (k *Key) IterReverse() (*KeyIterator, error) {
	if err := k.checkComplete(); err != nil {
		return nil, err
	}
	return newKeyIterator(k, true), nil
}

// Indices collects every selected index tuple in increment order.
func (k *Key) Indices() ([][]int, error) {
	it, err := k.Iter()
	if err != nil {
		return nil, err
	}
	var out [][]int
	for idx, ok := it.Next(); ok; idx, ok = it.Next() {
		out = append(out, idx)
	}
	return out, nil
}

func (k *Key) String() string {
	return fmt.Sprint(k.selectors)
}
