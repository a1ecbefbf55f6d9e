package indexing

// KeyIterator walks the index tuples selected by a complete key. The fastest
// dimension cycles first and carries into the next one in increment order.
type KeyIterator struct {
	key      *Key
	reversed bool
	pos      []int
	done     bool
}

func newKeyIterator(k *Key, reversed bool) *KeyIterator {
	it := &KeyIterator{
		key:      k,
		reversed: reversed,
		pos:      make([]int, len(k.spans)),
	}
	for i, r := range k.spans {
		if r.count == 0 {
			it.done = true
			return it
		}
		it.pos[i] = it.first(i)
	}
	return it
}

func (it *KeyIterator) first(field int) int {
	if it.reversed {
		return it.key.spans[field].count - 1
	}
	return 0
}

// Next returns the next index tuple, or false when the iterator is exhausted.
func (it *KeyIterator) Next() ([]int, bool) {
	if it.done {
		return nil, false
	}

	index := make([]int, len(it.pos))
	for i, p := range it.pos {
		index[i] = it.key.spans[i].at(p)
	}

	for _, field := range it.key.indexer.incOrder {
		count := it.key.spans[field].count
		if it.reversed {
			if it.pos[field] > 0 {
				it.pos[field]--
				return index, true
			}
		} else if it.pos[field] < count-1 {
			it.pos[field]++
			return index, true
		}
		it.pos[field] = it.first(field)
	}
	it.done = true
	return index, true
}
