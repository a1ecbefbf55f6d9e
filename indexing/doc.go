package indexing

/*

# Multi-dimensional indexing for register arrays

This package maps index tuples of a multi-dimensional array onto a single
linear ordinal and back, in the manner of C-style arrays.

- an `Indexer` captures the per-dimension lengths and the increment order
- a `Key` is a (possibly partial) selection of per-dimension ranges
- a `KeyIterator` walks the index tuples selected by a complete key

## Spans

For an increment order `o`, the span of the fastest dimension is 1 and each
following dimension's span is the product of the faster ones:

	spans[o[0]] = 1
	spans[o[i]] = spans[o[i-1]] * lengths[o[i-1]]

so that

	ordinal = sum(spans[i] * index[i])

For a C array x[a][b][c] the increment order is (2, 1, 0): c cycles first.

## Selectors

Each dimension of a key is selected either by a single index (negative values
count from the end, out of range is an error) or by a slice with start, stop
and step that is clipped to the dimension, never an error.

*/
