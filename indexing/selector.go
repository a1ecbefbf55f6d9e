package indexing

import "fmt"

// Selector selects the indices of a single dimension, either one index or a
// slice.
type Selector struct {
	isIndex bool
	index   int
	start   *int
	stop    *int
	step    int
}

// span is a resolved selector: the indices start, start+step, ... up to but
// excluding stop, count of them.
type span struct {
	start, stop, step int
	count             int
}

// Index selects a single index. Negative values count from the end.
func Index(i int) Selector { return Selector{isIndex: true, index: i} }

// Slice selects a clipped range. A nil start or stop takes the default for the
// direction of step.
func Slice(start, stop *int, step int) Selector {
	return Selector{start: start, stop: stop, step: step}
}

// Span selects [start, stop) with unit step.
func Span(start, stop int) Selector { return Slice(&start, &stop, 1) }

// From selects everything from start onwards.
func From(start int) Selector { return Slice(&start, nil, 1) }

// All selects the entire range of a dimension.
func All() Selector { return Slice(nil, nil, 1) }

// Reversed selects the entire range of a dimension, last index first.
func Reversed() Selector { return Slice(nil, nil, -1) }

// IsIndex reports whether the selector is a single index.
func (s Selector) IsIndex() bool { return s.isIndex }

func (s Selector) String() string {
	if s.isIndex {
		return fmt.Sprint(s.index)
	}
	str := func(p *int) string {
		if p == nil {
			return ""
		}
		return fmt.Sprint(*p)
	}
	return fmt.Sprintf("%s:%s:%d", str(s.start), str(s.stop), s.step)
}

func (s Selector) resolve(length int) (span, error) {
	if s.isIndex {
		i := s.index
		if i < 0 {
			i += length
		}
		if i < 0 || i >= length {
			return span{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, s.index, length)
		}
		return span{start: i, stop: i + 1, step: 1, count: 1}, nil
	}
	if s.step == 0 {
		return span{}, ErrZeroStep
	}

	step := s.step
	lower, upper := 0, length
	if step < 0 {
		lower, upper = -1, length-1
	}

	clip := func(p *int, def int) int {
		if p == nil {
			return def
		}
		v := *p
		if v < 0 {
			v += length
			if v < lower {
				v = lower
			}
		} else if v > upper {
			v = upper
		}
		return v
	}

	var start, stop int
	if step > 0 {
		start, stop = clip(s.start, lower), clip(s.stop, upper)
	} else {
		start, stop = clip(s.start, upper), clip(s.stop, lower)
	}

	count := 0
	switch {
	case step > 0 && start < stop:
		count = (stop-start-1)/step + 1
	case step < 0 && start > stop:
		count = (start-stop-1)/(-step) + 1
	}
	return span{start: start, stop: stop, step: step, count: count}, nil
}

// at returns the i'th index of the span.
func (r span) at(i int) int { return r.start + i*r.step }
