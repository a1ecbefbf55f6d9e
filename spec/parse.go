package spec

import (
	"fmt"
	"math"
	"sort"
)

// ParseOptions converts an untyped attribute map, as produced by a YAML or
// JSON decoder, into options for the given kind. Unknown keywords, values of
// the wrong type, negative numbers and invalid enum names are reported as
// *ConfigError. The map is processed in sorted key order so the first error
// reported is stable.
func ParseOptions(kind Kind, owner string, attrs map[string]any) ([]Option, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]Option, 0, len(keys))
	for _, k := range keys {
		if !optionAllowed(kind, k) {
			return nil, &ConfigError{Owner: owner, Attr: k, Err: fmt.Errorf("%w for %s", ErrUnknownOption, kind)}
		}
		o, err := parseOption(k, attrs[k])
		if err != nil {
			return nil, &ConfigError{Owner: owner, Attr: k, Err: err}
		}
		opts = append(opts, o)
	}
	return opts, nil
}

func parseOption(name string, v any) (Option, error) {
	switch name {
	case OptIndirect:
		b, ok := v.(bool)
		if !ok {
			return Option{}, fmt.Errorf("%w: %T, expected bool", ErrWrongType, v)
		}
		return Indirect(b), nil
	case OptAccess:
		s, ok := v.(string)
		if !ok {
			return Option{}, fmt.Errorf("%w: %T, expected string", ErrWrongType, v)
		}
		a, err := ParseAccess(s)
		if err != nil {
			return Option{}, err
		}
		return WithAccess(a), nil
	case OptDimensions:
		seq, ok := v.([]any)
		if !ok {
			if ints, iok := v.([]int); iok {
				return Dimensions(ints...), nil
			}
			return Option{}, fmt.Errorf("%w: %T, expected a sequence", ErrWrongType, v)
		}
		dims := make([]int, len(seq))
		for i, item := range seq {
			n, err := toInt(item)
			if err != nil {
				return Option{}, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			dims[i] = int(n)
		}
		return Dimensions(dims...), nil
	}

	n, err := toInt(v)
	if err != nil {
		return Option{}, err
	}
	u := uint64(n)
	switch name {
	case OptAlign:
		return Align(u), nil
	case OptOffset:
		return Offset(u), nil
	case OptPad:
		return Pad(u), nil
	case OptPadTo:
		return PadTo(u), nil
	case OptElementAlign:
		return ElementAlign(u), nil
	case OptElementPad:
		return ElementPad(u), nil
	case OptElementPadTo:
		return ElementPadTo(u), nil
	case OptWidth:
		return Width(u), nil
	case OptSize:
		return Size(u), nil
	case OptDataWidth:
		return DataWidth(u), nil
	}
	return Option{}, ErrUnknownOption
}

// toInt accepts the integer representations produced by common decoders and
// rejects negative values.
func toInt(v any) (int64, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows", ErrWrongType, x)
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrWrongType, x)
		}
		n = int64(x)
	default:
		return 0, fmt.Errorf("%w: %T, expected integer", ErrWrongType, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegative, n)
	}
	return n, nil
}
