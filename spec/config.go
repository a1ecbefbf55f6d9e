package spec

import "fmt"

// Option keywords. These are also the attribute names accepted by
// ParseOptions.
const (
	OptAlign        = "align"
	OptOffset       = "offset"
	OptPad          = "pad"
	OptPadTo        = "pad_to"
	OptDimensions   = "dimensions"
	OptElementAlign = "element_align"
	OptElementPad   = "element_pad"
	OptElementPadTo = "element_pad_to"
	OptWidth        = "width"
	OptSize         = "size"
	OptAccess       = "access"
	OptDataWidth    = "data_width"
	OptIndirect     = "indirect"
)

var allowedOptions = map[Kind][]string{
	KindAddressSpace: {OptAlign, OptOffset, OptPad, OptPadTo, OptDataWidth, OptIndirect},
	KindStructure:    {OptAlign, OptOffset, OptPad, OptPadTo},
	KindUnion:        {OptAlign, OptOffset, OptPad, OptPadTo},
	KindArray: {
		OptAlign, OptOffset, OptPad, OptPadTo, OptDimensions,
		OptElementAlign, OptElementPad, OptElementPadTo,
	},
	KindElement:  {OptAlign, OptOffset, OptPad, OptPadTo},
	KindRegister: {OptAlign, OptOffset, OptSize, OptAccess},
	KindField:    {OptAlign, OptOffset, OptWidth, OptAccess},
}

// AllowedOptions returns the option keywords recognized for a kind.
func AllowedOptions(kind Kind) []string {
	return append([]string(nil), allowedOptions[kind]...)
}

func optionAllowed(kind Kind, name string) bool {
	for _, n := range allowedOptions[kind] {
		if n == name {
			return true
		}
	}
	return false
}

// Config is the validated configuration of a spec node. Units are data words
// for word counting regions and bits for bit counting regions.
type Config struct {
	Align  uint64
	Offset uint64
	Pad    uint64
	PadTo  uint64

	// Array
	Dimensions   []int
	ElementAlign uint64
	ElementPad   uint64
	ElementPadTo uint64

	// Register and Field
	Width  uint64
	Size   uint64
	Access Access

	// AddressSpace. A zero DataWidth continues with the enclosing width.
	DataWidth uint64
	Indirect  bool
}

func defaultConfig(kind Kind) Config {
	c := Config{Align: 1, ElementAlign: 1}
	if kind == KindRegister {
		c.Size = 1
	}
	return c
}

// Option sets one configuration attribute.
type Option struct {
	name  string
	apply func(*Config) error
}

// Name returns the option keyword.
func (o Option) Name() string { return o.name }

func nonZero(name string, v uint64, set func(*Config)) Option {
	return Option{name: name, apply: func(c *Config) error {
		if v == 0 {
			return ErrZero
		}
		set(c)
		return nil
	}}
}

func value(name string, set func(*Config)) Option {
	return Option{name: name, apply: func(c *Config) error {
		set(c)
		return nil
	}}
}

// Align aligns the start of the node to a multiple of n units.
func Align(n uint64) Option {
	return nonZero(OptAlign, n, func(c *Config) { c.Align = n })
}

// Offset forces the start of the node to the given position of the enclosing
// region.
func Offset(n uint64) Option {
	return value(OptOffset, func(c *Config) { c.Offset = n })
}

// Pad appends n units after the last member.
func Pad(n uint64) Option {
	return value(OptPad, func(c *Config) { c.Pad = n })
}

// PadTo pads the node until it occupies at least n units.
func PadTo(n uint64) Option {
	return value(OptPadTo, func(c *Config) { c.PadTo = n })
}

// Dimensions sets the array dimensions, slowest first.
func Dimensions(dims ...int) Option {
	dims = append([]int(nil), dims...)
	return Option{name: OptDimensions, apply: func(c *Config) error {
		if len(dims) == 0 {
			return ErrRequired
		}
		for i, d := range dims {
			if d < 0 {
				return fmt.Errorf("%w: dimension %d is %d", ErrNegative, i, d)
			}
			if d == 0 {
				return fmt.Errorf("%w: dimension %d", ErrZero, i)
			}
		}
		c.Dimensions = dims
		return nil
	}}
}

// ElementAlign aligns every array element.
func ElementAlign(n uint64) Option {
	return nonZero(OptElementAlign, n, func(c *Config) { c.ElementAlign = n })
}

// ElementPad pads every array element.
func ElementPad(n uint64) Option {
	return value(OptElementPad, func(c *Config) { c.ElementPad = n })
}

// ElementPadTo pads every array element to at least n units.
func ElementPadTo(n uint64) Option {
	return value(OptElementPadTo, func(c *Config) { c.ElementPadTo = n })
}

// Width sets a field's width in bits.
func Width(n uint64) Option {
	return value(OptWidth, func(c *Config) { c.Width = n })
}

// Size sets a register's size in data words.
func Size(n uint64) Option {
	return value(OptSize, func(c *Config) { c.Size = n })
}

// WithAccess sets the access mode of a register or field.
func WithAccess(a Access) Option {
	return Option{name: OptAccess, apply: func(c *Config) error {
		if int(a) >= len(accessNames) {
			return fmt.Errorf("%w: %v", ErrInvalidEnum, a)
		}
		c.Access = a
		return nil
	}}
}

// DataWidth sets the number of bits in one data word of an address space.
func DataWidth(n uint64) Option {
	return nonZero(OptDataWidth, n, func(c *Config) { c.DataWidth = n })
}

// Indirect makes an address space an isolated island that does not occupy
// space in its enclosing region.
func Indirect(b bool) Option {
	return Option{name: OptIndirect, apply: func(c *Config) error {
		c.Indirect = b
		return nil
	}}
}

// NewConfig validates and applies options for a node of the given kind. The
// owner is used to identify the object in errors.
func NewConfig(kind Kind, owner string, opts ...Option) (Config, error) {
	c := defaultConfig(kind)
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if o.apply == nil {
			return Config{}, &ConfigError{Owner: owner, Attr: "<nil>", Err: ErrUnknownOption}
		}
		if !optionAllowed(kind, o.name) {
			return Config{}, &ConfigError{
				Owner: owner, Attr: o.name,
				Err: fmt.Errorf("%w for %s", ErrUnknownOption, kind),
			}
		}
		if seen[o.name] {
			return Config{}, &ConfigError{Owner: owner, Attr: o.name, Err: ErrDuplicate}
		}
		seen[o.name] = true
		if err := o.apply(&c); err != nil {
			return Config{}, &ConfigError{Owner: owner, Attr: o.name, Err: err}
		}
	}
	if kind == KindArray && len(c.Dimensions) == 0 {
		return Config{}, &ConfigError{Owner: owner, Attr: OptDimensions, Err: ErrRequired}
	}
	return c, nil
}

// elementConfig derives the configuration of the elements of an array.
func (c Config) elementConfig() Config {
	return Config{
		Align: c.ElementAlign,
		Pad:   c.ElementPad,
		PadTo: c.ElementPadTo,
	}
}
