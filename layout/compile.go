package layout

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/esnet/regio/spec"
)

type options struct {
	log logger.Logger
}

// Option configures a compile.
type Option func(*options)

// WithLogger sets the logger compile progress is reported to.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Compile lays out the given root nodes, one after the other, in a single
// domain counting words of dataWidth bits.
func Compile(dataWidth uint64, roots []*spec.Node, opts ...Option) (*Map, error) {
	d, err := NewDomain(dataWidth, opts...)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if _, err := d.Add(root); err != nil {
			return nil, err
		}
	}
	m := d.Map()
	if d.log != nil {
		d.log.Debugf("compiled %d roots: %d regions, %d registers", len(roots), m.NumRegions(), m.NumRegisters())
	}
	return m, nil
}

// CompileAddressSpace lays out a root address space using its own data width.
func CompileAddressSpace(root *spec.Node, opts ...Option) (*Map, error) {
	if root.Kind() != spec.KindAddressSpace {
		return nil, fmt.Errorf("%w: %s", ErrNotAddressSpace, root)
	}
	dw := root.Config().DataWidth
	if dw == 0 {
		return nil, &Error{Path: root.QualName(), Kind: root.Kind().String(), Err: ErrNoDataWidth}
	}
	return Compile(dw, []*spec.Node{root}, opts...)
}

// layout dispatches on the node kind.
func (b *builder) layout() error {
	switch b.node.Kind() {
	case spec.KindAddressSpace:
		return b.layoutAddressSpace()
	case spec.KindStructure, spec.KindElement, spec.KindArray:
		return b.layoutStructure()
	case spec.KindUnion:
		return b.layoutUnion()
	case spec.KindRegister:
		return b.layoutRegister()
	case spec.KindField:
		return b.layoutField()
	}
	return b.fail(fmt.Errorf("unsupported kind %s", b.node.Kind()))
}

// place applies the offset and alignment of the region in its outer region.
func (b *builder) place() error {
	if b.config.Offset > 0 {
		if err := b.goTo(b.config.Offset); err != nil {
			return err
		}
	}
	b.align(b.config.Align)
	return nil
}

func (b *builder) addChildren() error {
	for _, child := range b.node.Children() {
		if err := b.add(child); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) padOut() {
	b.pad(b.config.Pad)
	b.padTo(b.config.PadTo)
}

// layoutStructure places the children one after the other. Arrays and their
// elements are laid out as structures.
func (b *builder) layoutStructure() error {
	if err := b.place(); err != nil {
		return err
	}
	if err := b.begin(false, 0); err != nil {
		return err
	}
	if err := b.addChildren(); err != nil {
		return err
	}
	b.padOut()
	return b.end(true)
}

// layoutUnion places every child at the start of the union. The union is as
// large as its largest child.
func (b *builder) layoutUnion() error {
	if err := b.place(); err != nil {
		return err
	}
	if err := b.begin(false, 0); err != nil {
		return err
	}
	var largest uint64
	for _, child := range b.node.Children() {
		b.active.Pause(false)
		if err := b.add(child); err != nil {
			return err
		}
		largest = max(largest, b.active.Restore())
	}
	b.pad(largest)
	b.padOut()
	return b.end(true)
}

// layoutRegister counts the register's fields in bits and rounds the result
// up to whole words.
func (b *builder) layoutRegister() error {
	if !b.inWords() {
		return b.fail(ErrMisplacedRegister)
	}
	if err := b.place(); err != nil {
		return err
	}
	if err := b.begin(false, 0); err != nil {
		return err
	}
	if err := b.beginBits(); err != nil {
		return err
	}
	if err := b.addChildren(); err != nil {
		return err
	}
	if err := b.endBits(); err != nil {
		return err
	}
	b.padTo(b.config.Size)
	return b.end(true)
}

// layoutField counts the field in bits. A field without children defaults to
// the width of a whole word.
func (b *builder) layoutField() error {
	if !b.inBits() {
		return b.fail(ErrMisplacedField)
	}
	if err := b.place(); err != nil {
		return err
	}
	if err := b.begin(false, 0); err != nil {
		return err
	}
	if err := b.addChildren(); err != nil {
		return err
	}
	width := b.config.Width
	if width == 0 && b.node.NumChildren() == 0 {
		width = b.dataWidth
	}
	b.padTo(width)
	return b.end(true)
}

// layoutAddressSpace opens a new word region, optionally of another data
// width. An indirect address space restarts at zero and takes no room in its
// outer region. Offset and alignment apply within the address space.
func (b *builder) layoutAddressSpace() error {
	if !b.inWords() {
		return b.fail(ErrMisplacedAddressSpace)
	}
	indirect := b.config.Indirect
	b.info.Indirect = indirect
	if err := b.begin(indirect, b.config.DataWidth); err != nil {
		return err
	}
	b.active.Inc(b.config.Offset)
	b.align(b.config.Align)
	if err := b.addChildren(); err != nil {
		return err
	}
	b.padOut()
	return b.end(!indirect)
}
