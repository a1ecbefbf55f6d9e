package layout

import (
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/esnet/regio/spec"
)

// Domain holds the counting state shared by every region laid out from the
// same root: a word counter, a bit counter and the register and ordinal
// sequences. A Domain only exists for the duration of a compile.
type Domain struct {
	DataWidth uint64

	words Counter
	bits  Counter

	ordinal  int
	register int
	roots    []*Region
	regions  []*Region

	log logger.Logger
}

// NewDomain creates an empty domain counting words of dataWidth bits.
func NewDomain(dataWidth uint64, opts ...Option) (*Domain, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if dataWidth == 0 {
		return nil, ErrNoDataWidth
	}
	return &Domain{DataWidth: dataWidth, log: o.log}, nil
}

// Add lays out a root node at the current word position of the domain.
func (d *Domain) Add(node *spec.Node) (*Region, error) {
	r := d.newRegion(nil, node, len(d.roots))
	if err := r.layout(); err != nil {
		return nil, err
	}
	d.roots = append(d.roots, r.info)
	return r.info, nil
}

// Map returns the query surface over every region laid out so far.
func (d *Domain) Map() *Map {
	return newMap(d.roots, d.regions, d.register)
}

// builder carries the traversal state of one region while it is laid out.
type builder struct {
	domain *Domain
	parent *builder
	node   *spec.Node
	config spec.Config
	info   *Region

	// active is the counter children are laid out with.
	active *Counter

	outerWidth uint64
	dataWidth  uint64
	begun      bool
}

func (d *Domain) newRegion(parent *builder, node *spec.Node, index int) *builder {
	b := &builder{
		domain: d,
		parent: parent,
		node:   node,
		config: node.Config(),
		info: &Region{
			Node:    node,
			Ordinal: d.ordinal,
		},
	}
	d.ordinal++
	d.regions = append(d.regions, b.info)

	if parent == nil {
		b.active = &d.words
		b.outerWidth = d.DataWidth
		b.info.OID = []int{index}
	} else {
		b.active = parent.active
		b.outerWidth = parent.dataWidth
		b.info.Parent = parent.info
		b.info.OID = append(append(make([]int, 0, len(parent.info.OID)+1), parent.info.OID...), index)
	}
	b.dataWidth = b.outerWidth
	return b
}

func (b *builder) inWords() bool { return b.active == &b.domain.words }
func (b *builder) inBits() bool  { return b.active == &b.domain.bits }

func (b *builder) fail(err error) error {
	return &Error{Path: b.node.QualName(), Kind: b.node.Kind().String(), Err: err}
}

// size returns the size of the region so far, in units of the active counter.
func (b *builder) size() uint64 { return b.active.Size() }

// add lays out a child node at the current position.
func (b *builder) add(node *spec.Node) error {
	child := b.domain.newRegion(b, node, len(b.info.Children))
	b.info.Children = append(b.info.Children, child.info)
	return child.layout()
}

// goTo moves the position forward to offset, relative to the outer region.
func (b *builder) goTo(offset uint64) error {
	if b.begun {
		return b.fail(ErrOffsetAfterBegin)
	}
	pos := b.active.Size()
	if offset < pos {
		return b.fail(ErrBackwardOffset)
	}
	b.active.Inc(offset - pos)
	return nil
}

func (b *builder) align(n uint64) { b.active.Align(n) }

func (b *builder) pad(n uint64) { b.active.Inc(n) }

// padTo grows the region to at least n units.
func (b *builder) padTo(n uint64) {
	if size := b.size(); size < n {
		b.active.Inc(n - size)
	}
}

// begin opens the inner region. A reset region starts its own absolute
// numbering. A dataWidth different from the outer one switches the word
// width of the inner region; the current position is first aligned to a
// boundary both widths share.
func (b *builder) begin(reset bool, dataWidth uint64) error {
	if b.begun {
		return b.fail(ErrRestart)
	}
	switching := dataWidth != 0 && dataWidth != b.outerWidth
	if switching {
		if !reset {
			nOuter, _ := jointAlignment(b.outerWidth, dataWidth)
			b.active.AlignAbsolute(nOuter)
		}
		b.dataWidth = dataWidth
	}

	b.info.Offset = b.active.Pause(reset)
	b.begun = true
	if switching && !reset {
		b.active.Rescale(b.outerWidth, b.dataWidth)
	}
	if b.inBits() {
		b.info.base = b.parent.info.base
	}
	return nil
}

// end closes the inner region. When inc is set the outer region is advanced
// by the size of the inner one, converted to outer words.
func (b *builder) end(inc bool) error {
	if !b.begun {
		return b.fail(ErrEndWithoutBegin)
	}
	var size uint64
	switch {
	case !inc:
		size = b.active.Restore()
	case b.dataWidth != b.outerWidth:
		_, nInner := jointAlignment(b.outerWidth, b.dataWidth)
		b.active.Align(nInner)
		size = b.active.Restore()
		b.active.Inc(size * b.dataWidth / b.outerWidth)
	default:
		size = b.active.RestoreInc()
	}
	b.begun = false
	b.finish(size)
	return nil
}

// beginBits starts counting the region's children in bits.
func (b *builder) beginBits() error {
	if b.inBits() {
		return b.fail(ErrBitsRestart)
	}
	b.domain.bits.Pause(true)
	b.active = &b.domain.bits
	b.info.base = b.info.Offset
	return nil
}

// endBits returns to counting in words, consuming as many words as needed
// for the bits counted, and assigns the next register index.
func (b *builder) endBits() error {
	if !b.inBits() {
		return b.fail(ErrBitsEnd)
	}
	width := b.domain.bits.Restore()
	b.active = &b.domain.words
	if width > 0 {
		b.active.Inc(ceilDiv(width, b.dataWidth))
	}
	b.info.Register = b.domain.register
	b.info.HasRegister = true
	b.domain.register++
	return nil
}

// finish fills in the derived attributes of the region.
func (b *builder) finish(size uint64) {
	r := b.info
	dw := b.dataWidth
	r.DataWidth = dw
	r.Size = size
	r.outerWidth = b.outerWidth

	if b.inBits() {
		pos := r.Offset
		word, shift := pos.Absolute/dw, pos.Absolute%dw
		r.InBits = true
		r.Pos = pos
		r.Offset = r.base.Add(word)
		r.Width = size
		r.Shift = shift
		r.Size = ceilDiv(shift+size, dw)
		r.outerWidth = dw
	} else {
		r.Width = dw * size
	}
	if r.InBits || r.HasRegister {
		r.Mask = Mask(r.Width)
	}
	r.Nibbles = ceilDiv(r.Width, 4)
	r.Octets = ceilDiv(r.Width, 8)
}
