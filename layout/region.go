package layout

import (
	"fmt"

	"github.com/esnet/regio/spec"
)

// Region is the computed placement of one spec node.
//
// Offset is expressed in words of the enclosing region's data width and Size
// in words of the region's own data width. For regions counted in bits, Pos is
// the absolute bit position, Offset is the word holding the first bit, and
// Size is the number of words spanned by the bits.
type Region struct {
	Node     *spec.Node
	Parent   *Region
	Children []*Region

	// OID is the list of child indices from the root, prefixed by the root's
	// own index in the domain.
	OID     []int
	Ordinal int

	DataWidth uint64
	Offset    Position
	Size      uint64
	Width     uint64
	Mask      uint64
	Shift     uint64
	Pos       Position
	Nibbles   uint64
	Octets    uint64
	InBits    bool
	Indirect  bool

	// Register is the global register index, valid when HasRegister is set.
	Register    int
	HasRegister bool

	// base is the word offset of the enclosing register, for bit regions.
	base Position
	// outerWidth is the data width Offset is expressed in.
	outerWidth uint64
}

// Kind returns the kind of the laid out node.
func (r *Region) Kind() spec.Kind { return r.Node.Kind() }

// Path returns the qualified name of the laid out node.
func (r *Region) Path() string { return r.Node.QualName() }

// ByteOffset returns the absolute offset in bytes given the data width of the
// region's parent.
func (r *Region) ByteOffset() uint64 {
	return r.Offset.Absolute * r.parentDataWidth() / 8
}

// ByteSize returns the region size in bytes, rounded up to whole bytes.
func (r *Region) ByteSize() uint64 {
	return ceilDiv(r.Size*r.DataWidth, 8)
}

// Words returns the word offset and word count to use when accessing the
// region through an IO of the region's own data width.
func (r *Region) Words() (offset, size uint64) {
	return r.Offset.Absolute * r.parentDataWidth() / r.DataWidth, r.Size
}

func (r *Region) parentDataWidth() uint64 {
	if r.outerWidth == 0 {
		return r.DataWidth
	}
	return r.outerWidth
}

func (r *Region) String() string {
	if r.InBits {
		return fmt.Sprintf("%s %s @%d[%d:%d] w=%d",
			r.Kind(), r.Path(), r.Offset.Absolute, r.Shift+r.Width, r.Shift, r.Width)
	}
	return fmt.Sprintf("%s %s @%d+%d dw=%d", r.Kind(), r.Path(), r.Offset.Absolute, r.Size, r.DataWidth)
}
