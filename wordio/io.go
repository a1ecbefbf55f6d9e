package wordio

import (
	"encoding/binary"
	"fmt"

	"github.com/esnet/regio/layout"
)

// IO is word addressed access to a register map. Offsets and sizes count
// words of DataWidth bits.
type IO interface {
	Start() error
	Stop() error
	DataWidth() uint64
	Read(offset, size uint64) (uint64, error)
	Write(offset, size, value uint64) error
	// Update clears the bits of clrMask, then sets the bits of setMask.
	Update(offset, size, clrMask, setMask uint64) error
}

// Endian selects the byte order of the words of an IO.
type Endian int

const (
	Native Endian = iota
	Little
	Big
)

func (e Endian) String() string {
	switch e {
	case Little:
		return "little"
	case Big:
		return "big"
	}
	return "native"
}

// ByteOrder returns the encoding/binary order for the endianness.
func (e Endian) ByteOrder() binary.ByteOrder {
	switch e {
	case Little:
		return binary.LittleEndian
	case Big:
		return binary.BigEndian
	}
	return binary.NativeEndian
}

func checkDataWidth(dw uint64) error {
	switch dw {
	case 8, 16, 32, 64:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrDataWidth, dw)
}

func checkAccess(dw, size uint64) error {
	if size*dw > 64 {
		return fmt.Errorf("%w: %d words of %d bits", ErrAccessTooWide, size, dw)
	}
	return nil
}

// getWord decodes a word of width bits from the start of b.
func getWord(order binary.ByteOrder, b []byte, width uint64) uint64 {
	switch width {
	case 8:
		return uint64(b[0])
	case 16:
		return uint64(order.Uint16(b))
	case 32:
		return uint64(order.Uint32(b))
	}
	return order.Uint64(b)
}

// putWord encodes a word of width bits at the start of b.
func putWord(order binary.ByteOrder, b []byte, width, v uint64) {
	switch width {
	case 8:
		b[0] = byte(v)
	case 16:
		order.PutUint16(b, uint16(v))
	case 32:
		order.PutUint32(b, uint32(v))
	default:
		order.PutUint64(b, v)
	}
}

// updateWord applies the part of the clear and set masks that falls on the
// word at shift.
func updateWord(w, shift, dw, clrMask, setMask uint64) uint64 {
	wmask := layout.Mask(dw)
	clr := (clrMask >> shift) & wmask
	set := (setMask >> shift) & wmask
	return (w &^ clr) | set
}

// regionAccess returns the word offset and size of r, checking that r is
// counted in words of the io and that its value fits 64 bits.
func regionAccess(io IO, r *layout.Region) (uint64, uint64, error) {
	if r.DataWidth != io.DataWidth() {
		return 0, 0, fmt.Errorf("%w: %s has %d bits, io has %d",
			ErrDataWidthMismatch, r.Path(), r.DataWidth, io.DataWidth())
	}
	if r.Width > 64 {
		return 0, 0, fmt.Errorf("%w: %s is %d bits wide", ErrAccessTooWide, r.Path(), r.Width)
	}
	off, size := r.Words()
	return off, size, nil
}

// regionChunk is a run of at most 64 bits of the words of a region. pos is
// the bit position of the run within the region.
type regionChunk struct {
	offset, size uint64
	pos          uint64
}

// regionChunks splits the words of r into runs no wider than 64 bits.
func regionChunks(off, size, dw uint64) []regionChunk {
	per := 64 / dw
	chunks := make([]regionChunk, 0, (size+per-1)/per)
	for i := uint64(0); i < size; i += per {
		n := min(per, size-i)
		chunks = append(chunks, regionChunk{offset: off + i, size: n, pos: i * dw})
	}
	return chunks
}

// toChunk moves the region value x, placed at bit shift, onto the bits of c.
func toChunk(c regionChunk, shift, dw, x uint64) uint64 {
	var v uint64
	if c.pos >= shift {
		v = x >> (c.pos - shift)
	} else {
		v = x << (shift - c.pos)
	}
	return v & layout.Mask(c.size*dw)
}

// fromChunk is the inverse of toChunk.
func fromChunk(c regionChunk, shift, v uint64) uint64 {
	if c.pos >= shift {
		return v << (c.pos - shift)
	}
	return v >> (shift - c.pos)
}

// ReadRegion reads the value of r, shifted down and masked to its width.
// Regions whose words span more than 64 bits are read in several accesses.
func ReadRegion(io IO, r *layout.Region) (uint64, error) {
	off, size, err := regionAccess(io, r)
	if err != nil {
		return 0, err
	}
	var value uint64
	for _, c := range regionChunks(off, size, r.DataWidth) {
		v, err := io.Read(c.offset, c.size)
		if err != nil {
			return 0, err
		}
		value |= fromChunk(c, r.Shift, v)
	}
	return value & layout.Mask(r.Width), nil
}

// WriteRegion writes value to r. Words covered entirely by the region are
// stored directly; words shared with other regions are read, modified and
// written so their bits outside the region are preserved.
func WriteRegion(io IO, r *layout.Region, value uint64) error {
	off, size, err := regionAccess(io, r)
	if err != nil {
		return err
	}
	mask := layout.Mask(r.Width)
	for _, c := range regionChunks(off, size, r.DataWidth) {
		cm := toChunk(c, r.Shift, r.DataWidth, mask)
		cv := toChunk(c, r.Shift, r.DataWidth, value&mask)
		if cm == layout.Mask(c.size*r.DataWidth) {
			err = io.Write(c.offset, c.size, cv)
		} else {
			err = io.Update(c.offset, c.size, cm, cv)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateRegion clears then sets bits of r. Both masks are relative to the
// region and are confined to its width.
func UpdateRegion(io IO, r *layout.Region, clrMask, setMask uint64) error {
	off, size, err := regionAccess(io, r)
	if err != nil {
		return err
	}
	mask := layout.Mask(r.Width)
	for _, c := range regionChunks(off, size, r.DataWidth) {
		clr := toChunk(c, r.Shift, r.DataWidth, clrMask&mask)
		set := toChunk(c, r.Shift, r.DataWidth, setMask&mask)
		if err := io.Update(c.offset, c.size, clr, set); err != nil {
			return err
		}
	}
	return nil
}
