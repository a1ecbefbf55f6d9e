package wordio

import (
	"fmt"

	"github.com/esnet/regio/layout"
)

// ListIO is a fixed size table of words held in memory.
type ListIO struct {
	dataWidth uint64
	words     []uint64
	started   bool
}

// NewListIO creates a table of size words of dataWidth bits.
func NewListIO(dataWidth, size uint64) (*ListIO, error) {
	if err := checkDataWidth(dataWidth); err != nil {
		return nil, err
	}
	return &ListIO{dataWidth: dataWidth, words: make([]uint64, size)}, nil
}

// NewListIOForRegion creates a table large enough to hold r.
func NewListIOForRegion(r *layout.Region) (*ListIO, error) {
	return NewListIO(r.DataWidth, r.Size)
}

// Start zeroes the table, unless already started.
func (l *ListIO) Start() error {
	if l.started {
		return nil
	}
	clear(l.words)
	l.started = true
	return nil
}

func (l *ListIO) Stop() error {
	l.started = false
	return nil
}

func (l *ListIO) DataWidth() uint64 { return l.dataWidth }

// Words returns the table.
func (l *ListIO) Words() []uint64 { return l.words }

func (l *ListIO) check(offset, size uint64) error {
	if err := checkAccess(l.dataWidth, size); err != nil {
		return err
	}
	words := uint64(len(l.words))
	if offset > words || size > words-offset {
		return fmt.Errorf("%w: %d words at %d of %d", ErrOutOfWindow, size, offset, words)
	}
	return nil
}

func (l *ListIO) Read(offset, size uint64) (uint64, error) {
	if err := l.check(offset, size); err != nil {
		return 0, err
	}
	var value uint64
	for i := uint64(0); i < size; i++ {
		value |= l.words[offset+i] << (i * l.dataWidth)
	}
	return value, nil
}

func (l *ListIO) Write(offset, size, value uint64) error {
	if err := l.check(offset, size); err != nil {
		return err
	}
	wmask := layout.Mask(l.dataWidth)
	for i := uint64(0); i < size; i++ {
		l.words[offset+i] = (value >> (i * l.dataWidth)) & wmask
	}
	return nil
}

func (l *ListIO) Update(offset, size, clrMask, setMask uint64) error {
	if err := l.check(offset, size); err != nil {
		return err
	}
	for i := uint64(0); i < size; i++ {
		w := &l.words[offset+i]
		*w = updateWord(*w, i*l.dataWidth, l.dataWidth, clrMask, setMask)
	}
	return nil
}

// MapIO is a sparse word store. Words never written read as zero.
type MapIO struct {
	dataWidth uint64
	words     map[uint64]uint64
	started   bool
}

func NewMapIO(dataWidth uint64) (*MapIO, error) {
	if err := checkDataWidth(dataWidth); err != nil {
		return nil, err
	}
	return &MapIO{dataWidth: dataWidth, words: make(map[uint64]uint64)}, nil
}

// Start empties the store, unless already started.
func (m *MapIO) Start() error {
	if m.started {
		return nil
	}
	clear(m.words)
	m.started = true
	return nil
}

func (m *MapIO) Stop() error {
	m.started = false
	return nil
}

func (m *MapIO) DataWidth() uint64 { return m.dataWidth }

// Words returns a copy of the words written so far.
func (m *MapIO) Words() map[uint64]uint64 {
	words := make(map[uint64]uint64, len(m.words))
	for k, v := range m.words {
		words[k] = v
	}
	return words
}

func (m *MapIO) Read(offset, size uint64) (uint64, error) {
	if err := checkAccess(m.dataWidth, size); err != nil {
		return 0, err
	}
	var value uint64
	for i := uint64(0); i < size; i++ {
		value |= m.words[offset+i] << (i * m.dataWidth)
	}
	return value, nil
}

func (m *MapIO) Write(offset, size, value uint64) error {
	if err := checkAccess(m.dataWidth, size); err != nil {
		return err
	}
	wmask := layout.Mask(m.dataWidth)
	for i := uint64(0); i < size; i++ {
		m.words[offset+i] = (value >> (i * m.dataWidth)) & wmask
	}
	return nil
}

func (m *MapIO) Update(offset, size, clrMask, setMask uint64) error {
	if err := checkAccess(m.dataWidth, size); err != nil {
		return err
	}
	for i := uint64(0); i < size; i++ {
		m.words[offset+i] = updateWord(m.words[offset+i], i*m.dataWidth, m.dataWidth, clrMask, setMask)
	}
	return nil
}

// ZeroIO reads zero and discards writes.
type ZeroIO struct {
	dataWidth uint64
}

func NewZeroIO(dataWidth uint64) (*ZeroIO, error) {
	if err := checkDataWidth(dataWidth); err != nil {
		return nil, err
	}
	return &ZeroIO{dataWidth: dataWidth}, nil
}

func (z *ZeroIO) Start() error      { return nil }
func (z *ZeroIO) Stop() error       { return nil }
func (z *ZeroIO) DataWidth() uint64 { return z.dataWidth }

func (z *ZeroIO) Read(offset, size uint64) (uint64, error) {
	return 0, checkAccess(z.dataWidth, size)
}

func (z *ZeroIO) Write(offset, size, value uint64) error {
	return checkAccess(z.dataWidth, size)
}

func (z *ZeroIO) Update(offset, size, clrMask, setMask uint64) error {
	return checkAccess(z.dataWidth, size)
}
