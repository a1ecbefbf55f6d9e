package wordio

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"unsafe"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/esnet/regio/layout"
	"golang.org/x/sys/unix"
)

type MmapOptions struct {
	// Offset is the byte offset of the window in the resource.
	Offset uint64
	// Size is the byte size of the window. Zero maps to the end of the
	// resource.
	Size      uint64
	Endian    Endian
	BulkWidth uint64
}

type MmapOption func(*MmapOptions)

func WithOffset(offset uint64) MmapOption {
	return func(o *MmapOptions) { o.Offset = offset }
}

func WithSize(size uint64) MmapOption {
	return func(o *MmapOptions) { o.Size = size }
}

func WithEndian(endian Endian) MmapOption {
	return func(o *MmapOptions) { o.Endian = endian }
}

// WithBulkWidth sets the width, in bits, of the accesses used to batch
// aligned runs of words. It defaults to the machine word.
func WithBulkWidth(width uint64) MmapOption {
	return func(o *MmapOptions) { o.BulkWidth = width }
}

// MmapIO accesses the words of a memory mapped resource: a device resource
// such as a PCI BAR, or a regular file.
type MmapIO struct {
	log       logger.Logger
	path      string
	fileSize  int64
	dataWidth uint64
	opts      MmapOptions
	order     binary.ByteOrder

	mapping []byte
	window  []byte

	// transactions counts hardware loads and stores.
	transactions uint64
}

// NewDeviceMmapIO maps an existing resource. The resource is never resized.
func NewDeviceMmapIO(log logger.Logger, path string, dataWidth uint64, opts ...MmapOption) (*MmapIO, error) {
	return newMmapIO(log, path, 0, dataWidth, opts...)
}

// NewFileMmapIO maps a regular file, creating it and extending it to hold
// fileSize bytes past the window offset on Start.
func NewFileMmapIO(log logger.Logger, path string, fileSize int64, dataWidth uint64, opts ...MmapOption) (*MmapIO, error) {
	return newMmapIO(log, path, fileSize, dataWidth, opts...)
}

// NewFileMmapIOForRegion maps a regular file sized to hold r.
func NewFileMmapIOForRegion(log logger.Logger, path string, r *layout.Region, opts ...MmapOption) (*MmapIO, error) {
	return NewFileMmapIO(log, path, int64(r.ByteSize()), r.DataWidth, opts...)
}

func newMmapIO(log logger.Logger, path string, fileSize int64, dataWidth uint64, opts ...MmapOption) (*MmapIO, error) {
	if err := checkDataWidth(dataWidth); err != nil {
		return nil, err
	}
	m := &MmapIO{
		log:       log,
		path:      path,
		fileSize:  fileSize,
		dataWidth: dataWidth,
		opts: MmapOptions{
			BulkWidth: max(uint64(strconv.IntSize), dataWidth),
		},
	}
	for _, opt := range opts {
		opt(&m.opts)
	}
	bw := m.opts.BulkWidth
	if checkDataWidth(bw) != nil || bw < dataWidth {
		return nil, fmt.Errorf("%w: %d for %d bit words", ErrBulkWidth, bw, dataWidth)
	}
	if m.opts.Offset%(dataWidth/8) != 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrUnaligned, m.opts.Offset)
	}
	m.order = m.opts.Endian.ByteOrder()
	return m, nil
}

func (m *MmapIO) DataWidth() uint64 { return m.dataWidth }

// BulkWidth returns the width of batched accesses in bits.
func (m *MmapIO) BulkWidth() uint64 { return m.opts.BulkWidth }

// Transactions returns the number of loads and stores issued so far.
func (m *MmapIO) Transactions() uint64 { return m.transactions }

// Start maps the window. The mapping starts at the page boundary at or
// before the window offset. The file descriptor is not kept open.
func (m *MmapIO) Start() error {
	if m.mapping != nil {
		return nil
	}

	flags := os.O_RDWR
	if m.fileSize > 0 {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(m.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMap, err)
	}
	defer f.Close()

	if m.fileSize > 0 {
		if err := presize(f, m.fileSize+int64(m.opts.Offset)); err != nil {
			return fmt.Errorf("%w: %v", ErrMap, err)
		}
	}

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMap, err)
	}
	size := m.opts.Size
	if size == 0 && uint64(fi.Size()) > m.opts.Offset {
		size = uint64(fi.Size()) - m.opts.Offset
	}
	if size == 0 {
		return fmt.Errorf("%w: %s", ErrNoSize, m.path)
	}
	// mapped pages past the end of a regular file fault on access
	if fi.Mode().IsRegular() && m.opts.Offset+size > uint64(fi.Size()) {
		return fmt.Errorf("%w: window [%d, %d) of %s, %d bytes",
			ErrWindowSize, m.opts.Offset, m.opts.Offset+size, m.path, fi.Size())
	}

	page := uint64(unix.Getpagesize())
	base := m.opts.Offset / page * page
	remainder := m.opts.Offset - base

	mapping, err := unix.Mmap(int(f.Fd()), int64(base), int(remainder+size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMap, m.path, err)
	}
	m.mapping = mapping
	m.window = mapping[remainder : remainder+size]

	if m.log != nil {
		m.log.Debugf("mmap %s: window [%d, %d), page base %d, %d bit words, %d bit bulk, %s endian",
			m.path, m.opts.Offset, m.opts.Offset+size, base, m.dataWidth, m.opts.BulkWidth, m.opts.Endian)
	}
	return nil
}

// Stop unmaps the window.
func (m *MmapIO) Stop() error {
	if m.mapping == nil {
		return nil
	}
	err := unix.Munmap(m.mapping)
	m.mapping = nil
	m.window = nil
	if err != nil {
		return fmt.Errorf("%w: unmap %s: %w", ErrMap, m.path, err)
	}
	return nil
}

// accessPlan splits an access into single word accesses until the first bulk
// boundary, whole bulk accesses, and single word accesses for the rest.
type accessPlan struct {
	head uint64
	bulk uint64
	tail uint64
}

// planAccess plans an access of size words of dw bits at byte address addr
// for bulk units of bw bits.
func planAccess(addr, size, dw, bw uint64) accessPlan {
	if bw == dw {
		return accessPlan{bulk: size}
	}
	wb, bb := dw/8, bw/8
	var p accessPlan
	if rem := addr % bb; rem != 0 {
		p.head = min((bb-rem)/wb, size)
	}
	perBulk := bw / dw
	p.bulk = (size - p.head) / perBulk
	p.tail = size - p.head - p.bulk*perBulk
	return p
}

func (m *MmapIO) check(offset, size uint64) error {
	if m.window == nil {
		return ErrNotStarted
	}
	if err := checkAccess(m.dataWidth, size); err != nil {
		return err
	}
	words := uint64(len(m.window)) / (m.dataWidth / 8)
	if offset > words || size > words-offset {
		return fmt.Errorf("%w: %d words at %d of %d", ErrOutOfWindow, size, offset, words)
	}
	return nil
}

// load issues one load of width bits at byte position pos of the window and
// returns the raw, native ordered value.
func (m *MmapIO) load(pos, width uint64) uint64 {
	m.transactions++
	p := unsafe.Pointer(&m.window[pos])
	switch width {
	case 8:
		return uint64(*(*uint8)(p))
	case 16:
		return uint64(*(*uint16)(p))
	case 32:
		return uint64(atomic.LoadUint32((*uint32)(p)))
	}
	return atomic.LoadUint64((*uint64)(p))
}

// store issues one store of width bits of the raw, native ordered value.
func (m *MmapIO) store(pos, width, v uint64) {
	m.transactions++
	p := unsafe.Pointer(&m.window[pos])
	switch width {
	case 8:
		*(*uint8)(p) = uint8(v)
	case 16:
		*(*uint16)(p) = uint16(v)
	case 32:
		atomic.StoreUint32((*uint32)(p), uint32(v))
	default:
		atomic.StoreUint64((*uint64)(p), v)
	}
}

// unit is the content of one transaction as bytes in memory order.
type unit [8]byte

func (m *MmapIO) loadUnit(pos, width uint64) unit {
	var u unit
	putWord(binary.NativeEndian, u[:], width, m.load(pos, width))
	return u
}

func (m *MmapIO) storeUnit(pos, width uint64, u unit) {
	m.store(pos, width, getWord(binary.NativeEndian, u[:], width))
}

// transfer walks the words of an access one transaction at a time. fn is
// called once per transaction with its window position, its width, the number
// of words it holds and the bit shift of its first word within the value.
func (m *MmapIO) transfer(offset, size uint64, fn func(pos, width, words, shift uint64)) {
	dw, bw := m.dataWidth, m.opts.BulkWidth
	wb := dw / 8
	pos := offset * wb
	plan := planAccess(m.opts.Offset+pos, size, dw, bw)

	var shift uint64
	step := func(width, words uint64) {
		fn(pos, width, words, shift)
		pos += width / 8
		shift += words * dw
	}
	for i := uint64(0); i < plan.head; i++ {
		step(dw, 1)
	}
	for i := uint64(0); i < plan.bulk; i++ {
		step(bw, bw/dw)
	}
	for i := uint64(0); i < plan.tail; i++ {
		step(dw, 1)
	}
}

func (m *MmapIO) Read(offset, size uint64) (uint64, error) {
	if err := m.check(offset, size); err != nil {
		return 0, err
	}
	dw, wb := m.dataWidth, m.dataWidth/8
	var value uint64
	m.transfer(offset, size, func(pos, width, words, shift uint64) {
		u := m.loadUnit(pos, width)
		for k := uint64(0); k < words; k++ {
			value |= getWord(m.order, u[k*wb:], dw) << (shift + k*dw)
		}
	})
	return value, nil
}

func (m *MmapIO) Write(offset, size, value uint64) error {
	if err := m.check(offset, size); err != nil {
		return err
	}
	dw, wb := m.dataWidth, m.dataWidth/8
	m.transfer(offset, size, func(pos, width, words, shift uint64) {
		var u unit
		for k := uint64(0); k < words; k++ {
			putWord(m.order, u[k*wb:], dw, value>>(shift+k*dw))
		}
		m.storeUnit(pos, width, u)
	})
	return nil
}

func (m *MmapIO) Update(offset, size, clrMask, setMask uint64) error {
	if err := m.check(offset, size); err != nil {
		return err
	}
	dw, wb := m.dataWidth, m.dataWidth/8
	m.transfer(offset, size, func(pos, width, words, shift uint64) {
		u := m.loadUnit(pos, width)
		for k := uint64(0); k < words; k++ {
			s := shift + k*dw
			w := getWord(m.order, u[k*wb:], dw)
			putWord(m.order, u[k*wb:], dw, updateWord(w, s, dw, clrMask, setMask))
		}
		m.storeUnit(pos, width, u)
	})
	return nil
}
