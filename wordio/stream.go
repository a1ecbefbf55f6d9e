package wordio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/esnet/regio/layout"
)

// StreamIO accesses words of a regular file with positioned reads and
// writes. It has no batching; every access is one read or write call.
type StreamIO struct {
	log       logger.Logger
	path      string
	fileSize  int64
	dataWidth uint64
	opts      MmapOptions
	order     binary.ByteOrder

	f *os.File
}

// NewFileStreamIO creates a StreamIO over the file at path. Start creates the
// file if needed and extends it to fileSize bytes. Only WithOffset and
// WithEndian apply.
func NewFileStreamIO(log logger.Logger, path string, fileSize int64, dataWidth uint64, opts ...MmapOption) (*StreamIO, error) {
	if err := checkDataWidth(dataWidth); err != nil {
		return nil, err
	}
	s := &StreamIO{
		log:       log,
		path:      path,
		fileSize:  fileSize,
		dataWidth: dataWidth,
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if s.opts.Offset%(dataWidth/8) != 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrUnaligned, s.opts.Offset)
	}
	s.order = s.opts.Endian.ByteOrder()
	return s, nil
}

// NewFileStreamIOForRegion creates a StreamIO sized to hold r.
func NewFileStreamIOForRegion(log logger.Logger, path string, r *layout.Region, opts ...MmapOption) (*StreamIO, error) {
	return NewFileStreamIO(log, path, int64(r.ByteSize()), r.DataWidth, opts...)
}

func (s *StreamIO) DataWidth() uint64 { return s.dataWidth }

func (s *StreamIO) Start() error {
	if s.f != nil {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMap, err)
	}
	if err := presize(f, s.fileSize+int64(s.opts.Offset)); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrMap, err)
	}
	s.f = f
	if s.log != nil {
		s.log.Debugf("stream %s: started, %d bit words at offset %d", s.path, s.dataWidth, s.opts.Offset)
	}
	return nil
}

func (s *StreamIO) Stop() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *StreamIO) access(offset, size uint64) (int64, []byte, error) {
	if s.f == nil {
		return 0, nil, ErrNotStarted
	}
	if err := checkAccess(s.dataWidth, size); err != nil {
		return 0, nil, err
	}
	wb := s.dataWidth / 8
	if offset > (math.MaxInt64-s.opts.Offset)/wb-size {
		return 0, nil, fmt.Errorf("%w: %d words at %d", ErrOutOfWindow, size, offset)
	}
	return int64(s.opts.Offset + offset*wb), make([]byte, size*wb), nil
}

func (s *StreamIO) decode(buf []byte) uint64 {
	wb := s.dataWidth / 8
	var value uint64
	for i := uint64(0); i < uint64(len(buf))/wb; i++ {
		value |= getWord(s.order, buf[i*wb:], s.dataWidth) << (i * s.dataWidth)
	}
	return value
}

func (s *StreamIO) encode(buf []byte, value uint64) {
	wb := s.dataWidth / 8
	for i := uint64(0); i < uint64(len(buf))/wb; i++ {
		putWord(s.order, buf[i*wb:], s.dataWidth, value>>(i*s.dataWidth))
	}
}

func (s *StreamIO) Read(offset, size uint64) (uint64, error) {
	pos, buf, err := s.access(offset, size)
	if err != nil {
		return 0, err
	}
	if _, err := s.f.ReadAt(buf, pos); err != nil {
		return 0, fmt.Errorf("%w: words [%d, %d): %v", ErrOutOfWindow, offset, offset+size, err)
	}
	return s.decode(buf), nil
}

func (s *StreamIO) Write(offset, size, value uint64) error {
	pos, buf, err := s.access(offset, size)
	if err != nil {
		return err
	}
	s.encode(buf, value)
	_, err = s.f.WriteAt(buf, pos)
	return err
}

func (s *StreamIO) Update(offset, size, clrMask, setMask uint64) error {
	v, err := s.Read(offset, size)
	if err != nil {
		return err
	}
	return s.Write(offset, size, (v&^clrMask)|setMask)
}

// presize extends f to at least size bytes.
func presize(f *os.File, size int64) error {
	if size <= 0 {
		return nil
	}
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.Size() >= size {
		return nil
	}
	return f.Truncate(size)
}
