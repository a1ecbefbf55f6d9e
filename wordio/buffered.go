package wordio

import (
	"fmt"
	"slices"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/esnet/regio/layout"
	"github.com/google/uuid"
)

type BufferedOptions struct {
	defaultValue uint64
	hasDefault   bool
}

type BufferedOption func(*BufferedOptions)

// WithDefault makes reads of offsets that are not buffered return v instead
// of loading from the wrapped IO.
func WithDefault(v uint64) BufferedOption {
	return func(o *BufferedOptions) {
		o.defaultValue = v
		o.hasDefault = true
	}
}

// BufferedIO holds a snapshot of accessed words in front of another IO.
// Words are buffered one by one so accesses of different sizes over the
// same words share their values. Writes are only buffered; Sync commits
// them. Each buffered epoch is identified by a transaction id which Drop
// renews.
type BufferedIO struct {
	log    logger.Logger
	io     IO
	opts   BufferedOptions
	buffer map[uint64]uint64
	txid   uuid.UUID
}

func NewBufferedIO(log logger.Logger, io IO, opts ...BufferedOption) *BufferedIO {
	b := &BufferedIO{
		log:    log,
		io:     io,
		buffer: make(map[uint64]uint64),
		txid:   uuid.New(),
	}
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

func (b *BufferedIO) Start() error      { return b.io.Start() }
func (b *BufferedIO) Stop() error       { return b.io.Stop() }
func (b *BufferedIO) DataWidth() uint64 { return b.io.DataWidth() }

// TransactionID identifies the current buffer epoch.
func (b *BufferedIO) TransactionID() uuid.UUID { return b.txid }

// Len returns the number of buffered words.
func (b *BufferedIO) Len() int { return len(b.buffer) }

// compose joins size words starting at offset, least significant first.
// The second result is false when a word is neither buffered nor covered by
// the default.
func (b *BufferedIO) compose(offset, size uint64) (uint64, bool) {
	dw := b.io.DataWidth()
	var value uint64
	for i := uint64(0); i < size; i++ {
		w, ok := b.buffer[offset+i]
		if !ok {
			if !b.opts.hasDefault {
				return 0, false
			}
			w = b.opts.defaultValue & layout.Mask(dw)
		}
		value |= w << (i * dw)
	}
	return value, true
}

func (b *BufferedIO) put(offset, size, value uint64) {
	dw := b.io.DataWidth()
	wmask := layout.Mask(dw)
	for i := uint64(0); i < size; i++ {
		b.buffer[offset+i] = (value >> (i * dw)) & wmask
	}
}

// Read serves buffered words first. Words that are not buffered take the
// default when one is configured. Otherwise each contiguous run of missing
// words is loaded from the wrapped IO once and buffered.
func (b *BufferedIO) Read(offset, size uint64) (uint64, error) {
	if err := checkAccess(b.io.DataWidth(), size); err != nil {
		return 0, err
	}
	if v, ok := b.compose(offset, size); ok {
		return v, nil
	}
	for i := uint64(0); i < size; {
		if _, ok := b.buffer[offset+i]; ok {
			i++
			continue
		}
		n := uint64(1)
		for i+n < size {
			if _, ok := b.buffer[offset+i+n]; ok {
				break
			}
			n++
		}
		if _, err := b.Load(offset+i, n); err != nil {
			return 0, err
		}
		i += n
	}
	v, _ := b.compose(offset, size)
	return v, nil
}

// Write buffers value. The wrapped IO is not touched.
func (b *BufferedIO) Write(offset, size, value uint64) error {
	if err := checkAccess(b.io.DataWidth(), size); err != nil {
		return err
	}
	b.put(offset, size, value)
	return nil
}

// Update modifies the buffered value, reading it first if necessary.
func (b *BufferedIO) Update(offset, size, clrMask, setMask uint64) error {
	v, err := b.Read(offset, size)
	if err != nil {
		return err
	}
	return b.Write(offset, size, (v&^clrMask)|setMask)
}

// Load reads from the wrapped IO, replacing any buffered words.
func (b *BufferedIO) Load(offset, size uint64) (uint64, error) {
	v, err := b.io.Read(offset, size)
	if err != nil {
		return 0, err
	}
	b.put(offset, size, v)
	return v, nil
}

// Store buffers value and writes it through to the wrapped IO.
func (b *BufferedIO) Store(offset, size, value uint64) error {
	if err := b.Write(offset, size, value); err != nil {
		return err
	}
	return b.io.Write(offset, size, value)
}

// Sync writes every buffered word to the wrapped IO in ascending offset
// order. The buffer is kept.
func (b *BufferedIO) Sync() error {
	offsets := make([]uint64, 0, len(b.buffer))
	for offset := range b.buffer {
		offsets = append(offsets, offset)
	}
	slices.Sort(offsets)

	for _, offset := range offsets {
		if err := b.io.Write(offset, 1, b.buffer[offset]); err != nil {
			return fmt.Errorf("sync %s: offset %d: %w", b.txid, offset, err)
		}
	}
	if b.log != nil {
		b.log.Debugf("sync %s: %d buffered words", b.txid, len(offsets))
	}
	return nil
}

// Drop discards the buffer and starts a new transaction.
func (b *BufferedIO) Drop() {
	if b.log != nil && len(b.buffer) > 0 {
		b.log.Debugf("drop %s: %d buffered words", b.txid, len(b.buffer))
	}
	clear(b.buffer)
	b.txid = uuid.New()
}

// Flush syncs then drops the buffer.
func (b *BufferedIO) Flush() error {
	if err := b.Sync(); err != nil {
		return err
	}
	b.Drop()
	return nil
}
