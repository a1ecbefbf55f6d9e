package regiotesting

import "github.com/stretchr/testify/assert"

type CallCounter struct {
	MethodCalls map[string]int
}

func (r *CallCounter) IncMethodCall(name string) int {
	if r.MethodCalls == nil {
		r.MethodCalls = make(map[string]int)
	}
	r.MethodCalls[name]++
	return r.MethodCalls[name]
}

func (r *CallCounter) Reset() {
	r.MethodCalls = make(map[string]int)
}

func (r *CallCounter) MethodCallCount(name string) int {
	return r.MethodCalls[name]
}

// Access is one recorded word access.
type Access struct {
	Method string
	Offset uint64
	Size   uint64
	Value  uint64
	Clr    uint64
}

// RecordingIO is a sparse word store that records every access made to it,
// in order. It satisfies wordio.IO.
type RecordingIO struct {
	CallCounter
	Width    uint64
	Words    map[uint64]uint64
	Accesses []Access
}

func NewRecordingIO(dataWidth uint64) *RecordingIO {
	return &RecordingIO{Width: dataWidth, Words: make(map[uint64]uint64)}
}

func (r *RecordingIO) Start() error {
	r.IncMethodCall("Start")
	return nil
}

func (r *RecordingIO) Stop() error {
	r.IncMethodCall("Stop")
	return nil
}

func (r *RecordingIO) DataWidth() uint64 { return r.Width }

func (r *RecordingIO) wordMask() uint64 {
	if r.Width >= 64 {
		return ^uint64(0)
	}
	return 1<<r.Width - 1
}

func (r *RecordingIO) Read(offset, size uint64) (uint64, error) {
	r.IncMethodCall("Read")
	var value uint64
	for i := uint64(0); i < size; i++ {
		value |= r.Words[offset+i] << (i * r.Width)
	}
	r.Accesses = append(r.Accesses, Access{Method: "Read", Offset: offset, Size: size, Value: value})
	return value, nil
}

func (r *RecordingIO) Write(offset, size, value uint64) error {
	r.IncMethodCall("Write")
	r.Accesses = append(r.Accesses, Access{Method: "Write", Offset: offset, Size: size, Value: value})
	for i := uint64(0); i < size; i++ {
		r.Words[offset+i] = (value >> (i * r.Width)) & r.wordMask()
	}
	return nil
}

func (r *RecordingIO) Update(offset, size, clrMask, setMask uint64) error {
	r.IncMethodCall("Update")
	r.Accesses = append(r.Accesses, Access{Method: "Update", Offset: offset, Size: size, Value: setMask, Clr: clrMask})
	for i := uint64(0); i < size; i++ {
		shift := i * r.Width
		w := r.Words[offset+i]
		w &^= (clrMask >> shift) & r.wordMask()
		w |= (setMask >> shift) & r.wordMask()
		r.Words[offset+i] = w
	}
	return nil
}

// Offsets returns the offsets accessed by method, in order.
func (r *RecordingIO) Offsets(method string) []uint64 {
	var offsets []uint64
	for _, a := range r.Accesses {
		if a.Method == method {
			offsets = append(offsets, a.Offset)
		}
	}
	return offsets
}

// AssertNoAccess fails the test if any access by method was recorded.
func (r *RecordingIO) AssertNoAccess(t assert.TestingT, method string) bool {
	return assert.Empty(t, r.Offsets(method), "unexpected %s accesses", method)
}
