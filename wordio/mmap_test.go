package wordio

import (
	"os"
	"testing"

	"github.com/esnet/regio/regiotesting"
	"github.com/esnet/regio/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanAccess(t *testing.T) {
	tests := []struct {
		name      string
		addr      uint64
		size      uint64
		dw, bw    uint64
		wantPlan  accessPlan
		wantWords uint64
	}{
		{"aligned bulk", 0, 8, 8, 64, accessPlan{bulk: 1}, 8},
		{"misaligned head and tail", 1, 8, 8, 64, accessPlan{head: 7, tail: 1}, 8},
		{"head bulk tail", 6, 4, 16, 32, accessPlan{head: 1, bulk: 1, tail: 1}, 4},
		{"same widths", 4, 2, 32, 32, accessPlan{bulk: 2}, 2},
		{"head capped by size", 4, 1, 32, 64, accessPlan{head: 1}, 1},
		{"two bulk units", 0, 4, 16, 32, accessPlan{bulk: 2}, 4},
		{"empty", 0, 0, 8, 64, accessPlan{}, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := planAccess(test.addr, test.size, test.dw, test.bw)
			assert.Equal(t, test.wantPlan, p)
			assert.Equal(t, test.wantWords, p.head+p.bulk*test.bw/test.dw+p.tail)
		})
	}
}

func patternFile(tc *regiotesting.TestContext, name string, size int) (string, []byte) {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	return tc.CreateFile(name, data), data
}

func TestMmapBatchingEquivalence(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	path, data := patternFile(&tc, "regs.bin", 64)

	for _, dw := range []uint64{8, 16, 32} {
		m, err := NewFileMmapIO(tc.Log, path, 64, dw, WithBulkWidth(64), WithEndian(Little))
		require.NoError(t, err)
		require.NoError(t, m.Start())

		wb := dw / 8
		words := uint64(len(data)) / wb
		for offset := uint64(0); offset < words; offset++ {
			for size := uint64(1); size*dw <= 64 && offset+size <= words; size++ {
				got, err := m.Read(offset, size)
				require.NoError(t, err)

				var want uint64
				for i := uint64(0); i < size; i++ {
					w, err := m.Read(offset+i, 1)
					require.NoError(t, err)
					want |= w << (i * dw)
				}
				assert.Equal(t, want, got, "dw=%d offset=%d size=%d", dw, offset, size)

				var fromBytes uint64
				for i := uint64(0); i < size*wb; i++ {
					fromBytes |= uint64(data[offset*wb+i]) << (8 * i)
				}
				assert.Equal(t, fromBytes, got, "dw=%d offset=%d size=%d", dw, offset, size)
			}
		}
		require.NoError(t, m.Stop())
	}
}

func TestMmapOneTransactionPerUnit(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	path, _ := patternFile(&tc, "regs.bin", 64)

	m, err := NewFileMmapIO(tc.Log, path, 64, 8, WithBulkWidth(64))
	require.NoError(t, err)
	require.NoError(t, m.Start())
	defer m.Stop()

	_, err = m.Read(8, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), m.Transactions())

	_, err = m.Read(9, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(1+8), m.Transactions(), "misaligned reads fall back to single words")

	require.NoError(t, m.Update(16, 8, 0xff, 0x01))
	assert.Equal(t, uint64(9+2), m.Transactions(), "one load and one store")
}

func TestMmapEndian(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	path := tc.CreateFile("be.bin", []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0})

	big, err := NewFileMmapIO(tc.Log, path, 8, 16, WithEndian(Big), WithBulkWidth(64))
	require.NoError(t, err)
	require.NoError(t, big.Start())
	defer big.Stop()

	v, err := big.Read(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1234), v)
	v, err = big.Read(0, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xdef0_9abc_5678_1234), v)

	little, err := NewFileMmapIO(tc.Log, path, 8, 16, WithEndian(Little), WithBulkWidth(16))
	require.NoError(t, err)
	require.NoError(t, little.Start())
	defer little.Stop()
	v, err = little.Read(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7856), v)

	require.NoError(t, big.Write(0, 4, 0x0102_0304_0506_0708))
	v, err = little.Read(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0807), v, "both handles share the mapping")
}

func TestMmapWritePersists(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	path := tc.Path("new.bin")

	m, err := NewFileMmapIO(tc.Log, path, 16, 8, WithEndian(Little))
	require.NoError(t, err)
	require.NoError(t, m.Start())
	require.NoError(t, m.Write(1, 2, 0xbeef))
	require.NoError(t, m.Update(4, 1, 0x0f, 0x05))
	require.NoError(t, m.Stop())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 16, "the file is pre-sized")
	assert.Equal(t, []byte{0, 0xef, 0xbe, 0, 0x05}, data[:5])
}

func TestMmapWindowOffset(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	path, data := patternFile(&tc, "bar.bin", 3*4096)

	const offset = 4096 + 8
	m, err := NewDeviceMmapIO(tc.Log, path, 32, WithOffset(offset), WithSize(64), WithEndian(Little))
	require.NoError(t, err)
	require.NoError(t, m.Start())
	defer m.Stop()

	v, err := m.Read(1, 1)
	require.NoError(t, err)
	want := uint64(data[offset+4]) | uint64(data[offset+5])<<8 | uint64(data[offset+6])<<16 | uint64(data[offset+7])<<24
	assert.Equal(t, want, v)

	_, err = m.Read(15, 2)
	assert.ErrorIs(t, err, ErrOutOfWindow)
}

func TestMmapLifecycle(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})

	m, err := NewFileMmapIO(tc.Log, tc.Path("f.bin"), 32, 32)
	require.NoError(t, err)

	_, err = m.Read(0, 1)
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, m.Start())
	require.NoError(t, m.Start())
	_, err = m.Read(0, 3)
	assert.ErrorIs(t, err, ErrAccessTooWide)
	require.NoError(t, m.Stop())
	require.NoError(t, m.Stop())

	_, err = m.Read(0, 1)
	assert.ErrorIs(t, err, ErrNotStarted)

	missing, err := NewDeviceMmapIO(tc.Log, tc.Path("missing"), 32)
	require.NoError(t, err)
	assert.ErrorIs(t, missing.Start(), ErrMap)

	empty, err := NewDeviceMmapIO(tc.Log, tc.CreateFile("empty", nil), 32)
	require.NoError(t, err)
	assert.ErrorIs(t, empty.Start(), ErrNoSize)
}

func TestMmapOptionErrors(t *testing.T) {
	_, err := NewDeviceMmapIO(nil, "x", 16, WithBulkWidth(8))
	assert.ErrorIs(t, err, ErrBulkWidth)
	_, err = NewDeviceMmapIO(nil, "x", 16, WithBulkWidth(24))
	assert.ErrorIs(t, err, ErrBulkWidth)
	_, err = NewDeviceMmapIO(nil, "x", 32, WithOffset(2))
	assert.ErrorIs(t, err, ErrUnaligned)
	_, err = NewDeviceMmapIO(nil, "x", 7)
	assert.ErrorIs(t, err, ErrDataWidth)

	m, err := NewDeviceMmapIO(nil, "x", 16)
	require.NoError(t, err)
	assert.Equal(t, uint64(64), m.BulkWidth())
}

func TestMmapRegionAccess(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	m := compile(t, spec.AddressSpace("top", spec.Options(spec.DataWidth(32)),
		spec.Register("id", nil),
		spec.Register("ctrl", nil,
			spec.Field("en", spec.Options(spec.Width(1))),
			spec.Field("mode", spec.Options(spec.Width(3))),
		),
	))
	io, err := NewFileMmapIOForRegion(tc.Log, tc.Path("dev.bin"), m.Roots()[0])
	require.NoError(t, err)
	require.NoError(t, io.Start())
	defer io.Stop()

	require.NoError(t, WriteRegion(io, region(t, m, "top.id"), 0xcafe_f00d))
	require.NoError(t, WriteRegion(io, region(t, m, "top.ctrl.en"), 1))
	require.NoError(t, WriteRegion(io, region(t, m, "top.ctrl.mode"), 5))

	v, err := io.Read(0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0000_000b_cafe_f00d), v)
}

func TestMmapOutOfWindow(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	path, _ := patternFile(&tc, "regs.bin", 64)

	m, err := NewDeviceMmapIO(tc.Log, path, 32)
	require.NoError(t, err)
	require.NoError(t, m.Start())
	defer m.Stop()

	tests := []struct {
		name         string
		offset, size uint64
	}{
		{"past the end", 16, 1},
		{"straddles the end", 15, 2},
		{"wraps the byte position", 1 << 62, 1},
		{"wraps the word count", ^uint64(0), 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := m.Read(test.offset, test.size)
			assert.ErrorIs(t, err, ErrOutOfWindow)
			assert.ErrorIs(t, m.Write(test.offset, test.size, 0), ErrOutOfWindow)
			assert.ErrorIs(t, m.Update(test.offset, test.size, 0, 1), ErrOutOfWindow)
		})
	}
	assert.Equal(t, uint64(0), m.Transactions())
}

func TestMmapWindowPastEnd(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "MmapIO"})
	path, _ := patternFile(&tc, "regs.bin", 64)

	m, err := NewDeviceMmapIO(tc.Log, path, 32, WithSize(128))
	require.NoError(t, err)
	assert.ErrorIs(t, m.Start(), ErrWindowSize)

	m, err = NewDeviceMmapIO(tc.Log, path, 32, WithOffset(32), WithSize(64))
	require.NoError(t, err)
	assert.ErrorIs(t, m.Start(), ErrWindowSize)

	// a file io extends the file past the window offset
	f, err := NewFileMmapIO(tc.Log, tc.Path("f.bin"), 16, 32, WithOffset(8), WithEndian(Little))
	require.NoError(t, err)
	require.NoError(t, f.Start())
	require.NoError(t, f.Write(3, 1, 0x0403_0201))
	require.NoError(t, f.Stop())
	data := tc.ReadFile("f.bin")
	require.Len(t, data, 24)
	assert.Equal(t, []byte{1, 2, 3, 4}, data[20:])
}
