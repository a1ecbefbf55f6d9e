package wordio

import (
	"testing"

	"github.com/esnet/regio/regiotesting"
	"github.com/esnet/regio/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamIO(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "StreamIO"})

	s, err := NewFileStreamIO(tc.Log, tc.Path("regs.bin"), 8, 16, WithEndian(Big), WithOffset(2))
	require.NoError(t, err)

	_, err = s.Read(0, 1)
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())

	require.NoError(t, s.Write(0, 2, 0xaabb_1234))
	require.NoError(t, s.Update(1, 1, 0x00ff, 0x0011))

	v, err := s.Read(0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xaa11_1234), v)

	_, err = s.Read(0, 5)
	assert.ErrorIs(t, err, ErrAccessTooWide)
	_, err = s.Read(8, 1)
	assert.ErrorIs(t, err, ErrOutOfWindow)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	data := tc.ReadFile("regs.bin")
	require.Len(t, data, 10)
	assert.Equal(t, []byte{0, 0, 0x12, 0x34, 0xaa, 0x11}, data[:6])
}

func TestStreamIOForRegion(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "StreamIO"})
	m := compile(t, spec.AddressSpace("top", spec.Options(spec.DataWidth(32)),
		spec.Register("a", nil, spec.Field("lo", spec.Options(spec.Width(16)))),
		spec.Register("b", spec.Options(spec.Size(2))),
	))

	s, err := NewFileStreamIOForRegion(tc.Log, tc.Path("dev.bin"), m.Roots()[0], WithEndian(Little))
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	b := region(t, m, "top.b")
	require.NoError(t, WriteRegion(s, b, 0x1111_2222_3333_4444))
	require.NoError(t, WriteRegion(s, region(t, m, "top.a.lo"), 0xbeef))

	v, err := ReadRegion(s, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1111_2222_3333_4444), v)
	v, err = s.Read(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xbeef), v)

	assert.Len(t, tc.ReadFile("dev.bin"), 12)
}

func TestStreamIOErrors(t *testing.T) {
	tc := regiotesting.NewTestContext(t, regiotesting.TestConfig{TestLabelPrefix: "StreamIO"})

	missing, err := NewFileStreamIO(tc.Log, tc.Path("no/such/dir/regs.bin"), 8, 32)
	require.NoError(t, err)
	assert.ErrorIs(t, missing.Start(), ErrMap)

	s, err := NewFileStreamIO(tc.Log, tc.Path("regs.bin"), 8, 32)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	_, err = s.Read(1<<62, 1)
	assert.ErrorIs(t, err, ErrOutOfWindow)
	assert.ErrorIs(t, s.Write(^uint64(0), 1, 0), ErrOutOfWindow)
}
