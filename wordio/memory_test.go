package wordio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIO(t *testing.T) {
	l, err := NewListIO(16, 4)
	require.NoError(t, err)
	require.NoError(t, l.Start())

	require.NoError(t, l.Write(1, 2, 0x1234_5678))
	assert.Equal(t, []uint64{0, 0x5678, 0x1234, 0}, l.Words())

	v, err := l.Read(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1234_5678), v)

	require.NoError(t, l.Update(1, 2, 0x00ff_00ff, 0x0011_0022))
	assert.Equal(t, []uint64{0, 0x5622, 0x1211, 0}, l.Words())

	// start on a started table is a no-op, a restart zeroes it
	require.NoError(t, l.Start())
	assert.Equal(t, uint64(0x5622), l.Words()[1])
	require.NoError(t, l.Stop())
	require.NoError(t, l.Start())
	assert.Equal(t, []uint64{0, 0, 0, 0}, l.Words())

	_, err = l.Read(3, 2)
	assert.ErrorIs(t, err, ErrOutOfWindow)
	_, err = l.Read(0, 5)
	assert.ErrorIs(t, err, ErrAccessTooWide)

	_, err = NewListIO(12, 1)
	assert.ErrorIs(t, err, ErrDataWidth)
}

func TestMapIO(t *testing.T) {
	m, err := NewMapIO(8)
	require.NoError(t, err)

	v, err := m.Read(100, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, m.Write(100, 2, 0x1ff))
	assert.Equal(t, map[uint64]uint64{100: 0xff, 101: 0x01}, m.Words())

	require.NoError(t, m.Update(101, 1, 0x01, 0x80))
	v, err = m.Read(100, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x80ff), v)
}

func TestZeroIO(t *testing.T) {
	z, err := NewZeroIO(32)
	require.NoError(t, err)
	require.NoError(t, z.Write(0, 2, 0xffff))
	v, err := z.Read(0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	assert.ErrorIs(t, z.Update(0, 3, 0, 0), ErrAccessTooWide)
}

func TestListIOOverflowingOffsets(t *testing.T) {
	l, err := NewListIO(32, 4)
	require.NoError(t, err)
	require.NoError(t, l.Start())

	_, err = l.Read(^uint64(0), 1)
	assert.ErrorIs(t, err, ErrOutOfWindow)
	assert.ErrorIs(t, l.Write(^uint64(0), 2, 0), ErrOutOfWindow)
	assert.ErrorIs(t, l.Update(4, 1, 0, 1), ErrOutOfWindow)
}

func TestMapIOStartEmpties(t *testing.T) {
	m, err := NewMapIO(16)
	require.NoError(t, err)
	require.NoError(t, m.Start())
	require.NoError(t, m.Write(3, 1, 0x33))

	require.NoError(t, m.Start())
	assert.Len(t, m.Words(), 1)

	require.NoError(t, m.Stop())
	require.NoError(t, m.Start())
	assert.Empty(t, m.Words())
}
