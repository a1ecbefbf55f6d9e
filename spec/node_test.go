package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaths(t *testing.T) {
	root, err := Build(AddressSpace("top", Options(DataWidth(32)),
		Register("ctrl", nil,
			Field("enable", Options(Width(1))),
			Field("mode", Options(Width(3), WithAccess(AccessRO))),
		),
		Structure("blk", nil,
			Register("status", Options(Size(2))),
		),
	))
	require.NoError(t, err)

	assert.Equal(t, KindAddressSpace, root.Kind())
	assert.True(t, root.IsRoot())
	assert.Equal(t, []string{"top"}, root.Path())
	require.Equal(t, 2, root.NumChildren())

	mode, err := root.Lookup("ctrl", "mode")
	require.NoError(t, err)
	assert.Equal(t, "top.ctrl.mode", mode.QualName())
	assert.Equal(t, "ctrl.mode", mode.QualNameFrom(1))
	assert.Equal(t, AccessRO, mode.Config().Access)
	assert.Equal(t, uint64(3), mode.Config().Width)

	status, err := root.Lookup("blk", "status")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), status.Config().Size)
	assert.Same(t, root.Child(1), status.Parent())

	ctrl, err := root.Member("ctrl")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ctrl.Config().Size, "registers default to one word")
	assert.Equal(t, uint64(1), ctrl.Config().Align)

	_, err = root.Member("nope")
	assert.ErrorIs(t, err, ErrNoSuchMember)
}

func TestBuildArrayElements(t *testing.T) {
	root, err := Build(Structure("top", nil,
		Array("regs", Options(Dimensions(2, 3), ElementAlign(2), ElementPad(1)),
			Register("r", nil),
		),
	))
	require.NoError(t, err)

	arr, err := root.Member("regs")
	require.NoError(t, err)
	require.Equal(t, KindArray, arr.Kind())
	require.Equal(t, 6, arr.NumChildren())

	names := make([]string, 0, arr.NumChildren())
	for _, e := range arr.Children() {
		assert.Equal(t, KindElement, e.Kind())
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{
		"regs[0][0]", "regs[0][1]", "regs[0][2]",
		"regs[1][0]", "regs[1][1]", "regs[1][2]",
	}, names)

	e, err := arr.Element(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, e.Index())
	assert.Equal(t, []string{"top", "regs[1][2]"}, e.Path())
	assert.Equal(t, uint64(2), e.Config().Align)
	assert.Equal(t, uint64(1), e.Config().Pad)

	r, err := e.Member("r")
	require.NoError(t, err)
	assert.Equal(t, "top.regs[1][2].r", r.QualName())

	// each element owns its own members
	other, err := arr.Element(0, 0)
	require.NoError(t, err)
	r0, err := other.Member("r")
	require.NoError(t, err)
	assert.NotSame(t, r, r0)

	byName, err := root.Lookup("regs", "regs[1][2]", "r")
	require.NoError(t, err)
	assert.Same(t, r, byName)

	_, err = arr.Element(2, 0)
	assert.Error(t, err)
	_, err = root.Element(0)
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		def     Def
		wantErr error
	}{
		{"unknown option", Structure("s", Options(Width(3))), ErrUnknownOption},
		{"zero align", Register("r", Options(Align(0))), ErrZero},
		{"duplicate option", Field("f", Options(Width(1), Width(2))), ErrDuplicate},
		{"missing dimensions", Array("a", nil), ErrRequired},
		{"zero dimension", Array("a", Options(Dimensions(2, 0))), ErrZero},
		{"negative dimension", Array("a", Options(Dimensions(-1))), ErrNegative},
		{"bad access", Field("f", Options(WithAccess(Access(99)))), ErrInvalidEnum},
		{"duplicate member", Structure("s", nil, Register("r", nil), Register("r", nil)), ErrDuplicateName},
		{"unnamed member", Structure("s", nil, Register("", nil)), ErrEmptyName},
		{"element kind", Def{Kind: KindElement, Name: "e"}, ErrInvalidMember},
		{"nested error", Structure("s", nil, Structure("t", nil, Field("f", Options(Size(1))))), ErrUnknownOption},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Build(test.def)
			require.ErrorIs(t, err, test.wantErr)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.NotEmpty(t, cerr.Owner)
		})
	}
}

func TestConfigErrorNamesOwner(t *testing.T) {
	_, err := Build(Structure("s", nil, Structure("t", nil, Field("f", Options(Size(1))))))
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "field s.t.f", cerr.Owner)
	assert.Equal(t, OptSize, cerr.Attr)
}

func TestWalk(t *testing.T) {
	root := MustBuild(Structure("top", nil,
		Register("a", nil, Field("x", nil)),
		Register("b", nil),
	))
	var visited []string
	require.NoError(t, root.Walk(func(n *Node) error {
		visited = append(visited, n.QualName())
		return nil
	}))
	assert.Equal(t, []string{"top", "top.a", "top.a.x", "top.b"}, visited)
}
