/*
Package layout computes the placement of every node of a spec tree.

Layout is a single pre-order traversal. Each region is placed in its outer
region by an optional offset and an alignment, then opens an inner scope on
one of two counters: words, for address spaces, structures, unions, arrays
and registers, and bits, for the fields of a register. When the inner scope
ends its size is folded back into the outer one.

	root := spec.MustBuild(spec.AddressSpace("top", spec.Options(spec.DataWidth(32)),
		spec.Register("ctrl", nil,
			spec.Field("enable", spec.Options(spec.Width(1))),
		),
	))
	m, err := layout.CompileAddressSpace(root)

Registers are numbered in the order they are laid out. Offsets are expressed
in words of the enclosing region; an address space with a different data
width aligns itself to a boundary shared by both widths.

The resulting Map can be flattened to Descriptors and serialized with a
DescriptorCodec.
*/
package layout
