// Package spec is the definition surface for register maps.
//
// A register map is declared as a tree of Def values, one per address space,
// structure, union, array, register or field, each with typed options:
//
//	top := spec.MustBuild(spec.AddressSpace("top", spec.Options(spec.DataWidth(32)),
//		spec.Register("ctrl", nil,
//			spec.Field("enable", spec.Options(spec.Width(1))),
//			spec.Field("mode", spec.Options(spec.Width(3), spec.WithAccess(spec.AccessRO))),
//		),
//		spec.Array("queue", spec.Options(spec.Dimensions(4)),
//			spec.Register("head", nil),
//			spec.Register("tail", nil),
//		),
//	))
//
// Build validates the configuration of every node and instantiates array
// elements. The resulting Node tree is immutable and is laid out by the
// layout package.
package spec
