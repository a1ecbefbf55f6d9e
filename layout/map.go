package layout

import (
	"fmt"

	"github.com/esnet/regio/spec"
)

// Map is the result of a compile: every laid out region, addressable by node,
// by qualified name, by ordinal and by register index.
type Map struct {
	roots     []*Region
	regions   []*Region
	registers []*Region
	byNode    map[*spec.Node]*Region
	byPath    map[string]*Region
}

func newMap(roots, regions []*Region, numRegisters int) *Map {
	m := &Map{
		roots:     roots,
		regions:   regions,
		registers: make([]*Region, numRegisters),
		byNode:    make(map[*spec.Node]*Region, len(regions)),
		byPath:    make(map[string]*Region, len(regions)),
	}
	for _, r := range regions {
		m.byNode[r.Node] = r
		m.byPath[r.Path()] = r
		if r.HasRegister {
			m.registers[r.Register] = r
		}
	}
	return m
}

// Roots returns the root regions in the order they were laid out.
func (m *Map) Roots() []*Region { return append([]*Region(nil), m.roots...) }

// Regions returns every region in ordinal (pre-order) order.
func (m *Map) Regions() []*Region { return append([]*Region(nil), m.regions...) }

// Registers returns the register regions ordered by register index.
func (m *Map) Registers() []*Region { return append([]*Region(nil), m.registers...) }

func (m *Map) NumRegions() int   { return len(m.regions) }
func (m *Map) NumRegisters() int { return len(m.registers) }

// RegionOf returns the region laid out for node. When index is given, node
// must be an array and the region of the element at index is returned.
func (m *Map) RegionOf(node *spec.Node, index ...int) (*Region, error) {
	if len(index) > 0 {
		e, err := node.Element(index...)
		if err != nil {
			return nil, err
		}
		node = e
	}
	r, ok := m.byNode[node]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCompiled, node)
	}
	return r, nil
}

// Lookup returns the region with the given dot separated qualified name.
func (m *Map) Lookup(path string) (*Region, error) {
	r, ok := m.byPath[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCompiled, path)
	}
	return r, nil
}

// Ordinal returns the region with the given ordinal.
func (m *Map) Ordinal(ordinal int) (*Region, error) {
	if ordinal < 0 || ordinal >= len(m.regions) {
		return nil, fmt.Errorf("%w: ordinal %d", ErrNotCompiled, ordinal)
	}
	return m.regions[ordinal], nil
}

// Register returns the register with the given register index.
func (m *Map) Register(index int) (*Region, error) {
	if index < 0 || index >= len(m.registers) {
		return nil, fmt.Errorf("%w: register %d", ErrNotCompiled, index)
	}
	return m.registers[index], nil
}

// Walk visits the regions in ordinal order until fn returns an error.
func (m *Map) Walk(fn func(*Region) error) error {
	for _, r := range m.regions {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// AddressOf returns the absolute byte address of node.
func (m *Map) AddressOf(node *spec.Node, index ...int) (uint64, error) {
	r, err := m.RegionOf(node, index...)
	if err != nil {
		return 0, err
	}
	return r.ByteOffset(), nil
}

// OffsetOf returns the offset of node in words of its enclosing region.
func (m *Map) OffsetOf(node *spec.Node, index ...int) (Position, error) {
	r, err := m.RegionOf(node, index...)
	if err != nil {
		return Position{}, err
	}
	return r.Offset, nil
}

// SizeOf returns the size of node in its own words.
func (m *Map) SizeOf(node *spec.Node, index ...int) (uint64, error) {
	r, err := m.RegionOf(node, index...)
	if err != nil {
		return 0, err
	}
	return r.Size, nil
}

func (m *Map) DataWidthOf(node *spec.Node, index ...int) (uint64, error) {
	r, err := m.RegionOf(node, index...)
	if err != nil {
		return 0, err
	}
	return r.DataWidth, nil
}

func (m *Map) OctetsOf(node *spec.Node, index ...int) (uint64, error) {
	r, err := m.RegionOf(node, index...)
	if err != nil {
		return 0, err
	}
	return r.Octets, nil
}

func (m *Map) OIDOf(node *spec.Node, index ...int) ([]int, error) {
	r, err := m.RegionOf(node, index...)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), r.OID...), nil
}

func (m *Map) OrdinalOf(node *spec.Node, index ...int) (int, error) {
	r, err := m.RegionOf(node, index...)
	if err != nil {
		return 0, err
	}
	return r.Ordinal, nil
}
