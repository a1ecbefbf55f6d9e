package spec

import (
	"fmt"
	"strings"

	"github.com/esnet/regio/indexing"
)

// Def is the declarative description of a spec node and its members. Defs are
// plain values; Build turns a Def into a frozen Node tree.
type Def struct {
	Kind    Kind
	Name    string
	Options []Option
	Members []Def
}

// AddressSpace defines an address space. A root address space starts its own
// counting domain; a nested one may change the data width.
func AddressSpace(name string, opts []Option, members ...Def) Def {
	return Def{Kind: KindAddressSpace, Name: name, Options: opts, Members: members}
}

// Structure defines members laid out one after the other.
func Structure(name string, opts []Option, members ...Def) Def {
	return Def{Kind: KindStructure, Name: name, Options: opts, Members: members}
}

// Union defines members that all start at the same position.
func Union(name string, opts []Option, members ...Def) Def {
	return Def{Kind: KindUnion, Name: name, Options: opts, Members: members}
}

// Array defines a multi-dimensional array whose elements each contain the
// given members.
func Array(name string, opts []Option, members ...Def) Def {
	return Def{Kind: KindArray, Name: name, Options: opts, Members: members}
}

// Register defines a register. Its members are counted in bits.
func Register(name string, opts []Option, members ...Def) Def {
	return Def{Kind: KindRegister, Name: name, Options: opts, Members: members}
}

// Field defines a bit-field.
func Field(name string, opts []Option, members ...Def) Def {
	return Def{Kind: KindField, Name: name, Options: opts, Members: members}
}

// Options collects options, for readability at definition sites.
func Options(opts ...Option) []Option { return opts }

// Node is one element of a built spec tree. Nodes are immutable once Build
// returns.
type Node struct {
	kind     Kind
	name     string
	path     []string
	config   Config
	parent   *Node
	children []*Node
	members  map[string]*Node

	// arrays
	indexer *indexing.Indexer
	// array elements
	index []int
}

// Build validates a definition and instantiates its node tree.
func Build(def Def) (*Node, error) {
	if def.Kind == KindElement {
		return nil, &ConfigError{Owner: def.Name, Attr: "kind", Err: ErrInvalidMember}
	}
	return build(def, nil, nil)
}

// MustBuild is Build for package level definitions known to be valid.
func MustBuild(def Def) *Node {
	n, err := Build(def)
	if err != nil {
		panic(err)
	}
	return n
}

func build(def Def, parent *Node, parentPath []string) (*Node, error) {
	if def.Name == "" {
		return nil, &ConfigError{Owner: strings.Join(parentPath, "."), Attr: "name", Err: ErrEmptyName}
	}
	path := appendPath(parentPath, def.Name)
	owner := fmt.Sprintf("%s %s", def.Kind, strings.Join(path, "."))
	if int(def.Kind) >= len(kindNames) {
		return nil, &ConfigError{Owner: owner, Attr: "kind", Err: ErrInvalidMember}
	}

	config, err := NewConfig(def.Kind, owner, def.Options...)
	if err != nil {
		return nil, err
	}

	n := &Node{
		kind:   def.Kind,
		name:   def.Name,
		path:   path,
		config: config,
		parent: parent,
	}

	if def.Kind == KindArray {
		if err := n.buildElements(def); err != nil {
			return nil, err
		}
		return n, nil
	}
	if err := n.buildMembers(def.Members, path); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) buildMembers(members []Def, path []string) error {
	n.members = make(map[string]*Node, len(members))
	for _, m := range members {
		if m.Kind == KindElement {
			return &ConfigError{Owner: n.QualName(), Attr: m.Name, Err: ErrInvalidMember}
		}
		child, err := build(m, n, path)
		if err != nil {
			return err
		}
		if _, ok := n.members[child.name]; ok {
			return &ConfigError{Owner: n.QualName(), Attr: child.name, Err: ErrDuplicateName}
		}
		n.members[child.name] = child
		n.children = append(n.children, child)
	}
	return nil
}

// buildElements instantiates one element per index of the array, ordered by
// ordinal. Element paths replace the array's name with the element's name.
func (n *Node) buildElements(def Def) error {
	ix, err := indexing.NewCArrayIndexer(n.config.Dimensions...)
	if err != nil {
		return &ConfigError{Owner: n.QualName(), Attr: OptDimensions, Err: err}
	}
	n.indexer = ix

	it := ix.Iter()
	for index, ok := it.Next(); ok; index, ok = it.Next() {
		name := elementName(n.name, index)
		e := &Node{
			kind:   KindElement,
			name:   name,
			path:   appendPath(n.path[:len(n.path)-1], name),
			config: n.config.elementConfig(),
			parent: n,
			index:  index,
		}
		if err := e.buildMembers(def.Members, e.path); err != nil {
			return err
		}
		n.children = append(n.children, e)
	}
	return nil
}

func elementName(name string, index []int) string {
	var b strings.Builder
	b.WriteString(name)
	for _, i := range index {
		fmt.Fprintf(&b, "[%d]", i)
	}
	return b.String()
}

func appendPath(path []string, name string) []string {
	p := make([]string, len(path), len(path)+1)
	copy(p, path)
	return append(p, name)
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the node name. Array elements are named after their index.
func (n *Node) Name() string { return n.name }

// Path returns a copy of the names from the root to the node.
func (n *Node) Path() []string { return append([]string(nil), n.path...) }

// QualName returns the dot separated path.
func (n *Node) QualName() string { return strings.Join(n.path, ".") }

// QualNameFrom returns the dot separated path starting at the given depth.
func (n *Node) QualNameFrom(start int) string {
	if start >= len(n.path) {
		return ""
	}
	return strings.Join(n.path[start:], ".")
}

// Config returns the validated configuration.
func (n *Node) Config() Config {
	c := n.config
	c.Dimensions = append([]int(nil), n.config.Dimensions...)
	return c
}

// Parent returns the parent node, nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Children returns the child nodes in layout order.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the i'th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Member returns the named member. Array elements are not members; use
// Element.
func (n *Node) Member(name string) (*Node, error) {
	m, ok := n.members[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no member %q", ErrNoSuchMember, n.QualName(), name)
	}
	return m, nil
}

// Indexer returns the indexer of an array node, nil otherwise.
func (n *Node) Indexer() *indexing.Indexer { return n.indexer }

// Index returns a copy of an element's index tuple, nil for other kinds.
func (n *Node) Index() []int { return append([]int(nil), n.index...) }

// Element returns the array element at index.
func (n *Node) Element(index ...int) (*Node, error) {
	if n.kind != KindArray {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, n.QualName())
	}
	o, err := n.indexer.ToOrdinal(index...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.QualName(), err)
	}
	return n.children[o], nil
}

// Lookup resolves a relative path of member names. Array elements are
// addressed by their element name, e.g. "regs[1]".
func (n *Node) Lookup(names ...string) (*Node, error) {
	cur := n
	for _, name := range names {
		next, err := cur.child(name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) child(name string) (*Node, error) {
	if n.kind == KindArray {
		for _, e := range n.children {
			if e.name == name {
				return e, nil
			}
		}
		return nil, fmt.Errorf("%w: %s has no element %q", ErrNoSuchMember, n.QualName(), name)
	}
	return n.Member(name)
}

// Walk visits the node and its descendants depth first, parents before
// children. Returning an error stops the walk.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %s", n.kind, n.QualName())
}
