// Package tree holds the lazily populated view of a provider's hierarchy.
//
// Nodes live in an arena owned by a Tree and refer to their parent by index.
// A container node asks the provider for its children the first time they
// are requested and never again.
package tree

import (
	"fmt"
	"path"

	"github.com/arthur-debert/archport/pkg/archport/provider"
)

// NodeID identifies a node within its Tree.
type NodeID int

// NoNode is the parent of the synthetic root.
const NoNode NodeID = -1

// Kind distinguishes the synthetic root from nodes backed by a handle.
type Kind int

const (
	KindRoot Kind = iota
	KindEntry
)

func (k Kind) String() string {
	if k == KindRoot {
		return "root"
	}
	return "entry"
}

// Node is one position in the browsable hierarchy.
type Node struct {
	id        NodeID
	kind      Kind
	label     string
	container bool
	entry     *provider.Entry
	parent    NodeID
	children  []NodeID
	populated bool
}

func (n *Node) ID() NodeID             { return n.id }
func (n *Node) Kind() Kind             { return n.kind }
func (n *Node) Label() string          { return n.label }
func (n *Node) IsContainer() bool      { return n.container }
func (n *Node) Entry() *provider.Entry { return n.entry }
func (n *Node) Parent() NodeID         { return n.parent }

// Tree is the arena of nodes for one session.
type Tree struct {
	nodes []*Node
}

// New builds the tree for p. The synthetic root has an empty label, is
// already populated and holds a single node for the provider root, whose
// first level is materialized before New returns.
func New(p provider.StructureProvider) (*Tree, error) {
	t := &Tree{}
	root := t.add(&Node{kind: KindRoot, container: true, parent: NoNode, populated: true})

	handle := p.Root()
	top := t.add(&Node{
		kind:      KindEntry,
		label:     p.Label(handle),
		container: p.IsContainer(handle),
		entry:     handle,
		parent:    root,
	})
	t.nodes[root].children = []NodeID{top}

	if _, err := t.Children(top, p); err != nil {
		return nil, fmt.Errorf("failed to list archive root: %w", err)
	}
	return t, nil
}

func (t *Tree) add(n *Node) NodeID {
	n.id = NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return n.id
}

// Node returns the node for id. It panics on an id from another tree.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes[id]
}

// Root returns the synthetic root.
func (t *Tree) Root() NodeID {
	return 0
}

// ArchiveRoot returns the node standing for the provider's root handle.
func (t *Tree) ArchiveRoot() NodeID {
	return 1
}

// Len returns the number of materialized nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// IsPopulated reports whether the children of id have been materialized.
func (t *Tree) IsPopulated(id NodeID) bool {
	return t.nodes[id].populated
}

// Children returns the child nodes of id, populating them from p on first
// use. A leaf returns nothing without consulting p. A provider error marks
// the node populated with no children and is returned this one time.
func (t *Tree) Children(id NodeID, p provider.StructureProvider) ([]NodeID, error) {
	n := t.nodes[id]
	if !n.container {
		return nil, nil
	}
	if n.populated {
		return n.children, nil
	}

	n.populated = true
	handles, err := p.Children(n.entry)
	if err != nil {
		return nil, err
	}
	for _, h := range handles {
		child := t.add(&Node{
			kind:      KindEntry,
			label:     p.Label(h),
			container: p.IsContainer(h),
			entry:     h,
			parent:    id,
		})
		n.children = append(n.children, child)
	}
	return n.children, nil
}

func (t *Tree) filter(id NodeID, p provider.StructureProvider, containers bool) ([]NodeID, error) {
	children, err := t.Children(id, p)
	if err != nil {
		return nil, err
	}
	var result []NodeID
	for _, c := range children {
		if t.nodes[c].container == containers {
			result = append(result, c)
		}
	}
	return result, nil
}

// Files returns the non-container children of id.
func (t *Tree) Files(id NodeID, p provider.StructureProvider) ([]NodeID, error) {
	return t.filter(id, p, false)
}

// Folders returns the container children of id.
func (t *Tree) Folders(id NodeID, p provider.StructureProvider) ([]NodeID, error) {
	return t.filter(id, p, true)
}

// HasChildren reports whether id should be shown as expandable. An
// unpopulated container answers true without asking the provider.
func (t *Tree) HasChildren(id NodeID, p provider.StructureProvider) (bool, error) {
	n := t.nodes[id]
	if !n.container {
		return false, nil
	}
	if !n.populated {
		return true, nil
	}
	folders, err := t.Folders(id, p)
	return len(folders) > 0, err
}

// Path returns the slash separated labels from below the archive root down
// to id. The archive root and the synthetic root have an empty path.
func (t *Tree) Path(id NodeID) string {
	var parts []string
	for cur := id; cur != NoNode && cur > t.ArchiveRoot(); cur = t.nodes[cur].parent {
		parts = append(parts, t.nodes[cur].label)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return path.Join(parts...)
}

// Depth returns the number of levels between id and the archive root.
func (t *Tree) Depth(id NodeID) int {
	depth := 0
	for cur := id; cur > t.ArchiveRoot(); cur = t.nodes[cur].parent {
		depth++
	}
	return depth
}

// Walk visits id and every already populated descendant depth first. It
// never populates nodes. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range t.nodes[id].children {
		t.Walk(c, fn)
	}
}

// SelectAll populates the whole subtree under id and returns the handles of
// its leaves in depth-first order. A leaf id selects itself.
func (t *Tree) SelectAll(id NodeID, p provider.StructureProvider) ([]*provider.Entry, error) {
	n := t.nodes[id]
	if !n.container {
		return []*provider.Entry{n.entry}, nil
	}
	children, err := t.Children(id, p)
	if err != nil {
		return nil, err
	}
	var result []*provider.Entry
	for _, c := range children {
		leaves, err := t.SelectAll(c, p)
		if err != nil {
			return nil, err
		}
		result = append(result, leaves...)
	}
	return result, nil
}
