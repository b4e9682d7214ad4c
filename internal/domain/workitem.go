// Package domain contains core business entities and interfaces.
package domain

import "fmt"

// Kind is the level of a work item in the hierarchy.
type Kind int

// Hierarchy levels, top to bottom.
const (
	KindEpic Kind = iota + 1
	KindFeature
	KindBacklogItem
)

// String returns a human-readable level name.
func (k Kind) String() string {
	switch k {
	case KindEpic:
		return "Epic"
	case KindFeature:
		return "Feature"
	case KindBacklogItem:
		return "Backlog Item"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsValid reports whether k is a known level.
func (k Kind) IsValid() bool {
	return k >= KindEpic && k <= KindBacklogItem
}

// ChildKind returns the level directly below k.
// The second return value is false for backlog items, which are leaves.
func (k Kind) ChildKind() (Kind, bool) {
	switch k {
	case KindEpic:
		return KindFeature, true
	case KindFeature:
		return KindBacklogItem, true
	default:
		return 0, false
	}
}

// Node is a single work item in the hierarchy tree.
// Fields are ordered to minimize memory padding.
type Node struct {
	RemoteID *int // Assigned by the backend after creation
	Title    string
	Children []*Node
	Kind     Kind
}

// NewEpic creates a root node.
func NewEpic(title string) *Node {
	return &Node{Title: title, Kind: KindEpic}
}

// AddChild appends a child one level below n and returns it.
// Backlog items cannot have children.
func (n *Node) AddChild(title string) (*Node, error) {
	kind, ok := n.Kind.ChildKind()
	if !ok {
		return nil, fmt.Errorf("%w: %s %q cannot have children", ErrInvalidHierarchy, n.Kind, n.Title)
	}
	child := &Node{Title: title, Kind: kind}
	n.Children = append(n.Children, child)
	return child, nil
}

// Created reports whether the node has been assigned a remote ID.
func (n *Node) Created() bool {
	return n.RemoteID != nil
}

// Hierarchy is the parsed input tree: Epics contain Features contain Backlog Items.
type Hierarchy struct {
	Epics []*Node
}

// WalkFunc is called for each node during a walk.
// parent is nil for epics.
type WalkFunc func(n, parent *Node, depth int) error

// Walk visits nodes in pre-order (parents before children).
// Returning a non-nil error stops the walk.
func (h *Hierarchy) Walk(fn WalkFunc) error {
	for _, epic := range h.Epics {
		if err := walkPre(epic, nil, 0, fn); err != nil {
			return err
		}
	}
	return nil
}

// WalkPostOrder visits nodes in post-order (children before parents).
// Returning a non-nil error stops the walk.
func (h *Hierarchy) WalkPostOrder(fn WalkFunc) error {
	for _, epic := range h.Epics {
		if err := walkPost(epic, nil, 0, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkPre(n, parent *Node, depth int, fn WalkFunc) error {
	if err := fn(n, parent, depth); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := walkPre(c, n, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkPost(n, parent *Node, depth int, fn WalkFunc) error {
	for _, c := range n.Children {
		if err := walkPost(c, n, depth+1, fn); err != nil {
			return err
		}
	}
	return fn(n, parent, depth)
}

// Count returns the total number of nodes in the tree.
func (h *Hierarchy) Count() int {
	count := 0
	_ = h.Walk(func(_, _ *Node, _ int) error {
		count++
		return nil
	})
	return count
}

// Validate checks the level invariant and that every node has a title.
func (h *Hierarchy) Validate() error {
	return h.Walk(func(n, parent *Node, _ int) error {
		if n.Title == "" {
			return fmt.Errorf("%s: %w", n.Kind, ErrEmptyTitle)
		}
		if parent == nil {
			if n.Kind != KindEpic {
				return fmt.Errorf("%w: top-level %s %q", ErrInvalidHierarchy, n.Kind, n.Title)
			}
			return nil
		}
		want, ok := parent.Kind.ChildKind()
		if !ok || n.Kind != want {
			return fmt.Errorf("%w: %s %q under %s %q", ErrInvalidHierarchy, n.Kind, n.Title, parent.Kind, parent.Title)
		}
		return nil
	})
}

// Descendants returns every node below n in pre-order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}
