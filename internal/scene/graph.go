package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

// Graph is an arena of nodes with a single root. Nodes live in the arena for
// the whole session; detaching only unlinks them from the root tree.
type Graph struct {
	nodes []*Node
}

func New() *Graph {
	g := &Graph{}
	g.nodes = append(g.nodes, &Node{ID: Root, Name: "root", Transform: Identity(), LookAt: InvalidNode, parent: InvalidNode})
	return g
}

// NewNode allocates a detached node.
func (g *Graph) NewNode(name string) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{
		ID:        id,
		Name:      name,
		Transform: Identity(),
		LookAt:    InvalidNode,
		parent:    InvalidNode,
	})
	return id
}

func (g *Graph) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Node returns the node for id, or nil when id was never allocated.
func (g *Graph) Node(id NodeID) *Node {
	if !g.valid(id) {
		return nil
	}
	return g.nodes[id]
}

// AddChild attaches id directly under the root.
func (g *Graph) AddChild(id NodeID) error {
	return g.Attach(Root, id)
}

// Attach makes child a child of parent, detaching it from any previous parent.
func (g *Graph) Attach(parent, child NodeID) error {
	if !g.valid(parent) || !g.valid(child) {
		return fmt.Errorf("attach %d under %d: %w", child, parent, dynamo.ErrUnknownNode)
	}
	if child == Root {
		return fmt.Errorf("attach root under %d: %w", parent, dynamo.ErrCycle)
	}
	for p := parent; p != InvalidNode; p = g.nodes[p].parent {
		if p == child {
			return fmt.Errorf("attach %d under %d: %w", child, parent, dynamo.ErrCycle)
		}
	}

	g.unlink(child)
	g.nodes[child].parent = parent
	g.nodes[parent].children = append(g.nodes[parent].children, child)
	return nil
}

// Remove detaches id and its subtree from its parent. Removing a node that is
// already detached, unknown, or the root is a no-op.
func (g *Graph) Remove(id NodeID) {
	if !g.valid(id) || id == Root {
		return
	}
	g.unlink(id)
}

func (g *Graph) unlink(id NodeID) {
	n := g.nodes[id]
	if n.parent == InvalidNode {
		return
	}
	p := g.nodes[n.parent]
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = InvalidNode
}

// Attached reports whether id is reachable from the root.
func (g *Graph) Attached(id NodeID) bool {
	if !g.valid(id) {
		return false
	}
	for p := id; p != InvalidNode; p = g.nodes[p].parent {
		if p == Root {
			return true
		}
	}
	return false
}

func (g *Graph) Children(id NodeID) []NodeID {
	if !g.valid(id) {
		return nil
	}
	out := make([]NodeID, len(g.nodes[id].children))
	copy(out, g.nodes[id].children)
	return out
}

// Walk visits every attached node except the root, depth first in insertion order.
// Returning false from fn stops the walk.
func (g *Graph) Walk(fn func(n *Node) bool) {
	var visit func(id NodeID) bool
	visit = func(id NodeID) bool {
		for _, c := range g.nodes[id].children {
			if !fn(g.nodes[c]) || !visit(c) {
				return false
			}
		}
		return true
	}
	visit(Root)
}

// Count returns the number of attached nodes, root excluded.
func (g *Graph) Count() int {
	n := 0
	g.Walk(func(*Node) bool { n++; return true })
	return n
}

// Find returns the first attached node with the given name.
func (g *Graph) Find(name string) (NodeID, bool) {
	found := InvalidNode
	g.Walk(func(n *Node) bool {
		if n.Name == name {
			found = n.ID
			return false
		}
		return true
	})
	return found, found != InvalidNode
}

// WorldMatrix maps id's local space to world space.
func (g *Graph) WorldMatrix(id NodeID) mgl64.Mat4 {
	m := mgl64.Ident4()
	for n := id; g.valid(n) && n != InvalidNode; n = g.nodes[n].parent {
		m = g.nodes[n].Transform.Matrix().Mul4(m)
	}
	return m
}

// WorldTransformPoint maps a point in id's local space to world space.
func (g *Graph) WorldTransformPoint(id NodeID, p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, g.WorldMatrix(id))
}

// LocalRay expresses a world ray in id's local space. The direction is not
// renormalized, so ray parameters stay world distances. ok is false when a
// zero scale collapses the node's local space.
func (g *Graph) LocalRay(id NodeID, r Ray) (Ray, bool) {
	m := g.WorldMatrix(id)
	if m.Det() == 0 {
		return Ray{}, false
	}
	return r.Transform(m.Inv()), true
}

// WorldPosition returns the origin of id in world space.
func (g *Graph) WorldPosition(id NodeID) mgl64.Vec3 {
	return g.WorldTransformPoint(id, mgl64.Vec3{})
}

// SetWorldPosition moves id so that its origin lands on p. Ancestors below
// the root must not rotate or scale.
func (g *Graph) SetWorldPosition(id NodeID, p mgl64.Vec3) {
	n := g.Node(id)
	if n == nil {
		return
	}
	if n.parent == InvalidNode || n.parent == Root {
		n.Transform.Position = p
		return
	}
	cur := g.WorldPosition(id)
	n.Transform.Position = n.Transform.Position.Add(p.Sub(cur))
}
