package hittest

import (
	"image/color"
	"sort"

	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// Node is an element of an in-memory Scene.
type Node struct {
	ID      string
	Rect    pointer.Rect
	Z       int
	Alpha   float64 // style opacity
	Fill    color.Color
	Content *Bitmap
	Classes []string
	Shadow  *Scene
	Hidden  bool

	order int
}

func (n *Node) ElementID() string       { return n.ID }
func (n *Node) Bounds() pointer.Rect    { return n.Rect }
func (n *Node) Opacity() float64        { return n.Alpha }
func (n *Node) Background() color.Color { return n.Fill }
func (n *Node) Bitmap() *Bitmap         { return n.Content }

func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes {
		if c == name {
			return true
		}
	}
	return false
}

func (n *Node) ShadowRoot() Document {
	if n.Shadow == nil {
		return nil
	}
	return n.Shadow
}

// Scene is a flat, z-ordered Document. Higher Z is in front; among equal Z
// the node added last is in front.
type Scene struct {
	nodes []*Node
	next  int
}

// NewScene returns a scene holding nodes in the given order.
func NewScene(nodes ...*Node) *Scene {
	s := &Scene{}
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add appends n to the scene.
func (s *Scene) Add(n *Node) *Node {
	s.next++
	n.order = s.next
	s.nodes = append(s.nodes, n)
	return n
}

// Remove deletes the node with the given id. It reports whether a node was
// removed.
func (s *Scene) Remove(id string) bool {
	for i, n := range s.nodes {
		if n.ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Node returns the node with the given id, searching shadow scenes too.
func (s *Scene) Node(id string) *Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
		if n.Shadow != nil {
			if found := n.Shadow.Node(id); found != nil {
				return found
			}
		}
	}
	return nil
}

// Nodes returns the top level nodes back to front.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	sort.SliceStable(out, func(i, j int) bool { return behind(out[i], out[j]) })
	return out
}

// Raise moves the node to the front of its z level.
func (s *Scene) Raise(id string) {
	for _, n := range s.nodes {
		if n.ID == id {
			s.next++
			n.order = s.next
			return
		}
	}
}

func (s *Scene) ElementsFromPoint(p pointer.Point) []Element {
	var hits []*Node
	for _, n := range s.nodes {
		if !n.Hidden && n.Rect.Contains(p) {
			hits = append(hits, n)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return behind(hits[j], hits[i]) })
	out := make([]Element, len(hits))
	for i, n := range hits {
		out[i] = n
	}
	return out
}

func behind(a, b *Node) bool {
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	return a.order < b.order
}
