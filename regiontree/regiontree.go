/*
	Package regiontree implements a lazy octree holding a boolean state for every cell of
	a box on the 3d lattice.  A node is subdivided only where its cells disagree, so
	boxes with sides beyond 10^5 cells can be toggled and counted without ever visiting
	individual cells.

	Each node is in exactly one of three representations:

		uniform      every cell has the same state
		override     every cell has an outer state except one contained box with an inner state
		partitioned  children exactly tile the node

	A node only moves from uniform to override to partitioned, except that an update
	covering the whole node collapses it back to uniform and drops any children.

	How an override node is partitioned is chosen per tree with a Split.  The default,
	SplitCube, makes at most 8 octants meeting at a corner of the override box.
*/
package regiontree

import (
	"fmt"

	"github.com/janelia-flyem/lattice/lattice"
)

// Kind identifies the representation a node is currently in.
type Kind uint8

const (
	Uniform Kind = iota
	Override
	Partitioned
)

func (k Kind) String() string {
	switch k {
	case Uniform:
		return "uniform"
	case Override:
		return "override"
	case Partitioned:
		return "partitioned"
	default:
		return fmt.Sprintf("unknown kind %d", k)
	}
}

// representation is the sum of the three node states.
type representation interface {
	kind() Kind
}

type uniform struct {
	status bool
}

type override struct {
	outer bool
	inner bool
	box   lattice.Extents3d // strictly within the node's extents
}

type partitioned struct {
	children []*Node // at most 8, or 27 for SplitGrid
}

func (uniform) kind() Kind     { return Uniform }
func (override) kind() Kind    { return Override }
func (partitioned) kind() Kind { return Partitioned }

// Node is a box of lattice cells and the on/off state of each of them.  A Node owns
// its children exclusively and is not safe for concurrent use.
type Node struct {
	extents  lattice.Extents3d
	rep      representation
	strategy Split
}

// New returns a node covering [origin, opposite] with every cell set to status,
// partitioned with SplitCube.  An origin greater than opposite along any axis is
// rejected with an error wrapping lattice.ErrInvertedExtents.
func New(origin, opposite lattice.Point3d, status bool) (*Node, error) {
	return NewSplit(origin, opposite, status, SplitCube)
}

// NewSplit is like New but partitions nodes of the tree with the given strategy.
func NewSplit(origin, opposite lattice.Point3d, status bool, strategy Split) (*Node, error) {
	ext, err := lattice.NewExtents3d(origin, opposite)
	if err != nil {
		return nil, fmt.Errorf("can't create region tree node: %w", err)
	}
	if strategy > SplitGrid {
		return nil, fmt.Errorf("can't create region tree node: unknown split %d", strategy)
	}
	return &Node{extents: ext, rep: uniform{status}, strategy: strategy}, nil
}

// mustNew is used for children whose extents were already checked by the caller.
func mustNew(ext lattice.Extents3d, status bool, strategy Split) *Node {
	if !ext.Valid() {
		panic(fmt.Sprintf("region tree child with inverted extents %s", ext))
	}
	return &Node{extents: ext, rep: uniform{status}, strategy: strategy}
}

// Extents returns the box of cells held by the node.
func (n *Node) Extents() lattice.Extents3d {
	return n.extents
}

// Kind returns the node's current representation.
func (n *Node) Kind() Kind {
	return n.rep.kind()
}

// Split returns how the node's tree is partitioned.
func (n *Node) Split() Split {
	return n.strategy
}

// Children returns the node's children if partitioned, else nil.
func (n *Node) Children() []*Node {
	if p, ok := n.rep.(partitioned); ok {
		return p.children
	}
	return nil
}

// Update sets every cell within both box and the node's extents to status.
// Cells outside that intersection keep their state.  An empty box or one
// not touching the node is a no-op.
func (n *Node) Update(status bool, box lattice.Extents3d) {
	if !n.extents.Overlaps(box) {
		return
	}
	clipped := box.Clip(n.extents)
	if clipped.Equals(n.extents) {
		n.rep = uniform{status}
		return
	}

	switch rep := n.rep.(type) {
	case uniform:
		if rep.status == status {
			return
		}
		n.rep = override{outer: rep.status, inner: status, box: clipped}

	case override:
		children := n.partition(rep)
		for _, child := range children {
			child.Update(status, clipped)
		}
		n.rep = partitioned{children}

	case partitioned:
		for _, child := range rep.children {
			child.Update(status, clipped)
		}
	}
}

// Count returns the number of cells within the node that are on.
func (n *Node) Count() int64 {
	switch rep := n.rep.(type) {
	case uniform:
		if rep.status {
			return n.extents.Volume()
		}
		return 0

	case override:
		outerVol := n.extents.Volume()
		innerVol := rep.box.Volume()
		switch {
		case rep.outer && rep.inner:
			return outerVol
		case rep.inner:
			return innerVol
		case rep.outer:
			return outerVol - innerVol
		default:
			return 0
		}

	case partitioned:
		var count int64
		for _, child := range rep.children {
			count += child.Count()
		}
		return count
	}
	return 0
}
