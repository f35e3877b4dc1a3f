package regiontree

import (
	"fmt"

	"github.com/janelia-flyem/lattice/lattice"
)

// Split selects how an override node is divided into children once a second
// differing update reaches it.  Counts never depend on the choice, only the shape
// and size of the tree do.
type Split uint8

const (
	// SplitCube makes up to 8 octants meeting at a corner of the override box, so
	// the box is either the first octant or sits at the origin of the last one.
	SplitCube Split = iota

	// SplitMidpoint makes up to 8 octants meeting at the center of the node.
	SplitMidpoint

	// SplitGrid makes up to 27 children, cutting each axis at both faces of the
	// override box so one child is exactly the box.
	SplitGrid
)

var splitNames = map[Split]string{
	SplitCube:     "cube",
	SplitMidpoint: "midpoint",
	SplitGrid:     "grid",
}

func (s Split) String() string {
	if name, found := splitNames[s]; found {
		return name
	}
	return fmt.Sprintf("split(%d)", uint8(s))
}

// ParseSplit returns the strategy with the given name.  An empty name is SplitCube.
func ParseSplit(name string) (Split, error) {
	if name == "" {
		return SplitCube, nil
	}
	for s, sname := range splitNames {
		if sname == name {
			return s, nil
		}
	}
	return SplitCube, fmt.Errorf("unknown split %q, must be \"cube\", \"midpoint\" or \"grid\"", name)
}

// partition divides the node into children that together hold the same states as
// the override.
func (n *Node) partition(o override) []*Node {
	switch n.strategy {
	case SplitMidpoint:
		var mid lattice.Point3d
		for axis := 0; axis < 3; axis++ {
			lo, hi := n.extents.MinPoint[axis], n.extents.MaxPoint[axis]
			mid[axis] = lo + (hi-lo)/2
		}
		return n.octants(mid, o)

	case SplitGrid:
		return n.gridSplit(o)

	default:
		var mid lattice.Point3d
		if n.extents.MinPoint == o.box.MinPoint {
			mid = o.box.MaxPoint
		} else {
			// bounds are inclusive so the override box starts one past the split point.
			mid = o.box.MinPoint.AddScalar(-1)
		}
		return n.octants(mid, o)
	}
}

// octants splits the node into the boxes on either side of mid along each axis,
// low being [min, mid] and high [mid+1, max], with bit i of the octant set for
// the high side of axis i.  Empty octants are skipped.  Each child starts with
// the outer state and has the override applied again.
func (n *Node) octants(mid lattice.Point3d, o override) []*Node {
	children := make([]*Node, 0, 8)
	for octant := 0; octant < 8; octant++ {
		ext := n.extents
		for axis := 0; axis < 3; axis++ {
			if octant&(1<<uint(axis)) != 0 {
				ext.MinPoint[axis] = mid[axis] + 1
			} else {
				ext.MaxPoint[axis] = mid[axis]
			}
		}
		if !ext.Valid() {
			continue
		}
		child := mustNew(ext, o.outer, n.strategy)
		child.Update(o.inner, o.box)
		children = append(children, child)
	}
	return children
}

// gridSplit cuts each axis into the span before, within and after the override box.
func (n *Node) gridSplit(o override) []*Node {
	var spans [3][3][2]int64
	for axis := 0; axis < 3; axis++ {
		lo, hi := n.extents.MinPoint[axis], n.extents.MaxPoint[axis]
		blo, bhi := o.box.MinPoint[axis], o.box.MaxPoint[axis]
		spans[axis] = [3][2]int64{{lo, blo - 1}, {blo, bhi}, {bhi + 1, hi}}
	}
	children := make([]*Node, 0, 27)
	for _, x := range spans[0] {
		for _, y := range spans[1] {
			for _, z := range spans[2] {
				ext := lattice.Extents3d{
					MinPoint: lattice.Point3d{x[0], y[0], z[0]},
					MaxPoint: lattice.Point3d{x[1], y[1], z[1]},
				}
				if !ext.Valid() {
					continue
				}
				status := o.outer
				if ext.Equals(o.box) {
					status = o.inner
				}
				children = append(children, mustNew(ext, status, n.strategy))
			}
		}
	}
	return children
}
