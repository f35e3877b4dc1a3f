package lattice

import (
	"errors"
	"fmt"
)

// ErrInvertedExtents is returned when a box has its minimum point greater than its
// maximum point along some axis.
var ErrInvertedExtents = errors.New("inverted extents")

// Volume returns the number of lattice cells in the inclusive box spanned by the two
// corners.  The corners may be given in either order.
func Volume(p1, p2 Point3d) int64 {
	dx := abs(p2[0]-p1[0]) + 1
	dy := abs(p2[1]-p1[1]) + 1
	dz := abs(p2[2]-p1[2]) + 1
	return dx * dy * dz
}

// Overlaps returns true if the inclusive box [aMin, aMax] intersects [bMin, bMax]
// along every axis.
func Overlaps(aMin, aMax, bMin, bMax Point3d) bool {
	if bMax[0] < aMin[0] || bMax[1] < aMin[1] || bMax[2] < aMin[2] {
		return false
	}
	if bMin[0] > aMax[0] || bMin[1] > aMax[1] || bMin[2] > aMax[2] {
		return false
	}
	return true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Extents3d is an inclusive box on the lattice.
type Extents3d struct {
	MinPoint Point3d
	MaxPoint Point3d
}

// NewExtents3d returns the box spanning the two corners or ErrInvertedExtents if
// minPt is greater than maxPt along any axis.
func NewExtents3d(minPt, maxPt Point3d) (Extents3d, error) {
	ext := Extents3d{minPt, maxPt}
	if !ext.Valid() {
		return Extents3d{}, fmt.Errorf("%w: %s", ErrInvertedExtents, ext)
	}
	return ext, nil
}

// Valid returns true if the box is non-empty.
func (ext Extents3d) Valid() bool {
	for i := 0; i < 3; i++ {
		if ext.MinPoint[i] > ext.MaxPoint[i] {
			return false
		}
	}
	return true
}

// Volume returns the number of cells within the box, or 0 for an empty box.
func (ext Extents3d) Volume() int64 {
	if !ext.Valid() {
		return 0
	}
	return Volume(ext.MinPoint, ext.MaxPoint)
}

// Overlaps returns true if both boxes share at least one cell.
func (ext Extents3d) Overlaps(other Extents3d) bool {
	if !ext.Valid() || !other.Valid() {
		return false
	}
	return Overlaps(ext.MinPoint, ext.MaxPoint, other.MinPoint, other.MaxPoint)
}

// Clip returns the part of the box within bound.  The result is invalid if the
// two do not overlap.
func (ext Extents3d) Clip(bound Extents3d) Extents3d {
	return Extents3d{
		MinPoint: ext.MinPoint.ConstrainMin(bound.MinPoint),
		MaxPoint: ext.MaxPoint.ConstrainMax(bound.MaxPoint),
	}
}

// Contains returns true if every cell of other lies within the receiver.
func (ext Extents3d) Contains(other Extents3d) bool {
	for i := 0; i < 3; i++ {
		if other.MinPoint[i] < ext.MinPoint[i] || other.MaxPoint[i] > ext.MaxPoint[i] {
			return false
		}
	}
	return true
}

// Extend grows the box to the bounding box of itself and other.  An empty
// receiver takes on other.
func (ext *Extents3d) Extend(other Extents3d) {
	if !ext.Valid() {
		*ext = other
		return
	}
	ext.MinPoint.SetMinimum(other.MinPoint)
	ext.MaxPoint.SetMaximum(other.MaxPoint)
}

// Equals returns true if both boxes have identical corners.
func (ext Extents3d) Equals(other Extents3d) bool {
	return ext.MinPoint == other.MinPoint && ext.MaxPoint == other.MaxPoint
}

func (ext Extents3d) String() string {
	return fmt.Sprintf("%s -> %s", ext.MinPoint, ext.MaxPoint)
}
