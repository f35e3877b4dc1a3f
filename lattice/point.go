package lattice

import (
	"fmt"
	"strconv"
	"strings"
)

// Point3d is an ordered list of three 64-bit signed integers giving a cell
// position on the lattice.  Since coordinates of a toggle can span more than
// 10^5 per axis, volumes are only safe in 64-bit arithmetic.
type Point3d [3]int64

// Add returns the addition of two points.
func (p Point3d) Add(p2 Point3d) Point3d {
	return Point3d{
		p[0] + p2[0],
		p[1] + p2[1],
		p[2] + p2[2],
	}
}

// Sub returns the subtraction of the passed point from the receiver.
func (p Point3d) Sub(p2 Point3d) Point3d {
	return Point3d{
		p[0] - p2[0],
		p[1] - p2[1],
		p[2] - p2[2],
	}
}

// AddScalar adds a scalar value to each element of this point.
func (p Point3d) AddScalar(value int64) Point3d {
	return Point3d{p[0] + value, p[1] + value, p[2] + value}
}

// ConstrainMin returns a point where each of its elements are not smaller
// than the corresponding element in bound.
func (p Point3d) ConstrainMin(bound Point3d) (result Point3d) {
	result = p
	if p[0] < bound[0] {
		result[0] = bound[0]
	}
	if p[1] < bound[1] {
		result[1] = bound[1]
	}
	if p[2] < bound[2] {
		result[2] = bound[2]
	}
	return
}

// ConstrainMax returns a point where each of its elements are not greater
// than the corresponding element in bound.
func (p Point3d) ConstrainMax(bound Point3d) (result Point3d) {
	result = p
	if p[0] > bound[0] {
		result[0] = bound[0]
	}
	if p[1] > bound[1] {
		result[1] = bound[1]
	}
	if p[2] > bound[2] {
		result[2] = bound[2]
	}
	return
}

// SetMinimum sets the point to the minimum elements of current and passed points.
func (p *Point3d) SetMinimum(p2 Point3d) {
	*p = p.ConstrainMax(p2)
}

// SetMaximum sets the point to the maximum elements of current and passed points.
func (p *Point3d) SetMaximum(p2 Point3d) {
	*p = p.ConstrainMin(p2)
}

func (p Point3d) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p[0], p[1], p[2])
}

// StringToPoint3d parses a string of the form "x<sep>y<sep>z", e.g., "-50,-50,-50".
func StringToPoint3d(str, separator string) (p Point3d, err error) {
	elems := strings.Split(str, separator)
	if len(elems) != 3 {
		err = fmt.Errorf("can't convert %q to a 3d point: need 3 elements", str)
		return
	}
	for i, elem := range elems {
		p[i], err = strconv.ParseInt(strings.TrimSpace(elem), 10, 64)
		if err != nil {
			err = fmt.Errorf("can't parse element %d of %q: %v", i, str, err)
			return
		}
	}
	return
}
