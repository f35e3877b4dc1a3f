package lattice

import (
	"errors"

	. "github.com/janelia-flyem/go/gocheck"
)

func (s *DataSuite) TestVolume(c *C) {
	c.Assert(Volume(Point3d{0, 0, 0}, Point3d{9, 9, 9}), Equals, int64(1000))
	c.Assert(Volume(Point3d{9, 9, 9}, Point3d{0, 0, 0}), Equals, int64(1000))
	c.Assert(Volume(Point3d{2, 2, 2}, Point3d{2, 2, 2}), Equals, int64(1))
	c.Assert(Volume(Point3d{-50, -50, -50}, Point3d{50, 50, 50}), Equals, int64(101*101*101))

	huge := Volume(Point3d{-100000, -100000, -100000}, Point3d{99999, 99999, 99999})
	c.Assert(huge, Equals, int64(8000000000000000))
}

func (s *DataSuite) TestOverlaps(c *C) {
	aMin, aMax := Point3d{0, 0, 0}, Point3d{9, 9, 9}
	c.Assert(Overlaps(aMin, aMax, Point3d{9, 9, 9}, Point3d{20, 20, 20}), Equals, true)
	c.Assert(Overlaps(aMin, aMax, Point3d{10, 0, 0}, Point3d{20, 9, 9}), Equals, false)
	c.Assert(Overlaps(aMin, aMax, Point3d{0, -5, 0}, Point3d{9, -1, 9}), Equals, false)
	c.Assert(Overlaps(aMin, aMax, Point3d{0, 0, 10}, Point3d{9, 9, 10}), Equals, false)
	c.Assert(Overlaps(aMin, aMax, Point3d{-5, -5, -5}, Point3d{30, 30, 30}), Equals, true)
	c.Assert(Overlaps(aMin, aMax, Point3d{3, 3, 3}, Point3d{4, 4, 4}), Equals, true)
}

func (s *DataSuite) TestExtents3d(c *C) {
	ext, err := NewExtents3d(Point3d{0, 0, 0}, Point3d{9, 9, 9})
	c.Assert(err, IsNil)
	c.Assert(ext.Volume(), Equals, int64(1000))

	_, err = NewExtents3d(Point3d{0, 5, 0}, Point3d{9, 4, 9})
	c.Assert(errors.Is(err, ErrInvertedExtents), Equals, true)

	inverted := Extents3d{Point3d{0, 5, 0}, Point3d{9, 4, 9}}
	c.Assert(inverted.Valid(), Equals, false)
	c.Assert(inverted.Volume(), Equals, int64(0))
	c.Assert(inverted.Overlaps(ext), Equals, false)

	clipped := Extents3d{Point3d{-5, 3, 8}, Point3d{4, 20, 12}}.Clip(ext)
	c.Assert(clipped, Equals, Extents3d{Point3d{0, 3, 8}, Point3d{4, 9, 9}})
	c.Assert(ext.Contains(clipped), Equals, true)
	c.Assert(clipped.Contains(ext), Equals, false)

	outside := Extents3d{Point3d{20, 20, 20}, Point3d{30, 30, 30}}.Clip(ext)
	c.Assert(outside.Valid(), Equals, false)

	c.Assert(ext.Equals(Extents3d{Point3d{0, 0, 0}, Point3d{9, 9, 9}}), Equals, true)
	c.Assert(ext.String(), Equals, "(0,0,0) -> (9,9,9)")
}

func (s *DataSuite) TestExtend(c *C) {
	ext := Extents3d{Point3d{0, 0, 0}, Point3d{1, 1, 1}}
	ext.Extend(Extents3d{Point3d{5, -3, 0}, Point3d{6, 0, 8}})
	c.Assert(ext, Equals, Extents3d{Point3d{0, -3, 0}, Point3d{6, 1, 8}})

	empty := Extents3d{Point3d{1, 1, 1}, Point3d{0, 0, 0}}
	empty.Extend(ext)
	c.Assert(empty, Equals, ext)
}
