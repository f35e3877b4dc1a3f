package lattice

import (
	. "github.com/janelia-flyem/go/gocheck"
)

func (s *DataSuite) TestPoint3d(c *C) {
	a := Point3d{10, 21, 837821}
	b := Point3d{78312, -200, 40123}
	result := a.Add(b)
	c.Assert(result, Equals, Point3d{78322, -179, 877944})

	result = a.Sub(b)
	c.Assert(result, Equals, Point3d{-78302, 221, 797698})

	c.Assert(a.String(), Equals, "(10,21,837821)")

	result = a.AddScalar(10)
	c.Assert(result, Equals, Point3d{20, 31, 837831})

	result = a.ConstrainMin(b)
	c.Assert(result, Equals, Point3d{78312, 21, 837821})
	result = b.ConstrainMin(a)
	c.Assert(result, Equals, Point3d{78312, 21, 837821})

	result = a.ConstrainMax(b)
	c.Assert(result, Equals, Point3d{10, -200, 40123})
	result = b.ConstrainMax(a)
	c.Assert(result, Equals, Point3d{10, -200, 40123})

	big := Point3d{1 << 40, -(1 << 40), 1 << 41}
	c.Assert(big.Add(big), Equals, Point3d{1 << 41, -(1 << 41), 1 << 42})
}

func (s *DataSuite) TestPoint3dMinMax(c *C) {
	p := Point3d{5, -5, 0}
	p.SetMinimum(Point3d{0, 0, 0})
	c.Assert(p, Equals, Point3d{0, -5, 0})
	p.SetMaximum(Point3d{3, 3, -3})
	c.Assert(p, Equals, Point3d{3, 3, 0})
}

func (s *DataSuite) TestStringToPoint3d(c *C) {
	p, err := StringToPoint3d("-50, 12,50", ",")
	c.Assert(err, IsNil)
	c.Assert(p, Equals, Point3d{-50, 12, 50})

	_, err = StringToPoint3d("1,2", ",")
	c.Assert(err, NotNil)

	_, err = StringToPoint3d("1,b,2", ",")
	c.Assert(err, NotNil)
}
