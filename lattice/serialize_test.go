package lattice

import (
	"bytes"

	. "github.com/janelia-flyem/go/gocheck"
)

func (s *DataSuite) TestSerialization(c *C) {
	data := bytes.Repeat([]byte("on x=10..12,y=10..12,z=10..12\n"), 50)

	for _, compress := range []Compression{Uncompressed, Snappy} {
		for _, checksum := range []Checksum{NoChecksum, CRC32} {
			s, err := SerializeData(data, compress, checksum)
			c.Assert(err, IsNil)

			got, gotCompress, err := DeserializeData(s, true)
			c.Assert(err, IsNil)
			c.Assert(gotCompress, Equals, compress)
			c.Assert(bytes.Equal(got, data), Equals, true)
		}
	}
}

func (s *DataSuite) TestSerializationChecksum(c *C) {
	s1, err := SerializeData([]byte("some stored value"), Snappy, CRC32)
	c.Assert(err, IsNil)

	s1[len(s1)-1] ^= 0xff
	_, _, err = DeserializeData(s1, true)
	c.Assert(err, ErrorMatches, "bad checksum.*")

	_, _, err = DeserializeData(nil, true)
	c.Assert(err, NotNil)
}

func (s *DataSuite) TestSerializationFormat(c *C) {
	format := EncodeSerializationFormat(Snappy, CRC32)
	compress, checksum := DecodeSerializationFormat(format)
	c.Assert(compress, Equals, Snappy)
	c.Assert(checksum, Equals, CRC32)
}
