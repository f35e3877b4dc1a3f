package reboot

import (
	"github.com/tinylib/msgp/msgp"
)

// Steps are msgpack arrays of [on, minX, minY, minZ, maxX, maxY, maxZ] and a
// Procedure is an array of steps.
const stepFields = 7

// DecodeMsg implements msgp.Decodable
func (z *Step) DecodeMsg(dc *msgp.Reader) (err error) {
	var sz uint32
	sz, err = dc.ReadArrayHeader()
	if err != nil {
		return
	}
	if sz != stepFields {
		err = msgp.ArrayError{Wanted: stepFields, Got: sz}
		return
	}
	z.On, err = dc.ReadBool()
	if err != nil {
		return
	}
	for i := range z.Extents.MinPoint {
		z.Extents.MinPoint[i], err = dc.ReadInt64()
		if err != nil {
			return
		}
	}
	for i := range z.Extents.MaxPoint {
		z.Extents.MaxPoint[i], err = dc.ReadInt64()
		if err != nil {
			return
		}
	}
	return
}

// EncodeMsg implements msgp.Encodable
func (z *Step) EncodeMsg(en *msgp.Writer) (err error) {
	err = en.WriteArrayHeader(stepFields)
	if err != nil {
		return
	}
	err = en.WriteBool(z.On)
	if err != nil {
		return
	}
	for _, v := range z.Extents.MinPoint {
		err = en.WriteInt64(v)
		if err != nil {
			return
		}
	}
	for _, v := range z.Extents.MaxPoint {
		err = en.WriteInt64(v)
		if err != nil {
			return
		}
	}
	return
}

// MarshalMsg implements msgp.Marshaler
func (z *Step) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, stepFields)
	o = msgp.AppendBool(o, z.On)
	for _, v := range z.Extents.MinPoint {
		o = msgp.AppendInt64(o, v)
	}
	for _, v := range z.Extents.MaxPoint {
		o = msgp.AppendInt64(o, v)
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *Step) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var sz uint32
	sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if sz != stepFields {
		err = msgp.ArrayError{Wanted: stepFields, Got: sz}
		return
	}
	z.On, bts, err = msgp.ReadBoolBytes(bts)
	if err != nil {
		return
	}
	for i := range z.Extents.MinPoint {
		z.Extents.MinPoint[i], bts, err = msgp.ReadInt64Bytes(bts)
		if err != nil {
			return
		}
	}
	for i := range z.Extents.MaxPoint {
		z.Extents.MaxPoint[i], bts, err = msgp.ReadInt64Bytes(bts)
		if err != nil {
			return
		}
	}
	o = bts
	return
}

func (z *Step) Msgsize() (s int) {
	s = msgp.ArrayHeaderSize + msgp.BoolSize + 6*msgp.Int64Size
	return
}

// DecodeMsg implements msgp.Decodable
func (z *Procedure) DecodeMsg(dc *msgp.Reader) (err error) {
	var sz uint32
	sz, err = dc.ReadArrayHeader()
	if err != nil {
		return
	}
	if cap(z.Steps) >= int(sz) {
		z.Steps = z.Steps[:sz]
	} else {
		z.Steps = make([]Step, sz)
	}
	for i := range z.Steps {
		err = z.Steps[i].DecodeMsg(dc)
		if err != nil {
			return
		}
	}
	return
}

// EncodeMsg implements msgp.Encodable
func (z *Procedure) EncodeMsg(en *msgp.Writer) (err error) {
	err = en.WriteArrayHeader(uint32(len(z.Steps)))
	if err != nil {
		return
	}
	for i := range z.Steps {
		err = z.Steps[i].EncodeMsg(en)
		if err != nil {
			return
		}
	}
	return
}

// MarshalMsg implements msgp.Marshaler
func (z *Procedure) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.Require(b, z.Msgsize())
	o = msgp.AppendArrayHeader(o, uint32(len(z.Steps)))
	for i := range z.Steps {
		o, err = z.Steps[i].MarshalMsg(o)
		if err != nil {
			return
		}
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (z *Procedure) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var sz uint32
	sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if cap(z.Steps) >= int(sz) {
		z.Steps = z.Steps[:sz]
	} else {
		z.Steps = make([]Step, sz)
	}
	for i := range z.Steps {
		bts, err = z.Steps[i].UnmarshalMsg(bts)
		if err != nil {
			return
		}
	}
	o = bts
	return
}

func (z *Procedure) Msgsize() (s int) {
	s = msgp.ArrayHeaderSize
	for i := range z.Steps {
		s += z.Steps[i].Msgsize()
	}
	return
}
