// package binary implements the fixed little-endian wire layout used by
// transactions and the seed keyfile.
package binary

import (
	"encoding/binary"
	"errors"
)

func NewSer(reuseSlice []byte) Ser {
	return Ser{
		data: reuseSlice[0:0],
	}
}

type Ser struct {
	data []byte
}

func (s Ser) Output() []byte {
	return s.data
}

func (s *Ser) AddUint16(n uint16) {
	s.data = binary.LittleEndian.AppendUint16(s.data, n)
}
func (s *Ser) AddUint32(n uint32) {
	s.data = binary.LittleEndian.AppendUint32(s.data, n)
}
func (s *Ser) AddUint64(n uint64) {
	s.data = binary.LittleEndian.AppendUint64(s.data, n)
}

// adds a fixed-length byte array
func (s *Ser) AddFixedByteArray(a []byte) {
	s.data = append(s.data, a...)
}

func NewDes(data []byte) Des {
	return Des{
		data: data,
	}
}

// Des reads back a Ser layout. The first decode failure sticks: every later
// read returns a zero value and Error() reports the failure.
type Des struct {
	data []byte
	err  error
}

var errShort = errors.New("buffer too short")

func (d *Des) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.data) < n {
		d.err = errShort
		return nil
	}
	b := d.data[:n]
	d.data = d.data[n:]
	return b
}

func (d *Des) ReadUint16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}
func (d *Des) ReadUint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}
func (d *Des) ReadUint64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *Des) ReadFixedByteArray(length int) []byte {
	b := d.take(length)
	if b == nil {
		return make([]byte, length)
	}
	return b
}

func (d Des) RemainingData() []byte {
	return d.data
}

func (d Des) Error() error {
	return d.err
}
