package binary

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	s := NewSer(make([]byte, 32))
	s.AddUint16(0xbeef)
	s.AddUint32(0xdeadbeef)
	s.AddUint64(1<<63 + 5)
	s.AddFixedByteArray([]byte{1, 2, 3, 4})

	d := NewDes(s.Output())

	if d.ReadUint16() != 0xbeef {
		t.Fatal("uint16 mismatch")
	}
	if d.ReadUint32() != 0xdeadbeef {
		t.Fatal("uint32 mismatch")
	}
	if d.ReadUint64() != 1<<63+5 {
		t.Fatal("uint64 mismatch")
	}
	if !bytes.Equal(d.ReadFixedByteArray(4), []byte{1, 2, 3, 4}) {
		t.Fatal("byte array mismatch")
	}
	if d.Error() != nil {
		t.Fatal(d.Error())
	}
	if len(d.RemainingData()) != 0 {
		t.Fatal("data left over")
	}
}

func TestShortBuffer(t *testing.T) {
	d := NewDes([]byte{1, 2})

	d.ReadUint32()
	if d.Error() == nil {
		t.Fatal("expected error on short buffer")
	}

	// error sticks
	if d.ReadUint64() != 0 {
		t.Fatal("read after error should return zero")
	}
	if d.Error() == nil {
		t.Fatal("error should persist")
	}
}
