package leb128

import (
	"bytes"
	"testing"
)

func TestWriteVarUint32Roundtrips(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 1 << 20, 1<<32 - 1}
	for _, c := range cases {
		w := NewWriter()
		WriteVarUint32(w, c)
		got, err := ReadUint32(bytes.NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("value %d: read error: %v", c, err)
		}
		if got != c {
			t.Fatalf("value %d round-tripped as %d", c, got)
		}
	}
}

func TestWriteVarInt32Roundtrips(t *testing.T) {
	cases := []int32{0, 1, -1, 63, -64, 1000000, -1000000}
	for _, c := range cases {
		w := NewWriter()
		WriteVarInt32(w, c)
		got, err := ReadInt32(bytes.NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("value %d: read error: %v", c, err)
		}
		if got != c {
			t.Fatalf("value %d round-tripped as %d", c, got)
		}
	}
}

func TestPatchableSlotPatchesToMinimalEquivalentValue(t *testing.T) {
	w := NewWriter()
	pos := WritePatchableVarUint32(w)
	w.WriteByte(0xFF) // stand-in payload byte so pos isn't at Len()
	w.PatchVarUint32(pos, 42)

	got, err := ReadUint32(bytes.NewReader(w.Bytes()[pos:]))
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestWriteVarInt64RoundtripsThroughRawBytes(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, c := range cases {
		var raw [8]byte
		for i := 0; i < 8; i++ {
			raw[i] = byte(c >> (8 * uint(i)))
		}
		w := NewWriter()
		WriteVarInt64(w, raw)
		got, err := ReadInt64(bytes.NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("value %d: read error: %v", c, err)
		}
		if got != c {
			t.Fatalf("value %d round-tripped as %d", c, got)
		}
	}
}

func TestWriteFloat32And64AreLittleEndian(t *testing.T) {
	w := NewWriter()
	WriteFloat32(w, 0x01020304)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}

	w2 := NewWriter()
	WriteFloat64(w2, 0x0102030405060708)
	want2 := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(w2.Bytes(), want2) {
		t.Fatalf("got % x, want % x", w2.Bytes(), want2)
	}
}

func TestWriteStringIsLengthPrefixed(t *testing.T) {
	w := NewWriter()
	WriteString(w, []byte("hi"))
	want := []byte{0x02, 'h', 'i'}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}
}
