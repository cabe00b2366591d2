// Package leb128 implements the LEB128 variable-length integer encoding
// used throughout the Wasm binary format, both directions: reading (the
// read side kept from the teacher's leb128 package, adapted from an
// io.Reader of raw module bytes to a decode-only helper a BinaryReader
// collaborator can reuse) and writing (the side this module adds, for the
// Emitter, spec §4.1).
package leb128

import (
	"io"
	"log"
)

// Read reads a LEB128 integer of at most maxbit significant bits from r,
// returning the number of bytes consumed and the decoded value.
// Grounded on the teacher's leb128.Read (leb128/index.go): shift/sign
// bookkeeping is unchanged, only renamed for clarity.
func Read(r io.Reader, maxbit uint32, hasSign bool) (n int, value int64, err error) {
	var (
		shift uint32
		cur   int64
		sign  int64 = -1
	)

	p := make([]byte, 1)
	for {
		if _, err = io.ReadFull(r, p); err != nil {
			return n, 0, err
		}
		cur = int64(p[0])
		value |= (cur & 0x7f) << shift
		shift += 7
		sign <<= 7
		n++
		if cur&0x80 == 0 {
			break
		}
		if uint32(n) > (maxbit+7-1)/7 {
			log.Fatal("leb128: overflow while reading varint")
		}
	}

	if hasSign && ((sign>>1)&value) != 0 {
		value |= sign
	}

	return n, value, nil
}

// ReadUint32 reads a LEB128 encoded unsigned 32-bit integer from r.
func ReadUint32(r io.Reader) (uint32, error) {
	_, v, err := Read(r, 32, false)
	return uint32(v), err
}

// ReadInt32 reads a LEB128 encoded signed 32-bit integer from r.
func ReadInt32(r io.Reader) (int32, error) {
	_, v, err := Read(r, 32, true)
	return int32(v), err
}

// ReadUint64 reads a LEB128 encoded unsigned 64-bit integer from r.
func ReadUint64(r io.Reader) (uint64, error) {
	_, v, err := Read(r, 64, false)
	return uint64(v), err
}

// ReadInt64 reads a LEB128 encoded signed 64-bit integer from r.
func ReadInt64(r io.Reader) (int64, error) {
	_, v, err := Read(r, 64, true)
	return v, err
}

// Writer is the append-only byte sink the write-side helpers below target.
// The Emitter keeps exactly one of these (spec §3: "buffer: mutable
// sequence of bytes, append-only except for back-patch windows") rather
// than a *bytes.Buffer, because patching requires writing through an
// index into already-written bytes, which bytes.Buffer does not expose.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Len returns the number of bytes written so far; back-patch callers use
// this to remember a position before reserving a patchable slot.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the accumulated buffer. The slice aliases the Writer's
// backing array; callers that intend to keep writing must not retain it
// across further writes.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) { w.buf = append(w.buf, b) }

// Write appends p verbatim.
func (w *Writer) Write(p []byte) { w.buf = append(w.buf, p...) }

// PatchAt overwrites the len(data) bytes starting at pos with data. pos
// must have been obtained from this same Writer via Len() before the bytes
// being patched were written.
func (w *Writer) PatchAt(pos int, data []byte) {
	copy(w.buf[pos:pos+len(data)], data)
}

// WriteVarUint32 LEB128-encodes n in the minimal number of bytes: 7-bit
// groups least-significant-first, continuation bit set on every byte but
// the last (spec §4.1).
func WriteVarUint32(w *Writer, n uint32) {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			w.WriteByte(b | 0x80)
		} else {
			w.WriteByte(b)
			return
		}
	}
}

// WriteVarInt32 LEB128-encodes the signed value n, sign-extending until
// the remaining bits match the sign (spec §4.1).
func WriteVarInt32(w *Writer, n int32) {
	more := true
	for more {
		b := byte(n & 0x7f)
		n >>= 6 // arithmetic shift by 7 in total (6, then 1), keeping the sign
		n >>= 1
		if (n == 0 && b&0x40 == 0) || (n == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.WriteByte(b)
	}
}

// patchableWidth is the fixed byte width of a reserved, back-patchable
// LEB128 slot: 5 bytes, the maximal encoding width of a value up to
// 2^32-1 (spec §4.1, §9 open question 3 — the design note about a wider,
// 2^35-capable reservation is not adopted here; slots are capped at u32).
const patchableWidth = 5

// WritePatchableVarUint32 reserves a 5-byte placeholder and returns the
// position of its first byte, for a later PatchVarUint32 call once the
// real value is known.
func WritePatchableVarUint32(w *Writer) int {
	pos := w.Len()
	w.Write([]byte{0x80, 0x80, 0x80, 0x80, 0x00})
	return pos
}

// PatchVarUint32 overwrites the 5-byte slot reserved by
// WritePatchableVarUint32 at pos with the canonical 5-byte encoding of n.
// n must fit in 32 bits; callers must not request a value needing a 6th
// byte (spec §9 open question 3).
func PatchVarUint32(buf []byte, pos int, n uint32) {
	for i := 0; i < patchableWidth; i++ {
		b := byte(n & 0x7f)
		n >>= 7
		if i < patchableWidth-1 {
			b |= 0x80
		}
		buf[pos+i] = b
	}
}

// PatchVarUint32 is the Writer-bound convenience form of the package-level
// function of the same name: it patches directly into the Writer's own
// backing array.
func (w *Writer) PatchVarUint32(pos int, n uint32) {
	PatchVarUint32(w.buf, pos, n)
}

// WriteVarInt64 LEB128-encodes the signed 64-bit value held as raw
// little-endian bytes in raw (spec §4.1). Taking an unnamed [8]byte rather
// than int64 lets callers pass a wasm.Int64 directly: a named array type
// is assignable to an unnamed array parameter of the same element type
// and length without an explicit conversion.
func WriteVarInt64(w *Writer, raw [8]byte) {
	var n int64
	for i := 7; i >= 0; i-- {
		n = n<<8 | int64(raw[i])
	}
	more := true
	for more {
		b := byte(n & 0x7f)
		n >>= 6
		n >>= 1
		if (n == 0 && b&0x40 == 0) || (n == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.WriteByte(b)
	}
}

// WriteFloat32 writes the raw IEEE-754 bits of a f32.const little-endian.
func WriteFloat32(w *Writer, bits uint32) {
	w.Write([]byte{
		byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
	})
}

// WriteFloat64 writes the raw IEEE-754 bits of a f64.const little-endian.
func WriteFloat64(w *Writer, bits uint64) {
	w.Write([]byte{
		byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
		byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
	})
}

// WriteString writes a length-prefixed byte string: a varuint byte count
// followed by the bytes themselves (module/field names, data payloads).
func WriteString(w *Writer, s []byte) {
	WriteVarUint32(w, uint32(len(s)))
	w.Write(s)
}
