// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

// Package bitbuf is the bit-level buffer primitive: a byte array with a
// write cursor or read cursor, plus a bit cursor for non-aligned integer
// fields, fixed-width floats, length-prefixed strings/blobs, and
// variable-length integer encodings.
package bitbuf

import (
	"math"

	"github.com/mtschema/bitpack/bperrors"
	"github.com/mtschema/bitpack/textcodec"
)

// Writer writes a wire-format record into a byte array, either a
// fixed-capacity external buffer or a growable one it owns.
type Writer struct {
	buf       []byte
	off       int // next byte-granular write position once aligned
	bitByte   int // byte index the current bit run lives in
	bitIndex  int // bit position within bitByte, 0..7
	little    bool
	resizable bool
}

// NewWriter returns a writer over a freshly allocated buffer. A size of
// zero produces a growable writer; any other size produces a
// fixed-capacity writer of exactly that many bytes.
func NewWriter(size int, littleEndian bool) *Writer {
	if size == 0 {
		return &Writer{buf: make([]byte, 0, 64), little: littleEndian, resizable: true}
	}
	return &Writer{buf: make([]byte, 0, size), little: littleEndian, resizable: false}
}

// WrapWriter returns a writer over an existing buffer. If clone is true
// the writer copies buf instead of aliasing it. The writer is
// fixed-capacity at len(buf) unless resizable is true.
func WrapWriter(buf []byte, clone bool, resizable bool, littleEndian bool) *Writer {
	b := buf
	if clone {
		b = make([]byte, len(buf))
		copy(b, buf)
	}
	return &Writer{buf: b[:0:len(b)], little: littleEndian, resizable: resizable}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of committed bytes.
func (w *Writer) Len() int { return len(w.buf) }

// Clone returns an independent copy of the writer and its buffer.
func (w *Writer) Clone() *Writer {
	c := *w
	c.buf = make([]byte, len(w.buf), cap(w.buf))
	copy(c.buf, w.buf)
	return &c
}

// Reset rewinds every cursor to the start and truncates the buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.off, w.bitByte, w.bitIndex = 0, 0, 0
}

// Seek moves the byte cursor to an absolute offset, abandoning any
// in-progress bit run.
func (w *Writer) Seek(offset int) {
	w.off = offset
	w.bitByte = offset
	w.bitIndex = 0
}

// Advance moves the byte cursor forward by delta bytes, abandoning any
// in-progress bit run.
func (w *Writer) Advance(delta int) {
	w.Seek(w.nextByteOffset() + delta)
}

// align abandons any partially-filled bit-run byte so the next write
// starts at a byte boundary, per the buffer primitive's unused-bits
// policy: two adjacent bit writes share a byte, but a byte-granular
// write following a bit-granular one starts fresh.
func (w *Writer) align() {
	no := w.nextByteOffset()
	w.off, w.bitByte, w.bitIndex = no, no, 0
}

func (w *Writer) nextByteOffset() int {
	if w.bitIndex == 0 {
		return w.bitByte
	}
	return w.bitByte + 1
}

// expand grows the backing array's capacity by delta plus the current
// length, copying existing bytes.
func (w *Writer) expand(delta int) {
	grown := make([]byte, len(w.buf), cap(w.buf)+delta+len(w.buf))
	copy(grown, w.buf)
	w.buf = grown
}

// shrink truncates the backing array's capacity by delta bytes.
func (w *Writer) shrink(delta int) {
	n := cap(w.buf) - delta
	if n < len(w.buf) {
		n = len(w.buf)
	}
	grown := make([]byte, len(w.buf), n)
	copy(grown, w.buf)
	w.buf = grown
}

// reserve ensures n more bytes are available starting at offset, growing
// the backing array for resizable writers or failing with Overflow for
// fixed-capacity ones. It extends len(buf) up to offset+n so later reads
// of intervening bytes see zeros instead of panicking.
func (w *Writer) reserve(offset, n int) error {
	need := offset + n
	if need <= len(w.buf) {
		return nil
	}
	if need > cap(w.buf) {
		if !w.resizable {
			return bperrors.Overflow("", "write of %d bytes at offset %d exceeds fixed capacity %d", n, offset, cap(w.buf))
		}
		w.expand(need - cap(w.buf))
	}
	old := len(w.buf)
	w.buf = w.buf[:need]
	clear(w.buf[old:])
	return nil
}

func (w *Writer) putUint(offset int, width int, v uint64) {
	if w.little {
		for i := 0; i < width; i++ {
			w.buf[offset+i] = byte(v >> (8 * i))
		}
	} else {
		for i := 0; i < width; i++ {
			w.buf[offset+width-1-i] = byte(v >> (8 * i))
		}
	}
}

func (w *Writer) writeFixed(width int, v uint64) error {
	w.align()
	if err := w.reserve(w.off, width); err != nil {
		return err
	}
	w.putUint(w.off, width, v)
	w.off += width
	w.bitByte = w.off
	w.bitIndex = 0
	return nil
}

// WriteUint8At writes a u8 at an already-reserved absolute byte offset
// without touching the write cursor.
func (w *Writer) WriteUint8At(offset int, v uint8) error {
	if offset+1 > len(w.buf) {
		return bperrors.Overflow("", "patch offset %d out of range (len %d)", offset, len(w.buf))
	}
	w.buf[offset] = v
	return nil
}

func (w *Writer) WriteUint8(v uint8) error  { return w.writeFixed(1, uint64(v)) }
func (w *Writer) WriteInt8(v int8) error    { return w.writeFixed(1, uint64(uint8(v))) }
func (w *Writer) WriteUint16(v uint16) error { return w.writeFixed(2, uint64(v)) }
func (w *Writer) WriteInt16(v int16) error  { return w.writeFixed(2, uint64(uint16(v))) }
func (w *Writer) WriteUint32(v uint32) error { return w.writeFixed(4, uint64(v)) }
func (w *Writer) WriteInt32(v int32) error  { return w.writeFixed(4, uint64(uint32(v))) }
func (w *Writer) WriteUint64(v uint64) error { return w.writeFixed(8, v) }
func (w *Writer) WriteInt64(v int64) error  { return w.writeFixed(8, uint64(v)) }

// WriteFloat16 writes the IEEE 754 binary16 encoding of v.
func (w *Writer) WriteFloat16(v float64) error { return w.writeFixed(2, uint64(float64ToFloat16(v))) }

// WriteFloat32 writes the IEEE 754 binary32 encoding of v.
func (w *Writer) WriteFloat32(v float32) error {
	return w.writeFixed(4, uint64(math.Float32bits(v)))
}

// WriteFloat64 writes the IEEE 754 binary64 encoding of v.
func (w *Writer) WriteFloat64(v float64) error {
	return w.writeFixed(8, math.Float64bits(v))
}

// WriteBoolean writes a full byte (0 or 1) when asByte is true, otherwise
// a single bit at the bit cursor.
func (w *Writer) WriteBoolean(v bool, asByte bool) error {
	var n uint8
	if v {
		n = 1
	}
	if asByte {
		return w.WriteUint8(n)
	}
	return w.WriteBits(int64(n), 1, false)
}

// WriteBits writes the low bits-wide pattern of value at the bit cursor.
// When signed is true, value is the caller's signed integer and is first
// shifted by the signed range's minimum so the stored pattern is
// unsigned. A byte-aligned write of 8, 16, or 32 bits is delegated to the
// corresponding fixed-width write.
func (w *Writer) WriteBits(value int64, bits int, signed bool) error {
	if bits < 1 || bits > 53 {
		return bperrors.SchemaInvalid("", "bit width %d out of range [1,53]", bits)
	}
	var pattern uint64
	if signed {
		lo, hi := RangeMin(bits, true), RangeMax(bits, true)
		if value < lo || value > hi {
			return bperrors.OutOfRange("", "signed value %d out of range [%d,%d] for %d bits", value, lo, hi, bits)
		}
		pattern = uint64(value - lo)
	} else {
		hi := RangeMax(bits, false)
		if value < 0 || value > hi {
			return bperrors.OutOfRange("", "unsigned value %d out of range [0,%d] for %d bits", value, hi, bits)
		}
		pattern = uint64(value)
	}

	if w.bitIndex == 0 && (bits == 8 || bits == 16 || bits == 32) {
		switch bits {
		case 8:
			return w.WriteUint8(uint8(pattern))
		case 16:
			return w.WriteUint16(uint16(pattern))
		case 32:
			return w.WriteUint32(uint32(pattern))
		}
	}

	remaining := bits
	for remaining > 0 {
		if err := w.reserve(w.bitByte, 1); err != nil {
			return err
		}
		avail := 8 - w.bitIndex
		n := remaining
		if n > avail {
			n = avail
		}
		chunk := byte(pattern & ((uint64(1) << uint(n)) - 1))
		w.buf[w.bitByte] |= chunk << uint(w.bitIndex)
		pattern >>= uint(n)
		w.bitIndex += n
		remaining -= n
		if w.bitIndex == 8 {
			w.bitIndex = 0
			w.bitByte++
		}
	}
	w.off = w.nextByteOffset()
	return nil
}

// WriteUint writes n as an unsigned LEB128 varint (seven bits plus a
// continuation bit per byte), realigning to a byte boundary first.
func (w *Writer) WriteUint(n uint64) error {
	w.align()
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		if err := w.WriteUint8(b); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// WriteInt writes n as a zigzag-mapped unsigned LEB128 varint.
func (w *Writer) WriteInt(n int64) error {
	return w.WriteUint(zigzagEncode(n))
}

// WriteBlob writes bytes, optionally prefixed with an unsigned 16-bit
// length.
func (w *Writer) WriteBlob(b []byte, includeSize bool) error {
	w.align()
	if includeSize {
		if len(b) > 0xffff {
			return bperrors.OutOfRange("", "blob length %d exceeds 16-bit prefix", len(b))
		}
		if err := w.WriteUint16(uint16(len(b))); err != nil {
			return err
		}
	}
	if err := w.reserve(w.off, len(b)); err != nil {
		return err
	}
	copy(w.buf[w.off:], b)
	w.off += len(b)
	w.bitByte = w.off
	w.bitIndex = 0
	return nil
}

// WriteString UTF-8-encodes text and writes it as a blob. For a
// resizable writer the encoded length is measured up front so exactly
// the right number of bytes is reserved; for a fixed-capacity writer
// the text is encoded into a scratch slice the size of the remaining
// capacity, failing with Overflow if any rune would not fit, and then
// written as a blob.
func (w *Writer) WriteString(text string, includeSize bool) error {
	if w.resizable {
		return w.WriteBlob(textcodec.Encode(text), includeSize)
	}

	w.align()
	if includeSize {
		if len(text) > 0xffff {
			return bperrors.OutOfRange("", "string length %d exceeds 16-bit prefix", len(text))
		}
	}
	room := cap(w.buf) - w.off
	if includeSize {
		room -= 2
	}
	if room < 0 {
		return bperrors.Overflow("", "no room for string length prefix at offset %d", w.off)
	}
	dst := make([]byte, room)
	written, read := textcodec.EncodeInto(text, dst)
	if read < len(text) {
		return bperrors.Overflow("", "string does not fit in remaining %d bytes of fixed buffer", room)
	}
	return w.WriteBlob(dst[:written], includeSize)
}
