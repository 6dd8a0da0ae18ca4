// Package xdr implements the XDR primitive wire encoding used by ONC RPC
// payloads (RFC 4506): big-endian 32-bit words and variable-length opaque
// data padded to 4-byte boundaries.
//
// The package knows nothing about RPC or NFS. Every higher protocol layer
// builds its messages out of these primitives.
package xdr

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnderrun is returned when a declared length plus padding exceeds the
// remaining input. Callers treat it as a malformed message.
var ErrUnderrun = errors.New("xdr: buffer underrun")

// Pad returns the number of zero bytes needed to align n to a 4-byte
// boundary.
func Pad(n int) int {
	return (4 - n%4) % 4
}

// Writer accumulates XDR-encoded data. Writes never fail.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded data. The slice is owned by the Writer and is
// only valid until the next Put call.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes encoded so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) PutUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *Writer) PutUint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// PutOpaque encodes variable-length opaque data as
// [length][bytes][padding].
func (w *Writer) PutOpaque(data []byte) {
	w.PutUint32(uint32(len(data)))
	w.buf = append(w.buf, data...)
	w.buf = append(w.buf, make([]byte, Pad(len(data)))...)
}

// PutString encodes a string with opaque encoding over its UTF-8 bytes.
func (w *Writer) PutString(s string) {
	w.PutOpaque([]byte(s))
}

// Reader decodes XDR primitives from a byte slice. All methods fail with
// ErrUnderrun once the declared data runs past the end of the buffer;
// the read position is not advanced on failure.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Offset returns the current read position from the start of the buffer.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the slice of bytes not yet consumed.
func (r *Reader) Remaining() []byte {
	return r.buf[r.pos:]
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrUnderrun, n, r.pos, len(r.buf))
	}
	return nil
}

func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// Opaque decodes variable-length opaque data, consuming its padding.
// The returned slice aliases the Reader's buffer.
func (r *Reader) Opaque() ([]byte, error) {
	length, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	n := int(length)
	if err := r.need(n + Pad(n)); err != nil {
		r.pos -= 4
		return nil, err
	}
	data := r.buf[r.pos : r.pos+n]
	r.pos += n + Pad(n)
	return data, nil
}

// String decodes a string with opaque encoding. Invalid UTF-8 sequences
// are carried through byte-for-byte.
func (r *Reader) String() (string, error) {
	data, err := r.Opaque()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SkipOpaque consumes an opaque field without retaining its content.
func (r *Reader) SkipOpaque() error {
	_, err := r.Opaque()
	return err
}
