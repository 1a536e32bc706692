// Package byteformat implements the compact binary wire format adapter
// for pkg/codec: fixed-width, big-endian primitives with no field names
// on the wire, grounded on encoding/binary the way
// leejw51-go-amino/codec.go drives its fixed-width binary fields.
package byteformat

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/shapestone/shape-codec/pkg/codec"
)

// Every value on the wire, including array/object framing, is preceded
// by a single presence byte (present/absent) so PeekNull/ReadNull can
// be non-destructive without a separate lookahead buffer — the core
// never signals "this value is non-null" explicitly, so the adapter
// must mark presence uniformly rather than only at nullable positions.
const (
	presentByte byte = 1
	absentByte  byte = 0
)

// Writer appends big-endian binary values to an internal buffer. It
// implements codec.Writer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

// Bytes returns the binary data written so far.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) present() {
	w.buf = append(w.buf, presentByte)
}

func (w *Writer) WriteNull() error {
	w.buf = append(w.buf, absentByte)
	return nil
}

func (w *Writer) WriteBool(v bool) error {
	w.present()
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
	return nil
}

func (w *Writer) WriteInt(v int64) error {
	w.present()
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	w.buf = append(w.buf, tmp[:]...)
	return nil
}

func (w *Writer) WriteUint(v uint64) error {
	w.present()
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
	return nil
}

func (w *Writer) WriteFloat(v float64) error {
	w.present()
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v))
	w.buf = append(w.buf, tmp[:]...)
	return nil
}

func (w *Writer) WriteString(v string) error {
	w.present()
	if len(v) > math.MaxUint16 {
		return fmt.Errorf("byteformat: string length %d exceeds u16 limit", len(v))
	}
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(len(v)))
	w.buf = append(w.buf, tmp[:]...)
	w.buf = append(w.buf, v...)
	return nil
}

// WriteTypeTag writes the type identifier as a length-prefixed string,
// the same shape as any other string value, immediately before the
// tagged value's own framing.
func (w *Writer) WriteTypeTag(id codec.TypeID) error {
	return w.WriteString(string(id))
}

func (w *Writer) BeginObject() error {
	w.present()
	return nil
}

// WriteField ignores name: the Byte format carries no field names, so
// the product/arg-array codecs must write (and read back) fields in a
// single fixed schema order instead.
func (w *Writer) WriteField(name string, fn func() error) error {
	return fn()
}

func (w *Writer) EndObject() error { return nil }

func (w *Writer) BeginArray(length int) error {
	w.present()
	if length < 0 {
		return fmt.Errorf("byteformat: array length must be known up front, got %d", length)
	}
	if length > math.MaxUint32 {
		return fmt.Errorf("byteformat: array length %d exceeds u32 limit", length)
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(length))
	w.buf = append(w.buf, tmp[:]...)
	return nil
}

func (w *Writer) WriteElement(i int, fn func() error) error {
	return fn()
}

func (w *Writer) EndArray() error { return nil }

// Ordered is always true: the Byte format carries no field names, so
// the product/map codecs must encode/decode by fixed schema order.
func (w *Writer) Ordered() bool { return true }

var _ codec.Writer = (*Writer)(nil)

// Reader consumes big-endian binary values from an in-memory buffer. It
// implements codec.Reader.
type Reader struct {
	buf []byte
	pos int

	// arrayRemaining mirrors the nested BeginArray length countdown so
	// HasMore can report without any element-delimiter on the wire.
	arrayRemaining []int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("byteformat: unexpected end of stream reading %d bytes", n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// PeekNull reads the uniform presence byte without consuming it, per
// the non-destructive-peek rationale above presentByte/absentByte.
func (r *Reader) PeekNull() (bool, error) {
	if r.pos >= len(r.buf) {
		return false, fmt.Errorf("byteformat: unexpected end of stream reading presence byte")
	}
	return r.buf[r.pos] == absentByte, nil
}

func (r *Reader) ReadNull() error {
	b, err := r.take(1)
	if err != nil {
		return err
	}
	if b[0] != absentByte {
		return fmt.Errorf("byteformat: ReadNull on present value")
	}
	return nil
}

func (r *Reader) consumePresence() error {
	b, err := r.take(1)
	if err != nil {
		return err
	}
	if b[0] != presentByte {
		return fmt.Errorf("byteformat: expected present value, got absence marker")
	}
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	if err := r.consumePresence(); err != nil {
		return false, err
	}
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (r *Reader) ReadInt() (int64, error) {
	if err := r.consumePresence(); err != nil {
		return 0, err
	}
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (r *Reader) ReadUint() (uint64, error) {
	if err := r.consumePresence(); err != nil {
		return 0, err
	}
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) ReadFloat() (float64, error) {
	if err := r.consumePresence(); err != nil {
		return 0, err
	}
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (r *Reader) ReadString() (string, error) {
	if err := r.consumePresence(); err != nil {
		return "", err
	}
	lb, err := r.take(2)
	if err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lb)
	sb, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(sb), nil
}

// PeekTypeTag reads the type tag unconditionally: interfaceCodec.Decode
// only calls this after PeekNull has already reported false, and
// interfaceCodec.Encode always calls WriteTypeTag before the value in
// that same case, so a tag string is guaranteed to be next on the wire.
// "Peek" here follows the interface's documented meaning (reads the tag
// without consuming the value it precedes), not a non-destructive
// lookahead on the tag itself.
func (r *Reader) PeekTypeTag() (codec.TypeID, bool, error) {
	s, err := r.ReadString()
	if err != nil {
		return "", false, err
	}
	return codec.TypeID(s), true, nil
}

func (r *Reader) BeginObject() error {
	return r.consumePresence()
}

// ReadFieldName never has a name to return: Ordered reports true, and
// the ordered decode paths in product/arg-array/map codecs never call
// this method.
func (r *Reader) ReadFieldName() (string, bool, error) {
	return "", false, fmt.Errorf("byteformat: ReadFieldName called on ordered format")
}

func (r *Reader) EndObject() error { return nil }

// Ordered is always true; see Writer.Ordered.
func (r *Reader) Ordered() bool { return true }

func (r *Reader) BeginArray() (int, error) {
	if err := r.consumePresence(); err != nil {
		return 0, err
	}
	lb, err := r.take(4)
	if err != nil {
		return 0, err
	}
	n := int(binary.BigEndian.Uint32(lb))
	r.arrayRemaining = append(r.arrayRemaining, n)
	return n, nil
}

func (r *Reader) HasMore() (bool, error) {
	if len(r.arrayRemaining) == 0 {
		return false, fmt.Errorf("byteformat: HasMore without BeginArray")
	}
	top := len(r.arrayRemaining) - 1
	if r.arrayRemaining[top] <= 0 {
		return false, nil
	}
	r.arrayRemaining[top]--
	return true, nil
}

func (r *Reader) EndArray() error {
	if len(r.arrayRemaining) == 0 {
		return fmt.Errorf("byteformat: EndArray without BeginArray")
	}
	r.arrayRemaining = r.arrayRemaining[:len(r.arrayRemaining)-1]
	return nil
}

var _ codec.Reader = (*Reader)(nil)
