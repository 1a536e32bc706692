// Package jsonformat implements the JSON wire format adapter for
// pkg/codec: a Writer that appends directly to a byte buffer in the
// zero-alloc style of pkg/xmlformat/encoder_helpers.go, and a Reader
// built on github.com/tidwall/gjson for the self-describing one-value
// lookahead the codec core's product/collection/map codecs need.
package jsonformat

import (
	"fmt"
	"strconv"

	"github.com/shapestone/shape-codec/pkg/codec"
	"github.com/tidwall/gjson"
)

// frameKind distinguishes an in-progress JSON object from an array.
type frameKind int

const (
	objectFrame frameKind = iota
	arrayFrame
)

type writerFrame struct {
	kind       frameKind
	count      int  // fields/elements written so far, for comma placement
	tagWrapped bool // this frame's opening brace/bracket was itself wrapped
	// in a {"@type":...,"@value":...} envelope; EndObject/EndArray must
	// close that extra brace too.
}

// Writer appends JSON text to an internal buffer. It implements
// codec.Writer; construct with NewWriter and retrieve the result with
// Bytes once the top-level Core.Encode call returns.
type Writer struct {
	buf          []byte
	stack        []writerFrame
	typeKey      string
	valueKey     string
	pendingTag   codec.TypeID
	hasPendingTag bool
}

// NewWriter returns a Writer using cfg's JSONTypeKey/JSONValueKey wrapper
// field names for polymorphic values.
func NewWriter(cfg *codec.Config) *Writer {
	return &Writer{
		buf:      make([]byte, 0, 256),
		typeKey:  cfg.JSONTypeKey,
		valueKey: cfg.JSONValueKey,
	}
}

// Bytes returns the JSON text written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// openValue emits the "@type" wrapper prefix if a type tag is pending,
// returning whether the caller must close the wrapper's extra brace once
// this value (whatever it turns out to be) finishes.
func (w *Writer) openValue() bool {
	if !w.hasPendingTag {
		return false
	}
	id := w.pendingTag
	w.hasPendingTag = false
	w.buf = append(w.buf, '{')
	w.buf = appendJSONString(w.buf, w.typeKey)
	w.buf = append(w.buf, ':')
	w.buf = appendJSONString(w.buf, string(id))
	w.buf = append(w.buf, ',')
	w.buf = appendJSONString(w.buf, w.valueKey)
	w.buf = append(w.buf, ':')
	return true
}

func (w *Writer) closeValue(wrapped bool) {
	if wrapped {
		w.buf = append(w.buf, '}')
	}
}

func (w *Writer) WriteNull() error {
	wrapped := w.openValue()
	w.buf = append(w.buf, "null"...)
	w.closeValue(wrapped)
	return nil
}

func (w *Writer) WriteBool(v bool) error {
	wrapped := w.openValue()
	w.buf = strconv.AppendBool(w.buf, v)
	w.closeValue(wrapped)
	return nil
}

func (w *Writer) WriteInt(v int64) error {
	wrapped := w.openValue()
	w.buf = strconv.AppendInt(w.buf, v, 10)
	w.closeValue(wrapped)
	return nil
}

func (w *Writer) WriteUint(v uint64) error {
	wrapped := w.openValue()
	w.buf = strconv.AppendUint(w.buf, v, 10)
	w.closeValue(wrapped)
	return nil
}

func (w *Writer) WriteFloat(v float64) error {
	wrapped := w.openValue()
	w.buf = strconv.AppendFloat(w.buf, v, 'g', -1, 64)
	w.closeValue(wrapped)
	return nil
}

func (w *Writer) WriteString(v string) error {
	wrapped := w.openValue()
	w.buf = appendJSONString(w.buf, v)
	w.closeValue(wrapped)
	return nil
}

func (w *Writer) WriteTypeTag(id codec.TypeID) error {
	w.hasPendingTag = true
	w.pendingTag = id
	return nil
}

func (w *Writer) beforeSibling() {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if top.count > 0 {
		w.buf = append(w.buf, ',')
	}
	top.count++
}

func (w *Writer) BeginObject() error {
	wrapped := w.openValue()
	w.buf = append(w.buf, '{')
	w.stack = append(w.stack, writerFrame{kind: objectFrame, tagWrapped: wrapped})
	return nil
}

func (w *Writer) WriteField(name string, fn func() error) error {
	w.beforeSibling()
	w.buf = appendJSONString(w.buf, name)
	w.buf = append(w.buf, ':')
	return fn()
}

func (w *Writer) EndObject() error {
	if len(w.stack) == 0 {
		return fmt.Errorf("jsonformat: EndObject without matching BeginObject")
	}
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.buf = append(w.buf, '}')
	w.closeValue(top.tagWrapped)
	return nil
}

func (w *Writer) BeginArray(length int) error {
	wrapped := w.openValue()
	w.buf = append(w.buf, '[')
	w.stack = append(w.stack, writerFrame{kind: arrayFrame, tagWrapped: wrapped})
	return nil
}

func (w *Writer) WriteElement(i int, fn func() error) error {
	w.beforeSibling()
	return fn()
}

func (w *Writer) EndArray() error {
	if len(w.stack) == 0 {
		return fmt.Errorf("jsonformat: EndArray without matching BeginArray")
	}
	top := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.buf = append(w.buf, ']')
	w.closeValue(top.tagWrapped)
	return nil
}

// Ordered is always false: JSON carries field names on the wire, so the
// product/map codecs decode by name rather than declared schema order.
func (w *Writer) Ordered() bool { return false }

// appendJSONString appends a JSON-quoted, escaped string to buf without
// building an intermediate string, mirroring
// pkg/xmlformat/encoder_helpers.go's appendEscapeXML.
func appendJSONString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf = append(buf, s[start:i]...)
		switch c {
		case '"':
			buf = append(buf, `\"`...)
		case '\\':
			buf = append(buf, `\\`...)
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\t':
			buf = append(buf, `\t`...)
		default:
			buf = append(buf, fmt.Sprintf(`\u%04x`, c)...)
		}
		start = i + 1
	}
	buf = append(buf, s[start:]...)
	buf = append(buf, '"')
	return buf
}

var _ codec.Writer = (*Writer)(nil)

// readerFrame is a snapshot of one object or array level being traversed.
type readerFrame struct {
	kind frameKind
	keys []string
	vals []gjson.Result
	idx  int
}

// Reader walks a parsed JSON document one value at a time. Construct
// with NewReader over a complete JSON text.
type Reader struct {
	cur      gjson.Result
	stack    []readerFrame
	typeKey  string
	valueKey string
}

// NewReader parses data and returns a Reader positioned at its root
// value, using cfg's JSONTypeKey/JSONValueKey wrapper field names to
// recognize polymorphic values.
func NewReader(data []byte, cfg *codec.Config) *Reader {
	return &Reader{
		cur:      gjson.ParseBytes(data),
		typeKey:  cfg.JSONTypeKey,
		valueKey: cfg.JSONValueKey,
	}
}

func (r *Reader) PeekNull() (bool, error) {
	return r.cur.Type == gjson.Null, nil
}

func (r *Reader) ReadNull() error {
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	if r.cur.Type != gjson.True && r.cur.Type != gjson.False {
		return false, fmt.Errorf("jsonformat: expected bool, got %v", r.cur.Type)
	}
	return r.cur.Bool(), nil
}

func (r *Reader) ReadInt() (int64, error) {
	if r.cur.Type != gjson.Number {
		return 0, fmt.Errorf("jsonformat: expected number, got %v", r.cur.Type)
	}
	return r.cur.Int(), nil
}

func (r *Reader) ReadUint() (uint64, error) {
	if r.cur.Type != gjson.Number {
		return 0, fmt.Errorf("jsonformat: expected number, got %v", r.cur.Type)
	}
	return r.cur.Uint(), nil
}

func (r *Reader) ReadFloat() (float64, error) {
	if r.cur.Type != gjson.Number {
		return 0, fmt.Errorf("jsonformat: expected number, got %v", r.cur.Type)
	}
	return r.cur.Float(), nil
}

func (r *Reader) ReadString() (string, error) {
	if r.cur.Type != gjson.String {
		return "", fmt.Errorf("jsonformat: expected string, got %v", r.cur.Type)
	}
	return r.cur.String(), nil
}

// PeekTypeTag recognizes the {"@type":...,"@value":...} envelope
// WriteTypeTag produces, advancing cur to the wrapped value so the
// dynamic codec decodes it directly.
func (r *Reader) PeekTypeTag() (codec.TypeID, bool, error) {
	if !r.cur.IsObject() {
		return "", false, nil
	}
	tag := r.cur.Get(r.typeKey)
	if !tag.Exists() {
		return "", false, nil
	}
	r.cur = r.cur.Get(r.valueKey)
	return codec.TypeID(tag.String()), true, nil
}

func (r *Reader) BeginObject() error {
	if !r.cur.IsObject() {
		return fmt.Errorf("jsonformat: expected object, got %v", r.cur.Type)
	}
	m := r.cur.Map()
	keys := make([]string, 0, len(m))
	vals := make([]gjson.Result, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	r.stack = append(r.stack, readerFrame{kind: objectFrame, keys: keys, vals: vals})
	return nil
}

func (r *Reader) ReadFieldName() (string, bool, error) {
	if len(r.stack) == 0 {
		return "", false, fmt.Errorf("jsonformat: ReadFieldName without BeginObject")
	}
	top := &r.stack[len(r.stack)-1]
	if top.idx >= len(top.keys) {
		return "", false, nil
	}
	name := top.keys[top.idx]
	r.cur = top.vals[top.idx]
	top.idx++
	return name, true, nil
}

func (r *Reader) EndObject() error {
	if len(r.stack) == 0 {
		return fmt.Errorf("jsonformat: EndObject without BeginObject")
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Ordered is always false; see Writer.Ordered.
func (r *Reader) Ordered() bool { return false }

func (r *Reader) BeginArray() (int, error) {
	if !r.cur.IsArray() {
		return 0, fmt.Errorf("jsonformat: expected array, got %v", r.cur.Type)
	}
	vals := r.cur.Array()
	r.stack = append(r.stack, readerFrame{kind: arrayFrame, vals: vals})
	return len(vals), nil
}

func (r *Reader) HasMore() (bool, error) {
	if len(r.stack) == 0 {
		return false, fmt.Errorf("jsonformat: HasMore without BeginArray")
	}
	top := &r.stack[len(r.stack)-1]
	if top.idx >= len(top.vals) {
		return false, nil
	}
	r.cur = top.vals[top.idx]
	top.idx++
	return true, nil
}

func (r *Reader) EndArray() error {
	if len(r.stack) == 0 {
		return fmt.Errorf("jsonformat: EndArray without BeginArray")
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

var _ codec.Reader = (*Reader)(nil)
