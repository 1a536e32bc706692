// Package xml's codec adapter bridges pkg/codec's format-independent
// Writer/Reader interfaces to this package's ast.SchemaNode tree and its
// existing Render/Parse functions, so a *codec.Core can drive XML
// encode/decode the same way it drives jsonformat and byteformat.
package xml

import (
	"fmt"
	"sort"

	"github.com/shapestone/shape-codec/internal/ast"
	"github.com/shapestone/shape-codec/pkg/codec"
)

type treeFrameKind int

const (
	treeObjectFrame treeFrameKind = iota
	treeArrayFrame
)

type writerFrame struct {
	kind         treeFrameKind
	props        map[string]ast.SchemaNode // object frame
	elems        []ast.SchemaNode          // array frame
	pendingField string                    // set by WriteField, consumed by the next emit
	tagged       bool                      // BeginArray saw a pending type tag
	tagID        codec.TypeID
}

// TreeWriter builds an ast.SchemaNode tree one value at a time and
// implements codec.Writer. A dynamic type tag attaches straight onto a
// struct's attributes; a tagged scalar or array is wrapped in a small
// envelope object, since LiteralNode and ArrayDataNode cannot carry
// attributes of their own. A null value is an object carrying only the
// configured null attribute, distinguishing it from a genuinely empty
// struct (which self-closes with no attributes at all).
type TreeWriter struct {
	cfg    *codec.Config
	stack  []*writerFrame
	result ast.SchemaNode
	done   bool

	pendingTag    codec.TypeID
	hasPendingTag bool
}

// NewTreeWriter returns an empty TreeWriter using cfg's XML wrapper
// attribute/element conventions.
func NewTreeWriter(cfg *codec.Config) *TreeWriter {
	return &TreeWriter{cfg: cfg}
}

// Render renders the tree built so far to XML bytes under the root
// element name configured on cfg.XMLRootName. Call once Core.Encode
// has returned.
func (w *TreeWriter) Render() ([]byte, error) {
	if !w.done {
		return nil, fmt.Errorf("xml: Render called before a value was fully written")
	}
	buf := getBuffer()
	defer putBuffer(buf)
	if err := renderNode(w.result, buf, false, "", "", w.cfg.XMLRootName); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func (w *TreeWriter) consumeTag() (codec.TypeID, bool) {
	if !w.hasPendingTag {
		return "", false
	}
	id := w.pendingTag
	w.hasPendingTag = false
	return id, true
}

func (w *TreeWriter) emit(node ast.SchemaNode) error {
	if len(w.stack) == 0 {
		w.result = node
		w.done = true
		return nil
	}
	top := w.stack[len(w.stack)-1]
	switch top.kind {
	case treeObjectFrame:
		if top.pendingField == "" {
			return fmt.Errorf("xml: value written with no pending field name")
		}
		top.props[top.pendingField] = node
		top.pendingField = ""
	case treeArrayFrame:
		top.elems = append(top.elems, node)
	}
	return nil
}

func (w *TreeWriter) wrapIfTagged(node ast.SchemaNode) ast.SchemaNode {
	id, tagged := w.consumeTag()
	if !tagged {
		return node
	}
	props := map[string]ast.SchemaNode{
		"@" + w.cfg.XMLTypeAttr: ast.NewLiteralNode(string(id), ast.Position{}),
		"#text":                 node,
	}
	return ast.NewObjectNode(props, ast.Position{})
}

func (w *TreeWriter) WriteNull() error {
	w.consumeTag() // dispatch.go writes null before ever tagging a nil interface
	props := map[string]ast.SchemaNode{
		"@" + w.cfg.XMLNullAttr: ast.NewLiteralNode("true", ast.Position{}),
	}
	return w.emit(ast.NewObjectNode(props, ast.Position{}))
}

func (w *TreeWriter) WriteBool(v bool) error {
	return w.emit(w.wrapIfTagged(ast.NewLiteralNode(v, ast.Position{})))
}

func (w *TreeWriter) WriteInt(v int64) error {
	return w.emit(w.wrapIfTagged(ast.NewLiteralNode(v, ast.Position{})))
}

func (w *TreeWriter) WriteUint(v uint64) error {
	return w.emit(w.wrapIfTagged(ast.NewLiteralNode(int64(v), ast.Position{})))
}

func (w *TreeWriter) WriteFloat(v float64) error {
	return w.emit(w.wrapIfTagged(ast.NewLiteralNode(v, ast.Position{})))
}

func (w *TreeWriter) WriteString(v string) error {
	return w.emit(w.wrapIfTagged(ast.NewLiteralNode(v, ast.Position{})))
}

func (w *TreeWriter) WriteTypeTag(id codec.TypeID) error {
	w.pendingTag = id
	w.hasPendingTag = true
	return nil
}

func (w *TreeWriter) BeginObject() error {
	f := &writerFrame{kind: treeObjectFrame, props: make(map[string]ast.SchemaNode)}
	if id, tagged := w.consumeTag(); tagged {
		f.props["@"+w.cfg.XMLTypeAttr] = ast.NewLiteralNode(string(id), ast.Position{})
	}
	w.stack = append(w.stack, f)
	return nil
}

func (w *TreeWriter) WriteField(name string, fn func() error) error {
	if len(w.stack) == 0 {
		return fmt.Errorf("xml: WriteField without BeginObject")
	}
	top := w.stack[len(w.stack)-1]
	if top.kind != treeObjectFrame {
		return fmt.Errorf("xml: WriteField on a non-object frame")
	}
	top.pendingField = name
	return fn()
}

func (w *TreeWriter) EndObject() error {
	n := len(w.stack)
	if n == 0 {
		return fmt.Errorf("xml: EndObject without BeginObject")
	}
	top := w.stack[n-1]
	w.stack = w.stack[:n-1]
	return w.emit(ast.NewObjectNode(top.props, ast.Position{}))
}

func (w *TreeWriter) BeginArray(length int) error {
	f := &writerFrame{kind: treeArrayFrame}
	if id, tagged := w.consumeTag(); tagged {
		f.tagged = true
		f.tagID = id
	}
	w.stack = append(w.stack, f)
	return nil
}

func (w *TreeWriter) WriteElement(i int, fn func() error) error {
	return fn()
}

func (w *TreeWriter) EndArray() error {
	n := len(w.stack)
	if n == 0 {
		return fmt.Errorf("xml: EndArray without BeginArray")
	}
	top := w.stack[n-1]
	w.stack = w.stack[:n-1]
	arr := ast.NewArrayDataNode(top.elems, ast.Position{})
	if top.tagged {
		props := map[string]ast.SchemaNode{
			"@" + w.cfg.XMLTypeAttr: ast.NewLiteralNode(string(top.tagID), ast.Position{}),
			"#items":                arr,
		}
		return w.emit(ast.NewObjectNode(props, ast.Position{}))
	}
	return w.emit(arr)
}

// Ordered is always false: XML element/attribute names carry field
// identity on the wire, so the product/map codecs decode by name.
func (w *TreeWriter) Ordered() bool { return false }

var _ codec.Writer = (*TreeWriter)(nil)

type readerFrame struct {
	kind treeFrameKind
	keys []string
	vals []ast.SchemaNode
	idx  int
}

// TreeReader walks an already-parsed ast.SchemaNode tree and implements
// codec.Reader.
type TreeReader struct {
	cfg   *codec.Config
	cur   ast.SchemaNode
	stack []*readerFrame
}

// NewTreeReader parses data as a complete XML document and returns a
// TreeReader positioned at its root value.
func NewTreeReader(data []byte, cfg *codec.Config) (*TreeReader, error) {
	node, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	return &TreeReader{cfg: cfg, cur: node}, nil
}

func (r *TreeReader) isNullNode(n ast.SchemaNode) bool {
	if n == nil {
		return true
	}
	obj, ok := n.(*ast.ObjectNode)
	if !ok {
		return false
	}
	_, ok = obj.GetProperty("@" + r.cfg.XMLNullAttr)
	return ok
}

func (r *TreeReader) PeekNull() (bool, error) {
	return r.isNullNode(r.cur), nil
}

func (r *TreeReader) ReadNull() error {
	if !r.isNullNode(r.cur) {
		return fmt.Errorf("xml: ReadNull on non-null node")
	}
	return nil
}

// unwrapTagged peels the {"@type":..,"#text":value} envelope a tagged
// scalar was written in, if present, returning the inner value node.
func (r *TreeReader) unwrapTagged(n ast.SchemaNode) ast.SchemaNode {
	obj, ok := n.(*ast.ObjectNode)
	if !ok {
		return n
	}
	text, ok := obj.GetProperty("#text")
	if !ok {
		return n
	}
	if _, hasType := obj.GetProperty("@" + r.cfg.XMLTypeAttr); !hasType {
		return n
	}
	return text
}

func (r *TreeReader) literal() (*ast.LiteralNode, error) {
	n := r.unwrapTagged(r.cur)
	lit, ok := n.(*ast.LiteralNode)
	if !ok {
		return nil, fmt.Errorf("xml: expected literal value, got %T", n)
	}
	return lit, nil
}

func (r *TreeReader) ReadBool() (bool, error) {
	lit, err := r.literal()
	if err != nil {
		return false, err
	}
	switch v := lit.Value().(type) {
	case bool:
		return v, nil
	case string:
		return v == "true" || v == "1", nil
	default:
		return false, fmt.Errorf("xml: expected bool, got %T", v)
	}
}

func (r *TreeReader) ReadInt() (int64, error) {
	lit, err := r.literal()
	if err != nil {
		return 0, err
	}
	return literalToInt64(lit.Value())
}

func (r *TreeReader) ReadUint() (uint64, error) {
	v, err := r.ReadInt()
	return uint64(v), err
}

func (r *TreeReader) ReadFloat() (float64, error) {
	lit, err := r.literal()
	if err != nil {
		return 0, err
	}
	return literalToFloat64(lit.Value())
}

func (r *TreeReader) ReadString() (string, error) {
	lit, err := r.literal()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", lit.Value()), nil
}

// PeekTypeTag reports the dynamic type tag attached to the current
// node, whether it is a struct's own attribute or a scalar/array
// envelope's, without losing access to the underlying value: the
// cursor is repositioned to the unwrapped value on success so the
// dynamic codec decodes it directly next.
func (r *TreeReader) PeekTypeTag() (codec.TypeID, bool, error) {
	obj, ok := r.cur.(*ast.ObjectNode)
	if !ok {
		return "", false, nil
	}
	tagNode, ok := obj.GetProperty("@" + r.cfg.XMLTypeAttr)
	if !ok {
		return "", false, nil
	}
	lit, ok := tagNode.(*ast.LiteralNode)
	if !ok {
		return "", false, fmt.Errorf("xml: malformed type attribute")
	}
	id := codec.TypeID(fmt.Sprintf("%v", lit.Value()))

	if items, ok := obj.GetProperty("#items"); ok {
		r.cur = items
	}
	// A struct's own tag stays on the same object (r.cur unchanged); a
	// wrapped scalar is unwrapped lazily by literal() itself.
	return id, true, nil
}

func (r *TreeReader) BeginObject() error {
	obj, ok := r.cur.(*ast.ObjectNode)
	if !ok {
		return fmt.Errorf("xml: expected element, got %T", r.cur)
	}
	props := obj.Properties()
	keys := make([]string, 0, len(props))
	for k := range props {
		if k == "@"+r.cfg.XMLTypeAttr || k == "@"+r.cfg.XMLNullAttr {
			continue
		}
		if len(k) > 0 && k[0] == '@' {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]ast.SchemaNode, len(keys))
	for i, k := range keys {
		vals[i] = props[k]
	}
	r.stack = append(r.stack, &readerFrame{kind: treeObjectFrame, keys: keys, vals: vals})
	return nil
}

func (r *TreeReader) ReadFieldName() (string, bool, error) {
	if len(r.stack) == 0 {
		return "", false, fmt.Errorf("xml: ReadFieldName without BeginObject")
	}
	top := r.stack[len(r.stack)-1]
	if top.idx >= len(top.keys) {
		return "", false, nil
	}
	name := top.keys[top.idx]
	r.cur = top.vals[top.idx]
	top.idx++
	return name, true, nil
}

func (r *TreeReader) EndObject() error {
	n := len(r.stack)
	if n == 0 {
		return fmt.Errorf("xml: EndObject without BeginObject")
	}
	r.stack = r.stack[:n-1]
	return nil
}

// Ordered is always false; see TreeWriter.Ordered.
func (r *TreeReader) Ordered() bool { return false }

func (r *TreeReader) BeginArray() (int, error) {
	var elems []ast.SchemaNode
	switch n := r.cur.(type) {
	case *ast.ArrayDataNode:
		elems = n.Elements()
	case nil:
		elems = nil
	default:
		// A single repeated child collapses to one bare node instead of
		// an ArrayDataNode when only one sibling was present on the wire;
		// treat it as a one-element array.
		elems = []ast.SchemaNode{n}
	}
	r.stack = append(r.stack, &readerFrame{kind: treeArrayFrame, vals: elems})
	return len(elems), nil
}

func (r *TreeReader) HasMore() (bool, error) {
	if len(r.stack) == 0 {
		return false, fmt.Errorf("xml: HasMore without BeginArray")
	}
	top := r.stack[len(r.stack)-1]
	if top.idx >= len(top.vals) {
		return false, nil
	}
	r.cur = top.vals[top.idx]
	top.idx++
	return true, nil
}

func (r *TreeReader) EndArray() error {
	n := len(r.stack)
	if n == 0 {
		return fmt.Errorf("xml: EndArray without BeginArray")
	}
	r.stack = r.stack[:n-1]
	return nil
}

var _ codec.Reader = (*TreeReader)(nil)

func literalToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case string:
		var out int64
		_, err := fmt.Sscanf(n, "%d", &out)
		return out, err
	default:
		return 0, fmt.Errorf("xml: expected integer literal, got %T", v)
	}
}

func literalToFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case string:
		var out float64
		_, err := fmt.Sscanf(n, "%g", &out)
		return out, err
	default:
		return 0, fmt.Errorf("xml: expected float literal, got %T", v)
	}
}
