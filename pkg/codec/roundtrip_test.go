package codec_test

import (
	"reflect"
	"testing"

	"github.com/shapestone/shape-codec/pkg/byteformat"
	"github.com/shapestone/shape-codec/pkg/codec"
	"github.com/shapestone/shape-codec/pkg/jsonformat"
	xml "github.com/shapestone/shape-codec/pkg/xmlformat"
	"github.com/stretchr/testify/require"
)

// encodeJSON, encodeXML and encodeByte each drive one format adapter
// through a *codec.Core, returning the wire bytes it produced.
func encodeJSON(t *testing.T, c *codec.Core, v any) []byte {
	t.Helper()
	w := jsonformat.NewWriter(c.Config())
	require.NoError(t, c.Encode(v, w))
	return w.Bytes()
}

func decodeJSON(t *testing.T, c *codec.Core, declared reflect.Type, data []byte) any {
	t.Helper()
	r := jsonformat.NewReader(data, c.Config())
	v, err := c.Decode(declared, r)
	require.NoError(t, err)
	return v
}

func encodeXML(t *testing.T, c *codec.Core, v any) []byte {
	t.Helper()
	w := xml.NewTreeWriter(c.Config())
	require.NoError(t, c.Encode(v, w))
	data, err := w.Render()
	require.NoError(t, err)
	return data
}

func decodeXML(t *testing.T, c *codec.Core, declared reflect.Type, data []byte) any {
	t.Helper()
	r, err := xml.NewTreeReader(data, c.Config())
	require.NoError(t, err)
	v, err := c.Decode(declared, r)
	require.NoError(t, err)
	return v
}

func encodeByte(t *testing.T, c *codec.Core, v any) []byte {
	t.Helper()
	w := byteformat.NewWriter()
	require.NoError(t, c.Encode(v, w))
	return w.Bytes()
}

func decodeByte(t *testing.T, c *codec.Core, declared reflect.Type, data []byte) any {
	t.Helper()
	r := byteformat.NewReader(data)
	v, err := c.Decode(declared, r)
	require.NoError(t, err)
	return v
}

// assertRoundTrip exercises the round-trip law of spec.md §8 for all
// three wire formats: decode(T, encode(T, v)) == v.
func assertRoundTrip(t *testing.T, c *codec.Core, declared reflect.Type, v any) {
	t.Helper()
	t.Run("JSON", func(t *testing.T) {
		got := decodeJSON(t, c, declared, encodeJSON(t, c, v))
		require.Equal(t, v, got)
	})
	t.Run("XML", func(t *testing.T) {
		got := decodeXML(t, c, declared, encodeXML(t, c, v))
		require.Equal(t, v, got)
	})
	t.Run("Byte", func(t *testing.T) {
		got := decodeByte(t, c, declared, encodeByte(t, c, v))
		require.Equal(t, v, got)
	})
}

type Point struct {
	X int32
	Y int32
}

func TestRoundTrip_Primitives(t *testing.T) {
	c := codec.NewCore()
	assertRoundTrip(t, c, reflect.TypeOf(int64(0)), int64(-42))
	assertRoundTrip(t, c, reflect.TypeOf(""), "hello, world")
	assertRoundTrip(t, c, reflect.TypeOf(false), true)
	assertRoundTrip(t, c, reflect.TypeOf(float64(0)), 3.5)
}

func TestRoundTrip_Struct(t *testing.T) {
	c := codec.NewCore()
	assertRoundTrip(t, c, reflect.TypeOf(Point{}), Point{X: 3, Y: -7})
}

func TestRoundTrip_Slice(t *testing.T) {
	c := codec.NewCore()
	assertRoundTrip(t, c, reflect.TypeOf([]int32(nil)), []int32{1, 2, 3})
}

func TestRoundTrip_StringKeyedMap(t *testing.T) {
	c := codec.NewCore()
	assertRoundTrip(t, c, reflect.TypeOf(map[string]int32(nil)), map[string]int32{"a": 1, "b": 2})
}

func TestRoundTrip_IntKeyedMap(t *testing.T) {
	c := codec.NewCore()
	assertRoundTrip(t, c, reflect.TypeOf(map[int32]string(nil)), map[int32]string{1: "one", 2: "two"})
}

func TestRoundTrip_NilPointer(t *testing.T) {
	c := codec.NewCore()
	var p *Point
	assertRoundTrip(t, c, reflect.TypeOf(p), p)
}

func TestRoundTrip_NonNilPointer(t *testing.T) {
	c := codec.NewCore()
	p := &Point{X: 1, Y: 2}
	assertRoundTrip(t, c, reflect.TypeOf(p), p)
}
