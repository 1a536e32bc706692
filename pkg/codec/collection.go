package codec

import "reflect"

// sliceCodec encodes/decodes a slice or array of a fixed element type.
// Parameterized over the registry's codec for t.Elem(), mirroring
// pkg/xmlformat/encoder.go's buildXMLSliceEncoder/buildXMLArrayEncoder
// pair — one codec per element type, shared across every slice/array of
// that element.
type sliceCodec struct {
	typ     reflect.Type
	elem    reflect.Type
	isArray bool
}

func buildSliceCodec(reg *Registry, t reflect.Type) (Codec, error) {
	return &sliceCodec{typ: t, elem: t.Elem(), isArray: t.Kind() == reflect.Array}, nil
}

func (s *sliceCodec) Type() reflect.Type { return s.typ }

func (s *sliceCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	n := rv.Len()
	if err := w.BeginArray(n); err != nil {
		return errStreamIO("slice.Encode", err)
	}
	for i := 0; i < n; i++ {
		ev := rv.Index(i)
		err := w.WriteElement(i, func() error {
			return c.encodeValue(s.elem, ev, w)
		})
		if err != nil {
			return err
		}
	}
	if err := w.EndArray(); err != nil {
		return errStreamIO("slice.Encode", err)
	}
	return nil
}

func (s *sliceCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	length, err := r.BeginArray()
	if err != nil {
		return reflect.Value{}, errStreamIO("slice.Decode", err)
	}

	var out reflect.Value
	if s.isArray {
		out = reflect.New(s.typ).Elem()
	} else if length >= 0 {
		out = reflect.MakeSlice(s.typ, 0, length)
	} else {
		out = reflect.MakeSlice(s.typ, 0, 0)
	}

	i := 0
	for {
		more, err := r.HasMore()
		if err != nil {
			return reflect.Value{}, errStreamIO("slice.Decode", err)
		}
		if !more {
			break
		}
		ev, err := c.decodeValue(s.elem, r)
		if err != nil {
			return reflect.Value{}, err
		}
		if s.isArray {
			if i < out.Len() {
				out.Index(i).Set(ev)
			}
		} else {
			out = reflect.Append(out, ev)
		}
		i++
	}

	if err := r.EndArray(); err != nil {
		return reflect.Value{}, errStreamIO("slice.Decode", err)
	}
	return out, nil
}

// setCodec encodes a Go set stand-in (map[T]struct{}) as an array on the
// wire — the spec's "set" abstract collection has no exported element
// order, and JSON/XML/Byte all represent it as a sequence.
type setCodec struct {
	typ  reflect.Type
	elem reflect.Type
}

func buildSetCodec(reg *Registry, t reflect.Type) (Codec, error) {
	return &setCodec{typ: t, elem: t.Key()}, nil
}

func (s *setCodec) Type() reflect.Type { return s.typ }

func (s *setCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	keys := rv.MapKeys()
	if err := w.BeginArray(len(keys)); err != nil {
		return errStreamIO("set.Encode", err)
	}
	for i, k := range keys {
		err := w.WriteElement(i, func() error {
			return c.encodeValue(s.elem, k, w)
		})
		if err != nil {
			return err
		}
	}
	if err := w.EndArray(); err != nil {
		return errStreamIO("set.Encode", err)
	}
	return nil
}

func (s *setCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	if _, err := r.BeginArray(); err != nil {
		return reflect.Value{}, errStreamIO("set.Decode", err)
	}
	out := reflect.MakeMap(s.typ)
	for {
		more, err := r.HasMore()
		if err != nil {
			return reflect.Value{}, errStreamIO("set.Decode", err)
		}
		if !more {
			break
		}
		kv, err := c.decodeValue(s.elem, r)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, reflect.ValueOf(struct{}{}))
	}
	if err := r.EndArray(); err != nil {
		return reflect.Value{}, errStreamIO("set.Decode", err)
	}
	return out, nil
}

// isSetType reports whether t is this module's stand-in for the spec's
// abstract "set" collection: a map to the empty struct.
func isSetType(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0
}
