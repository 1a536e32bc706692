package codec

import (
	"reflect"
	"sort"
)

// mapProxy accumulates decoded entries and materializes the final map at
// Construct time, preserving the distinction between the insert and
// final-construct phases spec.md §9 calls for — needed so a sorted
// variant could be built from already-sorted inserts without committing
// to a concrete map type mid-decode. The default proxy below simply
// defers to reflect.MakeMap; it is the only implementation, and mapCodec
// always constructs through it.
type mapProxy interface {
	Put(k, v reflect.Value)
	Construct() reflect.Value
}

type defaultMapProxy struct {
	typ     reflect.Type
	entries []mapEntry
}

type mapEntry struct {
	key, value reflect.Value
}

func newDefaultMapProxy(t reflect.Type) *defaultMapProxy {
	return &defaultMapProxy{typ: t}
}

func (p *defaultMapProxy) Put(k, v reflect.Value) {
	p.entries = append(p.entries, mapEntry{k, v})
}

func (p *defaultMapProxy) Construct() reflect.Value {
	out := reflect.MakeMapWithSize(p.typ, len(p.entries))
	for _, e := range p.entries {
		out.SetMapIndex(e.key, e.value)
	}
	return out
}

// mapCodec encodes a map[K]V. String-keyed maps use the fast path (wire
// object fields keyed by the map key) on formats that carry field names;
// all other key types, and string-keyed maps on Ordered formats (Byte),
// use the general {key, value} pair encoding, per spec.md §4.7.
type mapCodec struct {
	typ      reflect.Type
	keyType  reflect.Type
	valType  reflect.Type
	stringKy bool
}

func buildMapCodec(reg *Registry, t reflect.Type) (Codec, error) {
	if isSetType(t) {
		return buildSetCodec(reg, t)
	}
	return &mapCodec{
		typ:      t,
		keyType:  t.Key(),
		valType:  t.Elem(),
		stringKy: t.Key().Kind() == reflect.String,
	}, nil
}

func (m *mapCodec) Type() reflect.Type { return m.typ }

func (m *mapCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	if m.stringKy && !w.Ordered() {
		return m.encodeStringKeyed(c, rv, w)
	}
	return m.encodeGeneral(c, rv, w)
}

func (m *mapCodec) encodeStringKeyed(c *Core, rv reflect.Value, w Writer) error {
	if err := w.BeginObject(); err != nil {
		return errStreamIO("map.Encode", err)
	}
	keys := rv.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)

	for _, name := range names {
		v := rv.MapIndex(reflect.ValueOf(name).Convert(m.keyType))
		valType := m.valType
		err := w.WriteField(name, func() error {
			return c.encodeValue(valType, v, w)
		})
		if err != nil {
			return err
		}
	}
	return errStreamIO("map.Encode", w.EndObject())
}

func (m *mapCodec) encodeGeneral(c *Core, rv reflect.Value, w Writer) error {
	keys := rv.MapKeys()
	if err := w.BeginArray(len(keys)); err != nil {
		return errStreamIO("map.Encode", err)
	}
	for i, k := range keys {
		v := rv.MapIndex(k)
		idx := i
		err := w.WriteElement(idx, func() error {
			if err := w.BeginObject(); err != nil {
				return err
			}
			keyType, valType := m.keyType, m.valType
			if err := w.WriteField("key", func() error { return c.encodeValue(keyType, k, w) }); err != nil {
				return err
			}
			if err := w.WriteField("value", func() error { return c.encodeValue(valType, v, w) }); err != nil {
				return err
			}
			return w.EndObject()
		})
		if err != nil {
			return err
		}
	}
	return errStreamIO("map.Encode", w.EndArray())
}

func (m *mapCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	if m.stringKy && !r.Ordered() {
		return m.decodeStringKeyed(c, r)
	}
	return m.decodeGeneral(c, r)
}

func (m *mapCodec) decodeStringKeyed(c *Core, r Reader) (reflect.Value, error) {
	if err := r.BeginObject(); err != nil {
		return reflect.Value{}, errStreamIO("map.Decode", err)
	}
	proxy := newDefaultMapProxy(m.typ)
	for {
		name, ok, err := r.ReadFieldName()
		if err != nil {
			return reflect.Value{}, errStreamIO("map.Decode", err)
		}
		if !ok {
			break
		}
		v, err := c.decodeValue(m.valType, r)
		if err != nil {
			return reflect.Value{}, err
		}
		proxy.Put(reflect.ValueOf(name).Convert(m.keyType), v)
	}
	if err := r.EndObject(); err != nil {
		return reflect.Value{}, errStreamIO("map.Decode", err)
	}
	return proxy.Construct(), nil
}

func (m *mapCodec) decodeGeneral(c *Core, r Reader) (reflect.Value, error) {
	if _, err := r.BeginArray(); err != nil {
		return reflect.Value{}, errStreamIO("map.Decode", err)
	}
	proxy := newDefaultMapProxy(m.typ)
	ordered := r.Ordered()
	for {
		more, err := r.HasMore()
		if err != nil {
			return reflect.Value{}, errStreamIO("map.Decode", err)
		}
		if !more {
			break
		}
		if err := r.BeginObject(); err != nil {
			return reflect.Value{}, errStreamIO("map.Decode", err)
		}
		var k, v reflect.Value
		if ordered {
			// No field names on the wire: key then value, in the fixed
			// order encodeGeneral always wrote them.
			k, err = c.decodeValue(m.keyType, r)
			if err != nil {
				return reflect.Value{}, err
			}
			v, err = c.decodeValue(m.valType, r)
			if err != nil {
				return reflect.Value{}, err
			}
		} else {
			for i := 0; i < 2; i++ {
				name, ok, err := r.ReadFieldName()
				if err != nil {
					return reflect.Value{}, errStreamIO("map.Decode", err)
				}
				if !ok {
					return reflect.Value{}, errSchemaMismatch("map.Decode", canonicalTypeID(m.typ), nil)
				}
				switch name {
				case "key":
					k, err = c.decodeValue(m.keyType, r)
				case "value":
					v, err = c.decodeValue(m.valType, r)
				default:
					err = errSchemaMismatch("map.Decode", canonicalTypeID(m.typ), nil)
				}
				if err != nil {
					return reflect.Value{}, err
				}
			}
		}
		if err := r.EndObject(); err != nil {
			return reflect.Value{}, errStreamIO("map.Decode", err)
		}
		proxy.Put(k, v)
	}
	if err := r.EndArray(); err != nil {
		return reflect.Value{}, errStreamIO("map.Decode", err)
	}
	return proxy.Construct(), nil
}
