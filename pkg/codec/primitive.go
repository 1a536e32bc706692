package codec

import "reflect"

// primitiveCodec covers the scalar kinds every format adapter implements
// directly: bool, the four integer widths (signed and unsigned), the two
// float widths, and string. A defined type over one of these kinds (a Go
// "enum", e.g. `type Suit int`) rides the same codec as its underlying
// kind — the closest Go idiom to the spec's separate "enum family"
// construction step, since Go enums carry no extra wire metadata beyond
// their numeric or string value.
type primitiveCodec struct {
	typ  reflect.Type
	kind reflect.Kind
}

func buildPrimitiveCodec(t reflect.Type) (Codec, error) {
	return &primitiveCodec{typ: t, kind: t.Kind()}, nil
}

func (p *primitiveCodec) Type() reflect.Type { return p.typ }

func (p *primitiveCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	var err error
	switch p.kind {
	case reflect.Bool:
		err = w.WriteBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		err = w.WriteInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		err = w.WriteUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		err = w.WriteFloat(rv.Float())
	case reflect.String:
		err = w.WriteString(rv.String())
	default:
		return errUnknownType("primitive.Encode", canonicalTypeID(p.typ), nil)
	}
	if err != nil {
		return errStreamIO("primitive.Encode", err)
	}
	return nil
}

func (p *primitiveCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	out := reflect.New(p.typ).Elem()
	switch p.kind {
	case reflect.Bool:
		v, err := r.ReadBool()
		if err != nil {
			return reflect.Value{}, errStreamIO("primitive.Decode", err)
		}
		out.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := r.ReadInt()
		if err != nil {
			return reflect.Value{}, errStreamIO("primitive.Decode", err)
		}
		out.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := r.ReadUint()
		if err != nil {
			return reflect.Value{}, errStreamIO("primitive.Decode", err)
		}
		out.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := r.ReadFloat()
		if err != nil {
			return reflect.Value{}, errStreamIO("primitive.Decode", err)
		}
		out.SetFloat(v)
	case reflect.String:
		v, err := r.ReadString()
		if err != nil {
			return reflect.Value{}, errStreamIO("primitive.Decode", err)
		}
		out.SetString(v)
	default:
		return reflect.Value{}, errUnknownType("primitive.Decode", canonicalTypeID(p.typ), nil)
	}
	return out, nil
}

func isPrimitiveKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
