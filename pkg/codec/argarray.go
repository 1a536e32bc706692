package codec

import "reflect"

// ArgField is one entry of an arg-array schema: the wire name under which
// the value is encoded, and the declared type used to pick its codec.
// Go has no reflective multi-argument constructor the way the source
// spec's LocalDate.of(y,m,d) does, so the constructor itself is supplied
// by the caller as a plain function (see RegisterArgArrayCtor) — the
// Go-idiomatic stand-in for a reflective constructor lookup.
type ArgField struct {
	Name     string
	Type     reflect.Type
	Accessor func(any) any
}

// argArrayCodec reconstructs a value from a fixed, insertion-ordered list
// of previously-decoded field values, passed as a []any to a
// user-supplied constructor. Field values on encode come from each
// ArgField's Accessor rather than struct indices, since the source types
// (time.Time, ...) are rarely plain structs with exported
// fields reflection can read directly.
type argArrayCodec struct {
	typ    reflect.Type
	fields []ArgField
	ctor   func([]any) (any, error)
}

func (a *argArrayCodec) Type() reflect.Type { return a.typ }

func (a *argArrayCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	if err := w.BeginObject(); err != nil {
		return errStreamIO("argarray.Encode", err)
	}
	iv := rv.Interface()
	for _, f := range a.fields {
		raw := f.Accessor(iv)
		fieldType := f.Type
		name := f.Name
		err := w.WriteField(name, func() error {
			return c.encodeValue(fieldType, reflect.ValueOf(raw), w)
		})
		if err != nil {
			return err
		}
	}
	if err := w.EndObject(); err != nil {
		return errStreamIO("argarray.Encode", err)
	}
	return nil
}

func (a *argArrayCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	if err := r.BeginObject(); err != nil {
		return reflect.Value{}, errStreamIO("argarray.Decode", err)
	}

	args := make([]any, len(a.fields))
	filled := make([]bool, len(a.fields))

	if r.Ordered() {
		for i, f := range a.fields {
			fv, err := c.decodeValue(f.Type, r)
			if err != nil {
				return reflect.Value{}, err
			}
			args[i] = fv.Interface()
			filled[i] = true
		}
	} else {
		index := make(map[string]int, len(a.fields))
		for i, f := range a.fields {
			index[f.Name] = i
		}
		for {
			name, ok, err := r.ReadFieldName()
			if err != nil {
				return reflect.Value{}, errStreamIO("argarray.Decode", err)
			}
			if !ok {
				break
			}
			i, known := index[name]
			if !known {
				return reflect.Value{}, errSchemaMismatch("argarray.Decode", canonicalTypeID(a.typ), nil)
			}
			fv, err := c.decodeValue(a.fields[i].Type, r)
			if err != nil {
				return reflect.Value{}, err
			}
			args[i] = fv.Interface()
			filled[i] = true
		}
	}

	if err := r.EndObject(); err != nil {
		return reflect.Value{}, errStreamIO("argarray.Decode", err)
	}
	for i, ok := range filled {
		if !ok {
			return reflect.Value{}, errSchemaMismatch("argarray.Decode", canonicalTypeID(a.typ), nil)
		}
	}

	v, err := a.ctor(args)
	if err != nil {
		return reflect.Value{}, errReflection("argarray.Decode", canonicalTypeID(a.typ), err)
	}
	return reflect.ValueOf(v), nil
}
