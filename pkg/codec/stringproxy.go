package codec

import "reflect"

// stringProxyCodec routes a type through a round-tripping string
// projection and defers to the format's string primitive, per spec.md
// §4.8. Bootstrap uses it for big.Int, big.Float, uuid.UUID and
// time.Location (through the location name); it is open to any type a
// caller registers via RegisterStringProxy.
type stringProxyCodec struct {
	typ        reflect.Type
	toString   func(any) (string, error)
	fromString func(string) (any, error)
}

func (s *stringProxyCodec) Type() reflect.Type { return s.typ }

func (s *stringProxyCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	str, err := s.toString(rv.Interface())
	if err != nil {
		return errReflection("stringproxy.Encode", canonicalTypeID(s.typ), err)
	}
	return errStreamIO("stringproxy.Encode", w.WriteString(str))
}

func (s *stringProxyCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	str, err := r.ReadString()
	if err != nil {
		return reflect.Value{}, errStreamIO("stringproxy.Decode", err)
	}
	v, err := s.fromString(str)
	if err != nil {
		return reflect.Value{}, errReflection("stringproxy.Decode", canonicalTypeID(s.typ), err)
	}
	out := reflect.ValueOf(v)
	if !out.Type().AssignableTo(s.typ) && out.Type().ConvertibleTo(s.typ) {
		out = out.Convert(s.typ)
	}
	return out, nil
}
