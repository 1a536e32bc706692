package codec

import "reflect"

// interfaceCodec handles a field or element declared as interface{}: the
// only place in Go's type system an "abstract" target type arises, since
// Go has no non-final concrete classes the way the source spec does.
// Mirrors pkg/xmlformat/encoder.go's xmlInterfaceEnc: resolve the dynamic
// type at encode time, tag it, and dispatch to its codec.
type interfaceCodec struct {
	typ reflect.Type // always the interface{} type
}

func (ic *interfaceCodec) Type() reflect.Type { return ic.typ }

func (ic *interfaceCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return errStreamIO("dispatch.Encode", w.WriteNull())
		}
		rv = rv.Elem()
	}
	dynType := rv.Type()
	dynCodec, err := c.registry.codecFor(dynType, func(t reflect.Type) (Codec, error) {
		return c.buildCodec(t)
	})
	if err != nil {
		return err
	}
	id := c.idFor(dynType)
	if err := w.WriteTypeTag(id); err != nil {
		return errStreamIO("dispatch.Encode", err)
	}
	return dynCodec.Encode(c, rv, w)
}

func (ic *interfaceCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	isNull, err := r.PeekNull()
	if err != nil {
		return reflect.Value{}, errStreamIO("dispatch.Decode", err)
	}
	if isNull {
		if err := r.ReadNull(); err != nil {
			return reflect.Value{}, errStreamIO("dispatch.Decode", err)
		}
		return reflect.Zero(ic.typ), nil
	}

	id, present, err := r.PeekTypeTag()
	if err != nil {
		return reflect.Value{}, errStreamIO("dispatch.Decode", err)
	}
	if !present {
		return reflect.Value{}, errUnknownType("dispatch.Decode", "", nil)
	}

	dynType, ok := c.config.typeForAlias(id)
	if !ok {
		dynType, ok = c.registry.resolveID(id)
	}
	if !ok {
		return reflect.Value{}, errUnknownType("dispatch.Decode", id, nil)
	}
	if !c.config.isAllowed(dynType) {
		return reflect.Value{}, errDisallowedType("dispatch.Decode", id)
	}

	dynCodec, err := c.registry.codecFor(dynType, func(t reflect.Type) (Codec, error) {
		return c.buildCodec(t)
	})
	if err != nil {
		return reflect.Value{}, err
	}
	v, err := dynCodec.Decode(c, r)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(ic.typ).Elem()
	out.Set(v)
	return out, nil
}
