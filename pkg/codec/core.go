package codec

import "reflect"

// Core is the entry point every format adapter drives: a registry of
// codecs plus the config that governs allow-listing, aliasing, and
// default-concrete resolution. One Core is normally shared across many
// Encode/Decode calls, the same way a single xml.Marshaler instance in
// the teacher package is reused across a program's lifetime.
type Core struct {
	registry *Registry
	config   *Config
}

// NewCore returns a Core with the standard primitive aliases, allowed
// packages, default-concrete collections and well-known string-proxy and
// arg-array registrations already installed.
func NewCore() *Core {
	c := &Core{registry: NewRegistry(), config: NewConfig()}
	bootstrap(c)
	return c
}

// Config returns the Core's mutable configuration. Callers should finish
// any AllowPackage/AllowType/RegisterProxy/SetDefault* calls before the
// first Encode/Decode; Config carries no locking of its own.
func (c *Core) Config() *Config { return c.config }

// RegisterStringProxy routes t through a round-tripping string
// projection instead of structural (product/collection) encoding. See
// stringProxyCodec.
func (c *Core) RegisterStringProxy(t reflect.Type, toString func(any) (string, error), fromString func(string) (any, error)) {
	codec := &stringProxyCodec{typ: t, toString: toString, fromString: fromString}
	c.registry.registerDirect(t, codec, c.idFor(t))
}

// RegisterArgArrayCtor registers t as reconstructed from a fixed,
// named list of field values via ctor — the stand-in for the spec's
// reflective multi-argument constructor lookup. See argArrayCodec.
func (c *Core) RegisterArgArrayCtor(t reflect.Type, fields []ArgField, ctor func([]any) (any, error)) {
	codec := &argArrayCodec{typ: t, fields: fields, ctor: ctor}
	c.registry.registerDirect(t, codec, c.idFor(t))
}

// RegisterType admits t as a polymorphic decode target: besides being
// allow-listed (see Config.AllowPackage/AllowType), a concrete type's
// wire identifier must be published before any decode can resolve a
// tag back to it, the same way go-amino requires an explicit
// RegisterConcrete for every type that can appear inside a registered
// interface. Primitive kinds need no such call (their aliases are
// installed at bootstrap), nor do types registered through
// RegisterStringProxy/RegisterArgArrayCtor (those already publish
// their id as a side effect of registerDirect).
func (c *Core) RegisterType(t reflect.Type) error {
	if _, err := c.registry.codecFor(t, c.buildCodec); err != nil {
		return err
	}
	c.registry.registerID(t, c.idFor(t))
	return nil
}

// Encode writes v to w. v's own concrete type (Go erases any narrower
// static type the caller might have had in mind) is both the declared
// and the dynamic type, so no type tag is ever written at the top level;
// tags only appear for interface{}-typed fields and elements nested
// inside v.
func (c *Core) Encode(v any, w Writer) error {
	if v == nil {
		return errStreamIO("Encode", w.WriteNull())
	}
	rv := reflect.ValueOf(v)
	return c.encodeValue(rv.Type(), rv, w)
}

// Decode reads one value of declaredType from r.
func (c *Core) Decode(declaredType reflect.Type, r Reader) (any, error) {
	rv, err := c.decodeValue(declaredType, r)
	if err != nil {
		return nil, err
	}
	if !rv.IsValid() {
		return nil, nil
	}
	return rv.Interface(), nil
}

// encodeValue implements the dispatch rule of spec.md §4.4: a tag is
// only ever emitted when the declared type is interface{}, since every
// other Go type is final (Go has no open classes). Pointers are the
// other place nullability lives on the wire; a nil pointer writes the
// format's null marker and nothing else.
func (c *Core) encodeValue(declaredType reflect.Type, rv reflect.Value, w Writer) error {
	switch declaredType.Kind() {
	case reflect.Interface:
		return (&interfaceCodec{typ: declaredType}).Encode(c, rv, w)
	case reflect.Ptr:
		if !rv.IsValid() || rv.IsNil() {
			return errStreamIO("encode", w.WriteNull())
		}
		return c.encodeValue(declaredType.Elem(), rv.Elem(), w)
	}

	codec, err := c.registry.codecFor(declaredType, c.buildCodec)
	if err != nil {
		return err
	}
	return codec.Encode(c, rv, w)
}

// decodeValue mirrors encodeValue.
func (c *Core) decodeValue(declaredType reflect.Type, r Reader) (reflect.Value, error) {
	switch declaredType.Kind() {
	case reflect.Interface:
		return (&interfaceCodec{typ: declaredType}).Decode(c, r)
	case reflect.Ptr:
		isNull, err := r.PeekNull()
		if err != nil {
			return reflect.Value{}, errStreamIO("decode", err)
		}
		if isNull {
			if err := r.ReadNull(); err != nil {
				return reflect.Value{}, errStreamIO("decode", err)
			}
			return reflect.Zero(declaredType), nil
		}
		inner, err := c.decodeValue(declaredType.Elem(), r)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(declaredType.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}

	codec, err := c.registry.codecFor(declaredType, c.buildCodec)
	if err != nil {
		return reflect.Value{}, err
	}
	return codec.Decode(c, r)
}

// buildCodec implements the construction-order chain of spec.md §4.3 for
// any type not already satisfied by a direct registration (primitive
// alias, string proxy or arg-array ctor installed during bootstrap, or a
// caller's own RegisterStringProxy/RegisterArgArrayCtor call) or by the
// registry's cache: primitive kinds, then interface{} (handled above in
// encodeValue/decodeValue but included here defensively for a codec
// requested directly by kind), then array/slice/map families, then the
// reflective product-type builder. A defined type over a primitive kind
// (a Go enum) falls through to the primitive case, since it carries no
// extra wire shape over its underlying kind.
func (c *Core) buildCodec(t reflect.Type) (Codec, error) {
	switch {
	case isPrimitiveKind(t.Kind()):
		return buildPrimitiveCodec(t)
	case t.Kind() == reflect.Interface:
		return &interfaceCodec{typ: t}, nil
	case t.Kind() == reflect.Slice, t.Kind() == reflect.Array:
		return buildSliceCodec(c.registry, t)
	case t.Kind() == reflect.Map:
		return buildMapCodec(c.registry, t)
	case t.Kind() == reflect.Struct:
		return buildProductCodec(c.registry, t)
	default:
		return nil, errUnknownType("buildCodec", canonicalTypeID(t), nil)
	}
}

// idFor returns the wire identifier used to tag t in a polymorphic
// position: a registered proxy's identity takes precedence (an
// unexported implementation type tagged under its public stand-in),
// then a registered short alias, falling back to the fully-qualified
// canonical identifier.
func (c *Core) idFor(t reflect.Type) TypeID {
	target := t
	if proxy, ok := c.config.proxyFor(t); ok {
		target = proxy
	}
	if id, ok := c.config.aliasFor(target); ok {
		return id
	}
	return canonicalTypeID(target)
}
