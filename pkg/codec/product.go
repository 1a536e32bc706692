package codec

import "reflect"

// fieldSchema is one resolved field of a product-type schema: its final
// (post-rename) wire name, the reflect.Type path to reach it (an index
// path rather than a single index, since embedded/"superclass" fields
// live at depth > 0), and its declared type.
type fieldSchema struct {
	name        string
	index       []int
	fieldType   reflect.Type
}

// productSchema is the insertion-ordered, once-built field list for a
// struct type, cached on the productCodec that owns it. Mirrors
// pkg/xmlformat/encoder.go's buildXMLStructEncoder pre-computation and
// go-amino's parseStructInfo field table.
type productSchema struct {
	fields []fieldSchema
}

// buildProductSchema enumerates t's exported fields, walking embedded
// (anonymous) struct fields as Go's shape of "superclass fields" per
// spec.md §4.5 step 1. A name colliding with one already assigned
// (shadowing introduced by an embedded field) is reassigned by
// prepending underscores until unique — deterministic given declaration
// order, matching spec.md §4.5 step 2 exactly.
func buildProductSchema(t reflect.Type) *productSchema {
	s := &productSchema{}
	seen := make(map[string]bool)
	walkFields(t, nil, s, seen)
	return s
}

func walkFields(t reflect.Type, prefix []int, s *productSchema, seen map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue // unexported, non-embedded
		}

		index := append(append([]int{}, prefix...), i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			walkFields(f.Type, index, s, seen)
			continue
		}
		if f.PkgPath != "" {
			continue // unexported embedded field whose own type isn't a struct
		}

		name := f.Name
		for seen[name] {
			name = "_" + name
		}
		seen[name] = true

		s.fields = append(s.fields, fieldSchema{
			name:      name,
			index:     index,
			fieldType: f.Type,
		})
	}
}

// productCodec encodes/decodes a struct T as an object keyed by its
// productSchema's field names, each field delegated to the registry's
// codec for its declared type.
type productCodec struct {
	typ    reflect.Type
	schema *productSchema
}

func buildProductCodec(reg *Registry, t reflect.Type) (Codec, error) {
	return &productCodec{typ: t, schema: buildProductSchema(t)}, nil
}

func (p *productCodec) Type() reflect.Type { return p.typ }

func (p *productCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	if err := w.BeginObject(); err != nil {
		return errStreamIO("product.Encode", err)
	}
	for _, f := range p.schema.fields {
		fv := rv.FieldByIndex(f.index)
		name := f.name
		fieldType := f.fieldType
		err := w.WriteField(name, func() error {
			return c.encodeValue(fieldType, fv, w)
		})
		if err != nil {
			return err
		}
	}
	if err := w.EndObject(); err != nil {
		return errStreamIO("product.Encode", err)
	}
	return nil
}

func (p *productCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	rv := reflect.New(p.typ).Elem()

	if err := r.BeginObject(); err != nil {
		return reflect.Value{}, errStreamIO("product.Decode", err)
	}

	if r.Ordered() {
		for _, f := range p.schema.fields {
			fv, err := c.decodeValue(f.fieldType, r)
			if err != nil {
				return reflect.Value{}, err
			}
			rv.FieldByIndex(f.index).Set(fv)
		}
	} else {
		byName := make(map[string]fieldSchema, len(p.schema.fields))
		for _, f := range p.schema.fields {
			byName[f.name] = f
		}
		for {
			name, ok, err := r.ReadFieldName()
			if err != nil {
				return reflect.Value{}, errStreamIO("product.Decode", err)
			}
			if !ok {
				break
			}
			f, known := byName[name]
			if !known {
				return reflect.Value{}, errSchemaMismatch("product.Decode", canonicalTypeID(p.typ), nil)
			}
			fv, err := c.decodeValue(f.fieldType, r)
			if err != nil {
				return reflect.Value{}, err
			}
			rv.FieldByIndex(f.index).Set(fv)
		}
	}

	if err := r.EndObject(); err != nil {
		return reflect.Value{}, errStreamIO("product.Decode", err)
	}
	return rv, nil
}
