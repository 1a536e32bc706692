package codec

// Writer is the per-format primitive layer an encode call drives. Each
// format package (jsonformat, xmlformat, byteformat) implements Writer
// over its own wire representation; the codec core never appends bytes
// itself.
//
// Object and array methods take a callback so the adapter controls its
// own framing (braces and commas for JSON, open/close elements for XML,
// nothing at all for Byte) without the core needing format knowledge.
type Writer interface {
	WriteNull() error
	WriteBool(v bool) error
	WriteInt(v int64) error
	WriteUint(v uint64) error
	WriteFloat(v float64) error
	WriteString(v string) error

	// WriteTypeTag records the dynamic type identifier of a polymorphic
	// value about to be written.
	WriteTypeTag(id TypeID) error

	// BeginObject/EndObject bracket a product-type value. WriteField
	// writes one named field by invoking fn between the adapter's
	// field-name framing.
	BeginObject() error
	WriteField(name string, fn func() error) error
	EndObject() error

	// BeginArray/EndArray bracket a sequence value of the given length
	// (-1 if unknown at call time). WriteElement writes the element at
	// index i. No format names elements by i: JSON/Byte write them in
	// order, and XML renders each one under the enclosing element's name
	// rather than a positional _0, _1, ... name.
	BeginArray(length int) error
	WriteElement(i int, fn func() error) error
	EndArray() error

	// Ordered reports whether this format carries no field names on the
	// wire (Byte). A map codec must then fall back to its general
	// {key, value} pair encoding even for string-keyed maps, since there
	// is nowhere on the wire to write the key as a field name.
	Ordered() bool
}

// Reader is the per-format primitive layer a decode call drives.
type Reader interface {
	// PeekNull reports whether the next value is the format's null
	// marker, without consuming anything else. ReadNull consumes it.
	PeekNull() (bool, error)
	ReadNull() error

	ReadBool() (bool, error)
	ReadInt() (int64, error)
	ReadUint() (uint64, error)
	ReadFloat() (float64, error)
	ReadString() (string, error)

	// PeekTypeTag reports whether a type tag precedes the value and, if
	// so, reads it without consuming the value itself.
	PeekTypeTag() (id TypeID, present bool, err error)

	BeginObject() error
	// ReadFieldName returns the next field name, or ok=false when the
	// object has no more fields. Ordered formats (Byte) do not call this;
	// see Ordered.
	ReadFieldName() (name string, ok bool, err error)
	EndObject() error

	// Ordered reports whether this format carries no field names on the
	// wire (Byte): the product codec must then read fields by the
	// schema's declared order instead of by name, per spec.md §4.5 step 5.
	Ordered() bool

	// BeginArray returns the element count if known up front (Byte), or
	// -1 if the format is element-delimited (JSON/XML) and HasMore must
	// be polled instead.
	BeginArray() (length int, err error)
	HasMore() (bool, error)
	EndArray() error
}
