package codec

import "reflect"

// TypeID is the canonical wire identifier for an encodable type: either a
// short alias ("int", "string", ...) or a fully-qualified "pkgpath.Name"
// for everything else. Aliases are invertible — encode emits the alias,
// decode accepts either the alias or the fully-qualified form.
type TypeID string

// canonicalTypeID returns the fully-qualified identifier for t, ignoring
// any alias that might be registered for it. Used as the registry's
// secondary key and as the fallback identifier for unaliased types.
func canonicalTypeID(t reflect.Type) TypeID {
	if pkg := t.PkgPath(); pkg != "" {
		return TypeID(pkg + "." + t.Name())
	}
	// Unnamed types (slices, maps, pointers, anonymous structs) have no
	// package path; fall back to their Go syntax, which is unique enough
	// to key the registry even though it is not a stable wire identifier.
	return TypeID(t.String())
}
