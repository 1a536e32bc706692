package codec

import (
	"reflect"
	"strings"
)

// collectionKind names an abstract collection shape a Config's
// default-concrete map resolves to a concrete reflect.Type.
type collectionKind int

const (
	sequenceKind collectionKind = iota
	setKind
	mapKind
)

// Config is the mutable-before-use, read-only-after object consulted
// during every encode/decode. Like the teacher's fieldInfo, it is a plain
// value type with no mutex: its setters are documented as safe only
// before the first Encode/Decode on the owning Core.
type Config struct {
	aliases      map[reflect.Type]TypeID
	aliasLookup  map[TypeID]reflect.Type
	allowedPkgs  map[string]bool
	allowedTypes map[reflect.Type]bool
	defaults     map[collectionKind]reflect.Type
	proxies      map[reflect.Type]reflect.Type

	// XMLEntryName holds a name for the element wrapping a general
	// (non-string-keyed) map entry. Default "_". No adapter reads it: the
	// XML adapter renders each entry under the enclosing element's name.
	XMLEntryName string
	// XMLRootName names the top-level wrapper element used when encoding
	// a non-struct root value. Default "root". Kept independent of
	// XMLEntryName per the Open Questions decision in SPEC_FULL.md.
	XMLRootName string
	// XMLKeyName and XMLValueName hold names for the key/value children
	// of a general map entry element. No adapter reads them: the general
	// map codec always writes the entry's fields as "key" and "value".
	XMLKeyName   string
	XMLValueName string

	// JSONTypeKey and JSONValueKey name the wrapper object's fields when
	// a polymorphic value requires a type tag.
	JSONTypeKey  string
	JSONValueKey string
	// JSONKeyKey holds a name for the key field of a non-string-keyed map
	// entry object. No adapter reads it: the general map codec always
	// writes the entry object's fields as "key" and "value".
	JSONKeyKey string

	// XMLTypeAttr names the attribute carrying a dynamic type tag.
	XMLTypeAttr string
	// XMLNullAttr names the attribute marking an element as null.
	XMLNullAttr string
}

// NewConfig returns a Config with empty tables and the format's default
// structural conventions from SPEC_FULL.md §6/§9 — it holds no bootstrap
// registrations; Core.bootstrap populates those separately so Config
// itself stays a pure data holder, mirroring tags.go's undecorated
// fieldInfo.
func NewConfig() *Config {
	return &Config{
		aliases:      make(map[reflect.Type]TypeID),
		aliasLookup:  make(map[TypeID]reflect.Type),
		allowedPkgs:  make(map[string]bool),
		allowedTypes: make(map[reflect.Type]bool),
		defaults:     make(map[collectionKind]reflect.Type),
		proxies:      make(map[reflect.Type]reflect.Type),

		XMLEntryName: "_",
		XMLRootName:  "root",
		XMLKeyName:   "key",
		XMLValueName: "value",

		JSONTypeKey:  "@type",
		JSONValueKey: "@value",
		JSONKeyKey:   "@key",

		XMLTypeAttr: "type",
		XMLNullAttr: "null",
	}
}

// RegisterAlias maps t to a short wire identifier, invertibly.
func (c *Config) RegisterAlias(t reflect.Type, id TypeID) {
	c.aliases[t] = id
	c.aliasLookup[id] = t
}

func (c *Config) aliasFor(t reflect.Type) (TypeID, bool) {
	id, ok := c.aliases[t]
	return id, ok
}

func (c *Config) typeForAlias(id TypeID) (reflect.Type, bool) {
	t, ok := c.aliasLookup[id]
	return t, ok
}

// AllowPackage admits every type declared in pkgPath as a polymorphic
// decode target.
func (c *Config) AllowPackage(pkgPath string) {
	c.allowedPkgs[pkgPath] = true
}

// AllowType admits t specifically, regardless of its package.
func (c *Config) AllowType(t reflect.Type) {
	c.allowedTypes[t] = true
}

// isAllowed reports whether t may be used as a polymorphic decode target:
// either its declaring package (or an ancestor package of it) was
// allow-listed, or it was allow-listed individually. Types with no
// package path (builtins, unnamed types) are always allowed since they
// can never be smuggled in from a hostile third-party package.
//
// A package allow-lists itself and every subpackage beneath it, mirroring
// Go's own module-path nesting: AllowPackage("github.com/me/app") also
// admits "github.com/me/app/internal/model", so bootstrap's single
// AllowPackage for this module covers every package beneath it, not just
// types declared at the module root.
func (c *Config) isAllowed(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return true
	}
	if c.allowedTypes[t] {
		return true
	}
	if c.allowedPkgs[pkg] {
		return true
	}
	for allowed := range c.allowedPkgs {
		if strings.HasPrefix(pkg, allowed+"/") {
			return true
		}
	}
	return false
}

// SetDefaultSequence, SetDefaultSet and SetDefaultMap record a default
// concrete type per abstract collection kind. Encode and Decode do not
// consult the recorded value: an interface{}-typed target resolves a
// collection through the "list"/"set"/"map" aliases bootstrap registers,
// so calling these after bootstrap does not change what is decoded.
func (c *Config) SetDefaultSequence(t reflect.Type) { c.defaults[sequenceKind] = t }
func (c *Config) SetDefaultSet(t reflect.Type)      { c.defaults[setKind] = t }
func (c *Config) SetDefaultMap(t reflect.Type)      { c.defaults[mapKind] = t }

// RegisterProxy redirects encode of concrete type from to the wire
// identity of to — used so an unexported implementation type is encoded
// under its stable public type.
func (c *Config) RegisterProxy(from, to reflect.Type) {
	c.proxies[from] = to
}

func (c *Config) proxyFor(t reflect.Type) (reflect.Type, bool) {
	to, ok := c.proxies[t]
	return to, ok
}
