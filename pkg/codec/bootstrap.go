package codec

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// bootstrap installs the registrations every Core starts with: short
// aliases for the primitive kinds, the allow-listed packages a bare
// Core can decode polymorphically, the default-concrete collection
// types, and the handful of standard-library types that need a
// string-proxy or arg-array codec instead of structural encoding. Every
// registerDirect/RegisterAlias call here runs before any Encode/Decode,
// so the "last registration wins" rule of spec.md §4.3 never actually
// triggers in practice — each type is registered exactly once.
func bootstrap(c *Core) {
	bootstrapAliases(c)
	bootstrapAllowList(c)
	bootstrapDefaults(c)
	bootstrapProxies(c)
}

func bootstrapAliases(c *Core) {
	type aliasEntry struct {
		id TypeID
		zv any
	}
	entries := []aliasEntry{
		{"bool", false},
		{"int", int(0)},
		{"int8", int8(0)},
		{"int16", int16(0)},
		{"int32", int32(0)},
		{"int64", int64(0)},
		{"uint", uint(0)},
		{"uint8", uint8(0)},
		{"uint16", uint16(0)},
		{"uint32", uint32(0)},
		{"uint64", uint64(0)},
		{"float32", float32(0)},
		{"float64", float64(0)},
		{"string", ""},
	}
	for _, e := range entries {
		c.config.RegisterAlias(reflect.TypeOf(e.zv), e.id)
	}
}

func bootstrapAllowList(c *Core) {
	c.config.AllowPackage("time")
	c.config.AllowPackage("math/big")
	c.config.AllowPackage("github.com/google/uuid")
	// This module's own package path is allow-listed so the bootstrap
	// types below resolve as decode targets in their own right; through
	// isAllowed's prefix rule it also admits every package beneath it.
	// Types declared in an importing module are not allow-listed until
	// AllowPackage or AllowType names them.
	c.config.AllowPackage("github.com/shapestone/shape-codec")
}

// bootstrapDefaults registers the concrete type an interface{}-typed field
// resolves to when its wire tag names an abstract collection shape rather
// than a concrete registered type — the Go stand-in for the spec's
// List/Set/Map interface targets, which Go itself has no equivalent
// declared-field-type for (see SPEC_FULL.md §9). Aliasing the default type
// itself under the "list"/"set"/"map" marker makes the resolution
// reciprocal: encoding an interface{} holding exactly the default concrete
// value emits the marker, and decoding the marker resolves back to it,
// exactly like any other RegisterAlias pair.
func bootstrapDefaults(c *Core) {
	seq := reflect.TypeOf([]any(nil))
	set := reflect.TypeOf(map[any]struct{}(nil))
	mp := reflect.TypeOf(map[string]any(nil))

	c.config.SetDefaultSequence(seq)
	c.config.SetDefaultSet(set)
	c.config.SetDefaultMap(mp)

	c.config.RegisterAlias(seq, "list")
	c.config.RegisterAlias(set, "set")
	c.config.RegisterAlias(mp, "map")
}

// bootstrapProxies installs the standard-library types that round-trip
// through a string rather than their (often unexported) field layout:
// arbitrary-precision numbers, UUIDs, and the time package's location
// type. time.Time is the one arg-array registration, since its
// reflective shape (year/month/day/hour/min/sec/nsec/location) is the
// closest Go gets to the spec's multi-argument constructor.
func bootstrapProxies(c *Core) {
	c.RegisterStringProxy(
		reflect.TypeOf(big.Int{}),
		func(v any) (string, error) {
			n := v.(big.Int)
			return n.String(), nil
		},
		func(s string) (any, error) {
			n, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, fmt.Errorf("codec: invalid big.Int literal %q", s)
			}
			return *n, nil
		},
	)

	c.RegisterStringProxy(
		reflect.TypeOf(big.Float{}),
		func(v any) (string, error) {
			f := v.(big.Float)
			return f.Text('g', -1), nil
		},
		func(s string) (any, error) {
			f, _, err := big.ParseFloat(s, 10, 53, big.ToNearestEven)
			if err != nil {
				return nil, err
			}
			return *f, nil
		},
	)

	c.RegisterStringProxy(
		reflect.TypeOf(uuid.UUID{}),
		func(v any) (string, error) {
			return v.(uuid.UUID).String(), nil
		},
		func(s string) (any, error) {
			return uuid.Parse(s)
		},
	)

	c.RegisterStringProxy(
		reflect.TypeOf(time.Location{}),
		func(v any) (string, error) {
			loc := v.(time.Location)
			return (&loc).String(), nil
		},
		func(s string) (any, error) {
			loc, err := time.LoadLocation(s)
			if err != nil {
				return nil, err
			}
			return *loc, nil
		},
	)

	locType := reflect.TypeOf(&time.Location{})
	c.RegisterArgArrayCtor(
		reflect.TypeOf(time.Time{}),
		[]ArgField{
			{Name: "year", Type: reflect.TypeOf(int(0)), Accessor: func(v any) any { return v.(time.Time).Year() }},
			{Name: "month", Type: reflect.TypeOf(int(0)), Accessor: func(v any) any { return int(v.(time.Time).Month()) }},
			{Name: "day", Type: reflect.TypeOf(int(0)), Accessor: func(v any) any { return v.(time.Time).Day() }},
			{Name: "hour", Type: reflect.TypeOf(int(0)), Accessor: func(v any) any { return v.(time.Time).Hour() }},
			{Name: "minute", Type: reflect.TypeOf(int(0)), Accessor: func(v any) any { return v.(time.Time).Minute() }},
			{Name: "second", Type: reflect.TypeOf(int(0)), Accessor: func(v any) any { return v.(time.Time).Second() }},
			{Name: "nanosecond", Type: reflect.TypeOf(int(0)), Accessor: func(v any) any { return v.(time.Time).Nanosecond() }},
			{Name: "location", Type: locType, Accessor: func(v any) any { return v.(time.Time).Location() }},
		},
		func(args []any) (any, error) {
			loc, _ := args[7].(*time.Location)
			if loc == nil {
				loc = time.UTC
			}
			return time.Date(
				args[0].(int), time.Month(args[1].(int)), args[2].(int),
				args[3].(int), args[4].(int), args[5].(int), args[6].(int),
				loc,
			), nil
		},
	)
}
