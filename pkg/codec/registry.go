package codec

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Codec pairs an encode and a decode operation for one reflect.Type. It
// holds no mutable state beyond what was closed over at construction —
// the product codec's field schema, the collection codec's element
// codec, and so on — exactly as the teacher's xmlEncoderFunc closures do.
type Codec interface {
	Type() reflect.Type
	Encode(c *Core, rv reflect.Value, w Writer) error
	Decode(c *Core, r Reader) (reflect.Value, error)
}

// Registry is a map[reflect.Type]Codec with at-most-one materialization
// per key and a placeholder-forwards-to-real-codec recursion guard,
// directly modeled on pkg/xmlformat/encoder.go's xmlEncoderForType: a
// copy-on-write atomic.Value gives lock-free reads, and a mutex-guarded
// placeholder lets a struct field referring back to its own type resolve
// without deadlocking the builder that is still constructing it.
type Registry struct {
	byType   atomic.Value // map[reflect.Type]Codec
	byID     atomic.Value // map[TypeID]reflect.Type
	mu       sync.Mutex
	sealed   bool // not set or read anywhere; registerDirect overwrites at any time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.byType.Store(make(map[reflect.Type]Codec))
	r.byID.Store(make(map[TypeID]reflect.Type))
	return r
}

func (r *Registry) loadByType() map[reflect.Type]Codec {
	return r.byType.Load().(map[reflect.Type]Codec)
}

func (r *Registry) loadByID() map[TypeID]reflect.Type {
	return r.byID.Load().(map[TypeID]reflect.Type)
}

// lookup returns the cached codec for t, if any, without constructing one.
func (r *Registry) lookup(t reflect.Type) (Codec, bool) {
	c, ok := r.loadByType()[t]
	return c, ok
}

// registerDirect installs an explicit codec for t, unconditionally
// overwriting whatever was cached. Used by bootstrap and by user calls to
// RegisterStringProxy/RegisterArgArrayCtor before any Encode/Decode runs;
// spec.md §4.3's "last registration wins" rule during bootstrap is this
// function called twice for the same type.
func (r *Registry) registerDirect(t reflect.Type, c Codec, id TypeID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byType := r.loadByType()
	newByType := make(map[reflect.Type]Codec, len(byType)+1)
	for k, v := range byType {
		newByType[k] = v
	}
	newByType[t] = c
	r.byType.Store(newByType)

	if id != "" {
		byID := r.loadByID()
		newByID := make(map[TypeID]reflect.Type, len(byID)+1)
		for k, v := range byID {
			newByID[k] = v
		}
		newByID[id] = t
		r.byID.Store(newByID)
	}
}

// resolveID returns the type registered under wire identifier id, if any.
func (r *Registry) resolveID(id TypeID) (reflect.Type, bool) {
	t, ok := r.loadByID()[id]
	return t, ok
}

// registerID publishes t's wire identifier without touching byType,
// so a type that already has a codec cached (or will be built lazily
// on first use) becomes resolvable as a polymorphic decode target
// without discarding or rebuilding that codec.
func (r *Registry) registerID(t reflect.Type, id TypeID) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	byID := r.loadByID()
	newByID := make(map[TypeID]reflect.Type, len(byID)+1)
	for k, v := range byID {
		newByID[k] = v
	}
	newByID[id] = t
	r.byID.Store(newByID)
}

// codecFor returns the codec for t, building and caching one through
// build if the registry has none yet. Concurrent callers racing to build
// the same type share one instance: the loser's candidate is discarded,
// matching spec.md §4.3's at-most-one-materialization guarantee.
func (r *Registry) codecFor(t reflect.Type, build func(reflect.Type) (Codec, error)) (Codec, error) {
	if c, ok := r.lookup(t); ok {
		return c, nil
	}

	r.mu.Lock()

	if c, ok := r.loadByType()[t]; ok {
		r.mu.Unlock()
		return c, nil
	}

	// Insert a placeholder so a self-referential type (a struct with a
	// field of its own type, directly or through a slice/map/pointer)
	// resolves instead of recursing into codecFor forever.
	var real Codec
	var buildErr error
	placeholder := &placeholderCodec{target: t, real: &real}

	byType := r.loadByType()
	newByType := make(map[reflect.Type]Codec, len(byType)+1)
	for k, v := range byType {
		newByType[k] = v
	}
	newByType[t] = placeholder
	r.byType.Store(newByType)

	// Release the lock before building: build may recursively call
	// codecFor for nested field/element types, which must see the
	// placeholder above rather than deadlock on this same mutex.
	r.mu.Unlock()

	real, buildErr = build(t)
	if buildErr != nil {
		// Remove the placeholder; the next caller retries construction.
		r.mu.Lock()
		byType = r.loadByType()
		newByType = make(map[reflect.Type]Codec, len(byType))
		for k, v := range byType {
			if k != t {
				newByType[k] = v
			}
		}
		r.byType.Store(newByType)
		r.mu.Unlock()
		return nil, buildErr
	}

	r.mu.Lock()
	byType = r.loadByType()
	newByType = make(map[reflect.Type]Codec, len(byType))
	for k, v := range byType {
		newByType[k] = v
	}
	newByType[t] = real
	r.byType.Store(newByType)
	r.mu.Unlock()

	return real, nil
}

// placeholderCodec forwards to the real codec once the registry's
// construction slot for this type is filled in. Encode/Decode are only
// ever invoked on it through a recursive reference discovered while the
// real codec was still being built, i.e. after real has been assigned by
// the builder's closure variable capture.
type placeholderCodec struct {
	target reflect.Type
	real   *Codec
}

func (p *placeholderCodec) Type() reflect.Type { return p.target }

func (p *placeholderCodec) Encode(c *Core, rv reflect.Value, w Writer) error {
	return (*p.real).Encode(c, rv, w)
}

func (p *placeholderCodec) Decode(c *Core, r Reader) (reflect.Value, error) {
	return (*p.real).Decode(c, r)
}
