package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry caches one Table per class type. Tables are built lazily on
// first lookup and reused for every later instance; recomputation is pure,
// so the lock only serializes writers. In-progress types are tracked per
// resolution to reject composition cycles.
type Registry struct {
	mu     sync.Mutex
	tables map[reflect.Type]*Table
}

func NewRegistry() *Registry {
	return &Registry{tables: map[reflect.Type]*Table{}}
}

// DefaultRegistry backs the package-level lookups and the maker packages.
var DefaultRegistry = NewRegistry()

// Lookup returns the cached table of a class type, parsing it on first
// use. Pointer types resolve to their element type.
func (r *Registry) Lookup(rtype reflect.Type) (*Table, error) {
	for rtype != nil && rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}

	if rtype == nil {
		return nil, ErrNotAStruct
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lookup(rtype, map[reflect.Type]struct{}{})
}

func (r *Registry) lookup(rtype reflect.Type, seen map[reflect.Type]struct{}) (*Table, error) {
	if t, ok := r.tables[rtype]; ok {
		return t, nil
	}

	if _, busy := seen[rtype]; busy {
		return nil, fmt.Errorf("%w: %s references itself", ErrCyclicComposition, rtype)
	}

	seen[rtype] = struct{}{}
	defer delete(seen, rtype)

	t, err := parseStruct(r, rtype, seen)
	if err != nil {
		return nil, err
	}

	r.tables[rtype] = t

	return t, nil
}

// Of returns the table of class T from the default registry.
func Of[T any]() (*Table, error) {
	return DefaultRegistry.Lookup(reflect.TypeOf((*T)(nil)).Elem())
}

// TableOf returns the table of an instance's class from the default
// registry.
func TableOf(obj any) (*Table, error) {
	return DefaultRegistry.Lookup(reflect.TypeOf(obj))
}
