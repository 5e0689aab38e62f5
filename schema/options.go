package schema

import (
	"reflect"

	"xarray-schema/xarray"
)

// OptionsProvider is implemented by classes that override the container
// factories. Struct embedding promotes the method, so the override is
// inherited unless the embedding class declares its own.
type OptionsProvider interface {
	DataOptions() xarray.Options
}

// OptionsOf returns the factory options a class declares, with unset
// factories filled from fallback. Classes without the method get fallback
// unchanged.
func OptionsOf(rtype reflect.Type, fallback xarray.Options) xarray.Options {
	if rtype == nil {
		return fallback
	}

	for rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}

	if p, ok := reflect.New(rtype).Interface().(OptionsProvider); ok {
		return p.DataOptions().Merge(fallback)
	}

	return fallback
}
