// Package build is the construction engine: it walks a Spec Table, coerces
// each bound value according to its role, and assembles the final labeled
// object through the class's factories.
package build

import (
	"fmt"
	"reflect"

	"gorgonia.org/tensor"

	"xarray-schema/internal/coerce"
	"xarray-schema/schema"
	"xarray-schema/xarray"
)

// Binder resolves the raw bound value of a field. ok reports whether the
// field was supplied at all; an omitted data or coord field falls back to
// its declared default.
type Binder func(f *schema.Field) (value any, ok bool)

// HolderBinder binds fields from a holder struct value. A zero-valued
// field counts as omitted, so unset fields fall back to their declared
// default the way unbound container entries do.
func HolderBinder(rv reflect.Value) Binder {
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	return func(f *schema.Field) (any, bool) {
		// a nil embedded pointer on the index path means the whole
		// embedded group is omitted
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil || fv.IsZero() {
			return nil, false
		}

		return fv.Interface(), true
	}
}

// MapBinder binds fields by container entry name.
func MapBinder(values map[string]any) Binder {
	return func(f *schema.Field) (any, bool) {
		v, ok := values[f.Key]
		return v, ok
	}
}

// CheckKeys rejects value keys that name no declared field.
func CheckKeys(t *schema.Table, values map[string]any) error {
	for key := range values {
		if _, ok := t.Lookup(key); !ok {
			return fmt.Errorf("%s: %w: %q", t.Class, schema.ErrUnknownField, key)
		}
	}

	return nil
}

// DataArray builds a labeled array from a table and bound values. Only the
// first data field becomes the payload; extra data fields are ignored.
func DataArray(t *schema.Table, bind Binder, opts xarray.Options) (*xarray.DataArray, error) {
	return dataArray(t, bind, nil, opts)
}

// dataArray carries reference sizes so that nested construction can
// broadcast scalar payloads against the parent's dimensions.
func dataArray(t *schema.Table, bind Binder, ref map[string]int, opts xarray.Options) (*xarray.DataArray, error) {
	if err := t.ValidateDataArray(); err != nil {
		return nil, err
	}

	entry := t.DataFields()[0]

	values, err := dataDense(t, entry, bind, ref, opts)
	if err != nil {
		return nil, err
	}

	sizes, err := entry.Dims.Sizes([]int(values.Shape()))
	if err != nil {
		return nil, fieldErr(t, entry, fmt.Errorf("%w: %v", xarray.ErrDimensionMismatch, err))
	}

	coords, err := buildCoords(t, bind, sizes, opts)
	if err != nil {
		return nil, err
	}

	da, err := opts.DataArray(values, entry.Dims, coords, buildAttrs(t, bind), buildName(t, bind))
	if err != nil {
		return nil, fieldErr(t, entry, err)
	}

	return da, nil
}

// Dataset builds a dataset from a table and bound values. Every data field
// becomes one member; composed members construct their referenced class.
func Dataset(t *schema.Table, bind Binder, opts xarray.Options) (*xarray.Dataset, error) {
	if err := t.ValidateDataset(); err != nil {
		return nil, err
	}

	dataVars := map[string]*xarray.DataArray{}
	sizes := map[string]int{}

	for _, f := range t.DataFields() {
		v, ok := boundValue(f, bind)
		if !ok {
			return nil, fieldErr(t, f, schema.ErrMissingValue)
		}

		var da *xarray.DataArray
		var err error

		if f.Composed() {
			da, err = composed(t, f, v, sizes, opts)
		} else {
			da, err = memberArray(t, f, v, sizes)
		}

		if err != nil {
			return nil, err
		}

		dataVars[f.Key] = da

		for i, token := range f.Dims {
			n := da.Values.Shape()[i]
			if known, exists := sizes[token]; exists && known != n {
				return nil, fieldErr(t, f, fmt.Errorf("%w: dimension %q is %d here but %d elsewhere",
					xarray.ErrDimensionMismatch, token, n, known))
			}

			sizes[token] = n
		}
	}

	coords, err := buildCoords(t, bind, sizes, opts)
	if err != nil {
		return nil, err
	}

	ds, err := opts.Dataset(dataVars, coords, buildAttrs(t, bind))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Class, err)
	}

	return ds, nil
}

func memberArray(t *schema.Table, f *schema.Field, v any, ref map[string]int) (*xarray.DataArray, error) {
	d, err := coerce.AsDense(v, f.Dtype)
	if err != nil {
		return nil, fieldErr(t, f, err)
	}

	d, err = fitDims(t, f, d, ref)
	if err != nil {
		return nil, err
	}

	da, err := xarray.New(d, f.Dims, nil, nil, nil)
	if err != nil {
		return nil, fieldErr(t, f, err)
	}

	return da, nil
}

func dataDense(t *schema.Table, f *schema.Field, bind Binder, ref map[string]int, opts xarray.Options) (*tensor.Dense, error) {
	v, ok := boundValue(f, bind)
	if !ok {
		return nil, fieldErr(t, f, schema.ErrMissingValue)
	}

	if f.Composed() {
		da, err := composed(t, f, v, ref, opts)
		if err != nil {
			return nil, err
		}

		return da.Values, nil
	}

	d, err := coerce.AsDense(v, f.Dtype)
	if err != nil {
		return nil, fieldErr(t, f, err)
	}

	return fitDims(t, f, d, ref)
}

func buildCoords(t *schema.Table, bind Binder, sizes map[string]int, opts xarray.Options) (map[string]xarray.Coord, error) {
	coords := map[string]xarray.Coord{}

	for _, f := range t.CoordFields() {
		v, ok := boundValue(f, bind)
		if !ok {
			// a coordinate without a value or default is simply absent
			continue
		}

		if f.Composed() {
			da, err := composed(t, f, v, sizes, opts)
			if err != nil {
				return nil, err
			}

			coords[f.Key] = xarray.Coord{Dims: f.Dims, Values: da.Values, Attrs: da.Attrs, Name: da.Name}

			continue
		}

		d, err := coerce.AsDense(v, f.Dtype)
		if err != nil {
			return nil, fieldErr(t, f, err)
		}

		d, err = fitDims(t, f, d, sizes)
		if err != nil {
			return nil, err
		}

		coords[f.Key] = xarray.Coord{Dims: f.Dims, Values: d}
	}

	return coords, nil
}

func buildAttrs(t *schema.Table, bind Binder) map[string]any {
	attrFields := t.AttrFields()
	if len(attrFields) == 0 {
		return nil
	}

	attrs := map[string]any{}
	for _, f := range attrFields {
		if v, ok := boundValue(f, bind); ok {
			attrs[f.Key] = v
		}
	}

	return attrs
}

func buildName(t *schema.Table, bind Binder) any {
	for _, f := range t.NameFields() {
		if v, ok := boundValue(f, bind); ok {
			return v
		}
	}

	return nil
}

// composed constructs the referenced class to obtain the field's entry.
// The value may be an instance of that class or a raw payload for its data
// field; the transient object is discarded after its parts are extracted.
func composed(t *schema.Table, f *schema.Field, v any, ref map[string]int, opts xarray.Options) (*xarray.DataArray, error) {
	bt := f.Base
	baseOpts := schema.OptionsOf(bt.Type, xarray.DefaultOptions())

	if bt.Type != nil {
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Ptr && !rv.IsNil() {
			rv = rv.Elem()
		}

		if rv.IsValid() && rv.Type() == bt.Type {
			da, err := dataArray(bt, HolderBinder(rv), ref, baseOpts)
			if err != nil {
				return nil, fieldErr(t, f, err)
			}

			return da, nil
		}
	}

	payload := bt.DataFields()[0]
	bind := func(bf *schema.Field) (any, bool) {
		if bf == payload {
			return v, true
		}

		return nil, false
	}

	da, err := dataArray(bt, bind, ref, baseOpts)
	if err != nil {
		return nil, fieldErr(t, f, err)
	}

	return da, nil
}

// fitDims checks the coerced value's rank against the declared dimensions;
// a 0-d value broadcasts to the sizes the reference fixes for them.
func fitDims(t *schema.Table, f *schema.Field, d *tensor.Dense, sizes map[string]int) (*tensor.Dense, error) {
	if d.Dims() == len(f.Dims) {
		return d, nil
	}

	if d.Dims() == 0 && sizes != nil {
		shape, err := f.Dims.Shape(sizes)
		if err != nil {
			return nil, fieldErr(t, f, fmt.Errorf("%w: %v", xarray.ErrDimensionMismatch, err))
		}

		filled, err := coerce.Fill(d.Data(), shape, f.Dtype)
		if err != nil {
			return nil, fieldErr(t, f, err)
		}

		return filled, nil
	}

	return nil, fieldErr(t, f, fmt.Errorf("%w: rank %d value for dims %v",
		xarray.ErrDimensionMismatch, d.Dims(), []string(f.Dims)))
}

func boundValue(f *schema.Field, bind Binder) (any, bool) {
	v, ok := bind(f)
	if ok && !isNil(v) {
		return v, true
	}

	if f.Default != nil {
		return f.Default, true
	}

	return nil, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}

	return false
}

func fieldErr(t *schema.Table, f *schema.Field, err error) error {
	return fmt.Errorf("%s.%s: %w", t.Class, f.Key, err)
}
