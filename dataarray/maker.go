// Package dataarray creates labeled arrays from classes that declare
// exactly one payload: a data field plus any coords, attrs, and a name.
//
// Key entry points:
//   - Maker[T]: cached per-class handle with From/New and the allocators
//     Empty, Zeros, Ones, Full
//   - From, FromTable: standalone construction without a Maker
package dataarray

import (
	"fmt"
	"reflect"

	"gorgonia.org/tensor"

	"xarray-schema/dtype"
	"xarray-schema/internal/build"
	"xarray-schema/internal/coerce"
	"xarray-schema/schema"
	"xarray-schema/xarray"
)

// Maker builds DataArray objects for one class. The Spec Table is parsed
// and validated once; every construction call reuses it.
type Maker[T any] struct {
	table *schema.Table
	opts  xarray.Options
}

func NewMaker[T any]() (*Maker[T], error) {
	rtype := reflect.TypeOf((*T)(nil)).Elem()

	table, err := schema.DefaultRegistry.Lookup(rtype)
	if err != nil {
		return nil, err
	}

	if err := table.ValidateDataArray(); err != nil {
		return nil, err
	}

	return &Maker[T]{table: table, opts: schema.OptionsOf(rtype, xarray.DefaultOptions())}, nil
}

// Table exposes the parsed Spec Table.
func (m *Maker[T]) Table() *schema.Table { return m.table }

// From builds a DataArray from a fully bound holder instance.
func (m *Maker[T]) From(obj T) (*xarray.DataArray, error) {
	return build.DataArray(m.table, build.HolderBinder(reflect.ValueOf(obj)), m.opts)
}

// New builds a DataArray from the payload value plus keyword-supplied
// coords, attrs, and name. Unknown keys are rejected.
func (m *Maker[T]) New(value any, kwargs map[string]any) (*xarray.DataArray, error) {
	values, err := m.bind(value, kwargs)
	if err != nil {
		return nil, err
	}

	return build.DataArray(m.table, build.MapBinder(values), m.opts)
}

// Empty builds a DataArray of the given shape without initializing data.
// Go allocations are zeroed, so the payload matches Zeros; the entry point
// stays distinct for API parity and custom factories.
func (m *Maker[T]) Empty(shape []int, kwargs map[string]any) (*xarray.DataArray, error) {
	return m.shaped(shape, nil, kwargs)
}

// Zeros builds a DataArray of the given shape filled with zeros.
func (m *Maker[T]) Zeros(shape []int, kwargs map[string]any) (*xarray.DataArray, error) {
	return m.shaped(shape, nil, kwargs)
}

// Ones builds a DataArray of the given shape filled with ones.
func (m *Maker[T]) Ones(shape []int, kwargs map[string]any) (*xarray.DataArray, error) {
	one, ok := m.payloadKind().One()
	if !ok {
		entry := m.table.DataFields()[0]
		return nil, fmt.Errorf("%s.%s: %w: dtype %s has no one value",
			m.table.Class, entry.Key, coerce.ErrCast, entry.Dtype)
	}

	return m.shaped(shape, one, kwargs)
}

// Full builds a DataArray of the given shape filled with fill.
func (m *Maker[T]) Full(shape []int, fill any, kwargs map[string]any) (*xarray.DataArray, error) {
	if fill == nil {
		return nil, fmt.Errorf("%s: %w: nil fill value", m.table.Class, coerce.ErrBadValue)
	}

	return m.shaped(shape, fill, kwargs)
}

// payloadKind is the data field's resolved dtype, defaulting to float64
// when the field declares no coercion.
func (m *Maker[T]) payloadKind() dtype.KindEnum {
	k := m.table.DataFields()[0].Dtype
	if k.IsNone() {
		k = dtype.KindFloat64
	}

	return k
}

func (m *Maker[T]) shaped(shape []int, fill any, kwargs map[string]any) (*xarray.DataArray, error) {
	entry := m.table.DataFields()[0]

	if len(shape) != len(entry.Dims) {
		return nil, fmt.Errorf("%s.%s: %w: shape %v for dims %v",
			m.table.Class, entry.Key, xarray.ErrShapeMismatch, shape, []string(entry.Dims))
	}

	k := m.payloadKind()

	var d *tensor.Dense
	if fill == nil {
		d = tensor.New(tensor.Of(k.Dtype()), tensor.WithShape(shape...))
	} else {
		var err error
		d, err = coerce.Fill(fill, shape, k)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", m.table.Class, entry.Key, err)
		}
	}

	return m.New(d, kwargs)
}

func (m *Maker[T]) bind(value any, kwargs map[string]any) (map[string]any, error) {
	if err := build.CheckKeys(m.table, kwargs); err != nil {
		return nil, err
	}

	values := make(map[string]any, len(kwargs)+1)
	for k, v := range kwargs {
		values[k] = v
	}

	values[m.table.DataFields()[0].Key] = value

	return values, nil
}

// From builds a DataArray from any class instance without a Maker.
func From(obj any) (*xarray.DataArray, error) {
	table, err := schema.TableOf(obj)
	if err != nil {
		return nil, err
	}

	if err := table.ValidateDataArray(); err != nil {
		return nil, err
	}

	opts := schema.OptionsOf(reflect.TypeOf(obj), xarray.DefaultOptions())

	return build.DataArray(table, build.HolderBinder(reflect.ValueOf(obj)), opts)
}

// FromTable builds a DataArray from an explicit table and named values,
// for tables not backed by a struct type.
func FromTable(table *schema.Table, values map[string]any) (*xarray.DataArray, error) {
	if err := table.ValidateDataArray(); err != nil {
		return nil, err
	}

	if err := build.CheckKeys(table, values); err != nil {
		return nil, err
	}

	return build.DataArray(table, build.MapBinder(values), schema.OptionsOf(table.Type, xarray.DefaultOptions()))
}
