// Package dataset creates labeled datasets from classes that declare one
// member per data field, sharing coordinates and attributes.
//
// Allocators take dimension sizes rather than a positional shape, since
// members may differ in rank; New takes payload values positionally in
// declared data-field order.
package dataset

import (
	"fmt"
	"reflect"

	"xarray-schema/dtype"
	"xarray-schema/internal/build"
	"xarray-schema/internal/coerce"
	"xarray-schema/schema"
	"xarray-schema/xarray"
)

// Maker builds Dataset objects for one class.
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

	if err := table.ValidateDataset(); err != nil {
		return nil, err
	}

	return &Maker[T]{table: table, opts: schema.OptionsOf(rtype, xarray.DefaultOptions())}, nil
}

// Table exposes the parsed Spec Table.
func (m *Maker[T]) Table() *schema.Table { return m.table }

// From builds a Dataset from a fully bound holder instance.
func (m *Maker[T]) From(obj T) (*xarray.Dataset, error) {
	return build.Dataset(m.table, build.HolderBinder(reflect.ValueOf(obj)), m.opts)
}

// New builds a Dataset from payload values in declared data-field order
// plus keyword-supplied coords, attrs, and name overrides.
func (m *Maker[T]) New(values []any, kwargs map[string]any) (*xarray.Dataset, error) {
	dataFields := m.table.DataFields()
	if len(values) != len(dataFields) {
		return nil, fmt.Errorf("%s: %w: %d values for %d data fields",
			m.table.Class, xarray.ErrShapeMismatch, len(values), len(dataFields))
	}

	if err := build.CheckKeys(m.table, kwargs); err != nil {
		return nil, err
	}

	bound := make(map[string]any, len(kwargs)+len(values))
	for k, v := range kwargs {
		bound[k] = v
	}

	for i, f := range dataFields {
		bound[f.Key] = values[i]
	}

	return build.Dataset(m.table, build.MapBinder(bound), m.opts)
}

// Empty builds a Dataset with every member allocated to the given
// dimension sizes, data left zeroed.
func (m *Maker[T]) Empty(sizes map[string]int, kwargs map[string]any) (*xarray.Dataset, error) {
	return m.shaped(sizes, zeroFill, kwargs)
}

// Zeros builds a Dataset with every member filled with zeros.
func (m *Maker[T]) Zeros(sizes map[string]int, kwargs map[string]any) (*xarray.Dataset, error) {
	return m.shaped(sizes, zeroFill, kwargs)
}

// Ones builds a Dataset with every member filled with ones.
func (m *Maker[T]) Ones(sizes map[string]int, kwargs map[string]any) (*xarray.Dataset, error) {
	return m.shaped(sizes, func(k dtype.KindEnum) (any, error) {
		one, ok := k.One()
		if !ok {
			return nil, fmt.Errorf("%w: dtype %s has no one value", coerce.ErrCast, k)
		}

		return one, nil
	}, kwargs)
}

// Full builds a Dataset with every member filled with fill.
func (m *Maker[T]) Full(sizes map[string]int, fill any, kwargs map[string]any) (*xarray.Dataset, error) {
	if fill == nil {
		return nil, fmt.Errorf("%s: %w: nil fill value", m.table.Class, coerce.ErrBadValue)
	}

	return m.shaped(sizes, func(dtype.KindEnum) (any, error) { return fill, nil }, kwargs)
}

func zeroFill(k dtype.KindEnum) (any, error) {
	return k.Zero(), nil
}

func (m *Maker[T]) shaped(sizes map[string]int, fill func(dtype.KindEnum) (any, error), kwargs map[string]any) (*xarray.Dataset, error) {
	values := make([]any, 0, len(m.table.DataFields()))

	for _, f := range m.table.DataFields() {
		shape, err := f.Dims.Shape(sizes)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w: %v", m.table.Class, f.Key, xarray.ErrShapeMismatch, err)
		}

		k := f.Dtype
		if k.IsNone() {
			k = dtype.KindFloat64
		}

		v, err := fill(k)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", m.table.Class, f.Key, err)
		}

		d, err := coerce.Fill(v, shape, k)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", m.table.Class, f.Key, err)
		}

		values = append(values, d)
	}

	return m.New(values, kwargs)
}

// From builds a Dataset from any class instance without a Maker.
func From(obj any) (*xarray.Dataset, error) {
	table, err := schema.TableOf(obj)
	if err != nil {
		return nil, err
	}

	if err := table.ValidateDataset(); err != nil {
		return nil, err
	}

	opts := schema.OptionsOf(reflect.TypeOf(obj), xarray.DefaultOptions())

	return build.Dataset(table, build.HolderBinder(reflect.ValueOf(obj)), opts)
}

// FromTable builds a Dataset from an explicit table and named values, for
// tables not backed by a struct type.
func FromTable(table *schema.Table, values map[string]any) (*xarray.Dataset, error) {
	if err := table.ValidateDataset(); err != nil {
		return nil, err
	}

	if err := build.CheckKeys(table, values); err != nil {
		return nil, err
	}

	return build.Dataset(table, build.MapBinder(values), schema.OptionsOf(table.Type, xarray.DefaultOptions()))
}
