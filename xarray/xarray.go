// Package xarray holds the labeled-array container the construction engine
// targets: a dense array paired with named dimensions, per-dimension
// coordinate arrays, free-form attributes, and an optional name.
//
// The engine only depends on the two factory signatures (DataArrayFactory,
// DatasetFactory); the default factories here enforce rank and size
// agreement at assembly time and can be swapped per class via Options.
package xarray

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"gorgonia.org/tensor"

	"xarray-schema/dims"
)

var (
	ErrDimensionMismatch = errors.New("values do not match the declared dimensions")
	ErrShapeMismatch     = errors.New("shape does not match the declared dimensions")
	ErrCoordConflict     = errors.New("conflicting coordinates share one name")
)

// Coord is one coordinate array attached to a container.
type Coord struct {
	Dims   dims.Dims
	Values *tensor.Dense
	Attrs  map[string]any
	Name   any
}

// DataArray is a labeled multi-dimensional array.
type DataArray struct {
	Values *tensor.Dense
	Dims   dims.Dims
	Coords map[string]Coord
	Attrs  map[string]any
	Name   any
}

// Sizes returns the dimension sizes of the payload.
func (da *DataArray) Sizes() map[string]int {
	sizes, _ := da.Dims.Sizes([]int(da.Values.Shape()))
	return sizes
}

// Dataset is a mapping of member name to labeled array sharing coordinates.
type Dataset struct {
	DataVars map[string]*DataArray
	Coords   map[string]Coord
	Attrs    map[string]any
}

// DataArrayFactory assembles a DataArray from resolved parts.
type DataArrayFactory func(values *tensor.Dense, dims dims.Dims, coords map[string]Coord, attrs map[string]any, name any) (*DataArray, error)

// DatasetFactory assembles a Dataset from resolved members.
type DatasetFactory func(dataVars map[string]*DataArray, coords map[string]Coord, attrs map[string]any) (*Dataset, error)

// Options selects the factories used for a class.
type Options struct {
	DataArray DataArrayFactory
	Dataset   DatasetFactory
}

func DefaultOptions() Options {
	return Options{DataArray: New, Dataset: NewDataset}
}

// Merge fills unset factories from fallback.
func (o Options) Merge(fallback Options) Options {
	if o.DataArray == nil {
		o.DataArray = fallback.DataArray
	}

	if o.Dataset == nil {
		o.Dataset = fallback.Dataset
	}

	return o
}

// New is the default DataArray factory. It checks that the payload rank
// matches the dimension count and that every coordinate agrees with the
// sizes the payload fixes; a coordinate may introduce a dimension absent
// from the payload, in which case its own length defines that size.
func New(values *tensor.Dense, d dims.Dims, coords map[string]Coord, attrs map[string]any, name any) (*DataArray, error) {
	if values == nil {
		return nil, fmt.Errorf("%w: no values", ErrDimensionMismatch)
	}

	if values.Dims() != len(d) {
		return nil, fmt.Errorf("%w: rank %d values for dims %v", ErrDimensionMismatch, values.Dims(), []string(d))
	}

	sizes, err := d.Sizes([]int(values.Shape()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDimensionMismatch, err)
	}

	if err := checkCoords(coords, sizes); err != nil {
		return nil, err
	}

	return &DataArray{Values: values, Dims: d, Coords: coords, Attrs: attrs, Name: name}, nil
}

// NewDataset is the default Dataset factory. Members must agree on shared
// dimension sizes; coordinates carried by composed members merge into the
// dataset and must be equal wherever names collide.
func NewDataset(dataVars map[string]*DataArray, coords map[string]Coord, attrs map[string]any) (*Dataset, error) {
	sizes := map[string]int{}
	merged := map[string]Coord{}

	for name, co := range coords {
		merged[name] = co
	}

	for _, name := range sortedKeys(dataVars) {
		da := dataVars[name]
		if da == nil || da.Values == nil {
			return nil, fmt.Errorf("%w: member %q has no values", ErrDimensionMismatch, name)
		}

		if da.Values.Dims() != len(da.Dims) {
			return nil, fmt.Errorf("%w: member %q has rank %d values for dims %v",
				ErrDimensionMismatch, name, da.Values.Dims(), []string(da.Dims))
		}

		for i, token := range da.Dims {
			n := da.Values.Shape()[i]
			if known, ok := sizes[token]; ok && known != n {
				return nil, fmt.Errorf("%w: dimension %q is %d in member %q but %d elsewhere",
					ErrDimensionMismatch, token, n, name, known)
			}

			sizes[token] = n
		}

		for cname, co := range da.Coords {
			prev, ok := merged[cname]
			if !ok {
				merged[cname] = co
				continue
			}

			if !coordEqual(prev, co) {
				return nil, fmt.Errorf("%w: %q", ErrCoordConflict, cname)
			}
		}
	}

	if err := checkCoords(merged, sizes); err != nil {
		return nil, err
	}

	return &Dataset{DataVars: dataVars, Coords: merged, Attrs: attrs}, nil
}

func checkCoords(coords map[string]Coord, sizes map[string]int) error {
	for _, name := range sortedKeys(coords) {
		co := coords[name]
		if co.Values == nil {
			return fmt.Errorf("%w: coordinate %q has no values", ErrDimensionMismatch, name)
		}

		if co.Values.Dims() != len(co.Dims) {
			return fmt.Errorf("%w: coordinate %q has rank %d values for dims %v",
				ErrDimensionMismatch, name, co.Values.Dims(), []string(co.Dims))
		}

		for i, token := range co.Dims {
			n := co.Values.Shape()[i]
			if known, ok := sizes[token]; ok && known != n {
				return fmt.Errorf("%w: coordinate %q has %d elements along %q, want %d",
					ErrDimensionMismatch, name, n, token, known)
			}

			sizes[token] = n
		}
	}

	return nil
}

func coordEqual(a, b Coord) bool {
	if !a.Dims.Equal(b.Dims) {
		return false
	}

	if !a.Values.Shape().Eq(b.Values.Shape()) {
		return false
	}

	return reflect.DeepEqual(a.Values.Data(), b.Values.Data())
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
