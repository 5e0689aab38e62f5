// Package coerce turns raw field values (nested Go slices, scalars, dense
// arrays) into dtype-correct dense arrays, and fills broadcast defaults.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"gorgonia.org/tensor"

	"xarray-schema/dtype"
)

var (
	ErrRagged   = errors.New("nested values are ragged")
	ErrBadValue = errors.New("value cannot become an array")
	ErrCast     = errors.New("value cannot be cast to the declared dtype")
)

// AsDense converts a raw value into a dense array of kind k. Dense inputs
// are recast when needed, nested slices are shape-inferred and flattened,
// anything else becomes a 0-d scalar. KindNone leaves element types as-is.
func AsDense(value any, k dtype.KindEnum) (*tensor.Dense, error) {
	if d, ok := value.(*tensor.Dense); ok {
		return Cast(d, k)
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil", ErrBadValue)
	}

	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil", ErrBadValue)
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		s, err := scalar(rv.Interface(), k)
		if err != nil {
			return nil, err
		}

		return tensor.New(tensor.FromScalar(s)), nil
	}

	shape, leaves, err := flatten(rv)
	if err != nil {
		return nil, err
	}

	elem, err := elemType(rv.Type(), leaves, k)
	if err != nil {
		return nil, err
	}

	backing := reflect.MakeSlice(reflect.SliceOf(elem), len(leaves), len(leaves))
	for i, leaf := range leaves {
		cv, err := convert(leaf, elem, k)
		if err != nil {
			return nil, err
		}

		backing.Index(i).Set(cv)
	}

	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing.Interface())), nil
}

// Cast returns d recast to kind k, or d itself when k is KindNone or the
// dtype already matches.
func Cast(d *tensor.Dense, k dtype.KindEnum) (*tensor.Dense, error) {
	if k.IsNone() || d.Dtype() == k.Dtype() {
		return d, nil
	}

	elem := k.Dtype().Type

	if d.Dims() == 0 {
		cv, err := convert(d.Data(), elem, k)
		if err != nil {
			return nil, err
		}

		return tensor.New(tensor.FromScalar(cv.Interface())), nil
	}

	data := reflect.ValueOf(d.Data())
	out := reflect.MakeSlice(reflect.SliceOf(elem), data.Len(), data.Len())

	for i := 0; i < data.Len(); i++ {
		cv, err := convert(data.Index(i).Interface(), elem, k)
		if err != nil {
			return nil, err
		}

		out.Index(i).Set(cv)
	}

	shape := []int(d.Shape())

	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(out.Interface())), nil
}

// Fill builds a dense array of the given shape with every element set to
// scalar, cast to kind k (or to the scalar's own kind under KindNone).
func Fill(value any, shape []int, k dtype.KindEnum) (*tensor.Dense, error) {
	if k.IsNone() {
		k = dtype.FromReflectType(reflect.TypeOf(value))
		if k.IsNone() {
			return nil, fmt.Errorf("%w: cannot fill with %T", ErrCast, value)
		}
	}

	cv, err := convert(value, k.Dtype().Type, k)
	if err != nil {
		return nil, err
	}

	d := tensor.New(tensor.Of(k.Dtype()), tensor.WithShape(shape...))
	if err := d.Memset(cv.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCast, err)
	}

	return d, nil
}

func scalar(value any, k dtype.KindEnum) (any, error) {
	if k.IsNone() {
		return value, nil
	}

	cv, err := convert(value, k.Dtype().Type, k)
	if err != nil {
		return nil, err
	}

	return cv.Interface(), nil
}

// elemType picks the backing element type: the declared dtype when one is
// resolved, otherwise the concrete type the input carries.
func elemType(rtype reflect.Type, leaves []any, k dtype.KindEnum) (reflect.Type, error) {
	if !k.IsNone() {
		return k.Dtype().Type, nil
	}

	if len(leaves) > 0 {
		return reflect.TypeOf(leaves[0]), nil
	}

	for rtype.Kind() == reflect.Slice || rtype.Kind() == reflect.Array {
		rtype = rtype.Elem()
	}

	if rtype.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: cannot infer an element type from an empty untyped value", ErrBadValue)
	}

	return rtype, nil
}

// flatten walks nested slices, inferring the shape and collecting leaves in
// row-major order. Length disagreement at any level is ragged.
func flatten(rv reflect.Value) ([]int, []any, error) {
	var (
		shape     []int
		leaves    []any
		leafDepth = -1
	)

	var walk func(v reflect.Value, depth int) error
	walk = func(v reflect.Value, depth int) error {
		for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return fmt.Errorf("%w: nil element", ErrBadValue)
			}

			v = v.Elem()
		}

		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			if leafDepth >= 0 && depth >= leafDepth {
				return fmt.Errorf("%w: depth %d mixes scalars and sequences", ErrRagged, depth)
			}

			if len(shape) == depth {
				shape = append(shape, v.Len())
			} else if shape[depth] != v.Len() {
				return fmt.Errorf("%w: length %d at depth %d, want %d", ErrRagged, v.Len(), depth, shape[depth])
			}

			for i := 0; i < v.Len(); i++ {
				if err := walk(v.Index(i), depth+1); err != nil {
					return err
				}
			}

			return nil
		}

		if leafDepth < 0 {
			leafDepth = depth
		} else if leafDepth != depth {
			return fmt.Errorf("%w: leaves at depths %d and %d", ErrRagged, leafDepth, depth)
		}

		if depth < len(shape) {
			return fmt.Errorf("%w: scalar at sequence depth %d", ErrRagged, depth)
		}

		leaves = append(leaves, v.Interface())

		return nil
	}

	if err := walk(rv, 0); err != nil {
		return nil, nil, err
	}

	return shape, leaves, nil
}

func convert(value any, elem reflect.Type, k dtype.KindEnum) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: nil element", ErrCast)
	}

	if rv.Type() == elem {
		return rv, nil
	}

	// guard against Go's integer-to-string rune conversion
	if elem.Kind() == reflect.String && rv.Kind() != reflect.String {
		return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrCast, value, elem)
	}

	// fractional values do not silently truncate into integer dtypes
	if k.IsInteger() && dtype.FromReflectType(rv.Type()).IsFloat() {
		if f := rv.Float(); f != math.Trunc(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v loses its fraction as %s", ErrCast, value, elem)
		}
	}

	if !rv.Type().ConvertibleTo(elem) {
		return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrCast, value, elem)
	}

	return rv.Convert(elem), nil
}
