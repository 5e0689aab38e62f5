package schema

import (
	"xarray-schema/dims"
	"xarray-schema/dtype"
	"xarray-schema/role"
)

// Field is the parsed spec of one declared field. Dims and Dtype are
// meaningful for data and coord roles only; attr and name values pass
// through construction untouched.
type Field struct {
	// Name is the Go field name on the holder struct ("" for tables built
	// from schema declarations rather than struct types).
	Name string

	// Key is the entry name used in the resulting container.
	Key string

	Role    role.RoleEnum
	Dims    dims.Dims
	Dtype   dtype.KindEnum
	Default any

	// Base is the referenced class's table for dataof/coordof fields.
	Base *Table

	// Index is the reflect field index path on the holder type.
	Index []int
}

// Composed reports whether the field adopts dims and dtype from another
// class.
func (f *Field) Composed() bool {
	return f.Base != nil
}
