package schema

import (
	"fmt"
	"reflect"

	"xarray-schema/role"
)

// Table is the normalized, ordered collection of field specs for one
// class. It is built once per class and never mutated afterwards.
type Table struct {
	// Class is the class name, used for error context.
	Class string

	// Type is the holder struct type (nil for declaration-built tables).
	Type reflect.Type

	// Fields in declaration order.
	Fields []*Field
}

func (t *Table) byRole(r role.RoleEnum) []*Field {
	var out []*Field
	for _, f := range t.Fields {
		if f.Role == r {
			out = append(out, f)
		}
	}

	return out
}

// DataFields returns the data-role specs in declaration order.
func (t *Table) DataFields() []*Field { return t.byRole(role.RoleData) }

// CoordFields returns the coord-role specs in declaration order.
func (t *Table) CoordFields() []*Field { return t.byRole(role.RoleCoord) }

// AttrFields returns the attr-role specs in declaration order.
func (t *Table) AttrFields() []*Field { return t.byRole(role.RoleAttr) }

// NameFields returns the name-role specs in declaration order.
func (t *Table) NameFields() []*Field { return t.byRole(role.RoleName) }

// Lookup finds a spec by its container entry name.
func (t *Table) Lookup(key string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}

	return nil, false
}

// ValidateDataArray confirms the table can build a single labeled array:
// at least one data field (only the first is used as payload; extra ones
// are ignored) and at most one name field.
func (t *Table) ValidateDataArray() error {
	if len(t.DataFields()) == 0 {
		return fmt.Errorf("%s: %w", t.Class, ErrNoDataField)
	}

	return t.validateNames()
}

// ValidateDataset confirms the table can build a dataset: at least one
// member-producing data field.
func (t *Table) ValidateDataset() error {
	if len(t.DataFields()) == 0 {
		return fmt.Errorf("%s: %w", t.Class, ErrMissingDataField)
	}

	return t.validateNames()
}

func (t *Table) validateNames() error {
	if len(t.NameFields()) > 1 {
		return fmt.Errorf("%s: %w", t.Class, ErrTooManyNameFields)
	}

	return nil
}
