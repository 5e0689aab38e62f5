// Package schema parses class field declarations into cached Spec Tables.
//
// A class is a plain Go struct; each exported field carries an `xarray`
// struct tag naming its role and dimension tokens, with the dtype derived
// from the field's own element type. Parsing happens once per type in a
// Registry; validation and construction both consume the resulting Table.
//
// Key types:
//   - Field: one parsed field (role, dims, dtype, default, composition base)
//   - Table: the ordered field specs of one class
//   - Registry: process-wide type -> Table cache with a cycle guard
package schema
