package schemafile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xarray-schema/dataarray"
	"xarray-schema/dims"
	"xarray-schema/dtype"
	"xarray-schema/role"
	"xarray-schema/schema"
	"xarray-schema/schema/schemafile"
)

const imageYAML = `
aliases:
  X: x
  Y: y
classes:
  - name: image
    fields:
      - {name: data, role: data, dims: [X, Y], dtype: float64}
      - {name: x, role: coord, dims: X, dtype: int, default: 0}
      - {name: y, role: coord, dims: Y, dtype: int, default: 0}
      - {name: units, role: attr}
      - {name: label, role: name}
`

func TestParse(t *testing.T) {
	f, err := schemafile.Parse([]byte(imageYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Classes, 1)
	require.Len(t, f.Classes[0].Fields, 5)
}

func TestTables(t *testing.T) {
	f, err := schemafile.Parse([]byte(imageYAML))
	require.NoError(t, err)

	tables, err := f.Tables()
	require.NoError(t, err)

	image := tables["image"]
	require.NotNil(t, image)
	require.Len(t, image.Fields, 5)

	data := image.Fields[0]
	assert.Equal(t, role.RoleData, data.Role)
	assert.Equal(t, dims.Dims{"x", "y"}, data.Dims)
	assert.Equal(t, dtype.KindFloat64, data.Dtype)

	x := image.Fields[1]
	assert.Equal(t, dtype.KindInt, x.Dtype)
	assert.Equal(t, 0, x.Default)

	assert.Equal(t, role.RoleAttr, image.Fields[3].Role)
	assert.Equal(t, role.RoleName, image.Fields[4].Role)
}

func TestBuildFromTable(t *testing.T) {
	f, err := schemafile.Parse([]byte(imageYAML))
	require.NoError(t, err)

	tables, err := f.Tables()
	require.NoError(t, err)

	da, err := dataarray.FromTable(tables["image"], map[string]any{
		"data":  [][]float64{{0, 1}, {2, 3}},
		"units": "K",
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2, 3}, da.Values.Data())
	assert.Equal(t, "K", da.Attrs["units"])

	// declared defaults broadcast just like tag-parsed tables
	assert.Equal(t, []int{0, 0}, da.Coords["x"].Values.Data())
}

const composedYAML = `
classes:
  - name: stack
    fields:
      - {name: low, role: dataof, of: channel}
      - {name: high, role: dataof, of: channel}
  - name: channel
    fields:
      - {name: data, role: data, dims: [x, y], dtype: float64}
`

func TestComposition(t *testing.T) {
	f, err := schemafile.Parse([]byte(composedYAML))
	require.NoError(t, err)

	tables, err := f.Tables()
	require.NoError(t, err)

	stack := tables["stack"]
	require.NotNil(t, stack)

	low := stack.Fields[0]
	require.True(t, low.Composed())
	assert.Equal(t, "channel", low.Base.Class)
	assert.Equal(t, dims.Dims{"x", "y"}, low.Dims)
	assert.Equal(t, dtype.KindFloat64, low.Dtype)
}

func TestCompositionCycle(t *testing.T) {
	f, err := schemafile.Parse([]byte(`
classes:
  - name: a
    fields:
      - {name: data, role: data, dims: x}
      - {name: b, role: coordof, of: b}
  - name: b
    fields:
      - {name: data, role: data, dims: x}
      - {name: a, role: coordof, of: a}
`))
	require.NoError(t, err)

	_, err = f.Tables()
	assert.ErrorIs(t, err, schema.ErrCyclicComposition)
}

func TestUnknownClass(t *testing.T) {
	f, err := schemafile.Parse([]byte(`
classes:
  - name: a
    fields:
      - {name: data, role: dataof, of: missing}
`))
	require.NoError(t, err)

	_, err = f.Tables()
	assert.ErrorIs(t, err, schemafile.ErrUnknownClass)
}

func TestBadRole(t *testing.T) {
	f, err := schemafile.Parse([]byte(`
classes:
  - name: a
    fields:
      - {name: data, role: payload, dims: x}
`))
	require.NoError(t, err)

	_, err = f.Tables()
	assert.ErrorIs(t, err, schema.ErrUnsupportedField)
}

func TestDuplicateDimension(t *testing.T) {
	f, err := schemafile.Parse([]byte(`
classes:
  - name: a
    fields:
      - {name: data, role: data, dims: [x, x]}
`))
	require.NoError(t, err)

	_, err = f.Tables()
	assert.ErrorIs(t, err, schema.ErrUnsupportedField)
	assert.ErrorContains(t, err, "duplicate dimension")
}

func TestComposedRejectsDims(t *testing.T) {
	f, err := schemafile.Parse([]byte(`
classes:
  - name: channel
    fields:
      - {name: data, role: data, dims: [x, y]}
  - name: stack
    fields:
      - {name: low, role: dataof, of: channel, dims: x}
`))
	require.NoError(t, err)

	_, err = f.Tables()
	assert.ErrorIs(t, err, schema.ErrUnsupportedField)
}

func TestNestedDimsFlatten(t *testing.T) {
	f, err := schemafile.Parse([]byte(`
classes:
  - name: cube
    fields:
      - {name: data, role: data, dims: [[x, y], z]}
`))
	require.NoError(t, err)

	tables, err := f.Tables()
	require.NoError(t, err)
	assert.Equal(t, dims.Dims{"x", "y", "z"}, tables["cube"].Fields[0].Dims)
}
