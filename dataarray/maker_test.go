package dataarray_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"xarray-schema/dataarray"
	"xarray-schema/dims"
	"xarray-schema/schema"
	"xarray-schema/xarray"
)

type Image struct {
	Data  [][]float64 `xarray:"data,x,y"`
	X     []int       `xarray:"coord,x" default:"0"`
	Y     []int       `xarray:"coord,y" default:"0"`
	Units string      `xarray:"attr"`
	Label string      `xarray:"name"`
}

func TestNew(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	da, err := m.New([][]float64{{0, 1}, {2, 3}}, map[string]any{
		"x":     []int{0, 1},
		"y":     []int{0, 1},
		"units": "cd / m^2",
		"label": "luminance",
	})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2}, []int(da.Values.Shape()))
	assert.Equal(t, []float64{0, 1, 2, 3}, da.Values.Data())
	assert.Equal(t, []string{"x", "y"}, []string(da.Dims))
	assert.Equal(t, []int{0, 1}, da.Coords["x"].Values.Data())
	assert.Equal(t, []int{0, 1}, da.Coords["y"].Values.Data())
	assert.Equal(t, "cd / m^2", da.Attrs["units"])
	assert.Equal(t, "luminance", da.Name)
}

func TestNewCoercesPayload(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	// integer input lands as the declared float64 dtype
	da, err := m.New([][]int{{1, 2}, {3, 4}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, da.Values.Data())
}

func TestNewRankMismatch(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	_, err = m.New([]float64{0, 1}, nil)
	assert.ErrorIs(t, err, xarray.ErrDimensionMismatch)
	assert.ErrorContains(t, err, "Image.data")
}

func TestNewUnknownKwarg(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	_, err = m.New([][]float64{{0}}, map[string]any{"gamma": 2.2})
	assert.ErrorIs(t, err, schema.ErrUnknownField)
}

func TestOnesBroadcastsDefaults(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	da, err := m.Ones([]int{3, 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3}, []int(da.Values.Shape()))
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1, 1}, da.Values.Data())

	// scalar coord defaults broadcast against the payload sizes
	assert.Equal(t, []int{0, 0, 0}, da.Coords["x"].Values.Data())
	assert.Equal(t, []int{0, 0, 0}, da.Coords["y"].Values.Data())
}

func TestZerosAndFull(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	da, err := m.Zeros([]int{2, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, da.Values.Data())

	da, err = m.Full([]int{2, 2}, 7.5, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{7.5, 7.5, 7.5, 7.5}, da.Values.Data())

	da, err = m.Empty([]int{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int(da.Values.Shape()))
}

func TestShapedArityMismatch(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	_, err = m.Ones([]int{3}, nil)
	assert.ErrorIs(t, err, xarray.ErrShapeMismatch)
	assert.ErrorContains(t, err, "Image.data")
}

func TestFromHolder(t *testing.T) {
	m, err := dataarray.NewMaker[Image]()
	require.NoError(t, err)

	da, err := m.From(Image{
		Data:  [][]float64{{0, 1}, {2, 3}},
		X:     []int{10, 20},
		Y:     []int{30, 40},
		Units: "K",
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2, 3}, da.Values.Data())
	assert.Equal(t, []int{10, 20}, da.Coords["x"].Values.Data())
	assert.Equal(t, "K", da.Attrs["units"])
}

type curve struct {
	Data []float64 `xarray:"data,t"`
}

func TestRoundTrip(t *testing.T) {
	m, err := dataarray.NewMaker[curve]()
	require.NoError(t, err)

	in := []float64{1.5, 2.5, 3.5}

	da, err := m.New(in, nil)
	require.NoError(t, err)

	// building again from the produced payload yields the same array
	again, err := m.New(da.Values, nil)
	require.NoError(t, err)
	assert.Equal(t, da.Values.Data(), again.Values.Data())
	assert.Equal(t, in, again.Values.Data())
	assert.Empty(t, again.Coords)
}

type xAxis struct {
	Data     []int  `xarray:"data,x"`
	LongName string `xarray:"attr,name=long_name" default:"x axis"`
}

type composedImage struct {
	Data [][]float64 `xarray:"data,x,y"`
	X    xAxis       `xarray:"coordof" default:"0"`
}

func TestComposedCoord(t *testing.T) {
	m, err := dataarray.NewMaker[composedImage]()
	require.NoError(t, err)

	da, err := m.New([][]float64{{0, 1}, {2, 3}}, map[string]any{
		"x": xAxis{Data: []int{5, 6}},
	})
	require.NoError(t, err)

	x := da.Coords["x"]
	assert.Equal(t, []int{5, 6}, x.Values.Data())

	// the referenced class's attrs fold into the coordinate
	assert.Equal(t, "x axis", x.Attrs["long_name"])
}

func TestComposedCoordRawPayload(t *testing.T) {
	m, err := dataarray.NewMaker[composedImage]()
	require.NoError(t, err)

	// a raw payload binds the referenced class's data field directly
	da, err := m.New([][]float64{{0, 1}, {2, 3}}, map[string]any{
		"x": []int{7, 8},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, da.Coords["x"].Values.Data())
}

type stamped struct {
	Data []float64 `xarray:"data,x"`
}

func (stamped) DataOptions() xarray.Options {
	return xarray.Options{
		DataArray: func(values *tensor.Dense, d dims.Dims, coords map[string]xarray.Coord, attrs map[string]any, name any) (*xarray.DataArray, error) {
			da, err := xarray.New(values, d, coords, attrs, name)
			if err != nil {
				return nil, err
			}

			if da.Attrs == nil {
				da.Attrs = map[string]any{}
			}

			da.Attrs["source"] = "stamped"

			return da, nil
		},
	}
}

func TestFactoryOverride(t *testing.T) {
	m, err := dataarray.NewMaker[stamped]()
	require.NoError(t, err)

	da, err := m.New([]float64{1, 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, "stamped", da.Attrs["source"])
}

type sharedAxes struct {
	X []int `xarray:"coord,x" default:"0"`
}

type layered struct {
	*sharedAxes
	Data  []float64 `xarray:"data,x"`
	Units string    `xarray:"attr"`
}

func TestFromNilEmbeddedPointer(t *testing.T) {
	// a nil embedded pointer leaves its whole field group omitted, so
	// declared defaults apply instead of construction blowing up
	da, err := dataarray.From(layered{Data: []float64{1, 2}, Units: "K"})
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2}, da.Values.Data())
	assert.Equal(t, []int{0, 0}, da.Coords["x"].Values.Data())
	assert.Equal(t, "K", da.Attrs["units"])
}

func TestStandaloneFrom(t *testing.T) {
	da, err := dataarray.From(Image{Data: [][]float64{{4}}})
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, da.Values.Data())
}
