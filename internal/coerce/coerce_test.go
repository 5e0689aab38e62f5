package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"

	"xarray-schema/dtype"
	"xarray-schema/internal/coerce"
)

func TestAsDenseNested(t *testing.T) {
	d, err := coerce.AsDense([][]float64{{0, 1}, {2, 3}}, dtype.KindFloat64)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2}, []int(d.Shape()))
	assert.Equal(t, []float64{0, 1, 2, 3}, d.Data())
}

func TestAsDenseCasts(t *testing.T) {
	d, err := coerce.AsDense([][]int{{0, 1}, {2, 3}}, dtype.KindFloat64)
	require.NoError(t, err)

	assert.Equal(t, tensor.Float64, d.Dtype())
	assert.Equal(t, []float64{0, 1, 2, 3}, d.Data())
}

func TestAsDenseUntypedElements(t *testing.T) {
	d, err := coerce.AsDense([]any{[]any{1, 2}, []any{3, 4}}, dtype.KindInt)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2}, []int(d.Shape()))
	assert.Equal(t, []int{1, 2, 3, 4}, d.Data())
}

func TestAsDenseNoCoercion(t *testing.T) {
	d, err := coerce.AsDense([]string{"a", "b"}, dtype.KindNone)
	require.NoError(t, err)

	assert.Equal(t, tensor.String, d.Dtype())
	assert.Equal(t, []string{"a", "b"}, d.Data())
}

func TestAsDenseScalar(t *testing.T) {
	d, err := coerce.AsDense(5, dtype.KindFloat64)
	require.NoError(t, err)

	assert.Equal(t, 0, d.Dims())
	assert.Equal(t, float64(5), d.Data())
}

func TestAsDensePassThrough(t *testing.T) {
	in := tensor.New(tensor.WithShape(2), tensor.WithBacking([]float64{1, 2}))

	d, err := coerce.AsDense(in, dtype.KindFloat64)
	require.NoError(t, err)
	assert.Same(t, in, d)

	d, err = coerce.AsDense(in, dtype.KindInt)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, d.Data())
}

func TestAsDenseRagged(t *testing.T) {
	_, err := coerce.AsDense([][]int{{0, 1}, {2}}, dtype.KindInt)
	assert.ErrorIs(t, err, coerce.ErrRagged)

	_, err = coerce.AsDense([]any{1, []any{2}}, dtype.KindInt)
	assert.ErrorIs(t, err, coerce.ErrRagged)
}

func TestAsDenseBadCast(t *testing.T) {
	_, err := coerce.AsDense([]int{1, 2}, dtype.KindString)
	assert.ErrorIs(t, err, coerce.ErrCast)

	_, err = coerce.AsDense([]string{"a"}, dtype.KindFloat64)
	assert.ErrorIs(t, err, coerce.ErrCast)
}

func TestFractionalIntCast(t *testing.T) {
	_, err := coerce.AsDense([]float64{1.5}, dtype.KindInt)
	assert.ErrorIs(t, err, coerce.ErrCast)

	_, err = coerce.Fill(7.5, []int{2}, dtype.KindInt)
	assert.ErrorIs(t, err, coerce.ErrCast)

	// integral floats still cast cleanly
	d, err := coerce.AsDense([]float64{2, 3}, dtype.KindInt)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, d.Data())
}

func TestFill(t *testing.T) {
	d, err := coerce.Fill(0, []int{3}, dtype.KindInt)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, d.Data())

	d, err = coerce.Fill(7, []int{2, 2}, dtype.KindFloat64)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, []int(d.Shape()))
	assert.Equal(t, []float64{7, 7, 7, 7}, d.Data())

	// KindNone infers the kind from the scalar itself
	d, err = coerce.Fill(int8(1), []int{2}, dtype.KindNone)
	require.NoError(t, err)
	assert.Equal(t, []int8{1, 1}, d.Data())
}
