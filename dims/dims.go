// Package dims defines the dimension specifier: an ordered sequence of
// dimension-name tokens. The empty sequence denotes a scalar (0-d) field.
package dims

import (
	"errors"
	"fmt"
)

var ErrRankMismatch = errors.New("shape rank does not match dimension count")

// Dims is an ordered sequence of dimension-name tokens. Order is
// significant: it fixes the axis order of the resulting array.
type Dims []string

// Equal reports order-sensitive token equality.
func (d Dims) Equal(other Dims) bool {
	if len(d) != len(other) {
		return false
	}

	for i, token := range d {
		if other[i] != token {
			return false
		}
	}

	return true
}

// Has reports whether token names one of the dimensions.
func (d Dims) Has(token string) bool {
	for _, t := range d {
		if t == token {
			return true
		}
	}

	return false
}

// Sizes pairs the dimensions with a shape of matching rank.
func (d Dims) Sizes(shape []int) (map[string]int, error) {
	if len(shape) != len(d) {
		return nil, fmt.Errorf("%w: %d dims, shape %v", ErrRankMismatch, len(d), shape)
	}

	sizes := make(map[string]int, len(d))
	for i, token := range d {
		sizes[token] = shape[i]
	}

	return sizes, nil
}

// Shape resolves the dimensions against a size map. A dimension absent from
// sizes yields an error naming the token.
func (d Dims) Shape(sizes map[string]int) ([]int, error) {
	shape := make([]int, len(d))
	for i, token := range d {
		n, ok := sizes[token]
		if !ok {
			return nil, fmt.Errorf("%w: no size for dimension %q", ErrRankMismatch, token)
		}

		shape[i] = n
	}

	return shape, nil
}
