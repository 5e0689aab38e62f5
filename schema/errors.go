package schema

import "errors"

var (
	ErrUnsupportedField  = errors.New("field declares an unknown role or option")
	ErrNoDataField       = errors.New("no data field is declared")
	ErrMissingDataField  = errors.New("referenced class declares no data field")
	ErrTooManyNameFields = errors.New("more than one name field is declared")
	ErrCyclicComposition = errors.New("composition references form a cycle")
	ErrUnknownField      = errors.New("no field with this name is declared")
	ErrMissingValue      = errors.New("value is missing")
	ErrNotAStruct        = errors.New("class must be a struct type")
)
