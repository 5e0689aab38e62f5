// Package dtype maps scalar type specifiers to canonical array dtypes.
//
// Key types:
//   - KindEnum: closed set of scalar families; the zero value KindNone is
//     the "no coercion" sentinel (values pass through unchanged)
//   - FromReflectType / FromToken: resolution from Go types and from
//     textual tokens; unknown inputs fall back to KindNone, never an error
package dtype

import (
	"reflect"
	"time"

	"gorgonia.org/tensor"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	KindNone KindEnum = iota // no coercion

	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindComplex64
	KindComplex128
	KindString
	KindTime

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var timeType = reflect.TypeOf(time.Time{})

// Datetime is the canonical dtype of the datetime family.
var Datetime = tensor.Dtype{Type: timeType}

func (k KindEnum) IsNone() bool {
	return k == KindNone
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64, KindComplex64, KindComplex128:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Dtype returns the canonical array dtype of the kind. KindNone has no
// canonical dtype.
func (k KindEnum) Dtype() tensor.Dtype {
	switch k {
	default:
		panic("no canonical dtype for: " + k.String())
	case KindBool:
		return tensor.Bool
	case KindInt:
		return tensor.Int
	case KindInt8:
		return tensor.Int8
	case KindInt16:
		return tensor.Int16
	case KindInt32:
		return tensor.Int32
	case KindInt64:
		return tensor.Int64
	case KindUint:
		return tensor.Uint
	case KindUint8:
		return tensor.Uint8
	case KindUint16:
		return tensor.Uint16
	case KindUint32:
		return tensor.Uint32
	case KindUint64:
		return tensor.Uint64
	case KindFloat32:
		return tensor.Float32
	case KindFloat64:
		return tensor.Float64
	case KindComplex64:
		return tensor.Complex64
	case KindComplex128:
		return tensor.Complex128
	case KindString:
		return tensor.String
	case KindTime:
		return Datetime
	}
}

// Zero returns the zero value of the kind as the canonical Go type.
func (k KindEnum) Zero() any {
	if k == KindNone {
		return nil
	}

	return reflect.Zero(k.Dtype().Type).Interface()
}

// One returns the one value of the kind, or false for kinds without one
// (string, datetime).
func (k KindEnum) One() (any, bool) {
	if k == KindBool {
		return true, true
	}

	if !k.IsNumber() {
		return nil, false
	}

	switch k {
	default:
		return nil, false
	case KindInt:
		return int(1), true
	case KindInt8:
		return int8(1), true
	case KindInt16:
		return int16(1), true
	case KindInt32:
		return int32(1), true
	case KindInt64:
		return int64(1), true
	case KindUint:
		return uint(1), true
	case KindUint8:
		return uint8(1), true
	case KindUint16:
		return uint16(1), true
	case KindUint32:
		return uint32(1), true
	case KindUint64:
		return uint64(1), true
	case KindFloat32:
		return float32(1), true
	case KindFloat64:
		return float64(1), true
	case KindComplex64:
		return complex64(1), true
	case KindComplex128:
		return complex128(1), true
	}
}

// FromReflectType resolves a Go scalar type to a kind. Unsupported types
// (structs, interfaces, nested containers) resolve to KindNone.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return KindNone
	}

	if rtype == timeType {
		return KindTime
	}

	switch rtype.Kind() {
	default:
		return KindNone
	case reflect.Bool:
		return KindBool
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Complex64:
		return KindComplex64
	case reflect.Complex128:
		return KindComplex128
	case reflect.String:
		return KindString
	}
}

// FromToken resolves a textual dtype token. An empty token or "any" means
// no coercion, as does any unrecognized token.
func FromToken(token string) KindEnum {
	switch token {
	default:
		return KindNone
	case "bool":
		return KindBool
	case "int":
		return KindInt
	case "int8":
		return KindInt8
	case "int16":
		return KindInt16
	case "int32":
		return KindInt32
	case "int64":
		return KindInt64
	case "uint":
		return KindUint
	case "uint8":
		return KindUint8
	case "uint16":
		return KindUint16
	case "uint32":
		return KindUint32
	case "uint64":
		return KindUint64
	case "float32":
		return KindFloat32
	case "float", "float64":
		return KindFloat64
	case "complex64":
		return KindComplex64
	case "complex", "complex128":
		return KindComplex128
	case "str", "string":
		return KindString
	case "datetime", "time":
		return KindTime
	}
}
