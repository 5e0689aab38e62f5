package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"xarray-schema/dtype"
	"xarray-schema/role"
)

// Tag syntax: `xarray:"<role>[,<dim>...][,dtype=<token>][,name=<key>]"`.
// The first element names the role; bare elements after it are dimension
// tokens in axis order. Fields without the tag are inert: they stay plain
// attributes of the holder and take no part in construction.
const tagName = "xarray"

func parseStruct(r *Registry, rtype reflect.Type, seen map[reflect.Type]struct{}) (*Table, error) {
	if rtype.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s: %w", rtype, ErrNotAStruct)
	}

	t := &Table{Class: rtype.Name(), Type: rtype}
	if err := parseFields(r, rtype, nil, t, seen); err != nil {
		return nil, err
	}

	return t, nil
}

func parseFields(r *Registry, rtype reflect.Type, index []int, t *Table, seen map[reflect.Type]struct{}) error {
	for i := 0; i < rtype.NumField(); i++ {
		sf := rtype.Field(i)
		idx := append(append([]int(nil), index...), i)

		if sf.Anonymous && sf.Tag.Get(tagName) == "" {
			base := sf.Type
			for base.Kind() == reflect.Ptr {
				base = base.Elem()
			}

			if base.Kind() == reflect.Struct {
				if err := parseFields(r, base, idx, t, seen); err != nil {
					return err
				}

				continue
			}
		}

		if !sf.IsExported() {
			continue
		}

		f, err := parseField(r, sf, idx, seen)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", t.Class, sf.Name, err)
		}

		if f == nil {
			continue
		}

		// a later same-named declaration overrides in place, keeping the
		// earlier (embedded) position
		if prev, ok := t.Lookup(f.Key); ok {
			*prev = *f
			continue
		}

		t.Fields = append(t.Fields, f)
	}

	return nil
}

func parseField(r *Registry, sf reflect.StructField, index []int, seen map[reflect.Type]struct{}) (*Field, error) {
	tag := sf.Tag.Get(tagName)
	if tag == "" || tag == "-" {
		return nil, nil
	}

	parts := strings.Split(tag, ",")

	ro, composed := role.FromToken(strings.TrimSpace(parts[0]))
	if ro == role.RoleUnknown {
		return nil, fmt.Errorf("%w: role %q", ErrUnsupportedField, parts[0])
	}

	f := &Field{
		Name:  sf.Name,
		Key:   strings.ToLower(sf.Name),
		Role:  ro,
		Index: index,
	}

	var dtypeToken string
	var hasDtypeToken bool

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if k, v, ok := strings.Cut(part, "="); ok {
			switch k {
			default:
				return nil, fmt.Errorf("%w: option %q", ErrUnsupportedField, k)
			case "dtype":
				dtypeToken, hasDtypeToken = v, true
			case "name":
				f.Key = v
			}

			continue
		}

		if f.Dims.Has(part) {
			return nil, fmt.Errorf("%w: duplicate dimension %q", ErrUnsupportedField, part)
		}

		f.Dims = append(f.Dims, part)
	}

	if def, ok := sf.Tag.Lookup("default"); ok {
		f.Default = parseDefault(def)
	}

	if !ro.IsArrayLike() {
		return f, nil
	}

	if composed {
		if len(f.Dims) > 0 || hasDtypeToken {
			return nil, fmt.Errorf("%w: %s fields adopt dims and dtype from the referenced class",
				ErrUnsupportedField, parts[0])
		}

		base := sf.Type
		for base.Kind() == reflect.Ptr {
			base = base.Elem()
		}

		bt, err := r.lookup(base, seen)
		if err != nil {
			return nil, err
		}

		bdata := bt.DataFields()
		if len(bdata) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingDataField, bt.Class)
		}

		f.Base = bt
		f.Dims = bdata[0].Dims
		f.Dtype = bdata[0].Dtype

		return f, nil
	}

	if hasDtypeToken {
		f.Dtype = dtype.FromToken(dtypeToken)
	} else {
		f.Dtype = dtypeFromFieldType(sf.Type)
	}

	return f, nil
}

// dtypeFromFieldType digs through container levels of the field's Go type
// to its scalar element. Interface or otherwise unresolvable elements mean
// no coercion.
func dtypeFromFieldType(rtype reflect.Type) dtype.KindEnum {
	for {
		switch rtype.Kind() {
		case reflect.Slice, reflect.Array, reflect.Ptr:
			rtype = rtype.Elem()
		default:
			return dtype.FromReflectType(rtype)
		}
	}
}

// parseDefault reads a tag default as int, float, bool, or the literal
// string, in that order.
func parseDefault(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(n)
	}

	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return x
	}

	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}

	return s
}
