// Package schemafile loads class declarations from YAML into the same
// Spec Tables the struct-tag parser produces, for schemas that are not
// backed by a Go struct type.
//
// File layout:
//
//	version: "1"
//	aliases: {X: x}
//	classes:
//	  - name: image
//	    fields:
//	      - {name: data, role: data, dims: [x, y], dtype: float64}
//	      - {name: x, role: coord, dims: x, dtype: int, default: 0}
//	      - {name: red, role: dataof, of: channel}
//
// Dimension tokens may be symbolic aliases; they resolve to their fixed
// string at load time.
package schemafile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"xarray-schema/dims"
	"xarray-schema/dtype"
	"xarray-schema/role"
	"xarray-schema/schema"
)

var ErrUnknownClass = errors.New("composition references an undeclared class")

// File is the root of a YAML schema declaration file.
type File struct {
	// Version of the schema layout (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Aliases maps symbolic dimension tokens to their literal value.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// Classes in declaration order.
	Classes []ClassDecl `yaml:"classes"`
}

// ClassDecl declares one class.
type ClassDecl struct {
	Name   string      `yaml:"name"`
	Fields []FieldDecl `yaml:"fields"`
}

// FieldDecl declares one field of a class.
type FieldDecl struct {
	Name    string    `yaml:"name"`
	Role    string    `yaml:"role"`
	Dims    DimsValue `yaml:"dims,omitempty"`
	Dtype   string    `yaml:"dtype,omitempty"`
	Default any       `yaml:"default,omitempty"`

	// Of names the referenced class for dataof/coordof fields.
	Of string `yaml:"of,omitempty"`
}

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Tables resolves every declared class into a Spec Table, following
// composition references within the file and rejecting cycles.
func (f *File) Tables() (map[string]*schema.Table, error) {
	decls := make(map[string]*ClassDecl, len(f.Classes))
	for i := range f.Classes {
		decls[f.Classes[i].Name] = &f.Classes[i]
	}

	tables := make(map[string]*schema.Table, len(f.Classes))
	seen := map[string]struct{}{}

	var resolve func(name string) (*schema.Table, error)
	resolve = func(name string) (*schema.Table, error) {
		if t, ok := tables[name]; ok {
			return t, nil
		}

		decl, ok := decls[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
		}

		if _, busy := seen[name]; busy {
			return nil, fmt.Errorf("%w: %q references itself", schema.ErrCyclicComposition, name)
		}

		seen[name] = struct{}{}
		defer delete(seen, name)

		t := &schema.Table{Class: decl.Name}

		for _, fd := range decl.Fields {
			spec, err := f.resolveField(fd, resolve)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", decl.Name, fd.Name, err)
			}

			t.Fields = append(t.Fields, spec)
		}

		tables[name] = t

		return t, nil
	}

	for i := range f.Classes {
		if _, err := resolve(f.Classes[i].Name); err != nil {
			return nil, err
		}
	}

	return tables, nil
}

func (f *File) resolveField(fd FieldDecl, resolve func(string) (*schema.Table, error)) (*schema.Field, error) {
	ro, composed := role.FromToken(fd.Role)
	if ro == role.RoleUnknown {
		return nil, fmt.Errorf("%w: role %q", schema.ErrUnsupportedField, fd.Role)
	}

	spec := &schema.Field{
		Key:     fd.Name,
		Role:    ro,
		Default: fd.Default,
	}

	if !ro.IsArrayLike() {
		return spec, nil
	}

	if composed {
		if fd.Of == "" {
			return nil, fmt.Errorf("%w: composed role %q without an of class", schema.ErrUnsupportedField, fd.Role)
		}

		if len(fd.Dims) > 0 || fd.Dtype != "" {
			return nil, fmt.Errorf("%w: %s fields adopt dims and dtype from the referenced class",
				schema.ErrUnsupportedField, fd.Role)
		}

		bt, err := resolve(fd.Of)
		if err != nil {
			return nil, err
		}

		bdata := bt.DataFields()
		if len(bdata) == 0 {
			return nil, fmt.Errorf("%w: %s", schema.ErrMissingDataField, bt.Class)
		}

		spec.Base = bt
		spec.Dims = bdata[0].Dims
		spec.Dtype = bdata[0].Dtype

		return spec, nil
	}

	spec.Dims = f.resolveDims(fd.Dims)
	for i, token := range spec.Dims {
		if spec.Dims[:i].Has(token) {
			return nil, fmt.Errorf("%w: duplicate dimension %q", schema.ErrUnsupportedField, token)
		}
	}

	spec.Dtype = dtype.FromToken(fd.Dtype)

	return spec, nil
}

func (f *File) resolveDims(tokens DimsValue) dims.Dims {
	if len(tokens) == 0 {
		return nil
	}

	out := make(dims.Dims, len(tokens))
	for i, token := range tokens {
		if literal, ok := f.Aliases[token]; ok {
			token = literal
		}

		out[i] = token
	}

	return out
}
