/*
Copyright © 2026 the InMAP authors.
This file is part of nsrdb.

nsrdb is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nsrdb is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nsrdb.  If not, see <http://www.gnu.org/licenses/>.
*/

package nsrdb

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/ctessum/sparse"
	"github.com/robert-malhotra/go-hdf5/hdf5"
	"github.com/spf13/cast"
)

type h5Container struct {
	f *hdf5.File
}

// OpenHDF5 opens the HDF5 file at path. The returned Container reads
// the datasets in the root group; the caller must close it.
func OpenHDF5(path string) (Container, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nsrdb: opening HDF5 file: %w", err)
	}
	return &h5Container{f: f}, nil
}

func (c *h5Container) Close() error { return c.f.Close() }

func (c *h5Container) Dataset() (*Dataset, error) {
	root := c.f.Root()
	names, err := root.Members()
	if err != nil {
		return nil, fmt.Errorf("nsrdb: listing HDF5 members: %w", err)
	}
	ds := NewDataset()
	namer := NewPlaceholderNamer()
	for _, name := range names {
		d, err := root.OpenDataset(name)
		if errors.Is(err, hdf5.ErrNotDataset) {
			continue // Subgroups are not part of the NSRDB layout.
		} else if err != nil {
			return nil, fmt.Errorf("nsrdb: opening HDF5 dataset %s: %w", name, err)
		}
		shape := intShape(d.Shape())
		// Record blocks take part in naming so that numbering matches
		// what netCDF-4 readers report for the same file.
		dims := namer.Dims(shape)

		t, err := goType(name, d)
		if err != nil {
			return nil, err
		}
		var v *Variable
		switch t.Kind() {
		case reflect.Struct:
			continue
		case reflect.String:
			vals, err := d.ReadString()
			if err != nil {
				return nil, fmt.Errorf("nsrdb: reading HDF5 dataset %s: %w", name, err)
			}
			v = NewTextVariable(name, dims, shape, vals)
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			vals, err := d.ReadFloat64()
			if err != nil {
				return nil, fmt.Errorf("nsrdb: reading HDF5 dataset %s: %w", name, err)
			}
			data := sparse.ZerosDense(shape...)
			copy(data.Elements, vals)
			v = NewVariable(name, dims, data)
			v.DType = t.Kind().String()
		default:
			return nil, &SchemaError{Variable: name,
				Msg: fmt.Sprintf("unsupported HDF5 element type %s", t)}
		}
		for _, a := range d.Attrs() {
			val, err := d.Attr(a).Value()
			if err != nil {
				return nil, fmt.Errorf("nsrdb: reading HDF5 attribute %s/%s: %w", name, a, err)
			}
			v.Attrs.Set(a, val)
		}
		if err := ds.AddVariable(v); err != nil {
			return nil, err
		}
	}
	for _, a := range root.Attrs() {
		val, err := root.Attr(a).Value()
		if err != nil {
			return nil, fmt.Errorf("nsrdb: reading HDF5 global attribute %s: %w", a, err)
		}
		ds.Attrs.Set(a, val)
	}
	return ds, nil
}

func (c *h5Container) Records(name string) (RecordBlock, error) {
	d, err := c.f.Root().OpenDataset(name)
	if errors.Is(err, hdf5.ErrNotFound) {
		return nil, fmt.Errorf("nsrdb: record block %s: %w", name, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("nsrdb: opening record block %s: %w", name, err)
	}
	t, err := goType(name, d)
	if err != nil {
		return nil, err
	}
	if t.Kind() != reflect.Struct || d.Rank() != 1 {
		return nil, &SchemaError{Variable: name, Msg: "not a one-dimensional compound dataset"}
	}
	var rows []interface{}
	if err := d.Read(&rows); err != nil {
		return nil, fmt.Errorf("nsrdb: reading record block %s: %w", name, err)
	}
	r := &h5Records{rows: make([]map[string]interface{}, len(rows))}
	for i, row := range rows {
		m, ok := row.(map[string]interface{})
		if !ok {
			return nil, &SchemaError{Variable: name, Msg: fmt.Sprintf("row %d is %T, not a record", i, row)}
		}
		r.rows[i] = m
	}

	r.fields, r.dtypes, err = recordFields(name, t, r.rows)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// goType returns the Go type the HDF5 reader decodes d into. The reader
// builds compound types with reflect.StructOf, which panics when two
// member names export to the same field name.
func goType(name string, d *hdf5.Dataset) (t reflect.Type, err error) {
	defer func() {
		if p := recover(); p != nil {
			t, err = nil, &SchemaError{Variable: name, Msg: fmt.Sprintf("unsupported compound type: %v", p)}
		}
	}()
	t, err = d.GoType()
	if err != nil {
		return nil, fmt.Errorf("nsrdb: HDF5 dataset %s: %w", name, err)
	}
	return t, nil
}

// recordFields returns the original member names of the compound type t
// in declaration order, with their element kinds. The rows are keyed by
// the original names while t only carries the exported field names, so
// the names are recovered from the first row.
func recordFields(name string, t reflect.Type, rows []map[string]interface{}) (fields, dtypes []string, err error) {
	if len(rows) == 0 {
		return nil, nil, &SchemaError{Variable: name, Msg: "record block has no rows"}
	}
	keys := make(map[string]string, len(rows[0]))
	for k := range rows[0] {
		e := exportedName(k)
		if prev, ok := keys[e]; ok {
			a, b := prev, k
			if b < a {
				a, b = b, a
			}
			return nil, nil, &SchemaError{Variable: name,
				Msg: fmt.Sprintf("members %q and %q cannot be told apart", a, b)}
		}
		keys[e] = k
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		k, ok := keys[sf.Name]
		if !ok {
			return nil, nil, &SchemaError{Variable: name, Attribute: sf.Name, Msg: "member has no values"}
		}
		fields = append(fields, k)
		dtypes = append(dtypes, sf.Type.Kind().String())
	}
	return fields, dtypes, nil
}

type h5Records struct {
	rows   []map[string]interface{}
	fields []string
	dtypes []string
}

func (r *h5Records) Len() int { return len(r.rows) }

func (r *h5Records) Fields() []string { return append([]string(nil), r.fields...) }

func (r *h5Records) Field(name string) (Column, error) {
	col := Column{DType: ""}
	for i, f := range r.fields {
		if f == name {
			col.DType = r.dtypes[i]
		}
	}
	if col.DType == "" {
		return col, fmt.Errorf("nsrdb: field %s: %w", name, ErrNotFound)
	}
	if col.DType == "string" {
		col.Text = make([]string, len(r.rows))
		for i, row := range r.rows {
			col.Text[i] = cast.ToString(row[name])
		}
		return col, nil
	}
	col.Values = make([]float64, len(r.rows))
	for i, row := range r.rows {
		v, err := cast.ToFloat64E(row[name])
		if err != nil {
			return col, &ConversionError{Variable: name, Index: i, Value: fmt.Sprint(row[name]), Err: err}
		}
		col.Values[i] = v
	}
	return col, nil
}

// exportedName returns the Go struct field name the HDF5 reader uses
// for compound member name.
func exportedName(name string) string {
	if name == "" {
		return "Field"
	}
	b := []byte(name)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	for i, c := range b {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			b[i] = '_'
		}
	}
	return string(b)
}

func intShape(s []uint64) []int {
	o := make([]int, len(s))
	for i, v := range s {
		o[i] = int(v)
	}
	return o
}
