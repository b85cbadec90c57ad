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
	"reflect"
	"testing"
)

// The files in testdata are written by testdata/make_fixtures.py.

func TestOpenHDF5(t *testing.T) {
	c, err := OpenHDF5("testdata/nsrdb_small.h5")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ds, err := c.Dataset()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"time_index", "temperature_2m", "ghi"}; !reflect.DeepEqual(ds.Variables(), want) {
		t.Errorf("variables: have %v, want %v", ds.Variables(), want)
	}
	if v, _ := ds.Attrs.Get("version"); v != "3.2.0" {
		t.Errorf("version = %#v", v)
	}

	ti, _ := ds.Variable(TimeIndex)
	if ti.Kind() != Text || !reflect.DeepEqual(ti.Dims, []string{"phony_dim_0"}) {
		t.Errorf("time_index: %s %v", ti.Kind(), ti.Dims)
	}
	if ti.Text[1] != "2000-01-01 00:30:00+00:00" {
		t.Errorf("time_index[1] = %q", ti.Text[1])
	}

	temp, _ := ds.Variable("temperature_2m")
	if temp.DType != "int16" || !reflect.DeepEqual(temp.Dims, []string{"phony_dim_0", "phony_dim_1"}) {
		t.Errorf("temperature: %s %v", temp.DType, temp.Dims)
	}
	if want := []float64{250, -9999, 300, 210, 220, 230}; !reflect.DeepEqual(temp.Data.Elements, want) {
		t.Errorf("temperature: have %v, want %v", temp.Data.Elements, want)
	}
	if want := []string{FillValue, ScaleFactor, "units"}; !reflect.DeepEqual(temp.Attrs.Keys(), want) {
		t.Errorf("temperature attributes: %v", temp.Attrs.Keys())
	}
	if f, _, err := temp.Attrs.Float64(FillValue); err != nil || f != -9999 {
		t.Errorf("fill_value = %v, %v", f, err)
	}
	if s, _, err := temp.Attrs.Float64(ScaleFactor); err != nil || s != 10 {
		t.Errorf("scale_factor = %v, %v", s, err)
	}
	if ghi, _ := ds.Variable("ghi"); ghi.DType != "uint16" {
		t.Errorf("ghi dtype = %s", ghi.DType)
	}

	r, err := c.Records("meta")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"latitude", "longitude", "elevation", "state"}; !reflect.DeepEqual(r.Fields(), want) {
		t.Errorf("fields: have %v, want %v", r.Fields(), want)
	}
	if r.Len() != 2 {
		t.Errorf("len = %d", r.Len())
	}
	lat, err := r.Field("latitude")
	if err != nil {
		t.Fatal(err)
	}
	if lat.DType != "float32" || !reflect.DeepEqual(lat.Values, []float64{40, 41.5}) {
		t.Errorf("latitude: %+v", lat)
	}
	state, err := r.Field("state")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(state.Text, []string{"CO", "CO"}) {
		t.Errorf("state: %+v", state)
	}
	if _, err := r.Field("Latitude"); !errors.Is(err, ErrNotFound) {
		t.Errorf("exported name: have %v, want ErrNotFound", err)
	}

	if _, err := c.Records("site_meta"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing block: have %v, want ErrNotFound", err)
	}
	var se *SchemaError
	if _, err := c.Records("ghi"); !errors.As(err, &se) {
		t.Errorf("numeric block: have %v, want SchemaError", err)
	}
}

func TestOpenHDF5_memberCollision(t *testing.T) {
	c, err := OpenHDF5("testdata/meta_collision.h5")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	var se *SchemaError
	if _, err := c.Records("meta"); !errors.As(err, &se) || se.Variable != "meta" {
		t.Errorf("Records: have %v, want SchemaError", err)
	}
	if _, err := c.Dataset(); !errors.As(err, &se) {
		t.Errorf("Dataset: have %v, want SchemaError", err)
	}
}
