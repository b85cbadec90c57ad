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
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestConvertContainer(t *testing.T) {
	c := testContainer(t)
	log, hook := test.NewNullLogger()
	ds, err := ConvertContainer(c, Config{Log: log})
	if err != nil {
		t.Fatal(err)
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("unexpected warnings: %v", hook.AllEntries())
	}
	if !ds.Frozen() {
		t.Error("dataset is not frozen")
	}
	if c.closed {
		t.Error("ConvertContainer closed the container")
	}
	if want := []string{"time", "location"}; !reflect.DeepEqual(ds.Dims(), want) {
		t.Errorf("dims: have %v, want %v", ds.Dims(), want)
	}
	if want := []string{"time", "latitude", "longitude", "elevation", "state"}; !reflect.DeepEqual(ds.Coords(), want) {
		t.Errorf("coords: have %v, want %v", ds.Coords(), want)
	}
	if want := []string{"temperature_2m", "windspeed", "ghi"}; !reflect.DeepEqual(ds.DataVars(), want) {
		t.Errorf("data vars: have %v, want %v", ds.DataVars(), want)
	}

	tm, _ := ds.Variable("time")
	if d := tm.Times[2].Sub(tm.Times[0]); d != time.Hour {
		t.Errorf("time span %v", d)
	}
	if c, _ := tm.Attrs.Get("calendar"); c != "proleptic_gregorian" {
		t.Errorf("time calendar = %v", c)
	}

	temp, _ := ds.Variable("temperature_2m")
	if want := []float64{25, math.NaN(), 30, 21, 22, 23}; !sameFloats(temp.Data.Elements, want) {
		t.Errorf("temperature: have %v, want %v", temp.Data.Elements, want)
	}
	if want := []string{"units", "standard_name"}; !reflect.DeepEqual(temp.Attrs.Keys(), want) {
		t.Errorf("temperature attributes: %v", temp.Attrs.Keys())
	}
	if u, _ := temp.Attrs.Get("units"); u != "C" {
		t.Errorf("temperature units = %v", u)
	}
	if !reflect.DeepEqual(temp.Dims, []string{"time", "location"}) {
		t.Errorf("temperature dims: %v", temp.Dims)
	}

	ws, _ := ds.Variable("windspeed")
	if ws.Data.Elements[0] != 13 {
		t.Errorf("windspeed = %g", ws.Data.Elements[0])
	}
	if off, _ := ws.Attrs.Get(Offset); off != 3.0 {
		t.Errorf("windspeed offset = %v", off)
	}

	ghi, _ := ds.Variable("ghi")
	if ghi.DType != "uint16" || ghi.Data.Elements[5] != 410 {
		t.Errorf("ghi: %s %v", ghi.DType, ghi.Data.Elements)
	}

	lat, _ := ds.Variable("latitude")
	if sn, _ := lat.Attrs.Get("standard_name"); sn != "latitude" {
		t.Errorf("latitude standard_name = %v", sn)
	}
	if d, _ := lat.Attrs.Get("description"); d != MetaDescription {
		t.Errorf("latitude description = %v", d)
	}
	if !reflect.DeepEqual(ds.AuxCoords("ghi"), []string{"latitude", "longitude", "elevation", "state"}) {
		t.Errorf("aux coords: %v", ds.AuxCoords("ghi"))
	}
}

func TestConvertContainerCustomConfig(t *testing.T) {
	c := testContainer(t)
	c.records["site_meta"] = c.records["meta"]
	delete(c.records, "meta")
	vocab := Vocabulary{"ghi": {"units": "W m-2"}}
	ds, err := ConvertContainer(c, Config{LocationDim: "site", MetaName: "site_meta", Vocabulary: vocab})
	if err != nil {
		t.Fatal(err)
	}
	if !ds.HasDim("site") {
		t.Errorf("dims: %v", ds.Dims())
	}
	ghi, _ := ds.Variable("ghi")
	if u, _ := ghi.Attrs.Get("units"); u != "W m-2" {
		t.Errorf("ghi units = %v", u)
	}
	temp, _ := ds.Variable("temperature_2m")
	if temp.Attrs.Has("standard_name") {
		t.Error("default vocabulary was used")
	}
}

func TestConvertContainerErrors(t *testing.T) {
	var se *SchemaError

	c := testContainer(t)
	delete(c.records, "meta")
	ds, err := ConvertContainer(c, Config{Log: nullLog()})
	if !errors.As(err, &se) || ds != nil {
		t.Errorf("missing meta: %v", err)
	}

	c = testContainer(t)
	c.ds.DropVariable(TimeIndex)
	ds, err = ConvertContainer(c, Config{Log: nullLog()})
	if !errors.As(err, &se) || se.Variable != TimeIndex || ds != nil {
		t.Errorf("missing time_index: %v", err)
	}

	c = testContainer(t)
	v, _ := c.ds.Variable("ghi")
	v.Attrs.Set(FillValue, "none")
	if _, err = ConvertContainer(c, Config{Log: nullLog()}); !errors.As(err, &se) || se.Variable != "ghi" {
		t.Errorf("bad fill value: %v", err)
	}
}

func TestStamp(t *testing.T) {
	id := func(source string, vocab Vocabulary) string {
		ds := NewDataset()
		Stamp(ds, source, vocab)
		v, _ := ds.Attrs.Get("id")
		return v.(string)
	}
	if id("/data/nsrdb_2000.h5", nil) != id("/other/nsrdb_2000.h5", DefaultVocabulary()) {
		t.Error("id depends on more than the base name and vocabulary")
	}
	if id("nsrdb_2000.h5", nil) == id("nsrdb_2001.h5", nil) {
		t.Error("different sources have the same id")
	}
	if id("nsrdb_2000.h5", nil) == id("nsrdb_2000.h5", Vocabulary{}) {
		t.Error("different vocabularies have the same id")
	}
	ds := NewDataset()
	Stamp(ds, "/data/nsrdb_2000.h5", nil)
	if s, _ := ds.Attrs.Get("source"); s != "nsrdb_2000.h5" {
		t.Errorf("source = %v", s)
	}
}

func TestConvertMissingFile(t *testing.T) {
	if _, err := Convert("testdata/does_not_exist.h5", Config{}); err == nil {
		t.Error("expected an error")
	}
}

func TestConvertHDF5(t *testing.T) {
	ds, err := Convert("testdata/nsrdb_small.h5", Config{Log: nullLog()})
	if err != nil {
		t.Fatal(err)
	}
	if !ds.Frozen() {
		t.Error("dataset is not frozen")
	}
	if want := []string{"time", "location"}; !reflect.DeepEqual(ds.Dims(), want) {
		t.Errorf("dims: have %v, want %v", ds.Dims(), want)
	}
	if want := []string{"time", "latitude", "longitude", "elevation", "state"}; !reflect.DeepEqual(ds.Coords(), want) {
		t.Errorf("coords: have %v, want %v", ds.Coords(), want)
	}
	if want := []string{"temperature_2m", "ghi"}; !reflect.DeepEqual(ds.DataVars(), want) {
		t.Errorf("data vars: have %v, want %v", ds.DataVars(), want)
	}
	tm, _ := ds.Variable("time")
	if want := time.Date(2000, 1, 1, 0, 30, 0, 0, time.UTC); !tm.Times[1].Equal(want) {
		t.Errorf("time[1] = %v", tm.Times[1])
	}
	temp, _ := ds.Variable("temperature_2m")
	if want := []float64{25, math.NaN(), 30, 21, 22, 23}; !sameFloats(temp.Data.Elements, want) {
		t.Errorf("temperature: have %v, want %v", temp.Data.Elements, want)
	}
	for _, a := range []string{FillValue, ScaleFactor} {
		if temp.Attrs.Has(a) {
			t.Errorf("temperature keeps %s", a)
		}
	}
	elev, _ := ds.Variable("elevation")
	if elev.DType != "int16" || !reflect.DeepEqual(elev.Data.Elements, []float64{1600, 1700}) {
		t.Errorf("elevation: %s %v", elev.DType, elev.Data.Elements)
	}
	if s, _ := ds.Attrs.Get("source"); s != "nsrdb_small.h5" {
		t.Errorf("source = %v", s)
	}
	if v, _ := ds.Attrs.Get("version"); v != "3.2.0" {
		t.Errorf("version = %v", v)
	}
}
