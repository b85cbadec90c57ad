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
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"
)

func TestWriteNetCDF(t *testing.T) {
	ds, err := ConvertContainer(testContainer(t), Config{Log: nullLog()})
	if err != nil {
		t.Fatal(err)
	}
	Stamp(ds, "nsrdb_2000.h5", nil)

	path := filepath.Join(t.TempDir(), "nsrdb.nc")
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteNetCDF(ds, w); err != nil {
		t.Fatal(err)
	}
	w.Close()

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	f, err := cdf.Open(r)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f.Header.Variables(), ds.Variables()) {
		t.Errorf("variables: have %v, want %v", f.Header.Variables(), ds.Variables())
	}
	if d := f.Header.Dimensions("state"); !reflect.DeepEqual(d, []string{"location", "state_strlen"}) {
		t.Errorf("state dims: %v", d)
	}
	if s := f.Header.GetAttribute("", "source"); s != "nsrdb_2000.h5" {
		t.Errorf("source = %v", s)
	}
	if c := f.Header.GetAttribute("ghi", "coordinates"); c != "latitude longitude elevation state" {
		t.Errorf("coordinates = %v", c)
	}
	if off := f.Header.GetAttribute("windspeed", "offset"); !reflect.DeepEqual(off, []float64{3}) {
		t.Errorf("offset = %v", off)
	}

	temp := make([]float64, 6)
	if _, err := f.Reader("temperature_2m", nil, nil).Read(temp); err != nil {
		t.Fatal(err)
	}
	if want := []float64{25, math.NaN(), 30, 21, 22, 23}; !sameFloats(temp, want) {
		t.Errorf("temperature: have %v, want %v", temp, want)
	}

	ghi := make([]int32, 6)
	if _, err := f.Reader("ghi", nil, nil).Read(ghi); err != nil {
		t.Fatal(err)
	}
	if want := []int32{0, 0, 100, 120, 400, 410}; !reflect.DeepEqual(ghi, want) {
		t.Errorf("ghi: have %v, want %v", ghi, want)
	}

	tm := make([]float64, 3)
	if _, err := f.Reader("time", nil, nil).Read(tm); err != nil {
		t.Fatal(err)
	}
	if want := []float64{946684800, 946686600, 946688400}; !reflect.DeepEqual(tm, want) {
		t.Errorf("time: have %v, want %v", tm, want)
	}
}

func TestNetCDFAttribute(t *testing.T) {
	tests := []struct {
		in   interface{}
		want interface{}
	}{
		{in: int16(-9999), want: []int32{-9999}},
		{in: int64(math.MaxInt32), want: []int32{math.MaxInt32}},
		{in: int64(1) << 40, want: []float64{1 << 40}},
		{in: uint32(math.MaxUint32), want: []float64{math.MaxUint32}},
		{in: int64(math.MinInt32) - 1, want: []float64{math.MinInt32 - 1}},
		{in: []int64{1, 2}, want: []int32{1, 2}},
		{in: []int64{1, 1 << 33}, want: []float64{1, 1 << 33}},
		{in: []uint64{7}, want: []float64{7}},
		{in: float32(0.5), want: []float64{0.5}},
		{in: []string{"a", "b"}, want: "a,b"},
	}
	for _, tt := range tests {
		if have := netCDFAttribute(tt.in); !reflect.DeepEqual(have, tt.want) {
			t.Errorf("%T %v: have %#v, want %#v", tt.in, tt.in, have, tt.want)
		}
	}
}
