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
	"testing"
	"time"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func timeDataset(t *testing.T, dim string, stamps ...string) *Dataset {
	ds := NewDataset()
	if err := ds.AddVariable(NewTextVariable(TimeIndex, []string{dim}, []int{len(stamps)}, stamps)); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddVariable(NewVariable("ghi", []string{dim, "phony_dim_1"}, sparse.ZerosDense(len(stamps), 4))); err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestFixTime(t *testing.T) {
	ds := timeDataset(t, "phony_dim_7", "2000-01-01T00:00:00", "2000-01-01T01:00:00")
	log, hook := test.NewNullLogger()
	if err := FixTime(ds, log); err != nil {
		t.Fatal(err)
	}
	if ds.HasDim("phony_dim_7") || !ds.HasDim(TimeDim) {
		t.Errorf("dims: %v", ds.Dims())
	}
	if ds.Has(TimeIndex) {
		t.Error("time_index was not removed")
	}
	if !ds.IsCoord(TimeDim) {
		t.Error("time is not a coordinate")
	}
	v, ok := ds.Variable(TimeDim)
	if !ok || v.Kind() != Temporal || len(v.Times) != 2 {
		t.Fatalf("time variable: %+v", v)
	}
	want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !v.Times[0].Equal(want) {
		t.Errorf("first time: have %v, want %v", v.Times[0], want)
	}
	if d := v.Times[1].Sub(v.Times[0]); d != time.Hour {
		t.Errorf("step: have %v, want 1h", d)
	}
	ghi, _ := ds.Variable("ghi")
	if ghi.Dims[0] != TimeDim {
		t.Errorf("ghi dims: %v", ghi.Dims)
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("unexpected log entries: %v", hook.AllEntries())
	}
	if err := ds.Validate(); err != nil {
		t.Error(err)
	}
}

func TestFixTimeNamedDimension(t *testing.T) {
	ds := timeDataset(t, "hours", "2000-01-01T00:00:00")
	log, hook := test.NewNullLogger()
	if err := FixTime(ds, log); err != nil {
		t.Fatal(err)
	}
	e := hook.LastEntry()
	if e == nil || e.Level != logrus.WarnLevel || e.Data["dimension"] != "hours" {
		t.Errorf("expected a warning about dimension hours, got %v", e)
	}
	if !ds.HasDim(TimeDim) {
		t.Error("time was not created")
	}
}

func TestFixTimeSchemaErrors(t *testing.T) {
	log, _ := test.NewNullLogger()
	tests := []struct {
		name string
		ds   func() *Dataset
	}{
		{
			name: "missing",
			ds: func() *Dataset {
				ds := NewDataset()
				ds.AddVariable(NewVariable("ghi", []string{"phony_dim_0"}, sparse.ZerosDense(2)))
				return ds
			},
		},
		{
			name: "2-D",
			ds: func() *Dataset {
				ds := NewDataset()
				ds.AddVariable(NewTextVariable(TimeIndex, []string{"phony_dim_0", "phony_dim_1"},
					[]int{1, 2}, []string{"2000-01-01", "2000-01-02"}))
				return ds
			},
		},
		{
			name: "numeric",
			ds: func() *Dataset {
				ds := NewDataset()
				ds.AddVariable(NewVariable(TimeIndex, []string{"phony_dim_0"}, sparse.ZerosDense(2)))
				return ds
			},
		},
		{
			name: "time variable exists",
			ds: func() *Dataset {
				ds := timeDataset(t, "phony_dim_0", "2000-01-01")
				ds.AddVariable(NewVariable(TimeDim, []string{"other"}, sparse.ZerosDense(1)))
				return ds
			},
		},
		{
			name: "time dimension exists",
			ds: func() *Dataset {
				ds := timeDataset(t, "phony_dim_0", "2000-01-01")
				ds.AddVariable(NewVariable("x", []string{TimeDim}, sparse.ZerosDense(1)))
				return ds
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := tt.ds()
			before := ds.Variables()
			err := FixTime(ds, log)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("have %v, want SchemaError", err)
			}
			if len(ds.Variables()) != len(before) {
				t.Error("dataset was modified")
			}
		})
	}
}

func TestFixTimeConversionError(t *testing.T) {
	tests := []struct {
		in    []string
		index int
	}{
		{in: []string{"2000-01-01T00:00:00", "yesterday"}, index: 1},
		{in: []string{"2300-01-01T00:00:00", "1600-01-01T00:00:00"}, index: 0},
		{in: []string{"2000-01-01T00:00:00", "1600-01-01T00:00:00"}, index: 1},
	}
	for _, tt := range tests {
		ds := timeDataset(t, "phony_dim_0", tt.in...)
		err := FixTime(ds, nil)
		var ce *ConversionError
		if !errors.As(err, &ce) || ce.Index != tt.index || ce.Value != tt.in[tt.index] {
			t.Errorf("%v: have %v, want ConversionError for element %d", tt.in, err, tt.index)
			continue
		}
		if !ds.Has(TimeIndex) || ds.HasDim(TimeDim) {
			t.Errorf("%v: dataset was modified", tt.in)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		err  bool
	}{
		{in: "2000-01-01T00:00:00", want: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2000-01-01 00:30:00+00:00", want: time.Date(2000, 1, 1, 0, 30, 0, 0, time.UTC)},
		{in: "1998-01-01 00:00:00+00:00\x00\x00", want: time.Date(1998, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2000-01-01T01:00:00.5Z", want: time.Date(2000, 1, 1, 1, 0, 0, 5e8, time.UTC)},
		{in: "2000-01-01 07:00:00-0700", want: time.Date(2000, 1, 1, 14, 0, 0, 0, time.UTC)},
		{in: "2000-01-01 07:00:00.25", want: time.Date(2000, 1, 1, 7, 0, 0, 25e7, time.UTC)},
		{in: "2000-02-29", want: time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)},
		{in: "  2000-01-01T00:00  ", want: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2001-02-29", err: true},
		{in: "2000-13-01T00:00:00", err: true},
		{in: "", err: true},
		{in: "1677-09-21T00:12:43.145224192Z", want: time.Unix(0, math.MinInt64)},
		{in: "2262-04-11T23:47:16.854775807Z", want: time.Unix(0, math.MaxInt64)},
		{in: "1677-09-21T00:12:43Z", err: true},
		{in: "2262-04-11T23:47:17", err: true},
	}
	for _, tt := range tests {
		have, err := ParseTimestamp(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("%q: expected an error, got %v", tt.in, have)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if !have.Equal(tt.want) || have.Location() != time.UTC {
			t.Errorf("%q: have %v, want %v", tt.in, have, tt.want)
		}
	}
}
