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
	"fmt"
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeContainer struct {
	ds      *Dataset
	records map[string]*fakeRecords
	closed  bool
}

func (c *fakeContainer) Dataset() (*Dataset, error) { return c.ds, nil }

func (c *fakeContainer) Records(name string) (RecordBlock, error) {
	r, ok := c.records[name]
	if !ok {
		return nil, fmt.Errorf("fake: record block %s: %w", name, ErrNotFound)
	}
	return r, nil
}

func (c *fakeContainer) Close() error {
	c.closed = true
	return nil
}

type fakeRecords struct {
	n      int
	fields []string
	cols   map[string]Column
	calls  int
}

func (r *fakeRecords) Len() int         { return r.n }
func (r *fakeRecords) Fields() []string { return r.fields }

func (r *fakeRecords) Field(name string) (Column, error) {
	r.calls++
	c, ok := r.cols[name]
	if !ok {
		return Column{}, fmt.Errorf("fake: field %s: %w", name, ErrNotFound)
	}
	return c, nil
}

func dense(shape []int, vals ...float64) *sparse.DenseArray {
	d := sparse.ZerosDense(shape...)
	copy(d.Elements, vals)
	return d
}

// rawVariable returns a numeric variable with the given storage type
// and attributes, given as name/value pairs.
func rawVariable(name string, dims []string, dtype string, data *sparse.DenseArray, attrs ...interface{}) *Variable {
	v := NewVariable(name, dims, data)
	v.DType = dtype
	for i := 0; i < len(attrs); i += 2 {
		v.Attrs.Set(attrs[i].(string), attrs[i+1])
	}
	return v
}

// testContainer returns a container laid out like a small NSRDB file:
// three half-hourly time steps at two locations.
func testContainer(t *testing.T) *fakeContainer {
	ds := NewDataset()
	tp := []string{"phony_dim_0", "phony_dim_1"}
	vars := []*Variable{
		NewTextVariable(TimeIndex, []string{"phony_dim_0"}, []int{3}, []string{
			"2000-01-01 00:00:00+00:00",
			"2000-01-01 00:30:00+00:00",
			"2000-01-01 01:00:00+00:00",
		}),
		rawVariable("temperature_2m", tp, "int16",
			dense([]int{3, 2}, 250, -9999, 300, 210, 220, 230),
			FillValue, -9999.0, ScaleFactor, 10.0, "units", "K"),
		rawVariable("windspeed", tp, "uint16",
			dense([]int{3, 2}, 10, 10, 10, 10, 10, 10),
			ScaleFactor, 2.0, Adder, 3.0),
		rawVariable("ghi", tp, "uint16",
			dense([]int{3, 2}, 0, 0, 100, 120, 400, 410)),
	}
	for _, v := range vars {
		if err := ds.AddVariable(v); err != nil {
			t.Fatal(err)
		}
	}
	meta := &fakeRecords{
		n:      2,
		fields: []string{"latitude", "longitude", "elevation", "state"},
		cols: map[string]Column{
			"latitude":  {DType: "float32", Values: []float64{40, 41.5}},
			"longitude": {DType: "float32", Values: []float64{-105, -104}},
			"elevation": {DType: "int16", Values: []float64{1600, 1700}},
			"state":     {DType: "string", Text: []string{"CO", "CO"}},
		},
	}
	return &fakeContainer{ds: ds, records: map[string]*fakeRecords{"meta": meta}}
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func nullLog() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}
