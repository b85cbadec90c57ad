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
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/spf13/cast"
)

// NetCDFTimeUnits are the units of time variables in netCDF output.
const NetCDFTimeUnits = "seconds since 1970-01-01 00:00:00"

// WriteNetCDF writes ds to w as a classic netCDF file. Numeric variables
// keep 16- and 32-bit integer and 32-bit float types; everything else
// is written as double. Text variables are written as character arrays
// with an extra dimension called <name>_strlen.
func WriteNetCDF(ds *Dataset, w *os.File) error {
	var dims []string
	var lengths []int
	for _, d := range ds.Dims() {
		s, _ := ds.DimSize(d)
		if s == 0 {
			return fmt.Errorf("nsrdb: netcdf: dimension %s has length zero", d)
		}
		dims = append(dims, d)
		lengths = append(lengths, s)
	}
	strlen := make(map[string]int)
	for _, name := range ds.Variables() {
		v, _ := ds.Variable(name)
		if v.Kind() != Text {
			continue
		}
		n := 1
		for _, s := range v.Text {
			if len(s) > n {
				n = len(s)
			}
		}
		strlen[name] = n
		dims = append(dims, name+"_strlen")
		lengths = append(lengths, n)
	}
	h := cdf.NewHeader(dims, lengths)
	for _, k := range ds.Attrs.Keys() {
		val, _ := ds.Attrs.Get(k)
		h.AddAttribute("", k, netCDFAttribute(val))
	}

	for _, name := range ds.Variables() {
		v, _ := ds.Variable(name)
		switch v.Kind() {
		case Text:
			h.AddVariable(name, append(append([]string(nil), v.Dims...), name+"_strlen"), "")
		case Temporal:
			h.AddVariable(name, v.Dims, []float64{0})
			h.AddAttribute(name, "units", NetCDFTimeUnits)
		default:
			h.AddVariable(name, v.Dims, netCDFTemplate(v))
		}
		for _, k := range v.Attrs.Keys() {
			val, _ := v.Attrs.Get(k)
			h.AddAttribute(name, k, netCDFAttribute(val))
		}
		if aux := ds.AuxCoords(name); len(aux) > 0 {
			h.AddAttribute(name, "coordinates", strings.Join(aux, " "))
		}
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("nsrdb: creating netcdf file: %w", err)
	}
	for _, name := range ds.Variables() {
		v, _ := ds.Variable(name)
		if err := writeNetCDFVariable(f, v, strlen[name]); err != nil {
			return fmt.Errorf("nsrdb: writing variable %s to netcdf file: %w", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeNetCDFVariable(f *cdf.File, v *Variable, strlen int) error {
	end := f.Header.Lengths(v.Name)
	start := make([]int, len(end))
	w := f.Writer(v.Name, start, end)
	var data interface{}
	switch v.Kind() {
	case Text:
		var b strings.Builder
		for _, s := range v.Text {
			b.WriteString(s)
			b.WriteString(strings.Repeat("\x00", strlen-len(s)))
		}
		data = b.String()
	case Temporal:
		t := make([]float64, len(v.Times))
		for i, tt := range v.Times {
			t[i] = float64(tt.Unix()) + float64(tt.Nanosecond())/1e9
		}
		data = t
	default:
		switch netCDFTemplate(v).(type) {
		case []int16:
			d := make([]int16, len(v.Data.Elements))
			for i, e := range v.Data.Elements {
				d[i] = int16(e)
			}
			data = d
		case []int32:
			d := make([]int32, len(v.Data.Elements))
			for i, e := range v.Data.Elements {
				d[i] = int32(e)
			}
			data = d
		case []float32:
			d := make([]float32, len(v.Data.Elements))
			for i, e := range v.Data.Elements {
				d[i] = float32(e)
			}
			data = d
		default:
			data = v.Data.Elements
		}
	}
	_, err := w.Write(data)
	return err
}

// netCDFTemplate returns a value of the netCDF type v is stored as.
// Types with NaN-valued elements are written as double.
func netCDFTemplate(v *Variable) interface{} {
	if v.HasMissing() {
		return []float64{0}
	}
	switch v.DType {
	case "int8", "uint8", "int16":
		return []int16{0}
	case "uint16", "int32":
		return []int32{0}
	case "float32":
		return []float32{0}
	default:
		return []float64{0}
	}
}

func netCDFAttribute(val interface{}) interface{} {
	switch v := val.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case float32, float64, uint64:
		return []float64{cast.ToFloat64(v)}
	case []float64:
		return v
	case []float32:
		o := make([]float64, len(v))
		for i, e := range v {
			o[i] = float64(e)
		}
		return o
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return netCDFInts([]int64{cast.ToInt64(v)})
	case []int32:
		return v
	case []int16:
		return v
	case []int64:
		return netCDFInts(v)
	case []uint64:
		o := make([]float64, len(v))
		for i, e := range v {
			o[i] = float64(e)
		}
		return o
	default:
		return fmt.Sprint(v)
	}
}

// netCDFInts returns v as int, or as double when an element does not
// fit in 32 bits.
func netCDFInts(v []int64) interface{} {
	o := make([]int32, len(v))
	for i, e := range v {
		if e < math.MinInt32 || e > math.MaxInt32 {
			f := make([]float64, len(v))
			for j, e := range v {
				f[j] = float64(e)
			}
			return f
		}
		o[i] = int32(e)
	}
	return o
}
