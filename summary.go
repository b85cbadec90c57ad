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
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
)

// Summary describes the contents of one variable.
type Summary struct {
	Name    string
	Dims    []string
	Kind    Kind
	Coord   bool
	Count   int
	Missing int

	// Min, Max and Mean are computed over the non-missing
	// elements of numeric variables. They are NaN otherwise.
	Min, Max, Mean float64

	Units string
}

// Summarize returns a Summary for every variable of ds, in order.
func Summarize(ds *Dataset) []Summary {
	var o []Summary
	for _, name := range ds.Variables() {
		v, _ := ds.Variable(name)
		s := Summary{
			Name:  name,
			Dims:  append([]string(nil), v.Dims...),
			Kind:  v.Kind(),
			Coord: ds.IsCoord(name),
			Count: v.Len(),
			Min:   math.NaN(),
			Max:   math.NaN(),
			Mean:  math.NaN(),
		}
		if u, ok := v.Attrs.Get("units"); ok {
			s.Units = fmt.Sprint(u)
		}
		if v.Kind() == Numeric {
			valid := make([]float64, 0, v.Len())
			for _, e := range v.Data.Elements {
				if math.IsNaN(e) {
					s.Missing++
				} else {
					valid = append(valid, e)
				}
			}
			if len(valid) > 0 {
				s.Min = floats.Min(valid)
				s.Max = floats.Max(valid)
				s.Mean = floats.Sum(valid) / float64(len(valid))
			}
		}
		o = append(o, s)
	}
	return o
}

// WriteSummary writes s to w as an aligned table.
func WriteSummary(w io.Writer, s []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIMS\tKIND\tCOUNT\tMISSING\tMIN\tMAX\tMEAN\tUNITS")
	for _, v := range s {
		name := v.Name
		if v.Coord {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t(%s)\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			name, strings.Join(v.Dims, ", "), v.Kind, v.Count, v.Missing,
			fmtStat(v.Min), fmtStat(v.Max), fmtStat(v.Mean), v.Units)
	}
	return tw.Flush()
}

func fmtStat(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return fmt.Sprintf("%.4g", f)
}
