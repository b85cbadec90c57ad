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
)

// Encoding attributes consumed by FixVariable.
const (
	FillValue   = "fill_value"
	ScaleFactor = "scale_factor"
	Adder       = "adder"
	Offset      = "offset"
)

// FixVariable returns a copy of v with its packed values decoded.
// v itself is not modified.
//
// Elements equal to the fill_value attribute become NaN. Then, if there
// is a scale_factor attribute, values are recovered as raw + adder when
// an adder attribute is present and as raw / scale_factor otherwise;
// NSRDB files fold the scale into the adder when both are given, and
// divide where the usual convention multiplies. The adder is kept as an
// offset attribute. fill_value, scale_factor and adder are removed; an
// adder without a scale_factor is not applied, and is dropped.
// Variables without these attributes are returned unchanged.
func FixVariable(v *Variable) (*Variable, error) {
	o := v.Copy()
	if o.Kind() != Numeric {
		return o, nil
	}
	fill, hasFill, err := o.Attrs.Float64(FillValue)
	if err != nil {
		return nil, &SchemaError{Variable: v.Name, Attribute: FillValue, Msg: err.Error()}
	}
	scale, hasScale, err := o.Attrs.Float64(ScaleFactor)
	if err != nil {
		return nil, &SchemaError{Variable: v.Name, Attribute: ScaleFactor, Msg: err.Error()}
	}
	adder, hasAdder, err := o.Attrs.Float64(Adder)
	if err != nil && hasScale {
		return nil, &SchemaError{Variable: v.Name, Attribute: Adder, Msg: err.Error()}
	}

	// Masking comes first so that the sentinel is compared in raw units.
	if hasFill {
		maskFill(o.Data.Elements, fill)
		o.Attrs.Delete(FillValue)
		o.DType = "float64"
	}
	if hasScale {
		if hasAdder {
			o.Attrs.Set(Offset, adder)
			for i, e := range o.Data.Elements {
				o.Data.Elements[i] = e + adder
			}
		} else {
			for i, e := range o.Data.Elements {
				o.Data.Elements[i] = e / scale
			}
		}
		o.Attrs.Delete(ScaleFactor)
		o.DType = "float64"
	}
	o.Attrs.Delete(Adder)
	return o, nil
}

// maskFill replaces every element equal to fill with NaN.
// Masking a second time has no effect.
func maskFill(e []float64, fill float64) {
	for i, x := range e {
		if x == fill {
			e[i] = math.NaN()
		}
	}
}
