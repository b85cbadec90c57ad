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
	"io"

	"github.com/ctessum/sparse"
)

// MetaDescription is the description attribute given to every
// variable extracted from a metadata record block.
const MetaDescription = "Extracted from meta variable"

// NextVariable is a function that returns the next variable in a
// sequence each time it is called. It returns io.EOF after the
// last variable.
type NextVariable func() (*Variable, error)

// ExtractMeta returns a function that yields one variable per field of
// the record block called block in c, in declaration order. Each variable
// is one-dimensional along dim. The sequence cannot be restarted; call
// ExtractMeta again to read the fields again.
//
// A SchemaError is returned if the block does not exist or has no fields.
func ExtractMeta(c Container, block, dim string) (NextVariable, error) {
	r, err := c.Records(block)
	if errors.Is(err, ErrNotFound) {
		return nil, &SchemaError{Variable: block, Msg: "metadata record block not found"}
	} else if err != nil {
		return nil, err
	}
	fields := r.Fields()
	if len(fields) == 0 {
		return nil, &SchemaError{Variable: block, Msg: "metadata record block has no fields"}
	}
	n := r.Len()
	i := 0
	return func() (*Variable, error) {
		if i >= len(fields) {
			return nil, io.EOF
		}
		name := fields[i]
		i++
		col, err := r.Field(name)
		if errors.Is(err, ErrNotFound) {
			return nil, &SchemaError{Variable: block, Attribute: name, Msg: "declared field is missing"}
		} else if err != nil {
			return nil, fmt.Errorf("nsrdb: reading %s field %s: %w", block, name, err)
		}
		var v *Variable
		if col.Text != nil {
			v = NewTextVariable(name, []string{dim}, []int{n}, col.Text)
		} else {
			data := sparse.ZerosDense(n)
			if len(col.Values) != n {
				return nil, &SchemaError{Variable: name,
					Msg: fmt.Sprintf("field has %d values but %s has %d rows", len(col.Values), block, n)}
			}
			copy(data.Elements, col.Values)
			v = NewVariable(name, []string{dim}, data)
			if col.DType != "" {
				v.DType = col.DType
			}
		}
		v.Attrs.Set("description", MetaDescription)
		return v, nil
	}, nil
}
