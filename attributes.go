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

	"github.com/spf13/cast"
)

// Attributes is an insertion-ordered mapping from attribute name to value.
// Values are strings, numbers or slices of numbers.
// The zero value is not usable; use NewAttributes.
type Attributes struct {
	keys   []string
	values map[string]interface{}
}

// NewAttributes returns an empty attribute mapping.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]interface{})}
}

// Get returns the value of attribute k and whether it is present.
func (a *Attributes) Get(k string) (interface{}, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[k]
	return v, ok
}

// Has returns whether attribute k is present.
func (a *Attributes) Has(k string) bool {
	_, ok := a.Get(k)
	return ok
}

// Set sets attribute k to v. A new attribute is placed last;
// an existing attribute keeps its position.
func (a *Attributes) Set(k string, v interface{}) {
	if _, ok := a.values[k]; !ok {
		a.keys = append(a.keys, k)
	}
	a.values[k] = v
}

// Delete removes attribute k and reports whether it was present.
func (a *Attributes) Delete(k string) bool {
	if !a.Has(k) {
		return false
	}
	delete(a.values, k)
	for i, kk := range a.keys {
		if kk == k {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the attribute names in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Float64 returns attribute k as a float64. ok is false if the attribute
// is absent; err is non-nil if it is present but not numeric.
// Single-element slices are unwrapped.
func (a *Attributes) Float64(k string) (v float64, ok bool, err error) {
	raw, ok := a.Get(k)
	if !ok {
		return 0, false, nil
	}
	raw = unwrap(raw)
	if _, isString := raw.(string); isString {
		return 0, true, fmt.Errorf("value %q is not numeric", raw)
	}
	v, err = cast.ToFloat64E(raw)
	return v, true, err
}

// Copy returns a deep copy of a. Slice values are copied.
func (a *Attributes) Copy() *Attributes {
	o := NewAttributes()
	if a == nil {
		return o
	}
	for _, k := range a.keys {
		o.Set(k, copyValue(a.values[k]))
	}
	return o
}

// unwrap returns the only element of a one-element slice.
func unwrap(v interface{}) interface{} {
	switch s := v.(type) {
	case []float64:
		if len(s) == 1 {
			return s[0]
		}
	case []float32:
		if len(s) == 1 {
			return s[0]
		}
	case []int64:
		if len(s) == 1 {
			return s[0]
		}
	case []int32:
		if len(s) == 1 {
			return s[0]
		}
	case []int16:
		if len(s) == 1 {
			return s[0]
		}
	case []uint64:
		if len(s) == 1 {
			return s[0]
		}
	case []int:
		if len(s) == 1 {
			return s[0]
		}
	case []string:
		if len(s) == 1 {
			return s[0]
		}
	}
	return v
}

func copyValue(v interface{}) interface{} {
	switch s := v.(type) {
	case []float64:
		return append([]float64(nil), s...)
	case []float32:
		return append([]float32(nil), s...)
	case []int64:
		return append([]int64(nil), s...)
	case []int32:
		return append([]int32(nil), s...)
	case []int16:
		return append([]int16(nil), s...)
	case []uint64:
		return append([]uint64(nil), s...)
	case []int:
		return append([]int(nil), s...)
	case []string:
		return append([]string(nil), s...)
	}
	return v
}
