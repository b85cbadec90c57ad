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
	"time"

	"github.com/ctessum/sparse"
)

// Kind is the element kind of a Variable.
type Kind int

// These are the supported element kinds.
const (
	Numeric Kind = iota
	Text
	Temporal
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	case Temporal:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Variable is a named n-dimensional array together with its dimension
// names and attributes. Exactly one of Data, Text and Times holds the
// values, depending on the variable's Kind. Text and Times are stored
// in row-major order.
type Variable struct {
	Name  string
	Dims  []string
	Attrs *Attributes

	// DType is the element type the values were stored with in the
	// source, e.g. "int16" or "float32". Decoded variables are "float64".
	DType string

	Data  *sparse.DenseArray
	Text  []string
	Times []time.Time

	// shape holds the array shape of Text and Times variables.
	shape []int
}

// NewVariable returns a numeric variable holding data.
func NewVariable(name string, dims []string, data *sparse.DenseArray) *Variable {
	return &Variable{
		Name:  name,
		Dims:  dims,
		Attrs: NewAttributes(),
		DType: "float64",
		Data:  data,
	}
}

// NewTextVariable returns a text variable with the given shape.
// values are in row-major order.
func NewTextVariable(name string, dims []string, shape []int, values []string) *Variable {
	return &Variable{
		Name:  name,
		Dims:  dims,
		Attrs: NewAttributes(),
		DType: "string",
		Text:  values,
		shape: append([]int(nil), shape...),
	}
}

// NewTimeVariable returns a one-dimensional time variable.
func NewTimeVariable(name, dim string, values []time.Time) *Variable {
	return &Variable{
		Name:  name,
		Dims:  []string{dim},
		Attrs: NewAttributes(),
		DType: "datetime64[ns]",
		Times: values,
		shape: []int{len(values)},
	}
}

// Kind returns the element kind of v.
func (v *Variable) Kind() Kind {
	switch {
	case v.Times != nil:
		return Temporal
	case v.Text != nil:
		return Text
	default:
		return Numeric
	}
}

// Shape returns the array shape of v.
func (v *Variable) Shape() []int {
	if v.Kind() == Numeric {
		if v.Data == nil {
			return nil
		}
		return append([]int(nil), v.Data.Shape...)
	}
	return append([]int(nil), v.shape...)
}

// Len returns the number of elements in v.
func (v *Variable) Len() int {
	switch v.Kind() {
	case Temporal:
		return len(v.Times)
	case Text:
		return len(v.Text)
	default:
		if v.Data == nil {
			return 0
		}
		return len(v.Data.Elements)
	}
}

// HasMissing returns whether any numeric element of v is NaN.
func (v *Variable) HasMissing() bool {
	if v.Kind() != Numeric || v.Data == nil {
		return false
	}
	for _, e := range v.Data.Elements {
		if math.IsNaN(e) {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of v.
func (v *Variable) Copy() *Variable {
	o := &Variable{
		Name:  v.Name,
		Dims:  append([]string(nil), v.Dims...),
		Attrs: v.Attrs.Copy(),
		DType: v.DType,
		shape: append([]int(nil), v.shape...),
	}
	if v.Data != nil {
		o.Data = v.Data.Copy()
	}
	if v.Text != nil {
		o.Text = append([]string(nil), v.Text...)
	}
	if v.Times != nil {
		o.Times = append([]time.Time(nil), v.Times...)
	}
	return o
}

// check returns an error if the shape of v is not consistent with
// its dimensions and values.
func (v *Variable) check() error {
	shape := v.Shape()
	if v.Kind() == Numeric && v.Data == nil {
		return &SchemaError{Variable: v.Name, Msg: "numeric variable has no data"}
	}
	if len(shape) != len(v.Dims) {
		return &SchemaError{Variable: v.Name,
			Msg: fmt.Sprintf("%d dimension names for an array of rank %d", len(v.Dims), len(shape))}
	}
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != v.Len() {
		return &SchemaError{Variable: v.Name,
			Msg: fmt.Sprintf("shape %v holds %d elements but there are %d values", shape, n, v.Len())}
	}
	seen := make(map[string]bool)
	for _, d := range v.Dims {
		if seen[d] {
			return &SchemaError{Variable: v.Name, Dimension: d, Msg: "dimension used more than once"}
		}
		seen[d] = true
	}
	return nil
}

// Dataset is a collection of variables sharing a set of named dimensions.
// Some variables are designated as coordinates, which label positions
// along a dimension rather than holding measured data.
// A Dataset is not safe for concurrent use.
type Dataset struct {
	// Attrs holds the global attributes.
	Attrs *Attributes

	dims     map[string]int
	dimOrder []string

	vars  map[string]*Variable
	order []string

	coords map[string]bool
	frozen bool
}

// NewDataset returns an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{
		Attrs:  NewAttributes(),
		dims:   make(map[string]int),
		vars:   make(map[string]*Variable),
		coords: make(map[string]bool),
	}
}

// AddVariable adds v to d, replacing any variable with the same name.
// Dimensions of v that are new to d are created; dimensions that already
// exist must have the same size.
func (d *Dataset) AddVariable(v *Variable) error {
	if d.frozen {
		return ErrFrozen
	}
	if err := v.check(); err != nil {
		return err
	}
	old, replacing := d.vars[v.Name]
	shape := v.Shape()
	for i, dim := range v.Dims {
		size, ok := d.dims[dim]
		if ok && size != shape[i] && !(replacing && d.onlyUser(dim, old)) {
			return &SchemaError{Variable: v.Name, Dimension: dim,
				Msg: fmt.Sprintf("size %d conflicts with existing size %d", shape[i], size)}
		}
	}
	if !replacing {
		d.order = append(d.order, v.Name)
	}
	d.vars[v.Name] = v
	for i, dim := range v.Dims {
		if _, ok := d.dims[dim]; !ok {
			d.dimOrder = append(d.dimOrder, dim)
		}
		d.dims[dim] = shape[i]
	}
	if replacing {
		d.pruneDims()
		if d.coords[v.Name] && len(v.Dims) != 1 {
			delete(d.coords, v.Name)
		}
	}
	return nil
}

// onlyUser returns whether v is the only variable dimensioned by dim.
func (d *Dataset) onlyUser(dim string, v *Variable) bool {
	for _, name := range d.order {
		other := d.vars[name]
		if other == v {
			continue
		}
		for _, od := range other.Dims {
			if od == dim {
				return false
			}
		}
	}
	return true
}

// DropVariable removes the named variable. Dimensions no longer used by
// any variable are removed too.
func (d *Dataset) DropVariable(name string) error {
	if d.frozen {
		return ErrFrozen
	}
	if _, ok := d.vars[name]; !ok {
		return &SchemaError{Variable: name, Msg: "variable not found"}
	}
	delete(d.vars, name)
	delete(d.coords, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.pruneDims()
	return nil
}

func (d *Dataset) pruneDims() {
	used := make(map[string]bool)
	for _, v := range d.vars {
		for _, dim := range v.Dims {
			used[dim] = true
		}
	}
	var order []string
	for _, dim := range d.dimOrder {
		if used[dim] {
			order = append(order, dim)
		} else {
			delete(d.dims, dim)
		}
	}
	d.dimOrder = order
}

// RenameDim renames dimension from to to in d and in every variable.
func (d *Dataset) RenameDim(from, to string) error {
	if d.frozen {
		return ErrFrozen
	}
	size, ok := d.dims[from]
	if !ok {
		return &SchemaError{Dimension: from, Msg: "dimension not found"}
	}
	if from == to {
		return nil
	}
	if _, ok := d.dims[to]; ok {
		return &SchemaError{Dimension: to, Msg: "dimension already exists"}
	}
	delete(d.dims, from)
	d.dims[to] = size
	for i, dim := range d.dimOrder {
		if dim == from {
			d.dimOrder[i] = to
		}
	}
	for _, v := range d.vars {
		for i, dim := range v.Dims {
			if dim == from {
				v.Dims[i] = to
			}
		}
	}
	return nil
}

// SetCoords designates the named variables as coordinates.
// Coordinates must be one-dimensional.
func (d *Dataset) SetCoords(names ...string) error {
	if d.frozen {
		return ErrFrozen
	}
	for _, name := range names {
		v, ok := d.vars[name]
		if !ok {
			return &SchemaError{Variable: name, Msg: "cannot promote a missing variable to a coordinate"}
		}
		if len(v.Dims) != 1 {
			return &SchemaError{Variable: name,
				Msg: fmt.Sprintf("coordinates must be 1-D, got %d dimensions", len(v.Dims))}
		}
	}
	for _, name := range names {
		d.coords[name] = true
	}
	return nil
}

// Variable returns the named variable.
func (d *Dataset) Variable(name string) (*Variable, bool) {
	v, ok := d.vars[name]
	return v, ok
}

// Has returns whether d holds a variable called name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.vars[name]
	return ok
}

// HasDim returns whether d has a dimension called name.
func (d *Dataset) HasDim(name string) bool {
	_, ok := d.dims[name]
	return ok
}

// DimSize returns the size of the named dimension.
func (d *Dataset) DimSize(name string) (int, bool) {
	s, ok := d.dims[name]
	return s, ok
}

// Dims returns the dimension names in the order they were created.
func (d *Dataset) Dims() []string {
	return append([]string(nil), d.dimOrder...)
}

// Variables returns all variable names in insertion order.
func (d *Dataset) Variables() []string {
	return append([]string(nil), d.order...)
}

// IsCoord returns whether the named variable is a coordinate.
func (d *Dataset) IsCoord(name string) bool {
	return d.coords[name]
}

// Coords returns the coordinate names in insertion order.
func (d *Dataset) Coords() []string {
	var o []string
	for _, name := range d.order {
		if d.coords[name] {
			o = append(o, name)
		}
	}
	return o
}

// DataVars returns the names of the variables that are not coordinates,
// in insertion order.
func (d *Dataset) DataVars() []string {
	var o []string
	for _, name := range d.order {
		if !d.coords[name] {
			o = append(o, name)
		}
	}
	return o
}

// AuxCoords returns the coordinates that do not index a dimension of their
// own but lie along the dimensions of the named variable. They are listed
// in the "coordinates" attribute when the dataset is encoded.
func (d *Dataset) AuxCoords(name string) []string {
	v, ok := d.vars[name]
	if !ok || d.coords[name] {
		return nil
	}
	has := make(map[string]bool)
	for _, dim := range v.Dims {
		has[dim] = true
	}
	var o []string
	for _, c := range d.Coords() {
		if d.HasDim(c) {
			continue
		}
		if has[d.vars[c].Dims[0]] {
			o = append(o, c)
		}
	}
	return o
}

// Validate checks that every variable's dimensions exist with matching
// sizes and that coordinates are well formed.
func (d *Dataset) Validate() error {
	for _, name := range d.order {
		v := d.vars[name]
		if err := v.check(); err != nil {
			return err
		}
		shape := v.Shape()
		for i, dim := range v.Dims {
			size, ok := d.dims[dim]
			if !ok {
				return &SchemaError{Variable: name, Dimension: dim, Msg: "dimension not defined"}
			}
			if size != shape[i] {
				return &SchemaError{Variable: name, Dimension: dim,
					Msg: fmt.Sprintf("variable has size %d but dimension has size %d", shape[i], size)}
			}
		}
	}
	for _, name := range d.Coords() {
		v := d.vars[name]
		if len(v.Dims) != 1 {
			return &SchemaError{Variable: name, Msg: "coordinate is not 1-D"}
		}
		if d.HasDim(name) && v.Dims[0] != name {
			return &SchemaError{Variable: name, Dimension: v.Dims[0],
				Msg: "index coordinate must be dimensioned by its own name"}
		}
	}
	return nil
}

// Freeze validates d and makes it read-only. Structural changes to a
// frozen Dataset fail with ErrFrozen.
func (d *Dataset) Freeze() error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.frozen = true
	return nil
}

// Frozen returns whether d has been frozen.
func (d *Dataset) Frozen() bool { return d.frozen }
