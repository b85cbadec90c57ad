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
	"regexp"
)

// Container is an open source file holding NSRDB data.
type Container interface {
	// Dataset reads every array variable in the container, without
	// decoding, into a new Dataset. Since the source does not store
	// dimension names, dimensions get placeholder names.
	// Record blocks are not included.
	Dataset() (*Dataset, error)

	// Records returns the named record block. It returns an error
	// wrapping ErrNotFound if there is no such block.
	Records(name string) (RecordBlock, error)

	Close() error
}

// RecordBlock is a one-dimensional table with one row per element of
// a sample axis and named fields.
type RecordBlock interface {
	// Len returns the number of rows.
	Len() int

	// Fields returns the field names in declaration order.
	Fields() []string

	// Field returns the values of the named field.
	Field(name string) (Column, error)
}

// Column holds the values of one RecordBlock field. Numeric fields
// use Values and text fields use Text.
type Column struct {
	DType  string
	Values []float64
	Text   []string
}

// PlaceholderPattern matches the dimension names assigned by
// PlaceholderNamer.
var PlaceholderPattern = regexp.MustCompile(`^phony_dim_\d+$`)

// IsPlaceholder returns whether dim is a placeholder dimension name.
func IsPlaceholder(dim string) bool {
	return PlaceholderPattern.MatchString(dim)
}

// PlaceholderNamer assigns names to the unnamed axes of the arrays in a
// container. Axes of equal size share a name, except that an array with
// several axes of the same size gets a distinct name for each of them.
// Names are numbered in the order they are first needed, so arrays must
// be presented in a stable order.
type PlaceholderNamer struct {
	bySize map[int][]string
	n      int
}

// NewPlaceholderNamer returns a namer that starts at phony_dim_0.
func NewPlaceholderNamer() *PlaceholderNamer {
	return &PlaceholderNamer{bySize: make(map[int][]string)}
}

// Dims returns the dimension names for an array with the given shape.
func (p *PlaceholderNamer) Dims(shape []int) []string {
	dims := make([]string, len(shape))
	used := make(map[int]int)
	for i, s := range shape {
		k := used[s]
		used[s]++
		names := p.bySize[s]
		if k >= len(names) {
			names = append(names, fmt.Sprintf("phony_dim_%d", p.n))
			p.n++
			p.bySize[s] = names
		}
		dims[i] = names[k]
	}
	return dims
}
