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

// Package zarr writes Datasets as zarr version 2 groups with
// consolidated metadata.
package zarr

import (
	"encoding/json"
	"fmt"
	"math"
)

// ArrayMetadata is the content of a .zarray key.
type ArrayMetadata struct {
	Chunks             []int       `json:"chunks"`
	Compressor         *Compressor `json:"compressor"`
	DimensionSeparator string      `json:"dimension_separator"`
	DType              string      `json:"dtype"`
	FillValue          interface{} `json:"fill_value"`
	Filters            interface{} `json:"filters"`
	Order              string      `json:"order"`
	Shape              []int       `json:"shape"`
	ZarrFormat         int         `json:"zarr_format"`
}

// Compressor names the codec that chunks are compressed with.
type Compressor struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// GroupMetadata is the content of a .zgroup key.
type GroupMetadata struct {
	ZarrFormat int `json:"zarr_format"`
}

// ConsolidatedMetadata is the content of the .zmetadata key: the
// metadata of the group and of all of its arrays, keyed as in the store.
type ConsolidatedMetadata struct {
	Metadata               map[string]json.RawMessage `json:"metadata"`
	ZarrConsolidatedFormat int                        `json:"zarr_consolidated_format"`
}

// Array returns the metadata of the named array.
func (m *ConsolidatedMetadata) Array(name string) (*ArrayMetadata, error) {
	b, ok := m.Metadata[name+"/.zarray"]
	if !ok {
		return nil, fmt.Errorf("zarr: no array named %q", name)
	}
	a := new(ArrayMetadata)
	if err := json.Unmarshal(b, a); err != nil {
		return nil, fmt.Errorf("zarr: decoding metadata of %q: %v", name, err)
	}
	return a, nil
}

// Attrs returns the attributes of the named array, or of the group
// if name is empty.
func (m *ConsolidatedMetadata) Attrs(name string) (map[string]interface{}, error) {
	key := ".zattrs"
	if name != "" {
		key = name + "/" + key
	}
	b, ok := m.Metadata[key]
	if !ok {
		return nil, fmt.Errorf("zarr: no attributes for %q", name)
	}
	var a map[string]interface{}
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("zarr: decoding attributes of %q: %v", name, err)
	}
	return a, nil
}

// jsonValue returns v in a form that encoding/json accepts. Non-finite
// floats become the strings zarr uses for them.
func jsonValue(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		return jsonFloat(t)
	case float32:
		return jsonFloat(float64(t))
	case []float64:
		o := make([]interface{}, len(t))
		for i, f := range t {
			o[i] = jsonFloat(f)
		}
		return o
	case []float32:
		o := make([]interface{}, len(t))
		for i, f := range t {
			o[i] = jsonFloat(float64(f))
		}
		return o
	}
	return v
}

func jsonFloat(f float64) interface{} {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return f
}
