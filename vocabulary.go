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
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Vocabulary maps a variable name prefix to the attributes given to
// every variable whose name starts with that prefix.
type Vocabulary map[string]map[string]interface{}

// DefaultVocabulary returns the standard attributes of the NSRDB
// variables. The returned value may be modified freely.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"time": {
			"long_name": "time",
			"calendar":  "proleptic_gregorian",
		},
		"latitude": {
			"standard_name": "latitude",
			"units":         "degree_north",
		},
		"longitude": {
			"standard_name": "longitude",
			"units":         "degree_east",
		},
		"temperature": {
			"standard_name": "air_temperature",
			"units":         "C",
		},
		"windspeed": {
			"standard_name": "wind_speed",
			"units":         "m s-1",
		},
		"winddirection": {
			"standard_name": "wind_to_direction",
			"units":         "degree",
		},
		"pressure": {
			"standard_name": "air_pressure",
			"units":         "Pa",
		},
		"relativehumidity": {
			"standard_name": "relative_humidity",
			"units":         1,
		},
	}
}

// LoadVocabulary reads a vocabulary from a TOML file with one table per
// prefix, for example:
//
//	[temperature]
//	standard_name = "air_temperature"
//	units = "C"
func LoadVocabulary(path string) (Vocabulary, error) {
	v := make(Vocabulary)
	if _, err := toml.DecodeFile(os.ExpandEnv(path), &v); err != nil {
		return nil, fmt.Errorf("nsrdb: reading vocabulary file: %w", err)
	}
	return v, nil
}

// Merge copies the entries of o into v, replacing entries with the
// same prefix.
func (v Vocabulary) Merge(o Vocabulary) {
	for k, attrs := range o {
		v[k] = attrs
	}
}

// VocabularyKey returns the part of name before the first underscore.
func VocabularyKey(name string) string {
	if i := strings.Index(name, "_"); i >= 0 {
		return name[:i]
	}
	return name
}

// Annotate copies vocabulary attributes onto the matching variables of ds,
// coordinates included, overwriting existing attributes of the same name.
// Variables without an entry are left alone. The names of the annotated
// variables are returned.
func Annotate(ds *Dataset, vocab Vocabulary) []string {
	var annotated []string
	for _, name := range ds.Variables() {
		entry, ok := vocab[VocabularyKey(name)]
		if !ok {
			continue
		}
		v, _ := ds.Variable(name)
		keys := make([]string, 0, len(entry))
		for k := range entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v.Attrs.Set(k, entry[k])
		}
		annotated = append(annotated, name)
	}
	return annotated
}
