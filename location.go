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
	"strings"

	"github.com/sirupsen/logrus"
)

// FixLocation names the sample axis of ds. The placeholder dimension
// with the given size, which is the number of rows in the metadata block,
// is renamed to dim.
//
// Nothing is done if ds already has dim. If no placeholder dimension has
// the right size a ConfigurationWarning is logged and ds is left as is;
// if several do, the axis is ambiguous and a SchemaError is returned.
func FixLocation(ds *Dataset, dim string, size int, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if ds.HasDim(dim) {
		return nil
	}
	var candidates []string
	for _, d := range ds.Dims() {
		if s, _ := ds.DimSize(d); s == size && IsPlaceholder(d) {
			candidates = append(candidates, d)
		}
	}
	switch len(candidates) {
	case 0:
		w := &ConfigurationWarning{Dimension: dim,
			Msg: fmt.Sprintf("no placeholder dimension of size %d", size)}
		log.WithFields(logrus.Fields{
			"dimension": dim,
			"size":      size,
		}).Warn(w.Error())
		return nil
	case 1:
		log.WithFields(logrus.Fields{
			"from": candidates[0],
			"to":   dim,
		}).Debug("nsrdb: renaming location dimension")
		return ds.RenameDim(candidates[0], dim)
	default:
		return &SchemaError{Dimension: dim,
			Msg: fmt.Sprintf("placeholder dimensions %s all have size %d", strings.Join(candidates, ", "), size)}
	}
}
