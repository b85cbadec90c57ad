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
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// TimeIndex is the name of the variable holding the timestamps
	// as text in NSRDB files.
	TimeIndex = "time_index"

	// TimeDim is the name of the time dimension and coordinate.
	TimeDim = "time"
)

// timeLayouts are tried in order by ParseTimestamp. Layouts without a
// zone are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Instants outside this range have no int64 nanosecond encoding.
var (
	minTime = time.Unix(0, math.MinInt64).UTC()
	maxTime = time.Unix(0, math.MaxInt64).UTC()
)

// ParseTimestamp parses an ISO 8601 style calendar timestamp.
// Fractional seconds and NUL padding are accepted. The result is in UTC.
// Timestamps that cannot be stored as int64 nanoseconds since the Unix
// epoch, before 1677-09-21 or after 2262-04-11, are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Before(minTime) || t.After(maxTime) {
				return time.Time{}, fmt.Errorf("timestamp %s is outside the range %s to %s",
					s, minTime.Format(time.RFC3339), maxTime.Format(time.RFC3339))
			}
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FixTime replaces the time_index variable of ds with a time coordinate.
// The dimension of time_index is renamed to "time" and the timestamps
// are parsed into a new variable called "time".
//
// ds is not modified if an error is returned. A SchemaError is returned
// if time_index is missing, is not 1-D, is not text, or if ds already
// has a variable or dimension called time. A ConversionError is returned
// for the first timestamp that cannot be parsed. If the dimension of
// time_index does not have a placeholder name a ConfigurationWarning
// is logged to log.
func FixTime(ds *Dataset, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	v, ok := ds.Variable(TimeIndex)
	if !ok {
		return &SchemaError{Variable: TimeIndex, Msg: "variable not found"}
	}
	if len(v.Dims) != 1 {
		return &SchemaError{Variable: TimeIndex,
			Msg: fmt.Sprintf("expected 1 dimension, got %d", len(v.Dims))}
	}
	dim := v.Dims[0]
	if !IsPlaceholder(dim) {
		w := &ConfigurationWarning{Dimension: dim,
			Msg: "time dimension does not have a placeholder name; the file may not have the expected layout"}
		log.WithFields(logrus.Fields{
			"dimension":        dim,
			"expected_pattern": PlaceholderPattern.String(),
		}).Warn(w.Error())
	}
	if ds.Has(TimeDim) {
		return &SchemaError{Variable: TimeDim, Msg: "dataset already has a time variable"}
	}
	if ds.HasDim(TimeDim) {
		return &SchemaError{Dimension: TimeDim, Msg: "dataset already has a time dimension"}
	}
	if v.Kind() != Text {
		return &SchemaError{Variable: TimeIndex, Dimension: dim,
			Msg: fmt.Sprintf("expected text values, got %s (%s)", v.Kind(), v.DType)}
	}

	times := make([]time.Time, len(v.Text))
	for i, s := range v.Text {
		t, err := ParseTimestamp(s)
		if err != nil {
			return &ConversionError{Variable: TimeIndex, Index: i, Value: s, Err: err}
		}
		times[i] = t
	}

	if err := ds.RenameDim(dim, TimeDim); err != nil {
		return err
	}
	if err := ds.AddVariable(NewTimeVariable(TimeDim, TimeDim, times)); err != nil {
		return err
	}
	if err := ds.SetCoords(TimeDim); err != nil {
		return err
	}
	if err := ds.DropVariable(TimeIndex); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"dimension": dim,
		"steps":     len(times),
	}).Debug("nsrdb: created time coordinate")
	return nil
}
