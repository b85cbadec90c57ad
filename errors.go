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
	"strings"
)

var (
	// ErrFrozen is returned when a frozen Dataset is modified.
	ErrFrozen = errors.New("nsrdb: dataset is frozen")

	// ErrNotFound is returned by a Container when a named object
	// does not exist.
	ErrNotFound = errors.New("nsrdb: object not found")
)

// SchemaError is returned when the structure of the input does not match
// the layout expected of an NSRDB file: a missing metadata block or
// time_index variable, a wrong number of dimensions, or a wrong element
// type. Schema errors are fatal.
type SchemaError struct {
	Variable  string
	Dimension string
	Attribute string
	Msg       string
}

func (e *SchemaError) Error() string {
	return "nsrdb: schema: " + withContext(e.Msg, e.Variable, e.Dimension, e.Attribute)
}

// ConversionError is returned when a value cannot be converted to its
// target representation, for example an unparseable timestamp.
type ConversionError struct {
	Variable string
	// Index is the flat index of the offending element.
	Index int
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("element %d (%q): %v", e.Index, e.Value, e.Err)
	return "nsrdb: conversion: " + withContext(msg, e.Variable, "", "")
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ConfigurationWarning describes an input that violates a naming
// convention without preventing processing. It is logged, never returned.
type ConfigurationWarning struct {
	Dimension string
	Msg       string
}

func (w *ConfigurationWarning) Error() string {
	return "nsrdb: configuration: " + withContext(w.Msg, "", w.Dimension, "")
}

func withContext(msg, variable, dim, attr string) string {
	var ctx []string
	if variable != "" {
		ctx = append(ctx, fmt.Sprintf("variable %q", variable))
	}
	if dim != "" {
		ctx = append(ctx, fmt.Sprintf("dimension %q", dim))
	}
	if attr != "" {
		ctx = append(ctx, fmt.Sprintf("attribute %q", attr))
	}
	if len(ctx) == 0 {
		return msg
	}
	return strings.Join(ctx, ", ") + ": " + msg
}
