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

// Package nsrdb normalizes National Solar Radiation Database (NSRDB) HDF5
// files into self-describing labeled datasets.
//
// NSRDB files do not store dimension names, pack their values with
// non-standard scale and offset conventions, and keep timestamps as
// strings. The functions in this package undo those quirks in a fixed
// order: the time axis is recovered from the time_index variable, the
// location axis is named and the per-site metadata block is attached as
// coordinates, every data variable is decoded, and finally variables are
// annotated from a controlled vocabulary. The result is a frozen Dataset
// that can be written with package zarr or with WriteNetCDF.
package nsrdb

// Version gives the version number.
const Version = "0.1.0"
