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

// Command nsrdb is a command-line interface for normalizing
// National Solar Radiation Database files.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/nsrdb/nsrdbutil"
)

func main() {
	cfg := nsrdbutil.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
