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

package nsrdbutil

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/nsrdb"
	"github.com/spatialmodel/nsrdb/zarr"
)

// convert runs the convert command.
func (cfg *Cfg) convert() error {
	ctx := context.Background()
	input, err := checkInputFile(cfg.GetString("InputFile"))
	if err != nil {
		return err
	}
	output, err := checkOutputStore(cfg.GetString("OutputStore"))
	if err != nil {
		return err
	}
	pc, err := cfg.pipelineConfig()
	if err != nil {
		return err
	}
	zo, err := cfg.zarrOptions()
	if err != nil {
		return err
	}

	ds, err := cfg.read(input, pc, false)
	if err != nil {
		return err
	}

	s, err := zarr.OpenStore(ctx, output)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := zarr.Write(ctx, ds, s, zo); err != nil {
		return err
	}
	if cfg.GetBool("Zarr.Verify") {
		if err := zarr.Verify(ctx, ds, s); err != nil {
			return fmt.Errorf("nsrdb: verifying %s: %w", output, err)
		}
	}
	id, _ := ds.Attrs.Get("id")
	cfg.Log.WithFields(logrus.Fields{
		"output":    output,
		"variables": len(ds.Variables()),
		"id":        id,
	}).Info("nsrdb: wrote zarr store")

	if nc := cfg.GetString("NetCDFFile"); nc != "" {
		nc = os.ExpandEnv(nc)
		if err := writeNetCDF(ds, nc); err != nil {
			return err
		}
		cfg.Log.WithField("output", nc).Info("nsrdb: wrote netcdf file")
	}
	return nil
}

// read opens input and returns its contents, normalized and stamped
// unless raw is true.
func (cfg *Cfg) read(input string, pc nsrdb.Config, raw bool) (ds *nsrdb.Dataset, err error) {
	c, err := cfg.Open(input)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("nsrdb: closing %s: %w", input, cerr)
		}
	}()
	cfg.Log.WithField("input", input).Info("nsrdb: reading")
	if raw {
		return c.Dataset()
	}
	ds, err = nsrdb.ConvertContainer(c, pc)
	if err != nil {
		return nil, err
	}
	nsrdb.Stamp(ds, input, pc.Vocabulary)
	return ds, nil
}

func writeNetCDF(ds *nsrdb.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nsrdb: creating netcdf file: %w", err)
	}
	if err := nsrdb.WriteNetCDF(ds, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// inspect runs the inspect command.
func (cfg *Cfg) inspect(w io.Writer) error {
	input, err := checkInputFile(cfg.GetString("InputFile"))
	if err != nil {
		return err
	}
	pc, err := cfg.pipelineConfig()
	if err != nil {
		return err
	}
	ds, err := cfg.read(input, pc, cfg.GetBool("raw"))
	if err != nil {
		return err
	}
	for _, k := range ds.Attrs.Keys() {
		v, _ := ds.Attrs.Get(k)
		fmt.Fprintf(w, "%s: %v\n", k, v)
	}
	if ds.Attrs.Len() > 0 {
		fmt.Fprintln(w)
	}
	return nsrdb.WriteSummary(w, nsrdb.Summarize(ds))
}
