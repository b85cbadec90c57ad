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
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/nsrdb"
	"github.com/spatialmodel/nsrdb/zarr"
	"github.com/spf13/cast"
)

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		if v == "" {
			return make(map[string]string), nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("nsrdb: parsing %s: %v", varName, err)
		}
		return o, nil
	case nil:
		return make(map[string]string), nil
	default:
		return nil, fmt.Errorf("nsrdb: invalid type for %s: %#v", varName, i)
	}
}

// pipelineConfig returns the conversion settings.
func (cfg *Cfg) pipelineConfig() (nsrdb.Config, error) {
	c := nsrdb.Config{
		LocationDim: cfg.GetString("LocationDim"),
		MetaName:    cfg.GetString("MetaVariable"),
		Vocabulary:  nsrdb.DefaultVocabulary(),
		Log:         cfg.Log,
	}
	if f := cfg.GetString("VocabularyFile"); f != "" {
		v, err := nsrdb.LoadVocabulary(os.ExpandEnv(f))
		if err != nil {
			return c, err
		}
		c.Vocabulary.Merge(v)
	}
	return c, nil
}

// zarrOptions returns the settings of the zarr writer.
func (cfg *Cfg) zarrOptions() (zarr.Options, error) {
	m, err := GetStringMapString("Zarr.Chunks", cfg.Viper)
	if err != nil {
		return zarr.Options{}, err
	}
	o := zarr.Options{
		Chunks:     make(map[string]int, len(m)),
		Compressor: cfg.GetString("Zarr.Compressor"),
		Level:      cfg.GetInt("Zarr.Level"),
	}
	for dim, s := range m {
		n, err := cast.ToIntE(s)
		if err != nil {
			return o, fmt.Errorf("nsrdb: invalid chunk length %q for dimension %s", s, dim)
		}
		if n < 1 {
			return o, fmt.Errorf("nsrdb: chunk length for dimension %s must be positive; got %d", dim, n)
		}
		o.Chunks[dim] = n
	}
	switch o.Compressor {
	case zarr.Zstd, zarr.Zlib, zarr.None:
	default:
		return o, fmt.Errorf("nsrdb: invalid Zarr.Compressor %q; it must be one of %q, %q and %q",
			o.Compressor, zarr.Zstd, zarr.Zlib, zarr.None)
	}
	return o, nil
}

// checkInputFile expands environment variables in f and checks
// that it is set.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`nsrdb: you need to specify an input file configuration variable (for example: InputFile="nsrdb_2019.h5")`)
	}
	return os.ExpandEnv(f), nil
}

// checkOutputStore expands environment variables in f and checks
// that it is set.
func checkOutputStore(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`nsrdb: you need to specify an output store configuration variable (for example: OutputStore="nsrdb_2019.zarr")`)
	}
	return os.ExpandEnv(f), nil
}
