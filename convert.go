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
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/nsrdb/internal/hash"
)

// Config holds the settings of a conversion. The zero value
// converts a standard NSRDB file.
type Config struct {
	// LocationDim is the name given to the sample axis.
	// The default is "location".
	LocationDim string

	// MetaName is the name of the metadata record block.
	// The default is "meta".
	MetaName string

	// Vocabulary holds the attributes added to variables by name.
	// The default is DefaultVocabulary().
	Vocabulary Vocabulary

	// Log receives progress messages and warnings.
	// The default is the logrus standard logger.
	Log logrus.FieldLogger
}

func (c Config) withDefaults() Config {
	if c.LocationDim == "" {
		c.LocationDim = "location"
	}
	if c.MetaName == "" {
		c.MetaName = "meta"
	}
	if c.Vocabulary == nil {
		c.Vocabulary = DefaultVocabulary()
	}
	if c.Log == nil {
		c.Log = logrus.StandardLogger()
	}
	return c
}

// Convert reads the NSRDB HDF5 file at path and returns the normalized,
// frozen Dataset, stamped with its provenance. The file is closed
// before Convert returns.
func Convert(path string, cfg Config) (ds *Dataset, err error) {
	c, err := OpenHDF5(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("nsrdb: closing %s: %w", path, cerr)
		}
	}()
	ds, err = ConvertContainer(c, cfg)
	if err != nil {
		return nil, err
	}
	Stamp(ds, path, cfg.Vocabulary)
	return ds, nil
}

// ConvertContainer normalizes the contents of c. The steps are, in order:
// FixTime; FixLocation and the addition of the metadata fields as
// coordinates; FixVariable for every data variable; and Annotate.
// The resulting Dataset is validated and frozen.
// c is not closed.
func ConvertContainer(c Container, cfg Config) (*Dataset, error) {
	cfg = cfg.withDefaults()
	log := cfg.Log

	ds, err := c.Dataset()
	if err != nil {
		return nil, err
	}
	log.WithField("variables", len(ds.Variables())).Debug("nsrdb: read raw dataset")

	if err := FixTime(ds, log); err != nil {
		return nil, err
	}

	next, err := ExtractMeta(c, cfg.MetaName, cfg.LocationDim)
	if err != nil {
		return nil, err
	}
	var meta []*Variable
	for {
		v, err := next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		meta = append(meta, v)
	}
	if err := FixLocation(ds, cfg.LocationDim, meta[0].Len(), log); err != nil {
		return nil, err
	}
	for _, v := range meta {
		if err := ds.AddVariable(v); err != nil {
			return nil, err
		}
		if err := ds.SetCoords(v.Name); err != nil {
			return nil, err
		}
		log.WithField("variable", v.Name).Debug("nsrdb: added metadata coordinate")
	}

	for _, name := range ds.DataVars() {
		v, _ := ds.Variable(name)
		fixed, err := FixVariable(v)
		if err != nil {
			return nil, err
		}
		if err := ds.AddVariable(fixed); err != nil {
			return nil, err
		}
		log.WithField("variable", name).Debug("nsrdb: decoded variable")
	}

	annotated := Annotate(ds, cfg.Vocabulary)
	log.WithField("variables", annotated).Debug("nsrdb: annotated variables")

	if err := ds.Freeze(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Stamp sets the provenance attributes of ds: the base name of the source
// file, the conventions followed, a fingerprint of the vocabulary and an
// id derived from both, so that converting the same file with the same
// vocabulary always gives the same id. Global attributes may be set on a
// frozen Dataset.
func Stamp(ds *Dataset, source string, vocab Vocabulary) {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	base := filepath.Base(source)
	vh := hash.Hash(vocab)
	ds.Attrs.Set("source", base)
	ds.Attrs.Set("Conventions", "CF-1.8")
	ds.Attrs.Set("vocabulary_hash", vh)
	ds.Attrs.Set("id", uuid.NewSHA1(uuid.NameSpaceURL, []byte("nsrdb:"+base+"#"+vh)).String())
}
