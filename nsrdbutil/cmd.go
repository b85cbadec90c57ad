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

// Package nsrdbutil holds the command-line interface of nsrdb.
package nsrdbutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/nsrdb"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	Root, versionCmd, convertCmd, inspectCmd *cobra.Command

	// Open opens the input file. The default is nsrdb.OpenHDF5.
	Open func(path string) (nsrdb.Container, error)

	// Log receives progress messages. Its level is set from the
	// LogLevel option before each command runs.
	Log *logrus.Logger

	options []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}
}

// InitializeConfig creates the command tree and binds its flags
// to a new configuration.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Open:  nsrdb.OpenHDF5,
		Log:   logrus.New(),
	}
	cfg.Log.Out = os.Stderr
	cfg.Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}

	cfg.Root = &cobra.Command{
		Use:   "nsrdb",
		Short: "Normalize NSRDB solar resource files.",
		Long: `nsrdb converts files from the National Solar Radiation Database (NSRDB)
into self-describing, analysis-ready datasets. Use the subcommands specified
below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NSRDB_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'. File paths are
additionally allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of nsrdb.",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("nsrdb v%s\n", nsrdb.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Convert an NSRDB file to a zarr store.",
		Long: `convert reads the NSRDB HDF5 file given by InputFile, normalizes it, and
writes it as a zarr store with consolidated metadata to OutputStore, replacing
anything already there. OutputStore can be a local directory or a bucket
address such as 's3://bucket/path' or 'gs://bucket/path'. If NetCDFFile is
set, a netCDF copy of the normalized dataset is also written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.convert()
		},
		DisableAutoGenTag: true,
	}

	cfg.inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the contents of an NSRDB file.",
		Long: `inspect prints a table describing every variable of the NSRDB file
given by InputFile after normalization, or as stored if --raw is set.
Coordinates are marked with '*'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.inspect(cmd.OutOrStdout())
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.versionCmd)
	cfg.Root.AddCommand(cfg.convertCmd)
	cfg.Root.AddCommand(cfg.inspectCmd)

	// Options are the configuration options available to nsrdb.
	cfg.options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of the log messages that are
              printed: one of 'debug', 'info', 'warning' and 'error'.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the NSRDB HDF5 file. It can include
              environment variables.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "OutputStore",
			usage: `
              OutputStore is the location the zarr store is written to: a local
              directory or a bucket address in the format 'provider://bucket/path',
              where provider is one of 'file', 'gs' and 's3'. It can include
              environment variables.`,
			shorthand:  "o",
			defaultVal: "nsrdb.zarr",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "NetCDFFile",
			usage: `
              NetCDFFile is the path to an optional netCDF copy of the normalized
              dataset. If it is left blank, no netCDF file is written. It can
              include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "LocationDim",
			usage: `
              LocationDim is the name given to the dimension along which the
              sites in the file are arranged.`,
			defaultVal: "location",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "MetaVariable",
			usage: `
              MetaVariable is the name of the record-structured dataset holding
              one record of site metadata per location.`,
			defaultVal: "meta",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "VocabularyFile",
			usage: `
              VocabularyFile is the path to an optional TOML file of variable
              attributes, keyed by variable name, that are added to or replace
              the built-in vocabulary. It can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags(), cfg.inspectCmd.Flags()},
		},
		{
			name: "Zarr.Chunks",
			usage: `
              Zarr.Chunks gives the chunk length along each named dimension.
              Dimensions that are not listed are not split.`,
			defaultVal: map[string]string{
				"time":     "1000",
				"location": "1000",
			},
			flagsets: []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Zarr.Compressor",
			usage: `
              Zarr.Compressor is the codec chunks are compressed with: one of
              'zstd', 'zlib' and 'none'.`,
			defaultVal: "zstd",
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Zarr.Level",
			usage: `
              Zarr.Level is the compression level.`,
			defaultVal: 3,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "Zarr.Verify",
			usage: `
              If Zarr.Verify is true, the store is read back after it is written
              to check that every variable and chunk is present.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{cfg.convertCmd.Flags()},
		},
		{
			name: "raw",
			usage: `
              raw specifies whether to describe the file as stored, without
              normalizing it.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.inspectCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("NSRDB")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	for _, option := range cfg.options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := strings.TrimSpace(b.String())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
		}
		cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}
	return cfg
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the logging level.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("nsrdb: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("nsrdb: invalid LogLevel: %v", err)
	}
	cfg.Log.Level = lvl
	return nil
}
