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

package zarr

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spatialmodel/nsrdb"
)

// TimeUnits are the units of time arrays.
const TimeUnits = "nanoseconds since 1970-01-01"

// ErrNotFrozen is returned when writing a Dataset that is not frozen.
var ErrNotFrozen = errors.New("zarr: dataset is not frozen")

// Options control how a Dataset is written.
type Options struct {
	// Chunks gives the chunk length along named dimensions. Dimensions
	// that are not listed, or listed with a length less than one,
	// are not split.
	Chunks map[string]int

	// Compressor is Zstd (the default), Zlib or None.
	Compressor string

	// Level is the compression level. Zero selects the default.
	Level int
}

// Write writes ds to s as a zarr group, replacing anything s holds.
// ds must be frozen.
func Write(ctx context.Context, ds *nsrdb.Dataset, s Store, opts Options) error {
	if !ds.Frozen() {
		return ErrNotFrozen
	}
	c, err := newCodec(opts.Compressor, opts.Level)
	if err != nil {
		return err
	}
	if err := s.Clear(ctx); err != nil {
		return fmt.Errorf("zarr: clearing store: %w", err)
	}

	consolidated := make(map[string]json.RawMessage)
	put := func(key string, v interface{}) error {
		b, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return fmt.Errorf("zarr: encoding %s: %v", key, err)
		}
		consolidated[key] = b
		return s.Put(ctx, key, b)
	}

	if err := put(".zgroup", GroupMetadata{ZarrFormat: 2}); err != nil {
		return err
	}
	if err := put(".zattrs", attrsJSON(ds.Attrs)); err != nil {
		return err
	}
	for _, name := range ds.Variables() {
		v, _ := ds.Variable(name)
		a, err := newArray(v, opts.Chunks, c)
		if err != nil {
			return err
		}
		attrs := attrsJSON(v.Attrs)
		for k, val := range a.attrs {
			if _, ok := attrs[k]; !ok || k == "units" {
				attrs[k] = val
			}
		}
		attrs["_ARRAY_DIMENSIONS"] = append([]string{}, v.Dims...)
		if aux := ds.AuxCoords(name); len(aux) > 0 {
			attrs["coordinates"] = strings.Join(aux, " ")
		}
		if err := put(name+"/.zarray", a.meta); err != nil {
			return err
		}
		if err := put(name+"/.zattrs", attrs); err != nil {
			return err
		}
		if err := a.writeChunks(ctx, s, name, c); err != nil {
			return fmt.Errorf("zarr: writing %s: %w", name, err)
		}
	}

	b, err := json.MarshalIndent(ConsolidatedMetadata{
		Metadata:               consolidated,
		ZarrConsolidatedFormat: 1,
	}, "", "    ")
	if err != nil {
		return fmt.Errorf("zarr: encoding .zmetadata: %v", err)
	}
	return s.Put(ctx, ".zmetadata", b)
}

func attrsJSON(a *nsrdb.Attributes) map[string]interface{} {
	o := make(map[string]interface{}, a.Len())
	for _, k := range a.Keys() {
		v, _ := a.Get(k)
		o[k] = jsonValue(v)
	}
	return o
}

// array holds the information needed to encode one variable.
type array struct {
	meta     *ArrayMetadata
	itemsize int

	// put encodes element i, in row-major order, into dst.
	put func(dst []byte, i int)

	// fill is the encoding of the fill value, used to pad edge chunks.
	fill []byte

	// attrs are attributes that describe the encoding.
	attrs map[string]interface{}
}

func newArray(v *nsrdb.Variable, chunks map[string]int, c codec) (*array, error) {
	shape := v.Shape()
	a := &array{
		meta: &ArrayMetadata{
			Chunks:             make([]int, len(shape)),
			Compressor:         c.config(),
			DimensionSeparator: ".",
			Order:              "C",
			Shape:              shape,
			ZarrFormat:         2,
		},
		attrs: make(map[string]interface{}),
	}
	for i, d := range v.Dims {
		n := chunks[d]
		if n < 1 || n > shape[i] {
			n = shape[i]
		}
		if n < 1 {
			n = 1
		}
		a.meta.Chunks[i] = n
	}

	switch v.Kind() {
	case nsrdb.Text:
		n := 1
		for _, s := range v.Text {
			if len(s) > n {
				n = len(s)
			}
		}
		a.meta.DType = fmt.Sprintf("|S%d", n)
		a.itemsize = n
		a.put = func(dst []byte, i int) {
			m := copy(dst, v.Text[i])
			for j := m; j < len(dst); j++ {
				dst[j] = 0
			}
		}
		a.attrs["_Encoding"] = "utf-8"
	case nsrdb.Temporal:
		a.meta.DType = "<i8"
		a.itemsize = 8
		a.put = func(dst []byte, i int) {
			binary.LittleEndian.PutUint64(dst, uint64(v.Times[i].UnixNano()))
		}
		a.attrs["units"] = TimeUnits
		a.attrs["calendar"] = "proleptic_gregorian"
	default:
		if err := a.numeric(v); err != nil {
			return nil, err
		}
	}
	if a.fill == nil {
		a.fill = make([]byte, a.itemsize)
	}
	return a, nil
}

// numeric sets the encoding of a numeric variable. Variables with
// missing values are always written as 64-bit floats.
func (a *array) numeric(v *nsrdb.Variable) error {
	if v.Data == nil {
		return fmt.Errorf("zarr: variable %s has no data", v.Name)
	}
	e := v.Data.Elements
	le := binary.LittleEndian
	dtype := v.DType
	if v.HasMissing() {
		dtype = "float64"
	}
	switch dtype {
	case "int8":
		a.meta.DType, a.itemsize = "|i1", 1
		a.put = func(dst []byte, i int) { dst[0] = byte(int8(e[i])) }
	case "uint8":
		a.meta.DType, a.itemsize = "|u1", 1
		a.put = func(dst []byte, i int) { dst[0] = uint8(e[i]) }
	case "int16":
		a.meta.DType, a.itemsize = "<i2", 2
		a.put = func(dst []byte, i int) { le.PutUint16(dst, uint16(int16(e[i]))) }
	case "uint16":
		a.meta.DType, a.itemsize = "<u2", 2
		a.put = func(dst []byte, i int) { le.PutUint16(dst, uint16(e[i])) }
	case "int32":
		a.meta.DType, a.itemsize = "<i4", 4
		a.put = func(dst []byte, i int) { le.PutUint32(dst, uint32(int32(e[i]))) }
	case "uint32":
		a.meta.DType, a.itemsize = "<u4", 4
		a.put = func(dst []byte, i int) { le.PutUint32(dst, uint32(e[i])) }
	case "int64":
		a.meta.DType, a.itemsize = "<i8", 8
		a.put = func(dst []byte, i int) { le.PutUint64(dst, uint64(int64(e[i]))) }
	case "uint64":
		a.meta.DType, a.itemsize = "<u8", 8
		a.put = func(dst []byte, i int) { le.PutUint64(dst, uint64(e[i])) }
	case "float32":
		a.meta.DType, a.itemsize = "<f4", 4
		a.put = func(dst []byte, i int) { le.PutUint32(dst, math.Float32bits(float32(e[i]))) }
		a.meta.FillValue = "NaN"
		a.fill = make([]byte, 4)
		le.PutUint32(a.fill, math.Float32bits(float32(math.NaN())))
	default:
		a.meta.DType, a.itemsize = "<f8", 8
		a.put = func(dst []byte, i int) { le.PutUint64(dst, math.Float64bits(e[i])) }
		a.meta.FillValue = "NaN"
		a.fill = make([]byte, 8)
		le.PutUint64(a.fill, math.Float64bits(math.NaN()))
	}
	return nil
}

// writeChunks encodes the chunks of a in row-major chunk order and puts
// them in s under name.
func (a *array) writeChunks(ctx context.Context, s Store, name string, c codec) error {
	shape, chunks := a.meta.Shape, a.meta.Chunks
	rank := len(shape)
	grid := make([]int, rank)
	nChunks, chunkLen := 1, 1
	for i := range shape {
		grid[i] = (shape[i] + chunks[i] - 1) / chunks[i]
		nChunks *= grid[i]
		chunkLen *= chunks[i]
	}
	strides := make([]int, rank)
	stride := 1
	for i := rank - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	buf := make([]byte, chunkLen*a.itemsize)
	ci := make([]int, rank)
	for k := 0; k < nChunks; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		unravel(k, grid, ci)
		for e := 0; e < chunkLen; e++ {
			dst := buf[e*a.itemsize : (e+1)*a.itemsize]
			flat, inside := 0, true
			rem := e
			for i := rank - 1; i >= 0; i-- {
				g := ci[i]*chunks[i] + rem%chunks[i]
				rem /= chunks[i]
				if g >= shape[i] {
					inside = false
					break
				}
				flat += g * strides[i]
			}
			if inside {
				a.put(dst, flat)
			} else {
				copy(dst, a.fill)
			}
		}
		b, err := c.encode(buf)
		if err != nil {
			return err
		}
		if err := s.Put(ctx, name+"/"+chunkKey(ci), b); err != nil {
			return err
		}
	}
	return nil
}

// unravel sets idx to the row-major multi-index of k in a grid of
// the given shape.
func unravel(k int, shape, idx []int) {
	for i := len(shape) - 1; i >= 0; i-- {
		idx[i] = k % shape[i]
		k /= shape[i]
	}
}

func chunkKey(idx []int) string {
	if len(idx) == 0 {
		return "0"
	}
	s := make([]string, len(idx))
	for i, v := range idx {
		s[i] = fmt.Sprint(v)
	}
	return strings.Join(s, ".")
}
