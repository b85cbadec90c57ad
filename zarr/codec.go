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
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compressor IDs.
const (
	Zstd = "zstd"
	Zlib = "zlib"
	None = "none"
)

type codec interface {
	// config returns the compressor entry of the array metadata,
	// which is nil for uncompressed arrays.
	config() *Compressor
	encode(src []byte) ([]byte, error)
	decode(src []byte) ([]byte, error)
}

// newCodec returns the codec with the given id. A level of zero selects
// the codec's default level.
func newCodec(id string, level int) (codec, error) {
	switch id {
	case Zstd, "":
		if level == 0 {
			level = 3
		}
		return &zstdCodec{level: level}, nil
	case Zlib:
		if level == 0 {
			level = 6
		}
		if level < zlib.BestSpeed || level > zlib.BestCompression {
			return nil, fmt.Errorf("zarr: invalid zlib level %d", level)
		}
		return zlibCodec(level), nil
	case None:
		return noCodec{}, nil
	}
	return nil, fmt.Errorf("zarr: unsupported compressor %q", id)
}

// codecFor returns the codec that decodes chunks compressed as c.
func codecFor(c *Compressor) (codec, error) {
	if c == nil {
		return noCodec{}, nil
	}
	if c.ID == None {
		return nil, fmt.Errorf("zarr: unsupported compressor %q", c.ID)
	}
	return newCodec(c.ID, c.Level)
}

type zstdCodec struct {
	level int
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

func (z *zstdCodec) config() *Compressor { return &Compressor{ID: Zstd, Level: z.level} }

func (z *zstdCodec) encode(src []byte) ([]byte, error) {
	if z.enc == nil {
		var err error
		z.enc, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(z.level)))
		if err != nil {
			return nil, err
		}
	}
	return z.enc.EncodeAll(src, nil), nil
}

func (z *zstdCodec) decode(src []byte) ([]byte, error) {
	if z.dec == nil {
		var err error
		z.dec, err = zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
	}
	return z.dec.DecodeAll(src, nil)
}

type zlibCodec int

func (z zlibCodec) config() *Compressor { return &Compressor{ID: Zlib, Level: int(z)} }

func (z zlibCodec) encode(src []byte) ([]byte, error) {
	var b bytes.Buffer
	w, err := zlib.NewWriterLevel(&b, int(z))
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(src); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (z zlibCodec) decode(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

type noCodec struct{}

func (noCodec) config() *Compressor               { return nil }
func (noCodec) encode(src []byte) ([]byte, error) { return append([]byte(nil), src...), nil }
func (noCodec) decode(src []byte) ([]byte, error) { return src, nil }
