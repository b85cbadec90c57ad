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
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spatialmodel/nsrdb"
)

// ReadConsolidated returns the consolidated metadata of the group in s.
func ReadConsolidated(ctx context.Context, s Store) (*ConsolidatedMetadata, error) {
	b, err := s.Get(ctx, ".zmetadata")
	if err != nil {
		return nil, err
	}
	m := new(ConsolidatedMetadata)
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("zarr: decoding .zmetadata: %v", err)
	}
	if m.ZarrConsolidatedFormat != 1 {
		return nil, fmt.Errorf("zarr: unsupported consolidated format %d", m.ZarrConsolidatedFormat)
	}
	return m, nil
}

// ReadChunk returns the uncompressed bytes of the chunk of the named
// array at chunk index idx.
func ReadChunk(ctx context.Context, s Store, name string, meta *ArrayMetadata, idx ...int) ([]byte, error) {
	if len(idx) != len(meta.Shape) {
		return nil, fmt.Errorf("zarr: chunk index %v has rank %d; array %s has rank %d", idx, len(idx), name, len(meta.Shape))
	}
	c, err := codecFor(meta.Compressor)
	if err != nil {
		return nil, err
	}
	b, err := s.Get(ctx, name+"/"+chunkKey(idx))
	if err != nil {
		return nil, err
	}
	return c.decode(b)
}

// Verify checks that the group in s holds every variable of ds with the
// same dimensions and shape, and that every chunk is present.
func Verify(ctx context.Context, ds *nsrdb.Dataset, s Store) error {
	m, err := ReadConsolidated(ctx, s)
	if err != nil {
		return err
	}
	for _, name := range ds.Variables() {
		v, _ := ds.Variable(name)
		a, err := m.Array(name)
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(a.Shape, v.Shape()) && !(len(a.Shape) == 0 && len(v.Shape()) == 0) {
			return fmt.Errorf("zarr: array %s has shape %v; want %v", name, a.Shape, v.Shape())
		}
		attrs, err := m.Attrs(name)
		if err != nil {
			return err
		}
		if got := fmt.Sprint(attrs["_ARRAY_DIMENSIONS"]); got != fmt.Sprint(v.Dims) {
			return fmt.Errorf("zarr: array %s has dimensions %s; want %v", name, got, v.Dims)
		}
		grid := make([]int, len(a.Shape))
		n := 1
		for i := range a.Shape {
			grid[i] = (a.Shape[i] + a.Chunks[i] - 1) / a.Chunks[i]
			n *= grid[i]
		}
		idx := make([]int, len(grid))
		for k := 0; k < n; k++ {
			unravel(k, grid, idx)
			if _, err := s.Get(ctx, name+"/"+chunkKey(idx)); err != nil {
				return fmt.Errorf("zarr: array %s: %w", name, err)
			}
		}
	}
	return nil
}
