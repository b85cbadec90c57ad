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
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/nsrdb/cloud"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// ErrKeyNotFound is returned by Store.Get when a key is absent.
var ErrKeyNotFound = errors.New("zarr: key not found")

// Store is a key-value store that holds a zarr group. Keys are
// slash-separated paths relative to the group root.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error

	// Clear removes everything in the store.
	Clear(ctx context.Context) error

	Close() error
}

// OpenStore opens the store at location, which is either a bucket
// address accepted by cloud.OpenBucket or a local directory path.
func OpenStore(ctx context.Context, location string) (Store, error) {
	if !cloud.IsBlob(location) {
		return &DirStore{Root: location}, nil
	}
	b, prefix, err := cloud.OpenBucket(ctx, location)
	if err != nil {
		return nil, err
	}
	return &BucketStore{Bucket: b, Prefix: prefix}, nil
}

// DirStore stores a group in a directory of the local filesystem,
// one file per key.
type DirStore struct {
	Root string
}

func (d *DirStore) path(key string) string {
	return filepath.Join(d.Root, filepath.FromSlash(key))
}

// Get implements Store.
func (d *DirStore) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(d.path(key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return b, err
}

// Put implements Store.
func (d *DirStore) Put(_ context.Context, key string, value []byte) error {
	p := d.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, value, 0644)
}

// Clear removes the store directory and creates it again empty.
// It refuses to remove a directory that is not empty and does not
// hold a zarr group or array.
func (d *DirStore) Clear(_ context.Context) error {
	root := filepath.Clean(d.Root)
	if d.Root == "" || root == "/" || root == "." {
		return fmt.Errorf("zarr: refusing to clear store directory %q", d.Root)
	}
	fi, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(root, 0755)
	case err != nil:
		return err
	case !fi.IsDir():
		return fmt.Errorf("zarr: store location %s is not a directory", root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	if len(entries) > 0 && !isZarrDir(root) {
		return fmt.Errorf("zarr: refusing to clear %s: it is not empty and holds no zarr metadata", root)
	}
	if err := os.RemoveAll(root); err != nil {
		return err
	}
	return os.MkdirAll(root, 0755)
}

func isZarrDir(dir string) bool {
	for _, k := range []string{".zgroup", ".zarray"} {
		if _, err := os.Stat(filepath.Join(dir, k)); err == nil {
			return true
		}
	}
	return false
}

// Close implements Store.
func (d *DirStore) Close() error { return nil }

// BucketStore stores a group in a blob storage bucket, under Prefix.
type BucketStore struct {
	Bucket *blob.Bucket
	Prefix string
}

func (b *BucketStore) key(key string) string {
	if b.Prefix == "" {
		return key
	}
	return path.Join(b.Prefix, key)
}

// Get implements Store.
func (b *BucketStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.Bucket.ReadAll(ctx, b.key(key))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, err
}

// Put implements Store.
func (b *BucketStore) Put(ctx context.Context, key string, value []byte) error {
	return b.Bucket.WriteAll(ctx, b.key(key), value, nil)
}

// Clear deletes all blobs under Prefix. Like DirStore.Clear, it
// refuses to delete anything when the prefix holds blobs but no zarr
// group or array metadata.
func (b *BucketStore) Clear(ctx context.Context) error {
	prefix := strings.Trim(b.Prefix, "/")
	ok, err := b.isZarrPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	if prefix != "" {
		prefix += "/"
	}
	if !ok {
		_, err := b.Bucket.List(&blob.ListOptions{Prefix: prefix}).Next(ctx)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		return fmt.Errorf("zarr: refusing to clear bucket prefix %q: it is not empty and holds no zarr metadata", prefix)
	}
	_, err = cloud.DeletePrefix(ctx, b.Bucket, prefix)
	return err
}

func (b *BucketStore) isZarrPrefix(ctx context.Context, prefix string) (bool, error) {
	for _, k := range []string{".zgroup", ".zarray"} {
		ok, err := b.Bucket.Exists(ctx, path.Join(prefix, k))
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// Close closes the bucket.
func (b *BucketStore) Close() error { return b.Bucket.Close() }
