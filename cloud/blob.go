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

package cloud

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
)

// DeletePrefix deletes all blobs in bucket whose keys start with prefix
// and returns the number deleted. An empty prefix deletes everything.
func DeletePrefix(ctx context.Context, bucket *blob.Bucket, prefix string) (int, error) {
	iter := bucket.List(&blob.ListOptions{Prefix: prefix})
	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("cloud: listing blobs under %q to delete: %v", prefix, err)
		}
		if !obj.IsDir {
			keys = append(keys, obj.Key)
		}
	}
	var n int
	for _, k := range keys {
		if err := bucket.Delete(ctx, k); err != nil {
			return n, fmt.Errorf("cloud: deleting blob %s: %v", k, err)
		}
		n++
	}
	return n, nil
}
