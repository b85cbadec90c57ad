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

// Package cloud opens the blob storage buckets that converted
// datasets are written to.
package cloud

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcp"
)

// Providers are the accepted storage provider schemes: "file" for the
// local filesystem, "mem" for an in-memory bucket (e.g., for testing),
// "gs" for Google Cloud Storage, and "s3" for AWS S3.
var Providers = []string{"file", "mem", "gs", "s3"}

// IsBlob returns whether location is a bucket address in the format
// 'provider://name/path' with one of the accepted Providers.
func IsBlob(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	for _, p := range Providers {
		if u.Scheme == p {
			return true
		}
	}
	return false
}

// OpenBucket returns the blob storage bucket specified by location,
// where location must be in the format 'provider://name/path'. The
// path, without leading or trailing slashes, is returned as the key
// prefix that objects in the bucket should be stored under.
// For the "file" provider, name and path together give the directory
// that becomes the bucket, which is created if it does not exist,
// and the prefix is empty.
func OpenBucket(ctx context.Context, location string) (*blob.Bucket, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("cloud.OpenBucket: %v", err)
	}
	prefix := strings.Trim(u.Path, "/")
	var b *blob.Bucket
	switch u.Scheme {
	case "file":
		dir := filepath.Join(u.Host, filepath.FromSlash(u.Path))
		if err = os.MkdirAll(dir, 0755); err != nil {
			return nil, "", fmt.Errorf("cloud.OpenBucket: %v", err)
		}
		b, err = fileblob.OpenBucket(dir, nil)
		prefix = ""
	case "mem":
		b = memblob.OpenBucket(nil)
	case "gs":
		b, err = gsBucket(ctx, u.Hostname())
	case "s3":
		b, err = s3Bucket(ctx, u.Hostname())
	default:
		return nil, "", fmt.Errorf("cloud.OpenBucket: invalid provider %s", u.Scheme)
	}
	if err != nil {
		return nil, "", fmt.Errorf("cloud.OpenBucket: %s: %v", location, err)
	}
	return b, prefix, nil
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	// See here for information on credentials:
	// https://cloud.google.com/docs/authentication/getting-started
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, c, name, nil)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-west-2"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name, nil)
}
