// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"github.com/tfctl/awsutil/internal/cacheutil"
	"github.com/tfctl/awsutil/internal/config"
)

// The cache is organized by bucket. The clear-text key combines the object key
// with its ETag, so a changed object never hits a stale entry.

func cacheSubdirs(bucket string) []string {
	return []string{"s3", bucket}
}

func cacheKey(key, etag string) string {
	return key + "@" + etag
}

// CacheReader reads the cache entry for the object, if it exists. If the cache
// is disabled, the ETag is unknown, or the entry does not exist, the second
// return value will be false.
func CacheReader(bucket, key, etag string) (*cacheutil.Entry, bool) {
	if etag == "" {
		return nil, false
	}
	return cacheutil.Read(cacheSubdirs(bucket), cacheKey(key, etag))
}

// CacheWriter stores the object body. Objects without an ETag are skipped.
func CacheWriter(bucket, key, etag string, data []byte) error {
	if etag == "" {
		return nil
	}
	return cacheutil.Write(cacheSubdirs(bucket), cacheKey(key, etag), data)
}

// PurgeCache removes entries older than the configured cache.clean hours.
func PurgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean", 0)
	return cacheutil.Purge(cleanHours)
}
