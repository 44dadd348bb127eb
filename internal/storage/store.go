// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrInvalidLocation is returned before any store call when the bucket or key
// is empty.
var ErrInvalidLocation = errors.New("bucket and key must not be empty")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket       string    `json:"bucket" yaml:"bucket"`
	Key          string    `json:"key" yaml:"key"`
	Size         int64     `json:"size" yaml:"size"`
	ETag         string    `json:"etag" yaml:"etag"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
}

// ObjectStore is the object storage capability consumed by Transfer.
type ObjectStore interface {
	Stat(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// Open returns the object body. The caller closes it.
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	Put(ctx context.Context, bucket, key string, body io.ReadSeeker) error
}

func validate(bucket, key string) error {
	if bucket == "" || key == "" {
		return ErrInvalidLocation
	}
	return nil
}
