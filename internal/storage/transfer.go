// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tfctl/awsutil/internal/cacheutil"
	"github.com/tfctl/awsutil/internal/log"
)

// Transfer implements the file and byte helpers on top of an ObjectStore.
type Transfer struct {
	store ObjectStore
	cache bool
}

// TransferOption customizes a Transfer.
type TransferOption func(*Transfer)

// WithCache enables the local download cache. It is still subject to
// AWSUTIL_CACHE.
func WithCache(enabled bool) TransferOption {
	return func(t *Transfer) { t.cache = enabled }
}

// NewTransfer returns a Transfer backed by store.
func NewTransfer(store ObjectStore, opts ...TransferOption) *Transfer {
	t := &Transfer{store: store}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FetchObject returns the full body of the object.
func (t *Transfer) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := validate(bucket, key); err != nil {
		return nil, err
	}

	body, info, err := t.store.Open(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	log.Debugf("fetched: bucket=%s key=%s size=%d etag=%s", bucket, key, len(data), info.ETag)
	return data, nil
}

// StoreObject writes data as the object's full body, replacing any existing
// object.
func (t *Transfer) StoreObject(ctx context.Context, bucket, key string, data []byte) error {
	if err := validate(bucket, key); err != nil {
		return err
	}
	if err := t.store.Put(ctx, bucket, key, bytes.NewReader(data)); err != nil {
		return err
	}
	log.Debugf("stored: bucket=%s key=%s size=%d", bucket, key, len(data))
	return nil
}

// Download copies the object to filename and returns the bytes written. The
// parent directory must exist.
func (t *Transfer) Download(ctx context.Context, bucket, key, filename string) (int64, error) {
	if err := validate(bucket, key); err != nil {
		return 0, err
	}

	caching := t.cache && cacheutil.Enabled()
	if caching {
		if err := PurgeCache(); err != nil {
			log.WithError(err).Warn("failed to purge cache")
		}

		info, err := t.store.Stat(ctx, bucket, key)
		if err != nil {
			return 0, err
		}
		if entry, ok := CacheReader(bucket, key, info.ETag); ok {
			log.Infof("serving %s/%s from cache", bucket, key)
			return writeFile(filename, bytes.NewReader(entry.Data))
		}
	}

	body, info, err := t.store.Open(ctx, bucket, key)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	var (
		src io.Reader = body
		buf bytes.Buffer
	)
	if caching && info.ETag != "" {
		src = io.TeeReader(body, &buf)
	}

	n, err := writeFile(filename, src)
	if err != nil {
		return n, err
	}
	log.Debugf("downloaded: bucket=%s key=%s file=%s size=%d", bucket, key, filename, n)

	if caching && info.ETag != "" {
		if err := CacheWriter(bucket, key, info.ETag, buf.Bytes()); err != nil {
			log.WithError(err).Warn("error writing to cache")
		}
	}
	return n, nil
}

// Upload copies filename to the object and returns the bytes sent.
func (t *Transfer) Upload(ctx context.Context, bucket, key, filename string) (int64, error) {
	if err := validate(bucket, key); err != nil {
		return 0, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open upload source: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat upload source: %w", err)
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("upload source is a directory: %s", filename)
	}

	if err := t.store.Put(ctx, bucket, key, f); err != nil {
		return 0, err
	}
	log.Debugf("uploaded: bucket=%s key=%s file=%s size=%d", bucket, key, filename, fi.Size())
	return fi.Size(), nil
}

// writeFile streams r into a temp file beside filename and renames it into
// place once the copy completes.
func writeFile(filename string, r io.Reader) (int64, error) {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create download file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return n, fmt.Errorf("failed to write download file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("failed to write download file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:mnd
		return n, fmt.Errorf("failed to write download file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return n, fmt.Errorf("failed to move download into place: %w", err)
	}
	return n, nil
}
