// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"io"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/awsutil/internal/log"
	"github.com/tfctl/awsutil/internal/storage"
)

// S3API is the subset of the S3 client used by ObjectStore.
type S3API interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
}

var (
	_ S3API               = (*s3v2.Client)(nil)
	_ storage.ObjectStore = (*ObjectStore)(nil)
)

// ObjectStore implements storage.ObjectStore on top of S3.
type ObjectStore struct {
	api S3API
}

// NewObjectStore returns an ObjectStore backed by api.
func NewObjectStore(api S3API) *ObjectStore {
	return &ObjectStore{api: api}
}

// Stat returns object metadata without fetching the body.
func (s *ObjectStore) Stat(ctx context.Context, bucket, key string) (storage.ObjectInfo, error) {
	out, err := s.api.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		log.Debugf("head err: bucket=%s key=%s err=%v", bucket, key, err)
		return storage.ObjectInfo{}, classify(err)
	}

	info := storage.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         awsv2.ToInt64(out.ContentLength),
		ETag:         trimETag(out.ETag),
		LastModified: awsv2.ToTime(out.LastModified),
	}
	log.Debugf("head: bucket=%s key=%s size=%d etag=%s", bucket, key, info.Size, info.ETag)
	return info, nil
}

// Open starts a GetObject and returns the streaming body.
func (s *ObjectStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	out, err := s.api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		log.Debugf("get err: bucket=%s key=%s err=%v", bucket, key, err)
		return nil, storage.ObjectInfo{}, classify(err)
	}

	info := storage.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         awsv2.ToInt64(out.ContentLength),
		ETag:         trimETag(out.ETag),
		LastModified: awsv2.ToTime(out.LastModified),
	}
	log.Debugf("get: bucket=%s key=%s size=%d etag=%s", bucket, key, info.Size, info.ETag)
	return out.Body, info, nil
}

// Put uploads body as the object's content with a single PutObject.
func (s *ObjectStore) Put(ctx context.Context, bucket, key string, body io.ReadSeeker) error {
	_, err := s.api.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
		Body:   body,
	})
	if err != nil {
		log.Debugf("put err: bucket=%s key=%s err=%v", bucket, key, err)
		return classify(err)
	}
	log.Debugf("put: bucket=%s key=%s", bucket, key)
	return nil
}

// trimETag strips the quotes S3 wraps ETags in.
func trimETag(etag *string) string {
	return strings.Trim(awsv2.ToString(etag), `"`)
}
