// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/config"
	"github.com/tfctl/awsutil/internal/log"
	"github.com/tfctl/awsutil/internal/meta"
	"github.com/tfctl/awsutil/internal/output"
	"github.com/tfctl/awsutil/internal/storage"
)

// stdio names stdin or stdout in place of a file.
const stdio = "-"

func s3CommandBuilder(meta meta.Meta, b Backend) *cli.Command {
	const ns = "s3"

	cacheDefault, _ := config.GetBool(ns+".cache", false)

	return &cli.Command{
		Name:  ns,
		Usage: "download and upload S3 objects",
		Commands: []*cli.Command{
			(&CommandBuilder{
				Name:      "get",
				Usage:     "download an object to a file, or stdout with -",
				UsageText: "awsutil s3 get <bucket> <key> <file> [options]",
				Namespace: ns,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "cache",
						Usage: "reuse a cached copy when the object ETag is unchanged",
						Value: cacheDefault,
					},
				},
				Action: s3GetAction(b),
				Meta:   meta,
			}).Build(),
			(&CommandBuilder{
				Name:      "put",
				Usage:     "upload a file, or stdin with -, to an object",
				UsageText: "awsutil s3 put <bucket> <key> <file> [options]",
				Namespace: ns,
				Action:    s3PutAction(b),
				Meta:      meta,
			}).Build(),
		},
	}
}

func s3GetAction(b Backend) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := ArgsValidator(cmd, 3, 3); err != nil {
			return err
		}
		bucket, key, file := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
		log.Debugf("s3 get: bucket=%s key=%s file=%s", bucket, key, file)

		store, err := b.ObjectStore(ctx, cmd)
		if err != nil {
			return err
		}
		tr := storage.NewTransfer(store, storage.WithCache(cmd.Bool("cache")))
		m := GetMeta(cmd)

		if file == stdio {
			data, err := tr.FetchObject(ctx, bucket, key)
			if err != nil {
				return fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
			}
			_, err = m.Out().Write(data)
			return err
		}

		n, err := tr.Download(ctx, bucket, key, file)
		if err != nil {
			return fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
		}

		return emit(cmd, []map[string]interface{}{transferRow(bucket, key, file, n)}, columns("bucket", "key", "file", "size"), nil)
	}
}

func s3PutAction(b Backend) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := ArgsValidator(cmd, 3, 3); err != nil {
			return err
		}
		bucket, key, file := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
		log.Debugf("s3 put: bucket=%s key=%s file=%s", bucket, key, file)

		store, err := b.ObjectStore(ctx, cmd)
		if err != nil {
			return err
		}
		tr := storage.NewTransfer(store)

		var n int64
		if file == stdio {
			data, err := io.ReadAll(GetMeta(cmd).In())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			if err := tr.StoreObject(ctx, bucket, key, data); err != nil {
				return fmt.Errorf("failed to put s3://%s/%s: %w", bucket, key, err)
			}
			n = int64(len(data))
		} else {
			n, err = tr.Upload(ctx, bucket, key, file)
			if err != nil {
				return fmt.Errorf("failed to put s3://%s/%s: %w", bucket, key, err)
			}
		}

		return emit(cmd, []map[string]interface{}{transferRow(bucket, key, file, n)}, columns("bucket", "key", "file", "size"), nil)
	}
}

func transferRow(bucket, key, file string, n int64) map[string]interface{} {
	return map[string]interface{}{
		"bucket": bucket,
		"key":    key,
		"file":   file,
		"size":   output.Bytes(n),
	}
}
