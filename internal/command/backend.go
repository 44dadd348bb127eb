// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/aws"
	"github.com/tfctl/awsutil/internal/config"
	"github.com/tfctl/awsutil/internal/instance"
	"github.com/tfctl/awsutil/internal/log"
	"github.com/tfctl/awsutil/internal/storage"
)

// Compute is the instance capability plus the raw describe the describe
// command renders.
type Compute interface {
	instance.Compute
	Describe(ctx context.Context, id instance.ID) (types.Instance, error)
}

// Backend builds the cloud clients a command needs from its flags.
type Backend interface {
	Compute(ctx context.Context, cmd *cli.Command) (Compute, error)
	ObjectStore(ctx context.Context, cmd *cli.Command) (storage.ObjectStore, error)
}

var _ Compute = (*aws.Compute)(nil)

// awsBackend is the production Backend.
type awsBackend struct{}

func (awsBackend) load(ctx context.Context, cmd *cli.Command) (awsv2.Config, error) {
	opts := []aws.Option{
		aws.WithProfile(cmd.String("profile")),
		aws.WithRegion(cmd.String("region")),
		aws.WithBaseEndpoint(cmd.String("endpoint")),
	}

	if n, _ := config.GetInt("max_retries", 0); n > 0 {
		opts = append(opts, aws.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), n)
		}))
	}

	cfg, err := aws.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return awsv2.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	log.Debugf("aws config: profile=%s region=%s endpoint=%s", cmd.String("profile"), cfg.Region, cmd.String("endpoint"))
	return cfg, nil
}

func (b awsBackend) Compute(ctx context.Context, cmd *cli.Command) (Compute, error) {
	cfg, err := b.load(ctx, cmd)
	if err != nil {
		return nil, err
	}

	// Unset values keep the adapter defaults.
	minDelay, _ := config.GetDuration("min_delay", 0)
	maxDelay, _ := config.GetDuration("max_delay", 0)

	opts := []aws.ComputeOption{
		aws.WithMaxWait(cmd.Duration("max-wait")),
		aws.WithPollDelay(minDelay, maxDelay),
	}

	return aws.NewCompute(aws.NewEC2(cfg), opts...), nil
}

func (b awsBackend) ObjectStore(ctx context.Context, cmd *cli.Command) (storage.ObjectStore, error) {
	cfg, err := b.load(ctx, cmd)
	if err != nil {
		return nil, err
	}

	// Path style for LocalStack and other compatible endpoints.
	pathStyle := cmd.String("endpoint") != ""
	return aws.NewObjectStore(aws.NewS3(cfg, aws.WithS3PathStyle(pathStyle))), nil
}
