// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/config"
	"github.com/tfctl/awsutil/internal/meta"
)

// CommandBuilder constructs a leaf cli.Command (ec2 start, s3 get, ...) using
// a consistent pattern. Build wires metadata, appends the output and AWS flags
// bound to the Namespace's config keys and points config lookups at the
// Namespace before the action runs.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Namespace string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	src := cb.Meta.Config.Source
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: slices.Concat(
			cb.Flags,
			NewGlobalFlags(cb.Namespace, src),
			NewAWSFlags(cb.Namespace, src),
		),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.Config.Namespace = cb.Namespace
			return ctx, nil
		},
		Action: cb.Action,
	}
}
