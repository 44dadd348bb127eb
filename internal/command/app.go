// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/config"
	"github.com/tfctl/awsutil/internal/log"
	"github.com/tfctl/awsutil/internal/meta"
)

type appOptions struct {
	backend Backend
	stdin   io.Reader
	stdout  io.Writer
}

// AppOption customizes InitApp.
type AppOption func(*appOptions)

// WithBackend replaces the AWS backend, typically with a fake.
func WithBackend(b Backend) AppOption {
	return func(o *appOptions) { o.backend = b }
}

// WithIO redirects command input and output.
func WithIO(in io.Reader, out io.Writer) AppOption {
	return func(o *appOptions) {
		o.stdin = in
		o.stdout = out
	}
}

func InitApp(ctx context.Context, args []string, opts ...AppOption) (*cli.Command, error) {
	o := appOptions{backend: awsBackend{}}
	for _, opt := range opts {
		opt(&o)
	}

	// The arg[1] immediately following the binary (arg[0]) is the awsutil
	// command group and also the namespace key used when retrieving config
	// values. arg[1] could be -h/--help, so ignore it if it looks like a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	if _, err := config.Load(ns); err != nil {
		log.Debugf("config not loaded: err=%v", err)
	}
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:    args,
		Config:  config.Config,
		Context: ctx,
		Stdin:   o.stdin,
		Stdout:  o.stdout,
	}

	app := &cli.Command{
		Name:  "awsutil",
		Usage: "EC2 instance and S3 object helpers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "awsutil version info",
				HideDefault: true,
			},
		},
	}
	if o.stdout != nil {
		app.Writer = o.stdout
	}

	// The CLI parser stops at an empty positional argument and silently drops
	// the rest, so blank args are rejected from the raw argv.
	app.Before = func(ctx context.Context, _ *cli.Command) (context.Context, error) {
		if i := emptyArg(args, boolFlagNames(app)); i > 0 {
			return ctx, fmt.Errorf("empty argument at position %d", i)
		}
		return ctx, nil
	}

	app.Commands = append(app.Commands,
		ec2CommandBuilder(meta, o.backend),
		s3CommandBuilder(meta, o.backend),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	sortFlags(app.Commands)

	return app, nil
}

// emptyArg returns the index of the first blank positional arg in args, or -1.
// A blank value directly after a flag that takes a value is allowed.
func emptyArg(args []string, bools map[string]bool) int {
	for i := 1; i < len(args); i++ {
		if strings.TrimSpace(args[i]) != "" {
			continue
		}
		prev := args[i-1]
		if strings.HasPrefix(prev, "-") && prev != "--" && !strings.Contains(prev, "=") && !bools[strings.TrimLeft(prev, "-")] {
			continue
		}
		return i
	}
	return -1
}

// boolFlagNames collects every name of every bool flag under cmd.
func boolFlagNames(cmd *cli.Command) map[string]bool {
	names := map[string]bool{"help": true, "h": true}
	var walk func(*cli.Command)
	walk = func(c *cli.Command) {
		for _, f := range c.Flags {
			if _, ok := f.(*cli.BoolFlag); ok {
				for _, n := range f.Names() {
					names[n] = true
				}
			}
		}
		for _, sub := range c.Commands {
			walk(sub)
		}
	}
	walk(cmd)
	return names
}

func sortFlags(cmds []*cli.Command) {
	for _, cmd := range cmds {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
		sortFlags(cmd.Commands)
	}
}
