// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tfctl/awsutil/internal/attrs"
	"github.com/tfctl/awsutil/internal/config"
	"github.com/tfctl/awsutil/internal/instance"
	"github.com/tfctl/awsutil/internal/log"
	"github.com/tfctl/awsutil/internal/meta"
	"github.com/tfctl/awsutil/internal/output"
	"github.com/tfctl/awsutil/internal/progress"
)

func ec2CommandBuilder(meta meta.Meta, b Backend) *cli.Command {
	const ns = "ec2"
	src := meta.Config.Source

	return &cli.Command{
		Name:  ns,
		Usage: "query and start EC2 instances",
		Commands: []*cli.Command{
			(&CommandBuilder{
				Name:      "start",
				Usage:     "start instances and wait until they are running",
				UsageText: "awsutil ec2 start <instance-id>... [options]",
				Namespace: ns,
				Flags: []cli.Flag{
					NewMaxWaitFlag(ns, src),
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "do not show a spinner while waiting",
					},
				},
				Action: ec2StartAction(b),
				Meta:   meta,
			}).Build(),
			(&CommandBuilder{
				Name:      "status",
				Usage:     "report instance state",
				UsageText: "awsutil ec2 status <instance-id>... [options]",
				Namespace: ns,
				Action:    ec2StatusAction(b),
				Meta:      meta,
			}).Build(),
			(&CommandBuilder{
				Name:      "ip",
				Usage:     "report instance public address",
				UsageText: "awsutil ec2 ip <instance-id>... [options]",
				Namespace: ns,
				Action:    ec2IPAction(b),
				Meta:      meta,
			}).Build(),
			(&CommandBuilder{
				Name:      "describe",
				Usage:     "describe instances",
				UsageText: "awsutil ec2 describe <instance-id>... [options]",
				Namespace: ns,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "attrs",
						Aliases: []string{"a"},
						Usage:   "comma-separated list of key[:name[:transform]] to add to the default columns",
					},
				},
				Action: ec2DescribeAction(b),
				Meta:   meta,
			}).Build(),
		},
	}
}

// instanceIDs returns the positional args as instance ids.
func instanceIDs(cmd *cli.Command) []instance.ID {
	args := cmd.Args().Slice()
	ids := make([]instance.ID, 0, len(args))
	for _, a := range args {
		ids = append(ids, instance.ID(strings.TrimSpace(a)))
	}
	return ids
}

// forEach runs fn for every id, at most ec2.concurrency at a time. Rows from
// successful calls are returned in id order along with every failure joined.
func forEach(ctx context.Context, ids []instance.ID, fn func(context.Context, instance.ID) (map[string]interface{}, error)) ([]map[string]interface{}, error) {
	limit, _ := config.GetInt("concurrency", 8)
	if limit <= 0 {
		limit = 1
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(limit)

	slots := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			row, err := fn(ctx, id)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				mu.Unlock()
				return nil
			}
			slots[i] = row
			return nil
		})
	}
	_ = g.Wait()

	rows := make([]map[string]interface{}, 0, len(slots))
	for _, row := range slots {
		if row != nil {
			rows = append(rows, row)
		}
	}
	return rows, errors.Join(errs...)
}

func ec2StartAction(b Backend) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := ArgsValidator(cmd, 1, -1); err != nil {
			return err
		}
		ids := instanceIDs(cmd)
		log.Debugf("ec2 start: ids=%v", ids)

		compute, err := b.Compute(ctx, cmd)
		if err != nil {
			return err
		}
		ctrl := instance.NewController(compute)

		title := fmt.Sprintf("starting %d instance(s)", len(ids))
		if len(ids) == 1 {
			title = fmt.Sprintf("starting %s", ids[0])
		}
		show := !cmd.Bool("no-progress") && progress.Enabled()

		var rows []map[string]interface{}
		err = progress.Run(ctx, title, show, func(ctx context.Context) error {
			var runErr error
			rows, runErr = forEach(ctx, ids, func(ctx context.Context, id instance.ID) (map[string]interface{}, error) {
				started := time.Now()
				if err := ctrl.EnsureRunning(ctx, id); err != nil {
					return nil, err
				}
				return map[string]interface{}{
					"id":      string(id),
					"state":   instance.StateRunning.String(),
					"elapsed": time.Since(started).Round(time.Second).String(),
				}, nil
			})
			return runErr
		})

		return emit(cmd, rows, columns("id", "state", "elapsed"), err)
	}
}

func ec2StatusAction(b Backend) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := ArgsValidator(cmd, 1, -1); err != nil {
			return err
		}

		compute, err := b.Compute(ctx, cmd)
		if err != nil {
			return err
		}
		ctrl := instance.NewController(compute)

		rows, err := forEach(ctx, instanceIDs(cmd), func(ctx context.Context, id instance.ID) (map[string]interface{}, error) {
			state, err := ctrl.State(ctx, id)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"id":      string(id),
				"state":   state.String(),
				"running": state == instance.StateRunning,
			}, nil
		})

		return emit(cmd, rows, columns("id", "state", "running"), err)
	}
}

func ec2IPAction(b Backend) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := ArgsValidator(cmd, 1, -1); err != nil {
			return err
		}

		compute, err := b.Compute(ctx, cmd)
		if err != nil {
			return err
		}
		ctrl := instance.NewController(compute)

		rows, err := forEach(ctx, instanceIDs(cmd), func(ctx context.Context, id instance.ID) (map[string]interface{}, error) {
			addr, ok, err := ctrl.PublicAddress(ctx, id)
			if err != nil {
				return nil, err
			}
			row := map[string]interface{}{"id": string(id), "public_ip": nil}
			if ok {
				row["public_ip"] = addr
			}
			return row, nil
		})

		return emit(cmd, rows, columns("id", "public_ip"), err)
	}
}

func ec2DescribeAction(b Backend) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := ArgsValidator(cmd, 1, -1); err != nil {
			return err
		}

		list := attrs.InstanceDefaults()
		if err := list.Set(cmd.String("attrs")); err != nil {
			return err
		}

		compute, err := b.Compute(ctx, cmd)
		if err != nil {
			return err
		}

		rows, err := forEach(ctx, instanceIDs(cmd), func(ctx context.Context, id instance.ID) (map[string]interface{}, error) {
			if id == "" {
				return nil, instance.ErrInvalidInstanceID
			}
			inst, err := compute.Describe(ctx, id)
			if err != nil {
				return nil, err
			}
			doc, err := json.Marshal(inst)
			if err != nil {
				return nil, fmt.Errorf("failed to encode instance: %w", err)
			}
			return map[string]interface{}{"doc": doc}, nil
		})

		docs := make([][]byte, 0, len(rows))
		for _, row := range rows {
			docs = append(docs, row["doc"].([]byte))
		}

		return emit(cmd, output.Rows(docs, list), list, err)
	}
}
