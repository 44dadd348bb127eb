// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/attrs"
	"github.com/tfctl/awsutil/internal/meta"
	"github.com/tfctl/awsutil/internal/output"
)

// columns builds an AttrList whose keys are the row keys themselves.
func columns(names ...string) attrs.AttrList {
	list := make(attrs.AttrList, 0, len(names))
	for _, n := range names {
		list = append(list, attrs.Attr{Key: n, OutputKey: n})
	}
	return list
}

// emit writes rows and then returns err, so partial results are not lost.
func emit(cmd *cli.Command, rows []map[string]interface{}, list attrs.AttrList, err error) error {
	if len(rows) > 0 {
		if spitErr := output.Spit(rows, list, cmd, GetMeta(cmd).Out()); spitErr != nil {
			return errors.Join(err, spitErr)
		}
	}
	return err
}

// GetMeta returns the meta.Meta stored on cmd by Build.
func GetMeta(cmd *cli.Command) meta.Meta {
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}
