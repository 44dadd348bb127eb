// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/awsutil/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// ArgsValidator requires between lo and hi positional args. hi < 0 means
// unbounded. Blank args never get this far, see InitApp.
func ArgsValidator(c *cli.Command, lo, hi int) error {
	n := c.Args().Len()
	if n < lo || (hi >= 0 && n > hi) {
		return fmt.Errorf("wrong number of arguments (%d)\nusage: %s", n, c.UsageText)
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}
