// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewGlobalFlags returns the output flags shared by every reporting command.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:   "padding",
			Usage:  "spaces between text columns",
			Value:  2,
			Hidden: true,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	if len(params) == 2 {
		for _, f := range flags {
			if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "output" {
				NameSpacedValueChainFlagFromConfigFile(params[0], params[1], sf)
			}
		}
	}

	return
}

// NewAWSFlags returns the flags that select the AWS profile, region and
// endpoint. params are the config namespace and the config file.
func NewAWSFlags(params ...string) []cli.Flag {
	profile := &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "shared config profile to use",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWSUTIL_PROFILE"),
			cli.EnvVar("AWS_PROFILE"),
		),
	}

	region := &cli.StringFlag{
		Name:    "region",
		Aliases: []string{"r"},
		Usage:   "AWS region. Overrides the profile",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWSUTIL_REGION"),
			cli.EnvVar("AWS_REGION"),
			cli.EnvVar("AWS_DEFAULT_REGION"),
		),
	}

	endpoint := &cli.StringFlag{
		Name:  "endpoint",
		Usage: "base endpoint URL for EC2/S3 compatible services",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWSUTIL_ENDPOINT"),
			cli.EnvVar("AWS_ENDPOINT_URL"),
		),
	}

	if len(params) == 2 {
		profile = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], profile)
		region = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], region)
		endpoint = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], endpoint)
	}

	return []cli.Flag{profile, region, endpoint}
}

// NewMaxWaitFlag bounds each waiter. The config key is max_wait.
func NewMaxWaitFlag(params ...string) *cli.DurationFlag {
	flag := &cli.DurationFlag{
		Name:    "max-wait",
		Aliases: []string{"w"},
		Usage:   "give up waiting for a state change after this long",
		Sources: cli.NewValueSourceChain(cli.EnvVar("AWSUTIL_MAX_WAIT")),
		Value:   10 * time.Minute,
	}

	if len(params) == 2 {
		addConfigSources(params[0], params[1], "max_wait", &flag.Sources)
	}

	return flag
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	addConfigSources(ns, path, flag.Name, &flag.Sources)
	return flag
}

// addConfigSources appends ns.key then key, both read from the YAML file at
// path.
func addConfigSources(ns, path, key string, chain *cli.ValueSourceChain) {
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
}
