// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for awsutil's user
// configuration. The configuration is a YAML document named awsutil.yaml in
// the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/awsutil.yaml or $HOME/.config/awsutil.yaml
//   - macOS: $HOME/Library/Application Support/awsutil.yaml
//   - Windows: %APPDATA%/awsutil.yaml
//
// AWSUTIL_CFG_FILE overrides the location with a full path.
package config
