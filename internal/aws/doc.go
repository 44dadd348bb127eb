// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws adapts the AWS SDK for Go v2 to the collaborator interfaces
// consumed by the instance and storage packages. Config loading inherits the
// shell's AWS setup; EC2 waits use the SDK's built-in waiters; every SDK
// error is classified into the cloud taxonomy without losing the original.
package aws
