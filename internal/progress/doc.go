// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package progress shows a terminal spinner on stderr while a blocking
// operation runs.
package progress
