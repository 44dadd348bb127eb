// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package storage moves files and byte slices between the local machine and
// an object store. Downloads land in a temp file next to the destination and
// are renamed into place, so a failed transfer never leaves a partial file.
package storage
