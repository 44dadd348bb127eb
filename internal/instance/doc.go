// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package instance drives a compute instance to the running state. The
// Controller owns no state of its own: every decision is made from a fresh
// query against the injected Compute collaborator, and every collaborator
// error is returned to the caller as-is.
package instance
