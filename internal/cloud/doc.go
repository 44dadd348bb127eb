// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package cloud holds the provider-neutral error taxonomy shared by the
// instance controller, the storage helpers and the AWS adapters. Adapters
// join one of these sentinels with the vendor error so callers can test the
// category with errors.Is and still reach the vendor error with errors.As.
package cloud
