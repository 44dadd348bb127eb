// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"errors"
	"fmt"
)

// Provider-neutral error kinds. Backends wrap their native errors with Mark so
// callers can match them with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrTransitionTimeout = errors.New("state transition timed out")
	ErrTransitionFailed  = errors.New("state transition failed")
	ErrUnavailable       = errors.New("provider unavailable")
)

// Mark joins kind with err. A nil kind or nil err returns err untouched.
func Mark(kind, err error) error {
	if kind == nil || err == nil {
		return err
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Kind returns the taxonomy sentinel carried by err, or nil when err is not
// classified.
func Kind(err error) error {
	for _, k := range []error{
		ErrNotFound,
		ErrPermissionDenied,
		ErrTransitionTimeout,
		ErrTransitionFailed,
		ErrUnavailable,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
