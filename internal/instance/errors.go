// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package instance

import (
	"errors"

	"github.com/tfctl/awsutil/internal/cloud"
)

// Errors surfaced by Compute implementations. They alias the shared cloud
// taxonomy so errors.Is works regardless of which package a caller imports.
var (
	ErrInstanceNotFound        = cloud.ErrNotFound
	ErrPermissionDenied        = cloud.ErrPermissionDenied
	ErrTransitionTimeout       = cloud.ErrTransitionTimeout
	ErrTransitionFailed        = cloud.ErrTransitionFailed
	ErrCollaboratorUnavailable = cloud.ErrUnavailable

	ErrInvalidInstanceID = errors.New("instance id must not be empty")
)
