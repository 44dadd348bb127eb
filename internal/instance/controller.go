// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package instance

import (
	"context"

	"github.com/tfctl/awsutil/internal/log"
)

// Compute is the provider capability the Controller consumes. Waits block
// until the target state is reached or the implementation's own wait bound
// expires, in which case they return an error matching ErrTransitionTimeout.
type Compute interface {
	State(ctx context.Context, id ID) (State, error)
	// RequestStart must be a no-op for an instance that is already running.
	RequestStart(ctx context.Context, id ID) error
	WaitUntilStopped(ctx context.Context, id ID) error
	WaitUntilRunning(ctx context.Context, id ID) error
	// PublicAddress returns ok=false when no public address is assigned.
	PublicAddress(ctx context.Context, id ID) (addr string, ok bool, err error)
}

// Controller ensures instances reach the running state.
type Controller struct {
	compute Compute
}

// NewController returns a Controller bound to the given collaborator.
func NewController(compute Compute) *Controller {
	return &Controller{compute: compute}
}

// EnsureRunning starts the instance and blocks until it is running. An
// instance that is stopping or shutting down is first allowed to finish
// stopping. Start is requested even when the instance already runs; the
// collaborator treats that as a no-op. Errors are returned unmodified and
// nothing is retried.
func (c *Controller) EnsureRunning(ctx context.Context, id ID) error {
	if id == "" {
		return ErrInvalidInstanceID
	}

	state, err := c.compute.State(ctx, id)
	if err != nil {
		log.Debugf("state query err: id=%s err=%v", id, err)
		return err
	}
	log.Debugf("state queried: id=%s state=%s", id, state)

	if state.Draining() {
		log.Infof("waiting for %s to stop before starting", id)
		if err := c.compute.WaitUntilStopped(ctx, id); err != nil {
			log.Debugf("wait stopped err: id=%s err=%v", id, err)
			return err
		}
	}

	if err := c.compute.RequestStart(ctx, id); err != nil {
		log.Debugf("start err: id=%s err=%v", id, err)
		return err
	}
	log.Debugf("start requested: id=%s", id)

	if err := c.compute.WaitUntilRunning(ctx, id); err != nil {
		log.Debugf("wait running err: id=%s err=%v", id, err)
		return err
	}
	log.Infof("%s is running", id)

	return nil
}

// IsRunning reports whether the instance is currently running.
func (c *Controller) IsRunning(ctx context.Context, id ID) (bool, error) {
	if id == "" {
		return false, ErrInvalidInstanceID
	}
	state, err := c.compute.State(ctx, id)
	if err != nil {
		return false, err
	}
	return state == StateRunning, nil
}

// State returns the instance's current state.
func (c *Controller) State(ctx context.Context, id ID) (State, error) {
	if id == "" {
		return "", ErrInvalidInstanceID
	}
	return c.compute.State(ctx, id)
}

// PublicAddress returns the instance's public address. A stopped instance or
// one without a public address yields ok=false and no error.
func (c *Controller) PublicAddress(ctx context.Context, id ID) (string, bool, error) {
	if id == "" {
		return "", false, ErrInvalidInstanceID
	}
	addr, ok, err := c.compute.PublicAddress(ctx, id)
	if err != nil {
		return "", false, err
	}
	if !ok || addr == "" {
		log.Debugf("no public address: id=%s", id)
		return "", false, nil
	}
	return addr, true, nil
}
