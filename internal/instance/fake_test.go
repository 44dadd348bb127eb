// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package instance

import (
	"context"
	"errors"
	"sync"

	"github.com/tfctl/awsutil/internal/cloud"
)

// fakeCompute is an in-memory Compute. It records every call and moves
// instances through their states the way the provider would.
type fakeCompute struct {
	mu        sync.Mutex
	states    map[ID]State
	addrs     map[ID]string
	calls     []string
	failOn    map[string]error
	starts    int
	startsRun int // starts issued while already running
}

func newFakeCompute() *fakeCompute {
	return &fakeCompute{
		states: map[ID]State{},
		addrs:  map[ID]string{},
		failOn: map[string]error{},
	}
}

func (f *fakeCompute) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failOn[call]
}

func (f *fakeCompute) lookup(id ID) (State, error) {
	s, ok := f.states[id]
	if !ok {
		return "", cloud.Mark(cloud.ErrNotFound, errors.New("InvalidInstanceID.NotFound: "+string(id)))
	}
	return s, nil
}

func (f *fakeCompute) State(_ context.Context, id ID) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("State"); err != nil {
		return "", err
	}
	return f.lookup(id)
}

func (f *fakeCompute) RequestStart(_ context.Context, id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RequestStart"); err != nil {
		return err
	}
	s, err := f.lookup(id)
	if err != nil {
		return err
	}
	f.starts++
	switch s {
	case StateRunning:
		f.startsRun++
	case StateStopped:
		f.states[id] = StatePending
	case StateStopping, StateShuttingDown:
		return errors.New("IncorrectInstanceState: " + string(id))
	}
	return nil
}

func (f *fakeCompute) WaitUntilStopped(_ context.Context, id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("WaitUntilStopped"); err != nil {
		return err
	}
	if _, err := f.lookup(id); err != nil {
		return err
	}
	f.states[id] = StateStopped
	return nil
}

func (f *fakeCompute) WaitUntilRunning(_ context.Context, id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("WaitUntilRunning"); err != nil {
		return err
	}
	s, err := f.lookup(id)
	if err != nil {
		return err
	}
	if s != StatePending && s != StateRunning {
		return cloud.Mark(cloud.ErrTransitionTimeout, errors.New("exceeded max wait time"))
	}
	f.states[id] = StateRunning
	return nil
}

func (f *fakeCompute) PublicAddress(_ context.Context, id ID) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PublicAddress"); err != nil {
		return "", false, err
	}
	if _, err := f.lookup(id); err != nil {
		return "", false, err
	}
	addr, ok := f.addrs[id]
	return addr, ok, nil
}
