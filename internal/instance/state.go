// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package instance

import "strings"

// ID is an opaque, provider-assigned instance identifier.
type ID string

// State is the power state of an instance as reported by the provider.
type State string

const (
	StatePending      State = "pending"
	StateRunning      State = "running"
	StateShuttingDown State = "shutting-down"
	StateTerminated   State = "terminated"
	StateStopping     State = "stopping"
	StateStopped      State = "stopped"
	StateOther        State = "other"
)

// ParseState maps a provider state name to a State. Names are matched
// case-insensitively and underscores are accepted in place of dashes. Anything
// unrecognized is StateOther.
func ParseState(name string) State {
	s := State(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	switch s {
	case StatePending, StateRunning, StateShuttingDown, StateTerminated, StateStopping, StateStopped:
		return s
	}
	return StateOther
}

// Draining reports whether the instance is on its way down and must settle
// before a start request can take effect.
func (s State) Draining() bool {
	return s == StateStopping || s == StateShuttingDown
}

func (s State) String() string {
	return string(s)
}
