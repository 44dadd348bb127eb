// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cloud

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type vendorError struct{ code string }

func (e *vendorError) Error() string { return "vendor: " + e.code }

func TestMark(t *testing.T) {
	orig := &vendorError{code: "InvalidInstanceID.NotFound"}

	err := Mark(ErrNotFound, orig)
	assert.ErrorIs(t, err, ErrNotFound)

	var ve *vendorError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, orig, ve)
	assert.Contains(t, err.Error(), "vendor: InvalidInstanceID.NotFound")
}

func TestMark_Passthrough(t *testing.T) {
	orig := errors.New("boom")

	assert.Nil(t, Mark(ErrNotFound, nil))
	assert.Same(t, orig, Mark(nil, orig))

	marked := Mark(ErrUnavailable, orig)
	assert.Same(t, marked, Mark(ErrUnavailable, marked), "already marked errors are not wrapped twice")
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"plain", errors.New("x"), nil},
		{"not found", Mark(ErrNotFound, errors.New("x")), ErrNotFound},
		{"denied", Mark(ErrPermissionDenied, errors.New("x")), ErrPermissionDenied},
		{"timeout", Mark(ErrTransitionTimeout, errors.New("x")), ErrTransitionTimeout},
		{"failed", Mark(ErrTransitionFailed, errors.New("x")), ErrTransitionFailed},
		{"unavailable", Mark(ErrUnavailable, errors.New("x")), ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
