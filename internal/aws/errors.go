// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/tfctl/awsutil/internal/cloud"
	"github.com/tfctl/awsutil/internal/log"
)

// errorCodes maps EC2 and S3 API error codes to the cloud taxonomy.
var errorCodes = map[string]error{
	"InvalidInstanceID.NotFound": cloud.ErrNotFound,
	"NoSuchBucket":               cloud.ErrNotFound,
	"NoSuchKey":                  cloud.ErrNotFound,
	"NotFound":                   cloud.ErrNotFound,

	"AccessDenied":          cloud.ErrPermissionDenied,
	"AccessDeniedException": cloud.ErrPermissionDenied,
	"AuthFailure":           cloud.ErrPermissionDenied,
	"Forbidden":             cloud.ErrPermissionDenied,
	"UnauthorizedOperation": cloud.ErrPermissionDenied,

	"InternalError":        cloud.ErrUnavailable,
	"RequestLimitExceeded": cloud.ErrUnavailable,
	"ServiceUnavailable":   cloud.ErrUnavailable,
	"SlowDown":             cloud.ErrUnavailable,
	"Throttling":           cloud.ErrUnavailable,
	"Unavailable":          cloud.ErrUnavailable,
}

// Messages produced by the SDK's generated waiters. They carry no type, so
// matching on text is the only option.
const (
	waiterTimeoutMsg = "exceeded max wait time"
	waiterFailureMsg = "waiter state transitioned to Failure"
)

// classify tags err with its cloud taxonomy kind. The original error stays
// reachable through errors.As. Unclassifiable errors are returned untouched.
func classify(err error) error {
	if err == nil || cloud.Kind(err) != nil {
		return err
	}
	kind := kindOf(err)
	log.Tracef("classified: kind=%v err=%v", kind, err)
	return cloud.Mark(kind, err)
}

// classifyWait is classify for errors returned by a waiter. A deadline that
// expires while waiting is a transition timeout.
func classifyWait(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && cloud.Kind(err) == nil {
		return cloud.Mark(cloud.ErrTransitionTimeout, err)
	}
	return classify(err)
}

func kindOf(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := errorCodes[apiErr.ErrorCode()]; ok {
			return kind
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return cloud.ErrUnavailable
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch code := respErr.HTTPStatusCode(); {
		case code == http.StatusForbidden:
			return cloud.ErrPermissionDenied
		case code == http.StatusNotFound:
			return cloud.ErrNotFound
		case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
			return cloud.ErrUnavailable
		}
	}

	var sendErr *smithyhttp.RequestSendError
	if errors.As(err, &sendErr) {
		return cloud.ErrUnavailable
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, waiterTimeoutMsg):
		return cloud.ErrTransitionTimeout
	case strings.Contains(msg, waiterFailureMsg):
		return cloud.ErrTransitionFailed
	}

	return nil
}
