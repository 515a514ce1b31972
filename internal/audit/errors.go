// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeTransport means no response was received.
	ErrTypeTransport
	// ErrTypeStatus means the service answered with a non-2xx status.
	ErrTypeStatus
	// ErrTypeMalformed means a 2xx answer could not be decoded into a Result.
	ErrTypeMalformed
	// ErrTypeEncode means the request itself could not be built.
	ErrTypeEncode
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeTransport:
		return "transport"
	case ErrTypeStatus:
		return "status"
	case ErrTypeMalformed:
		return "malformed"
	case ErrTypeEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the audit client.
type ClientError struct {
	Type ErrorType

	// Status is the HTTP status code for ErrTypeStatus and ErrTypeMalformed.
	Status int

	// Detail is the service-provided "detail" string, when the failure body
	// carried one. It is empty for every other kind of failure.
	Detail string

	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// DetailOf returns the service-provided detail carried by err, or "".
func DetailOf(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) && ce.Type == ErrTypeStatus {
		return ce.Detail
	}
	return ""
}

// IsTransport reports whether err means the service could not be reached.
func IsTransport(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTransport
}
