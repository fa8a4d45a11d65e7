// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies provider failures.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit means too many requests per second.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded means the daily quota is used up.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout means the request did not complete in time.
	ErrorTypeTimeout
	// ErrorTypeNotFound means the place or address does not exist.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest means the request was malformed.
	ErrorTypeInvalidRequest
	// ErrorTypeDenied means the key is missing, invalid or not enabled.
	ErrorTypeDenied
	// ErrorTypeNetworkError is a transport or upstream availability failure.
	ErrorTypeNetworkError
)

var errorTypeNames = [...]string{
	"unknown", "rate_limit", "quota_exceeded", "timeout", "not_found", "invalid_request", "denied", "network_error",
}

func (t ErrorType) String() string {
	if t >= 0 && int(t) < len(errorTypeNames) {
		return errorTypeNames[t]
	}

	return "unknown"
}

// ProviderError is returned by every Client call that fails.
type ProviderError struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}

	return e.Op + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorClass names the failure type, as logged by discovery.
func (e *ProviderError) ErrorClass() string {
	return e.Type.String()
}

// IsNotFoundError reports whether err means the resource does not exist.
func IsNotFoundError(err error) bool {
	var pErr *ProviderError

	return errors.As(err, &pErr) && pErr.Type == ErrorTypeNotFound
}

// ClassifyHTTPError maps a non 200 response to a ProviderError.
func ClassifyHTTPError(statusCode int, op string) *ProviderError {
	switch statusCode {
	case http.StatusTooManyRequests:
		return &ProviderError{Type: ErrorTypeRateLimit, Op: op, Message: "rate limit reached"}
	case http.StatusForbidden:
		return &ProviderError{Type: ErrorTypeQuotaExceeded, Op: op, Message: "quota exceeded or access denied"}
	case http.StatusBadRequest:
		return &ProviderError{Type: ErrorTypeInvalidRequest, Op: op, Message: "invalid request"}
	case http.StatusNotFound:
		return &ProviderError{Type: ErrorTypeNotFound, Op: op, Message: "not found"}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &ProviderError{Type: ErrorTypeNetworkError, Op: op, Message: fmt.Sprintf("service unavailable (status %d)", statusCode)}
	default:
		return &ProviderError{Type: ErrorTypeUnknown, Op: op, Message: fmt.Sprintf("HTTP error %d", statusCode)}
	}
}

// ClassifyStatus maps the status field of a web service response. OK and
// ZERO_RESULTS are not errors.
func ClassifyStatus(status, message, op string) *ProviderError {
	var t ErrorType

	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		t = ErrorTypeQuotaExceeded
	case "REQUEST_DENIED":
		t = ErrorTypeDenied
	case "INVALID_REQUEST", "MAX_ELEMENTS_EXCEEDED", "MAX_DIMENSIONS_EXCEEDED", "MAX_ROUTE_LENGTH_EXCEEDED":
		t = ErrorTypeInvalidRequest
	case "NOT_FOUND":
		t = ErrorTypeNotFound
	case "UNKNOWN_ERROR":
		t = ErrorTypeNetworkError
	default:
		t = ErrorTypeUnknown
	}

	msg := "status " + status
	if message != "" {
		msg += ": " + message
	}

	return &ProviderError{Type: t, Op: op, Message: msg}
}
