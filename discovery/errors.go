// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a discovery failure.
type ErrorKind int

const (
	// ErrorKindUnknown is an error that did not come from Discover.
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindInvalidInput means the request was rejected before any lookup.
	ErrorKindInvalidInput
	// ErrorKindRegistryUnavailable means the registry could not be read.
	ErrorKindRegistryUnavailable
	// ErrorKindExternalProvider is a place or distance provider failure.
	// Discover absorbs these, so it never returns this kind.
	ErrorKindExternalProvider
	// ErrorKindCanceled means the context ended before a result was ready.
	ErrorKindCanceled
)

var errorKindNames = [...]string{"unknown", "invalid_input", "registry_unavailable", "external_provider", "canceled"}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}

	return "unknown"
}

// Error is returned by Coordinator.Discover. Stage is where the request was
// when it failed.
type Error struct {
	Kind    ErrorKind
	Stage   Stage
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Stage, e.Message, e.Err)
	}

	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ErrorKindUnknown
}

// IsInvalidInput reports whether err was caused by a bad request.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrorKindInvalidInput
}

// IsRegistryUnavailable reports whether err was caused by the registry.
func IsRegistryUnavailable(err error) bool {
	return kindOf(err) == ErrorKindRegistryUnavailable
}

// IsCanceled reports whether the request was canceled or timed out.
func IsCanceled(err error) bool {
	return kindOf(err) == ErrorKindCanceled
}

// classifiedError is implemented by provider errors that know their failure
// type, such as places.ProviderError.
type classifiedError interface {
	ErrorClass() string
}

// errorClass returns the failure type of a provider error, "unknown" when the
// provider did not classify it.
func errorClass(err error) string {
	var c classifiedError
	if errors.As(err, &c) {
		return c.ErrorClass()
	}

	return "unknown"
}

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindInvalidInput, Stage: StageValidating, Message: fmt.Sprintf(format, args...)}
}

func canceled(stage Stage, err error) *Error {
	return &Error{Kind: ErrorKindCanceled, Stage: stage, Message: "request canceled", Err: err}
}
