package esquery

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilterConfig signals a filter definition missing a mandatory field.
	ErrInvalidFilterConfig = errors.New("invalid filter config")
	// ErrUnknownFilter signals a filter handle absent from the registry.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrMalformedQueryDocument signals a document without the bool.must / bool.filter.bool.must shape.
	ErrMalformedQueryDocument = errors.New("malformed query document")
	// ErrNoSuchOperation signals a verb that is neither built in nor a registered filter.
	ErrNoSuchOperation = errors.New("no such operation")
	// ErrInvalidArgument signals a dispatched verb called with missing or mistyped arguments.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRegistryFrozen signals registration against a frozen registry.
	ErrRegistryFrozen = errors.New("filter registry is frozen")
)

// InvalidFilterConfigError names the first mandatory field missing from a FilterDefinition.
type InvalidFilterConfigError struct {
	Field string
}

func (e *InvalidFilterConfigError) Error() string {
	return fmt.Sprintf("cannot register filter: mandatory field %q missing from filter config", e.Field)
}

func (e *InvalidFilterConfigError) Unwrap() error { return ErrInvalidFilterConfig }

// UnknownFilterError carries the handle that failed to resolve.
type UnknownFilterError struct {
	Handle string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownFilter.Error(), e.Handle)
}

func (e *UnknownFilterError) Unwrap() error { return ErrUnknownFilter }

// MalformedDocumentError carries the path that was missing or had the wrong type.
type MalformedDocumentError struct {
	Path string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: expected %s", ErrMalformedQueryDocument.Error(), e.Path)
}

func (e *MalformedDocumentError) Unwrap() error { return ErrMalformedQueryDocument }

// NoSuchOperationError carries the verb that could not be dispatched.
type NoSuchOperationError struct {
	Verb string
}

func (e *NoSuchOperationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNoSuchOperation.Error(), e.Verb)
}

func (e *NoSuchOperationError) Unwrap() error { return ErrNoSuchOperation }
