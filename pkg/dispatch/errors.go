package dispatch

import (
	"errors"
)

var (
	// ErrUnresolvable means the classifier produced no confident mapping,
	// or named a handler that is not registered. Surfaced to the user as a
	// clarification request, never as a failure.
	ErrUnresolvable = errors.New("intent unresolvable")

	// ErrClassifierUnavailable means the classifier call itself failed
	// (network, timeout, auth). Kept distinct from ErrUnresolvable so the
	// caller can tell "could not understand" from "could not reach the
	// language model service".
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrRegistryFrozen is returned when registering after dispatch began.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrUnknownHandler is returned for lookups of unregistered names.
	ErrUnknownHandler = errors.New("unknown handler")
)
