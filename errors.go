package uistate

import "errors"

var (
	// ErrUnknownNamespace is returned when a key does not name a registered namespace.
	ErrUnknownNamespace = errors.New("uistate: unknown namespace")
	// ErrUnknownSlot is returned when a string does not name a slot.
	ErrUnknownSlot = errors.New("uistate: unknown slot")
	// ErrInvalidJSON is returned when a raw value is not valid JSON.
	ErrInvalidJSON = errors.New("uistate: invalid json")
	// ErrNoEvaluator is returned when no expression engine is available.
	ErrNoEvaluator = errors.New("uistate: evaluator not configured")
)
