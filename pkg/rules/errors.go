package rules

import "errors"

var (
	// ErrUnknownRule is returned when a rule name is not registered.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrInvalidArgument is returned when a rule argument cannot be decoded or is out of range.
	ErrInvalidArgument = errors.New("invalid rule argument")
	// ErrMalformedRule is returned when a rule document is not a single-key mapping.
	ErrMalformedRule = errors.New("rule must be a single-key mapping")
)
