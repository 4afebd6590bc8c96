package main

import "errors"

var (
	// ErrNotFound is returned when an operation references a node or link id
	// the diagram does not hold. The diagram is left unchanged.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed input: a bad load payload, a
	// snapshot with dangling links, a non-positive size.
	ErrValidation = errors.New("validation error")

	// ErrRenderTargetMissing is returned by exports when there is no rendered
	// surface to flatten.
	ErrRenderTargetMissing = errors.New("nothing to export")
)
