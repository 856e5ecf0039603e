package graph

import "errors"

// Sentinel errors for graph construction and execution.
var (
	ErrUnknownStage    = errors.New("unknown stage")
	ErrDuplicateStage  = errors.New("stage already registered")
	ErrNoEntryPoint    = errors.New("no entry point set")
	ErrNoResult        = errors.New("run drained without a terminal result")
	ErrMultipleResults = errors.New("run produced more than one terminal result")
)
