// Package pipeline implements the document-classification pipeline: a graph
// of stages that routes a document, fans out to three concurrent analyzers,
// joins their results, short-circuits on a known-type match, and otherwise
// arbitrates between two competing rationalization decisions.
package pipeline

import "errors"

// Sentinel errors for pipeline execution.
var (
	ErrEmptyDocument       = errors.New("document must not be empty")
	ErrUnexpectedMessage   = errors.New("unexpected message type")
	ErrUnexpectedResult    = errors.New("unexpected terminal result type")
	ErrMissingContribution = errors.New("barrier fired with a missing contribution")
)
