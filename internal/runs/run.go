// Package runs owns classification run records: executing the pipeline for
// a submitted document, persisting the outcome, and archiving the full
// result payload to blob storage.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/triagekit/triage/pipeline"
)

// Run is a persisted classification run.
type Run struct {
	ID             uuid.UUID            `json:"id"`
	Document       string               `json:"document"`
	Path           pipeline.Path        `json:"path"`
	Decision       pipeline.Decision    `json:"decision,omitempty"`
	SelectedSource string               `json:"selected_source,omitempty"`
	Rationale      string               `json:"rationale,omitempty"`
	Candidates     []pipeline.Candidate `json:"candidates"`
	DurationMS     int64                `json:"duration_ms"`
	CreatedAt      time.Time            `json:"created_at"`
}

// ClassifyRequest is the body for submitting a document.
type ClassifyRequest struct {
	Document    string                `json:"document"`
	Classifiers []pipeline.Classifier `json:"classifiers,omitempty"`
}
