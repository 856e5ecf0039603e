package api

import (
	"github.com/triagekit/triage/internal/runs"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Runs runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	runsSystem := runs.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Classify,
		runtime.Logger,
	)

	return &Domain{
		Runs: runsSystem,
	}
}
