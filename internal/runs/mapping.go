package runs

import (
	"encoding/json"
	"fmt"

	"github.com/triagekit/triage/pipeline"
	"github.com/triagekit/triage/pkg/repository"
)

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	var candidatesRaw []byte

	err := s.Scan(
		&r.ID,
		&r.Document,
		&r.Path,
		&r.Decision,
		&r.SelectedSource,
		&r.Rationale,
		&candidatesRaw,
		&r.DurationMS,
		&r.CreatedAt,
	)
	if err != nil {
		return r, err
	}

	if len(candidatesRaw) > 0 {
		if err := json.Unmarshal(candidatesRaw, &r.Candidates); err != nil {
			return r, fmt.Errorf("unmarshal candidates: %w", err)
		}
	}
	if r.Candidates == nil {
		r.Candidates = []pipeline.Candidate{}
	}

	return r, nil
}

func marshalCandidates(candidates []pipeline.Candidate) ([]byte, error) {
	if candidates == nil {
		candidates = []pipeline.Candidate{}
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}
	return data, nil
}
