package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/triagekit/triage/pkg/repository"
)

const runColumns = `
	id, document, path, decision, selected_source,
	rationale, candidates, duration_ms, created_at`

const insertRunQuery = `
	INSERT INTO runs (
		id, document, path, decision, selected_source,
		rationale, candidates, duration_ms
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING` + runColumns

const findRunQuery = `
	SELECT` + runColumns + `
	FROM runs
	WHERE id = $1`

const listRunsQuery = `
	SELECT` + runColumns + `
	FROM runs
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

const searchRunsQuery = `
	SELECT` + runColumns + `
	FROM runs
	WHERE document ILIKE '%' || $1 || '%'
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3`

const countRunsQuery = `SELECT COUNT(*) FROM runs`

const countSearchRunsQuery = `
	SELECT COUNT(*) FROM runs
	WHERE document ILIKE '%' || $1 || '%'`

const deleteRunQuery = `DELETE FROM runs WHERE id = $1`

func insertRun(ctx context.Context, q repository.Querier, run *Run) (Run, error) {
	candidates, err := marshalCandidates(run.Candidates)
	if err != nil {
		return Run{}, err
	}

	created, err := repository.QueryOne(ctx, q, scanRun, insertRunQuery,
		run.ID, run.Document, run.Path, run.Decision,
		run.SelectedSource, run.Rationale, candidates, run.DurationMS,
	)
	return created, repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func findRun(ctx context.Context, q repository.Querier, id uuid.UUID) (Run, error) {
	run, err := repository.QueryOne(ctx, q, scanRun, findRunQuery, id)
	return run, repository.MapError(err, ErrNotFound, ErrDuplicate)
}

func listRuns(ctx context.Context, q repository.Querier, search string, limit, offset int) ([]Run, error) {
	if search == "" {
		return repository.QueryMany(ctx, q, scanRun, listRunsQuery, limit, offset)
	}
	return repository.QueryMany(ctx, q, scanRun, searchRunsQuery, search, limit, offset)
}

func countRuns(ctx context.Context, q repository.Querier, search string) (int, error) {
	if search == "" {
		return repository.Count(ctx, q, countRunsQuery)
	}
	return repository.Count(ctx, q, countSearchRunsQuery, search)
}

func deleteRun(ctx context.Context, e repository.Executor, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, e, deleteRunQuery, id)
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}
