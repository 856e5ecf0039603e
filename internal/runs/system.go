package runs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/triagekit/triage/pipeline"
	"github.com/triagekit/triage/pkg/classifier"
	"github.com/triagekit/triage/pkg/graph"
	"github.com/triagekit/triage/pkg/pagination"
	"github.com/triagekit/triage/pkg/repository"
	"github.com/triagekit/triage/pkg/storage"
)

// System provides classification run operations.
type System interface {
	// Classify runs the pipeline for the request's document and persists
	// the outcome.
	Classify(ctx context.Context, req ClassifyRequest) (Run, error)
	// Find returns a run by id.
	Find(ctx context.Context, id uuid.UUID) (Run, error)
	// List returns a page of runs, newest first, optionally filtered by a
	// document text search.
	List(ctx context.Context, page pagination.PageRequest, search string) (pagination.PageResult[Run], error)
	// Archive returns the archived result payload for a run. The caller
	// closes the reader.
	Archive(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
	// Delete removes a run and its archived payload.
	Delete(ctx context.Context, id uuid.UUID) error
}

type system struct {
	db       *sql.DB
	store    storage.System
	classify classifier.Func
	logger   *slog.Logger
}

// New creates the runs system.
func New(db *sql.DB, store storage.System, classify classifier.Func, logger *slog.Logger) System {
	return &system{
		db:       db,
		store:    store,
		classify: classify,
		logger:   logger.With("system", "runs"),
	}
}

func (s *system) Classify(ctx context.Context, req ClassifyRequest) (Run, error) {
	rt := &pipeline.Runtime{
		Classify: s.classify,
		Logger:   s.logger,
		Observer: graph.SlogObserver(s.logger),
	}

	started := time.Now()
	output, err := pipeline.Execute(ctx, rt, pipeline.Input{
		Document:    req.Document,
		Classifiers: req.Classifiers,
	})
	if err != nil {
		return Run{}, fmt.Errorf("classify document: %w", err)
	}
	duration := time.Since(started)

	run := &Run{
		ID:             uuid.New(),
		Document:       req.Document,
		Path:           output.Path,
		Decision:       output.Decision,
		SelectedSource: output.SelectedSource,
		Rationale:      output.Rationale,
		Candidates:     output.Candidates,
		DurationMS:     duration.Milliseconds(),
	}

	created, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Run, error) {
		return insertRun(ctx, tx, run)
	})
	if err != nil {
		return Run{}, err
	}

	s.archive(ctx, created, output)

	s.logger.Info("run classified",
		"id", created.ID,
		"path", created.Path,
		"decision", created.Decision,
		"candidates", len(created.Candidates),
		"duration", duration,
	)

	return created, nil
}

// archive uploads the full pipeline output for later retrieval. The run row
// is the primary record; a failed upload is logged, not returned.
func (s *system) archive(ctx context.Context, run Run, output *pipeline.Output) {
	payload, err := json.Marshal(output)
	if err != nil {
		s.logger.Error("archive marshal failed", "id", run.ID, "error", err)
		return
	}

	key := archiveKey(run.ID)
	if err := s.store.Upload(ctx, key, bytes.NewReader(payload), "application/json"); err != nil {
		s.logger.Error("archive upload failed", "id", run.ID, "key", key, "error", err)
	}
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (Run, error) {
	return findRun(ctx, s.db, id)
}

func (s *system) List(ctx context.Context, page pagination.PageRequest, search string) (pagination.PageResult[Run], error) {
	var zero pagination.PageResult[Run]

	total, err := countRuns(ctx, s.db, search)
	if err != nil {
		return zero, err
	}

	items, err := listRuns(ctx, s.db, search, page.PageSize, page.Offset())
	if err != nil {
		return zero, err
	}

	return pagination.NewPageResult(items, total, page.Page, page.PageSize), nil
}

func (s *system) Archive(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	if _, err := findRun(ctx, s.db, id); err != nil {
		return nil, err
	}
	return s.store.Download(ctx, archiveKey(id))
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteRun(ctx, s.db, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, archiveKey(id)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("archive delete failed", "id", id, "error", err)
	}

	return nil
}

func archiveKey(id uuid.UUID) string {
	return fmt.Sprintf("runs/%s.json", id)
}
