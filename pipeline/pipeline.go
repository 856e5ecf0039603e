package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/triagekit/triage/pkg/classifier"
	"github.com/triagekit/triage/pkg/formatting"
	"github.com/triagekit/triage/pkg/graph"
)

// Stage names used when assembling the classification graph.
const (
	stageRoute              = "route"
	stagePIAnalysis         = "analyze-pi"
	stageContentType        = "analyze-content-type"
	stageGenericIdentify    = "analyze-generic"
	stageMerge              = "merge"
	stageMatch              = "match"
	stageBranch             = "branch"
	stageGenericRationalize = "rationalize-generic"
	stageContentRationalize = "rationalize-content-type"
	stageRationalizeBarrier = "rationalize-merge"
	stageSelect             = "select"
	stageAssemble           = "assemble"
)

// Runtime bundles the dependencies the pipeline stages require. Classify may
// be nil, in which case every stage uses its heuristic fallback. Observer
// receives per-stage transition events when set.
type Runtime struct {
	Classify classifier.Func
	Logger   *slog.Logger
	Observer graph.Observer
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return rt.Logger
}

// Execute runs the classification pipeline for a single document. It builds
// a fresh graph (fresh barrier state) per run, executes it, and extracts the
// terminal Output. A run yields exactly one Output: either the short-circuit
// known-type match or the arbitrated rationalization result.
func Execute(ctx context.Context, rt *Runtime, input Input) (*Output, error) {
	if input.Document == "" {
		return nil, ErrEmptyDocument
	}

	g, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	result, err := g.Execute(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	output, ok := result.(*Output)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedResult, result)
	}
	return output, nil
}

func buildGraph(rt *Runtime) (*graph.Graph, error) {
	g := graph.New(graph.Config{
		Name:     "triage-classify",
		Observer: rt.Observer,
	})

	stages := []struct {
		name    string
		handler graph.Handler
	}{
		{stageRoute, RouteStage(rt)},
		{stagePIAnalysis, PIAnalysisStage(rt)},
		{stageContentType, ContentTypeStage(rt)},
		{stageGenericIdentify, GenericIdentificationStage(rt)},
		{stageMerge, MergeStage(rt)},
		{stageMatch, MatchStage(rt)},
		{stageBranch, BranchStage(rt)},
		{stageGenericRationalize, GenericRationalizerStage(rt)},
		{stageContentRationalize, ContentTypeRationalizerStage(rt)},
		{stageRationalizeBarrier, RationalizationBarrierStage(rt)},
		{stageSelect, SelectionStage(rt)},
		{stageAssemble, AssemblyStage(rt)},
	}
	for _, s := range stages {
		if err := g.AddStage(s.name, s.handler); err != nil {
			return nil, err
		}
	}

	edges := []struct {
		from, to string
	}{
		// route fans out to the three concurrent analyzers
		{stageRoute, stagePIAnalysis},
		{stageRoute, stageContentType},
		{stageRoute, stageGenericIdentify},

		// analyzers fan in at the merge barrier
		{stagePIAnalysis, stageMerge},
		{stageContentType, stageMerge},
		{stageGenericIdentify, stageMerge},

		{stageMerge, stageMatch},
		{stageMatch, stageBranch},

		// branch short-circuits on a match; otherwise fans out to both
		// rationalizers
		{stageBranch, stageGenericRationalize},
		{stageBranch, stageContentRationalize},

		{stageGenericRationalize, stageRationalizeBarrier},
		{stageContentRationalize, stageRationalizeBarrier},

		{stageRationalizeBarrier, stageSelect},
		{stageSelect, stageAssemble},
	}
	for _, e := range edges {
		if err := g.AddEdge(e.from, e.to, nil); err != nil {
			return nil, err
		}
	}

	if err := g.SetEntryPoint(stageRoute); err != nil {
		return nil, err
	}

	return g, nil
}

// maxExcerptLen caps the document text sent to the external classifier.
const maxExcerptLen = 4000

func excerpt(document string) string {
	if len(document) <= maxExcerptLen {
		return document
	}

	cut := maxExcerptLen
	for cut > 0 && !utf8.RuneStart(document[cut]) {
		cut--
	}
	return document[:cut]
}

// invoke calls the external classifier with a stage prompt and decodes its
// JSON reply. Callers treat any error as a signal to keep their heuristic
// result.
func invoke[T any](ctx context.Context, rt *Runtime, prompt string, input Input) (T, error) {
	var zero T

	reply, err := rt.Classify(ctx, prompt, excerpt(input.Document))
	if err != nil {
		return zero, err
	}

	return formatting.Parse[T](reply)
}
