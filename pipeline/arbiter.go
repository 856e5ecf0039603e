package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/triagekit/triage/pkg/graph"
)

// SelectionStage returns the arbiter that picks one rationalizer output from
// the combined pair. Selection is deterministic; the same pair always yields
// the same winner.
func SelectionStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		combined, ok := msg.(CombinedRationalizerOutput)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		result := arbitrate(combined)

		rt.logger().InfoContext(ctx, "selected rationalization",
			"source", result.Selected.Source,
			"decision", result.Selected.Decision,
			"rationale", result.Rationale,
		)

		out.Send(result)
		return nil
	}
}

// arbitrate applies the selection rules in order. Concrete mappings beat
// new-type proposals, the content-type specialist wins ties, and variant
// mappings beat new types.
func arbitrate(combined CombinedRationalizerOutput) SelectionResult {
	generic := combined.Generic
	contentType := combined.ContentType

	switch {
	case generic.Decision == DecisionMap && contentType.Decision == DecisionCreateNew:
		return SelectionResult{
			Selected:  generic,
			Rationale: "generic rationalizer found a concrete mapping",
		}
	case contentType.Decision == DecisionMap && generic.Decision == DecisionCreateNew:
		return SelectionResult{
			Selected:  contentType,
			Rationale: "content-type rationalizer found a concrete mapping",
		}
	case generic.Decision == contentType.Decision:
		return SelectionResult{
			Selected:  contentType,
			Rationale: "equal decisions defer to the content-type specialist",
		}
	case contentType.Decision == DecisionMapVariant:
		return SelectionResult{
			Selected:  contentType,
			Rationale: "variant mapping preferred over creating a new type",
		}
	case generic.Decision == DecisionMapVariant:
		return SelectionResult{
			Selected:  generic,
			Rationale: "variant mapping preferred over creating a new type",
		}
	case contentType.Decision == DecisionCreateNew && contentType.NewTypeName != "" && contentType.NewTypeName != unknownContentType:
		return SelectionResult{
			Selected:  contentType,
			Rationale: "content-type rationalizer proposed a named new type",
		}
	default:
		return SelectionResult{
			Selected:  contentType,
			Rationale: "content-type specialist preferred by default",
		}
	}
}

const (
	mapConfidence       = 0.90
	variantConfidence   = 0.85
	varParentConfidence = 0.70
	newTypeConfidence   = 0.75
	fallbackConfidence  = 0.50
	fallbackType        = "Unclassified"
	newTypePlaceholder  = "New Document Type"
)

// AssemblyStage returns the terminal stage that turns the selected
// rationalization into the run output. Candidates gathered during analysis
// are preserved and the decision's candidates are appended after them.
func AssemblyStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		result, ok := msg.(SelectionResult)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		out.Finish(assemble(result))
		return nil
	}
}

func assemble(result SelectionResult) *Output {
	selected := result.Selected
	source := fmt.Sprintf("%s:%s", sourceRationalizer, selected.Source)
	candidates := slices.Clone(selected.Search.Payload.Candidates)

	switch selected.Decision {
	case DecisionMap:
		candidates = append(candidates, Candidate{
			Type:       selected.MappingTarget,
			Confidence: mapConfidence,
			Source:     source,
		})
	case DecisionMapVariant:
		name := selected.NewTypeName
		if name == "" {
			name = selected.MappingTarget
		}
		candidates = append(candidates,
			Candidate{
				Type:       name,
				Confidence: variantConfidence,
				Source:     source,
			},
			Candidate{
				Type:       selected.MappingTarget,
				Confidence: varParentConfidence,
				Source:     source,
			},
		)
	case DecisionCreateNew:
		name := selected.NewTypeName
		if name == "" {
			name = newTypePlaceholder
		}
		candidates = append(candidates, Candidate{
			Type:       name,
			Confidence: newTypeConfidence,
			Source:     source,
		})
	default:
		candidates = append(candidates, Candidate{
			Type:       fallbackType,
			Confidence: fallbackConfidence,
			Source:     source,
		})
	}

	return &Output{
		Candidates:     candidates,
		Path:           selected.Search.Payload.Path,
		SelectedSource: selected.Source,
		Decision:       selected.Decision,
		Rationale:      result.Rationale,
	}
}
