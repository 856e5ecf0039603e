package pipeline

import (
	"context"
	"fmt"

	"github.com/triagekit/triage/pkg/graph"
)

type analysisKind string

const (
	analysisPI          analysisKind = "pi"
	analysisContentType analysisKind = "content-type"
	analysisGeneric     analysisKind = "generic"
)

const (
	piCandidateType       = "PI-Sensitive Document"
	piCandidateConfidence = 0.95
	genericConfidence     = 0.75
)

// MergeStage returns the barrier that collects all three analysis results
// before emitting a unified payload. The barrier holds partial contributions
// until the third arrives; nothing is forwarded early.
func MergeStage(rt *Runtime) graph.Handler {
	join := graph.NewJoin[analysisKind, any](3)

	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		var kind analysisKind
		switch msg.(type) {
		case PIResult:
			kind = analysisPI
		case ContentTypeSuggestion:
			kind = analysisContentType
		case GenericIdentification:
			kind = analysisGeneric
		default:
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		parts, complete := join.Add(kind, msg)
		if !complete {
			rt.logger().DebugContext(ctx, "merge pending", "kind", kind, "received", join.Pending())
			return nil
		}

		out.Send(buildPayload(parts))
		return nil
	}
}

func buildPayload(parts map[analysisKind]any) UnifiedPayload {
	pi := parts[analysisPI].(PIResult)
	suggestion := parts[analysisContentType].(ContentTypeSuggestion)
	identification := parts[analysisGeneric].(GenericIdentification)

	var candidates []Candidate

	if suggestion.ContentType != "" && suggestion.ContentType != unknownContentType {
		candidates = append(candidates, Candidate{
			Type:       suggestion.ContentType,
			Confidence: suggestion.Confidence,
			Source:     SourceContentTypeSuggester,
		})
	}

	if identification.DocumentType != "" && identification.DocumentType != defaultDocumentType {
		candidates = append(candidates, Candidate{
			Type:       identification.DocumentType,
			Confidence: genericConfidence,
			Source:     SourceGenericIdentifier,
		})
	}

	if pi.Detected {
		candidates = append(candidates, Candidate{
			Type:       piCandidateType,
			Confidence: piCandidateConfidence,
			Source:     SourcePIDetector,
		})
	}

	return UnifiedPayload{
		Input:          pi.Input,
		Path:           pi.Path,
		PI:             pi,
		Suggestion:     suggestion,
		Identification: identification,
		Candidates:     candidates,
	}
}
