package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/triagekit/triage/pkg/graph"
)

// knownType is a registry entry: a canonical type name plus accepted
// variants. Synonym matching compares substrings in both directions so
// that "Service Agreement Draft" still reaches "Legal Contract".
type knownType struct {
	name     string
	variants []string
}

var knownTypes = []knownType{
	{"Legal Contract", []string{"Contract", "Agreement", "Service Agreement", "Terms of Service"}},
	{"Invoice", []string{"Bill", "Billing Statement", "Receipt"}},
	{"Purchase Order", []string{"PO", "Order Form"}},
	{"Report", []string{"Annual Report", "Status Report", "Summary Report"}},
	{"Letter", []string{"Correspondence", "Cover Letter", "Memo"}},
	{"Email", []string{"E-mail", "Electronic Mail", "Message"}},
	{"Technical Manual", []string{"Manual", "User Guide", "Handbook", "Instructions"}},
	{"Resume", []string{"CV", "Curriculum Vitae"}},
}

const matchConfidence = 0.95

// MatchStage returns the known-type lookup stage. It searches the registry
// for the suggested content type and forwards the search outcome either way;
// branching on the outcome belongs to the next stage.
func MatchStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		payload, ok := msg.(UnifiedPayload)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		result := searchKnownTypes(payload)

		rt.logger().DebugContext(ctx, "known-type search",
			"query", payload.Suggestion.ContentType,
			"found", result.Found,
			"matched", result.MatchedTerm,
		)

		out.Send(result)
		return nil
	}
}

func searchKnownTypes(payload UnifiedPayload) SearchResult {
	query := strings.TrimSpace(payload.Suggestion.ContentType)
	result := SearchResult{Payload: payload}

	if query == "" || strings.EqualFold(query, unknownContentType) {
		return result
	}

	for _, kt := range knownTypes {
		if strings.EqualFold(query, kt.name) {
			result.Found = true
			result.MatchedTerm = kt.name
			result.Kind = MatchExact
			return result
		}
	}

	for _, kt := range knownTypes {
		for _, variant := range kt.variants {
			if strings.EqualFold(query, variant) {
				result.Found = true
				result.MatchedTerm = kt.name
				result.Kind = MatchVariant
				return result
			}
		}
	}

	lower := strings.ToLower(query)
	for _, kt := range knownTypes {
		terms := append([]string{kt.name}, kt.variants...)
		for _, term := range terms {
			lowerTerm := strings.ToLower(term)
			if strings.Contains(lower, lowerTerm) || strings.Contains(lowerTerm, lower) {
				result.Found = true
				result.MatchedTerm = kt.name
				result.Kind = MatchSynonym
				return result
			}
		}
	}

	return result
}

// BranchStage returns the stage that short-circuits matched documents. A
// registry hit finishes the run immediately with a high-confidence match
// candidate; everything else continues into rationalization.
func BranchStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		result, ok := msg.(SearchResult)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		if !result.Found {
			out.Send(RationalizerInput{Search: result})
			return nil
		}

		candidates := slices.Clone(result.Payload.Candidates)
		candidates = append(candidates, Candidate{
			Type:       result.MatchedTerm,
			Confidence: matchConfidence,
			Source:     fmt.Sprintf("%s:%s", sourceKnownTypeMatcher, result.Kind),
		})

		rt.logger().InfoContext(ctx, "matched known type",
			"type", result.MatchedTerm,
			"kind", result.Kind,
		)

		out.Finish(&Output{
			Candidates: candidates,
			Path:       result.Payload.Path,
		})
		return nil
	}
}
