package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/triagekit/triage/pkg/graph"
)

const genericRationalizePrompt = `You reconcile document classification
candidates against a registry of known types. Decide whether the document
maps to an existing type, maps as a variant, or needs a new type. Respond
with JSON: {"decision": "MAP"|"MAP_AS_VARIANT"|"CREATE_NEW",
"mapping_target": "...", "new_type_name": "...", "reasoning": "..."}.`

const contentRationalizePrompt = `You are a content taxonomy specialist.
Given a suggested content type that did not match the registry, decide
whether it maps to an existing type, maps as a variant of one, or warrants
a new type. Respond with JSON: {"decision": "MAP"|"MAP_AS_VARIANT"|
"CREATE_NEW", "mapping_target": "...", "new_type_name": "...",
"reasoning": "..."}.`

type rationalizerReply struct {
	Decision      string `json:"decision"`
	MappingTarget string `json:"mapping_target"`
	NewTypeName   string `json:"new_type_name"`
	Reasoning     string `json:"reasoning"`
}

func validDecision(d string) bool {
	switch Decision(d) {
	case DecisionCreateNew, DecisionMap, DecisionMapVariant:
		return true
	}
	return false
}

// GenericRationalizerStage returns the rationalizer that works from the
// merged candidate list. It maps to the strongest candidate when confidence
// is high, treats mid-confidence candidates as variants, and proposes a new
// type otherwise.
func GenericRationalizerStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		in, ok := msg.(RationalizerInput)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		result := rationalizeGeneric(in)

		if rt.Classify != nil {
			if reply, err := invoke[rationalizerReply](ctx, rt, genericRationalizePrompt, in.Search.Payload.Input); err == nil && validDecision(reply.Decision) {
				result = RationalizerOutput{
					Search:        in.Search,
					Source:        SourceGenericRationalizer,
					Decision:      Decision(reply.Decision),
					MappingTarget: reply.MappingTarget,
					NewTypeName:   reply.NewTypeName,
					Reasoning:     reply.Reasoning,
				}
			} else if err != nil {
				rt.logger().WarnContext(ctx, "generic rationalizer fell back to heuristic", "error", err)
			}
		}

		out.Send(result)
		return nil
	}
}

func rationalizeGeneric(in RationalizerInput) RationalizerOutput {
	result := RationalizerOutput{
		Search: in.Search,
		Source: SourceGenericRationalizer,
	}

	best := bestCandidate(in.Search.Payload.Candidates)

	switch {
	case best != nil && best.Confidence >= 0.85:
		result.Decision = DecisionMap
		result.MappingTarget = best.Type
		result.Reasoning = fmt.Sprintf("high-confidence candidate %q (%.2f) maps directly", best.Type, best.Confidence)
	case best != nil && best.Confidence >= 0.6:
		result.Decision = DecisionMapVariant
		result.MappingTarget = best.Type
		result.NewTypeName = variantLabel(in.Search)
		result.Reasoning = fmt.Sprintf("candidate %q (%.2f) treated as a variant", best.Type, best.Confidence)
	default:
		result.Decision = DecisionCreateNew
		result.NewTypeName = newTypeName(in.Search)
		result.Reasoning = "no candidate reached mapping confidence"
	}

	return result
}

func bestCandidate(candidates []Candidate) *Candidate {
	var best *Candidate
	for i := range candidates {
		if best == nil || candidates[i].Confidence > best.Confidence {
			best = &candidates[i]
		}
	}
	return best
}

func variantLabel(search SearchResult) string {
	if label := search.Payload.Suggestion.ContentType; label != "" && label != unknownContentType {
		return label
	}
	return search.Payload.Identification.DocumentType
}

func newTypeName(search SearchResult) string {
	if t := search.Payload.Identification.DocumentType; t != "" && t != defaultDocumentType {
		return t
	}
	return unknownContentType
}

// ContentTypeRationalizerStage returns the taxonomy-focused rationalizer.
// It compares the suggested label against the registry directly, falls back
// to the suggester's own cues over the document text, and proposes a new
// type only when neither yields a category.
func ContentTypeRationalizerStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		in, ok := msg.(RationalizerInput)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		result := rationalizeContentType(in)

		if rt.Classify != nil {
			if reply, err := invoke[rationalizerReply](ctx, rt, contentRationalizePrompt, in.Search.Payload.Input); err == nil && validDecision(reply.Decision) {
				result = RationalizerOutput{
					Search:        in.Search,
					Source:        SourceContentTypeRationalizer,
					Decision:      Decision(reply.Decision),
					MappingTarget: reply.MappingTarget,
					NewTypeName:   reply.NewTypeName,
					Reasoning:     reply.Reasoning,
				}
			} else if err != nil {
				rt.logger().WarnContext(ctx, "content-type rationalizer fell back to heuristic", "error", err)
			}
		}

		out.Send(result)
		return nil
	}
}

func rationalizeContentType(in RationalizerInput) RationalizerOutput {
	result := RationalizerOutput{
		Search: in.Search,
		Source: SourceContentTypeRationalizer,
	}

	label := in.Search.Payload.Suggestion.ContentType
	confidence := in.Search.Payload.Suggestion.Confidence

	if label != "" && label != unknownContentType {
		switch category, related := relatedCategory(label); {
		case related && confidence >= 0.6:
			result.Decision = DecisionMapVariant
			result.MappingTarget = category
			result.NewTypeName = label
			result.Reasoning = fmt.Sprintf("%q relates to %q as a variant", label, category)
			return result
		case confidence >= 0.7:
			result.Decision = DecisionCreateNew
			result.NewTypeName = label
			result.Reasoning = fmt.Sprintf("confident suggestion %q has no registry counterpart", label)
			return result
		}
	}

	if category, _ := matchContentCue(in.Search.Payload.Input.Document); category != unknownContentType {
		if _, known := registryCategory(category); known {
			result.Decision = DecisionMapVariant
			result.MappingTarget = category
			result.NewTypeName = label
			result.Reasoning = fmt.Sprintf("document cues indicate %q", category)
			return result
		}
	}

	result.Decision = DecisionCreateNew
	result.NewTypeName = label
	if result.NewTypeName == "" || result.NewTypeName == unknownContentType {
		result.NewTypeName = newTypeName(in.Search)
	}
	result.Reasoning = "no registry category fits the document"
	return result
}

func registryCategory(label string) (string, bool) {
	for _, kt := range knownTypes {
		if kt.name == label {
			return kt.name, true
		}
	}
	return "", false
}

// relatedCategory looks for word overlap between the label and a registry
// entry, a looser comparison than the registry search that already failed
// upstream. "Service Invoice Statement" still relates to "Invoice". Category
// names are checked across the whole registry before variants so a label
// that names a category outright is never claimed by another entry's
// variant terms.
func relatedCategory(label string) (string, bool) {
	words := strings.Fields(strings.ToLower(label))

	for _, kt := range knownTypes {
		if overlaps(words, kt.name) {
			return kt.name, true
		}
	}

	for _, kt := range knownTypes {
		for _, variant := range kt.variants {
			if overlaps(words, variant) {
				return kt.name, true
			}
		}
	}

	return "", false
}

func overlaps(words []string, term string) bool {
	for _, termWord := range strings.Fields(strings.ToLower(term)) {
		if len(termWord) < 3 {
			continue
		}
		if slices.Contains(words, termWord) {
			return true
		}
	}
	return false
}

// RationalizationBarrierStage returns the barrier that waits for both
// rationalizer outputs, keyed by source, before emitting the combined pair.
func RationalizationBarrierStage(rt *Runtime) graph.Handler {
	join := graph.NewJoin[string, RationalizerOutput](2)

	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		output, ok := msg.(RationalizerOutput)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		parts, complete := join.Add(output.Source, output)
		if !complete {
			rt.logger().DebugContext(ctx, "rationalization pending", "source", output.Source)
			return nil
		}

		generic, hasGeneric := parts[SourceGenericRationalizer]
		contentType, hasContentType := parts[SourceContentTypeRationalizer]
		if !hasGeneric || !hasContentType {
			return fmt.Errorf("%w: generic=%t content-type=%t", ErrMissingContribution, hasGeneric, hasContentType)
		}

		out.Send(CombinedRationalizerOutput{
			Search:      output.Search,
			Generic:     generic,
			ContentType: contentType,
		})
		return nil
	}
}
