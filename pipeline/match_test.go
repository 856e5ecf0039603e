package pipeline

import (
	"context"
	"testing"

	"github.com/triagekit/triage/pkg/graph"
)

func payloadWithSuggestion(label string, confidence float64) UnifiedPayload {
	return UnifiedPayload{
		Input:      Input{Document: "body"},
		Path:       PathStandard,
		Suggestion: ContentTypeSuggestion{ContentType: label, Confidence: confidence},
	}
}

func TestSearchKnownTypes(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		found   bool
		matched string
		kind    MatchKind
	}{
		{
			name:    "exact match",
			query:   "Invoice",
			found:   true,
			matched: "Invoice",
			kind:    MatchExact,
		},
		{
			name:    "exact match is case insensitive",
			query:   "legal contract",
			found:   true,
			matched: "Legal Contract",
			kind:    MatchExact,
		},
		{
			name:    "variant match",
			query:   "Terms of Service",
			found:   true,
			matched: "Legal Contract",
			kind:    MatchVariant,
		},
		{
			name:    "variant match canonicalizes",
			query:   "User Guide",
			found:   true,
			matched: "Technical Manual",
			kind:    MatchVariant,
		},
		{
			name:    "synonym match by substring",
			query:   "Service Agreement Draft",
			found:   true,
			matched: "Legal Contract",
			kind:    MatchSynonym,
		},
		{
			name:  "unknown label never matches",
			query: unknownContentType,
			found: false,
		},
		{
			name:  "empty label never matches",
			query: "",
			found: false,
		},
		{
			name:  "novel label",
			query: "Whitepaper",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := searchKnownTypes(payloadWithSuggestion(tt.query, 0.8))

			if result.Found != tt.found {
				t.Fatalf("expected found=%t, got %t (%+v)", tt.found, result.Found, result)
			}
			if !tt.found {
				return
			}
			if result.MatchedTerm != tt.matched {
				t.Errorf("expected matched term %q, got %q", tt.matched, result.MatchedTerm)
			}
			if result.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, result.Kind)
			}
		})
	}
}

func TestBranchStageShortCircuitsOnMatch(t *testing.T) {
	stage := BranchStage(&Runtime{})
	payload := payloadWithSuggestion("Invoice", 0.85)
	payload.Candidates = []Candidate{
		{Type: "Invoice", Confidence: 0.85, Source: SourceContentTypeSuggester},
	}

	var out graph.Outbox
	err := stage(context.Background(), SearchResult{
		Payload:     payload,
		Found:       true,
		MatchedTerm: "Invoice",
		Kind:        MatchExact,
	}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, done := out.Result()
	if !done {
		t.Fatal("expected the stage to finish the run")
	}
	if len(out.Sent()) != 0 {
		t.Fatalf("expected no forwarded messages, got %d", len(out.Sent()))
	}

	output := result.(*Output)
	last := output.Candidates[len(output.Candidates)-1]
	if last.Type != "Invoice" || last.Confidence != matchConfidence {
		t.Errorf("expected match candidate at %.2f, got %+v", matchConfidence, last)
	}
	if last.Source != "KnownTypeMatcher:exact" {
		t.Errorf("unexpected candidate source %q", last.Source)
	}
	if len(output.Candidates) != 2 {
		t.Errorf("expected analysis candidates preserved, got %v", output.Candidates)
	}
}

func TestBranchStageForwardsMisses(t *testing.T) {
	stage := BranchStage(&Runtime{})

	var out graph.Outbox
	err := stage(context.Background(), SearchResult{
		Payload: payloadWithSuggestion("Whitepaper", 0.55),
	}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, done := out.Result(); done {
		t.Fatal("expected no terminal result on a miss")
	}
	if len(out.Sent()) != 1 {
		t.Fatalf("expected one forwarded message, got %d", len(out.Sent()))
	}
	if _, ok := out.Sent()[0].(RationalizerInput); !ok {
		t.Errorf("expected RationalizerInput, got %T", out.Sent()[0])
	}
}
