package pipeline

import (
	"context"
	"testing"

	"github.com/triagekit/triage/pkg/graph"
)

func rationalizerInput(payload UnifiedPayload) RationalizerInput {
	return RationalizerInput{Search: SearchResult{Payload: payload}}
}

func TestRationalizeGeneric(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		decision   Decision
		target     string
	}{
		{
			name: "high confidence candidate maps",
			candidates: []Candidate{
				{Type: "Invoice", Confidence: 0.9, Source: SourceContentTypeSuggester},
			},
			decision: DecisionMap,
			target:   "Invoice",
		},
		{
			name: "mid confidence candidate maps as variant",
			candidates: []Candidate{
				{Type: "Report", Confidence: 0.7, Source: SourceGenericIdentifier},
			},
			decision: DecisionMapVariant,
			target:   "Report",
		},
		{
			name: "strongest candidate wins",
			candidates: []Candidate{
				{Type: "Letter", Confidence: 0.65, Source: SourceContentTypeSuggester},
				{Type: "Email", Confidence: 0.88, Source: SourceGenericIdentifier},
			},
			decision: DecisionMap,
			target:   "Email",
		},
		{
			name: "weak candidates create a new type",
			candidates: []Candidate{
				{Type: "Whitepaper", Confidence: 0.55, Source: SourceContentTypeSuggester},
			},
			decision: DecisionCreateNew,
		},
		{
			name:       "no candidates create a new type",
			candidates: nil,
			decision:   DecisionCreateNew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := payloadWithSuggestion("Whitepaper", 0.55)
			payload.Candidates = tt.candidates

			result := rationalizeGeneric(rationalizerInput(payload))

			if result.Source != SourceGenericRationalizer {
				t.Errorf("expected source %q, got %q", SourceGenericRationalizer, result.Source)
			}
			if result.Decision != tt.decision {
				t.Fatalf("expected decision %q, got %q (%s)", tt.decision, result.Decision, result.Reasoning)
			}
			if tt.target != "" && result.MappingTarget != tt.target {
				t.Errorf("expected target %q, got %q", tt.target, result.MappingTarget)
			}
			if result.Reasoning == "" {
				t.Error("expected reasoning to be populated")
			}
		})
	}
}

func TestRationalizeContentType(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		label      string
		confidence float64
		decision   Decision
		target     string
		newType    string
	}{
		{
			name:       "related label maps as variant",
			document:   "body",
			label:      "Service Invoice Statement",
			confidence: 0.8,
			decision:   DecisionMapVariant,
			target:     "Invoice",
			newType:    "Service Invoice Statement",
		},
		{
			name:       "confident novel label creates a new type",
			document:   "body",
			label:      "Datasheet",
			confidence: 0.8,
			decision:   DecisionCreateNew,
			newType:    "Datasheet",
		},
		{
			name:       "weak novel label falls back to document cues",
			document:   "Invoice #9 attached. Amount due on receipt.",
			label:      "Billing Note",
			confidence: 0.5,
			decision:   DecisionMapVariant,
			target:     "Invoice",
		},
		{
			name:       "weak label with no cues creates a new type",
			document:   "Mist rolled over the harbor before dawn.",
			label:      "Whitepaper",
			confidence: 0.55,
			decision:   DecisionCreateNew,
			newType:    "Whitepaper",
		},
		{
			name:       "unknown label with no cues creates a new type",
			document:   "Mist rolled over the harbor before dawn.",
			label:      unknownContentType,
			confidence: defaultConfidence,
			decision:   DecisionCreateNew,
			newType:    unknownContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := payloadWithSuggestion(tt.label, tt.confidence)
			payload.Input.Document = tt.document

			result := rationalizeContentType(rationalizerInput(payload))

			if result.Source != SourceContentTypeRationalizer {
				t.Errorf("expected source %q, got %q", SourceContentTypeRationalizer, result.Source)
			}
			if result.Decision != tt.decision {
				t.Fatalf("expected decision %q, got %q (%s)", tt.decision, result.Decision, result.Reasoning)
			}
			if tt.target != "" && result.MappingTarget != tt.target {
				t.Errorf("expected target %q, got %q", tt.target, result.MappingTarget)
			}
			if tt.newType != "" && result.NewTypeName != tt.newType {
				t.Errorf("expected new type %q, got %q", tt.newType, result.NewTypeName)
			}
		})
	}
}

func TestRelatedCategory(t *testing.T) {
	tests := []struct {
		label    string
		category string
		related  bool
	}{
		{"Service Invoice Statement", "Invoice", true},
		{"Service Report", "Report", true},
		{"Cover Letter Draft", "Letter", true},
		{"Annual Report Summary", "Report", true},
		{"Service Agreement Addendum", "Legal Contract", true},
		{"Whitepaper", "", false},
		{"Datasheet", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			category, related := relatedCategory(tt.label)
			if related != tt.related || category != tt.category {
				t.Errorf("expected (%q, %t), got (%q, %t)", tt.category, tt.related, category, related)
			}
		})
	}
}

func TestRationalizationBarrierStage(t *testing.T) {
	stage := RationalizationBarrierStage(&Runtime{})
	search := SearchResult{Payload: payloadWithSuggestion("Whitepaper", 0.55)}

	generic := RationalizerOutput{Search: search, Source: SourceGenericRationalizer, Decision: DecisionCreateNew}
	contentType := RationalizerOutput{Search: search, Source: SourceContentTypeRationalizer, Decision: DecisionCreateNew, NewTypeName: "Whitepaper"}

	var first graph.Outbox
	if err := stage(context.Background(), generic, &first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Sent()) != 0 {
		t.Fatal("expected the barrier to hold the first contribution")
	}

	var second graph.Outbox
	if err := stage(context.Background(), contentType, &second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Sent()) != 1 {
		t.Fatalf("expected one combined output, got %d", len(second.Sent()))
	}

	combined := second.Sent()[0].(CombinedRationalizerOutput)
	if combined.Generic.Source != SourceGenericRationalizer {
		t.Errorf("expected generic contribution, got %+v", combined.Generic)
	}
	if combined.ContentType.NewTypeName != "Whitepaper" {
		t.Errorf("expected content-type contribution, got %+v", combined.ContentType)
	}
}

func TestRationalizationBarrierDuplicateSourceHolds(t *testing.T) {
	stage := RationalizationBarrierStage(&Runtime{})
	search := SearchResult{Payload: payloadWithSuggestion("Whitepaper", 0.55)}
	generic := RationalizerOutput{Search: search, Source: SourceGenericRationalizer, Decision: DecisionCreateNew}

	for i := range 3 {
		var out graph.Outbox
		if err := stage(context.Background(), generic, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Sent()) != 0 {
			t.Fatalf("iteration %d: duplicate source must not complete the barrier", i)
		}
	}
}
