package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/triagekit/triage/pkg/graph"
)

func analysisResults(detected bool, suggestion string, confidence float64, docType string) (PIResult, ContentTypeSuggestion, GenericIdentification) {
	input := Input{Document: "body"}

	pi := PIResult{Input: input, Path: PathStandard, Detected: detected}
	if detected {
		pi.Categories = []string{"SSN"}
		pi.Advisory = piAdvisory
	}

	return pi,
		ContentTypeSuggestion{Input: input, Path: PathStandard, ContentType: suggestion, Confidence: confidence},
		GenericIdentification{Input: input, Path: PathStandard, DocumentType: docType, Schema: defaultSchema}
}

func TestMergeStageWaitsForAllThree(t *testing.T) {
	stage := MergeStage(&Runtime{})
	pi, suggestion, identification := analysisResults(false, "Invoice", 0.85, "Report")

	for _, msg := range []any{pi, suggestion} {
		var out graph.Outbox
		if err := stage(context.Background(), msg, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Sent()) != 0 {
			t.Fatalf("expected no output before the third contribution, got %d", len(out.Sent()))
		}
	}

	var out graph.Outbox
	if err := stage(context.Background(), identification, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Sent()) != 1 {
		t.Fatalf("expected one payload after the third contribution, got %d", len(out.Sent()))
	}

	payload, ok := out.Sent()[0].(UnifiedPayload)
	if !ok {
		t.Fatalf("expected UnifiedPayload, got %T", out.Sent()[0])
	}
	if payload.Suggestion.ContentType != "Invoice" {
		t.Errorf("expected suggestion carried through, got %q", payload.Suggestion.ContentType)
	}
}

func TestMergeStageResetsBetweenRounds(t *testing.T) {
	stage := MergeStage(&Runtime{})
	pi, suggestion, identification := analysisResults(false, "Invoice", 0.85, "Report")

	for round := range 2 {
		var last graph.Outbox
		for _, msg := range []any{pi, suggestion} {
			var out graph.Outbox
			if err := stage(context.Background(), msg, &out); err != nil {
				t.Fatalf("round %d: unexpected error: %v", round, err)
			}
			if len(out.Sent()) != 0 {
				t.Fatalf("round %d: fired early", round)
			}
		}
		if err := stage(context.Background(), identification, &last); err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		if len(last.Sent()) != 1 {
			t.Fatalf("round %d: expected exactly one payload, got %d", round, len(last.Sent()))
		}
	}
}

func TestMergeStageLogsReceivedCount(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stage := MergeStage(&Runtime{Logger: logger})
	pi, suggestion, _ := analysisResults(false, "Invoice", 0.85, "Report")

	tests := []struct {
		msg  any
		want string
	}{
		{pi, "received=1"},
		{suggestion, "received=2"},
	}

	for _, tt := range tests {
		buf.Reset()
		var out graph.Outbox
		if err := stage(context.Background(), tt.msg, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("expected log to contain %q, got %q", tt.want, buf.String())
		}
	}
}

func TestMergeStageRejectsUnexpectedMessage(t *testing.T) {
	stage := MergeStage(&Runtime{})

	var out graph.Outbox
	if err := stage(context.Background(), "not an analysis result", &out); err == nil {
		t.Fatal("expected an error for an unexpected message type")
	}
}

func TestBuildPayloadCandidates(t *testing.T) {
	tests := []struct {
		name       string
		detected   bool
		suggestion string
		confidence float64
		docType    string
		expected   []Candidate
	}{
		{
			name:       "all contributors",
			detected:   true,
			suggestion: "Invoice",
			confidence: 0.85,
			docType:    "Report",
			expected: []Candidate{
				{Type: "Invoice", Confidence: 0.85, Source: SourceContentTypeSuggester},
				{Type: "Report", Confidence: genericConfidence, Source: SourceGenericIdentifier},
				{Type: piCandidateType, Confidence: piCandidateConfidence, Source: SourcePIDetector},
			},
		},
		{
			name:       "unknown suggestion and default identification contribute nothing",
			detected:   false,
			suggestion: unknownContentType,
			confidence: defaultConfidence,
			docType:    defaultDocumentType,
			expected:   nil,
		},
		{
			name:       "pi only",
			detected:   true,
			suggestion: unknownContentType,
			confidence: defaultConfidence,
			docType:    defaultDocumentType,
			expected: []Candidate{
				{Type: piCandidateType, Confidence: piCandidateConfidence, Source: SourcePIDetector},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi, suggestion, identification := analysisResults(tt.detected, tt.suggestion, tt.confidence, tt.docType)
			payload := buildPayload(map[analysisKind]any{
				analysisPI:          pi,
				analysisContentType: suggestion,
				analysisGeneric:     identification,
			})

			if len(payload.Candidates) != len(tt.expected) {
				t.Fatalf("expected %d candidates, got %v", len(tt.expected), payload.Candidates)
			}
			for i, expected := range tt.expected {
				if payload.Candidates[i] != expected {
					t.Errorf("candidate %d: expected %+v, got %+v", i, expected, payload.Candidates[i])
				}
			}
		})
	}
}
