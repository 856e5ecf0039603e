package pipeline

import (
	"slices"
	"testing"
)

func TestDetectPI(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		detected   bool
		categories []string
	}{
		{
			name:       "ssn and email",
			document:   "Applicant SSN: 123-45-6789, contact jane.doe@example.com for details.",
			detected:   true,
			categories: []string{"SSN", "Email"},
		},
		{
			name:       "phone number",
			document:   "Call us at 555-867-5309 during business hours.",
			detected:   true,
			categories: []string{"Phone"},
		},
		{
			name:       "street address",
			document:   "Ship to 42 Wallaby Way, then 100 Main Street, Springfield.",
			detected:   true,
			categories: []string{"Address"},
		},
		{
			name:     "clean document",
			document: "Quarterly revenue grew by twelve percent over the prior period.",
			detected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detectPI(RoutingDecision{
				Input: Input{Document: tt.document},
				Path:  PathStandard,
			})

			if result.Detected != tt.detected {
				t.Fatalf("expected detected=%t, got %t (categories %v)", tt.detected, result.Detected, result.Categories)
			}
			for _, category := range tt.categories {
				if !slices.Contains(result.Categories, category) {
					t.Errorf("expected category %q in %v", category, result.Categories)
				}
			}
			if tt.detected && result.Advisory == "" {
				t.Error("expected an advisory for detected sensitive data")
			}
			if !tt.detected && result.Advisory != "" {
				t.Errorf("expected no advisory, got %q", result.Advisory)
			}
		})
	}
}

func TestMatchContentCue(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		label      string
		confidence float64
	}{
		{
			name:       "contract language",
			document:   "The parties hereby agree to the following terms and conditions.",
			label:      "Legal Contract",
			confidence: 0.85,
		},
		{
			name:       "invoice",
			document:   "Invoice #1042. Amount due: $5,400.00 net 30.",
			label:      "Invoice",
			confidence: 0.85,
		},
		{
			name:       "email headers",
			document:   "From: ops@example.com\nSubject: deployment window",
			label:      "Email",
			confidence: 0.8,
		},
		{
			name:       "letter",
			document:   "Dear Ms. Alvarez, thank you for your inquiry. Sincerely, R. Chen",
			label:      "Letter",
			confidence: 0.75,
		},
		{
			name:       "whitepaper is a weak cue",
			document:   "This whitepaper explores distributed consensus tradeoffs.",
			label:      "Whitepaper",
			confidence: 0.55,
		},
		{
			name:       "no cue",
			document:   "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
			label:      unknownContentType,
			confidence: defaultConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence := matchContentCue(tt.document)
			if label != tt.label {
				t.Errorf("expected label %q, got %q", tt.label, label)
			}
			if confidence != tt.confidence {
				t.Errorf("expected confidence %v, got %v", tt.confidence, confidence)
			}
		})
	}
}

func TestIdentifyDocument(t *testing.T) {
	tests := []struct {
		name     string
		document string
		docType  string
	}{
		{
			name:     "email",
			document: "From: a@example.com\nSubject: weekly sync",
			docType:  "Email",
		},
		{
			name:     "letter",
			document: "Dear Hiring Manager, I am writing to apply.",
			docType:  "Letter",
		},
		{
			name:     "contract",
			document: "The undersigned agree to the obligations herein.",
			docType:  "Contract",
		},
		{
			name:     "unstructured",
			document: "Mist rolled over the harbor before dawn.",
			docType:  defaultDocumentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := identifyDocument(RoutingDecision{Input: Input{Document: tt.document}})
			if result.DocumentType != tt.docType {
				t.Errorf("expected %q, got %q", tt.docType, result.DocumentType)
			}
			if result.Schema == "" {
				t.Error("expected a schema description")
			}
		})
	}
}

func TestIdentifyDocumentExtractsDate(t *testing.T) {
	result := identifyDocument(RoutingDecision{
		Input: Input{Document: "Effective date: March 5, 2026. All clauses apply."},
	})

	if result.Metadata["date"] != "March 5, 2026" {
		t.Errorf("expected extracted date, got %v", result.Metadata)
	}
}
