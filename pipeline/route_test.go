package pipeline

import "testing"

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name        string
		classifiers []Classifier
		expected    Path
	}{
		{
			name:        "pi detection classifier",
			classifiers: []Classifier{{Name: "PI Detection", Type: "detector"}},
			expected:    PathPI,
		},
		{
			name:        "content type classifier",
			classifiers: []Classifier{{Name: "Content Type Suggestion", Type: "suggester"}},
			expected:    PathContentType,
		},
		{
			name:        "document type classifier",
			classifiers: []Classifier{{Name: "Document Type", Type: "identifier"}},
			expected:    PathContentType,
		},
		{
			name:        "first match wins",
			classifiers: []Classifier{{Name: "PI Scanner"}, {Name: "Content Type"}},
			expected:    PathPI,
		},
		{
			name:        "no classifiers",
			classifiers: nil,
			expected:    PathStandard,
		},
		{
			name:        "unrecognized names",
			classifiers: []Classifier{{Name: "Sentiment"}, {Name: "Language"}},
			expected:    PathStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if path := resolvePath(tt.classifiers); path != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, path)
			}
		})
	}
}
