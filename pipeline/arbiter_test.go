package pipeline

import "testing"

func combinedOutputs(generic, contentType RationalizerOutput) CombinedRationalizerOutput {
	generic.Source = SourceGenericRationalizer
	contentType.Source = SourceContentTypeRationalizer
	return CombinedRationalizerOutput{Generic: generic, ContentType: contentType}
}

func TestArbitrate(t *testing.T) {
	tests := []struct {
		name        string
		generic     RationalizerOutput
		contentType RationalizerOutput
		winner      string
	}{
		{
			name:        "generic map beats content-type create",
			generic:     RationalizerOutput{Decision: DecisionMap, MappingTarget: "Invoice"},
			contentType: RationalizerOutput{Decision: DecisionCreateNew, NewTypeName: "Billing Note"},
			winner:      SourceGenericRationalizer,
		},
		{
			name:        "content-type map beats generic create",
			generic:     RationalizerOutput{Decision: DecisionCreateNew, NewTypeName: "Unknown"},
			contentType: RationalizerOutput{Decision: DecisionMap, MappingTarget: "Report"},
			winner:      SourceContentTypeRationalizer,
		},
		{
			name:        "equal map decisions defer to the specialist",
			generic:     RationalizerOutput{Decision: DecisionMap, MappingTarget: "Letter"},
			contentType: RationalizerOutput{Decision: DecisionMap, MappingTarget: "Email"},
			winner:      SourceContentTypeRationalizer,
		},
		{
			name:        "equal create decisions defer to the specialist",
			generic:     RationalizerOutput{Decision: DecisionCreateNew},
			contentType: RationalizerOutput{Decision: DecisionCreateNew, NewTypeName: "Whitepaper"},
			winner:      SourceContentTypeRationalizer,
		},
		{
			name:        "content-type variant beats generic map",
			generic:     RationalizerOutput{Decision: DecisionMap, MappingTarget: "Report"},
			contentType: RationalizerOutput{Decision: DecisionMapVariant, MappingTarget: "Report", NewTypeName: "Status Update"},
			winner:      SourceContentTypeRationalizer,
		},
		{
			name:        "generic variant beats content-type create",
			generic:     RationalizerOutput{Decision: DecisionMapVariant, MappingTarget: "Letter", NewTypeName: "Memo"},
			contentType: RationalizerOutput{Decision: DecisionCreateNew, NewTypeName: "Memo"},
			winner:      SourceGenericRationalizer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := arbitrate(combinedOutputs(tt.generic, tt.contentType))

			if result.Selected.Source != tt.winner {
				t.Errorf("expected %q to win, got %q (%s)", tt.winner, result.Selected.Source, result.Rationale)
			}
			if result.Rationale == "" {
				t.Error("expected a selection rationale")
			}
		})
	}
}

func TestArbitrateIsDeterministic(t *testing.T) {
	combined := combinedOutputs(
		RationalizerOutput{Decision: DecisionMapVariant, MappingTarget: "Invoice", NewTypeName: "Billing Note"},
		RationalizerOutput{Decision: DecisionCreateNew, NewTypeName: "Billing Note"},
	)

	first := arbitrate(combined)
	for range 10 {
		if next := arbitrate(combined); next.Selected.Source != first.Selected.Source {
			t.Fatal("selection must be stable for identical inputs")
		}
	}
}

func TestAssemble(t *testing.T) {
	preserved := []Candidate{
		{Type: "Whitepaper", Confidence: 0.55, Source: SourceContentTypeSuggester},
	}
	search := SearchResult{Payload: UnifiedPayload{Path: PathStandard, Candidates: preserved}}

	tests := []struct {
		name     string
		selected RationalizerOutput
		appended []Candidate
	}{
		{
			name: "map appends the target",
			selected: RationalizerOutput{
				Search:        search,
				Source:        SourceContentTypeRationalizer,
				Decision:      DecisionMap,
				MappingTarget: "Invoice",
			},
			appended: []Candidate{
				{Type: "Invoice", Confidence: mapConfidence, Source: "Rationalizer:ContentType"},
			},
		},
		{
			name: "variant appends the variant and its parent",
			selected: RationalizerOutput{
				Search:        search,
				Source:        SourceGenericRationalizer,
				Decision:      DecisionMapVariant,
				MappingTarget: "Letter",
				NewTypeName:   "Memo",
			},
			appended: []Candidate{
				{Type: "Memo", Confidence: variantConfidence, Source: "Rationalizer:Generic"},
				{Type: "Letter", Confidence: varParentConfidence, Source: "Rationalizer:Generic"},
			},
		},
		{
			name: "create appends the new type",
			selected: RationalizerOutput{
				Search:      search,
				Source:      SourceContentTypeRationalizer,
				Decision:    DecisionCreateNew,
				NewTypeName: "Whitepaper",
			},
			appended: []Candidate{
				{Type: "Whitepaper", Confidence: newTypeConfidence, Source: "Rationalizer:ContentType"},
			},
		},
		{
			name: "unnamed new type gets a placeholder",
			selected: RationalizerOutput{
				Search:   search,
				Source:   SourceContentTypeRationalizer,
				Decision: DecisionCreateNew,
			},
			appended: []Candidate{
				{Type: newTypePlaceholder, Confidence: newTypeConfidence, Source: "Rationalizer:ContentType"},
			},
		},
		{
			name: "missing decision falls back to unclassified",
			selected: RationalizerOutput{
				Search: search,
				Source: SourceContentTypeRationalizer,
			},
			appended: []Candidate{
				{Type: fallbackType, Confidence: fallbackConfidence, Source: "Rationalizer:ContentType"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := assemble(SelectionResult{Selected: tt.selected, Rationale: "test"})

			expected := append(append([]Candidate{}, preserved...), tt.appended...)
			if len(output.Candidates) != len(expected) {
				t.Fatalf("expected %d candidates, got %v", len(expected), output.Candidates)
			}
			for i, want := range expected {
				if output.Candidates[i] != want {
					t.Errorf("candidate %d: expected %+v, got %+v", i, want, output.Candidates[i])
				}
			}
			if output.SelectedSource != tt.selected.Source {
				t.Errorf("expected selected source %q, got %q", tt.selected.Source, output.SelectedSource)
			}
			if output.Path != PathStandard {
				t.Errorf("expected path carried through, got %q", output.Path)
			}
		})
	}
}

func TestAssembleDoesNotMutatePreservedCandidates(t *testing.T) {
	preserved := []Candidate{
		{Type: "Report", Confidence: 0.75, Source: SourceGenericIdentifier},
	}
	search := SearchResult{Payload: UnifiedPayload{Candidates: preserved}}

	assemble(SelectionResult{Selected: RationalizerOutput{
		Search:        search,
		Source:        SourceContentTypeRationalizer,
		Decision:      DecisionMap,
		MappingTarget: "Report",
	}})

	if len(preserved) != 1 {
		t.Fatalf("payload candidates must not grow, got %v", preserved)
	}
}
