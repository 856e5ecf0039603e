package pipeline

// Classifier names a classifier requested for a run. Only the routing stage
// inspects it; the resolved path is informational context for the analyzers.
type Classifier struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Input is the immutable value a run starts from. Every stage forwards it by
// value so correlation never diverges mid-pipeline.
type Input struct {
	Document    string       `json:"document"`
	Classifiers []Classifier `json:"classifiers"`
}

// Path identifies which analysis path the routing stage resolved.
type Path string

// Analysis paths.
const (
	PathPI          Path = "pi"
	PathContentType Path = "content-type"
	PathStandard    Path = "standard"
)

// RoutingDecision carries the run input plus the resolved path. It is
// broadcast to all three analysis stages.
type RoutingDecision struct {
	Input Input
	Path  Path
}

// PIResult reports sensitive-data findings for a document.
type PIResult struct {
	Input      Input
	Path       Path
	Detected   bool
	Categories []string
	Advisory   string
}

// ContentTypeSuggestion is a single best-guess content type label with a
// confidence in [0,1].
type ContentTypeSuggestion struct {
	Input       Input
	Path        Path
	ContentType string
	Confidence  float64
}

// GenericIdentification is a coarse document identification with a one-line
// schema description and extracted metadata.
type GenericIdentification struct {
	Input        Input
	Path         Path
	DocumentType string
	Schema       string
	Metadata     map[string]string
}

// Candidate is one ranked classification candidate.
type Candidate struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// UnifiedPayload combines the three analysis results with the candidate list
// derived from them. Built once per run by the merge stage; immutable after
// construction.
type UnifiedPayload struct {
	Input          Input
	Path           Path
	PI             PIResult
	Suggestion     ContentTypeSuggestion
	Identification GenericIdentification
	Candidates     []Candidate
}

// MatchKind distinguishes how a suggested label matched the known-type
// dictionary.
type MatchKind string

// Match kinds, in priority order.
const (
	MatchExact   MatchKind = "exact"
	MatchVariant MatchKind = "variant"
	MatchSynonym MatchKind = "synonym"
)

// SearchResult is the unified payload plus the known-type match outcome.
type SearchResult struct {
	Payload     UnifiedPayload
	Found       bool
	MatchedTerm string
	Kind        MatchKind
}

// RationalizerInput packages an unmatched search result for the two
// rationalization stages.
type RationalizerInput struct {
	Search SearchResult
}

// Decision is a rationalizer's three-way classification decision.
type Decision string

// Rationalizer decisions.
const (
	DecisionCreateNew  Decision = "CREATE_NEW"
	DecisionMap        Decision = "MAP"
	DecisionMapVariant Decision = "MAP_AS_VARIANT"
)

// RationalizerOutput is one rationalizer's decision with its reasoning.
// Search is carried through so downstream stages keep the correlated input
// and candidate list.
type RationalizerOutput struct {
	Search        SearchResult
	Source        string
	Decision      Decision
	MappingTarget string
	NewTypeName   string
	Reasoning     string
}

// CombinedRationalizerOutput pairs the two rationalizer decisions after the
// rationalization barrier fires.
type CombinedRationalizerOutput struct {
	Search      SearchResult
	Generic     RationalizerOutput
	ContentType RationalizerOutput
}

// SelectionResult is the arbiter's chosen decision plus the rationale for
// why it was preferred.
type SelectionResult struct {
	Selected  RationalizerOutput
	Rationale string
}

// Output is the terminal value of a run: the ranked candidate list and,
// when the run went through rationalization, the winning side and decision.
type Output struct {
	Candidates     []Candidate `json:"candidates"`
	Path           Path        `json:"path"`
	SelectedSource string      `json:"selected_source,omitempty"`
	Decision       Decision    `json:"decision,omitempty"`
	Rationale      string      `json:"rationale,omitempty"`
}

// Candidate source tags.
const (
	SourcePIDetector           = "PIDetector"
	SourceContentTypeSuggester = "ContentTypeSuggester"
	SourceGenericIdentifier    = "GenericIdentifier"
	sourceKnownTypeMatcher     = "KnownTypeMatcher"
	sourceRationalizer         = "Rationalizer"
)

// Rationalizer source tags, also the join keys at the rationalization barrier.
const (
	SourceGenericRationalizer     = "Generic"
	SourceContentTypeRationalizer = "ContentType"
)
