package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/triagekit/triage/pkg/graph"
)

const piPrompt = `You are a sensitive-data detector. Inspect the document for
personally identifiable information such as social security numbers, email
addresses, phone numbers, credit card numbers, and street addresses. Respond
with JSON: {"detected": bool, "categories": ["..."], "advisory": "..."}.`

const contentTypePrompt = `You suggest a content type for a document. Respond
with JSON: {"content_type": "...", "confidence": 0.0-1.0}. Use an established
business document category when one fits.`

const identifyPrompt = `You identify the coarse type of a document. Respond
with JSON: {"document_type": "...", "schema": "one-line structure
description", "metadata": {"key": "value"}}.`

type piReply struct {
	Detected   bool     `json:"detected"`
	Categories []string `json:"categories"`
	Advisory   string   `json:"advisory"`
}

type contentTypeReply struct {
	ContentType string  `json:"content_type"`
	Confidence  float64 `json:"confidence"`
}

type identifyReply struct {
	DocumentType string            `json:"document_type"`
	Schema       string            `json:"schema"`
	Metadata     map[string]string `json:"metadata"`
}

// PIAnalysisStage returns the analyzer that scans for sensitive data. When
// an external classifier is configured its reply replaces the heuristic
// result; a failed call or unparseable reply keeps the heuristic (the run
// never fails on a bad model reply).
func PIAnalysisStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		decision, ok := msg.(RoutingDecision)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		result := detectPI(decision)

		if rt.Classify != nil {
			if reply, err := invoke[piReply](ctx, rt, piPrompt, decision.Input); err == nil {
				result = PIResult{
					Input:      decision.Input,
					Path:       decision.Path,
					Detected:   reply.Detected,
					Categories: reply.Categories,
					Advisory:   reply.Advisory,
				}
			} else {
				rt.logger().WarnContext(ctx, "pi analysis fell back to heuristic", "error", err)
			}
		}

		out.Send(result)
		return nil
	}
}

// ContentTypeStage returns the analyzer that suggests a single content type
// label with a confidence.
func ContentTypeStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		decision, ok := msg.(RoutingDecision)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		result := suggestContentType(decision)

		if rt.Classify != nil {
			if reply, err := invoke[contentTypeReply](ctx, rt, contentTypePrompt, decision.Input); err == nil && reply.ContentType != "" {
				result = ContentTypeSuggestion{
					Input:       decision.Input,
					Path:        decision.Path,
					ContentType: reply.ContentType,
					Confidence:  clampConfidence(reply.Confidence),
				}
			} else if err != nil {
				rt.logger().WarnContext(ctx, "content-type analysis fell back to heuristic", "error", err)
			}
		}

		out.Send(result)
		return nil
	}
}

// GenericIdentificationStage returns the analyzer that produces a coarse
// document identification with a schema description and extracted metadata.
func GenericIdentificationStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		decision, ok := msg.(RoutingDecision)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		result := identifyDocument(decision)

		if rt.Classify != nil {
			if reply, err := invoke[identifyReply](ctx, rt, identifyPrompt, decision.Input); err == nil && reply.DocumentType != "" {
				result = GenericIdentification{
					Input:        decision.Input,
					Path:         decision.Path,
					DocumentType: reply.DocumentType,
					Schema:       reply.Schema,
					Metadata:     reply.Metadata,
				}
			} else if err != nil {
				rt.logger().WarnContext(ctx, "generic identification fell back to heuristic", "error", err)
			}
		}

		out.Send(result)
		return nil
	}
}

var piPatterns = []struct {
	category string
	pattern  *regexp.Regexp
}{
	{"SSN", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"Email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"Phone", regexp.MustCompile(`\b(?:\+?1[-. ]?)?\(?\d{3}\)?[-. ]\d{3}[-. ]\d{4}\b`)},
	{"Credit Card", regexp.MustCompile(`\b\d{4}[- ]\d{4}[- ]\d{4}[- ]\d{4}\b`)},
	{"Address", regexp.MustCompile(`(?i)\b\d+\s+\w+\s+(street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr)\b`)},
	{"Date of Birth", regexp.MustCompile(`(?i)\b(date of birth|dob)\b`)},
}

const piAdvisory = "Document contains personally identifiable information; handle per data-protection policy."

func detectPI(decision RoutingDecision) PIResult {
	var categories []string
	for _, p := range piPatterns {
		if p.pattern.MatchString(decision.Input.Document) {
			categories = append(categories, p.category)
		}
	}

	result := PIResult{
		Input:      decision.Input,
		Path:       decision.Path,
		Detected:   len(categories) > 0,
		Categories: categories,
	}
	if result.Detected {
		result.Advisory = piAdvisory
	}
	return result
}

// Defaults for the unmatched heuristic case.
const (
	unknownContentType  = "Unknown"
	defaultConfidence   = 0.5
	defaultDocumentType = "Document"
	defaultSchema       = "Unstructured text content"
)

// contentCue maps lexical cues to a suggested content type. Every term must
// appear in the document for the cue to fire; cues are evaluated in order.
type contentCue struct {
	terms      []string
	label      string
	confidence float64
}

var contentCues = []contentCue{
	{[]string{"agree", "terms"}, "Legal Contract", 0.85},
	{[]string{"invoice"}, "Invoice", 0.85},
	{[]string{"amount due"}, "Invoice", 0.8},
	{[]string{"purchase order"}, "Purchase Order", 0.85},
	{[]string{"curriculum vitae"}, "Resume", 0.8},
	{[]string{"from:", "subject:"}, "Email", 0.8},
	{[]string{"user guide"}, "Technical Manual", 0.75},
	{[]string{"step 1"}, "Technical Manual", 0.7},
	{[]string{"executive summary"}, "Report", 0.75},
	{[]string{"dear", "sincerely"}, "Letter", 0.75},
	{[]string{"whitepaper"}, "Whitepaper", 0.55},
	{[]string{"proposal"}, "Proposal", 0.55},
}

func suggestContentType(decision RoutingDecision) ContentTypeSuggestion {
	label, confidence := matchContentCue(decision.Input.Document)

	return ContentTypeSuggestion{
		Input:       decision.Input,
		Path:        decision.Path,
		ContentType: label,
		Confidence:  confidence,
	}
}

func matchContentCue(document string) (string, float64) {
	lower := strings.ToLower(document)

	for _, cue := range contentCues {
		matched := true
		for _, term := range cue.terms {
			if !strings.Contains(lower, term) {
				matched = false
				break
			}
		}
		if matched {
			return cue.label, cue.confidence
		}
	}

	return unknownContentType, defaultConfidence
}

var datePattern = regexp.MustCompile(`\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4})\b`)

func identifyDocument(decision RoutingDecision) GenericIdentification {
	lower := strings.ToLower(decision.Input.Document)

	docType := defaultDocumentType
	schema := defaultSchema

	switch {
	case strings.Contains(lower, "from:") && strings.Contains(lower, "subject:"):
		docType = "Email"
		schema = "Header fields followed by a message body"
	case strings.Contains(lower, "dear"):
		docType = "Letter"
		schema = "Salutation, body paragraphs, closing signature"
	case strings.Contains(lower, "instructions") || strings.Contains(lower, "step 1"):
		docType = "Manual"
		schema = "Numbered procedural steps"
	case strings.Contains(lower, "agree") || strings.Contains(lower, "contract"):
		docType = "Contract"
		schema = "Numbered clauses with party obligations"
	case strings.Contains(lower, "summary") || strings.Contains(lower, "findings"):
		docType = "Report"
		schema = "Titled sections with findings"
	}

	metadata := map[string]string{}
	if date := datePattern.FindString(decision.Input.Document); date != "" {
		metadata["date"] = date
	}

	return GenericIdentification{
		Input:        decision.Input,
		Path:         decision.Path,
		DocumentType: docType,
		Schema:       schema,
		Metadata:     metadata,
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
