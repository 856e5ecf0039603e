package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/triagekit/triage/pkg/graph"
)

// RouteStage returns the stage that resolves the analysis path from the
// requested classifier names. The decision is broadcast to all three
// analyzers; the path is context for them, not a filter.
func RouteStage(rt *Runtime) graph.Handler {
	return func(ctx context.Context, msg any, out *graph.Outbox) error {
		input, ok := msg.(Input)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
		}

		path := resolvePath(input.Classifiers)

		rt.logger().InfoContext(
			ctx, "route resolved",
			"path", path,
			"classifiers", len(input.Classifiers),
		)

		out.Send(RoutingDecision{Input: input, Path: path})
		return nil
	}
}

// resolvePath scans classifier names in order, case-insensitively; the first
// name matching a path cue wins.
func resolvePath(classifiers []Classifier) Path {
	for _, c := range classifiers {
		name := strings.ToLower(c.Name)
		switch {
		case strings.Contains(name, "pi"):
			return PathPI
		case strings.Contains(name, "content type"), strings.Contains(name, "document type"):
			return PathContentType
		}
	}
	return PathStandard
}
