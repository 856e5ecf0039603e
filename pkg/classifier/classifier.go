// Package classifier provides the injected classification capability the
// pipeline stages consume. A nil Func means no external model is configured;
// stages then rely entirely on their heuristic fallbacks.
package classifier

import "context"

// Func sends a system prompt and a document excerpt to an external model and
// returns its raw reply. Implementations should return an error for transport
// failures only; unusable reply content is the caller's concern.
type Func func(ctx context.Context, systemPrompt, document string) (string, error)
