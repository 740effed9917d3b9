// Package completion defines the external collaborator that turns a trimmed
// message sequence into an assistant reply. The actual model invocation —
// retries, validation, streaming — lives behind this interface and is out of
// the manager's hands.
package completion

import (
	"context"

	"github.com/tailored-agentic-units/historian/core/protocol"
)

// Completer produces an assistant reply for an ordered message sequence.
// Errors are the collaborator's own taxonomy (network, rate-limit,
// validation); the manager propagates them unchanged and never retries.
type Completer interface {
	Complete(ctx context.Context, messages []protocol.Message) (string, error)
}

// Func adapts a plain function to the Completer interface.
type Func func(ctx context.Context, messages []protocol.Message) (string, error)

func (f Func) Complete(ctx context.Context, messages []protocol.Message) (string, error) {
	return f(ctx, messages)
}
