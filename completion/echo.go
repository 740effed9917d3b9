package completion

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/historian/core/protocol"
)

// Echo is a loopback Completer for smoke tests and the chat REPL's offline
// mode. It replies with the newest user message and the size of the context
// it received, which makes trimming visible from the outside.
type Echo struct{}

func (Echo) Complete(_ context.Context, messages []protocol.Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == protocol.RoleUser {
			return fmt.Sprintf("echo(%d msgs): %s", len(messages), messages[i].Content), nil
		}
	}
	return fmt.Sprintf("echo(%d msgs)", len(messages)), nil
}
