package transport

import (
	"context"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/historian/core/protocol"
)

// CompleterClient is a completion.Completer backed by a remote completion
// service. It is how a history server delegates replies to the process that
// actually talks to a model.
type CompleterClient struct {
	complete *connect.Client[CompleteRequest, CompleteResponse]
}

// NewCompleterClient creates a CompleterClient against baseURL.
func NewCompleterClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CompleterClient {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &CompleterClient{
		complete: connect.NewClient[CompleteRequest, CompleteResponse](
			httpClient, baseURL+CompleteProcedure, opts...),
	}
}

func (c *CompleterClient) Complete(ctx context.Context, messages []protocol.Message) (string, error) {
	res, err := c.complete.CallUnary(ctx, connect.NewRequest(&CompleteRequest{
		Messages: messages,
	}))
	if err != nil {
		return "", err
	}
	return res.Msg.Text, nil
}
