package transport

import (
	"context"

	"connectrpc.com/connect"
)

// Client calls a remote history service.
type Client struct {
	create *connect.Client[CreateSessionRequest, CreateSessionResponse]
	submit *connect.Client[SubmitRequest, SubmitResponse]
	clear  *connect.Client[ClearSessionRequest, ClearSessionResponse]
	list   *connect.Client[ListSessionsRequest, ListSessionsResponse]
}

// NewClient creates a Client against baseURL (scheme and host, no procedure
// path).
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &Client{
		create: connect.NewClient[CreateSessionRequest, CreateSessionResponse](
			httpClient, baseURL+CreateSessionProcedure, opts...),
		submit: connect.NewClient[SubmitRequest, SubmitResponse](
			httpClient, baseURL+SubmitProcedure, opts...),
		clear: connect.NewClient[ClearSessionRequest, ClearSessionResponse](
			httpClient, baseURL+ClearSessionProcedure, opts...),
		list: connect.NewClient[ListSessionsRequest, ListSessionsResponse](
			httpClient, baseURL+ListSessionsProcedure, opts...),
	}
}

// CreateSession creates or fetches a session, optionally pinning a system
// prompt on first creation.
func (c *Client) CreateSession(ctx context.Context, sessionID, systemPrompt string) (*CreateSessionResponse, error) {
	res, err := c.create.CallUnary(ctx, connect.NewRequest(&CreateSessionRequest{
		SessionID:    sessionID,
		SystemPrompt: systemPrompt,
	}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

// Submit sends user text to the session and returns the assistant reply.
func (c *Client) Submit(ctx context.Context, sessionID, text string) (string, error) {
	res, err := c.submit.CallUnary(ctx, connect.NewRequest(&SubmitRequest{
		SessionID: sessionID,
		Text:      text,
	}))
	if err != nil {
		return "", err
	}
	return res.Msg.Reply, nil
}

// ClearSession removes the session entirely.
func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	_, err := c.clear.CallUnary(ctx, connect.NewRequest(&ClearSessionRequest{
		SessionID: sessionID,
	}))
	return err
}

// ListSessions returns the identifiers of all sessions on the server.
func (c *Client) ListSessions(ctx context.Context) ([]string, error) {
	res, err := c.list.CallUnary(ctx, connect.NewRequest(&ListSessionsRequest{}))
	if err != nil {
		return nil, err
	}
	return res.Msg.SessionIDs, nil
}
