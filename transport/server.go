package transport

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/historian/completion"
	"github.com/tailored-agentic-units/historian/historian"
)

// NewHistoryRoutes builds an http.ServeMux serving the history service. The
// completer is the collaborator every Submit call is forwarded to — typically
// a NewCompleterClient pointing at a completion service, or completion.Echo
// for loopback deployments.
func NewHistoryRoutes(m *historian.Manager, completer completion.Completer, opts ...connect.HandlerOption) *http.ServeMux {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()

	mux.Handle(CreateSessionProcedure, connect.NewUnaryHandler(
		CreateSessionProcedure,
		func(ctx context.Context, req *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error) {
			sess, err := m.CreateOrGet(ctx, req.Msg.SessionID, req.Msg.SystemPrompt)
			if err != nil {
				return nil, asConnectError(err)
			}
			return connect.NewResponse(&CreateSessionResponse{
				SessionID: sess.ID(),
				Messages:  sess.Len(),
			}), nil
		},
		opts...,
	))

	mux.Handle(SubmitProcedure, connect.NewUnaryHandler(
		SubmitProcedure,
		func(ctx context.Context, req *connect.Request[SubmitRequest]) (*connect.Response[SubmitResponse], error) {
			reply, err := m.Submit(ctx, req.Msg.SessionID, req.Msg.Text, completer)
			if err != nil {
				return nil, asConnectError(err)
			}
			return connect.NewResponse(&SubmitResponse{Reply: reply}), nil
		},
		opts...,
	))

	mux.Handle(ClearSessionProcedure, connect.NewUnaryHandler(
		ClearSessionProcedure,
		func(ctx context.Context, req *connect.Request[ClearSessionRequest]) (*connect.Response[ClearSessionResponse], error) {
			if err := m.Clear(ctx, req.Msg.SessionID); err != nil {
				return nil, asConnectError(err)
			}
			return connect.NewResponse(&ClearSessionResponse{}), nil
		},
		opts...,
	))

	mux.Handle(ListSessionsProcedure, connect.NewUnaryHandler(
		ListSessionsProcedure,
		func(ctx context.Context, _ *connect.Request[ListSessionsRequest]) (*connect.Response[ListSessionsResponse], error) {
			ids, err := m.Sessions(ctx)
			if err != nil {
				return nil, asConnectError(err)
			}
			return connect.NewResponse(&ListSessionsResponse{SessionIDs: ids}), nil
		},
		opts...,
	))

	return mux
}

// NewCompletionRoutes serves a completion collaborator over Connect, letting
// another process use it through NewCompleterClient.
func NewCompletionRoutes(completer completion.Completer, opts ...connect.HandlerOption) *http.ServeMux {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CompleteProcedure, connect.NewUnaryHandler(
		CompleteProcedure,
		func(ctx context.Context, req *connect.Request[CompleteRequest]) (*connect.Response[CompleteResponse], error) {
			text, err := completer.Complete(ctx, req.Msg.Messages)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnavailable, err)
			}
			return connect.NewResponse(&CompleteResponse{Text: text}), nil
		},
		opts...,
	))
	return mux
}

// asConnectError maps the manager's error taxonomy onto Connect codes:
// local-validation failures become client errors, everything else — including
// opaque completer failures — surfaces as unavailable.
func asConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, historian.ErrSessionNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, historian.ErrEmptyInput),
		errors.Is(err, historian.ErrEmptySessionID):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeUnavailable, err)
	}
}
