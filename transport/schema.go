// Package transport exposes the history manager as a Connect RPC service and
// provides the matching clients. Schema types are plain structs exchanged
// through a JSON codec, so the wire format is the standard Connect JSON
// encoding without a generated schema layer.
package transport

import "github.com/tailored-agentic-units/historian/core/protocol"

// Procedure paths for the history service and the completion service.
const (
	CreateSessionProcedure = "/historian.v1.HistoryService/CreateSession"
	SubmitProcedure        = "/historian.v1.HistoryService/Submit"
	ClearSessionProcedure  = "/historian.v1.HistoryService/ClearSession"
	ListSessionsProcedure  = "/historian.v1.HistoryService/ListSessions"

	CompleteProcedure = "/historian.v1.CompletionService/Complete"
)

type CreateSessionRequest struct {
	SessionID    string `json:"session_id"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Messages  int    `json:"messages"`
}

type SubmitRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type SubmitResponse struct {
	Reply string `json:"reply"`
}

type ClearSessionRequest struct {
	SessionID string `json:"session_id"`
}

type ClearSessionResponse struct{}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	SessionIDs []string `json:"session_ids"`
}

// CompleteRequest carries the trimmed context for the remote completion
// collaborator.
type CompleteRequest struct {
	Messages []protocol.Message `json:"messages"`
}

type CompleteResponse struct {
	Text string `json:"text"`
}
