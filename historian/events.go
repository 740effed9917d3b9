package historian

import "github.com/tailored-agentic-units/historian/observability"

// Manager event types emitted during the submit cycle.
const (
	EventSessionCreate   observability.EventType = "manager.session.create"
	EventSessionClear    observability.EventType = "manager.session.clear"
	EventSubmitStart     observability.EventType = "manager.submit.start"
	EventTrim            observability.EventType = "manager.trim"
	EventCompletionError observability.EventType = "manager.completion.error"
	EventResponse        observability.EventType = "manager.response"
	EventPersistError    observability.EventType = "manager.persist.error"
)
