// Package protocol defines the canonical conversation types shared by every
// historian subsystem: the session log, the store backends, the transport
// surface, and the completion collaborator.
package protocol

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single conversational turn. Tokens holds the approximate token
// count computed by the estimator at insertion time; the trimming policy sums
// it rather than re-estimating on every pass.
//
// Messages are values and are never mutated after creation — sessions replace
// their history slices instead of editing entries in place.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Tokens  int    `json:"tokens,omitempty"`
}

// NewMessage creates a Message with the given role, content, and token
// estimate.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!", 3)
func NewMessage(role Role, content string, tokens int) Message {
	return Message{Role: role, Content: content, Tokens: tokens}
}

// TokenSum returns the total approximate token count of msgs.
func TokenSum(msgs []Message) int {
	total := 0
	for _, m := range msgs {
		total += m.Tokens
	}
	return total
}
