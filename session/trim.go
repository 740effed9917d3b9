package session

import "github.com/tailored-agentic-units/historian/core/protocol"

// TrimResult reports what a Trim call evicted. EvictedByCount and
// EvictedByBudget are message counts from the exchange-cap pass and the
// token-budget pass respectively.
type TrimResult struct {
	EvictedByCount  int
	EvictedByBudget int
	TokensBefore    int
	TokensAfter     int
}

// Evicted returns the total number of messages removed.
func (r TrimResult) Evicted() int {
	return r.EvictedByCount + r.EvictedByBudget
}

// Trim applies the two-pass eviction policy to the stored history and reports
// what was removed. Eviction is destructive and permanent.
//
// Pass 1 caps retained exchanges: while more than MaxExchanges user+assistant
// pairs remain, the oldest pair is evicted. An unpaired trailing user message
// never counts as a pair and is never evicted here.
//
// Pass 2 enforces the token budget: if the summed estimates exceed the
// headroom threshold (80% of MaxTokens), the oldest non-system messages are
// evicted, keeping exchanges whole, until the total fits or only the system
// message plus the newest exchange remain. The newest pending user message is
// never evicted; when it alone still exceeds the budget the history is
// returned as-is — the completion collaborator owns that fallback.
//
// The system message at index 0 is exempt from both passes.
func (s *Session) Trim() TrimResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := TrimResult{TokensBefore: protocol.TokenSum(s.messages)}

	base := 0
	if s.hasSystemLocked() {
		base = 1
	}
	body := s.messages[base:]

	// Pass 1: exchange-count cap.
	for len(body)/2 > s.limits.MaxExchanges {
		body = body[2:]
		res.EvictedByCount += 2
	}

	// Pass 2: token budget. The floor is the newest exchange — the pending
	// user message when the body length is odd, the last complete pair
	// otherwise.
	threshold := s.limits.budgetThreshold()
	total := res.TokensBefore - evictedTokens(s.messages[base:], body)
	floor := 2
	if len(body)%2 == 1 {
		floor = 1
	}

	for total > threshold && len(body) > floor {
		evict := 1
		if body[0].Role == protocol.RoleUser &&
			len(body) > 1 && body[1].Role == protocol.RoleAssistant {
			// Evicting a user message takes its reply with it so the
			// remaining history never starts with an orphan assistant turn.
			evict = 2
		}
		for i := 0; i < evict; i++ {
			total -= body[0].Tokens
			body = body[1:]
			res.EvictedByBudget++
		}
	}

	res.TokensAfter = total

	if res.Evicted() > 0 {
		kept := make([]protocol.Message, 0, base+len(body))
		kept = append(kept, s.messages[:base]...)
		kept = append(kept, body...)
		s.messages = kept
	}

	return res
}

// evictedTokens sums the tokens of the prefix of full that precedes the kept
// subslice.
func evictedTokens(full, kept []protocol.Message) int {
	return protocol.TokenSum(full[:len(full)-len(kept)])
}
