package session_test

import (
	"fmt"
	"testing"

	"github.com/tailored-agentic-units/historian/core/protocol"
	"github.com/tailored-agentic-units/historian/session"
)

func appendPair(s *session.Session, n, tokens int) {
	s.Append(protocol.NewMessage(protocol.RoleUser, fmt.Sprintf("q%d", n), tokens))
	s.Append(protocol.NewMessage(protocol.RoleAssistant, fmt.Sprintf("a%d", n), tokens))
}

func TestTrim_ExchangeCap(t *testing.T) {
	s := session.New("s", session.Config{MaxExchanges: 2, MaxTokens: 1 << 20})
	s.SetSystem("sys", 1)
	for i := 1; i <= 5; i++ {
		appendPair(s, i, 1)
	}

	res := s.Trim()

	if res.EvictedByCount != 6 {
		t.Errorf("evicted %d messages by count, want 6", res.EvictedByCount)
	}
	if s.Pairs() != 2 {
		t.Errorf("got %d pairs after trim, want 2", s.Pairs())
	}

	msgs := s.Messages()
	if msgs[0].Role != protocol.RoleSystem {
		t.Fatal("system message evicted by exchange-cap pass")
	}
	if msgs[1].Content != "q4" {
		t.Errorf("oldest surviving message is %q, want q4", msgs[1].Content)
	}
}

func TestTrim_ExchangeCap_SparesPendingUser(t *testing.T) {
	s := session.New("s", session.Config{MaxExchanges: 1, MaxTokens: 1 << 20})
	appendPair(s, 1, 1)
	appendPair(s, 2, 1)
	s.Append(protocol.NewMessage(protocol.RoleUser, "pending", 1))

	s.Trim()

	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	if last.Content != "pending" {
		t.Fatalf("pending user message evicted; history tail is %q", last.Content)
	}
	if s.Pairs() != 1 {
		t.Errorf("got %d pairs, want 1", s.Pairs())
	}
}

func TestTrim_TokenBudget(t *testing.T) {
	// Four 40-token exchanges against a 100-token budget: the 80-token
	// headroom threshold admits at most one whole exchange.
	s := session.New("s", session.Config{MaxExchanges: 10, MaxTokens: 100})
	for i := 1; i <= 4; i++ {
		appendPair(s, i, 40)
	}

	res := s.Trim()

	if got := s.Len(); got > 2 {
		t.Errorf("budget pass kept %d messages, want <= 2", got)
	}
	if got := s.TokenTotal(); got > 80 {
		t.Errorf("token total %d exceeds threshold 80", got)
	}
	if res.TokensAfter != s.TokenTotal() {
		t.Errorf("TokensAfter = %d, session total = %d", res.TokensAfter, s.TokenTotal())
	}
	if res.TokensBefore != 320 {
		t.Errorf("TokensBefore = %d, want 320", res.TokensBefore)
	}
}

func TestTrim_TokenBudget_KeepsExchangesWhole(t *testing.T) {
	s := session.New("s", session.Config{MaxExchanges: 10, MaxTokens: 100})
	appendPair(s, 1, 40)
	s.Append(protocol.NewMessage(protocol.RoleUser, "pending", 40))

	s.Trim()

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1 (pair evicted together)", len(msgs))
	}
	if msgs[0].Content != "pending" {
		t.Errorf("surviving message is %q, want the pending user message", msgs[0].Content)
	}
}

func TestTrim_TokenBudget_SystemExempt(t *testing.T) {
	s := session.New("s", session.Config{MaxExchanges: 10, MaxTokens: 100})
	s.SetSystem("sys", 50)
	for i := 1; i <= 3; i++ {
		appendPair(s, i, 30)
	}

	s.Trim()

	msgs := s.Messages()
	if msgs[0].Role != protocol.RoleSystem {
		t.Fatal("system message evicted by budget pass")
	}
	// 50 system tokens leave room for nothing under the 80-token threshold,
	// so everything but the newest exchange goes.
	if len(msgs) != 3 {
		t.Errorf("got %d messages, want system + newest exchange", len(msgs))
	}
}

func TestTrim_EscapeHatch(t *testing.T) {
	// System plus the pending user message alone exceed the budget: trimming
	// stops and returns the history as-is rather than evicting the pending
	// message.
	s := session.New("s", session.Config{MaxExchanges: 10, MaxTokens: 100})
	s.SetSystem("sys", 60)
	s.Append(protocol.NewMessage(protocol.RoleUser, "pending", 60))

	res := s.Trim()

	if res.Evicted() != 0 {
		t.Errorf("escape hatch evicted %d messages, want 0", res.Evicted())
	}
	if s.Len() != 2 {
		t.Errorf("got %d messages, want 2", s.Len())
	}
	if res.TokensAfter != 120 {
		t.Errorf("TokensAfter = %d, want 120", res.TokensAfter)
	}
}

func TestTrim_NoopUnderLimits(t *testing.T) {
	s := session.New("s", session.DefaultConfig())
	s.SetSystem("sys", 1)
	appendPair(s, 1, 1)

	res := s.Trim()

	if res.Evicted() != 0 {
		t.Errorf("trim evicted %d messages from an under-limit session", res.Evicted())
	}
	if res.TokensBefore != res.TokensAfter {
		t.Errorf("token totals changed on a no-op trim: %d -> %d",
			res.TokensBefore, res.TokensAfter)
	}
}

func TestTrim_BothPassesSequential(t *testing.T) {
	// Pass 1 cuts to MaxExchanges pairs, then pass 2 keeps shaving until the
	// threshold is met. A message is only ever evicted once.
	s := session.New("s", session.Config{MaxExchanges: 3, MaxTokens: 100})
	for i := 1; i <= 6; i++ {
		appendPair(s, i, 30)
	}

	res := s.Trim()

	if res.EvictedByCount != 6 {
		t.Errorf("pass 1 evicted %d, want 6", res.EvictedByCount)
	}
	if res.EvictedByBudget != 4 {
		t.Errorf("pass 2 evicted %d, want 4", res.EvictedByBudget)
	}
	if res.Evicted() != 10 {
		t.Errorf("total evicted %d, want 10", res.Evicted())
	}

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].Content != "q6" {
		t.Errorf("unexpected survivors: %+v", msgs)
	}
}

func TestTrim_SystemPinnedAcrossRepeatedTrims(t *testing.T) {
	s := session.New("s", session.Config{MaxExchanges: 1, MaxTokens: 50})
	s.SetSystem("sys", 5)

	for i := 1; i <= 20; i++ {
		appendPair(s, i, 10)
		s.Trim()

		msgs := s.Messages()
		if len(msgs) == 0 || msgs[0].Role != protocol.RoleSystem {
			t.Fatalf("system message lost after %d trim cycles", i)
		}
	}
}
