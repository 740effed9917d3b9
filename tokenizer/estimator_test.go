package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/tailored-agentic-units/historian/tokenizer"
)

func TestHeuristic_Estimate(t *testing.T) {
	h := tokenizer.NewHeuristic(4)

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 160), 40},
	}

	for _, tt := range tests {
		if got := h.Estimate(tt.text); got != tt.want {
			t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestHeuristic_Monotonic(t *testing.T) {
	h := tokenizer.NewHeuristic(4)

	text := ""
	prev := 0
	for i := 0; i < 64; i++ {
		text += "word "
		got := h.Estimate(text)
		if got < prev {
			t.Fatalf("estimate decreased from %d to %d at length %d", prev, got, len(text))
		}
		prev = got
	}
}

func TestHeuristic_DefaultDivisor(t *testing.T) {
	h := tokenizer.NewHeuristic(0)

	if got := h.Estimate("abcdefgh"); got != 2 {
		t.Errorf("Estimate with default divisor = %d, want 2", got)
	}
}

func TestFunc_Adapter(t *testing.T) {
	var e tokenizer.Estimator = tokenizer.Func(func(text string) int {
		return len(text)
	})

	if got := e.Estimate("abc"); got != 3 {
		t.Errorf("Func estimator = %d, want 3", got)
	}
}

func TestNew_FromConfig(t *testing.T) {
	cfg := tokenizer.DefaultConfig()

	e, err := tokenizer.New(&cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e == nil {
		t.Fatal("New returned nil estimator")
	}
	if got := e.Estimate("abcd"); got != 1 {
		t.Errorf("default estimator Estimate(\"abcd\") = %d, want 1", got)
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := tokenizer.DefaultConfig()
	cfg.Merge(&tokenizer.Config{BytesPerToken: 2})

	if cfg.BytesPerToken != 2 {
		t.Errorf("merged BytesPerToken = %d, want 2", cfg.BytesPerToken)
	}

	cfg.Merge(&tokenizer.Config{})
	if cfg.BytesPerToken != 2 {
		t.Errorf("zero-value merge overwrote BytesPerToken: got %d", cfg.BytesPerToken)
	}
}
