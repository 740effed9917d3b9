package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/historian/core/protocol"
	"github.com/tailored-agentic-units/historian/session"
	"github.com/tailored-agentic-units/historian/store"
)

func TestMemoryStore_CreateOrGet_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(session.DefaultConfig())

	first, created, err := s.CreateOrGet(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateOrGet failed: %v", err)
	}
	if !created {
		t.Error("first CreateOrGet should report creation")
	}

	second, created, err := s.CreateOrGet(ctx, "alice")
	if err != nil {
		t.Fatalf("second CreateOrGet failed: %v", err)
	}
	if created {
		t.Error("second CreateOrGet should not report creation")
	}
	if first != second {
		t.Error("CreateOrGet returned two distinct sessions for one id")
	}
}

func TestMemoryStore_CreateOrGet_EmptyID(t *testing.T) {
	s := store.NewMemoryStore(session.DefaultConfig())

	_, _, err := s.CreateOrGet(context.Background(), "")
	if !errors.Is(err, store.ErrEmptySessionID) {
		t.Errorf("got %v, want ErrEmptySessionID", err)
	}
}

func TestMemoryStore_Get_Unknown(t *testing.T) {
	s := store.NewMemoryStore(session.DefaultConfig())

	_, err := s.Get(context.Background(), "nobody")
	if !errors.Is(err, store.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStore_Clear_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(session.DefaultConfig())

	if _, _, err := s.CreateOrGet(ctx, "bob"); err != nil {
		t.Fatalf("CreateOrGet failed: %v", err)
	}

	if err := s.Clear(ctx, "bob"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := s.Clear(ctx, "bob"); err != nil {
		t.Errorf("second Clear should be a no-op, got %v", err)
	}

	if _, err := s.Get(ctx, "bob"); !errors.Is(err, store.ErrSessionNotFound) {
		t.Errorf("cleared session still resolvable: %v", err)
	}
}

func TestMemoryStore_ClearThenCreate_Fresh(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(session.DefaultConfig())

	sess, _, err := s.CreateOrGet(ctx, "carol")
	if err != nil {
		t.Fatalf("CreateOrGet failed: %v", err)
	}
	sess.SetSystem("old system", 2)
	sess.Append(protocol.NewMessage(protocol.RoleUser, "old message", 2))

	if err := s.Clear(ctx, "carol"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	fresh, created, err := s.CreateOrGet(ctx, "carol")
	if err != nil {
		t.Fatalf("re-create failed: %v", err)
	}
	if !created {
		t.Error("re-created session should report creation")
	}
	if fresh.Len() != 0 {
		t.Errorf("re-created session has %d residual messages", fresh.Len())
	}
}

func TestMemoryStore_List_Sorted(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore(session.DefaultConfig())

	for _, id := range []string{"zed", "amy", "mia"} {
		if _, _, err := s.CreateOrGet(ctx, id); err != nil {
			t.Fatalf("CreateOrGet(%s) failed: %v", id, err)
		}
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"amy", "mia", "zed"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], id)
		}
	}
}

func TestMemoryStore_SessionsInheritLimits(t *testing.T) {
	limits := session.Config{MaxExchanges: 3, MaxTokens: 300}
	s := store.NewMemoryStore(limits)

	sess, _, err := s.CreateOrGet(context.Background(), "dave")
	if err != nil {
		t.Fatalf("CreateOrGet failed: %v", err)
	}

	if got := sess.Limits(); got != limits {
		t.Errorf("session limits = %+v, want %+v", got, limits)
	}
}
