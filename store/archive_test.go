package store_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/tailored-agentic-units/historian/core/protocol"
	"github.com/tailored-agentic-units/historian/session"
	"github.com/tailored-agentic-units/historian/store"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	snap := &store.Snapshot{
		ID:      "alice",
		SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Messages: []protocol.Message{
			protocol.NewMessage(protocol.RoleSystem, "be brief", 2),
			protocol.NewMessage(protocol.RoleUser, "hello", 2),
			protocol.NewMessage(protocol.RoleAssistant, "hi", 1),
		},
	}

	var buf bytes.Buffer
	if err := store.WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	decoded, err := store.ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	if decoded.ID != snap.ID {
		t.Errorf("got id %q, want %q", decoded.ID, snap.ID)
	}
	if len(decoded.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(decoded.Messages))
	}
	for i, msg := range snap.Messages {
		if decoded.Messages[i] != msg {
			t.Errorf("message %d mismatch: got %+v, want %+v", i, decoded.Messages[i], msg)
		}
	}
}

func TestSnapshot_Deterministic(t *testing.T) {
	snap := &store.Snapshot{
		ID:      "alice",
		SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Messages: []protocol.Message{
			protocol.NewMessage(protocol.RoleUser, "hello", 2),
		},
	}

	var a, b bytes.Buffer
	if err := store.WriteSnapshot(&a, snap); err != nil {
		t.Fatalf("first WriteSnapshot failed: %v", err)
	}
	if err := store.WriteSnapshot(&b, snap); err != nil {
		t.Fatalf("second WriteSnapshot failed: %v", err)
	}

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical snapshots produced different bytes")
	}
}

func TestExportImport_AcrossStores(t *testing.T) {
	ctx := context.Background()
	src := store.NewMemoryStore(session.DefaultConfig())

	sess, _, err := src.CreateOrGet(ctx, "alice")
	if err != nil {
		t.Fatalf("CreateOrGet failed: %v", err)
	}
	sess.SetSystem("be brief", 2)
	sess.Append(protocol.NewMessage(protocol.RoleUser, "hello", 2))
	sess.Append(protocol.NewMessage(protocol.RoleAssistant, "hi", 1))

	var buf bytes.Buffer
	if err := store.Export(ctx, src, "alice", &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := store.NewMemoryStore(session.DefaultConfig())
	id, err := store.Import(ctx, dst, &buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if id != "alice" {
		t.Errorf("imported id = %q, want alice", id)
	}

	restored, err := dst.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get after import failed: %v", err)
	}
	if restored.Len() != 3 {
		t.Errorf("restored session has %d messages, want 3", restored.Len())
	}
	if sys, ok := restored.System(); !ok || sys.Content != "be brief" {
		t.Errorf("system message not restored: %+v", sys)
	}
}

func TestExport_UnknownSession(t *testing.T) {
	s := store.NewMemoryStore(session.DefaultConfig())

	var buf bytes.Buffer
	if err := store.Export(context.Background(), s, "nobody", &buf); err == nil {
		t.Error("Export of unknown session should fail")
	}
}
