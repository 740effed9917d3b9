package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/tailored-agentic-units/historian/core/protocol"
)

// Snapshot is a portable capture of one session's history, used for
// export/import across stores and processes. The encoding is deterministic
// CBOR compressed with zstd: the same history always produces identical
// bytes, and conversation text compresses well.
type Snapshot struct {
	ID       string             `cbor:"id"`
	SavedAt  time.Time          `cbor:"saved_at"`
	Messages []protocol.Message `cbor:"messages"`
}

var snapshotEncMode cbor.EncMode

func init() {
	var err error
	snapshotEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}
}

// WriteSnapshot encodes and compresses snap onto w.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("snapshot compressor: %w", err)
	}

	data, err := snapshotEncMode.Marshal(snap)
	if err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	return zw.Close()
}

// ReadSnapshot decompresses and decodes a snapshot from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot decompressor: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Export writes a snapshot of the identified session onto w.
func Export(ctx context.Context, s Store, id string, w io.Writer) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return WriteSnapshot(w, &Snapshot{
		ID:       sess.ID(),
		SavedAt:  time.Now().UTC(),
		Messages: sess.Messages(),
	})
}

// Import reads a snapshot from r and installs it in the store, replacing any
// existing history under the snapshot's id. Returns the session id.
func Import(ctx context.Context, s Store, r io.Reader) (string, error) {
	snap, err := ReadSnapshot(r)
	if err != nil {
		return "", err
	}
	if snap.ID == "" {
		return "", ErrEmptySessionID
	}

	sess, _, err := s.CreateOrGet(ctx, snap.ID)
	if err != nil {
		return "", err
	}

	sess.Restore(snap.Messages)
	if err := s.Save(ctx, sess); err != nil {
		return "", err
	}
	return snap.ID, nil
}
