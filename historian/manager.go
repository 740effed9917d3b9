// Package historian implements the per-session conversation history manager:
// it owns an ordered message log per session, enforces exchange-count and
// token-budget bounds through trimming, and hands the trimmed context to an
// external completion collaborator.
//
// The manager initializes from configuration via New, creating the store and
// estimator internally. Functional options allow overrides of any
// collaborator.
//
//	m, err := historian.New(&cfg)
//	_, err = m.CreateOrGet(ctx, "alice", "You are terse.")
//	reply, err := m.Submit(ctx, "alice", "hello", completer)
package historian

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tailored-agentic-units/historian/completion"
	"github.com/tailored-agentic-units/historian/core/protocol"
	"github.com/tailored-agentic-units/historian/observability"
	"github.com/tailored-agentic-units/historian/session"
	"github.com/tailored-agentic-units/historian/store"
	"github.com/tailored-agentic-units/historian/tokenizer"
)

// Option configures a Manager after config-driven initialization.
type Option func(*Manager)

// WithStore overrides the config-created session store.
func WithStore(s store.Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithEstimator overrides the config-created token estimator.
func WithEstimator(e tokenizer.Estimator) Option {
	return func(m *Manager) { m.estimator = e }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(m *Manager) { m.observer = o }
}

// Manager coordinates sessions, trimming, and the completion collaborator.
// Operations on distinct sessions may run concurrently; calls for one session
// must be serialized by the caller — overlapping Submit calls on the same
// session leave the conversation order unspecified.
type Manager struct {
	store     store.Store
	estimator tokenizer.Estimator
	observer  observability.Observer
}

// New creates a Manager from configuration. The store and estimator are
// built from their config sections; the observer is resolved from the
// registry by name. Options applied afterwards can replace any of them.
func New(cfg *Config, opts ...Option) (*Manager, error) {
	est, err := tokenizer.New(&cfg.Tokenizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create estimator: %w", err)
	}

	st, err := store.New(&cfg.Store, cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	observer := observability.Observer(observability.NewSlogObserver(slog.Default()))
	if cfg.Observer != "" {
		observer, err = observability.Get(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
	}

	m := &Manager{
		store:     st,
		estimator: est,
		observer:  observer,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Store returns the manager's session store.
func (m *Manager) Store() store.Store {
	return m.store
}

// CreateOrGet returns the session for sessionID, creating it on first use.
// If systemPrompt is non-empty and the session has no system message yet, it
// is pinned at index 0; a later, different prompt never overwrites an
// existing one (first write wins). Idempotent.
func (m *Manager) CreateOrGet(ctx context.Context, sessionID, systemPrompt string) (*session.Session, error) {
	sess, created, err := m.store.CreateOrGet(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pinned := false
	if systemPrompt != "" {
		pinned = sess.SetSystem(systemPrompt, m.estimator.Estimate(systemPrompt))
	}

	if created || pinned {
		if err := m.store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("persist session %s: %w", sessionID, err)
		}
	}

	if created {
		m.emit(ctx, EventSessionCreate, observability.LevelInfo, "Manager.CreateOrGet", map[string]any{
			"session_id": sessionID,
			"system":     pinned,
		})
	}

	return sess, nil
}

// Submit appends userText to the session's history, trims per policy, asks
// the completer for a reply against the trimmed context, and appends the
// reply on success.
//
// The session must already exist (ErrSessionNotFound otherwise; sessions are
// never created implicitly). Empty or whitespace-only userText returns
// ErrEmptyInput with the history untouched. A completer error propagates
// unchanged: no retry, no masking — the user message stays appended so the
// caller can decide whether to resubmit. The assistant reply is appended
// all-or-nothing; a cancelled call never leaves a partial assistant turn.
func (m *Manager) Submit(ctx context.Context, sessionID, userText string, completer completion.Completer) (string, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	if strings.TrimSpace(userText) == "" {
		return "", ErrEmptyInput
	}

	sess.Append(protocol.NewMessage(protocol.RoleUser, userText, m.estimator.Estimate(userText)))

	m.emit(ctx, EventSubmitStart, observability.LevelInfo, "Manager.Submit", map[string]any{
		"session_id": sessionID,
		"messages":   sess.Len(),
		"tokens":     sess.TokenTotal(),
	})

	m.trim(ctx, sessionID, sess)

	reply, err := completer.Complete(ctx, sess.Messages())
	if err != nil {
		m.emit(ctx, EventCompletionError, observability.LevelWarn, "Manager.Submit", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		m.saveBestEffort(ctx, sess)
		return "", err
	}

	sess.Append(protocol.NewMessage(protocol.RoleAssistant, reply, m.estimator.Estimate(reply)))

	// The reply just resolved the pending exchange, so the stored history is
	// re-trimmed before persisting: the exchange cap holds after every
	// completed submit, not only at the next one.
	m.trim(ctx, sessionID, sess)

	if err := m.store.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("persist session %s: %w", sessionID, err)
	}

	m.emit(ctx, EventResponse, observability.LevelInfo, "Manager.Submit", map[string]any{
		"session_id":   sessionID,
		"reply_length": len(reply),
		"messages":     sess.Len(),
		"tokens":       sess.TokenTotal(),
	})

	return reply, nil
}

// Clear removes the session entirely, including its system message.
// Idempotent: clearing an unknown id is not an error.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	if err := m.store.Clear(ctx, sessionID); err != nil {
		return err
	}

	m.emit(ctx, EventSessionClear, observability.LevelInfo, "Manager.Clear", map[string]any{
		"session_id": sessionID,
	})
	return nil
}

// Sessions returns the identifiers of all known sessions.
func (m *Manager) Sessions(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// trim applies the session's eviction policy and reports the outcome as an
// event when anything was removed.
func (m *Manager) trim(ctx context.Context, sessionID string, sess *session.Session) {
	res := sess.Trim()
	if res.Evicted() == 0 {
		return
	}

	m.emit(ctx, EventTrim, observability.LevelDebug, "Manager.Submit", map[string]any{
		"session_id":        sessionID,
		"evicted_by_count":  res.EvictedByCount,
		"evicted_by_budget": res.EvictedByBudget,
		"tokens_before":     res.TokensBefore,
		"tokens_after":      res.TokensAfter,
	})
}

// saveBestEffort persists the session so an appended-but-unanswered user
// message survives a restart. A persistence failure here must not displace
// the completer error already being returned, so it only becomes an event.
func (m *Manager) saveBestEffort(ctx context.Context, sess *session.Session) {
	if err := m.store.Save(ctx, sess); err != nil {
		m.emit(ctx, EventPersistError, observability.LevelError, "Manager.Submit", map[string]any{
			"session_id": sess.ID(),
			"error":      err.Error(),
		})
	}
}

func (m *Manager) emit(ctx context.Context, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	m.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
