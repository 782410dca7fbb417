package authz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"countersign.org/internal/audit"
	"countersign.org/internal/ids"
	"countersign.org/internal/obs"
	"countersign.org/internal/policy"
	"countersign.org/internal/quorum"
	"countersign.org/internal/roles"
	"countersign.org/internal/roster"
	"countersign.org/internal/verify"
)

const defaultTTL = 24 * time.Hour

// Manager owns all open authorization sessions. Cross-session operations are
// independent; within one session every mutation serializes on the session's
// own lock. Expiry is enforced twice: a one-shot timer per session, and a
// synchronous check before every state-changing operation.
type Manager struct {
	verifier verify.Verifier
	provider roster.Provider
	observer Observer

	now            func() time.Time
	ttl            time.Duration
	scheduleTimers bool

	mu       sync.RWMutex
	sessions map[string]*session
}

// Option configures a Manager.
type Option func(*Manager) error

// WithClock overrides the time source. Intended for tests; expiry timers are
// not scheduled under an injected clock, so callers drive expiry through
// CheckExpiry or mutating operations.
func WithClock(fn func() time.Time) Option {
	return func(m *Manager) error {
		if fn == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidInput)
		}
		m.now = fn
		m.scheduleTimers = false
		return nil
	}
}

// WithTTL overrides the 24h validity window applied to new sessions.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) error {
		if ttl <= 0 {
			return fmt.Errorf("%w: ttl must be positive", ErrInvalidInput)
		}
		m.ttl = ttl
		return nil
	}
}

// WithObserver installs the callback notified on quorum and finalization.
func WithObserver(fn Observer) Option {
	return func(m *Manager) error {
		m.observer = fn
		return nil
	}
}

// NewManager constructs a Manager around the given credential verifier and
// roster provider.
func NewManager(verifier verify.Verifier, provider roster.Provider, opts ...Option) (*Manager, error) {
	if verifier == nil {
		return nil, fmt.Errorf("%w: credential verifier is required", ErrInvalidInput)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: roster provider is required", ErrInvalidInput)
	}
	m := &Manager{
		verifier:       verifier,
		provider:       provider,
		now:            time.Now,
		ttl:            defaultTTL,
		scheduleTimers: true,
		sessions:       make(map[string]*session),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Open creates a session for one action instance of the given module,
// seeding a pending approval per eligible officer. The roster must cover
// every role the module's policy references as required or alternative; a
// substitute covers its principal's seat.
func (m *Manager) Open(ctx context.Context, module roles.Module, initiator roles.Role) (Snapshot, error) {
	if !roles.ValidModule(module) {
		return Snapshot{}, fmt.Errorf("%w: unknown module %q", ErrInvalidInput, module)
	}
	if !roles.Valid(initiator) {
		return Snapshot{}, fmt.Errorf("%w: unknown initiator role %q", ErrInvalidInput, initiator)
	}
	pol := policy.For(module)

	members, err := m.provider.Officers(ctx, module)
	if err != nil {
		return Snapshot{}, fmt.Errorf("authz: load roster: %w", err)
	}

	seen := make(map[roles.Role]bool, len(members))
	officers := make([]quorum.Officer, 0, len(members))
	for _, member := range members {
		if !roles.Valid(member.Role) || seen[member.Role] {
			continue
		}
		seen[member.Role] = true
		name := member.DisplayName
		if name == "" {
			name = roles.DisplayName(member.Role)
		}
		officers = append(officers, quorum.Officer{
			Role:        member.Role,
			DisplayName: name,
			Status:      quorum.StatusPending,
		})
	}

	for _, r := range pol.SignatoryRoles() {
		if !rosterCovers(seen, r) {
			return Snapshot{}, fmt.Errorf("%w: missing %s", ErrInvalidRoster, r)
		}
	}

	now := m.now()
	s := &session{
		id:        ids.NewAt(now),
		module:    module,
		initiator: initiator,
		pol:       pol,
		officers:  officers,
		createdAt: now,
		expiresAt: now.Add(m.ttl),
		state:     StateCollecting,
	}
	s.result = quorum.Evaluate(pol, initiator, officers)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	obs.SessionOpened()
	_ = audit.LogEvent(audit.WithSessionID(ctx, s.id), "session.opened", map[string]any{
		"module":     string(module),
		"initiator":  string(initiator),
		"officers":   len(officers),
		"expires_at": s.expiresAt.UTC().Format(time.RFC3339),
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if m.scheduleTimers && s.state == StateCollecting {
		id := s.id
		s.timer = time.AfterFunc(m.ttl, func() { m.CheckExpiry(id) })
	}
	return s.snapshotLocked(), nil
}

// Approve records one credential-backed approval attempt for a role. A
// rejected credential leaves the officer pending and may be retried until
// the window closes.
func (m *Manager) Approve(ctx context.Context, sessionID string, role roles.Role, credential string) error {
	s, err := m.get(sessionID)
	if err != nil {
		return err
	}
	attemptID := uuid.NewString()
	actx := audit.WithActorRole(audit.WithSessionID(ctx, sessionID), string(role))

	var ev *Event
	s.mu.Lock()
	if err := m.gateLocked(s, &ev); err != nil {
		s.mu.Unlock()
		m.emit(ev)
		return err
	}
	officer := s.findOfficer(role)
	if officer == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	if officer.Status == quorum.StatusAuthorized {
		s.mu.Unlock()
		return nil
	}

	if !m.verifier.Verify(ctx, role, credential) {
		s.mu.Unlock()
		obs.ApprovalAttempt(string(s.module), "wrong_credential")
		_ = audit.LogEvent(actx, "session.approval_rejected", map[string]any{"attempt_id": attemptID})
		return fmt.Errorf("%w: %s", ErrWrongCredential, role)
	}

	now := m.now()
	officer.Status = quorum.StatusAuthorized
	officer.AuthorizedAt = &now
	s.result = quorum.Evaluate(s.pol, s.initiator, s.officers)
	if s.result.Valid && s.quorumAt == nil {
		s.quorumAt = &now
		obs.QuorumReached(string(s.module), now.Sub(s.createdAt).Seconds())
		ev = &Event{SessionID: s.id, Module: s.module, Kind: EventQuorumReached}
	}
	message := s.result.Message
	s.mu.Unlock()

	obs.ApprovalAttempt(string(s.module), "authorized")
	_ = audit.LogEvent(actx, "session.approved", map[string]any{
		"attempt_id": attemptID,
		"quorum":     message,
	})
	m.emit(ev)
	return nil
}

// Confirm finalizes a session whose quorum is met.
func (m *Manager) Confirm(ctx context.Context, sessionID string) error {
	s, err := m.get(sessionID)
	if err != nil {
		return err
	}

	var ev *Event
	s.mu.Lock()
	if err := m.gateLocked(s, &ev); err != nil {
		s.mu.Unlock()
		m.emit(ev)
		return err
	}
	s.result = quorum.Evaluate(s.pol, s.initiator, s.officers)
	if !s.result.Valid {
		message := s.result.Message
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrQuorumNotMet, message)
	}
	ev = m.finalizeLocked(s, StateConfirmed, EventConfirmed)
	s.mu.Unlock()

	_ = audit.LogEvent(audit.WithSessionID(ctx, sessionID), "session.confirmed", map[string]any{
		"module": string(s.module),
	})
	m.emit(ev)
	return nil
}

// Cancel abandons a collecting session. Finalized sessions cannot be
// cancelled again.
func (m *Manager) Cancel(ctx context.Context, sessionID string) error {
	s, err := m.get(sessionID)
	if err != nil {
		return err
	}

	var ev *Event
	s.mu.Lock()
	if err := m.gateLocked(s, &ev); err != nil {
		s.mu.Unlock()
		m.emit(ev)
		return err
	}
	ev = m.finalizeLocked(s, StateCancelled, EventCancelled)
	s.mu.Unlock()

	_ = audit.LogEvent(audit.WithSessionID(ctx, sessionID), "session.cancelled", map[string]any{
		"module": string(s.module),
	})
	m.emit(ev)
	return nil
}

// CheckExpiry reports whether the session's validity window has closed,
// performing the expired transition if it is still collecting. Safe to call
// from the expiry timer and synchronously from callers.
func (m *Manager) CheckExpiry(sessionID string) bool {
	s, err := m.get(sessionID)
	if err != nil {
		return false
	}

	var ev *Event
	s.mu.Lock()
	if s.state != StateCollecting {
		expired := s.state == StateExpired
		s.mu.Unlock()
		return expired
	}
	if m.now().Before(s.expiresAt) {
		s.mu.Unlock()
		return false
	}
	ev = m.finalizeLocked(s, StateExpired, EventExpired)
	s.mu.Unlock()

	_ = audit.LogEvent(audit.WithSessionID(context.Background(), sessionID), "session.expired", map[string]any{
		"module": string(s.module),
	})
	m.emit(ev)
	return true
}

// Snapshot returns a read-only copy of the session.
func (m *Manager) Snapshot(sessionID string) (Snapshot, error) {
	s, err := m.get(sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Remove discards a finalized session. Collecting sessions must be cancelled
// first.
func (m *Manager) Remove(sessionID string) error {
	s, err := m.get(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	terminal := s.state.Terminal()
	s.mu.Unlock()
	if !terminal {
		return fmt.Errorf("%w: session is still collecting", ErrInvalidInput)
	}
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *Manager) get(sessionID string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return s, nil
}

// gateLocked rejects mutations on terminal sessions and performs the expired
// transition when the window has closed but the timer has not fired yet. The
// caller holds the session lock; any produced event must be emitted after
// unlocking.
func (m *Manager) gateLocked(s *session, ev **Event) error {
	switch {
	case s.state == StateExpired:
		return ErrExpired
	case s.state.Terminal():
		return ErrAlreadyFinalized
	}
	if !m.now().Before(s.expiresAt) {
		*ev = m.finalizeLocked(s, StateExpired, EventExpired)
		return ErrExpired
	}
	return nil
}

func (m *Manager) finalizeLocked(s *session, state State, kind EventKind) *Event {
	s.state = state
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	obs.SessionFinalized(string(s.module), string(state))
	return &Event{SessionID: s.id, Module: s.module, Kind: kind}
}

func (m *Manager) emit(ev *Event) {
	if ev == nil || m.observer == nil {
		return
	}
	m.observer(*ev)
}

func rosterCovers(present map[roles.Role]bool, r roles.Role) bool {
	if present[r] {
		return true
	}
	for sub := range present {
		if principal, ok := roles.PrincipalOf(sub); ok && principal == r {
			return true
		}
	}
	return false
}
