// Package authz implements the authorization session state machine: one
// bounded-lifetime collection of per-role approvals for a single sensitive
// action, evaluated against the module's quorum policy.
package authz

import (
	"sync"
	"time"

	"countersign.org/internal/policy"
	"countersign.org/internal/quorum"
	"countersign.org/internal/roles"
)

// State is the lifecycle state of a session. Collecting is initial; the
// other three are terminal with no transitions out.
type State string

const (
	StateCollecting State = "collecting"
	StateConfirmed  State = "confirmed"
	StateExpired    State = "expired"
	StateCancelled  State = "cancelled"
)

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateExpired || s == StateCancelled
}

// EventKind labels a session notification.
type EventKind string

const (
	EventQuorumReached EventKind = "quorum_reached"
	EventConfirmed     EventKind = "confirmed"
	EventExpired       EventKind = "expired"
	EventCancelled     EventKind = "cancelled"
)

// Event is delivered to the manager's observer when a session reaches
// quorum or finalizes.
type Event struct {
	SessionID string
	Module    roles.Module
	Kind      EventKind
}

// Observer receives session events. Called outside any session lock; it may
// call back into the manager.
type Observer func(Event)

// session is the mutable aggregate for one action instance. All access goes
// through its own mutex so approvals for the same session serialize while
// distinct sessions proceed independently.
type session struct {
	mu sync.Mutex

	id        string
	module    roles.Module
	initiator roles.Role
	pol       policy.Policy

	officers  []quorum.Officer
	createdAt time.Time
	expiresAt time.Time

	state    State
	result   quorum.Result
	quorumAt *time.Time
	timer    *time.Timer
}

func (s *session) findOfficer(role roles.Role) *quorum.Officer {
	for i := range s.officers {
		if s.officers[i].Role == role {
			return &s.officers[i]
		}
	}
	return nil
}

func (s *session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        s.id,
		Module:    s.module,
		Initiator: s.initiator,
		State:     s.state,
		CreatedAt: s.createdAt,
		ExpiresAt: s.expiresAt,
		Officers:  append([]quorum.Officer{}, s.officers...),
		Quorum:    s.result,
	}
}

// Snapshot is a read-only copy of a session for caller display. Mutation is
// only possible through the manager's operations.
type Snapshot struct {
	ID        string
	Module    roles.Module
	Initiator roles.Role
	State     State
	CreatedAt time.Time
	ExpiresAt time.Time
	Officers  []quorum.Officer
	Quorum    quorum.Result
}
