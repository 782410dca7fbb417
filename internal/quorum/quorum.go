// Package quorum evaluates whether the approvals collected so far satisfy a
// module's policy. Evaluation is a pure function over the policy, the
// initiating role, and the officer statuses; it is recomputed after every
// mutation and never stored.
package quorum

import (
	"fmt"
	"strings"
	"time"

	"countersign.org/internal/policy"
	"countersign.org/internal/roles"
)

// Status is the approval state of one officer within a session.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAuthorized Status = "authorized"
	StatusRejected   Status = "rejected"
)

// Officer is one eligible signatory for the lifetime of a session.
type Officer struct {
	Role         roles.Role
	DisplayName  string
	Status       Status
	AuthorizedAt *time.Time
}

// Result is the derived outcome of one evaluation.
type Result struct {
	RequiredCount   int
	AuthorizedCount int
	Valid           bool
	Message         string
}

// Evaluate computes the quorum result for the given policy and officer set.
//
// A required slot is satisfied by the role itself or by an authorized
// substitute standing in for it. If any authorized officer holds a
// substitute role and the policy escalates, the legal adviser is promoted
// to the required set; the required count only ever grows from escalation,
// never shrinks below the policy's initiator-dependent floor.
func Evaluate(p policy.Policy, initiator roles.Role, officers []Officer) Result {
	authorized := make(map[roles.Role]bool, len(officers))
	present := make(map[roles.Role]bool, len(officers))
	for _, o := range officers {
		present[o.Role] = true
		if o.Status == StatusAuthorized {
			authorized[o.Role] = true
		}
	}

	substituteActed := false
	for r := range authorized {
		if roles.IsSubstitute(r) {
			substituteActed = true
			break
		}
	}

	required := p.Required
	if substituteActed && p.EscalateLegalAdviser && !containsRole(required, roles.LegalAdviser) {
		required = append(append([]roles.Role{}, required...), roles.LegalAdviser)
	}

	// Auxiliary approvals are informational only. A role escalated into the
	// required set stops being auxiliary for counting purposes.
	counts := func(r roles.Role) bool {
		return !p.IsAuxiliary(r) || containsRole(required, r)
	}
	authorizedCount := 0
	for _, o := range officers {
		if o.Status == StatusAuthorized && counts(o.Role) {
			authorizedCount++
		}
	}

	requiredCount := len(required) + len(p.Alternatives)
	if floor := p.MinFor(initiator); floor > requiredCount {
		requiredCount = floor
	}

	covered := func(r roles.Role) bool {
		if present[r] {
			return true
		}
		for _, o := range officers {
			if principal, ok := roles.PrincipalOf(o.Role); ok && principal == r {
				return true
			}
		}
		return false
	}
	satisfied := func(r roles.Role) bool {
		if authorized[r] {
			return true
		}
		for sub := range authorized {
			if principal, ok := roles.PrincipalOf(sub); ok && principal == r {
				return true
			}
		}
		return false
	}

	var missing, awaiting []string
	for _, r := range required {
		switch {
		case !covered(r):
			missing = append(missing, roles.DisplayName(r))
		case !satisfied(r):
			awaiting = append(awaiting, roles.DisplayName(r))
		}
	}
	for _, group := range p.Alternatives {
		groupCovered, groupSatisfied := false, false
		for _, r := range group {
			if covered(r) {
				groupCovered = true
			}
			if satisfied(r) {
				groupSatisfied = true
			}
		}
		switch {
		case !groupCovered:
			missing = append(missing, joinDisplay(group, " or "))
		case !groupSatisfied:
			awaiting = append(awaiting, joinDisplay(group, " or "))
		}
	}

	res := Result{
		RequiredCount:   requiredCount,
		AuthorizedCount: authorizedCount,
	}
	switch {
	case len(missing) > 0:
		res.Message = fmt.Sprintf("Not on the signatory roster: %s", strings.Join(missing, ", "))
	case len(awaiting) > 0:
		res.Message = fmt.Sprintf("Awaiting %s", strings.Join(awaiting, ", "))
	case authorizedCount < requiredCount:
		res.Message = fmt.Sprintf("%d of %d signatures collected", authorizedCount, requiredCount)
	default:
		res.Valid = true
		res.Message = "Fully Authorized"
	}
	return res
}

func containsRole(rs []roles.Role, r roles.Role) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

func joinDisplay(rs []roles.Role, sep string) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = roles.DisplayName(r)
	}
	return strings.Join(names, sep)
}
