// Package policy holds the declarative quorum rules that govern each action
// module. The table is fixed at compile time: every module has exactly one
// policy, and looking up an undeclared module is a programmer error.
package policy

import (
	"fmt"

	"countersign.org/internal/roles"
)

// Policy is the immutable quorum rule for one module.
type Policy struct {
	Module roles.Module

	// Required roles must each individually approve.
	Required []roles.Role

	// Alternatives are pick-one-of groups: at least one member of every
	// group must approve.
	Alternatives [][]roles.Role

	// Auxiliary roles may approve but never count toward quorum.
	Auxiliary []roles.Role

	// EscalateLegalAdviser promotes the legal adviser to a required role
	// whenever a substitute (vice/assistant) approval is on record.
	EscalateLegalAdviser bool

	// MinSignatories is a floor on the required signatory count on top of
	// the structurally derived one. Zero means no floor.
	MinSignatories int

	// MinSignatoriesByInitiator overrides MinSignatories for specific
	// initiating roles.
	MinSignatoriesByInitiator map[roles.Role]int
}

// MinFor returns the signatory-count floor that applies when the action was
// initiated by the given role.
func (p Policy) MinFor(initiator roles.Role) int {
	if n, ok := p.MinSignatoriesByInitiator[initiator]; ok {
		return n
	}
	return p.MinSignatories
}

// SignatoryRoles returns every role the policy references as required or as
// an alternative-group member, deduplicated in declaration order. These are
// the roles a roster must cover for a session to open.
func (p Policy) SignatoryRoles() []roles.Role {
	seen := make(map[roles.Role]struct{})
	var out []roles.Role
	add := func(r roles.Role) {
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	for _, r := range p.Required {
		add(r)
	}
	for _, group := range p.Alternatives {
		for _, r := range group {
			add(r)
		}
	}
	return out
}

// IsAuxiliary reports whether r is listed as auxiliary (non-counting).
func (p Policy) IsAuxiliary(r roles.Role) bool {
	for _, a := range p.Auxiliary {
		if a == r {
			return true
		}
	}
	return false
}

var table = map[roles.Module]Policy{
	roles.Members: {
		Module:               roles.Members,
		Required:             []roles.Role{roles.President, roles.Secretary},
		Alternatives:         [][]roles.Role{{roles.Treasurer, roles.FinancialSecretary}},
		Auxiliary:            []roles.Role{roles.PRO},
		EscalateLegalAdviser: true,
	},
	roles.Finances: {
		Module:               roles.Finances,
		Required:             []roles.Role{roles.President, roles.Treasurer},
		Alternatives:         [][]roles.Role{{roles.Secretary, roles.FinancialSecretary}},
		Auxiliary:            []roles.Role{roles.LegalAdviser},
		EscalateLegalAdviser: true,
		MinSignatories:       4,
		MinSignatoriesByInitiator: map[roles.Role]int{
			roles.President: 3,
		},
	},
	roles.Elections: {
		Module:               roles.Elections,
		Required:             []roles.Role{roles.President, roles.Secretary},
		Alternatives:         [][]roles.Role{{roles.PRO, roles.DirectorOfSocials}},
		EscalateLegalAdviser: true,
	},
	roles.Content: {
		Module:    roles.Content,
		Required:  []roles.Role{roles.Secretary, roles.PRO},
		Auxiliary: []roles.Role{roles.DirectorOfSocials},
	},
	roles.Leadership: {
		Module:               roles.Leadership,
		Required:             []roles.Role{roles.President, roles.Secretary},
		Alternatives:         [][]roles.Role{{roles.PRO, roles.DirectorOfSocials}},
		EscalateLegalAdviser: true,
	},
	roles.Settings: {
		Module:               roles.Settings,
		Required:             []roles.Role{roles.President, roles.Secretary, roles.LegalAdviser},
		EscalateLegalAdviser: true,
	},
}

// For returns the policy governing m. The module set is closed and
// exhaustively mapped, so a miss is a bug in this package and panics.
func For(m roles.Module) Policy {
	p, ok := table[m]
	if !ok {
		panic(fmt.Sprintf("policy: no policy declared for module %q", m))
	}
	return p
}
