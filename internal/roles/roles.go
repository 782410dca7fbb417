// Package roles defines the closed catalog of organizational roles and
// action modules used by the authorization engine.
package roles

// Role identifies one organizational office.
type Role string

const (
	President          Role = "president"
	VicePresident      Role = "vice_president"
	Secretary          Role = "secretary"
	AssistantSecretary Role = "assistant_secretary"
	Treasurer          Role = "treasurer"
	FinancialSecretary Role = "financial_secretary"
	PRO                Role = "pro"
	DirectorOfSocials  Role = "director_of_socials"
	LegalAdviser       Role = "legal_adviser"
)

// Module is a category of sensitive administrative action. Each module is
// governed by exactly one quorum policy.
type Module string

const (
	Members    Module = "members"
	Finances   Module = "finances"
	Elections  Module = "elections"
	Content    Module = "content"
	Leadership Module = "leadership"
	Settings   Module = "settings"
)

// substitutes maps a stand-in role to the principal office it may act for.
var substitutes = map[Role]Role{
	VicePresident:      President,
	AssistantSecretary: Secretary,
}

// All returns every role in the catalog.
func All() []Role {
	return []Role{
		President, VicePresident,
		Secretary, AssistantSecretary,
		Treasurer, FinancialSecretary,
		PRO, DirectorOfSocials,
		LegalAdviser,
	}
}

// AllModules returns every action module.
func AllModules() []Module {
	return []Module{Members, Finances, Elections, Content, Leadership, Settings}
}

// Valid reports whether r is part of the catalog.
func Valid(r Role) bool {
	switch r {
	case President, VicePresident, Secretary, AssistantSecretary,
		Treasurer, FinancialSecretary, PRO, DirectorOfSocials, LegalAdviser:
		return true
	}
	return false
}

// ValidModule reports whether m is a declared action module.
func ValidModule(m Module) bool {
	switch m {
	case Members, Finances, Elections, Content, Leadership, Settings:
		return true
	}
	return false
}

// IsSubstitute reports whether r is a vice/assistant role standing in for a
// principal officer. A substitute approval triggers legal-adviser escalation
// in policies that require it.
func IsSubstitute(r Role) bool {
	_, ok := substitutes[r]
	return ok
}

// PrincipalOf returns the principal office a substitute role acts for.
// The second return value is false when r is not a substitute.
func PrincipalOf(r Role) (Role, bool) {
	p, ok := substitutes[r]
	return p, ok
}

// DisplayName returns the human-readable title for a role.
func DisplayName(r Role) string {
	switch r {
	case President:
		return "President"
	case VicePresident:
		return "Vice President"
	case Secretary:
		return "Secretary"
	case AssistantSecretary:
		return "Assistant Secretary"
	case Treasurer:
		return "Treasurer"
	case FinancialSecretary:
		return "Financial Secretary"
	case PRO:
		return "PRO"
	case DirectorOfSocials:
		return "Director of Socials"
	case LegalAdviser:
		return "Legal Adviser"
	}
	return string(r)
}
