package quorum

import (
	"strings"
	"testing"

	"countersign.org/internal/policy"
	"countersign.org/internal/roles"
)

func officersFor(rs ...roles.Role) []Officer {
	out := make([]Officer, len(rs))
	for i, r := range rs {
		out[i] = Officer{Role: r, DisplayName: roles.DisplayName(r), Status: StatusPending}
	}
	return out
}

func authorize(officers []Officer, rs ...roles.Role) []Officer {
	for i := range officers {
		for _, r := range rs {
			if officers[i].Role == r {
				officers[i].Status = StatusAuthorized
			}
		}
	}
	return officers
}

func TestFinanceNonPresidentInitiator(t *testing.T) {
	p := policy.For(roles.Finances)
	officers := officersFor(roles.President, roles.Secretary, roles.Treasurer, roles.PRO)

	authorize(officers, roles.President, roles.Secretary, roles.Treasurer)
	res := Evaluate(p, roles.Treasurer, officers)
	if res.RequiredCount != 4 || res.AuthorizedCount != 3 {
		t.Fatalf("counts = %d/%d, want 3/4", res.AuthorizedCount, res.RequiredCount)
	}
	if res.Valid {
		t.Fatal("quorum valid with 3 of 4 signatures")
	}

	authorize(officers, roles.PRO)
	res = Evaluate(p, roles.Treasurer, officers)
	if !res.Valid {
		t.Fatalf("quorum invalid after fourth signature: %s", res.Message)
	}
}

func TestFinancePresidentInitiatorNeedsThree(t *testing.T) {
	p := policy.For(roles.Finances)
	officers := officersFor(roles.President, roles.Secretary, roles.Treasurer, roles.PRO)
	authorize(officers, roles.President, roles.Secretary, roles.Treasurer)
	res := Evaluate(p, roles.President, officers)
	if res.RequiredCount != 3 {
		t.Fatalf("required count = %d, want 3", res.RequiredCount)
	}
	if !res.Valid {
		t.Fatalf("president-initiated transfer invalid with 3 signatures: %s", res.Message)
	}
}

func TestElectionsAlternativeGroup(t *testing.T) {
	p := policy.For(roles.Elections)
	for _, alt := range []roles.Role{roles.PRO, roles.DirectorOfSocials} {
		officers := officersFor(roles.President, roles.Secretary, roles.PRO, roles.DirectorOfSocials)
		authorize(officers, roles.President, roles.Secretary, alt)
		if res := Evaluate(p, roles.President, officers); !res.Valid {
			t.Fatalf("quorum invalid with %s approval: %s", alt, res.Message)
		}
	}

	officers := officersFor(roles.President, roles.Secretary, roles.PRO, roles.DirectorOfSocials)
	authorize(officers, roles.President, roles.Secretary)
	res := Evaluate(p, roles.President, officers)
	if res.Valid {
		t.Fatal("quorum valid without any alternative-group approval")
	}
	if !strings.Contains(res.Message, "PRO or Director of Socials") {
		t.Fatalf("message does not name the outstanding group: %q", res.Message)
	}
}

func TestSubstituteEscalation(t *testing.T) {
	p := policy.Policy{
		Module:               roles.Leadership,
		Required:             []roles.Role{roles.President, roles.Secretary},
		EscalateLegalAdviser: true,
	}
	officers := officersFor(roles.VicePresident, roles.Secretary, roles.LegalAdviser)

	authorize(officers, roles.VicePresident, roles.Secretary)
	res := Evaluate(p, roles.Secretary, officers)
	if res.Valid {
		t.Fatal("substitute approval validated without legal adviser")
	}
	if !strings.Contains(res.Message, "Legal Adviser") {
		t.Fatalf("message does not name the legal adviser: %q", res.Message)
	}

	authorize(officers, roles.LegalAdviser)
	res = Evaluate(p, roles.Secretary, officers)
	if !res.Valid {
		t.Fatalf("quorum invalid after legal adviser approval: %s", res.Message)
	}
}

func TestMissingRoleIsDistinctFromUnapproved(t *testing.T) {
	p := policy.For(roles.Settings)
	officers := officersFor(roles.President, roles.Secretary) // no legal adviser seat at all
	authorize(officers, roles.President, roles.Secretary)

	res := Evaluate(p, roles.President, officers)
	if res.Valid {
		t.Fatal("quorum valid with required role absent from roster")
	}
	if !strings.Contains(res.Message, "Not on the signatory roster") {
		t.Fatalf("absent role not reported as missing: %q", res.Message)
	}

	officers = officersFor(roles.President, roles.Secretary, roles.LegalAdviser)
	authorize(officers, roles.President, roles.Secretary)
	res = Evaluate(p, roles.President, officers)
	if !strings.HasPrefix(res.Message, "Awaiting") {
		t.Fatalf("unapproved role not reported as awaiting: %q", res.Message)
	}
}

func TestAuxiliaryApprovalNeverCounts(t *testing.T) {
	p := policy.For(roles.Content)
	officers := officersFor(roles.Secretary, roles.PRO, roles.DirectorOfSocials)
	authorize(officers, roles.Secretary, roles.DirectorOfSocials)

	res := Evaluate(p, roles.Secretary, officers)
	if res.AuthorizedCount != 1 {
		t.Fatalf("auxiliary approval counted: %d", res.AuthorizedCount)
	}
	if res.Valid {
		t.Fatal("quorum valid on auxiliary approval")
	}
}

// TestQuorumAgainstBruteForce enumerates every approval subset for a small
// fixed policy and checks Evaluate against an independent reference check.
func TestQuorumAgainstBruteForce(t *testing.T) {
	p := policy.Policy{
		Module:       roles.Elections,
		Required:     []roles.Role{roles.President, roles.Secretary},
		Alternatives: [][]roles.Role{{roles.PRO, roles.DirectorOfSocials}},
	}
	seats := []roles.Role{roles.President, roles.Secretary, roles.PRO, roles.DirectorOfSocials}

	for mask := 0; mask < 1<<len(seats); mask++ {
		officers := officersFor(seats...)
		approved := make(map[roles.Role]bool)
		for i, r := range seats {
			if mask&(1<<i) != 0 {
				officers[i].Status = StatusAuthorized
				approved[r] = true
			}
		}

		want := approved[roles.President] && approved[roles.Secretary] &&
			(approved[roles.PRO] || approved[roles.DirectorOfSocials]) &&
			len(approved) >= 3

		res := Evaluate(p, roles.President, officers)
		if res.Valid != want {
			t.Fatalf("mask %04b: Valid=%v, want %v (%s)", mask, res.Valid, want, res.Message)
		}
	}
}

func TestFullyAuthorizedMessage(t *testing.T) {
	p := policy.For(roles.Content)
	officers := officersFor(roles.Secretary, roles.PRO)
	authorize(officers, roles.Secretary, roles.PRO)
	res := Evaluate(p, roles.Secretary, officers)
	if !res.Valid || res.Message != "Fully Authorized" {
		t.Fatalf("unexpected result: valid=%v message=%q", res.Valid, res.Message)
	}
}
