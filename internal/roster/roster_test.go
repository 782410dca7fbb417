package roster

import (
	"context"
	"testing"

	"countersign.org/internal/roles"
)

func TestModuleSpecificListOverridesDefault(t *testing.T) {
	p := NewInMemory()
	p.SetDefault(
		Member{Role: roles.President},
		Member{Role: roles.Secretary},
	)
	p.Set(roles.Finances,
		Member{Role: roles.President},
		Member{Role: roles.Treasurer},
		Member{Role: roles.FinancialSecretary},
	)
	ctx := context.Background()

	def, err := p.Officers(ctx, roles.Content)
	if err != nil {
		t.Fatal(err)
	}
	if len(def) != 2 {
		t.Fatalf("default roster size = %d, want 2", len(def))
	}

	fin, err := p.Officers(ctx, roles.Finances)
	if err != nil {
		t.Fatal(err)
	}
	if len(fin) != 3 || fin[1].Role != roles.Treasurer {
		t.Fatalf("finance roster = %+v", fin)
	}
}

func TestEmptyRosterErrors(t *testing.T) {
	p := NewInMemory()
	if _, err := p.Officers(context.Background(), roles.Members); err == nil {
		t.Fatal("expected error for unconfigured roster")
	}
}

func TestOfficersReturnsCopy(t *testing.T) {
	p := NewInMemory()
	p.SetDefault(Member{Role: roles.President, DisplayName: "A"})
	got, err := p.Officers(context.Background(), roles.Members)
	if err != nil {
		t.Fatal(err)
	}
	got[0].DisplayName = "mutated"
	again, _ := p.Officers(context.Background(), roles.Members)
	if again[0].DisplayName != "A" {
		t.Fatal("provider returned shared slice")
	}
}
