package verify

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"countersign.org/internal/roles"
)

func TestStaticVerify(t *testing.T) {
	v, err := NewStatic(map[roles.Role]string{
		roles.President: "alpha",
		roles.Treasurer: "bravo",
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if !v.Verify(ctx, roles.President, "alpha") {
		t.Fatal("correct credential rejected")
	}
	if v.Verify(ctx, roles.President, "bravo") {
		t.Fatal("another role's credential accepted")
	}
	if v.Verify(ctx, roles.Secretary, "alpha") {
		t.Fatal("unenrolled role accepted")
	}
}

func TestStaticRejectsBadConfig(t *testing.T) {
	if _, err := NewStatic(nil); err == nil {
		t.Fatal("expected error for empty secret map")
	}
	if _, err := NewStatic(map[roles.Role]string{roles.Role("janitor"): "x"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := NewStatic(map[roles.Role]string{roles.President: ""}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenVerify(t *testing.T) {
	v, err := NewToken("test-secret", WithIssuer("countersign-test"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	tok, err := v.Issue(roles.Secretary, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Verify(ctx, roles.Secretary, tok) {
		t.Fatal("valid token rejected")
	}
	if v.Verify(ctx, roles.President, tok) {
		t.Fatal("token accepted for a different role")
	}
	if v.Verify(ctx, roles.Secretary, tok+"tampered") {
		t.Fatal("tampered token accepted")
	}

	other, err := NewToken("other-secret")
	if err != nil {
		t.Fatal(err)
	}
	if v.Verify(ctx, roles.Secretary, mustIssue(t, other, roles.Secretary)) {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestTokenExpiry(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v, err := NewToken("test-secret", WithTimeFunc(func() time.Time { return current }))
	if err != nil {
		t.Fatal(err)
	}
	tok, err := v.Issue(roles.Treasurer, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Verify(context.Background(), roles.Treasurer, tok) {
		t.Fatal("fresh token rejected")
	}

	current = current.Add(2 * time.Minute)
	if v.Verify(context.Background(), roles.Treasurer, tok) {
		t.Fatal("expired token accepted")
	}
}

func TestRateLimitedThrottles(t *testing.T) {
	calls := 0
	inner := Func(func(ctx context.Context, role roles.Role, credential string) bool {
		calls++
		return credential == "ok"
	})
	rl := NewRateLimited(inner, rate.Limit(0.001), 2)
	ctx := context.Background()

	if !rl.Verify(ctx, roles.President, "ok") {
		t.Fatal("first attempt rejected")
	}
	if rl.Verify(ctx, roles.President, "bad") {
		t.Fatal("bad credential accepted")
	}
	// Burst exhausted: throttled before reaching the inner verifier.
	if rl.Verify(ctx, roles.President, "ok") {
		t.Fatal("throttled attempt accepted")
	}
	if calls != 2 {
		t.Fatalf("inner verifier called %d times, want 2", calls)
	}

	// Other roles have their own bucket.
	if !rl.Verify(ctx, roles.Secretary, "ok") {
		t.Fatal("independent role throttled")
	}
}

func mustIssue(t *testing.T, v *Token, role roles.Role) string {
	t.Helper()
	tok, err := v.Issue(role, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}
