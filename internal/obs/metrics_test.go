package obs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSessionLifecycleMetrics(t *testing.T) {
	Init()

	SessionOpened()
	SessionOpened()
	if got := testutil.ToFloat64(sessionsOpen); got != 2 {
		t.Fatalf("sessions open = %v, want 2", got)
	}

	SessionFinalized("finances", "confirmed")
	if got := testutil.ToFloat64(sessionsOpen); got != 1 {
		t.Fatalf("sessions open after finalize = %v, want 1", got)
	}
	if got := testutil.ToFloat64(sessionsFinalized.WithLabelValues("finances", "confirmed")); got != 1 {
		t.Fatalf("finalized counter = %v, want 1", got)
	}

	ApprovalAttempt("finances", "wrong_credential")
	ApprovalAttempt("finances", "wrong_credential")
	if got := testutil.ToFloat64(approvalAttempts.WithLabelValues("finances", "wrong_credential")); got != 2 {
		t.Fatalf("attempt counter = %v, want 2", got)
	}
}
