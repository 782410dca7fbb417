package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"countersign.org/internal/authz"
	"countersign.org/internal/descriptor"
	"countersign.org/internal/obs"
	"countersign.org/internal/roles"
	"countersign.org/internal/roster"
	"countersign.org/internal/verify"
)

var version = "0.1.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, "smoke")

	ttl := 24 * time.Hour
	if raw := os.Getenv("COUNTERSIGN_SESSION_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("parse COUNTERSIGN_SESSION_TTL: %v", err)
		}
		ttl = parsed
	}

	secrets := map[roles.Role]string{
		roles.President: "president-secret",
		roles.Secretary: "secretary-secret",
		roles.Treasurer: "treasurer-secret",
		roles.PRO:       "pro-secret",
	}
	verifier, err := verify.NewStatic(secrets)
	if err != nil {
		log.Fatalf("build verifier: %v", err)
	}

	officers := roster.NewInMemory()
	officers.SetDefault(
		roster.Member{Role: roles.President, DisplayName: "President"},
		roster.Member{Role: roles.Secretary, DisplayName: "Secretary"},
		roster.Member{Role: roles.Treasurer, DisplayName: "Treasurer"},
		roster.Member{Role: roles.FinancialSecretary, DisplayName: "Financial Secretary"},
		roster.Member{Role: roles.PRO, DisplayName: "PRO"},
	)

	quorumReached := make(chan struct{}, 1)
	manager, err := authz.NewManager(verifier, officers,
		authz.WithTTL(ttl),
		authz.WithObserver(func(ev authz.Event) {
			if ev.Kind == authz.EventQuorumReached {
				quorumReached <- struct{}{}
			}
		}),
	)
	if err != nil {
		log.Fatalf("build manager: %v", err)
	}

	action, ok := descriptor.Describe(roles.Finances, descriptor.KindTransferFunds)
	if !ok {
		log.Fatal("transfer_funds not declared for finances")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Treasurer-initiated transfer: four signatures required.
	snap, err := manager.Open(ctx, roles.Finances, roles.Treasurer)
	if err != nil {
		log.Fatalf("open session for %q: %v", action.Title, err)
	}
	obs.LogEvent("smoke.session_opened", map[string]any{
		"session_id": snap.ID,
		"action":     action.Title,
		"required":   snap.Quorum.RequiredCount,
	})

	if err := manager.Approve(ctx, snap.ID, roles.President, "not-the-secret"); !errors.Is(err, authz.ErrWrongCredential) {
		log.Fatalf("bad credential not rejected: %v", err)
	}

	for role, secret := range map[roles.Role]string{
		roles.President: secrets[roles.President],
		roles.Secretary: secrets[roles.Secretary],
		roles.Treasurer: secrets[roles.Treasurer],
	} {
		if err := manager.Approve(ctx, snap.ID, role, secret); err != nil {
			log.Fatalf("approve %s: %v", role, err)
		}
	}
	if err := manager.Confirm(ctx, snap.ID); !errors.Is(err, authz.ErrQuorumNotMet) {
		log.Fatalf("confirm with 3 of 4 signatures: %v", err)
	}

	if err := manager.Approve(ctx, snap.ID, roles.PRO, secrets[roles.PRO]); err != nil {
		log.Fatalf("approve pro: %v", err)
	}
	select {
	case <-quorumReached:
	case <-time.After(time.Second):
		log.Fatal("quorum_reached event never delivered")
	}
	if err := manager.Confirm(ctx, snap.ID); err != nil {
		log.Fatalf("confirm with full quorum: %v", err)
	}

	final, err := manager.Snapshot(snap.ID)
	if err != nil {
		log.Fatalf("snapshot: %v", err)
	}
	if final.State != authz.StateConfirmed || !final.Quorum.Valid {
		log.Fatalf("unexpected final state: %s (%s)", final.State, final.Quorum.Message)
	}

	fmt.Printf("✅ countersign smoke test passed: session=%s quorum=%d/%d\n",
		final.ID, final.Quorum.AuthorizedCount, final.Quorum.RequiredCount)
}
