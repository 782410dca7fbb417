// Package verify defines the credential verifier contract the authorization
// engine delegates to, plus reference implementations. The engine only ever
// asks one question: does this credential prove the submitting officer holds
// this role. Any verifier failure degrades to a rejection — fail closed.
package verify

import (
	"context"

	"countersign.org/internal/roles"
)

// Verifier checks a submitted credential for a role.
type Verifier interface {
	Verify(ctx context.Context, role roles.Role, credential string) bool
}

// Func adapts a plain function to the Verifier interface.
type Func func(ctx context.Context, role roles.Role, credential string) bool

// Verify implements Verifier.
func (f Func) Verify(ctx context.Context, role roles.Role, credential string) bool {
	return f(ctx, role, credential)
}
