package verify

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"countersign.org/internal/roles"
)

// Static verifies credentials against a fixed role→secret map. It exists for
// development and tests; a real deployment should delegate to an identity
// provider via Token or a custom Verifier.
type Static struct {
	hashes map[roles.Role]string
}

// NewStatic hashes the given plaintext secrets and returns a verifier over
// them. Secrets never leave the process unhashed.
func NewStatic(secrets map[roles.Role]string) (*Static, error) {
	if len(secrets) == 0 {
		return nil, errors.New("verify: at least one role secret is required")
	}
	hashes := make(map[roles.Role]string, len(secrets))
	for role, secret := range secrets {
		if !roles.Valid(role) {
			return nil, errors.New("verify: unknown role " + string(role))
		}
		if secret == "" {
			return nil, errors.New("verify: empty secret for role " + string(role))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashes[role] = string(hash)
	}
	return &Static{hashes: hashes}, nil
}

// NewStaticFromHashes builds a verifier from precomputed bcrypt hashes.
func NewStaticFromHashes(hashes map[roles.Role]string) (*Static, error) {
	if len(hashes) == 0 {
		return nil, errors.New("verify: at least one role hash is required")
	}
	copied := make(map[roles.Role]string, len(hashes))
	for role, hash := range hashes {
		copied[role] = hash
	}
	return &Static{hashes: copied}, nil
}

// Verify implements Verifier.
func (s *Static) Verify(ctx context.Context, role roles.Role, credential string) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	hash, ok := s.hashes[role]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(credential)) == nil
}
