package authz

import "errors"

var (
	ErrNotFound         = errors.New("authz: session not found")
	ErrInvalidInput     = errors.New("authz: invalid input")
	ErrInvalidRoster    = errors.New("authz: roster does not cover policy roles")
	ErrUnknownRole      = errors.New("authz: role is not part of this session")
	ErrWrongCredential  = errors.New("authz: credential rejected")
	ErrExpired          = errors.New("authz: authorization window closed")
	ErrQuorumNotMet     = errors.New("authz: quorum not met")
	ErrAlreadyFinalized = errors.New("authz: session already finalized")
)
