// Package roster defines the collaborator that supplies the eligible officer
// set for a module, plus an in-memory implementation for hosts that keep
// their officer list in configuration.
package roster

import (
	"context"
	"errors"
	"sync"

	"countersign.org/internal/roles"
)

// Member is one eligible officer as supplied by the hosting application.
type Member struct {
	Role        roles.Role
	DisplayName string
}

// Provider supplies the officers eligible to sign actions of a module.
type Provider interface {
	Officers(ctx context.Context, module roles.Module) ([]Member, error)
}

// InMemory is a Provider backed by static officer lists. Safe for concurrent
// use.
type InMemory struct {
	mu       sync.RWMutex
	byModule map[roles.Module][]Member
	fallback []Member
}

// NewInMemory returns an empty provider.
func NewInMemory() *InMemory {
	return &InMemory{byModule: make(map[roles.Module][]Member)}
}

// SetDefault installs the officer list used for modules without a specific
// list of their own.
func (p *InMemory) SetDefault(members ...Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallback = append([]Member{}, members...)
}

// Set installs the officer list for one module.
func (p *InMemory) Set(module roles.Module, members ...Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byModule[module] = append([]Member{}, members...)
}

// Officers implements Provider.
func (p *InMemory) Officers(ctx context.Context, module roles.Module) ([]Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	members, ok := p.byModule[module]
	if !ok {
		members = p.fallback
	}
	if len(members) == 0 {
		return nil, errors.New("roster: no officers configured for module " + string(module))
	}
	return append([]Member{}, members...), nil
}
