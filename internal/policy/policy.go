package policy

import (
	"github.com/google/uuid"

	interfaces "github.com/sheikh-saqib/token-ledger-system/internal/interfaces"
)

// Tier binds a capability name to a deposit scaling factor.
type Tier struct {
	Capability string
	Factor     float64
}

// DefaultTiers is the fixed tier table, ordered highest factor first. The
// first tier the account qualifies for wins.
var DefaultTiers = []Tier{
	{Capability: "tokens.multiplier.2", Factor: 2.0},
	{Capability: "tokens.multiplier.1.5", Factor: 1.5},
	{Capability: "tokens.multiplier.1.25", Factor: 1.25},
}

// MultiplierPolicy maps an account identity to a deposit scaling factor by
// consulting the injected tier resolver. It is a pure query with no side
// effects; only deposit-style operations consult it.
type MultiplierPolicy struct {
	resolver interfaces.TierResolver
	tiers    []Tier
}

// NewMultiplierPolicy creates a policy over the given resolver and tier
// table. A nil tiers slice selects DefaultTiers. A nil resolver means no
// account qualifies for any tier.
func NewMultiplierPolicy(resolver interfaces.TierResolver, tiers []Tier) *MultiplierPolicy {
	if tiers == nil {
		tiers = DefaultTiers
	}
	return &MultiplierPolicy{
		resolver: resolver,
		tiers:    tiers,
	}
}

// MultiplierFor returns the factor of the highest tier the account qualifies
// for, or 1.0 when no tier applies or the account's session cannot be
// resolved.
func (p *MultiplierPolicy) MultiplierFor(accountID uuid.UUID) float64 {
	if p.resolver == nil {
		return 1.0
	}
	for _, tier := range p.tiers {
		if p.resolver.HasCapability(accountID, tier.Capability) {
			return tier.Factor
		}
	}
	return 1.0
}

// StaticResolver is a TierResolver backed by a fixed capability map. Used in
// tests and in deployments without an external permission service.
type StaticResolver struct {
	capabilities map[uuid.UUID]map[string]bool
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		capabilities: make(map[uuid.UUID]map[string]bool),
	}
}

// Grant gives the account the named capability.
func (r *StaticResolver) Grant(accountID uuid.UUID, capability string) {
	if r.capabilities[accountID] == nil {
		r.capabilities[accountID] = make(map[string]bool)
	}
	r.capabilities[accountID][capability] = true
}

func (r *StaticResolver) HasCapability(accountID uuid.UUID, capability string) bool {
	return r.capabilities[accountID][capability]
}

var _ interfaces.TierResolver = (*StaticResolver)(nil)
