package fallback

import "sightline-hq/beacon/pkg/providers"

// BuildChain orders configured instances into the chain the orchestrator
// will walk: the preferred primary first when it is present and enabled,
// then all other enabled instances in their existing relative order.
// Disabled instances never enter the chain. When primary is empty, unknown,
// or disabled, the chain is simply every enabled instance in order.
func BuildChain(instances []providers.Instance, primary string) []providers.Instance {
	chain := make([]providers.Instance, 0, len(instances))

	if primary != "" {
		for _, inst := range instances {
			if inst.ID() == primary && inst.Enabled {
				chain = append(chain, inst)
				break
			}
		}
	}

	for _, inst := range instances {
		if !inst.Enabled {
			continue
		}
		if len(chain) > 0 && chain[0].ID() == inst.ID() {
			continue
		}
		chain = append(chain, inst)
	}
	return chain
}
