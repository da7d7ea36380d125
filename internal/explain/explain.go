// Package explain holds the long-form explanations printed by the
// explain command.
package explain

import (
	"fmt"
	"sort"
	"strings"
)

var topics = map[string]string{
	"tco": `Total cost of ownership adds a one-time initial cost to the recurring annual cost over the projection horizon.

The initial cost is hardware per device plus the implementation fee, scaled by the complexity multiplier.
The annual cost is licensing per device, maintenance, and the share of an engineer (FTE) the deployment needs.
Cost multipliers scale each category before anything is summed, so 1.2 on licensing means a 20% uplift.`,

	"complexity": `Complexity raises the initial cost of deployments that are harder to roll out.

Four factors contribute: additional locations, the share of legacy devices, the industry's regulatory burden, and custom policies.
Each factor is capped on its own before they are added up.
Cloud vendors absorb part of that uplift, so the sum is scaled by the vendor type's impact before it is added to 1.
The result never exceeds the catalog's maximum multiplier.`,

	"breach": `Breach exposure is the expected yearly cost of a data breach: the cost of one breach times its annual probability.

Breaches up to the catalog's record threshold are costed per record; larger ones use the industry's average breach cost.
That figure is adjusted for company size and split into components weighted by the industry.
The mitigated scenario lowers the probability and reduces each component by the product's response, scope, and impact improvements.`,

	"breakeven": `A breakeven is the parameter value where two vendors cost the same.

Each sweep evaluates every vendor at each sampled value.
When the sign of the cost difference between two vendors flips between adjacent samples, the crossover is interpolated linearly between them.
Only the first crossover per pair is reported; widen or narrow the sweep to look for others.`,
}

func Topics() []string {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Topic(name string) (string, error) {
	text, ok := topics[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown topic %q (choose from %s)", name, strings.Join(Topics(), ", "))
	}
	return text, nil
}
