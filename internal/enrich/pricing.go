// Package enrich implements the catalog enrichment passes: node analysis,
// industry/process classification, use-case descriptions, pricing, top-2
// selection, and serviceable naming.
package enrich

import "math"

// Pricing rates in INR. Repetitive nodes are instances of a node type already
// counted once; they price lower than the first occurrence of a type.
const (
	repetitiveNodeRateINR = 700
	uniqueNodeRateINR     = 2700

	complexityBase = 0.8
	complexitySpan = 0.4
	complexityMin  = 0.8
	complexityMax  = 1.2
)

// Pricing is the computed price breakdown for one template.
type Pricing struct {
	BasePriceINR         int
	ComplexityMultiplier float64
	FinalPriceINR        int
}

// CalculatePricing derives the template price from node counts. The
// complexity multiplier scales with node-type diversity: a workflow of many
// distinct integrations prices above one that repeats a single node type.
func CalculatePricing(totalNodes, uniqueNodeTypes int) Pricing {
	repetitive := totalNodes - uniqueNodeTypes
	if repetitive < 0 {
		repetitive = 0
	}
	base := repetitive*repetitiveNodeRateINR + uniqueNodeTypes*uniqueNodeRateINR

	diversityRatio := 0.0
	if totalNodes > 0 {
		diversityRatio = float64(uniqueNodeTypes) / float64(totalNodes)
	}

	multiplier := complexityBase + diversityRatio*complexitySpan
	if multiplier < complexityMin {
		multiplier = complexityMin
	}
	if multiplier > complexityMax {
		multiplier = complexityMax
	}
	multiplier = math.Round(multiplier*100) / 100

	return Pricing{
		BasePriceINR:         base,
		ComplexityMultiplier: multiplier,
		FinalPriceINR:        int(math.Round(float64(base) * multiplier)),
	}
}
