// Package population models the fixed-size agent population: per-agent
// category state, the deterministic weighted sampler that assigns categories,
// and the staggered original-to-target transition schedule.
package population

import "fmt"

// Weighted pairs a category label with its non-negative weight. Weights are a
// slice, never a Go map: the declaration order is part of the sampling
// contract, because the cumulative thresholds are accumulated in that order.
type Weighted struct {
	Label  string
	Weight float64
}

// Sample converts a weighted category distribution plus an agent identity
// into a category label. It is deliberately deterministic rather than random:
// the sampling position is u = (agentIndex+1)/(totalAgents+1), strictly
// inside (0,1) and increasing in agentIndex. Re-sampling the same agent with
// unchanged weights always yields the same label (no flicker between frames),
// and across increasing agent indices the labels sweep through the categories
// in declaration order, each occupying a contiguous index range.
//
// Degenerate distributions (all weights zero) fall back to the first declared
// label; a negative weight is a caller bug and is rejected.
func Sample(weights []Weighted, agentIndex, totalAgents int) (string, error) {
	if len(weights) == 0 {
		return "", fmt.Errorf("population: empty weight list")
	}
	if totalAgents <= 0 {
		return "", fmt.Errorf("population: totalAgents must be positive, got %d", totalAgents)
	}

	total := 0.0
	for _, w := range weights {
		if w.Weight < 0 {
			return "", fmt.Errorf("population: negative weight %f for label %q", w.Weight, w.Label)
		}
		total += w.Weight
	}
	if total <= 0 {
		return weights[0].Label, nil
	}

	u := float64(agentIndex+1) / float64(totalAgents+1)

	cumulative := 0.0
	for _, w := range weights {
		cumulative += w.Weight / total
		if cumulative >= u {
			return w.Label, nil
		}
	}
	// Floating-point rounding can leave the final cumulative fractionally
	// below 1; the last label owns the remainder.
	return weights[len(weights)-1].Label, nil
}
