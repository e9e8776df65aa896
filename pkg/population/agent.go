package population

import (
	"fmt"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/dataset"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/geometry"
)

// Agent is one member of the rendered population. Original holds the category
// indices assigned at birth (one per axis); Target is overwritten whenever a
// new interpolated record arrives. Position and velocity are mutated only by
// the clustering force step.
type Agent struct {
	Index     int
	Original  []int
	Target    []int
	Threshold float64
	Pos       geometry.Vector2D
	Vel       geometry.Vector2D
}

// Displayed returns the category indices this agent currently shows: the
// target set once global progress has reached the agent's threshold, the
// original set before that. A hard switch, not a blend — thresholds are
// spread evenly over the population, so a rising progress value sweeps a
// transition wavefront from agent 0 upwards.
func (a *Agent) Displayed(progress float64) []int {
	if progress >= a.Threshold {
		return a.Target
	}
	return a.Original
}

// Population owns the fixed-size ordered agent sequence. Agents are created
// once, never reordered, and never added or removed mid-life.
type Population struct {
	Agents []Agent
	axes   []Axis
}

// New creates a population of total agents with randomized original category
// indices and randomized positions inside the given world rectangle. The
// caller provides the seeded generator so identical seeds reproduce identical
// populations.
//
// Thresholds are (index+1)/total: agent 0 switches first, at progress 1/N,
// and the last agent only once progress reaches 1.
func New(axes []Axis, total int, width, height float64, rng *rand.Rand) (*Population, error) {
	if total <= 0 {
		return nil, fmt.Errorf("population: total must be positive, got %d", total)
	}
	if err := validateAxes(axes); err != nil {
		return nil, err
	}

	p := &Population{
		Agents: make([]Agent, total),
		axes:   axes,
	}
	for i := range p.Agents {
		a := &p.Agents[i]
		a.Index = i
		a.Threshold = float64(i+1) / float64(total)
		a.Original = make([]int, len(axes))
		a.Target = make([]int, len(axes))
		for ai, axis := range axes {
			c := rng.IntN(len(axis.Fields))
			a.Original[ai] = c
			a.Target[ai] = c
		}
		a.Pos = geometry.Vector2D{X: rng.Float64() * width, Y: rng.Float64() * height}
		a.Vel = geometry.Vector2D{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
	}
	return p, nil
}

// Axes returns the configured category axes.
func (p *Population) Axes() []Axis { return p.axes }

// Len returns the fixed population size.
func (p *Population) Len() int { return len(p.Agents) }

// Retarget reassigns every agent's target category indices from an
// interpolated record, axis by axis, through the deterministic sampler.
// Unchanged weights therefore always reproduce the same assignment.
func (p *Population) Retarget(rec *dataset.Record) error {
	total := len(p.Agents)
	for ai, axis := range p.axes {
		weights, err := axis.Weights(rec.Fields)
		if err != nil {
			return err
		}
		for i := range p.Agents {
			label, err := Sample(weights, i, total)
			if err != nil {
				return err
			}
			p.Agents[i].Target[ai] = axis.IndexOf(label)
		}
	}
	return nil
}

// ValidateAgainst checks that every configured axis field is present in every
// snapshot, so a retarget can never reference a missing field. Called once at
// dataset load; a failure is a terminal load error.
func (p *Population) ValidateAgainst(snaps []dataset.Snapshot) error {
	for _, axis := range p.axes {
		for _, f := range axis.Fields {
			for i := range snaps {
				if _, ok := snaps[i].Fields[f]; !ok {
					return fmt.Errorf("population: snapshot %d (key %f) is missing field %q required by axis %q",
						i, snaps[i].Key, f, axis.Name)
				}
			}
		}
	}
	return nil
}
