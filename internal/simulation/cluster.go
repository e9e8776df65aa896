package simulation

import (
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/population"
)

// Clusterer applies the pairwise clustering forces that make agents sharing a
// category drift into visible groups. Same-category pairs attract, differing
// pairs repel, and a hard short-range separation keeps the blobs from
// collapsing into a point. Both category forces scale with global progress, so
// at progress zero the population is an undifferentiated cloud held together
// only by the weak center pull.
type Clusterer struct {
	minSeparation      float64
	separationStrength float64
	attractionStrength float64
	repulsionStrength  float64
	globalCoefficient  float64
	centerAttraction   float64
	damping            float64
	softening          float64
	center             geometry.Vector2D
}

// NewClusterer builds a clusterer from the force section of the config.
func NewClusterer(cfg *Config) *Clusterer {
	return &Clusterer{
		minSeparation:      cfg.MinSeparation,
		separationStrength: cfg.SeparationStrength,
		attractionStrength: cfg.AttractionStrength,
		repulsionStrength:  cfg.RepulsionStrength,
		globalCoefficient:  cfg.GlobalStrengthCoefficient,
		centerAttraction:   cfg.CenterAttractionCoefficient,
		damping:            cfg.Damping,
		softening:          cfg.Softening,
		center:             cfg.CenterPoint,
	}
}

// SetStrengths replaces the live-tunable force parameters. Called from the
// same goroutine that ticks the simulation.
func (c *Clusterer) SetStrengths(attraction, repulsion, globalCoefficient float64) {
	c.attractionStrength = attraction
	c.repulsionStrength = repulsion
	c.globalCoefficient = globalCoefficient
}

// Step advances every agent's velocity and position by one tick. Agents are
// processed in index order and read each other's already-updated state; the
// asymmetry is part of the model, not a bug to fix with double buffering.
//
// Grouping compares the agents' original category on the first axis only, so
// the spatial layout stays stable while staggered transitions flip the
// displayed categories.
func (c *Clusterer) Step(agents []population.Agent, progress float64) {
	gs := progress * c.globalCoefficient

	for i := range agents {
		a := &agents[i]
		var force geometry.Vector2D

		for j := range agents {
			if i == j {
				continue
			}
			b := &agents[j]

			d := b.Pos.Sub(a.Pos)
			dist := d.Len()
			dir := d.Normalize()

			if dist < c.minSeparation {
				// Separation overrides the category forces entirely.
				force = force.Sub(dir.Mul(c.separationStrength * (c.minSeparation - dist)))
				continue
			}

			denom := dist*dist + c.softening
			if a.Original[0] == b.Original[0] {
				force = force.Add(dir.Mul(c.attractionStrength * gs / denom))
			} else {
				force = force.Sub(dir.Mul(c.repulsionStrength * gs / denom))
			}
		}

		force = force.Add(c.center.Sub(a.Pos).Mul(c.centerAttraction))

		a.Vel = a.Vel.Add(force).Mul(c.damping)
		a.Pos = a.Pos.Add(a.Vel)
	}
}
