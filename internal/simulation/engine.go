package simulation

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/dataset"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/population"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/progress"
)

// Engine ties the dataset store, the population and the clusterer together
// behind a single Tick entry point. All methods except SetDataset must be
// called from one goroutine (the frame or tick loop); SetDataset may be called
// once from a dataset-loading goroutine.
type Engine struct {
	cfg       *Config
	store     *dataset.Store
	pop       *population.Population
	source    *progress.Source
	clusterer *Clusterer

	progress float64
	pending  atomic.Bool
	l        *log.Logger
}

// NewEngine validates the config and builds the engine with a freshly seeded
// population. The dataset arrives later through SetDataset.
func NewEngine(cfg *Config, l *log.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	pop, err := population.New(cfg.Axes, cfg.TotalAgents, cfg.WorldWidth, cfg.WorldHeight, rng)
	if err != nil {
		return nil, err
	}

	source, err := progress.NewSource(
		cfg.ScrubMin, cfg.ScrubMax,
		cfg.SmoothingFactor, cfg.ProgressChangeEpsilon,
		time.Duration(cfg.RecomputeIntervalMs)*time.Millisecond,
	)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		store:     dataset.NewStore(cfg.OrderingKey),
		pop:       pop,
		source:    source,
		clusterer: NewClusterer(cfg),
		l:         l,
	}, nil
}

// SetDataset publishes the loaded snapshots to the engine. It first checks
// every axis field against every snapshot so a later retarget cannot fail on
// a missing field. Safe to call from the loader goroutine; the next Tick picks
// the dataset up.
func (e *Engine) SetDataset(snaps []dataset.Snapshot) error {
	if err := e.pop.ValidateAgainst(snaps); err != nil {
		return err
	}
	if err := e.store.Load(snaps); err != nil {
		return err
	}
	min, max, _ := e.store.Bounds()
	e.l.Printf("dataset ready: %d snapshots, %s range [%g,%g]", e.store.Len(), e.cfg.OrderingKey, min, max)
	e.pending.Store(true)
	return nil
}

// Ready reports whether a dataset has been published.
func (e *Engine) Ready() bool { return e.store.Ready() }

// Config returns the engine's configuration.
func (e *Engine) Config() *Config { return e.cfg }

// Progress returns the progress value of the last tick.
func (e *Engine) Progress() float64 { return e.progress }

// SetStrengths forwards live force tuning to the clusterer.
func (e *Engine) SetStrengths(attraction, repulsion, globalCoefficient float64) {
	e.clusterer.SetStrengths(attraction, repulsion, globalCoefficient)
}

// Tick advances the simulation by one frame: feed the raw scrub coordinate
// through the progress source, retarget the population when a recompute is
// due and the dataset is ready, then run one clustering step. Before the
// dataset arrives the population still moves, it just never changes category.
func (e *Engine) Tick(raw float64, now time.Time) {
	p, recompute := e.source.Observe(raw, now)

	if (recompute || e.pending.Load()) && e.store.Ready() {
		if rec := e.store.Interpolate(p); rec != nil {
			if err := e.pop.Retarget(rec); err != nil {
				// ValidateAgainst at load time makes this unreachable; log
				// and keep the previous targets if it happens anyway.
				e.l.Printf("retarget failed at progress %g: %v", p, err)
			} else {
				e.pending.Store(false)
			}
		}
	}

	e.clusterer.Step(e.pop.Agents, p)
	e.progress = p
}

// AgentView is one agent's render-ready state.
type AgentView struct {
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Categories []int   `json:"categories"`
}

// View is a materialized copy of the visible simulation state, safe to hand
// to a renderer or encode onto the wire after the tick that produced it.
type View struct {
	Progress float64     `json:"progress"`
	Ready    bool        `json:"ready"`
	Agents   []AgentView `json:"agents"`
}

// View materializes the current state using each agent's displayed categories
// at the last ticked progress value.
func (e *Engine) View() *View {
	v := &View{
		Progress: e.progress,
		Ready:    e.store.Ready(),
		Agents:   make([]AgentView, len(e.pop.Agents)),
	}
	for i := range e.pop.Agents {
		a := &e.pop.Agents[i]
		disp := a.Displayed(e.progress)
		cats := make([]int, len(disp))
		copy(cats, disp)
		v.Agents[i] = AgentView{Index: a.Index, X: a.Pos.X, Y: a.Pos.Y, Categories: cats}
	}
	return v
}

// CategoryCounts tallies how many agents currently display each category of
// the given axis. Used by the stats overlay and the observer bootstrap.
func (e *Engine) CategoryCounts(axis int) ([]int, error) {
	axes := e.pop.Axes()
	if axis < 0 || axis >= len(axes) {
		return nil, fmt.Errorf("simulation: axis %d out of range (have %d)", axis, len(axes))
	}
	counts := make([]int, len(axes[axis].Fields))
	for i := range e.pop.Agents {
		counts[e.pop.Agents[i].Displayed(e.progress)[axis]]++
	}
	return counts, nil
}
