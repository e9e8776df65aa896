// Package viz is the ebiten frontend: one window showing the drifting
// population, a control panel for the scrub bar and the live force tuning,
// and a stats bar tracking the displayed category counts.
package viz

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/simulation"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/ui"
)

const agentRadius = 5

// palette colors agents by their displayed category on the first axis.
// Categories beyond the palette wrap around.
var palette = []color.RGBA{
	{R: 66, G: 135, B: 245, A: 255},
	{R: 240, G: 101, B: 67, A: 255},
	{R: 87, G: 201, B: 119, A: 255},
	{R: 250, G: 200, B: 70, A: 255},
	{R: 186, G: 104, B: 200, A: 255},
	{R: 77, G: 208, B: 225, A: 255},
}

func categoryColor(c int) color.RGBA { return palette[c%len(palette)] }

type Game struct {
	engine *simulation.Engine
	cfg    *simulation.Config

	panel            *ui.Panel
	widgetScrub      *ui.Slider
	widgetAttraction *ui.Slider
	widgetRepulsion  *ui.Slider
	widgetGlobal     *ui.Slider
	widgetThresholds *ui.Checkbox

	paused bool

	// Rolling frame-time averages in ms.
	updateAvg float64
	drawAvg   float64
}

func NewGame(engine *simulation.Engine) *Game {
	cfg := engine.Config()

	panel := ui.NewPanel(10, 10, 260, cfg.WorldHeight-20, "Demographic Drift")

	panel.Section("Timeline")
	widgetScrub := panel.AddSlider("Scrub", cfg.ScrubMin, cfg.ScrubMax, cfg.ScrubMin)

	panel.Section("Clustering Forces")
	widgetAttraction := panel.AddSlider("Attraction", 0, cfg.AttractionStrength*2, cfg.AttractionStrength)
	widgetRepulsion := panel.AddSlider("Repulsion", 0, cfg.RepulsionStrength*2, cfg.RepulsionStrength)
	widgetGlobal := panel.AddSlider("Global Strength", 0, 2, cfg.GlobalStrengthCoefficient)

	panel.Section("Display")
	widgetThresholds := panel.AddCheckbox("Mark switched agents", false)

	g := &Game{
		engine:           engine,
		cfg:              cfg,
		panel:            panel,
		widgetScrub:      widgetScrub,
		widgetAttraction: widgetAttraction,
		widgetRepulsion:  widgetRepulsion,
		widgetGlobal:     widgetGlobal,
		widgetThresholds: widgetThresholds,
	}
	panel.AddButton("Pause", func() { g.paused = !g.paused })
	return g
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()

	if g.paused {
		return nil
	}

	g.engine.SetStrengths(g.widgetAttraction.Value, g.widgetRepulsion.Value, g.widgetGlobal.Value)
	g.engine.Tick(g.widgetScrub.Value, time.Now())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	view := g.engine.View()
	markSwitched := g.widgetThresholds.Value

	for i := range view.Agents {
		a := &view.Agents[i]
		vector.FillCircle(screen, float32(a.X), float32(a.Y), agentRadius,
			categoryColor(a.Categories[0]), true)
		if markSwitched && view.Progress >= thresholdOf(i, len(view.Agents)) {
			vector.StrokeCircle(screen, float32(a.X), float32(a.Y), agentRadius+3,
				1, color.RGBA{R: 255, G: 255, B: 255, A: 160}, true)
		}
	}

	g.panel.Draw(screen)
	g.drawStatsBar(screen)

	if !view.Ready {
		ebitenutil.DebugPrintAt(screen, "loading dataset...",
			int(g.cfg.WorldWidth/2-60), int(g.cfg.WorldHeight/2))
	}

	msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nProgress: %.3f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(), ebiten.ActualTPS(), view.Progress, g.updateAvg, g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, int(g.cfg.WorldWidth)-150, 60)
}

// thresholdOf mirrors the staggering rule: agent i switches at (i+1)/n.
func thresholdOf(i, n int) float64 { return float64(i+1) / float64(n) }

// drawStatsBar renders a stacked horizontal bar of the displayed category
// shares on the first axis, top right.
func (g *Game) drawStatsBar(screen *ebiten.Image) {
	counts, err := g.engine.CategoryCounts(0)
	if err != nil {
		return
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return
	}

	const barWidth, barHeight = 200.0, 20.0
	x := float32(screen.Bounds().Dx()) - barWidth - 10
	y := float32(10.0)

	segX := x
	for ci, c := range counts {
		w := float32(barWidth) * float32(c) / float32(total)
		vector.FillRect(screen, segX, y, w, barHeight, categoryColor(ci), true)
		segX += w
	}

	fields := g.cfg.Axes[0].Fields
	legendY := int(y + barHeight + 5)
	for ci, c := range counts {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %d", fields[ci], c),
			int(x), legendY+ci*14)
	}
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight)
}
