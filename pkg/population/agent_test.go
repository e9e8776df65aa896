package population

import (
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/dataset"
)

func testAxes() []Axis {
	return []Axis{
		{Name: "group", Fields: []string{"groupA", "groupB"}},
		{Name: "ageBand", Fields: []string{"young", "old"}},
	}
}

func newTestPopulation(t *testing.T, total int) *Population {
	t.Helper()
	rng := rand.New(rand.NewPCG(42, 42))
	p, err := New(testAxes(), total, 100, 100, rng)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestNew_Reproducible(t *testing.T) {
	a := newTestPopulation(t, 25)
	b := newTestPopulation(t, 25)

	for i := range a.Agents {
		if a.Agents[i].Original[0] != b.Agents[i].Original[0] ||
			a.Agents[i].Original[1] != b.Agents[i].Original[1] {
			t.Fatalf("agent %d categories differ across identical seeds", i)
		}
		if !a.Agents[i].Pos.Eq(b.Agents[i].Pos) {
			t.Fatalf("agent %d positions differ across identical seeds", i)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if _, err := New(testAxes(), 0, 100, 100, rng); err == nil {
		t.Error("expected error for zero agents")
	}
	if _, err := New(nil, 10, 100, 100, rng); err == nil {
		t.Error("expected error for empty axes")
	}
	if _, err := New([]Axis{{Name: "g", Fields: []string{"a", "a"}}}, 10, 100, 100, rng); err == nil {
		t.Error("expected error for duplicate axis field")
	}
}

func TestDisplayed_Staggering(t *testing.T) {
	// 10 agents: at progress 0.35 agents 0-2 have crossed their thresholds
	// and show the target state; agents 3-9 still show the original.
	p := newTestPopulation(t, 10)
	for i := range p.Agents {
		p.Agents[i].Target = []int{1, 1}
		p.Agents[i].Original = []int{0, 0}
	}

	for i := range p.Agents {
		got := p.Agents[i].Displayed(0.35)
		wantTarget := i <= 2
		if wantTarget && got[0] != 1 {
			t.Errorf("agent %d should display target at progress 0.35", i)
		}
		if !wantTarget && got[0] != 0 {
			t.Errorf("agent %d should display original at progress 0.35", i)
		}
	}
}

func TestDisplayed_ExactFractions(t *testing.T) {
	// At progress k/N exactly k agents have switched.
	const n = 10
	p := newTestPopulation(t, n)
	for i := range p.Agents {
		p.Agents[i].Target = []int{1, 1}
		p.Agents[i].Original = []int{0, 0}
	}

	for k := 0; k <= n; k++ {
		progress := float64(k) / float64(n)
		switched := 0
		for i := range p.Agents {
			if p.Agents[i].Displayed(progress)[0] == 1 {
				switched++
			}
		}
		if switched != k {
			t.Errorf("progress %d/%d: expected %d switched agents, got %d", k, n, k, switched)
		}
	}
}

func TestDisplayed_OutOfRangeProgress(t *testing.T) {
	p := newTestPopulation(t, 5)
	for i := range p.Agents {
		p.Agents[i].Target = []int{1, 1}
		p.Agents[i].Original = []int{0, 0}
	}

	for i := range p.Agents {
		if p.Agents[i].Displayed(-0.5)[0] != 0 {
			t.Errorf("agent %d: negative progress must behave as 0 (nobody switched)", i)
		}
		if p.Agents[i].Displayed(1.5)[0] != 1 {
			t.Errorf("agent %d: progress above 1 must behave as all switched", i)
		}
	}
}

func TestRetarget(t *testing.T) {
	p := newTestPopulation(t, 20)

	rec := &dataset.Record{
		Key: 0.5,
		Fields: map[string]float64{
			"groupA": 1.0, "groupB": 0.0,
			"young": 0.0, "old": 1.0,
		},
	}
	if err := p.Retarget(rec); err != nil {
		t.Fatalf("Retarget failed: %v", err)
	}

	for i := range p.Agents {
		if got := p.Agents[i].Target[0]; got != 0 {
			t.Errorf("agent %d: all weight on groupA, expected target index 0, got %d", i, got)
		}
		if got := p.Agents[i].Target[1]; got != 1 {
			t.Errorf("agent %d: all weight on old, expected target index 1, got %d", i, got)
		}
	}

	// Same record again: identical assignment (no flicker).
	before := make([]int, len(p.Agents))
	for i := range p.Agents {
		before[i] = p.Agents[i].Target[0]
	}
	if err := p.Retarget(rec); err != nil {
		t.Fatalf("Retarget failed: %v", err)
	}
	for i := range p.Agents {
		if p.Agents[i].Target[0] != before[i] {
			t.Fatalf("agent %d target changed on identical re-retarget", i)
		}
	}
}

func TestRetarget_MissingField(t *testing.T) {
	p := newTestPopulation(t, 5)
	rec := &dataset.Record{Key: 0, Fields: map[string]float64{"groupA": 1.0}}
	if err := p.Retarget(rec); err == nil {
		t.Error("expected error for record missing axis fields")
	}
}

func TestValidateAgainst(t *testing.T) {
	p := newTestPopulation(t, 5)

	good := []dataset.Snapshot{
		{Key: 0, Fields: map[string]float64{"groupA": 1, "groupB": 0, "young": 1, "old": 0}},
	}
	if err := p.ValidateAgainst(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := []dataset.Snapshot{
		{Key: 0, Fields: map[string]float64{"groupA": 1, "groupB": 0, "young": 1}},
	}
	if err := p.ValidateAgainst(bad); err == nil {
		t.Error("expected error for snapshot missing an axis field")
	}
}
