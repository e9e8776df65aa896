package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/simulation"
	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/viz"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/dataset"
)

func main() {
	configPath := flag.String("config", "config/config.json", "simulation config (JSON)")
	datasetPath := flag.String("dataset", "data/census.json", "dataset file (.json, .json.zst or .db)")
	flag.Parse()

	l := log.New(os.Stderr, "drift ", log.LstdFlags)

	cfg, err := simulation.LoadConfig(*configPath)
	if err != nil {
		l.Fatalf("loading config: %v", err)
	}

	engine, err := simulation.NewEngine(cfg, l)
	if err != nil {
		l.Fatalf("creating engine: %v", err)
	}

	// The dataset loads in the background; the window opens immediately and
	// the population clusters while we wait.
	go func() {
		snaps, err := loadDataset(*datasetPath, cfg.OrderingKey)
		if err != nil {
			l.Fatalf("loading dataset %s: %v", *datasetPath, err)
		}
		if err := engine.SetDataset(snaps); err != nil {
			l.Fatalf("publishing dataset: %v", err)
		}
	}()

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Demographic Drift")
	if err := ebiten.RunGame(viz.NewGame(engine)); err != nil {
		l.Fatal(err)
	}
}

func loadDataset(path, orderingKey string) ([]dataset.Snapshot, error) {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		return dataset.LoadSQLite(context.Background(), path, orderingKey)
	}
	return dataset.LoadFile(path, orderingKey)
}
