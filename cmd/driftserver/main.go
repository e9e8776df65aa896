package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/record"
	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/simulation"
	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/transport/observer"
	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/tuning"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/dataset"
)

func main() {
	tuningPath := flag.String("tuning", "config/server.yaml", "server tuning (YAML)")
	flag.Parse()

	l := log.New(os.Stderr, "driftserver ", log.LstdFlags)

	tn, err := tuning.Load(*tuningPath)
	if err != nil {
		l.Fatalf("loading tuning: %v", err)
	}

	cfg, err := simulation.LoadConfig(tn.ConfigPath)
	if err != nil {
		l.Fatalf("loading config: %v", err)
	}

	engine, err := simulation.NewEngine(cfg, l)
	if err != nil {
		l.Fatalf("creating engine: %v", err)
	}

	go func() {
		snaps, err := loadDataset(tn, cfg.OrderingKey)
		if err != nil {
			l.Fatalf("loading dataset: %v", err)
		}
		if err := engine.SetDataset(snaps); err != nil {
			l.Fatalf("publishing dataset: %v", err)
		}
	}()

	var rec *record.Recorder
	if tn.RecordPath != "" {
		rec, err = record.NewRecorder(tn.RecordPath)
		if err != nil {
			l.Fatalf("creating recorder: %v", err)
		}
		l.Printf("recording ticks to %s", tn.RecordPath)
	}

	srv := observer.NewServer(cfg, tn.TickRateHz, l)
	httpSrv := &http.Server{Addr: tn.ListenAddr, Handler: srv.Handler()}
	go func() {
		l.Printf("listening on %s", tn.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// The tick loop owns the engine. Clients only ever talk to it through
	// the scrub channel; views go out as materialized copies.
	ticker := time.NewTicker(time.Second / time.Duration(tn.TickRateHz))
	defer ticker.Stop()

	raw := cfg.ScrubMin
	var tick uint64
	for {
		select {
		case <-stop:
			l.Print("shutting down")
			srv.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			httpSrv.Shutdown(ctx)
			cancel()
			if rec != nil {
				if err := rec.Close(); err != nil {
					l.Printf("closing recorder: %v", err)
				}
			}
			return
		case v := <-srv.Scrub():
			raw = v
		case now := <-ticker.C:
			engine.Tick(raw, now)
			view := engine.View()
			srv.Broadcast(view)
			if rec != nil {
				if err := rec.WriteTick(tick, view); err != nil {
					l.Printf("recording tick %d: %v", tick, err)
				}
			}
			tick++
		}
	}
}

func loadDataset(tn tuning.Tuning, orderingKey string) ([]dataset.Snapshot, error) {
	if tn.DatasetDB != "" {
		return dataset.LoadSQLite(context.Background(), tn.DatasetDB, orderingKey)
	}
	if strings.HasSuffix(tn.DatasetPath, ".db") || strings.HasSuffix(tn.DatasetPath, ".sqlite") {
		return dataset.LoadSQLite(context.Background(), tn.DatasetPath, orderingKey)
	}
	return dataset.LoadFile(tn.DatasetPath, orderingKey)
}
