// Package record writes the simulation's tick-by-tick views to a
// zstd-compressed JSONL file, one tick per line, for offline analysis and
// replay.
package record

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/lao-tseu-is-alive/go-demographic-drift/internal/simulation"
)

// line is one recorded tick.
type line struct {
	Tick uint64           `json:"tick"`
	View *simulation.View `json:"view"`
}

// Recorder streams views into a single .jsonl.zst file. Not safe for
// concurrent use; call it from the goroutine that owns the engine.
type Recorder struct {
	f   *os.File
	zw  *zstd.Encoder
	enc *json.Encoder
}

// NewRecorder creates (or truncates) the output file.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: creating %s: %w", path, err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("record: zstd writer: %w", err)
	}
	return &Recorder{f: f, zw: zw, enc: json.NewEncoder(zw)}, nil
}

// WriteTick appends one view. json.Encoder terminates each value with a
// newline, which is exactly the JSONL framing.
func (r *Recorder) WriteTick(tick uint64, v *simulation.View) error {
	if err := r.enc.Encode(line{Tick: tick, View: v}); err != nil {
		return fmt.Errorf("record: encoding tick %d: %w", tick, err)
	}
	return nil
}

// Close flushes the compressor and closes the file.
func (r *Recorder) Close() error {
	if err := r.zw.Close(); err != nil {
		r.f.Close()
		return fmt.Errorf("record: closing zstd stream: %w", err)
	}
	if err := r.f.Close(); err != nil {
		return fmt.Errorf("record: closing file: %w", err)
	}
	return nil
}
