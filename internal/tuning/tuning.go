// Package tuning holds the headless server's runtime settings, loaded from a
// YAML file. The simulation parameters themselves live in the JSON config;
// tuning only covers how the server process runs.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ListenAddr string `yaml:"listen_addr"`
	TickRateHz int    `yaml:"tick_rate_hz"`

	ConfigPath  string `yaml:"config_path"`
	DatasetPath string `yaml:"dataset_path"`
	DatasetDB   string `yaml:"dataset_db"`

	// RecordPath enables the tick recorder when non-empty.
	RecordPath string `yaml:"record_path"`
}

func Default() Tuning {
	return Tuning{
		ListenAddr:  ":8080",
		TickRateHz:  60,
		ConfigPath:  "config/config.json",
		DatasetPath: "data/census.json",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults stand.
func Load(path string) (Tuning, error) {
	t := Default()

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return t, fmt.Errorf("tuning: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("tuning: parsing %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tuning) validate() error {
	if t.TickRateHz <= 0 || t.TickRateHz > 1000 {
		return fmt.Errorf("tuning: tick_rate_hz must be in 1..1000, got %d", t.TickRateHz)
	}
	if t.ListenAddr == "" {
		return fmt.Errorf("tuning: listen_addr must not be empty")
	}
	if t.DatasetPath == "" && t.DatasetDB == "" {
		return fmt.Errorf("tuning: either dataset_path or dataset_db must be set")
	}
	return nil
}
