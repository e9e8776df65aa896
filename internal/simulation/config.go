package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-demographic-drift/pkg/population"
)

// configSchema rejects structurally broken config files before the typed
// unmarshal; value ranges are checked afterwards by Validate.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["totalAgents", "orderingKey", "axes"],
  "properties": {
    "totalAgents": {"type": "integer"},
    "seed": {"type": "integer"},
    "worldWidth": {"type": "number"},
    "worldHeight": {"type": "number"},
    "orderingKey": {"type": "string", "minLength": 1},
    "axes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "fields"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "fields": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          }
        }
      }
    },
    "minSeparation": {"type": "number"},
    "separationStrength": {"type": "number"},
    "attractionStrength": {"type": "number"},
    "repulsionStrength": {"type": "number"},
    "globalStrengthCoefficient": {"type": "number"},
    "centerAttractionCoefficient": {"type": "number"},
    "damping": {"type": "number"},
    "softening": {"type": "number"},
    "recomputeIntervalMs": {"type": "integer"},
    "progressChangeEpsilon": {"type": "number"},
    "smoothingFactor": {"type": "number"},
    "centerPoint": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {
        "x": {"type": "number"},
        "y": {"type": "number"}
      }
    },
    "scrubMin": {"type": "number"},
    "scrubMax": {"type": "number"}
  }
}`

var compiledConfigSchema = jsonschema.MustCompileString("config.schema.json", configSchema)

type Config struct {
	// Population
	TotalAgents int               `json:"totalAgents"`
	Seed        uint64            `json:"seed"`
	OrderingKey string            `json:"orderingKey"`
	Axes        []population.Axis `json:"axes"`

	// World dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Clustering forces
	MinSeparation               float64           `json:"minSeparation"`
	SeparationStrength          float64           `json:"separationStrength"`
	AttractionStrength          float64           `json:"attractionStrength"`
	RepulsionStrength           float64           `json:"repulsionStrength"`
	GlobalStrengthCoefficient   float64           `json:"globalStrengthCoefficient"`
	CenterAttractionCoefficient float64           `json:"centerAttractionCoefficient"`
	Damping                     float64           `json:"damping"`
	Softening                   float64           `json:"softening"`
	CenterPoint                 geometry.Vector2D `json:"centerPoint"`

	// Progress adapter
	RecomputeIntervalMs   int     `json:"recomputeIntervalMs"`
	ProgressChangeEpsilon float64 `json:"progressChangeEpsilon"`
	SmoothingFactor       float64 `json:"smoothingFactor"`
	ScrubMin              float64 `json:"scrubMin"`
	ScrubMax              float64 `json:"scrubMax"`
}

func DefaultConfig() *Config {
	return &Config{
		TotalAgents: 120,
		Seed:        42,
		OrderingKey: "ownershipRate",
		Axes: []population.Axis{
			{Name: "group", Fields: []string{"groupA", "groupB"}},
		},
		WorldWidth:                  1000,
		WorldHeight:                 800,
		MinSeparation:               18,
		SeparationStrength:          0.05,
		AttractionStrength:          2500,
		RepulsionStrength:           1500,
		GlobalStrengthCoefficient:   1.0,
		CenterAttractionCoefficient: 0.0015,
		Damping:                     0.92,
		Softening:                   25,
		CenterPoint:                 geometry.Vector2D{X: 500, Y: 400},
		RecomputeIntervalMs:         100,
		ProgressChangeEpsilon:       0.002,
		SmoothingFactor:             0.15,
		ScrubMin:                    0,
		ScrubMax:                    1000,
	}
}

// LoadConfig reads a JSON config file, checks it against the embedded schema
// and runs the semantic Validate pass.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := compiledConfigSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the value constraints the schema cannot express.
func (c *Config) Validate() error {
	var problems []string
	if c.TotalAgents <= 0 {
		problems = append(problems, fmt.Sprintf("totalAgents must be positive, got %d", c.TotalAgents))
	}
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		problems = append(problems, fmt.Sprintf("world dimensions must be positive, got %gx%g", c.WorldWidth, c.WorldHeight))
	}
	if c.MinSeparation <= 0 {
		problems = append(problems, fmt.Sprintf("minSeparation must be positive, got %g", c.MinSeparation))
	}
	if c.Damping <= 0 || c.Damping >= 1 {
		problems = append(problems, fmt.Sprintf("damping must be in (0,1), got %g", c.Damping))
	}
	if c.Softening <= 0 {
		problems = append(problems, fmt.Sprintf("softening must be positive, got %g", c.Softening))
	}
	if c.SmoothingFactor <= 0 || c.SmoothingFactor > 1 {
		problems = append(problems, fmt.Sprintf("smoothingFactor must be in (0,1], got %g", c.SmoothingFactor))
	}
	if c.ProgressChangeEpsilon < 0 {
		problems = append(problems, fmt.Sprintf("progressChangeEpsilon must not be negative, got %g", c.ProgressChangeEpsilon))
	}
	if c.RecomputeIntervalMs < 0 {
		problems = append(problems, fmt.Sprintf("recomputeIntervalMs must not be negative, got %d", c.RecomputeIntervalMs))
	}
	if c.ScrubMax <= c.ScrubMin {
		problems = append(problems, fmt.Sprintf("scrub range [%g,%g] is empty", c.ScrubMin, c.ScrubMax))
	}
	if c.OrderingKey == "" {
		problems = append(problems, "orderingKey must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
