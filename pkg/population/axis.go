package population

import "fmt"

// Axis is one independent category dimension of an agent (ethnic group, age
// band, education tier, job sector). Fields lists the dataset field names
// carrying the axis's weights, in the order that defines both the category
// indices and the sampler's cumulative order.
type Axis struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// IndexOf returns the category index of a label on this axis, or -1.
func (a Axis) IndexOf(label string) int {
	for i, f := range a.Fields {
		if f == label {
			return i
		}
	}
	return -1
}

// Weights extracts this axis's weighted distribution from an interpolated
// record's fields, in declared order. Referencing a field the record does not
// carry is a configuration error, not a sampling fallback.
func (a Axis) Weights(fields map[string]float64) ([]Weighted, error) {
	weights := make([]Weighted, 0, len(a.Fields))
	for _, f := range a.Fields {
		v, ok := fields[f]
		if !ok {
			return nil, fmt.Errorf("population: axis %q references missing field %q", a.Name, f)
		}
		weights = append(weights, Weighted{Label: f, Weight: v})
	}
	return weights, nil
}

// validateAxes checks that the axis list is usable: non-empty, every axis has
// at least one field, no duplicate field within an axis.
func validateAxes(axes []Axis) error {
	if len(axes) == 0 {
		return fmt.Errorf("population: no category axes configured")
	}
	for _, a := range axes {
		if a.Name == "" {
			return fmt.Errorf("population: axis with empty name")
		}
		if len(a.Fields) == 0 {
			return fmt.Errorf("population: axis %q has no fields", a.Name)
		}
		seen := make(map[string]bool, len(a.Fields))
		for _, f := range a.Fields {
			if seen[f] {
				return fmt.Errorf("population: axis %q lists field %q twice", a.Name, f)
			}
			seen[f] = true
		}
	}
	return nil
}
