// Package dataset holds the ordered empirical snapshot series and answers
// "what does the population look like at progress p?" by linear interpolation
// between the two bracketing records.
package dataset

import (
	"fmt"
	"sort"
)

// Snapshot is one empirical record: a monotonic ordering key (e.g. an
// ownership rate) plus an open set of named numeric category weights.
// Snapshots are immutable once loaded into a Store.
type Snapshot struct {
	Key    float64
	Fields map[string]float64
}

// Record is a synthetic snapshot produced by interpolation. It carries the
// same fields as the source snapshots, with the ordering key set to the exact
// interpolation target so it is monotonic in progress by construction.
type Record struct {
	Key    float64
	Fields map[string]float64
}

// ParseRecords validates a sequence of flat raw records and converts them to
// sorted Snapshots. Every field must be numeric, every record must carry the
// ordering key, and the input must be non-empty; anything else is a load
// error, reported once, here, so the interpolation path never has to fail.
func ParseRecords(raws []map[string]any, orderingKey string) ([]Snapshot, error) {
	if orderingKey == "" {
		return nil, fmt.Errorf("dataset: ordering key name is empty")
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("dataset: empty dataset")
	}

	snaps := make([]Snapshot, 0, len(raws))
	for i, raw := range raws {
		fields := make(map[string]float64, len(raw))
		for name, val := range raw {
			num, ok := toFloat(val)
			if !ok {
				return nil, fmt.Errorf("dataset: record %d field %q is not numeric (%T)", i, name, val)
			}
			fields[name] = num
		}
		key, ok := fields[orderingKey]
		if !ok {
			return nil, fmt.Errorf("dataset: record %d is missing ordering key %q", i, orderingKey)
		}
		snaps = append(snaps, Snapshot{Key: key, Fields: fields})
	}

	sortSnapshots(snaps)
	return snaps, nil
}

// sortSnapshots orders the series ascending by ordering key. Duplicate keys
// are allowed; the sort is stable so equal-key records keep their input order.
func sortSnapshots(snaps []Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Key < snaps[j].Key
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
