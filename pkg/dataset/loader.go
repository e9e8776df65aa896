package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// recordsSchema is the structural contract for raw dataset files: a non-empty
// array of flat objects whose values are all numbers. Field names are an open
// set; which fields belong to which category axis is the caller's business.
const recordsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "minProperties": 2,
    "additionalProperties": { "type": "number" }
  }
}`

var compiledRecordsSchema = jsonschema.MustCompileString("records.schema.json", recordsSchema)

// LoadFile reads a snapshot series from a JSON file: an array of flat records
// with numeric fields, one of which is the ordering key. Files ending in
// ".zst" are transparently decompressed. The content is validated against the
// records schema before parsing so malformed datasets are rejected with a
// descriptive error at load time.
func LoadFile(path, orderingKey string) ([]Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dataset: zstd reader for %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	return ReadRecords(r, orderingKey)
}

// ReadRecords decodes and validates a JSON snapshot array from r.
func ReadRecords(r io.Reader, orderingKey string) ([]Snapshot, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dataset: read: %w", err)
	}

	// Validate against the schema first: it produces far better error
	// messages for malformed input than a decode into typed maps would.
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("dataset: decode json: %w", err)
	}
	if err := compiledRecordsSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("dataset: validation failed: %w", err)
	}

	var raws []map[string]any
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, fmt.Errorf("dataset: decode records: %w", err)
	}
	return ParseRecords(raws, orderingKey)
}
