// Package batch evaluates a file of independent experiments in one run.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mwiater/abplay/internal/abtest"
	"github.com/mwiater/abplay/internal/logging"
	"github.com/mwiater/abplay/internal/report"
	"github.com/xeipuuv/gojsonschema"
)

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["experiments"],
  "properties": {
    "experiments": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["sample_size_a", "conversions_a", "sample_size_b", "conversions_b"],
        "additionalProperties": false,
        "properties": {
          "name":          {"type": "string"},
          "sample_size_a": {"type": "integer"},
          "conversions_a": {"type": "integer"},
          "sample_size_b": {"type": "integer"},
          "conversions_b": {"type": "integer"},
          "alpha":         {"type": "number"},
          "alternative":   {"type": "string"}
        }
      }
    }
  }
}`

// Experiment is one entry of a batch file. Alpha and Alternative are
// optional and fall back to the run defaults.
type Experiment struct {
	Name         string   `json:"name"`
	SampleSizeA  int      `json:"sample_size_a"`
	ConversionsA int      `json:"conversions_a"`
	SampleSizeB  int      `json:"sample_size_b"`
	ConversionsB int      `json:"conversions_b"`
	Alpha        *float64 `json:"alpha,omitempty"`
	Alternative  string   `json:"alternative,omitempty"`
}

// Document is the top-level batch file.
type Document struct {
	Experiments []Experiment `json:"experiments"`
}

// Defaults supplies alpha and alternative for experiments that omit them.
type Defaults struct {
	Alpha       float64
	Alternative abtest.Alternative
}

// Row is the outcome of one experiment. Exactly one of Report and Err is set.
type Row struct {
	Name   string
	Report *report.Report
	Err    error
}

// MarshalJSON flattens the row for export.
func (r Row) MarshalJSON() ([]byte, error) {
	out := struct {
		Name   string         `json:"name"`
		Report *report.Report `json:"report,omitempty"`
		Error  string         `json:"error,omitempty"`
	}{Name: r.Name, Report: r.Report}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Load reads path, validates it against the batch schema and decodes it.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read batch file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes a batch document.
func Parse(data []byte) (Document, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Document{}, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return Document{}, fmt.Errorf("batch file failed validation: %s", strings.Join(details, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode batch file: %w", err)
	}
	return doc, nil
}

// Input resolves e against defaults into an engine input.
func (e Experiment) Input(defaults Defaults) (abtest.Input, error) {
	in := abtest.Input{
		SampleSizeA:  e.SampleSizeA,
		ConversionsA: e.ConversionsA,
		SampleSizeB:  e.SampleSizeB,
		ConversionsB: e.ConversionsB,
		Alpha:        defaults.Alpha,
		Alternative:  defaults.Alternative,
	}
	if e.Alpha != nil {
		in.Alpha = *e.Alpha
	}
	if strings.TrimSpace(e.Alternative) != "" {
		alt, err := abtest.ParseAlternative(e.Alternative)
		if err != nil {
			return in, err
		}
		in.Alternative = alt
	}
	return in, nil
}

// Run evaluates every experiment in file order. Invalid experiments are
// recorded on their row; the run continues.
func Run(doc Document, defaults Defaults) []Row {
	rows := make([]Row, 0, len(doc.Experiments))
	for i, exp := range doc.Experiments {
		name := exp.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("experiment-%d", i+1)
		}

		in, err := exp.Input(defaults)
		if err != nil {
			logging.LogEvaluation("batch", in, nil, err)
			rows = append(rows, Row{Name: name, Err: err})
			continue
		}
		res, err := abtest.Evaluate(in)
		if err != nil {
			logging.LogEvaluation("batch", in, nil, err)
			rows = append(rows, Row{Name: name, Err: err})
			continue
		}
		logging.LogEvaluation("batch", in, &res, nil)
		rep := report.New(name, res)
		rows = append(rows, Row{Name: name, Report: &rep})
	}
	return rows
}
