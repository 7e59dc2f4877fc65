package rules

import (
	"testing"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// testInput builds a rule input with claimed matches for the mapped
// (field id -> header) pairs.
func testInput(t *testing.T, headers []string, rows []pipeline.Row, mapped map[string]string, required ...string) pipeline.Input {
	t.Helper()

	catalog := schema.BuiltinCatalog()
	matches := make([]matching.HeaderMatch, 0, len(headers))
	for _, header := range headers {
		m := matching.HeaderMatch{Header: header}
		for fieldID, mappedHeader := range mapped {
			if mappedHeader != header {
				continue
			}
			field, ok := catalog.Get(fieldID)
			if !ok {
				t.Fatalf("unknown field id %q", fieldID)
			}
			f := field
			m.Field = &f
			m.Confidence = 1.0
			m.Matched = true
			break
		}
		matches = append(matches, m)
	}

	return pipeline.Input{
		Rows:           rows,
		Headers:        headers,
		Matches:        matches,
		RequiredFields: required,
	}
}

// cellOf reads one cell from a result row set.
func cellOf(t *testing.T, rows []pipeline.Row, idx int, header string) any {
	t.Helper()
	if idx >= len(rows) {
		t.Fatalf("row %d out of range (%d rows)", idx, len(rows))
	}
	return rows[idx][header]
}

// runRule executes a rule and fails the test on an execution error.
func runRule(t *testing.T, rule pipeline.Rule, in pipeline.Input) pipeline.Result {
	t.Helper()
	res, err := rule.Execute(in)
	if err != nil {
		t.Fatalf("rule %s failed: %v", rule.ID(), err)
	}
	return res
}
