package rules

import (
	"fmt"
	"strings"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// nameSuffixes maps lowercased generational and professional suffixes to
// their canonical written form. Shared by the name splitter and the name
// capitalization rule.
var nameSuffixes = map[string]string{
	"jr":  "Jr.",
	"jr.": "Jr.",
	"sr":  "Sr.",
	"sr.": "Sr.",
	"ii":  "II",
	"iii": "III",
	"iv":  "IV",
	"v":   "V",
	"phd": "PhD",
	"md":  "MD",
	"esq": "Esq.",
	"dds": "DDS",
	"jd":  "JD",
	"cpa": "CPA",
	"mba": "MBA",
	"rn":  "RN",
}

// canonicalSuffix returns the canonical casing for a name suffix token.
func canonicalSuffix(token string) (string, bool) {
	s, ok := nameSuffixes[strings.ToLower(strings.TrimRight(token, "."))]
	if !ok {
		s, ok = nameSuffixes[strings.ToLower(token)]
	}
	return s, ok
}

// NameSplitter splits combined-name columns into the canonical first and
// last name columns when those are not already populated.
func NameSplitter() pipeline.Rule {
	return pipeline.NewRule(
		"name_splitter",
		"Full Name Splitter",
		"Splits combined full-name columns into separate first and last name values.",
		pipeline.RuleTransform,
		OrderNameSplitter,
		[]string{schema.FieldFirstName, schema.FieldLastName},
		executeNameSplitter,
	)
}

func executeNameSplitter(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	source := findCombinedNameColumn(in)
	if source == "" {
		return res, nil
	}

	firstCol := in.Locate(schema.FieldFirstName)
	lastCol := in.Locate(schema.FieldLastName)
	// When no column exists for the canonical names, the split creates new
	// columns keyed by the field ids.
	if firstCol == "" {
		firstCol = schema.FieldFirstName
	}
	if lastCol == "" {
		lastCol = schema.FieldLastName
	}

	for i, row := range res.Rows {
		full := strings.TrimSpace(pipeline.CellString(row[source]))
		if full == "" {
			continue
		}
		if !isBlank(pipeline.CellString(row[firstCol])) && !isBlank(pipeline.CellString(row[lastCol])) {
			continue
		}

		// Keep the overwritten cell values as change evidence.
		prevFirst, prevLast := row[firstCol], row[lastCol]

		tokens := strings.Fields(full)
		switch {
		case len(tokens) == 1:
			row[firstCol] = tokens[0]
			res.AddChange(i, schema.FieldFirstName, prevFirst, tokens[0], fmt.Sprintf("split %q into first name only", full))
			res.AddWarning(i, schema.FieldLastName, full, "incomplete_name",
				fmt.Sprintf("row %d: %q has no last name", pipeline.DisplayRow(i), full))
		case len(tokens) == 2:
			row[firstCol] = tokens[0]
			row[lastCol] = tokens[1]
			res.AddChange(i, schema.FieldFirstName, prevFirst, tokens[0], fmt.Sprintf("split %q", full))
			res.AddChange(i, schema.FieldLastName, prevLast, tokens[1], fmt.Sprintf("split %q", full))
		case len(tokens) == 3:
			if suffix, ok := canonicalSuffix(tokens[2]); ok {
				last := tokens[1] + " " + suffix
				row[firstCol] = tokens[0]
				row[lastCol] = last
				res.AddChange(i, schema.FieldFirstName, prevFirst, tokens[0], fmt.Sprintf("split %q", full))
				res.AddChange(i, schema.FieldLastName, prevLast, last, fmt.Sprintf("split %q keeping suffix %s", full, suffix))
				break
			}
			fallthrough
		default:
			first := tokens[0]
			last := tokens[len(tokens)-1]
			row[firstCol] = first
			row[lastCol] = last
			res.AddChange(i, schema.FieldFirstName, prevFirst, first, fmt.Sprintf("split %q", full))
			res.AddChange(i, schema.FieldLastName, prevLast, last,
				fmt.Sprintf("split %q, middle name(s) dropped", full))
		}
	}

	return res, nil
}

// findCombinedNameColumn looks for an unmatched column whose header reads
// like a combined full name.
func findCombinedNameColumn(in pipeline.Input) string {
	matched := make(map[string]bool)
	for _, m := range in.Matches {
		if m.Matched {
			matched[m.Header] = true
		}
	}

	for _, header := range in.RowKeys() {
		if matched[header] {
			continue
		}
		key := matching.NormalizeKey(header)
		if key == "" {
			continue
		}
		if key == "name" || key == "fullname" || key == "contactname" {
			return header
		}
		if strings.Contains(key, "name") &&
			!strings.Contains(key, "first") && !strings.Contains(key, "last") &&
			!strings.Contains(key, "company") && !strings.Contains(key, "file") {
			return header
		}
	}
	return ""
}
