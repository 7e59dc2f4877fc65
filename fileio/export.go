package fileio

import (
	"sort"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
)

// ExportOptions control how the export remaps column names.
type ExportOptions struct {
	// UseFieldIDs renames matched columns to their canonical field ids
	// instead of the original headers.
	UseFieldIDs bool
	// PropertyNames maps field ids to target-system property names and wins
	// over UseFieldIDs for the fields it covers.
	PropertyNames map[string]string
	// SkipUnmatched drops columns that never matched a schema field.
	SkipUnmatched bool
}

// ExportView is a renamed view of the final rows, ready for WriteCSV or
// WriteXLSX.
type ExportView struct {
	Headers []string
	Rows    []pipeline.Row
}

// BuildExport remaps the final rows' columns per the options. Every row
// flows through flagged or not; filtering is a human decision downstream.
func BuildExport(rows []pipeline.Row, headers []string, matches []matching.HeaderMatch, opts ExportOptions) ExportView {
	matchByHeader := make(map[string]matching.HeaderMatch, len(matches))
	for _, m := range matches {
		matchByHeader[m.Header] = m
	}

	var outHeaders []string
	rename := make(map[string]string, len(headers))
	for _, header := range headers {
		m, matched := matchByHeader[header]
		name := header
		switch {
		case matched && m.Matched && opts.PropertyNames[m.FieldID()] != "":
			name = opts.PropertyNames[m.FieldID()]
		case matched && m.Matched && opts.UseFieldIDs:
			name = m.FieldID()
		case (!matched || !m.Matched) && opts.SkipUnmatched:
			continue
		}
		rename[header] = name
		outHeaders = append(outHeaders, name)
	}

	outRows := make([]pipeline.Row, len(rows))
	for i, row := range rows {
		out := make(pipeline.Row, len(rename))
		for header, name := range rename {
			out[name] = row[header]
		}
		// Columns created by rules (split names) have no original header but
		// should survive the export.
		for key, value := range row {
			if _, known := rename[key]; known {
				continue
			}
			if !headerListed(headers, key) {
				out[key] = value
			}
		}
		outRows[i] = out
	}

	// Rule-created columns get appended after the original ones, in a
	// deterministic order.
	if len(rows) > 0 {
		var created []string
		for key := range rows[0] {
			if _, known := rename[key]; !known && !headerListed(headers, key) {
				created = append(created, key)
			}
		}
		sort.Strings(created)
		outHeaders = append(outHeaders, created...)
	}

	return ExportView{Headers: outHeaders, Rows: outRows}
}

func headerListed(headers []string, key string) bool {
	for _, h := range headers {
		if h == key {
			return true
		}
	}
	return false
}
