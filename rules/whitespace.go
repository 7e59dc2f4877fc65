package rules

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/bradsommer/list-validator/pipeline"
)

// mojibakeTable maps known garbled byte sequences to the character they were
// before UTF-8 text was mis-read as Windows-1252. Fallback for strings the
// round-trip re-decode cannot repair; longer sequences listed first so
// replacement order never splits them.
var mojibakeTable = []struct{ bad, good string }{
	{"â€™", "’"},
	{"â€˜", "‘"},
	{"â€œ", "“"},
	{"â€", "”"},
	{"â€“", "–"},
	{"â€”", "—"},
	{"â€¦", "…"},
	{"Ã©", "é"},
	{"Ã¨", "è"},
	{"Ã¡", "á"},
	{"Ã ", "à"},
	{"Ã³", "ó"},
	{"Ãº", "ú"},
	{"Ã±", "ñ"},
	{"Ã¼", "ü"},
	{"Ã¶", "ö"},
	{"Ã¤", "ä"},
	{"Ã§", "ç"},
	{"Ã­", "í"},
	{"Â ", " "},
	{"Â", ""},
}

// mojibakeMarkers are the prefixes whose presence suggests a mis-decoded
// value worth attempting to repair.
var mojibakeMarkers = []string{"Ã", "â€", "Â"}

// wrappingQuotes are the symmetric quote pairs stripped when they wrap the
// whole value.
var wrappingQuotes = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
	{"‘", "’"},
	{"«", "»"},
}

// WhitespaceCleanup trims, collapses internal whitespace, strips invisible
// characters and wrapping quotes, and repairs known garbled encodings.
// Applies to every column, matched or not.
func WhitespaceCleanup() pipeline.Rule {
	return pipeline.NewRule(
		"whitespace_cleanup",
		"Whitespace & Encoding Cleanup",
		"Trims and collapses whitespace, removes invisible characters and wrapping quotes, and repairs garbled text encoding in every column.",
		pipeline.RuleTransform,
		OrderWhitespaceCleanup,
		nil,
		executeWhitespaceCleanup,
	)
}

func executeWhitespaceCleanup(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	for i, row := range res.Rows {
		for _, header := range in.RowKeys() {
			raw, ok := row[header]
			if !ok {
				continue
			}
			value, isString := raw.(string)
			if !isString || value == "" {
				continue
			}

			cleaned, reason := CleanValue(value)
			if cleaned == value {
				continue
			}
			row[header] = cleaned
			res.AddChange(i, fieldIDFor(in, header), value, cleaned, reason)
		}
	}

	return res, nil
}

// CleanValue applies the full cleanup sequence to one cell and describes
// what happened.
func CleanValue(value string) (string, string) {
	repaired, wasMojibake := repairMojibake(value)

	cleaned := stripInvisible(repaired)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = stripWrappingQuotes(cleaned)

	switch {
	case wasMojibake && cleaned != repaired:
		return cleaned, "repaired garbled text encoding and cleaned whitespace"
	case wasMojibake:
		return cleaned, "repaired garbled text encoding"
	default:
		return cleaned, "removed extra whitespace and invisible characters"
	}
}

// repairMojibake attempts a round-trip re-decode of UTF-8 text that was
// mis-read as Windows-1252: re-encode the runes back to 1252 bytes and check
// whether those bytes form valid UTF-8. Falls back to the substitution table
// when the round trip is not possible.
func repairMojibake(s string) (string, bool) {
	suspicious := false
	for _, marker := range mojibakeMarkers {
		if strings.Contains(s, marker) {
			suspicious = true
			break
		}
	}
	if !suspicious {
		return s, false
	}

	if encoded, err := charmap.Windows1252.NewEncoder().String(s); err == nil && utf8.ValidString(encoded) && encoded != s {
		return encoded, true
	}

	repaired := s
	for _, sub := range mojibakeTable {
		repaired = strings.ReplaceAll(repaired, sub.bad, sub.good)
	}
	return repaired, repaired != s
}

// stripInvisible removes zero-width characters and converts non-breaking
// spaces to regular spaces.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			return -1
		case '\u00a0', '\u2007', '\u202f':
			return ' '
		default:
			return r
		}
	}, s)
}

// stripWrappingQuotes removes one layer of symmetric quotes wrapping the
// whole value.
func stripWrappingQuotes(s string) string {
	for _, pair := range wrappingQuotes {
		if len(s) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			return strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}
