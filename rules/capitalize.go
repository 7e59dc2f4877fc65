package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// nobiliaryParticles stay lowercase inside a name (van der Berg) but are
// capitalized as the leading token (Van Gogh as a bare surname entry).
var nobiliaryParticles = map[string]bool{
	"van": true, "von": true, "de": true, "der": true, "den": true,
	"del": true, "della": true, "di": true, "da": true, "la": true,
	"le": true, "ter": true, "ten": true, "af": true, "zu": true,
}

// NameCapitalization fixes the casing of first and last name columns,
// handling particles, Mc/Mac/O' prefixes, suffixes and hyphenated names.
func NameCapitalization() pipeline.Rule {
	return pipeline.NewRule(
		"name_capitalization",
		"Name Capitalization",
		"Corrects the capitalization of first and last names, including Mc/Mac/O' prefixes, particles and suffixes.",
		pipeline.RuleTransform,
		OrderNameCapitalization,
		[]string{schema.FieldFirstName, schema.FieldLastName},
		executeNameCapitalization,
	)
}

func executeNameCapitalization(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	for _, fieldID := range []string{schema.FieldFirstName, schema.FieldLastName} {
		col := in.Locate(fieldID)
		if col == "" {
			continue
		}

		for i, row := range res.Rows {
			value := pipeline.CellString(row[col])
			if isBlank(value) {
				continue
			}

			if isAllCaps(value) {
				res.AddWarning(i, fieldID, value, "all_caps_name",
					fmt.Sprintf("row %d: name %q was entered in all capitals", pipeline.DisplayRow(i), value))
			}

			fixed := CapitalizeName(value)
			if fixed != value {
				row[col] = fixed
				res.AddChange(i, fieldID, value, fixed, "corrected name capitalization")
			}
		}
	}

	return res, nil
}

// CapitalizeName capitalizes one personal name token-wise.
func CapitalizeName(name string) string {
	tokens := strings.Fields(strings.TrimSpace(name))
	for ti, token := range tokens {
		if suffix, ok := canonicalSuffix(token); ok && ti > 0 {
			tokens[ti] = suffix
			continue
		}
		tokens[ti] = capitalizeNameToken(token, ti == 0)
	}
	return strings.Join(tokens, " ")
}

// capitalizeNameToken handles one token, segment by hyphen segment.
func capitalizeNameToken(token string, isFirst bool) string {
	segments := strings.Split(token, "-")
	for si, seg := range segments {
		segments[si] = capitalizeNameSegment(seg, isFirst && si == 0)
	}
	return strings.Join(segments, "-")
}

func capitalizeNameSegment(seg string, leading bool) string {
	if seg == "" {
		return seg
	}
	lower := strings.ToLower(seg)

	if nobiliaryParticles[lower] && !leading {
		return lower
	}

	// O'Brien and similar apostrophe prefixes.
	for _, ap := range []string{"'", "’"} {
		if idx := strings.Index(lower, ap); idx == 1 && len(lower) > idx+len(ap) {
			return upperFirst(lower[:idx]) + ap + upperFirst(lower[idx+len(ap):])
		}
	}

	if strings.HasPrefix(lower, "mc") && len(lower) > 2 {
		return "Mc" + upperFirst(lower[2:])
	}
	// Mac only when a real surname stem follows, so Mack stays Mack.
	if strings.HasPrefix(lower, "mac") && len(lower) > 5 {
		return "Mac" + upperFirst(lower[3:])
	}

	return upperFirst(lower)
}

// upperFirst uppercases the first rune of an already-lowercased string.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// isAllCaps reports whether a value with at least two letters is entirely
// uppercase.
func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters >= 2
}
