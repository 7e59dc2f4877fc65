package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// legalSuffixes maps lowercased legal-entity suffixes to their canonical
// written form.
var legalSuffixes = map[string]string{
	"inc":   "Inc.",
	"inc.":  "Inc.",
	"llc":   "LLC",
	"l.l.c": "LLC",
	"ltd":   "Ltd.",
	"ltd.":  "Ltd.",
	"corp":  "Corp.",
	"corp.": "Corp.",
	"co":    "Co.",
	"co.":   "Co.",
	"llp":   "LLP",
	"lp":    "LP",
	"plc":   "PLC",
	"pc":    "PC",
	"gmbh":  "GmbH",
	"sa":    "SA",
	"pllc":  "PLLC",
}

// companyAcronyms stay fully uppercase.
var companyAcronyms = map[string]bool{
	"ibm": true, "usa": true, "us": true, "uk": true, "it": true,
	"hr": true, "ai": true, "iq": true, "nyc": true, "la": true,
	"abc": true, "pbs": true, "stem": true, "k12": true, "isd": true,
	"usd": true, "ymca": true,
}

// companyConnectors stay lowercase unless they lead the name.
var companyConnectors = map[string]bool{
	"of": true, "and": true, "the": true, "for": true, "at": true,
	"in": true, "on": true, "a": true, "an": true, "&": true,
}

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([,.])`)
	commaNoSpace     = regexp.MustCompile(`,(\S)`)
)

// CompanyNormalization normalizes company names: canonical legal suffixes,
// preserved acronyms and brand casing, lowercase connectors and tidy
// punctuation.
func CompanyNormalization() pipeline.Rule {
	return pipeline.NewRule(
		"company_normalization",
		"Company Normalization",
		"Normalizes company names with canonical legal suffixes, preserved acronyms and tidy punctuation.",
		pipeline.RuleTransform,
		OrderCompanyNormalizer,
		[]string{schema.FieldCompanyName},
		executeCompanyNormalization,
	)
}

func executeCompanyNormalization(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	col := in.Locate(schema.FieldCompanyName)
	if col == "" {
		return res, nil
	}

	for i, row := range res.Rows {
		value := pipeline.CellString(row[col])
		if isBlank(value) {
			continue
		}

		if isAllCaps(value) {
			res.AddWarning(i, schema.FieldCompanyName, value, "all_caps_company",
				fmt.Sprintf("row %d: company name %q was entered in all capitals", pipeline.DisplayRow(i), value))
		}

		fixed := NormalizeCompanyName(value)
		if fixed != value {
			row[col] = fixed
			res.AddChange(i, schema.FieldCompanyName, value, fixed, "normalized company name")
		}
	}

	return res, nil
}

// NormalizeCompanyName normalizes one company name token-wise.
func NormalizeCompanyName(name string) string {
	normalized := spaceBeforePunct.ReplaceAllString(strings.TrimSpace(name), "$1")
	normalized = commaNoSpace.ReplaceAllString(normalized, ", $1")

	tokens := strings.Fields(normalized)
	for ti, token := range tokens {
		trailing := ""
		core := token
		if strings.HasSuffix(core, ",") {
			core, trailing = core[:len(core)-1], ","
		}
		tokens[ti] = normalizeCompanyToken(core, ti == 0, ti == len(tokens)-1) + trailing
	}
	return strings.Join(tokens, " ")
}

func normalizeCompanyToken(token string, isFirst, isLast bool) string {
	if token == "" {
		return token
	}
	lower := strings.ToLower(token)

	if isLast {
		if suffix, ok := legalSuffixes[lower]; ok {
			return suffix
		}
	}
	if companyAcronyms[lower] {
		return strings.ToUpper(lower)
	}
	if companyConnectors[lower] && !isFirst {
		return lower
	}
	// Pre-existing internal mixed case is brand casing: keep it.
	if hasInternalMixedCase(token) {
		return token
	}

	return upperFirst(lower)
}

// hasInternalMixedCase reports casing like iPhone or McKinsey: an uppercase
// letter after the first rune alongside at least one lowercase letter.
func hasInternalMixedCase(token string) bool {
	runes := []rune(token)
	hasLower := false
	hasInnerUpper := false
	for i, r := range runes {
		if unicode.IsLower(r) {
			hasLower = true
		}
		if i > 0 && unicode.IsUpper(r) {
			hasInnerUpper = true
		}
	}
	return hasLower && hasInnerUpper
}
