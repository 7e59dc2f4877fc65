package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// emailShape is deliberately permissive: the goal is catching obvious
// garbage, not RFC 5322 conformance.
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]{2,}$`)

// disposableDomains are throwaway mail providers; addresses on them are
// rejected outright.
var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"10minutemail.com":  true,
	"tempmail.com":      true,
	"temp-mail.org":     true,
	"yopmail.com":       true,
	"trashmail.com":     true,
	"sharklasers.com":   true,
	"getnada.com":       true,
	"dispostable.com":   true,
	"fakeinbox.com":     true,
	"throwawaymail.com": true,
}

// personalDomains are consumer mail providers; a work-contact list full of
// them is worth flagging but never blocking.
var personalDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"hotmail.com": true,
	"outlook.com": true,
	"aol.com":     true,
	"icloud.com":  true,
	"msn.com":     true,
	"live.com":    true,
	"me.com":      true,
	"comcast.net": true,
	"att.net":     true,
	"verizon.net": true,
}

// domainTypos maps known misspellings to the intended domain, checked
// together with an edit-distance-1 scan against the popular domains.
var domainTypos = map[string]string{
	"gmial.com":    "gmail.com",
	"gamil.com":    "gmail.com",
	"gmal.com":     "gmail.com",
	"gnail.com":    "gmail.com",
	"gmail.co":     "gmail.com",
	"gmail.con":    "gmail.com",
	"yahooo.com":   "yahoo.com",
	"yaho.com":     "yahoo.com",
	"yahoo.co":     "yahoo.com",
	"hotmal.com":   "hotmail.com",
	"hotmial.com":  "hotmail.com",
	"hotmail.co":   "hotmail.com",
	"outlok.com":   "outlook.com",
	"outloook.com": "outlook.com",
	"iclod.com":    "icloud.com",
}

// typoCheckDomains are the domains the edit-distance-1 near-miss scan
// compares against.
var typoCheckDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "aol.com", "icloud.com",
}

// EmailValidation normalizes email casing and flags shape problems,
// disposable and personal domains, and likely domain misspellings. A
// required email that is missing is a row error; a required email column
// that never got mapped at all is a single run-level error.
//
// The rule is transform-kind because the casing fix must persist for
// duplicate detection to compare emails reliably.
func EmailValidation() pipeline.Rule {
	return pipeline.NewRule(
		"email_validation",
		"Email Validation",
		"Lowercases and validates email addresses, flagging disposable domains, personal domains and likely misspellings.",
		pipeline.RuleTransform,
		OrderEmailValidation,
		[]string{schema.FieldEmail},
		executeEmailValidation,
	)
}

func executeEmailValidation(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	col := in.Locate(schema.FieldEmail)
	if col == "" {
		if isRequired(in, schema.FieldEmail) {
			res.AddError(pipeline.RunLevel, schema.FieldEmail, nil, pipeline.IssueMissingField,
				"required field \"email\" has no mapped column")
		}
		return res, nil
	}

	required := isRequired(in, schema.FieldEmail)

	for i, row := range res.Rows {
		value := pipeline.CellString(row[col])
		if isBlank(value) {
			if required {
				res.AddError(i, schema.FieldEmail, value, pipeline.IssueMissingRequired,
					fmt.Sprintf("row %d: email is required", pipeline.DisplayRow(i)))
			}
			continue
		}

		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized != value {
			row[col] = normalized
			res.AddChange(i, schema.FieldEmail, value, normalized, "normalized email to lowercase")
		}

		if !emailShape.MatchString(normalized) {
			res.AddError(i, schema.FieldEmail, value, pipeline.IssueInvalidFormat,
				fmt.Sprintf("row %d: %q is not a valid email address", pipeline.DisplayRow(i), normalized))
			continue
		}

		domain := normalized[strings.LastIndex(normalized, "@")+1:]
		switch {
		case disposableDomains[domain]:
			res.AddError(i, schema.FieldEmail, normalized, pipeline.IssueDisposableEmail,
				fmt.Sprintf("row %d: %q uses the disposable mail provider %s", pipeline.DisplayRow(i), normalized, domain))
		case personalDomains[domain]:
			res.AddWarning(i, schema.FieldEmail, normalized, "personal_email",
				fmt.Sprintf("row %d: %q is a personal email address", pipeline.DisplayRow(i), normalized))
		default:
			if suggestion, ok := suggestDomain(domain); ok {
				res.AddWarning(i, schema.FieldEmail, normalized, "suspected_typo",
					fmt.Sprintf("row %d: domain %q looks like a misspelling of %q", pipeline.DisplayRow(i), domain, suggestion))
			}
		}
	}

	return res, nil
}

// suggestDomain returns the likely intended domain for a near-miss spelling.
func suggestDomain(domain string) (string, bool) {
	if intended, ok := domainTypos[domain]; ok {
		return intended, true
	}
	for _, known := range typoCheckDomains {
		if domain == known {
			return "", false
		}
		if matching.LevenshteinDistance(domain, known) == 1 {
			return known, true
		}
	}
	return "", false
}
