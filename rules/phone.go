package rules

import (
	"fmt"
	"strings"

	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// countryCode is the domestic dialing prefix assumed for 10-digit numbers.
const countryCode = "1"

// PhoneNormalization strips phone numbers to digits and reformats them with
// an international prefix.
func PhoneNormalization() pipeline.Rule {
	return pipeline.NewRule(
		"phone_normalization",
		"Phone Normalization",
		"Strips phone numbers to digits and formats them with the international prefix.",
		pipeline.RuleTransform,
		OrderPhoneNormalization,
		[]string{schema.FieldPhone},
		executePhoneNormalization,
	)
}

func executePhoneNormalization(in pipeline.Input) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	col := in.Locate(schema.FieldPhone)
	if col == "" {
		return res, nil
	}

	for i, row := range res.Rows {
		value := pipeline.CellString(row[col])
		if isBlank(value) {
			continue
		}

		digits := digitsOnly(value)
		formatted, warning := formatPhone(digits)

		if warning != "" {
			res.AddWarning(i, schema.FieldPhone, value, "phone_check",
				fmt.Sprintf("row %d: %s", pipeline.DisplayRow(i), warning))
		}
		if formatted != "" && formatted != value {
			row[col] = formatted
			res.AddChange(i, schema.FieldPhone, value, formatted, "normalized phone number format")
		}
	}

	return res, nil
}

// formatPhone converts a digit string into the canonical +<cc><digits> form.
// An empty formatted value means the input should stay as typed.
func formatPhone(digits string) (formatted, warning string) {
	switch {
	case len(digits) < 7:
		return "", fmt.Sprintf("%q has too few digits to be a phone number", digits)
	case len(digits) < 10:
		// Likely a local number without an area code.
		return "+" + countryCode + digits, "phone number may be missing an area code"
	case len(digits) == 10:
		return "+" + countryCode + digits, ""
	case len(digits) == 11 && strings.HasPrefix(digits, countryCode):
		return "+" + digits, ""
	default:
		return "+" + digits, "phone number looks international, verify the country code"
	}
}

// digitsOnly strips everything but digits.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
