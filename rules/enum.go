package rules

import (
	"fmt"
	"strings"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// enumSpec describes one allow-list normalization rule. The enum rules are
// all the same template: exact match passes through, case-insensitive and
// alias matches are corrected, anything else takes the fallback path.
type enumSpec struct {
	ruleID      string
	name        string
	description string
	order       int
	fieldID     string
	// canonical values in their canonical casing.
	canonical []string
	// aliases maps NormalizeKey'd synonyms to a canonical value.
	aliases map[string]string
	// fallback substituted for unrecognized values; "" clears the value
	// instead, unless keepUnknown is set.
	fallback string
	// keepUnknown leaves unrecognized values in place with only a warning.
	keepUnknown bool
	warnKind    string
	// fuzzyThreshold enables misspelling correction against the canonical
	// list when > 0.
	fuzzyThreshold float64
}

// newEnumRule builds the shared transform for an enumSpec.
func newEnumRule(spec enumSpec) pipeline.Rule {
	return pipeline.NewRule(
		spec.ruleID,
		spec.name,
		spec.description,
		pipeline.RuleTransform,
		spec.order,
		[]string{spec.fieldID},
		func(in pipeline.Input) (pipeline.Result, error) {
			return executeEnum(in, spec)
		},
	)
}

func executeEnum(in pipeline.Input, spec enumSpec) (pipeline.Result, error) {
	var res pipeline.Result
	res.Rows = pipeline.CloneRows(in.Rows)

	col := in.Locate(spec.fieldID)
	if col == "" {
		return res, nil
	}

	canonicalByFold := make(map[string]string, len(spec.canonical))
	for _, c := range spec.canonical {
		canonicalByFold[strings.ToLower(c)] = c
	}

	for i, row := range res.Rows {
		value := pipeline.CellString(row[col])
		if isBlank(value) {
			continue
		}
		trimmed := strings.TrimSpace(value)

		// Exact canonical value: pass through unchanged.
		if canonical, ok := canonicalByFold[strings.ToLower(trimmed)]; ok {
			if canonical != trimmed || trimmed != value {
				row[col] = canonical
				res.AddChange(i, spec.fieldID, value, canonical, fmt.Sprintf("corrected %q to canonical form %q", value, canonical))
			}
			continue
		}

		if canonical, ok := spec.aliases[matching.NormalizeKey(trimmed)]; ok {
			row[col] = canonical
			res.AddChange(i, spec.fieldID, value, canonical, fmt.Sprintf("replaced %q with %q", value, canonical))
			continue
		}

		if spec.fuzzyThreshold > 0 {
			if canonical, score := closestEnumValue(trimmed, spec.canonical); score >= spec.fuzzyThreshold {
				row[col] = canonical
				res.AddChange(i, spec.fieldID, value, canonical, fmt.Sprintf("corrected misspelling %q to %q", value, canonical))
				continue
			}
		}

		switch {
		case spec.keepUnknown:
			res.AddWarning(i, spec.fieldID, value, spec.warnKind,
				fmt.Sprintf("row %d: unrecognized value %q", pipeline.DisplayRow(i), value))
		case spec.fallback == "":
			row[col] = nil
			res.AddWarning(i, spec.fieldID, value, spec.warnKind,
				fmt.Sprintf("row %d: unrecognized value %q cleared", pipeline.DisplayRow(i), value))
			res.AddChange(i, spec.fieldID, value, nil, fmt.Sprintf("cleared unrecognized value %q", value))
		default:
			row[col] = spec.fallback
			res.AddWarning(i, spec.fieldID, value, spec.warnKind,
				fmt.Sprintf("row %d: unrecognized value %q replaced with %q", pipeline.DisplayRow(i), value, spec.fallback))
			res.AddChange(i, spec.fieldID, value, spec.fallback, fmt.Sprintf("replaced unrecognized value %q with %q", value, spec.fallback))
		}
	}

	return res, nil
}

// closestEnumValue returns the best-scoring canonical value for a
// misspelled input.
func closestEnumValue(value string, canonical []string) (string, float64) {
	lower := strings.ToLower(value)
	best, bestScore := "", 0.0
	for _, c := range canonical {
		if score := matching.Similarity(lower, strings.ToLower(c)); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore
}

// roleValues is the allow-list for the contact role field.
var roleValues = []string{
	"Teacher",
	"Principal",
	"Assistant Principal",
	"Superintendent",
	"Administrator",
	"Counselor",
	"Technology Director",
	"Curriculum Director",
	"Other",
}

// RoleNormalization normalizes the contact role against its allow-list;
// unrecognized roles become "Other".
func RoleNormalization() pipeline.Rule {
	return newEnumRule(enumSpec{
		ruleID:      "role_normalization",
		name:        "Role Normalization",
		description: "Normalizes role values against the known role list; unknown roles become Other.",
		order:       OrderRoleNormalization,
		fieldID:     schema.FieldRole,
		canonical:   roleValues,
		aliases: map[string]string{
			"admin":                "Administrator",
			"administrative":       "Administrator",
			"asstprincipal":        "Assistant Principal",
			"assistantprincipal":   "Assistant Principal",
			"viceprincipal":        "Assistant Principal",
			"supt":                 "Superintendent",
			"techdirector":         "Technology Director",
			"itdirector":           "Technology Director",
			"directoroftechnology": "Technology Director",
			"guidancecounselor":    "Counselor",
			"schoolcounselor":      "Counselor",
			"educator":             "Teacher",
			"instructor":           "Teacher",
		},
		fallback: "Other",
		warnKind: "invalid_role",
	})
}

// programTypeValues is the allow-list for the program type field.
var programTypeValues = []string{
	"In School",
	"After School",
	"Summer School",
	"Tutoring",
	"Enrichment",
	"Other",
}

// ProgramTypeNormalization normalizes program type values; unknown values
// become "Other".
func ProgramTypeNormalization() pipeline.Rule {
	return newEnumRule(enumSpec{
		ruleID:      "program_type_normalization",
		name:        "Program Type Normalization",
		description: "Normalizes program type values against the known program list; unknown values become Other.",
		order:       OrderProgramType,
		fieldID:     schema.FieldProgramType,
		canonical:   programTypeValues,
		aliases: map[string]string{
			"inschool":     "In School",
			"duringschool": "In School",
			"schoolday":    "In School",
			"afterschool":  "After School",
			"aftercare":    "After School",
			"summer":       "Summer School",
			"summerschool": "Summer School",
			"summercamp":   "Summer School",
			"tutor":        "Tutoring",
			"tutoring":     "Tutoring",
		},
		fallback: "Other",
		warnKind: "invalid_program_type",
	})
}

// solutionValues is the allow-list for the solution field.
var solutionValues = []string{
	"Math",
	"Reading",
	"Science",
	"Writing",
	"SEL",
	"Assessment",
	"Other",
}

// SolutionNormalization normalizes solution values; unknown values become
// "Other".
func SolutionNormalization() pipeline.Rule {
	return newEnumRule(enumSpec{
		ruleID:      "solution_normalization",
		name:        "Solution Normalization",
		description: "Normalizes solution values against the known solution list; unknown values become Other.",
		order:       OrderSolution,
		fieldID:     schema.FieldSolution,
		canonical:   solutionValues,
		aliases: map[string]string{
			"mathematics":             "Math",
			"ela":                     "Reading",
			"englishlanguagearts":     "Reading",
			"literacy":                "Reading",
			"socialemotionallearning": "SEL",
			"testing":                 "Assessment",
		},
		fallback: "Other",
		warnKind: "invalid_solution",
	})
}

// YesNoNormalization normalizes boolean-ish answers to Yes/No; unrecognized
// values are cleared with a warning.
func YesNoNormalization() pipeline.Rule {
	return newEnumRule(enumSpec{
		ruleID:      "yes_no_normalization",
		name:        "Yes/No Normalization",
		description: "Normalizes boolean-like answers to Yes or No; unrecognized values are cleared.",
		order:       OrderYesNo,
		fieldID:     schema.FieldNewsletter,
		canonical:   []string{"Yes", "No"},
		aliases: map[string]string{
			"y":     "Yes",
			"true":  "Yes",
			"1":     "Yes",
			"yes":   "Yes",
			"yep":   "Yes",
			"n":     "No",
			"false": "No",
			"0":     "No",
			"no":    "No",
			"nope":  "No",
		},
		fallback: "",
		warnKind: "invalid_yes_no",
	})
}
