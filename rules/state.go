package rules

import (
	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// stateAbbreviations maps USPS codes to full state names.
var stateAbbreviations = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
	"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
	"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
	"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
	"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
	"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	"PR": "Puerto Rico", "VI": "U.S. Virgin Islands", "GU": "Guam",
}

// stateNames returns the canonical full state names.
func stateNames() []string {
	out := make([]string, 0, len(stateAbbreviations))
	for _, name := range stateAbbreviations {
		out = append(out, name)
	}
	return out
}

// stateAliases builds the NormalizeKey'd abbreviation lookup.
func stateAliases() map[string]string {
	out := make(map[string]string, len(stateAbbreviations))
	for abbr, name := range stateAbbreviations {
		out[matching.NormalizeKey(abbr)] = name
	}
	return out
}

// StateNormalization expands state abbreviations, fixes casing and corrects
// close misspellings against the full state list. Unrecognized values are
// left in place with a warning; a state is never guessed below the fuzzy
// threshold.
func StateNormalization() pipeline.Rule {
	return newEnumRule(enumSpec{
		ruleID:         "state_normalization",
		name:           "State Normalization",
		description:    "Expands state abbreviations and corrects casing and close misspellings of US state names.",
		order:          OrderStateNormalization,
		fieldID:        schema.FieldState,
		canonical:      stateNames(),
		aliases:        stateAliases(),
		keepUnknown:    true,
		warnKind:       "invalid_state",
		fuzzyThreshold: 0.75,
	})
}
