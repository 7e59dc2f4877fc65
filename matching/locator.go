package matching

import "strings"

// fallbackPatterns maps field ids to normalized header fragments a column of
// that kind is commonly named with. Used only when the matcher claimed
// nothing for the field: the lookup is deliberately looser (substring match)
// than the matcher's fuzzy pass, trading precision for recall so a rule can
// still find its column when upstream matching missed it.
var fallbackPatterns = map[string][]string{
	"firstname":         {"firstname", "givenname", "first"},
	"lastname":          {"lastname", "surname", "familyname", "last"},
	"email":             {"email", "mail"},
	"phone":             {"phone", "telephone", "mobile", "cell"},
	"state":             {"state", "province", "region"},
	"city":              {"city", "town"},
	"zip":               {"zip", "postalcode", "postcode"},
	"role":              {"role", "jobtitle", "title", "position"},
	"program_type":      {"programtype", "program"},
	"solution":          {"solution", "product"},
	"newsletter_opt_in": {"newsletter", "optin", "subscribed"},
	"start_date":        {"startdate", "enrollmentdate"},
	"name":              {"companyname", "company", "organization", "organisation", "account"},
	"domain":            {"domain", "website", "url"},
	"industry":          {"industry", "sector"},
	"close_date":        {"closedate"},
}

// LocateHeader finds the spreadsheet header holding the given field.
// It first consults the header matches for a claimed binding; failing that it
// scans the row keys for one that equals or contains a known pattern for the
// field. Returns "" when no column can be found either way.
func LocateHeader(fieldID string, matches []HeaderMatch, rowKeys []string) string {
	for _, m := range matches {
		if m.Matched && m.FieldID() == fieldID {
			return m.Header
		}
	}

	patterns, ok := fallbackPatterns[fieldID]
	if !ok {
		return ""
	}
	for _, key := range rowKeys {
		norm := NormalizeKey(key)
		if norm == "" {
			continue
		}
		for _, p := range patterns {
			if norm == p || strings.Contains(norm, p) {
				return key
			}
		}
	}
	return ""
}
