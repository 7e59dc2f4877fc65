// Package crmsync is the surface between the cleaning pipeline and the CRM:
// it separates a cleaned row into contact and company property maps using
// the header-match object types and plans the sync calls. The actual CRM
// HTTP client lives outside this repository; Client is the contract it must
// satisfy.
package crmsync

import (
	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// Properties is a canonical-field-id keyed value map for one CRM object.
type Properties map[string]any

// SplitProperties separates a row into contact and company properties.
// Only claimed columns contribute; deal fields and unmatched columns are
// left out.
func SplitProperties(row pipeline.Row, matches []matching.HeaderMatch) (contact, company Properties) {
	contact = make(Properties)
	company = make(Properties)

	for _, m := range matches {
		if !m.Matched || m.Field == nil {
			continue
		}
		value, ok := row[m.Header]
		if !ok || value == nil || pipeline.CellString(value) == "" {
			continue
		}
		switch m.Field.ObjectType {
		case schema.ObjectContact:
			contact[m.Field.ID] = value
		case schema.ObjectCompany:
			company[m.Field.ID] = value
		}
	}

	// Columns created by rules carry field ids directly.
	for _, fieldID := range []string{schema.FieldFirstName, schema.FieldLastName} {
		if value, ok := row[fieldID]; ok && value != nil && contact[fieldID] == nil {
			contact[fieldID] = value
		}
	}

	return contact, company
}
