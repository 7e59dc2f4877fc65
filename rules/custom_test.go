package rules

import (
	"strings"
	"testing"

	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

func TestFromStoredDefinitionMapEnum(t *testing.T) {
	rule, err := FromStoredDefinition(StoredDefinition{
		ID:      "tier_normalization",
		FieldID: "tier",
		Order:   50,
		Body: OpBody{
			Op:       OpMapEnum,
			Table:    map[string]string{"Gold": "Tier 1", "silver": "Tier 2"},
			Fallback: "Tier 3",
		},
	})
	if err != nil {
		t.Fatalf("FromStoredDefinition: %v", err)
	}
	if rule.Kind() != pipeline.RuleTransform {
		t.Errorf("kind = %v, want transform", rule.Kind())
	}

	in := testInput(t, []string{"tier"}, []pipeline.Row{
		{"tier": "GOLD"},
		{"tier": "Silver"},
		{"tier": "bronze"},
		{"tier": ""},
	}, nil)

	res := runRule(t, rule, in)

	want := []string{"Tier 1", "Tier 2", "Tier 3", ""}
	for i, w := range want {
		if got := cellOf(t, res.Rows, i, "tier"); got != w {
			t.Errorf("row %d = %v, want %q", i, got, w)
		}
	}
	if len(res.Changes) != 3 {
		t.Errorf("changes = %d, want 3", len(res.Changes))
	}
}

func TestFromStoredDefinitionRegexReplace(t *testing.T) {
	rule, err := FromStoredDefinition(StoredDefinition{
		ID:      "strip_extension",
		FieldID: "phone",
		Body: OpBody{
			Op:      OpRegexReplace,
			Pattern: `\s*(?:ext|x)\.?\s*\d+$`,
		},
	})
	if err != nil {
		t.Fatalf("FromStoredDefinition: %v", err)
	}

	in := testInput(t, []string{"Phone"}, []pipeline.Row{
		{"Phone": "555-123-4567 ext. 22"},
		{"Phone": "555-123-4567"},
	}, map[string]string{"phone": "Phone"})

	res := runRule(t, rule, in)

	if got := cellOf(t, res.Rows, 0, "Phone"); got != "555-123-4567" {
		t.Errorf("row 0 = %v, want extension stripped", got)
	}
	if len(res.Changes) != 1 {
		t.Errorf("changes = %d, want 1", len(res.Changes))
	}
}

func TestFromStoredDefinitionMatchesPattern(t *testing.T) {
	rule, err := FromStoredDefinition(StoredDefinition{
		ID:      "zip_shape",
		FieldID: "zip",
		Body: OpBody{
			Op:      OpMatchesPattern,
			Pattern: `^\d{5}(?:-\d{4})?$`,
			Message: "zip code must be 5 digits",
		},
	})
	if err != nil {
		t.Fatalf("FromStoredDefinition: %v", err)
	}
	if rule.Kind() != pipeline.RuleValidate {
		t.Errorf("kind = %v, want validate", rule.Kind())
	}

	in := testInput(t, []string{"Zip"}, []pipeline.Row{
		{"Zip": "12345"},
		{"Zip": "1234"},
	}, map[string]string{"zip": "Zip"})

	res := runRule(t, rule, in)

	if res.Rows != nil {
		t.Errorf("validate rule returned rows")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %+v, want 1", res.Errors)
	}
	if res.Errors[0].Row != 1 || !strings.Contains(res.Errors[0].Message, "zip code must be 5 digits") {
		t.Errorf("got issue %+v", res.Errors[0])
	}
}

func TestFromStoredDefinitionRequireValue(t *testing.T) {
	rule, err := FromStoredDefinition(StoredDefinition{
		ID:      "require_industry",
		FieldID: "industry",
		Body:    OpBody{Op: OpRequireValue},
	})
	if err != nil {
		t.Fatalf("FromStoredDefinition: %v", err)
	}

	in := testInput(t, []string{"Industry"}, []pipeline.Row{
		{"Industry": "Education"},
		{"Industry": "  "},
	}, map[string]string{"industry": "Industry"})

	res := runRule(t, rule, in)

	if len(res.Errors) != 1 || res.Errors[0].Row != 1 || res.Errors[0].Kind != pipeline.IssueMissingRequired {
		t.Errorf("errors = %+v, want one missing_required on row 1", res.Errors)
	}
}

func TestFromStoredDefinitionRequireValueUnmappedColumn(t *testing.T) {
	rule, err := FromStoredDefinition(StoredDefinition{
		ID:      "require_budget",
		FieldID: "budget",
		Body:    OpBody{Op: OpRequireValue},
	})
	if err != nil {
		t.Fatalf("FromStoredDefinition: %v", err)
	}

	in := testInput(t, []string{"Email"}, []pipeline.Row{
		{"Email": "jane@acme.com"},
	}, map[string]string{"email": "Email"})

	res := runRule(t, rule, in)

	if len(res.Errors) != 1 || res.Errors[0].Row != pipeline.RunLevel || res.Errors[0].Kind != pipeline.IssueMissingField {
		t.Errorf("errors = %+v, want one run-level missing_field", res.Errors)
	}
}

func TestFromStoredDefinitionRejections(t *testing.T) {
	tests := []struct {
		name string
		def  StoredDefinition
	}{
		{"custom script", StoredDefinition{
			ID: "legacy", FieldID: "email",
			Body: OpBody{Op: OpCustomScript, Source: "return value.toUpperCase()"},
		}},
		{"unknown op", StoredDefinition{
			ID: "mystery", FieldID: "email",
			Body: OpBody{Op: "transmogrify"},
		}},
		{"missing id", StoredDefinition{
			FieldID: "email",
			Body:    OpBody{Op: OpRequireValue},
		}},
		{"missing field", StoredDefinition{
			ID:   "no_target",
			Body: OpBody{Op: OpRequireValue},
		}},
		{"bad pattern", StoredDefinition{
			ID: "broken", FieldID: "email",
			Body: OpBody{Op: OpRegexReplace, Pattern: "("},
		}},
		{"empty map table", StoredDefinition{
			ID: "empty", FieldID: "tier",
			Body: OpBody{Op: OpMapEnum},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromStoredDefinition(tt.def); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadStoredDefinitions(t *testing.T) {
	doc := []byte(`
rules:
  - id: tier_normalization
    field_id: tier
    object_type: contact
    order: 50
    body:
      op: mapEnum
      table:
        gold: "Tier 1"
  - id: zip_shape
    field_id: zip
    body:
      op: matchesPattern
      pattern: '^\d{5}$'
`)
	loaded, err := LoadStoredDefinitions(doc)
	if err != nil {
		t.Fatalf("LoadStoredDefinitions: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d rules, want 2", len(loaded))
	}
	if loaded[0].ID() != "tier_normalization" || loaded[1].ID() != "zip_shape" {
		t.Errorf("ids = %s, %s", loaded[0].ID(), loaded[1].ID())
	}
}

func TestLoadStoredDefinitionsRejectsScript(t *testing.T) {
	doc := []byte(`
rules:
  - id: legacy
    field_id: email
    body:
      op: customScript
      source: "return value"
`)
	if _, err := LoadStoredDefinitions(doc); err == nil {
		t.Error("expected customScript to be rejected at load time")
	}
}

func TestLocateStoredColumnObjectType(t *testing.T) {
	// The stored rule's object type must agree with the claimed match.
	in := testInput(t, []string{"Company"}, []pipeline.Row{
		{"Company": "Acme"},
	}, map[string]string{"name": "Company"})

	def := StoredDefinition{ID: "x", FieldID: "name", ObjectType: schema.ObjectCompany}
	if col := locateStoredColumn(def, in); col != "Company" {
		t.Errorf("located %q, want Company", col)
	}

	def.ObjectType = schema.ObjectContact
	if col := locateStoredColumn(def, in); col != "" {
		t.Errorf("located %q for the wrong object type, want none", col)
	}
}
