package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]Field{
		{ID: "email", ObjectType: ObjectContact},
		{ID: "email", ObjectType: ObjectCompany},
	})
	if err == nil {
		t.Error("expected duplicate id error")
	}

	_, err = NewCatalog([]Field{{Label: "No ID"}})
	if err == nil {
		t.Error("expected empty id error")
	}
}

func TestNewCatalogDefaultsObjectType(t *testing.T) {
	c, err := NewCatalog([]Field{{ID: "custom"}})
	if err != nil {
		t.Fatal(err)
	}
	f, ok := c.Get("custom")
	if !ok {
		t.Fatal("field not found")
	}
	if f.ObjectType != ObjectContact {
		t.Errorf("object type = %q, want contact default", f.ObjectType)
	}
}

func TestBuiltinCatalog(t *testing.T) {
	c := BuiltinCatalog()
	if c.Len() == 0 {
		t.Fatal("builtin catalog is empty")
	}
	for _, id := range []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldState, FieldCompanyName, FieldCloseDate} {
		if _, ok := c.Get(id); !ok {
			t.Errorf("builtin catalog is missing %q", id)
		}
	}

	required := c.RequiredIDs()
	if len(required) != 1 || required[0] != FieldEmail {
		t.Errorf("required ids = %v, want [email]", required)
	}
}

func TestObjectTypePriority(t *testing.T) {
	if !(ObjectContact.Priority() < ObjectCompany.Priority() && ObjectCompany.Priority() < ObjectDeal.Priority()) {
		t.Errorf("priorities = %d, %d, %d, want contact < company < deal",
			ObjectContact.Priority(), ObjectCompany.Priority(), ObjectDeal.Priority())
	}
}

func TestMergeCatalogOverlay(t *testing.T) {
	overlay := []Field{
		// Replaces the builtin email definition.
		{ID: FieldEmail, Label: "Email", ObjectType: ObjectContact, Variants: []string{"email"}, Required: false},
		// New custom field.
		{ID: "budget", Label: "Budget", ObjectType: ObjectDeal},
	}
	c, err := MergeCatalog(overlay)
	if err != nil {
		t.Fatalf("MergeCatalog: %v", err)
	}

	email, ok := c.Get(FieldEmail)
	if !ok {
		t.Fatal("email missing after overlay")
	}
	if email.Required {
		t.Error("overlay should have cleared the required flag")
	}
	if _, ok := c.Get("budget"); !ok {
		t.Error("overlay field not appended")
	}
	if c.Len() != len(BuiltinFields())+1 {
		t.Errorf("catalog size = %d, want builtin + 1", c.Len())
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := []byte(`
fields:
  - id: budget
    label: Budget
    object_type: deal
    variants: ["budget", "deal budget"]
`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogFile: %v", err)
	}
	f, ok := c.Get("budget")
	if !ok {
		t.Fatal("budget not loaded")
	}
	if f.ObjectType != ObjectDeal || len(f.Variants) != 2 {
		t.Errorf("loaded field = %+v", f)
	}
}

func TestLoadCatalogFileMissing(t *testing.T) {
	if _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
