package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the set of candidate fields for one run. Field ids must be
// unique within a catalog.
type Catalog struct {
	fields []Field
	byID   map[string]Field
}

// NewCatalog builds a catalog from the given fields.
func NewCatalog(fields []Field) (*Catalog, error) {
	c := &Catalog{
		fields: make([]Field, 0, len(fields)),
		byID:   make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		if f.ID == "" {
			return nil, fmt.Errorf("schema field with empty id (label %q)", f.Label)
		}
		if _, exists := c.byID[f.ID]; exists {
			return nil, fmt.Errorf("duplicate schema field id %q", f.ID)
		}
		if f.ObjectType == "" {
			f.ObjectType = ObjectContact
		}
		c.byID[f.ID] = f
		c.fields = append(c.fields, f)
	}
	return c, nil
}

// Fields returns the catalog fields in declaration order.
func (c *Catalog) Fields() []Field {
	out := make([]Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// Get looks up a field by id.
func (c *Catalog) Get(id string) (Field, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// RequiredIDs returns the ids of all fields flagged required.
func (c *Catalog) RequiredIDs() []string {
	var out []string
	for _, f := range c.fields {
		if f.Required {
			out = append(out, f.ID)
		}
	}
	return out
}

// Len returns the number of fields in the catalog.
func (c *Catalog) Len() int {
	return len(c.fields)
}

// catalogFile is the on-disk YAML shape for catalog overlays.
type catalogFile struct {
	Fields []Field `yaml:"fields"`
}

// LoadCatalogFile reads a YAML field catalog and overlays it on the builtin
// defaults: a file field with a known id replaces the builtin definition,
// unknown ids are appended as new fields.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return MergeCatalog(file.Fields)
}

// MergeCatalog overlays the given fields on the builtin defaults.
func MergeCatalog(overlay []Field) (*Catalog, error) {
	base := BuiltinFields()
	byID := make(map[string]int, len(base))
	for i, f := range base {
		byID[f.ID] = i
	}
	for _, f := range overlay {
		if i, ok := byID[f.ID]; ok {
			base[i] = f
			continue
		}
		byID[f.ID] = len(base)
		base = append(base, f)
	}
	return NewCatalog(base)
}
