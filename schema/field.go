package schema

// ObjectType classifies which CRM object a field belongs to. The same
// concept can exist on several object kinds (a contact state vs a company
// state), so matching always works on the (field id, object type) pair.
type ObjectType string

const (
	ObjectContact ObjectType = "contact"
	ObjectCompany ObjectType = "company"
	ObjectDeal    ObjectType = "deal"
)

// Priority returns the tie-breaking rank used when one header text matches
// fields on several object types. Lower wins: contact > company > deal.
func (o ObjectType) Priority() int {
	switch o {
	case ObjectContact:
		return 0
	case ObjectCompany:
		return 1
	case ObjectDeal:
		return 2
	default:
		return 3
	}
}

// Field is one canonical target property of the import schema.
// Fields are immutable reference data for the duration of a run.
type Field struct {
	ID         string     `json:"id" yaml:"id"`
	Label      string     `json:"label" yaml:"label"`
	ObjectType ObjectType `json:"object_type" yaml:"object_type"`
	Variants   []string   `json:"variants" yaml:"variants"`
	Required   bool       `json:"required" yaml:"required"`
}

// Key returns the (id, object type) identity of the field.
func (f Field) Key() FieldKey {
	return FieldKey{ID: f.ID, ObjectType: f.ObjectType}
}

// FieldKey identifies a field across object types.
type FieldKey struct {
	ID         string
	ObjectType ObjectType
}
