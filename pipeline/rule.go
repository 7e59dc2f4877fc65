package pipeline

// RuleKind is the closed transform/validate tag. Transform rules may rewrite
// the row set; validate rules may only flag.
type RuleKind string

const (
	RuleTransform RuleKind = "transform"
	RuleValidate  RuleKind = "validate"
)

// Rule is one unit of the transformation pipeline. Implementations must be
// stateless pure functions over the input: no persistent state between runs,
// and transform rules must return a fresh row set rather than mutating the
// input in place.
type Rule interface {
	ID() string
	Name() string
	Description() string
	Kind() RuleKind
	// Targets lists the field ids the rule works on. Display and filtering
	// metadata only, not an enforced execution constraint.
	Targets() []string
	// Order is the execution position; lower runs first, ties break by
	// registration order.
	Order() int
	Execute(in Input) (Result, error)
}

// RuleFunc is the execution body of a rule built with NewRule.
type RuleFunc func(in Input) (Result, error)

// funcRule is the standard Rule implementation: static metadata plus a body.
type funcRule struct {
	id          string
	name        string
	description string
	kind        RuleKind
	targets     []string
	order       int
	fn          RuleFunc
}

// NewRule builds a Rule from metadata and an execution function.
func NewRule(id, name, description string, kind RuleKind, order int, targets []string, fn RuleFunc) Rule {
	return &funcRule{
		id:          id,
		name:        name,
		description: description,
		kind:        kind,
		targets:     targets,
		order:       order,
		fn:          fn,
	}
}

func (r *funcRule) ID() string          { return r.id }
func (r *funcRule) Name() string        { return r.name }
func (r *funcRule) Description() string { return r.description }
func (r *funcRule) Kind() RuleKind      { return r.kind }
func (r *funcRule) Order() int          { return r.order }

func (r *funcRule) Targets() []string {
	out := make([]string, len(r.targets))
	copy(out, r.targets)
	return out
}

func (r *funcRule) Execute(in Input) (Result, error) {
	return r.fn(in)
}
