package pipeline

import (
	"fmt"
	"sort"
)

// Registry holds the ordered rule list for a run. It is read-only reference
// data once built: construct it at process start and pass it by reference
// into the Runner so tests can substitute a smaller registry without
// process-global mutation.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry builds a registry from the given rules. Rules are ordered by
// their Order value, ties broken by registration order. Duplicate ids are an
// error.
func NewRegistry(rules ...Rule) (*Registry, error) {
	reg := &Registry{
		rules: make([]Rule, 0, len(rules)),
		byID:  make(map[string]Rule, len(rules)),
	}
	for _, r := range rules {
		if r.ID() == "" {
			return nil, fmt.Errorf("rule with empty id (%q)", r.Name())
		}
		if _, exists := reg.byID[r.ID()]; exists {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID())
		}
		reg.byID[r.ID()] = r
		reg.rules = append(reg.rules, r)
	}
	sort.SliceStable(reg.rules, func(i, j int) bool {
		return reg.rules[i].Order() < reg.rules[j].Order()
	})
	return reg, nil
}

// Rules returns the registry's rules in execution order.
func (reg *Registry) Rules() []Rule {
	out := make([]Rule, len(reg.rules))
	copy(out, reg.rules)
	return out
}

// Get looks up a rule by id.
func (reg *Registry) Get(id string) (Rule, bool) {
	r, ok := reg.byID[id]
	return r, ok
}

// Len returns the number of registered rules.
func (reg *Registry) Len() int {
	return len(reg.rules)
}

// Select resolves the subset of rules to execute. A nil id list selects the
// full registry. Execution order is always registry order regardless of the
// order ids are listed in; unknown ids are returned separately so the runner
// can report them.
func (reg *Registry) Select(enabledIDs []string) (rules []Rule, unknown []string) {
	if enabledIDs == nil {
		return reg.Rules(), nil
	}
	enabled := make(map[string]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		if _, ok := reg.byID[id]; !ok {
			unknown = append(unknown, id)
			continue
		}
		enabled[id] = true
	}
	for _, r := range reg.rules {
		if enabled[r.ID()] {
			rules = append(rules, r)
		}
	}
	return rules, unknown
}
