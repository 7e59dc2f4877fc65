package rules

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// Stored rule operations. Stored definitions describe their behavior as a
// restricted tagged operation instead of user-authored code; opCustomScript
// is recognized for compatibility with older stored definitions but always
// rejected at load time.
const (
	OpMapEnum        = "mapEnum"
	OpRegexReplace   = "regexReplace"
	OpMatchesPattern = "matchesPattern"
	OpRequireValue   = "requireValue"
	OpCustomScript   = "customScript"
)

// OpBody is the tagged-variant body of a stored rule definition.
type OpBody struct {
	Op string `json:"op" yaml:"op"`
	// mapEnum
	Table    map[string]string `json:"table,omitempty" yaml:"table,omitempty"`
	Fallback string            `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	// regexReplace / matchesPattern
	Pattern     string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Replacement string `json:"replacement,omitempty" yaml:"replacement,omitempty"`
	// matchesPattern / requireValue
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// customScript (rejected)
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// StoredDefinition is a rule definition as persisted by the admin surface.
type StoredDefinition struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	FieldID     string            `json:"field_id" yaml:"field_id"`
	ObjectType  schema.ObjectType `json:"object_type" yaml:"object_type"`
	Order       int               `json:"order" yaml:"order"`
	Body        OpBody            `json:"body" yaml:"body"`
}

// FromStoredDefinition turns a stored definition into a Rule with the same
// contract as the built-ins. The rule locates its column via
// object-type-qualified field equality against the header matches, falling
// back to raw header equality with the field id.
func FromStoredDefinition(def StoredDefinition) (pipeline.Rule, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("stored rule without id")
	}
	if def.FieldID == "" {
		return nil, fmt.Errorf("stored rule %q without target field", def.ID)
	}

	switch def.Body.Op {
	case OpMapEnum:
		if len(def.Body.Table) == 0 {
			return nil, fmt.Errorf("stored rule %q: mapEnum requires a table", def.ID)
		}
		return newStoredRule(def, pipeline.RuleTransform, executeMapEnum(def)), nil
	case OpRegexReplace:
		re, err := regexp.Compile(def.Body.Pattern)
		if err != nil {
			return nil, fmt.Errorf("stored rule %q: invalid pattern: %w", def.ID, err)
		}
		return newStoredRule(def, pipeline.RuleTransform, executeRegexReplace(def, re)), nil
	case OpMatchesPattern:
		re, err := regexp.Compile(def.Body.Pattern)
		if err != nil {
			return nil, fmt.Errorf("stored rule %q: invalid pattern: %w", def.ID, err)
		}
		return newStoredRule(def, pipeline.RuleValidate, executeMatchesPattern(def, re)), nil
	case OpRequireValue:
		return newStoredRule(def, pipeline.RuleValidate, executeRequireValue(def)), nil
	case OpCustomScript:
		return nil, fmt.Errorf("stored rule %q: customScript bodies are not supported", def.ID)
	default:
		return nil, fmt.Errorf("stored rule %q: unknown operation %q", def.ID, def.Body.Op)
	}
}

// LoadStoredDefinitions parses a YAML document of stored definitions and
// adapts each to a Rule.
func LoadStoredDefinitions(data []byte) ([]pipeline.Rule, error) {
	var file struct {
		Rules []StoredDefinition `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse stored rules: %w", err)
	}
	out := make([]pipeline.Rule, 0, len(file.Rules))
	for _, def := range file.Rules {
		rule, err := FromStoredDefinition(def)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func newStoredRule(def StoredDefinition, kind pipeline.RuleKind, fn pipeline.RuleFunc) pipeline.Rule {
	name := def.Name
	if name == "" {
		name = def.ID
	}
	return pipeline.NewRule(def.ID, name, def.Description, kind, def.Order, []string{def.FieldID}, fn)
}

// locateStoredColumn resolves the stored rule's column: a claimed match on
// the (field id, object type) pair first, then a raw header equal to the
// field id.
func locateStoredColumn(def StoredDefinition, in pipeline.Input) string {
	for _, m := range in.Matches {
		if !m.Matched || m.Field == nil || m.Field.ID != def.FieldID {
			continue
		}
		if def.ObjectType != "" && m.Field.ObjectType != def.ObjectType {
			continue
		}
		return m.Header
	}
	for _, header := range in.RowKeys() {
		if header == def.FieldID || matching.NormalizeKey(header) == matching.NormalizeKey(def.FieldID) {
			return header
		}
	}
	return ""
}

func executeMapEnum(def StoredDefinition) pipeline.RuleFunc {
	table := make(map[string]string, len(def.Body.Table))
	for k, v := range def.Body.Table {
		table[matching.NormalizeKey(k)] = v
	}
	return func(in pipeline.Input) (pipeline.Result, error) {
		var res pipeline.Result
		res.Rows = pipeline.CloneRows(in.Rows)

		col := locateStoredColumn(def, in)
		if col == "" {
			return res, nil
		}
		for i, row := range res.Rows {
			value := pipeline.CellString(row[col])
			if isBlank(value) {
				continue
			}
			mapped, ok := table[matching.NormalizeKey(value)]
			if !ok {
				if def.Body.Fallback != "" && value != def.Body.Fallback {
					row[col] = def.Body.Fallback
					res.AddChange(i, def.FieldID, value, def.Body.Fallback,
						fmt.Sprintf("replaced unmapped value %q with %q", value, def.Body.Fallback))
				}
				continue
			}
			if mapped != value {
				row[col] = mapped
				res.AddChange(i, def.FieldID, value, mapped, fmt.Sprintf("mapped %q to %q", value, mapped))
			}
		}
		return res, nil
	}
}

func executeRegexReplace(def StoredDefinition, re *regexp.Regexp) pipeline.RuleFunc {
	return func(in pipeline.Input) (pipeline.Result, error) {
		var res pipeline.Result
		res.Rows = pipeline.CloneRows(in.Rows)

		col := locateStoredColumn(def, in)
		if col == "" {
			return res, nil
		}
		for i, row := range res.Rows {
			value := pipeline.CellString(row[col])
			if isBlank(value) {
				continue
			}
			replaced := re.ReplaceAllString(value, def.Body.Replacement)
			if replaced != value {
				row[col] = replaced
				res.AddChange(i, def.FieldID, value, replaced,
					fmt.Sprintf("applied pattern replacement %q", def.Body.Pattern))
			}
		}
		return res, nil
	}
}

func executeMatchesPattern(def StoredDefinition, re *regexp.Regexp) pipeline.RuleFunc {
	return func(in pipeline.Input) (pipeline.Result, error) {
		var res pipeline.Result

		col := locateStoredColumn(def, in)
		if col == "" {
			return res, nil
		}
		for i, row := range in.Rows {
			value := pipeline.CellString(row[col])
			if isBlank(value) {
				continue
			}
			if !re.MatchString(value) {
				res.AddError(i, def.FieldID, value, pipeline.IssueInvalidFormat, storedMessage(def, i, value))
			}
		}
		return res, nil
	}
}

func executeRequireValue(def StoredDefinition) pipeline.RuleFunc {
	return func(in pipeline.Input) (pipeline.Result, error) {
		var res pipeline.Result

		col := locateStoredColumn(def, in)
		if col == "" {
			res.AddError(pipeline.RunLevel, def.FieldID, nil, pipeline.IssueMissingField,
				fmt.Sprintf("required field %q has no mapped column", def.FieldID))
			return res, nil
		}
		for i, row := range in.Rows {
			if isBlank(pipeline.CellString(row[col])) {
				res.AddError(i, def.FieldID, nil, pipeline.IssueMissingRequired, storedMessage(def, i, ""))
			}
		}
		return res, nil
	}
}

// storedMessage renders the definition's message, falling back to a generic
// one. The row number is appended so stored rules read like built-ins.
func storedMessage(def StoredDefinition, row int, value string) string {
	msg := def.Body.Message
	if msg == "" {
		if value != "" {
			msg = fmt.Sprintf("value %q failed rule %q", value, def.ID)
		} else {
			msg = fmt.Sprintf("value is required by rule %q", def.ID)
		}
	}
	return fmt.Sprintf("row %d: %s", pipeline.DisplayRow(row), strings.TrimSpace(msg))
}
