// Package rules contains the built-in rules of the list cleaning pipeline
// and the adapter that turns stored rule definitions into the same Rule
// interface. Every rule is a stateless pure function over the full row set:
// transform rules return a fresh row set, validate rules only flag.
package rules

import (
	"strings"

	"github.com/bradsommer/list-validator/pipeline"
)

// Execution order of the built-in rules. Cleanup runs first because garbage
// bytes corrupt every later string comparison; name splitting runs early so
// downstream rules see separate first/last columns; enum normalizers are
// order-agnostic among themselves; format validators need clean whitespace
// but not split names; cosmetic casing runs late; duplicate detection runs
// last because it must see fully normalized values.
const (
	OrderWhitespaceCleanup  = 1
	OrderNameSplitter       = 5
	OrderStateNormalization = 10
	OrderRoleNormalization  = 11
	OrderProgramType        = 12
	OrderSolution           = 13
	OrderYesNo              = 14
	OrderEmailValidation    = 20
	OrderPhoneNormalization = 25
	OrderDateNormalization  = 30
	OrderNameCapitalization = 40
	OrderCompanyNormalizer  = 45
	OrderDuplicateDetection = 100
)

// Builtin returns the built-in rules in registration order.
func Builtin() []pipeline.Rule {
	return []pipeline.Rule{
		WhitespaceCleanup(),
		NameSplitter(),
		StateNormalization(),
		RoleNormalization(),
		ProgramTypeNormalization(),
		SolutionNormalization(),
		YesNoNormalization(),
		EmailValidation(),
		PhoneNormalization(),
		DateNormalization(),
		NameCapitalization(),
		CompanyNormalization(),
		DuplicateDetection(),
	}
}

// DefaultRegistry builds a registry of all built-in rules.
func DefaultRegistry() *pipeline.Registry {
	reg, err := pipeline.NewRegistry(Builtin()...)
	if err != nil {
		// Built-in ids are static and known to be unique.
		panic(err)
	}
	return reg
}

// isBlank reports whether a cell is empty or whitespace-only. Blank values
// always pass through normalization rules untouched.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// fieldIDFor resolves the field identifier recorded against a header's
// changes and issues: the matched field id when the column is claimed, the
// raw header text otherwise.
func fieldIDFor(in pipeline.Input, header string) string {
	for _, m := range in.Matches {
		if m.Matched && m.Header == header {
			return m.FieldID()
		}
	}
	return header
}

// isRequired reports whether a field id is in the run's required list.
func isRequired(in pipeline.Input, fieldID string) bool {
	for _, id := range in.RequiredFields {
		if id == fieldID {
			return true
		}
	}
	return false
}
