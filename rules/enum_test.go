package rules

import (
	"testing"

	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

func TestStateNormalizationScenario(t *testing.T) {
	headers := []string{"State"}
	rows := []pipeline.Row{
		{"State": "AZ"},
		{"State": "ca"},
		{"State": "Califronia"},
		{"State": "Ohio"},
	}
	in := testInput(t, headers, rows, map[string]string{schema.FieldState: "State"})

	res := runRule(t, StateNormalization(), in)

	want := []string{"Arizona", "California", "California", "Ohio"}
	for i, w := range want {
		if got := cellOf(t, res.Rows, i, "State"); got != w {
			t.Errorf("row %d state = %v, want %q", i, got, w)
		}
	}
	if len(res.Changes) != 3 {
		t.Errorf("changes = %d, want 3", len(res.Changes))
	}
	if len(res.Errors) != 0 {
		t.Errorf("errors = %d, want 0", len(res.Errors))
	}
}

func TestStateNormalizationKeepsUnknown(t *testing.T) {
	headers := []string{"State"}
	rows := []pipeline.Row{{"State": "Atlantis"}}
	in := testInput(t, headers, rows, map[string]string{schema.FieldState: "State"})

	res := runRule(t, StateNormalization(), in)

	if got := cellOf(t, res.Rows, 0, "State"); got != "Atlantis" {
		t.Errorf("unknown state rewritten to %v", got)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(res.Warnings))
	}
	if res.Warnings[0].Kind != "invalid_state" {
		t.Errorf("warning kind = %q, want invalid_state", res.Warnings[0].Kind)
	}
}

func TestStateNormalizationIdempotent(t *testing.T) {
	headers := []string{"State"}
	rows := []pipeline.Row{{"State": "California"}}
	in := testInput(t, headers, rows, map[string]string{schema.FieldState: "State"})

	res := runRule(t, StateNormalization(), in)

	if len(res.Changes) != 0 {
		t.Errorf("normalized input produced %d changes, want 0", len(res.Changes))
	}
}

func TestRoleNormalization(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        any
		wantChange  bool
		wantWarning bool
	}{
		{name: "exact value passes", input: "Teacher", want: "Teacher"},
		{name: "casing corrected", input: "teacher", want: "Teacher", wantChange: true},
		{name: "alias mapped", input: "IT Director", want: "Technology Director", wantChange: true},
		{name: "unknown becomes Other", input: "Chief Vibes Officer", want: "Other", wantChange: true, wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := []string{"Role"}
			rows := []pipeline.Row{{"Role": tt.input}}
			in := testInput(t, headers, rows, map[string]string{schema.FieldRole: "Role"})

			res := runRule(t, RoleNormalization(), in)

			if got := cellOf(t, res.Rows, 0, "Role"); got != tt.want {
				t.Errorf("role = %v, want %v", got, tt.want)
			}
			if tt.wantChange != (len(res.Changes) == 1) {
				t.Errorf("changes = %d, wantChange %v", len(res.Changes), tt.wantChange)
			}
			if tt.wantWarning != (len(res.Warnings) == 1) {
				t.Errorf("warnings = %d, wantWarning %v", len(res.Warnings), tt.wantWarning)
			}
		})
	}
}

func TestYesNoNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{name: "yes passes", input: "Yes", want: "Yes"},
		{name: "y mapped", input: "y", want: "Yes"},
		{name: "TRUE mapped", input: "TRUE", want: "Yes"},
		{name: "0 mapped", input: "0", want: "No"},
		{name: "unknown cleared", input: "maybe", want: nil},
		{name: "blank untouched", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := []string{"Newsletter"}
			rows := []pipeline.Row{{"Newsletter": tt.input}}
			in := testInput(t, headers, rows, map[string]string{schema.FieldNewsletter: "Newsletter"})

			res := runRule(t, YesNoNormalization(), in)

			if got := cellOf(t, res.Rows, 0, "Newsletter"); got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumBlankPassesThrough(t *testing.T) {
	headers := []string{"Role"}
	rows := []pipeline.Row{{"Role": "  "}}
	in := testInput(t, headers, rows, map[string]string{schema.FieldRole: "Role"})

	res := runRule(t, RoleNormalization(), in)

	if len(res.Changes)+len(res.Warnings)+len(res.Errors) != 0 {
		t.Errorf("blank value produced output: %+v", res)
	}
}
