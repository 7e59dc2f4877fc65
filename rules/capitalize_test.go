package rules

import (
	"testing"

	"github.com/bradsommer/list-validator/pipeline"
)

func TestCapitalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john", "John"},
		{"JOHN", "John"},
		{"mcdonald", "McDonald"},
		{"MACARTHUR", "MacArthur"},
		{"mack", "Mack"},
		{"o'brien", "O'Brien"},
		{"o’brien", "O’Brien"},
		{"van der berg", "Van der Berg"},
		{"ludwig van beethoven", "Ludwig van Beethoven"},
		{"mary-jane", "Mary-Jane"},
		{"smith jr", "Smith Jr."},
		{"smith III", "Smith III"},
		{"  anna  marie ", "Anna Marie"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CapitalizeName(tt.in); got != tt.want {
			t.Errorf("CapitalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNameCapitalizationRule(t *testing.T) {
	in := testInput(t, []string{"First Name", "Last Name"}, []pipeline.Row{
		{"First Name": "JANE", "Last Name": "mcdonald"},
		{"First Name": "Bob", "Last Name": "Smith"},
	}, map[string]string{"firstname": "First Name", "lastname": "Last Name"})

	res := runRule(t, NameCapitalization(), in)

	if got := cellOf(t, res.Rows, 0, "First Name"); got != "Jane" {
		t.Errorf("first name = %v, want Jane", got)
	}
	if got := cellOf(t, res.Rows, 0, "Last Name"); got != "McDonald" {
		t.Errorf("last name = %v, want McDonald", got)
	}
	if len(res.Changes) != 2 {
		t.Errorf("changes = %d, want 2", len(res.Changes))
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != "all_caps_name" {
		t.Errorf("warnings = %+v, want one all_caps_name", res.Warnings)
	}
}
