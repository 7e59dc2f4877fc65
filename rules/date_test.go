package rules

import (
	"testing"

	"github.com/bradsommer/list-validator/pipeline"
)

func TestParseDateValue(t *testing.T) {
	tests := []struct {
		value   string
		want    string
		hadTime bool
		ok      bool
	}{
		{"2024-03-15", "2024-03-15", false, true},
		{"3/15/2024", "2024-03-15", false, true},
		{"15/3/2024", "2024-03-15", false, true},
		{"15.03.2024", "2024-03-15", false, true},
		{"15-03-2024", "2024-03-15", false, true},
		{"3/15/24", "2024-03-15", false, true},
		{"3/15/99", "1999-03-15", false, true},
		{"20240315", "2024-03-15", false, true},
		{"March 15, 2024", "2024-03-15", false, true},
		{"Mar 15 2024", "2024-03-15", false, true},
		{"15 Mar 2024", "2024-03-15", false, true},
		{"15-Mar-2024", "2024-03-15", false, true},
		{"2024-03-15 14:30", "2024-03-15", true, true},
		{"2024-03-15T14:30:00", "2024-03-15", true, true},
		{"3/15/2024 2:30 PM", "2024-03-15", true, true},
		{"2024-13-40", "", false, false},
		{"2/30/2024", "", false, false},
		{"not a date", "", false, false},
		{"", "", false, false},
	}
	for _, tt := range tests {
		got, hadTime, ok := ParseDateValue(tt.value)
		if ok != tt.ok {
			t.Errorf("ParseDateValue(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if formatted := got.Format(dateFormat); formatted != tt.want {
			t.Errorf("ParseDateValue(%q) = %s, want %s", tt.value, formatted, tt.want)
		}
		if hadTime != tt.hadTime {
			t.Errorf("ParseDateValue(%q) hadTime = %v, want %v", tt.value, hadTime, tt.hadTime)
		}
	}
}

func TestParseDateValueSlashReadsMonthFirst(t *testing.T) {
	got, _, ok := ParseDateValue("04/05/2024")
	if !ok {
		t.Fatal("04/05/2024 did not parse")
	}
	if formatted := got.Format(dateFormat); formatted != "2024-04-05" {
		t.Errorf("04/05/2024 = %s, want 2024-04-05", formatted)
	}

	got, _, ok = ParseDateValue("04.05.2024")
	if !ok {
		t.Fatal("04.05.2024 did not parse")
	}
	if formatted := got.Format(dateFormat); formatted != "2024-05-04" {
		t.Errorf("04.05.2024 = %s, want 2024-05-04", formatted)
	}
}

func TestDateNormalization(t *testing.T) {
	in := testInput(t, []string{"Start Date"}, []pipeline.Row{
		{"Start Date": "3/15/2024"},
		{"Start Date": "2024-13-40"},
		{"Start Date": "2024-03-15"},
		{"Start Date": ""},
	}, map[string]string{"start_date": "Start Date"})

	res := runRule(t, DateNormalization(), in)

	if got := cellOf(t, res.Rows, 0, "Start Date"); got != "2024-03-15" {
		t.Errorf("row 0 = %v, want 2024-03-15", got)
	}
	// The unparseable value stays as typed and becomes an error.
	if got := cellOf(t, res.Rows, 1, "Start Date"); got != "2024-13-40" {
		t.Errorf("row 1 = %v, want original value kept", got)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %+v, want 1", res.Errors)
	}
	if res.Errors[0].Kind != pipeline.IssueInvalidDate || res.Errors[0].Row != 1 {
		t.Errorf("got issue %+v, want invalid_date on row 1", res.Errors[0])
	}
	if len(res.Changes) != 1 {
		t.Errorf("changes = %d, want 1", len(res.Changes))
	}
}

func TestDateNormalizationUnmatchedDateHeader(t *testing.T) {
	in := testInput(t, []string{"Signup Date"}, []pipeline.Row{
		{"Signup Date": "January 2, 2024"},
	}, nil)

	res := runRule(t, DateNormalization(), in)

	if got := cellOf(t, res.Rows, 0, "Signup Date"); got != "2024-01-02" {
		t.Errorf("unmatched date column not normalized: %v", got)
	}
}

func TestDateNormalizationTimeColumn(t *testing.T) {
	in := testInput(t, []string{"Created At"}, []pipeline.Row{
		{"Created At": "3/15/2024 2:30 PM"},
	}, nil)

	res := runRule(t, DateNormalization(), in)

	if got := cellOf(t, res.Rows, 0, "Created At"); got != "2024-03-15 14:30" {
		t.Errorf("time column = %v, want 2024-03-15 14:30", got)
	}
}
