package pipeline

import (
	"fmt"
	"strconv"

	"github.com/bradsommer/list-validator/matching"
)

// Row is one spreadsheet record keyed by original header. Cell values are
// scalars as produced by the file decoder: string, float64, bool or nil.
// Column order lives in the run input's Headers slice, not in the row.
type Row map[string]any

// Clone returns a shallow copy of the row. Cell values are scalars, so a
// shallow copy is a full copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRows copies a row set. Transform rules work on a clone so a failed
// rule cannot poison the rows already captured by earlier change records.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// CellString renders a cell value as a string for rule processing.
// Numbers drop trailing zeros, nil becomes "".
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// RunLevel marks an issue that applies to the whole run rather than one row.
const RunLevel = -1

// Severity distinguishes advisory warnings from row-invalidating errors.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Machine-readable issue kinds shared across rules.
const (
	IssueMissingField    = "missing_field"
	IssueMissingRequired = "missing_required"
	IssueInvalidFormat   = "invalid_format"
	IssueInvalidDate     = "invalid_date"
	IssueInvalidDatetime = "invalid_datetime"
	IssueDisposableEmail = "disposable_email"
	IssueExecutionError  = "execution_error"
	IssueScriptNotFound  = "script_not_found"
)

// Change records one corrected cell. Original keeps its evidence value even
// if a later rule modifies the same cell again.
type Change struct {
	Row      int    `json:"row"`
	Field    string `json:"field"`
	Original any    `json:"original"`
	New      any    `json:"new"`
	Reason   string `json:"reason"`
}

// Issue is one error or warning record. Row is RunLevel for run-scoped
// issues such as a required field with no mapped column.
type Issue struct {
	Row      int      `json:"row"`
	Field    string   `json:"field"`
	Value    any      `json:"value,omitempty"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Input is what every rule receives: the current row set, the ordered
// original headers, the header-match records and the run's required field
// ids. Rules must treat everything except their returned rows as read-only.
type Input struct {
	Rows           []Row
	Headers        []string
	Matches        []matching.HeaderMatch
	RequiredFields []string
}

// RowKeys returns the ordered headers, falling back to the keys of the first
// row when the caller did not supply header order.
func (in Input) RowKeys() []string {
	if len(in.Headers) > 0 {
		return in.Headers
	}
	if len(in.Rows) == 0 {
		return nil
	}
	keys := make([]string, 0, len(in.Rows[0]))
	for k := range in.Rows[0] {
		keys = append(keys, k)
	}
	return keys
}

// Locate finds the spreadsheet header for a field id, via the header matches
// or the locator's fallback pattern table.
func (in Input) Locate(fieldID string) string {
	return matching.LocateHeader(fieldID, in.Matches, in.RowKeys())
}

// Result is a rule's output. Rows is only honored for transform rules;
// validate rules may leave it nil.
type Result struct {
	Rows     []Row
	Changes  []Change
	Errors   []Issue
	Warnings []Issue
}

// AddChange appends a change record.
func (r *Result) AddChange(row int, field string, original, newValue any, reason string) {
	r.Changes = append(r.Changes, Change{Row: row, Field: field, Original: original, New: newValue, Reason: reason})
}

// AddError appends an error issue.
func (r *Result) AddError(row int, field string, value any, kind, message string) {
	r.Errors = append(r.Errors, Issue{Row: row, Field: field, Value: value, Kind: kind, Message: message, Severity: SeverityError})
}

// AddWarning appends a warning issue.
func (r *Result) AddWarning(row int, field string, value any, kind, message string) {
	r.Warnings = append(r.Warnings, Issue{Row: row, Field: field, Value: value, Kind: kind, Message: message, Severity: SeverityWarning})
}

// DisplayRow converts a 0-based row index to the 1-based number shown in
// user-facing messages.
func DisplayRow(index int) int {
	return index + 1
}
