package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRule returns a transform rule writing a fixed value into every row.
func setRule(id string, order int, field, value string) Rule {
	return NewRule(id, id, "", RuleTransform, order, []string{field}, func(in Input) (Result, error) {
		var res Result
		res.Rows = CloneRows(in.Rows)
		for i, row := range res.Rows {
			original := row[field]
			row[field] = value
			res.AddChange(i, field, original, value, "set")
		}
		return res, nil
	})
}

func mustRegistry(t *testing.T, rules ...Rule) *Registry {
	t.Helper()
	reg, err := NewRegistry(rules...)
	require.NoError(t, err)
	return reg
}

func TestRunnerThreadsRowsThroughTransforms(t *testing.T) {
	reg := mustRegistry(t,
		setRule("one", 10, "a", "first"),
		setRule("two", 20, "b", "second"),
	)

	input := []Row{{"a": "x"}, {"a": "y"}}
	report := NewRunner(reg).Run(RunInput{Rows: input})

	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].Success)
	assert.True(t, report.Results[1].Success)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "first", report.Rows[0]["a"])
	assert.Equal(t, "second", report.Rows[0]["b"])
	assert.Equal(t, 4, report.TotalChanges)
	assert.NotEmpty(t, report.RunID)

	// The caller's rows stay untouched.
	assert.Equal(t, "x", input[0]["a"])
	_, hasB := input[0]["b"]
	assert.False(t, hasB)
}

func TestRunnerIsolatesPanickingRule(t *testing.T) {
	boom := NewRule("boom", "Boom", "", RuleTransform, 15, nil, func(in Input) (Result, error) {
		panic("unexpected cell type")
	})
	reg := mustRegistry(t,
		setRule("one", 10, "a", "first"),
		boom,
		setRule("two", 20, "b", "second"),
	)

	report := NewRunner(reg).Run(RunInput{Rows: []Row{{"a": "x"}}})

	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].Success)
	assert.False(t, report.Results[1].Success)
	assert.True(t, report.Results[2].Success)

	// The failure is one run-level execution_error attributed to the rule.
	require.Len(t, report.Results[1].Errors, 1)
	iss := report.Results[1].Errors[0]
	assert.Equal(t, RunLevel, iss.Row)
	assert.Equal(t, IssueExecutionError, iss.Kind)
	assert.Equal(t, "boom", report.Results[1].RuleID)

	// Later rules still ran against the last good row set.
	assert.Equal(t, "first", report.Rows[0]["a"])
	assert.Equal(t, "second", report.Rows[0]["b"])
	assert.True(t, report.HasErrors())
}

func TestRunnerDowngradesRuleError(t *testing.T) {
	failing := NewRule("bad", "Bad", "", RuleTransform, 10, nil, func(in Input) (Result, error) {
		return Result{}, errors.New("codec unavailable")
	})
	reg := mustRegistry(t, failing)

	report := NewRunner(reg).Run(RunInput{Rows: []Row{{"a": "x"}}})

	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].Success)
	require.Len(t, report.Results[0].Errors, 1)
	assert.Equal(t, IssueExecutionError, report.Results[0].Errors[0].Kind)
	assert.Contains(t, report.Results[0].Errors[0].Message, "codec unavailable")
	assert.Equal(t, "x", report.Rows[0]["a"])
}

func TestRunnerIgnoresRowsFromValidateRules(t *testing.T) {
	sneaky := NewRule("sneaky", "Sneaky", "", RuleValidate, 10, nil, func(in Input) (Result, error) {
		rows := CloneRows(in.Rows)
		for _, row := range rows {
			row["a"] = "mutated"
		}
		return Result{Rows: rows}, nil
	})
	reg := mustRegistry(t, sneaky)

	report := NewRunner(reg).Run(RunInput{Rows: []Row{{"a": "x"}}})

	assert.True(t, report.Results[0].Success)
	assert.Equal(t, "x", report.Rows[0]["a"])
}

func TestRunnerRejectsRowCountChange(t *testing.T) {
	grower := NewRule("grower", "Grower", "", RuleTransform, 10, nil, func(in Input) (Result, error) {
		rows := CloneRows(in.Rows)
		rows = append(rows, Row{"a": "extra"})
		return Result{Rows: rows}, nil
	})
	reg := mustRegistry(t, grower)

	report := NewRunner(reg).Run(RunInput{Rows: []Row{{"a": "x"}}})

	assert.False(t, report.Results[0].Success)
	require.Len(t, report.Results[0].Errors, 1)
	assert.Equal(t, IssueExecutionError, report.Results[0].Errors[0].Kind)
	require.Len(t, report.Rows, 1)
}

func TestRunnerReportsUnknownRuleIDs(t *testing.T) {
	reg := mustRegistry(t, setRule("one", 10, "a", "first"))

	report := NewRunner(reg).Run(RunInput{
		Rows:           []Row{{"a": "x"}},
		EnabledRuleIDs: []string{"one", "ghost"},
	})

	require.Len(t, report.Results, 2)
	assert.Equal(t, "ghost", report.Results[0].RuleID)
	assert.False(t, report.Results[0].Success)
	require.Len(t, report.Results[0].Errors, 1)
	assert.Equal(t, IssueScriptNotFound, report.Results[0].Errors[0].Kind)
	assert.True(t, report.Results[1].Success)
}

func TestRunnerRowsTouched(t *testing.T) {
	partial := NewRule("partial", "Partial", "", RuleTransform, 10, nil, func(in Input) (Result, error) {
		var res Result
		res.Rows = CloneRows(in.Rows)
		res.AddChange(0, "a", "x", "y", "first change")
		res.AddChange(0, "b", "x", "y", "second change on the same row")
		return res, nil
	})
	reg := mustRegistry(t, partial)

	report := NewRunner(reg).Run(RunInput{Rows: []Row{{"a": "x"}, {"a": "x"}}})

	assert.Equal(t, 2, report.Results[0].RowsProcessed)
	assert.Equal(t, 1, report.Results[0].RowsTouched)
}

func TestRunReportRowsWithErrors(t *testing.T) {
	flagger := NewRule("flagger", "Flagger", "", RuleValidate, 10, nil, func(in Input) (Result, error) {
		var res Result
		res.AddError(1, "email", nil, IssueMissingRequired, "row 2: email is required")
		res.AddError(RunLevel, "state", nil, IssueMissingField, "no state column")
		return res, nil
	})
	reg := mustRegistry(t, flagger)

	report := NewRunner(reg).Run(RunInput{Rows: []Row{{}, {}, {}}})

	flagged := report.RowsWithErrors()
	assert.Equal(t, map[int]bool{1: true}, flagged)
	assert.Equal(t, 2, report.TotalErrors)
}
