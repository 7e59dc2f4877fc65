package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bradsommer/list-validator/matching"
)

// RuleResult is the per-rule slice of a run report.
type RuleResult struct {
	RuleID        string        `json:"rule_id"`
	RuleName      string        `json:"rule_name"`
	Kind          RuleKind      `json:"kind"`
	Success       bool          `json:"success"`
	Changes       []Change      `json:"changes"`
	Errors        []Issue       `json:"errors"`
	Warnings      []Issue       `json:"warnings"`
	RowsProcessed int           `json:"rows_processed"`
	RowsTouched   int           `json:"rows_touched"`
	Duration      time.Duration `json:"duration_ns"`
}

// RunReport is the sole artifact handed to external collaborators: the final
// row set plus every rule's changes, errors and warnings in execution order.
// Partial reports are well-formed at every rule boundary.
type RunReport struct {
	RunID         string        `json:"run_id"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration_ns"`
	Results       []RuleResult  `json:"results"`
	TotalChanges  int           `json:"total_changes"`
	TotalErrors   int           `json:"total_errors"`
	TotalWarnings int           `json:"total_warnings"`
	Rows          []Row         `json:"rows"`
}

// HasErrors reports whether any rule recorded an error. Callers gate
// "proceed" actions on this; warnings never block.
func (r *RunReport) HasErrors() bool {
	return r.TotalErrors > 0
}

// RowsWithErrors returns the set of 0-based row indices with at least one
// row-level error.
func (r *RunReport) RowsWithErrors() map[int]bool {
	out := make(map[int]bool)
	for _, res := range r.Results {
		for _, iss := range res.Errors {
			if iss.Row != RunLevel {
				out[iss.Row] = true
			}
		}
	}
	return out
}

// RunInput is the full input of one pipeline execution.
type RunInput struct {
	Rows           []Row
	Headers        []string
	Matches        []matching.HeaderMatch
	RequiredFields []string
	// EnabledRuleIDs filters the registry; nil runs every registered rule.
	EnabledRuleIDs []string
}

// Runner executes an ordered subset of the registry sequentially, threading
// the current row set through each transform rule.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
}

// NewRunner creates a runner over the given registry.
func NewRunner(registry *Registry) *Runner {
	return &Runner{
		registry: registry,
		logger:   slog.Default().With("component", "rule_runner"),
	}
}

// Run executes the pipeline and always returns a complete report: a rule
// failing internally is downgraded to a single run-level execution_error
// attributed to that rule, and later rules still run against the last
// successfully-produced row set.
func (rn *Runner) Run(in RunInput) *RunReport {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	started := time.Now()

	current := CloneRows(in.Rows)

	rules, unknown := rn.registry.Select(in.EnabledRuleIDs)
	for _, id := range unknown {
		rn.logger.Warn("Requested rule not found in registry", "rule_id", id)
		report.Results = append(report.Results, RuleResult{
			RuleID:  id,
			Success: false,
			Changes: []Change{},
			Errors: []Issue{{
				Row:      RunLevel,
				Kind:     IssueScriptNotFound,
				Message:  fmt.Sprintf("rule %q is not registered", id),
				Severity: SeverityError,
			}},
			Warnings: []Issue{},
		})
	}

	for _, rule := range rules {
		result := rn.executeRule(rule, Input{
			Rows:           current,
			Headers:        in.Headers,
			Matches:        in.Matches,
			RequiredFields: in.RequiredFields,
		})
		result.RowsProcessed = len(current)

		// Only successful transform rules may replace the row set; validate
		// rules never affect it even if they return modified rows.
		if rule.Kind() == RuleTransform && result.Success && result.rows != nil {
			current = result.rows
		}
		result.rows = nil

		report.Results = append(report.Results, result.RuleResult)
	}

	for _, res := range report.Results {
		report.TotalChanges += len(res.Changes)
		report.TotalErrors += len(res.Errors)
		report.TotalWarnings += len(res.Warnings)
	}
	report.Rows = current
	report.Duration = time.Since(started)

	rn.logger.Info("Pipeline run complete",
		"run_id", report.RunID,
		"rules", len(report.Results),
		"rows", len(report.Rows),
		"changes", report.TotalChanges,
		"errors", report.TotalErrors,
		"warnings", report.TotalWarnings,
		"duration_ms", report.Duration.Milliseconds())

	return report
}

// executedResult carries the adopted row set alongside the report slice.
type executedResult struct {
	RuleResult
	rows []Row
}

// executeRule invokes one rule with panic recovery. A panic or returned
// error becomes a single run-level execution_error for that rule.
func (rn *Runner) executeRule(rule Rule, in Input) (out executedResult) {
	out.RuleID = rule.ID()
	out.RuleName = rule.Name()
	out.Kind = rule.Kind()
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			rn.logger.Error("Rule panicked", "rule_id", rule.ID(), "panic", rec)
			out = executedResult{RuleResult: RuleResult{
				RuleID:   rule.ID(),
				RuleName: rule.Name(),
				Kind:     rule.Kind(),
				Success:  false,
				Changes:  []Change{},
				Errors: []Issue{{
					Row:      RunLevel,
					Field:    rule.ID(),
					Kind:     IssueExecutionError,
					Message:  fmt.Sprintf("rule %q failed: %v", rule.ID(), rec),
					Severity: SeverityError,
				}},
				Warnings: []Issue{},
				Duration: time.Since(started),
			}}
		}
	}()

	result, err := rule.Execute(in)
	out.Duration = time.Since(started)

	if err != nil {
		rn.logger.Error("Rule failed", "rule_id", rule.ID(), "error", err)
		out.Success = false
		out.Changes = []Change{}
		out.Errors = []Issue{{
			Row:      RunLevel,
			Field:    rule.ID(),
			Kind:     IssueExecutionError,
			Message:  fmt.Sprintf("rule %q failed: %v", rule.ID(), err),
			Severity: SeverityError,
		}}
		out.Warnings = []Issue{}
		return out
	}

	if rule.Kind() == RuleTransform && result.Rows != nil && len(result.Rows) != len(in.Rows) {
		rn.logger.Error("Rule broke row-count invariance",
			"rule_id", rule.ID(),
			"rows_in", len(in.Rows),
			"rows_out", len(result.Rows))
		out.Success = false
		out.Changes = []Change{}
		out.Errors = []Issue{{
			Row:      RunLevel,
			Field:    rule.ID(),
			Kind:     IssueExecutionError,
			Message:  fmt.Sprintf("rule %q returned %d rows for %d input rows", rule.ID(), len(result.Rows), len(in.Rows)),
			Severity: SeverityError,
		}}
		out.Warnings = []Issue{}
		return out
	}

	out.Success = true
	out.Changes = result.Changes
	out.Errors = result.Errors
	out.Warnings = result.Warnings
	out.rows = result.Rows
	if out.Changes == nil {
		out.Changes = []Change{}
	}
	if out.Errors == nil {
		out.Errors = []Issue{}
	}
	if out.Warnings == nil {
		out.Warnings = []Issue{}
	}
	out.RowsTouched = touchedRows(out.Changes)

	rn.logger.Debug("Rule executed",
		"rule_id", rule.ID(),
		"changes", len(out.Changes),
		"errors", len(out.Errors),
		"warnings", len(out.Warnings),
		"duration_ms", out.Duration.Milliseconds())

	return out
}

// touchedRows counts distinct row indices across change records.
func touchedRows(changes []Change) int {
	seen := make(map[int]bool, len(changes))
	for _, c := range changes {
		if c.Row != RunLevel {
			seen[c.Row] = true
		}
	}
	return len(seen)
}
