package crmsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// Client is the CRM operation set the planner needs. Implementations wrap
// the external CRM API (with its own caching and token lifecycle) outside
// this repository.
type Client interface {
	SearchCompany(ctx context.Context, name string) (id string, found bool, err error)
	CreateCompany(ctx context.Context, props Properties) (id string, err error)
	UpsertContact(ctx context.Context, email string, props Properties) (id string, err error)
	CreateTask(ctx context.Context, contactID, title, body string) (id string, err error)
}

// RowOutcome records what happened to one row during a sync.
type RowOutcome struct {
	Row            int    `json:"row"`
	ContactID      string `json:"contact_id,omitempty"`
	CompanyID      string `json:"company_id,omitempty"`
	CompanyCreated bool   `json:"company_created,omitempty"`
	TaskID         string `json:"task_id,omitempty"`
	Skipped        bool   `json:"skipped,omitempty"`
	Error          string `json:"error,omitempty"`
}

// SyncResult aggregates one sync pass.
type SyncResult struct {
	Outcomes         []RowOutcome `json:"outcomes"`
	ContactsUpserted int          `json:"contacts_upserted"`
	CompaniesCreated int          `json:"companies_created"`
	TasksCreated     int          `json:"tasks_created"`
	RowsSkipped      int          `json:"rows_skipped"`
	RowsFailed       int          `json:"rows_failed"`
}

// Planner walks the final row set row by row: match or create the company,
// upsert the contact, and open a follow-up task for rows the pipeline
// flagged with errors.
type Planner struct {
	client Client
	logger *slog.Logger
}

// NewPlanner creates a planner over a CRM client.
func NewPlanner(client Client) *Planner {
	return &Planner{
		client: client,
		logger: slog.Default().With("component", "crm_sync"),
	}
}

// Sync pushes a run report's final rows to the CRM. Rows without an email
// are skipped (the CRM keys contacts by email); a failing row is recorded
// and does not stop the remaining rows.
func (p *Planner) Sync(ctx context.Context, report *pipeline.RunReport, matches []matching.HeaderMatch) (*SyncResult, error) {
	if p.client == nil {
		return nil, fmt.Errorf("crm client is nil")
	}

	result := &SyncResult{}
	flagged := report.RowsWithErrors()
	// Companies created or found earlier in the same pass, keyed by name.
	companyIDs := make(map[string]string)

	for i, row := range report.Rows {
		outcome := RowOutcome{Row: i}

		contact, company := SplitProperties(row, matches)
		email, _ := contact[schema.FieldEmail].(string)
		if email == "" {
			outcome.Skipped = true
			result.RowsSkipped++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		if name := pipeline.CellString(company[schema.FieldCompanyName]); name != "" {
			companyID, created, err := p.ensureCompany(ctx, name, company, companyIDs)
			if err != nil {
				outcome.Error = err.Error()
				result.RowsFailed++
				result.Outcomes = append(result.Outcomes, outcome)
				continue
			}
			outcome.CompanyID = companyID
			outcome.CompanyCreated = created
			if created {
				result.CompaniesCreated++
			}
			contact["company_id"] = companyID
		}

		contactID, err := p.client.UpsertContact(ctx, email, contact)
		if err != nil {
			p.logger.Error("Contact upsert failed", "row", pipeline.DisplayRow(i), "error", err)
			outcome.Error = err.Error()
			result.RowsFailed++
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}
		outcome.ContactID = contactID
		result.ContactsUpserted++

		if flagged[i] {
			taskID, err := p.client.CreateTask(ctx, contactID,
				"Review imported contact",
				fmt.Sprintf("Row %d of the import had validation errors; verify this contact's data.", pipeline.DisplayRow(i)))
			if err != nil {
				p.logger.Warn("Follow-up task creation failed", "row", pipeline.DisplayRow(i), "error", err)
			} else {
				outcome.TaskID = taskID
				result.TasksCreated++
			}
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	p.logger.Info("CRM sync complete",
		"contacts", result.ContactsUpserted,
		"companies_created", result.CompaniesCreated,
		"tasks", result.TasksCreated,
		"skipped", result.RowsSkipped,
		"failed", result.RowsFailed)

	return result, nil
}

// ensureCompany finds or creates the company once per distinct name per
// pass.
func (p *Planner) ensureCompany(ctx context.Context, name string, props Properties, cache map[string]string) (string, bool, error) {
	if id, ok := cache[name]; ok {
		return id, false, nil
	}

	id, found, err := p.client.SearchCompany(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("company search for %q failed: %w", name, err)
	}
	if found {
		cache[name] = id
		return id, false, nil
	}

	id, err = p.client.CreateCompany(ctx, props)
	if err != nil {
		return "", false, fmt.Errorf("company creation for %q failed: %w", name, err)
	}
	cache[name] = id
	return id, true, nil
}
