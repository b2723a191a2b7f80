package store

import (
	"context"
	"database/sql"
	"fmt"

	"funding-tracker/internal/models"
	"funding-tracker/internal/query"
)

const applicationColumns = `id, client_id, funding_opportunity_id, status, submission_date,
	assigned_consultant, completion_score, notes, created_at, updated_at`

// ApplicationStore reads dossiers as aggregates of application, client,
// opportunity and documents.
type ApplicationStore struct {
	db   *sql.DB
	docs *DocumentStore
}

func NewApplicationStore(db *sql.DB, docs *DocumentStore) *ApplicationStore {
	return &ApplicationStore{db: db, docs: docs}
}

var detailSelect = `SELECT a.id, a.status, a.submission_date, a.assigned_consultant,
	a.completion_score, a.notes, a.created_at, a.updated_at,
	c.id, c.organization_name, c.contact_person, c.email, c.phone, c.address,
	c.legal_status, c.structure_type, c.created_at, c.updated_at,
	` + query.QualifiedOpportunityColumns("o") + `
FROM applications a
JOIN clients c ON c.id = a.client_id
JOIN funding_opportunities o ON o.id = a.funding_opportunity_id`

func scanDetail(s scanner) (*models.ApplicationDetail, error) {
	var (
		app               models.ApplicationDetail
		consultant, notes sql.NullString
		client            clientFields
		opp               opportunityFields
	)

	dest := []interface{}{
		&app.ID, &app.Status, &app.SubmissionDate, &consultant,
		&app.CompletionScore, &notes, &app.CreatedAt, &app.UpdatedAt,
	}
	dest = append(dest, client.dest()...)
	dest = append(dest, opp.dest()...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	app.AssignedConsultant = stringPtr(consultant)
	app.Notes = stringPtr(notes)
	app.Client = *client.finish()
	app.FundingOpportunity = *opp.finish()
	app.Documents = []models.Document{}
	return &app, nil
}

func scanApplication(s scanner) (*models.Application, error) {
	var (
		a                 models.Application
		consultant, notes sql.NullString
	)
	err := s.Scan(&a.ID, &a.ClientID, &a.FundingOpportunityID, &a.Status, &a.SubmissionDate,
		&consultant, &a.CompletionScore, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.AssignedConsultant = stringPtr(consultant)
	a.Notes = stringPtr(notes)
	return &a, nil
}

// List returns the dossiers matching f, most recently submitted first, with
// their documents loaded in one extra query.
func (s *ApplicationStore) List(ctx context.Context, f query.ApplicationFilters) ([]models.ApplicationDetail, error) {
	where, args := query.Where(f.Conditions(), 1)
	rows, err := s.db.QueryContext(ctx, detailSelect+where+" ORDER BY a.submission_date DESC, a.id ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := []models.ApplicationDetail{}
	for rows.Next() {
		app, err := scanDetail(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	ids := make([]int64, len(apps))
	for i := range apps {
		ids[i] = apps[i].ID
	}
	docs, err := s.docs.listByApplications(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if d, ok := docs[apps[i].ID]; ok {
			apps[i].Documents = d
		}
	}
	return apps, nil
}

// Get returns one dossier with its documents.
func (s *ApplicationStore) Get(ctx context.Context, id int64) (*models.ApplicationDetail, error) {
	app, err := scanDetail(s.db.QueryRowContext(ctx, detailSelect+" WHERE a.id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, translate(err, false))
	}

	docs, err := s.docs.ListByApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Documents = docs
	return app, nil
}

// Create stores a dossier. Unknown client or opportunity ids yield ErrInvalidReference.
func (s *ApplicationStore) Create(ctx context.Context, in models.NewApplication) (*models.Application, error) {
	a, err := scanApplication(s.db.QueryRowContext(ctx, `INSERT INTO applications
		(client_id, funding_opportunity_id, status, submission_date, assigned_consultant,
		 completion_score, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+applicationColumns,
		in.ClientID, in.FundingOpportunityID, in.Status, timeOrNow(in.SubmissionDate),
		in.AssignedConsultant, in.CompletionScore, in.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("create application: %w", translate(err, false))
	}
	return a, nil
}

func (s *ApplicationStore) Update(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error) {
	var b setBuilder
	if patch.ClientID != nil {
		b.add("client_id", *patch.ClientID)
	}
	if patch.FundingOpportunityID != nil {
		b.add("funding_opportunity_id", *patch.FundingOpportunityID)
	}
	if patch.Status != nil {
		b.add("status", *patch.Status)
	}
	if patch.SubmissionDate != nil {
		b.add("submission_date", *patch.SubmissionDate)
	}
	if patch.AssignedConsultant.Set {
		b.add("assigned_consultant", patch.AssignedConsultant.Value)
	}
	if patch.CompletionScore != nil {
		b.add("completion_score", *patch.CompletionScore)
	}
	if patch.Notes.Set {
		b.add("notes", patch.Notes.Value)
	}

	stmt, args := b.build("applications", id, true, applicationColumns)
	a, err := scanApplication(s.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("update application %d: %w", id, translate(err, false))
	}
	return a, nil
}

// Delete removes a dossier; its documents go with it.
func (s *ApplicationStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM applications WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, translate(err, true))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete application %d: %w", id, ErrNotFound)
	}
	return nil
}
