package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"funding-tracker/internal/models"
	"funding-tracker/internal/query"

	"github.com/lib/pq"
)

type OpportunityStore struct {
	db *sql.DB
}

func NewOpportunityStore(db *sql.DB) *OpportunityStore {
	return &OpportunityStore{db: db}
}

// opportunityFields holds scan destinations for one opportunity row.
type opportunityFields struct {
	o                    models.FundingOpportunity
	externalLink         sql.NullString
	minAmount, maxAmount sql.NullInt64
}

func (f *opportunityFields) dest() []interface{} {
	return []interface{}{
		&f.o.ID, &f.o.Title, &f.o.FundingProgram, &f.o.Description, &f.o.EligibilityCriteria,
		&f.o.RequiredDocuments, &f.externalLink, &f.o.Deadline, &f.minAmount, &f.maxAmount,
		&f.o.FundingType, &f.o.Status, pq.Array(&f.o.Sectors), &f.o.CreatedAt, &f.o.UpdatedAt,
	}
}

func (f *opportunityFields) finish() *models.FundingOpportunity {
	f.o.ExternalLink = stringPtr(f.externalLink)
	f.o.MinAmount = int64Ptr(f.minAmount)
	f.o.MaxAmount = int64Ptr(f.maxAmount)
	if f.o.Sectors == nil {
		f.o.Sectors = []string{}
	}
	return &f.o
}

func scanOpportunity(s scanner) (*models.FundingOpportunity, error) {
	var f opportunityFields
	if err := s.Scan(f.dest()...); err != nil {
		return nil, err
	}
	return f.finish(), nil
}

func collectOpportunities(rows *sql.Rows) ([]models.FundingOpportunity, error) {
	defer rows.Close()

	out := []models.FundingOpportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// List returns the opportunities matching f in f.SortBy order.
func (s *OpportunityStore) List(ctx context.Context, f query.Filters) ([]models.FundingOpportunity, error) {
	stmt, args := query.ListOpportunitiesSQL(f)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	return collectOpportunities(rows)
}

func (s *OpportunityStore) Get(ctx context.Context, id int64) (*models.FundingOpportunity, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+query.OpportunityColumns+" FROM funding_opportunities WHERE id = $1", id)
	o, err := scanOpportunity(row)
	if err != nil {
		return nil, fmt.Errorf("get opportunity %d: %w", id, translate(err, false))
	}
	return o, nil
}

// GetMany loads the given ids and returns them in the order of ids. Unknown
// ids are skipped.
func (s *OpportunityStore) GetMany(ctx context.Context, ids []int64) ([]models.FundingOpportunity, error) {
	if len(ids) == 0 {
		return []models.FundingOpportunity{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+query.OpportunityColumns+" FROM funding_opportunities WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("get opportunities: %w", err)
	}
	found, err := collectOpportunities(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.FundingOpportunity, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}
	out := make([]models.FundingOpportunity, 0, len(found))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
			delete(byID, id)
		}
	}
	return out, nil
}

func (s *OpportunityStore) Create(ctx context.Context, in models.NewFundingOpportunity) (*models.FundingOpportunity, error) {
	row := s.db.QueryRowContext(ctx, `INSERT INTO funding_opportunities
		(title, funding_program, description, eligibility_criteria, required_documents,
		 external_link, deadline, min_amount, max_amount, funding_type, status, sectors,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING `+query.OpportunityColumns,
		in.Title, in.FundingProgram, in.Description, in.EligibilityCriteria, in.RequiredDocuments,
		in.ExternalLink, in.Deadline, in.MinAmount, in.MaxAmount, in.FundingType, in.Status,
		pq.Array(in.Sectors),
	)
	o, err := scanOpportunity(row)
	if err != nil {
		return nil, fmt.Errorf("create opportunity: %w", translate(err, false))
	}
	return o, nil
}

// Update applies the fields present in patch and refreshes updated_at.
func (s *OpportunityStore) Update(ctx context.Context, id int64, patch models.OpportunityPatch) (*models.FundingOpportunity, error) {
	var b setBuilder
	if patch.Title != nil {
		b.add("title", *patch.Title)
	}
	if patch.FundingProgram != nil {
		b.add("funding_program", *patch.FundingProgram)
	}
	if patch.Description != nil {
		b.add("description", *patch.Description)
	}
	if patch.EligibilityCriteria != nil {
		b.add("eligibility_criteria", *patch.EligibilityCriteria)
	}
	if patch.RequiredDocuments != nil {
		b.add("required_documents", *patch.RequiredDocuments)
	}
	if patch.ExternalLink.Set {
		b.add("external_link", patch.ExternalLink.Value)
	}
	if patch.Deadline != nil {
		b.add("deadline", *patch.Deadline)
	}
	if patch.MinAmount.Set {
		b.add("min_amount", patch.MinAmount.Value)
	}
	if patch.MaxAmount.Set {
		b.add("max_amount", patch.MaxAmount.Value)
	}
	if patch.FundingType != nil {
		b.add("funding_type", *patch.FundingType)
	}
	if patch.Status != nil {
		b.add("status", *patch.Status)
	}
	if patch.Sectors != nil {
		b.add("sectors", pq.Array(patch.Sectors))
	}

	stmt, args := b.build("funding_opportunities", id, true, query.OpportunityColumns)
	o, err := scanOpportunity(s.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("update opportunity %d: %w", id, translate(err, false))
	}
	return o, nil
}

// Delete removes the opportunity. It fails with ErrReferenced while any
// application still points at it.
func (s *OpportunityStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM funding_opportunities WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete opportunity %d: %w", id, translate(err, true))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete opportunity %d: %w", id, ErrNotFound)
	}
	return nil
}

// Statistics computes the dashboard summary as of now.
func (s *OpportunityStore) Statistics(ctx context.Context, now time.Time) (*models.FundingStatistics, error) {
	var st models.FundingStatistics
	err := s.db.QueryRowContext(ctx, query.StatisticsSQL, query.StatisticsArgs(now)...).
		Scan(&st.TotalOpen, &st.TotalPending, &st.TotalAmount, &st.ThisWeek)
	if err != nil {
		return nil, fmt.Errorf("funding statistics: %w", err)
	}
	return &st, nil
}
