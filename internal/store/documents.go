package store

import (
	"context"
	"database/sql"
	"fmt"

	"funding-tracker/internal/models"

	"github.com/lib/pq"
)

const documentColumns = `id, application_id, document_type, file_name, file_size, file_type,
	upload_date, is_required, status, created_at`

type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func scanDocument(s scanner) (*models.Document, error) {
	var (
		d        models.Document
		fileSize sql.NullInt64
		fileType sql.NullString
	)
	err := s.Scan(&d.ID, &d.ApplicationID, &d.DocumentType, &d.FileName, &fileSize, &fileType,
		&d.UploadDate, &d.IsRequired, &d.Status, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.FileSize = int64Ptr(fileSize)
	d.FileType = stringPtr(fileType)
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]models.Document, error) {
	defer rows.Close()

	out := []models.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// ListByApplication returns the documents of one application ordered by type.
func (s *DocumentStore) ListByApplication(ctx context.Context, applicationID int64) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE application_id = $1 ORDER BY document_type ASC, id ASC",
		applicationID)
	if err != nil {
		return nil, fmt.Errorf("list documents of application %d: %w", applicationID, err)
	}
	return collectDocuments(rows)
}

// listByApplications loads documents for several applications in one query.
func (s *DocumentStore) listByApplications(ctx context.Context, ids []int64) (map[int64][]models.Document, error) {
	out := make(map[int64][]models.Document, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE application_id = ANY($1) ORDER BY application_id ASC, document_type ASC, id ASC",
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ApplicationID] = append(out[d.ApplicationID], d)
	}
	return out, nil
}

// Create stores a document. A missing application yields ErrInvalidReference.
func (s *DocumentStore) Create(ctx context.Context, in models.NewDocument) (*models.Document, error) {
	required := true
	if in.IsRequired != nil {
		required = *in.IsRequired
	}
	d, err := scanDocument(s.db.QueryRowContext(ctx, `INSERT INTO documents
		(application_id, document_type, file_name, file_size, file_type, upload_date, is_required, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6, $7, NOW())
		RETURNING `+documentColumns,
		in.ApplicationID, in.DocumentType, in.FileName, in.FileSize, in.FileType, required, in.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("create document: %w", translate(err, false))
	}
	return d, nil
}

func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete document %d: %w", id, translate(err, true))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete document %d: %w", id, ErrNotFound)
	}
	return nil
}
