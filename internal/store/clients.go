package store

import (
	"context"
	"database/sql"
	"fmt"

	"funding-tracker/internal/models"
)

const clientColumns = `id, organization_name, contact_person, email, phone, address,
	legal_status, structure_type, created_at, updated_at`

type ClientStore struct {
	db *sql.DB
}

func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db}
}

// clientFields holds scan destinations for one client row.
type clientFields struct {
	c                           models.Client
	phone, address, legalStatus sql.NullString
}

func (f *clientFields) dest() []interface{} {
	return []interface{}{&f.c.ID, &f.c.OrganizationName, &f.c.ContactPerson, &f.c.Email,
		&f.phone, &f.address, &f.legalStatus, &f.c.StructureType, &f.c.CreatedAt, &f.c.UpdatedAt}
}

func (f *clientFields) finish() *models.Client {
	f.c.Phone = stringPtr(f.phone)
	f.c.Address = stringPtr(f.address)
	f.c.LegalStatus = stringPtr(f.legalStatus)
	return &f.c
}

func scanClient(s scanner) (*models.Client, error) {
	var f clientFields
	if err := s.Scan(f.dest()...); err != nil {
		return nil, err
	}
	return f.finish(), nil
}

// List returns every client ordered by organization name.
func (s *ClientStore) List(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY organization_name ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	out := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *ClientStore) Get(ctx context.Context, id int64) (*models.Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get client %d: %w", id, translate(err, false))
	}
	return c, nil
}

func (s *ClientStore) Create(ctx context.Context, in models.NewClient) (*models.Client, error) {
	if in.StructureType == "" {
		in.StructureType = models.StructurePrive
	}
	c, err := scanClient(s.db.QueryRowContext(ctx, `INSERT INTO clients
		(organization_name, contact_person, email, phone, address, legal_status, structure_type,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+clientColumns,
		in.OrganizationName, in.ContactPerson, in.Email, in.Phone, in.Address, in.LegalStatus, in.StructureType,
	))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", translate(err, false))
	}
	return c, nil
}

func (s *ClientStore) Update(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error) {
	var b setBuilder
	if patch.OrganizationName != nil {
		b.add("organization_name", *patch.OrganizationName)
	}
	if patch.ContactPerson != nil {
		b.add("contact_person", *patch.ContactPerson)
	}
	if patch.Email != nil {
		b.add("email", *patch.Email)
	}
	if patch.Phone.Set {
		b.add("phone", patch.Phone.Value)
	}
	if patch.Address.Set {
		b.add("address", patch.Address.Value)
	}
	if patch.LegalStatus.Set {
		b.add("legal_status", patch.LegalStatus.Value)
	}
	if patch.StructureType != nil {
		b.add("structure_type", *patch.StructureType)
	}

	stmt, args := b.build("clients", id, true, clientColumns)
	c, err := scanClient(s.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, fmt.Errorf("update client %d: %w", id, translate(err, false))
	}
	return c, nil
}
