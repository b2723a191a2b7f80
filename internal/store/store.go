// Package store holds the postgres repositories.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrReferenced       = errors.New("record is still referenced")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrConstraint       = errors.New("check constraint violated")
)

// Postgres error codes the repositories translate.
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// Store groups the repositories sharing one connection pool.
type Store struct {
	Opportunities *OpportunityStore
	Clients       *ClientStore
	Applications  *ApplicationStore
	Documents     *DocumentStore
}

func New(db *sql.DB) *Store {
	docs := NewDocumentStore(db)
	return &Store{
		Opportunities: NewOpportunityStore(db),
		Clients:       NewClientStore(db),
		Applications:  NewApplicationStore(db, docs),
		Documents:     docs,
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// translate maps driver errors to the package sentinels. onDelete selects how a
// foreign key violation reads: the target is referenced, or the write points
// at a missing row.
func translate(err error, onDelete bool) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqForeignKeyViolation:
			if onDelete {
				return fmt.Errorf("%w: %s", ErrReferenced, pqErr.Constraint)
			}
			return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Constraint)
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Constraint)
		}
	}
	return err
}

// setBuilder assembles the SET list of a partial UPDATE.
type setBuilder struct {
	parts []string
	args  []interface{}
}

func (b *setBuilder) add(column string, value interface{}) {
	b.args = append(b.args, value)
	b.parts = append(b.parts, column+" = $"+strconv.Itoa(len(b.args)))
}

// build returns "UPDATE table SET ... WHERE id = $n RETURNING returning".
// touch appends updated_at = NOW().
func (b *setBuilder) build(table string, id int64, touch bool, returning string) (string, []interface{}) {
	parts := b.parts
	if touch {
		parts = append(parts, "updated_at = NOW()")
	}
	args := append(b.args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(parts, ", "), len(args), returning), args
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}

func timeOrNow(t *time.Time) time.Time {
	if t == nil {
		return time.Now().UTC()
	}
	return *t
}
