// Package api holds the request binding and error translation shared by the
// HTTP handler packages.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/httpx"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/store"
)

// Bind reads the request body, checks it against schema and decodes it into dst.
// Every rejection is returned as a validation error.
func Bind(v *validation.Validator, schema string, r *http.Request, dst interface{}) error {
	body, err := httpx.ReadBody(r)
	if err != nil {
		return apperrors.NewValidationError([]apperrors.FieldError{{
			Field: "body", Message: err.Error(), Code: "invalid_body",
		}})
	}

	res, err := v.Validate(schema, body)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !res.Valid {
		return ValidationFailed(res.Errors...)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewValidationError([]apperrors.FieldError{{
			Field: "body", Message: err.Error(), Code: "invalid_json",
		}})
	}
	return nil
}

// ValidationFailed converts schema errors to the response taxonomy.
func ValidationFailed(errs ...validation.ValidationError) error {
	fields := make([]apperrors.FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, apperrors.FieldError{Field: e.Field, Message: e.Message, Code: e.Code})
	}
	return apperrors.NewValidationError(fields)
}

// constraintFields names the request field behind a constraint or column.
// More specific names come first.
var constraintFields = []struct{ fragment, field string }{
	{"funding_opportunity_id", "fundingOpportunityId"},
	{"application_id", "applicationId"},
	{"client_id", "clientId"},
	{"funding_amount_range", "minAmount"},
	{"min_amount", "minAmount"},
	{"max_amount", "maxAmount"},
	{"completion_score", "completionScore"},
}

func fieldFor(err error) string {
	for _, cf := range constraintFields {
		if strings.Contains(err.Error(), cf.fragment) {
			return cf.field
		}
	}
	return "body"
}

// StoreError maps a repository error for resource/id onto the response taxonomy.
func StoreError(op, resource string, id int64, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NewNotFoundError(resource, id)
	case errors.Is(err, store.ErrReferenced):
		return apperrors.NewConflictError(resource, fmt.Sprintf("%s %d is referenced by other records", strings.ToLower(resource), id))
	case errors.Is(err, store.ErrInvalidReference):
		return apperrors.NewValidationError([]apperrors.FieldError{{
			Field: fieldFor(err), Message: "referenced record does not exist", Code: "invalid_reference",
		}})
	case errors.Is(err, store.ErrConstraint):
		return apperrors.NewValidationError([]apperrors.FieldError{{
			Field: fieldFor(err), Message: "value violates a data constraint", Code: "constraint",
		}})
	default:
		return apperrors.NewDatabaseQueryFailedError(op, err)
	}
}
