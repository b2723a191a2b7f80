// Package dossiers serves client dossiers: applications, their documents and
// the client organizations behind them.
package dossiers

import (
	"context"

	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/dossier"
	"funding-tracker/internal/models"
	"funding-tracker/internal/query"
	"funding-tracker/internal/store"
)

type ApplicationRepository interface {
	List(ctx context.Context, f query.ApplicationFilters) ([]models.ApplicationDetail, error)
	Get(ctx context.Context, id int64) (*models.ApplicationDetail, error)
	Create(ctx context.Context, in models.NewApplication) (*models.Application, error)
	Update(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error)
	Delete(ctx context.Context, id int64) error
}

type DocumentRepository interface {
	ListByApplication(ctx context.Context, applicationID int64) ([]models.Document, error)
	Create(ctx context.Context, in models.NewDocument) (*models.Document, error)
	Delete(ctx context.Context, id int64) error
}

type ClientRepository interface {
	List(ctx context.Context) ([]models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, in models.NewClient) (*models.Client, error)
	Update(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error)
}

type Handler struct {
	apps      ApplicationRepository
	docs      DocumentRepository
	clients   ClientRepository
	evaluator *dossier.Evaluator
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(
	apps ApplicationRepository,
	docs DocumentRepository,
	clients ClientRepository,
	evaluator *dossier.Evaluator,
	v *validation.Validator,
	errs *apperrors.ErrorHandler,
	log logger.Logger,
) *Handler {
	return &Handler{
		apps:      apps,
		docs:      docs,
		clients:   clients,
		evaluator: evaluator,
		validator: v,
		errors:    errs,
		logger:    log.WithFields(map[string]interface{}{"handler": "dossiers"}),
	}
}

// FromStore wires the handler to the postgres repositories.
func FromStore(s *store.Store, evaluator *dossier.Evaluator, v *validation.Validator, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	return NewHandler(s.Applications, s.Documents, s.Clients, evaluator, v, errs, log)
}
