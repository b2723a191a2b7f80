package dossier

import (
	"strings"

	"funding-tracker/internal/common/config"
	"funding-tracker/internal/models"
)

// Evaluator computes assessments against a fixed catalog and progress table.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	catalog  Catalog
	progress ProgressTable
}

func NewEvaluator(catalog Catalog, progress ProgressTable) *Evaluator {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	if progress == nil {
		progress = DefaultProgressTable()
	}
	return &Evaluator{catalog: catalog, progress: progress}
}

// FromConfig builds an Evaluator from the dossier section, falling back to the
// defaults for any part left empty.
func FromConfig(cfg config.DossierConfig) *Evaluator {
	var catalog Catalog
	for _, doc := range cfg.RequiredDocuments {
		catalog = append(catalog, Requirement{Name: strings.TrimSpace(doc.Name), Aliases: doc.Aliases})
	}

	var progress ProgressTable
	if len(cfg.StatusProgress) > 0 {
		progress = make(ProgressTable, len(cfg.StatusProgress))
		for _, sp := range cfg.StatusProgress {
			progress[sp.Status] = sp.Progress
		}
	}

	return NewEvaluator(catalog, progress)
}

func (e *Evaluator) Catalog() Catalog { return e.catalog }

func (e *Evaluator) MissingDocuments(app *models.ApplicationDetail) []string {
	return e.catalog.MissingDocuments(app.DocumentTypes())
}

func (e *Evaluator) Progress(status string) int {
	return e.progress.Progress(status)
}

// Evaluate derives the readiness view of app without modifying it.
func (e *Evaluator) Evaluate(app *models.ApplicationDetail) models.Assessment {
	missing := e.MissingDocuments(app)
	return models.Assessment{
		MissingDocuments: missing,
		Progress:         e.Progress(app.Status),
		ViabilityStars:   ViabilityStars(app.CompletionScore),
		CompletionBadge:  CompletionBadge(app.CompletionScore),
		Complete:         len(missing) == 0,
	}
}

// Attach stores the assessment on each application.
func (e *Evaluator) Attach(apps ...*models.ApplicationDetail) {
	for _, app := range apps {
		a := e.Evaluate(app)
		app.Assessment = &a
	}
}
