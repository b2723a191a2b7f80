// internal/models/application.go
package models

import "time"

// Application is a client's dossier for one funding opportunity.
type Application struct {
	ID                   int64     `json:"id"`
	ClientID             int64     `json:"clientId"`
	FundingOpportunityID int64     `json:"fundingOpportunityId"`
	Status               string    `json:"status"`
	SubmissionDate       time.Time `json:"submissionDate"`
	AssignedConsultant   *string   `json:"assignedConsultant"`
	CompletionScore      int       `json:"completionScore"`
	Notes                *string   `json:"notes"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type NewApplication struct {
	ClientID             int64      `json:"clientId" yaml:"clientId"`
	FundingOpportunityID int64      `json:"fundingOpportunityId" yaml:"fundingOpportunityId"`
	Status               string     `json:"status" yaml:"status"`
	SubmissionDate       *time.Time `json:"submissionDate" yaml:"submissionDate"`
	AssignedConsultant   *string    `json:"assignedConsultant" yaml:"assignedConsultant"`
	CompletionScore      int        `json:"completionScore" yaml:"completionScore"`
	Notes                *string    `json:"notes" yaml:"notes"`
}

type ApplicationPatch struct {
	ClientID             *int64           `json:"clientId"`
	FundingOpportunityID *int64           `json:"fundingOpportunityId"`
	Status               *string          `json:"status"`
	SubmissionDate       *time.Time       `json:"submissionDate"`
	AssignedConsultant   Nullable[string] `json:"assignedConsultant"`
	CompletionScore      *int             `json:"completionScore"`
	Notes                Nullable[string] `json:"notes"`
}

// Assessment is the derived, read-only view of a dossier's readiness.
type Assessment struct {
	MissingDocuments []string `json:"missingDocuments"`
	Progress         int      `json:"progress"`
	ViabilityStars   int      `json:"viabilityStars"`
	CompletionBadge  string   `json:"completionBadge"`
	Complete         bool     `json:"complete"`
}

// ApplicationDetail is the aggregate served by the dossier endpoints.
type ApplicationDetail struct {
	ID                 int64              `json:"id"`
	Client             Client             `json:"client"`
	FundingOpportunity FundingOpportunity `json:"fundingOpportunity"`
	Status             string             `json:"status"`
	SubmissionDate     time.Time          `json:"submissionDate"`
	AssignedConsultant *string            `json:"assignedConsultant"`
	CompletionScore    int                `json:"completionScore"`
	Notes              *string            `json:"notes"`
	Documents          []Document         `json:"documents"`
	Assessment         *Assessment        `json:"assessment,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// DocumentTypes lists the submitted document types in storage order.
func (a *ApplicationDetail) DocumentTypes() []string {
	types := make([]string, 0, len(a.Documents))
	for _, d := range a.Documents {
		types = append(types, d.DocumentType)
	}
	return types
}
