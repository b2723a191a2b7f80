// internal/models/opportunity.go
package models

import "time"

// Funding types and opportunity statuses recognized on input.
const (
	FundingTypeDon        = "Don"
	FundingTypeSubvention = "Subvention"
	FundingTypePret       = "Prêt"
	FundingTypeMixte      = "Mixte"

	StatusOpen     = "Ouvert"
	StatusUpcoming = "À venir"
	StatusClosed   = "Fermé"
)

type FundingOpportunity struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	FundingProgram      string    `json:"fundingProgram"`
	Description         string    `json:"description"`
	EligibilityCriteria string    `json:"eligibilityCriteria"`
	RequiredDocuments   string    `json:"requiredDocuments"`
	ExternalLink        *string   `json:"externalLink"`
	Deadline            Deadline  `json:"deadline"`
	MinAmount           *int64    `json:"minAmount"`
	MaxAmount           *int64    `json:"maxAmount"`
	FundingType         string    `json:"fundingType"`
	Status              string    `json:"status"`
	Sectors             []string  `json:"sectors"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewFundingOpportunity is the create payload: every field except id and timestamps.
type NewFundingOpportunity struct {
	Title               string   `json:"title" yaml:"title"`
	FundingProgram      string   `json:"fundingProgram" yaml:"fundingProgram"`
	Description         string   `json:"description" yaml:"description"`
	EligibilityCriteria string   `json:"eligibilityCriteria" yaml:"eligibilityCriteria"`
	RequiredDocuments   string   `json:"requiredDocuments" yaml:"requiredDocuments"`
	ExternalLink        *string  `json:"externalLink" yaml:"externalLink"`
	Deadline            Deadline `json:"deadline" yaml:"deadline"`
	MinAmount           *int64   `json:"minAmount" yaml:"minAmount"`
	MaxAmount           *int64   `json:"maxAmount" yaml:"maxAmount"`
	FundingType         string   `json:"fundingType" yaml:"fundingType"`
	Status              string   `json:"status" yaml:"status"`
	Sectors             []string `json:"sectors" yaml:"sectors"`
}

// OpportunityPatch is a partial update. Nil pointers leave the column untouched;
// Nullable fields distinguish "absent" from an explicit null.
type OpportunityPatch struct {
	Title               *string          `json:"title"`
	FundingProgram      *string          `json:"fundingProgram"`
	Description         *string          `json:"description"`
	EligibilityCriteria *string          `json:"eligibilityCriteria"`
	RequiredDocuments   *string          `json:"requiredDocuments"`
	ExternalLink        Nullable[string] `json:"externalLink"`
	Deadline            *Deadline        `json:"deadline"`
	MinAmount           Nullable[int64]  `json:"minAmount"`
	MaxAmount           Nullable[int64]  `json:"maxAmount"`
	FundingType         *string          `json:"fundingType"`
	Status              *string          `json:"status"`
	Sectors             []string         `json:"sectors"`
}

// FundingStatistics is the dashboard summary, computed per call.
type FundingStatistics struct {
	TotalOpen    int64 `json:"totalOpen"`
	TotalPending int64 `json:"totalPending"`
	TotalAmount  int64 `json:"totalAmount"`
	ThisWeek     int64 `json:"thisWeek"`
}
