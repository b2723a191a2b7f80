package search

import (
	"time"

	"funding-tracker/internal/models"
)

// indexMapping keeps the filter fields exact and the relevance fields analyzed.
const indexMapping = `{
	"mappings": {
		"properties": {
			"id":                  {"type": "long"},
			"title":               {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 512}}},
			"fundingProgram":      {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 512}}},
			"description":         {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 8191}}},
			"eligibilityCriteria": {"type": "text"},
			"fundingType":         {"type": "keyword"},
			"status":              {"type": "keyword"},
			"sectors":             {"type": "keyword"},
			"minAmount":           {"type": "long"},
			"maxAmount":           {"type": "long"},
			"deadline":            {"type": "keyword"},
			"deadline_date":       {"type": "date"},
			"createdAt":           {"type": "date"}
		}
	}
}`

// Document is the indexed form of an opportunity.
type Document struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	FundingProgram      string     `json:"fundingProgram"`
	Description         string     `json:"description"`
	EligibilityCriteria string     `json:"eligibilityCriteria"`
	FundingType         string     `json:"fundingType"`
	Status              string     `json:"status"`
	Sectors             []string   `json:"sectors"`
	MinAmount           *int64     `json:"minAmount,omitempty"`
	MaxAmount           *int64     `json:"maxAmount,omitempty"`
	Deadline            string     `json:"deadline"`
	DeadlineDate        *time.Time `json:"deadline_date,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// NewDocument projects o for indexing. deadline_date is only present when the
// deadline reads as a date.
func NewDocument(o *models.FundingOpportunity) Document {
	return Document{
		ID:                  o.ID,
		Title:               o.Title,
		FundingProgram:      o.FundingProgram,
		Description:         o.Description,
		EligibilityCriteria: o.EligibilityCriteria,
		FundingType:         o.FundingType,
		Status:              o.Status,
		Sectors:             o.Sectors,
		MinAmount:           o.MinAmount,
		MaxAmount:           o.MaxAmount,
		Deadline:            o.Deadline.Raw,
		DeadlineDate:        o.Deadline.Date,
		CreatedAt:           o.CreatedAt,
	}
}
