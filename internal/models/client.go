// internal/models/client.go
package models

import "time"

// Structure types of a client organization.
const (
	StructureEtat                = "État"
	StructureInstitutionPublique = "Institution publique"
	StructurePrive               = "Privé"
)

type Client struct {
	ID               int64     `json:"id"`
	OrganizationName string    `json:"organizationName"`
	ContactPerson    string    `json:"contactPerson"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Address          *string   `json:"address"`
	LegalStatus      *string   `json:"legalStatus"`
	StructureType    string    `json:"structureType"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type NewClient struct {
	OrganizationName string  `json:"organizationName" yaml:"organizationName"`
	ContactPerson    string  `json:"contactPerson" yaml:"contactPerson"`
	Email            string  `json:"email" yaml:"email"`
	Phone            *string `json:"phone" yaml:"phone"`
	Address          *string `json:"address" yaml:"address"`
	LegalStatus      *string `json:"legalStatus" yaml:"legalStatus"`
	StructureType    string  `json:"structureType" yaml:"structureType"`
}

type ClientPatch struct {
	OrganizationName *string          `json:"organizationName"`
	ContactPerson    *string          `json:"contactPerson"`
	Email            *string          `json:"email"`
	Phone            Nullable[string] `json:"phone"`
	Address          Nullable[string] `json:"address"`
	LegalStatus      Nullable[string] `json:"legalStatus"`
	StructureType    *string          `json:"structureType"`
}
