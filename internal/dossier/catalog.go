// Package dossier derives readiness information for an application from its
// submitted documents and workflow status.
package dossier

import "strings"

// Requirement is one required document type. A submitted document satisfies it
// when its type equals Name or one of Aliases, ignoring surrounding spaces.
type Requirement struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

func (r Requirement) matches(docType string) bool {
	if docType == strings.TrimSpace(r.Name) {
		return true
	}
	for _, a := range r.Aliases {
		if docType == strings.TrimSpace(a) {
			return true
		}
	}
	return false
}

// Catalog is the ordered list of required document types.
type Catalog []Requirement

// DefaultCatalog is used when no catalog is configured. It carries no aliases:
// only the canonical names satisfy it, and aliases are opt-in via configuration.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Statuts juridiques"},
		{Name: "Budget prévisionnel"},
		{Name: "Plan d'affaires/Business plan"},
		{Name: "Pitch deck"},
		{Name: "Lettre d'intention"},
		{Name: "Étude de faisabilité"},
		{Name: "Annexes"},
		{Name: "Preuves de cofinancement"},
		{Name: "Relevé d'identité bancaire"},
		{Name: "Identité du représentant légal"},
	}
}

// Names returns the requirement names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = r.Name
	}
	return names
}

// MissingDocuments returns the requirements not satisfied by any submitted
// type, in catalog order. Duplicate and unknown submitted types have no effect.
func (c Catalog) MissingDocuments(submitted []string) []string {
	present := make(map[string]struct{}, len(submitted))
	for _, s := range submitted {
		present[strings.TrimSpace(s)] = struct{}{}
	}

	missing := []string{}
	seen := make(map[string]struct{}, len(c))
	for _, req := range c {
		if _, dup := seen[req.Name]; dup {
			continue
		}
		seen[req.Name] = struct{}{}

		satisfied := false
		for docType := range present {
			if req.matches(docType) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, req.Name)
		}
	}
	return missing
}
