package validation

// Request schema names.
const (
	SchemaOpportunityCreate = "opportunity.create"
	SchemaOpportunityUpdate = "opportunity.update"
	SchemaClientCreate      = "client.create"
	SchemaClientUpdate      = "client.update"
	SchemaApplicationCreate = "application.create"
	SchemaApplicationUpdate = "application.update"
	SchemaDocumentCreate    = "document.create"
)

const opportunityProperties = `{
	"title":               {"type": "string", "minLength": 1},
	"fundingProgram":      {"type": "string", "minLength": 1},
	"description":         {"type": "string", "minLength": 1},
	"eligibilityCriteria": {"type": "string", "minLength": 1},
	"requiredDocuments":   {"type": "string", "minLength": 1},
	"externalLink":        {"type": ["string", "null"]},
	"deadline":            {"type": "string", "minLength": 1},
	"minAmount":           {"type": ["integer", "null"], "minimum": 0},
	"maxAmount":           {"type": ["integer", "null"], "minimum": 0},
	"fundingType":         {"type": "string", "enum": ["Don", "Subvention", "Prêt", "Mixte"]},
	"status":              {"type": "string", "enum": ["Ouvert", "À venir", "Fermé"]},
	"sectors": {
		"type": "array",
		"minItems": 1,
		"items": {"type": "string", "minLength": 1}
	}
}`

const clientProperties = `{
	"organizationName": {"type": "string", "minLength": 1},
	"contactPerson":    {"type": "string", "minLength": 1},
	"email":            {"type": "string", "format": "email"},
	"phone":            {"type": ["string", "null"]},
	"address":          {"type": ["string", "null"]},
	"legalStatus":      {"type": ["string", "null"]},
	"structureType":    {"type": "string", "enum": ["État", "Institution publique", "Privé"]}
}`

const applicationProperties = `{
	"clientId":             {"type": "integer", "minimum": 1},
	"fundingOpportunityId": {"type": "integer", "minimum": 1},
	"status":               {"type": "string", "minLength": 1},
	"submissionDate":       {"type": "string", "format": "date-time"},
	"assignedConsultant":   {"type": ["string", "null"]},
	"completionScore":      {"type": "integer", "minimum": 0, "maximum": 100},
	"notes":                {"type": ["string", "null"]}
}`

const documentProperties = `{
	"documentType": {"type": "string", "minLength": 1},
	"fileName":     {"type": "string", "minLength": 1},
	"fileSize":     {"type": ["integer", "null"], "minimum": 0},
	"fileType":     {"type": ["string", "null"]},
	"isRequired":   {"type": "boolean"},
	"status":       {"type": "string", "minLength": 1}
}`

var requestSchemas = map[string]string{
	SchemaOpportunityCreate: `{
		"type": "object",
		"properties": ` + opportunityProperties + `,
		"required": ["title", "fundingProgram", "description", "eligibilityCriteria",
			"requiredDocuments", "deadline", "fundingType", "status", "sectors"]
	}`,
	SchemaOpportunityUpdate: `{
		"type": "object",
		"properties": ` + opportunityProperties + `
	}`,
	SchemaClientCreate: `{
		"type": "object",
		"properties": ` + clientProperties + `,
		"required": ["organizationName", "contactPerson", "email"]
	}`,
	SchemaClientUpdate: `{
		"type": "object",
		"properties": ` + clientProperties + `
	}`,
	SchemaApplicationCreate: `{
		"type": "object",
		"properties": ` + applicationProperties + `,
		"required": ["clientId", "fundingOpportunityId", "status"]
	}`,
	SchemaApplicationUpdate: `{
		"type": "object",
		"properties": ` + applicationProperties + `
	}`,
	SchemaDocumentCreate: `{
		"type": "object",
		"properties": ` + documentProperties + `,
		"required": ["documentType", "fileName", "status"]
	}`,
}
