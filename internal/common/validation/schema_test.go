package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOpportunity = `{
	"title": "GCF - Simplified Approval Process",
	"fundingProgram": "Guichet permanent du GCF",
	"description": "Processus d'approbation simplifié",
	"eligibilityCriteria": "Organisations locales",
	"requiredDocuments": "Statuts; budget; plan d'affaires",
	"deadline": "Aucune - Ouvert en continu",
	"minAmount": 10000,
	"maxAmount": 10000000,
	"fundingType": "Don",
	"status": "Ouvert",
	"sectors": ["Environnement", "Climat"]
}`

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

// ==========================
// Opportunity schemas
// ==========================

func TestValidate_OpportunityCreate(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name       string
		body       string
		valid      bool
		wantFields []string
	}{
		{
			name:  "complete record",
			body:  validOpportunity,
			valid: true,
		},
		{
			name:       "missing title and sectors",
			body:       `{"fundingProgram":"GEF","description":"d","eligibilityCriteria":"e","requiredDocuments":"r","deadline":"2025-06-30","fundingType":"Don","status":"Ouvert"}`,
			wantFields: []string{"sectors", "title"},
		},
		{
			name:       "unknown funding type",
			body:       `{"title":"t","fundingProgram":"GEF","description":"d","eligibilityCriteria":"e","requiredDocuments":"r","deadline":"x","fundingType":"Garantie","status":"Ouvert","sectors":["Eau"]}`,
			wantFields: []string{"fundingType"},
		},
		{
			name:       "empty sectors",
			body:       `{"title":"t","fundingProgram":"GEF","description":"d","eligibilityCriteria":"e","requiredDocuments":"r","deadline":"x","fundingType":"Don","status":"Ouvert","sectors":[]}`,
			wantFields: []string{"sectors"},
		},
		{
			name:       "negative amount",
			body:       `{"title":"t","fundingProgram":"GEF","description":"d","eligibilityCriteria":"e","requiredDocuments":"r","deadline":"x","fundingType":"Don","status":"Ouvert","sectors":["Eau"],"minAmount":-5}`,
			wantFields: []string{"minAmount"},
		},
		{
			name:  "null amounts allowed",
			body:  `{"title":"t","fundingProgram":"GEF","description":"d","eligibilityCriteria":"e","requiredDocuments":"r","deadline":"x","fundingType":"Mixte","status":"À venir","sectors":["Eau"],"minAmount":null,"maxAmount":null}`,
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(SchemaOpportunityCreate, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, res.GetErrorMessages())
			for _, f := range tt.wantFields {
				assert.True(t, res.HasErrors(f), "expected error on %s, got %v", f, res.Errors)
			}
		})
	}
}

func TestValidate_OpportunityUpdateIsPartial(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(SchemaOpportunityUpdate, []byte(`{"status":"Fermé"}`))
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = v.Validate(SchemaOpportunityUpdate, []byte(`{"status":"Closed"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("status"))
}

func TestValidate_MalformedJSON(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(SchemaOpportunityCreate, []byte(`{"title":`))
	require.NoError(t, err)
	require.False(t, res.Valid)
	assert.Equal(t, "body", res.Errors[0].Field)
}

func TestValidate_UnknownSchema(t *testing.T) {
	v := newTestValidator(t)
	_, err := v.Validate("nope", []byte(`{}`))
	assert.Error(t, err)
}

// ==========================
// Client / dossier schemas
// ==========================

func TestValidate_ClientCreate(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(SchemaClientCreate, []byte(`{"organizationName":"Association Verte","contactPerson":"Aminata Sow","email":"aminata@vert.org","structureType":"État"}`))
	require.NoError(t, err)
	assert.True(t, res.Valid, res.GetErrorMessages())

	res, err = v.Validate(SchemaClientCreate, []byte(`{"organizationName":"A","contactPerson":"B","email":"not-an-email","structureType":"Coop"}`))
	require.NoError(t, err)
	assert.True(t, res.HasErrors("email"))
	assert.True(t, res.HasErrors("structureType"))
}

func TestValidate_ApplicationScoreBounds(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(SchemaApplicationCreate, []byte(`{"clientId":1,"fundingOpportunityId":8,"status":"Complet","completionScore":101}`))
	require.NoError(t, err)
	assert.True(t, res.HasErrors("completionScore"))
}

func TestValidate_DocumentCreate(t *testing.T) {
	v := newTestValidator(t)

	res, err := v.Validate(SchemaDocumentCreate, []byte(`{"documentType":"Pitch deck","fileName":"pitch.pdf","status":"Soumis","fileSize":2048}`))
	require.NoError(t, err)
	assert.True(t, res.Valid, res.GetErrorMessages())
}

// ==========================
// Cross-field checks
// ==========================

func TestCheckAmountRange(t *testing.T) {
	ptr := func(v int64) *int64 { return &v }

	assert.Nil(t, CheckAmountRange(nil, ptr(5)))
	assert.Nil(t, CheckAmountRange(ptr(5), nil))
	assert.Nil(t, CheckAmountRange(ptr(5), ptr(5)))

	err := CheckAmountRange(ptr(10), ptr(5))
	require.NotNil(t, err)
	assert.Equal(t, "minAmount", err.Field)
}
