package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadSeedFile_Sample(t *testing.T) {
	f, err := readSeedFile(filepath.Join("..", "..", "..", "configs", "seed.yaml"))
	require.NoError(t, err)

	require.Len(t, f.Opportunities, 3)
	assert.Equal(t, "gcf-sap", f.Opportunities[0].Key)
	assert.False(t, f.Opportunities[0].Deadline.IsDate())
	assert.True(t, f.Opportunities[1].Deadline.IsDate())
	assert.Nil(t, f.Opportunities[2].MaxAmount)

	require.Len(t, f.Clients, 2)
	assert.Equal(t, "État", f.Clients[1].StructureType)

	require.Len(t, f.Applications, 2)
	assert.Equal(t, 85, f.Applications[0].CompletionScore)
	require.NotNil(t, f.Applications[0].SubmissionDate)
	assert.Len(t, f.Applications[0].Documents, 2)
	assert.Nil(t, f.Applications[1].SubmissionDate)
}

func TestReadSeedFile_Problems(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "duplicate keys",
			body: `
opportunities:
  - {key: a, sectors: [Eau]}
  - {key: a, sectors: [Eau]}
clients:
  - {key: c}
  - {key: c}
`,
			want: []string{`opportunities[1]: duplicate key "a"`, `clients[1]: duplicate key "c"`},
		},
		{
			name: "dangling references",
			body: `
applications:
  - {client: nobody, opportunity: nothing, status: Complet}
`,
			want: []string{`unknown client "nobody"`, `unknown opportunity "nothing"`},
		},
		{
			name: "inverted amounts and no sectors",
			body: `
opportunities:
  - {key: a, minAmount: 10, maxAmount: 5}
`,
			want: []string{"minAmount exceeds maxAmount", "at least one sector"},
		},
		{
			name: "score out of range",
			body: `
opportunities:
  - {key: a, sectors: [Eau]}
clients:
  - {key: c}
applications:
  - {client: c, opportunity: a, completionScore: 140}
`,
			want: []string{"completionScore must be within 0..100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readSeedFile(writeSeed(t, tt.body))
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestReadSeedFile_Malformed(t *testing.T) {
	_, err := readSeedFile(writeSeed(t, "opportunities: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse seed file")
}
