package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridbill/internal/prompt"
)

func TestNewRegistryParsesAllTemplates(t *testing.T) {
	r, err := prompt.NewRegistry()
	require.NoError(t, err)

	names := []string{
		prompt.Classification,
		prompt.Structural,
		prompt.Financial,
		prompt.SchemaMapping,
		prompt.Audit,
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			rendered, err := r.Render(name, nil)
			require.NoError(t, err)
			assert.NotEmpty(t, rendered)
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := prompt.NewRegistry()
	require.NoError(t, err)

	_, err = r.Render("summarization", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt template")
}

func TestRenderSubstitutesVars(t *testing.T) {
	r, err := prompt.NewRegistry()
	require.NoError(t, err)

	rendered, err := r.Render(prompt.Structural, map[string]string{
		"commodity": "natural_gas",
		"country":   "DE",
		"few_shot":  "known mistakes block",
	})
	require.NoError(t, err)
	assert.Contains(t, rendered, "natural_gas")
	assert.Contains(t, rendered, "DE")
	assert.Contains(t, rendered, "known mistakes block")
}

func TestVersionIsStableHexIdentifier(t *testing.T) {
	a, err := prompt.NewRegistry()
	require.NoError(t, err)
	b, err := prompt.NewRegistry()
	require.NoError(t, err)

	v := a.Version(prompt.Financial)
	assert.Len(t, v, 12)
	assert.Equal(t, strings.ToLower(v), v)
	assert.Equal(t, v, b.Version(prompt.Financial))

	assert.NotEqual(t, v, a.Version(prompt.Structural))
	assert.Empty(t, a.Version("nonexistent"))
}

func TestVersionsReturnsCopy(t *testing.T) {
	r, err := prompt.NewRegistry()
	require.NoError(t, err)

	versions := r.Versions()
	assert.Len(t, versions, 5)
	versions[prompt.Audit] = "tampered"

	assert.NotEqual(t, "tampered", r.Version(prompt.Audit))
}
