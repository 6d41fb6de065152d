package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_MissingFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, RegistryVersion, reg.Version)
	assert.Empty(t, reg.Activities)
}

func TestRegistry_UpsertSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	reg := &ActivityRegistry{Version: RegistryVersion}

	reg.Upsert(Activity{ID: "wolfram-alpha-query", TaskType: "wolfram-alpha-query", Version: "1.0.0"})
	reg.Upsert(Activity{ID: "wolfram-alpha-query", TaskType: "wolfram-alpha-query", Version: "1.1.0"})
	require.Len(t, reg.Activities, 1)
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.LastUpdated)

	a, ok := loaded.Find("wolfram-alpha-query")
	require.True(t, ok)
	assert.Equal(t, "1.1.0", a.Version)

	_, ok = loaded.Find("unknown")
	assert.False(t, ok)
}

func TestSchemaMap(t *testing.T) {
	type schema struct {
		Type     string   `json:"type"`
		Required []string `json:"required"`
	}
	m, err := SchemaMap(schema{Type: "object", Required: []string{"query"}})
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, []interface{}{"query"}, m["required"])
}
