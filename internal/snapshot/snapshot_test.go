package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFormatsAgree(t *testing.T) {
	t.Parallel()

	fromYAML, err := Load(filepath.Join("testdata", "spring.yaml"))
	require.NoError(t, err)
	fromJSON, err := Load(filepath.Join("testdata", "spring.json"))
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromJSON)
	assert.Equal(t, "spring-draft", fromYAML.Version.ID)
	require.Len(t, fromYAML.Classes, 2)
	assert.Nil(t, fromYAML.Classes[1].SectionID)
	require.NotNil(t, fromYAML.Classes[0].SectionID)
	assert.Equal(t, "S1", *fromYAML.Classes[0].SectionID)
	assert.Equal(t, "", fromYAML.Meetings[1].ID)
	assert.Equal(t, "Dr. Ada", fromYAML.Directory["faculty"]["F1"])
}

func TestLoadRejectsBadInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	_, err := Load(write("snap.toml", "version = 1"))
	assert.ErrorContains(t, err, "unsupported snapshot format")

	_, err = Load(write("unknown.yaml", "version: {id: v1}\nrooms: []\n"))
	assert.Error(t, err)

	_, err = Load(write("unknown.json", `{"version": {"id": "v1", "color": "red"}}`))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
