package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirReadsJSONInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_funding.json", `{"url":"https://example.gov/funding","title":"Funding","content":"c","topic":"funding","section":"schemes"}`)
	writeFile(t, dir, "a_eligibility.json", `{"url":"https://example.gov/eligibility","title":"Eligibility","content":"c","topic":"eligibility","section":"criteria"}`)
	writeFile(t, dir, "notes.txt", "ignored")

	docs, err := LoadDir(dir)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Eligibility", docs[0].Title)
	assert.Equal(t, "Funding", docs[1].Title)
}

func TestLoadDirSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"url":"https://example.gov/x","title":"X","content":"c","topic":"t","section":"s"}`)
	writeFile(t, dir, "broken.json", `{not json`)

	docs, err := LoadDir(dir)

	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestLoadDirMissingDirectory(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
