package pdfreport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_WritesValidPDFHeader(t *testing.T) {
	md := "# Batch Job Report: job_1\n\n**Status:** completed\n\n## File Results\n\n| # | File |\n|---|---|\n| 1 | a.pdf |\n"
	out := filepath.Join(t.TempDir(), "report.pdf")

	require.NoError(t, Export(md, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExport_EmptyMarkdownStillProducesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, Export("", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestExport_InvalidOutputPathFails(t *testing.T) {
	err := Export("# Title", filepath.Join(t.TempDir(), "nonexistent-dir", "out.pdf"))
	assert.Error(t, err)
}
