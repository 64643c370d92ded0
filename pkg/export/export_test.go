package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Approved Participants",
		Headers: []string{"Name", "Email"},
		Rows: []map[string]string{
			{"Name": "Amine", "Email": "amine@example.com"},
			{"Name": "Sara, B", "Email": "sara@example.com"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(out[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Email"},
		{"Amine", "amine@example.com"},
		{"Sara, B", "sara@example.com"},
	}, records)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestRendererFor(t *testing.T) {
	r, err := RendererFor(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "pdf", r.Extension())

	_, err = RendererFor("xlsx")
	assert.Error(t, err)
}
