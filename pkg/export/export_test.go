package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Roll Number", "Name", "SGPA"},
		Rows: []map[string]string{
			{"Roll Number": "21CS001", "Name": "Asha Verma", "SGPA": "9.10"},
			{"Roll Number": "21CS002", "Name": "Rahul Nair", "SGPA": "8.40"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Roll Number,Name,SGPA", lines[0])
	assert.Contains(t, lines[1], "21CS001")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestCSVExporterRenderSheets(t *testing.T) {
	sheets := []Sheet{
		{Name: "Rankings", Data: sampleDataset()},
		{Name: "Statistics", Data: Dataset{Headers: []string{"Metric", "Value"}, Rows: []map[string]string{{"Metric": "Average SGPA", "Value": "8.75"}}}},
	}
	out, err := NewCSVExporter().RenderSheets(sheets)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Rankings")
	assert.Contains(t, string(out), "# Statistics")
	assert.Contains(t, string(out), "Average SGPA")
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Semester Rankings")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	sheets := []Sheet{
		{Name: "Rankings", Data: sampleDataset()},
		{Name: "Statistics", Data: Dataset{Headers: []string{"Metric", "Value"}}},
	}
	out, err := NewXLSXExporter().Render(sheets)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Rankings", "Statistics"}, f.GetSheetList())
	value, err := f.GetCellValue("Rankings", "A2")
	require.NoError(t, err)
	assert.Equal(t, "21CS001", value)
}

func TestXLSXExporterRequiresSheets(t *testing.T) {
	_, err := NewXLSXExporter().Render(nil)
	require.Error(t, err)
}
