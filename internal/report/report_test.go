package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sample = []Row{
	{Room: "SALA A", Customer: "ANA LOPEZ", Event: "Team Offsite", Shift: "Morning"},
	{Room: "SALA B", Customer: "LUIS PEREZ", Event: "Café, Y Pan", Shift: "Night"},
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatCSV, sample))
	assert.Equal(t,
		"Room,Customer,Event,Shift\n"+
			"SALA A,ANA LOPEZ,Team Offsite,Morning\n"+
			"SALA B,LUIS PEREZ,\"Café, Y Pan\",Night\n",
		buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatJSON, sample))
	assert.Contains(t, buf.String(), "Café")

	var got []Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample, got)
}

func TestRenderXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatXLSX, sample))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{SheetName}, wb.GetSheetList())
	got, err := wb.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Room", "Customer", "Event", "Shift"},
		{"SALA A", "ANA LOPEZ", "Team Offsite", "Morning"},
		{"SALA B", "LUIS PEREZ", "Café, Y Pan", "Night"},
	}, got)
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Render(&buf, FormatCSV, nil), ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestRenderUnknownFormat(t *testing.T) {
	assert.ErrorIs(t, Render(&bytes.Buffer{}, Format("pdf"), sample), ErrUnknownFormat)
	assert.ErrorIs(t, Render(&bytes.Buffer{}, FormatXLSX, nil), ErrNothingToExport)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, ".csv", f.Extension())

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", f.Extension())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", f.ContentType())

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
