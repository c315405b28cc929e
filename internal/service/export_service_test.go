package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"studentdir/internal/model"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const expectedExport = `[
    {
        "name": "raj",
        "age": 2,
        "roll no": 50
    },
    {
        "name": "harini",
        "age": 20,
        "roll no": 23
    },
    {
        "name": "shubha",
        "age": 21,
        "roll no": 53
    }
]`

func exportRoster(t *testing.T) []model.Student {
	t.Helper()
	students, ok := model.Roster(model.RosterExport)
	require.True(t, ok)
	return students
}

func TestExportJSON(t *testing.T) {
	exportService := NewExportService(zap.NewNop())
	input := exportRoster(t)

	data, err := exportService.Export(input, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, expectedExport, string(data))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, len(input))

	for i := 1; i < len(decoded); i++ {
		assert.LessOrEqual(t, decoded[i-1]["age"].(float64), decoded[i]["age"].(float64))
	}
}

func TestExportDoesNotModifyInput(t *testing.T) {
	exportService := NewExportService(zap.NewNop())
	input := exportRoster(t)

	_, err := exportService.Export(input, ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, "shubha", input[0].Name)
}

func TestSort(t *testing.T) {
	exportService := NewExportService(zap.NewNop())
	input := []model.Student{
		{ID: 1, Name: "b", Age: 20, RollNo: 3},
		{ID: 2, Name: "a", Age: 20, RollNo: 1},
		{ID: 3, Name: "c", Age: 18, RollNo: 2},
	}

	tests := []struct {
		field       string
		order       string
		expectedIDs []int
	}{
		{"age", "asc", []int{3, 1, 2}},
		{"age", "desc", []int{1, 2, 3}},
		{"", "", []int{3, 1, 2}},
		{"name", "asc", []int{2, 1, 3}},
		{"roll_no", "asc", []int{2, 3, 1}},
		{"id", "desc", []int{3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.field+" "+tt.order, func(t *testing.T) {
			sorted, err := exportService.Sort(input, tt.field, tt.order)
			require.NoError(t, err)

			ids := make([]int, 0, len(sorted))
			for _, s := range sorted {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestSortErrors(t *testing.T) {
	exportService := NewExportService(zap.NewNop())

	_, err := exportService.Sort(nil, "height", "asc")
	assert.ErrorIs(t, err, ErrUnknownSortField)

	_, err = exportService.Sort(nil, "age", "up")
	assert.Error(t, err)
}

func TestEncodeFormats(t *testing.T) {
	exportService := NewExportService(zap.NewNop())
	input := exportRoster(t)

	data, err := exportService.Encode(input, "yaml")
	require.NoError(t, err)
	var fromYAML []model.ExportView
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, model.ExportView{Name: "shubha", Age: 21, RollNo: 53}, fromYAML[0])

	data, err = exportService.Encode(input, "toml")
	require.NoError(t, err)
	var fromTOML struct {
		Students []model.ExportView `toml:"students"`
	}
	require.NoError(t, toml.Unmarshal(data, &fromTOML))
	assert.Len(t, fromTOML.Students, 3)
	assert.Equal(t, 50, fromTOML.Students[2].RollNo)

	_, err = exportService.Encode(input, "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncodeEmpty(t *testing.T) {
	exportService := NewExportService(zap.NewNop())

	data, err := exportService.Encode(nil, "json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestWriteFileIsIdempotent(t *testing.T) {
	exportService := NewExportService(zap.NewNop())
	path := filepath.Join(t.TempDir(), "students.json")

	require.NoError(t, exportService.WriteFile(path, exportRoster(t), ExportOptions{}))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, exportService.WriteFile(path, exportRoster(t), ExportOptions{}))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, json.Valid(first))
}

func TestWriteFileBadDirectory(t *testing.T) {
	exportService := NewExportService(zap.NewNop())
	path := filepath.Join(t.TempDir(), "missing", "students.json")

	assert.Error(t, exportService.WriteFile(path, exportRoster(t), ExportOptions{}))
}

func TestEncodeJSONEscapesNonASCII(t *testing.T) {
	exportService := NewExportService(zap.NewNop())
	students := []model.Student{
		{ID: 1, Name: "Zoë", Age: 20, RollNo: 7},
		{ID: 2, Name: "Ana 😀 <b>", Age: 21, RollNo: 8},
	}

	data, err := exportService.Encode(students, "json")
	require.NoError(t, err)

	expected := `[
    {
        "name": "Zo\u00eb",
        "age": 20,
        "roll no": 7
    },
    {
        "name": "Ana \ud83d\ude00 <b>",
        "age": 21,
        "roll no": 8
    }
]`
	assert.Equal(t, expected, string(data))

	var decoded []model.ExportView
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Zoë", decoded[0].Name)
	assert.Equal(t, "Ana 😀 <b>", decoded[1].Name)
}
