package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for sheet, sheetRows := range rows {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
			first = false
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for i, row := range sheetRows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), "curriculum.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

var header = []interface{}{"Course", "Unit", "UnitOrder", "Lesson", "LessonOrder", "DocumentLink", "EstimatedTime"}

func TestParseWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Grade 7": {
			header,
			{"Mathematics", "Fractions", 1, "Introduction", 1, "https://docs.example.com/intro", 30},
			{"Mathematics", "Fractions", 1, "Adding fractions", 2, "", ""},
			{"Mathematics", "Decimals", 2, "Place value", 1, "", 45},
			{"Science", "Cells", 1, "What is a cell", 1, "", ""},
		},
	})

	grades, err := ParseWorkbook(path)
	require.NoError(t, err)
	require.Len(t, grades, 1)

	grade := grades[0]
	assert.Equal(t, "Grade 7", grade.GradeName)
	require.Len(t, grade.Courses, 2)

	math := grade.Courses[0]
	assert.Equal(t, "Mathematics", math.Name)
	require.Len(t, math.Units, 2)
	assert.Equal(t, "Fractions", math.Units[0].Title)
	assert.Equal(t, 1, math.Units[0].Order)
	require.Len(t, math.Units[0].Lessons, 2)
	assert.Equal(t, "Introduction", math.Units[0].Lessons[0].Title)
	assert.Equal(t, "https://docs.example.com/intro", math.Units[0].Lessons[0].DocumentLink)
	require.NotNil(t, math.Units[0].Lessons[0].EstimatedTime)
	assert.Equal(t, 30, *math.Units[0].Lessons[0].EstimatedTime)
	assert.Nil(t, math.Units[0].Lessons[1].EstimatedTime)

	science := grade.Courses[1]
	assert.Equal(t, "Science", science.Name)
	require.Len(t, science.Units, 1)
}

func TestParseWorkbookSkipsBlankRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Grade 7": {
			header,
			{"Mathematics", "Fractions", 1, "Introduction", 1, "", ""},
			{"", "", "", "", "", "", ""},
			{"Mathematics", "Fractions", 1, "Adding fractions", 2, "", ""},
		},
	})

	grades, err := ParseWorkbook(path)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	require.Len(t, grades[0].Courses, 1)
	assert.Len(t, grades[0].Courses[0].Units[0].Lessons, 2)
}

func TestParseWorkbookRejectsBadOrder(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Grade 7": {
			header,
			{"Mathematics", "Fractions", "first", "Introduction", 1, "", ""},
		},
	})

	_, err := ParseWorkbook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order")
}

func TestParseWorkbookEmptySheetSkipped(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Notes": {
			{"just", "some", "text"},
		},
	})

	grades, err := ParseWorkbook(path)
	require.NoError(t, err)
	assert.Empty(t, grades)
}

func TestFetchReturnsLocalPathUntouched(t *testing.T) {
	path, err := Fetch("/tmp/some-sheet.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/some-sheet.xlsx", path)
}
