package excel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/pathwaygaza/pathway-back/internal/db"
)

// Workbook layout: one sheet per grade (the sheet name is the grade name),
// a header row, then one row per lesson:
//
//	Course | Unit | UnitOrder | Lesson | LessonOrder | DocumentLink | EstimatedTime
//
// Course, unit and lesson rows repeat their parents; consecutive rows sharing
// the same course/unit names are folded into one subtree.

const headerRows = 1

// Fetch resolves a workbook source to a local file path. Plain paths are
// returned as-is; http(s) URLs are downloaded next to the temp dir first.
func Fetch(source string) (string, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return source, nil
	}

	resp, err := http.Get(source)
	if err != nil {
		return "", fmt.Errorf("failed to fetch workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status fetching workbook: %s", resp.Status)
	}

	path := filepath.Join(os.TempDir(), "curriculum.xlsx")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err = io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}

// ParseWorkbook reads every sheet of an .xlsx curriculum workbook into an
// import tree. Sheets with no data rows are skipped.
func ParseWorkbook(path string) ([]db.CurriculumImport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var grades []db.CurriculumImport
	for _, sheetName := range f.GetSheetList() {
		grade, err := parseSheet(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheetName, err)
		}
		if len(grade.Courses) > 0 {
			grades = append(grades, grade)
		}
	}
	return grades, nil
}

func parseSheet(f *excelize.File, sheetName string) (db.CurriculumImport, error) {
	grade := db.CurriculumImport{GradeName: strings.TrimSpace(sheetName)}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return grade, err
	}

	var course *db.CourseImport
	var unit *db.UnitImport

	flushUnit := func() {
		if course != nil && unit != nil {
			course.Units = append(course.Units, *unit)
			unit = nil
		}
	}
	flushCourse := func() {
		flushUnit()
		if course != nil {
			grade.Courses = append(grade.Courses, *course)
			course = nil
		}
	}

	for i, row := range rows {
		if i < headerRows {
			continue
		}
		courseName := cell(row, 0)
		unitTitle := cell(row, 1)
		lessonTitle := cell(row, 3)
		if courseName == "" || unitTitle == "" || lessonTitle == "" {
			continue
		}

		if course == nil || course.Name != courseName {
			flushCourse()
			course = &db.CourseImport{Name: courseName}
		}
		if unit == nil || unit.Title != unitTitle {
			flushUnit()
			unitOrder, err := parseOrder(cell(row, 2), i)
			if err != nil {
				return grade, err
			}
			unit = &db.UnitImport{Title: unitTitle, Order: unitOrder}
		}

		lessonOrder, err := parseOrder(cell(row, 4), i)
		if err != nil {
			return grade, err
		}
		lesson := db.LessonImport{
			Title:        lessonTitle,
			Order:        lessonOrder,
			DocumentLink: cell(row, 5),
		}
		if raw := cell(row, 6); raw != "" {
			minutes, err := strconv.Atoi(raw)
			if err != nil {
				return grade, fmt.Errorf("row %d: invalid estimated time %q", i+1, raw)
			}
			lesson.EstimatedTime = &minutes
		}
		unit.Lessons = append(unit.Lessons, lesson)
	}
	flushCourse()

	return grade, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseOrder(raw string, rowIndex int) (int, error) {
	order, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid order %q", rowIndex+1, raw)
	}
	return order, nil
}

// Import fetches, parses and loads a curriculum workbook in one go.
func Import(ctx context.Context, source string, log *zap.SugaredLogger) error {
	path, err := Fetch(source)
	if err != nil {
		return err
	}

	grades, err := ParseWorkbook(path)
	if err != nil {
		return err
	}

	stats, err := db.ImportCurriculum(ctx, grades)
	if err != nil {
		return err
	}
	log.Infow("curriculum imported",
		"grades", stats.Grades,
		"courses", stats.Courses,
		"units", stats.Units,
		"lessons", stats.Lessons,
	)
	return nil
}
