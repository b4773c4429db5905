package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/scoring"
)

const (
	resumesSheet = "Resumes"
	summarySheet = "Summary"
)

var resumeColumns = []string{"Created", "Candidate", "Candidate ID", "Job Title", "Score", "Band", "Qualified", "Reasoning"}

var bandFills = map[scoring.ScoreBand]string{
	scoring.BandHigh:   "C6EFCE",
	scoring.BandMedium: "FFEB9C",
	scoring.BandLow:    "FFC7CE",
}

// ExportResumeLogs writes logs to an xlsx workbook, most recent first as given.
// search is recorded on the summary sheet.
func ExportResumeLogs(logs []models.ResumeLog, search string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resumesSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeResumeRows(f, logs); err != nil {
		return nil, fmt.Errorf("failed to write resume rows: %w", err)
	}
	if err := writeExportSummary(f, logs, search); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeResumeRows(f *excelize.File, logs []models.ResumeLog) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	bandStyles := make(map[scoring.ScoreBand]int, len(bandFills))
	for band, color := range bandFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		bandStyles[band] = style
	}

	for i, title := range resumeColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(resumesSheet, cell, title)
	}
	f.SetCellStyle(resumesSheet, "A1", "H1", headerStyle)
	f.SetColWidth(resumesSheet, "A", "A", 20)
	f.SetColWidth(resumesSheet, "B", "D", 24)
	f.SetColWidth(resumesSheet, "H", "H", 80)

	for i, log := range logs {
		row := i + 2
		candidateID := ""
		if log.CandidateID != nil {
			candidateID = *log.CandidateID
		}
		qualified := "No"
		if log.Qualified {
			qualified = "Yes"
		}
		band := log.ScoreBand()

		values := []interface{}{
			log.CreatedAt.Format("2006-01-02 15:04:05"),
			log.CandidateName,
			candidateID,
			log.JobTitle,
			log.Score,
			string(band),
			qualified,
			log.Reasoning,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(resumesSheet, start, &values); err != nil {
			return err
		}

		scoreCell := fmt.Sprintf("E%d", row)
		bandCell := fmt.Sprintf("F%d", row)
		f.SetCellStyle(resumesSheet, scoreCell, bandCell, bandStyles[band])
	}

	return nil
}

func writeExportSummary(f *excelize.File, logs []models.ResumeLog, search string) error {
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	f.SetColWidth(summarySheet, "A", "A", 22)
	f.SetColWidth(summarySheet, "B", "B", 30)

	var qualified, high, medium, low int
	var total float64
	for _, log := range logs {
		if log.Qualified {
			qualified++
		}
		switch log.ScoreBand() {
		case scoring.BandHigh:
			high++
		case scoring.BandMedium:
			medium++
		default:
			low++
		}
		total += log.Score
	}

	average := 0.0
	if len(logs) > 0 {
		average = total / float64(len(logs))
	}

	rows := [][2]interface{}{
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Search:", search},
		{"Resumes:", len(logs)},
		{"Qualified:", qualified},
		{"High (80+):", high},
		{"Medium (50-79):", medium},
		{"Low (<50):", low},
		{"Average Score:", fmt.Sprintf("%.2f", average)},
	}
	for i, r := range rows {
		row := i + 1
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), r[0])
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), r[1])
	}

	return nil
}
