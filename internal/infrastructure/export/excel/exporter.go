package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

// Exporter renders job postings into an xlsx workbook for download.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

const sheetName = "Job Postings"

var headerRow = []string{
	"Company", "Title", "Location", "Category", "Job Type", "Source", "URL", "First Seen", "Last Seen",
}

func (e *Exporter) Export(_ context.Context, jobs []domain.JobPosting) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for col, title := range headerRow {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, job := range jobs {
		values := []any{
			job.Company, job.Title, job.Location, string(job.Category), string(job.JobType),
			job.Source, job.URL,
			job.FirstSeen.UTC().Format("2006-01-02"),
			job.LastSeen.UTC().Format("2006-01-02"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
