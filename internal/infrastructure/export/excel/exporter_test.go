package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

func TestExportWritesHeaderAndRows(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	data, err := NewExporter().Export(context.Background(), []domain.JobPosting{
		{
			Company: "Bank A", Title: "Analyst", Location: "London",
			Category: domain.CategoryInvestmentBanking, JobType: domain.JobTypeFullTime,
			Source: "feed-a", FirstSeen: now, LastSeen: now,
		},
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(rows))
	}
	if rows[0][0] != "Company" || rows[1][0] != "Bank A" {
		t.Fatalf("unexpected rows: %v", rows)
	}
	if rows[1][3] != string(domain.CategoryInvestmentBanking) {
		t.Fatalf("expected category column, got %q", rows[1][3])
	}
}

func TestExportEmptyListStillProducesWorkbook(t *testing.T) {
	data, err := NewExporter().Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected workbook bytes")
	}
}
