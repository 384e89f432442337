package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
)

func sampleReport() Report {
	now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		{Matricule: "C001", Date: now, Status: attendance.StatusPresent},
		{Matricule: "C002", Date: now, Status: attendance.StatusAbsent},
		{Matricule: "P001", Date: now, Status: attendance.StatusLate},
	}
	return Report{
		Statistics: analytics.Aggregate(records, now),
		Summary:    analytics.DomainSummary(records),
		From:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Generated:  now,
	}
}

func TestBuildPDF(t *testing.T) {
	payload, err := BuildPDF(sampleReport())
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(payload, []byte("%PDF")) {
		t.Fatalf("payload does not start with a PDF header: %q", payload[:8])
	}
}

func TestBuildXLSX(t *testing.T) {
	payload, err := BuildXLSX(sampleReport())
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "resume" || sheets[1] != "domaines" {
		t.Fatalf("sheets = %v", sheets)
	}
	value, err := f.GetCellValue("resume", "B5")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if value != "3" {
		t.Fatalf("record count cell = %q, want 3", value)
	}
}

func TestBuildCSV(t *testing.T) {
	checkIn := time.Date(2026, 3, 12, 8, 15, 0, 0, time.UTC)
	records := []attendance.Record{
		{Matricule: "C001", Date: checkIn, CheckIn: &checkIn, Status: attendance.StatusPresent},
		{Matricule: "P001", Date: checkIn, Status: attendance.StatusAbsent},
	}
	payload, err := BuildCSV(records)
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv has %d lines, want 3", len(lines))
	}
	if lines[0] != "matricule,domaine,date,heure,statut" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "C001,Chantre,2026-03-12,08:15:00,Présent") {
		t.Fatalf("first row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "P001,Protocole,2026-03-12,,Absent") {
		t.Fatalf("second row = %q", lines[2])
	}
}
