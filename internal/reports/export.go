// Package reports renders attendance statistics as downloadable documents.
package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"pointage-cloud/internal/analytics"
	attendance "pointage-cloud/internal/attendance/domain"
)

// Report bundles everything a rendered document needs.
type Report struct {
	Statistics analytics.Statistics
	Summary    map[attendance.Domain]analytics.DomainCounts
	From       time.Time
	To         time.Time
	Generated  time.Time
}

// BuildPDF renders the attendance report as a PDF.
func BuildPDF(report Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Rapport de Statistiques QR Pointage")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Periode: %s au %s", report.From.Format("02/01/2006"), report.To.Format("02/01/2006")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Genere le: %s", report.Generated.Format("02/01/2006 15:04")))
	pdf.Ln(8)

	stats := report.Statistics
	rate := float64(stats.PresentCount) / float64(max(stats.RecordCount, 1)) * 100

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, "Indicateur", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Valeur", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	summaryRows := [][2]string{
		{"Total employes", strconv.Itoa(stats.EmployeeCount)},
		{"Total enregistrements", strconv.Itoa(stats.RecordCount)},
		{"Presents", strconv.Itoa(stats.PresentCount)},
		{"Absents", strconv.Itoa(stats.AbsentCount)},
		{"Retards", strconv.Itoa(stats.LateCount)},
		{"Taux de presence global", fmt.Sprintf("%.1f%%", rate)},
	}
	for _, row := range summaryRows {
		pdf.CellFormat(90, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, row[1], "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Domaine", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Presents", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Absents", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Retards", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Taux", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, domain := range attendance.Domains() {
		counts := report.Summary[domain]
		pdf.CellFormat(40, 6, domain.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(counts.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(counts.Present), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(counts.Absent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(counts.Late), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.1f%%", counts.PresenceRate*100), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the attendance report as a workbook with a summary sheet
// and a per-domain sheet.
func BuildXLSX(report Report) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "resume"
	domainSheet := "domaines"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(domainSheet); err != nil {
		return nil, err
	}

	stats := report.Statistics
	rate := float64(stats.PresentCount) / float64(max(stats.RecordCount, 1)) * 100

	_ = f.SetCellValue(summarySheet, "A1", "Rapport de Statistiques QR Pointage")
	_ = f.SetCellValue(summarySheet, "A2", "Période")
	_ = f.SetCellValue(summarySheet, "B2", report.From.Format("02/01/2006")+" au "+report.To.Format("02/01/2006"))
	_ = f.SetCellValue(summarySheet, "A4", "Total employés")
	_ = f.SetCellValue(summarySheet, "B4", stats.EmployeeCount)
	_ = f.SetCellValue(summarySheet, "A5", "Total enregistrements")
	_ = f.SetCellValue(summarySheet, "B5", stats.RecordCount)
	_ = f.SetCellValue(summarySheet, "A6", "Présents")
	_ = f.SetCellValue(summarySheet, "B6", stats.PresentCount)
	_ = f.SetCellValue(summarySheet, "A7", "Absents")
	_ = f.SetCellValue(summarySheet, "B7", stats.AbsentCount)
	_ = f.SetCellValue(summarySheet, "A8", "Retards")
	_ = f.SetCellValue(summarySheet, "B8", stats.LateCount)
	_ = f.SetCellValue(summarySheet, "A9", "Taux de présence global")
	_ = f.SetCellValue(summarySheet, "B9", fmt.Sprintf("%.1f%%", rate))

	_ = f.SetCellValue(domainSheet, "A1", "Domaine")
	_ = f.SetCellValue(domainSheet, "B1", "Total")
	_ = f.SetCellValue(domainSheet, "C1", "Présents")
	_ = f.SetCellValue(domainSheet, "D1", "Absents")
	_ = f.SetCellValue(domainSheet, "E1", "Retards")
	_ = f.SetCellValue(domainSheet, "F1", "Taux de présence")
	for i, domain := range attendance.Domains() {
		row := i + 2
		counts := report.Summary[domain]
		_ = f.SetCellValue(domainSheet, fmt.Sprintf("A%d", row), domain.String())
		_ = f.SetCellValue(domainSheet, fmt.Sprintf("B%d", row), counts.Total)
		_ = f.SetCellValue(domainSheet, fmt.Sprintf("C%d", row), counts.Present)
		_ = f.SetCellValue(domainSheet, fmt.Sprintf("D%d", row), counts.Absent)
		_ = f.SetCellValue(domainSheet, fmt.Sprintf("E%d", row), counts.Late)
		_ = f.SetCellValue(domainSheet, fmt.Sprintf("F%d", row), counts.PresenceRate)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildCSV renders the raw record set as CSV.
func BuildCSV(records []attendance.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"matricule", "domaine", "date", "heure", "statut"}); err != nil {
		return nil, err
	}
	for _, record := range records {
		checkIn := ""
		if record.CheckIn != nil {
			checkIn = record.CheckIn.Format("15:04:05")
		}
		row := []string{
			record.Matricule,
			attendance.ClassifyDomain(record.Matricule).String(),
			record.Date.Format("2006-01-02"),
			checkIn,
			record.Status.String(),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
