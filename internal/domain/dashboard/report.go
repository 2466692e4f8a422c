package dashboard

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderTeamReport lays a manager dashboard out as a one-table PDF.
func RenderTeamReport(d ManagerDashboard) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s team performance", d.Department.Name), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Team performance: %s", d.Department.Name))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", d.GeneratedAt.Format("2006-01-02 15:04 MST")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Members: %d   Average score: %.2f", d.Summary.MemberCount, d.Summary.AverageScore))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Tasks: %d total, %d completed, %d on time", d.Summary.TotalTasks, d.Summary.CompletedTasks, d.Summary.OnTimeTasks))
	pdf.Ln(10)

	widths := []float64{70, 25, 30, 25, 30}
	headers := []string{"Employee", "Tasks", "Completed", "On time", "Score"}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, s := range d.Samples {
		pdf.CellFormat(widths[0], 7, s.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%d", s.TotalTasks), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", s.CompletedTasks), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", s.OnTimeTasks), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%.2f", s.Score), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	if len(d.Samples) == 0 {
		pdf.CellFormat(180, 7, "No team members yet.", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
