package cert

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Row is one question of the breakdown table.
type Row struct {
	Prompt  string
	Chosen  string // empty when skipped
	Correct string
}

// Sheet is everything printed on a result sheet.
type Sheet struct {
	SessionID  string
	Date       time.Time
	Correct    int
	Incorrect  int
	Unanswered int
	Total      int
	Percentage float64
	Tier       string
	Verdict    string
	Rows       []Row
}

func GeneratePDF(data Sheet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "Quiz Result", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8,
		fmt.Sprintf("Correct: %d | Incorrect: %d | Unanswered: %d | Total: %d",
			data.Correct, data.Incorrect, data.Unanswered, data.Total),
		"", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8,
		fmt.Sprintf("Grade: %.1f%% (%s) | Date: %s", data.Percentage, data.Tier, data.Date.Format("2006-01-02")),
		"", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.MultiCell(0, 6, tr(data.Verdict), "", "C", false)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(120, 7, "Question", "1", 0, "L", false, 0, "")
	pdf.CellFormat(18, 7, "Chosen", "1", 0, "C", false, 0, "")
	pdf.CellFormat(18, 7, "Correct", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 7, "Result", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range data.Rows {
		chosen, result := row.Chosen, "wrong"
		switch {
		case chosen == "":
			chosen, result = "-", "skipped"
		case chosen == row.Correct:
			result = "right"
		}
		pdf.CellFormat(10, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(120, 7, tr(truncate(row.Prompt, 70)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(18, 7, chosen, "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 7, row.Correct, "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 7, result, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 6, "Session ID: "+data.SessionID, "", 1, "C", false, 0, "")

	return pdf.OutputBytes()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
