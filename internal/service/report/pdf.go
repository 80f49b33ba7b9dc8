package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/raynet-care/care-api/internal/model"
)

// Page geometry in points on A4. The body breaks to a new page once
// the cursor passes bottomLimit, both between note blocks and inside a
// wrapped body.
const (
	marginX     = 40.0
	topY        = 50.0
	bottomInset = 80.0
	footerInset = 50.0
	wrapWidth   = 110
)

func renderNotesPDF(orgName string, su *model.ServiceUser, notes []*model.CommunicationNote, startLabel, endLabel string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()
	bottomLimit := pageH - bottomInset

	y := topY
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(marginX, y, fmt.Sprintf("%s - Communication Notes", orgName))
	y += 20

	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginX, y, fmt.Sprintf("Service User: %s", su.FullName))
	y += 15
	pdf.Text(marginX, y, fmt.Sprintf("Period: %s to %s", startLabel, endLabel))
	y += 25

	pdf.SetFont("Helvetica", "", 10)

	newPage := func() {
		pdf.AddPage()
		y = topY
		pdf.SetFont("Helvetica", "", 10)
	}

	for _, n := range notes {
		if y > bottomLimit {
			newPage()
		}

		visitType := n.VisitType
		if visitType == "" {
			visitType = "-"
		}
		concern := "NO"
		if n.ConcernFlag {
			concern = "YES"
		}
		header := fmt.Sprintf("%s | %s | %s | Concern: %s",
			n.CreatedAt.Format("2006-01-02 15:04"), n.AuthorEmail, visitType, concern)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(marginX, y, header)
		y += 14

		pdf.SetFont("Helvetica", "", 10)
		for _, line := range wrap(n.NoteText, wrapWidth) {
			if y > bottomLimit {
				newPage()
			}
			pdf.Text(marginX, y, line)
			y += 12
		}
		y += 10
	}

	// Printed once after the loop, so it lands on the final page only
	// when pagination occurred. Kept as-is pending a product decision
	// on per-page footers.
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(marginX, pageH-footerInset, "Confidential - for care delivery and compliance use only.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrap splits text into lines of at most maxChars characters, breaking
// on word boundaries.
func wrap(text string, maxChars int) []string {
	words := strings.Fields(text)
	var lines []string
	line := ""
	for _, w := range words {
		test := strings.TrimSpace(line + " " + w)
		if len(test) <= maxChars {
			line = test
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
