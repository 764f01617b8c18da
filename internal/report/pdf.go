// Package report renders a one-page PDF diagnostic for a lex session,
// suitable for handing to a non-technical requester who asked why their
// document failed to lex.
//
// Grounded on internal/artifact/pdf.go's fpdf.New/CellFormat table
// idiom, repurposed from RMA test reports to lex diagnostics.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/holla2040/graphql-lexer/internal/store"
)

// GeneratePDF writes a one-page report for sessionID to w: source name,
// token count, elapsed time, and a table of any SyntaxErrors raised.
func GeneratePDF(w io.Writer, st *store.Store, sessionID string) error {
	sess, err := st.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	errs, err := st.ListErrors(sessionID)
	if err != nil {
		return fmt.Errorf("list errors: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Lex Diagnostic Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	info := []struct{ label, value string }{
		{"Source", sess.SourceName},
		{"Bytes", fmt.Sprintf("%d", sess.ByteLength)},
		{"Tokens", fmt.Sprintf("%d", sess.TokenCount)},
		{"Status", sess.Status},
		{"Started", sess.StartedAt.Format(time.RFC3339)},
	}
	if sess.FinishedAt != nil {
		info = append(info, struct{ label, value string }{"Finished", sess.FinishedAt.Format(time.RFC3339)})
		info = append(info, struct{ label, value string }{"Elapsed", sess.FinishedAt.Sub(sess.StartedAt).String()})
	}

	for _, item := range info {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 7, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Syntax Errors", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(errs) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 7, "No syntax errors.", "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	pdf.CellFormat(20, 7, "Line", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Column", "1", 0, "C", true, 0, "")
	pdf.CellFormat(0, 7, "Message", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, e := range errs {
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", e.Line), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", e.Column), "1", 0, "C", false, 0, "")
		pdf.CellFormat(0, 7, truncate(e.Message, 80), "1", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
