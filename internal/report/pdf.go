// Package report renders the diary summary document. The layout is a fixed
// sequence of sections: title block, summary, mood distribution, then the
// entry details starting on a fresh page.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/entrepages/diary-api/internal/models"
)

// Store is the slice of the database layer the generator needs.
type Store interface {
	ListEntries(ctx context.Context, filter models.FilterCriteria) ([]models.DiaryEntry, error)
	Stats(ctx context.Context) (*models.StatisticsSnapshot, error)
}

type Generator struct {
	store Store
}

func NewGenerator(store Store) *Generator {
	return &Generator{store: store}
}

// FileName builds the date-stamped attachment name for the export endpoint.
func FileName(now time.Time) string {
	return "diary-report-" + now.Format("2006-01-02") + ".pdf"
}

const (
	pageBreakAt = 700 // running cursor threshold before starting the next entry
	contentW    = 495
)

// WritePDF retrieves the filtered entries and the statistics snapshot, then
// renders the document into w. Retrieval happens up front: a storage fault
// aborts before a single byte is written, never mid-document.
func (g *Generator) WritePDF(ctx context.Context, filter models.FilterCriteria, w io.Writer) error {
	entries, err := g.store.ListEntries(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing entries for report: %w", err)
	}
	stats, err := g.store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("loading statistics for report: %w", err)
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(50, 50, 50)
	pdf.SetAutoPageBreak(true, 60)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-45)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(149, 165, 166)
		pdf.CellFormat(0, 12, "Generated by the EntrePages Diary API", "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// title block
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 30, "EntrePages - Diary Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 18, "Report generated on "+time.Now().Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(24)

	// summary block
	pdf.SetFont("Helvetica", "BU", 18)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 24, "Overall Statistics", "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 16, fmt.Sprintf("Total entries: %d", stats.TotalEntries), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 16, fmt.Sprintf("Favorite entries: %d", stats.FavoriteEntries), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 16, fmt.Sprintf("Entries in this selection: %d", len(entries)), "", 1, "L", false, 0, "")
	if filter.StartDate != "" && filter.EndDate != "" {
		pdf.CellFormat(0, 16,
			fmt.Sprintf("Period: %s to %s", formatDateParam(filter.StartDate), formatDateParam(filter.EndDate)),
			"", 1, "L", false, 0, "")
	}
	pdf.Ln(24)

	if len(stats.MoodDistribution) > 0 {
		pdf.SetFont("Helvetica", "BU", 16)
		pdf.SetTextColor(52, 73, 94)
		pdf.CellFormat(0, 22, "Mood Distribution", "", 1, "L", false, 0, "")
		pdf.Ln(6)

		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(44, 62, 80)
		for _, m := range stats.MoodDistribution {
			pdf.CellFormat(0, 15, tr(fmt.Sprintf("%s: %d entries", m.Mood, m.Count)), "", 1, "L", false, 0, "")
		}
		pdf.Ln(24)
	}

	if len(entries) > 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "BU", 18)
		pdf.SetTextColor(52, 73, 94)
		pdf.CellFormat(0, 24, "Diary Entries", "", 1, "L", false, 0, "")
		pdf.Ln(18)

		for i, entry := range entries {
			if pdf.GetY() > pageBreakAt {
				pdf.AddPage()
			}
			g.writeEntry(pdf, tr, i+1, entry)
		}
	} else {
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(127, 140, 141)
		pdf.CellFormat(0, 16, "No entries match the applied filters.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func (g *Generator) writeEntry(pdf *gofpdf.Fpdf, tr func(string) string, seq int, entry models.DiaryEntry) {
	pdf.SetFont("Helvetica", "BU", 14)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 20, tr(fmt.Sprintf("%d. %s", seq, entry.Title)), "", 1, "L", false, 0, "")

	meta := "Date: " + entry.EntryDate.Format("02/01/2006")
	if entry.Mood != nil {
		meta += " | Mood: " + *entry.Mood
	}
	if entry.IsFavorite {
		meta += " *"
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 14, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// only the wrapped body may spill across a page boundary
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(44, 62, 80)
	pdf.MultiCell(contentW, 14, tr(entry.Content), "", "J", false)

	if len(entry.Tags) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(52, 152, 219)
		pdf.CellFormat(0, 12, tr("Tags: "+strings.Join(entry.Tags, ", ")), "", 1, "L", false, 0, "")
	}
	if entry.Photo != nil {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(149, 165, 166)
		pdf.CellFormat(0, 12, tr("Photo: "+*entry.Photo), "", 1, "L", false, 0, "")
	}

	pdf.Ln(12)
	pdf.SetDrawColor(189, 195, 199)
	pdf.SetLineWidth(0.5)
	y := pdf.GetY()
	pdf.Line(50, y, 545, y)
	pdf.Ln(12)
}

// formatDateParam rewrites a YYYY-MM-DD query value for display, falling back
// to the raw value when it is not a date the store would have accepted anyway.
func formatDateParam(s string) string {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return d.Format("02/01/2006")
}
