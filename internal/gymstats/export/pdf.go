package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/2beens/irontracker/internal/gymstats/stats"
)

const ReportTitle = "IRON TRACKER // REPORT"

var numberPrinter = message.NewPrinter(language.English)

// RenderPDF writes the single page report for the overview snapshot.
func RenderPDF(w io.Writer, ov *stats.Overview) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(30, 30, 30)
		pdf.Rect(0, 0, 210, 40, "F")
		pdf.SetFont("Helvetica", "B", 20)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(10, 12)
		pdf.CellFormat(0, 10, ReportTitle, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 8, "Generated for "+ov.Today.Format("2006-01-02"), "", 1, "L", false, 0, "")
		pdf.SetY(50)
	})
	pdf.AddPage()

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(30, 30, 30)
		pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(60, 60, 60)
	}
	line := func(text string) {
		pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
	}

	r := ov.Report
	section(fmt.Sprintf("Last %d Days", windowDays(r)))
	pdf.MultiCell(0, 7, tr(r.Verdict), "", "L", false)
	line(fmt.Sprintf("Volume: %s kg (%+.1f%%)", signedThousands(r.VolumeChange), r.VolumeChangePct))
	line(fmt.Sprintf("Sessions: %+d (%d vs %d)", r.SessionChange, r.Recent.Sessions, r.Prior.Sessions))
	pdf.Ln(5)

	section("Lifetime")
	line(numberPrinter.Sprintf("Total Lifetime Volume: %d kg", int64(ov.Summary.TotalVolume)))
	line(fmt.Sprintf("Total Sessions Logged: %d", ov.Summary.Sessions))
	pdf.Ln(5)

	section("Est. 1RM Hall of Fame")
	if len(ov.Summary.HallOfFame) == 0 {
		line("No key lifts logged yet.")
	}
	for _, b := range ov.Summary.HallOfFame {
		line(fmt.Sprintf("%s: %d kg", b.Exercise, int(b.EstimatedOneRepMax)))
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func windowDays(r stats.Report) int {
	return int(r.Recent.To.Sub(r.Recent.From).Hours() / 24)
}

func signedThousands(v float64) string {
	if v < 0 {
		return numberPrinter.Sprintf("-%d", int64(-v))
	}
	return numberPrinter.Sprintf("+%d", int64(v))
}
