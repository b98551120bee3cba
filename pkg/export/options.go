package export

import "time"

// A4 image area in millimetres. The page height is slightly less than the
// physical 297mm so tiles overlap instead of leaving a gap.
const (
	PageWidth  = 210.0
	PageHeight = 295.0
)

// DefaultSettle is how long Export waits before capturing, so diagrams that
// are still rendering in the page can finish.
const DefaultSettle = 500 * time.Millisecond

// Options controls one export.
type Options struct {
	// Filename of the produced PDF. Empty uses DefaultFilename.
	Filename string
	Title    string
	Author   string
	Subject  string
}

// DefaultFilename is the filename used when none is given: export-YYYY-MM-DD.pdf.
func DefaultFilename(t time.Time) string {
	return "export-" + t.Format("2006-01-02") + ".pdf"
}

// Timestamp formats t as MM-DD-YYYY HH-MM-SS, the form used in generated
// document titles.
func Timestamp(t time.Time) string {
	return t.Format("01-02-2006 15-04-05")
}
