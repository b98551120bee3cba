package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Tiles returns the vertical offset, in millimetres, of the image on each
// page for an image imgHeight millimetres tall. The first page shows the top
// of the image; every following page shifts it up by one page height, so an
// image produces ceil(imgHeight/PageHeight) pages.
func Tiles(imgHeight float64) []float64 {
	offsets := []float64{0}
	left := imgHeight - PageHeight
	for left > 0 {
		offsets = append(offsets, left-imgHeight)
		left -= PageHeight
	}
	return offsets
}

// Paginate lays a PNG out across A4 portrait pages at full page width and
// returns the encoded PDF.
func Paginate(pngData []byte, opts Options) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	if format != "png" {
		return nil, fmt.Errorf("capture is %s, want png", format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("capture is empty (%dx%d)", cfg.Width, cfg.Height)
	}
	imgHeight := float64(cfg.Height) * PageWidth / float64(cfg.Width)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("mdgraph", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Subject != "" {
		pdf.SetSubject(opts.Subject, true)
	}

	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", imgOpts, bytes.NewReader(pngData))
	for _, y := range Tiles(imgHeight) {
		pdf.AddPage()
		pdf.ImageOptions("capture", 0, y, PageWidth, imgHeight, false, imgOpts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Verify parses and validates a PDF and returns its page count.
func Verify(data []byte) (int, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}
