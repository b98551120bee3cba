package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"regexp"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/render"
)

// DocumentSelector is the element a capturer screenshots.
const DocumentSelector = "#document"

// Capture methods accepted by NewCapturer.
const (
	CaptureAuto   = "auto"
	CaptureChrome = "chrome"
	CaptureRSVG   = "rsvg"
)

// chromeNames are the executables looked up on PATH when no Chrome path is
// configured. chromedp searches a similar list.
var chromeNames = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell",
}

// ChromeAvailable reports whether a Chrome binary can be found: path itself
// when set, otherwise one of the usual names on PATH.
func ChromeAvailable(path string) bool {
	if path != "" {
		_, err := exec.LookPath(path)
		return err == nil
	}
	for _, name := range chromeNames {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// NewCapturer returns the capturer for method. "auto" prefers Chrome and
// falls back to rsvg-convert.
func NewCapturer(method, chromePath string, scale float64) (Capturer, error) {
	switch method {
	case "", CaptureAuto:
		if ChromeAvailable(chromePath) {
			return &ChromeCapturer{ExecPath: chromePath, Scale: scale}, nil
		}
		if render.RSVGAvailable() {
			return &SVGCapturer{Scale: scale, Gap: 32}, nil
		}
		return nil, errors.New(errors.ErrCodeUnsupported,
			"export needs headless Chrome or rsvg-convert; neither was found")
	case CaptureChrome:
		return &ChromeCapturer{ExecPath: chromePath, Scale: scale}, nil
	case CaptureRSVG:
		return &SVGCapturer{Scale: scale, Gap: 32}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown capture method %q (must be one of: auto, chrome, rsvg)", method)
}

// Capturer turns a document into one PNG image.
type Capturer interface {
	Capture(ctx context.Context, html []byte) ([]byte, error)
}

// scaled is implemented by capturers whose output size depends on a scale
// factor, so cached exports at different scales do not collide.
type scaled interface {
	CaptureScale() float64
}

// ChromeCapturer renders the document in headless Chrome and screenshots the
// #document element.
type ChromeCapturer struct {
	// ExecPath is the Chrome binary. Empty lets chromedp search the usual places.
	ExecPath string
	// Scale is the device scale factor. Zero means 2.
	Scale float64
	// Width of the browser viewport in CSS pixels. Zero means 900.
	Width int
}

// CaptureScale implements scaled.
func (c *ChromeCapturer) CaptureScale() float64 {
	if c.Scale <= 0 {
		return 2
	}
	return c.Scale
}

// Capture implements Capturer.
func (c *ChromeCapturer) Capture(ctx context.Context, html []byte) ([]byte, error) {
	width := c.Width
	if width <= 0 {
		width = 900
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("hide-scrollbars", true))
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var buf []byte
	err := chromedp.Run(taskCtx,
		chromedp.EmulateViewport(int64(width), 800, chromedp.EmulateScale(c.CaptureScale())),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitVisible(DocumentSelector, chromedp.ByID),
		chromedp.Screenshot(DocumentSelector, &buf, chromedp.ByID),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "capture document in chrome")
	}
	return buf, nil
}

var svgElementRe = regexp.MustCompile(`(?s)<svg\b.*?</svg>`)

// SVGCapturer rasterises every inline SVG of a document with rsvg-convert
// and stacks the images vertically on a white background. Text outside the
// diagrams is not captured. It is the fallback when Chrome is unavailable.
type SVGCapturer struct {
	// Scale is passed to rsvg-convert. Zero means 2.
	Scale float64
	// Gap between stacked diagrams in output pixels.
	Gap int
}

// CaptureScale implements scaled.
func (c *SVGCapturer) CaptureScale() float64 {
	if c.Scale <= 0 {
		return 2
	}
	return c.Scale
}

// Capture implements Capturer.
func (c *SVGCapturer) Capture(ctx context.Context, doc []byte) ([]byte, error) {
	svgs := svgElementRe.FindAll(doc, -1)
	if len(svgs) == 0 {
		return nil, errors.New(errors.ErrCodeExportFailed, "document contains no diagrams to capture")
	}

	images := make([]image.Image, 0, len(svgs))
	for i, svg := range svgs {
		data, err := render.ToPNG(ctx, svg, c.CaptureScale(), "white")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "rasterise diagram %d", i+1)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "decode diagram %d", i+1)
		}
		images = append(images, img)
	}

	out, err := StackPNG(images, c.Gap)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "stack diagrams")
	}
	return out, nil
}

// StackPNG draws images top to bottom, left aligned, separated by gap pixels
// on a white canvas as wide as the widest image, and encodes it as PNG.
func StackPNG(images []image.Image, gap int) ([]byte, error) {
	width, height := 0, 0
	for i, img := range images {
		b := img.Bounds()
		width = max(width, b.Dx())
		height += b.Dy()
		if i > 0 {
			height += gap
		}
	}
	if width == 0 || height == 0 {
		return nil, errors.New(errors.ErrCodeExportFailed, "nothing to stack")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	y := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(canvas, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
		y += b.Dy() + gap
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	_ Capturer = (*ChromeCapturer)(nil)
	_ Capturer = (*SVGCapturer)(nil)
)
