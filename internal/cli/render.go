package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/render"
)

// Output formats of the render command.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatSVG: true, formatPNG: true, formatPDF: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file path, "-" for stdout
	format  string  // "svg", "png" or "pdf"
	backend string  // render backend, empty for the configured one
	scale   float64 // PNG scale factor
	noCache bool
}

// renderCommand creates the render command for turning Mermaid source into images.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render FILE.mmd",
		Short: "Render Mermaid source to SVG, PNG or PDF",
		Long: `Render Mermaid diagram source to SVG, PNG or PDF.

Flowcharts render in-process with Graphviz. Other diagram kinds need the
Mermaid CLI (mmdc). PNG and PDF output additionally need rsvg-convert.

On a syntax error the offending line is reported so the source can be fixed.`,
		Example: `  mdgraph render diagrams/00-steps.mmd
  mdgraph render flow.mmd -f png -o flow.png
  mdgraph generate doc.md -s 0 | mdgraph render - -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if !validFormats[opts.format] {
				return errors.New(errors.ErrCodeInvalidInput,
					"invalid format: %s (must be 'svg', 'png', or 'pdf')", opts.format)
			}
			return c.runRender(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: input with new extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg, png, pdf")
	cmd.Flags().StringVarP(&opts.backend, "backend", "b", "", "render backend: auto, graphviz, mmdc (default from config)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	addCacheFlag(cmd, &opts.noCache)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, in io.Reader, out io.Writer, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	src, err := readDocument(in, input)
	if err != nil {
		return err
	}
	src = stripLeadingComments(src)
	if err := diagram.ValidateStrict(src); err != nil {
		return err
	}

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	r, err := c.newRenderer(ch, opts.backend)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	id := "diagram-" + slug(strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))
	svg, err := r.Render(ctx, id, src)
	if err != nil {
		var se *render.SyntaxError
		if errors.As(err, &se) && se.Line > 0 {
			printSourceLine(src, se.Line)
		}
		return err
	}
	logger.Debugf("Rendered SVG: %d bytes", len(svg))

	data, err := convert(ctx, svg, opts.format, opts.scale)
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, opts.format)
	if path == "-" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	prog.done("Rendered " + path)
	return nil
}

// convert turns a rendered SVG into the requested format.
func convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case formatPNG:
		return render.ToPNG(ctx, svg, scale, "white")
	case formatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}

// outputPath derives the output path. Stdin input without -o goes to stdout;
// otherwise the input extension is replaced by the format.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return "-"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// stripLeadingComments drops the "%%" comment lines that precede the diagram
// header, such as those written by the generate command.
func stripLeadingComments(src string) string {
	src = strings.TrimSpace(src)
	for strings.HasPrefix(src, "%%") {
		_, rest, _ := strings.Cut(src, "\n")
		src = strings.TrimSpace(rest)
	}
	return src
}

// printSourceLine shows line n of src with its neighbours.
func printSourceLine(src string, n int) {
	lines := strings.Split(src, "\n")
	for i := max(n-2, 1); i <= min(n+1, len(lines)); i++ {
		text := fmt.Sprintf("%4d | %s", i, lines[i-1])
		if i == n {
			fmt.Fprintln(stdout, StyleWarning.Render(text))
			continue
		}
		fmt.Fprintln(stdout, StyleDim.Render(text))
	}
}
