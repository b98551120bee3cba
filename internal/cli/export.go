package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdgraph/pkg/cache"
	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/export"
	"github.com/matzehuels/mdgraph/pkg/markdown"
)

// exportOpts holds options for the export command.
type exportOpts struct {
	output     string
	title      string
	author     string
	subject    string
	kind       string
	complexity string
	strategies string
	diagrams   string // directory of NN-*.mmd files to use instead of generating
	capture    string
	noDiagrams bool
	noCache    bool
}

// exportCommand creates the export command for producing a PDF.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export FILE.md",
		Short: "Export a document with its diagrams as PDF",
		Long: `Export a markdown document with one diagram per section as a paginated
A4 PDF.

Diagrams are generated for each section unless --diagrams points to a
directory of .mmd files written by "mdgraph generate -o". Sections whose
diagram fails to render are exported without it.

The document is captured with headless Chrome when available, otherwise the
diagrams alone are rasterised with rsvg-convert.`,
		Example: `  mdgraph export README.md
  mdgraph export plan.md -o plan.pdf --title "Q3 plan" --author "Platform team"
  mdgraph export plan.md --diagrams diagrams/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd.InOrStdin(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PDF (default export-YYYY-MM-DD.pdf)")
	cmd.Flags().StringVar(&opts.title, "title", "", "PDF title (default first heading)")
	cmd.Flags().StringVar(&opts.author, "author", "", "PDF author (default from config)")
	cmd.Flags().StringVar(&opts.subject, "subject", "", "PDF subject")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", string(diagram.KindFlowchart), "diagram kind for generated diagrams")
	cmd.Flags().StringVarP(&opts.complexity, "complexity", "c", string(diagram.ComplexityMedium), "diagram complexity")
	cmd.Flags().StringVar(&opts.strategies, "strategy", "", "comma separated strategy order (default from config)")
	cmd.Flags().StringVar(&opts.diagrams, "diagrams", "", "directory of .mmd files to use instead of generating")
	cmd.Flags().StringVar(&opts.capture, "capture", "", "capture method: auto, chrome, rsvg (default from config)")
	cmd.Flags().BoolVar(&opts.noDiagrams, "no-diagrams", false, "export the text only")
	addCacheFlag(cmd, &opts.noCache)

	return cmd
}

func (c *CLI) runExport(ctx context.Context, in io.Reader, input string, opts exportOpts) error {
	logger := loggerFromContext(ctx)
	cfg := c.config()

	_, sections, err := readSections(in, input)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		return errors.New(errors.ErrCodeSectionNotFound, "%s has no headings", input)
	}

	dir, filename := filepath.Split(opts.output)
	if filename == "" {
		filename = export.DefaultFilename(time.Now())
	}
	if err := errors.ValidateExportFilename(filename); err != nil {
		return err
	}

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	var sources map[int]string
	switch {
	case opts.noDiagrams:
	case opts.diagrams != "":
		if sources, err = loadDiagrams(opts.diagrams, len(sections)); err != nil {
			return err
		}
	default:
		if sources, err = c.generateAll(ctx, ch, sections, opts); err != nil {
			return err
		}
	}

	r, err := c.newRenderer(ch, "")
	if err != nil {
		return err
	}
	exp, err := c.newExporter(ch, opts.capture)
	if err != nil {
		return err
	}

	meta := export.Options{
		Filename: filename,
		Title:    firstNonEmpty(opts.title, sections[0].Heading),
		Author:   firstNonEmpty(opts.author, cfg.Export.Author),
		Subject:  firstNonEmpty(opts.subject, "Exported "+export.Timestamp(time.Now())),
	}

	summaries := make(map[int]string, len(sources))
	for i := range sources {
		summaries[i] = markdown.Summarize(sections[i].Content)
	}

	prog := newProgress(logger)
	var res *export.Result
	err = withSpinner(ctx, "Exporting "+filename, func(ctx context.Context) error {
		rendered := export.RenderSections(ctx, r, sections, sources, summaries, diagramID, logger)
		html, err := export.Document(meta.Title, rendered)
		if err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, err, "build document")
		}
		res, err = exp.Export(ctx, html, meta)
		return err
	})
	if err != nil {
		return err
	}

	path := filepath.Join(dir, res.Filename)
	if err := os.WriteFile(path, res.PDF, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	prog.done("Exported " + path)
	printFile(path)
	printStats(
		fmt.Sprintf("%d sections", len(sections)),
		fmt.Sprintf("%d diagrams", len(sources)),
		fmt.Sprintf("%d pages", res.Pages),
	)
	return nil
}

// generateAll generates one diagram per section.
func (c *CLI) generateAll(ctx context.Context, ch cache.Cache, sections []markdown.Section, opts exportOpts) (map[int]string, error) {
	kind, err := diagram.ParseKind(opts.kind)
	if err != nil {
		return nil, err
	}
	complexity, err := diagram.ParseComplexity(opts.complexity)
	if err != nil {
		return nil, err
	}
	gen, err := c.newGenerator(ch, opts.strategies)
	if err != nil {
		return nil, err
	}

	out := make(map[int]string, len(sections))
	for i, sec := range sections {
		resp, err := gen.Generate(ctx, diagram.Request{
			Title:       sec.Heading,
			Description: sec.Content,
			Kind:        kind,
			Complexity:  complexity,
		})
		if err != nil {
			return nil, err
		}
		out[i] = resp.Source
	}
	return out, nil
}

// loadDiagrams reads NN-*.mmd files from dir, keyed by their section index.
// Files for sections the document does not have are ignored with a warning.
func loadDiagrams(dir string, count int) (map[int]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.mmd"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "list %s", dir)
	}
	out := make(map[int]string)
	for _, f := range files {
		var idx int
		if _, err := fmt.Sscanf(filepath.Base(f), "%d-", &idx); err != nil {
			continue
		}
		if errors.ValidateSectionIndex(idx, count) != nil {
			printWarning("Ignoring %s: no section %d", filepath.Base(f), idx)
			continue
		}
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", f)
		}
		out[idx] = strings.TrimSpace(string(data))
	}
	return out, nil
}

// diagramID names the diagram of section i in exported documents.
func diagramID(i int) string {
	return fmt.Sprintf("diagram-%d", i)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
