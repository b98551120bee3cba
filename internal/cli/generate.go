package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/generate"
	"github.com/matzehuels/mdgraph/pkg/markdown"
)

// generateOpts holds options for the generate command.
type generateOpts struct {
	section    int
	kind       string
	complexity string
	strategies string
	output     string
	noCache    bool
}

// generateCommand creates the generate command for producing diagram source.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{section: -1}

	cmd := &cobra.Command{
		Use:   "generate FILE",
		Short: "Generate a Mermaid diagram for each section of a document",
		Long: `Generate a Mermaid diagram for each heading section of a markdown document.

Strategies are tried in order until one yields valid source:
  simulate     local variation of the built-in templates
  network      Hugging Face and Claude, when credentials are configured
  huggingface  Hugging Face inference only
  claude       Anthropic Claude only
  template     built-in templates (always succeeds)

Without --output the diagrams are printed to stdout. With --output each
diagram is written to DIR/NN-heading.mmd.`,
		Example: `  mdgraph generate README.md
  mdgraph generate design.md --section 2 --kind sequence
  mdgraph generate plan.md --strategy template -o diagrams/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.section, "section", "s", -1, "only this section index (default all)")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", string(diagram.KindFlowchart), "diagram kind: flowchart, graph, sequence, class, er, gantt, pie")
	cmd.Flags().StringVarP(&opts.complexity, "complexity", "c", string(diagram.ComplexityMedium), "diagram complexity: simple, medium, complex")
	cmd.Flags().StringVar(&opts.strategies, "strategy", "", "comma separated strategy order (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write .mmd files to this directory")
	addCacheFlag(cmd, &opts.noCache)

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, in io.Reader, out io.Writer, path string, opts generateOpts) error {
	kind, err := diagram.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	complexity, err := diagram.ParseComplexity(opts.complexity)
	if err != nil {
		return err
	}

	_, sections, err := readSections(in, path)
	if err != nil {
		return err
	}
	indices, err := selectSections(sections, opts.section)
	if err != nil {
		return err
	}

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	gen, err := c.newGenerator(ch, opts.strategies)
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	logger.Debug("generating", "sections", len(indices), "strategies", strings.Join(gen.Strategies(), ","))

	if opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
		}
	}

	prog := newProgress(logger)
	for _, i := range indices {
		sec := sections[i]
		resp, err := gen.Generate(ctx, diagram.Request{
			Title:       sec.Heading,
			Description: sec.Content,
			Kind:        kind,
			Complexity:  complexity,
		})
		if err != nil {
			return err
		}

		if opts.output == "" {
			fmt.Fprintf(out, "%%%% %d. %s (%s)\n", i, sec.Heading, resp.Origin)
			if summary := markdown.Summarize(sec.Content); summary != "" {
				fmt.Fprintf(out, "%%%% %s\n", summary)
			}
			fmt.Fprintf(out, "%s\n\n", resp.Source)
			continue
		}
		file := filepath.Join(opts.output, diagramFilename(i, sec.Heading))
		if err := os.WriteFile(file, []byte(resp.Source+"\n"), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", file)
		}
		printFile(file + " " + renderOrigin(resp.Origin))
	}
	prog.done(fmt.Sprintf("Generated %d diagrams", len(indices)))

	if opts.output != "" && len(indices) > 0 {
		printNextStep("Render one", fmt.Sprintf("%s render %s", appName,
			filepath.Join(opts.output, diagramFilename(indices[0], sections[indices[0]].Heading))))
	}
	return nil
}

// selectSections returns the section indices to work on: all of them for a
// negative idx, otherwise just idx.
func selectSections(sections []markdown.Section, idx int) ([]int, error) {
	if len(sections) == 0 {
		return nil, errors.New(errors.ErrCodeSectionNotFound, "document has no headings")
	}
	if idx < 0 {
		out := make([]int, len(sections))
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	if err := errors.ValidateSectionIndex(idx, len(sections)); err != nil {
		return nil, err
	}
	return []int{idx}, nil
}

// diagramFilename names the .mmd file of section i, e.g. "02-build-steps.mmd".
func diagramFilename(i int, heading string) string {
	return fmt.Sprintf("%02d-%s.mmd", i, slug(heading))
}

// slug lowercases s and joins its letters and digits with single dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}

// generatorFor is used by commands that only need a one-off generator.
func (c *CLI) generatorFor(ctx context.Context, noCache bool, strategies string) (*generate.Generator, func(), error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	gen, err := c.newGenerator(ch, strategies)
	if err != nil {
		ch.Close()
		return nil, nil, err
	}
	return gen, func() { ch.Close() }, nil
}
