package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/markdown"
)

// sectionsCommand creates the sections command for listing heading sections.
func (c *CLI) sectionsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sections FILE",
		Short: "List the heading sections of a markdown document",
		Long: `List the heading sections of a markdown document.

Each ATX heading (# to ######) starts a section that runs to the next heading.
Use - to read the document from stdin.`,
		Example: `  mdgraph sections README.md
  cat notes.md | mdgraph sections - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sections, err := readSections(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sections)
			}
			if len(sections) == 0 {
				printWarning("No headings found in %s", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), sectionTable(sections))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print sections as JSON")
	return cmd
}

// readDocument reads path, or in when path is "-".
func readDocument(in io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return string(data), nil
}

// readSections reads a document and extracts its sections.
func readSections(in io.Reader, path string) (string, []markdown.Section, error) {
	doc, err := readDocument(in, path)
	if err != nil {
		return "", nil, err
	}
	return doc, markdown.ExtractSections(doc), nil
}

// sectionTable renders sections as a bordered table with their list item counts.
func sectionTable(sections []markdown.Section) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(sections))
	for i, s := range sections {
		items := len(diagram.ExtractListItems(s.Content))
		rows[i] = []string{strconv.Itoa(i), strconv.Itoa(s.Level), s.Heading, strconv.Itoa(items)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Level", "Heading", "Items").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
