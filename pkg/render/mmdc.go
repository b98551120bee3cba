package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/mdgraph/pkg/errors"
)

// MermaidCLIRenderer renders any diagram kind with mermaid-cli.
// Requires mmdc: npm install -g @mermaid-js/mermaid-cli
type MermaidCLIRenderer struct {
	// Path is the mmdc executable. Empty means "mmdc" on PATH.
	Path string
	// Theme is passed to mmdc -t (default, neutral, dark, forest).
	Theme string
}

var mmdcLineRe = regexp.MustCompile(`(?i)parse error on line (\d+)`)

// Available reports whether the mmdc executable can be found.
func (r *MermaidCLIRenderer) Available() bool {
	_, err := exec.LookPath(r.bin())
	return err == nil
}

func (r *MermaidCLIRenderer) bin() string {
	if r.Path != "" {
		return r.Path
	}
	return "mmdc"
}

// Render writes source to a temporary file and converts it with mmdc.
func (r *MermaidCLIRenderer) Render(ctx context.Context, id, source string) ([]byte, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	bin, err := exec.LookPath(r.bin())
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"mermaid-cli not found. Install with:\n  npm install -g @mermaid-js/mermaid-cli")
	}

	return observe(ctx, BackendMermaid, func() ([]byte, error) {
		dir, err := os.MkdirTemp("", "mdgraph-mmdc-")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create temp dir")
		}
		defer os.RemoveAll(dir)

		in := filepath.Join(dir, "diagram.mmd")
		out := filepath.Join(dir, "diagram.svg")
		if err := os.WriteFile(in, []byte(source), 0644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write diagram source")
		}

		args := []string{"-i", in, "-o", out, "-b", "transparent", "-q"}
		if r.Theme != "" {
			args = append(args, "-t", r.Theme)
		}
		cmd := exec.CommandContext(ctx, bin, args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "mmdc")
			}
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, mmdcSyntaxError(stderr.String(), source), "mmdc: %v", err)
		}

		svg, err := os.ReadFile(out)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "read mmdc output")
		}
		return normalizeSVG(svg, id), nil
	})
}

// mmdcSyntaxError extracts the line number from mmdc's parser output.
func mmdcSyntaxError(stderr, source string) *SyntaxError {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = "mmdc failed without output"
	}
	se := &SyntaxError{Msg: firstLine(msg), Source: source}
	if m := mmdcLineRe.FindStringSubmatch(msg); m != nil {
		se.Line, _ = strconv.Atoi(m[1])
	}
	return se
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// String describes the renderer for logs.
func (r *MermaidCLIRenderer) String() string {
	return fmt.Sprintf("mmdc(%s)", r.bin())
}

var _ Renderer = (*MermaidCLIRenderer)(nil)
