package workspace

import (
	"context"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/diagram"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/markdown"
)

// DefaultDebounce is the delay between the last edit and re-extraction.
const DefaultDebounce = 300 * time.Millisecond

// ErrStaleSection is returned when a section disappeared from the document
// while its diagram was being generated. The result is dropped.
var ErrStaleSection = errors.New(errors.ErrCodeSectionNotFound, "section was removed while its diagram was generated")

// Generator produces diagram source for a request.
type Generator interface {
	Generate(ctx context.Context, req diagram.Request) (diagram.Response, error)
}

// Snapshot is a consistent copy of a workspace's state.
type Snapshot struct {
	Markdown  string
	Sections  []markdown.Section
	Diagrams  map[int]string
	Summaries map[int]string
}

// Workspace is the state of one document being annotated.
type Workspace struct {
	id       string
	gen      Generator
	debounce time.Duration
	logger   *log.Logger
	now      func() time.Time

	mu        sync.Mutex
	text      string
	pending   bool
	timer     *time.Timer
	sections  []markdown.Section
	diagrams  map[int]string
	summaries map[int]string // kept when a diagram is edited by hand
	lastUsed  time.Time
}

// New returns an empty workspace. A debounce of zero extracts sections
// synchronously on every SetMarkdown.
func New(id string, gen Generator, debounce time.Duration, logger *log.Logger) *Workspace {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &Workspace{
		id:        id,
		gen:       gen,
		debounce:  debounce,
		logger:    logger,
		now:       time.Now,
		diagrams:  make(map[int]string),
		summaries: make(map[int]string),
	}
	w.lastUsed = w.now()
	return w
}

// ID returns the workspace identifier.
func (w *Workspace) ID() string { return w.id }

// SetMarkdown replaces the document text and schedules section extraction.
func (w *Workspace) SetMarkdown(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	w.text = text
	w.pending = true
	if w.debounce <= 0 {
		w.extractLocked()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.Flush)
}

// Flush runs a pending section extraction immediately.
func (w *Workspace) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.extractLocked()
}

func (w *Workspace) extractLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if !w.pending {
		return
	}
	w.pending = false
	w.sections = markdown.ExtractSections(w.text)
	w.logger.Debug("sections extracted", "workspace", w.id, "count", len(w.sections))
}

// Markdown returns the current document text.
func (w *Workspace) Markdown() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	return w.text
}

// Sections returns the sections from the last extraction. Edits still
// inside the debounce window are not reflected until Flush.
func (w *Workspace) Sections() []markdown.Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	return slices.Clone(w.sections)
}

// Section returns the section at idx.
func (w *Workspace) Section(idx int) (markdown.Section, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if err := errors.ValidateSectionIndex(idx, len(w.sections)); err != nil {
		return markdown.Section{}, err
	}
	return w.sections[idx], nil
}

// Generate produces a diagram for the section at idx and stores it together
// with a summary of the section body. The
// lock is not held while the generator runs; if the section is gone when it
// returns, ErrStaleSection is returned and nothing is stored.
func (w *Workspace) Generate(ctx context.Context, idx int, kind diagram.Kind, complexity diagram.Complexity) (diagram.Response, error) {
	if w.gen == nil {
		return diagram.Response{}, errors.New(errors.ErrCodeUnsupported, "workspace has no generator")
	}
	sec, err := w.Section(idx)
	if err != nil {
		return diagram.Response{}, err
	}

	resp, err := w.gen.Generate(ctx, diagram.Request{
		Title:       sec.Heading,
		Description: sec.Content,
		Kind:        kind,
		Complexity:  complexity,
	})
	if err != nil {
		return diagram.Response{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if idx >= len(w.sections) {
		w.logger.Debug("dropping stale diagram", "workspace", w.id, "section", idx)
		return diagram.Response{}, ErrStaleSection
	}
	resp.Summary = markdown.Summarize(sec.Content)
	w.diagrams[idx] = resp.Source
	w.summaries[idx] = resp.Summary
	return resp, nil
}

// SetDiagram validates src and stores it as the diagram of section idx.
func (w *Workspace) SetDiagram(idx int, src string) error {
	if err := diagram.ValidateStrict(src); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if err := errors.ValidateSectionIndex(idx, len(w.sections)); err != nil {
		return err
	}
	w.diagrams[idx] = src
	return nil
}

// Diagram returns the diagram source stored for section idx.
func (w *Workspace) Diagram(idx int) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	src, ok := w.diagrams[idx]
	return src, ok
}

// Summary returns the summary stored with the generated diagram of section idx.
func (w *Workspace) Summary(idx int) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	s, ok := w.summaries[idx]
	return s, ok
}

// Diagrams returns a copy of the section index to source map.
func (w *Workspace) Diagrams() map[int]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	return maps.Clone(w.diagrams)
}

// Snapshot returns text, sections, diagrams and summaries taken under one lock.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	return Snapshot{
		Markdown:  w.text,
		Sections:  slices.Clone(w.sections),
		Diagrams:  maps.Clone(w.diagrams),
		Summaries: maps.Clone(w.summaries),
	}
}

// Reset clears the text, the sections, every diagram and every summary.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.text = ""
	w.pending = false
	w.sections = nil
	w.diagrams = make(map[int]string)
	w.summaries = make(map[int]string)
}

// idleSince returns when the workspace was last used.
func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

func (w *Workspace) touch() {
	w.lastUsed = w.now()
}
