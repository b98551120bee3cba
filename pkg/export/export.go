package export

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdgraph/pkg/cache"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/observability"
)

// Result is a produced PDF.
type Result struct {
	Filename string
	PDF      []byte
	Pages    int
}

// Exporter captures documents and paginates them into PDFs.
type Exporter struct {
	capturer Capturer
	settle   time.Duration
	now      func() time.Time
	logger   *log.Logger

	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithSettle sets the delay before capture. Zero disables it.
func WithSettle(d time.Duration) Option {
	return func(e *Exporter) { e.settle = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCache stores produced PDFs in c, keyed by document and metadata.
func WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(e *Exporter) {
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		e.cache, e.keyer, e.ttl = c, keyer, ttl
	}
}

// WithClock overrides time.Now, which picks the default filename.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New returns an Exporter using c. The settle delay defaults to DefaultSettle.
func New(c Capturer, opts ...Option) *Exporter {
	e := &Exporter{
		capturer: c,
		settle:   DefaultSettle,
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export waits for the settle delay, captures html and paginates it.
func (e *Exporter) Export(ctx context.Context, html []byte, opts Options) (*Result, error) {
	if opts.Filename == "" {
		opts.Filename = DefaultFilename(e.now())
	}
	if err := errors.ValidateExportFilename(opts.Filename); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Filename)
	start := time.Now()

	res, err := e.export(ctx, html, opts)
	pages := 0
	if res != nil {
		pages = res.Pages
	}
	hooks.OnExportComplete(ctx, opts.Filename, pages, time.Since(start), err)
	return res, err
}

func (e *Exporter) export(ctx context.Context, html []byte, opts Options) (*Result, error) {
	var key string
	if e.cache != nil {
		key = e.keyer.ExportKey(html, e.keyOpts(opts))
		if data, hit, err := e.cache.Get(ctx, key); err == nil && hit {
			if pages, err := Verify(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "export")
				return &Result{Filename: opts.Filename, PDF: data, Pages: pages}, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "export")
	}

	if err := e.wait(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "export %s", opts.Filename)
	}

	img, err := e.capturer.Capture(ctx, html)
	if err != nil {
		if errors.Is(err, errors.ErrCodeExportFailed) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "capture %s", opts.Filename)
	}

	pdf, err := Paginate(img, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "paginate %s", opts.Filename)
	}
	pages, err := Verify(pdf)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "verify %s", opts.Filename)
	}
	e.logger.Debug("exported", "file", opts.Filename, "pages", pages, "bytes", len(pdf))

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, pdf, e.ttl); err != nil {
			e.logger.Warn("export cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "export", len(pdf))
		}
	}
	return &Result{Filename: opts.Filename, PDF: pdf, Pages: pages}, nil
}

func (e *Exporter) wait(ctx context.Context) error {
	if e.settle <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.settle)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Exporter) keyOpts(opts Options) cache.ExportKeyOpts {
	k := cache.ExportKeyOpts{Title: opts.Title, Author: opts.Author, Subject: opts.Subject}
	if s, ok := e.capturer.(scaled); ok {
		k.Scale = s.CaptureScale()
	}
	return k
}
