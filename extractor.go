package pdftext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsawler/pdftext/contentstream"
	"github.com/tsawler/pdftext/font"
	"github.com/tsawler/pdftext/reader"
	"github.com/tsawler/pdftext/resolver"
	"github.com/tsawler/pdftext/text"
)

const tracerName = "github.com/tsawler/pdftext"

var (
	// ErrPageOutOfRange is returned for page numbers outside 1..PageCount.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrClosed is returned by an Extractor after Close.
	ErrClosed = errors.New("extractor closed")
)

// Extractor extracts the text of one document, one page at a time.
// An Extractor keeps the state of the page being extracted and must not
// be used from more than one goroutine. Extract several documents
// concurrently by giving each its own Extractor.
type Extractor struct {
	reader     *reader.Reader
	ownsReader bool

	log    *slog.Logger
	tracer trace.Tracer

	objects *resolver.ObjectResolver
	fonts   *font.Resolver
	interp  *text.Interpreter

	// page is the context of the page most recently extracted.
	page   *text.Context
	closed bool
}

// New creates an Extractor over an already open reader. The caller keeps
// ownership of r; Close does not close it.
func New(r *reader.Reader, opts ...Option) (*Extractor, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return newExtractor(r, false, o), nil
}

// Open opens the PDF at path read-only. Close closes the file.
func Open(path string, opts ...Option) (*Extractor, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	r, err := reader.Open(path, reader.WithMaxResolveDepth(o.cfg.MaxResolveDepth))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return newExtractor(r, true, o), nil
}

func newExtractor(r *reader.Reader, owns bool, o options) *Extractor {
	objects := resolver.NewResolver(r, resolver.WithMaxDepth(o.cfg.MaxResolveDepth))
	return &Extractor{
		reader:     r,
		ownsReader: owns,
		log:        o.log,
		tracer:     o.tracer.Tracer(tracerName),
		objects:    objects,
		fonts:      font.NewResolver(objects, o.log),
		interp: text.NewInterpreter(
			text.WithLogger(o.log),
			text.WithSpaceThreshold(o.cfg.SpaceThreshold),
			text.WithSpacingRule(o.cfg.SpacingRule),
		),
		page: text.NewContext(nil),
	}
}

// PageCount returns the number of pages in the document.
func (e *Extractor) PageCount() (int, error) {
	if e.closed {
		return 0, ErrClosed
	}
	return e.reader.PageCount()
}

// PageText returns the text of page n (1-based) followed by a line break.
// If the page fails part way, the text produced before the failure is
// returned together with the error.
func (e *Extractor) PageText(n int) (string, error) {
	return e.PageTextContext(context.Background(), n)
}

// PageTextContext is PageText with a context for tracing.
func (e *Extractor) PageTextContext(ctx context.Context, n int) (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	count, err := e.reader.PageCount()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if n < 1 || n > count {
		return "", fmt.Errorf("page %d of %d: %w", n, count, ErrPageOutOfRange)
	}
	s, err := e.pageText(ctx, n)
	if err != nil {
		return s, fmt.Errorf("page %d: %w", n, err)
	}
	return s, nil
}

// Text returns the text of every page in order. A page that fails
// contributes its partial text and a Warning; only a document that cannot
// be read at all returns an error.
func (e *Extractor) Text() (string, []Warning, error) {
	return e.TextContext(context.Background())
}

// TextContext is Text with a context. Cancellation is checked between
// pages.
func (e *Extractor) TextContext(ctx context.Context) (string, []Warning, error) {
	if e.closed {
		return "", nil, ErrClosed
	}
	ctx, span := e.tracer.Start(ctx, "pdftext.document")
	defer span.End()

	count, err := e.reader.PageCount()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", nil, fmt.Errorf("failed to get page count: %w", err)
	}
	span.SetAttributes(attribute.Int("pdf.pages", count))

	var sb strings.Builder
	var warnings []Warning
	for n := 1; n <= count; n++ {
		if err := ctx.Err(); err != nil {
			return sb.String(), warnings, err
		}
		s, err := e.pageText(ctx, n)
		sb.WriteString(s)
		if err != nil {
			e.log.Error("page extraction failed", "page", n, "error", err)
			warnings = append(warnings, Warning{Page: n, Err: err})
		}
	}
	span.SetAttributes(attribute.Int("pdf.warnings", len(warnings)))
	return sb.String(), warnings, nil
}

// pageText extracts page n, already known to be in range. The page font
// table is rebuilt from scratch every time.
func (e *Extractor) pageText(ctx context.Context, n int) (string, error) {
	_, span := e.tracer.Start(ctx, "pdftext.page", trace.WithAttributes(attribute.Int("pdf.page", n)))
	defer span.End()

	s, err := e.runPage(n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return s + "\n", err
}

func (e *Extractor) runPage(n int) (string, error) {
	e.page.Reset()

	page, err := e.reader.Page(n - 1)
	if err != nil {
		return "", err
	}
	resources, err := page.FontResources()
	if err != nil {
		return "", err
	}
	e.page = text.NewContext(text.BuildFontTable(resources, e.objects, e.fonts))

	data, contentErr := e.reader.PageContent(page)
	ops, parseErr := contentstream.Parse(data)
	s, err := e.interp.Run(ops, e.page)
	switch {
	case err != nil:
		return s, err
	case contentErr != nil:
		return s, contentErr
	case parseErr != nil:
		return s, fmt.Errorf("parse content stream: %w", parseErr)
	}
	return s, nil
}

// Close drops the page state and closes the reader if the Extractor
// opened it. It is safe to call Close more than once.
func (e *Extractor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.page.Reset()
	if e.ownsReader {
		return e.reader.Close()
	}
	return nil
}
