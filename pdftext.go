// Package pdftext extracts the Unicode text of PDF documents.
//
// Text is decoded through each font's /ToUnicode CMap or built-in
// encoding. Word and line breaks are approximated from the text operators;
// no layout analysis is done.
//
// Basic usage:
//
//	text, warnings, err := pdftext.GetText("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdftext.FormatWarnings(warnings))
//	}
//
// Page by page:
//
//	ex, err := pdftext.Open("report.pdf", pdftext.WithLogger(logger))
//	if err != nil {
//	    // handle error
//	}
//	defer ex.Close()
//	first, err := ex.PageText(1)
//
// For lower-level access to objects and pages, use the reader package.
package pdftext

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of extracting one document.
type Result struct {
	Path     string
	Text     string
	Warnings []Warning
	Err      error
}

// GetText opens the PDF at path, extracts the text of every page and
// closes it.
func GetText(path string, opts ...Option) (string, []Warning, error) {
	return getText(context.Background(), path, opts)
}

func getText(ctx context.Context, path string, opts []Option) (string, []Warning, error) {
	ex, err := Open(path, opts...)
	if err != nil {
		return "", nil, err
	}
	defer ex.Close()
	return ex.TextContext(ctx)
}

// GetTextAsync runs GetText on its own goroutine. The channel receives
// exactly one Result and is then closed.
func GetTextAsync(ctx context.Context, path string, opts ...Option) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		s, warnings, err := getText(ctx, path, opts)
		ch <- Result{Path: path, Text: s, Warnings: warnings, Err: err}
	}()
	return ch
}

// GetTextAll extracts several documents concurrently, at most
// Config.Workers at a time, each with its own Extractor. Results are in
// the order of paths. A failing document is reported in its Result and
// does not stop the others; the returned error is only set when the
// configuration is invalid or ctx is done.
func GetTextAll(ctx context.Context, paths []string, opts ...Option) ([]Result, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			s, warnings, err := getText(gctx, path, opts)
			results[i] = Result{Path: path, Text: s, Warnings: warnings, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// MustText wraps a call returning text, warnings and an error and panics
// if the error is non-nil. Warnings are discarded. It is intended for
// scripts and tests.
//
//	text := pdftext.MustText(pdftext.GetText("document.pdf"))
func MustText(text string, _ []Warning, err error) string {
	if err != nil {
		panic(err)
	}
	return text
}
