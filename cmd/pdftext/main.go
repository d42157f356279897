// Command pdftext prints the text of PDF files.
//
//	pdftext [-page N] [-workers N] [-info] [-v] file.pdf...
//
// With several files each one is preceded by a "==> name <==" header.
// Pages that could not be extracted completely are reported on stderr.
// With -info the version, object count and document information entries
// are printed instead of the text.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/pdftext"
	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/reader"
)

func main() {
	pageNum := flag.Int("page", 0, "Page number to print (1-based, 0 for all pages)")
	workers := flag.Int("workers", 4, "Number of files extracted at once")
	info := flag.Bool("info", false, "Print document information instead of text")
	verbose := flag.Bool("v", false, "Log decoding diagnostics to stderr")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] file.pdf...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := pdftext.NewDefaultConfig()
	cfg.Workers = *workers
	opts := []pdftext.Option{pdftext.WithConfig(*cfg), pdftext.WithLogger(logger)}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case *info:
		err = printInfo(flag.Args(), cfg.MaxResolveDepth)
	case *pageNum > 0:
		err = printPage(flag.Args(), *pageNum, opts)
	default:
		err = printAll(ctx, flag.Args(), opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printPage(paths []string, n int, opts []pdftext.Option) error {
	failed := false
	for _, path := range paths {
		ex, err := pdftext.Open(path, opts...)
		if err != nil {
			return err
		}
		s, err := ex.PageText(n)
		ex.Close()

		header(paths, path)
		fmt.Print(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("some pages could not be extracted")
	}
	return nil
}

func printAll(ctx context.Context, paths []string, opts []pdftext.Option) error {
	results, err := pdftext.GetTextAll(ctx, paths, opts...)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Path, res.Err)
			failed++
			continue
		}
		header(paths, res.Path)
		fmt.Print(res.Text)
		if len(res.Warnings) > 0 {
			fmt.Fprintf(os.Stderr, "%s:\n%s\n", res.Path, pdftext.FormatWarnings(res.Warnings))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func printInfo(paths []string, maxDepth int) error {
	for _, path := range paths {
		r, err := reader.Open(path, reader.WithMaxResolveDepth(maxDepth))
		if err != nil {
			return err
		}
		header(paths, path)
		fmt.Printf("Version: %s\n", r.Version())
		fmt.Printf("Objects: %d\n", r.NumObjects())
		if r.Repaired() {
			fmt.Println("Repaired: yes")
		}
		if count, err := r.PageCount(); err == nil {
			fmt.Printf("Pages: %d\n", count)
		}

		info := r.Info()
		keys := info.Keys()
		sort.Strings(keys)
		for _, key := range keys {
			value, err := r.Resolve(info.Get(key))
			if err != nil {
				continue
			}
			fmt.Printf("%s: %s\n", key, infoValue(value))
		}
		r.Close()
	}
	return nil
}

var utf16 = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)

// infoValue renders an information entry, decoding UTF-16 text strings.
func infoValue(obj core.Object) string {
	s, ok := obj.(core.String)
	if !ok {
		return obj.String()
	}
	if strings.HasPrefix(string(s), "\xfe\xff") {
		if text, err := utf16.NewDecoder().String(string(s)); err == nil {
			return text
		}
	}
	return string(s)
}

func header(paths []string, path string) {
	if len(paths) > 1 {
		fmt.Printf("==> %s <==\n", path)
	}
}
