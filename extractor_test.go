package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tsawler/pdftext/internal/pdftest"
	"github.com/tsawler/pdftext/reader"
	"github.com/tsawler/pdftext/text"
)

const helvetica = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

// threePages has a good page, a page whose Tf names a missing font, and a
// page using the single-quote operator.
func threePages(t *testing.T) string {
	t.Helper()
	fonts := map[string]string{"F1": helvetica}
	return pdftest.WriteFile(t, pdftest.Document(
		pdftest.Page{Content: "BT /F1 12 Tf (Hello) Tj 1 0 0 1 72 700 Tm (World) Tj ET", Fonts: fonts},
		pdftest.Page{Content: "BT /F1 12 Tf (Before) Tj /F9 12 Tf (After) Tj ET", Fonts: fonts},
		pdftest.Page{Content: "BT /F1 12 Tf (Third) ' ET", Fonts: fonts},
	))
}

// toUnicodeDocument has one page shown through a two-byte font whose
// compressed /ToUnicode CMap maps 1 and 2 to "H" and "i".
func toUnicodeDocument(t *testing.T) string {
	t.Helper()
	b := pdftest.New()
	catalog := b.Reserve()
	pagesNum := b.Reserve()
	cmap := b.AddFlateStream("", []byte("/CIDInit /ProcSet findresource begin\nbegincmap\n2 beginbfchar\n<0001> <0048>\n<0002> <0069>\nendbfchar\nendcmap"))
	fnt := b.Add(fmt.Sprintf("<< /Type /Font /Subtype /Type0 /BaseFont /ABCDEF+Noto /Encoding /Identity-H /ToUnicode %s >>", pdftest.Ref(cmap)))
	content := b.AddStream("", []byte("BT /F1 10 Tf <00010002> Tj ET"))
	page := b.Add(fmt.Sprintf("<< /Type /Page /Parent %s /Resources << /Font << /F1 %s >> >> /Contents %s >>",
		pdftest.Ref(pagesNum), pdftest.Ref(fnt), pdftest.Ref(content)))
	b.Set(pagesNum, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", pdftest.Ref(page)))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", pdftest.Ref(pagesNum)))
	return pdftest.WriteFile(t, b.Bytes(catalog))
}

func TestExtractorText(t *testing.T) {
	ex, err := Open(threePages(t))
	require.NoError(t, err)
	defer ex.Close()

	got, warnings, err := ex.Text()
	require.NoError(t, err)
	assert.Equal(t, "Hello World\nBefore\n\nThird\n", got)

	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Page)
	assert.ErrorIs(t, warnings[0].Err, text.ErrUnknownFont)
	assert.ErrorIs(t, warnings[0], text.ErrUnknownFont)
}

func TestExtractorPageText(t *testing.T) {
	ex, err := Open(threePages(t))
	require.NoError(t, err)
	defer ex.Close()

	count, err := ex.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := ex.PageText(1)
	require.NoError(t, err)
	assert.Equal(t, "Hello World\n", got)

	got, err = ex.PageText(2)
	assert.ErrorIs(t, err, text.ErrUnknownFont)
	assert.Equal(t, "Before\n", got, "a failed page keeps its partial text")

	// page 3 does not inherit the font selected on page 1
	got, err = ex.PageText(3)
	require.NoError(t, err)
	assert.Equal(t, "\nThird\n", got)
}

func TestExtractorPageOutOfRange(t *testing.T) {
	ex, err := Open(threePages(t))
	require.NoError(t, err)
	defer ex.Close()

	for _, n := range []int{0, -1, 4} {
		got, err := ex.PageText(n)
		assert.ErrorIs(t, err, ErrPageOutOfRange, "page %d", n)
		assert.Empty(t, got)
	}
}

func TestExtractorToUnicode(t *testing.T) {
	got, warnings, err := GetText(toUnicodeDocument(t))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Hi\n", got)
}

func TestExtractorShowBeforeFont(t *testing.T) {
	path := pdftest.WriteFile(t, pdftest.Document(
		pdftest.Page{Content: "BT (early) Tj /F1 12 Tf (late) Tj ET", Fonts: map[string]string{"F1": helvetica}},
		pdftest.Page{Content: "BT /F1 12 Tf (next) Tj ET", Fonts: map[string]string{"F1": helvetica}},
	))

	got, warnings, err := GetText(path)
	require.NoError(t, err)
	assert.Equal(t, "\nnext\n", got)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, text.ErrNoFont)
}

func TestExtractorSkipsNonDictionaryFonts(t *testing.T) {
	path := pdftest.WriteFile(t, pdftest.Document(pdftest.Page{
		Content: "BT /F1 12 Tf (ok) Tj /F2 12 Tf (bad) Tj ET",
		Fonts:   map[string]string{"F1": helvetica, "F2": "42"},
	}))

	got, warnings, err := GetText(path)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", got)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, text.ErrUnknownFont)
}

func TestExtractorPageWithNonDictionaryFontEntry(t *testing.T) {
	b := pdftest.New()
	catalog := b.Reserve()
	pagesNum := b.Reserve()
	content := b.AddStream("", []byte("q 1 0 0 1 72 72 cm 0 0 m 10 10 l S Q"))
	page := b.Add(fmt.Sprintf("<< /Type /Page /Parent %s /Resources << /Font 5 >> /Contents %s >>",
		pdftest.Ref(pagesNum), pdftest.Ref(content)))
	b.Set(pagesNum, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", pdftest.Ref(page)))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", pdftest.Ref(pagesNum)))

	got, warnings, err := GetText(pdftest.WriteFile(t, b.Bytes(catalog)))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "\n", got)
}

func TestExtractorSpacingConfig(t *testing.T) {
	path := pdftest.WriteFile(t, pdftest.Document(pdftest.Page{
		Content: "BT /F1 12 Tf [(Hello) -900 (World)] TJ [(a) 900 (b)] TJ ET",
		Fonts:   map[string]string{"F1": helvetica},
	}))

	got, _, err := GetText(path)
	require.NoError(t, err)
	assert.Equal(t, "HelloWorldab\n", got)

	cfg := *NewDefaultConfig()
	cfg.SpacingRule = text.SpacingArray
	got, _, err = GetText(path, WithConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, "HelloWorlda b\n", got)
}

func TestNewWithOpenReader(t *testing.T) {
	r, err := reader.Open(threePages(t))
	require.NoError(t, err)
	defer r.Close()

	ex, err := New(r)
	require.NoError(t, err)
	got, err := ex.PageText(1)
	require.NoError(t, err)
	assert.Equal(t, "Hello World\n", got)

	require.NoError(t, ex.Close())
	require.NoError(t, ex.Close(), "Close is idempotent")
	_, err = ex.PageText(1)
	assert.ErrorIs(t, err, ErrClosed)

	// the caller still owns the reader
	count, err := r.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestExtractorLogsPageFailures(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	_, warnings, err := GetText(threePages(t), WithLogger(log))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, logs.String(), "page extraction failed")
	assert.Contains(t, logs.String(), "page=2")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("nonexistent.pdf")
	assert.Error(t, err)

	_, _, err = GetText("nonexistent.pdf")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	cfg := *NewDefaultConfig()
	cfg.SpacingRule = "sometimes"
	_, err := Open(threePages(t), WithConfig(cfg))
	assert.Error(t, err)
}

func TestExtractorsAreIndependent(t *testing.T) {
	paths := []string{threePages(t), toUnicodeDocument(t)}
	want := []string{"Hello World\nBefore\n\nThird\n", "Hi\n"}

	var wg sync.WaitGroup
	got := make([]string, len(paths))
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex, err := Open(path)
			if err != nil {
				return
			}
			defer ex.Close()
			got[i], _, _ = ex.Text()
		}()
	}
	wg.Wait()
	assert.Equal(t, want, got)
}

// spanRecorder is a TracerProvider that remembers span names and the
// spans that ended in error.
type spanRecorder struct {
	embedded.TracerProvider

	mu     sync.Mutex
	names  []string
	failed []string
}

func (r *spanRecorder) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recordingTracer{rec: r}
}

type recordingTracer struct {
	embedded.Tracer
	rec *spanRecorder
}

func (t recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.rec.mu.Lock()
	t.rec.names = append(t.rec.names, name)
	t.rec.mu.Unlock()
	ctx, span := noop.NewTracerProvider().Tracer("").Start(ctx, name, opts...)
	return ctx, &recordingSpan{Span: span, rec: t.rec, name: name}
}

type recordingSpan struct {
	trace.Span
	rec  *spanRecorder
	name string
}

func (s *recordingSpan) SetStatus(code codes.Code, desc string) {
	if code == codes.Error {
		s.rec.mu.Lock()
		s.rec.failed = append(s.rec.failed, s.name)
		s.rec.mu.Unlock()
	}
}

func TestExtractorSpans(t *testing.T) {
	rec := &spanRecorder{}
	_, _, err := GetText(threePages(t), WithTracerProvider(rec))
	require.NoError(t, err)

	assert.Equal(t, []string{"pdftext.document", "pdftext.page", "pdftext.page", "pdftext.page"}, rec.names)
	assert.Equal(t, []string{"pdftext.page"}, rec.failed)
}
