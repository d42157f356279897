package reader

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/internal/pdftest"
)

func newReader(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return r
}

func twoPageDocument() []byte {
	font := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"
	return pdftest.Document(
		pdftest.Page{Content: "BT /F1 12 Tf (One) Tj ET", Fonts: map[string]string{"F1": font}},
		pdftest.Page{Content: "BT /F1 12 Tf (Two) Tj ET", Fonts: map[string]string{"F1": font}},
	)
}

func TestOpen(t *testing.T) {
	path := pdftest.WriteFile(t, twoPageDocument())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "1.7", r.Version().String())
	assert.False(t, r.Repaired())

	count, err := r.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOpenNonExistent(t *testing.T) {
	_, err := Open("/nonexistent/file.pdf")
	assert.Error(t, err)
}

func TestCloseIdempotent(t *testing.T) {
	r, err := Open(pdftest.WriteFile(t, twoPageDocument()))
	require.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestNotAPDF(t *testing.T) {
	data := []byte("hello, world")
	_, err := NewReaderAt(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestParseHeaderWithLeadingGarbage(t *testing.T) {
	data := append([]byte("garbage\n"), twoPageDocument()...)
	// offsets are now off by eight bytes, so the repair path is taken
	r := newReader(t, data)
	assert.Equal(t, PDFVersion{Major: 1, Minor: 7}, r.Version())
	assert.True(t, r.Repaired())

	count, err := r.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestGetObject(t *testing.T) {
	b := pdftest.New()
	num := b.Add("<< /Answer 42 >>")
	catalog := b.Add("<< /Type /Catalog /Pages << /Type /Pages /Kids [] >> >>")
	r := newReader(t, b.Bytes(catalog))

	obj, err := r.GetObject(num)
	require.NoError(t, err)
	dict, ok := obj.(core.Dict)
	require.True(t, ok)
	assert.Equal(t, core.Int(42), dict.Get("Answer"))

	again, err := r.GetObject(num)
	require.NoError(t, err)
	assert.Equal(t, obj, again)

	missing, err := r.GetObject(99)
	require.NoError(t, err)
	assert.Equal(t, core.Null{}, missing)
}

func TestIndirectStreamLength(t *testing.T) {
	b := pdftest.New()
	length := b.Reserve()
	stream := b.Add(fmt.Sprintf("<< /Length %s >>\nstream\nBT ET\nendstream", pdftest.Ref(length)))
	b.Set(length, "5")
	catalog := b.Add("<< /Type /Catalog /Pages << /Type /Pages /Kids [] >> >>")
	r := newReader(t, b.Bytes(catalog))

	obj, err := r.GetObject(stream)
	require.NoError(t, err)
	s, ok := obj.(*core.Stream)
	require.True(t, ok)
	assert.Equal(t, "BT ET", string(s.Data))
}

func TestXRefStream(t *testing.T) {
	b := pdftest.New()
	catalog := b.Reserve()
	pagesNum := b.Reserve()
	content := b.AddFlateStream("", []byte("BT (x) Tj ET"))
	page := b.Add(fmt.Sprintf("<< /Type /Page /Parent %s /Contents %s >>", pdftest.Ref(pagesNum), pdftest.Ref(content)))
	b.Set(pagesNum, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", pdftest.Ref(page)))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", pdftest.Ref(pagesNum)))

	r := newReader(t, b.BytesWithXRefStream(catalog))
	assert.False(t, r.Repaired())

	p, err := r.Page(0)
	require.NoError(t, err)
	data, err := r.PageContent(p)
	require.NoError(t, err)
	assert.Equal(t, "BT (x) Tj ET", string(data))
}

func TestRepairBrokenStartXRef(t *testing.T) {
	data := twoPageDocument()
	idx := bytes.LastIndex(data, []byte("startxref"))
	broken := append(append([]byte{}, data[:idx]...), []byte("startxref\n999999\n%%EOF\n")...)

	r := newReader(t, broken)
	assert.True(t, r.Repaired())

	p, err := r.Page(1)
	require.NoError(t, err)
	content, err := r.PageContent(p)
	require.NoError(t, err)
	assert.Contains(t, string(content), "(Two)")
}

func TestRepairFindsCatalogWithoutTrailer(t *testing.T) {
	data := twoPageDocument()
	idx := bytes.Index(data, []byte("xref\n"))
	r := newReader(t, data[:idx])
	assert.True(t, r.Repaired())

	count, err := r.PageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPageContentConcatenates(t *testing.T) {
	b := pdftest.New()
	catalog := b.Reserve()
	pagesNum := b.Reserve()
	c1 := b.AddStream("", []byte("BT (a) Tj"))
	c2 := b.AddFlateStream("", []byte("(b) Tj ET"))
	page := b.Add(fmt.Sprintf("<< /Type /Page /Parent %s /Contents [%s %s] >>",
		pdftest.Ref(pagesNum), pdftest.Ref(c1), pdftest.Ref(c2)))
	b.Set(pagesNum, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count 1 >>", pdftest.Ref(page)))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", pdftest.Ref(pagesNum)))

	r := newReader(t, b.Bytes(catalog))
	p, err := r.Page(0)
	require.NoError(t, err)
	data, err := r.PageContent(p)
	require.NoError(t, err)
	assert.Equal(t, "BT (a) Tj\n(b) Tj ET", string(data))
}

func TestPageOutOfRange(t *testing.T) {
	r := newReader(t, twoPageDocument())
	_, err := r.Page(2)
	assert.Error(t, err)
}

func TestCatalogAndInfo(t *testing.T) {
	r := newReader(t, twoPageDocument())
	catalog, err := r.Catalog()
	require.NoError(t, err)
	typ, _ := catalog.GetName("Type")
	assert.Equal(t, core.Name("Catalog"), typ)
	assert.Nil(t, r.Info())
	assert.True(t, r.Trailer().Has("Root"))
	assert.Greater(t, r.NumObjects(), 0)
}

func TestConcurrentObjectLoads(t *testing.T) {
	r := newReader(t, twoPageDocument())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 1; n <= r.NumObjects(); n++ {
				_, err := r.GetObject(n)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func TestWithMaxResolveDepth(t *testing.T) {
	b := pdftest.New()
	first := b.Reserve()
	second := b.Add(pdftest.Ref(first))
	b.Set(first, pdftest.Ref(second))
	catalog := b.Add("<< /Type /Catalog /Pages << /Type /Pages /Kids [] >> >>")

	data := b.Bytes(catalog)
	r, err := NewReaderAt(bytes.NewReader(data), int64(len(data)), WithMaxResolveDepth(3))
	require.NoError(t, err)
	_, err = r.Resolve(core.IndirectRef{Number: first})
	assert.Error(t, err)
}
