// Package pdftest builds small PDF files in memory for tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Builder accumulates indirect objects and serialises them with a correct
// cross-reference section.
type Builder struct {
	objects map[int]string
	next    int
}

// New returns an empty builder. Object numbers start at 1.
func New() *Builder {
	return &Builder{objects: make(map[int]string), next: 1}
}

// Reserve allocates an object number to be filled in later with Set.
func (b *Builder) Reserve() int {
	n := b.next
	b.next++
	return n
}

// Set stores body as object num.
func (b *Builder) Set(num int, body string) {
	b.objects[num] = body
	if num >= b.next {
		b.next = num + 1
	}
}

// Add stores body as a new object and returns its number.
func (b *Builder) Add(body string) int {
	n := b.Reserve()
	b.objects[n] = body
	return n
}

// AddStream stores a stream object. dict holds extra dictionary entries
// without the surrounding << >>; /Length is added.
func (b *Builder) AddStream(dict string, data []byte) int {
	return b.Add(streamBody(dict, data))
}

// AddFlateStream stores data compressed with FlateDecode.
func (b *Builder) AddFlateStream(dict string, data []byte) int {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return b.AddStream(strings.TrimSpace(dict+" /Filter /FlateDecode"), buf.Bytes())
}

func streamBody(dict string, data []byte) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

// Ref formats an indirect reference to num.
func Ref(num int) string {
	return fmt.Sprintf("%d 0 R", num)
}

func (b *Builder) numbers() []int {
	nums := make([]int, 0, len(b.objects))
	for n := range b.objects {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

func (b *Builder) body() (*bytes.Buffer, map[int]int) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	offsets := make(map[int]int)
	for _, n := range b.numbers() {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, b.objects[n])
	}
	return &buf, offsets
}

// Bytes serialises the file with a classic xref table and a trailer whose
// /Root is object root.
func (b *Builder) Bytes(root int) []byte {
	buf, offsets := b.body()
	size := b.next

	xref := buf.Len()
	fmt.Fprintf(buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for n := 1; n < size; n++ {
		if off, ok := offsets[n]; ok {
			fmt.Fprintf(buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 00000 f \n")
		}
	}
	fmt.Fprintf(buf, "trailer\n<< /Size %d /Root %s >>\nstartxref\n%d\n%%%%EOF\n", size, Ref(root), xref)
	return buf.Bytes()
}

// BytesWithXRefStream serialises the file with a PDF 1.5 cross-reference
// stream instead of a table.
func (b *Builder) BytesWithXRefStream(root int) []byte {
	buf, offsets := b.body()
	xrefNum := b.next
	size := xrefNum + 1
	xref := buf.Len()
	offsets[xrefNum] = xref

	var rows bytes.Buffer
	for n := 0; n < size; n++ {
		off, ok := offsets[n]
		if !ok {
			rows.Write([]byte{0, 0, 0, 0, 0, 0xff, 0xff})
			continue
		}
		rows.WriteByte(1)
		binary.Write(&rows, binary.BigEndian, uint32(off))
		rows.Write([]byte{0, 0})
	}
	dict := fmt.Sprintf("/Type /XRef /Size %d /W [1 4 2] /Root %s", size, Ref(root))
	fmt.Fprintf(buf, "%d 0 obj\n%s\nendobj\n", xrefNum, streamBody(dict, rows.Bytes()))
	fmt.Fprintf(buf, "startxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// Page describes one page for Document.
type Page struct {
	// Content is the raw page content stream.
	Content string
	// Fonts maps resource names to font dictionary bodies. Each is stored
	// as its own indirect object.
	Fonts map[string]string
}

// Document builds a complete file with one page per entry.
func Document(pages ...Page) []byte {
	b := New()
	catalog := b.Reserve()
	pagesNum := b.Reserve()

	kids := make([]string, 0, len(pages))
	for _, p := range pages {
		names := make([]string, 0, len(p.Fonts))
		for name := range p.Fonts {
			names = append(names, name)
		}
		sort.Strings(names)

		var fonts strings.Builder
		for _, name := range names {
			fmt.Fprintf(&fonts, "/%s %s ", name, Ref(b.Add(p.Fonts[name])))
		}
		content := b.AddStream("", []byte(p.Content))
		page := b.Add(fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 612 792] /Resources << /Font << %s>> >> /Contents %s >>",
			Ref(pagesNum), fonts.String(), Ref(content)))
		kids = append(kids, Ref(page))
	}

	b.Set(pagesNum, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", Ref(pagesNum)))
	return b.Bytes(catalog)
}

// WriteFile writes data to a temporary file and returns its path.
func WriteFile(tb testing.TB, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "test.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
