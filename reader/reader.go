package reader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"sync"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/pages"
	"github.com/tsawler/pdftext/resolver"
)

// PDFVersion is the version from the file header.
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as "major.minor".
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader gives random access to the objects and pages of a PDF file.
// Object loading is safe for concurrent use.
type Reader struct {
	file     *os.File
	src      io.ReaderAt
	size     int64
	version  PDFVersion
	xref     *core.XRefTable
	repaired bool
	resolver *resolver.ObjectResolver

	mu      sync.Mutex
	cache   map[int]core.Object
	objStms map[int]*core.ObjectStream
	tree    *pages.PageTree
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxResolveDepth bounds how deep indirect references are followed.
func WithMaxResolveDepth(depth int) Option {
	return func(r *Reader) {
		r.resolver = resolver.NewResolver(r, resolver.WithMaxDepth(depth))
	}
}

// Open opens the named file read-only.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewReader reads a PDF from an open file. Close closes the file.
func NewReader(f *os.File, opts ...Option) (*Reader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	r, err := NewReaderAt(f, info.Size(), opts...)
	if err != nil {
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReaderAt reads a PDF of size bytes from src.
func NewReaderAt(src io.ReaderAt, size int64, opts ...Option) (*Reader, error) {
	r := &Reader{
		src:     src,
		size:    size,
		cache:   make(map[int]core.Object),
		objStms: make(map[int]*core.ObjectStream),
	}
	r.resolver = resolver.NewResolver(r)
	for _, opt := range opts {
		opt(r)
	}

	version, err := r.parseHeader()
	if err != nil {
		return nil, err
	}
	r.version = version

	xref, err := core.NewXRefParser(src, size).ParseAll()
	if err != nil || !xref.Trailer.Has("Root") {
		xref, err = r.reconstruct()
		if err != nil {
			return nil, fmt.Errorf("load cross-reference table: %w", err)
		}
		r.repaired = true
	}
	r.xref = xref
	return r, nil
}

// Close closes the underlying file, if the reader owns one.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

var headerPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// parseHeader finds %PDF-x.y in the first kilobyte. Leading garbage before
// the header is tolerated.
func (r *Reader) parseHeader() (PDFVersion, error) {
	buf := make([]byte, 1024)
	n, err := r.src.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return PDFVersion{}, fmt.Errorf("read header: %w", err)
	}
	m := headerPattern.FindSubmatch(buf[:n])
	if m == nil {
		return PDFVersion{}, fmt.Errorf("not a PDF file: missing %%PDF- header")
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Version returns the header version.
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the merged trailer dictionary.
func (r *Reader) Trailer() core.Dict {
	return r.xref.Trailer
}

// Repaired reports whether the cross-reference table had to be rebuilt by
// scanning the file.
func (r *Reader) Repaired() bool {
	return r.repaired
}

// NumObjects returns the number of cross-reference entries.
func (r *Reader) NumObjects() int {
	return r.xref.Size()
}

// Resolver returns the reference resolver bound to this reader.
func (r *Reader) Resolver() *resolver.ObjectResolver {
	return r.resolver
}

// GetObject loads object num. Free and missing objects read as null.
func (r *Reader) GetObject(num int) (core.Object, error) {
	r.mu.Lock()
	if obj, ok := r.cache[num]; ok {
		r.mu.Unlock()
		return obj, nil
	}
	r.mu.Unlock()

	entry, ok := r.xref.Get(num)
	if !ok {
		return core.Null{}, nil
	}

	var obj core.Object
	var err error
	switch entry.Type {
	case core.XRefFree:
		return core.Null{}, nil
	case core.XRefInUse:
		obj, err = r.readAt(num, entry.Offset)
	case core.XRefCompressed:
		obj, err = r.readCompressed(num, entry)
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[num] = obj
	r.mu.Unlock()
	return obj, nil
}

// ResolveReference implements resolver.ObjectReader and core.ReferenceResolver.
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve follows obj to a direct object. It implements pages.ObjectResolver.
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	return r.resolver.Resolve(obj)
}

func (r *Reader) readAt(num int, offset int64) (core.Object, error) {
	if offset < 0 || offset >= r.size {
		return nil, fmt.Errorf("object %d: offset %d outside file", num, offset)
	}
	parser := core.NewParser(io.NewSectionReader(r.src, offset, r.size-offset))
	parser.SetReferenceResolver(lengthResolver{r: r, self: num})
	ind, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}
	if ind.Ref.Number != num {
		return nil, fmt.Errorf("object %d: found object %d at offset %d", num, ind.Ref.Number, offset)
	}
	return ind.Object, nil
}

func (r *Reader) readCompressed(num int, entry core.XRefEntry) (core.Object, error) {
	stm, err := r.objectStream(entry.StreamNumber)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}
	obj, err := stm.Object(num, entry.Index)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}
	return obj, nil
}

func (r *Reader) objectStream(num int) (*core.ObjectStream, error) {
	r.mu.Lock()
	stm, ok := r.objStms[num]
	r.mu.Unlock()
	if ok {
		return stm, nil
	}

	entry, ok := r.xref.Get(num)
	if !ok || entry.Type != core.XRefInUse {
		return nil, fmt.Errorf("object stream %d not found", num)
	}
	obj, err := r.readAt(num, entry.Offset)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is %s", num, obj.Type())
	}
	stm, err = core.NewObjectStream(stream)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", num, err)
	}

	r.mu.Lock()
	r.objStms[num] = stm
	r.mu.Unlock()
	return stm, nil
}

// lengthResolver resolves a stream's indirect /Length while that stream is
// being parsed, refusing to recurse into the stream itself.
type lengthResolver struct {
	r    *Reader
	self int
}

func (l lengthResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	if ref.Number == l.self {
		return nil, fmt.Errorf("stream /Length refers to its own object")
	}
	return l.r.GetObject(ref.Number)
}

// Catalog returns the document catalog.
func (r *Reader) Catalog() (core.Dict, error) {
	root := r.xref.Trailer.Get("Root")
	if root == nil {
		return nil, fmt.Errorf("trailer has no /Root")
	}
	catalog, ok := r.resolver.Dict(root)
	if !ok {
		return nil, fmt.Errorf("/Root is not a dictionary")
	}
	return catalog, nil
}

// Info returns the document information dictionary, or nil when absent.
func (r *Reader) Info() core.Dict {
	info, _ := r.resolver.Dict(r.xref.Trailer.Get("Info"))
	return info
}

func (r *Reader) pageTree() (*pages.PageTree, error) {
	r.mu.Lock()
	tree := r.tree
	r.mu.Unlock()
	if tree != nil {
		return tree, nil
	}

	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	root, ok := r.resolver.Dict(catalog.Get("Pages"))
	if !ok {
		return nil, fmt.Errorf("catalog /Pages is not a dictionary")
	}
	tree = pages.NewPageTree(root, r)

	r.mu.Lock()
	r.tree = tree
	r.mu.Unlock()
	return tree, nil
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() (int, error) {
	tree, err := r.pageTree()
	if err != nil {
		return 0, err
	}
	return tree.Count()
}

// Page returns the page at index (0-based).
func (r *Reader) Page(index int) (*pages.Page, error) {
	tree, err := r.pageTree()
	if err != nil {
		return nil, err
	}
	return tree.GetPage(index)
}

// PageContent returns the decoded content streams of page joined in order.
// Streams are separated by a newline so tokens never run together.
func (r *Reader) PageContent(page *pages.Page) ([]byte, error) {
	streams, err := page.Contents()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for i, s := range streams {
		data, err := s.Decode()
		if err != nil {
			return buf.Bytes(), fmt.Errorf("content stream %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}
