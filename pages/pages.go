package pages

import (
	"fmt"

	"github.com/tsawler/pdftext/core"
)

// ObjectResolver resolves indirect references for the page tree.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// PageTree is the flattened list of leaf pages under a /Pages root.
type PageTree struct {
	root     core.Dict
	resolver ObjectResolver
	pages    []*Page
}

// NewPageTree creates a page tree rooted at the catalog's /Pages dictionary.
func NewPageTree(root core.Dict, resolver ObjectResolver) *PageTree {
	return &PageTree{root: root, resolver: resolver}
}

// Count returns the number of leaf pages found by walking the tree. The
// root's /Count is not trusted since damaged files often get it wrong.
func (t *PageTree) Count() (int, error) {
	if err := t.load(); err != nil {
		return 0, err
	}
	return len(t.pages), nil
}

// GetPage returns the page at index (0-based).
func (t *PageTree) GetPage(index int) (*Page, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(t.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(t.pages))
	}
	return t.pages[index], nil
}

// Pages returns all pages in document order.
func (t *PageTree) Pages() ([]*Page, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	return t.pages, nil
}

// inherited carries the attributes a page may take from its ancestors.
type inherited struct {
	resources core.Object
	mediaBox  core.Object
	rotate    core.Object
}

func (in inherited) merge(node core.Dict) inherited {
	if v := node.Get("Resources"); v != nil {
		in.resources = v
	}
	if v := node.Get("MediaBox"); v != nil {
		in.mediaBox = v
	}
	if v := node.Get("Rotate"); v != nil {
		in.rotate = v
	}
	return in
}

func (t *PageTree) load() error {
	if t.pages != nil {
		return nil
	}
	pages := make([]*Page, 0)
	seen := make(map[core.IndirectRef]bool)
	if err := t.walk(t.root, inherited{}, seen, &pages, 0); err != nil {
		return fmt.Errorf("page tree: %w", err)
	}
	t.pages = pages
	return nil
}

const maxTreeDepth = 64

func (t *PageTree) walk(node core.Dict, in inherited, seen map[core.IndirectRef]bool, out *[]*Page, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}
	in = in.merge(node)

	typ, _ := node.GetName("Type")
	kidsObj := node.Get("Kids")
	// a missing /Type is tolerated: nodes with /Kids are intermediate
	if typ == "Page" || (typ != "Pages" && kidsObj == nil) {
		*out = append(*out, &Page{dict: node, in: in, resolver: t.resolver, index: len(*out)})
		return nil
	}

	kidsResolved, err := t.resolver.Resolve(kidsObj)
	if err != nil {
		return fmt.Errorf("resolve /Kids: %w", err)
	}
	kids, ok := kidsResolved.(core.Array)
	if !ok {
		return fmt.Errorf("/Kids is %T, not an array", kidsResolved)
	}

	for i, kid := range kids {
		if ref, isRef := kid.(core.IndirectRef); isRef {
			if seen[ref] {
				return fmt.Errorf("kid %d: page tree loops back to %s", i, ref)
			}
			seen[ref] = true
		}
		resolved, err := t.resolver.Resolve(kid)
		if err != nil {
			return fmt.Errorf("resolve kid %d: %w", i, err)
		}
		kidDict, ok := resolved.(core.Dict)
		if !ok {
			continue
		}
		if err := t.walk(kidDict, in, seen, out, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Page is a single leaf of the page tree.
type Page struct {
	dict     core.Dict
	in       inherited
	resolver ObjectResolver
	index    int
}

// NewPage wraps a page dictionary that has no inherited attributes.
func NewPage(dict core.Dict, resolver ObjectResolver) *Page {
	return &Page{dict: dict, in: inherited{}.merge(dict), resolver: resolver}
}

// Index returns the 0-based position of the page in the document.
func (p *Page) Index() int {
	return p.index
}

// Dict returns the raw page dictionary.
func (p *Page) Dict() core.Dict {
	return p.dict
}

// Resources returns the page resources, which may be inherited. A page
// without resources yields an empty dictionary.
func (p *Page) Resources() (core.Dict, error) {
	if p.in.resources == nil {
		return core.Dict{}, nil
	}
	resolved, err := p.resolver.Resolve(p.in.resources)
	if err != nil {
		return nil, fmt.Errorf("resolve /Resources: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("/Resources is %T, not a dictionary", resolved)
	}
	return dict, nil
}

// FontResources returns the /Font subdictionary of the page resources,
// mapping resource names to (possibly indirect) font dictionaries. A /Font
// entry that is not a dictionary gives an empty table.
func (p *Page) FontResources() (core.Dict, error) {
	res, err := p.Resources()
	if err != nil {
		return nil, err
	}
	fontsObj := res.Get("Font")
	if fontsObj == nil {
		return core.Dict{}, nil
	}
	resolved, err := p.resolver.Resolve(fontsObj)
	if err != nil {
		return nil, fmt.Errorf("resolve /Font: %w", err)
	}
	fonts, ok := resolved.(core.Dict)
	if !ok {
		return core.Dict{}, nil
	}
	return fonts, nil
}

// Contents returns the page content streams in order. A page with no
// /Contents has none.
func (p *Page) Contents() ([]*core.Stream, error) {
	obj := p.dict.Get("Contents")
	if obj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("resolve /Contents: %w", err)
	}

	switch v := resolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		streams := make([]*core.Stream, 0, len(v))
		for i, elem := range v {
			r, err := p.resolver.Resolve(elem)
			if err != nil {
				return nil, fmt.Errorf("resolve /Contents[%d]: %w", i, err)
			}
			if s, ok := r.(*core.Stream); ok {
				streams = append(streams, s)
			}
		}
		return streams, nil
	}
	return nil, fmt.Errorf("/Contents is %T, not a stream or array", resolved)
}

// MediaBox returns the (possibly inherited) media box.
func (p *Page) MediaBox() ([]float64, error) {
	if p.in.mediaBox == nil {
		return nil, fmt.Errorf("/MediaBox not found")
	}
	resolved, err := p.resolver.Resolve(p.in.mediaBox)
	if err != nil {
		return nil, fmt.Errorf("resolve /MediaBox: %w", err)
	}
	arr, ok := resolved.(core.Array)
	if !ok || len(arr) != 4 {
		return nil, fmt.Errorf("invalid /MediaBox %v", resolved)
	}
	box := make([]float64, 4)
	for i, v := range arr {
		n, ok := core.Number(v)
		if !ok {
			return nil, fmt.Errorf("invalid /MediaBox element %v", v)
		}
		box[i] = n
	}
	return box, nil
}

// Rotate returns the (possibly inherited) page rotation in degrees.
func (p *Page) Rotate() int {
	if n, ok := p.in.rotate.(core.Int); ok {
		return int(n)
	}
	return 0
}
