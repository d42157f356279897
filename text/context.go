package text

import (
	"fmt"
	"slices"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/font"
)

// Context is the state of one page walk: the page font table and the
// font most recently selected by Tf. A Context belongs to a single page
// and a single goroutine.
type Context struct {
	fonts   map[string]*font.Font
	current *font.Font
}

// NewContext creates a context over a page font table.
func NewContext(fonts map[string]*font.Font) *Context {
	if fonts == nil {
		fonts = make(map[string]*font.Font)
	}
	return &Context{fonts: fonts}
}

// Font returns the active font, or nil before the first Tf.
func (c *Context) Font() *font.Font {
	return c.current
}

// Fonts returns the page font table.
func (c *Context) Fonts() map[string]*font.Font {
	return c.fonts
}

// SetFont makes the named font active.
func (c *Context) SetFont(name string) error {
	f, ok := c.fonts[name]
	if !ok {
		return fmt.Errorf("font /%s: %w", name, ErrUnknownFont)
	}
	c.current = f
	return nil
}

// Reset drops the font table and the active font.
func (c *Context) Reset() {
	c.fonts = make(map[string]*font.Font)
	c.current = nil
}

// BuildFontTable resolves every entry of a page /Font resource dictionary.
// Entries that do not resolve to a dictionary are skipped.
func BuildFontTable(resources core.Dict, objects font.ObjectResolver, fonts *font.Resolver) map[string]*font.Font {
	table := make(map[string]*font.Font, len(resources))
	names := resources.Keys()
	slices.Sort(names)
	for _, name := range names {
		obj, err := objects.Resolve(resources.Get(name))
		if err != nil {
			continue
		}
		dict, ok := obj.(core.Dict)
		if !ok {
			continue
		}
		table[name] = fonts.Resolve(name, dict)
	}
	return table
}
