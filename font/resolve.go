package font

import (
	"log/slog"
	"strings"

	"github.com/tsawler/pdftext/core"
)

// ObjectResolver follows indirect references.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Resolver turns font dictionaries into Fonts. It holds no per-font state,
// so one Resolver can serve every page of a document.
type Resolver struct {
	objects ObjectResolver
	cmaps   *RangeMapParser
	log     *slog.Logger
}

// NewResolver creates a font resolver. A nil logger discards diagnostics.
func NewResolver(objects ObjectResolver, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		objects: objects,
		cmaps:   NewRangeMapParser(log),
		log:     log,
	}
}

// Resolve builds the Font for the resource name and font dictionary. It
// always succeeds. The code table is chosen in this order: a /ToUnicode
// CMap, then a built-in encoding named by /Encoding, then the Symbol table
// for symbolic fonts and the Standard table for all others.
func (r *Resolver) Resolve(name string, dict core.Dict) *Font {
	subtype, _ := r.name(dict.Get("Subtype"))
	baseFont, _ := r.name(dict.Get("BaseFont"))

	f := &Font{
		Name:         name,
		Type:         TypeOf(subtype),
		BaseFont:     string(baseFont),
		Encoding:     r.encodingName(dict.Get("Encoding")),
		ByteWidth:    1,
		Flags:        r.flags(dict),
		FallbackChar: FallbackChar,
	}
	f.Symbolic = f.Flags&flagSymbolic != 0
	if strings.HasPrefix(f.Encoding, "Identity-") {
		f.ByteWidth = 2
	}

	if m, ok := r.toUnicode(name, dict.Get("ToUnicode")); ok {
		f.CodeToUnicode = m
		f.HasToUnicode = true
		return f
	}
	if table, ok := BuiltinEncoding(f.Encoding); ok {
		f.CodeToUnicode = table
		return f
	}
	if f.Symbolic {
		f.CodeToUnicode = builtinEncodings[SymbolEncoding]
	} else {
		f.CodeToUnicode = builtinEncodings[StandardEncoding]
	}
	return f
}

func (r *Resolver) resolve(obj core.Object) core.Object {
	if obj == nil || r.objects == nil {
		return obj
	}
	resolved, err := r.objects.Resolve(obj)
	if err != nil {
		return nil
	}
	return resolved
}

func (r *Resolver) name(obj core.Object) (core.Name, bool) {
	n, ok := r.resolve(obj).(core.Name)
	return n, ok
}

// encodingName reads /Encoding, which is either a name or an encoding
// dictionary carrying /BaseEncoding.
func (r *Resolver) encodingName(obj core.Object) string {
	switch v := r.resolve(obj).(type) {
	case core.Name:
		return string(v)
	case core.Dict:
		if base, ok := r.name(v.Get("BaseEncoding")); ok {
			return string(base)
		}
	}
	return ""
}

// flags reads /FontDescriptor /Flags. Anything unreadable counts as 0.
func (r *Resolver) flags(dict core.Dict) int {
	desc, ok := r.resolve(dict.Get("FontDescriptor")).(core.Dict)
	if !ok {
		return 0
	}
	flags, ok := r.resolve(desc.Get("Flags")).(core.Int)
	if !ok {
		return 0
	}
	return int(flags)
}

func (r *Resolver) toUnicode(name string, obj core.Object) (map[uint16]string, bool) {
	if obj == nil {
		return nil, false
	}
	stream, ok := r.resolve(obj).(*core.Stream)
	if !ok {
		r.log.Warn("ignoring /ToUnicode that is not a stream", "font", name)
		return nil, false
	}
	data, err := stream.Decode()
	if err != nil {
		r.log.Warn("ignoring undecodable /ToUnicode", "font", name, "error", err)
		return nil, false
	}
	return r.cmaps.Parse(string(data)), true
}
