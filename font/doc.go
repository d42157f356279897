// Package font resolves PDF font resources into code to Unicode tables for
// text extraction.
//
// # Resolution
//
// A [Resolver] turns a font dictionary into a [Font]. The table is picked
// from the first source that applies:
//
//   - a /ToUnicode CMap, parsed by [RangeMapParser]
//   - a built-in encoding named by /Encoding, or by the /BaseEncoding of an
//     encoding dictionary
//   - the Symbol table when the descriptor flags mark the font symbolic,
//     otherwise the Standard table
//
// Fonts whose encoding name starts with "Identity-" use two-byte codes:
//
//	r := font.NewResolver(objects, logger)
//	f := r.Resolve("F1", fontDict)
//	for _, code := range f.Codes(shown) {
//		s, ok := f.ToUnicode(code)
//		...
//	}
//
// # Encodings
//
// [BuiltinEncoding] knows StandardEncoding, SymbolEncoding, WinAnsiEncoding,
// MacRomanEncoding and MacExpertEncoding. Standard and Symbol are also
// accepted as short names.
//
// # CMaps
//
// Only the bfchar and bfrange sections of a CMap are read. Destination
// strings are UTF-16BE, so surrogate pairs and ligature strings such as
// "ffi" come through intact.
package font
