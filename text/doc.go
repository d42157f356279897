// Package text reconstructs the text of a page from its parsed content
// stream.
//
// An [Interpreter] walks a [contentstream.Sequence] and decodes every
// string shown by Tj, TJ, ' and " through the font selected by the last
// Tf. The only state carried through the walk is held in a [Context],
// built once per page from the page font table:
//
//	fonts := text.BuildFontTable(fontResources, objects, fontResolver)
//	ctx := text.NewContext(fonts)
//	s, err := text.NewInterpreter().Run(ops, ctx)
//
// # Spacing
//
// No geometry is tracked. Word and line breaks are approximated:
//
//   - ' and " start with a line break
//   - Tm emits a space
//   - a numeric array element above the space threshold (750 by default)
//     emits a space when the array is shown by Tj; [SpacingArray] extends
//     this to TJ
//
// Td, TD and T* produce nothing.
//
// # Errors
//
// Showing text before any Tf fails with [ErrNoFont], and a Tf naming a
// font the page does not have fails with [ErrUnknownFont]. In both cases
// Run returns the text produced so far.
package text
