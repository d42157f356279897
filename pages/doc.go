// Package pages flattens the PDF page tree.
//
// A [PageTree] walks the hierarchy under the catalog's /Pages node and
// exposes the leaf pages in document order:
//
//	tree := pages.NewPageTree(pagesDict, resolver)
//	page, err := tree.GetPage(0)
//	fonts, err := page.FontResources()
//
// /Resources, /MediaBox and /Rotate are inherited from ancestors when a
// page does not set them itself.
package pages
