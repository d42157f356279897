// Package reader gives random access to the objects and pages of a PDF file.
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	page, err := r.Page(0)
//	content, err := r.PageContent(page)
//
// The cross-reference table is loaded from the startxref chain, including
// xref streams and incremental updates. When it is missing or damaged the
// file is scanned for object headers instead; [Reader.Repaired] reports
// whether that happened.
//
// Loaded objects are cached, and a Reader may be used from several
// goroutines at once.
package reader
