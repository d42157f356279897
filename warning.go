package pdftext

import (
	"fmt"
	"strings"
)

// Warning records a page that could not be extracted completely. The
// page's partial text is still part of the document text. A Warning is
// itself an error wrapping the page error.
type Warning struct {
	Page int // 1-based
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("page %d: %v", w.Page, w.Err)
}

// Unwrap returns the page error.
func (w Warning) Unwrap() error {
	return w.Err
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.Error()
	}
	return strings.Join(lines, "\n")
}
