// Package filters implements the PDF stream decoding filters.
//
// Decode dispatches on the filter name (full or abbreviated):
//
//	data, err := filters.Decode("FlateDecode", raw, filters.Params{Predictor: 12, Columns: 5})
//
// FlateDecode and LZWDecode undo TIFF and PNG predictors. ASCIIHexDecode,
// ASCII85Decode, RunLengthDecode and CCITTFaxDecode are also supported.
// Image-only filters (DCT, JPX, JBIG2) and Crypt return ErrUnsupported.
package filters
