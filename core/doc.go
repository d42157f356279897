// Package core reads PDF file syntax: objects, cross-reference data and
// streams.
//
// # Objects
//
// Every value in a PDF file is an [Object]: [Null], [Bool], [Int], [Real],
// [String], [Name], [Array] or [Dict], plus [Stream] for a dictionary with
// attached data and [IndirectRef] for a "num gen R" reference. Strings hold
// raw bytes whether they were written literally or in hex; names are kept
// without the slash.
//
// # Parsing
//
// [Lexer] splits input into tokens and also offers the raw reads that stream
// data and inline images need. [Parser] builds objects from the tokens and
// parses "num gen obj ... endobj" definitions, including streams.
//
// # Cross-reference data
//
// [XRefParser] locates startxref and reads classic tables as well as
// cross-reference streams into an [XRefTable]. [XRefParser.ParseAll] merges
// hybrid /XRefStm entries and older /Prev sections into one table, newest
// first. Compressed objects are read back through [ObjectStream].
//
// # Stream decoding
//
// [Stream.Decode] runs the data through its /Filter chain: FlateDecode,
// LZWDecode, RunLengthDecode, ASCIIHexDecode, ASCII85Decode and
// CCITTFaxDecode. Image-only filters are reported as unsupported. Stream data
// with a missing or wrong /Length is recovered by scanning for endstream.
package core
