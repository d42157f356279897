// Package contentstream parses PDF page content streams.
//
// A content stream is a postfix program: operands are pushed and an
// operator consumes them. [Parse] returns the program as a [Sequence] of
// [Operator] nodes, each holding its operands:
//
//	seq, err := contentstream.Parse([]byte("BT /F1 12 Tf (Hello) Tj ET"))
//	// seq[1] is Operator{Kind: OpSetFont, Name: "Tf", Operands: Sequence{Name("F1"), Number(12)}}
//
// The node types form a closed set, so consumers can switch on them
// exhaustively. Each operator's [OpKind] is fixed at parse time.
//
// Inline images (BI ... ID ... EI) become a single OpInlineImage operator
// whose operand wraps the image dictionary and raw data. Comments are
// dropped.
package contentstream
