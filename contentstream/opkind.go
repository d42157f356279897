package contentstream

// OpKind classifies an operator. It is decided once, when the stream is
// parsed.
type OpKind int

const (
	// OpOther is any operator the interpreter does not act on.
	OpOther OpKind = iota

	OpShowText                // Tj
	OpShowTextArray           // TJ
	OpNextLineShowText        // '
	OpNextLineSpacingShowText // "
	OpMoveText                // Td
	OpMoveTextSetLeading      // TD
	OpNextLine                // T*
	OpSetTextMatrix           // Tm
	OpSetFont                 // Tf
	OpBeginText               // BT
	OpEndText                 // ET
	OpInlineImage             // BI ... ID ... EI
	OpPaintXObject            // Do
	OpBeginMarkedContent      // BDC, BMC
	OpEndMarkedContent        // EMC
)

var opKinds = map[string]OpKind{
	"Tj":  OpShowText,
	"TJ":  OpShowTextArray,
	"'":   OpNextLineShowText,
	"\"":  OpNextLineSpacingShowText,
	"Td":  OpMoveText,
	"TD":  OpMoveTextSetLeading,
	"T*":  OpNextLine,
	"Tm":  OpSetTextMatrix,
	"Tf":  OpSetFont,
	"BT":  OpBeginText,
	"ET":  OpEndText,
	"BI":  OpInlineImage,
	"Do":  OpPaintXObject,
	"BDC": OpBeginMarkedContent,
	"BMC": OpBeginMarkedContent,
	"EMC": OpEndMarkedContent,
}

var opKindNames = [...]string{
	OpOther:                   "Other",
	OpShowText:                "ShowText",
	OpShowTextArray:           "ShowTextArray",
	OpNextLineShowText:        "NextLineShowText",
	OpNextLineSpacingShowText: "NextLineSpacingShowText",
	OpMoveText:                "MoveText",
	OpMoveTextSetLeading:      "MoveTextSetLeading",
	OpNextLine:                "NextLine",
	OpSetTextMatrix:           "SetTextMatrix",
	OpSetFont:                 "SetFont",
	OpBeginText:               "BeginText",
	OpEndText:                 "EndText",
	OpInlineImage:             "InlineImage",
	OpPaintXObject:            "PaintXObject",
	OpBeginMarkedContent:      "BeginMarkedContent",
	OpEndMarkedContent:        "EndMarkedContent",
}

// KindOf returns the kind of the named operator.
func KindOf(name string) OpKind {
	return opKinds[name]
}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opKindNames) {
		return "Unknown"
	}
	return opKindNames[k]
}

// ShowsText reports whether the operator is one of Tj, TJ, ' and ".
func (k OpKind) ShowsText() bool {
	switch k {
	case OpShowText, OpShowTextArray, OpNextLineShowText, OpNextLineSpacingShowText:
		return true
	}
	return false
}
