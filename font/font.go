package font

import "github.com/tsawler/pdftext/core"

// Type is the font program type named by /Subtype.
type Type int

const (
	TypeOther Type = iota
	Type0
	Type1
	Type3
	TrueType
)

func (t Type) String() string {
	switch t {
	case Type0:
		return "Type0"
	case Type1:
		return "Type1"
	case Type3:
		return "Type3"
	case TrueType:
		return "TrueType"
	}
	return "Other"
}

// TypeOf maps a /Subtype name to a Type. MMType1 fonts count as Type1.
func TypeOf(subtype core.Name) Type {
	switch subtype {
	case "Type0":
		return Type0
	case "Type1", "MMType1":
		return Type1
	case "Type3":
		return Type3
	case "TrueType":
		return TrueType
	}
	return TypeOther
}

// FallbackChar is the private-use sentinel carried by every Font. It is
// available to callers but never substituted for an unmapped code.
const FallbackChar = '\uE202'

// flagSymbolic is bit 3 of the font descriptor /Flags.
const flagSymbolic = 1 << 2

// Font is a font resource resolved for text extraction. A Font is built
// once per page and is not modified afterwards.
type Font struct {
	// Name is the resource name the font was found under, such as "F1".
	Name     string
	Type     Type
	BaseFont string

	// Encoding is the encoding name in effect: the /Encoding name, or the
	// /BaseEncoding of an encoding dictionary. Empty if neither is set.
	Encoding string

	// ByteWidth is 2 for Identity- encodings and 1 otherwise.
	ByteWidth int

	// Flags is the descriptor /Flags value, 0 when unreadable.
	Flags    int
	Symbolic bool

	// HasToUnicode reports whether CodeToUnicode came from a /ToUnicode CMap.
	HasToUnicode bool

	// CodeToUnicode maps character codes to the text they represent. It may
	// be shared with other fonts and must be treated as read-only.
	CodeToUnicode map[uint16]string

	FallbackChar rune
}

// ToUnicode returns the text for code and whether the font maps it.
func (f *Font) ToUnicode(code uint16) (string, bool) {
	s, ok := f.CodeToUnicode[code]
	return s, ok
}

// Codes splits a shown string into character codes. Two-byte fonts pair
// bytes big-endian; a trailing odd byte becomes the high byte of a final
// code.
func (f *Font) Codes(data []byte) []uint16 {
	if f.ByteWidth != 2 {
		codes := make([]uint16, len(data))
		for i, b := range data {
			codes[i] = uint16(b)
		}
		return codes
	}

	codes := make([]uint16, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		code := uint16(data[i]) << 8
		if i+1 < len(data) {
			code |= uint16(data[i+1])
		}
		codes = append(codes, code)
	}
	return codes
}
