package font

import (
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// Names of the built-in simple-font encodings.
const (
	MacRomanEncoding  = "MacRomanEncoding"
	WinAnsiEncoding   = "WinAnsiEncoding"
	MacExpertEncoding = "MacExpertEncoding"
	StandardEncoding  = "StandardEncoding"
	SymbolEncoding    = "SymbolEncoding"
)

// builtinEncodings maps each accepted encoding name to its code table.
// The tables are shared by every font that selects them and must not be
// modified.
var builtinEncodings = map[string]map[uint16]string{}

func init() {
	std := fromRunes(&standardTable)
	sym := fromRunes(&symbolTable)
	builtinEncodings[MacRomanEncoding] = fromCharmap(charmap.Macintosh)
	builtinEncodings[WinAnsiEncoding] = fromCharmap(charmap.Windows1252)
	builtinEncodings[MacExpertEncoding] = fromRunes(&macExpertTable)
	builtinEncodings[StandardEncoding] = std
	builtinEncodings["Standard"] = std
	builtinEncodings[SymbolEncoding] = sym
	builtinEncodings["Symbol"] = sym
}

// BuiltinEncoding returns the table for a built-in encoding name.
func BuiltinEncoding(name string) (map[uint16]string, bool) {
	table, ok := builtinEncodings[name]
	return table, ok
}

func fromRunes(table *[256]rune) map[uint16]string {
	m := make(map[uint16]string)
	for code, r := range table {
		if r != 0 {
			m[uint16(code)] = string(r)
		}
	}
	return m
}

// fromCharmap builds a table from an x/text single-byte charmap, leaving
// out the C0 and C1 control codes.
func fromCharmap(cm *charmap.Charmap) map[uint16]string {
	m := make(map[uint16]string)
	for code := 0; code < 256; code++ {
		r := cm.DecodeByte(byte(code))
		if r == unicode.ReplacementChar || unicode.IsControl(r) {
			continue
		}
		m[uint16(code)] = string(r)
	}
	return m
}

// standardTable is the Adobe StandardEncoding (PDF 32000-1, Annex D).
var standardTable = [256]rune{
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x00-0x07
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x08-0x0F
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x10-0x17
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x18-0x1F
	0x0020, 0x0021, 0x0022, 0x0023, 0x0024, 0x0025, 0x0026, 0x2019, // 0x20-0x27
	0x0028, 0x0029, 0x002A, 0x002B, 0x002C, 0x002D, 0x002E, 0x002F, // 0x28-0x2F
	0x0030, 0x0031, 0x0032, 0x0033, 0x0034, 0x0035, 0x0036, 0x0037, // 0x30-0x37
	0x0038, 0x0039, 0x003A, 0x003B, 0x003C, 0x003D, 0x003E, 0x003F, // 0x38-0x3F
	0x0040, 0x0041, 0x0042, 0x0043, 0x0044, 0x0045, 0x0046, 0x0047, // 0x40-0x47
	0x0048, 0x0049, 0x004A, 0x004B, 0x004C, 0x004D, 0x004E, 0x004F, // 0x48-0x4F
	0x0050, 0x0051, 0x0052, 0x0053, 0x0054, 0x0055, 0x0056, 0x0057, // 0x50-0x57
	0x0058, 0x0059, 0x005A, 0x005B, 0x005C, 0x005D, 0x005E, 0x005F, // 0x58-0x5F
	0x2018, 0x0061, 0x0062, 0x0063, 0x0064, 0x0065, 0x0066, 0x0067, // 0x60-0x67
	0x0068, 0x0069, 0x006A, 0x006B, 0x006C, 0x006D, 0x006E, 0x006F, // 0x68-0x6F
	0x0070, 0x0071, 0x0072, 0x0073, 0x0074, 0x0075, 0x0076, 0x0077, // 0x70-0x77
	0x0078, 0x0079, 0x007A, 0x007B, 0x007C, 0x007D, 0x007E, 0x0000, // 0x78-0x7F
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x80-0x87
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x88-0x8F
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x90-0x97
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x98-0x9F
	0x0000, 0x00A1, 0x00A2, 0x00A3, 0x2044, 0x00A5, 0x0192, 0x00A7, // 0xA0-0xA7
	0x00A4, 0x0027, 0x201C, 0x00AB, 0x2039, 0x203A, 0xFB01, 0xFB02, // 0xA8-0xAF
	0x0000, 0x2013, 0x2020, 0x2021, 0x00B7, 0x0000, 0x00B6, 0x2022, // 0xB0-0xB7
	0x201A, 0x201E, 0x201D, 0x00BB, 0x2026, 0x2030, 0x0000, 0x00BF, // 0xB8-0xBF
	0x0000, 0x0060, 0x00B4, 0x02C6, 0x02DC, 0x00AF, 0x02D8, 0x02D9, // 0xC0-0xC7
	0x00A8, 0x0000, 0x02DA, 0x00B8, 0x0000, 0x02DD, 0x02DB, 0x02C7, // 0xC8-0xCF
	0x2014, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0xD0-0xD7
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0xD8-0xDF
	0x0000, 0x00C6, 0x0000, 0x00AA, 0x0000, 0x0000, 0x0000, 0x0000, // 0xE0-0xE7
	0x0141, 0x00D8, 0x0152, 0x00BA, 0x0000, 0x0000, 0x0000, 0x0000, // 0xE8-0xEF
	0x0000, 0x00E6, 0x0000, 0x0000, 0x0000, 0x0131, 0x0000, 0x0000, // 0xF0-0xF7
	0x0142, 0x00F8, 0x0153, 0x00DF, 0x0000, 0x0000, 0x0000, 0x0000, // 0xF8-0xFF
}

// symbolTable is the built-in encoding of the Symbol font.
var symbolTable = [256]rune{
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x00-0x07
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x08-0x0F
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x10-0x17
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x18-0x1F
	0x0020, 0x0021, 0x2200, 0x0023, 0x2203, 0x0025, 0x0026, 0x220B, // 0x20-0x27
	0x0028, 0x0029, 0x2217, 0x002B, 0x002C, 0x2212, 0x002E, 0x002F, // 0x28-0x2F
	0x0030, 0x0031, 0x0032, 0x0033, 0x0034, 0x0035, 0x0036, 0x0037, // 0x30-0x37
	0x0038, 0x0039, 0x003A, 0x003B, 0x003C, 0x003D, 0x003E, 0x003F, // 0x38-0x3F
	0x2245, 0x0391, 0x0392, 0x03A7, 0x0394, 0x0395, 0x03A6, 0x0393, // 0x40-0x47
	0x0397, 0x0399, 0x03D1, 0x039A, 0x039B, 0x039C, 0x039D, 0x039F, // 0x48-0x4F
	0x03A0, 0x0398, 0x03A1, 0x03A3, 0x03A4, 0x03A5, 0x03C2, 0x03A9, // 0x50-0x57
	0x039E, 0x03A8, 0x0396, 0x005B, 0x2234, 0x005D, 0x22A5, 0x005F, // 0x58-0x5F
	0xF8E5, 0x03B1, 0x03B2, 0x03C7, 0x03B4, 0x03B5, 0x03C6, 0x03B3, // 0x60-0x67
	0x03B7, 0x03B9, 0x03D5, 0x03BA, 0x03BB, 0x03BC, 0x03BD, 0x03BF, // 0x68-0x6F
	0x03C0, 0x03B8, 0x03C1, 0x03C3, 0x03C4, 0x03C5, 0x03D6, 0x03C9, // 0x70-0x77
	0x03BE, 0x03C8, 0x03B6, 0x007B, 0x007C, 0x007D, 0x223C, 0x0000, // 0x78-0x7F
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x80-0x87
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x88-0x8F
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x90-0x97
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, // 0x98-0x9F
	0x20AC, 0x03D2, 0x2032, 0x2264, 0x2044, 0x221E, 0x0192, 0x2663, // 0xA0-0xA7
	0x2666, 0x2665, 0x2660, 0x2194, 0x2190, 0x2191, 0x2192, 0x2193, // 0xA8-0xAF
	0x00B0, 0x00B1, 0x2033, 0x2265, 0x00D7, 0x221D, 0x2202, 0x2022, // 0xB0-0xB7
	0x00F7, 0x2260, 0x2261, 0x2248, 0x2026, 0x23D0, 0x23AF, 0x21B5, // 0xB8-0xBF
	0x2135, 0x2111, 0x211C, 0x2118, 0x2297, 0x2295, 0x2205, 0x2229, // 0xC0-0xC7
	0x222A, 0x2283, 0x2287, 0x2284, 0x2282, 0x2286, 0x2208, 0x2209, // 0xC8-0xCF
	0x2220, 0x2207, 0x00AE, 0x00A9, 0x2122, 0x220F, 0x221A, 0x22C5, // 0xD0-0xD7
	0x00AC, 0x2227, 0x2228, 0x21D4, 0x21D0, 0x21D1, 0x21D2, 0x21D3, // 0xD8-0xDF
	0x25CA, 0x2329, 0x00AE, 0x00A9, 0x2122, 0x2211, 0x239B, 0x239C, // 0xE0-0xE7
	0x239D, 0x23A1, 0x23A2, 0x23A3, 0x23A7, 0x23A8, 0x23A9, 0x23AA, // 0xE8-0xEF
	0x0000, 0x232A, 0x222B, 0x2320, 0x23AE, 0x2321, 0x239E, 0x239F, // 0xF0-0xF7
	0x23A0, 0x23A4, 0x23A5, 0x23A6, 0x23AB, 0x23AC, 0x23AD, 0x0000, // 0xF8-0xFF
}

// macExpertTable is MacExpertEncoding. Small capitals, old-style figures
// and letter superiors have no standard code point and map into the
// Private Use Area the way the Adobe Glyph List assigns them.
var macExpertTable = [256]rune{
	0x20: ' ', 0x21: 0xF721, 0x22: 0xF6F8, 0x23: 0xF7A2,
	0x24: 0xF724, 0x25: 0xF6E4, 0x26: 0xF726, 0x27: 0xF7B4,
	0x28: 0x207D, 0x29: 0x207E, 0x2A: 0x2025, 0x2B: 0x2024,
	0x2C: ',', 0x2D: '-', 0x2E: '.', 0x2F: 0x2044,
	0x30: 0xF730, 0x31: 0xF731, 0x32: 0xF732, 0x33: 0xF733, 0x34: 0xF734,
	0x35: 0xF735, 0x36: 0xF736, 0x37: 0xF737, 0x38: 0xF738, 0x39: 0xF739,
	0x3A: ':', 0x3B: ';', 0x3D: 0xF6DE, 0x3F: 0xF73F, 0x44: 0xF7F0,
	0x47: 0x00BC, 0x48: 0x00BD, 0x49: 0x00BE, 0x4A: 0x215B, 0x4B: 0x215C,
	0x4C: 0x215D, 0x4D: 0x215E, 0x4E: 0x2153, 0x4F: 0x2154,
	0x56: 0xFB00, 0x57: 0xFB01, 0x58: 0xFB02, 0x59: 0xFB03, 0x5A: 0xFB04,
	0x5B: 0x208D, 0x5D: 0x208E, 0x5E: 0xF6F6, 0x5F: 0xF6E5, 0x60: 0xF760,
	0x61: 0xF761, 0x62: 0xF762, 0x63: 0xF763, 0x64: 0xF764, 0x65: 0xF765,
	0x66: 0xF766, 0x67: 0xF767, 0x68: 0xF768, 0x69: 0xF769, 0x6A: 0xF76A,
	0x6B: 0xF76B, 0x6C: 0xF76C, 0x6D: 0xF76D, 0x6E: 0xF76E, 0x6F: 0xF76F,
	0x70: 0xF770, 0x71: 0xF771, 0x72: 0xF772, 0x73: 0xF773, 0x74: 0xF774,
	0x75: 0xF775, 0x76: 0xF776, 0x77: 0xF777, 0x78: 0xF778, 0x79: 0xF779,
	0x7A: 0xF77A, 0x7B: 0x20A1, 0x7C: 0xF6DC, 0x7D: 0xF6DD, 0x7E: 0xF6FE,
	0x81: 0xF6E9, 0x82: 0xF6E0, 0x87: 0xF7E1, 0x88: 0xF7E0, 0x89: 0xF7E2,
	0x8A: 0xF7E4, 0x8B: 0xF7E3, 0x8C: 0xF7E5, 0x8D: 0xF7E7, 0x8E: 0xF7E9,
	0x8F: 0xF7E8, 0x90: 0xF7EA, 0x91: 0xF7EB, 0x92: 0xF7ED, 0x93: 0xF7EC,
	0x94: 0xF7EE, 0x95: 0xF7EF, 0x96: 0xF7F1, 0x97: 0xF7F3, 0x98: 0xF7F2,
	0x99: 0xF7F4, 0x9A: 0xF7F6, 0x9B: 0xF7F5, 0x9C: 0xF7FA, 0x9D: 0xF7F9,
	0x9E: 0xF7FB, 0x9F: 0xF7FC,
	0xA1: 0x2078, 0xA2: 0x2084, 0xA3: 0x2083, 0xA4: 0x2086, 0xA5: 0x2088,
	0xA6: 0x2087, 0xA7: 0xF6FD, 0xA9: 0xF6DF, 0xAA: 0x2082, 0xAC: 0xF7A8,
	0xAE: 0xF6F5, 0xAF: 0xF6F0, 0xB0: 0x2085, 0xB2: 0xF6E1, 0xB3: 0xF6E7,
	0xB4: 0xF7FD, 0xB6: 0xF6E3, 0xB9: 0xF7FE, 0xBB: 0x2089, 0xBC: 0x2080,
	0xBD: 0xF6FF, 0xBE: 0xF7E6, 0xBF: 0xF7F8, 0xC0: 0xF7BF, 0xC1: 0x2081,
	0xC2: 0xF6F9, 0xC9: 0xF7B8, 0xCF: 0xF6FA, 0xD0: 0x2012, 0xD1: 0xF6E6,
	0xD6: 0xF7A1, 0xD8: 0xF7FF, 0xDA: 0x00B9, 0xDB: 0x00B2, 0xDC: 0x00B3,
	0xDD: 0x2074, 0xDE: 0x2075, 0xDF: 0x2076, 0xE0: 0x2077, 0xE1: 0x2079,
	0xE2: 0x2070, 0xE4: 0xF6EC, 0xE5: 0xF6F1, 0xE6: 0xF6F3, 0xE9: 0xF6ED,
	0xEA: 0xF6F2, 0xEB: 0xF6EB, 0xF1: 0xF6EE, 0xF2: 0xF6FB, 0xF3: 0xF6F4,
	0xF4: 0xF7AF, 0xF5: 0xF6EA, 0xF6: 0x207F, 0xF7: 0xF6EF, 0xF8: 0xF6E2,
	0xF9: 0xF6E8, 0xFA: 0xF6F7, 0xFB: 0xF6FC,
}
