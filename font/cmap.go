package font

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// MaxCode is the largest character code a CMap entry may assign.
// Larger codes and range ends are clamped to it.
const MaxCode = 0xFFFE

var (
	rangeToRange = regexp.MustCompile(`^\s*<([0-9a-f]+)>\s*<([0-9a-f]+)>\s*<([0-9a-f]*)>`)
	rangeToArray = regexp.MustCompile(`^\s*<([0-9a-f]+)>\s*<([0-9a-f]+)>\s*\[((?:\s*<[0-9a-f]*>)*)\s*\]`)
	singleChar   = regexp.MustCompile(`^\s*<([0-9a-f]+)>\s*<([0-9a-f]*)>`)
	hexItem      = regexp.MustCompile(`<([0-9a-f]*)>`)
)

type cmapBlock int

const (
	blockRange cmapBlock = iota
	blockChar
)

// RangeMapParser reads the bfrange and bfchar sections of a ToUnicode
// CMap. Everything else in the CMap program is ignored.
type RangeMapParser struct {
	log *slog.Logger
}

// NewRangeMapParser creates a parser that reports problems to log.
// A nil logger discards them.
func NewRangeMapParser(log *slog.Logger) *RangeMapParser {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RangeMapParser{log: log}
}

// Parse returns the code to Unicode assignments found in text. All
// bfrange blocks are applied first and bfchar blocks after them, so a
// bfchar entry overrides a range covering the same code. Within one kind
// later entries overwrite earlier ones. Parse never fails: on a malformed
// entry it logs a warning and returns what it has collected so far.
func (p *RangeMapParser) Parse(text string) map[uint16]string {
	m := make(map[uint16]string)
	text = strings.ToLower(text)

	for _, kind := range []cmapBlock{blockRange, blockChar} {
		begin, end := kind.keywords()
		pos := 0
		for {
			body, next, ok := nextBlock(text, pos, begin, end)
			if !ok {
				break
			}
			if err := parseBlock(m, kind, body); err != nil {
				p.log.Warn("cmap parse stopped", "error", err)
				return m
			}
			pos = next
		}
	}
	return m
}

func (k cmapBlock) keywords() (begin, end string) {
	if k == blockChar {
		return "beginbfchar", "endbfchar"
	}
	return "beginbfrange", "endbfrange"
}

// nextBlock finds the first block opened by begin at or after pos. It runs
// to the nearest following end keyword, or to the end of text if there is
// none.
func nextBlock(text string, pos int, begin, end string) (body string, next int, ok bool) {
	bi := strings.Index(text[pos:], begin)
	if bi < 0 {
		return "", 0, false
	}
	pos += bi + len(begin)
	if ei := strings.Index(text[pos:], end); ei >= 0 {
		return text[pos : pos+ei], pos + ei + len(end), true
	}
	return text[pos:], len(text), true
}

func parseBlock(m map[uint16]string, kind cmapBlock, body string) error {
	lines := strings.FieldsFunc(body, func(r rune) bool { return r == '\n' || r == '\r' })
	for _, line := range lines {
		// a line may hold more than one entry; each match is anchored at
		// the start of what is left
		for line = strings.TrimSpace(line); line != ""; line = strings.TrimSpace(line) {
			var n int
			var err error
			if kind == blockChar {
				n, err = parseChar(m, line)
			} else {
				n, err = parseRange(m, line)
			}
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			line = line[n:]
		}
	}
	return nil
}

// parseRange applies one bfrange entry at the start of line and returns
// the number of bytes consumed, or 0 if line does not start with one.
func parseRange(m map[uint16]string, line string) (int, error) {
	if sm := rangeToRange.FindStringSubmatch(line); sm != nil {
		start, end, err := codeRange(sm[1], sm[2])
		if err != nil {
			return 0, err
		}
		units, err := utf16Units(sm[3])
		if err != nil {
			return 0, err
		}
		if start > end {
			return len(sm[0]), nil
		}
		if len(units) == 0 {
			units = []uint16{0}
		}
		last := len(units) - 1
		base := units[last]
		for code := start; code <= end; code++ {
			units[last] = base + uint16(code-start)
			m[uint16(code)] = decodeUTF16(units)
		}
		return len(sm[0]), nil
	}

	if sm := rangeToArray.FindStringSubmatch(line); sm != nil {
		start, end, err := codeRange(sm[1], sm[2])
		if err != nil {
			return 0, err
		}
		code := start
		for _, item := range hexItem.FindAllStringSubmatch(sm[3], -1) {
			if code > end {
				break
			}
			units, err := utf16Units(item[1])
			if err != nil {
				return 0, err
			}
			m[uint16(code)] = decodeUTF16(units)
			code++
		}
		return len(sm[0]), nil
	}
	return 0, nil
}

// parseChar applies one bfchar entry at the start of line.
func parseChar(m map[uint16]string, line string) (int, error) {
	sm := singleChar.FindStringSubmatch(line)
	if sm == nil {
		return 0, nil
	}
	code, err := parseCode(sm[1])
	if err != nil {
		return 0, err
	}
	units, err := utf16Units(sm[2])
	if err != nil {
		return 0, err
	}
	m[uint16(code)] = decodeUTF16(units)
	return len(sm[0]), nil
}

// codeRange reads the bounds of a bfrange entry. Only the end is clamped,
// so a start above MaxCode leaves an empty range.
func codeRange(startHex, endHex string) (int, int, error) {
	start, err := parseHex(startHex)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseHex(endHex)
	if err != nil {
		return 0, 0, err
	}
	return int(start), int(min(end, MaxCode)), nil
}

// parseCode reads a bfchar source code, clamped to MaxCode.
func parseCode(s string) (int, error) {
	v, err := parseHex(s)
	if err != nil {
		return 0, err
	}
	return int(min(v, MaxCode)), nil
}

func parseHex(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("source code <%s>: %w", s, err)
	}
	return v, nil
}

// utf16Units splits a destination hex string into 4-digit UTF-16 code
// units. A short final chunk is read as a unit of its own.
func utf16Units(s string) ([]uint16, error) {
	units := make([]uint16, 0, (len(s)+3)/4)
	for i := 0; i < len(s); i += 4 {
		chunk := s[i:min(i+4, len(s))]
		v, err := strconv.ParseUint(chunk, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("destination <%s>: %w", s, err)
		}
		units = append(units, uint16(v))
	}
	return units, nil
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func decodeUTF16(units []uint16) string {
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = append(buf, byte(u>>8), byte(u))
	}
	out, err := utf16BE.NewDecoder().Bytes(buf)
	if err != nil {
		return ""
	}
	return string(out)
}
