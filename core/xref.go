package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries.
type XRefEntryType int

const (
	XRefFree XRefEntryType = iota
	XRefInUse
	XRefCompressed
)

// XRefEntry locates one object. For XRefInUse entries Offset is the byte
// offset of "num gen obj". For XRefCompressed entries the object lives at
// position Index inside object stream StreamNumber.
type XRefEntry struct {
	Type         XRefEntryType
	Offset       int64
	Generation   int
	StreamNumber int
	Index        int
}

// XRefTable is a merged cross-reference table with its trailer.
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
}

// NewXRefTable creates an empty table.
func NewXRefTable() *XRefTable {
	return &XRefTable{Entries: make(map[int]XRefEntry), Trailer: Dict{}}
}

// Get returns the entry for object number num.
func (x *XRefTable) Get(num int) (XRefEntry, bool) {
	e, ok := x.Entries[num]
	return e, ok
}

// Size returns the number of entries.
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// mergeOlder adds entries from an older section without overriding newer ones.
func (x *XRefTable) mergeOlder(older *XRefTable) {
	for num, e := range older.Entries {
		if _, exists := x.Entries[num]; !exists {
			x.Entries[num] = e
		}
	}
	for k, v := range older.Trailer {
		if !x.Trailer.Has(k) {
			x.Trailer[k] = v
		}
	}
}

// XRefParser reads cross-reference sections from a random-access source.
type XRefParser struct {
	r    io.ReaderAt
	size int64
}

// NewXRefParser creates a parser over r, which holds size bytes.
func NewXRefParser(r io.ReaderAt, size int64) *XRefParser {
	return &XRefParser{r: r, size: size}
}

// findXRef returns the offset recorded after the last startxref keyword.
func (x *XRefParser) findXRef() (int64, error) {
	tailSize := int64(2048)
	if x.size < tailSize {
		tailSize = x.size
	}
	buf := make([]byte, tailSize)
	n, err := x.r.ReadAt(buf, x.size-tailSize)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("read trailer area: %w", err)
	}
	buf = buf[:n]

	idx := bytes.LastIndex(buf, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found")
	}
	fields := bytes.Fields(buf[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing offset after startxref")
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid startxref offset %q: %w", fields[0], err)
	}
	if offset < 0 || offset >= x.size {
		return 0, fmt.Errorf("startxref offset %d outside file of %d bytes", offset, x.size)
	}
	return offset, nil
}

// ParseAll follows the chain of sections starting at startxref, through
// /XRefStm and /Prev links, and returns the merged table. Newer sections
// take precedence.
func (x *XRefParser) ParseAll() (*XRefTable, error) {
	offset, err := x.findXRef()
	if err != nil {
		return nil, err
	}

	merged := NewXRefTable()
	seen := make(map[int64]bool)
	first := true
	for {
		if seen[offset] {
			return nil, fmt.Errorf("xref /Prev loop at offset %d", offset)
		}
		seen[offset] = true

		section, err := x.parseSection(offset)
		if err != nil {
			return nil, fmt.Errorf("xref section at %d: %w", offset, err)
		}

		// hybrid files: entries from the /XRefStm stream sit between this
		// table and the one /Prev points to
		if stm, ok := section.Trailer.GetInt("XRefStm"); ok && !seen[int64(stm)] {
			seen[int64(stm)] = true
			if hybrid, err := x.parseSection(int64(stm)); err == nil {
				for num, e := range hybrid.Entries {
					if _, exists := section.Entries[num]; !exists || section.Entries[num].Type == XRefFree {
						section.Entries[num] = e
					}
				}
			}
		}

		if first {
			merged = section
			first = false
		} else {
			merged.mergeOlder(section)
		}

		prev, ok := section.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}
	delete(merged.Trailer, "Prev")
	delete(merged.Trailer, "XRefStm")
	return merged, nil
}

// parseSection parses the classic table or xref stream at offset.
func (x *XRefParser) parseSection(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= x.size {
		return nil, fmt.Errorf("offset %d outside file", offset)
	}
	head := make([]byte, 32)
	n, _ := x.r.ReadAt(head, offset)
	head = bytes.TrimLeft(head[:n], " \t\r\n\f\x00")
	if bytes.HasPrefix(head, []byte("xref")) {
		return x.parseTable(offset)
	}
	return x.parseStream(offset)
}

func (x *XRefParser) section(offset int64) io.Reader {
	return io.NewSectionReader(x.r, offset, x.size-offset)
}

// parseTable parses a classic "xref ... trailer <<>>" section.
func (x *XRefParser) parseTable(offset int64) (*XRefTable, error) {
	lexer := NewLexer(x.section(offset))
	tok, err := lexer.NextToken()
	if err != nil || tok.Type != TokenKeyword || string(tok.Value) != "xref" {
		return nil, fmt.Errorf("expected xref keyword")
	}

	table := NewXRefTable()
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			break
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("invalid subsection header %q", tok.Value)
		}
		start, _ := strconv.Atoi(string(tok.Value))
		countTok, err := lexer.NextToken()
		if err != nil || countTok.Type != TokenInteger {
			return nil, fmt.Errorf("missing subsection count")
		}
		count, _ := strconv.Atoi(string(countTok.Value))

		for i := 0; i < count; i++ {
			entry, err := readTableEntry(lexer)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", start+i, err)
			}
			// the first section seen for a number wins within one table
			if _, exists := table.Entries[start+i]; !exists {
				table.Entries[start+i] = entry
			}
		}
	}

	// the lexer has consumed "trailer"; hand the rest to a parser
	trailerParser := NewParser(x.section(offset + lexer.Pos()))
	obj, err := trailerParser.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	dict, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is %s, not a dictionary", obj.Type())
	}
	table.Trailer = dict
	return table, nil
}

func readTableEntry(lexer *Lexer) (XRefEntry, error) {
	offTok, err := lexer.NextToken()
	if err != nil || offTok.Type != TokenInteger {
		return XRefEntry{}, fmt.Errorf("missing offset")
	}
	genTok, err := lexer.NextToken()
	if err != nil || genTok.Type != TokenInteger {
		return XRefEntry{}, fmt.Errorf("missing generation")
	}
	flagTok, err := lexer.NextToken()
	if err != nil || flagTok.Type != TokenKeyword {
		return XRefEntry{}, fmt.Errorf("missing in-use flag")
	}
	off, _ := strconv.ParseInt(string(offTok.Value), 10, 64)
	gen, _ := strconv.Atoi(string(genTok.Value))

	switch string(flagTok.Value) {
	case "n":
		return XRefEntry{Type: XRefInUse, Offset: off, Generation: gen}, nil
	case "f":
		return XRefEntry{Type: XRefFree, Generation: gen}, nil
	}
	return XRefEntry{}, fmt.Errorf("invalid in-use flag %q", flagTok.Value)
}

// parseStream parses a cross-reference stream (PDF 1.5).
func (x *XRefParser) parseStream(offset int64) (*XRefTable, error) {
	parser := NewParser(x.section(offset))
	indirect, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := indirect.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object at %d is not an xref stream", offset)
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "XRef" {
		return nil, fmt.Errorf("stream at %d has /Type %s, not /XRef", offset, typ)
	}
	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode xref stream: %w", err)
	}
	return parseXRefStreamData(stream.Dict, data)
}

func parseXRefStreamData(dict Dict, data []byte) (*XRefTable, error) {
	wArr, ok := dict.GetArray("W")
	if !ok || len(wArr) < 3 {
		return nil, fmt.Errorf("xref stream missing /W")
	}
	var w [3]int
	for i := range w {
		n, ok := wArr[i].(Int)
		if !ok || n < 0 || n > 8 {
			return nil, fmt.Errorf("invalid /W entry %s", wArr[i])
		}
		w[i] = int(n)
	}
	rowSize := w[0] + w[1] + w[2]
	if rowSize == 0 {
		return nil, fmt.Errorf("xref stream /W sums to zero")
	}

	var index []int
	if idx, ok := dict.GetArray("Index"); ok {
		for _, v := range idx {
			n, ok := v.(Int)
			if !ok {
				return nil, fmt.Errorf("invalid /Index entry %s", v)
			}
			index = append(index, int(n))
		}
	} else {
		size, _ := dict.GetInt("Size")
		index = []int{0, int(size)}
	}

	table := NewXRefTable()
	table.Trailer = dict
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		start, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			if pos+rowSize > len(data) {
				return table, nil
			}
			row := data[pos : pos+rowSize]
			pos += rowSize

			typ := 1 // default when the type field is omitted
			if w[0] > 0 {
				typ = int(readField(row[:w[0]]))
			}
			f2 := readField(row[w[0] : w[0]+w[1]])
			f3 := readField(row[w[0]+w[1]:])

			var entry XRefEntry
			switch typ {
			case 0:
				entry = XRefEntry{Type: XRefFree, Generation: int(f3)}
			case 1:
				entry = XRefEntry{Type: XRefInUse, Offset: int64(f2), Generation: int(f3)}
			case 2:
				entry = XRefEntry{Type: XRefCompressed, StreamNumber: int(f2), Index: int(f3)}
			default:
				// unknown types are treated as null references
				continue
			}
			table.Entries[start+j] = entry
		}
	}
	return table, nil
}

func readField(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
