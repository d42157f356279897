package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, xref, trailer ...
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R
)

// Token is a lexical token. Value holds decoded bytes for strings and names
// and the raw spelling for everything else.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64
}

// Lexer splits PDF file syntax into tokens.
type Lexer struct {
	reader *bufio.Reader
	pos    int64
}

// NewLexer creates a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// Pos returns the number of bytes consumed so far.
func (l *Lexer) Pos() int64 {
	return l.pos
}

// NextToken returns the next token. At end of input it returns a TokenEOF
// token and a nil error.
func (l *Lexer) NextToken() (*Token, error) {
	if err := l.skipWhitespace(); err != nil && err != io.EOF {
		return nil, err
	}

	b, err := l.peek()
	if err == io.EOF {
		return &Token{Type: TokenEOF, Pos: l.pos}, nil
	}
	if err != nil {
		return nil, err
	}

	start := l.pos
	switch {
	case b == '%':
		return l.readComment()
	case b == '[':
		l.readByte()
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case b == ']':
		l.readByte()
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case b == '(':
		return l.readString()
	case b == '<':
		if next, err := l.reader.Peek(2); err == nil && next[1] == '<' {
			l.readByte()
			l.readByte()
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case b == '>':
		if next, err := l.reader.Peek(2); err == nil && next[1] == '>' {
			l.readByte()
			l.readByte()
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		return nil, fmt.Errorf("unexpected '>' at position %d", start)
	case b == '/':
		return l.readName()
	case isDigit(b) || b == '-' || b == '+' || b == '.':
		return l.readNumber()
	case isRegular(b):
		return l.readKeyword()
	}

	return nil, fmt.Errorf("unexpected character %q at position %d", b, start)
}

// SkipStreamEOL consumes the end-of-line marker that follows the stream
// keyword: LF, CR LF, or (tolerated) a lone CR.
func (l *Lexer) SkipStreamEOL() error {
	for {
		b, err := l.peek()
		if err != nil {
			return err
		}
		// some writers put spaces between the keyword and the EOL
		if b != ' ' && b != '\t' {
			break
		}
		l.readByte()
	}

	b, err := l.peek()
	if err != nil {
		return err
	}
	switch b {
	case '\n':
		l.readByte()
	case '\r':
		l.readByte()
		if next, err := l.peek(); err == nil && next == '\n' {
			l.readByte()
		}
	}
	return nil
}

// ReadBytes reads exactly n bytes of raw data.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	data := make([]byte, n)
	read, err := io.ReadFull(l.reader, data)
	l.pos += int64(read)
	if err != nil {
		return data[:read], fmt.Errorf("expected %d bytes, got %d: %w", n, read, err)
	}
	return data, nil
}

// ReadUntil consumes raw bytes up to, but not including, the first
// occurrence of marker. If marker never appears all remaining bytes are
// returned together with io.EOF.
func (l *Lexer) ReadUntil(marker []byte) ([]byte, error) {
	var buf bytes.Buffer
	for {
		b, err := l.readByte()
		if err != nil {
			return buf.Bytes(), err
		}
		buf.WriteByte(b)
		if bytes.HasSuffix(buf.Bytes(), marker) {
			data := buf.Bytes()[:buf.Len()-len(marker)]
			// step back over the marker so the caller can tokenize it
			l.reader = bufio.NewReader(io.MultiReader(bytes.NewReader(marker), l.reader))
			l.pos -= int64(len(marker))
			return data, nil
		}
	}
}

// ReadInlineImage consumes the data of an inline image, starting just
// after the ID keyword, through the closing EI. The returned data excludes
// the whitespace that precedes EI.
func (l *Lexer) ReadInlineImage() ([]byte, error) {
	if b, err := l.peek(); err == nil && IsWhitespace(b) {
		l.readByte()
	}
	var buf []byte
	for {
		b, err := l.readByte()
		if err != nil {
			return buf, fmt.Errorf("inline image without EI: %w", err)
		}
		buf = append(buf, b)
		n := len(buf)
		if n < 2 || buf[n-2] != 'E' || buf[n-1] != 'I' {
			continue
		}
		if n > 2 && !IsWhitespace(buf[n-3]) {
			continue
		}
		next, err := l.peek()
		if err == io.EOF || (err == nil && (IsWhitespace(next) || IsDelimiter(next))) {
			if n == 2 {
				return nil, nil
			}
			return buf[:n-3], nil
		}
	}
}

// Discard skips one byte. It lets callers step over bytes NextToken rejects.
func (l *Lexer) Discard() error {
	_, err := l.readByte()
	return err
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	l.pos++
	return b, nil
}

func (l *Lexer) peek() (byte, error) {
	b, err := l.reader.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (l *Lexer) skipWhitespace() error {
	for {
		b, err := l.peek()
		if err != nil {
			return err
		}
		if !IsWhitespace(b) {
			return nil
		}
		l.readByte()
	}
}

func (l *Lexer) readComment() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if b == '\r' || b == '\n' {
			break
		}
		l.readByte()
		buf.WriteByte(b)
	}
	return &Token{Type: TokenComment, Value: buf.Bytes(), Pos: start}, nil
}

// readString reads a literal string, resolving escapes and balanced parentheses.
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.readByte() // (

	var buf bytes.Buffer
	depth := 1
	for depth > 0 {
		b, err := l.readByte()
		if err != nil {
			return nil, fmt.Errorf("unterminated string at position %d: %w", start, err)
		}
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteByte(b)
			}
		case '\\':
			if err := l.readEscape(&buf); err != nil {
				return nil, err
			}
		case '\r':
			// an unescaped EOL in a literal string reads as a single LF
			if next, err := l.peek(); err == nil && next == '\n' {
				l.readByte()
			}
			buf.WriteByte('\n')
		default:
			buf.WriteByte(b)
		}
	}
	return &Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readEscape(buf *bytes.Buffer) error {
	next, err := l.readByte()
	if err != nil {
		return err
	}
	switch next {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		if peek, err := l.peek(); err == nil && peek == '\n' {
			l.readByte()
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := next - '0'
		for i := 0; i < 2; i++ {
			peek, err := l.peek()
			if err != nil || !isOctalDigit(peek) {
				break
			}
			l.readByte()
			val = val*8 + (peek - '0')
		}
		buf.WriteByte(val)
	default:
		buf.WriteByte(next)
	}
	return nil
}

// readHexString reads <...> and returns the decoded bytes. An odd digit
// count is padded with a trailing zero.
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.readByte() // <

	var digits []byte
	for {
		b, err := l.readByte()
		if err != nil {
			return nil, fmt.Errorf("unterminated hex string at position %d: %w", start, err)
		}
		if b == '>' {
			break
		}
		if IsWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit %q at position %d", b, l.pos-1)
		}
		digits = append(digits, b)
	}
	return &Token{Type: TokenHexString, Value: DecodeHexDigits(digits), Pos: start}, nil
}

// readName reads /Name, expanding #xx escapes.
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.readByte() // /

	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !isRegular(b) {
			break
		}
		l.readByte()
		if b == '#' {
			hex, err := l.reader.Peek(2)
			if err == nil && isHexDigit(hex[0]) && isHexDigit(hex[1]) {
				l.readByte()
				l.readByte()
				buf.WriteByte(hexValue(hex[0])<<4 | hexValue(hex[1]))
				continue
			}
		}
		buf.WriteByte(b)
	}
	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readNumber() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	isReal := false
scan:
	for {
		b, err := l.peek()
		if err != nil {
			break
		}
		switch {
		case isDigit(b):
		case b == '.' && !isReal:
			isReal = true
		case (b == '-' || b == '+') && buf.Len() == 0:
		default:
			break scan
		}
		l.readByte()
		buf.WriteByte(b)
	}
	typ := TokenInteger
	if isReal {
		typ = TokenReal
	}
	return &Token{Type: typ, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readKeyword() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err != nil || !isRegular(b) {
			break
		}
		l.readByte()
		buf.WriteByte(b)
	}
	if buf.Len() == 1 && buf.Bytes()[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: buf.Bytes(), Pos: start}, nil
	}
	return &Token{Type: TokenKeyword, Value: buf.Bytes(), Pos: start}, nil
}

// DecodeHexDigits converts hex digit characters to bytes, padding an odd
// trailing digit with zero. Non-hex characters must be filtered by the caller.
func DecodeHexDigits(digits []byte) []byte {
	out := make([]byte, (len(digits)+1)/2)
	for i, d := range digits {
		if i%2 == 0 {
			out[i/2] = hexValue(d) << 4
		} else {
			out[i/2] |= hexValue(d)
		}
	}
	return out
}

// IsWhitespace reports whether b is PDF whitespace.
func IsWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

// IsDelimiter reports whether b is a PDF delimiter character.
func IsDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(b byte) bool {
	return !IsWhitespace(b) && !IsDelimiter(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case isDigit(b):
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
