package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver resolves indirect references. The parser needs one to
// read streams whose /Length is itself an indirect object.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser builds PDF objects from a token stream, using two tokens of
// lookahead to recognise "num gen R" references.
type Parser struct {
	lexer    *Lexer
	current  *Token
	peek     *Token
	resolver ReferenceResolver
}

// NewParser creates a parser reading from r.
func NewParser(r io.Reader) *Parser {
	p := &Parser{lexer: NewLexer(r)}
	p.advance()
	p.advance()
	return p
}

// SetReferenceResolver installs the resolver used for indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// advance shifts the lookahead window. Once "stream" becomes the current
// token nothing further is tokenized, since raw data follows.
func (p *Parser) advance() error {
	p.current = p.peek
	if p.current != nil && p.current.Type == TokenKeyword && string(p.current.Value) == "stream" {
		p.peek = nil
		return nil
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.peek = nil
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) skipComments() {
	for p.current != nil && p.current.Type == TokenComment {
		p.advance()
	}
	for p.peek != nil && p.peek.Type == TokenComment {
		tok, err := p.lexer.NextToken()
		if err != nil {
			p.peek = nil
			return
		}
		p.peek = tok
	}
}

func (p *Parser) isKeyword(word string) bool {
	return p.current != nil && p.current.Type == TokenKeyword && string(p.current.Value) == word
}

// ParseObject parses the next direct object. It returns io.EOF at end of input.
func (p *Parser) ParseObject() (Object, error) {
	p.skipComments()
	if p.current == nil {
		return nil, fmt.Errorf("unexpected end of input")
	}

	tok := p.current
	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF
	case TokenKeyword:
		var obj Object
		switch string(tok.Value) {
		case "null":
			obj = Null{}
		case "true":
			obj = Bool(true)
		case "false":
			obj = Bool(false)
		default:
			return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)
		}
		p.advance()
		return obj, nil
	case TokenInteger:
		return p.parseNumber()
	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real %q: %w", tok.Value, err)
		}
		p.advance()
		return Real(val), nil
	case TokenString, TokenHexString:
		p.advance()
		return String(tok.Value), nil
	case TokenName:
		p.advance()
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDict()
	}
	return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
}

// parseNumber parses an integer, or an indirect reference when the integer
// is followed by another integer and R.
func (p *Parser) parseNumber() (Object, error) {
	first, err := strconv.ParseInt(string(p.current.Value), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(p.current.Value), 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q", p.current.Value)
		}
		p.advance()
		return Real(f), nil
	}

	if p.peek != nil && p.peek.Type == TokenInteger {
		second, err := strconv.ParseInt(string(p.peek.Value), 10, 64)
		if err == nil {
			p.advance()
			if p.peek != nil && p.peek.Type == TokenIndirectRef {
				p.advance()
				p.advance()
				return IndirectRef{Number: int(first), Generation: int(second)}, nil
			}
			// the second integer is now current and will be parsed next
			return Int(first), nil
		}
	}

	p.advance()
	return Int(first), nil
}

func (p *Parser) parseArray() (Object, error) {
	p.advance() // [
	arr := Array{}
	for {
		p.skipComments()
		if p.current == nil || p.current.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected end of input in array")
		}
		if p.current.Type == TokenArrayEnd {
			p.advance()
			return arr, nil
		}
		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Object, error) {
	p.advance() // <<
	dict := Dict{}
	for {
		p.skipComments()
		if p.current == nil || p.current.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected end of input in dictionary")
		}
		if p.current.Type == TokenDictEnd {
			p.advance()
			return dict, nil
		}
		if p.current.Type != TokenName {
			return nil, fmt.Errorf("expected name as dictionary key at position %d, got %q", p.current.Pos, p.current.Value)
		}
		key := string(p.current.Value)
		p.advance()

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("dictionary value for /%s: %w", key, err)
		}
		// a null value is equivalent to an absent key
		if _, isNull := value.(Null); !isNull {
			dict[key] = value
		}
	}
}

// ParseIndirectObject parses "num gen obj ... endobj", including stream objects.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	p.skipComments()
	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("obj") {
		return nil, fmt.Errorf("expected 'obj' after %d %d", num, gen)
	}
	p.advance()

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
	}

	if p.isKeyword("stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %d %d: stream must follow a dictionary", num, gen)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("object %d %d: %w", num, gen, err)
		}
		obj = stream
	}

	// endobj is frequently missing or misspelled in the wild; only insist on
	// it when something else is clearly there
	if p.isKeyword("endobj") {
		p.advance()
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: int(num), Generation: int(gen)},
		Object: obj,
	}, nil
}

func (p *Parser) expectInt(what string) (int64, error) {
	if p.current == nil || p.current.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s", what)
	}
	v, err := strconv.ParseInt(string(p.current.Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", what, err)
	}
	p.advance()
	return v, nil
}

// parseStream reads the raw bytes following the stream keyword. When
// /Length is missing or wrong the data is recovered by scanning for
// endstream.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	if err := p.lexer.SkipStreamEOL(); err != nil {
		return nil, fmt.Errorf("skip EOL after stream keyword: %w", err)
	}

	length := p.streamLength(dict)

	var data []byte
	if length >= 0 {
		raw, err := p.lexer.ReadBytes(length)
		if err != nil {
			return nil, fmt.Errorf("read stream data: %w", err)
		}
		data = raw
		tok, err := p.lexer.NextToken()
		if err != nil || tok.Type != TokenKeyword || string(tok.Value) != "endstream" {
			// Length lied; keep going until the real endstream
			rest, rerr := p.lexer.ReadUntil([]byte("endstream"))
			if rerr != nil {
				return nil, fmt.Errorf("missing endstream: %w", rerr)
			}
			if tok != nil {
				data = append(data, p.tokenBytes(tok)...)
			}
			data = append(data, rest...)
			if _, err := p.lexer.NextToken(); err != nil {
				return nil, err
			}
		}
	} else {
		raw, err := p.lexer.ReadUntil([]byte("endstream"))
		if err != nil {
			return nil, fmt.Errorf("missing endstream: %w", err)
		}
		data = bytes.TrimRight(raw, "\r\n")
		if _, err := p.lexer.NextToken(); err != nil {
			return nil, err
		}
	}

	p.current = nil
	p.peek = nil
	p.advance()
	p.advance()

	return &Stream{Dict: dict, Data: data}, nil
}

// tokenBytes is a best-effort reconstruction of data that was mistakenly
// tokenized while looking for endstream.
func (p *Parser) tokenBytes(tok *Token) []byte {
	if tok.Type == TokenEOF {
		return nil
	}
	return tok.Value
}

// streamLength returns the declared /Length, or -1 when it is unusable.
func (p *Parser) streamLength(dict Dict) int {
	switch v := dict.Get("Length").(type) {
	case Int:
		if v >= 0 {
			return int(v)
		}
	case IndirectRef:
		if p.resolver == nil {
			return -1
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return -1
		}
		if n, ok := resolved.(Int); ok && n >= 0 {
			return int(n)
		}
	}
	return -1
}
