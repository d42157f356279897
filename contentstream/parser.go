package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tsawler/pdftext/core"
)

// Parser turns content stream bytes into a Sequence of Operator nodes.
// Operands accumulate until an operator keyword claims them. All state
// lives in the Parser, so separate parsers may run concurrently.
type Parser struct {
	lexer    *core.Lexer
	operands Sequence
}

// NewParser creates a parser over data.
func NewParser(data []byte) *Parser {
	return &Parser{lexer: core.NewLexer(bytes.NewReader(data))}
}

// Parse is shorthand for NewParser(data).Parse().
func Parse(data []byte) (Sequence, error) {
	return NewParser(data).Parse()
}

// Parse reads the whole stream. On a syntax error that cannot be skipped,
// such as an unterminated string, it returns the operators parsed so far
// together with the error. Operands left without an operator at the end
// are dropped.
func (p *Parser) Parse() (Sequence, error) {
	var ops Sequence
	for {
		tok, err := p.next()
		if err != nil {
			return ops, err
		}
		switch tok.Type {
		case core.TokenEOF:
			return ops, nil
		case core.TokenComment, core.TokenArrayEnd, core.TokenDictEnd:
			// comments and unbalanced closers carry nothing
			continue
		case core.TokenKeyword, core.TokenIndirectRef:
			op, err := p.operator(string(tok.Value))
			if err != nil {
				return ops, err
			}
			if op != nil {
				ops = append(ops, op)
			}
		default:
			operand, err := p.operand(tok)
			if err != nil {
				return ops, err
			}
			p.operands = append(p.operands, operand)
		}
	}
}

// next returns the next token, stepping over bytes the lexer rejects
// (stray delimiters such as '}' or '>').
func (p *Parser) next() (*core.Token, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err == nil {
			return tok, nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		if derr := p.lexer.Discard(); derr != nil {
			return &core.Token{Type: core.TokenEOF}, nil
		}
	}
}

func (p *Parser) operator(name string) (Node, error) {
	switch name {
	case "true", "false", "null":
		// keywords that are operands, not operators
		var obj core.Object = core.Null{}
		if name != "null" {
			obj = core.Bool(name == "true")
		}
		p.operands = append(p.operands, Other{Value: obj})
		return nil, nil
	case "BI":
		return p.inlineImage()
	}

	op := Operator{Kind: KindOf(name), Name: name, Operands: p.operands}
	p.operands = nil
	return op, nil
}

// inlineImage reads "BI key value ... ID data EI" into one operator whose
// single operand is a stream holding the image dictionary and data.
func (p *Parser) inlineImage() (Node, error) {
	dict := core.Dict{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == core.TokenEOF {
			return nil, fmt.Errorf("inline image without ID")
		}
		if tok.Type == core.TokenKeyword && string(tok.Value) == "ID" {
			break
		}
		if tok.Type != core.TokenName {
			return nil, fmt.Errorf("inline image key is %q, not a name", tok.Value)
		}
		key := string(tok.Value)
		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		var value Node
		if valTok.Type == core.TokenKeyword {
			// /IM true and similar
			value = Other{Value: keywordObject(string(valTok.Value))}
		} else if value, err = p.operand(valTok); err != nil {
			return nil, err
		}
		dict[key] = toObject(value)
	}

	data, err := p.lexer.ReadInlineImage()
	if err != nil {
		return nil, err
	}
	op := Operator{
		Kind:     OpInlineImage,
		Name:     "BI",
		Operands: Sequence{Other{Value: &core.Stream{Dict: dict, Data: data}}},
	}
	p.operands = nil
	return op, nil
}

func keywordObject(word string) core.Object {
	switch word {
	case "true":
		return core.Bool(true)
	case "false":
		return core.Bool(false)
	}
	return core.Null{}
}

// operand converts tok, and for arrays and dictionaries the tokens that
// follow it, into an operand node.
func (p *Parser) operand(tok *core.Token) (Node, error) {
	switch tok.Type {
	case core.TokenInteger, core.TokenReal:
		v, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			// malformed numbers like "--5" read as zero
			return Number(0), nil
		}
		return Number(v), nil
	case core.TokenString, core.TokenHexString:
		return String{Value: tok.Value}, nil
	case core.TokenName:
		return Name(tok.Value), nil
	case core.TokenArrayStart:
		return p.array()
	case core.TokenDictStart:
		return p.dict()
	}
	return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
}

func (p *Parser) array() (Node, error) {
	arr := Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenEOF:
			return nil, fmt.Errorf("unterminated array")
		case core.TokenArrayEnd:
			return arr, nil
		case core.TokenComment:
			continue
		case core.TokenKeyword:
			arr = append(arr, Other{Value: keywordObject(string(tok.Value))})
			continue
		}
		elem, err := p.operand(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, elem)
	}
}

func (p *Parser) dict() (Node, error) {
	dict := core.Dict{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case core.TokenEOF:
			return nil, fmt.Errorf("unterminated dictionary")
		case core.TokenDictEnd:
			return Other{Value: dict}, nil
		case core.TokenComment:
			continue
		case core.TokenName:
		default:
			return nil, fmt.Errorf("dictionary key %q is not a name", tok.Value)
		}
		key := string(tok.Value)

		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if valTok.Type == core.TokenKeyword {
			dict[key] = keywordObject(string(valTok.Value))
			continue
		}
		value, err := p.operand(valTok)
		if err != nil {
			return nil, err
		}
		dict[key] = toObject(value)
	}
}
