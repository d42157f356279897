package text

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/pdftext/contentstream"
)

var (
	// ErrNoFont is returned when text is shown before any Tf.
	ErrNoFont = errors.New("no font selected")

	// ErrUnknownFont is returned when Tf names a font missing from the
	// page font table.
	ErrUnknownFont = errors.New("font not in page resources")
)

// DefaultSpaceThreshold is the TJ adjustment, in thousandths of a text
// space unit, above which a space is emitted.
const DefaultSpaceThreshold = 750

// SpacingRule selects which show operators turn large numeric array
// elements into spaces.
type SpacingRule string

const (
	// SpacingLiteral applies the threshold only to arrays shown by Tj.
	SpacingLiteral SpacingRule = "literal"
	// SpacingArray applies it to arrays shown by Tj and TJ.
	SpacingArray SpacingRule = "array"
)

// Interpreter walks a parsed content stream and reconstructs its text.
// It holds only configuration and may be shared between goroutines; all
// per-page state lives in the Context passed to Run.
type Interpreter struct {
	log            *slog.Logger
	spaceThreshold float64
	spacingRule    SpacingRule
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger for decoding diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(in *Interpreter) {
		if log != nil {
			in.log = log
		}
	}
}

// WithSpaceThreshold sets the adjustment above which a space is emitted.
func WithSpaceThreshold(threshold float64) Option {
	return func(in *Interpreter) {
		in.spaceThreshold = threshold
	}
}

// WithSpacingRule sets which operators the space threshold applies to.
func WithSpacingRule(rule SpacingRule) Option {
	return func(in *Interpreter) {
		in.spacingRule = rule
	}
}

// NewInterpreter creates an interpreter with the literal spacing rule and
// the default threshold.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{
		log:            slog.New(slog.DiscardHandler),
		spaceThreshold: DefaultSpaceThreshold,
		spacingRule:    SpacingLiteral,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run walks tree and returns the text it shows. On failure the text
// produced before the failing operator is returned with the error.
func (in *Interpreter) Run(tree contentstream.Node, ctx *Context) (string, error) {
	w := walker{in: in, ctx: ctx}
	err := w.walk(tree)
	return w.out.String(), err
}

type walker struct {
	in  *Interpreter
	ctx *Context
	out strings.Builder
}

func (w *walker) walk(node contentstream.Node) error {
	switch n := node.(type) {
	case contentstream.Sequence:
		for _, child := range n {
			if err := w.walk(child); err != nil {
				return err
			}
		}
	case contentstream.Array:
		for _, child := range n {
			if err := w.walk(child); err != nil {
				return err
			}
		}
	case contentstream.Operator:
		return w.operator(n)
	case contentstream.String:
		return w.decode(n.Value)
	case contentstream.Number, contentstream.Name, contentstream.Other:
	}
	return nil
}

func (w *walker) operator(op contentstream.Operator) error {
	if op.Kind.ShowsText() {
		return w.show(op)
	}
	switch op.Kind {
	case contentstream.OpSetTextMatrix:
		w.out.WriteByte(' ')
	case contentstream.OpSetFont:
		if len(op.Operands) != 2 {
			w.in.log.Warn("Tf needs 2 operands", "operands", len(op.Operands))
			return nil
		}
		name, _ := op.Operands[0].(contentstream.Name)
		return w.ctx.SetFont(string(name))
	case contentstream.OpMoveText, contentstream.OpMoveTextSetLeading, contentstream.OpNextLine:
	}
	return nil
}

func (w *walker) show(op contentstream.Operator) error {
	operands := op.Operands
	switch op.Kind {
	case contentstream.OpNextLineShowText:
		w.out.WriteByte('\n')
	case contentstream.OpNextLineSpacingShowText:
		w.out.WriteByte('\n')
		if len(operands) == 3 {
			operands = operands[2:]
		}
	}
	if len(operands) != 1 {
		w.in.log.Warn("unexpected operand count", "operator", op.Name, "operands", len(operands))
		return nil
	}

	arr, ok := operands[0].(contentstream.Array)
	if !ok {
		return w.walk(operands[0])
	}
	spacing := op.Kind == contentstream.OpShowText ||
		(w.in.spacingRule == SpacingArray && op.Kind == contentstream.OpShowTextArray)
	for _, elem := range arr {
		if num, ok := elem.(contentstream.Number); ok {
			if spacing && float64(num) > w.in.spaceThreshold {
				w.out.WriteByte(' ')
			}
			continue
		}
		if err := w.walk(elem); err != nil {
			return err
		}
	}
	return nil
}

// decode appends the text for a shown string. Codes the font does not map
// are logged and produce nothing.
func (w *walker) decode(data []byte) error {
	f := w.ctx.Font()
	if f == nil {
		return fmt.Errorf("show %d bytes: %w", len(data), ErrNoFont)
	}
	for _, code := range f.Codes(data) {
		s, ok := f.ToUnicode(code)
		if !ok {
			w.in.log.Debug("unmapped character code", "font", f.Name, "code", fmt.Sprintf("%#x", code))
			continue
		}
		w.out.WriteString(s)
	}
	return nil
}
