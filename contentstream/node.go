package contentstream

import (
	"strconv"

	"github.com/tsawler/pdftext/core"
)

// Node is one element of a parsed content stream. The set of
// implementations is closed: Sequence, Array, Operator, String, Number,
// Name and Other.
type Node interface {
	node()
}

// Sequence is an ordered run of nodes: a whole content stream, or the
// operands of one operator.
type Sequence []Node

// Array is a bracketed operand array, such as the argument of TJ.
type Array []Node

// Operator is an operator together with the operands that preceded it.
type Operator struct {
	Kind     OpKind
	Name     string
	Operands Sequence
}

// String is a literal or hex string operand, holding raw bytes.
type String struct {
	Value []byte
}

// Number is a numeric operand.
type Number float64

// Name is a name operand without its leading slash.
type Name string

// Other wraps operands with no dedicated node: booleans, null,
// dictionaries, and the data of inline images.
type Other struct {
	Value core.Object
}

func (Sequence) node() {}
func (Array) node()    {}
func (Operator) node() {}
func (String) node()   {}
func (Number) node()   {}
func (Name) node()     {}
func (Other) node()    {}

// String renders a number the way it would appear in a content stream.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// toObject converts an operand node back to a PDF object, for operands
// that end up inside dictionaries.
func toObject(n Node) core.Object {
	switch v := n.(type) {
	case String:
		return core.String(v.Value)
	case Number:
		if float64(v) == float64(int64(v)) {
			return core.Int(int64(v))
		}
		return core.Real(v)
	case Name:
		return core.Name(v)
	case Array:
		arr := make(core.Array, len(v))
		for i, elem := range v {
			arr[i] = toObject(elem)
		}
		return arr
	case Other:
		return v.Value
	}
	return core.Null{}
}
