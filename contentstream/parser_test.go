package contentstream

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdftext/core"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Sequence
	}{
		{
			name:  "text object",
			input: "BT /F1 12 Tf (Hello) Tj ET",
			want: Sequence{
				Operator{Kind: OpBeginText, Name: "BT"},
				Operator{Kind: OpSetFont, Name: "Tf", Operands: Sequence{Name("F1"), Number(12)}},
				Operator{Kind: OpShowText, Name: "Tj", Operands: Sequence{String{Value: []byte("Hello")}}},
				Operator{Kind: OpEndText, Name: "ET"},
			},
		},
		{
			name:  "TJ array with kerning",
			input: "[(A) -120 <0042> 800.5] TJ",
			want: Sequence{
				Operator{Kind: OpShowTextArray, Name: "TJ", Operands: Sequence{
					Array{String{Value: []byte("A")}, Number(-120), String{Value: []byte{0x00, 0x42}}, Number(800.5)},
				}},
			},
		},
		{
			name:  "quote operators",
			input: "(line) ' 1 2 (spaced) \"",
			want: Sequence{
				Operator{Kind: OpNextLineShowText, Name: "'", Operands: Sequence{String{Value: []byte("line")}}},
				Operator{Kind: OpNextLineSpacingShowText, Name: "\"", Operands: Sequence{
					Number(1), Number(2), String{Value: []byte("spaced")},
				}},
			},
		},
		{
			name:  "positioning",
			input: "1 0 0 1 72 700 Tm 0 -14 Td 0 -14 TD T*",
			want: Sequence{
				Operator{Kind: OpSetTextMatrix, Name: "Tm", Operands: Sequence{Number(1), Number(0), Number(0), Number(1), Number(72), Number(700)}},
				Operator{Kind: OpMoveText, Name: "Td", Operands: Sequence{Number(0), Number(-14)}},
				Operator{Kind: OpMoveTextSetLeading, Name: "TD", Operands: Sequence{Number(0), Number(-14)}},
				Operator{Kind: OpNextLine, Name: "T*"},
			},
		},
		{
			name:  "comments are dropped",
			input: "q % save state\n1 0 0 1 0 0 cm Q",
			want: Sequence{
				Operator{Kind: OpOther, Name: "q"},
				Operator{Kind: OpOther, Name: "cm", Operands: Sequence{Number(1), Number(0), Number(0), Number(1), Number(0), Number(0)}},
				Operator{Kind: OpOther, Name: "Q"},
			},
		},
		{
			name:  "marked content with dictionary",
			input: "/Span <</ActualText (fi) /MCID 3 /Hidden false>> BDC EMC",
			want: Sequence{
				Operator{Kind: OpBeginMarkedContent, Name: "BDC", Operands: Sequence{
					Name("Span"),
					Other{Value: core.Dict{"ActualText": core.String("fi"), "MCID": core.Int(3), "Hidden": core.Bool(false)}},
				}},
				Operator{Kind: OpEndMarkedContent, Name: "EMC"},
			},
		},
		{
			name:  "boolean and null operands",
			input: "true false null foo",
			want: Sequence{
				Operator{Kind: OpOther, Name: "foo", Operands: Sequence{
					Other{Value: core.Bool(true)}, Other{Value: core.Bool(false)}, Other{Value: core.Null{}},
				}},
			},
		},
		{
			name:  "stray delimiters are skipped",
			input: "} (a) Tj ] >> { (b) Tj",
			want: Sequence{
				Operator{Kind: OpShowText, Name: "Tj", Operands: Sequence{String{Value: []byte("a")}}},
				Operator{Kind: OpShowText, Name: "Tj", Operands: Sequence{String{Value: []byte("b")}}},
			},
		},
		{
			name:  "trailing operands dropped",
			input: "(x) Tj (y)",
			want: Sequence{
				Operator{Kind: OpShowText, Name: "Tj", Operands: Sequence{String{Value: []byte("x")}}},
			},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseInlineImage(t *testing.T) {
	input := "q BI /W 2 /H 1 /BPC 8 /CS /G /IM false ID \x00EI\xff\nEI Q (after) Tj"
	got, err := Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, got, 4)

	img, ok := got[1].(Operator)
	require.True(t, ok)
	assert.Equal(t, OpInlineImage, img.Kind)
	require.Len(t, img.Operands, 1)

	stream, ok := img.Operands[0].(Other).Value.(*core.Stream)
	require.True(t, ok)
	assert.Equal(t, []byte("\x00EI\xff"), stream.Data)
	assert.Equal(t, core.Int(2), stream.Dict.Get("W"))
	assert.Equal(t, core.Name("G"), stream.Dict.Get("CS"))
	assert.Equal(t, core.Bool(false), stream.Dict.Get("IM"))

	assert.Equal(t, "Q", got[2].(Operator).Name)
	assert.Equal(t, OpShowText, got[3].(Operator).Kind)
}

func TestParseUnterminatedString(t *testing.T) {
	got, err := Parse([]byte("(ok) Tj (never closed"))
	assert.Error(t, err)
	require.Len(t, got, 1, "operators before the error are kept")
	assert.Equal(t, OpShowText, got[0].(Operator).Kind)
}

func TestParsersAreIndependent(t *testing.T) {
	// operands pending in one parser never leak into another
	a := NewParser([]byte("(left) Tj"))
	b := NewParser([]byte("Tj"))

	gotB, err := b.Parse()
	require.NoError(t, err)
	gotA, err := a.Parse()
	require.NoError(t, err)

	assert.Empty(t, gotB[0].(Operator).Operands)
	assert.Len(t, gotA[0].(Operator).Operands, 1)
}

func TestOpKind(t *testing.T) {
	assert.Equal(t, OpShowText, KindOf("Tj"))
	assert.Equal(t, OpOther, KindOf("re"))
	assert.Equal(t, "SetFont", OpSetFont.String())
	assert.Equal(t, "Unknown", OpKind(-1).String())

	for _, k := range []OpKind{OpShowText, OpShowTextArray, OpNextLineShowText, OpNextLineSpacingShowText} {
		assert.True(t, k.ShowsText(), k.String())
	}
	assert.False(t, OpSetFont.ShowsText())
}
