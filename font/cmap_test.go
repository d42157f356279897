package font

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

const identityCMapHeader = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
`

func TestRangeMapParserParse(t *testing.T) {
	tests := []struct {
		name string
		cmap string
		want map[uint16]string
	}{
		{
			name: "bfchar",
			cmap: identityCMapHeader + `4 beginbfchar
<0003> <0020>
<0004> <0041>
<0005> <0042>
<0006> <0043>
endbfchar
endcmap`,
			want: map[uint16]string{0x03: " ", 0x04: "A", 0x05: "B", 0x06: "C"},
		},
		{
			name: "range to range",
			cmap: `1 beginbfrange
<0010> <0013> <0061>
endbfrange`,
			want: map[uint16]string{0x10: "a", 0x11: "b", 0x12: "c", 0x13: "d"},
		},
		{
			name: "range to array stops at range end",
			cmap: `1 beginbfrange
<0001> <0002> [<0066006C> <0041> <0042>]
endbfrange`,
			want: map[uint16]string{0x01: "fl", 0x02: "A"},
		},
		{
			name: "range to array stops when array runs out",
			cmap: `beginbfrange
<0001> <0009> [<0058> <0059>]
endbfrange`,
			want: map[uint16]string{0x01: "X", 0x02: "Y"},
		},
		{
			name: "keywords and hex are case-insensitive",
			cmap: `BEGINBFCHAR
<00AB> <00E9>
ENDBFCHAR`,
			want: map[uint16]string{0xAB: "é"},
		},
		{
			name: "surrogate pair destination",
			cmap: `beginbfchar
<0001> <D83DDE00>
endbfchar`,
			want: map[uint16]string{0x01: "😀"},
		},
		{
			name: "range end is clamped",
			cmap: `beginbfrange
<FFFD> <FFFFFF> <0041>
endbfrange`,
			want: map[uint16]string{0xFFFD: "A", 0xFFFE: "B"},
		},
		{
			name: "start beyond clamped end is skipped",
			cmap: `beginbfrange
<FFFFF> <FFFFFF> <0041>
<0001> <0001> <0042>
endbfrange`,
			want: map[uint16]string{0x01: "B"},
		},
		{
			name: "start after end is skipped",
			cmap: `beginbfrange
<0005> <0003> <0041>
endbfrange`,
			want: map[uint16]string{},
		},
		{
			name: "bfchar code is clamped",
			cmap: `beginbfchar
<12345> <0041>
endbfchar`,
			want: map[uint16]string{0xFFFE: "A"},
		},
		{
			name: "last write wins across blocks",
			cmap: `beginbfrange
<0001> <0003> <0041>
endbfrange
beginbfchar
<0002> <007A>
endbfchar`,
			want: map[uint16]string{0x01: "A", 0x02: "z", 0x03: "C"},
		},
		{
			name: "bfchar overrides an earlier-written range",
			cmap: `beginbfchar
<0002> <007A>
endbfchar
beginbfrange
<0001> <0003> <0041>
endbfrange`,
			want: map[uint16]string{0x01: "A", 0x02: "z", 0x03: "C"},
		},
		{
			name: "unterminated bfrange does not hide a later bfchar block",
			cmap: `beginbfrange
<0001> <0002> <0041>
beginbfchar
<0005> <0058>
endbfchar`,
			want: map[uint16]string{0x01: "A", 0x02: "B", 0x05: "X"},
		},
		{
			name: "unterminated block runs to end of text",
			cmap: `beginbfchar
<0001> <0041>
<0002> <0042>`,
			want: map[uint16]string{0x01: "A", 0x02: "B"},
		},
		{
			name: "carriage return separators",
			cmap: "beginbfchar\r<0001> <0041>\r<0002> <0042>\rendbfchar",
			want: map[uint16]string{0x01: "A", 0x02: "B"},
		},
		{
			name: "several entries on one line",
			cmap: `beginbfchar
<01> <0041> <02> <0042>
endbfchar`,
			want: map[uint16]string{0x01: "A", 0x02: "B"},
		},
		{
			name: "bfrange grammar does not apply in bfchar blocks",
			cmap: `beginbfchar
<0001> <0003> <0041>
endbfchar`,
			want: map[uint16]string{0x01: "\x03"},
		},
		{
			name: "no blocks",
			cmap: identityCMapHeader + "endcmap",
			want: map[uint16]string{},
		},
	}

	p := NewRangeMapParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.cmap)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRangeMapParserPartialOnError(t *testing.T) {
	var logs bytes.Buffer
	p := NewRangeMapParser(slog.New(slog.NewTextHandler(&logs, nil)))

	got := p.Parse(`beginbfchar
<0001> <0041>
<123456789ABC> <0042>
<0003> <0043>
endbfchar`)

	assert.Equal(t, map[uint16]string{0x01: "A"}, got)
	assert.Contains(t, logs.String(), "cmap parse stopped")
}
