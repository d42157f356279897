package pages

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdftext/core"
)

// mockResolver serves objects from a map
type mockResolver struct {
	objects map[int]core.Object
}

func newMockResolver() *mockResolver {
	return &mockResolver{objects: make(map[int]core.Object)}
}

func (m *mockResolver) add(num int, obj core.Object) {
	m.objects[num] = obj
}

func (m *mockResolver) Resolve(obj core.Object) (core.Object, error) {
	ref, ok := obj.(core.IndirectRef)
	if !ok {
		return obj, nil
	}
	resolved, ok := m.objects[ref.Number]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.Number)
	}
	return resolved, nil
}

func ref(n int) core.IndirectRef {
	return core.IndirectRef{Number: n}
}

func TestPageTreeFlattening(t *testing.T) {
	m := newMockResolver()
	m.add(3, core.Dict{"Type": core.Name("Page"), "Parent": ref(2), "Rotate": core.Int(90)})
	m.add(4, core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(5), ref(6)}})
	m.add(5, core.Dict{"Type": core.Name("Page"), "Contents": ref(7)})
	m.add(6, core.Dict{"Type": core.Name("Page")})
	m.add(7, &core.Stream{Data: []byte("BT ET")})

	root := core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      core.Array{ref(3), ref(4)},
		"Count":     core.Int(99),
		"Resources": core.Dict{"Font": core.Dict{"F1": ref(8)}},
		"MediaBox":  core.Array{core.Int(0), core.Int(0), core.Real(612), core.Int(792)},
	}
	tree := NewPageTree(root, m)

	count, err := tree.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count, "count comes from the walk, not /Count")

	first, err := tree.GetPage(0)
	require.NoError(t, err)
	assert.Equal(t, 90, first.Rotate())
	assert.Equal(t, 0, first.Index())

	second, err := tree.GetPage(1)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Index())
	contents, err := second.Contents()
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "BT ET", string(contents[0].Data))

	third, err := tree.GetPage(2)
	require.NoError(t, err)
	fonts, err := third.FontResources()
	require.NoError(t, err)
	assert.Equal(t, ref(8), fonts.Get("F1"), "resources are inherited from the root")

	box, err := third.MediaBox()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 612, 792}, box)

	_, err = tree.GetPage(3)
	assert.Error(t, err)
	_, err = tree.GetPage(-1)
	assert.Error(t, err)
}

func TestPageResourcesOverride(t *testing.T) {
	m := newMockResolver()
	m.add(2, core.Dict{
		"Type":      core.Name("Page"),
		"Resources": ref(3),
	})
	m.add(3, core.Dict{"Font": ref(4)})
	m.add(4, core.Dict{"F9": core.Dict{"Type": core.Name("Font")}})

	root := core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      core.Array{ref(2)},
		"Resources": core.Dict{"Font": core.Dict{"F1": ref(8)}},
	}
	page, err := NewPageTree(root, m).GetPage(0)
	require.NoError(t, err)

	fonts, err := page.FontResources()
	require.NoError(t, err)
	assert.True(t, fonts.Has("F9"))
	assert.False(t, fonts.Has("F1"))
}

func TestPageWithoutResources(t *testing.T) {
	page := NewPage(core.Dict{"Type": core.Name("Page")}, newMockResolver())

	res, err := page.Resources()
	require.NoError(t, err)
	assert.Empty(t, res)

	fonts, err := page.FontResources()
	require.NoError(t, err)
	assert.Empty(t, fonts)

	contents, err := page.Contents()
	require.NoError(t, err)
	assert.Nil(t, contents)

	_, err = page.MediaBox()
	assert.Error(t, err)
}

func TestPageFontResourcesNotADictionary(t *testing.T) {
	m := newMockResolver()
	m.add(4, core.Array{core.Name("F1")})

	tests := []struct {
		name string
		font core.Object
	}{
		{"integer", core.Int(5)},
		{"name", core.Name("Helvetica")},
		{"indirect array", ref(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(core.Dict{
				"Type":      core.Name("Page"),
				"Resources": core.Dict{"Font": tt.font},
			}, m)

			fonts, err := page.FontResources()
			require.NoError(t, err)
			assert.NotNil(t, fonts)
			assert.Empty(t, fonts)
		})
	}
}

func TestPageContentsArray(t *testing.T) {
	m := newMockResolver()
	m.add(1, &core.Stream{Data: []byte("a")})
	m.add(2, &core.Stream{Data: []byte("b")})
	m.add(3, core.Array{ref(1), core.Int(5), ref(2)})

	page := NewPage(core.Dict{"Contents": ref(3)}, m)
	contents, err := page.Contents()
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "a", string(contents[0].Data))
	assert.Equal(t, "b", string(contents[1].Data))
}

func TestPageTreeLoop(t *testing.T) {
	m := newMockResolver()
	m.add(2, core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(2)}})

	root := core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(2)}}
	_, err := NewPageTree(root, m).Count()
	assert.Error(t, err)
}

func TestPageTreeMissingType(t *testing.T) {
	m := newMockResolver()
	m.add(2, core.Dict{"Kids": core.Array{ref(3)}})
	m.add(3, core.Dict{"Contents": ref(4)})

	root := core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(2), core.Int(1)}}
	count, err := NewPageTree(root, m).Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
