package yaml

import (
	"math"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/keycase/internal/format"
)

func TestHandler_Parse(t *testing.T) {
	h := New()

	tests := []struct {
		name     string
		input    string
		wantKeys []string
		wantErr  bool
	}{
		{name: "simple mapping", input: "key: value\n", wantKeys: []string{"key"}},
		{name: "order preserved", input: "zebra: 1\napple: 2\nmango: 3\n", wantKeys: []string{"zebra", "apple", "mango"}},
		{name: "nested mapping", input: "outer:\n  inner: value\n", wantKeys: []string{"outer"}},
		{name: "invalid yaml", input: "key: [unclosed\n", wantErr: true},
		{name: "complex key", input: "? [a, b]\n: value\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Parse([]byte(tt.input), format.ParseOptions{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			om, ok := got.(*orderedmap.OrderedMap)
			require.True(t, ok, "Parse() returned %T", got)
			assert.Equal(t, tt.wantKeys, om.Keys())
		})
	}
}

func TestHandler_Parse_Scalars(t *testing.T) {
	h := New()

	got, err := h.Parse([]byte("s: hello\ni: 42\nf: 1.5\nb: true\nn: null\nlist:\n  - one\n  - two\n"), format.ParseOptions{})
	require.NoError(t, err)
	om := got.(*orderedmap.OrderedMap)

	s, _ := om.Get("s")
	assert.Equal(t, "hello", s)
	i, _ := om.Get("i")
	assert.Equal(t, 42, i)
	f, _ := om.Get("f")
	assert.Equal(t, 1.5, f)
	b, _ := om.Get("b")
	assert.Equal(t, true, b)
	n, exists := om.Get("n")
	assert.True(t, exists)
	assert.Nil(t, n)
	list, _ := om.Get("list")
	assert.Equal(t, []any{"one", "two"}, list)
}

func TestHandler_Parse_Aliases(t *testing.T) {
	h := New()

	input := "base: &base\n  retryCount: 3\ncopy: *base\n"
	got, err := h.Parse([]byte(input), format.ParseOptions{})
	require.NoError(t, err)

	copied, _ := got.(*orderedmap.OrderedMap).Get("copy")
	om, ok := copied.(*orderedmap.OrderedMap)
	require.True(t, ok, "alias resolved to %T", copied)
	v, _ := om.Get("retryCount")
	assert.Equal(t, 3, v)
}

func TestHandler_Parse_NonMappingRoot(t *testing.T) {
	h := New()

	got, err := h.Parse([]byte("- a: 1\n- b\n"), format.ParseOptions{})
	require.NoError(t, err)
	arr, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, arr, 2)
	assert.IsType(t, &orderedmap.OrderedMap{}, arr[0])
	assert.Equal(t, "b", arr[1])

	got, err = h.Parse([]byte(""), format.ParseOptions{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHandler_Parse_StripCommentsError(t *testing.T) {
	_, err := New().Parse([]byte("a: 1\n"), format.ParseOptions{StripComments: true})
	assert.Error(t, err)
}

func TestHandler_RoundTrip(t *testing.T) {
	h := New()

	inner := orderedmap.New()
	inner.Set("zeta", 1.0)
	inner.Set("alpha", "true")
	tree := orderedmap.New()
	tree.Set("second", inner)
	tree.Set("first", []any{int64(7), nil, false, 2.5})
	tree.Set("plain", map[string]any{"b": "x", "a": "y"})

	data, err := h.Serialize(tree, format.SerializeOptions{})
	require.NoError(t, err)

	back, err := h.Parse(data, format.ParseOptions{})
	require.NoError(t, err)
	om := back.(*orderedmap.OrderedMap)
	assert.Equal(t, []string{"second", "first", "plain"}, om.Keys())

	second, _ := om.Get("second")
	secondMap := second.(*orderedmap.OrderedMap)
	assert.Equal(t, []string{"zeta", "alpha"}, secondMap.Keys())
	zeta, _ := secondMap.Get("zeta")
	assert.Equal(t, 1.0, zeta)
	alpha, _ := secondMap.Get("alpha")
	assert.Equal(t, "true", alpha, "string that looks like a bool must stay a string")

	first, _ := om.Get("first")
	assert.Equal(t, []any{7, nil, false, 2.5}, first)

	plain, _ := om.Get("plain")
	assert.Equal(t, []string{"a", "b"}, plain.(*orderedmap.OrderedMap).Keys())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.0", formatFloat(1))
	assert.Equal(t, "2.5", formatFloat(2.5))
	assert.Equal(t, "1e+21", formatFloat(1e21))
	assert.Equal(t, ".inf", formatFloat(math.Inf(1)))
	assert.Equal(t, "-.inf", formatFloat(math.Inf(-1)))
	assert.Equal(t, ".nan", formatFloat(math.NaN()))
}
