package report

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/keycase/internal/keycase"
)

func TestExplain(t *testing.T) {
	plan := keycase.Plan{
		Renames: []keycase.Rename{
			{Path: nil, From: "userId", To: "id", Manual: true},
			{Path: []string{"profile"}, From: "displayName", To: "display_name"},
		},
		Collisions: []keycase.Collision{
			{Path: []string{"profile"}, Key: "display_name", From: "display_name"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Explain(&buf, plan, false))

	want := `[] userId -> id (manual)
["profile"] displayName -> display_name
warning: ["profile"] display_name overwritten by "display_name"
`
	assert.Equal(t, want, buf.String())
}

func TestExplain_Colored(t *testing.T) {
	plan := keycase.Plan{Renames: []keycase.Rename{{From: "aB", To: "a_b"}}}

	var buf bytes.Buffer
	require.NoError(t, Explain(&buf, plan, true))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "a_b")
}

func TestExplain_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Explain(&buf, keycase.Plan{}, false))
	assert.Empty(t, buf.String())
}

func TestDiff(t *testing.T) {
	before := "{\n  \"userId\": 1,\n  \"same\": 2\n}\n"
	after := "{\n  \"user_id\": 1,\n  \"same\": 2\n}\n"

	want := "  {\n-  \"userId\": 1,\n+  \"user_id\": 1,\n    \"same\": 2\n  }\n"
	assert.Equal(t, want, Diff([]byte(before), []byte(after)))
}

func TestDiff_Identical(t *testing.T) {
	assert.Empty(t, Diff([]byte("a\nb\n"), []byte("a\nb\n")))
}

func TestColorize(t *testing.T) {
	got := Colorize("  same\n-old\n+new\n")

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  same", lines[0])
	assert.Contains(t, lines[1], "\x1b[31m")
	assert.Contains(t, lines[1], "-old")
	assert.Contains(t, lines[2], "\x1b[32m")
	assert.Equal(t, "", lines[3])
}

func TestUseColor_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, UseColor(f))
}
