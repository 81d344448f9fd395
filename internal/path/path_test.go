package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArrayPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "single segment", input: `["dependencies"]`, want: []string{"dependencies"}},
		{name: "nested", input: `["scripts", "build"]`, want: []string{"scripts", "build"}},
		{name: "wildcard", input: `["*", "id"]`, want: []string{"*", "id"}},
		{name: "empty array", input: `[]`, want: []string{}},
		{name: "not json", input: `scripts.build`, wantErr: true},
		{name: "not strings", input: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArrayPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Segments())
		})
	}
}

func TestArrayPath_String(t *testing.T) {
	assert.Equal(t, `["a","b"]`, NewArrayPath([]string{"a", "b"}).String())
	assert.Equal(t, `[]`, NewArrayPath(nil).String())
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		path []string
		keys []string
		want bool
	}{
		{name: "exact", path: []string{"a", "b"}, keys: []string{"a", "b"}, want: true},
		{name: "wildcard", path: []string{"a", "*"}, keys: []string{"a", "anything"}, want: true},
		{name: "leading wildcard", path: []string{"*", "b"}, keys: []string{"x", "b"}, want: true},
		{name: "different key", path: []string{"a", "b"}, keys: []string{"a", "c"}, want: false},
		{name: "shorter keys", path: []string{"a", "b"}, keys: []string{"a"}, want: false},
		{name: "longer keys", path: []string{"a"}, keys: []string{"a", "b"}, want: false},
		{name: "case sensitive", path: []string{"A"}, keys: []string{"a"}, want: false},
		{name: "empty path matches root", path: []string{}, keys: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(NewArrayPath(tt.path), tt.keys))
		})
	}
}
