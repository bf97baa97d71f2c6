package searcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name    string
		preview string
		terms   []string
		want    string
	}{
		{
			name:    "single term case-insensitive",
			preview: "Install the CLI",
			terms:   []string{"install"},
			want:    "<mark>Install</mark> the CLI",
		},
		{
			name:    "multiple terms",
			preview: "Install the CLI",
			terms:   []string{"install", "cli"},
			want:    "<mark>Install</mark> the <mark>CLI</mark>",
		},
		{
			name:    "repeated occurrences",
			preview: "error after error",
			terms:   []string{"error"},
			want:    "<mark>error</mark> after <mark>error</mark>",
		},
		{
			name:    "overlapping terms merge into one span",
			preview: "configuration file",
			terms:   []string{"config", "configuration"},
			want:    "<mark>configuration</mark> file",
		},
		{
			name:    "no match leaves preview untouched",
			preview: "nothing relevant here",
			terms:   []string{"absent"},
			want:    "nothing relevant here",
		},
		{
			name:    "empty preview",
			preview: "",
			terms:   []string{"term"},
			want:    "",
		},
		{
			name:    "no terms",
			preview: "some text",
			terms:   nil,
			want:    "some text",
		},
		{
			name:    "adjacent matches merge",
			preview: "abcdef",
			terms:   []string{"abc", "def"},
			want:    "<mark>abcdef</mark>",
		},
		{
			// U+023A lowercases to U+2C65, which is one byte longer, so
			// match offsets in the folded text shift relative to the
			// original. The match near the end must still slice cleanly.
			name:    "lowercasing changes rune width",
			preview: "ȺȺȺȺȺ install the cli",
			terms:   []string{"install", "cli"},
			want:    "ȺȺȺȺȺ <mark>install</mark> the <mark>cli</mark>",
		},
		{
			name:    "non-ascii term matches uppercase original",
			preview: "Ⱥ marks the spot",
			terms:   []string{"ⱥ"},
			want:    "<mark>Ⱥ</mark> marks the spot",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, highlight(tt.preview, tt.terms))
		})
	}
}
