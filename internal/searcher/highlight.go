package searcher

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Markup emitted around matched query terms in previews.
const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// foldPreview lowercases the preview rune by rune, recording for every
// byte of the folded string the byte offset of the originating rune in
// the source. Lowercasing can change a rune's encoded length, so match
// offsets found in the folded string must be mapped back through this
// table before slicing the original.
func foldPreview(preview string) (string, []int) {
	var b strings.Builder
	b.Grow(len(preview))
	offsets := make([]int, 0, len(preview)+1)
	for i, r := range preview {
		lr := unicode.ToLower(r)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			offsets = append(offsets, i)
		}
		b.WriteRune(lr)
	}
	offsets = append(offsets, len(preview))
	return b.String(), offsets
}

// highlight wraps case-insensitive occurrences of the query terms in the
// preview with <mark> tags. Overlapping or adjacent matches merge into
// one span. The preview text itself is never altered, only wrapped.
func highlight(preview string, terms []string) string {
	if preview == "" || len(terms) == 0 {
		return preview
	}

	lower, offsets := foldPreview(preview)
	type span struct{ start, end int }
	var spans []span

	for _, term := range terms {
		for from := 0; ; {
			i := strings.Index(lower[from:], term)
			if i < 0 {
				break
			}
			start := from + i
			spans = append(spans, span{offsets[start], offsets[start+len(term)]})
			from = start + len(term)
		}
	}
	if len(spans) == 0 {
		return preview
	}

	// Merge overlapping spans, keeping them ordered by start.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].start < spans[j-1].start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}

	var b strings.Builder
	b.Grow(len(preview) + len(merged)*(len(markOpen)+len(markClose)))
	pos := 0
	for _, s := range merged {
		b.WriteString(preview[pos:s.start])
		b.WriteString(markOpen)
		b.WriteString(preview[s.start:s.end])
		b.WriteString(markClose)
		pos = s.end
	}
	b.WriteString(preview[pos:])
	return b.String()
}
