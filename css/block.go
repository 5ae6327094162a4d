package css

import (
	"strings"
)

// Span is a half-open byte range [Start, End) within stylesheet text.
type Span struct {
	Start int
	End   int
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Text returns the part of text covered by the span.
func (s Span) Text(text string) string {
	return text[s.Start:s.End]
}

// MatchingClose returns the position of the delimiter closing the one at
// open. Scan starts with depth 1 and never goes past the end of text, so
// unbalanced input simply reports false.
func MatchingClose(text string, open int, openCh, closeCh byte) (int, bool) {
	if open < 0 || open >= len(text) || text[open] != openCh {
		return -1, false
	}

	depth := 1
	for pos := open + 1; pos < len(text); pos++ {
		switch text[pos] {
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return pos, true
			}
		}
	}
	return -1, false
}

// BlockAfter finds the first '{' at or after pos and returns the span strictly
// between it and its matching '}'.
func BlockAfter(text string, pos int) (Span, bool) {
	if pos < 0 || pos >= len(text) {
		return Span{}, false
	}

	open := strings.IndexByte(text[pos:], '{')
	if open == -1 {
		return Span{}, false
	}
	open += pos

	end, ok := MatchingClose(text, open, '{', '}')
	if !ok {
		return Span{}, false
	}
	return Span{Start: open + 1, End: end}, true
}

// indexAll returns positions of every non-overlapping occurrence of pattern.
func indexAll(text, pattern string) []int {
	if pattern == "" {
		return nil
	}
	var found []int
	for pos := 0; pos < len(text); {
		idx := strings.Index(text[pos:], pattern)
		if idx == -1 {
			break
		}
		found = append(found, pos+idx)
		pos += idx + len(pattern)
	}
	return found
}

// MediaSpans returns block spans of all @media rules in text in source order.
// Rules whose block never closes are left out.
func MediaSpans(text string) []Span {
	var spans []Span
	for _, pos := range indexAll(text, "@media") {
		if span, ok := BlockAfter(text, pos); ok {
			spans = append(spans, span)
		}
	}
	return spans
}

func insideAny(spans []Span, pos int) bool {
	for _, s := range spans {
		if s.Contains(pos) {
			return true
		}
	}
	return false
}

// RootSpan locates the first occurrence of selector which is not nested in any
// @media block and returns the span of its declaration block.
func RootSpan(text, selector string) (Span, bool) {
	media := MediaSpans(text)
	for _, pos := range indexAll(text, selector) {
		if insideAny(media, pos) {
			continue
		}
		return BlockAfter(text, pos+len(selector))
	}
	return Span{}, false
}

// ExtractRoot returns the inner text of the bare top level selector block, or
// an empty string when there is none.
func ExtractRoot(text, selector string) string {
	span, ok := RootSpan(text, selector)
	if !ok {
		return ""
	}
	return span.Text(text)
}

// MediaTag builds the literal @media prelude searched for by the conditioned
// extraction, e.g. "@media (prefers-color-scheme: dark)".
func MediaTag(condition string) string {
	return "@media " + condition
}

// ConditionedSpan locates the @media block for the literal condition and the
// selector block nested directly in it. Returned span is relative to text.
func ConditionedSpan(text, condition, selector string) (Span, bool) {
	tag := MediaTag(condition)
	pos := strings.Index(text, tag)
	if pos == -1 {
		return Span{}, false
	}

	media, ok := BlockAfter(text, pos+len(tag))
	if !ok {
		return Span{}, false
	}

	inner := media.Text(text)
	sel := strings.Index(inner, selector)
	if sel == -1 {
		return Span{}, false
	}
	nested, ok := BlockAfter(inner, sel+len(selector))
	if !ok {
		return Span{}, false
	}
	return Span{Start: media.Start + nested.Start, End: media.Start + nested.End}, true
}

// ExtractConditioned returns inner text of selector block nested in the
// @media block for condition, or an empty string.
func ExtractConditioned(text, condition, selector string) string {
	span, ok := ConditionedSpan(text, condition, selector)
	if !ok {
		return ""
	}
	return span.Text(text)
}
