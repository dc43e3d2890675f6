package source

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// LineIndex holds the byte offset of every line start in a text so that
// repeated offset lookups do not rescan the text.
type LineIndex struct {
	text  string
	lines []int
}

// NewLineIndex builds the index for text.
func NewLineIndex(text string) *LineIndex {
	return &LineIndex{
		text:  text,
		lines: computeLineOffsets(text),
	}
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0}

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// Text returns the indexed text.
func (x *LineIndex) Text() string {
	return x.text
}

// LineCount returns the number of lines. An empty text has one empty line.
func (x *LineIndex) LineCount() int {
	return len(x.lines)
}

// Line returns the text of line n without its terminator (a trailing '\r'
// is dropped too) and the byte offset where the line starts.
func (x *LineIndex) Line(n int) (string, int) {
	if n < 0 || n >= len(x.lines) {
		return "", len(x.text)
	}

	start := x.lines[n]
	end := len(x.text)
	if n+1 < len(x.lines) {
		end = x.lines[n+1] - 1
	}

	return strings.TrimSuffix(x.text[start:end], "\r"), start
}

// Position converts a byte offset to a Position. Offsets outside the text are
// clamped to its start or end.
func (x *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.text) {
		offset = len(x.text)
	}

	// Last line whose start is <= offset.
	line := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i] > offset
	}) - 1

	return Position{
		Line:      line,
		Character: utf8.RuneCountInString(x.text[x.lines[line]:offset]),
	}
}

// Range converts a byte span to a Range.
func (x *LineIndex) Range(start, end int) Range {
	return Range{
		Start: x.Position(start),
		End:   x.Position(end),
	}
}

// OffsetToPosition converts a single offset without building an index.
// It scans text from the beginning; use a LineIndex for repeated lookups.
func OffsetToPosition(text string, offset int) Position {
	var pos Position
	for i, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character++
		}
	}
	return pos
}
