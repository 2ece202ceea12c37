package loopsim

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to the scanner to define them.
type TokType int

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a number:
//
//    TokType = Number      // identifier for this kind of tokens (scanner specific)
//    Lexeme  = "3.1416"    // lexeme how it appeared in the input stream
//    Value   = 3.1416      // is a float64 value
//    Span    = 67…73       // occured from position 67 in the input stream
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input bytes. Every token and
// every AST node tracks which input positions it covers. A span denotes a
// start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Source positions -------------------------------------------------------

// Position is a human readable source position. Line and column are 1-based,
// columns count runes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid is false for the zero position.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// LineIndex maps byte offsets of a source text to positions.
type LineIndex struct {
	src   string
	lines []int // byte offsets of line starts
}

// NewLineIndex creates a line index for a source text.
func NewLineIndex(src string) *LineIndex {
	lx := &LineIndex{src: src, lines: []int{0}}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lx.lines = append(lx.lines, i+1)
		}
	}
	return lx
}

// Position returns the position for a byte offset. Offsets beyond the end of
// the source are clamped to the end.
func (lx *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(lx.src) {
		offset = len(lx.src)
	}
	l := sort.Search(len(lx.lines), func(i int) bool {
		return lx.lines[i] > offset
	}) - 1
	start := lx.lines[l]
	col := utf8.RuneCountInString(lx.src[start:offset]) + 1
	return Position{Line: l + 1, Column: col}
}

// LineCount returns the number of lines in the source.
func (lx *LineIndex) LineCount() int {
	return len(lx.lines)
}
