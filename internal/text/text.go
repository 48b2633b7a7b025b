// Package text computes character, word and line boundaries over a
// node's text and converts offsets between platform encodings.
package text

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/rivo/uniseg"
)

// Unit is a text navigation granularity.
type Unit uint8

const (
	UnitCharacter Unit = iota
	UnitWord
	UnitLine
	UnitDocument
)

var unitNames = [...]string{"character", "word", "line", "document"}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// ParseUnit converts a unit name to a Unit.
func ParseUnit(name string) (Unit, error) {
	for i, n := range unitNames {
		if n == name {
			return Unit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown text unit %q", name)
}

// Encoding is how a platform counts text offsets.
type Encoding uint8

const (
	EncodingCharacters Encoding = iota // user-perceived characters
	EncodingCodePoints                 // Unicode scalar values (AT-SPI)
	EncodingUTF16                      // UTF-16 code units (UI Automation)
	EncodingBytes                      // UTF-8 bytes
)

// Boundaries holds the segmentation of one text. Positions are character
// indices in [0, Len()].
type Boundaries struct {
	text  string
	chars []int // byte offset of each character start, plus len(text)
	words []int // character index of each word start, plus Len()
	lines []int // character index of each line start, plus Len()
}

// New segments text. Declared lengths are used when they are consistent
// with the text; otherwise Unicode segmentation rules apply.
func New(text string, declared *model.TextBoundaries) *Boundaries {
	var d model.TextBoundaries
	if declared != nil {
		d = *declared
	}
	b := &Boundaries{text: text}
	b.chars = charStarts(text, d.CharacterLengths)
	n := b.Len()
	b.words = fromLengths(d.WordLengths, n)
	if b.words == nil {
		b.words = b.wordStarts()
	}
	b.lines = fromLengths(d.LineLengths, n)
	if b.lines == nil {
		b.lines = b.lineStarts()
	}
	return b
}

// ForNode segments the text a node exposes.
func ForNode(n *model.Node) *Boundaries {
	return New(n.TextContent(), n.Text)
}

// Len returns the number of characters.
func (b *Boundaries) Len() int { return len(b.chars) - 1 }

// Text returns the text between two character indices, clamped.
func (b *Boundaries) Text(start, end int) string {
	start, end = b.clamp(start), b.clamp(end)
	if end < start {
		start, end = end, start
	}
	return b.text[b.chars[start]:b.chars[end]]
}

// RangeAt returns the unit enclosing character index pos. Positions
// outside the text are clamped. A position at the very end belongs to
// the last unit.
func (b *Boundaries) RangeAt(pos int, unit Unit) (start, end int) {
	n := b.Len()
	if unit == UnitDocument || n == 0 {
		return 0, n
	}
	pos = b.clamp(pos)
	if pos == n {
		pos = n - 1
	}
	starts := b.starts(unit)
	i := sort.SearchInts(starts, pos+1) - 1
	return starts[i], starts[i+1]
}

// Move moves pos by count unit boundaries (backwards when negative) and
// returns the new position with the number of boundaries actually
// crossed. Movement stops at either end of the text.
func (b *Boundaries) Move(pos int, unit Unit, count int) (int, int) {
	pos = b.clamp(pos)
	starts := b.starts(unit)
	moved := 0
	for moved < count {
		i := sort.SearchInts(starts, pos+1)
		if i >= len(starts) {
			break
		}
		pos = starts[i]
		moved++
	}
	for moved > count {
		i := sort.SearchInts(starts, pos) - 1
		if i < 0 {
			break
		}
		pos = starts[i]
		moved--
	}
	return pos, moved
}

// ToOffset converts a character index into a platform offset.
func (b *Boundaries) ToOffset(pos int, enc Encoding) int {
	pos = b.clamp(pos)
	byteOff := b.chars[pos]
	switch enc {
	case EncodingBytes:
		return byteOff
	case EncodingCodePoints:
		return utf8.RuneCountInString(b.text[:byteOff])
	case EncodingUTF16:
		n := 0
		for _, r := range b.text[:byteOff] {
			n += utf16.RuneLen(r)
		}
		return n
	}
	return pos
}

// FromOffset converts a platform offset into a character index, rounding
// down to a character boundary and clamping to the text.
func (b *Boundaries) FromOffset(offset int, enc Encoding) int {
	if offset <= 0 {
		return 0
	}
	byteOff := len(b.text)
	switch enc {
	case EncodingCharacters:
		return b.clamp(offset)
	case EncodingBytes:
		byteOff = min(offset, len(b.text))
	case EncodingCodePoints, EncodingUTF16:
		units := 0
		for i, r := range b.text {
			w := 1
			if enc == EncodingUTF16 {
				w = utf16.RuneLen(r)
			}
			if units+w > offset {
				byteOff = i
				break
			}
			units += w
		}
	}
	return sort.SearchInts(b.chars, byteOff+1) - 1
}

func (b *Boundaries) clamp(pos int) int {
	return max(0, min(pos, b.Len()))
}

func (b *Boundaries) starts(unit Unit) []int {
	switch unit {
	case UnitWord:
		return b.words
	case UnitLine:
		return b.lines
	case UnitDocument:
		return []int{0, b.Len()}
	}
	all := make([]int, b.Len()+1)
	for i := range all {
		all[i] = i
	}
	return all
}

// charStarts uses declared UTF-8 lengths when they tile the text exactly,
// and grapheme clusters otherwise.
func charStarts(text string, declared []int) []int {
	if len(declared) > 0 {
		starts := make([]int, 0, len(declared)+1)
		off := 0
		ok := true
		for _, l := range declared {
			if l <= 0 || off+l > len(text) || !utf8.RuneStart(text[off]) {
				ok = false
				break
			}
			starts = append(starts, off)
			off += l
		}
		if ok && off == len(text) {
			return append(starts, off)
		}
	}
	starts := []int{}
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		from, _ := g.Positions()
		starts = append(starts, from)
	}
	return append(starts, len(text))
}

// fromLengths converts lengths in characters to start indices. It returns
// nil unless the lengths are positive and sum to n.
func fromLengths(lengths []int, n int) []int {
	if len(lengths) == 0 {
		return nil
	}
	starts := make([]int, 0, len(lengths)+1)
	pos := 0
	for _, l := range lengths {
		if l <= 0 {
			return nil
		}
		starts = append(starts, pos)
		pos += l
	}
	if pos != n {
		return nil
	}
	return append(starts, n)
}

// wordStarts splits on Unicode word boundaries. Whitespace segments are
// attached to the preceding word.
func (b *Boundaries) wordStarts() []int {
	starts := []int{0}
	rest := b.text
	state := -1
	off := 0
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		if off > 0 && strings.TrimSpace(word) != "" {
			starts = append(starts, b.charIndex(off))
		}
		off += len(word)
	}
	return b.finish(starts)
}

// lineStarts splits at mandatory line breaks.
func (b *Boundaries) lineStarts() []int {
	starts := []int{0}
	rest := b.text
	state := -1
	off := 0
	for len(rest) > 0 {
		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)
		off += len(segment)
		if mustBreak && len(rest) > 0 {
			starts = append(starts, b.charIndex(off))
		}
	}
	return b.finish(starts)
}

func (b *Boundaries) finish(starts []int) []int {
	n := b.Len()
	out := starts[:0]
	for _, s := range starts {
		if len(out) > 0 && s <= out[len(out)-1] {
			continue
		}
		if s >= n && n > 0 {
			continue
		}
		out = append(out, s)
	}
	return append(out, n)
}

// charIndex maps a byte offset on a character boundary to its index.
func (b *Boundaries) charIndex(byteOff int) int {
	return sort.SearchInts(b.chars, byteOff+1) - 1
}
