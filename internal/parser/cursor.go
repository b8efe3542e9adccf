package parser

import "strings"

const (
	delimiter = "---"
	bom       = "\uFEFF"
)

// cursor is an immutable position in the input. Parse functions take a
// cursor and hand back an advanced copy, so a failed match never moves it.
type cursor struct {
	src  string
	pos  int // byte offset of the current line start
	line int // 1-based line number at pos
}

func newCursor(src string) cursor {
	c := cursor{src: src, line: 1}
	if strings.HasPrefix(src, bom) {
		c.pos = len(bom)
	}
	return c
}

func (c cursor) eof() bool {
	return c.pos >= len(c.src)
}

// nextLine returns the current line without its LF or CRLF ending, and a
// cursor positioned at the start of the following line.
func (c cursor) nextLine() (string, cursor) {
	rest := c.src[c.pos:]
	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		c.pos = len(c.src)
		return strings.TrimSuffix(rest, "\r"), c
	}
	c.pos += end + 1
	c.line++
	return strings.TrimSuffix(rest[:end], "\r"), c
}

func skipBlank(c cursor) cursor {
	for !c.eof() {
		text, next := c.nextLine()
		if !isBlank(text) {
			break
		}
		c = next
	}
	return c
}

// fail builds an error pointing at byte col of the line starting at c
func (c cursor) fail(col int, text, reason string) *MalformedInputError {
	if col > len(text) {
		col = len(text)
	}
	return &MalformedInputError{
		Offset: c.pos + col,
		Line:   c.line,
		Column: len([]rune(text[:col])) + 1,
		Reason: reason,
		Text:   text,
	}
}
