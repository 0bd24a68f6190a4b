package regtext

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed .reg input with full source position
// context. A syntax error aborts the parse; no partial tree is returned.
type SyntaxError struct {
	File   string // originating file name, "" when parsing a buffer
	Line   int    // 1-based
	Column int    // 1-based
	Msg    string
	Source string // the single source line containing the failure
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.File != "" {
		fmt.Fprintf(&b, "%s(%d,%d): %s", e.File, e.Line, e.Column, e.Msg)
	} else {
		fmt.Fprintf(&b, "(%d,%d): %s", e.Line, e.Column, e.Msg)
	}
	if e.Source != "" {
		b.WriteString("\n")
		b.WriteString(e.Source)
		b.WriteString("\n")
		if e.Column > 1 {
			b.WriteString(strings.Repeat(" ", e.Column-1))
		}
		b.WriteString("^")
	}
	return b.String()
}

// engine is the reusable character-by-character state machine driver. It
// tracks 1-based line and column counters, keeps an append-only token
// buffer for the grammar states, and renders structured syntax errors.
// A character is never reprocessed once consumed; there is no backtracking.
type engine struct {
	file  string
	input string

	line      int
	column    int
	lineStart int // byte offset of the current line, for error context

	token []rune
}

func newEngine(file, input string) *engine {
	return &engine{file: file, input: input, line: 1, column: 1}
}

// run feeds every input character to step. The grammar's step function
// either consumes the character (possibly switching states internally) or
// returns an error, which aborts the run immediately.
func (e *engine) run(step func(ch rune) error) error {
	for i, ch := range e.input {
		if err := step(ch); err != nil {
			return err
		}
		if ch == '\n' {
			e.line++
			e.column = 1
			e.lineStart = i + 1
		} else {
			e.column++
		}
	}
	return nil
}

// append accumulates a character in the token buffer.
func (e *engine) append(ch rune) { e.token = append(e.token, ch) }

// tokenText returns the accumulated token.
func (e *engine) tokenText() string { return string(e.token) }

// tokenLen returns the number of accumulated characters.
func (e *engine) tokenLen() int { return len(e.token) }

// clear resets the token buffer.
func (e *engine) clear() { e.token = e.token[:0] }

// errorf builds a SyntaxError at the current position, attaching the
// source line and caret context.
func (e *engine) errorf(format string, args ...any) error {
	src := e.input[e.lineStart:]
	if nl := strings.IndexByte(src, '\n'); nl >= 0 {
		src = src[:nl]
	}
	src = strings.TrimRight(src, "\r")
	return &SyntaxError{
		File:   e.file,
		Line:   e.line,
		Column: e.column,
		Msg:    fmt.Sprintf(format, args...),
		Source: src,
	}
}
