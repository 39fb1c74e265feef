package cmake

// lexer.go: a tokenizer for CMake command invocations.
//
// Only the statement structure is recognized: NAME ( args... ). Variable
// references, generator expressions and control flow are left untouched in
// the argument text.

import (
	"fmt"
	"io"
	"strings"
	"text/scanner"
)

// ParseError reports source that cannot be tokenized.
type ParseError struct {
	Err error
	Pos scanner.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Argument is one command argument.
type Argument struct {
	Value string
	// Quoted is set for quoted and bracket arguments.
	Quoted bool
}

// Command is a single command invocation.
type Command struct {
	Name string
	Args []Argument
	Pos  scanner.Position
}

// Parse tokenizes CMake source into its command invocations.
func Parse(filename string, r io.Reader) ([]Command, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	l := &lexer{filename: filename, src: src, line: 1, col: 1}
	return l.commands()
}

type lexer struct {
	filename  string
	src       []byte
	off       int
	line, col int
}

func (l *lexer) pos() scanner.Position {
	return scanner.Position{Filename: l.filename, Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer) eof() bool { return l.off >= len(l.src) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.off]
}

func (l *lexer) next() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) errorf(pos scanner.Position, format string, args ...interface{}) error {
	return &ParseError{Err: fmt.Errorf(format, args...), Pos: pos}
}

func (l *lexer) commands() ([]Command, error) {
	var cmds []Command
	for {
		if err := l.skip(true); err != nil {
			return nil, err
		}
		if l.eof() {
			return cmds, nil
		}
		pos := l.pos()
		if !isIdentStart(l.peek()) {
			return nil, l.errorf(pos, "unexpected %q", l.peek())
		}
		name := l.ident()
		for c := l.peek(); c == ' ' || c == '\t'; c = l.peek() {
			l.next()
		}
		if l.peek() != '(' {
			return nil, l.errorf(l.pos(), "expected '(' after %s", name)
		}
		l.next()
		args, err := l.arguments(pos)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, Command{Name: name, Args: args, Pos: pos})
	}
}

// skip consumes whitespace and comments.
func (l *lexer) skip(newlines bool) error {
	for !l.eof() {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || (c == '\n' && newlines):
			l.next()
		case c == '#':
			if err := l.comment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) comment() error {
	pos := l.pos()
	l.next()
	if l.peek() == '[' {
		if eq, ok := l.bracketOpen(); ok {
			if _, err := l.bracketBody(pos, eq); err != nil {
				return err
			}
			return nil
		}
	}
	for !l.eof() && l.peek() != '\n' {
		l.next()
	}
	return nil
}

func (l *lexer) ident() string {
	start := l.off
	for !l.eof() && isIdentPart(l.peek()) {
		l.next()
	}
	return string(l.src[start:l.off])
}

func (l *lexer) arguments(start scanner.Position) ([]Argument, error) {
	var args []Argument
	depth := 1
	for {
		if err := l.skip(true); err != nil {
			return nil, err
		}
		if l.eof() {
			return nil, l.errorf(start, "unterminated command invocation")
		}
		pos := l.pos()
		switch c := l.peek(); c {
		case ')':
			l.next()
			depth--
			if depth == 0 {
				return args, nil
			}
			args = append(args, Argument{Value: ")"})
		case '(':
			l.next()
			depth++
			args = append(args, Argument{Value: "("})
		case '"':
			v, err := l.quoted(pos)
			if err != nil {
				return nil, err
			}
			args = append(args, Argument{Value: v, Quoted: true})
		case '[':
			if eq, ok := l.bracketOpen(); ok {
				v, err := l.bracketBody(pos, eq)
				if err != nil {
					return nil, err
				}
				args = append(args, Argument{Value: v, Quoted: true})
				continue
			}
			args = append(args, Argument{Value: l.unquoted()})
		default:
			args = append(args, Argument{Value: l.unquoted()})
		}
	}
}

func (l *lexer) quoted(start scanner.Position) (string, error) {
	l.next()
	var b strings.Builder
	for {
		if l.eof() {
			return "", l.errorf(start, "unterminated quoted argument")
		}
		c := l.next()
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if l.eof() {
				return "", l.errorf(start, "unterminated quoted argument")
			}
			e := l.next()
			switch e {
			case '\n':
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (l *lexer) unquoted() string {
	var b strings.Builder
	for !l.eof() {
		c := l.peek()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '(' || c == ')' || c == '"' || c == '#' {
			break
		}
		l.next()
		if c == '\\' && !l.eof() {
			b.WriteByte(l.next())
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// bracketOpen consumes "[=*[" when present and returns the number of '='.
func (l *lexer) bracketOpen() (int, bool) {
	i := l.off + 1
	for i < len(l.src) && l.src[i] == '=' {
		i++
	}
	if i >= len(l.src) || l.src[i] != '[' {
		return 0, false
	}
	eq := i - l.off - 1
	for l.off <= i {
		l.next()
	}
	return eq, true
}

func (l *lexer) bracketBody(start scanner.Position, eq int) (string, error) {
	closing := "]" + strings.Repeat("=", eq) + "]"
	if l.peek() == '\n' {
		l.next()
	}
	begin := l.off
	idx := strings.Index(string(l.src[begin:]), closing)
	if idx < 0 {
		return "", l.errorf(start, "unterminated bracket argument")
	}
	for l.off < begin+idx+len(closing) {
		l.next()
	}
	return string(l.src[begin : begin+idx]), nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
