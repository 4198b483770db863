package model

import "strings"

// TokenKind classifies a header token.
type TokenKind int

const (
	TokenHeadLine TokenKind = iota
	TokenAttribute
	TokenHeadDelimiter
	TokenBody
	TokenEOF
)

// String returns the string representation of the TokenKind
func (k TokenKind) String() string {
	switch k {
	case TokenHeadLine:
		return "HEAD_LINE"
	case TokenAttribute:
		return "ATTRIBUTE"
	case TokenHeadDelimiter:
		return "HEAD_DELIMITER"
	case TokenBody:
		return "BODY"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

const headDelimiter = "---"

// Token is one lexed piece of the document header, or the whole body.
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int // 1-based line of the first character
	Offset int // byte offset of the first character
}

// Lexer splits document text into header lines, the "---" delimiter and
// the topic body. Every call to Next moves the read position forward until
// TokenEOF is returned.
type Lexer struct {
	text       string
	pos        int
	line       int
	pastHeader bool
}

// NewLexer creates a lexer over text.
func NewLexer(text string) *Lexer {
	return &Lexer{text: text, line: 1}
}

// Position returns the current byte offset.
func (l *Lexer) Position() int {
	return l.pos
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	if l.pos >= len(l.text) {
		if l.pastHeader {
			l.pastHeader = false
			return Token{Kind: TokenBody, Line: l.line, Offset: l.pos}
		}
		return Token{Kind: TokenEOF, Line: l.line, Offset: l.pos}
	}

	if l.pastHeader {
		tok := Token{Kind: TokenBody, Text: l.text[l.pos:], Line: l.line, Offset: l.pos}
		l.line += strings.Count(tok.Text, "\n")
		l.pos = len(l.text)
		l.pastHeader = false
		return tok
	}

	start := l.pos
	end := strings.IndexByte(l.text[start:], '\n')
	var raw string
	if end < 0 {
		raw = l.text[start:]
		l.pos = len(l.text)
	} else {
		raw = l.text[start : start+end]
		l.pos = start + end + 1
	}
	line := strings.TrimRight(raw, "\r")
	tok := Token{Text: line, Line: l.line, Offset: start}
	l.line++

	switch {
	case strings.TrimSpace(line) == headDelimiter:
		tok.Kind = TokenHeadDelimiter
		l.pastHeader = true
	case IsAttributeLine(line):
		tok.Kind = TokenAttribute
	default:
		tok.Kind = TokenHeadLine
	}
	return tok
}
