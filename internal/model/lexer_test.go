package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTokens(t *testing.T, text string) []Token {
	t.Helper()
	lx := NewLexer(text)
	var out []Token
	for i := 0; i < 100; i++ {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == TokenEOF {
			return out
		}
	}
	t.Fatal("lexer did not reach EOF")
	return nil
}

func TestLexerTokens(t *testing.T) {
	tokens := collectTokens(t, "banner\n> a=`1`\n---\n# Root\n")

	kinds := make([]TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{TokenHeadLine, TokenAttribute, TokenHeadDelimiter, TokenBody, TokenEOF}, kinds)

	assert.Equal(t, "banner", tokens[0].Text)
	assert.Equal(t, "> a=`1`", tokens[1].Text)
	assert.Equal(t, 2, tokens[1].Line)

	body := tokens[3]
	assert.Equal(t, "# Root\n", body.Text)
	assert.Equal(t, 4, body.Line)
	assert.Equal(t, 19, body.Offset)
}

func TestLexerEmptyBody(t *testing.T) {
	tokens := collectTokens(t, "x\n---")
	require.Len(t, tokens, 4)
	assert.Equal(t, TokenHeadDelimiter, tokens[1].Kind)
	assert.Equal(t, TokenBody, tokens[2].Kind)
	assert.Empty(t, tokens[2].Text)
}

func TestLexerMissingDelimiter(t *testing.T) {
	lx := NewLexer("a\nb")
	last := lx.Position()
	for {
		tok := lx.Next()
		if tok.Kind == TokenEOF {
			break
		}
		assert.NotEqual(t, TokenHeadDelimiter, tok.Kind)
		assert.Greater(t, lx.Position(), last)
		last = lx.Position()
	}
}

func TestLexerCRLF(t *testing.T) {
	tokens := collectTokens(t, "x\r\n> a=`1`\r\n---\r\n# R\r\n")
	assert.Equal(t, TokenAttribute, tokens[1].Kind)
	assert.Equal(t, "> a=`1`", tokens[1].Text)
	assert.Equal(t, TokenHeadDelimiter, tokens[2].Kind)
	assert.Equal(t, "# R\r\n", tokens[3].Text)
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "HEAD_DELIMITER", TokenHeadDelimiter.String())
	assert.Equal(t, "UNKNOWN", TokenKind(42).String())
}
