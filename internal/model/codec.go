package model

import (
	"context"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"mindmark/internal/log"
)

const (
	// AttrGeneratorVersion is the document attribute rewritten on every parse and write.
	AttrGeneratorVersion = "__version__"
	// FormatVersion is the value stored in AttrGeneratorVersion.
	FormatVersion = "1.1"

	banner = "Mind Map generated by mindmark"

	preOpen  = "<pre>"
	preClose = "</pre>"
)

// FromText reads a whole document from r.
func FromText(r io.Reader, opts ...Option) (*MindMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read mind map: %w", err)
	}
	return Parse(string(data), opts...)
}

// Parse builds a document from its text form. Structural problems abort the
// parse with a *ParseError; an unusable extra is skipped and logged.
func Parse(text string, opts ...Option) (*MindMap, error) {
	m := NewEmpty(opts...)

	lx := NewLexer(text)
	var body Token
	for done := false; !done; {
		before := lx.Position()
		tok := lx.Next()
		switch tok.Kind {
		case TokenHeadLine:
		case TokenAttribute:
			attrs, _ := DecodeAttributes(tok.Text)
			for _, k := range sortedKeys(attrs) {
				m.attributes.Set(k, attrs[k])
			}
		case TokenHeadDelimiter:
			body = lx.Next()
			done = true
			continue
		case TokenEOF:
			return nil, &ParseError{Line: tok.Line, Offset: tok.Offset, Msg: "header", Err: ErrMissingHeaderDelimiter}
		}
		if lx.Position() <= before {
			return nil, &ParseError{Line: tok.Line, Offset: tok.Offset, Msg: "lexer did not advance", Err: ErrMissingHeaderDelimiter}
		}
	}

	p := &bodyParser{m: m, lines: splitBody(body)}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	m.root = root
	m.attributes.Set(AttrGeneratorVersion, FormatVersion)
	return m, nil
}

// WriteTo writes the text form of the document to w, stamping the generator
// version first.
func (m *MindMap) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, m.render())
	if err != nil {
		return int64(n), fmt.Errorf("failed to write mind map: %w", err)
	}
	return int64(n), nil
}

// ToText returns the text form of the document.
func (m *MindMap) ToText() string {
	return m.render()
}

func (m *MindMap) render() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attributes.Set(AttrGeneratorVersion, FormatVersion)

	var b strings.Builder
	b.WriteString(banner)
	b.WriteByte('\n')
	if m.attributes.Len() > 0 {
		b.WriteString(EncodeAttributes(orderedToMap(m.attributes)))
		b.WriteByte('\n')
	}
	b.WriteString(headDelimiter)
	b.WriteByte('\n')
	if m.root != nil {
		b.WriteByte('\n')
		writeTopic(&b, m.root, 1)
	}
	return b.String()
}

func writeTopic(b *strings.Builder, t *Topic, depth int) {
	b.WriteString(strings.Repeat("#", depth))
	b.WriteByte(' ')
	b.WriteString(escapeText(t.text))
	b.WriteByte('\n')
	if t.attributes.Len() > 0 {
		b.WriteString(EncodeAttributes(orderedToMap(t.attributes)))
		b.WriteByte('\n')
	}
	for _, e := range t.extrasLocked() {
		b.WriteString("- ")
		b.WriteString(e.Type().String())
		b.WriteByte('\n')
		b.WriteString(preOpen)
		b.WriteString(escapePre(e.Value()))
		b.WriteString(preClose)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, c := range t.children {
		writeTopic(b, c, depth+1)
	}
}

// escapeText keeps a topic text on one line.
func escapeText(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, "\r", "&#13;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}

func unescapeText(s string) string {
	return html.UnescapeString(strings.ReplaceAll(s, "<br/>", "\n"))
}

func escapePre(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\r", "&#13;")
}

type bodyLine struct {
	text   string
	line   int
	offset int
}

func splitBody(tok Token) []bodyLine {
	if tok.Text == "" {
		return nil
	}
	var lines []bodyLine
	offset, line := tok.Offset, tok.Line
	for _, raw := range strings.SplitAfter(tok.Text, "\n") {
		if raw == "" {
			break
		}
		lines = append(lines, bodyLine{
			text:   strings.TrimRight(raw, "\r\n"),
			line:   line,
			offset: offset,
		})
		offset += len(raw)
		line++
	}
	return lines
}

type bodyParser struct {
	m     *MindMap
	lines []bodyLine
	pos   int
}

func (p *bodyParser) fail(l bodyLine, format string, args ...any) error {
	return &ParseError{Line: l.line, Offset: l.offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *bodyParser) warn(l bodyLine, msg string, fields log.Fields) {
	if fields == nil {
		fields = log.Fields{}
	}
	fields["line"] = l.line
	p.m.logger.Warn(context.Background(), msg, fields)
}

func (p *bodyParser) parse() (*Topic, error) {
	var (
		root         *Topic
		stack        []*Topic
		current      *Topic
		attrsAllowed bool
	)
	for p.pos < len(p.lines) {
		l := p.lines[p.pos]
		p.pos++

		switch {
		case strings.TrimSpace(l.text) == "":
			continue

		case strings.HasPrefix(l.text, "#"):
			depth, text, ok := parseTopicLine(l.text)
			if !ok {
				return nil, p.fail(l, "malformed topic line")
			}
			t := newTopic(p.m, unescapeText(text))
			if depth == 1 {
				if root != nil {
					return nil, p.fail(l, "second root topic")
				}
				root = t
				stack = []*Topic{t}
			} else {
				if depth-1 > len(stack) {
					return nil, p.fail(l, "topic depth %d follows depth %d", depth, len(stack))
				}
				parent := stack[depth-2]
				t.parent = parent
				parent.children = append(parent.children, t)
				stack = append(stack[:depth-1], t)
			}
			current = t
			attrsAllowed = true

		case current != nil && attrsAllowed && IsAttributeLine(l.text):
			attrs, _ := DecodeAttributes(l.text)
			for _, k := range sortedKeys(attrs) {
				current.attributes.Set(k, attrs[k])
			}
			attrsAllowed = false

		case current != nil && strings.HasPrefix(l.text, "- "):
			attrsAllowed = false
			if err := p.parseExtra(current, l); err != nil {
				return nil, err
			}

		default:
			p.warn(l, "Ignoring unexpected line in mind map body", log.Fields{"text": l.text})
		}
	}
	return root, nil
}

// parseExtra reads the <pre> block following an extra header line.
func (p *bodyParser) parseExtra(t *Topic, header bodyLine) error {
	name := strings.TrimSpace(strings.TrimPrefix(header.text, "- "))

	for p.pos < len(p.lines) && strings.TrimSpace(p.lines[p.pos].text) == "" {
		p.pos++
	}
	if p.pos >= len(p.lines) || !strings.HasPrefix(strings.TrimLeft(p.lines[p.pos].text, " \t"), preOpen) {
		return p.fail(header, "extra %s without %s block", name, preOpen)
	}

	start := p.lines[p.pos]
	rest := strings.TrimPrefix(strings.TrimLeft(start.text, " \t"), preOpen)
	var content strings.Builder
	for {
		if i := strings.Index(rest, preClose); i >= 0 {
			content.WriteString(rest[:i])
			p.pos++
			break
		}
		content.WriteString(rest)
		p.pos++
		if p.pos >= len(p.lines) {
			return p.fail(start, "unclosed %s block", preOpen)
		}
		content.WriteByte('\n')
		rest = p.lines[p.pos].text
	}

	kind := ParseExtraType(name)
	if kind == ExtraUnknown {
		p.warn(header, "Skipping extra of unknown type", log.Fields{"type": name})
		return nil
	}
	e, err := ParseExtra(kind, html.UnescapeString(content.String()), orderedToMap(t.attributes))
	if err != nil {
		p.warn(header, "Skipping extra that can't be parsed", log.Fields{
			"type":  name,
			"error": err.Error(),
		})
		return nil
	}
	t.extras[kind] = e
	return nil
}

// parseTopicLine splits "### text" into depth 3 and "text".
func parseTopicLine(line string) (int, string, bool) {
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	if depth == len(line) {
		return depth, "", true
	}
	if line[depth] != ' ' {
		return 0, "", false
	}
	return depth, line[depth+1:], true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
