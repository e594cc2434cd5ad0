package syntax

import (
	"strings"
	"unicode/utf8"
)

// DefaultVerbatimEnvironments have bodies that are kept as raw text.
var DefaultVerbatimEnvironments = []string{
	"verbatim", "verbatim*", "Verbatim", "BVerbatim", "LVerbatim",
	"lstlisting", "minted", "comment", "filecontents", "filecontents*",
}

type closer uint8

const (
	closeEOF closer = iota
	closeBrace
	closeBracket
	closeDollar
	closeDoubleDollar
	closeParen
	closeDisplay
	closeEnv
)

type frame struct {
	kind closer
	env  string
}

type parser struct {
	src      string
	pos      int
	stack    []frame
	verbatim map[string]bool
}

// Parse builds a document tree from LaTeX source. It never fails: groups
// and environments left open are closed at the end of the input and
// mismatched closers are kept as text or plain commands.
func Parse(src string) *Document {
	p := &parser{src: src, verbatim: make(map[string]bool)}
	for _, name := range DefaultVerbatimEnvironments {
		p.verbatim[name] = true
	}

	root := &Node{Kind: KindDocument}
	root.Children = p.parseSeq(frame{kind: closeEOF})
	root.Span = Span{Start: 0, End: len(src)}

	doc := &Document{Source: src, Root: root}
	link(doc)
	return doc
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) hasPrefix(s string) bool { return strings.HasPrefix(p.src[p.pos:], s) }

func (p *parser) parseSeq(f frame) []*Node {
	p.stack = append(p.stack, f)
	defer func() { p.stack = p.stack[:len(p.stack)-1] }()

	var out []*Node
	textStart := -1
	flush := func() {
		if textStart >= 0 && textStart < p.pos {
			out = append(out, &Node{
				Kind: KindNormalText,
				Text: p.src[textStart:p.pos],
				Span: Span{Start: textStart, End: p.pos},
			})
		}
		textStart = -1
	}

	for !p.eof() {
		if p.atCloser() {
			break
		}
		switch p.src[p.pos] {
		case '%':
			flush()
			if nl := strings.IndexByte(p.src[p.pos:], '\n'); nl >= 0 {
				p.pos += nl
			} else {
				p.pos = len(p.src)
			}
		case '\\':
			flush()
			if n := p.parseBackslash(); n != nil {
				out = append(out, n)
			}
		case '{':
			flush()
			p.pos++
			out = append(out, p.parseSeq(frame{kind: closeBrace})...)
			if p.hasPrefix("}") {
				p.pos++
			}
		case '$':
			flush()
			out = append(out, p.parseDollarMath())
		default:
			if textStart < 0 {
				textStart = p.pos
			}
			p.pos++
		}
	}
	flush()
	return out
}

// atCloser reports whether the input at pos ends the innermost frame,
// either directly or because it closes a frame further out.
func (p *parser) atCloser() bool {
	top := p.stack[len(p.stack)-1]
	c := p.src[p.pos]
	switch top.kind {
	case closeBrace:
		if c == '}' {
			return true
		}
	case closeBracket:
		if c == ']' {
			return true
		}
	case closeDollar:
		if c == '$' {
			return true
		}
	case closeDoubleDollar:
		if p.hasPrefix("$$") {
			return true
		}
	case closeParen:
		if p.hasPrefix(`\)`) {
			return true
		}
	case closeDisplay:
		if p.hasPrefix(`\]`) {
			return true
		}
	}
	if c == '}' && p.hasFrame(closeBrace) {
		return true
	}
	if c == '\\' {
		if name, _, ok := p.peekEnd(); ok && p.hasEnv(name) {
			return true
		}
	}
	return false
}

func (p *parser) hasFrame(k closer) bool {
	for _, f := range p.stack {
		if f.kind == k {
			return true
		}
	}
	return false
}

func (p *parser) hasEnv(name string) bool {
	for _, f := range p.stack {
		if f.kind == closeEnv && f.env == name {
			return true
		}
	}
	return false
}

// peekEnd recognises `\end{name}` at pos and returns the name and the
// offset just past the closing brace.
func (p *parser) peekEnd() (string, int, bool) {
	if !p.hasPrefix(`\end`) {
		return "", 0, false
	}
	i := p.pos + len(`\end`)
	if i < len(p.src) && isLetter(p.src[i]) {
		return "", 0, false
	}
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	if i >= len(p.src) || p.src[i] != '{' {
		return "", 0, false
	}
	closeIdx := strings.IndexByte(p.src[i:], '}')
	if closeIdx < 0 {
		return "", 0, false
	}
	return strings.TrimSpace(p.src[i+1 : i+closeIdx]), i + closeIdx + 1, true
}

func (p *parser) parseBackslash() *Node {
	start := p.pos
	if p.pos+1 >= len(p.src) {
		p.pos++
		return &Node{Kind: KindCommand, Name: `\`, Span: Span{Start: start, End: p.pos}}
	}

	switch p.src[p.pos+1] {
	case '(':
		p.pos += 2
		return p.parseMath(start, `\(`, frame{kind: closeParen}, `\)`)
	case '[':
		p.pos += 2
		return p.parseMath(start, `\[`, frame{kind: closeDisplay}, `\]`)
	}

	name := p.readCommandName()
	switch name {
	case `\begin`:
		return p.parseEnvironment(start)
	case `\verb`, `\verb*`:
		return p.parseInlineVerbatim(start, name)
	case `\lstinline`:
		cmd := &Node{Kind: KindCommand, Name: name}
		p.parseParams(cmd, true)
		p.readVerbatimArg(cmd)
		cmd.Span = Span{Start: start, End: p.pos}
		return cmd
	}

	cmd := &Node{Kind: KindCommand, Name: name}
	if isLetter(name[1]) || name == `\\` {
		p.parseParams(cmd, false)
	}
	cmd.Span = Span{Start: start, End: p.pos}
	return cmd
}

func (p *parser) readCommandName() string {
	start := p.pos
	p.pos++ // backslash
	if isLetter(p.src[p.pos]) {
		for !p.eof() && isLetter(p.src[p.pos]) {
			p.pos++
		}
		if !p.eof() && p.src[p.pos] == '*' {
			p.pos++
		}
		return p.src[start:p.pos]
	}
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return p.src[start:p.pos]
}

// parseParams reads the [optional] and {required} arguments that follow a
// command without intervening whitespace.
func (p *parser) parseParams(owner *Node, optionalOnly bool) {
	for !p.eof() {
		start := p.pos
		switch {
		case p.src[p.pos] == '[' && p.bracketCloses():
			p.pos++
			param := &Node{Kind: KindParameter, Optional: true}
			param.Children = p.parseSeq(frame{kind: closeBracket})
			param.Text = p.src[start+1 : p.pos]
			if p.hasPrefix("]") {
				p.pos++
			}
			param.Span = Span{Start: start, End: p.pos}
			owner.Params = append(owner.Params, param)
		case p.src[p.pos] == '{' && !optionalOnly:
			p.pos++
			param := &Node{Kind: KindParameter}
			param.Children = p.parseSeq(frame{kind: closeBrace})
			param.Text = p.src[start+1 : p.pos]
			if p.hasPrefix("}") {
				p.pos++
			}
			param.Span = Span{Start: start, End: p.pos}
			owner.Params = append(owner.Params, param)
		default:
			return
		}
	}
}

// bracketCloses looks ahead for the ']' matching the '[' at pos, without
// crossing a paragraph break. A lone '[' is ordinary text.
func (p *parser) bracketCloses() bool {
	depth := 0
	for i := p.pos + 1; i < len(p.src); i++ {
		switch p.src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return false
			}
			depth--
		case ']':
			if depth == 0 {
				return true
			}
		case '\n':
			if i+1 < len(p.src) && p.src[i+1] == '\n' {
				return false
			}
		}
	}
	return false
}

func (p *parser) parseEnvironment(start int) *Node {
	env := &Node{Kind: KindEnvironment}
	p.parseParams(env, false)
	if len(env.Params) == 0 || env.Params[0].Optional {
		env.Kind = KindCommand
		env.Name = `\begin`
		env.Span = Span{Start: start, End: p.pos}
		return env
	}
	env.Name = strings.TrimSpace(env.Params[0].Text)

	if p.verbatim[env.Name] {
		env.Verbatim = true
		endTag := `\end{` + env.Name + `}`
		if idx := strings.Index(p.src[p.pos:], endTag); idx >= 0 {
			env.Text = p.src[p.pos : p.pos+idx]
			p.pos += idx + len(endTag)
		} else {
			env.Text = p.src[p.pos:]
			p.pos = len(p.src)
		}
		env.Span = Span{Start: start, End: p.pos}
		return env
	}

	bodyStart := p.pos
	children := p.parseSeq(frame{kind: closeEnv, env: env.Name})
	if len(children) > 0 {
		env.Body = &Node{
			Kind:     KindContent,
			Children: children,
			Span:     Span{Start: bodyStart, End: p.pos},
		}
	}
	if name, next, ok := p.peekEnd(); ok && name == env.Name {
		p.pos = next
	}
	env.Span = Span{Start: start, End: p.pos}
	return env
}

func (p *parser) parseMath(start int, open string, f frame, close string) *Node {
	m := &Node{Kind: KindMathEnvironment, Name: open}
	m.Children = p.parseSeq(f)
	if p.hasPrefix(close) {
		p.pos += len(close)
	}
	m.Span = Span{Start: start, End: p.pos}
	return m
}

func (p *parser) parseDollarMath() *Node {
	start := p.pos
	if p.hasPrefix("$$") {
		p.pos += 2
		return p.parseMath(start, "$$", frame{kind: closeDoubleDollar}, "$$")
	}
	p.pos++
	return p.parseMath(start, "$", frame{kind: closeDollar}, "$")
}

// parseInlineVerbatim handles \verb|...|: the first character after the
// command is the delimiter and the body may not cross a line break.
func (p *parser) parseInlineVerbatim(start int, name string) *Node {
	cmd := &Node{Kind: KindCommand, Name: name}
	p.readVerbatimArg(cmd)
	cmd.Span = Span{Start: start, End: p.pos}
	return cmd
}

func (p *parser) readVerbatimArg(cmd *Node) {
	if p.eof() || p.src[p.pos] == '\n' {
		return
	}
	cmd.Verbatim = true
	delim := p.src[p.pos]
	closing := delim
	if delim == '{' {
		closing = '}'
	}
	p.pos++
	rest := p.src[p.pos:]
	end := strings.IndexByte(rest, closing)
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && (end < 0 || nl < end) {
		cmd.Text = rest[:nl]
		p.pos += nl
		return
	}
	if end < 0 {
		cmd.Text = rest
		p.pos = len(p.src)
		return
	}
	cmd.Text = rest[:end]
	p.pos += end + 1
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '@'
}
