// Package logtab classifies LaTeX compiler output into diagnostics.
//
// The Classifier is a push-based state machine: the caller feeds it one
// output line at a time and receives the diagnostics that line completed.
// It has two states. In StateIdle every line is matched against the error
// and warning patterns; warnings known to span several lines move it to
// StateCollectingMultilineWarning, where lines are buffered until a blank
// line or the next diagnostic.
package logtab

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"latex-insight/internal/logger"
)

// LineWidth is the column at which TeX hard-wraps its terminal and log output.
const LineWidth = 79

// Kind is the type of a diagnostic.
type Kind uint8

const (
	KindError Kind = iota
	KindWarning
	KindMultilineWarning
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindMultilineWarning:
		return "multiline-warning"
	}
	return "unknown"
}

// MarshalText makes Kind readable in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LogDiagnostic is one classified compiler message. Line is 0 when the log
// did not say where the problem is.
type LogDiagnostic struct {
	Kind      Kind   `json:"kind"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
	Message   string `json:"message"`
	Package   string `json:"package,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// State is the state of the classifier.
type State uint8

const (
	StateIdle State = iota
	StateCollectingMultilineWarning
)

func (s State) String() string {
	if s == StateCollectingMultilineWarning {
		return "CollectingMultilineWarning"
	}
	return "Idle"
}

// DefaultMultilineWarnings are warning prefixes whose text continues on the
// following lines until a blank line.
var DefaultMultilineWarnings = []string{
	"LaTeX Warning: You have requested, on input line",
}

// MiscWarnings are line prefixes TeX and LaTeX use for warnings that do not
// follow the "LaTeX Warning:" format.
var MiscWarnings = []string{
	"LaTeX Warning: ",
	"LaTeX Font Warning: ",
	"AVAIL list clobbered at",
	"Citation",
	"Double-AVAIL list clobbered at",
	"Doubly free location at",
	"Bad flag at",
	"Runaway definition",
	"Runaway argument",
	"Runaway text",
	"Missing character: There is no",
	"No auxiliary output files.",
	"No pages of output.",
	`Underfull \hbox`,
	`Overfull \hbox`,
	`Loose \hbox`,
	`Tight \hbox`,
	`Underfull \vbox`,
	`Overfull \vbox`,
	`Loose \vbox`,
	`Tight \vbox`,
	`(\end occurred`,
}

const (
	latexErrorMarker  = "!"
	pdfTeXErrorMarker = "!pdfTeX error:"
	latexErrorPrefix  = "LaTeX Error: "
)

var (
	fileLinePattern     = regexp.MustCompile(`^(.+?):(\d+):\s*(.*)$`)
	onInputLinePattern  = regexp.MustCompile(`on input line (\d+)(?:.|$)`)
	trailingInputLine   = regexp.MustCompile(`,?\s*on input line \d+\.?$`)
	latexWarningPattern = regexp.MustCompile(`LaTeX( Font)? Warning:`)
	packageMessage      = regexp.MustCompile(`^(?:Package|Class) ([A-Za-z0-9]+)\S* (Error|Warning):\s*(.*)$`)
	packageInfo         = regexp.MustCompile(`^(?:Package|Class|LaTeX)( [A-Za-z0-9]+\S*)? Info:`)
	packageName         = regexp.MustCompile(`Package ([A-Za-z0-9]+)\S* (?:Error|Warning)`)
	continuationPattern = regexp.MustCompile(`^\(([A-Za-z0-9]+)\)\s*(.*)$`)
	texLinePattern      = regexp.MustCompile(`^l\.(\d+)`)
	boxLinesPattern     = regexp.MustCompile(`at lines? (\d+)`)
	referencePattern    = regexp.MustCompile("(?:Reference|Citation|Label|reference) (?:`|')([^`']+)'")
)

// Options configures a Classifier.
type Options struct {
	// MultilineWarnings are added to DefaultMultilineWarnings.
	MultilineWarnings []string
	// LineWidth is the hard-wrap column; 0 means LineWidth, negative
	// disables re-joining.
	LineWidth int
}

// Classifier holds the state of one compilation run. It is not safe for
// concurrent use.
type Classifier struct {
	multiline []string
	width     int

	state     State
	collected []string
	pending   *LogDiagnostic
	inInfo    bool
	carry     strings.Builder
}

// NewClassifier creates a classifier in StateIdle.
func NewClassifier(opts Options) *Classifier {
	width := opts.LineWidth
	if width == 0 {
		width = LineWidth
	}
	multiline := append([]string(nil), DefaultMultilineWarnings...)
	multiline = append(multiline, opts.MultilineWarnings...)
	return &Classifier{multiline: multiline, width: width}
}

// State returns the current state.
func (c *Classifier) State() State { return c.state }

// Reset drops all buffered text, e.g. when a compilation is cancelled.
func (c *Classifier) Reset() {
	c.state = StateIdle
	c.collected = nil
	c.pending = nil
	c.inInfo = false
	c.carry.Reset()
}

// Feed consumes one line of output and returns the diagnostics it completed.
func (c *Classifier) Feed(line string) []LogDiagnostic {
	line = strings.TrimRight(line, "\r\n")
	if c.wrapped(line) {
		c.carry.WriteString(line)
		return nil
	}
	if c.carry.Len() > 0 {
		c.carry.WriteString(line)
		line = c.carry.String()
		c.carry.Reset()
	}
	return c.step(line, nil)
}

// Flush ends the stream, emitting whatever is still buffered.
func (c *Classifier) Flush() []LogDiagnostic {
	var out []LogDiagnostic
	if c.carry.Len() > 0 {
		line := c.carry.String()
		c.carry.Reset()
		out = c.step(line, out)
	}
	if c.state == StateCollectingMultilineWarning {
		out = append(out, c.finishMultiline())
	}
	c.inInfo = false
	return c.emitPending(out)
}

// wrapped reports whether TeX broke line at the wrap column, meaning the
// next line continues it.
func (c *Classifier) wrapped(line string) bool {
	if c.width <= 0 {
		return false
	}
	return len(line) == c.width || runewidth.StringWidth(line) == c.width
}

func (c *Classifier) step(line string, out []LogDiagnostic) []LogDiagnostic {
	if c.state == StateCollectingMultilineWarning {
		switch {
		case strings.TrimSpace(line) == "":
			return append(out, c.finishMultiline())
		case c.isTrigger(line):
			out = append(out, c.finishMultiline())
		default:
			c.collected = append(c.collected, strings.TrimSpace(line))
			return out
		}
	}
	return c.idle(line, out)
}

func (c *Classifier) idle(line string, out []LogDiagnostic) []LogDiagnostic {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		c.inInfo = false
		if c.pending != nil && c.pending.Kind != KindError {
			out = c.emitPending(out)
		}
		return out
	}

	if m := continuationPattern.FindStringSubmatch(trimmed); m != nil {
		if c.inInfo {
			return out
		}
		if c.pending != nil {
			c.pending.Message = joinMessage(c.pending.Message, stripInputLine(m[2]))
			if n, ok := inputLine(m[2]); ok {
				c.pending.Line = n
				out = c.emitPending(out)
			}
			return out
		}
	}
	c.inInfo = false

	if c.pending != nil && c.pending.Kind == KindError {
		if m := texLinePattern.FindStringSubmatch(trimmed); m != nil {
			c.pending.Line, _ = strconv.Atoi(m[1])
			return c.emitPending(out)
		}
	}

	if d, multiline, ok := c.match(line); ok {
		out = c.emitPending(out)
		if multiline {
			logger.Debug("collecting multi-line warning", logger.String("line", trimmed))
			c.state = StateCollectingMultilineWarning
			c.collected = []string{trimmed}
			return out
		}
		if d.Line > 0 {
			return append(out, d)
		}
		c.pending = &d
		return out
	}

	if packageInfo.MatchString(trimmed) {
		c.inInfo = true
		if c.pending != nil && c.pending.Kind != KindError {
			out = c.emitPending(out)
		}
		return out
	}

	if n, ok := inputLine(trimmed); ok {
		if c.pending != nil {
			c.pending.Line = n
			return c.emitPending(out)
		}
		return append(out, LogDiagnostic{Kind: KindWarning, Line: n, Message: stripInputLine(trimmed)})
	}

	// Inert line. Errors stay open until TeX prints their "l.<n>" context.
	if c.pending != nil && c.pending.Kind != KindError {
		out = c.emitPending(out)
	}
	return out
}

// match classifies a line that starts a new diagnostic.
func (c *Classifier) match(line string) (LogDiagnostic, bool, bool) {
	trimmed := strings.TrimSpace(line)

	if m := fileLinePattern.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[2])
		d := LogDiagnostic{Kind: KindError, File: m[1], Line: n}
		d.Message = strings.TrimPrefix(strings.TrimSpace(m[3]), latexErrorPrefix)
		d.Package = packageOf(m[3])
		return d, false, true
	}

	if strings.HasPrefix(line, pdfTeXErrorMarker) {
		return LogDiagnostic{Kind: KindError, Message: strings.TrimSpace(line[len(latexErrorMarker):])}, false, true
	}

	if strings.HasPrefix(line, latexErrorMarker) {
		text := strings.TrimSpace(line[len(latexErrorMarker):])
		d := LogDiagnostic{Kind: KindError, Message: strings.TrimPrefix(text, latexErrorPrefix)}
		d.Package = packageOf(text)
		return d, false, true
	}

	if loc := latexWarningPattern.FindStringIndex(line); loc != nil {
		for _, prefix := range c.multiline {
			if strings.HasPrefix(line[loc[0]:], prefix) {
				return LogDiagnostic{}, true, true
			}
		}
		return warning(line[loc[1]:]), false, true
	}

	if m := packageMessage.FindStringSubmatch(trimmed); m != nil {
		d := warning(m[3])
		if m[2] == "Error" {
			d.Kind = KindError
		}
		d.Package = m[1]
		return d, false, true
	}

	for _, prefix := range MiscWarnings {
		if strings.HasPrefix(trimmed, prefix) {
			d := warning(trimmed)
			if d.Line == 0 {
				if m := boxLinesPattern.FindStringSubmatch(trimmed); m != nil {
					d.Line, _ = strconv.Atoi(m[1])
				}
			}
			return d, false, true
		}
	}

	return LogDiagnostic{}, false, false
}

func (c *Classifier) isTrigger(line string) bool {
	_, _, ok := c.match(line)
	return ok
}

func (c *Classifier) finishMultiline() LogDiagnostic {
	text := strings.Join(c.collected, " ")
	c.collected = nil
	c.state = StateIdle

	d := LogDiagnostic{Kind: KindMultilineWarning, Message: text}
	if loc := latexWarningPattern.FindStringIndex(text); loc != nil {
		d.Message = strings.TrimSpace(text[loc[1]:])
	}
	d.Line, _ = inputLine(text)
	d.Reference = referenceOf(d.Message)
	return d
}

func (c *Classifier) emitPending(out []LogDiagnostic) []LogDiagnostic {
	if c.pending == nil {
		return out
	}
	d := *c.pending
	c.pending = nil
	return append(out, d)
}

func warning(text string) LogDiagnostic {
	text = strings.TrimSpace(text)
	d := LogDiagnostic{Kind: KindWarning, Message: stripInputLine(text)}
	d.Line, _ = inputLine(text)
	d.Reference = referenceOf(text)
	return d
}

func inputLine(text string) (int, bool) {
	m := onInputLinePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

func stripInputLine(text string) string {
	return strings.TrimSpace(trailingInputLine.ReplaceAllString(strings.TrimSpace(text), ""))
}

func packageOf(text string) string {
	if m := packageName.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func referenceOf(text string) string {
	if m := referencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func joinMessage(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return b
	}
	return a + " " + b
}
