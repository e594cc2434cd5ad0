// Package diacritic turns non-ASCII characters into LaTeX escapes.
//
// A character is first looked up as the display form of a known command
// (ß → \ss, α → \alpha). Failing that it is decomposed (NFD) into an ASCII
// base and combining marks, and every mark is mapped to an accent command
// that wraps the base: è → \`{e}, ǘ → \"{\'{u}}.
package diacritic

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNoEscape reports a character that has no LaTeX replacement.
	ErrNoEscape = errors.New("no escape available")
	// ErrASCII reports input that has nothing to escape.
	ErrASCII = errors.New("character is plain ASCII")
)

// Diacritic maps one combining mark to an accent command.
type Diacritic struct {
	Mark    rune
	Command string // without backslash
	// Dotless accents sit above the letter, so a bare i or j base is
	// replaced by its dotless form.
	Dotless bool
}

// Normal holds the text-mode accents.
var Normal = table([]Diacritic{
	{Mark: '\u0300', Command: "`", Dotless: true},
	{Mark: '\u0301', Command: "'", Dotless: true},
	{Mark: '\u0302', Command: "^", Dotless: true},
	{Mark: '\u0303', Command: "~", Dotless: true},
	{Mark: '\u0304', Command: "=", Dotless: true},
	{Mark: '\u0306', Command: "u", Dotless: true},
	{Mark: '\u0307', Command: ".", Dotless: true},
	{Mark: '\u0308', Command: `"`, Dotless: true},
	{Mark: '\u030A', Command: "r", Dotless: true},
	{Mark: '\u030B', Command: "H", Dotless: true},
	{Mark: '\u030C', Command: "v", Dotless: true},
	{Mark: '\u0361', Command: "t", Dotless: true},
	{Mark: '\u0323', Command: "d"},
	{Mark: '\u0327', Command: "c"},
	{Mark: '\u0328', Command: "k"},
	{Mark: '\u0331', Command: "b"},
})

// Math holds the math-mode accents.
var Math = table([]Diacritic{
	{Mark: '\u0300', Command: "grave", Dotless: true},
	{Mark: '\u0301', Command: "acute", Dotless: true},
	{Mark: '\u0302', Command: "hat", Dotless: true},
	{Mark: '\u0303', Command: "tilde", Dotless: true},
	{Mark: '\u0304', Command: "bar", Dotless: true},
	{Mark: '\u0305', Command: "overline"},
	{Mark: '\u0306', Command: "breve", Dotless: true},
	{Mark: '\u0307', Command: "dot", Dotless: true},
	{Mark: '\u0308', Command: "ddot", Dotless: true},
	{Mark: '\u030A', Command: "mathring", Dotless: true},
	{Mark: '\u030C', Command: "check", Dotless: true},
	{Mark: '\u0332', Command: "underline"},
	{Mark: '\u20D7', Command: "vec", Dotless: true},
	{Mark: '\u20DB', Command: "dddot", Dotless: true},
	{Mark: '\u20DC', Command: "ddddot", Dotless: true},
})

func table(entries []Diacritic) map[rune]Diacritic {
	m := make(map[rune]Diacritic, len(entries))
	for _, d := range entries {
		m[d.Mark] = d
	}
	return m
}

// Lookup returns the accent for a combining mark in the selected mode.
func Lookup(mark rune, inMathMode bool) (Diacritic, bool) {
	if inMathMode {
		d, ok := Math[mark]
		return d, ok
	}
	d, ok := Normal[mark]
	return d, ok
}

// Wrap applies the accent to arg.
func (d Diacritic) Wrap(arg string) string {
	return `\` + d.Command + "{" + arg + "}"
}

func dotless(base string, inMathMode bool) string {
	switch base {
	case "i":
		if inMathMode {
			return `\imath`
		}
		return `\i`
	case "j":
		if inMathMode {
			return `\jmath`
		}
		return `\j`
	}
	return base
}

// BuildChain wraps base in the accents for marks, given in decomposition
// order. Marks are taken in reverse, so the last mark is the innermost
// accent and the first the outermost. If any mark is unknown the whole
// chain fails with ErrNoEscape.
func BuildChain(base string, marks []rune, inMathMode bool) (string, error) {
	resolved := make([]Diacritic, 0, len(marks))
	for i := len(marks) - 1; i >= 0; i-- {
		d, ok := Lookup(marks[i], inMathMode)
		if !ok {
			return "", fmt.Errorf("%w: combining mark U+%04X", ErrNoEscape, marks[i])
		}
		resolved = append(resolved, d)
	}

	result := base
	for i, d := range resolved {
		if i == 0 && d.Dotless {
			result = dotless(base, inMathMode)
		}
		result = d.Wrap(result)
	}
	return result, nil
}

// Decompose splits char in NFD into its longest ASCII prefix and the runes
// that follow it.
func Decompose(char string) (string, []rune) {
	n := norm.NFD.String(char)
	i := 0
	for i < len(n) && n[i] < utf8.RuneSelf {
		i++
	}
	return n[:i], []rune(n[i:])
}

// EscapeReplacement returns the LaTeX replacement for char. It fails with
// ErrASCII when char needs no escape and with ErrNoEscape when no
// replacement exists.
func EscapeReplacement(char string, inMathMode bool) (string, error) {
	if isASCII(char) {
		return "", ErrASCII
	}
	if name, ok := LookupDisplay(char, inMathMode); ok {
		return `\` + name, nil
	}
	base, marks := Decompose(char)
	return BuildChain(base, marks, inMathMode)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
