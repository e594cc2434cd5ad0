// Package unicodecheck finds non-ASCII characters that the configured
// compiler cannot typeset and proposes remediations for them.
package unicodecheck

import (
	"regexp"

	"latex-insight/internal/compiler"
	"latex-insight/internal/diacritic"
	"latex-insight/internal/logger"
	"latex-insight/internal/packages"
	"latex-insight/internal/source"
	"latex-insight/internal/syntax"
)

// RequiredPackages must all be included for pdflatex to accept UTF-8 input.
// Their options are not checked.
var RequiredPackages = []string{"inputenc", "fontenc"}

// nonASCII matches one character: a non-ASCII code point, or an ASCII base
// followed by combining marks, together with its trailing marks.
var nonASCII = regexp.MustCompile(`[\x00-\x7F]\p{M}+|[^\x00-\x7F]\p{M}*`)

// Occurrence is one non-ASCII character in a text run.
type Occurrence struct {
	Character    string         `json:"character"`
	Range        syntax.Span    `json:"range"`
	Position     source.LineCol `json:"position"`
	InMathMode   bool           `json:"in_math_mode"`
	IsLegal      bool           `json:"is_legal"`
	Remediations []Remediation  `json:"remediations,omitempty"`

	Node *syntax.Node `json:"-"`
}

// UnicodeEnabled reports whether a document with the given packages can use
// Unicode outside math mode.
func UnicodeEnabled(inc *packages.Inclusions, mode compiler.Mode) bool {
	if mode.UnicodeNative() {
		return true
	}
	for _, name := range RequiredPackages {
		if !inc.Has(name) {
			return false
		}
	}
	return true
}

// Checker scans documents for a given compiler.
type Checker struct {
	mode compiler.Mode
	math *syntax.MathContext
}

// NewChecker creates a Checker. A nil math context uses the defaults.
func NewChecker(mode compiler.Mode, math *syntax.MathContext) *Checker {
	if mode == "" {
		mode = compiler.DefaultMode
	}
	if math == nil {
		math = syntax.DefaultMathContext()
	}
	return &Checker{mode: mode, math: math}
}

// Mode returns the compiler the checker assumes.
func (c *Checker) Mode() compiler.Mode { return c.mode }

// Enabled reports whether Unicode is enabled for doc.
func (c *Checker) Enabled(doc *syntax.Document) bool {
	return UnicodeEnabled(packages.Included(doc), c.mode)
}

// Scan returns every non-ASCII character in the text runs of doc in
// document order. Illegal occurrences carry their remediations.
func (c *Checker) Scan(doc *syntax.Document) []Occurrence {
	inc := packages.Included(doc)
	enabled := UnicodeEnabled(inc, c.mode)
	lines, err := source.NewLineIndex(doc.Source)
	if err != nil {
		logger.Warn("cannot index document lines", logger.Err(err), logger.String("path", doc.Path))
	}

	var out []Occurrence
	for _, n := range syntax.FindAll(doc.Root, syntax.KindNormalText) {
		locs := nonASCII.FindAllStringIndex(n.Text, -1)
		if len(locs) == 0 {
			continue
		}
		inMath := c.math.InMathMode(n)
		for _, loc := range locs {
			rng := syntax.Span{Start: n.Span.Start + loc[0], End: n.Span.Start + loc[1]}
			occ := Occurrence{
				Character:  doc.Slice(rng),
				Range:      rng,
				InMathMode: inMath,
				IsLegal:    !inMath && enabled,
				Node:       n,
			}
			if lines != nil {
				occ.Position = lines.Position(occ.Range.Start)
			}
			if !occ.IsLegal {
				occ.Remediations = c.remediations(doc, inc, occ)
			}
			out = append(out, occ)
		}
	}

	illegal := 0
	for _, o := range out {
		if !o.IsLegal {
			illegal++
		}
	}
	logger.Debug("unicode scan finished",
		logger.String("path", doc.Path),
		logger.Int("occurrences", len(out)),
		logger.Int("illegal", illegal),
		logger.Bool("unicodeEnabled", enabled))
	return out
}

// Illegal filters occurrences down to the illegal ones.
func Illegal(occs []Occurrence) []Occurrence {
	var out []Occurrence
	for _, o := range occs {
		if !o.IsLegal {
			out = append(out, o)
		}
	}
	return out
}

func (c *Checker) remediations(doc *syntax.Document, inc *packages.Inclusions, occ Occurrence) []Remediation {
	var out []Remediation

	escape := Remediation{Kind: RemediationEscape}
	if replacement, err := diacritic.EscapeReplacement(occ.Character, occ.InMathMode); err != nil {
		escape.Err = err
	} else {
		escape.Replacement = replacement
		escape.Edits = escapeEdits(doc.Source, occ.Range, replacement)
	}
	out = append(out, escape)

	if !occ.InMathMode {
		if edit, missing, ok := PackageInsertion(doc, inc); ok {
			out = append(out, Remediation{Kind: RemediationInsertPackages, Packages: missing, Edits: edit})
		}
	}

	out = append(out, Remediation{Kind: RemediationChangeCompiler, Compiler: compiler.Suggest(doc.Source)})
	return out
}
