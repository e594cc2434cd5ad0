package unicodecheck

import (
	"encoding/json"
	"regexp"
	"strings"

	"latex-insight/internal/compiler"
	"latex-insight/internal/editor"
	"latex-insight/internal/packages"
	"latex-insight/internal/syntax"
)

// RemediationKind enumerates the fixes offered for an illegal character.
type RemediationKind uint8

const (
	// RemediationEscape replaces the character with a LaTeX command.
	RemediationEscape RemediationKind = iota
	// RemediationInsertPackages adds the packages that enable UTF-8 input.
	RemediationInsertPackages
	// RemediationChangeCompiler switches to a Unicode-native engine.
	RemediationChangeCompiler
)

func (k RemediationKind) String() string {
	switch k {
	case RemediationEscape:
		return "escape"
	case RemediationInsertPackages:
		return "insert-packages"
	case RemediationChangeCompiler:
		return "change-compiler"
	}
	return "unknown"
}

// MarshalText makes RemediationKind readable in JSON output.
func (k RemediationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Remediation is one fix for an occurrence. An escape without replacement
// carries diacritic.ErrNoEscape in Err.
type Remediation struct {
	Kind        RemediationKind `json:"kind"`
	Replacement string          `json:"replacement,omitempty"`
	Err         error           `json:"-"`
	Packages    []string        `json:"packages,omitempty"`
	Compiler    compiler.Mode   `json:"compiler,omitempty"`
	Edits       []editor.Edit   `json:"edits,omitempty"`
}

// Available reports whether the remediation can be applied.
func (r Remediation) Available() bool {
	return r.Err == nil
}

// MarshalJSON adds the availability of r and, for an unavailable one, the
// reason.
func (r Remediation) MarshalJSON() ([]byte, error) {
	type plain Remediation
	out := struct {
		plain
		Available bool   `json:"available"`
		Error     string `json:"error,omitempty"`
	}{plain: plain(r), Available: r.Available()}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Find returns the remediation of kind k from rs.
func Find(rs []Remediation, k RemediationKind) (Remediation, bool) {
	for _, r := range rs {
		if r.Kind == k {
			return r, true
		}
	}
	return Remediation{}, false
}

// packageLines are the inclusions inserted for each required package.
var packageLines = map[string]string{
	"inputenc": `\usepackage[utf8]{inputenc}`,
	"fontenc":  `\usepackage[T1]{fontenc}`,
}

var controlWord = regexp.MustCompile(`\\[A-Za-z]+$`)

// escapeEdits replaces r with replacement. A control word swallows the
// letters and spaces after it, so it gets an empty group in that case.
func escapeEdits(src string, r syntax.Span, replacement string) []editor.Edit {
	text := replacement
	if controlWord.MatchString(replacement) && r.End < len(src) {
		switch c := src[r.End]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r',
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			text += "{}"
		}
	}
	return []editor.Edit{{Start: r.Start, End: r.End, Text: text}}
}

// PackageInsertion returns the edit that includes the missing required
// packages after the last package inclusion, or after \documentclass when
// there is none. It reports false when nothing is missing.
func PackageInsertion(doc *syntax.Document, inc *packages.Inclusions) ([]editor.Edit, []string, bool) {
	var missing, lines []string
	for _, name := range RequiredPackages {
		if !inc.Has(name) {
			missing = append(missing, name)
			lines = append(lines, packageLines[name])
		}
	}
	if len(missing) == 0 {
		return nil, nil, false
	}

	anchor := inc.Last()
	if anchor == nil {
		if classes := syntax.Commands(doc.Root, map[string]bool{`\documentclass`: true}); len(classes) > 0 {
			anchor = classes[0]
		}
	}
	if anchor == nil {
		return []editor.Edit{{Text: strings.Join(lines, "\n") + "\n"}}, missing, true
	}
	at := anchor.Span.End
	return []editor.Edit{{Start: at, End: at, Text: "\n" + strings.Join(lines, "\n")}}, missing, true
}

// FixOptions selects how FixAll repairs a document.
type FixOptions struct {
	// InsertPackages fixes text-mode characters by including the required
	// packages instead of escaping them. Math-mode characters are always
	// escaped.
	InsertPackages bool
}

// FixAll collects the edits that repair every illegal occurrence it can. The
// occurrences without an escape are returned as unresolved.
func FixAll(doc *syntax.Document, occs []Occurrence, opts FixOptions) ([]editor.Edit, []Occurrence) {
	var (
		edits      []editor.Edit
		unresolved []Occurrence
		insertion  []editor.Edit
	)
	for _, o := range occs {
		if o.IsLegal {
			continue
		}
		if opts.InsertPackages && !o.InMathMode {
			if r, ok := Find(o.Remediations, RemediationInsertPackages); ok {
				if insertion == nil {
					insertion = r.Edits
				}
				continue
			}
		}
		r, ok := Find(o.Remediations, RemediationEscape)
		if !ok || !r.Available() {
			unresolved = append(unresolved, o)
			continue
		}
		edits = append(edits, r.Edits...)
	}
	return append(insertion, edits...), unresolved
}
