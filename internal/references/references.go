// Package references collects the label and bibliography definitions of a
// document for navigation and completion lookups.
package references

import (
	"fmt"
	"path/filepath"
	"sort"

	"latex-insight/internal/environment"
	"latex-insight/internal/logger"
	"latex-insight/internal/source"
	"latex-insight/internal/syntax"
)

// Kind distinguishes label definitions from bibliography items.
type Kind uint8

const (
	KindLabel Kind = iota
	KindBibItem
)

func (k Kind) String() string {
	if k == KindBibItem {
		return "bibitem"
	}
	return "label"
}

// MarshalText makes Kind readable in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Definition is one place where a referenceable key is defined.
type Definition struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
	// Command is the defining command, or the environment name for labels
	// given as an option.
	Command string `json:"command"`
	// Environment is the nearest enclosing environment.
	Environment string         `json:"environment,omitempty"`
	Span        syntax.Span    `json:"span"`
	Position    source.LineCol `json:"position"`
	// TypeText is the "file: line" hint shown next to a completion.
	TypeText string `json:"type_text"`
}

var bibItemCommands = map[string]bool{`\bibitem`: true}

// Collect returns every definition in doc in document order.
func Collect(doc *syntax.Document, r *environment.Resolver) []Definition {
	lines, err := source.NewLineIndex(doc.Source)
	if err != nil {
		logger.Warn("cannot index document lines", logger.Err(err), logger.String("path", doc.Path))
	}
	file := filepath.Base(doc.Path)
	if doc.Path == "" {
		file = "<input>"
	}

	var defs []Definition
	add := func(kind Kind, key, command, env string, n *syntax.Node) {
		if key == "" {
			return
		}
		d := Definition{Kind: kind, Key: key, Command: command, Environment: env, Span: n.Span}
		if lines != nil {
			d.Position = lines.Position(n.Span.Start)
		}
		d.TypeText = fmt.Sprintf("%s: %d", file, d.Position.Line)
		defs = append(defs, d)
	}

	syntax.Walk(doc.Root, func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindCommand:
			if pos, ok := r.LabelCommandPosition(n.Name); ok {
				if params := n.RequiredParameters(); pos >= 1 && pos <= len(params) {
					add(KindLabel, params[pos-1], n.Name, enclosing(r, n), n)
				}
			} else if bibItemCommands[n.Name] {
				if params := n.RequiredParameters(); len(params) > 0 {
					add(KindBibItem, params[0], n.Name, enclosing(r, n), n)
				}
			}
		case syntax.KindEnvironment:
			if name := r.Name(n); r.IsLabelAsParameter(name) {
				if label, ok := r.Label(n); ok {
					add(KindLabel, label, name, name, n)
				}
			}
		}
		return true
	})

	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Span.Start < defs[j].Span.Start })
	return defs
}

func enclosing(r *environment.Resolver, n *syntax.Node) string {
	env := syntax.Ancestor(n, func(p *syntax.Node) bool { return p.Is(syntax.KindEnvironment) })
	return r.Name(env)
}

// Keys returns the keys of defs of the given kind, in order, without
// duplicates.
func Keys(defs []Definition, kind Kind) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range defs {
		if d.Kind == kind && !seen[d.Key] {
			seen[d.Key] = true
			out = append(out, d.Key)
		}
	}
	return out
}

// Lookup returns all definitions of key.
func Lookup(defs []Definition, key string) []Definition {
	var out []Definition
	for _, d := range defs {
		if d.Key == key {
			out = append(out, d)
		}
	}
	return out
}

// Duplicates returns the keys defined more than once per kind, mapped to
// their definitions.
func Duplicates(defs []Definition) map[string][]Definition {
	byKey := make(map[string][]Definition)
	for _, d := range defs {
		k := d.Kind.String() + ":" + d.Key
		byKey[k] = append(byKey[k], d)
	}
	out := make(map[string][]Definition)
	for _, ds := range byKey {
		if len(ds) > 1 {
			out[ds[0].Key] = ds
		}
	}
	return out
}
