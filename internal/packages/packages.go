// Package packages tracks which LaTeX packages a document includes.
package packages

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"latex-insight/internal/syntax"
)

// InclusionCommands are the commands that load packages.
var InclusionCommands = map[string]bool{
	`\usepackage`:     true,
	`\RequirePackage`: true,
}

// Inclusion is one package loaded by the document. Command is the first
// command that loaded it; Options collects the options of every command that
// did, in order and without repeats.
type Inclusion struct {
	Name    string
	Options []string
	Command *syntax.Node
}

// Inclusions is the ordered, de-duplicated set of packages of a document.
type Inclusions struct {
	list   []Inclusion
	byName map[string]int
}

// Included collects every package loaded by doc in document order. A
// command such as \usepackage[T1]{fontenc,lmodern} contributes one
// inclusion per name, each carrying the same options. Comments inside the
// argument lists are ignored.
func Included(doc *syntax.Document) *Inclusions {
	inc := &Inclusions{byName: make(map[string]int)}
	if doc == nil {
		return inc
	}
	for _, cmd := range syntax.Commands(doc.Root, InclusionCommands) {
		var options []string
		var names *syntax.Node
		for _, p := range cmd.Params {
			switch {
			case p.Optional:
				options = append(options, splitList(paramText(p))...)
			case names == nil:
				names = p
			}
		}
		if names == nil {
			continue
		}
		for _, name := range splitList(paramText(names)) {
			if i, seen := inc.byName[name]; seen {
				inc.list[i].Options = mergeOptions(inc.list[i].Options, options)
				continue
			}
			inc.byName[name] = len(inc.list)
			inc.list = append(inc.list, Inclusion{Name: name, Options: options, Command: cmd})
		}
	}
	return inc
}

// Has reports whether the package name is included.
func (inc *Inclusions) Has(name string) bool {
	_, ok := inc.byName[name]
	return ok
}

// Get returns the inclusion for name.
func (inc *Inclusions) Get(name string) (Inclusion, bool) {
	i, ok := inc.byName[name]
	if !ok {
		return Inclusion{}, false
	}
	return inc.list[i], true
}

// All returns the inclusions in document order.
func (inc *Inclusions) All() []Inclusion {
	return append([]Inclusion(nil), inc.list...)
}

// Names returns the package names in document order.
func (inc *Inclusions) Names() []string {
	names := make([]string, len(inc.list))
	for i, p := range inc.list {
		names[i] = p.Name
	}
	return names
}

// Set returns the package names as a set.
func (inc *Inclusions) Set() map[string]bool {
	set := make(map[string]bool, len(inc.list))
	for _, p := range inc.list {
		set[p.Name] = true
	}
	return set
}

// Len returns the number of distinct packages.
func (inc *Inclusions) Len() int { return len(inc.list) }

// Last returns the last package-inclusion command, or nil.
func (inc *Inclusions) Last() *syntax.Node {
	var last *syntax.Node
	for _, p := range inc.list {
		if last == nil || p.Command.Span.End > last.Span.End {
			last = p.Command
		}
	}
	return last
}

// Missing returns the included packages absent from installed, sorted.
func (inc *Inclusions) Missing(installed []string) []string {
	have := make(map[string]bool, len(installed))
	for _, name := range installed {
		have[name] = true
	}
	var missing []string
	for _, p := range inc.list {
		if !have[p.Name] {
			missing = append(missing, p.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

var tlmgrInstalled = regexp.MustCompile(`(?m)^i\s+([^:\n]+):`)

// ParseTlmgrList extracts package names from `tlmgr list --only-installed`
// output, whose lines look like "i amsmath: AMS mathematical facilities".
func ParseTlmgrList(output string) []string {
	var names []string
	for _, m := range tlmgrInstalled.FindAllStringSubmatch(output, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// paramText returns the plain text of a parameter. Comments are not part of
// the tree and commands are skipped.
func paramText(p *syntax.Node) string {
	var b strings.Builder
	syntax.Walk(p, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindNormalText {
			b.WriteString(n.Text)
		}
		return n.Kind != syntax.KindCommand
	})
	return b.String()
}

func mergeOptions(have, more []string) []string {
	out := append([]string(nil), have...)
	for _, o := range more {
		if !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}
