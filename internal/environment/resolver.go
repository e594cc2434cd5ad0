// Package environment resolves the name and label of LaTeX environments.
//
// A label comes from one of three places, tried in a fixed order: a
// precomputed stub, the `label=` option of environments that carry their
// label as a parameter, or the first label command inside the body of a
// labeled environment. Resolution is total: a missing piece yields an
// absent result, never an error.
package environment

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"latex-insight/internal/logger"
	"latex-insight/internal/syntax"
)

// DefaultLabelCommands maps label-defining commands to the 1-based position
// of the required parameter that holds the label.
var DefaultLabelCommands = map[string]int{
	`\label`: 1,
}

// DefaultLabelAsParameter lists environments labeled through `[label=...]`.
var DefaultLabelAsParameter = []string{"lstlisting", "Verbatim"}

// DefaultLabeledEnvironments maps environments that may contain a label to
// the prefix conventionally used for that label.
var DefaultLabeledEnvironments = map[string]string{
	"figure":     "fig",
	"table":      "tab",
	"equation":   "eq",
	"algorithm":  "alg",
	"lstlisting": "lst",
	"Verbatim":   "verb",
}

// Stub holds precomputed environment data.
type Stub struct {
	Name  string
	Label string
}

// StubLookup is an optional memo of environment data keyed by node identity.
type StubLookup interface {
	Stub(id syntax.NodeID) (Stub, bool)
}

// Options configures a Resolver. Nil or empty fields use the defaults.
type Options struct {
	LabelCommands       map[string]int
	LabelAsParameter    []string
	LabeledEnvironments map[string]string
}

// Resolver resolves environment names and labels.
type Resolver struct {
	stubs            StubLookup
	labelCommands    map[string]int
	labelAsParameter map[string]bool
	labeled          map[string]string
}

// NewResolver creates a Resolver. stubs may be nil.
func NewResolver(opts Options, stubs StubLookup) *Resolver {
	r := &Resolver{
		stubs:            stubs,
		labelCommands:    make(map[string]int),
		labelAsParameter: make(map[string]bool),
		labeled:          make(map[string]string),
	}

	commands := opts.LabelCommands
	if len(commands) == 0 {
		commands = DefaultLabelCommands
	}
	for name, pos := range commands {
		r.labelCommands[syntax.CommandName(name)] = pos
	}

	asParameter := opts.LabelAsParameter
	if len(asParameter) == 0 {
		asParameter = DefaultLabelAsParameter
	}
	for _, name := range asParameter {
		r.labelAsParameter[name] = true
	}

	labeled := opts.LabeledEnvironments
	if len(labeled) == 0 {
		labeled = DefaultLabeledEnvironments
	}
	for name, prefix := range labeled {
		r.labeled[name] = prefix
	}
	return r
}

// WithStubs returns a copy of r that consults stubs first.
func (r *Resolver) WithStubs(stubs StubLookup) *Resolver {
	cp := *r
	cp.stubs = stubs
	return &cp
}

// Fingerprint identifies the settings that affect resolution. Two
// resolvers with equal fingerprints compute the same stubs.
func (r *Resolver) Fingerprint() [32]byte {
	var lines []string
	for name, pos := range r.labelCommands {
		lines = append(lines, fmt.Sprintf("command\x00%s\x00%d", name, pos))
	}
	for name := range r.labelAsParameter {
		lines = append(lines, "parameter\x00"+name)
	}
	for name, prefix := range r.labeled {
		lines = append(lines, "labeled\x00"+name+"\x00"+prefix)
	}
	sort.Strings(lines)
	return sha256.Sum256([]byte(strings.Join(lines, "\n")))
}

func (r *Resolver) stub(env *syntax.Node) (Stub, bool) {
	if r.stubs == nil || env == nil {
		return Stub{}, false
	}
	return r.stubs.Stub(env.ID)
}

// Label returns the label of env and whether one was found.
func (r *Resolver) Label(env *syntax.Node) (string, bool) {
	if !env.Is(syntax.KindEnvironment) {
		return "", false
	}
	if s, ok := r.stub(env); ok {
		return s.Label, s.Label != ""
	}
	return r.liveLabel(env)
}

func (r *Resolver) liveLabel(env *syntax.Node) (string, bool) {
	name := r.liveName(env)

	if r.labelAsParameter[name] {
		label, ok := env.OptionalParameters()["label"]
		return label, ok
	}

	if _, ok := r.labeled[name]; !ok || env.Body == nil {
		return "", false
	}

	cmd := r.firstLabelCommand(env.Body)
	if cmd == nil {
		logger.Debug("no label command in labeled environment", logger.String("environment", name))
		return "", false
	}
	params := cmd.RequiredParameters()
	pos := r.labelCommands[cmd.Name] - 1
	if pos < 0 || pos >= len(params) {
		return "", false
	}
	return params[pos], true
}

func (r *Resolver) firstLabelCommand(body *syntax.Node) *syntax.Node {
	var found *syntax.Node
	syntax.Walk(body, func(n *syntax.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == syntax.KindCommand {
			if _, ok := r.labelCommands[n.Name]; ok {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// Name returns the environment name, or "" when it cannot be read.
func (r *Resolver) Name(env *syntax.Node) string {
	if !env.Is(syntax.KindEnvironment) {
		return ""
	}
	if s, ok := r.stub(env); ok {
		return s.Name
	}
	return r.liveName(env)
}

// liveName reads the text of the first begin parameter.
func (r *Resolver) liveName(env *syntax.Node) string {
	if len(env.Params) == 0 {
		return ""
	}
	first := env.Params[0]
	if first.Optional || len(first.Children) == 0 {
		return ""
	}
	text := first.Children[0]
	if text.Kind != syntax.KindNormalText {
		return ""
	}
	return strings.TrimSpace(text.Text)
}

// IsLabelCommand reports whether name (with or without backslash) defines labels.
func (r *Resolver) IsLabelCommand(name string) bool {
	_, ok := r.labelCommands[syntax.CommandName(name)]
	return ok
}

// LabelCommandPosition returns the 1-based parameter position of a label command.
func (r *Resolver) LabelCommandPosition(name string) (int, bool) {
	pos, ok := r.labelCommands[syntax.CommandName(name)]
	return pos, ok
}

// ConventionalPrefix returns the customary label prefix for an environment,
// such as "fig" for figure.
func (r *Resolver) ConventionalPrefix(envName string) (string, bool) {
	prefix, ok := r.labeled[envName]
	return prefix, ok
}

// IsLabelAsParameter reports whether envName carries its label in a
// `label=` option.
func (r *Resolver) IsLabelAsParameter(envName string) bool {
	return r.labelAsParameter[envName]
}
