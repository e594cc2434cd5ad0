// Package syntax holds the read-only LaTeX document model consumed by the
// analyses, together with the parser that produces it.
//
// A tree is a closed set of node kinds. Containers (Document, Content,
// MathEnvironment, Parameter) keep their nodes in Children; Environment and
// Command keep their arguments in Params and an Environment keeps its body
// in Body. Walk is the single place that knows this shape.
package syntax

import (
	"crypto/sha256"
	"strings"
)

// Kind discriminates the node variants.
type Kind uint8

const (
	KindDocument Kind = iota
	KindEnvironment
	KindContent
	KindCommand
	KindNormalText
	KindMathEnvironment
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindEnvironment:
		return "Environment"
	case KindContent:
		return "Content"
	case KindCommand:
		return "Command"
	case KindNormalText:
		return "NormalText"
	case KindMathEnvironment:
		return "MathEnvironment"
	case KindParameter:
		return "Parameter"
	}
	return "Unknown"
}

// NodeID is the pre-order index of a node. Parsing the same source twice
// yields the same IDs, which makes it usable as a cache key.
type NodeID int32

// Span is a half-open byte range into the document source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Node is a single element of the tree.
type Node struct {
	ID   NodeID
	Kind Kind
	Span Span

	// Name is the environment name for environments, the command name
	// including its backslash for commands, and the opening delimiter for
	// math environments ("$", "$$", `\(`, `\[`).
	Name string

	// Text is the run for NormalText, the raw source between the
	// delimiters for Parameter, and the verbatim body for \verb-like
	// commands and verbatim environments.
	Text string

	// Optional reports a [bracketed] parameter.
	Optional bool

	// Verbatim marks commands and environments whose body was not parsed.
	Verbatim bool

	Params   []*Node
	Body     *Node
	Children []*Node
	Parent   *Node
}

// Is reports whether n is non-nil and of kind k.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Kind == k
}

// RequiredParameters returns the raw text of each {required} parameter in order.
func (n *Node) RequiredParameters() []string {
	if n == nil {
		return nil
	}
	var out []string
	for _, p := range n.Params {
		if !p.Optional {
			out = append(out, strings.TrimSpace(p.Text))
		}
	}
	return out
}

// OptionalParameters merges every [optional] parameter of n into a
// key/value map. Entries without '=' map to the empty string.
func (n *Node) OptionalParameters() map[string]string {
	out := make(map[string]string)
	if n == nil {
		return out
	}
	for _, p := range n.Params {
		if p.Optional {
			for k, v := range ParseKeyValues(p.Text) {
				out[k] = v
			}
		}
	}
	return out
}

// Document is a parsed source file.
type Document struct {
	Path   string
	Source string
	Root   *Node

	nodes []*Node
}

// Node returns the node with the given ID, or nil.
func (d *Document) Node(id NodeID) *Node {
	if d == nil || id < 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.nodes)
}

// Hash identifies the exact source text the tree was built from.
func (d *Document) Hash() [32]byte {
	return sha256.Sum256([]byte(d.Source))
}

// Slice returns the source covered by span, clamped to the document.
func (d *Document) Slice(s Span) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(d.Source) {
		end = len(d.Source)
	}
	if start >= end {
		return ""
	}
	return d.Source[start:end]
}
