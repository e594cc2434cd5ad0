package environment

import (
	"latex-insight/internal/logger"
	"latex-insight/internal/syntax"
)

// StubIndex is an in-memory StubLookup.
type StubIndex map[syntax.NodeID]Stub

// Stub implements StubLookup.
func (s StubIndex) Stub(id syntax.NodeID) (Stub, bool) {
	stub, ok := s[id]
	return stub, ok
}

// BuildStubs resolves every environment of doc by live traversal. Any
// stubs r already holds are ignored.
func (r *Resolver) BuildStubs(doc *syntax.Document) StubIndex {
	live := r.WithStubs(nil)
	idx := make(StubIndex)
	for _, env := range syntax.FindAll(doc.Root, syntax.KindEnvironment) {
		label, _ := live.Label(env)
		idx[env.ID] = Stub{Name: live.Name(env), Label: label}
	}
	logger.Debug("built environment stubs", logger.String("path", doc.Path), logger.Int("environments", len(idx)))
	return idx
}
