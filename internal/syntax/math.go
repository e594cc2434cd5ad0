package syntax

// DefaultMathEnvironments are environments whose body is typeset in math mode.
var DefaultMathEnvironments = []string{
	"equation", "equation*", "align", "align*", "alignat", "alignat*",
	"flalign", "flalign*", "gather", "gather*", "multline", "multline*",
	"eqnarray", "eqnarray*", "displaymath", "math", "split", "aligned",
	"gathered", "cases", "matrix", "pmatrix", "bmatrix", "vmatrix", "Vmatrix",
}

// DefaultTextInMathCommands switch back to text mode inside their arguments.
var DefaultTextInMathCommands = []string{
	`\text`, `\textrm`, `\textit`, `\textbf`, `\textsf`, `\texttt`,
	`\textnormal`, `\mbox`, `\intertext`, `\shortintertext`,
}

// MathContext decides whether a node is typeset in math mode.
type MathContext struct {
	environments map[string]bool
	textCommands map[string]bool
}

// NewMathContext builds a context from environment names and command names.
// Command names may be given with or without their leading backslash.
func NewMathContext(environments, textCommands []string) *MathContext {
	mc := &MathContext{
		environments: make(map[string]bool, len(environments)),
		textCommands: make(map[string]bool, len(textCommands)),
	}
	for _, e := range environments {
		mc.environments[e] = true
	}
	for _, c := range textCommands {
		mc.textCommands[CommandName(c)] = true
	}
	return mc
}

// DefaultMathContext uses DefaultMathEnvironments and DefaultTextInMathCommands.
func DefaultMathContext() *MathContext {
	return NewMathContext(DefaultMathEnvironments, DefaultTextInMathCommands)
}

// InMathMode walks n's ancestors. The nearest mode switch wins: a math
// environment enters math mode, the argument of a text command leaves it.
func (mc *MathContext) InMathMode(n *Node) bool {
	if n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.Kind {
		case KindMathEnvironment:
			return true
		case KindEnvironment:
			if mc.environments[p.Name] {
				return true
			}
		case KindParameter:
			if owner := p.Parent; owner.Is(KindCommand) && mc.textCommands[owner.Name] {
				return false
			}
		}
	}
	return false
}

// CommandName normalises a configured command name to carry its backslash.
func CommandName(name string) string {
	if name == "" || name[0] == '\\' {
		return name
	}
	return `\` + name
}
