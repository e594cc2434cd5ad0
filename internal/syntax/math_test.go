package syntax

import "testing"

func TestInMathMode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text string
		want bool
	}{
		{"plain text", `hello é`, "hello é", false},
		{"inline math", `$é$`, "é", true},
		{"display math", `\[ é \]`, " é ", true},
		{"equation environment", `\begin{equation} é \end{equation}`, " é ", true},
		{"starred align", `\begin{align*} é \end{align*}`, " é ", true},
		{"text inside math", `$a \text{é} b$`, "é", false},
		{"math inside text inside math", `$a \text{x $é$} b$`, "é", true},
		{"other environment", `\begin{center} é \end{center}`, " é ", false},
		{"section title", `\section{é}`, "é", false},
	}

	mc := DefaultMathContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.src)
			var target *Node
			for _, n := range FindAll(doc.Root, KindNormalText) {
				if n.Text == tt.text {
					target = n
				}
			}
			if target == nil {
				t.Fatalf("no text node %q in %q", tt.text, tt.src)
			}
			if got := mc.InMathMode(target); got != tt.want {
				t.Errorf("InMathMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewMathContextNormalisesCommands(t *testing.T) {
	mc := NewMathContext(nil, []string{"mytext"})
	doc := Parse(`$\mytext{é}$`)
	text := FindAll(doc.Root, KindNormalText)[0]
	if mc.InMathMode(text) {
		t.Error("configured text command without backslash should still leave math mode")
	}
}

func TestCommandName(t *testing.T) {
	if got := CommandName("label"); got != `\label` {
		t.Errorf("CommandName(label) = %q", got)
	}
	if got := CommandName(`\label`); got != `\label` {
		t.Errorf("CommandName(\\label) = %q", got)
	}
	if got := CommandName(""); got != "" {
		t.Errorf("CommandName(\"\") = %q", got)
	}
}
