package logtab

import (
	"reflect"
	"strings"
	"testing"
)

func feedAll(c *Classifier, lines ...string) []LogDiagnostic {
	var out []LogDiagnostic
	for _, l := range lines {
		out = append(out, c.Feed(l)...)
	}
	return append(out, c.Flush()...)
}

func TestClassifier(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []LogDiagnostic
	}{
		{
			name:  "bare error",
			lines: []string{"! Undefined control sequence."},
			want:  []LogDiagnostic{{Kind: KindError, Message: "Undefined control sequence."}},
		},
		{
			name:  "file line error",
			lines: []string{"foo.tex:12: Undefined control sequence."},
			want:  []LogDiagnostic{{Kind: KindError, File: "foo.tex", Line: 12, Message: "Undefined control sequence."}},
		},
		{
			name:  "file line error in spaced path",
			lines: []string{"./my thesis.tex:12: Undefined control sequence."},
			want:  []LogDiagnostic{{Kind: KindError, File: "./my thesis.tex", Line: 12, Message: "Undefined control sequence."}},
		},
		{
			name:  "file line error with drive letter",
			lines: []string{`C:\Users\me\My Documents\x.tex:3: Missing $ inserted.`},
			want:  []LogDiagnostic{{Kind: KindError, File: `C:\Users\me\My Documents\x.tex`, Line: 3, Message: "Missing $ inserted."}},
		},
		{
			name:  "file line package error",
			lines: []string{"./main.tex:8: Package babel Error: Unknown option `foo'."},
			want: []LogDiagnostic{{
				Kind: KindError, File: "./main.tex", Line: 8, Package: "babel",
				Message: "Package babel Error: Unknown option `foo'.",
			}},
		},
		{
			name:  "latex error prefix stripped",
			lines: []string{"! LaTeX Error: File `missing.sty' not found."},
			want:  []LogDiagnostic{{Kind: KindError, Message: "File `missing.sty' not found."}},
		},
		{
			name: "error picks up tex line context",
			lines: []string{
				"! Undefined control sequence.",
				`<recently read> \foo `,
				"                ",
				`l.12 \foo`,
			},
			want: []LogDiagnostic{{Kind: KindError, Line: 12, Message: "Undefined control sequence."}},
		},
		{
			name:  "pdftex error",
			lines: []string{"!pdfTeX error: pdflatex (file ./fig.pdf): cannot find image file"},
			want:  []LogDiagnostic{{Kind: KindError, Message: "pdfTeX error: pdflatex (file ./fig.pdf): cannot find image file"}},
		},
		{
			name:  "reference warning",
			lines: []string{"LaTeX Warning: Reference `fig:a' on page 1 undefined on input line 7."},
			want: []LogDiagnostic{{
				Kind: KindWarning, Line: 7, Reference: "fig:a",
				Message: "Reference `fig:a' on page 1 undefined",
			}},
		},
		{
			name:  "citation warning",
			lines: []string{"LaTeX Warning: Citation `knuth84' on page 3 undefined on input line 40."},
			want: []LogDiagnostic{{
				Kind: KindWarning, Line: 40, Reference: "knuth84",
				Message: "Citation `knuth84' on page 3 undefined",
			}},
		},
		{
			name: "package warning with continuation",
			lines: []string{
				"Package hyperref Warning: Token not allowed in a PDF string (Unicode):",
				"(hyperref)                removing `math shift' on input line 23.",
			},
			want: []LogDiagnostic{{
				Kind: KindWarning, Line: 23, Package: "hyperref",
				Message: "Token not allowed in a PDF string (Unicode): removing `math shift'",
			}},
		},
		{
			name: "font warning with continuation",
			lines: []string{
				"LaTeX Font Warning: Font shape `OT1/cmr/bx/sc' undefined",
				"(Font)              using `OT1/cmr/bx/n' instead on input line 12.",
			},
			want: []LogDiagnostic{{
				Kind: KindWarning, Line: 12,
				Message: "Font shape `OT1/cmr/bx/sc' undefined using `OT1/cmr/bx/n' instead",
			}},
		},
		{
			name:  "box warning",
			lines: []string{`Overfull \hbox (15.0pt too wide) in paragraph at lines 10--12`},
			want:  []LogDiagnostic{{Kind: KindWarning, Line: 10, Message: `Overfull \hbox (15.0pt too wide) in paragraph at lines 10--12`}},
		},
		{
			name:  "misc warning without line",
			lines: []string{"No pages of output."},
			want:  []LogDiagnostic{{Kind: KindWarning, Message: "No pages of output."}},
		},
		{
			name:  "standalone input line",
			lines: []string{"Something odd happened on input line 9."},
			want:  []LogDiagnostic{{Kind: KindWarning, Line: 9, Message: "Something odd happened"}},
		},
		{
			name: "info lines are inert",
			lines: []string{
				"Package hyperref Info: Hyper figures OFF on input line 4424.",
				"LaTeX Font Info:    Trying to load font information for OT1+cmr on input line 5.",
				"(Font)              scaled to size 10.0pt on input line 5.",
			},
			want: nil,
		},
		{
			name: "inert lines",
			lines: []string{
				"This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023)",
				"(./main.tex",
				"Document Class: article 2023/05/17 v1.4n Standard LaTeX document class",
				"",
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feedAll(NewClassifier(Options{}), tt.lines...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got  %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestMultilineWarning(t *testing.T) {
	c := NewClassifier(Options{})
	lines := []string{
		"LaTeX Warning: You have requested, on input line 5",
		"`2023/01/01' of package foo,",
		"but only version",
		"`2020/01/01' is available.",
	}
	for _, l := range lines {
		if got := c.Feed(l); len(got) != 0 {
			t.Fatalf("Feed(%q) emitted %+v while collecting", l, got)
		}
		if c.State() != StateCollectingMultilineWarning {
			t.Fatalf("state after %q = %v", l, c.State())
		}
	}

	got := c.Feed("")
	want := []LogDiagnostic{{
		Kind:    KindMultilineWarning,
		Line:    5,
		Message: "You have requested, on input line 5 `2023/01/01' of package foo, but only version `2020/01/01' is available.",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got  %+v\nwant %+v", got, want)
	}
	if c.State() != StateIdle {
		t.Errorf("state after blank line = %v", c.State())
	}
	if rest := c.Flush(); len(rest) != 0 {
		t.Errorf("Flush emitted %+v", rest)
	}
}

func TestMultilineEndedByNextDiagnostic(t *testing.T) {
	c := NewClassifier(Options{})
	c.Feed("LaTeX Warning: You have requested, on input line 5")
	c.Feed("`2023/01/01' of package foo,")

	got := c.Feed("! Emergency stop.")
	if len(got) != 1 || got[0].Kind != KindMultilineWarning || got[0].Line != 5 {
		t.Fatalf("expected the multi-line warning, got %+v", got)
	}
	rest := c.Flush()
	if len(rest) != 1 || rest[0].Kind != KindError || rest[0].Message != "Emergency stop." {
		t.Errorf("expected the error after flush, got %+v", rest)
	}
}

func TestMultilineFlushedAtEndOfStream(t *testing.T) {
	c := NewClassifier(Options{})
	c.Feed("LaTeX Warning: You have requested, on input line 8")
	c.Feed("`2023/01/01' of package bar,")

	got := c.Flush()
	if len(got) != 1 || got[0].Kind != KindMultilineWarning || got[0].Line != 8 {
		t.Fatalf("Flush = %+v", got)
	}
	if c.State() != StateIdle {
		t.Errorf("state after Flush = %v", c.State())
	}
}

func TestConfiguredMultilineWarning(t *testing.T) {
	c := NewClassifier(Options{MultilineWarnings: []string{"LaTeX Warning: Custom"}})
	got := feedAll(c, "LaTeX Warning: Custom trouble", "spanning lines", "")
	if len(got) != 1 || got[0].Kind != KindMultilineWarning || got[0].Message != "Custom trouble spanning lines" {
		t.Errorf("got %+v", got)
	}
}

func TestReset(t *testing.T) {
	c := NewClassifier(Options{})
	c.Feed("LaTeX Warning: You have requested, on input line 5")
	c.Feed("! Undefined control sequence.")
	c.Reset()

	if c.State() != StateIdle {
		t.Errorf("state after Reset = %v", c.State())
	}
	if got := c.Flush(); len(got) != 0 {
		t.Errorf("Flush after Reset = %+v", got)
	}
}

func TestHardWrappedLine(t *testing.T) {
	prefix := "LaTeX Warning: Reference `"
	key := strings.Repeat("a", LineWidth-len(prefix))
	first := prefix + key
	if len(first) != LineWidth {
		t.Fatalf("test line is %d wide", len(first))
	}

	c := NewClassifier(Options{})
	if got := c.Feed(first); got != nil {
		t.Fatalf("wrapped line emitted %+v", got)
	}
	got := c.Feed("' on page 2 undefined on input line 3.")
	if len(got) != 1 || got[0].Reference != key || got[0].Line != 3 {
		t.Errorf("got %+v", got)
	}

	off := NewClassifier(Options{LineWidth: -1})
	got = feedAll(off, first)
	if len(got) != 1 || got[0].Reference != "" {
		t.Errorf("re-joining disabled: got %+v", got)
	}
}

func TestKindString(t *testing.T) {
	text, _ := KindMultilineWarning.MarshalText()
	if string(text) != "multiline-warning" || KindError.String() != "error" {
		t.Errorf("unexpected kind names %q %q", text, KindError.String())
	}
}
