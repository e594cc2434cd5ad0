package diacritic

import (
	"errors"
	"testing"
)

func TestEscapeReplacement(t *testing.T) {
	tests := []struct {
		name   string
		char   string
		inMath bool
		want   string
	}{
		{"grave", "è", false, "\\`{e}"},
		{"cedilla", "ç", false, `\c{c}`},
		{"dotless i", "í", false, `\'{\i}`},
		{"dotless i math", "í", true, `\acute{\imath}`},
		{"dotless j", "ǰ", false, `\v{\j}`},
		{"ogonek keeps dot", "į", false, `\k{i}`},
		{"two marks", "ǘ", false, `\"{\'{u}}`},
		{"circumflex then acute", "ế", false, `\^{\'{e}}`},
		{"two marks dotless", "ḯ", false, `\"{\'{\i}}`},
		{"cedilla then acute", "ḉ", false, `\c{\'{c}}`},
		{"math dot", "ẋ", true, `\dot{x}`},
		{"display text", "ß", false, `\ss`},
		{"display math", "α", true, `\alpha`},
		{"display before decomposition", "å", false, `\aa`},
		{"math arrow", "→", true, `\rightarrow`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EscapeReplacement(tt.char, tt.inMath)
			if err != nil {
				t.Fatalf("EscapeReplacement(%q) error: %v", tt.char, err)
			}
			if got != tt.want {
				t.Errorf("EscapeReplacement(%q, %v) = %q, want %q", tt.char, tt.inMath, got, tt.want)
			}
		})
	}
}

func TestEscapeReplacementErrors(t *testing.T) {
	tests := []struct {
		name   string
		char   string
		inMath bool
		want   error
	}{
		{"ascii", "a", false, ErrASCII},
		{"empty", "", false, ErrASCII},
		{"greek in text", "α", false, ErrNoEscape},
		{"cjk", "日", false, ErrNoEscape},
		{"unknown mark", "a\u0334", false, ErrNoEscape},
		{"text-only mark in math", "ç", true, ErrNoEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EscapeReplacement(tt.char, tt.inMath)
			if !errors.Is(err, tt.want) {
				t.Fatalf("EscapeReplacement(%q) = %q, %v; want error %v", tt.char, got, err, tt.want)
			}
			if got != "" {
				t.Errorf("expected empty replacement on error, got %q", got)
			}
		})
	}

	if errors.Is(ErrASCII, ErrNoEscape) || errors.Is(ErrNoEscape, ErrASCII) {
		t.Error("ErrASCII and ErrNoEscape must be distinguishable")
	}
}

func TestBuildChainOrder(t *testing.T) {
	acuteThenDiaeresis, err := BuildChain("u", []rune{'\u0308', '\u0301'}, false)
	if err != nil {
		t.Fatal(err)
	}
	diaeresisThenAcute, err := BuildChain("u", []rune{'\u0301', '\u0308'}, false)
	if err != nil {
		t.Fatal(err)
	}
	if acuteThenDiaeresis == diaeresisThenAcute {
		t.Errorf("mark order must matter, both gave %q", acuteThenDiaeresis)
	}
	if acuteThenDiaeresis != `\"{\'{u}}` {
		t.Errorf("BuildChain(u, U+0308 U+0301) = %q", acuteThenDiaeresis)
	}
	if diaeresisThenAcute != `\'{\"{u}}` {
		t.Errorf("BuildChain(u, U+0301 U+0308) = %q", diaeresisThenAcute)
	}
}

func TestBuildChainThreeMarks(t *testing.T) {
	got, err := BuildChain("i", []rune{'\u0301', '\u0308', '\u0300'}, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := "\\'{\\\"{\\`{\\i}}}"; got != want {
		t.Errorf("BuildChain = %q, want %q", got, want)
	}
}

func TestBuildChainFailsAsAWhole(t *testing.T) {
	got, err := BuildChain("a", []rune{'\u0301', '\u0334', '\u0300'}, false)
	if !errors.Is(err, ErrNoEscape) {
		t.Fatalf("expected ErrNoEscape, got %v", err)
	}
	if got != "" {
		t.Errorf("partial chain leaked: %q", got)
	}
}

func TestBuildChainNoMarks(t *testing.T) {
	got, err := BuildChain("x", nil, false)
	if err != nil || got != "x" {
		t.Errorf("BuildChain without marks = %q, %v", got, err)
	}
}

func TestDecompose(t *testing.T) {
	base, marks := Decompose("ǘ")
	if base != "u" {
		t.Errorf("base = %q, want u", base)
	}
	if len(marks) != 2 || marks[0] != '\u0308' || marks[1] != '\u0301' {
		t.Errorf("marks = %U", marks)
	}

	base, marks = Decompose("日")
	if base != "" || len(marks) != 1 {
		t.Errorf("Decompose(日) = %q, %U", base, marks)
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	for _, inMath := range []bool{false, true} {
		table := textCommands
		if inMath {
			table = mathCommands
		}
		for char, name := range table {
			got, ok := LookupDisplay(char, inMath)
			if !ok || got != name {
				t.Errorf("LookupDisplay(%q, %v) = %q, %v", char, inMath, got, ok)
			}
			back, ok := DisplayOf(`\`+name, inMath)
			if !ok || back != char {
				t.Errorf("DisplayOf(%q, %v) = %q, want %q", name, inMath, back, char)
			}
		}
	}
}

func TestLookupModes(t *testing.T) {
	if d, ok := Lookup('\u0301', false); !ok || d.Command != "'" {
		t.Errorf("text acute = %+v, %v", d, ok)
	}
	if d, ok := Lookup('\u0301', true); !ok || d.Command != "acute" {
		t.Errorf("math acute = %+v, %v", d, ok)
	}
	if _, ok := Lookup('\u20D7', false); ok {
		t.Error("vector arrow has no text-mode accent")
	}
}
