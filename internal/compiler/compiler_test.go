package compiler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"latex-insight/internal/logtab"
	"latex-insight/internal/types"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{"empty defaults", "", ModePDFLaTeX, false},
		{"pdflatex", "pdflatex", ModePDFLaTeX, false},
		{"upper case", "XeLaTeX", ModeXeLaTeX, false},
		{"padded", "  lualatex ", ModeLuaLaTeX, false},
		{"unknown", "tectonic", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && types.CodeOf(err) != types.ErrInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %v", types.CodeOf(err))
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestUnicodeNative(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{ModePDFLaTeX, false},
		{ModeXeLaTeX, true},
		{ModeLuaLaTeX, true},
	}
	for _, tt := range tests {
		if got := tt.mode.UnicodeNative(); got != tt.want {
			t.Errorf("%s.UnicodeNative() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestContainsCJK(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"english", "Hello, world", false},
		{"accents", "café", false},
		{"chinese", "你好", true},
		{"japanese kana", "ひらがな", true},
		{"korean", "한국어", true},
		{"mixed", `\section{介绍}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsCJK(tt.text); got != tt.want {
				t.Errorf("ContainsCJK(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	if got := Suggest("naïve café"); got != ModeLuaLaTeX {
		t.Errorf("Suggest(latin) = %s", got)
	}
	if got := Suggest("中文文档"); got != ModeXeLaTeX {
		t.Errorf("Suggest(cjk) = %s", got)
	}
}

const sampleLog = `This is pdfTeX, Version 3.141592653-2.6-1.40.25 (TeX Live 2023)
(./main.tex
LaTeX2e <2022-11-01>
! Undefined control sequence.
l.5 \foo

LaTeX Warning: Reference ` + "`fig:a'" + ` on page 1 undefined on input line 9.

LaTeX Warning: There were undefined references.
`

func TestClassifyLog(t *testing.T) {
	diags, err := ClassifyLog(context.Background(), strings.NewReader(sampleLog), logtab.Options{})
	if err != nil {
		t.Fatalf("ClassifyLog: %v", err)
	}
	if len(diags) != 3 {
		t.Fatalf("got %d diagnostics: %+v", len(diags), diags)
	}
	if diags[0].Kind != logtab.KindError || diags[0].Line != 5 {
		t.Errorf("first diagnostic = %+v", diags[0])
	}
	if diags[1].Reference != "fig:a" || diags[1].Line != 9 {
		t.Errorf("second diagnostic = %+v", diags[1])
	}
	if diags[2].Kind != logtab.KindWarning || diags[2].Message != "There were undefined references." {
		t.Errorf("third diagnostic = %+v", diags[2])
	}
}

func TestReadLogCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := logtab.NewClassifier(logtab.Options{})
	emitted := 0
	err := ReadLog(ctx, strings.NewReader(sampleLog), c, func(logtab.LogDiagnostic) { emitted++ })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if emitted != 0 {
		t.Errorf("emitted %d diagnostics after cancellation", emitted)
	}
	if c.State() != logtab.StateIdle {
		t.Errorf("classifier not reset: %v", c.State())
	}
}

func TestLogPath(t *testing.T) {
	tests := []struct {
		tex, out, want string
	}{
		{"paper/main.tex", "", filepath.Join("paper", "main.log")},
		{"paper/main.tex", "build", filepath.Join("build", "main.log")},
		{"paper/main.TEX", "", filepath.Join("paper", "main.log")},
		{"paper/main.log", "", "paper/main.log"},
		{"-", "", "-"},
	}
	for _, tt := range tests {
		if got := LogPath(tt.tex, tt.out); got != tt.want {
			t.Errorf("LogPath(%q, %q) = %q, want %q", tt.tex, tt.out, got, tt.want)
		}
	}
}
