// Package compiler models the LaTeX engines and reads their output.
package compiler

import (
	"fmt"
	"strings"
	"unicode"

	"latex-insight/internal/types"
)

// Mode is a LaTeX engine.
type Mode string

const (
	// ModePDFLaTeX is the pdflatex compiler
	ModePDFLaTeX Mode = "pdflatex"
	// ModeXeLaTeX is the xelatex compiler
	ModeXeLaTeX Mode = "xelatex"
	// ModeLuaLaTeX is the lualatex compiler
	ModeLuaLaTeX Mode = "lualatex"
)

// DefaultMode is used when nothing is configured.
const DefaultMode = ModePDFLaTeX

// Modes lists the supported engines.
func Modes() []Mode {
	return []Mode{ModePDFLaTeX, ModeXeLaTeX, ModeLuaLaTeX}
}

// ParseMode parses an engine name, case-insensitively. An empty name
// yields DefaultMode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultMode, nil
	}
	for _, m := range Modes() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown compiler",
		fmt.Sprintf("%q is not one of pdflatex, xelatex, lualatex", name), nil)
}

// UnicodeNative reports whether the engine reads UTF-8 input natively, so no
// input/font encoding packages are needed.
func (m Mode) UnicodeNative() bool {
	return m == ModeXeLaTeX || m == ModeLuaLaTeX
}

func (m Mode) String() string { return string(m) }

// ContainsCJK checks if text contains Chinese, Japanese or Korean characters.
func ContainsCJK(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}

// Suggest picks the Unicode-native engine to switch to for source. CJK
// documents go to xelatex (xeCJK), everything else to lualatex.
func Suggest(source string) Mode {
	if ContainsCJK(source) {
		return ModeXeLaTeX
	}
	return ModeLuaLaTeX
}
