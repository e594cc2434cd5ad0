package diacritic

// textCommands maps characters to the text-mode commands that print them.
var textCommands = map[string]string{
	"ß": "ss", "æ": "ae", "Æ": "AE", "œ": "oe", "Œ": "OE",
	"ø": "o", "Ø": "O", "å": "aa", "Å": "AA", "ł": "l", "Ł": "L",
	"ı": "i", "ȷ": "j", "ð": "dh", "Ð": "DH", "þ": "th", "Þ": "TH",
	"ŋ": "ng", "Ŋ": "NG",
	"†": "dag", "‡": "ddag", "§": "S", "¶": "P",
	"©": "copyright", "®": "textregistered", "™": "texttrademark",
	"£": "pounds", "€": "texteuro", "¢": "textcent", "¥": "textyen",
	"…": "dots", "–": "textendash", "—": "textemdash",
	"“": "textquotedblleft", "”": "textquotedblright",
	"‘": "textquoteleft", "’": "textquoteright",
	"„": "quotedblbase", "‚": "quotesinglbase",
	"«": "guillemotleft", "»": "guillemotright",
	"‹": "guilsinglleft", "›": "guilsinglright",
	"¡": "textexclamdown", "¿": "textquestiondown",
	"•": "textbullet", "°": "textdegree", "‰": "textperthousand",
	"µ": "textmu", "·": "textperiodcentered", "¬": "textlnot",
	"±": "textpm", "×": "texttimes", "÷": "textdiv",
	"½": "textonehalf", "¼": "textonequarter", "¾": "textthreequarters",
}

// mathCommands maps characters to math-mode commands.
var mathCommands = map[string]string{
	"α": "alpha", "β": "beta", "γ": "gamma", "δ": "delta",
	"ϵ": "epsilon", "ε": "varepsilon", "ζ": "zeta", "η": "eta",
	"θ": "theta", "ϑ": "vartheta", "ι": "iota", "κ": "kappa",
	"λ": "lambda", "μ": "mu", "ν": "nu", "ξ": "xi", "π": "pi",
	"ϖ": "varpi", "ρ": "rho", "ϱ": "varrho", "σ": "sigma",
	"ς": "varsigma", "τ": "tau", "υ": "upsilon", "ϕ": "phi",
	"φ": "varphi", "χ": "chi", "ψ": "psi", "ω": "omega",
	"Γ": "Gamma", "Δ": "Delta", "Θ": "Theta", "Λ": "Lambda",
	"Ξ": "Xi", "Π": "Pi", "Σ": "Sigma", "Υ": "Upsilon",
	"Φ": "Phi", "Ψ": "Psi", "Ω": "Omega",

	"∞": "infty", "≤": "leq", "≥": "geq", "≠": "neq", "≈": "approx",
	"≡": "equiv", "∼": "sim", "≃": "simeq", "≅": "cong", "∝": "propto",
	"≪": "ll", "≫": "gg", "±": "pm", "∓": "mp", "×": "times",
	"÷": "div", "·": "cdot", "∘": "circ", "∙": "bullet",
	"⊕": "oplus", "⊗": "otimes", "∈": "in", "∉": "notin", "∋": "ni",
	"⊂": "subset", "⊃": "supset", "⊆": "subseteq", "⊇": "supseteq",
	"∪": "cup", "∩": "cap", "∖": "setminus", "∅": "emptyset",
	"∀": "forall", "∃": "exists", "¬": "neg", "∧": "wedge", "∨": "vee",
	"→": "rightarrow", "←": "leftarrow", "↔": "leftrightarrow",
	"⇒": "Rightarrow", "⇐": "Leftarrow", "⇔": "Leftrightarrow",
	"↦": "mapsto", "↑": "uparrow", "↓": "downarrow",
	"∑": "sum", "∏": "prod", "∫": "int", "∮": "oint",
	"∂": "partial", "∇": "nabla", "√": "surd", "′": "prime",
	"ℓ": "ell", "ℵ": "aleph", "ℏ": "hbar", "ℜ": "Re", "ℑ": "Im",
	"…": "ldots", "⋯": "cdots", "⋮": "vdots", "⋱": "ddots",
	"⟨": "langle", "⟩": "rangle", "⌈": "lceil", "⌉": "rceil",
	"⌊": "lfloor", "⌋": "rfloor", "∣": "mid", "∥": "parallel",
	"⊥": "perp", "∠": "angle", "△": "triangle", "⊢": "vdash", "⊨": "models",
}

var (
	textDisplays = invert(textCommands)
	mathDisplays = invert(mathCommands)
)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for display, name := range m {
		out[name] = display
	}
	return out
}

// LookupDisplay returns the name of the command (without backslash) whose
// output is char.
func LookupDisplay(char string, inMathMode bool) (string, bool) {
	if inMathMode {
		name, ok := mathCommands[char]
		return name, ok
	}
	name, ok := textCommands[char]
	return name, ok
}

// DisplayOf returns the character a command prints, the inverse of LookupDisplay.
func DisplayOf(command string, inMathMode bool) (string, bool) {
	if len(command) > 0 && command[0] == '\\' {
		command = command[1:]
	}
	if inMathMode {
		d, ok := mathDisplays[command]
		return d, ok
	}
	d, ok := textDisplays[command]
	return d, ok
}
