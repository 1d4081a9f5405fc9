package highlight

import "strings"

// NormalizeFence maps a fenced-code info string to a Chroma language
// identifier. The info string is whatever follows the opening token, so
// aliases and stray annotations ("go linenums") need normalizing.
func NormalizeFence(info string) string {
	lang := strings.ToLower(strings.TrimSpace(info))
	if i := strings.IndexAny(lang, " \t,{"); i >= 0 {
		lang = lang[:i]
	}

	aliases := map[string]string{
		"golang":     "go",
		"shell":      "bash",
		"sh":         "bash",
		"zsh":        "bash",
		"console":    "bash",
		"terminal":   "bash",
		"py":         "python",
		"python3":    "python",
		"rb":         "ruby",
		"js":         "javascript",
		"ts":         "typescript",
		"yml":        "yaml",
		"dockerfile": "docker",
		"jsonc":      "json",
		"md":         "markdown",
		"text":       "",
		"plain":      "",
		"plaintext":  "",
	}
	if mapped, ok := aliases[lang]; ok {
		return mapped
	}
	return lang
}

// IsShell reports whether the normalized language is a shell dialect.
func IsShell(lang string) bool {
	return NormalizeFence(lang) == "bash"
}
