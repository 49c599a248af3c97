package analyzer

import (
	"path"
	"strings"
)

// otherLanguage collects files with unrecognized extensions.
const otherLanguage = "Other"

// languageByExt maps lower-case file extensions to language names.
var languageByExt = map[string]string{
	".go":    "Go",
	".mod":   "Go Module",
	".sum":   "Go Module",
	".py":    "Python",
	".pyi":   "Python",
	".js":    "JavaScript",
	".mjs":   "JavaScript",
	".cjs":   "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".c":     "C",
	".h":     "C",
	".cc":    "C++",
	".cpp":   "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".rb":    "Ruby",
	".php":   "PHP",
	".swift": "Swift",
	".sh":    "Shell",
	".bash":  "Shell",
	".sql":   "SQL",
	".proto": "Protocol Buffers",
	".html":  "HTML",
	".css":   "CSS",
	".scss":  "CSS",
	".md":    "Markdown",
	".rst":   "reStructuredText",
	".txt":   "Text",
	".json":  "JSON",
	".yaml":  "YAML",
	".yml":   "YAML",
	".toml":  "TOML",
	".xml":   "XML",
}

// languageByName maps well-known extensionless file names.
var languageByName = map[string]string{
	"Makefile":   "Makefile",
	"Dockerfile": "Dockerfile",
	"LICENSE":    "Text",
}

// languageOf returns the language for a path. Extra mappings (extension to
// language) take precedence over the built-in table.
func languageOf(p string, extra map[string]string) string {
	ext := strings.ToLower(path.Ext(p))
	if lang, ok := extra[ext]; ok {
		return lang
	}
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	if lang, ok := languageByName[path.Base(p)]; ok {
		return lang
	}
	return otherLanguage
}
