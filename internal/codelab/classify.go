package codelab

import (
	"regexp"
	"strings"

	"nbconv/internal/notebook"
)

var (
	sqlKeywordRe  = regexp.MustCompile(`(?i)\b(SELECT|CREATE|WITH|INSERT|UPDATE|DELETE)\b`)
	pythonIdiomRe = regexp.MustCompile(`\b(import|def|class)\b|print\(\)|from\s+\w+\s+import`)
)

// DetectLanguage decides whether a fenced code block is SQL or Python. An
// explicit fence tag wins; otherwise a keyword heuristic over the code body
// applies, defaulting to Python when nothing matches. The result is always
// one of the two supported languages.
func DetectLanguage(explicitTag, code string) notebook.Language {
	switch strings.ToLower(strings.TrimSpace(explicitTag)) {
	case "sql", "snowflake-sql":
		return notebook.LanguageSQL
	case "python", "py":
		return notebook.LanguagePython
	}

	sample := strings.TrimSpace(code)
	if sqlKeywordRe.MatchString(sample) {
		return notebook.LanguageSQL
	}
	if pythonIdiomRe.MatchString(sample) {
		return notebook.LanguagePython
	}
	return notebook.LanguagePython
}
