package domain

import "strings"

// Language is the UI and content language. The same value selects the
// static UI text and the language named in every model instruction.
type Language string

const (
	LangGujarati Language = "gu"
	LangHindi    Language = "hi"
	LangEnglish  Language = "en"
)

// DefaultLanguage is used when nothing else is configured.
const DefaultLanguage = LangGujarati

// Languages lists the supported languages in UI cycle order.
var Languages = []Language{LangGujarati, LangHindi, LangEnglish}

var languageNames = map[Language]string{
	LangGujarati: "Gujarati",
	LangHindi:    "Hindi",
	LangEnglish:  "English",
}

// ParseLanguage validates a language code. Unsupported codes fail fast
// with a validation error.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", Validationf("parse language", "unsupported language %q (want gu, hi or en)", s)
	}
	return l, nil
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Name returns the English name used inside model instructions.
func (l Language) Name() string {
	return languageNames[l]
}

// Next returns the following language in cycle order.
func (l Language) Next() Language {
	for i, cand := range Languages {
		if cand == l {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return DefaultLanguage
}

func (l Language) String() string { return string(l) }
