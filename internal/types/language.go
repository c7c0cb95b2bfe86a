package types

import "strings"

// Language identifies the (detected) language of a candidate's text.
type Language string

const (
	LangEnglish Language = "english"
	LangHindi   Language = "hindi"
	LangSpanish Language = "spanish"
	LangChinese Language = "chinese"
	LangArabic  Language = "arabic"
	LangUnknown Language = "unknown"
)

// IsValid reports whether l is a recognised language.
func (l Language) IsValid() bool {
	switch l {
	case LangEnglish, LangHindi, LangSpanish, LangChinese, LangArabic, LangUnknown:
		return true
	}
	return false
}

// DetectLanguage sniffs the language from Unicode code-point ranges.
// Devanagari maps to hindi, CJK unified ideographs to chinese, the Arabic
// block to arabic. Latin-script text defaults to english; spanish is never
// sniffed and must be set by the caller when known.
func DetectLanguage(text string) Language {
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			return LangHindi
		case r >= 0x4E00 && r <= 0x9FFF:
			return LangChinese
		case r >= 0x0600 && r <= 0x06FF:
			return LangArabic
		}
	}
	if strings.TrimSpace(text) == "" {
		return LangUnknown
	}
	return LangEnglish
}
