package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// LanguageAuto asks the model to detect the spoken language
const LanguageAuto = ""

// ParseLanguage normalizes a language hint to the ISO 639 code the model
// expects. Empty input and "auto" mean auto-detect.
func ParseLanguage(hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" || strings.EqualFold(hint, "auto") {
		return LanguageAuto, nil
	}

	tag, err := language.Parse(hint)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, hint)
	}

	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, hint)
	}
	return base.String(), nil
}
