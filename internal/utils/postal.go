package utils

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// remove qualquer coisa que não seja dígito (aceita dígitos de largura cheia: "１００" -> "100")
func SanitizeDigits(s string) string {
	s = width.Narrow.String(s)
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// 郵便番号: exatamente 7 dígitos depois da limpeza ("100-0001" ok)
func ValidatePostalCode(code string) bool {
	if len(code) != 7 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
