package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Checagem de um campo. Check recebe o valor já normalizado.
type Rule struct {
	Code   string
	Params map[string]any
	Check  func(v string) bool
}

var tags = validator.New()

var (
	reJapanese    = regexp.MustCompile(`^[\p{Hiragana}\p{Katakana}\p{Han}ー]+$`)
	reKatakana    = regexp.MustCompile(`^[\p{Katakana}ー]+$`)
	reCompanyCode = regexp.MustCompile(`^[A-Z0-9-]+$`)
	reDigits      = regexp.MustCompile(`^[0-9]+$`)
	rePrefecture  = regexp.MustCompile(`^(0[1-9]|[1-3][0-9]|4[0-7])$`)
	reAddress     = regexp.MustCompile(`^[0-9―]+$`)
	reBuilding    = regexp.MustCompile(`^[\p{Hiragana}\p{Katakana}\p{Han}A-Zー]+$`)
)

func Required() Rule {
	return Rule{Code: CodeRequired, Check: func(v string) bool { return v != "" }}
}

// Tamanhos contam caracteres, não bytes.
func MinLen(n int) Rule {
	return Rule{
		Code:   CodeTooShort,
		Params: map[string]any{"min": n},
		Check:  func(v string) bool { return utf8.RuneCountInString(v) >= n },
	}
}

func MaxLen(n int) Rule {
	return Rule{
		Code:   CodeTooLong,
		Params: map[string]any{"max": n},
		Check:  func(v string) bool { return utf8.RuneCountInString(v) <= n },
	}
}

func Matches(re *regexp.Regexp) Rule {
	return Rule{Code: CodePattern, Check: re.MatchString}
}

func OneOf(values ...string) Rule {
	tag := "oneof=" + strings.Join(values, " ")
	return Rule{
		Code:   CodeInvalidEnum,
		Params: map[string]any{"values": strings.Join(values, ", ")},
		Check:  func(v string) bool { return tags.Var(v, tag) == nil },
	}
}

func Email() Rule {
	return Rule{Code: CodeInvalidEmail, Check: func(v string) bool { return tags.Var(v, "email") == nil }}
}

// Limita a parte antes do primeiro "@". Sem "@" passa; quem reporta é Email.
func LocalPartMax(n int) Rule {
	return Rule{
		Code:   CodeLocalPartTooLong,
		Params: map[string]any{"max": n},
		Check: func(v string) bool {
			at := strings.IndexByte(v, '@')
			if at < 0 {
				return true
			}
			return utf8.RuneCountInString(v[:at]) <= n
		},
	}
}

// Aceita só want; vazio também falha.
func Literal(want string) Rule {
	return Rule{
		Code:   CodeFixedValue,
		Params: map[string]any{"value": want},
		Check:  func(v string) bool { return v == want },
	}
}

// Só ASCII imprimível, com ao menos uma minúscula, uma maiúscula e um dígito.
func PasswordChars() Rule {
	return Rule{Code: CodePattern, Check: func(v string) bool {
		var lower, upper, digit bool
		for i := 0; i < len(v); i++ {
			c := v[i]
			switch {
			case c < '!' || c > '~':
				return false
			case c >= 'a' && c <= 'z':
				lower = true
			case c >= 'A' && c <= 'Z':
				upper = true
			case c >= '0' && c <= '9':
				digit = true
			}
		}
		return lower && upper && digit
	}}
}
