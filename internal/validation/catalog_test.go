package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCodes = []string{
	CodeRequired, CodeTooShort, CodeTooLong, CodePattern, CodeInvalidEnum,
	CodeInvalidEmail, CodeLocalPartTooLong, CodeFixedValue, CodeFiscalOrder,
	CodeChatDisplayRequired, CodeChatDisplayRequiredWithHealth,
	CodeSafetyConfirmationRequired, CodeDoctorCountRequired, CodeDoctorsRequired,
}

var allMessages = []string{
	"registered", "duplicate_code", "duplicate_email", "submission_failed", "mapping_failed",
	"validation_failed", "validation_passed", "invalid_body", "postal_code_invalid",
	"postal_code_not_found", "lookup_failed",
}

func TestLocales(t *testing.T) {
	assert.Equal(t, []string{"en", "ja"}, Locales())
}

func TestCatalog_Complete(t *testing.T) {
	for _, loc := range Locales() {
		c, err := LoadCatalog(loc)
		require.NoError(t, err, loc)
		assert.Equal(t, loc, c.Locale())

		for _, code := range allCodes {
			assert.Contains(t, c.Codes, code, "%s: code %s", loc, code)
		}
		for _, key := range allMessages {
			assert.NotEqual(t, key, c.Text(key), "%s: message %s", loc, key)
		}
		for _, key := range catalogKeys(PolicyExtended) {
			assert.Contains(t, c.Labels, key, "%s: label %s", loc, key)
		}
	}
}

// Chaves de catálogo da política, incluindo "<lista>.<chave>" dos elementos.
func catalogKeys(p Policy) []string {
	var keys []string
	for _, f := range SchemaFor(p).Fields {
		keys = append(keys, f.Path)
		if f.Items != nil {
			for _, it := range f.Items.Fields {
				keys = append(keys, f.Path+"."+it.Key)
			}
		}
	}
	return keys
}

func TestCatalog_NoUnfilledPlaceholders(t *testing.T) {
	params := map[string]any{"min": 6, "max": 12, "value": "no", "values": "yes, no"}
	for _, loc := range Locales() {
		c := MustCatalog(loc)
		for _, key := range catalogKeys(PolicyExtended) {
			for _, code := range allCodes {
				msg := c.Issue(key, code, params)
				assert.False(t, strings.ContainsAny(msg, "{}"), "%s %s %s: %q", loc, key, code, msg)
			}
		}
	}
}

func TestCatalog_FieldOverride(t *testing.T) {
	c := MustCatalog("ja")
	assert.Equal(t, "メールアドレスは254文字以内で入力してください",
		c.Issue("loginEmail", CodeTooLong, map[string]any{"max": 254}))
	assert.Equal(t, "市区町村は255文字以内で入力してください",
		c.Issue("city", CodeTooLong, map[string]any{"max": 255}))
	assert.Equal(t, "unknown_code", c.Issue("city", "unknown_code", nil))
	assert.Equal(t, "カタカナ、漢字、ひらがな、大文字英字、ハイフンのみで入力してください",
		c.Issue("occupationalDoctors.name", CodePattern, nil))
	assert.Equal(t, "産業医名（カナ）は必須です", c.Issue("occupationalDoctors.nameKana", CodeRequired, nil))
}

func TestLoadCatalog_Unknown(t *testing.T) {
	_, err := LoadCatalog("pt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "en, ja")
}
