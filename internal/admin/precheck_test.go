package admin

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/company-registration/internal/mapper"
	"github.com/Werneck0live/company-registration/internal/validation"
)

func newValidator() *validation.Validator {
	return validation.New(validation.PolicyCurrent, validation.MustCatalog("ja"))
}

func TestPrecheckForms_Sample(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	sum, err := PrecheckForms(SampleForms, newValidator(), mapper.DefaultOptions(), log)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Accepted: 2, Rejected: 1}, sum)
	assert.False(t, sum.OK())

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"precheck_accepted"`))
	assert.Contains(t, out, `"precheck_rejected"`)
	assert.Contains(t, out, `"company_code":"hokkai-3"`)
	assert.Contains(t, out, `"precheck_done"`)
}

func TestPrecheckForms_Unmappable(t *testing.T) {
	// aceito pelo validador (mês só é obrigatório), mas sem mês numérico
	data := []byte(`[{
		"companyName":"山田商事","companyNameKana":"ヤマダショウジ","companyCode":"ABC-1",
		"contactPersonLastName":"山田","contactPersonFirstName":"太郎",
		"contactPersonLastNameKana":"ヤマダ","contactPersonFirstNameKana":"タロウ",
		"phoneNumber":"0312345678","postalCode":"1000001","prefecture":"13",
		"city":"千代田区","address":"1","fiscalYearStart":"abril","fiscalYearEnd":"9",
		"loginEmail":"a@example.com","password":"Passw0rd",
		"appIntegration":"no","safetyConfirmation":"no",
		"occupationalHealthIntegration":"no","employeeChatDisplay":"hide"
	}]`)

	sum, err := PrecheckForms(data, newValidator(), mapper.DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 1, Unmappable: 1}, sum)
	assert.False(t, sum.OK())
}

func TestPrecheckForms_InvalidJSON(t *testing.T) {
	_, err := PrecheckForms([]byte(`{"not":"an array"}`), newValidator(), mapper.DefaultOptions(), slog.Default())
	assert.Error(t, err)
}
