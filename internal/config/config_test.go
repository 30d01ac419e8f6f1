package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Werneck0live/company-registration/internal/mapper"
	"github.com/Werneck0live/company-registration/internal/validation"
)

var apiVars = []string{
	"PORT", "API_PORT", "LOG_LEVEL", "FORM_LOCALE", "FORM_POLICY",
	"PAYLOAD_ADDRESS_SHAPE", "PAYLOAD_FISCAL_KEY", "SUBMIT_TRANSPORT",
	"SUBMIT_TIMEOUT", "RABBITMQ_URL", "RABBIT_URI", "RABBITMQ_QUEUE", "RABBIT_QUEUE",
}

// clearEnv zera as variáveis para o teste não depender do ambiente da máquina.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range apiVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, "ja", c.Locale)
	assert.Equal(t, validation.PolicyCurrent, c.FormPolicy)
	assert.Equal(t, mapper.AddressNested, c.Payload.Address)
	assert.Equal(t, mapper.FiscalKeyEndMonth, c.Payload.FiscalKey)
	assert.Equal(t, TransportGraphQL, c.SubmitTransport)
	assert.Equal(t, 10*time.Second, c.SubmitTimeout)
	assert.Equal(t, "company_registrations", c.RabbitQueue)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("FORM_POLICY", "extended")
	t.Setenv("PAYLOAD_ADDRESS_SHAPE", "flat")
	t.Setenv("PAYLOAD_FISCAL_KEY", "months")
	t.Setenv("CONTACT_NAME_SEPARATOR", "")
	t.Setenv("SUBMIT_TRANSPORT", "NATS")
	t.Setenv("SUBMIT_TIMEOUT", "3s")
	t.Setenv("RABBIT_URI", "amqp://u:p@rabbit:5672/")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.Equal(t, validation.PolicyExtended, c.FormPolicy)
	assert.Equal(t, mapper.AddressFlat, c.Payload.Address)
	assert.Equal(t, mapper.FiscalKeyMonths, c.Payload.FiscalKey)
	require.NotNil(t, c.Payload.NameSeparator)
	assert.Equal(t, "", *c.Payload.NameSeparator)
	assert.Equal(t, TransportNATS, c.SubmitTransport)
	assert.Equal(t, 3*time.Second, c.SubmitTimeout)
	assert.Equal(t, "amqp://u:p@rabbit:5672/", c.RabbitURI)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"FORM_POLICY":           "legacy",
		"PAYLOAD_ADDRESS_SHAPE": "tree",
		"PAYLOAD_FISCAL_KEY":    "period",
		"SUBMIT_TRANSPORT":      "smtp",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadWSConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("WS_PREFETCH", "abc") // inválido -> padrão

	c := LoadWSConfig()
	assert.Equal(t, ":8090", c.Addr)
	assert.Equal(t, 50, c.ConsumerPrefetch)
	assert.Equal(t, "company_registrations", c.RabbitQueue)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
