package validation

import (
	"fmt"
	"strings"

	"github.com/Werneck0live/company-registration/internal/models"
)

// Códigos de erro. O código é o contrato estável; o texto vem do catálogo.
const (
	CodeRequired                      = "required"
	CodeTooShort                      = "too_short"
	CodeTooLong                       = "too_long"
	CodePattern                       = "pattern"
	CodeInvalidEnum                   = "invalid_enum"
	CodeInvalidEmail                  = "invalid_email"
	CodeLocalPartTooLong              = "local_part_too_long"
	CodeFixedValue                    = "fixed_value"
	CodeFiscalOrder                   = "fiscal_order"
	CodeChatDisplayRequired           = "chat_display_required"
	CodeChatDisplayRequiredWithHealth = "chat_display_required_with_health"
	CodeSafetyConfirmationRequired    = "safety_confirmation_required"
	CodeDoctorCountRequired           = "doctor_count_required"
	CodeDoctorsRequired               = "doctors_required"
)

type Issue struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

type Issues []Issue

func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, it := range iss {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	return b.String()
}

// Erro reportado em path, se houver.
func (iss Issues) Get(path string) (Issue, bool) {
	for _, it := range iss {
		if it.Path == path {
			return it, true
		}
	}
	return Issue{}, false
}

// Resultado da validação. Value guarda o formulário normalizado e só serve
// para o mapeamento quando Accepted é true.
type Result struct {
	Accepted bool               `json:"accepted"`
	Errors   Issues             `json:"errors,omitempty"`
	Value    models.CompanyForm `json:"-"`
}
