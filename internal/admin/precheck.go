package admin

import (
	_ "embed"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/Werneck0live/company-registration/internal/mapper"
	"github.com/Werneck0live/company-registration/internal/models"
	"github.com/Werneck0live/company-registration/internal/validation"
)

//go:embed seeds/forms.json
var SampleForms []byte

type Summary struct {
	Total    int
	Accepted int
	Rejected int
	// falhas de mapeamento em formulários aceitos
	Unmappable int
}

// OK indica que todos os formulários passaram na validação e no mapeamento.
func (s Summary) OK() bool { return s.Rejected == 0 && s.Unmappable == 0 }

// PrecheckForms valida e mapeia cada formulário do array JSON, sem enviar nada.
// Loga uma linha por formulário e um resumo no final.
func PrecheckForms(data []byte, v *validation.Validator, opts mapper.Options, log *slog.Logger) (Summary, error) {
	var forms []models.CompanyForm
	if err := json.Unmarshal(data, &forms); err != nil {
		return Summary{}, err
	}

	sum := Summary{Total: len(forms)}
	for i, f := range forms {
		res := v.Validate(f)
		if !res.Accepted {
			sum.Rejected++
			log.Warn("precheck_rejected", "index", i, "company_code", res.Value.CompanyCode, "errors", res.Errors.Error())
			continue
		}
		p, err := mapper.ToAPIPayload(res.Value, opts)
		if err != nil {
			sum.Unmappable++
			log.Error("precheck_unmappable", "index", i, "company_code", res.Value.CompanyCode, "err", err)
			continue
		}
		sum.Accepted++
		log.Info("precheck_accepted", "index", i, "company_code", p.CompanyCode, "contact", p.ContactName)
	}

	log.Info("precheck_done", "total", sum.Total, "accepted", sum.Accepted, "rejected", sum.Rejected, "unmappable", sum.Unmappable)
	return sum, nil
}
