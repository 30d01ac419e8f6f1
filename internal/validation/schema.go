package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Werneck0live/company-registration/internal/models"
)

// Revisão das regras de cadastro em vigor.
type Policy string

const (
	// Saúde ocupacional fixa em "no"; integração com app exige a configuração do chat.
	PolicyCurrent Policy = "current"
	// Saúde ocupacional livre (yes/no) com dados dos médicos do trabalho; integração
	// com app exige confirmação de segurança e o chat só é exigido junto com saúde.
	PolicyExtended Policy = "extended"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyCurrent:
		return PolicyCurrent, nil
	case PolicyExtended:
		return PolicyExtended, nil
	default:
		return "", fmt.Errorf("unknown form policy %q", s)
	}
}

// Liga um caminho do formulário às suas regras, em ordem; vale a primeira que falhar.
// Campo opcional em branco pula as regras. Get nulo marca um campo de lista:
// o caminho existe só para refinamentos e Items descreve cada elemento.
type Field struct {
	Path     string
	Get      func(f *models.CompanyForm) *string
	Optional bool
	Rules    []Rule
	Items    *Items
}

// Campos de cada elemento de uma lista. O caminho reportado é
// "<lista>.<índice>.<chave>"; o catálogo usa "<lista>.<chave>".
type Items struct {
	Len    func(f *models.CompanyForm) int
	Fields []ItemField
}

type ItemField struct {
	Key   string
	Get   func(f *models.CompanyForm, i int) *string
	Rules []Rule
}

// Regra entre campos, reportada em Path quando Holds é falso.
type Refinement struct {
	Name  string
	Path  string
	Code  string
	Holds func(f *models.CompanyForm) bool
}

type Schema struct {
	Fields      []Field
	Refinements []Refinement
}

const maxText = 255

// Tabela de regras da política. A ordem dos campos é a ordem dos erros.
func SchemaFor(p Policy) Schema {
	s := Schema{Fields: baseFields()}

	health := Field{
		Path: "occupationalHealthIntegration",
		Get:  func(f *models.CompanyForm) *string { return &f.OccupationalHealthIntegration },
	}
	chat := Field{
		Path:     "employeeChatDisplay",
		Get:      func(f *models.CompanyForm) *string { return &f.EmployeeChatDisplay },
		Optional: true,
		Rules:    []Rule{OneOf(models.Show, models.Hide)},
	}

	switch p {
	case PolicyExtended:
		health.Rules = []Rule{Required(), OneOf(models.Yes, models.No)}
		s.Refinements = []Refinement{
			fiscalOrder,
			{
				Name: "safety_confirmation_with_app",
				Path: "safetyConfirmation",
				Code: CodeSafetyConfirmationRequired,
				Holds: func(f *models.CompanyForm) bool {
					return f.AppIntegration != models.Yes || f.SafetyConfirmation == models.Yes
				},
			},
			{
				Name: "chat_display_with_app_and_health",
				Path: "employeeChatDisplay",
				Code: CodeChatDisplayRequiredWithHealth,
				Holds: func(f *models.CompanyForm) bool {
					if f.AppIntegration == models.Yes && f.OccupationalHealthIntegration == models.Yes {
						return f.EmployeeChatDisplay != ""
					}
					return true
				},
			},
		}
		s.Refinements = append(s.Refinements, doctorRefinements()...)
		s.Fields = append(s.Fields, health)
		s.Fields = append(s.Fields, doctorFields()...)
		s.Fields = append(s.Fields, chat)
		return s
	default:
		health.Rules = []Rule{Literal(models.No)}
		s.Refinements = []Refinement{
			fiscalOrder,
			{
				Name: "chat_display_with_app",
				Path: "employeeChatDisplay",
				Code: CodeChatDisplayRequired,
				Holds: func(f *models.CompanyForm) bool {
					return f.AppIntegration != models.Yes || f.EmployeeChatDisplay != ""
				},
			},
		}
	}

	s.Fields = append(s.Fields, health, chat)
	return s
}

var fiscalOrder = Refinement{
	Name: "fiscal_order",
	Path: "fiscalYearEnd",
	Code: CodeFiscalOrder,
	Holds: func(f *models.CompanyForm) bool {
		start, ok1 := ParseMonth(f.FiscalYearStart)
		end, ok2 := ParseMonth(f.FiscalYearEnd)
		if !ok1 || !ok2 {
			return true
		}
		return end > start
	},
}

// Mês como inteiro base 10. Vazio ou não numérico devolve false (ausente, não zero).
func ParseMonth(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func baseFields() []Field {
	japanese := func(path string, get func(f *models.CompanyForm) *string) Field {
		return Field{Path: path, Get: get, Rules: []Rule{Required(), MaxLen(maxText), Matches(reJapanese)}}
	}
	katakana := func(path string, get func(f *models.CompanyForm) *string) Field {
		return Field{Path: path, Get: get, Rules: []Rule{Required(), MaxLen(maxText), Matches(reKatakana)}}
	}
	digits := func(path string, get func(f *models.CompanyForm) *string) Field {
		return Field{Path: path, Get: get, Rules: []Rule{Required(), MaxLen(maxText), Matches(reDigits)}}
	}

	return []Field{
		japanese("companyName", func(f *models.CompanyForm) *string { return &f.CompanyName }),
		katakana("companyNameKana", func(f *models.CompanyForm) *string { return &f.CompanyNameKana }),
		{
			Path:  "companyCode",
			Get:   func(f *models.CompanyForm) *string { return &f.CompanyCode },
			Rules: []Rule{Required(), MaxLen(maxText), Matches(reCompanyCode)},
		},
		japanese("contactPersonLastName", func(f *models.CompanyForm) *string { return &f.ContactPersonLastName }),
		japanese("contactPersonFirstName", func(f *models.CompanyForm) *string { return &f.ContactPersonFirstName }),
		katakana("contactPersonLastNameKana", func(f *models.CompanyForm) *string { return &f.ContactPersonLastNameKana }),
		katakana("contactPersonFirstNameKana", func(f *models.CompanyForm) *string { return &f.ContactPersonFirstNameKana }),
		digits("phoneNumber", func(f *models.CompanyForm) *string { return &f.PhoneNumber }),
		digits("postalCode", func(f *models.CompanyForm) *string { return &f.PostalCode }),
		{
			Path:  "prefecture",
			Get:   func(f *models.CompanyForm) *string { return &f.Prefecture },
			Rules: []Rule{Required(), Matches(rePrefecture)},
		},
		{
			Path:  "city",
			Get:   func(f *models.CompanyForm) *string { return &f.City },
			Rules: []Rule{Required(), MaxLen(maxText)},
		},
		{
			Path:  "address",
			Get:   func(f *models.CompanyForm) *string { return &f.Address },
			Rules: []Rule{Required(), MaxLen(maxText), Matches(reAddress)},
		},
		{
			Path:     "buildingName",
			Get:      func(f *models.CompanyForm) *string { return &f.BuildingName },
			Optional: true,
			Rules:    []Rule{MaxLen(maxText), Matches(reBuilding)},
		},
		{
			Path:  "fiscalYearStart",
			Get:   func(f *models.CompanyForm) *string { return &f.FiscalYearStart },
			Rules: []Rule{Required()},
		},
		{
			Path:  "fiscalYearEnd",
			Get:   func(f *models.CompanyForm) *string { return &f.FiscalYearEnd },
			Rules: []Rule{Required()},
		},
		{
			Path:  "loginEmail",
			Get:   func(f *models.CompanyForm) *string { return &f.LoginEmail },
			Rules: []Rule{Required(), MaxLen(254), Email(), LocalPartMax(64)},
		},
		{
			Path:  "password",
			Get:   func(f *models.CompanyForm) *string { return &f.Password },
			Rules: []Rule{Required(), MinLen(6), MaxLen(12), PasswordChars()},
		},
		{
			Path:  "appIntegration",
			Get:   func(f *models.CompanyForm) *string { return &f.AppIntegration },
			Rules: []Rule{Required(), OneOf(models.Yes, models.No)},
		},
		{
			Path:  "safetyConfirmation",
			Get:   func(f *models.CompanyForm) *string { return &f.SafetyConfirmation },
			Rules: []Rule{Required(), OneOf(models.Yes, models.No)},
		},
	}
}

// Campos do produto de saúde ocupacional. Ficam opcionais aqui; a obrigatoriedade
// com saúde = yes vem de doctorRefinements.
func doctorFields() []Field {
	doctor := func(key string, get func(d *models.OccupationalDoctor) *string, extra ...Rule) ItemField {
		return ItemField{
			Key:   key,
			Get:   func(f *models.CompanyForm, i int) *string { return get(&f.OccupationalDoctors[i]) },
			Rules: append([]Rule{Required(), MaxLen(maxText)}, extra...),
		}
	}

	return []Field{
		{
			Path:     "occupationalDoctorCount",
			Get:      func(f *models.CompanyForm) *string { return &f.OccupationalDoctorCount },
			Optional: true,
			Rules:    []Rule{MaxLen(maxText), Matches(reDigits)},
		},
		{
			Path: "occupationalDoctors",
			Items: &Items{
				Len: func(f *models.CompanyForm) int { return len(f.OccupationalDoctors) },
				Fields: []ItemField{
					doctor("name", func(d *models.OccupationalDoctor) *string { return &d.Name }, Matches(reBuilding)),
					doctor("nameKana", func(d *models.OccupationalDoctor) *string { return &d.NameKana }, Matches(reKatakana)),
					doctor("phone", func(d *models.OccupationalDoctor) *string { return &d.Phone }, Matches(reDigits)),
					doctor("responsibleOffice", func(d *models.OccupationalDoctor) *string { return &d.ResponsibleOffice }),
					doctor("officeCode", func(d *models.OccupationalDoctor) *string { return &d.OfficeCode }),
				},
			},
		},
		{
			Path:     "doctorLoginEmail",
			Get:      func(f *models.CompanyForm) *string { return &f.DoctorLoginEmail },
			Optional: true,
			Rules:    []Rule{MaxLen(254), Email(), LocalPartMax(64)},
		},
		{
			Path:     "doctorPassword",
			Get:      func(f *models.CompanyForm) *string { return &f.DoctorPassword },
			Optional: true,
			Rules:    []Rule{MinLen(6), MaxLen(12), PasswordChars()},
		},
	}
}

func doctorRefinements() []Refinement {
	withHealth := func(name, path, code string, present func(f *models.CompanyForm) bool) Refinement {
		return Refinement{
			Name: name,
			Path: path,
			Code: code,
			Holds: func(f *models.CompanyForm) bool {
				return f.OccupationalHealthIntegration != models.Yes || present(f)
			},
		}
	}
	return []Refinement{
		withHealth("doctor_count_with_health", "occupationalDoctorCount", CodeDoctorCountRequired,
			func(f *models.CompanyForm) bool { return f.OccupationalDoctorCount != "" }),
		withHealth("doctors_with_health", "occupationalDoctors", CodeDoctorsRequired,
			func(f *models.CompanyForm) bool { return len(f.OccupationalDoctors) > 0 }),
		withHealth("doctor_login_with_health", "doctorLoginEmail", CodeRequired,
			func(f *models.CompanyForm) bool { return f.DoctorLoginEmail != "" }),
		withHealth("doctor_password_with_health", "doctorPassword", CodeRequired,
			func(f *models.CompanyForm) bool { return f.DoctorPassword != "" }),
	}
}
