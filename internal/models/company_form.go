package models

// Estado bruto do formulário de cadastro, como enviado pelo cliente.
// Todos os campos são texto; a normalização (trim/NFC) fica com o validador.
type CompanyForm struct {
	CompanyName     string `json:"companyName"`
	CompanyNameKana string `json:"companyNameKana"`
	CompanyCode     string `json:"companyCode"`

	ContactPersonLastName      string `json:"contactPersonLastName"`
	ContactPersonFirstName     string `json:"contactPersonFirstName"`
	ContactPersonLastNameKana  string `json:"contactPersonLastNameKana"`
	ContactPersonFirstNameKana string `json:"contactPersonFirstNameKana"`

	PhoneNumber  string `json:"phoneNumber"`
	PostalCode   string `json:"postalCode"`
	Prefecture   string `json:"prefecture"` // código JIS (01-47)
	City         string `json:"city"`
	Address      string `json:"address"`
	BuildingName string `json:"buildingName"`

	FiscalYearStart string `json:"fiscalYearStart"`
	FiscalYearEnd   string `json:"fiscalYearEnd"`

	LoginEmail string `json:"loginEmail"`
	Password   string `json:"password"`

	AppIntegration                string `json:"appIntegration"`                // yes|no
	SafetyConfirmation            string `json:"safetyConfirmation"`            // yes|no
	OccupationalHealthIntegration string `json:"occupationalHealthIntegration"` // yes|no; "no" fixo na política current
	EmployeeChatDisplay           string `json:"employeeChatDisplay"`           // show|hide

	// Dados do produto de saúde ocupacional. Só a política extended os valida.
	OccupationalDoctorCount string               `json:"occupationalDoctorCount,omitempty"`
	OccupationalDoctors     []OccupationalDoctor `json:"occupationalDoctors,omitempty"`
	DoctorLoginEmail        string               `json:"doctorLoginEmail,omitempty"`
	DoctorPassword          string               `json:"doctorPassword,omitempty"`
}

type OccupationalDoctor struct {
	Name              string `json:"name"`
	NameKana          string `json:"nameKana"`
	Phone             string `json:"phone"`
	ResponsibleOffice string `json:"responsibleOffice"`
	OfficeCode        string `json:"officeCode"`
}

const (
	Yes  = "yes"
	No   = "no"
	Show = "show"
	Hide = "hide"
)

// Valores iniciais do formulário vazio.
func DefaultCompanyForm() CompanyForm {
	return CompanyForm{
		AppIntegration:                No,
		SafetyConfirmation:            No,
		OccupationalHealthIntegration: No,
		EmployeeChatDisplay:           Hide,
	}
}
