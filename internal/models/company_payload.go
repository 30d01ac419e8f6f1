package models

// Endereço no formato da API. AddressLine é omitido quando não há prédio.
type Location struct {
	Prefecture    string  `json:"prefecture"`
	City          string  `json:"city"`
	StreetAddress string  `json:"streetAddress"`
	AddressLine   *string `json:"addressLine,omitempty"`
}

// Mesmo conteúdo de Location, mas embutido no nível raiz do payload.
type FlatLocation Location

// Entrada da operação createCompany.
//
// Só um entre Location e FlatLocation é preenchido, e só um entre Months e
// FiscalYearEndMonth; o formato é decidido pelo mapper.
type APIPayload struct {
	CompanyName     string  `json:"companyName"`
	CompanyNameKana string  `json:"companyNameKana"`
	CompanyCode     string  `json:"companyCode"`
	ContactName     string  `json:"contactName"`
	ContactNameKana string  `json:"contactNameKana"`
	PhoneNumber     *string `json:"phoneNumber,omitempty"`
	PostalCode      string  `json:"postalCode"`

	Location *Location `json:"location,omitempty"`
	*FlatLocation

	Months             *string `json:"months,omitempty"`
	FiscalYearEndMonth *string `json:"fiscalYearEndMonth,omitempty"`

	OwnerLoginEmail    string `json:"ownerLoginEmail"`
	OwnerLoginPassword string `json:"ownerLoginPassword"`

	AppIntegrationEnabled                bool `json:"appIntegrationEnabled"`
	SafetyConfirmationEnabled            bool `json:"safetyConfirmationEnabled"`
	OccupationalDoctorIntegrationEnabled bool `json:"occupationalDoctorIntegrationEnabled"`
	EmployeeChatEnabled                  bool `json:"employeeChatEnabled"`
}

// Endereço retornado pelo lookup de CEP (郵便番号).
type Address struct {
	PostalCode     string `json:"postalCode"`
	PrefectureCode string `json:"prefectureCode"`
	Prefecture     string `json:"prefecture"`
	City           string `json:"city"`
}

// Resultado da criação na API externa.
type CreatedCompany struct {
	ID          string `json:"id"`
	CompanyCode string `json:"companyCode"`
}
