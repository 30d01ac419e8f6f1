// Package mapper converte o formulário já validado na entrada do createCompany.
// Não faz I/O e nunca altera o formulário.
package mapper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Werneck0live/company-registration/internal/models"
	"github.com/Werneck0live/company-registration/internal/prefecture"
	"github.com/Werneck0live/company-registration/internal/validation"
)

var (
	ErrInvalidFiscalMonths = errors.New("invalid fiscal months")
	ErrFiscalOrder         = errors.New("fiscal year end must be greater than start")
)

type AddressShape string

const (
	AddressNested AddressShape = "nested" // { location: {...} }
	AddressFlat   AddressShape = "flat"
)

type FiscalKey string

const (
	FiscalKeyMonths   FiscalKey = "months"
	FiscalKeyEndMonth FiscalKey = "fiscalYearEndMonth"
)

type Options struct {
	Address   AddressShape
	FiscalKey FiscalKey
	// Entre sobrenome e nome. nil usa um espaço.
	NameSeparator *string
}

func DefaultOptions() Options {
	return Options{Address: AddressNested, FiscalKey: FiscalKeyEndMonth}
}

func ParseAddressShape(s string) (AddressShape, error) {
	switch v := AddressShape(strings.ToLower(strings.TrimSpace(s))); v {
	case "", AddressNested, "location":
		return AddressNested, nil
	case AddressFlat:
		return AddressFlat, nil
	default:
		return "", fmt.Errorf("unknown address shape %q", s)
	}
}

func ParseFiscalKey(s string) (FiscalKey, error) {
	switch v := FiscalKey(strings.TrimSpace(s)); v {
	case "", FiscalKeyEndMonth:
		return FiscalKeyEndMonth, nil
	case FiscalKeyMonths:
		return FiscalKeyMonths, nil
	default:
		return "", fmt.Errorf("unknown fiscal key %q", s)
	}
}

// ToAPIPayload monta o payload no formato escolhido em opts. Só falha quando
// os meses fiscais não são numéricos ou fim <= início. Os dados de médicos do
// trabalho não vão para o payload.
func ToAPIPayload(form models.CompanyForm, opts Options) (*models.APIPayload, error) {
	months, err := FiscalMonths(form.FiscalYearStart, form.FiscalYearEnd)
	if err != nil {
		return nil, err
	}

	sep := " "
	if opts.NameSeparator != nil {
		sep = *opts.NameSeparator
	}

	app := form.AppIntegration == models.Yes
	p := &models.APIPayload{
		CompanyName:     form.CompanyName,
		CompanyNameKana: form.CompanyNameKana,
		CompanyCode:     form.CompanyCode,
		ContactName:     joinName(form.ContactPersonLastName, form.ContactPersonFirstName, sep),
		ContactNameKana: joinName(form.ContactPersonLastNameKana, form.ContactPersonFirstNameKana, sep),
		PhoneNumber:     optional(form.PhoneNumber),
		PostalCode:      form.PostalCode,

		OwnerLoginEmail:    form.LoginEmail,
		OwnerLoginPassword: form.Password,

		AppIntegrationEnabled:                app,
		SafetyConfirmationEnabled:            app && form.SafetyConfirmation == models.Yes,
		OccupationalDoctorIntegrationEnabled: false,
		EmployeeChatEnabled:                  app && form.EmployeeChatDisplay == models.Show,
	}

	loc := models.Location{
		Prefecture:    prefecture.NameOr(form.Prefecture),
		City:          form.City,
		StreetAddress: form.Address,
		AddressLine:   optional(form.BuildingName),
	}
	if opts.Address == AddressFlat {
		flat := models.FlatLocation(loc)
		p.FlatLocation = &flat
	} else {
		p.Location = &loc
	}

	if opts.FiscalKey == FiscalKeyMonths {
		p.Months = &months
	} else {
		p.FiscalYearEndMonth = &months
	}
	return p, nil
}

// FiscalMonths monta "MM-MM" a partir dos meses de início e fim. Os meses não
// são limitados a 1..12; só a ordem é checada.
func FiscalMonths(start, end string) (string, error) {
	s, ok1 := validation.ParseMonth(start)
	e, ok2 := validation.ParseMonth(end)
	if !ok1 || !ok2 {
		return "", fmt.Errorf("%w: start=%q end=%q", ErrInvalidFiscalMonths, start, end)
	}
	if e <= s {
		return "", fmt.Errorf("%w: start=%d end=%d", ErrFiscalOrder, s, e)
	}
	return fmt.Sprintf("%02d-%02d", s, e), nil
}

func joinName(last, first, sep string) string {
	return strings.TrimSpace(strings.TrimSpace(last) + sep + strings.TrimSpace(first))
}

// Branco vira ausente (nil), nunca "".
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
