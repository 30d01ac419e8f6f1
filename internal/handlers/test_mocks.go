package handlers

import (
	"context"
	"errors"

	"github.com/Werneck0live/company-registration/internal/models"
)

type submitMock struct {
	CreateCompanyFn func(ctx context.Context, p *models.APIPayload) (*models.CreatedCompany, error)
}

func (m *submitMock) CreateCompany(ctx context.Context, p *models.APIPayload) (*models.CreatedCompany, error) {
	if m.CreateCompanyFn == nil {
		return nil, errors.New("CreateCompanyFn not set")
	}
	return m.CreateCompanyFn(ctx, p)
}

type pubMock struct {
	PublishEventFn func(ctx context.Context, ev models.RegistrationEvent) error
	CloseFn        func() error
}

func (p *pubMock) PublishEvent(ctx context.Context, ev models.RegistrationEvent) error {
	if p.PublishEventFn == nil {
		return nil
	}
	return p.PublishEventFn(ctx, ev)
}
func (p *pubMock) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

type lookupMock struct {
	LookupFn func(ctx context.Context, postalCode string) (*models.Address, error)
}

func (m *lookupMock) Lookup(ctx context.Context, postalCode string) (*models.Address, error) {
	if m.LookupFn == nil {
		return nil, errors.New("LookupFn not set")
	}
	return m.LookupFn(ctx, postalCode)
}
