package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Werneck0live/company-registration/internal/lookup"
	"github.com/Werneck0live/company-registration/internal/mapper"
	"github.com/Werneck0live/company-registration/internal/models"
	"github.com/Werneck0live/company-registration/internal/prefecture"
	"github.com/Werneck0live/company-registration/internal/submit"
	"github.com/Werneck0live/company-registration/internal/utils"
	"github.com/Werneck0live/company-registration/internal/validation"
)

type Submitter interface {
	CreateCompany(ctx context.Context, p *models.APIPayload) (*models.CreatedCompany, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, ev models.RegistrationEvent) error
	Close() error
}

type AddressLookup interface {
	Lookup(ctx context.Context, postalCode string) (*models.Address, error)
}

type CompanyHandler struct {
	Validator *validation.Validator
	Options   mapper.Options
	Submitter Submitter
	Pub       Publisher
	Lookup    AddressLookup
	Log       *slog.Logger
}

func NewCompanyHandler(v *validation.Validator, opts mapper.Options, sub Submitter, pub Publisher, lk AddressLookup, log *slog.Logger) *CompanyHandler {
	return &CompanyHandler{Validator: v, Options: opts, Submitter: sub, Pub: pub, Lookup: lk, Log: log}
}

// Data do envelope de sucesso do 201.
type createdCompany struct {
	ID          string `json:"id"`
	CompanyCode string `json:"companyCode"`
}

func (h *CompanyHandler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	api := e.Group("/api")
	api.POST("/companies/validate", h.ValidateCompany)
	api.POST("/companies", h.CreateCompany)
	api.GET("/postal-codes/:code", h.LookupPostalCode)
	api.GET("/prefectures", h.Prefectures)
}

func (h *CompanyHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CompanyHandler) ValidateCompany(c echo.Context) error {
	var form models.CompanyForm
	if err := c.Bind(&form); err != nil {
		return h.badBody(c, err)
	}
	res := h.Validator.Validate(form)
	if !res.Accepted {
		return h.rejected(c, res)
	}
	return utils.SuccessResponse(c, http.StatusOK, h.Validator.Catalog().Text("validation_passed"), nil)
}

func (h *CompanyHandler) CreateCompany(c echo.Context) error {
	msgs := h.Validator.Catalog()
	reqID := requestID(c)
	log := h.logger().With("request_id", reqID)

	var form models.CompanyForm
	if err := c.Bind(&form); err != nil {
		return h.badBody(c, err)
	}

	res := h.Validator.Validate(form)
	if !res.Accepted {
		log.Info("company_rejected", "company_code", res.Value.CompanyCode, "errors", len(res.Errors))
		return h.rejected(c, res)
	}
	form = res.Value

	payload, err := mapper.ToAPIPayload(form, h.Options)
	if err != nil {
		log.Error("mapping_failed", "company_code", form.CompanyCode, "err", err)
		return utils.ErrorResponse(c, http.StatusInternalServerError, msgs.Text("mapping_failed"), nil)
	}

	ctx := submit.WithRequestID(c.Request().Context(), reqID)
	created, err := h.Submitter.CreateCompany(ctx, payload)

	ev := models.RegistrationEvent{
		CompanyCode: form.CompanyCode,
		CompanyName: form.CompanyName,
		RequestID:   reqID,
	}
	switch {
	case err == nil:
		ev.Action, ev.CompanyID = models.ActionRegistered, created.ID
		h.publish(log, ev)
		log.Info("company_registered", "company_code", form.CompanyCode, "id", created.ID)
		code := created.CompanyCode
		if code == "" {
			code = form.CompanyCode
		}
		return utils.SuccessResponse(c, http.StatusCreated, msgs.Text("registered"), createdCompany{ID: created.ID, CompanyCode: code})

	case errors.Is(err, submit.ErrDuplicateCompanyCode):
		ev.Action, ev.Reason = models.ActionDuplicate, "duplicate_code"
		h.publish(log, ev)
		log.Info("company_duplicate", "company_code", form.CompanyCode)
		msg := msgs.Text("duplicate_code")
		return utils.ErrorResponse(c, http.StatusConflict, msg, validation.Issues{
			{Path: "companyCode", Code: "duplicate_code", Message: msg},
		})

	case errors.Is(err, submit.ErrDuplicateEmail):
		ev.Action, ev.Reason = models.ActionDuplicate, "duplicate_email"
		h.publish(log, ev)
		log.Info("company_duplicate_email", "company_code", form.CompanyCode)
		msg := msgs.Text("duplicate_email")
		return utils.ErrorResponse(c, http.StatusConflict, msg, validation.Issues{
			{Path: "loginEmail", Code: "duplicate_email", Message: msg},
		})

	default:
		ev.Action, ev.Reason = models.ActionFailed, err.Error()
		h.publish(log, ev)
		log.Error("submission_failed", "company_code", form.CompanyCode, "err", err)
		return utils.ErrorResponse(c, http.StatusBadGateway, msgs.Text("submission_failed"), nil)
	}
}

func (h *CompanyHandler) LookupPostalCode(c echo.Context) error {
	msgs := h.Validator.Catalog()
	addr, err := h.Lookup.Lookup(c.Request().Context(), c.Param("code"))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, addr)
	case errors.Is(err, lookup.ErrInvalidPostalCode):
		return utils.ErrorResponse(c, http.StatusBadRequest, msgs.Text("postal_code_invalid"), nil)
	case errors.Is(err, lookup.ErrNotFound):
		return utils.ErrorResponse(c, http.StatusNotFound, msgs.Text("postal_code_not_found"), nil)
	default:
		h.logger().Error("postal_lookup_failed", "code", c.Param("code"), "err", err)
		return utils.ErrorResponse(c, http.StatusBadGateway, msgs.Text("lookup_failed"), nil)
	}
}

func (h *CompanyHandler) Prefectures(c echo.Context) error {
	return c.JSON(http.StatusOK, prefecture.All())
}

func (h *CompanyHandler) rejected(c echo.Context, res validation.Result) error {
	return utils.ErrorResponse(c, http.StatusUnprocessableEntity, h.Validator.Catalog().Text("validation_failed"), res.Errors)
}

func (h *CompanyHandler) badBody(c echo.Context, err error) error {
	detail := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			detail = m
		}
	}
	return utils.ErrorResponse(c, http.StatusBadRequest, h.Validator.Catalog().Text("invalid_body"), detail)
}

// publish não falha a requisição: o evento é informativo.
func (h *CompanyHandler) publish(log *slog.Logger, ev models.RegistrationEvent) {
	if h.Pub == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Pub.PublishEvent(ctx, ev); err != nil {
		log.Warn("event_publish_failed", "action", ev.Action, "err", err)
	}
}

func (h *CompanyHandler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
