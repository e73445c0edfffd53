package api

import (
	"errors"
	"time"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
	"BondLens/internal/services/spread"
	"BondLens/internal/usecase"
	xhttp "BondLens/pkg/http"
	xlogger "BondLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ValidationHandler exposes the batch validator and the one-off spread
// endpoints over HTTP.
type ValidationHandler struct {
	logger    *xlogger.Logger
	validator *usecase.BatchValidator
	spreads   *usecase.SpreadService
	provider  domrepo.DataProvider
}

func NewValidationHandler(
	logger *xlogger.Logger,
	validator *usecase.BatchValidator,
	spreads *usecase.SpreadService,
	provider domrepo.DataProvider,
) *ValidationHandler {
	return &ValidationHandler{
		logger:    logger,
		validator: validator,
		spreads:   spreads,
		provider:  provider,
	}
}

func (h *ValidationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/validate", h.Validate)
	g.POST("/validate/date", h.ValidateDate)
	g.GET("/spread", h.Spread)
	g.GET("/price", h.Price)
	g.GET("/health", h.Health)
}

// Validate runs a full batch over a date range.
func (h *ValidationHandler) Validate(c echo.Context) error {
	req := &models.ValidateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return xhttp.BadRequestResponse(c, "invalid start_date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return xhttp.BadRequestResponse(c, "invalid end_date")
	}

	report, err := h.validator.Run(c.Request().Context(), req.Instruments, start, end, req.Groups)
	if err != nil {
		h.logger.Error("batch validation failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("invalid batch request").WithError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

// ValidateDate runs every metric group for one date. With no instrument list
// the provider's whole universe for that date is validated.
func (h *ValidationHandler) ValidateDate(c echo.Context) error {
	req := &models.ValidateDateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	asOf, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return xhttp.BadRequestResponse(c, "invalid date")
	}

	report, err := h.validator.RunSingleDate(c.Request().Context(), asOf, req.Instruments)
	if err != nil {
		h.logger.Error("single-date validation failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

// Spread resolves the workout and computes both spread measures from a price.
func (h *ValidationHandler) Spread(c echo.Context) error {
	req := &models.SpreadRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	asOf, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return xhttp.BadRequestResponse(c, "invalid date")
	}

	ans, err := h.spreads.SpreadFromPrice(c.Request().Context(), req.CUSIP, asOf, req.Price)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		h.logger.Error("spread query failed", xlogger.String("cusip", req.CUSIP), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, ans)
}

// Price inverts a spread back to a clean price.
func (h *ValidationHandler) Price(c echo.Context) error {
	req := &models.PriceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	asOf, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return xhttp.BadRequestResponse(c, "invalid date")
	}

	ans, err := h.spreads.PriceFromSpread(c.Request().Context(), req.CUSIP, asOf, req.Spread, spread.Kind(req.Kind))
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		h.logger.Error("price query failed", xlogger.String("cusip", req.CUSIP), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, ans)
}

// Health reports provider connectivity.
func (h *ValidationHandler) Health(c echo.Context) error {
	if err := h.provider.Health(c.Request().Context()); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("provider unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
