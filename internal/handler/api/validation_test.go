package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
	"BondLens/internal/services/tolerance"
	"BondLens/internal/usecase"
	xhttp "BondLens/pkg/http"
	xlogger "BondLens/pkg/logger"
)

type stubProvider struct{}

func (stubProvider) GetBondReference(context.Context, string) (*models.BondReference, error) {
	return nil, domrepo.ErrNotFound
}

func (stubProvider) GetMarketQuote(context.Context, string, time.Time) (*models.MarketQuote, error) {
	return nil, domrepo.ErrNotFound
}

func (stubProvider) GetTreasuryCurve(context.Context, time.Time) (*models.TreasuryCurve, error) {
	return nil, domrepo.ErrNotFound
}

func (stubProvider) GetAnalyticsRow(context.Context, string, time.Time) (*models.AnalyticsRow, error) {
	return nil, domrepo.ErrNotFound
}

func (stubProvider) GetAnalyticsRange(context.Context, string, time.Time, time.Time) ([]models.AnalyticsRow, error) {
	return nil, nil
}

func (stubProvider) GetBondUniverse(context.Context, time.Time) ([]string, error) { return nil, nil }
func (stubProvider) Health(context.Context) error                                 { return nil }
func (stubProvider) Close() error                                                 { return nil }

type stubMetrics struct{}

func (stubMetrics) RecordCell(string)                     {}
func (stubMetrics) RecordValidation(string, bool)         {}
func (stubMetrics) RecordBatchDuration(float64)           {}
func (stubMetrics) RecordSuccessRate(float64)             {}
func (stubMetrics) RecordProviderLatency(string, float64) {}

func newTestHandler(t *testing.T) *ValidationHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	v := usecase.NewBatchValidator(stubProvider{}, tolerance.NewEngine(nil), stubMetrics{}, l, nil, nil, true, 1)
	return NewValidationHandler(l, v, nil, stubProvider{})
}

func postValidate(t *testing.T, h *ValidationHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Validate(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestValidateInvertedRangeIsTypedBadRequest(t *testing.T) {
	h := newTestHandler(t)
	rec := postValidate(t, h, `{"instruments":["AAA"],"start_date":"2025-06-09","end_date":"2025-06-02"}`)
	body := rec.Body.String()
	if !strings.Contains(body, "ERR_BAD_REQUEST") {
		t.Fatalf("expected typed bad request error, got %s", body)
	}
	if !strings.Contains(body, "invalid batch request") {
		t.Fatalf("expected handler message, got %s", body)
	}
}

func TestValidateRejectsUnknownGroupAtBoundary(t *testing.T) {
	h := newTestHandler(t)
	rec := postValidate(t, h, `{"instruments":["AAA"],"start_date":"2025-06-02","end_date":"2025-06-02","groups":["bogus"]}`)
	if !strings.Contains(rec.Body.String(), "ERR_ONEOF") {
		t.Fatalf("expected oneof validation error, got %s", rec.Body.String())
	}
}

func TestBadRequestErrorKeepsCause(t *testing.T) {
	cause := errors.New("end before start")
	err := xhttp.BadRequestError("invalid batch request").WithError(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause lost from %v", err)
	}
}
