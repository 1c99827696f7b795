package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/licensing/domain"
	provdomain "github.com/leadgrid/leadgrid/internal/provisioning/domain"
	provhttp "github.com/leadgrid/leadgrid/internal/provisioning/http"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestContext builds a gin context with an optional JSON body.
func createTestContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

// testEnvelope mirrors the response envelope with raw data for per-test
// decoding.
type testEnvelope struct {
	OK      bool                `json:"ok"`
	Data    json.RawMessage     `json:"data"`
	Error   *httputil.ErrorBody `json:"error"`
	TraceID string              `json:"trace_id"`
}

func jsonUnmarshal(data json.RawMessage, v any) error {
	return json.Unmarshal(data, v)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var envelope testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return envelope
}

func withDeviceContext(c *gin.Context, device *provdomain.Device) {
	c.Request = c.Request.WithContext(provhttp.WithDevice(c.Request.Context(), device))
}

func testDevice() *provdomain.Device {
	return &provdomain.Device{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  uuid.Must(uuid.NewV7()),
		Name:      "booth-scanner",
		Status:    provdomain.DeviceStatusActive,
		CreatedAt: time.Now().UTC(),
	}
}

// mockLicenseUseCase is a mock implementation of usecase.LicenseUseCase.
type mockLicenseUseCase struct {
	mock.Mock
}

func (m *mockLicenseUseCase) State(ctx context.Context, deviceID uuid.UUID) (*domain.StateView, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StateView), args.Error(1)
}

func (m *mockLicenseUseCase) Entitle(ctx context.Context, deviceID uuid.UUID) (*domain.License, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.License), args.Error(1)
}

func (m *mockLicenseUseCase) Checkout(ctx context.Context, deviceID uuid.UUID, licenseType domain.LicenseType) (string, error) {
	args := m.Called(ctx, deviceID, licenseType)
	return args.String(0), args.Error(1)
}

func (m *mockLicenseUseCase) CreateFromWebhook(ctx context.Context, deviceID uuid.UUID, licenseType domain.LicenseType, reference string) (*domain.License, error) {
	args := m.Called(ctx, deviceID, licenseType, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.License), args.Error(1)
}
