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
	"github.com/leadgrid/leadgrid/internal/provisioning/domain"
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

func withTenantContext(c *gin.Context, tenant *domain.Tenant) {
	c.Request = c.Request.WithContext(WithTenant(c.Request.Context(), tenant))
}

func withDeviceContext(c *gin.Context, device *domain.Device) {
	c.Request = c.Request.WithContext(WithDevice(c.Request.Context(), device))
}

func testTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "Acme Expo",
		KeyPrefix: "lga_99fe01ab",
		KeyHash:   "argon-hash",
		CreatedAt: time.Now().UTC(),
	}
}

func testDevice(tenantID uuid.UUID) *domain.Device {
	return &domain.Device{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		Name:      "booth-scanner",
		Status:    domain.DeviceStatusActive,
		CreatedAt: time.Now().UTC(),
	}
}

// mockTenantUseCase is a mock implementation of usecase.TenantUseCase.
type mockTenantUseCase struct {
	mock.Mock
}

func (m *mockTenantUseCase) Create(ctx context.Context, name string) (*domain.Tenant, string, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Tenant), args.String(1), args.Error(2)
}

func (m *mockTenantUseCase) Authenticate(ctx context.Context, plainKey string) (*domain.Tenant, error) {
	args := m.Called(ctx, plainKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

// mockDeviceUseCase is a mock implementation of usecase.DeviceUseCase.
type mockDeviceUseCase struct {
	mock.Mock
}

func (m *mockDeviceUseCase) Create(ctx context.Context, input *domain.CreateDeviceInput) (*domain.Device, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

func (m *mockDeviceUseCase) Get(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.DeviceView, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeviceView), args.Error(1)
}

func (m *mockDeviceUseCase) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]*domain.DeviceView, error) {
	args := m.Called(ctx, tenantID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DeviceView), args.Error(1)
}

func (m *mockDeviceUseCase) Delete(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.DeleteDeviceOutput, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeleteDeviceOutput), args.Error(1)
}

func (m *mockDeviceUseCase) Heartbeat(ctx context.Context, deviceID uuid.UUID) (*domain.DeviceView, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeviceView), args.Error(1)
}

// mockTokenUseCase is a mock implementation of usecase.TokenUseCase.
type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) CreateOrReturn(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.CreateTokenOutput, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateTokenOutput), args.Error(1)
}

func (m *mockTokenUseCase) Rotate(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.MintedToken, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MintedToken), args.Error(1)
}

func (m *mockTokenUseCase) Status(ctx context.Context, tenantID, deviceID uuid.UUID) (*domain.TokenMetadata, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenMetadata), args.Error(1)
}

func (m *mockTokenUseCase) DeleteFinished(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// mockClaimUseCase is a mock implementation of usecase.ClaimUseCase.
type mockClaimUseCase struct {
	mock.Mock
}

func (m *mockClaimUseCase) Redeem(ctx context.Context, input *domain.RedeemInput) (*domain.RedeemOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RedeemOutput), args.Error(1)
}

// mockCredentialUseCase is a mock implementation of usecase.CredentialUseCase.
type mockCredentialUseCase struct {
	mock.Mock
}

func (m *mockCredentialUseCase) Issue(ctx context.Context, deviceID uuid.UUID) (*domain.IssuedCredential, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssuedCredential), args.Error(1)
}

func (m *mockCredentialUseCase) Verify(ctx context.Context, plainKey string) (*domain.Device, error) {
	args := m.Called(ctx, plainKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

func (m *mockCredentialUseCase) Revoke(ctx context.Context, deviceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).(int64), args.Error(1)
}
