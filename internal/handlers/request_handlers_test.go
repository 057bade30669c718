package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"basetrack/internal/common"
	"basetrack/internal/models"
	"basetrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) CreateRequest(ctx context.Context, actor *models.User, itemIDs []string, reqType models.RequestType, targetLocation, targetDate string) (*models.MovementRequest, error) {
	args := m.Called(ctx, actor, itemIDs, reqType, targetLocation, targetDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovementRequest), args.Error(1)
}

func (m *MockRequestService) ProcessRequest(ctx context.Context, actor *models.User, requestID string, approved bool, reason string) (*models.MovementRequest, error) {
	args := m.Called(ctx, actor, requestID, approved, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovementRequest), args.Error(1)
}

func (m *MockRequestService) UpdateItem(ctx context.Context, actor *models.User, item *models.InventoryItem) (*models.MovementRequest, error) {
	args := m.Called(ctx, actor, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovementRequest), args.Error(1)
}

func (m *MockRequestService) GetRequest(ctx context.Context, requestID string) (*models.MovementRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MovementRequest), args.Error(1)
}

func (m *MockRequestService) ListRequests(ctx context.Context) ([]*models.MovementRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MovementRequest), args.Error(1)
}

func processContext(t *testing.T, user *models.User, requestID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/requests/"+requestID+"/process", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(common.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/requests/:id/process")
	c.SetParamNames("id")
	c.SetParamValues(requestID)
	return c, rec
}

func TestProcessRequestRequiresReasonForDamageReports(t *testing.T) {
	mockSvc := &MockRequestService{}
	handlers := NewRequestHandlers(mockSvc, services.NewAccessService(), services.NewFormService(), nil, nil)

	manager := &models.User{ID: uuid.New(), Role: models.RoleBaseManager, Base: "Base 2"}
	request := &models.MovementRequest{ID: "REQ-1", Type: models.RequestRosak, Base: "Base 2", Status: models.RequestPendingManager}
	mockSvc.On("GetRequest", mock.Anything, "REQ-1").Return(request, nil)

	c, rec := processContext(t, manager, "REQ-1", `{"approved":true}`)

	assert.NoError(t, handlers.ProcessRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reason")
	mockSvc.AssertNotCalled(t, "ProcessRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessRequestRejectionNeedsNoReason(t *testing.T) {
	mockSvc := &MockRequestService{}
	handlers := NewRequestHandlers(mockSvc, services.NewAccessService(), services.NewFormService(), nil, nil)

	keeper := &models.User{ID: uuid.New(), Role: models.RoleStorekeeper, Base: "Base 2"}
	request := &models.MovementRequest{ID: "REQ-1", Type: models.RequestRosak, Base: "Base 2", Status: models.RequestPending}
	rejected := &models.MovementRequest{ID: "REQ-1", Type: models.RequestRosak, Base: "Base 2", Status: models.RequestRejected}
	mockSvc.On("GetRequest", mock.Anything, "REQ-1").Return(request, nil)
	mockSvc.On("ProcessRequest", mock.Anything, keeper, "REQ-1", false, "").Return(rejected, nil)

	c, rec := processContext(t, keeper, "REQ-1", `{"approved":false}`)

	assert.NoError(t, handlers.ProcessRequest(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestProcessRequestBlocksOtherBases(t *testing.T) {
	mockSvc := &MockRequestService{}
	handlers := NewRequestHandlers(mockSvc, services.NewAccessService(), services.NewFormService(), nil, nil)

	keeper := &models.User{ID: uuid.New(), Role: models.RoleStorekeeper, Base: "Base 10"}
	request := &models.MovementRequest{ID: "REQ-1", Type: models.RequestBorrow, Base: "Base 2", Status: models.RequestPending}
	mockSvc.On("GetRequest", mock.Anything, "REQ-1").Return(request, nil)

	c, rec := processContext(t, keeper, "REQ-1", `{"approved":true}`)

	assert.NoError(t, handlers.ProcessRequest(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	mockSvc.AssertNotCalled(t, "ProcessRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessRequestMapsEngineErrors(t *testing.T) {
	mockSvc := &MockRequestService{}
	handlers := NewRequestHandlers(mockSvc, services.NewAccessService(), services.NewFormService(), nil, nil)

	keeper := &models.User{ID: uuid.New(), Role: models.RoleStorekeeper, Base: "Base 2"}
	request := &models.MovementRequest{ID: "REQ-1", Type: models.RequestBorrow, Base: "Base 2", Status: models.RequestApproved}
	mockSvc.On("GetRequest", mock.Anything, "REQ-1").Return(request, nil)
	mockSvc.On("ProcessRequest", mock.Anything, keeper, "REQ-1", true, "").Return(request, services.ErrRequestFinal)

	c, rec := processContext(t, keeper, "REQ-1", `{"approved":true}`)

	assert.NoError(t, handlers.ProcessRequest(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	mockSvc.AssertExpectations(t)
}
