package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/identity"
)

type mockUseCase struct {
	CreateOrderFunc       func(ctx context.Context, ident identity.Identity, req dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	GetOrderDetailFunc    func(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.OrderDetailResponse, error)
	GetMyOrdersFunc       func(ctx context.Context, ident identity.Identity, filter dto.MyOrdersFilter) (*dto.MyOrdersResponse, error)
	CancelOrderFunc       func(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CancelOrderResponse, error)
	CompleteOrderFunc     func(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CompleteOrderResponse, error)
	UpdateOrderStatusFunc func(ctx context.Context, ident identity.Identity, req dto.UpdateOrderStatusRequest) (*dto.UpdateOrderStatusResponse, error)
}

func (m *mockUseCase) CreateOrder(ctx context.Context, ident identity.Identity, req dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	return m.CreateOrderFunc(ctx, ident, req)
}

func (m *mockUseCase) GetOrderDetail(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.OrderDetailResponse, error) {
	return m.GetOrderDetailFunc(ctx, ident, orderID)
}

func (m *mockUseCase) GetMyOrders(ctx context.Context, ident identity.Identity, filter dto.MyOrdersFilter) (*dto.MyOrdersResponse, error) {
	return m.GetMyOrdersFunc(ctx, ident, filter)
}

func (m *mockUseCase) CancelOrder(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CancelOrderResponse, error) {
	return m.CancelOrderFunc(ctx, ident, orderID)
}

func (m *mockUseCase) CompleteOrder(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CompleteOrderResponse, error) {
	return m.CompleteOrderFunc(ctx, ident, orderID)
}

func (m *mockUseCase) UpdateOrderStatus(ctx context.Context, ident identity.Identity, req dto.UpdateOrderStatusRequest) (*dto.UpdateOrderStatusResponse, error) {
	return m.UpdateOrderStatusFunc(ctx, ident, req)
}

func newTestServer(t *testing.T, uc *mockUseCase) *httptest.Server {
	ctrl := NewOrderController(uc, zap.NewNop())
	srv := httptest.NewServer(NewRouter(ctrl, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path string, body any, withIdentity bool) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	if withIdentity {
		req.Header.Set(identity.HeaderUserID, uuid.NewString())
		req.Header.Set(identity.HeaderUserRole, identity.RoleCustomer)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) dto.Result {
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var result dto.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func validCreateBody() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		RestaurantID:  uuid.New(),
		AddressID:     uuid.New(),
		PaymentMethod: "card",
		Items:         []dto.OrderItemInput{{MenuID: uuid.New(), Quantity: 1}},
	}
}

func TestCreateOrder_Created(t *testing.T) {
	orderID := uuid.New()
	uc := &mockUseCase{
		CreateOrderFunc: func(_ context.Context, ident identity.Identity, req dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
			assert.Equal(t, identity.RoleCustomer, ident.Role)
			return &dto.CreateOrderResponse{
				OrderID: orderID, Status: "pending", TotalPrice: 15000, CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/rest/orders", validCreateBody(), true)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	result := decodeResult(t, resp)
	require.Nil(t, result.Error)
	data := result.Data.(map[string]any)
	assert.Equal(t, orderID.String(), data["order_id"])
	assert.Equal(t, "pending", data["status"])
}

func TestCreateOrder_MissingIdentity(t *testing.T) {
	srv := newTestServer(t, &mockUseCase{})

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/rest/orders", validCreateBody(), false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E400", result.Error.Code)
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, &mockUseCase{})

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/rest/orders", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set(identity.HeaderUserID, uuid.NewString())

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E103", result.Error.Code)
}

func TestCreateOrder_ValidatorRejectsBadPaymentMethod(t *testing.T) {
	srv := newTestServer(t, &mockUseCase{})

	body := validCreateBody()
	body.PaymentMethod = "crypto"

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/rest/orders", body, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E103", result.Error.Code)
	require.NotEmpty(t, result.Error.Details)
	assert.Equal(t, "paymentmethod", result.Error.Details[0].Field)
}

func TestCreateOrder_DomainErrorKeepsHTTP200(t *testing.T) {
	uc := &mockUseCase{
		CreateOrderFunc: func(_ context.Context, _ identity.Identity, _ dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
			return nil, apperrors.NewRestaurantNotFoundError("restaurant not found")
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/rest/orders", validCreateBody(), true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E106", result.Error.Code)
	assert.Equal(t, "RestaurantNotFoundException", result.Error.Name)
}

func TestCreateOrder_UnknownErrorMapsToCatchAll(t *testing.T) {
	uc := &mockUseCase{
		CreateOrderFunc: func(_ context.Context, _ identity.Identity, _ dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
			return nil, errors.New("driver: bad connection")
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/rest/orders", validCreateBody(), true)
	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E999", result.Error.Code)
	assert.Equal(t, "UnknownException", result.Error.Name)
	assert.NotContains(t, result.Error.Message, "driver", "internal detail must not leak")
}

func TestGetOrderDetail(t *testing.T) {
	orderID := uuid.New()
	uc := &mockUseCase{
		GetOrderDetailFunc: func(_ context.Context, _ identity.Identity, id uuid.UUID) (*dto.OrderDetailResponse, error) {
			assert.Equal(t, orderID, id)
			return &dto.OrderDetailResponse{OrderID: id, Status: "preparing"}, nil
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/rest/orders/"+orderID.String(), nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.Nil(t, result.Error)
	data := result.Data.(map[string]any)
	assert.Equal(t, "preparing", data["status"])
}

func TestGetOrderDetail_InvalidID(t *testing.T) {
	srv := newTestServer(t, &mockUseCase{})

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/rest/orders/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E103", result.Error.Code)
	require.Len(t, result.Error.Details, 1)
	assert.Equal(t, "order_id", result.Error.Details[0].Field)
}

// /orders/my must hit the listing handler, never resolve as order_id "my".
func TestGetMyOrders_RouteNotShadowed(t *testing.T) {
	called := false
	uc := &mockUseCase{
		GetMyOrdersFunc: func(_ context.Context, _ identity.Identity, _ dto.MyOrdersFilter) (*dto.MyOrdersResponse, error) {
			called = true
			return &dto.MyOrdersResponse{Orders: []dto.OrderSummaryResponse{}}, nil
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/rest/orders/my", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, called)

	result := decodeResult(t, resp)
	assert.Nil(t, result.Error)
}

func TestGetMyOrders_FilterParsing(t *testing.T) {
	var got dto.MyOrdersFilter
	uc := &mockUseCase{
		GetMyOrdersFunc: func(_ context.Context, _ identity.Identity, filter dto.MyOrdersFilter) (*dto.MyOrdersResponse, error) {
			got = filter
			return &dto.MyOrdersResponse{}, nil
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodGet,
		"/api/v1/rest/orders/my?start_date=2025-06-01&end_date=2025-06-30&status=delivered", nil, true)
	decodeResult(t, resp)

	require.NotNil(t, got.StartDate)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, time.Date(2025, 6, 30, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), *got.EndDate)
	assert.Equal(t, "delivered", got.Status)
}

func TestGetMyOrders_BadDate(t *testing.T) {
	srv := newTestServer(t, &mockUseCase{})

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/rest/orders/my?start_date=June-1st", nil, true)
	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E103", result.Error.Code)
}

func TestCancelOrder(t *testing.T) {
	orderID := uuid.New()
	uc := &mockUseCase{
		CancelOrderFunc: func(_ context.Context, _ identity.Identity, id uuid.UUID) (*dto.CancelOrderResponse, error) {
			return &dto.CancelOrderResponse{OrderID: id, Status: "cancelled", CancelledAt: time.Now().UTC()}, nil
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPatch, "/api/v1/rest/orders/"+orderID.String()+"/cancel", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.Nil(t, result.Error)
	data := result.Data.(map[string]any)
	assert.Equal(t, "cancelled", data["status"])
}

func TestCancelOrder_TerminalStateError(t *testing.T) {
	uc := &mockUseCase{
		CancelOrderFunc: func(_ context.Context, _ identity.Identity, _ uuid.UUID) (*dto.CancelOrderResponse, error) {
			return nil, apperrors.NewCancellationError("delivered")
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPatch, "/api/v1/rest/orders/"+uuid.NewString()+"/cancel", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E110", result.Error.Code)
}

func TestCompleteOrder(t *testing.T) {
	orderID := uuid.New()
	uc := &mockUseCase{
		CompleteOrderFunc: func(_ context.Context, _ identity.Identity, id uuid.UUID) (*dto.CompleteOrderResponse, error) {
			return &dto.CompleteOrderResponse{OrderID: id, Status: "delivered", CompletedAt: time.Now().UTC()}, nil
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/rest/orders/"+orderID.String()+"/complete", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.Nil(t, result.Error)
}

func TestUpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()
	uc := &mockUseCase{
		UpdateOrderStatusFunc: func(_ context.Context, _ identity.Identity, req dto.UpdateOrderStatusRequest) (*dto.UpdateOrderStatusResponse, error) {
			assert.Equal(t, orderID, req.OrderID)
			return &dto.UpdateOrderStatusResponse{
				OrderID: req.OrderID, PrevStatus: "pending", NewStatus: req.NewStatus, UpdatedAt: time.Now().UTC(),
			}, nil
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPatch, "/api/v1/rest/orders", dto.UpdateOrderStatusRequest{
		OrderID:   orderID,
		NewStatus: "preparing",
	}, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.Nil(t, result.Error)
	data := result.Data.(map[string]any)
	assert.Equal(t, "pending", data["prev_status"])
	assert.Equal(t, "preparing", data["new_status"])
}

func TestUpdateOrderStatus_IllegalTransition(t *testing.T) {
	uc := &mockUseCase{
		UpdateOrderStatusFunc: func(_ context.Context, _ identity.Identity, _ dto.UpdateOrderStatusRequest) (*dto.UpdateOrderStatusResponse, error) {
			return nil, apperrors.NewStatusTransitionError("pending", "delivering")
		},
	}
	srv := newTestServer(t, uc)

	resp := doRequest(t, srv, http.MethodPatch, "/api/v1/rest/orders", dto.UpdateOrderStatusRequest{
		OrderID:   uuid.New(),
		NewStatus: "delivering",
	}, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	require.NotNil(t, result.Error)
	assert.Equal(t, "PTCM-E102", result.Error.Code)
	assert.Equal(t, "OrderStatusException", result.Error.Name)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockUseCase{})

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "order", body["service"])
}
