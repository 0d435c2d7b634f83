package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/identity"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, ident identity.Identity, req dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	GetOrderDetail(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.OrderDetailResponse, error)
	GetMyOrders(ctx context.Context, ident identity.Identity, filter dto.MyOrdersFilter) (*dto.MyOrdersResponse, error)
	CancelOrder(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CancelOrderResponse, error)
	CompleteOrder(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CompleteOrderResponse, error)
	UpdateOrderStatus(ctx context.Context, ident identity.Identity, req dto.UpdateOrderStatusRequest) (*dto.UpdateOrderStatusResponse, error)
}

// OrderController translates HTTP into use-case calls. Domain failures go out
// as HTTP 200 with the error envelope; clients branch on the envelope, not
// the status code. Only successful creation differs with a 201.
type OrderController struct {
	useCase  OrderUseCase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase:  useCase,
		validate: validator.New(),
		logger:   logger,
	}
}

func (c *OrderController) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", c.CreateOrder)
		r.Patch("/", c.UpdateOrderStatus)
		// The literal route must be registered so it wins over {order_id}.
		r.Get("/my", c.GetMyOrders)
		r.Get("/{order_id}", c.GetOrderDetail)
		r.Patch("/{order_id}/cancel", c.CancelOrder)
		r.Post("/{order_id}/complete", c.CompleteOrder)
	})
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	ident, ok := identity.FromHeaders(r)
	if !ok {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewAuthenticationError("missing caller identity")))
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewValidationError("request body must be valid JSON")))
		return
	}
	if err := c.validate.Struct(req); err != nil {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(validationError(err)))
		return
	}

	resp, err := c.useCase.CreateOrder(r.Context(), ident, req)
	if err != nil {
		c.logFailure(logger, "create order failed", err)
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	c.writeResult(w, http.StatusCreated, dto.NewSuccessResult(resp))
}

func (c *OrderController) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	ident, ok := identity.FromHeaders(r)
	if !ok {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewAuthenticationError("missing caller identity")))
		return
	}

	orderID, err := orderIDParam(r)
	if err != nil {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	resp, err := c.useCase.GetOrderDetail(r.Context(), ident, orderID)
	if err != nil {
		c.logFailure(logger, "get order detail failed", err)
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	c.writeResult(w, http.StatusOK, dto.NewSuccessResult(resp))
}

func (c *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	ident, ok := identity.FromHeaders(r)
	if !ok {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewAuthenticationError("missing caller identity")))
		return
	}

	filter, err := parseMyOrdersFilter(r)
	if err != nil {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	resp, err := c.useCase.GetMyOrders(r.Context(), ident, filter)
	if err != nil {
		c.logFailure(logger, "list my orders failed", err)
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	c.writeResult(w, http.StatusOK, dto.NewSuccessResult(resp))
}

func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	ident, ok := identity.FromHeaders(r)
	if !ok {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewAuthenticationError("missing caller identity")))
		return
	}

	orderID, err := orderIDParam(r)
	if err != nil {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	resp, err := c.useCase.CancelOrder(r.Context(), ident, orderID)
	if err != nil {
		c.logFailure(logger, "cancel order failed", err)
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	c.writeResult(w, http.StatusOK, dto.NewSuccessResult(resp))
}

func (c *OrderController) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	ident, ok := identity.FromHeaders(r)
	if !ok {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewAuthenticationError("missing caller identity")))
		return
	}

	orderID, err := orderIDParam(r)
	if err != nil {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	resp, err := c.useCase.CompleteOrder(r.Context(), ident, orderID)
	if err != nil {
		c.logFailure(logger, "complete order failed", err)
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	c.writeResult(w, http.StatusOK, dto.NewSuccessResult(resp))
}

func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger(r)

	ident, ok := identity.FromHeaders(r)
	if !ok {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewAuthenticationError("missing caller identity")))
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(apperrors.NewValidationError("request body must be valid JSON")))
		return
	}
	if err := c.validate.Struct(req); err != nil {
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(validationError(err)))
		return
	}

	resp, err := c.useCase.UpdateOrderStatus(r.Context(), ident, req)
	if err != nil {
		c.logFailure(logger, "update order status failed", err)
		c.writeResult(w, http.StatusOK, dto.NewErrorResult(err))
		return
	}

	c.writeResult(w, http.StatusOK, dto.NewSuccessResult(resp))
}

func (c *OrderController) requestLogger(r *http.Request) *zap.Logger {
	return c.logger.With(
		zap.String("traceId", uuid.New().String()),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (c *OrderController) logFailure(logger *zap.Logger, msg string, err error) {
	if _, ok := apperrors.AsError(err); ok {
		logger.Warn(msg, zap.Error(err))
		return
	}
	logger.Error(msg, zap.Error(err))
}

func (c *OrderController) writeResult(w http.ResponseWriter, status int, result dto.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "order_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("invalid order id", apperrors.ValidationDetail{
			Field:   "order_id",
			Message: "order_id must be a valid UUID",
		})
	}
	return id, nil
}

func parseMyOrdersFilter(r *http.Request) (dto.MyOrdersFilter, error) {
	var filter dto.MyOrdersFilter
	q := r.URL.Query()

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid start_date", apperrors.ValidationDetail{
				Field:   "start_date",
				Message: "start_date must be formatted as YYYY-MM-DD",
			})
		}
		filter.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid end_date", apperrors.ValidationDetail{
				Field:   "end_date",
				Message: "end_date must be formatted as YYYY-MM-DD",
			})
		}
		// Inclusive end of day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	filter.Status = q.Get("status")

	return filter, nil
}

func validationError(err error) *apperrors.Error {
	var verrs validator.ValidationErrors
	details := []apperrors.ValidationDetail{}
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, apperrors.ValidationDetail{
				Field:   strings.ToLower(fe.Field()),
				Message: "failed validation on " + fe.Tag(),
			})
		}
	}
	return apperrors.NewValidationError("validation failed", details...)
}
