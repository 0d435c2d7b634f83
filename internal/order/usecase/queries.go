package usecase

import (
	"context"

	"github.com/google/uuid"

	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/identity"
)

// GetOrderDetail returns the order with its items and options. Only the owner
// or an admin may read it.
func (uc *OrderUseCase) GetOrderDetail(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.OrderDetailResponse, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !canManage(ident, order) {
		return nil, apperrors.NewAuthorizationError("caller does not own this order")
	}

	return dto.NewOrderDetailResponse(order), nil
}

// GetMyOrders lists the caller's own non-deleted orders, newest first. An
// empty list is a success.
func (uc *OrderUseCase) GetMyOrders(ctx context.Context, ident identity.Identity, filter dto.MyOrdersFilter) (*dto.MyOrdersResponse, error) {
	userID, err := callerID(ident)
	if err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewMyOrdersResponse(orders), nil
}
