package usecase

import (
	"context"

	"github.com/google/uuid"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/identity"
)

// CancelOrder cancels a pending or paid order. Only the order's owner (or an
// admin) may cancel.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CancelOrderResponse, error) {
	order, _, err := uc.transition(ctx, ident, orderID,
		func(order *domain.Order) error {
			if !canManage(ident, order) {
				return apperrors.NewAuthorizationError("only the order owner may cancel it")
			}
			return nil
		},
		func(order *domain.Order) (domain.Status, error) {
			return order.Cancel()
		},
	)
	if err != nil {
		return nil, err
	}

	return &dto.CancelOrderResponse{
		OrderID:     order.ID,
		Status:      string(order.Status),
		CancelledAt: order.UpdatedAt,
	}, nil
}

// CompleteOrder marks a delivering order as delivered. Riders press this in
// the courier app; admins may too.
func (uc *OrderUseCase) CompleteOrder(ctx context.Context, ident identity.Identity, orderID uuid.UUID) (*dto.CompleteOrderResponse, error) {
	order, _, err := uc.transition(ctx, ident, orderID,
		func(order *domain.Order) error {
			if !roleIn(ident, identity.RoleRider, identity.RoleAdmin) {
				return apperrors.NewAuthorizationError("only riders may complete deliveries")
			}
			return nil
		},
		func(order *domain.Order) (domain.Status, error) {
			return order.Complete()
		},
	)
	if err != nil {
		return nil, err
	}

	return &dto.CompleteOrderResponse{
		OrderID:     order.ID,
		Status:      string(order.Status),
		CompletedAt: order.UpdatedAt,
	}, nil
}

// UpdateOrderStatus exposes the full transition table. Restaurant owners
// drive preparing, riders drive delivering; both go through here.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, ident identity.Identity, req dto.UpdateOrderStatusRequest) (*dto.UpdateOrderStatusResponse, error) {
	order, prev, err := uc.transition(ctx, ident, req.OrderID,
		func(order *domain.Order) error {
			if !roleIn(ident, identity.RoleOwner, identity.RoleRider, identity.RoleAdmin) {
				return apperrors.NewAuthorizationError("caller may not update order status")
			}
			return nil
		},
		func(order *domain.Order) (domain.Status, error) {
			return order.Transition(domain.Status(req.NewStatus))
		},
	)
	if err != nil {
		return nil, err
	}

	return &dto.UpdateOrderStatusResponse{
		OrderID:    order.ID,
		PrevStatus: string(prev),
		NewStatus:  string(order.Status),
		UpdatedAt:  order.UpdatedAt,
	}, nil
}
