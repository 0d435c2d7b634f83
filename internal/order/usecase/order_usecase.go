// Package usecase orchestrates the order lifecycle against the entity store.
// Each operation runs inside one transaction: begin, work, commit on success,
// rollback on every other path. Domain failures come back as tagged errors;
// anything else is left wrapped and surfaces as the catch-all unknown code at
// the controller boundary.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/identity"
	"radagast/internal/messaging"
)

type OrderUseCase struct {
	db             TransactionManager
	orderRepo      OrderRepository
	restaurantRepo RestaurantRepository
	addressRepo    AddressRepository
	menuRepo       MenuRepository
	publisher      EventPublisher
	logger         *zap.Logger
}

func NewOrderUseCase(
	db TransactionManager,
	orderRepo OrderRepository,
	restaurantRepo RestaurantRepository,
	addressRepo AddressRepository,
	menuRepo MenuRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		db:             db,
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
		addressRepo:    addressRepo,
		menuRepo:       menuRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

func callerID(ident identity.Identity) (uuid.UUID, error) {
	id, err := uuid.Parse(ident.UserID)
	if err != nil {
		return uuid.Nil, apperrors.NewAuthenticationError("invalid caller identity")
	}
	return id, nil
}

// canManage reports whether the caller may act on the order as its owner.
func canManage(ident identity.Identity, order *domain.Order) bool {
	if ident.Role == identity.RoleAdmin {
		return true
	}
	return ident.UserID == order.UserID.String()
}

func roleIn(ident identity.Identity, roles ...string) bool {
	for _, role := range roles {
		if ident.Role == role {
			return true
		}
	}
	return false
}

// publishStatusChange is best effort: a committed transition is not undone
// because the broker is down.
func (uc *OrderUseCase) publishStatusChange(ctx context.Context, orderID uuid.UUID, prev, next domain.Status) {
	evt := messaging.StatusChangedEvent{
		OrderID:    orderID.String(),
		PrevStatus: string(prev),
		NewStatus:  string(next),
		ChangedAt:  time.Now().UTC(),
	}
	if err := uc.publisher.PublishStatusChange(ctx, evt); err != nil {
		uc.logger.Warn("failed to publish status change event",
			zap.String("orderId", orderID.String()),
			zap.String("newStatus", string(next)),
			zap.Error(err))
	}
}

// transition loads the order, applies apply to it, and compare-and-sets the
// new status in one transaction. Cancel, complete, and generic status update
// all funnel through here.
func (uc *OrderUseCase) transition(
	ctx context.Context,
	ident identity.Identity,
	orderID uuid.UUID,
	authorize func(*domain.Order) error,
	apply func(*domain.Order) (domain.Status, error),
) (*domain.Order, domain.Status, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}

	if err := authorize(order); err != nil {
		return nil, "", err
	}

	prev, err := apply(order)
	if err != nil {
		return nil, "", err
	}

	tx, err := uc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("beginning transaction: %w", err)
	}
	// Rollback is a no-op once the transaction committed.
	defer tx.Rollback()

	if err := uc.orderRepo.UpdateStatus(ctx, tx, orderID, prev, order.Status); err != nil {
		return nil, "", err
	}
	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("committing transaction: %w", err)
	}

	uc.logger.Info("order status updated",
		zap.String("orderId", orderID.String()),
		zap.String("prevStatus", string(prev)),
		zap.String("newStatus", string(order.Status)))

	uc.publishStatusChange(ctx, orderID, prev, order.Status)

	return order, prev, nil
}
