package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
	"radagast/internal/identity"
)

// CreateOrder validates the referenced restaurant, address, and menus in that
// order, short-circuiting on the first failure, then persists the order with
// its items and options atomically. New orders start in pending.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, ident identity.Identity, req dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	userID, err := callerID(ident)
	if err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("order has no items", apperrors.ValidationDetail{
			Field:   "items",
			Message: "at least one item is required",
		})
	}

	restaurant, err := uc.restaurantRepo.FindByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsActive {
		return nil, apperrors.NewValidationError("restaurant is not accepting orders")
	}

	address, err := uc.addressRepo.FindByID(ctx, req.AddressID)
	if err != nil {
		return nil, err
	}
	if address.UserID != userID {
		// A foreign address id is indistinguishable from a missing one.
		return nil, apperrors.NewAddressNotFoundError(fmt.Sprintf("address %s not found", req.AddressID))
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New(),
		UserID:        userID,
		RestaurantID:  req.RestaurantID,
		AddressID:     req.AddressID,
		Status:        domain.StatusPending,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var total int64
	for _, input := range req.Items {
		menu, err := uc.menuRepo.FindByID(ctx, input.MenuID)
		if err != nil {
			return nil, err
		}
		if !menu.IsAvailable {
			return nil, apperrors.NewValidationError(fmt.Sprintf("menu %q is not available", menu.Name))
		}
		if menu.RestaurantID != req.RestaurantID {
			return nil, apperrors.NewValidationError(fmt.Sprintf("menu %q does not belong to the restaurant", menu.Name))
		}

		item := domain.OrderItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			MenuID:       menu.ID,
			RestaurantID: req.RestaurantID,
			Quantity:     input.Quantity,
			Price:        menu.Price,
		}

		unitPrice := menu.Price
		for _, optInput := range input.Options {
			option, err := uc.menuRepo.FindOptionByID(ctx, optInput.MenuOptionID)
			if err != nil {
				return nil, err
			}
			if option.MenuID != menu.ID {
				return nil, apperrors.NewValidationError(fmt.Sprintf("option %q does not belong to menu %q", option.Name, menu.Name))
			}
			item.Options = append(item.Options, domain.OrderItemOption{
				ID:           uuid.New(),
				OrderItemID:  item.ID,
				MenuOptionID: option.ID,
				Price:        option.Price,
			})
			unitPrice += option.Price
		}

		total += unitPrice * int64(input.Quantity)
		order.Items = append(order.Items, item)
	}
	order.TotalPrice = total

	tx, err := uc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := uc.orderRepo.Insert(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	uc.logger.Info("order created",
		zap.String("orderId", order.ID.String()),
		zap.String("userId", userID.String()),
		zap.Int64("totalPrice", order.TotalPrice),
		zap.Int("itemCount", len(order.Items)))

	uc.publishStatusChange(ctx, order.ID, "", order.Status)

	return dto.NewCreateOrderResponse(order), nil
}
