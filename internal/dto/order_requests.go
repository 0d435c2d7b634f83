package dto

import (
	"time"

	"github.com/google/uuid"
)

type OrderItemOptionInput struct {
	MenuOptionID uuid.UUID `json:"menu_option_id" validate:"required"`
}

type OrderItemInput struct {
	MenuID   uuid.UUID              `json:"menu_id" validate:"required"`
	Quantity int                    `json:"quantity" validate:"required,gt=0"`
	Options  []OrderItemOptionInput `json:"options" validate:"dive"`
}

type CreateOrderRequest struct {
	RestaurantID  uuid.UUID        `json:"restaurant_id" validate:"required"`
	AddressID     uuid.UUID        `json:"address_id" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=card cash kakao naver"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	OrderID   uuid.UUID `json:"order_id" validate:"required"`
	NewStatus string    `json:"new_status" validate:"required"`
}

// MyOrdersFilter narrows the own-orders listing. Zero values mean no filter.
type MyOrdersFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}
