package dto

import (
	"time"

	"github.com/google/uuid"

	"radagast/internal/domain"
)

type CreateOrderResponse struct {
	OrderID    uuid.UUID `json:"order_id"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderItemOptionResponse struct {
	MenuOptionID uuid.UUID `json:"menu_option_id"`
	Price        int64     `json:"price"`
}

type OrderItemResponse struct {
	MenuID       uuid.UUID                 `json:"menu_id"`
	RestaurantID uuid.UUID                 `json:"restaurant_id"`
	Quantity     int                       `json:"quantity"`
	Price        int64                     `json:"price"`
	Options      []OrderItemOptionResponse `json:"options"`
}

type OrderDetailResponse struct {
	OrderID    uuid.UUID           `json:"order_id"`
	UserID     uuid.UUID           `json:"user_id"`
	AddressID  uuid.UUID           `json:"address_id"`
	TotalPrice int64               `json:"total_price"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Items      []OrderItemResponse `json:"items"`
}

type OrderSummaryResponse struct {
	OrderID    uuid.UUID `json:"order_id"`
	Status     string    `json:"status"`
	TotalPrice int64     `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type MyOrdersResponse struct {
	Orders []OrderSummaryResponse `json:"orders"`
}

type CancelOrderResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Status      string    `json:"status"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type CompleteOrderResponse struct {
	OrderID     uuid.UUID `json:"order_id"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completed_at"`
}

type UpdateOrderStatusResponse struct {
	OrderID    uuid.UUID `json:"order_id"`
	PrevStatus string    `json:"prev_status"`
	NewStatus  string    `json:"new_status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewCreateOrderResponse(order *domain.Order) *CreateOrderResponse {
	return &CreateOrderResponse{
		OrderID:    order.ID,
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
	}
}

func NewOrderDetailResponse(order *domain.Order) *OrderDetailResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		options := make([]OrderItemOptionResponse, len(item.Options))
		for j, opt := range item.Options {
			options[j] = OrderItemOptionResponse{MenuOptionID: opt.MenuOptionID, Price: opt.Price}
		}
		items[i] = OrderItemResponse{
			MenuID:       item.MenuID,
			RestaurantID: item.RestaurantID,
			Quantity:     item.Quantity,
			Price:        item.Price,
			Options:      options,
		}
	}
	return &OrderDetailResponse{
		OrderID:    order.ID,
		UserID:     order.UserID,
		AddressID:  order.AddressID,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
		Items:      items,
	}
}

func NewMyOrdersResponse(orders []domain.Order) *MyOrdersResponse {
	summaries := make([]OrderSummaryResponse, len(orders))
	for i, order := range orders {
		summaries[i] = OrderSummaryResponse{
			OrderID:    order.ID,
			Status:     string(order.Status),
			TotalPrice: order.TotalPrice,
			CreatedAt:  order.CreatedAt,
		}
	}
	return &MyOrdersResponse{Orders: summaries}
}
