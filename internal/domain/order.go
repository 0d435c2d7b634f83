package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "radagast/internal/errors"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions is the source of truth for legal status changes. A status never
// lists itself, so same-status requests are rejected like any other illegal
// move. Delivered and cancelled have no way out.
var transitions = map[Status][]Status{
	StatusPending:    {StatusPreparing, StatusCancelled},
	StatusPaid:       {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

type Order struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	RestaurantID  uuid.UUID
	AddressID     uuid.UUID
	TotalPrice    int64
	Status        Status
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	IsDeleted     bool
	Items         []OrderItem
}

type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	MenuID       uuid.UUID
	RestaurantID uuid.UUID
	Quantity     int
	Price        int64
	Options      []OrderItemOption
}

type OrderItemOption struct {
	ID           uuid.UUID
	OrderItemID  uuid.UUID
	MenuOptionID uuid.UUID
	Price        int64
}

// Transition moves the order to next if the transition table allows it and
// returns the previous status. Unknown statuses fail the same lookup.
func (o *Order) Transition(next Status) (Status, error) {
	prev := o.Status
	if !prev.CanTransitionTo(next) {
		return prev, apperrors.NewStatusTransitionError(string(prev), string(next))
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return prev, nil
}

// Cancel is a guarded entry into the transition table: only pending and paid
// orders may be cancelled.
func (o *Order) Cancel() (Status, error) {
	if o.Status != StatusPending && o.Status != StatusPaid {
		return o.Status, apperrors.NewCancellationError(string(o.Status))
	}
	return o.Transition(StatusCancelled)
}

// Complete marks a delivering order as delivered.
func (o *Order) Complete() (Status, error) {
	if o.Status != StatusDelivering {
		return o.Status, apperrors.NewCompletionError(string(o.Status))
	}
	return o.Transition(StatusDelivered)
}
