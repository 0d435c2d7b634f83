package usecase

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"radagast/internal/domain"
	"radagast/internal/dto"
	"radagast/internal/messaging"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, filter dto.MyOrdersFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, from, to domain.Status) error
}

type RestaurantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error)
}

type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Address, error)
}

type MenuRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Menu, error)
	FindOptionByID(ctx context.Context, id uuid.UUID) (*domain.MenuOption, error)
}

type EventPublisher interface {
	PublishStatusChange(ctx context.Context, evt messaging.StatusChangedEvent) error
}
