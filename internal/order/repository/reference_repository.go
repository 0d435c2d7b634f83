package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

// Read-only repositories for entities owned by other services. Order creation
// only checks existence and availability against them.

type MySQLRestaurantRepository struct {
	db *sql.DB
}

func NewMySQLRestaurantRepository(db *sql.DB) *MySQLRestaurantRepository {
	return &MySQLRestaurantRepository{db: db}
}

func (r *MySQLRestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	query := `SELECT uuid, name, is_active, is_deleted FROM restaurants WHERE uuid = ? AND is_deleted = 0`

	var restaurant domain.Restaurant
	var rawID string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &restaurant.Name, &restaurant.IsActive, &restaurant.IsDeleted,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewRestaurantNotFoundError(fmt.Sprintf("restaurant %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying restaurant by id: %w", err)
	}
	if restaurant.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing restaurant id: %w", err)
	}

	return &restaurant, nil
}

type MySQLAddressRepository struct {
	db *sql.DB
}

func NewMySQLAddressRepository(db *sql.DB) *MySQLAddressRepository {
	return &MySQLAddressRepository{db: db}
}

func (r *MySQLAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	query := `SELECT uuid, user_id, is_deleted FROM addresses WHERE uuid = ? AND is_deleted = 0`

	var address domain.Address
	var rawID, rawUserID string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&rawID, &rawUserID, &address.IsDeleted)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewAddressNotFoundError(fmt.Sprintf("address %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying address by id: %w", err)
	}
	if address.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing address id: %w", err)
	}
	if address.UserID, err = uuid.Parse(rawUserID); err != nil {
		return nil, fmt.Errorf("parsing address user id: %w", err)
	}

	return &address, nil
}

type MySQLMenuRepository struct {
	db *sql.DB
}

func NewMySQLMenuRepository(db *sql.DB) *MySQLMenuRepository {
	return &MySQLMenuRepository{db: db}
}

func (r *MySQLMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Menu, error) {
	query := `SELECT uuid, restaurant_id, name, price, is_available, is_deleted FROM menus WHERE uuid = ? AND is_deleted = 0`

	var menu domain.Menu
	var rawID, rawRestaurantID string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &rawRestaurantID, &menu.Name, &menu.Price, &menu.IsAvailable, &menu.IsDeleted,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewMenuNotFoundError(fmt.Sprintf("menu %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu by id: %w", err)
	}
	if menu.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing menu id: %w", err)
	}
	if menu.RestaurantID, err = uuid.Parse(rawRestaurantID); err != nil {
		return nil, fmt.Errorf("parsing menu restaurant id: %w", err)
	}

	return &menu, nil
}

func (r *MySQLMenuRepository) FindOptionByID(ctx context.Context, id uuid.UUID) (*domain.MenuOption, error) {
	query := `SELECT uuid, menu_id, name, price, is_deleted FROM menu_options WHERE uuid = ? AND is_deleted = 0`

	var option domain.MenuOption
	var rawID, rawMenuID string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(
		&rawID, &rawMenuID, &option.Name, &option.Price, &option.IsDeleted,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewMenuNotFoundError(fmt.Sprintf("menu option %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu option by id: %w", err)
	}
	if option.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing menu option id: %w", err)
	}
	if option.MenuID, err = uuid.Parse(rawMenuID); err != nil {
		return nil, fmt.Errorf("parsing menu option menu id: %w", err)
	}

	return &option, nil
}
