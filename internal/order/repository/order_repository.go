package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"radagast/internal/domain"
	"radagast/internal/dto"
	apperrors "radagast/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Insert persists the order together with its items and options inside the
// caller's transaction. Either all rows commit or none do.
func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	orderQuery := `
		INSERT INTO orders (uuid, user_id, restaurant_id, address_id, total_price, status, payment_method, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`
	_, err := tx.ExecContext(ctx, orderQuery,
		order.ID.String(), order.UserID.String(), order.RestaurantID.String(), order.AddressID.String(),
		order.TotalPrice, string(order.Status), order.PaymentMethod, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (uuid, order_id, menu_id, restaurant_id, quantity, price, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
	`
	optionQuery := `
		INSERT INTO order_item_options (uuid, order_item_id, menu_option_id, price, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, 0)
	`
	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx, itemQuery,
			item.ID.String(), order.ID.String(), item.MenuID.String(), item.RestaurantID.String(),
			item.Quantity, item.Price, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
		for _, opt := range item.Options {
			_, err := tx.ExecContext(ctx, optionQuery,
				opt.ID.String(), item.ID.String(), opt.MenuOptionID.String(), opt.Price,
				order.CreatedAt, order.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("inserting order item option: %w", err)
			}
		}
	}

	return nil
}

// FindByID loads the order with its items and options. Soft-deleted orders
// count as absent.
func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT uuid, user_id, restaurant_id, address_id, total_price, status, payment_method, created_at, updated_at, is_deleted
		FROM orders
		WHERE uuid = ? AND is_deleted = 0
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id.String()))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewOrderNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// FindByUserID returns the caller's non-deleted orders, newest first, without
// item rows. An empty result is not an error.
func (r *MySQLOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter dto.MyOrdersFilter) ([]domain.Order, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT uuid, user_id, restaurant_id, address_id, total_price, status, payment_method, created_at, updated_at, is_deleted
		FROM orders
		WHERE user_id = ? AND is_deleted = 0`)
	args := []any{userID.String()}

	if filter.StartDate != nil {
		sb.WriteString(" AND created_at >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND created_at <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Status != "" {
		sb.WriteString(" AND status = ?")
		args = append(args, filter.Status)
	}
	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders by user: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

// UpdateStatus writes the new status only when the row still holds the status
// the transition was decided against. Zero rows affected means either the
// order vanished or a concurrent transition won; both surface as an illegal
// transition rather than a silent lost update.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, from, to domain.Status) error {
	query := `UPDATE orders SET status = ?, updated_at = ? WHERE uuid = ? AND status = ? AND is_deleted = 0`

	result, err := tx.ExecContext(ctx, query, string(to), time.Now().UTC(), id.String(), string(from))
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewStatusTransitionError(string(from), string(to))
	}

	return nil
}

func (r *MySQLOrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	itemQuery := `
		SELECT uuid, order_id, menu_id, restaurant_id, quantity, price
		FROM order_items
		WHERE order_id = ? AND is_deleted = 0
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, itemQuery, order.ID.String())
	if err != nil {
		return fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	itemIndex := make(map[uuid.UUID]int)
	for rows.Next() {
		var item domain.OrderItem
		var id, orderID, menuID, restaurantID string
		if err := rows.Scan(&id, &orderID, &menuID, &restaurantID, &item.Quantity, &item.Price); err != nil {
			return fmt.Errorf("scanning order item row: %w", err)
		}
		if item.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("parsing order item id: %w", err)
		}
		if item.OrderID, err = uuid.Parse(orderID); err != nil {
			return fmt.Errorf("parsing order id: %w", err)
		}
		if item.MenuID, err = uuid.Parse(menuID); err != nil {
			return fmt.Errorf("parsing menu id: %w", err)
		}
		if item.RestaurantID, err = uuid.Parse(restaurantID); err != nil {
			return fmt.Errorf("parsing restaurant id: %w", err)
		}
		itemIndex[item.ID] = len(order.Items)
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating order item rows: %w", err)
	}
	if len(order.Items) == 0 {
		return nil
	}

	optionQuery := `
		SELECT oio.uuid, oio.order_item_id, oio.menu_option_id, oio.price
		FROM order_item_options oio
		JOIN order_items oi ON oi.uuid = oio.order_item_id
		WHERE oi.order_id = ? AND oio.is_deleted = 0
		ORDER BY oio.created_at ASC
	`
	optRows, err := r.db.QueryContext(ctx, optionQuery, order.ID.String())
	if err != nil {
		return fmt.Errorf("querying order item options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt domain.OrderItemOption
		var id, itemID, menuOptionID string
		if err := optRows.Scan(&id, &itemID, &menuOptionID, &opt.Price); err != nil {
			return fmt.Errorf("scanning order item option row: %w", err)
		}
		if opt.ID, err = uuid.Parse(id); err != nil {
			return fmt.Errorf("parsing option id: %w", err)
		}
		if opt.OrderItemID, err = uuid.Parse(itemID); err != nil {
			return fmt.Errorf("parsing option item id: %w", err)
		}
		if opt.MenuOptionID, err = uuid.Parse(menuOptionID); err != nil {
			return fmt.Errorf("parsing menu option id: %w", err)
		}
		if idx, ok := itemIndex[opt.OrderItemID]; ok {
			order.Items[idx].Options = append(order.Items[idx].Options, opt)
		}
	}
	if err := optRows.Err(); err != nil {
		return fmt.Errorf("iterating order item option rows: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var id, userID, restaurantID, addressID, status string
	err := row.Scan(
		&id, &userID, &restaurantID, &addressID,
		&order.TotalPrice, &status, &order.PaymentMethod,
		&order.CreatedAt, &order.UpdatedAt, &order.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	if order.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing order id: %w", err)
	}
	if order.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}
	if order.RestaurantID, err = uuid.Parse(restaurantID); err != nil {
		return nil, fmt.Errorf("parsing restaurant id: %w", err)
	}
	if order.AddressID, err = uuid.Parse(addressID); err != nil {
		return nil, fmt.Errorf("parsing address id: %w", err)
	}
	order.Status = domain.Status(status)
	return &order, nil
}
