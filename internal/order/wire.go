package order

import (
	"database/sql"

	"go.uber.org/zap"

	"radagast/internal/order/controller"
	"radagast/internal/order/repository"
	"radagast/internal/order/usecase"
)

func NewModule(db *sql.DB, publisher usecase.EventPublisher, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	restaurantRepo := repository.NewMySQLRestaurantRepository(db)
	addressRepo := repository.NewMySQLAddressRepository(db)
	menuRepo := repository.NewMySQLMenuRepository(db)

	uc := usecase.NewOrderUseCase(
		db,
		orderRepo,
		restaurantRepo,
		addressRepo,
		menuRepo,
		publisher,
		logger,
	)

	return controller.NewOrderController(uc, logger)
}
