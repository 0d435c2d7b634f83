package domain

import "github.com/google/uuid"

// Referenced entities owned by other services. The order core only reads them
// for existence and availability checks during order creation.

type Restaurant struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	IsDeleted bool
}

type Address struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	IsDeleted bool
}

type Menu struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Price        int64
	IsAvailable  bool
	IsDeleted    bool
}

type MenuOption struct {
	ID        uuid.UUID
	MenuID    uuid.UUID
	Name      string
	Price     int64
	IsDeleted bool
}
