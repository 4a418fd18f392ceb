// Package store declares the persistence contracts shared by the gorm and mongo backends.
package store

//go:generate mockgen -source=store.go -destination=mock_store.go -package=store

import (
	"context"
	"errors"
	"time"

	"fuelmate-api/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrVersionConflict = errors.New("version conflict")
)

type UserFilter struct {
	Role   models.UserRole
	Status models.UserStatus
}

type OrderFilter struct {
	UserID   string
	DriverID string
	Statuses []models.OrderStatus
}

// OrderPatch is the set of fields a status transition may write; nil pointers are left untouched
type OrderPatch struct {
	Status               models.OrderStatus
	DriverID             *string
	DriverName           *string
	AcceptedBySupplierAt *time.Time
	AssignedToDriverAt   *time.Time
	DeliveredAt          *time.Time
	PaymentStatus        *models.PaymentStatus
}

// Fields flattens the patch into column names shared by both backends
func (p OrderPatch) Fields(version int64, now time.Time) map[string]interface{} {
	f := map[string]interface{}{
		"status":     p.Status,
		"version":    version,
		"updated_at": now,
	}
	if p.DriverID != nil {
		f["driver_id"] = *p.DriverID
	}
	if p.DriverName != nil {
		f["driver_name"] = *p.DriverName
	}
	if p.AcceptedBySupplierAt != nil {
		f["accepted_by_supplier_at"] = *p.AcceptedBySupplierAt
	}
	if p.AssignedToDriverAt != nil {
		f["assigned_to_driver_at"] = *p.AssignedToDriverAt
	}
	if p.DeliveredAt != nil {
		f["delivered_at"] = *p.DeliveredAt
	}
	if p.PaymentStatus != nil {
		f["payment_status"] = *p.PaymentStatus
	}
	return f
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// CompareAndSwap applies patch only if the stored version still equals version,
	// and returns the updated order with its version incremented.
	CompareAndSwap(ctx context.Context, id string, version int64, patch OrderPatch) (*models.Order, error)
	AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
}

// Store bundles the repositories of one backend
type Store interface {
	Users() UserRepository
	Orders() OrderRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
