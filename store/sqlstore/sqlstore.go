package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuelmate-api/models"
	"fuelmate-api/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store serves users and orders from a gorm connection (sqlite or postgres)
type Store struct {
	db     *gorm.DB
	users  *UserRepository
	orders *OrderRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:     db,
		users:  &UserRepository{DB: db},
		orders: &OrderRepository{DB: db},
	}
}

func (s *Store) Users() store.UserRepository   { return s.users }
func (s *Store) Orders() store.OrderRepository { return s.orders }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	}
	return err
}

// ── Users ───────────────────────────────────────────────────────────────────

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return translate(r.DB.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, filter store.UserFilter) ([]models.User, error) {
	query := r.DB.WithContext(ctx)
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var users []models.User
	if err := query.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":            user.Name,
		"phone":           user.Phone,
		"status":          user.Status,
		"status_note":     user.StatusNote,
		"license_number":  user.LicenseNumber,
		"vehicle_number":  user.VehicleNumber,
		"vehicle_type":    user.VehicleType,
		"address":         user.Address,
		"city":            user.City,
		"state":           user.State,
		"profile_picture": user.ProfilePicture,
		"updated_at":      time.Now(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ── Orders ──────────────────────────────────────────────────────────────────

type OrderRepository struct {
	DB *gorm.DB
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Version == 0 {
		order.Version = 1
	}
	return translate(r.DB.WithContext(ctx).Create(order).Error)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := r.DB.WithContext(ctx)
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.DriverID != "" {
		query = query.Where("driver_id = ?", filter.DriverID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) CompareAndSwap(ctx context.Context, id string, version int64, patch store.OrderPatch) (*models.Order, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(patch.Fields(version+1, time.Now()))
	if res.Error != nil {
		return nil, fmt.Errorf("update order %s: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		// Either the order is gone or someone else bumped the version first
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, store.ErrVersionConflict
	}
	return r.FindByID(ctx, id)
}

func (r *OrderRepository) AppendHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return translate(r.DB.WithContext(ctx).Create(entry).Error)
}

func (r *OrderRepository) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
