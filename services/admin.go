package services

import (
	"context"
	"fmt"
	"strings"

	"fuelmate-api/models"
	"fuelmate-api/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AdminOrderFilter struct {
	Status   string
	UserID   string
	DriverID string
}

// OrderReport is the admin order listing with per-status counts and delivered revenue
type OrderReport struct {
	Count        int                        `json:"count"`
	OrderSummary map[models.OrderStatus]int `json:"orderSummary"`
	TotalRevenue float64                    `json:"totalRevenue"`
	Orders       []models.Order             `json:"orders"`
}

type AdminService struct {
	users  store.UserRepository
	orders store.OrderRepository
	log    *zap.Logger
}

func NewAdminService(users store.UserRepository, orders store.OrderRepository, log *zap.Logger) *AdminService {
	return &AdminService{users: users, orders: orders, log: log}
}

func (s *AdminService) ListOrders(ctx context.Context, f AdminOrderFilter) (*OrderReport, error) {
	filter := store.OrderFilter{UserID: f.UserID, DriverID: f.DriverID}
	if f.Status != "" {
		status, err := parseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		filter.Statuses = []models.OrderStatus{status}
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}

	report := &OrderReport{
		Count:        len(orders),
		OrderSummary: make(map[models.OrderStatus]int, len(models.AllStatuses)),
		Orders:       orders,
	}
	for _, st := range models.AllStatuses {
		report.OrderSummary[st] = 0
	}
	revenue := decimal.Zero
	for _, o := range orders {
		report.OrderSummary[o.Status]++
		if o.Status == models.StatusDelivered {
			revenue = revenue.Add(decimal.NewFromFloat(o.TotalAmount))
		}
	}
	report.TotalRevenue = revenue.Round(2).InexactFloat64()
	return report, nil
}

func (s *AdminService) ListUsers(ctx context.Context, role, status string) ([]models.User, error) {
	filter := store.UserFilter{
		Role:   models.UserRole(strings.TrimSpace(role)),
		Status: models.UserStatus(strings.TrimSpace(status)),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *AdminService) ListPendingDrivers(ctx context.Context) ([]models.User, error) {
	return s.ListUsers(ctx, string(models.RoleDriver), string(models.UserPending))
}

func (s *AdminService) ApproveDriver(ctx context.Context, admin *models.User, id string) (*models.User, error) {
	return s.setDriverStatus(ctx, admin, id, models.UserApproved, "")
}

func (s *AdminService) RejectDriver(ctx context.Context, admin *models.User, id, reason string) (*models.User, error) {
	return s.setDriverStatus(ctx, admin, id, models.UserRejected, strings.TrimSpace(reason))
}

func (s *AdminService) setDriverStatus(ctx context.Context, admin *models.User, id string, status models.UserStatus, note string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "driver")
	}
	if user.Role != models.RoleDriver {
		return nil, fmt.Errorf("%w: user %s is not a driver", ErrValidation, id)
	}
	user.Status = status
	user.StatusNote = note
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, "driver")
	}
	s.log.Info("driver status changed",
		zap.String("driver_id", user.ID),
		zap.String("status", string(status)),
		zap.String("by", admin.ID))
	return user, nil
}
