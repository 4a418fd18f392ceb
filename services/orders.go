package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuelmate-api/metrics"
	"fuelmate-api/models"
	"fuelmate-api/statemachine"
	"fuelmate-api/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CreateOrderInput struct {
	FuelType        models.FuelType      `json:"fuelType" validate:"required,oneof=Petrol Diesel CNG Electric"`
	Quantity        float64              `json:"quantity" validate:"required,gt=0"`
	PricePerLiter   float64              `json:"pricePerLiter" validate:"omitempty,gt=0"`
	TotalAmount     float64              `json:"totalAmount" validate:"required,gt=0"`
	DeliveryAddress string               `json:"deliveryAddress" validate:"required"`
	CustomerPhone   string               `json:"customerPhone" validate:"required"`
	SupplierName    string               `json:"supplierName"`
	SupplierArea    string               `json:"supplierArea"`
	Location        *models.GeoPoint     `json:"location"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash card upi wallet"`
	Notes           string               `json:"notes"`
}

type OrderService struct {
	orders                store.OrderRepository
	requireDriverApproval bool
	log                   *zap.Logger
	now                   func() time.Time
}

func NewOrderService(orders store.OrderRepository, requireDriverApproval bool, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, requireDriverApproval: requireDriverApproval, log: log, now: time.Now}
}

// Create places a new Pending order on behalf of the customer
func (s *OrderService) Create(ctx context.Context, customer *models.User, in CreateOrderInput) (*models.Order, error) {
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	price := in.PricePerLiter
	if price == 0 {
		price = pricePerLiter(in.TotalAmount, in.Quantity)
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = models.PaymentCash
	}

	order := &models.Order{
		UserID:          customer.ID,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   in.CustomerPhone,
		FuelType:        in.FuelType,
		Quantity:        in.Quantity,
		PricePerLiter:   price,
		TotalAmount:     in.TotalAmount,
		DeliveryAddress: in.DeliveryAddress,
		SupplierName:    in.SupplierName,
		SupplierArea:    in.SupplierArea,
		Status:          models.StatusPending,
		PaymentMethod:   payment,
		PaymentStatus:   models.PaymentPending,
		Notes:           in.Notes,
	}
	if in.Location != nil {
		order.Location = *in.Location
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersCreated.WithLabelValues(string(order.FuelType)).Inc()
	s.record(ctx, order.ID, "", models.StatusPending, customer.ID, "Order placed")

	return order, nil
}

// pricePerLiter is totalAmount / quantity rounded to two decimal places
func pricePerLiter(total, quantity float64) float64 {
	return decimal.NewFromFloat(total).
		Div(decimal.NewFromFloat(quantity)).
		Round(2).
		InexactFloat64()
}

func (s *OrderService) ListMine(ctx context.Context, customer *models.User) ([]models.Order, error) {
	return s.orders.List(ctx, store.OrderFilter{UserID: customer.ID})
}

// ListPending returns the orders a driver may still accept
// openStatuses are the orders any driver may browse and accept
var openStatuses = []models.OrderStatus{models.StatusPending, models.StatusAcceptedBySupplier}

func (s *OrderService) ListPending(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx, store.OrderFilter{Statuses: openStatuses})
}

func (s *OrderService) ListMyDeliveries(ctx context.Context, driver *models.User) ([]models.Order, error) {
	return s.orders.List(ctx, store.OrderFilter{
		DriverID: driver.ID,
		Statuses: []models.OrderStatus{models.StatusAssignedToDriver, models.StatusInTransit},
	})
}

// Get returns an order with its status history to the owner, the assigned driver or an admin.
// Drivers may also read open orders they could accept.
func (s *OrderService) Get(ctx context.Context, actor *models.User, id string) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && order.UserID != actor.ID && !isAssignedDriver(order, actor) && !openToDriver(order, actor) {
		return nil, fmt.Errorf("%w: not authorized to view this order", ErrForbidden)
	}
	history, err := s.orders.History(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.StatusHistory = history
	return order, nil
}

// Accept assigns an open order to the calling driver
func (s *OrderService) Accept(ctx context.Context, driver *models.User, id string) (*models.Order, error) {
	if driver.Role != models.RoleDriver {
		return nil, fmt.Errorf("%w: only drivers can accept orders", ErrForbidden)
	}
	if s.requireDriverApproval && !driver.Status.CanDeliver() {
		return nil, fmt.Errorf("%w: driver account is %s", ErrForbidden, driver.Status)
	}

	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := statemachine.CanTransition(order.Status, models.StatusAssignedToDriver, models.RoleDriver); err != nil {
		return nil, fmt.Errorf("%w: order cannot be accepted at this stage (%s)", ErrInvalidTransition, order.Status)
	}

	now := s.now()
	return s.apply(ctx, order, driver, store.OrderPatch{
		Status:             models.StatusAssignedToDriver,
		DriverID:           &driver.ID,
		DriverName:         &driver.Name,
		AssignedToDriverAt: &now,
	}, "Driver accepted the order")
}

// Reject marks an order Rejected; drivers may only reject orders that are open or assigned to them
func (s *OrderService) Reject(ctx context.Context, actor *models.User, id, note string) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleDriver && order.DriverID != nil && !isAssignedDriver(order, actor) {
		return nil, fmt.Errorf("%w: order is assigned to another driver", ErrForbidden)
	}
	if err := statemachine.CanTransition(order.Status, models.StatusRejected, actor.Role); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	if note == "" {
		note = "Order rejected"
	}
	return s.apply(ctx, order, actor, store.OrderPatch{Status: models.StatusRejected}, note)
}

// UpdateStatus moves an order the calling driver is assigned to along the lifecycle
func (s *OrderService) UpdateStatus(ctx context.Context, driver *models.User, id, status, note string) (*models.Order, error) {
	to, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAssignedDriver(order, driver) {
		return nil, fmt.Errorf("%w: not authorized to update this order", ErrForbidden)
	}
	if err := statemachine.CanTransition(order.Status, to, models.RoleDriver); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	patch := store.OrderPatch{Status: to}
	if to == models.StatusDelivered {
		now := s.now()
		paid := models.PaymentPaid
		patch.DeliveredAt = &now
		patch.PaymentStatus = &paid
	}
	if note == "" {
		note = "Order marked as " + string(to)
	}
	return s.apply(ctx, order, driver, patch, note)
}

// Cancel lets the customer who placed the order (or an admin) cancel it before it is on the road
func (s *OrderService) Cancel(ctx context.Context, actor *models.User, id, note string) (*models.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && order.UserID != actor.ID {
		return nil, fmt.Errorf("%w: not authorized to cancel this order", ErrForbidden)
	}
	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, actor.Role); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	if note == "" {
		note = "Order cancelled"
	}
	return s.apply(ctx, order, actor, store.OrderPatch{Status: models.StatusCancelled}, note)
}

// AdminSetStatus applies any admin transition from the table, e.g. recording supplier acceptance
func (s *OrderService) AdminSetStatus(ctx context.Context, admin *models.User, id, status, note string) (*models.Order, error) {
	to, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := statemachine.CanTransition(order.Status, to, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	patch := store.OrderPatch{Status: to}
	if to == models.StatusAcceptedBySupplier {
		now := s.now()
		patch.AcceptedBySupplierAt = &now
	}
	if note == "" {
		note = "Status set to " + string(to) + " by admin"
	}
	return s.apply(ctx, order, admin, patch, note)
}

func (s *OrderService) find(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

// apply writes patch only if nobody changed the order since it was read
func (s *OrderService) apply(ctx context.Context, order *models.Order, actor *models.User, patch store.OrderPatch, note string) (*models.Order, error) {
	updated, err := s.orders.CompareAndSwap(ctx, order.ID, order.Version, patch)
	switch {
	case errors.Is(err, store.ErrVersionConflict):
		return nil, fmt.Errorf("%w: please reload and try again", ErrConflict)
	case err != nil:
		return nil, notFound(err, "order")
	}

	metrics.OrderTransitions.WithLabelValues(string(order.Status), string(patch.Status)).Inc()
	s.record(ctx, order.ID, order.Status, patch.Status, actor.ID, note)
	return updated, nil
}

// record appends an audit row; the status change itself has already been committed
func (s *OrderService) record(ctx context.Context, orderID string, from, to models.OrderStatus, by, note string) {
	entry := &models.OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  by,
		Note:       note,
		CreatedAt:  s.now(),
	}
	if err := s.orders.AppendHistory(ctx, entry); err != nil {
		s.log.Error("append order history",
			zap.String("order_id", orderID),
			zap.String("to", string(to)),
			zap.Error(err))
	}
}

func isAssignedDriver(order *models.Order, user *models.User) bool {
	return order.DriverID != nil && *order.DriverID == user.ID
}

func openToDriver(order *models.Order, user *models.User) bool {
	if user.Role != models.RoleDriver || order.DriverID != nil {
		return false
	}
	for _, st := range openStatuses {
		if order.Status == st {
			return true
		}
	}
	return false
}

func parseStatus(raw string) (models.OrderStatus, error) {
	status := models.OrderStatus(strings.TrimSpace(raw))
	if status == "" {
		return "", fmt.Errorf("%w: status is required", ErrValidation)
	}
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
	}
	return status, nil
}
