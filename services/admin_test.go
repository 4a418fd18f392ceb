package services

import (
	"context"
	"errors"
	"testing"

	"fuelmate-api/models"
	"fuelmate-api/store"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newAdminService(t *testing.T) (*AdminService, *store.MockUserRepository, *store.MockOrderRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := store.NewMockUserRepository(ctrl)
	orders := store.NewMockOrderRepository(ctrl)
	return NewAdminService(users, orders, zap.NewNop()), users, orders
}

func TestListOrdersSummary(t *testing.T) {
	svc, _, orders := newAdminService(t)
	orders.EXPECT().List(gomock.Any(), store.OrderFilter{}).Return([]models.Order{
		{Status: models.StatusDelivered, TotalAmount: 1900.10},
		{Status: models.StatusDelivered, TotalAmount: 500.20},
		{Status: models.StatusPending, TotalAmount: 700},
		{Status: models.StatusCancelled, TotalAmount: 300},
	}, nil)

	report, err := svc.ListOrders(context.Background(), AdminOrderFilter{})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if report.Count != 4 {
		t.Errorf("Count = %d", report.Count)
	}
	if report.TotalRevenue != 2400.30 {
		t.Errorf("TotalRevenue = %v, want 2400.30", report.TotalRevenue)
	}
	if report.OrderSummary[models.StatusDelivered] != 2 || report.OrderSummary[models.StatusInTransit] != 0 {
		t.Errorf("OrderSummary = %v", report.OrderSummary)
	}
}

func TestListOrdersFilters(t *testing.T) {
	svc, _, orders := newAdminService(t)
	orders.EXPECT().List(gomock.Any(), store.OrderFilter{
		DriverID: "drv-1",
		Statuses: []models.OrderStatus{models.StatusInTransit},
	}).Return(nil, nil)

	report, err := svc.ListOrders(context.Background(), AdminOrderFilter{Status: "In_Transit", DriverID: "drv-1"})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if report.Orders == nil || report.Count != 0 {
		t.Errorf("report = %+v", report)
	}

	if _, err := svc.ListOrders(context.Background(), AdminOrderFilter{Status: "Lost"}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status error = %v, want ErrValidation", err)
	}
}

func TestListUsersRejectsUnknownFilters(t *testing.T) {
	svc, _, _ := newAdminService(t)
	if _, err := svc.ListUsers(context.Background(), "restaurant", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("ListUsers() error = %v, want ErrValidation", err)
	}
	if _, err := svc.ListUsers(context.Background(), "", "bogus"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ListUsers(status) error = %v, want ErrValidation", err)
	}
}

func TestDriverApproval(t *testing.T) {
	ctx := context.Background()

	t.Run("pending list", func(t *testing.T) {
		svc, users, _ := newAdminService(t)
		users.EXPECT().List(gomock.Any(), store.UserFilter{Role: models.RoleDriver, Status: models.UserPending}).
			Return([]models.User{{ID: "d1"}}, nil)
		got, err := svc.ListPendingDrivers(ctx)
		if err != nil || len(got) != 1 {
			t.Fatalf("ListPendingDrivers() = %v, %v", got, err)
		}
	})

	t.Run("approve", func(t *testing.T) {
		svc, users, _ := newAdminService(t)
		users.EXPECT().FindByID(gomock.Any(), "d1").Return(&models.User{ID: "d1", Role: models.RoleDriver, Status: models.UserPending}, nil)
		users.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		got, err := svc.ApproveDriver(ctx, admin, "d1")
		if err != nil || got.Status != models.UserApproved || !got.Status.CanDeliver() {
			t.Fatalf("ApproveDriver() = %+v, %v", got, err)
		}
	})

	t.Run("reject keeps reason", func(t *testing.T) {
		svc, users, _ := newAdminService(t)
		users.EXPECT().FindByID(gomock.Any(), "d1").Return(&models.User{ID: "d1", Role: models.RoleDriver, Status: models.UserPending}, nil)
		users.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		got, err := svc.RejectDriver(ctx, admin, "d1", " licence expired ")
		if err != nil || got.Status != models.UserRejected || got.StatusNote != "licence expired" {
			t.Fatalf("RejectDriver() = %+v, %v", got, err)
		}
	})

	t.Run("non driver", func(t *testing.T) {
		svc, users, _ := newAdminService(t)
		users.EXPECT().FindByID(gomock.Any(), "c1").Return(&models.User{ID: "c1", Role: models.RoleCustomer}, nil)
		if _, err := svc.ApproveDriver(ctx, admin, "c1"); !errors.Is(err, ErrValidation) {
			t.Fatalf("ApproveDriver() error = %v, want ErrValidation", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		svc, users, _ := newAdminService(t)
		users.EXPECT().FindByID(gomock.Any(), "zz").Return(nil, store.ErrNotFound)
		if _, err := svc.ApproveDriver(ctx, admin, "zz"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("ApproveDriver() error = %v, want ErrNotFound", err)
		}
	})
}
