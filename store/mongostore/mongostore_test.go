package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"fuelmate-api/models"
	"fuelmate-api/store"

	"github.com/google/uuid"
)

// These tests need a running MongoDB; set MONGO_TEST_URI to enable them.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dbName := "fuelmate_test_" + uuid.NewString()[:8]
	s, err := Connect(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		_ = s.client.Database(dbName).Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Name: "Asha", Email: "Asha@example.com", PasswordHash: "x", Role: models.RoleCustomer, Status: models.UserActive}
	if err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := s.Users().FindByEmail(ctx, "asha@EXAMPLE.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("FindByEmail() = %v, %v", got, err)
	}

	dup := &models.User{Name: "Other", Email: "asha@example.com", PasswordHash: "y", Role: models.RoleCustomer, Status: models.UserActive}
	if err := s.Users().Create(ctx, dup); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("duplicate Create() error = %v, want ErrDuplicate", err)
	}
}

func TestOrderCompareAndSwap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	o := &models.Order{
		UserID:        "cust-1",
		FuelType:      models.FuelPetrol,
		Quantity:      10,
		TotalAmount:   1000,
		Status:        models.StatusPending,
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.Orders().Create(ctx, o); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	driverID := "drv-1"
	updated, err := s.Orders().CompareAndSwap(ctx, o.ID, 1, store.OrderPatch{Status: models.StatusAssignedToDriver, DriverID: &driverID})
	if err != nil {
		t.Fatalf("CompareAndSwap() error = %v", err)
	}
	if updated.Version != 2 || updated.DriverID == nil || *updated.DriverID != driverID {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := s.Orders().CompareAndSwap(ctx, o.ID, 1, store.OrderPatch{Status: models.StatusRejected}); !errors.Is(err, store.ErrVersionConflict) {
		t.Fatalf("stale CompareAndSwap() error = %v, want ErrVersionConflict", err)
	}
	if _, err := s.Orders().CompareAndSwap(ctx, "missing", 1, store.OrderPatch{Status: models.StatusRejected}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("CompareAndSwap(missing) error = %v, want ErrNotFound", err)
	}

	pending, err := s.Orders().List(ctx, store.OrderFilter{Statuses: []models.OrderStatus{models.StatusPending}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("List(Pending) = %d orders, want 0", len(pending))
	}
}
