package statemachine

import (
	"testing"

	"fuelmate-api/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		actor   models.UserRole
		wantErr bool
	}{
		{"driver accepts pending", models.StatusPending, models.StatusAssignedToDriver, models.RoleDriver, false},
		{"driver accepts supplier-accepted", models.StatusAcceptedBySupplier, models.StatusAssignedToDriver, models.RoleDriver, false},
		{"driver starts transit", models.StatusAssignedToDriver, models.StatusInTransit, models.RoleDriver, false},
		{"driver delivers", models.StatusInTransit, models.StatusDelivered, models.RoleDriver, false},
		{"customer cancels pending", models.StatusPending, models.StatusCancelled, models.RoleCustomer, false},
		{"admin marks supplier accepted", models.StatusPending, models.StatusAcceptedBySupplier, models.RoleAdmin, false},
		{"customer cannot cancel in transit", models.StatusInTransit, models.StatusCancelled, models.RoleCustomer, true},
		{"driver cannot accept delivered", models.StatusDelivered, models.StatusAssignedToDriver, models.RoleDriver, true},
		{"driver cannot skip to delivered from pending", models.StatusPending, models.StatusDelivered, models.RoleDriver, true},
		{"driver cannot reopen rejected", models.StatusRejected, models.StatusPending, models.RoleDriver, true},
		{"delivered cannot be rejected", models.StatusDelivered, models.StatusRejected, models.RoleAdmin, true},
		{"customer cannot accept", models.StatusPending, models.StatusAssignedToDriver, models.RoleCustomer, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to, tt.actor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransition(%s, %s, %s) error = %v, wantErr %v", tt.from, tt.to, tt.actor, err, tt.wantErr)
			}
		})
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled, models.StatusRejected} {
		if !IsTerminal(s) {
			t.Errorf("%s should be terminal, next states %v", s, ValidTransitionsFrom(s))
		}
	}
	for _, s := range []models.OrderStatus{models.StatusPending, models.StatusAcceptedBySupplier, models.StatusAssignedToDriver, models.StatusInTransit} {
		if IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestValidTransitionsFromDeduplicates(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusPending)
	seen := map[models.OrderStatus]int{}
	for _, s := range nexts {
		seen[s]++
	}
	for s, n := range seen {
		if n != 1 {
			t.Errorf("%s listed %d times", s, n)
		}
	}
	if seen[models.StatusCancelled] != 1 || seen[models.StatusAssignedToDriver] != 1 {
		t.Errorf("unexpected next states from Pending: %v", nexts)
	}
}

func TestGetAllTransitionsIsACopy(t *testing.T) {
	all := GetAllTransitions()
	all[0].To = models.StatusDelivered
	if validTransitions[0].To != models.StatusAcceptedBySupplier {
		t.Fatalf("mutating the returned slice changed the table: %+v", validTransitions[0])
	}
}
