package statemachine

import (
	"fmt"
	"strings"

	"fuelmate-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Supplier acceptance is recorded by an admin on the supplier's behalf
	{From: models.StatusPending, To: models.StatusAcceptedBySupplier, Actor: models.RoleAdmin},

	// Driver self-assigns an open order
	{From: models.StatusPending, To: models.StatusAssignedToDriver, Actor: models.RoleDriver},
	{From: models.StatusAcceptedBySupplier, To: models.StatusAssignedToDriver, Actor: models.RoleDriver},

	// Assigned driver moves the delivery forward
	{From: models.StatusAssignedToDriver, To: models.StatusInTransit, Actor: models.RoleDriver},
	{From: models.StatusAssignedToDriver, To: models.StatusDelivered, Actor: models.RoleDriver},
	{From: models.StatusInTransit, To: models.StatusDelivered, Actor: models.RoleDriver},

	// Customer or admin can cancel before a driver is on it
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusAcceptedBySupplier, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusAcceptedBySupplier, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusAssignedToDriver, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusInTransit, To: models.StatusCancelled, Actor: models.RoleAdmin},

	// Rejection is possible until the fuel is on the road
	{From: models.StatusPending, To: models.StatusRejected, Actor: models.RoleDriver},
	{From: models.StatusAcceptedBySupplier, To: models.StatusRejected, Actor: models.RoleDriver},
	{From: models.StatusAssignedToDriver, To: models.StatusRejected, Actor: models.RoleDriver},
	{From: models.StatusPending, To: models.StatusRejected, Actor: models.RoleAdmin},
	{From: models.StatusAcceptedBySupplier, To: models.StatusRejected, Actor: models.RoleAdmin},
	{From: models.StatusAssignedToDriver, To: models.StatusRejected, Actor: models.RoleAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%s → %s is not allowed for %s; valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
