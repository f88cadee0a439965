package statemachine

import (
	"fmt"
	"strings"

	"foodies-api/apperr"
	"foodies-api/models"
)

// Actor is who asks for a status change.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
)

// Transition defines a status change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// forwardTransitions is the lifecycle an order normally follows. In strict mode admins
// may only move along it (skipping ahead is allowed); customers are always held to it.
var forwardTransitions = []Transition{
	{From: models.StatusPending, To: models.StatusCooking, Actor: ActorAdmin},
	{From: models.StatusCooking, To: models.StatusOutForDelivery, Actor: ActorAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorAdmin},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusCooking, To: models.StatusCancelled, Actor: ActorAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusCancelled, Actor: ActorAdmin},
	// Customers can cancel only before the kitchen starts
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range forwardTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

func rank(s models.OrderStatus) int {
	for i, v := range models.AllStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Policy decides whether a status change is allowed. The zero value is lenient:
// an admin may set any enumerated status from any other.
type Policy struct {
	Strict bool
}

// CanTransition checks whether actor may move an order from one status to another.
func (p Policy) CanTransition(from, to models.OrderStatus, actor Actor) error {
	if !to.Valid() {
		return apperr.New(apperr.Validation, "unknown status %q, expected one of %s", to, statusList(models.AllStatuses))
	}
	if actor == ActorCustomer {
		if transitionMap[transitionKey{from, to, actor}] {
			return nil
		}
		return apperr.New(apperr.Conflict, "order in status %q can no longer be cancelled", from)
	}
	if !p.Strict {
		return nil
	}
	if transitionMap[transitionKey{from, to, actor}] {
		return nil
	}
	// forward jumps, e.g. Pending straight to Delivered
	if to != models.StatusCancelled && from != models.StatusCancelled && rank(to) > rank(from) {
		return nil
	}
	return apperr.New(apperr.Conflict,
		"invalid transition: %s → %s is not allowed. Valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from))
}

// ValidTransitionsFrom returns the lifecycle steps out of a given status
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range forwardTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	return statusList(nexts)
}

func statusList(ss []models.OrderStatus) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the lifecycle table for documentation
func GetAllTransitions() []Transition {
	return forwardTransitions
}

func (t Transition) String() string {
	return fmt.Sprintf("%s → %s (%s)", t.From, t.To, t.Actor)
}
