package statemachine

import (
	"fmt"
	"strings"

	"github.com/webstaxinc/agra-sweets/internal/models"
)

// Transition defines a valid status change
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions is the delivery lifecycle: forward, one step at a time
var validTransitions = []Transition{
	{From: models.OrderStatusPending, To: models.OrderStatusOutForDelivery},
	{From: models.OrderStatusOutForDelivery, To: models.OrderStatusDelivered},
}

var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// IsKnown reports whether status is part of the lifecycle
func IsKnown(status models.OrderStatus) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusOutForDelivery, models.OrderStatusDelivered:
		return true
	}
	return false
}

// Next returns the status following from, or false for a terminal status
func Next(from models.OrderStatus) (models.OrderStatus, bool) {
	for _, t := range validTransitions {
		if t.From == from {
			return t.To, true
		}
	}
	return "", false
}

// CanTransition returns an error describing why from → to is not allowed
func CanTransition(from, to models.OrderStatus) error {
	if transitionMap[Transition{From: from, To: to}] {
		return nil
	}
	return fmt.Errorf("%s → %s is not allowed, valid transitions from %s are: %s",
		from, to, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	var nexts []string
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, string(t.To))
		}
	}
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	return strings.Join(nexts, ", ")
}
