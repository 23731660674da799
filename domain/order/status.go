package order

import "strings"

// Status Order status
type Status string

const (
	// StatusFailed is the initial state: created at checkout, payment not confirmed.
	StatusFailed    Status = "FAILED"
	StatusPlaced    Status = "PLACED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// transitions lists every legal move. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusFailed: {StatusPlaced, StatusCancelled},
	StatusPlaced: {StatusDelivered, StatusCancelled},
}

// ParseStatus accepts the persisted or requested form, case-insensitive.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusFailed, StatusPlaced, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", NewUnknownStatusError(s)
}

func (s Status) String() string { return string(s) }

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether s -> target is in the transition table.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsAdminTarget reports whether an administrator may request target directly.
// PLACED is reachable only through payment confirmation.
func IsAdminTarget(target Status) bool {
	return target == StatusDelivered || target == StatusCancelled
}
