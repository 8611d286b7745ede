package orderstatus

import (
	"fmt"
	"strings"
)

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == Statuses.Delivered || s == Statuses.Cancelled
}

// CanTransitionTo reports whether the transition from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s.Name] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionError reports a disallowed status transition. Terminal carries
// whether the source status was terminal, which gets its own message so
// callers can tell a closed order from a plain bad transition.
type TransitionError struct {
	From     Status
	To       Status
	Terminal bool
}

func (e *TransitionError) Error() string {
	if e.Terminal {
		return fmt.Sprintf("cannot change status of a %s order", e.From.Name)
	}
	return fmt.Sprintf("invalid transition from %s to %s", e.From.Name, e.To.Name)
}

// ValidateTransition returns a *TransitionError when moving from s to next is
// not allowed.
func (s Status) ValidateTransition(next Status) error {
	if s.IsTerminal() {
		return &TransitionError{From: s, To: next, Terminal: true}
	}
	if !s.CanTransitionTo(next) {
		return &TransitionError{From: s, To: next}
	}
	return nil
}

type Enum struct {
	Created          Status
	Paid             Status
	Preparing        Status
	ReadyForDelivery Status
	OutForDelivery   Status
	Delivered        Status
	Cancelled        Status
}

var Statuses = Enum{
	Created:          Status{Name: "created"},
	Paid:             Status{Name: "paid"},
	Preparing:        Status{Name: "preparing"},
	ReadyForDelivery: Status{Name: "ready_for_delivery"},
	OutForDelivery:   Status{Name: "out_for_delivery"},
	Delivered:        Status{Name: "delivered"},
	Cancelled:        Status{Name: "cancelled"},
}

var All = []Status{
	Statuses.Created,
	Statuses.Paid,
	Statuses.Preparing,
	Statuses.ReadyForDelivery,
	Statuses.OutForDelivery,
	Statuses.Delivered,
	Statuses.Cancelled,
}

var transitions = map[string][]Status{
	Statuses.Created.Name:          {Statuses.Paid, Statuses.Cancelled},
	Statuses.Paid.Name:             {Statuses.Preparing, Statuses.Cancelled},
	Statuses.Preparing.Name:        {Statuses.ReadyForDelivery},
	Statuses.ReadyForDelivery.Name: {Statuses.OutForDelivery},
	Statuses.OutForDelivery.Name:   {Statuses.Delivered},
	Statuses.Delivered.Name:        {},
	Statuses.Cancelled.Name:        {},
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
