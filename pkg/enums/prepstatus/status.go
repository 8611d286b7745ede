package prepstatus

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
// A ticket may always "transition" to its current status; such updates are
// idempotent no-ops at the aggregate level.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s.Name] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionError reports a disallowed preparation-status transition.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From.Name, e.To.Name)
}

// ValidateTransition returns a *TransitionError when moving from s to next is
// not allowed.
func (s Status) ValidateTransition(next Status) error {
	if !s.CanTransitionTo(next) {
		return &TransitionError{From: s, To: next}
	}
	return nil
}

type Enum struct {
	Received   Status
	InProgress Status
	Ready      Status
	Delivered  Status
	Cancelled  Status
}

var Statuses = Enum{
	Received:   Status{Name: "received"},
	InProgress: Status{Name: "in_progress"},
	Ready:      Status{Name: "ready"},
	Delivered:  Status{Name: "delivered"},
	Cancelled:  Status{Name: "cancelled"},
}

var All = []Status{
	Statuses.Received,
	Statuses.InProgress,
	Statuses.Ready,
	Statuses.Delivered,
	Statuses.Cancelled,
}

var transitions = map[string][]Status{
	Statuses.Received.Name:   {Statuses.InProgress, Statuses.Cancelled},
	Statuses.InProgress.Name: {Statuses.Ready, Statuses.Cancelled},
	Statuses.Ready.Name:      {Statuses.Delivered, Statuses.Cancelled},
	Statuses.Delivered.Name:  {},
	Statuses.Cancelled.Name:  {},
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
