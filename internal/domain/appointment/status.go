package appointment

import "github.com/BruksfildServices01/care-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}

// transitions is the only place that decides which status changes are legal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCompleted, StatusCancelled},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusCompleted: {},
}

// ConfirmedStatuses are the statuses that occupy a provider's calendar.
var ConfirmedStatuses = []Status{StatusApproved, StatusCompleted}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := transitions[st]
	return st, ok
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsConfirmed() bool {
	return s == StatusApproved || s == StatusCompleted
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an invalid_transition error for any change the
// table does not list.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return httperr.InvalidTransition(string(from), string(to))
	}
	return nil
}

// InitialStatus decides where a new appointment enters the state machine.
// Staff blocks are authoritative and occupy the calendar immediately.
func InitialStatus(c Creator) Status {
	if _, ok := c.(StaffBlock); ok {
		return StatusApproved
	}
	return StatusPending
}

func statusStrings(list []Status) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = string(s)
	}
	return out
}

// ConfirmedStatusValues is ConfirmedStatuses as plain strings for queries.
func ConfirmedStatusValues() []string {
	return statusStrings(ConfirmedStatuses)
}
