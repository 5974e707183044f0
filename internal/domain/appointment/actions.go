package appointment

import "time"

type Action string

const (
	ActionView   Action = "view"
	ActionCancel Action = "cancel"
	ActionRate   Action = "rate"
	ActionRebook Action = "rebook"
)

// AvailableActions derives what an owning member may do next. It depends only
// on status, whether a rating exists and the time left before start.
func AvailableActions(status Status, isRated bool, untilStart, cancelWindow time.Duration) []Action {
	switch status {
	case StatusPending, StatusApproved:
		if untilStart >= cancelWindow {
			return []Action{ActionView, ActionCancel}
		}
		return []Action{ActionView}
	case StatusCompleted:
		if !isRated {
			return []Action{ActionView, ActionRate}
		}
		return []Action{ActionView}
	case StatusRejected, StatusCancelled:
		return []Action{ActionRebook, ActionView}
	default:
		return []Action{}
	}
}
