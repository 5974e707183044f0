package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

const (
	MinScore = 1
	MaxScore = 5
)

// ===============================
// Domain Actions
// ===============================
//
// Each action checks the transition table, then mutates the row in memory.
// On error the row is untouched.

func Approve(ap *models.Appointment) error {
	if err := CheckTransition(Status(ap.Status), StatusApproved); err != nil {
		return err
	}
	// Blocks enter approved, so a pending block is a corrupt row.
	if ap.IsBlocked {
		return httperr.InvalidState("staff_block", "staff blocks are approved on creation")
	}
	ap.Status = string(StatusApproved)
	return nil
}

func Reject(ap *models.Appointment, reason string) error {
	if err := CheckTransition(Status(ap.Status), StatusRejected); err != nil {
		return err
	}
	if ap.IsBlocked {
		return httperr.InvalidState("staff_block", "staff blocks cannot be rejected")
	}
	ap.Status = string(StatusRejected)
	ap.Notes = AppendNote(ap.Notes, "Rejected", reason)
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	if err := CheckTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}
	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.Notes = AppendNote(ap.Notes, "Cancelled", reason)
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CheckTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}
	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// CheckScore validates a rating score.
func CheckScore(score int) error {
	if score < MinScore || score > MaxScore {
		return httperr.Validation("invalid_score", "score must be between %d and %d", MinScore, MaxScore)
	}
	return nil
}

// Rate records the one rating a completed appointment may receive.
func Rate(ap *models.Appointment, score int, comment string, now time.Time) error {
	if err := CheckScore(score); err != nil {
		return err
	}
	if Status(ap.Status) != StatusCompleted {
		return httperr.InvalidState("not_completed", "only completed appointments can be rated")
	}
	if ap.IsRated {
		return httperr.InvalidState("already_rated", "appointment already rated")
	}
	s := score
	ap.IsRated = true
	ap.RatingScore = &s
	ap.RatingComment = strings.TrimSpace(comment)
	ap.RatedAt = &now
	return nil
}

// CheckCancellationWindow applies the self-service rule: an owning member can
// only cancel while start is at least window away.
func CheckCancellationWindow(ap *models.Appointment, now time.Time, window time.Duration) error {
	if ap.ScheduledAt.Sub(now) < window {
		return httperr.TooLateToCancel(window.String())
	}
	return nil
}

// AppendNote adds a labelled line to notes. Blank reasons are ignored.
func AppendNote(notes, label, reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return notes
	}
	line := label + ": " + reason
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}
