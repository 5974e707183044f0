package appointment

import (
	"strings"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// Creator says who an appointment belongs to. It is either a Member booking
// or a StaffBlock; no other implementations exist.
type Creator interface {
	isCreator()
	apply(ap *models.Appointment)
}

// Member is a self-service booking request.
type Member struct {
	ID uint
}

// StaffBlock is provider time blocked out by an operator.
type StaffBlock struct {
	Reason string
}

func (Member) isCreator()     {}
func (StaffBlock) isCreator() {}

func (m Member) apply(ap *models.Appointment) {
	id := m.ID
	ap.MemberID = &id
	ap.IsBlocked = false
	ap.BlockType = ""
}

func (b StaffBlock) apply(ap *models.Appointment) {
	ap.MemberID = nil
	ap.IsBlocked = true
	ap.BlockType = strings.TrimSpace(b.Reason)
}

func validateCreator(c Creator) error {
	switch v := c.(type) {
	case Member:
		if v.ID == 0 {
			return httperr.Validation("member_required", "member id must be positive")
		}
	case StaffBlock:
		if strings.TrimSpace(v.Reason) == "" {
			return httperr.Validation("block_type_required", "staff block needs a block type")
		}
	default:
		return httperr.Validation("creator_required", "appointment needs a member or a staff block reason")
	}
	return nil
}

// ApplyCreator validates c and writes it onto the row.
func ApplyCreator(ap *models.Appointment, c Creator) error {
	if err := validateCreator(c); err != nil {
		return err
	}
	c.apply(ap)
	return nil
}

// CreatorOf reads the creator back from a stored row.
func CreatorOf(ap *models.Appointment) Creator {
	if ap.IsBlocked {
		return StaffBlock{Reason: ap.BlockType}
	}
	if ap.MemberID != nil {
		return Member{ID: *ap.MemberID}
	}
	return nil
}

// CheckCreatorInvariant enforces that exactly one of
// (blocked, no member, block type set) and (not blocked, member set, no block
// type) holds. Checked before every insert.
func CheckCreatorInvariant(ap *models.Appointment) error {
	switch {
	case ap.IsBlocked && ap.MemberID == nil && strings.TrimSpace(ap.BlockType) != "":
		return nil
	case !ap.IsBlocked && ap.MemberID != nil && *ap.MemberID != 0 && ap.BlockType == "":
		return nil
	default:
		return httperr.Validation("creator_invariant", "appointment must be either a member booking or a staff block")
	}
}

// IsOwnedBy reports whether memberID booked ap. Staff blocks have no owner.
func IsOwnedBy(ap *models.Appointment, memberID uint) bool {
	return !ap.IsBlocked && ap.MemberID != nil && memberID != 0 && *ap.MemberID == memberID
}
