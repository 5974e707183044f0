package appointment

import (
	"context"
	"testing"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

func TestCreate_MemberBookingEntersPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedMember(domain.StatusPending, at(1, 10, 0), at(1, 11, 0))
	f.seedMember(domain.StatusApproved, at(1, 10, 0), at(1, 11, 0))

	ap, err := f.svc.Create(ctx, CreateInput{
		ProviderID: providerID,
		Start:      at(1, 10, 30),
		End:        at(1, 11, 30),
		Creator:    domain.Member{ID: memberID},
	})
	if err != nil {
		t.Fatalf("member booking must not be conflict-checked: %v", err)
	}
	if ap.Status != string(domain.StatusPending) {
		t.Errorf("expected pending, got %s", ap.Status)
	}
	if f.store.count() != 3 {
		t.Errorf("expected 3 rows, got %d", f.store.count())
	}
	if len(f.cache.invalidated) != 0 {
		t.Error("pending bookings do not touch the slot cache")
	}
	if got := f.auditor.actions(); len(got) != 1 || got[0] != "appointment.created" {
		t.Errorf("unexpected audit trail %v", got)
	}
}

func TestCreate_StaffBlockEntersApproved(t *testing.T) {
	f := newFixture(t)

	ap, err := f.svc.Create(context.Background(), CreateInput{
		ProviderID: providerID,
		Start:      at(1, 13, 0),
		End:        at(1, 15, 0),
		Creator:    domain.StaffBlock{Reason: "training"},
	})
	if err != nil {
		t.Fatalf("create block: %v", err)
	}
	if ap.Status != string(domain.StatusApproved) || !ap.IsBlocked || ap.MemberID != nil {
		t.Errorf("unexpected block %+v", ap)
	}
	if len(f.cache.invalidated) != 1 || !f.cache.invalidated[0].Equal(at(1, 0, 0)) {
		t.Errorf("expected the block's day to be invalidated, got %v", f.cache.invalidated)
	}
}

func TestCreate_StaffBlockConflict(t *testing.T) {
	f := newFixture(t)
	existing := f.seedMember(domain.StatusApproved, at(1, 10, 0), at(1, 11, 0))

	_, err := f.svc.Create(context.Background(), CreateInput{
		ProviderID: providerID,
		Start:      at(1, 10, 30),
		End:        at(1, 12, 0),
		Creator:    domain.StaffBlock{Reason: "leave"},
	})
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	var be httperr.BusinessError
	if !asBusiness(err, &be) || len(be.ConflictIDs) != 1 || be.ConflictIDs[0] != existing {
		t.Errorf("conflict must name appointment %d, got %+v", existing, be)
	}
	if f.store.count() != 1 {
		t.Errorf("no row may be written on conflict, have %d", f.store.count())
	}
}

func TestCreate_StaffBlockTouchingIsAllowed(t *testing.T) {
	f := newFixture(t)
	f.seedMember(domain.StatusApproved, at(1, 10, 0), at(1, 11, 0))
	f.seedMember(domain.StatusCompleted, at(1, 12, 0), at(1, 13, 0))

	_, err := f.svc.Create(context.Background(), CreateInput{
		ProviderID: providerID,
		Start:      at(1, 11, 0),
		End:        at(1, 12, 0),
		Creator:    domain.StaffBlock{Reason: "lunch"},
	})
	if err != nil {
		t.Fatalf("back-to-back block must be accepted: %v", err)
	}
}

func TestCreate_StaffBlockIgnoresUnconfirmed(t *testing.T) {
	f := newFixture(t)
	f.seedMember(domain.StatusPending, at(1, 10, 0), at(1, 11, 0))
	f.seedMember(domain.StatusCancelled, at(1, 10, 0), at(1, 11, 0))
	f.seedMember(domain.StatusRejected, at(1, 10, 0), at(1, 11, 0))

	if _, err := f.svc.Create(context.Background(), CreateInput{
		ProviderID: providerID,
		Start:      at(1, 10, 0),
		End:        at(1, 11, 0),
		Creator:    domain.StaffBlock{Reason: "leave"},
	}); err != nil {
		t.Fatalf("only confirmed appointments conflict: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   CreateInput
		code string
	}{
		{"no provider", CreateInput{Start: at(1, 10, 0), End: at(1, 11, 0), Creator: domain.Member{ID: memberID}}, "provider_required"},
		{"no times", CreateInput{ProviderID: providerID, Creator: domain.Member{ID: memberID}}, "missing_time"},
		{"inverted", CreateInput{ProviderID: providerID, Start: at(1, 11, 0), End: at(1, 10, 0), Creator: domain.Member{ID: memberID}}, "invalid_time_range"},
		{"empty range", CreateInput{ProviderID: providerID, Start: at(1, 10, 0), End: at(1, 10, 0), Creator: domain.Member{ID: memberID}}, "invalid_time_range"},
		{"past", CreateInput{ProviderID: providerID, Start: at(0, 8, 0), End: at(0, 10, 0), Creator: domain.Member{ID: memberID}}, "in_the_past"},
		{"no creator", CreateInput{ProviderID: providerID, Start: at(1, 10, 0), End: at(1, 11, 0)}, "creator_required"},
		{"member without id", CreateInput{ProviderID: providerID, Start: at(1, 10, 0), End: at(1, 11, 0), Creator: domain.Member{}}, "member_required"},
		{"block without reason", CreateInput{ProviderID: providerID, Start: at(1, 10, 0), End: at(1, 11, 0), Creator: domain.StaffBlock{}}, "block_type_required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Create(context.Background(), tc.in)
			if !httperr.IsKind(err, httperr.KindValidation) || !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected validation %s, got %v", tc.code, err)
			}
			if f.store.count() != 0 {
				t.Error("failed creation must not write")
			}
		})
	}
}

func TestCreate_Pricing(t *testing.T) {
	f := newFixture(t)
	f.store.serviceTypes[1] = models.ServiceType{ID: 1, Name: "Home care", HourlyRate: 40, IsActive: true}
	f.store.serviceTypes[2] = models.ServiceType{ID: 2, Name: "Retired", HourlyRate: 10}

	ap, err := f.svc.Create(context.Background(), CreateInput{
		ProviderID:    providerID,
		Start:         at(1, 10, 0),
		End:           at(1, 11, 30),
		Creator:       domain.Member{ID: memberID},
		ServiceTypeID: uintPtr(1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ap.TotalAmount == nil || *ap.TotalAmount != 60 {
		t.Errorf("expected amount 60, got %v", ap.TotalAmount)
	}

	_, err = f.svc.Create(context.Background(), CreateInput{
		ProviderID:    providerID,
		Start:         at(1, 10, 0),
		End:           at(1, 11, 0),
		Creator:       domain.Member{ID: memberID},
		ServiceTypeID: uintPtr(2),
	})
	if !httperr.IsKind(err, httperr.KindInactive) {
		t.Errorf("inactive service type: got %v", err)
	}

	_, err = f.svc.Create(context.Background(), CreateInput{
		ProviderID:    providerID,
		Start:         at(1, 10, 0),
		End:           at(1, 11, 0),
		Creator:       domain.Member{ID: memberID},
		ServiceTypeID: uintPtr(99),
	})
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Errorf("unknown service type: got %v", err)
	}

	if f.store.count() != 1 {
		t.Errorf("failed pricing must not write, have %d rows", f.store.count())
	}
}

func TestCreate_ConcurrentBlocksBookOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := f.svc.Create(ctx, CreateInput{
				ProviderID: providerID,
				Start:      at(2, 9, 0),
				End:        at(2, 10, 0),
				Creator:    domain.StaffBlock{Reason: "leave"},
			})
			errs <- err
		}()
	}

	ok, conflicts := 0, 0
	for i := 0; i < n; i++ {
		err := <-errs
		switch {
		case err == nil:
			ok++
		case httperr.IsKind(err, httperr.KindConflict):
			conflicts++
		default:
			t.Errorf("unexpected error %v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("expected exactly one block, got %d ok and %d conflicts", ok, conflicts)
	}
}

func TestCreate_ConflictIsAudited(t *testing.T) {
	f := newFixture(t)
	f.seedMember(domain.StatusApproved, at(1, 10, 0), at(1, 11, 0))

	_, err := f.svc.Create(context.Background(), CreateInput{
		ProviderID: providerID,
		Start:      at(1, 10, 0),
		End:        at(1, 11, 0),
		Creator:    domain.StaffBlock{Reason: "leave"},
	})
	if !httperr.IsKind(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got := f.auditor.actions()
	if len(got) != 1 || got[0] != "appointment.conflict_rejected" {
		t.Fatalf("expected a conflict audit entry, got %v", got)
	}
	if f.auditor.events[0].EntityID != nil {
		t.Error("a refused creation has no entity id")
	}
}
