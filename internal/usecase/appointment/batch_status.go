package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/care-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
)

// BatchUpdateStatus applies target to every id with the same rules as the
// single transitions. Ids whose transition is refused by a business rule are
// skipped and not counted. An infrastructure error stops the batch and is
// returned together with the count so far.
func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, target domain.Status) (int, error) {
	if !target.IsValid() {
		return 0, httperr.Validation("invalid_status", "unknown status %q", target)
	}

	seen := make(map[uint]struct{}, len(ids))
	updated := 0

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, err := s.changeStatus(ctx, id, target, "", nil); err != nil {
			if httperr.KindOf(err) != "" {
				s.log.Debug("batch item skipped",
					zap.Uint("appointment_id", id),
					zap.String("target", string(target)),
					zap.Error(err),
				)
				continue
			}
			return updated, err
		}
		updated++
	}

	return updated, nil
}
