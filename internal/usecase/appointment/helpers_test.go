package appointment

import (
	"errors"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
)

func asBusiness(err error, target *httperr.BusinessError) bool {
	return errors.As(err, target)
}
