package reception

import (
	"fmt"

	"shipping/internal/entities"
)

var (
	ErrEmptyTrackingNumbers  = fmt.Errorf("tracking numbers list is empty: %w", entities.ErrValidation)
	ErrInvalidTrackingNumber = fmt.Errorf("invalid tracking number: %w", entities.ErrValidation)
	ErrInvalidAgencyID       = fmt.Errorf("invalid agency id: %w", entities.ErrValidation)
	ErrInvalidDispatchID     = fmt.Errorf("invalid dispatch id: %w", entities.ErrValidation)

	ErrNotReceiver           = fmt.Errorf("actor does not act for the receiving agency: %w", entities.ErrForbidden)
	ErrDispatchNotReceivable = fmt.Errorf("dispatch is not awaiting reception: %w", entities.ErrInvalidState)
	ErrParcelNotInDispatch   = fmt.Errorf("parcel does not belong to this dispatch: %w", entities.ErrConflict)
	ErrParcelAlreadyReceived = fmt.Errorf("parcel is already received: %w", entities.ErrConflict)
)
