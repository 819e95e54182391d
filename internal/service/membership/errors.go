package membership

import (
	"fmt"

	"shipping/internal/entities"
)

var (
	ErrEmptyTrackingNumbers  = fmt.Errorf("tracking numbers list is empty: %w", entities.ErrValidation)
	ErrInvalidTrackingNumber = fmt.Errorf("invalid tracking number: %w", entities.ErrValidation)
	ErrInvalidDispatchID     = fmt.Errorf("invalid dispatch id: %w", entities.ErrValidation)
	ErrInvalidOrderID        = fmt.Errorf("invalid order id: %w", entities.ErrValidation)

	ErrDispatchNotMutable     = fmt.Errorf("dispatch does not accept parcel changes: %w", entities.ErrInvalidState)
	ErrParcelDeleted          = fmt.Errorf("parcel is deleted: %w", entities.ErrInvalidState)
	ErrParcelStatusNotAllowed = fmt.Errorf("parcel status does not allow dispatch: %w", entities.ErrInvalidState)
	ErrParcelNotInDispatch    = fmt.Errorf("parcel is not attached to an active dispatch: %w", entities.ErrInvalidState)

	ErrParcelNotOwned        = fmt.Errorf("parcel does not belong to the sender agency: %w", entities.ErrForbidden)
	ErrAgencyNotManaged      = fmt.Errorf("agency is outside of the actor's hierarchy: %w", entities.ErrForbidden)
	ErrParcelInOtherDispatch = fmt.Errorf("parcel is attached to another dispatch: %w", entities.ErrConflict)
	ErrParcelAlreadyAttached = fmt.Errorf("parcel is already in this dispatch: %w", entities.ErrConflict)
	ErrOrderHasNoParcels     = fmt.Errorf("order has no parcels: %w", entities.ErrNotFound)
)
