package dispatch

import (
	"fmt"

	"shipping/internal/entities"
)

var (
	ErrInvalidDispatchID = fmt.Errorf("invalid dispatch id: %w", entities.ErrValidation)
	ErrInvalidAgencyID   = fmt.Errorf("invalid agency id: %w", entities.ErrValidation)
	ErrSameAgency        = fmt.Errorf("sender and receiver must differ: %w", entities.ErrValidation)

	ErrDispatchNotLoading   = fmt.Errorf("only a loading dispatch can be finalized: %w", entities.ErrInvalidState)
	ErrDispatchNotMutable   = fmt.Errorf("dispatch can no longer be cancelled: %w", entities.ErrInvalidState)
	ErrDispatchNotDeletable = fmt.Errorf("only draft or cancelled dispatches can be deleted: %w", entities.ErrInvalidState)

	ErrReceiverNotAllowed = fmt.Errorf("receiver must be an ancestor of the sender or a forwarder: %w", entities.ErrForbidden)
	ErrAgencyNotManaged   = fmt.Errorf("agency is outside of the actor's hierarchy: %w", entities.ErrForbidden)
)
