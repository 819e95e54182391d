package ledger

import (
	"fmt"

	"shipping/internal/entities"
)

var (
	ErrDebtNotPending    = fmt.Errorf("debt is not pending: %w", entities.ErrInvalidState)
	ErrNotDebtCreditor   = fmt.Errorf("only the creditor agency can settle a debt: %w", entities.ErrForbidden)
	ErrInvalidDebtID     = fmt.Errorf("invalid debt id: %w", entities.ErrValidation)
	ErrInvalidDispatchID = fmt.Errorf("invalid dispatch id: %w", entities.ErrValidation)
)
