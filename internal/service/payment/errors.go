package payment

import (
	"fmt"

	"shipping/internal/entities"
)

var (
	ErrInvalidDispatchID = fmt.Errorf("invalid dispatch id: %w", entities.ErrValidation)
	ErrInvalidPaymentID  = fmt.Errorf("invalid payment id: %w", entities.ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("payment amount must be positive: %w", entities.ErrValidation)
	ErrInvalidMethod     = fmt.Errorf("unknown payment method: %w", entities.ErrValidation)
	ErrAmountExceedsDue  = fmt.Errorf("payment amount exceeds the outstanding balance: %w", entities.ErrValidation)

	ErrDispatchNotReceived = fmt.Errorf("payments are accepted only for received dispatches: %w", entities.ErrInvalidState)
	ErrAlreadyPaid         = fmt.Errorf("dispatch is already paid: %w", entities.ErrInvalidState)

	ErrNotReceiver = fmt.Errorf("only the receiving agency records dispatch payments: %w", entities.ErrForbidden)
)
