package hierarchy

import (
	"errors"
	"fmt"

	"shipping/internal/entities"
)

var (
	ErrAgencyNotFound  = fmt.Errorf("agency not found: %w", entities.ErrNotFound)
	ErrCyclicHierarchy = fmt.Errorf("agency hierarchy contains a cycle: %w", entities.ErrValidation)
	ErrPricingNotFound = errors.New("pricing agreement not found")
)
