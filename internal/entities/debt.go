package entities

import (
	"fmt"
	"time"
)

type DebtStatus string

const (
	DebtPending   DebtStatus = "PENDING"
	DebtPaid      DebtStatus = "PAID"
	DebtCancelled DebtStatus = "CANCELLED"
)

func (s DebtStatus) String() string {
	return string(s)
}

type DebtRelationship string

const (
	RelationshipDirect            DebtRelationship = "direct"
	RelationshipParent            DebtRelationship = "parent"
	RelationshipSkippedParent     DebtRelationship = "skipped_parent"
	RelationshipGrandparent       DebtRelationship = "grandparent"
	RelationshipDispatchReception DebtRelationship = "dispatch_reception"
)

// AncestorLevelRelationship - отношение для предка дальше деда, level считается от родителя с 1.
func AncestorLevelRelationship(level int) DebtRelationship {
	return DebtRelationship(fmt.Sprintf("ancestor_level_%d", level))
}

func (r DebtRelationship) String() string {
	return string(r)
}

type InterAgencyDebt struct {
	ID                     int64
	DebtorAgencyID         int64
	CreditorAgencyID       int64
	OriginalSenderAgencyID *int64
	AmountInCents          int64
	DispatchID             *int64
	Relationship           DebtRelationship
	Status                 DebtStatus
	Notes                  string
	CreatedAt              time.Time
	PaidAt                 *time.Time
}
