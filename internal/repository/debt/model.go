package debt

import "time"

type DebtDB struct {
	ID                     int64
	DebtorAgencyID         int64
	CreditorAgencyID       int64
	OriginalSenderAgencyID *int64
	AmountInCents          int64
	DispatchID             *int64
	Relationship           string
	Status                 string
	Notes                  string
	CreatedAt              time.Time
	PaidAt                 *time.Time
}
