package entities

// HeldParcel - посылка вместе с агентством, которое ее фактически передает.
type HeldParcel struct {
	Parcel         Parcel
	HolderAgencyID int64
}

// ParcelClaim - условный массовый захват посылок отправкой.
// Захватываются только строки, которые все еще удовлетворяют условию.
type ParcelClaim struct {
	DispatchID      int64
	ParcelIDs       []int64
	OwnerAgencyIDs  []int64
	AllowedStatuses []ParcelStatus
}

type OutcomeKind string

const (
	OutcomeAdded    OutcomeKind = "added"
	OutcomeSkipped  OutcomeKind = "skipped"
	OutcomeReceived OutcomeKind = "received"
	OutcomeSurplus  OutcomeKind = "surplus"
)

func (k OutcomeKind) String() string {
	return string(k)
}

// ParcelOutcome - результат обработки одного трек-номера в пакетной операции.
type ParcelOutcome struct {
	TrackingNumber string
	Outcome        OutcomeKind
	Reason         string
	DispatchID     *int64
}
