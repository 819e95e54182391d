package entities

import "time"

type ParcelEventType string

const (
	EventAddedToDispatch     ParcelEventType = "ADDED_TO_DISPATCH"
	EventRemovedFromDispatch ParcelEventType = "REMOVED_FROM_DISPATCH"
	EventReceivedInDispatch  ParcelEventType = "RECEIVED_IN_DISPATCH"
	EventStatusCorrected     ParcelEventType = "STATUS_CORRECTED"
	EventStatusChanged       ParcelEventType = "STATUS_CHANGED"
)

func (t ParcelEventType) String() string {
	return string(t)
}

func (t ParcelEventType) IsDispatchRelated() bool {
	switch t {
	case EventAddedToDispatch, EventRemovedFromDispatch, EventReceivedInDispatch:
		return true
	default:
		return false
	}
}

// ParcelEvent - запись журнала посылки. Журнал только дополняется.
type ParcelEvent struct {
	ID         int64
	ParcelID   int64
	Type       ParcelEventType
	Status     ParcelStatus
	DispatchID *int64
	UserID     string
	Notes      string
	CreatedAt  time.Time
}

// StatusBeforeDispatch ищет в истории (по возрастанию времени) последний статус,
// не связанный с отправками. Без такого события возвращает базовый статус.
func StatusBeforeDispatch(events []ParcelEvent) ParcelStatus {
	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]
		if event.Type.IsDispatchRelated() || event.Status.IsDispatchRelated() || event.Status == "" {
			continue
		}
		return event.Status
	}
	return BaselineParcelStatus
}
