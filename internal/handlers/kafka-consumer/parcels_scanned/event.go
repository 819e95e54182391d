package parcels_scanned

// scannedEvent - пачка считываний ручного сканера на складе получателя.
type scannedEvent struct {
	ReceiverAgencyID int64    `json:"receiver_agency_id"`
	UserID           string   `json:"user_id"`
	Role             string   `json:"role"`
	TrackingNumbers  []string `json:"tracking_numbers"`
}
