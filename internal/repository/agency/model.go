package agency

type AgencyDB struct {
	ID             int64
	Name           string
	ParentAgencyID *int64
	IsForwarder    bool
}
