package entities

type Agency struct {
	ID             int64
	Name           string
	ParentAgencyID *int64
	IsForwarder    bool
}

func (a *Agency) IsRoot() bool {
	return a.ParentAgencyID == nil
}
