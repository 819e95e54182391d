package entities

type Role string

const (
	RoleRoot             Role = "ROOT"
	RoleAdministrator    Role = "ADMINISTRATOR"
	RoleForwarderAdmin   Role = "FORWARDER_ADMIN"
	RoleAgencyAdmin      Role = "AGENCY_ADMIN"
	RoleAgencySupervisor Role = "AGENCY_SUPERVISOR"
	RoleSalesAgent       Role = "SALES"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleRoot, RoleAdministrator, RoleForwarderAdmin, RoleAgencyAdmin, RoleAgencySupervisor, RoleSalesAgent:
		return true
	default:
		return false
	}
}

// CanBypass - повышенные роли обходят проверки изменяемости и принадлежности.
func (r Role) CanBypass() bool {
	return r == RoleRoot || r == RoleAdministrator
}

// Actor - пользователь, от имени которого выполняется операция.
type Actor struct {
	UserID   string
	AgencyID int64
	Role     Role
}

func (a Actor) CanBypass() bool {
	return a.Role.CanBypass()
}

// ActsFor - действует ли пользователь от имени агентства.
func (a Actor) ActsFor(agencyID int64) bool {
	return a.CanBypass() || a.AgencyID == agencyID
}
