package domain

// Actor is the authenticated caller decoded from the bearer token.
type Actor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

type Action string

const (
	ActionUserManage Action = "user:manage"

	ActionPackageWrite Action = "package:write"

	ActionSubscriptionCreate Action = "subscription:create"
	ActionSubscriptionUpdate Action = "subscription:update"

	ActionInstallationCreate Action = "installation:create"
	ActionInstallationStatus Action = "installation:status"
	ActionInstallationAssign Action = "installation:assign"

	ActionBillCreate  Action = "bill:create"
	ActionBillUpdate  Action = "bill:update"
	ActionBillPay     Action = "bill:pay"
	ActionBillConfirm Action = "bill:confirm"
	ActionBillRemind  Action = "bill:remind"

	ActionTicketCreate  Action = "ticket:create"
	ActionTicketStatus  Action = "ticket:status"
	ActionTicketRespond Action = "ticket:respond"
	ActionTicketAssign  Action = "ticket:assign"

	ActionJobView   Action = "job:view"
	ActionJobCreate Action = "job:create"
	ActionJobUpdate Action = "job:update"

	ActionNotificationCreate    Action = "notification:create"
	ActionNotificationBroadcast Action = "notification:broadcast"

	ActionStatCreate    Action = "stat:create"
	ActionPaymentStats  Action = "payment:stats"
	ActionReportManage  Action = "report:manage"
	ActionActivityView  Action = "activity:view"
	ActionProfileUpdate Action = "profile:update"
)

var permissionTable = map[Action][]string{
	ActionUserManage: {RoleAdmin},

	ActionPackageWrite: {RoleAdmin},

	ActionSubscriptionCreate: {RoleCustomer, RoleAdmin},
	ActionSubscriptionUpdate: {RoleAdmin},

	ActionInstallationCreate: {RoleCustomer, RoleAdmin},
	ActionInstallationStatus: {RoleTechnician, RoleAdmin},
	ActionInstallationAssign: {RoleAdmin},

	ActionBillCreate:  {RoleAdmin},
	ActionBillUpdate:  {RoleAdmin},
	ActionBillPay:     {RoleCustomer, RoleAdmin},
	ActionBillConfirm: {RoleAdmin},
	ActionBillRemind:  {RoleAdmin},

	ActionTicketCreate:  {RoleCustomer, RoleAdmin},
	ActionTicketStatus:  {RoleTechnician, RoleAdmin},
	ActionTicketRespond: {RoleTechnician, RoleAdmin},
	ActionTicketAssign:  {RoleAdmin},

	ActionJobView:   {RoleTechnician, RoleAdmin},
	ActionJobCreate: {RoleAdmin},
	ActionJobUpdate: {RoleTechnician, RoleAdmin},

	ActionNotificationCreate:    {RoleAdmin},
	ActionNotificationBroadcast: {RoleAdmin},

	ActionStatCreate:    {RoleCustomer, RoleTechnician, RoleAdmin},
	ActionPaymentStats:  {RoleAdmin},
	ActionReportManage:  {RoleAdmin},
	ActionActivityView:  {RoleCustomer, RoleTechnician, RoleAdmin},
	ActionProfileUpdate: {RoleCustomer, RoleTechnician, RoleAdmin},
}

// Can reports whether role may perform action. Unknown actions are denied.
func Can(role string, action Action) bool {
	for _, r := range permissionTable[action] {
		if r == role {
			return true
		}
	}
	return false
}

// CanAccess is the single ownership predicate: admins reach every row, everyone
// else only rows whose owner id equals their own.
func CanAccess(actor Actor, ownerID uint) bool {
	return actor.IsAdmin() || (actor.ID != 0 && actor.ID == ownerID)
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTechnician, RoleCustomer:
		return true
	}
	return false
}

// ActorContextKey is the gin context key holding the authenticated Actor.
const ActorContextKey = "actor"
