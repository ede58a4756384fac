// Package authz evaluates the fixed permission rules of the account system.
// Decisions are pure functions of the caller and the target: nothing here
// reads the store or caches results, so every request is evaluated fresh.
package authz

import "mtambo/internal/models"

// Action is a collection- or object-level operation being authorized.
type Action string

const (
	ActionCreate   Action = "create"
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Resource identifies the entity kind an action targets.
type Resource string

const (
	ResourceUser       Resource = "user"
	ResourceCompany    Resource = "maintenance_company"
	ResourceTechnician Resource = "technician"
)

// CanAct is the collection-level gate. Account creation is open to anyone;
// every other action requires an authenticated, active caller. Listing users
// is reserved for staff/superusers, listing companies for superusers and
// maintenance admins.
func CanAct(caller Caller, action Action, resource Resource) bool {
	if resource == ResourceUser && action == ActionCreate {
		return true
	}
	if !caller.active() {
		return false
	}
	if action != ActionList {
		return true
	}
	switch resource {
	case ResourceUser:
		return caller.IsStaff || caller.IsSuperuser
	case ResourceCompany:
		// Maintenance callers are admitted here; scoping narrows the
		// result to companies they actually administer.
		return caller.IsSuperuser || caller.IsStaff ||
			caller.AccountType == models.AccountTypeMaintenance
	default:
		return true
	}
}

// CanActOnUser allows a caller to act on a user object only if it is their
// own account, unless privileged.
func CanActOnUser(caller Caller, target *models.User) bool {
	if !caller.active() {
		return false
	}
	if caller.privileged() {
		return true
	}
	return target.ID == caller.ID
}

// CanActOnCompany allows the company's admin or a privileged caller.
func CanActOnCompany(caller Caller, target *models.MaintenanceCompanyProfile) bool {
	if !caller.active() {
		return false
	}
	if caller.privileged() {
		return true
	}
	return target.AdministeredBy(caller.ID)
}

// CanActOnTechnician allows the owning technician, the admin of the
// technician's company, or a privileged caller.
func CanActOnTechnician(caller Caller, target *models.TechnicianProfile) bool {
	if !caller.active() {
		return false
	}
	if caller.privileged() {
		return true
	}
	if target.UserID == caller.ID {
		return true
	}
	return target.MaintenanceCompany != nil && target.MaintenanceCompany.AdministeredBy(caller.ID)
}

// CanManageCompanyTechnicians gates the directory operations (list, add,
// remove, create technicians under a company).
func CanManageCompanyTechnicians(caller Caller, company *models.MaintenanceCompanyProfile) bool {
	if !caller.active() {
		return false
	}
	if caller.privileged() {
		return true
	}
	return company.AdministeredBy(caller.ID)
}
