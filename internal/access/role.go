package access

// Role identifies a principal's class. The catalog is closed: adding a role
// means adding a constant here and revisiting every capability allow-list.
type Role string

const (
	// RoleNone is the zero value, representing an unauthenticated principal.
	RoleNone Role = ""

	// RoleSuperAdmin is the state-wide superadministrator.
	RoleSuperAdmin Role = "SUPERADMIN"
	// RoleAdmin is a state-wide administrator.
	RoleAdmin Role = "ADMIN"
	// RoleAgencyAdmin administers a partner revenue agency.
	RoleAgencyAdmin Role = "AGENCY_ADMIN"
	// RoleOdirsAdmin administers the ODIRS revenue service integration.
	RoleOdirsAdmin Role = "ODIRS_ADMIN"
	// RoleEirsAdmin administers the state internal revenue service.
	RoleEirsAdmin Role = "EIRS_ADMIN"
	// RoleEirsAgent is a field agent of the state internal revenue service.
	RoleEirsAgent Role = "EIRS_AGENT"
	// RoleLgaAdmin administers a single local government area.
	RoleLgaAdmin Role = "LGA_ADMIN"
	// RoleLgaAgent is a registration agent assigned to a single LGA.
	RoleLgaAgent Role = "LGA_AGENT"
	// RoleLgaComplianceAgent is a compliance (scanning) agent assigned to a single LGA.
	RoleLgaComplianceAgent Role = "LGA_C_AGENT"
	// RoleVehicleOwner is a registered vehicle owner.
	RoleVehicleOwner Role = "VEHICLE_OWNER"
)

// Roles returns the closed role catalog.
func Roles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleAgencyAdmin,
		RoleOdirsAdmin,
		RoleEirsAdmin,
		RoleEirsAgent,
		RoleLgaAdmin,
		RoleLgaAgent,
		RoleLgaComplianceAgent,
		RoleVehicleOwner,
	}
}

// Known reports whether the role is part of the catalog.
// Unknown roles are authenticated but hold no capability.
func (r Role) Known() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}

	return false
}

// ParseRole maps a stored role string onto the catalog. Strings outside the
// catalog are returned verbatim so they stay visible in logs; they never gain
// a capability.
func ParseRole(s string) Role {
	return Role(s)
}

// Resource is the kind of entity being protected.
type Resource string

const (
	// ResourceVehicle covers vehicle records.
	ResourceVehicle Resource = "vehicle"
	// ResourceUser covers user accounts.
	ResourceUser Resource = "user"
	// ResourceLga covers local government area records.
	ResourceLga Resource = "lga"
	// ResourceTransaction covers revenue transactions.
	ResourceTransaction Resource = "transaction"
	// ResourceAuditTrail covers audit trail entries.
	ResourceAuditTrail Resource = "audit_trail"
	// ResourceScan covers compliance scan records.
	ResourceScan Resource = "scan"
)

// Operation is the action requested on a resource kind.
type Operation string

const (
	// OpView reads one or many rows.
	OpView Operation = "view"
	// OpCreate inserts a row.
	OpCreate Operation = "create"
	// OpEdit updates a row.
	OpEdit Operation = "edit"
	// OpDelete removes a row.
	OpDelete Operation = "delete"
	// OpManage covers administrative bulk operations.
	OpManage Operation = "manage"
)

// Principal is the authenticated actor. It is built fresh from the session on
// every request and never cached beyond a single call.
type Principal struct {
	// ID is the user id of the actor.
	ID uint64
	// Role is the actor's single assigned role.
	Role Role
	// LgaID is the actor's assigned LGA. Nil for state-wide roles; a nil
	// LgaID on an LGA role is a permission failure, never a crash.
	LgaID *uint64
	// Active is false for suspended accounts.
	Active bool
	// Blacklisted invalidates all permissions regardless of role.
	Blacklisted bool
}

// Authenticated reports whether the principal carries a role at all.
func (p *Principal) Authenticated() bool {
	return p != nil && p.ID != 0 && p.Role != RoleNone
}

// Restricted reports whether the account state overrides every permission.
func (p *Principal) Restricted() bool {
	return p.Blacklisted || !p.Active
}
