package access

// IsAuthorized is the base allow/deny list check.
//
// A RoleNone principal is always refused. A role on the denied list is
// refused even when it also appears on the allowed list. An empty allowed
// list authorizes any remaining authenticated role; call sites guarding
// restricted data must therefore always pass an explicit allow-list.
func IsAuthorized(role Role, allowed []Role, denied []Role) bool {
	if role == RoleNone {
		return false
	}

	for _, d := range denied {
		if role == d {
			return false
		}
	}

	if len(allowed) == 0 {
		return true
	}

	for _, a := range allowed {
		if role == a {
			return true
		}
	}

	return false
}

// Capability names a categorical permission on a resource kind,
// independent of row-level scoping.
type Capability string

const (
	// CapAccessAdmin allows entering the state-wide admin surface.
	CapAccessAdmin Capability = "admin.access"
	// CapManageUsers allows creating, editing and blacklisting user accounts.
	CapManageUsers Capability = "users.manage"
	// CapManageLgas allows managing LGA records.
	CapManageLgas Capability = "lgas.manage"
	// CapCreateVehicles allows registering new vehicles.
	CapCreateVehicles Capability = "vehicles.create"
	// CapViewVehicles allows listing vehicles within scope.
	CapViewVehicles Capability = "vehicles.view"
	// CapEditVehicles allows editing vehicle records within scope.
	CapEditVehicles Capability = "vehicles.edit"
	// CapScanVehicles allows recording and viewing compliance scans.
	CapScanVehicles Capability = "vehicles.scan"
	// CapViewOwnVehicles allows a vehicle owner to see their own vehicles.
	CapViewOwnVehicles Capability = "vehicles.view.own"
	// CapViewTransactions allows viewing revenue transactions within scope.
	CapViewTransactions Capability = "transactions.view"
	// CapRecordTransactions allows recording a revenue transaction.
	CapRecordTransactions Capability = "transactions.record"
	// CapViewAuditTrail allows viewing audit trail entries within scope.
	CapViewAuditTrail Capability = "audit.view"
	// CapManageFeeSettings allows managing fee settings.
	CapManageFeeSettings Capability = "fees.manage"
)

// capabilityRoles is the fixed allow-list per capability. Every entry is
// non-empty on purpose: a capability without an explicit allow-list would
// silently grant universal access through the open-by-default base rule.
var capabilityRoles = map[Capability][]Role{ //nolint:gochecknoglobals
	CapAccessAdmin:   {RoleSuperAdmin, RoleAdmin},
	CapManageUsers:   {RoleSuperAdmin, RoleAdmin},
	CapManageLgas:    {RoleSuperAdmin, RoleAdmin, RoleLgaAdmin},
	CapCreateVehicles: {
		RoleSuperAdmin, RoleAdmin, RoleLgaAdmin, RoleLgaAgent, RoleEirsAdmin, RoleEirsAgent,
	},
	CapViewVehicles: {
		RoleSuperAdmin, RoleAdmin, RoleLgaAdmin, RoleLgaAgent, RoleLgaComplianceAgent,
	},
	CapEditVehicles: {RoleSuperAdmin, RoleAdmin, RoleLgaAdmin, RoleLgaAgent},
	CapScanVehicles: {
		RoleSuperAdmin, RoleAdmin, RoleLgaAdmin, RoleLgaAgent, RoleLgaComplianceAgent,
	},
	CapViewOwnVehicles: {RoleVehicleOwner},
	CapViewTransactions: {
		RoleSuperAdmin, RoleAdmin, RoleAgencyAdmin, RoleOdirsAdmin,
		RoleLgaAdmin, RoleLgaAgent, RoleLgaComplianceAgent, RoleVehicleOwner,
	},
	CapRecordTransactions: {
		RoleSuperAdmin, RoleAdmin, RoleLgaAdmin, RoleLgaAgent,
		RoleEirsAdmin, RoleEirsAgent, RoleVehicleOwner,
	},
	CapViewAuditTrail: {
		RoleSuperAdmin, RoleAdmin, RoleLgaAdmin, RoleLgaAgent, RoleLgaComplianceAgent,
	},
	CapManageFeeSettings: {RoleSuperAdmin, RoleAdmin},
}

// Can reports whether the role holds the capability. Unknown capabilities
// fail closed.
func Can(role Role, cap Capability) bool {
	allowed, ok := capabilityRoles[cap]
	if !ok {
		return false
	}

	return IsAuthorized(role, allowed, nil)
}

// AllowedRoles returns a copy of the allow-list for a capability.
func AllowedRoles(cap Capability) []Role {
	allowed := capabilityRoles[cap]
	out := make([]Role, len(allowed))
	copy(out, allowed)

	return out
}

// CanAccessAdmin reports whether the role may enter the admin surface.
func CanAccessAdmin(role Role) bool { return Can(role, CapAccessAdmin) }

// CanManageUsers reports whether the role may manage user accounts.
func CanManageUsers(role Role) bool { return Can(role, CapManageUsers) }

// CanManageLGAs reports whether the role may manage LGA records.
func CanManageLGAs(role Role) bool { return Can(role, CapManageLgas) }

// CanCreateVehicles reports whether the role may register vehicles.
func CanCreateVehicles(role Role) bool { return Can(role, CapCreateVehicles) }

// CanViewVehicles reports whether the role may list vehicles within scope.
func CanViewVehicles(role Role) bool { return Can(role, CapViewVehicles) }

// CanEditVehicles reports whether the role may edit vehicles within scope.
func CanEditVehicles(role Role) bool { return Can(role, CapEditVehicles) }

// CanScanVehicles reports whether the role may record compliance scans.
func CanScanVehicles(role Role) bool { return Can(role, CapScanVehicles) }

// CanViewOwnVehicles reports whether the role sees only its own vehicles.
func CanViewOwnVehicles(role Role) bool { return Can(role, CapViewOwnVehicles) }

// IsComplianceAgent reports whether the role is exactly the LGA compliance agent.
func IsComplianceAgent(role Role) bool { return role == RoleLgaComplianceAgent }

// IsLGARole reports whether the role is scoped to a single LGA.
func IsLGARole(role Role) bool {
	return role == RoleLgaAdmin || role == RoleLgaAgent || role == RoleLgaComplianceAgent
}

// authorizedFor maps an (operation, resource) pair onto capability checks.
// Pairs the portal does not use fail closed.
func authorizedFor(role Role, op Operation, res Resource) bool {
	switch res {
	case ResourceVehicle:
		switch op {
		case OpView:
			return CanViewVehicles(role) || CanViewOwnVehicles(role)
		case OpCreate:
			return CanCreateVehicles(role)
		case OpEdit:
			return CanEditVehicles(role)
		case OpDelete, OpManage:
			return CanAccessAdmin(role)
		}

	case ResourceScan:
		switch op {
		case OpView, OpCreate:
			return CanScanVehicles(role)
		case OpEdit, OpDelete, OpManage:
			return CanAccessAdmin(role)
		}

	case ResourceUser:
		switch op {
		case OpView:
			return CanManageUsers(role) || IsLGARole(role)
		case OpCreate, OpEdit, OpDelete, OpManage:
			return CanManageUsers(role)
		}

	case ResourceLga:
		switch op {
		case OpView:
			// The LGA catalog is reference data: every authenticated role
			// sees it (registration forms, dashboards).
			return IsAuthorized(role, nil, nil)
		case OpCreate, OpEdit, OpDelete, OpManage:
			return CanManageLGAs(role)
		}

	case ResourceTransaction:
		switch op {
		case OpView:
			return Can(role, CapViewTransactions)
		case OpCreate:
			return Can(role, CapRecordTransactions)
		case OpEdit, OpDelete, OpManage:
			return CanAccessAdmin(role)
		}

	case ResourceAuditTrail:
		switch op {
		case OpView:
			return Can(role, CapViewAuditTrail) || CanAccessAdmin(role)
		case OpCreate, OpEdit, OpDelete, OpManage:
			// Audit entries are appended by the system, never managed by hand.
			return false
		}
	}

	return false
}
