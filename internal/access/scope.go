package access

import "time"

// FilterKind tags the shape of a ScopeFilter.
type FilterKind string

const (
	// FilterDenied means no rows are visible. It is the zero value so a
	// forgotten filter can never widen access.
	FilterDenied FilterKind = ""
	// FilterUnrestricted applies no row constraint.
	FilterUnrestricted FilterKind = "unrestricted"
	// FilterByLga constrains rows to the principal's LGA.
	FilterByLga FilterKind = "by_lga"
	// FilterByOwner constrains rows to those owned by the principal.
	FilterByOwner FilterKind = "by_owner"
	// FilterOwnActivity constrains rows to those the principal produced.
	FilterOwnActivity FilterKind = "own_activity"
	// FilterLgaActivity matches audit rows whose actor LGA or affected
	// vehicle LGA equals the principal's LGA (two-field OR).
	FilterLgaActivity FilterKind = "lga_activity"
	// FilterCompliancePending matches active vehicles in the principal's
	// LGA with no scan inside the compliance window (anti-join).
	FilterCompliancePending FilterKind = "compliance_pending"
)

// CompliancePendingWindow is the lookback inside which a scan keeps a
// vehicle compliant.
const CompliancePendingWindow = 30 * 24 * time.Hour

// ScopeFilter is the row-level visibility constraint computed for a single
// authorization decision. It has no identity beyond that decision and is
// never persisted.
type ScopeFilter struct {
	Kind   FilterKind
	LgaID  uint64
	UserID uint64
}

// Unrestricted returns the no-constraint filter.
func Unrestricted() ScopeFilter {
	return ScopeFilter{Kind: FilterUnrestricted}
}

// ByLga returns a filter constraining rows to one LGA.
func ByLga(lgaID uint64) ScopeFilter {
	return ScopeFilter{Kind: FilterByLga, LgaID: lgaID}
}

// ByOwner returns a filter constraining rows to one owner.
func ByOwner(userID uint64) ScopeFilter {
	return ScopeFilter{Kind: FilterByOwner, UserID: userID}
}

// OwnActivity returns a filter constraining rows to one actor.
func OwnActivity(userID uint64) ScopeFilter {
	return ScopeFilter{Kind: FilterOwnActivity, UserID: userID}
}

// LgaActivity returns the two-path audit filter for one LGA.
func LgaActivity(lgaID uint64) ScopeFilter {
	return ScopeFilter{Kind: FilterLgaActivity, LgaID: lgaID}
}

// CompliancePending returns the anti-join filter for one LGA.
// A zero lgaID means state-wide (admin view).
func CompliancePending(lgaID uint64) ScopeFilter {
	return ScopeFilter{Kind: FilterCompliancePending, LgaID: lgaID}
}

// DeniedFilter returns the no-rows filter.
func DeniedFilter() ScopeFilter {
	return ScopeFilter{Kind: FilterDenied}
}

// Denied reports whether the filter blocks all rows.
func (f ScopeFilter) Denied() bool {
	return f.Kind == FilterDenied
}

// scopeFor translates principal and resource kind into a ScopeFilter.
// It assumes the categorical permission check has already passed.
// Rules apply in priority order; first match wins.
func scopeFor(p *Principal, res Resource) ScopeFilter {
	// Rule 1: owners see their own vehicles and transactions only.
	if p.Role == RoleVehicleOwner && (res == ResourceVehicle || res == ResourceTransaction) {
		return ByOwner(p.ID)
	}

	// Rule 2: LGA roles are fenced into their assigned LGA. A missing
	// assignment denies; it must never widen access.
	if IsLGARole(p.Role) && lgaScoped(res) {
		if p.LgaID == nil {
			return DeniedFilter()
		}

		switch {
		case res == ResourceAuditTrail && p.Role == RoleLgaAdmin:
			// An LGA admin sees what their agents did and what happened
			// to vehicles in their territory. Different join paths.
			return LgaActivity(*p.LgaID)
		case (res == ResourceAuditTrail || res == ResourceScan) && p.Role == RoleLgaAgent:
			// Agents see their own actions, not the whole territory.
			return OwnActivity(p.ID)
		}

		return ByLga(*p.LgaID)
	}

	// Rule 3: state-wide roles with a view capability for the resource
	// see everything.
	if globalFor(p.Role, res) {
		return Unrestricted()
	}

	return DeniedFilter()
}

// lgaScoped reports whether the resource kind carries an LGA field.
func lgaScoped(res Resource) bool {
	switch res {
	case ResourceVehicle, ResourceUser, ResourceTransaction, ResourceAuditTrail, ResourceScan:
		return true
	case ResourceLga:
		return false
	}

	return false
}

// globalFor reports whether the role holds an unrestricted view of the
// resource kind.
func globalFor(role Role, res Resource) bool {
	if CanAccessAdmin(role) {
		return true
	}

	switch res {
	case ResourceTransaction:
		// Partner revenue agencies see state-wide transaction reporting;
		// state revenue service staff record levies anywhere. The view
		// capability still keeps revenue reads away from EIRS roles.
		return role == RoleAgencyAdmin || role == RoleOdirsAdmin ||
			role == RoleEirsAdmin || role == RoleEirsAgent
	case ResourceVehicle:
		// State revenue service staff register vehicles anywhere.
		return role == RoleEirsAdmin || role == RoleEirsAgent
	case ResourceUser, ResourceLga, ResourceAuditTrail, ResourceScan:
		return false
	}

	return false
}

// LgaAllowList is the set of LGAs a principal may register vehicles into.
// This constrains write-time input validation, not just read visibility.
type LgaAllowList struct {
	// All is true for state-wide roles that may pick any LGA.
	All bool
	// IDs is the explicit allow-list when All is false.
	IDs []uint64
}

// Allows reports whether the target LGA is selectable.
func (l LgaAllowList) Allows(lgaID uint64) bool {
	if l.All {
		return true
	}

	for _, id := range l.IDs {
		if id == lgaID {
			return true
		}
	}

	return false
}

// Empty reports whether no LGA is selectable at all.
func (l LgaAllowList) Empty() bool {
	return !l.All && len(l.IDs) == 0
}
