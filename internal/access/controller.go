package access

// Reason tags why an authorization decision denied.
type Reason string

const (
	// ReasonUnauthenticated means no principal was presented.
	ReasonUnauthenticated Reason = "unauthenticated"
	// ReasonAccountRestricted means the account is inactive or blacklisted.
	// It takes precedence over every role-derived permission.
	ReasonAccountRestricted Reason = "account_restricted"
	// ReasonRoleNotPermitted means the role lacks the categorical capability.
	ReasonRoleNotPermitted Reason = "role_not_permitted"
	// ReasonNoScope means the role holds the capability but no resolvable
	// scope, such as an LGA role without an assigned LGA.
	ReasonNoScope Reason = "no_scope"
)

// DeniedError is the decision outcome for a refused operation. Expected
// denial paths return it as a value; it is never a panic.
type DeniedError struct {
	Reason Reason
}

// Error implements the error interface.
func (e *DeniedError) Error() string {
	return "access denied: " + string(e.Reason)
}

// Deny builds a DeniedError for a reason.
func Deny(reason Reason) *DeniedError {
	return &DeniedError{Reason: reason}
}

// DeniedReason extracts the denial reason from an error, if it is one.
func DeniedReason(err error) (Reason, bool) {
	denied, ok := err.(*DeniedError) //nolint:errorlint
	if !ok {
		return "", false
	}

	return denied.Reason, true
}

// Controller is the single authorization entry point. It is stateless and
// safe for concurrent use; callers construct one and share it.
type Controller struct{}

// NewController creates an access controller.
func NewController() *Controller {
	return &Controller{}
}

// Authorize decides whether the principal may perform the operation on the
// resource kind and, if so, which scope filter the caller must apply to its
// query. On denial the returned filter is the no-rows filter and the error
// carries the reason; callers must not issue the query.
func (ctl *Controller) Authorize(p *Principal, op Operation, res Resource) (ScopeFilter, error) {
	if !p.Authenticated() {
		return DeniedFilter(), Deny(ReasonUnauthenticated)
	}

	// Account state overrides role power, superadmin included.
	if p.Restricted() {
		return DeniedFilter(), Deny(ReasonAccountRestricted)
	}

	if !authorizedFor(p.Role, op, res) {
		return DeniedFilter(), Deny(ReasonRoleNotPermitted)
	}

	filter := scopeFor(p, res)
	if filter.Denied() {
		return DeniedFilter(), Deny(ReasonNoScope)
	}

	return filter, nil
}

// CreatableLgas returns the LGAs the principal may register vehicles into.
// LGA roles get exactly their assigned LGA; a missing assignment yields an
// empty list, which rejects every target.
func (ctl *Controller) CreatableLgas(p *Principal) (LgaAllowList, error) {
	if !p.Authenticated() {
		return LgaAllowList{}, Deny(ReasonUnauthenticated)
	}

	if p.Restricted() {
		return LgaAllowList{}, Deny(ReasonAccountRestricted)
	}

	if !CanCreateVehicles(p.Role) {
		return LgaAllowList{}, Deny(ReasonRoleNotPermitted)
	}

	if IsLGARole(p.Role) {
		if p.LgaID == nil {
			return LgaAllowList{}, Deny(ReasonNoScope)
		}

		return LgaAllowList{IDs: []uint64{*p.LgaID}}, nil
	}

	return LgaAllowList{All: true}, nil
}

// PendingCompliance returns the anti-join filter for the compliance-pending
// vehicle count: active vehicles in scope with no scan inside the
// compliance window.
func (ctl *Controller) PendingCompliance(p *Principal) (ScopeFilter, error) {
	if !p.Authenticated() {
		return DeniedFilter(), Deny(ReasonUnauthenticated)
	}

	if p.Restricted() {
		return DeniedFilter(), Deny(ReasonAccountRestricted)
	}

	switch {
	case IsComplianceAgent(p.Role) || p.Role == RoleLgaAdmin:
		if p.LgaID == nil {
			return DeniedFilter(), Deny(ReasonNoScope)
		}

		return CompliancePending(*p.LgaID), nil
	case CanAccessAdmin(p.Role):
		return CompliancePending(0), nil
	}

	return DeniedFilter(), Deny(ReasonRoleNotPermitted)
}
