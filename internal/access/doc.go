// Package access implements the portal's role-based access control core.
//
// The package is a pure decision layer: given a Principal (role, assigned LGA,
// user id, account state) and a requested operation on a resource kind, it
// decides whether the operation is permitted and which row-level scope filter
// the caller must apply to its query. It performs no I/O and holds no state;
// every data-fetch path in the portal calls the same Controller.Authorize
// facade instead of re-deriving the rules inline.
//
// # Roles
//
// Roles form a closed catalog (Role constants). A user holds exactly one role.
// Role strings coming from the session are kept verbatim; strings outside the
// catalog are authenticated but hold no capability, so every derived predicate
// fails closed for them.
//
// # Permission predicates
//
// IsAuthorized implements the base allow/deny list check. An empty allow-list
// authorizes any authenticated, non-denied role; this open-by-default rule is
// intentional and relied upon by call sites that expose reference data (such
// as the LGA catalog) to every signed-in role. Every capability that guards
// restricted data supplies a non-empty allow-list.
//
// # Scope filters
//
// ScopeFilter describes the row-visibility constraint for a permitted
// operation: unrestricted, by LGA, by owner, by own activity, the two-path
// LGA activity filter used for audit trails, or the compliance-pending
// anti-join. Denied is a distinct filter kind and can never be coerced into
// an unrestricted query: translating it to SQL is an error.
package access
