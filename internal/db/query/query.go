// Package query translates access.ScopeFilter decisions into gorm WHERE
// clauses. It is the only place where a scope filter touches SQL, so a
// Denied decision can never silently reach a query unscoped.
package query

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
)

var (
	// ErrDeniedScope is returned when a denied filter reaches the query
	// layer. Callers must handle denial before building a query.
	ErrDeniedScope = errors.New("denied scope filter cannot be applied to a query")
	// ErrUnsupportedScope is returned when a filter kind has no column
	// mapping for the queried resource.
	ErrUnsupportedScope = errors.New("scope filter not supported for this resource")
)

// Columns maps scope-filter fields onto the concrete columns of one table.
type Columns struct {
	// Lga is the column holding the row's LGA.
	Lga string
	// Owner is the column holding the row's owner or actor.
	Owner string
	// ActorLga is the actor-path LGA column for two-path activity filters.
	ActorLga string
	// VehicleLga is the vehicle-path LGA column for two-path activity filters.
	VehicleLga string
}

// Column mappings per resource table.
var (
	// Vehicles scopes territory by the registering LGA, ownership by owner.
	Vehicles = Columns{Lga: "registered_lga_id", Owner: "owner_id"}
	// Users scope by assigned LGA; "own" rows are the user's own account.
	Users = Columns{Lga: "lga_id", Owner: "id"}
	// Transactions scope by attributed LGA and paying owner.
	Transactions = Columns{Lga: "lga_id", Owner: "owner_id"}
	// Scans scope by scan LGA and the scanning agent.
	Scans = Columns{Lga: "lga_id", Owner: "scanned_by_id"}
	// AuditTrails scope by the actor's LGA, by the actor, or by the
	// two-path OR of actor and vehicle LGA.
	AuditTrails = Columns{
		Lga:        "actor_lga_id",
		Owner:      "actor_id",
		ActorLga:   "actor_lga_id",
		VehicleLga: "vehicle_lga_id",
	}
)

// Scoped applies a scope filter to a query using the given column mapping.
// Denied filters error instead of producing SQL.
func Scoped(q *gorm.DB, f access.ScopeFilter, cols Columns) (*gorm.DB, error) {
	switch f.Kind {
	case access.FilterUnrestricted:
		return q, nil

	case access.FilterByLga:
		if cols.Lga == "" {
			return nil, ErrUnsupportedScope
		}

		return q.Where(cols.Lga+" = ?", f.LgaID), nil

	case access.FilterByOwner, access.FilterOwnActivity:
		if cols.Owner == "" {
			return nil, ErrUnsupportedScope
		}

		return q.Where(cols.Owner+" = ?", f.UserID), nil

	case access.FilterLgaActivity:
		if cols.ActorLga == "" || cols.VehicleLga == "" {
			return nil, ErrUnsupportedScope
		}

		return q.Where(cols.ActorLga+" = ? OR "+cols.VehicleLga+" = ?", f.LgaID, f.LgaID), nil

	case access.FilterCompliancePending:
		// The anti-join is a vehicle-specific query; see CompliancePendingVehicles.
		return nil, ErrUnsupportedScope

	case access.FilterDenied:
		return nil, ErrDeniedScope
	}

	return nil, ErrDeniedScope
}

// CompliancePendingVehicles builds the compliance-pending anti-join: active
// vehicles in the filter's LGA (or state-wide when zero) with no scan since
// the compliance window cutoff.
func CompliancePendingVehicles(db *gorm.DB, f access.ScopeFilter, now time.Time) (*gorm.DB, error) {
	if f.Kind != access.FilterCompliancePending {
		if f.Denied() {
			return nil, ErrDeniedScope
		}

		return nil, ErrUnsupportedScope
	}

	cutoff := now.Add(-access.CompliancePendingWindow)

	q := db.Model(&models.Vehicle{}).
		Where("vehicles.status = ?", models.VehicleStatusActive).
		Where("NOT EXISTS (SELECT 1 FROM scans WHERE scans.vehicle_id = vehicles.id AND scans.created_at >= ?)", cutoff)

	if f.LgaID != 0 {
		q = q.Where("vehicles.registered_lga_id = ?", f.LgaID)
	}

	return q, nil
}
