package auth

import (
	"gorm.io/gorm"

	"github.com/eirs-ng/vras/internal/access"
	"github.com/eirs-ng/vras/internal/db/models"
)

// Service ties request authorization to the central access controller.
type Service struct {
	db   *gorm.DB
	ctrl *access.Controller
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:   db,
		ctrl: access.NewController(),
	}
}

// Principal builds the access principal for a session user. The role string
// is carried verbatim; unknown roles pass the open base rule but fail every
// capability check.
func Principal(u *models.User) *access.Principal {
	if u == nil {
		return nil
	}

	return &access.Principal{
		ID:          u.ID,
		Role:        access.ParseRole(u.Role),
		LgaID:       u.LgaID,
		Active:      u.Active,
		Blacklisted: u.Blacklisted,
	}
}

// Authorize resolves the scope filter for a user performing an operation
// on a resource.
func (s *Service) Authorize(u *models.User, op access.Operation, res access.Resource) (access.ScopeFilter, error) {
	return s.ctrl.Authorize(Principal(u), op, res)
}

// CreatableLgas resolves the write-time LGA allow-list for a user.
func (s *Service) CreatableLgas(u *models.User) (access.LgaAllowList, error) {
	return s.ctrl.CreatableLgas(Principal(u))
}

// PendingCompliance resolves the compliance worklist filter for a user.
func (s *Service) PendingCompliance(u *models.User) (access.ScopeFilter, error) {
	return s.ctrl.PendingCompliance(Principal(u))
}

// Can reports whether a user's role carries a capability.
func (s *Service) Can(u *models.User, cap access.Capability) bool {
	if u == nil {
		return false
	}

	p := Principal(u)
	if !p.Authenticated() || p.Restricted() {
		return false
	}

	return access.Can(p.Role, cap)
}
