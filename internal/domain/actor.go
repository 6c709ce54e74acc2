package domain

import "context"

// Role is the caller's role as asserted by the authentication layer.
type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleFinanceAdmin Role = "FINANCE_ADMIN"
	RoleHRAdmin      Role = "HR_ADMIN"
	RoleAccountant   Role = "ACCOUNTANT"
	RoleViewer       Role = "VIEWER"
	RoleSystem       Role = "SYSTEM"
)

var validRoles = map[Role]bool{
	RoleSuperAdmin:   true,
	RoleFinanceAdmin: true,
	RoleHRAdmin:      true,
	RoleAccountant:   true,
	RoleViewer:       true,
	RoleSystem:       true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanWriteLedger reports whether the role may create or change journal entries and accounts.
func (r Role) CanWriteLedger() bool {
	switch r {
	case RoleSuperAdmin, RoleFinanceAdmin, RoleAccountant, RoleSystem:
		return true
	}
	return false
}

// CanRunPayroll reports whether the role may process payroll.
func (r Role) CanRunPayroll() bool {
	switch r {
	case RoleSuperAdmin, RoleFinanceAdmin, RoleHRAdmin, RoleSystem:
		return true
	}
	return false
}

// CanManageApprovals reports whether the role may edit approval routing.
func (r Role) CanManageApprovals() bool {
	return r == RoleSuperAdmin || r == RoleFinanceAdmin
}

// Actor is the validated identity every engine operation runs on behalf of.
// Authentication and permission checks happen before an Actor is built.
type Actor struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      Role   `json:"role"`
}

// Validate checks that all actor fields are present and the role is known.
func (a Actor) Validate() error {
	if a.UserID == "" || a.CompanyID == "" || !a.Role.IsValid() {
		return ErrInvalidActor
	}
	return nil
}

type actorContextKey struct{}

// ContextWithActor stores the actor on ctx.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored by ContextWithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
