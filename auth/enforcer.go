package auth

import (
	_ "embed"
	"fmt"

	"empresspc/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var modelText string

const (
	ObjectQuotation = "quotation"
	ObjectParty     = "party"
	ObjectComponent = "component"
	ObjectUser      = "user"
	ObjectProfile   = "profile"
)

const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// Enforcer answers role permission questions. Ownership is handled by Scope.
type Enforcer struct {
	e *casbin.SyncedEnforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if err := seedPolicies(e); err != nil {
		return nil, fmt.Errorf("seed policies: %w", err)
	}
	return &Enforcer{e: e}, nil
}

func seedPolicies(e *casbin.SyncedEnforcer) error {
	staff, admin := string(models.RoleStaff), string(models.RoleAdmin)
	policies := [][]string{
		{staff, ObjectQuotation, ActionRead},
		{staff, ObjectQuotation, ActionWrite},
		{staff, ObjectParty, ActionRead},
		{staff, ObjectParty, ActionWrite},
		{staff, ObjectComponent, ActionRead},
		{staff, ObjectProfile, ActionRead},

		{admin, ObjectComponent, ActionWrite},
		{admin, ObjectUser, ActionRead},
		{admin, ObjectUser, ActionWrite},
		{admin, ObjectProfile, ActionWrite},
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p); err != nil {
			return err
		}
	}
	_, err := e.AddGroupingPolicy(admin, staff)
	return err
}

func (e *Enforcer) Allowed(role models.Role, object, action string) (bool, error) {
	return e.e.Enforce(string(role), object, action)
}
